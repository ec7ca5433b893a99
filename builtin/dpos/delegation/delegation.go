// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
)

// WithdrawIntent is a queued withdrawal, confirmable once the slash window has passed.
type WithdrawIntent struct {
	Amount       *big.Int
	ProposedTime uint64
}

// Delegation is the stake of one delegator behind one candidate.
type Delegation struct {
	DelegatedStake    *big.Int
	UndelegatingStake *big.Int
	Intents           []WithdrawIntent
}

func (d *Delegation) normalize() {
	if d.DelegatedStake == nil {
		d.DelegatedStake = new(big.Int)
	}
	if d.UndelegatingStake == nil {
		d.UndelegatingStake = new(big.Int)
	}
	for i := range d.Intents {
		if d.Intents[i].Amount == nil {
			d.Intents[i].Amount = new(big.Int)
		}
	}
}

// Total is delegated plus undelegating stake.
func (d *Delegation) Total() *big.Int {
	return new(big.Int).Add(d.DelegatedStake, d.UndelegatingStake)
}

func (d *Delegation) Delegate(amount *big.Int) {
	d.DelegatedStake = new(big.Int).Add(d.DelegatedStake, amount)
}

// Withdraw takes amount out of the delegated stake with no timelock.
func (d *Delegation) Withdraw(amount *big.Int) error {
	if d.DelegatedStake.Cmp(amount) < 0 {
		return reverts.ErrInsufficientStake
	}
	d.DelegatedStake = new(big.Int).Sub(d.DelegatedStake, amount)
	return nil
}

// IntendWithdraw moves amount to the undelegating stake and queues an intent.
func (d *Delegation) IntendWithdraw(amount *big.Int, block uint64) error {
	if err := d.Withdraw(amount); err != nil {
		return err
	}
	d.UndelegatingStake = new(big.Int).Add(d.UndelegatingStake, amount)
	d.Intents = append(d.Intents, WithdrawIntent{Amount: new(big.Int).Set(amount), ProposedTime: block})
	return nil
}

// ConfirmWithdraw pops matured intents in FIFO order, stopping at the first immature one.
// The paid amount is clamped by the undelegating stake, which slashes may have shrunk.
func (d *Delegation) ConfirmWithdraw(matured func(WithdrawIntent) bool) *big.Int {
	sum := new(big.Int)
	n := 0
	for ; n < len(d.Intents) && matured(d.Intents[n]); n++ {
		sum.Add(sum, d.Intents[n].Amount)
	}
	if n == 0 {
		return new(big.Int)
	}
	d.Intents = append([]WithdrawIntent(nil), d.Intents[n:]...)

	paid := sum
	if paid.Cmp(d.UndelegatingStake) > 0 {
		paid = new(big.Int).Set(d.UndelegatingStake)
	}
	d.UndelegatingStake = new(big.Int).Sub(d.UndelegatingStake, paid)
	return paid
}

// Slash debits amount, undelegating stake first. It returns how much came out of the
// delegated stake, which is what the candidate's staking pool loses.
func (d *Delegation) Slash(amount *big.Int) (*big.Int, error) {
	if d.Total().Cmp(amount) < 0 {
		return nil, reverts.ErrPenaltyExceedsStake
	}
	fromUndelegating := new(big.Int).Set(amount)
	if fromUndelegating.Cmp(d.UndelegatingStake) > 0 {
		fromUndelegating.Set(d.UndelegatingStake)
	}
	fromDelegated := new(big.Int).Sub(amount, fromUndelegating)

	d.UndelegatingStake = new(big.Int).Sub(d.UndelegatingStake, fromUndelegating)
	d.DelegatedStake = new(big.Int).Sub(d.DelegatedStake, fromDelegated)
	return fromDelegated, nil
}
