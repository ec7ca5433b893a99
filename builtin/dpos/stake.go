// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/candidate"
	"github.com/sgnlabs/dpos/builtin/dpos/delegation"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/thor"
)

func checkMinUnit(amount *big.Int) error {
	if amount.Cmp(thor.MinUnit) < 0 {
		return reverts.ErrBelowMinimum
	}
	return nil
}

// Delegate moves amount of the caller's tokens behind cand. The engine must hold
// an allowance of at least amount.
func (d *DPoS) Delegate(env Env, cand thor.Address, amount *big.Int) (*Receipt, error) {
	logger.Debug("delegating", "delegator", env.Caller, "candidate", cand, "amount", amount)

	return d.call("delegate", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := d.notMigrating(env); err != nil {
			return err
		}
		if err := checkMinUnit(amount); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(cand)
		if err != nil {
			return err
		}
		if err := d.pullTokens(env.Caller, amount); err != nil {
			return err
		}

		del, err := d.delegations.Get(cand, env.Caller)
		if err != nil {
			return err
		}
		del.Delegate(amount)
		c.AddPool(amount)
		if err := d.store(cand, env.Caller, c, del); err != nil {
			return err
		}
		if c.IsBonded() {
			if err := d.validators.Update(cand, c.StakingPool); err != nil {
				return err
			}
		}
		evs.Emit(&events.Delegate{
			Delegator:   env.Caller,
			Candidate:   cand,
			NewStake:    del.DelegatedStake,
			StakingPool: c.StakingPool,
		})
		return nil
	})
}

// WithdrawFromUnbondedCandidate withdraws stake without a timelock. Only an unbonded
// candidate qualifies, as nothing can slash it.
func (d *DPoS) WithdrawFromUnbondedCandidate(env Env, cand thor.Address, amount *big.Int) (*Receipt, error) {
	logger.Debug("withdrawing from unbonded candidate", "delegator", env.Caller, "candidate", cand, "amount", amount)

	return d.call("withdrawFromUnbondedCandidate", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := checkMinUnit(amount); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(cand)
		if err != nil {
			return err
		}
		if c.Status != candidate.StatusUnbonded {
			return reverts.ErrInvalidStatus
		}
		del, err := d.delegations.Get(cand, env.Caller)
		if err != nil {
			return err
		}
		if err := del.Withdraw(amount); err != nil {
			return err
		}
		if err := c.SubPool(amount); err != nil {
			return err
		}
		if err := d.store(cand, env.Caller, c, del); err != nil {
			return err
		}
		if err := d.pushTokens(env.Caller, amount); err != nil {
			return err
		}
		evs.Emit(&events.WithdrawFromUnbondedCandidate{Delegator: env.Caller, Candidate: cand, Amount: amount})
		return nil
	})
}

// IntendWithdraw queues a withdrawal from a bonded or unbonding candidate. A validator
// that falls below its floors is removed before the intent is recorded.
func (d *DPoS) IntendWithdraw(env Env, cand thor.Address, amount *big.Int) (*Receipt, error) {
	logger.Debug("intend withdraw", "delegator", env.Caller, "candidate", cand, "amount", amount)

	return d.call("intendWithdraw", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := checkMinUnit(amount); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(cand)
		if err != nil {
			return err
		}
		if c.Status != candidate.StatusBonded && c.Status != candidate.StatusUnbonding {
			return reverts.ErrInvalidStatus
		}
		del, err := d.delegations.Get(cand, env.Caller)
		if err != nil {
			return err
		}
		if err := del.IntendWithdraw(amount, env.block()); err != nil {
			return err
		}
		if err := c.SubPool(amount); err != nil {
			return err
		}
		if err := d.store(cand, env.Caller, c, del); err != nil {
			return err
		}
		if err := d.reevaluate(env, cand, c, evs); err != nil {
			return err
		}
		evs.Emit(&events.IntendWithdraw{
			Delegator:      env.Caller,
			Candidate:      cand,
			WithdrawAmount: amount,
			ProposedTime:   env.block(),
		})
		return nil
	})
}

// ConfirmWithdraw pays out the caller's matured withdraw intents on cand and returns
// the amount paid, which may be zero.
func (d *DPoS) ConfirmWithdraw(env Env, cand thor.Address) (*big.Int, *Receipt, error) {
	logger.Debug("confirm withdraw", "delegator", env.Caller, "candidate", cand)

	paid := new(big.Int)
	receipt, err := d.call("confirmWithdraw", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(cand)
		if err != nil {
			return err
		}
		timeout, err := d.paramUint64(params.SlashTimeout)
		if err != nil {
			return err
		}
		migrating, err := d.IsMigrating(env.BlockNumber)
		if err != nil {
			return err
		}
		// no slash can hit an unbonded candidate or a migrating engine
		free := c.Status == candidate.StatusUnbonded || migrating

		del, err := d.delegations.Get(cand, env.Caller)
		if err != nil {
			return err
		}
		amount := del.ConfirmWithdraw(func(in delegation.WithdrawIntent) bool {
			return free || in.ProposedTime+timeout <= env.block()
		})
		if err := d.delegations.Set(cand, env.Caller, del); err != nil {
			return err
		}
		if err := d.pushTokens(env.Caller, amount); err != nil {
			return err
		}
		evs.Emit(&events.ConfirmWithdraw{Delegator: env.Caller, Candidate: cand, Amount: amount})
		paid = amount
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return paid, receipt, nil
}

func (d *DPoS) store(cand, delegator thor.Address, c *candidate.Candidate, del *delegation.Delegation) error {
	if err := d.delegations.Set(cand, delegator, del); err != nil {
		return err
	}
	return d.candidates.Set(cand, c)
}
