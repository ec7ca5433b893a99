// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/candidate"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/request"
	"github.com/sgnlabs/dpos/thor"
)

func sumAmounts(pairs []request.AccountAmtPair) *big.Int {
	sum := new(big.Int)
	for _, p := range pairs {
		sum.Add(sum, p.Amt)
	}
	return sum
}

// Slash applies a penalty request signed by a validator quorum. Each nonce is accepted once.
func (d *DPoS) Slash(env Env, data []byte) (*Receipt, error) {
	logger.Debug("slashing", "caller", env.Caller, "size", len(data))

	return d.call("slash", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		valid, err := d.IsValidDPoS(env.BlockNumber)
		if err != nil {
			return err
		}
		if !valid {
			return reverts.ErrInvalidDPoS
		}
		if err := d.notMigrating(env); err != nil {
			return err
		}

		req, penalty, err := request.DecodePenaltyRequest(data)
		if err != nil {
			logger.Debug("bad penalty request", "error", err)
			return reverts.ErrInvalidRequest
		}
		if env.block() > penalty.ExpireTime {
			return reverts.ErrPenaltyExpired
		}
		if err := d.pools.UseNonce(penalty.Nonce); err != nil {
			return err
		}
		total := sumAmounts(penalty.PenalizedDelegators)
		if total.Cmp(sumAmounts(penalty.Beneficiaries)) != 0 {
			return reverts.ErrAmountNotMatch
		}
		if err := d.verifier.Check(request.SigningHash(req.Penalty), req.Sigs); err != nil {
			return err
		}

		validator := penalty.ValidatorAddress
		c, err := d.candidates.Get(validator)
		if err != nil {
			return err
		}
		if !c.Initialized || c.Status == candidate.StatusUnbonded {
			return reverts.ErrValidatorUnbonded
		}

		for _, p := range penalty.PenalizedDelegators {
			del, err := d.delegations.Get(validator, p.Account)
			if err != nil {
				return err
			}
			fromDelegated, err := del.Slash(p.Amt)
			if err != nil {
				return err
			}
			if err := c.SubPool(fromDelegated); err != nil {
				return err
			}
			if err := d.delegations.Set(validator, p.Account, del); err != nil {
				return err
			}
			evs.Emit(&events.Slash{Validator: validator, Delegator: p.Account, Amount: p.Amt})
		}
		if err := d.candidates.Set(validator, c); err != nil {
			return err
		}
		if err := d.reevaluate(env, validator, c, evs); err != nil {
			return err
		}

		for _, b := range penalty.Beneficiaries {
			if err := d.compensate(b.Account, b.Amt); err != nil {
				return err
			}
			evs.Emit(&events.Compensate{Recipient: b.Account, Amount: b.Amt})
		}

		metricSlashedTokens().Add(wholeTokens(total))
		logger.Info("slashed", "validator", validator, "nonce", penalty.Nonce, "amount", total)
		return nil
	})
}

// compensate credits a slash beneficiary. The two pool addresses credit the pools.
func (d *DPoS) compensate(beneficiary thor.Address, amount *big.Int) error {
	switch beneficiary {
	case thor.MiningPoolAddress:
		return d.pools.AddMining(amount)
	case thor.ServicePoolAddress:
		return d.pools.AddService(amount)
	default:
		return d.pushTokens(beneficiary, amount)
	}
}
