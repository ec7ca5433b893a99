// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos/candidate"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/thor"
)

// InitializeCandidate registers the caller as a candidate with its initial terms.
func (d *DPoS) InitializeCandidate(env Env, minSelfStake *big.Int, commissionRate, rateLockEndTime uint64) (*Receipt, error) {
	logger.Debug("initializing candidate", "candidate", env.Caller,
		"minSelfStake", minSelfStake,
		"commissionRate", commissionRate,
		"rateLockEndTime", rateLockEndTime,
	)

	return d.call("initializeCandidate", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := d.access.CheckWhitelisted(env.Caller); err != nil {
			return err
		}
		c, err := d.candidates.Get(env.Caller)
		if err != nil {
			return err
		}
		if err := c.Init(minSelfStake, commissionRate, rateLockEndTime); err != nil {
			return err
		}
		if err := d.candidates.Set(env.Caller, c); err != nil {
			return err
		}
		evs.Emit(&events.InitializeCandidate{
			Candidate:       env.Caller,
			MinSelfStake:    c.MinSelfStake,
			CommissionRate:  commissionRate,
			RateLockEndTime: rateLockEndTime,
		})
		return nil
	})
}

// UpdateMinSelfStake changes the self stake floor of the caller.
func (d *DPoS) UpdateMinSelfStake(env Env, value *big.Int) (*Receipt, error) {
	logger.Debug("updating min self stake", "candidate", env.Caller, "value", value)

	return d.call("updateMinSelfStake", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(env.Caller)
		if err != nil {
			return err
		}
		notice, err := d.paramUint64(params.AdvanceNoticePeriod)
		if err != nil {
			return err
		}
		if err := c.UpdateMinSelfStake(value, env.block(), notice); err != nil {
			return err
		}
		if err := d.candidates.Set(env.Caller, c); err != nil {
			return err
		}
		evs.Emit(&events.UpdateMinSelfStake{Candidate: env.Caller, MinSelfStake: c.MinSelfStake})
		return nil
	})
}

// NonIncreaseCommissionRate lowers or keeps the commission rate, effective immediately.
func (d *DPoS) NonIncreaseCommissionRate(env Env, rate, lockEndTime uint64) (*Receipt, error) {
	logger.Debug("non-increase commission rate", "candidate", env.Caller, "rate", rate, "lockEndTime", lockEndTime)

	return d.call("nonIncreaseCommissionRate", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(env.Caller)
		if err != nil {
			return err
		}
		if err := c.NonIncreaseCommissionRate(rate, lockEndTime, env.block()); err != nil {
			return err
		}
		if err := d.candidates.Set(env.Caller, c); err != nil {
			return err
		}
		evs.Emit(&events.UpdateCommissionRate{Candidate: env.Caller, NewRate: rate, NewLockEndTime: lockEndTime})
		return nil
	})
}

// AnnounceIncreaseCommissionRate starts the notice period of a rate increase.
func (d *DPoS) AnnounceIncreaseCommissionRate(env Env, rate, lockEndTime uint64) (*Receipt, error) {
	logger.Debug("announce commission rate increase", "candidate", env.Caller, "rate", rate, "lockEndTime", lockEndTime)

	return d.call("announceIncreaseCommissionRate", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(env.Caller)
		if err != nil {
			return err
		}
		if err := c.AnnounceIncreaseCommissionRate(rate, lockEndTime, env.block()); err != nil {
			return err
		}
		if err := d.candidates.Set(env.Caller, c); err != nil {
			return err
		}
		evs.Emit(&events.CommissionRateAnnouncement{
			Candidate:            env.Caller,
			AnnouncedRate:        rate,
			AnnouncedLockEndTime: lockEndTime,
		})
		return nil
	})
}

// ConfirmIncreaseCommissionRate applies the announced rate increase.
func (d *DPoS) ConfirmIncreaseCommissionRate(env Env) (*Receipt, error) {
	logger.Debug("confirm commission rate increase", "candidate", env.Caller)

	return d.call("confirmIncreaseCommissionRate", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(env.Caller)
		if err != nil {
			return err
		}
		notice, err := d.paramUint64(params.AdvanceNoticePeriod)
		if err != nil {
			return err
		}
		if err := c.ConfirmIncreaseCommissionRate(env.block(), notice); err != nil {
			return err
		}
		if err := d.candidates.Set(env.Caller, c); err != nil {
			return err
		}
		evs.Emit(&events.UpdateCommissionRate{
			Candidate:      env.Caller,
			NewRate:        c.CommissionRate,
			NewLockEndTime: c.RateLockEndTime,
		})
		return nil
	})
}

// ClaimValidator bonds the caller. A full roster makes room by evicting its smallest
// validator, which the caller must strictly outstake.
func (d *DPoS) ClaimValidator(env Env) (*Receipt, error) {
	logger.Debug("claiming validator", "candidate", env.Caller)

	return d.call("claimValidator", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := d.notMigrating(env); err != nil {
			return err
		}
		c, err := d.candidates.GetInitialized(env.Caller)
		if err != nil {
			return err
		}
		self, err := d.delegations.Get(env.Caller, env.Caller)
		if err != nil {
			return err
		}
		minPool, err := d.param(params.MinStakingPool)
		if err != nil {
			return err
		}
		if err := c.CheckClaim(self.DelegatedStake, minPool, env.block()); err != nil {
			return err
		}

		count, err := d.validators.Count()
		if err != nil {
			return err
		}
		maxNum, err := d.paramUint64(params.MaxValidatorNum)
		if err != nil {
			return err
		}
		if count >= maxNum {
			tail, err := d.validators.Tail()
			if err != nil {
				return err
			}
			if tail == nil || c.StakingPool.Cmp(tail.Pool) <= 0 {
				return reverts.ErrNotLargerThanSmallest
			}
			if err := d.removeValidator(env, tail.Address, evs); err != nil {
				return err
			}
		}

		if err := d.validators.Add(env.Caller, c.StakingPool); err != nil {
			return err
		}
		c.Bond()
		if err := d.candidates.Set(env.Caller, c); err != nil {
			return err
		}
		evs.Emit(&events.ValidatorChange{Validator: env.Caller, ChangeType: events.ValidatorAdd})
		logger.Info("claimed validator", "candidate", env.Caller, "pool", c.StakingPool)
		return nil
	})
}

// ConfirmUnbondedCandidate finishes the unbonding of cand after the slash window.
func (d *DPoS) ConfirmUnbondedCandidate(env Env, cand thor.Address) (*Receipt, error) {
	logger.Debug("confirm unbonded candidate", "candidate", cand)

	return d.call("confirmUnbondedCandidate", env, func(evs *events.Log) error {
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
		if err := c.ConfirmUnbonded(env.block(), timeout); err != nil {
			return err
		}
		if err := d.candidates.Set(cand, c); err != nil {
			return err
		}
		evs.Emit(&events.CandidateUnbonded{Candidate: cand})
		return nil
	})
}

func (d *DPoS) notMigrating(env Env) error {
	migrating, err := d.IsMigrating(env.BlockNumber)
	if err != nil {
		return err
	}
	if migrating {
		return reverts.ErrMigrating
	}
	return nil
}

// removeValidator drops addr from the roster and starts its unbonding.
func (d *DPoS) removeValidator(env Env, addr thor.Address, evs *events.Log) error {
	c, err := d.candidates.Get(addr)
	if err != nil {
		return err
	}
	if err := d.validators.Remove(addr); err != nil {
		return errors.Wrap(err, "remove validator")
	}
	c.Unbond(env.block())
	if err := d.candidates.Set(addr, c); err != nil {
		return err
	}
	evs.Emit(&events.ValidatorChange{Validator: addr, ChangeType: events.ValidatorRemoval})
	logger.Info("removed validator", "validator", addr, "pool", c.StakingPool)
	return nil
}

// reevaluate re-ranks a bonded candidate after its stake changed, removing it when its
// self stake or staking pool fell below the floors. c must already be stored.
func (d *DPoS) reevaluate(env Env, addr thor.Address, c *candidate.Candidate, evs *events.Log) error {
	if !c.IsBonded() {
		return nil
	}
	self, err := d.delegations.Get(addr, addr)
	if err != nil {
		return err
	}
	minPool, err := d.param(params.MinStakingPool)
	if err != nil {
		return err
	}
	if self.DelegatedStake.Cmp(c.MinSelfStake) < 0 || c.StakingPool.Cmp(minPool) < 0 {
		return d.removeValidator(env, addr, evs)
	}
	return d.validators.Update(addr, c.StakingPool)
}
