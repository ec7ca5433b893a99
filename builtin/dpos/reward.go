// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/request"
)

func (d *DPoS) requireValidDPoS(env Env) error {
	valid, err := d.IsValidDPoS(env.BlockNumber)
	if err != nil {
		return err
	}
	if !valid {
		return reverts.ErrInvalidDPoS
	}
	return nil
}

// Subscribe pays amount of the caller's tokens into the service pool.
func (d *DPoS) Subscribe(env Env, amount *big.Int) (*Receipt, error) {
	logger.Debug("subscribing", "consumer", env.Caller, "amount", amount)

	return d.call("subscribe", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := d.requireValidDPoS(env); err != nil {
			return err
		}
		if amount.Sign() <= 0 {
			return reverts.ErrZeroAmount
		}
		if err := d.pullTokens(env.Caller, amount); err != nil {
			return err
		}
		if err := d.pools.Subscribe(env.Caller, amount); err != nil {
			return err
		}
		evs.Emit(&events.AddSubscriptionBalance{Consumer: env.Caller, Amount: amount})
		return nil
	})
}

// ContributeToMiningPool pays amount of the caller's tokens into the mining pool.
func (d *DPoS) ContributeToMiningPool(env Env, amount *big.Int) (*Receipt, error) {
	logger.Debug("contributing to mining pool", "contributor", env.Caller, "amount", amount)

	return d.call("contributeToMiningPool", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if amount.Sign() <= 0 {
			return reverts.ErrZeroAmount
		}
		if err := d.pullTokens(env.Caller, amount); err != nil {
			return err
		}
		if err := d.pools.AddMining(amount); err != nil {
			return err
		}
		size, err := d.pools.MiningPool()
		if err != nil {
			return err
		}
		evs.Emit(&events.MiningPoolContribution{Contributor: env.Caller, Contribution: amount, MiningPoolSize: size})
		return nil
	})
}

// RedeemReward pays the receiver of a quorum signed reward request whatever its
// cumulative rewards exceed the amounts already redeemed. Replaying a request pays nothing.
func (d *DPoS) RedeemReward(env Env, data []byte) (*Receipt, error) {
	logger.Debug("redeeming reward", "caller", env.Caller, "size", len(data))

	return d.call("redeemReward", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := d.requireValidDPoS(env); err != nil {
			return err
		}
		req, reward, err := request.DecodeRewardRequest(data)
		if err != nil {
			logger.Debug("bad reward request", "error", err)
			return reverts.ErrInvalidRequest
		}
		if err := d.verifier.Check(request.SigningHash(req.Reward), req.Sigs); err != nil {
			return err
		}

		mining, service, err := d.pools.Redeem(reward.Receiver, reward.CumulativeMiningReward, reward.CumulativeServiceReward)
		if err != nil {
			return err
		}
		if mining.Sign() > 0 {
			// mining rewards are only released to a registered companion registry
			companion, err := d.pools.Companion()
			if err != nil {
				return err
			}
			registered, err := d.govern.IsSidechainRegistered(companion)
			if err != nil {
				return err
			}
			if !registered {
				return reverts.ErrSidechainUnregistered
			}
		}
		if err := d.pushTokens(reward.Receiver, new(big.Int).Add(mining, service)); err != nil {
			return err
		}

		miningPool, err := d.pools.MiningPool()
		if err != nil {
			return err
		}
		servicePool, err := d.pools.ServicePool()
		if err != nil {
			return err
		}
		evs.Emit(&events.RedeemReward{
			Receiver:      reward.Receiver,
			MiningReward:  mining,
			ServiceReward: service,
			MiningPool:    miningPool,
			ServicePool:   servicePool,
		})
		metricRedeemedTokens().AddWithLabel(wholeTokens(mining), map[string]string{"pool": "mining"})
		metricRedeemedTokens().AddWithLabel(wholeTokens(service), map[string]string{"pool": "service"})
		return nil
	})
}
