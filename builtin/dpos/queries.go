// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/candidate"
	"github.com/sgnlabs/dpos/builtin/dpos/delegation"
	"github.com/sgnlabs/dpos/builtin/dpos/govern"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/dpos/validatorset"
	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/thor"
)

//
// Getters - no state change
//

func (d *DPoS) GetCandidate(addr thor.Address) (*candidate.Candidate, error) {
	return d.candidates.Get(addr)
}

func (d *DPoS) GetDelegation(cand, delegator thor.Address) (*delegation.Delegation, error) {
	return d.delegations.Get(cand, delegator)
}

// GetValidators lists validators, largest staking pool first.
func (d *DPoS) GetValidators() ([]validatorset.Entry, error) {
	return d.validators.List()
}

func (d *DPoS) GetValidatorNum() (uint64, error) {
	return d.validators.Count()
}

func (d *DPoS) IsValidator(addr thor.Address) (bool, error) {
	return d.validators.Contains(addr)
}

func (d *DPoS) GetTotalValidatorStakingPool() (*big.Int, error) {
	return d.validators.Total()
}

// GetMinQuorumStakingPool returns the stake needed for a quorum, strictly more than two thirds.
func (d *DPoS) GetMinQuorumStakingPool() (*big.Int, error) {
	return d.validators.MinQuorum()
}

// IsValidDPoS reports whether the engine is past go-live and has enough validators.
func (d *DPoS) IsValidDPoS(block uint32) (bool, error) {
	goLive, err := d.params.GetUint64(thor.KeyDposGoLiveBlock)
	if err != nil {
		return false, err
	}
	if uint64(block) < goLive {
		return false, nil
	}
	minNum, err := d.paramUint64(params.MinValidatorNum)
	if err != nil {
		return false, err
	}
	num, err := d.validators.Count()
	if err != nil {
		return false, err
	}
	return num >= minNum, nil
}

// IsMigrating reports whether a confirmed migration time has been reached.
func (d *DPoS) IsMigrating(block uint32) (bool, error) {
	at, err := d.paramUint64(params.MigrationTime)
	if err != nil {
		return false, err
	}
	return at != 0 && uint64(block) >= at, nil
}

func (d *DPoS) GetParam(id params.ID) (*big.Int, error) {
	if !id.Valid() {
		return nil, reverts.ErrInvalidParamID
	}
	return d.param(id)
}

func (d *DPoS) GetMiningPool() (*big.Int, error) {
	return d.pools.MiningPool()
}

func (d *DPoS) GetServicePool() (*big.Int, error) {
	return d.pools.ServicePool()
}

// GetRedeemedReward returns the cumulative mining and service rewards paid to receiver.
func (d *DPoS) GetRedeemedReward(receiver thor.Address) (*big.Int, *big.Int, error) {
	return d.pools.Redeemed(receiver)
}

func (d *DPoS) GetSubscriptionDeposit(consumer thor.Address) (*big.Int, error) {
	return d.pools.SubscriptionDeposit(consumer)
}

func (d *DPoS) IsNonceUsed(nonce uint64) (bool, error) {
	return d.pools.IsNonceUsed(nonce)
}

func (d *DPoS) IsSidechainRegistered(addr thor.Address) (bool, error) {
	return d.govern.IsSidechainRegistered(addr)
}

func (d *DPoS) GetParamProposal(id uint64) (*govern.ParamProposal, error) {
	return d.govern.GetParamProposal(id)
}

func (d *DPoS) GetSidechainProposal(id uint64) (*govern.SidechainProposal, error) {
	return d.govern.GetSidechainProposal(id)
}

func (d *DPoS) GetVote(kind govern.Kind, id uint64, voter thor.Address) (govern.VoteType, error) {
	return d.govern.GetVote(kind, id, voter)
}

func (d *DPoS) Owner() (thor.Address, error) {
	return d.access.Owner()
}

func (d *DPoS) IsPaused() (bool, error) {
	return d.access.IsPaused()
}

func (d *DPoS) IsWhitelisted(addr thor.Address) (bool, error) {
	return d.access.IsWhitelisted(addr)
}
