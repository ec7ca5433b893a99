// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/govern"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/thor"
)

func checkParamValue(id params.ID, value *big.Int) error {
	if !id.Valid() {
		return reverts.ErrInvalidParamID
	}
	if value.Sign() < 0 {
		return reverts.ErrInvalidParamValue
	}
	switch id {
	case params.MaxValidatorNum:
		if value.Sign() == 0 || value.Cmp(new(big.Int).SetUint64(thor.MaxValidatorCap)) > 0 {
			return reverts.ErrInvalidParamValue
		}
	case params.MinValidatorNum:
		if value.Cmp(new(big.Int).SetUint64(thor.MaxValidatorCap)) > 0 {
			return reverts.ErrInvalidParamValue
		}
	case params.GovernVoteTimeout, params.SlashTimeout, params.AdvanceNoticePeriod, params.MigrationTime:
		if !value.IsUint64() || value.Uint64() > thor.MaxBlockWindow {
			return reverts.ErrInvalidParamValue
		}
	}
	return nil
}

// escrowDeposit takes the proposal deposit from the proposer and returns it with the vote deadline.
func (d *DPoS) escrowDeposit(env Env) (*big.Int, uint64, error) {
	deposit, err := d.param(params.ProposalDeposit)
	if err != nil {
		return nil, 0, err
	}
	timeout, err := d.paramUint64(params.GovernVoteTimeout)
	if err != nil {
		return nil, 0, err
	}
	if err := d.pullTokens(env.Caller, deposit); err != nil {
		return nil, 0, err
	}
	return deposit, env.block() + timeout, nil
}

// settleDeposit returns the deposit of a passed proposal and forfeits a rejected one to the mining pool.
func (d *DPoS) settleDeposit(p *govern.Proposal) error {
	if p.Passed {
		return d.pushTokens(p.Proposer, p.Deposit)
	}
	return d.pools.AddMining(p.Deposit)
}

// passes tallies the yes votes of current validators against the quorum.
func (d *DPoS) passes(kind govern.Kind, id uint64) (bool, error) {
	yes, err := d.govern.Tally(kind, id, d.validators)
	if err != nil {
		return false, err
	}
	q, err := d.validators.MinQuorum()
	if err != nil {
		return false, err
	}
	return yes.Cmp(q) >= 0, nil
}

func (d *DPoS) checkVoter(env Env) error {
	ok, err := d.validators.Contains(env.Caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrNotValidator
	}
	return nil
}

// CreateParamProposal escrows the proposal deposit and opens a vote on a param change.
// It returns the proposal id.
func (d *DPoS) CreateParamProposal(env Env, record params.ID, value *big.Int) (uint64, *Receipt, error) {
	logger.Debug("creating param proposal", "proposer", env.Caller, "record", record, "value", value)

	var id uint64
	receipt, err := d.call("createParamProposal", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := checkParamValue(record, value); err != nil {
			return err
		}
		deposit, deadline, err := d.escrowDeposit(env)
		if err != nil {
			return err
		}
		id, err = d.govern.CreateParamProposal(env.Caller, deposit, deadline, uint8(record), value)
		if err != nil {
			return err
		}
		evs.Emit(&events.CreateParamProposal{
			ProposalID:   id,
			Proposer:     env.Caller,
			Deposit:      deposit,
			VoteDeadline: deadline,
			Record:       uint8(record),
			NewValue:     value,
		})
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return id, receipt, nil
}

// VoteParam records the caller's vote, which must come from a current validator.
func (d *DPoS) VoteParam(env Env, id uint64, vote govern.VoteType) (*Receipt, error) {
	logger.Debug("voting param proposal", "voter", env.Caller, "id", id, "vote", vote)

	return d.call("voteParam", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := d.checkVoter(env); err != nil {
			return err
		}
		p, err := d.govern.GetParamProposal(id)
		if err != nil {
			return err
		}
		if err := p.CheckVote(env.block()); err != nil {
			return err
		}
		if err := d.govern.Vote(govern.KindParam, id, env.Caller, vote); err != nil {
			return err
		}
		evs.Emit(&events.VoteParam{ProposalID: id, Voter: env.Caller, VoteType: uint8(vote)})
		return nil
	})
}

// ConfirmParamProposal settles a param proposal after its deadline and applies it if passed.
func (d *DPoS) ConfirmParamProposal(env Env, id uint64) (*Receipt, error) {
	logger.Debug("confirming param proposal", "caller", env.Caller, "id", id)

	return d.call("confirmParamProposal", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		p, err := d.govern.GetParamProposal(id)
		if err != nil {
			return err
		}
		passed, err := d.passes(govern.KindParam, id)
		if err != nil {
			return err
		}
		if err := p.Close(env.block(), passed); err != nil {
			return err
		}
		if err := d.govern.SetParamProposal(id, p); err != nil {
			return err
		}
		if err := d.settleDeposit(&p.Proposal); err != nil {
			return err
		}

		record := params.ID(p.Record)
		if passed {
			if err := d.params.Set(record.Key(), p.NewValue); err != nil {
				return err
			}
			if record == params.MaxValidatorNum {
				if err := d.shrinkValidators(env, evs); err != nil {
					return err
				}
			}
		}
		evs.Emit(&events.ConfirmParamProposal{ProposalID: id, Passed: passed, Record: p.Record, NewValue: p.NewValue})
		logger.Info("param proposal confirmed", "id", id, "record", record, "passed", passed)
		return nil
	})
}

// shrinkValidators evicts the smallest validators until the roster fits MaxValidatorNum.
func (d *DPoS) shrinkValidators(env Env, evs *events.Log) error {
	maxNum, err := d.paramUint64(params.MaxValidatorNum)
	if err != nil {
		return err
	}
	for {
		count, err := d.validators.Count()
		if err != nil {
			return err
		}
		if count <= maxNum {
			return nil
		}
		tail, err := d.validators.Tail()
		if err != nil {
			return err
		}
		if err := d.removeValidator(env, tail.Address, evs); err != nil {
			return err
		}
	}
}

// CreateSidechainProposal escrows the proposal deposit and opens a vote on a sidechain registration.
// It returns the proposal id.
func (d *DPoS) CreateSidechainProposal(env Env, sidechain thor.Address, registered bool) (uint64, *Receipt, error) {
	logger.Debug("creating sidechain proposal", "proposer", env.Caller, "sidechain", sidechain, "registered", registered)

	var id uint64
	receipt, err := d.call("createSidechainProposal", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		deposit, deadline, err := d.escrowDeposit(env)
		if err != nil {
			return err
		}
		id, err = d.govern.CreateSidechainProposal(env.Caller, deposit, deadline, sidechain, registered)
		if err != nil {
			return err
		}
		evs.Emit(&events.CreateSidechainProposal{
			ProposalID:   id,
			Proposer:     env.Caller,
			Deposit:      deposit,
			VoteDeadline: deadline,
			Sidechain:    sidechain,
			Registered:   registered,
		})
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return id, receipt, nil
}

// VoteSidechain records the caller's vote, which must come from a current validator.
func (d *DPoS) VoteSidechain(env Env, id uint64, vote govern.VoteType) (*Receipt, error) {
	logger.Debug("voting sidechain proposal", "voter", env.Caller, "id", id, "vote", vote)

	return d.call("voteSidechain", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		if err := d.checkVoter(env); err != nil {
			return err
		}
		p, err := d.govern.GetSidechainProposal(id)
		if err != nil {
			return err
		}
		if err := p.CheckVote(env.block()); err != nil {
			return err
		}
		if err := d.govern.Vote(govern.KindSidechain, id, env.Caller, vote); err != nil {
			return err
		}
		evs.Emit(&events.VoteSidechain{ProposalID: id, Voter: env.Caller, VoteType: uint8(vote)})
		return nil
	})
}

// ConfirmSidechainProposal settles a sidechain proposal after its deadline and applies it if passed.
func (d *DPoS) ConfirmSidechainProposal(env Env, id uint64) (*Receipt, error) {
	logger.Debug("confirming sidechain proposal", "caller", env.Caller, "id", id)

	return d.call("confirmSidechainProposal", env, func(evs *events.Log) error {
		if err := d.mutable(); err != nil {
			return err
		}
		p, err := d.govern.GetSidechainProposal(id)
		if err != nil {
			return err
		}
		passed, err := d.passes(govern.KindSidechain, id)
		if err != nil {
			return err
		}
		if err := p.Close(env.block(), passed); err != nil {
			return err
		}
		if err := d.govern.SetSidechainProposal(id, p); err != nil {
			return err
		}
		if err := d.settleDeposit(&p.Proposal); err != nil {
			return err
		}
		if passed {
			if err := d.govern.SetSidechainRegistered(p.Sidechain, p.Registered); err != nil {
				return err
			}
		}
		evs.Emit(&events.ConfirmSidechainProposal{
			ProposalID: id,
			Passed:     passed,
			Sidechain:  p.Sidechain,
			Registered: p.Registered,
		})
		logger.Info("sidechain proposal confirmed", "id", id, "sidechain", p.Sidechain, "passed", passed)
		return nil
	})
}
