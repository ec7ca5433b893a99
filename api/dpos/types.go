// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/builtin/dpos/candidate"
	"github.com/sgnlabs/dpos/builtin/dpos/delegation"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/govern"
	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/thor"
)

func amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

type Announcement struct {
	Rate             uint64 `json:"rate"`
	LockEndTime      uint64 `json:"lockEndTime"`
	AnnouncementTime uint64 `json:"announcementTime"`
}

type Candidate struct {
	Address          thor.Address          `json:"address"`
	Initialized      bool                  `json:"initialized"`
	Status           string                `json:"status"`
	IsValidator      bool                  `json:"isValidator"`
	MinSelfStake     *math.HexOrDecimal256 `json:"minSelfStake"`
	StakingPool      *math.HexOrDecimal256 `json:"stakingPool"`
	CommissionRate   uint64                `json:"commissionRate"`
	RateLockEndTime  uint64                `json:"rateLockEndTime"`
	UnbondTime       uint64                `json:"unbondTime"`
	EarliestBondTime uint64                `json:"earliestBondTime"`
	Announcement     *Announcement         `json:"announcement"`
}

func convertCandidate(addr thor.Address, c *candidate.Candidate, isValidator bool) *Candidate {
	out := &Candidate{
		Address:          addr,
		Initialized:      c.Initialized,
		Status:           c.Status.String(),
		IsValidator:      isValidator,
		MinSelfStake:     amount(c.MinSelfStake),
		StakingPool:      amount(c.StakingPool),
		CommissionRate:   c.CommissionRate,
		RateLockEndTime:  c.RateLockEndTime,
		UnbondTime:       c.UnbondTime,
		EarliestBondTime: c.EarliestBondTime,
	}
	if c.Announced {
		out.Announcement = &Announcement{
			Rate:             c.AnnouncedRate,
			LockEndTime:      c.AnnouncedLockEndTime,
			AnnouncementTime: c.AnnouncementTime,
		}
	}
	return out
}

type WithdrawIntent struct {
	Amount       *math.HexOrDecimal256 `json:"amount"`
	ProposedTime uint64                `json:"proposedTime"`
}

type Delegation struct {
	Candidate         thor.Address          `json:"candidate"`
	Delegator         thor.Address          `json:"delegator"`
	DelegatedStake    *math.HexOrDecimal256 `json:"delegatedStake"`
	UndelegatingStake *math.HexOrDecimal256 `json:"undelegatingStake"`
	Intents           []WithdrawIntent      `json:"intents"`
}

func convertDelegation(cand, delegator thor.Address, d *delegation.Delegation) *Delegation {
	intents := make([]WithdrawIntent, 0, len(d.Intents))
	for _, in := range d.Intents {
		intents = append(intents, WithdrawIntent{Amount: amount(in.Amount), ProposedTime: in.ProposedTime})
	}
	return &Delegation{
		Candidate:         cand,
		Delegator:         delegator,
		DelegatedStake:    amount(d.DelegatedStake),
		UndelegatingStake: amount(d.UndelegatingStake),
		Intents:           intents,
	}
}

type Validator struct {
	Address     thor.Address          `json:"address"`
	StakingPool *math.HexOrDecimal256 `json:"stakingPool"`
}

type Proposal struct {
	ID           uint64                `json:"id"`
	Proposer     thor.Address          `json:"proposer"`
	Deposit      *math.HexOrDecimal256 `json:"deposit"`
	VoteDeadline uint64                `json:"voteDeadline"`
	Status       string                `json:"status"`
	Passed       bool                  `json:"passed"`
}

func convertProposal(id uint64, p *govern.Proposal) Proposal {
	return Proposal{
		ID:           id,
		Proposer:     p.Proposer,
		Deposit:      amount(p.Deposit),
		VoteDeadline: p.VoteDeadline,
		Status:       p.Status.String(),
		Passed:       p.Passed,
	}
}

type ParamProposal struct {
	Proposal
	Record   string                `json:"record"`
	NewValue *math.HexOrDecimal256 `json:"newValue"`
}

func convertParamProposal(id uint64, p *govern.ParamProposal) *ParamProposal {
	return &ParamProposal{
		Proposal: convertProposal(id, &p.Proposal),
		Record:   params.ID(p.Record).String(),
		NewValue: amount(p.NewValue),
	}
}

type SidechainProposal struct {
	Proposal
	Sidechain  thor.Address `json:"sidechain"`
	Registered bool         `json:"registered"`
}

func convertSidechainProposal(id uint64, p *govern.SidechainProposal) *SidechainProposal {
	return &SidechainProposal{
		Proposal:   convertProposal(id, &p.Proposal),
		Sidechain:  p.Sidechain,
		Registered: p.Registered,
	}
}

type Pools struct {
	MiningPool           *math.HexOrDecimal256 `json:"miningPool"`
	ServicePool          *math.HexOrDecimal256 `json:"servicePool"`
	TotalValidatorStake  *math.HexOrDecimal256 `json:"totalValidatorStake"`
	MinQuorumStakingPool *math.HexOrDecimal256 `json:"minQuorumStakingPool"`
}

type Status struct {
	GenesisID    thor.Bytes32 `json:"genesisId"`
	Head         uint32       `json:"head"`
	BlockNumber  uint32       `json:"blockNumber"`
	Owner        thor.Address `json:"owner"`
	Paused       bool         `json:"paused"`
	ValidDPoS    bool         `json:"validDPoS"`
	Migrating    bool         `json:"migrating"`
	ValidatorNum uint64       `json:"validatorNum"`
}

// CallRequest submits an encoded request on behalf of caller.
type CallRequest struct {
	Caller *thor.Address `json:"caller"`
	Data   string        `json:"data"`
}

type Event struct {
	Name string       `json:"name"`
	Data events.Event `json:"data"`
}

type Receipt struct {
	BlockNumber uint32  `json:"blockNumber"`
	Events      []Event `json:"events"`
}

func convertReceipt(block uint32, r *dpos.Receipt) *Receipt {
	evs := make([]Event, 0, len(r.Events))
	for _, ev := range r.Events {
		evs = append(evs, Event{Name: ev.Name(), Data: ev})
	}
	return &Receipt{BlockNumber: block, Events: evs}
}
