// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package govern

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/thor"
)

type ProposalStatus uint8

const (
	StatusUninitiated ProposalStatus = iota
	StatusVoting
	StatusClosed
)

func (s ProposalStatus) String() string {
	switch s {
	case StatusUninitiated:
		return "uninitiated"
	case StatusVoting:
		return "voting"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type VoteType uint8

const (
	VoteUnvoted VoteType = iota
	VoteYes
	VoteNo
	VoteAbstain
)

func (v VoteType) Valid() bool {
	return v == VoteYes || v == VoteNo || v == VoteAbstain
}

// Proposal holds what every kind of proposal shares.
type Proposal struct {
	Proposer     thor.Address
	Deposit      *big.Int
	VoteDeadline uint64
	Status       ProposalStatus
	Passed       bool
}

func (p *Proposal) normalize() {
	if p.Deposit == nil {
		p.Deposit = new(big.Int)
	}
}

// CheckVote validates a vote cast at block.
func (p *Proposal) CheckVote(block uint64) error {
	if p.Status != StatusVoting {
		return reverts.ErrInvalidProposalStatus
	}
	if block >= p.VoteDeadline {
		return reverts.ErrVoteDeadlineReached
	}
	return nil
}

// Close settles the proposal at block with the tally outcome.
func (p *Proposal) Close(block uint64, passed bool) error {
	if p.Status != StatusVoting {
		return reverts.ErrInvalidProposalStatus
	}
	if block < p.VoteDeadline {
		return reverts.ErrVoteDeadlineNotReached
	}
	p.Status = StatusClosed
	p.Passed = passed
	return nil
}

// ParamProposal proposes a new value for a governable param.
type ParamProposal struct {
	Proposal
	Record   uint8
	NewValue *big.Int
}

// SidechainProposal proposes registering or deregistering a sidechain.
type SidechainProposal struct {
	Proposal
	Sidechain  thor.Address
	Registered bool
}
