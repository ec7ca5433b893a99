// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package govern

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/dpos/validatorset"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var (
	slotParamProposals     = thor.BytesToBytes32([]byte("govern-param-proposals"))
	slotSidechainProposals = thor.BytesToBytes32([]byte("govern-sidechain-proposals"))
	slotNextParamID        = thor.BytesToBytes32([]byte("govern-next-param-id"))
	slotNextSidechainID    = thor.BytesToBytes32([]byte("govern-next-sidechain-id"))
	slotVotes              = thor.BytesToBytes32([]byte("govern-votes"))
	slotSidechains         = thor.BytesToBytes32([]byte("govern-sidechains"))
)

// Kind separates the id spaces of proposal kinds.
type Kind uint8

const (
	KindParam Kind = iota
	KindSidechain
)

type proposalKey uint64

func (k proposalKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

func voteKey(kind Kind, id uint64, voter thor.Address) thor.Bytes32 {
	return thor.Blake2b([]byte{byte(kind)}, proposalKey(id).Bytes(), voter.Bytes())
}

type Service struct {
	paramProposals     *solidity.Mapping[proposalKey, *ParamProposal]
	sidechainProposals *solidity.Mapping[proposalKey, *SidechainProposal]
	nextParamID        *solidity.Raw[uint64]
	nextSidechainID    *solidity.Raw[uint64]
	votes              *solidity.Mapping[thor.Bytes32, VoteType]
	sidechains         *solidity.Mapping[thor.Address, bool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		paramProposals:     solidity.NewMapping[proposalKey, *ParamProposal](sctx, slotParamProposals),
		sidechainProposals: solidity.NewMapping[proposalKey, *SidechainProposal](sctx, slotSidechainProposals),
		nextParamID:        solidity.NewRaw[uint64](sctx, slotNextParamID),
		nextSidechainID:    solidity.NewRaw[uint64](sctx, slotNextSidechainID),
		votes:              solidity.NewMapping[thor.Bytes32, VoteType](sctx, slotVotes),
		sidechains:         solidity.NewMapping[thor.Address, bool](sctx, slotSidechains),
	}
}

func newProposal(proposer thor.Address, deposit *big.Int, deadline uint64) Proposal {
	return Proposal{
		Proposer:     proposer,
		Deposit:      new(big.Int).Set(deposit),
		VoteDeadline: deadline,
		Status:       StatusVoting,
	}
}

func nextID(counter *solidity.Raw[uint64]) (uint64, error) {
	id, err := counter.Get()
	if err != nil {
		return 0, err
	}
	if err := counter.Set(id + 1); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateParamProposal records a param proposal open for votes until deadline, returning its id.
func (s *Service) CreateParamProposal(proposer thor.Address, deposit *big.Int, deadline uint64, record uint8, value *big.Int) (uint64, error) {
	id, err := nextID(s.nextParamID)
	if err != nil {
		return 0, err
	}
	p := &ParamProposal{
		Proposal: newProposal(proposer, deposit, deadline),
		Record:   record,
		NewValue: new(big.Int).Set(value),
	}
	return id, s.SetParamProposal(id, p)
}

func (s *Service) GetParamProposal(id uint64) (*ParamProposal, error) {
	p, err := s.paramProposals.Get(proposalKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get param proposal")
	}
	p.normalize()
	if p.NewValue == nil {
		p.NewValue = new(big.Int)
	}
	return p, nil
}

func (s *Service) SetParamProposal(id uint64, p *ParamProposal) error {
	if err := s.paramProposals.Set(proposalKey(id), p); err != nil {
		return errors.Wrap(err, "failed to set param proposal")
	}
	return nil
}

// NextParamProposalID returns the id the next param proposal will get.
func (s *Service) NextParamProposalID() (uint64, error) {
	return s.nextParamID.Get()
}

// CreateSidechainProposal records a sidechain proposal open for votes until deadline, returning its id.
func (s *Service) CreateSidechainProposal(proposer thor.Address, deposit *big.Int, deadline uint64, sidechain thor.Address, registered bool) (uint64, error) {
	id, err := nextID(s.nextSidechainID)
	if err != nil {
		return 0, err
	}
	p := &SidechainProposal{
		Proposal:   newProposal(proposer, deposit, deadline),
		Sidechain:  sidechain,
		Registered: registered,
	}
	return id, s.SetSidechainProposal(id, p)
}

func (s *Service) GetSidechainProposal(id uint64) (*SidechainProposal, error) {
	p, err := s.sidechainProposals.Get(proposalKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sidechain proposal")
	}
	p.normalize()
	return p, nil
}

func (s *Service) SetSidechainProposal(id uint64, p *SidechainProposal) error {
	if err := s.sidechainProposals.Set(proposalKey(id), p); err != nil {
		return errors.Wrap(err, "failed to set sidechain proposal")
	}
	return nil
}

// NextSidechainProposalID returns the id the next sidechain proposal will get.
func (s *Service) NextSidechainProposalID() (uint64, error) {
	return s.nextSidechainID.Get()
}

func (s *Service) GetVote(kind Kind, id uint64, voter thor.Address) (VoteType, error) {
	v, err := s.votes.Get(voteKey(kind, id, voter))
	if err != nil {
		return VoteUnvoted, errors.Wrap(err, "failed to get vote")
	}
	return v, nil
}

// Vote records the vote of voter once. The caller checks the proposal accepts votes.
func (s *Service) Vote(kind Kind, id uint64, voter thor.Address, vote VoteType) error {
	if !vote.Valid() {
		return reverts.ErrInvalidVoteType
	}
	prev, err := s.GetVote(kind, id, voter)
	if err != nil {
		return err
	}
	if prev != VoteUnvoted {
		return reverts.ErrVoted
	}
	if err := s.votes.Set(voteKey(kind, id, voter), vote); err != nil {
		return errors.Wrap(err, "failed to set vote")
	}
	return nil
}

// Tally sums the staking pools of current validators that voted yes.
func (s *Service) Tally(kind Kind, id uint64, validators *validatorset.Set) (*big.Int, error) {
	yes := new(big.Int)
	err := validators.Iterate(func(e validatorset.Entry) error {
		v, err := s.GetVote(kind, id, e.Address)
		if err != nil {
			return err
		}
		if v == VoteYes {
			yes.Add(yes, e.Pool)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return yes, nil
}

func (s *Service) IsSidechainRegistered(addr thor.Address) (bool, error) {
	ok, err := s.sidechains.Get(addr)
	if err != nil {
		return false, errors.Wrap(err, "failed to get sidechain")
	}
	return ok, nil
}

func (s *Service) SetSidechainRegistered(addr thor.Address, registered bool) error {
	if !registered {
		s.sidechains.Delete(addr)
		return nil
	}
	if err := s.sidechains.Set(addr, true); err != nil {
		return errors.Wrap(err, "failed to set sidechain")
	}
	return nil
}
