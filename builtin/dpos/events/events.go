// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the records emitted by staking operations, for off-chain indexers.
package events

import (
	"math/big"

	"github.com/sgnlabs/dpos/thor"
)

// Event is a single emitted record.
type Event interface {
	Name() string
}

// Log collects events of one call in emission order.
type Log struct {
	events []Event
}

func (l *Log) Emit(e Event) {
	l.events = append(l.events, e)
}

// Events returns the emitted events, oldest first.
func (l *Log) Events() []Event {
	return l.events
}

// Len returns the number of emitted events.
func (l *Log) Len() int {
	return len(l.events)
}

// Names lists the names of evs, handy for asserting emission order.
func Names(evs []Event) []string {
	names := make([]string, 0, len(evs))
	for _, e := range evs {
		names = append(names, e.Name())
	}
	return names
}

// ValidatorChangeType tells whether a validator joined or left the roster.
type ValidatorChangeType uint8

const (
	ValidatorAdd ValidatorChangeType = iota
	ValidatorRemoval
)

func (t ValidatorChangeType) String() string {
	if t == ValidatorAdd {
		return "add"
	}
	return "removal"
}

type InitializeCandidate struct {
	Candidate       thor.Address `json:"candidate"`
	MinSelfStake    *big.Int     `json:"minSelfStake"`
	CommissionRate  uint64       `json:"commissionRate"`
	RateLockEndTime uint64       `json:"rateLockEndTime"`
}

type CommissionRateAnnouncement struct {
	Candidate            thor.Address `json:"candidate"`
	AnnouncedRate        uint64       `json:"announcedRate"`
	AnnouncedLockEndTime uint64       `json:"announcedLockEndTime"`
}

type UpdateCommissionRate struct {
	Candidate      thor.Address `json:"candidate"`
	NewRate        uint64       `json:"newRate"`
	NewLockEndTime uint64       `json:"newLockEndTime"`
}

type UpdateMinSelfStake struct {
	Candidate    thor.Address `json:"candidate"`
	MinSelfStake *big.Int     `json:"minSelfStake"`
}

type Delegate struct {
	Delegator   thor.Address `json:"delegator"`
	Candidate   thor.Address `json:"candidate"`
	NewStake    *big.Int     `json:"newStake"`
	StakingPool *big.Int     `json:"stakingPool"`
}

type ValidatorChange struct {
	Validator  thor.Address        `json:"validator"`
	ChangeType ValidatorChangeType `json:"changeType"`
}

type WithdrawFromUnbondedCandidate struct {
	Delegator thor.Address `json:"delegator"`
	Candidate thor.Address `json:"candidate"`
	Amount    *big.Int     `json:"amount"`
}

type IntendWithdraw struct {
	Delegator      thor.Address `json:"delegator"`
	Candidate      thor.Address `json:"candidate"`
	WithdrawAmount *big.Int     `json:"withdrawAmount"`
	ProposedTime   uint64       `json:"proposedTime"`
}

type ConfirmWithdraw struct {
	Delegator thor.Address `json:"delegator"`
	Candidate thor.Address `json:"candidate"`
	Amount    *big.Int     `json:"amount"`
}

type CandidateUnbonded struct {
	Candidate thor.Address `json:"candidate"`
}

type Slash struct {
	Validator thor.Address `json:"validator"`
	Delegator thor.Address `json:"delegator"`
	Amount    *big.Int     `json:"amount"`
}

type Compensate struct {
	Recipient thor.Address `json:"recipient"`
	Amount    *big.Int     `json:"amount"`
}

type MiningPoolContribution struct {
	Contributor    thor.Address `json:"contributor"`
	Contribution   *big.Int     `json:"contribution"`
	MiningPoolSize *big.Int     `json:"miningPoolSize"`
}

type AddSubscriptionBalance struct {
	Consumer thor.Address `json:"consumer"`
	Amount   *big.Int     `json:"amount"`
}

type RedeemReward struct {
	Receiver      thor.Address `json:"receiver"`
	MiningReward  *big.Int     `json:"miningReward"`
	ServiceReward *big.Int     `json:"serviceReward"`
	MiningPool    *big.Int     `json:"miningPool"`
	ServicePool   *big.Int     `json:"servicePool"`
}

type CreateParamProposal struct {
	ProposalID   uint64       `json:"proposalId"`
	Proposer     thor.Address `json:"proposer"`
	Deposit      *big.Int     `json:"deposit"`
	VoteDeadline uint64       `json:"voteDeadline"`
	Record       uint8        `json:"record"`
	NewValue     *big.Int     `json:"newValue"`
}

type VoteParam struct {
	ProposalID uint64       `json:"proposalId"`
	Voter      thor.Address `json:"voter"`
	VoteType   uint8        `json:"voteType"`
}

type ConfirmParamProposal struct {
	ProposalID uint64   `json:"proposalId"`
	Passed     bool     `json:"passed"`
	Record     uint8    `json:"record"`
	NewValue   *big.Int `json:"newValue"`
}

type CreateSidechainProposal struct {
	ProposalID   uint64       `json:"proposalId"`
	Proposer     thor.Address `json:"proposer"`
	Deposit      *big.Int     `json:"deposit"`
	VoteDeadline uint64       `json:"voteDeadline"`
	Sidechain    thor.Address `json:"sidechain"`
	Registered   bool         `json:"registered"`
}

type VoteSidechain struct {
	ProposalID uint64       `json:"proposalId"`
	Voter      thor.Address `json:"voter"`
	VoteType   uint8        `json:"voteType"`
}

type ConfirmSidechainProposal struct {
	ProposalID uint64       `json:"proposalId"`
	Passed     bool         `json:"passed"`
	Sidechain  thor.Address `json:"sidechain"`
	Registered bool         `json:"registered"`
}

type Paused struct {
	Account thor.Address `json:"account"`
}

type Unpaused struct {
	Account thor.Address `json:"account"`
}

type WhitelistEnabled struct {
	Enabled bool `json:"enabled"`
}

type WhitelistedAdded struct {
	Account thor.Address `json:"account"`
}

type WhitelistedRemoved struct {
	Account thor.Address `json:"account"`
}

type DrainToken struct {
	Recipient thor.Address `json:"recipient"`
	Amount    *big.Int     `json:"amount"`
}

func (*InitializeCandidate) Name() string           { return "InitializeCandidate" }
func (*CommissionRateAnnouncement) Name() string    { return "CommissionRateAnnouncement" }
func (*UpdateCommissionRate) Name() string          { return "UpdateCommissionRate" }
func (*UpdateMinSelfStake) Name() string            { return "UpdateMinSelfStake" }
func (*Delegate) Name() string                      { return "Delegate" }
func (*ValidatorChange) Name() string               { return "ValidatorChange" }
func (*WithdrawFromUnbondedCandidate) Name() string { return "WithdrawFromUnbondedCandidate" }
func (*IntendWithdraw) Name() string                { return "IntendWithdraw" }
func (*ConfirmWithdraw) Name() string               { return "ConfirmWithdraw" }
func (*CandidateUnbonded) Name() string             { return "CandidateUnbonded" }
func (*Slash) Name() string                         { return "Slash" }
func (*Compensate) Name() string                    { return "Compensate" }
func (*MiningPoolContribution) Name() string        { return "MiningPoolContribution" }
func (*AddSubscriptionBalance) Name() string        { return "AddSubscriptionBalance" }
func (*RedeemReward) Name() string                  { return "RedeemReward" }
func (*CreateParamProposal) Name() string           { return "CreateParamProposal" }
func (*VoteParam) Name() string                     { return "VoteParam" }
func (*ConfirmParamProposal) Name() string          { return "ConfirmParamProposal" }
func (*CreateSidechainProposal) Name() string       { return "CreateSidechainProposal" }
func (*VoteSidechain) Name() string                 { return "VoteSidechain" }
func (*ConfirmSidechainProposal) Name() string      { return "ConfirmSidechainProposal" }
func (*Paused) Name() string                        { return "Paused" }
func (*Unpaused) Name() string                      { return "Unpaused" }
func (*WhitelistEnabled) Name() string              { return "WhitelistEnabled" }
func (*WhitelistedAdded) Name() string              { return "WhitelistedAdded" }
func (*WhitelistedRemoved) Name() string            { return "WhitelistedRemoved" }
func (*DrainToken) Name() string                    { return "DrainToken" }
