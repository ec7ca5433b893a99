// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/sgnlabs/dpos/thor"
)

// ID names a governable parameter. The numbering is part of the proposal wire format.
type ID uint8

const (
	ProposalDeposit ID = iota
	GovernVoteTimeout
	SlashTimeout
	MinValidatorNum
	MaxValidatorNum
	MinStakingPool
	AdvanceNoticePeriod
	MigrationTime
)

var idKeys = [...]thor.Bytes32{
	ProposalDeposit:     thor.KeyProposalDeposit,
	GovernVoteTimeout:   thor.KeyGovernVoteTimeout,
	SlashTimeout:        thor.KeySlashTimeout,
	MinValidatorNum:     thor.KeyMinValidatorNum,
	MaxValidatorNum:     thor.KeyMaxValidatorNum,
	MinStakingPool:      thor.KeyMinStakingPool,
	AdvanceNoticePeriod: thor.KeyAdvanceNoticePeriod,
	MigrationTime:       thor.KeyMigrationTime,
}

var idNames = [...]string{
	ProposalDeposit:     "ProposalDeposit",
	GovernVoteTimeout:   "GovernVoteTimeout",
	SlashTimeout:        "SlashTimeout",
	MinValidatorNum:     "MinValidatorNum",
	MaxValidatorNum:     "MaxValidatorNum",
	MinStakingPool:      "MinStakingPool",
	AdvanceNoticePeriod: "AdvanceNoticePeriod",
	MigrationTime:       "MigrationTime",
}

// IDs lists every governable parameter in id order.
func IDs() []ID {
	ids := make([]ID, len(idKeys))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// Valid reports whether id names a known parameter.
func (id ID) Valid() bool {
	return int(id) < len(idKeys)
}

// Key returns the storage key of the param. It panics on an invalid id.
func (id ID) Key() thor.Bytes32 {
	return idKeys[id]
}

func (id ID) String() string {
	if !id.Valid() {
		return "Unknown"
	}
	return idNames[id]
}
