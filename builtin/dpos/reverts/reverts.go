// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a precondition failure surfaced to the caller as-is.
// The call it aborts leaves no state change behind.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Is matches reverts by message, so errors.Is works against the package constructors.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.message == e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// access control
var (
	ErrPaused         = New("paused")
	ErrNotPaused      = New("not paused")
	ErrNotOwner       = New("caller is not the owner")
	ErrNotWhitelisted = New("WhitelistedRole: caller does not have the Whitelisted role")
)

// candidates
var (
	ErrCandidateInitialized    = New("Candidate is initialized")
	ErrCandidateNotInitialized = New("Candidate is not initialized")
	ErrInvalidStatus           = New("invalid status")
	ErrCandidateBonded         = New("Candidate is bonded")
	ErrInvalidCommissionRate   = New("invalid commission rate")
	ErrInvalidMinSelfStake     = New("invalid minimal self stake")
	ErrInvalidLockEndTime      = New("invalid lock end time")
	ErrInvalidNewRate          = New("invalid new rate")
	ErrInNoticePeriod          = New("still in notice period")
	ErrRateLocked              = New("rate is locked")
	ErrNoRateAnnouncement      = New("no pending rate announcement")
	ErrInsufficientPool        = New("insufficient staking pool")
	ErrNotEnoughSelfStake      = New("not enough self stake")
	ErrNotEarliestBondTime     = New("not earliest bond time")
	ErrNotLargerThanSmallest   = New("not larger than smallest pool")
	ErrNotUnbondedTime         = New("not unbonded time")
)

// stake movements
var (
	ErrBelowMinimum          = New("amount is smaller than minimum")
	ErrInsufficientStake     = New("insufficient delegated stake")
	ErrTransferFailed        = New("token transfer failed")
	ErrZeroAmount            = New("amount is zero")
	ErrInvalidDPoS           = New("DPoS is not valid")
	ErrMigrating             = New("contract migrating")
	ErrInvalidRequest        = New("invalid request encoding")
	ErrCheckSigs             = New("fail to check validator sigs")
	ErrPenaltyExpired        = New("penalty expired")
	ErrUsedNonce             = New("used penalty nonce")
	ErrAmountNotMatch        = New("amount not match")
	ErrValidatorUnbonded     = New("validator unbonded")
	ErrPenaltyExceedsStake   = New("penalty exceeds delegator stake")
	ErrRewardNotMonotonic    = New("reward is not monotonic")
	ErrInsufficientMining    = New("insufficient mining pool")
	ErrInsufficientService   = New("insufficient service pool")
	ErrSidechainUnregistered = New("sidechain not registered")
)

// governance
var (
	ErrInvalidParamID         = New("invalid param id")
	ErrInvalidParamValue      = New("invalid param value")
	ErrNotValidator           = New("msg sender is not a validator")
	ErrInvalidProposalStatus  = New("invalid proposal status")
	ErrVoteDeadlineReached    = New("vote deadline reached")
	ErrVoteDeadlineNotReached = New("vote deadline not reached")
	ErrVoted                  = New("voter has voted")
	ErrInvalidVoteType        = New("invalid vote type")
)
