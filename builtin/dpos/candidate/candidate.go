// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/thor"
)

type Status uint8

const (
	StatusUnbonded Status = iota
	StatusBonded
	StatusUnbonding
)

func (s Status) String() string {
	switch s {
	case StatusUnbonded:
		return "unbonded"
	case StatusBonded:
		return "bonded"
	case StatusUnbonding:
		return "unbonding"
	default:
		return "unknown"
	}
}

// Candidate is the stored record of a validator aspirant. All times are block heights.
type Candidate struct {
	Initialized     bool
	MinSelfStake    *big.Int
	StakingPool     *big.Int // sum of delegated stake of all delegators
	Status          Status
	UnbondTime      uint64
	CommissionRate  uint64
	RateLockEndTime uint64

	// pending commission rate increase
	Announced            bool
	AnnouncedRate        uint64
	AnnouncedLockEndTime uint64
	AnnouncementTime     uint64

	// set by a min self stake decrease, gates the next claim
	EarliestBondTime uint64
}

func (c *Candidate) normalize() {
	if c.MinSelfStake == nil {
		c.MinSelfStake = new(big.Int)
	}
	if c.StakingPool == nil {
		c.StakingPool = new(big.Int)
	}
}

// AddPool grows the staking pool by amount.
func (c *Candidate) AddPool(amount *big.Int) {
	c.StakingPool = new(big.Int).Add(c.StakingPool, amount)
}

// SubPool shrinks the staking pool by amount.
func (c *Candidate) SubPool(amount *big.Int) error {
	if c.StakingPool.Cmp(amount) < 0 {
		return errors.New("staking pool underflow")
	}
	c.StakingPool = new(big.Int).Sub(c.StakingPool, amount)
	return nil
}

func (c *Candidate) IsBonded() bool {
	return c.Status == StatusBonded
}

// Init sets the initial terms of a fresh candidate.
func (c *Candidate) Init(minSelfStake *big.Int, rate, rateLockEndTime uint64) error {
	if c.Initialized {
		return reverts.ErrCandidateInitialized
	}
	if minSelfStake.Cmp(thor.MinUnit) < 0 {
		return reverts.ErrInvalidMinSelfStake
	}
	if rate > thor.CommissionRateBase {
		return reverts.ErrInvalidCommissionRate
	}
	c.Initialized = true
	c.MinSelfStake = new(big.Int).Set(minSelfStake)
	c.Status = StatusUnbonded
	c.CommissionRate = rate
	c.RateLockEndTime = rateLockEndTime
	return nil
}

// UpdateMinSelfStake raises the self stake floor at once. A decrease is only allowed while
// not bonded, and delays the next claim by the notice period.
func (c *Candidate) UpdateMinSelfStake(value *big.Int, block, noticePeriod uint64) error {
	if value.Cmp(thor.MinUnit) < 0 {
		return reverts.ErrInvalidMinSelfStake
	}
	if value.Cmp(c.MinSelfStake) < 0 {
		if c.Status == StatusBonded {
			return reverts.ErrCandidateBonded
		}
		c.EarliestBondTime = block + noticePeriod
	}
	c.MinSelfStake = new(big.Int).Set(value)
	return nil
}

// NonIncreaseCommissionRate applies a rate that is not higher than the current one.
// The lock horizon never moves backwards.
func (c *Candidate) NonIncreaseCommissionRate(rate, lockEndTime, block uint64) error {
	if rate > c.CommissionRate {
		return reverts.ErrInvalidNewRate
	}
	if lockEndTime < c.RateLockEndTime || lockEndTime <= block {
		return reverts.ErrInvalidLockEndTime
	}
	c.CommissionRate = rate
	c.RateLockEndTime = lockEndTime
	c.clearAnnouncement()
	return nil
}

func (c *Candidate) AnnounceIncreaseCommissionRate(rate, lockEndTime, block uint64) error {
	if rate <= c.CommissionRate {
		return reverts.ErrInvalidNewRate
	}
	if rate > thor.CommissionRateBase {
		return reverts.ErrInvalidCommissionRate
	}
	c.Announced = true
	c.AnnouncedRate = rate
	c.AnnouncedLockEndTime = lockEndTime
	c.AnnouncementTime = block
	return nil
}

// ConfirmIncreaseCommissionRate applies the announced rate once both the notice period
// has passed and the current rate lock has ended.
func (c *Candidate) ConfirmIncreaseCommissionRate(block, noticePeriod uint64) error {
	if !c.Announced {
		return reverts.ErrNoRateAnnouncement
	}
	if block < c.AnnouncementTime+noticePeriod {
		return reverts.ErrInNoticePeriod
	}
	if block < c.RateLockEndTime {
		return reverts.ErrRateLocked
	}
	c.CommissionRate = c.AnnouncedRate
	c.RateLockEndTime = c.AnnouncedLockEndTime
	c.clearAnnouncement()
	return nil
}

func (c *Candidate) clearAnnouncement() {
	c.Announced = false
	c.AnnouncedRate = 0
	c.AnnouncedLockEndTime = 0
	c.AnnouncementTime = 0
}

// CheckClaim validates the candidate-local conditions of becoming a validator.
func (c *Candidate) CheckClaim(selfStake, minStakingPool *big.Int, block uint64) error {
	if !c.Initialized {
		return reverts.ErrCandidateNotInitialized
	}
	if c.Status == StatusBonded {
		return reverts.ErrCandidateBonded
	}
	if c.StakingPool.Cmp(minStakingPool) < 0 {
		return reverts.ErrInsufficientPool
	}
	if selfStake.Cmp(c.MinSelfStake) < 0 {
		return reverts.ErrNotEnoughSelfStake
	}
	if block < c.EarliestBondTime {
		return reverts.ErrNotEarliestBondTime
	}
	return nil
}

func (c *Candidate) Bond() {
	c.Status = StatusBonded
	c.UnbondTime = 0
}

func (c *Candidate) Unbond(block uint64) {
	c.Status = StatusUnbonding
	c.UnbondTime = block
}

// ConfirmUnbonded finishes unbonding once the slash window has passed.
func (c *Candidate) ConfirmUnbonded(block, slashTimeout uint64) error {
	if c.Status != StatusUnbonding {
		return reverts.ErrInvalidStatus
	}
	if block < c.UnbondTime+slashTimeout {
		return reverts.ErrNotUnbondedTime
	}
	c.Status = StatusUnbonded
	c.UnbondTime = 0
	return nil
}
