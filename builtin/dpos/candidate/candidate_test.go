// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/test/datagen"
	"github.com/sgnlabs/dpos/thor"
)

func newCandidate(t *testing.T) *Candidate {
	t.Helper()
	c := &Candidate{}
	c.normalize()
	require.NoError(t, c.Init(thor.Tokens(20), 100, 10))
	return c
}

func TestInit(t *testing.T) {
	c := &Candidate{}
	c.normalize()
	assert.ErrorIs(t, c.Init(big.NewInt(1), 100, 0), reverts.ErrInvalidMinSelfStake)
	assert.ErrorIs(t, c.Init(thor.Tokens(1), thor.CommissionRateBase+1, 0), reverts.ErrInvalidCommissionRate)

	require.NoError(t, c.Init(thor.Tokens(1), thor.CommissionRateBase, 0))
	assert.True(t, c.Initialized)
	assert.Equal(t, StatusUnbonded, c.Status)
	assert.ErrorIs(t, c.Init(thor.Tokens(1), 0, 0), reverts.ErrCandidateInitialized)
}

func TestUpdateMinSelfStake(t *testing.T) {
	c := newCandidate(t)

	require.NoError(t, c.UpdateMinSelfStake(thor.Tokens(30), 5, 100))
	assert.Equal(t, thor.Tokens(30), c.MinSelfStake)
	assert.Equal(t, uint64(0), c.EarliestBondTime)

	require.NoError(t, c.UpdateMinSelfStake(thor.Tokens(10), 5, 100))
	assert.Equal(t, uint64(105), c.EarliestBondTime)

	c.Bond()
	assert.ErrorIs(t, c.UpdateMinSelfStake(thor.Tokens(5), 6, 100), reverts.ErrCandidateBonded)
	require.NoError(t, c.UpdateMinSelfStake(thor.Tokens(50), 6, 100))
	assert.ErrorIs(t, c.UpdateMinSelfStake(big.NewInt(10), 6, 100), reverts.ErrInvalidMinSelfStake)
}

func TestNonIncreaseCommissionRate(t *testing.T) {
	c := newCandidate(t)

	assert.ErrorIs(t, c.NonIncreaseCommissionRate(101, 20, 1), reverts.ErrInvalidNewRate)
	assert.ErrorIs(t, c.NonIncreaseCommissionRate(90, 9, 1), reverts.ErrInvalidLockEndTime)
	assert.ErrorIs(t, c.NonIncreaseCommissionRate(90, 12, 12), reverts.ErrInvalidLockEndTime)

	require.NoError(t, c.AnnounceIncreaseCommissionRate(200, 20, 1))
	require.NoError(t, c.NonIncreaseCommissionRate(90, 15, 1))
	assert.Equal(t, uint64(90), c.CommissionRate)
	assert.Equal(t, uint64(15), c.RateLockEndTime)
	assert.False(t, c.Announced)
}

func TestIncreaseCommissionRate(t *testing.T) {
	c := newCandidate(t)

	assert.ErrorIs(t, c.ConfirmIncreaseCommissionRate(100, 5), reverts.ErrNoRateAnnouncement)
	assert.ErrorIs(t, c.AnnounceIncreaseCommissionRate(100, 20, 1), reverts.ErrInvalidNewRate)
	assert.ErrorIs(t, c.AnnounceIncreaseCommissionRate(thor.CommissionRateBase+1, 20, 1), reverts.ErrInvalidCommissionRate)
	// the announced lock may end before the current one; confirm waits for the current lock anyway
	require.NoError(t, c.AnnounceIncreaseCommissionRate(200, 5, 1))
	assert.Equal(t, uint64(5), c.AnnouncedLockEndTime)

	require.NoError(t, c.AnnounceIncreaseCommissionRate(200, 30, 2))
	assert.ErrorIs(t, c.ConfirmIncreaseCommissionRate(6, 5), reverts.ErrInNoticePeriod)
	// notice period passed, but the lock has not ended
	assert.ErrorIs(t, c.ConfirmIncreaseCommissionRate(7, 5), reverts.ErrRateLocked)

	require.NoError(t, c.ConfirmIncreaseCommissionRate(10, 5))
	assert.Equal(t, uint64(200), c.CommissionRate)
	assert.Equal(t, uint64(30), c.RateLockEndTime)
	assert.False(t, c.Announced)
}

func TestClaimAndUnbond(t *testing.T) {
	c := newCandidate(t)
	minPool := thor.Tokens(80)

	assert.ErrorIs(t, c.CheckClaim(thor.Tokens(40), minPool, 1), reverts.ErrInsufficientPool)
	c.AddPool(thor.Tokens(140))
	assert.ErrorIs(t, c.CheckClaim(thor.Tokens(10), minPool, 1), reverts.ErrNotEnoughSelfStake)

	require.NoError(t, c.UpdateMinSelfStake(thor.Tokens(10), 1, 10))
	assert.ErrorIs(t, c.CheckClaim(thor.Tokens(40), minPool, 10), reverts.ErrNotEarliestBondTime)
	require.NoError(t, c.CheckClaim(thor.Tokens(40), minPool, 11))

	c.Bond()
	assert.True(t, c.IsBonded())
	assert.ErrorIs(t, c.CheckClaim(thor.Tokens(40), minPool, 11), reverts.ErrCandidateBonded)
	assert.ErrorIs(t, c.ConfirmUnbonded(12, 5), reverts.ErrInvalidStatus)

	c.Unbond(20)
	assert.Equal(t, StatusUnbonding, c.Status)
	assert.ErrorIs(t, c.ConfirmUnbonded(24, 5), reverts.ErrNotUnbondedTime)
	require.NoError(t, c.ConfirmUnbonded(25, 5))
	assert.Equal(t, StatusUnbonded, c.Status)

	require.NoError(t, c.SubPool(thor.Tokens(40)))
	assert.Equal(t, thor.Tokens(100), c.StakingPool)
	assert.Error(t, c.SubPool(thor.Tokens(101)))
}

func TestService(t *testing.T) {
	sctx := solidity.NewContext(thor.BytesToAddress([]byte("dpos")), state.New(lvldb.NewMem()))
	svc := New(sctx)
	addr := datagen.RandAddress()

	c, err := svc.Get(addr)
	require.NoError(t, err)
	assert.False(t, c.Initialized)
	assert.Equal(t, 0, c.StakingPool.Sign())

	_, err = svc.GetInitialized(addr)
	assert.ErrorIs(t, err, reverts.ErrCandidateNotInitialized)

	require.NoError(t, c.Init(thor.Tokens(2), 50, 7))
	c.AddPool(thor.Tokens(3))
	require.NoError(t, svc.Set(addr, c))

	got, err := svc.GetInitialized(addr)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, "unbonded", got.Status.String())
}
