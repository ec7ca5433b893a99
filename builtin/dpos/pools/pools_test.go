// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

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

func newService() *Service {
	return New(solidity.NewContext(thor.BytesToAddress([]byte("dpos")), state.New(lvldb.NewMem())))
}

func TestRedeem(t *testing.T) {
	s := newService()
	receiver := datagen.RandAddress()
	consumer := datagen.RandAddress()

	require.NoError(t, s.AddMining(big.NewInt(100)))
	require.NoError(t, s.Subscribe(consumer, big.NewInt(100)))

	mining, service, err := s.Redeem(receiver, big.NewInt(40), big.NewInt(60))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), mining)
	assert.Equal(t, big.NewInt(60), service)

	// replaying the same cumulative values pays nothing
	mining, service, err = s.Redeem(receiver, big.NewInt(40), big.NewInt(60))
	require.NoError(t, err)
	assert.Equal(t, 0, mining.Sign())
	assert.Equal(t, 0, service.Sign())

	_, _, err = s.Redeem(receiver, big.NewInt(39), big.NewInt(60))
	assert.ErrorIs(t, err, reverts.ErrRewardNotMonotonic)
	_, _, err = s.Redeem(receiver, big.NewInt(101), big.NewInt(60))
	assert.ErrorIs(t, err, reverts.ErrInsufficientMining)
	_, _, err = s.Redeem(receiver, big.NewInt(40), big.NewInt(101))
	assert.ErrorIs(t, err, reverts.ErrInsufficientService)

	pool, err := s.MiningPool()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), pool)
	pool, err = s.ServicePool()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), pool)

	redeemedMining, redeemedService, err := s.Redeemed(receiver)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), redeemedMining)
	assert.Equal(t, big.NewInt(60), redeemedService)

	deposit, err := s.SubscriptionDeposit(consumer)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), deposit)
}

func TestUseNonce(t *testing.T) {
	s := newService()

	used, err := s.IsNonceUsed(7)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, s.UseNonce(7))
	assert.ErrorIs(t, s.UseNonce(7), reverts.ErrUsedNonce)
	require.NoError(t, s.UseNonce(8))
}

func TestCompanion(t *testing.T) {
	s := newService()
	addr := datagen.RandAddress()
	s.SetCompanion(addr)
	got, err := s.Companion()
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}
