// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

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

func newDelegation() *Delegation {
	d := &Delegation{}
	d.normalize()
	return d
}

func maturedBefore(block uint64) func(WithdrawIntent) bool {
	return func(in WithdrawIntent) bool { return in.ProposedTime < block }
}

func TestIntendWithdraw(t *testing.T) {
	d := newDelegation()
	d.Delegate(big.NewInt(100))

	assert.ErrorIs(t, d.IntendWithdraw(big.NewInt(101), 1), reverts.ErrInsufficientStake)
	require.NoError(t, d.IntendWithdraw(big.NewInt(30), 1))
	require.NoError(t, d.IntendWithdraw(big.NewInt(20), 2))

	assert.Equal(t, big.NewInt(50), d.DelegatedStake)
	assert.Equal(t, big.NewInt(50), d.UndelegatingStake)
	assert.Equal(t, big.NewInt(100), d.Total())
	assert.Len(t, d.Intents, 2)
}

func TestConfirmWithdrawFIFO(t *testing.T) {
	d := newDelegation()
	d.Delegate(big.NewInt(100))
	require.NoError(t, d.IntendWithdraw(big.NewInt(10), 1))
	require.NoError(t, d.IntendWithdraw(big.NewInt(20), 5))
	require.NoError(t, d.IntendWithdraw(big.NewInt(30), 2))

	// the second intent is immature, so the third one waits behind it
	paid := d.ConfirmWithdraw(maturedBefore(3))
	assert.Equal(t, big.NewInt(10), paid)
	assert.Len(t, d.Intents, 2)

	assert.Equal(t, 0, d.ConfirmWithdraw(maturedBefore(3)).Sign())

	paid = d.ConfirmWithdraw(maturedBefore(10))
	assert.Equal(t, big.NewInt(50), paid)
	assert.Empty(t, d.Intents)
	assert.Equal(t, 0, d.UndelegatingStake.Sign())
	assert.Equal(t, big.NewInt(40), d.DelegatedStake)
}

func TestSlashUndelegatingFirst(t *testing.T) {
	d := newDelegation()
	d.Delegate(big.NewInt(100))
	require.NoError(t, d.IntendWithdraw(big.NewInt(20), 1))
	require.NoError(t, d.IntendWithdraw(big.NewInt(10), 2))

	fromDelegated, err := d.Slash(big.NewInt(25))
	require.NoError(t, err)
	assert.Equal(t, 0, fromDelegated.Sign())
	assert.Equal(t, big.NewInt(5), d.UndelegatingStake)

	// the first intent is paid short, the second gets nothing
	assert.Equal(t, big.NewInt(5), d.ConfirmWithdraw(maturedBefore(2)))
	assert.Equal(t, 0, d.ConfirmWithdraw(maturedBefore(10)).Sign())
	assert.Empty(t, d.Intents)

	fromDelegated, err = d.Slash(big.NewInt(30))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), fromDelegated)
	assert.Equal(t, big.NewInt(40), d.DelegatedStake)

	_, err = d.Slash(big.NewInt(41))
	assert.ErrorIs(t, err, reverts.ErrPenaltyExceedsStake)
}

func TestService(t *testing.T) {
	sctx := solidity.NewContext(thor.BytesToAddress([]byte("dpos")), state.New(lvldb.NewMem()))
	svc := New(sctx)
	cand, delegator := datagen.RandAddress(), datagen.RandAddress()

	d, err := svc.Get(cand, delegator)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Total().Sign())

	d.Delegate(big.NewInt(70))
	require.NoError(t, d.IntendWithdraw(big.NewInt(20), 9))
	require.NoError(t, svc.Set(cand, delegator, d))

	got, err := svc.Get(cand, delegator)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), got.DelegatedStake)
	assert.Equal(t, big.NewInt(20), got.UndelegatingStake)
	require.Len(t, got.Intents, 1)
	assert.Equal(t, uint64(9), got.Intents[0].ProposedTime)

	// keyed by the pair, not by either side
	other, err := svc.Get(delegator, cand)
	require.NoError(t, err)
	assert.Equal(t, 0, other.Total().Sign())
}
