// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/cry"
	"github.com/sgnlabs/dpos/genesis"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/thor"
)

func newSolo(t *testing.T, opts Options) (*Solo, *lvldb.LevelDB) {
	store := lvldb.NewMem()
	s, err := New(store, genesis.NewDevnet(), cry.NewSigner(), opts)
	require.NoError(t, err)
	return s, store
}

func approve(amount *big.Int) func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
	return func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
		return &dpos.Receipt{}, d.Token().Approve(env.Caller, d.Address(), amount)
	}
}

func delegate(cand thor.Address, amount *big.Int) func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
	return func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
		return d.Delegate(env, cand, amount)
	}
}

func TestGenesisBlock(t *testing.T) {
	s, _ := newSolo(t, Options{})
	assert.Equal(t, uint32(0), s.Head())
	assert.Equal(t, uint32(1), s.BlockNumber())

	recs, ok := s.Events(0)
	require.True(t, ok)
	assert.NotEmpty(t, recs)
	assert.Equal(t, "InitializeCandidate", recs[0].Name)

	err := s.View(func(d *dpos.DPoS, block uint32) error {
		assert.Equal(t, uint32(1), block)
		num, err := d.GetValidatorNum()
		require.NoError(t, err)
		assert.Equal(t, uint64(3), num)
		return nil
	})
	require.NoError(t, err)
}

func TestExecuteAndNextBlock(t *testing.T) {
	s, store := newSolo(t, Options{})
	accs := genesis.DevAccounts()
	delegator, cand := accs[5].Address, accs[0].Address

	ticker := s.NewTicker()

	_, err := s.Execute(delegator, approve(thor.Tokens(50)))
	require.NoError(t, err)
	r, err := s.Execute(delegator, delegate(cand, thor.Tokens(50)))
	require.NoError(t, err)
	assert.Len(t, r.Events, 1)

	_, err = s.Execute(delegator, delegate(cand, thor.Tokens(1)))
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)

	// nothing is visible to subscribers before the block is committed
	_, ok := s.Events(1)
	assert.False(t, ok)

	blk, err := s.NextBlock()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), blk.Number)
	assert.Equal(t, 1, blk.Events)

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("ticker not woken")
	}

	recs, ok := s.Events(1)
	require.True(t, ok)
	require.Len(t, recs, 1)
	assert.Equal(t, "Delegate", recs[0].Name)
	assert.Equal(t, uint32(1), recs[0].BlockNumber)

	// reopen the store
	reopened, err := New(store, genesis.NewDevnet(), cry.NewSigner(), Options{})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), reopened.Head())
	require.NoError(t, reopened.View(func(d *dpos.DPoS, _ uint32) error {
		del, err := d.GetDelegation(cand, delegator)
		require.NoError(t, err)
		assert.Equal(t, thor.Tokens(50), del.DelegatedStake)
		return nil
	}))
}

func TestUncommittedCallsAreLostOnReopen(t *testing.T) {
	s, store := newSolo(t, Options{})
	accs := genesis.DevAccounts()

	_, err := s.Execute(accs[6].Address, approve(thor.Tokens(5)))
	require.NoError(t, err)

	reopened, err := New(store, genesis.NewDevnet(), cry.NewSigner(), Options{})
	require.NoError(t, err)
	require.NoError(t, reopened.View(func(d *dpos.DPoS, _ uint32) error {
		allowance, err := d.Token().Allowance(accs[6].Address, d.Address())
		require.NoError(t, err)
		assert.Equal(t, 0, allowance.Sign())
		return nil
	}))
}

func TestOnDemand(t *testing.T) {
	s, _ := newSolo(t, Options{OnDemand: true})
	accs := genesis.DevAccounts()

	_, err := s.Execute(accs[7].Address, approve(thor.Tokens(5)))
	require.NoError(t, err)
	_, err = s.Execute(accs[7].Address, delegate(accs[1].Address, thor.Tokens(5)))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), s.Head())

	// failed calls do not pack
	_, err = s.Execute(accs[7].Address, delegate(accs[1].Address, thor.Tokens(5)))
	require.Error(t, err)
	assert.Equal(t, uint32(2), s.Head())
}

func TestGenesisMismatch(t *testing.T) {
	_, store := newSolo(t, Options{})

	other, err := genesis.NewCustomNet(&genesis.CustomGenesis{
		Engine: thor.BytesToAddress([]byte("engine")),
		Token:  thor.BytesToAddress([]byte("tok")),
		Owner:  thor.BytesToAddress([]byte("owner")),
		Params: genesis.Params{
			ProposalDeposit: genesis.NewHexOrDecimal256(thor.Tokens(1)),
			MinStakingPool:  genesis.NewHexOrDecimal256(thor.Tokens(1)),
			MaxValidatorNum: 3,
		},
	})
	require.NoError(t, err)

	_, err = New(store, other, cry.NewSigner(), Options{})
	assert.ErrorIs(t, err, ErrGenesisMismatch)
}

func TestRunStopsWithContext(t *testing.T) {
	s, _ := newSolo(t, Options{BlockInterval: 1})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
}
