// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/cry"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/test/datagen"
	"github.com/sgnlabs/dpos/thor"
)

var (
	testEngineAddr = thor.BytesToAddress([]byte("dpos"))
	testTokenAddr  = thor.BytesToAddress([]byte("token"))
	testCompanion  = thor.BytesToAddress([]byte("sgn"))
)

func defaultTestConfig(owner thor.Address) *Config {
	return &Config{
		Owner:               owner,
		Companion:           testCompanion,
		ProposalDeposit:     thor.Tokens(100),
		GovernVoteTimeout:   20,
		SlashTimeout:        50,
		MinValidatorNum:     1,
		MaxValidatorNum:     11,
		MinStakingPool:      thor.Tokens(80),
		AdvanceNoticePeriod: 10,
		DposGoLiveBlock:     0,
	}
}

type testChain struct {
	t     require.TestingT
	dpos  *DPoS
	state *state.State
	owner thor.Address
	block uint32
}

func newTestChain(t require.TestingT, mods ...func(*Config)) *testChain {
	st := state.New(lvldb.NewMem())
	owner := datagen.RandAddress()
	cfg := defaultTestConfig(owner)
	for _, mod := range mods {
		mod(cfg)
	}
	d := New(testEngineAddr, testTokenAddr, st, cry.NewSigner())
	require.NoError(t, d.Initialize(cfg))
	return &testChain{t: t, dpos: d, state: st, owner: owner, block: 1}
}

func (c *testChain) env(caller thor.Address) Env {
	return Env{Caller: caller, BlockNumber: c.block}
}

func (c *testChain) advance(n uint32) {
	c.block += n
}

// fund mints tokens to addr and lets the engine spend them.
func (c *testChain) fund(addr thor.Address) {
	tok := c.dpos.Token()
	require.NoError(c.t, tok.Mint(addr, thor.Tokens(100000)))
	require.NoError(c.t, tok.Approve(addr, testEngineAddr, thor.Tokens(100000)))
}

func (c *testChain) balance(addr thor.Address) *big.Int {
	b, err := c.dpos.Token().BalanceOf(addr)
	require.NoError(c.t, err)
	return b
}

// newCandidate initializes a funded candidate that self-delegates selfStake.
func (c *testChain) newCandidate(minSelfStake, selfStake *big.Int) (*ecdsa.PrivateKey, thor.Address) {
	key, addr := datagen.RandKey()
	c.fund(addr)
	_, err := c.dpos.InitializeCandidate(c.env(addr), minSelfStake, 100, 0)
	require.NoError(c.t, err)
	if selfStake.Sign() > 0 {
		_, err = c.dpos.Delegate(c.env(addr), addr, selfStake)
		require.NoError(c.t, err)
	}
	return key, addr
}

// newValidator creates a candidate with the given self stake and bonds it.
func (c *testChain) newValidator(selfStake *big.Int) (*ecdsa.PrivateKey, thor.Address) {
	key, addr := c.newCandidate(thor.Tokens(20), selfStake)
	_, err := c.dpos.ClaimValidator(c.env(addr))
	require.NoError(c.t, err)
	return key, addr
}

func (c *testChain) delegator(cand thor.Address, amount *big.Int) thor.Address {
	addr := datagen.RandAddress()
	c.fund(addr)
	_, err := c.dpos.Delegate(c.env(addr), cand, amount)
	require.NoError(c.t, err)
	return addr
}

func eventNames(r *Receipt) []string {
	return events.Names(r.Events)
}

func requireRevert(t *testing.T, expected error, _ *Receipt, err error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, expected)
}
