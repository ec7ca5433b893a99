// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/cry"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/thor"
)

func TestDevnet(t *testing.T) {
	gen := NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.False(t, gen.ID().IsZero())
	assert.Equal(t, gen.ID(), NewDevnet().ID())

	st := state.New(lvldb.NewMem())
	d, evs, err := gen.Build(st, cry.NewSigner())
	require.NoError(t, err)
	assert.NotEmpty(t, evs)
	assert.Equal(t, gen.ID(), st.Stage().Hash())

	num, err := d.GetValidatorNum()
	require.NoError(t, err)
	assert.Equal(t, uint64(devValidatorNum), num)

	valid, err := d.IsValidDPoS(0)
	require.NoError(t, err)
	assert.True(t, valid)

	owner, err := d.Owner()
	require.NoError(t, err)
	assert.Equal(t, DevAccounts()[0].Address, owner)

	bal, err := d.Token().BalanceOf(DevAccounts()[5].Address)
	require.NoError(t, err)
	assert.Equal(t, thor.Tokens(1_000_000), bal)

	held, err := d.Token().BalanceOf(DevEngineAddress)
	require.NoError(t, err)
	assert.Equal(t, thor.Tokens(30_000), held)
}

const yamlGenesis = `
name: testnet
engine: "0x0000000000000000000000000000000000000d05"
token: "0x000000000000000000000000000000000000700c"
owner: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
params:
  proposalDeposit: 1000
  governVoteTimeout: 30
  slashTimeout: 60
  minValidatorNum: 1
  maxValidatorNum: 7
  minStakingPool: "0x64"
  advanceNoticePeriod: 5
accounts:
  - address: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
    balance: 5000
validators:
  - address: "0x733b7269443c70de16bbf9b0615307884bcc5636"
    selfStake: "200000000000000000000"
    minSelfStake: "1000000000000000000"
    commissionRate: 500
`

const jsonGenesis = `{
	"engine": "0x0000000000000000000000000000000000000d05",
	"token": "0x000000000000000000000000000000000000700c",
	"owner": "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed",
	"params": {
		"proposalDeposit": "0x3e8",
		"governVoteTimeout": 30,
		"slashTimeout": 60,
		"maxValidatorNum": 7,
		"minStakingPool": 100
	},
	"accounts": [{"address": "0xd3ae78222beadb038203be21ed5ce7c9b1bff602", "balance": 5000}]
}`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	fromYAML, err := Load(writeFile(t, "genesis.yaml", yamlGenesis))
	require.NoError(t, err)
	fromJSON, err := Load(writeFile(t, "genesis.json", jsonGenesis))
	require.NoError(t, err)

	for _, gen := range []*CustomGenesis{fromYAML, fromJSON} {
		assert.Equal(t, thor.MustParseAddress("0x0000000000000000000000000000000000000d05"), gen.Engine)
		assert.Equal(t, "1000", gen.Params.ProposalDeposit.Int().String())
		assert.Equal(t, "100", gen.Params.MinStakingPool.Int().String())
		assert.Equal(t, uint64(7), gen.Params.MaxValidatorNum)
		require.Len(t, gen.Accounts, 1)
		assert.Equal(t, "5000", gen.Accounts[0].Balance.Int().String())
	}
	assert.Equal(t, "testnet", fromYAML.Name)
	require.Len(t, fromYAML.Validators, 1)
	assert.Equal(t, uint64(500), fromYAML.Validators[0].CommissionRate)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Load(writeFile(t, "bad.json", "{"))
	assert.Error(t, err)
}

func TestNewCustomNet(t *testing.T) {
	gen, err := Load(writeFile(t, "genesis.yaml", yamlGenesis))
	require.NoError(t, err)

	net, err := NewCustomNet(gen)
	require.NoError(t, err)
	assert.Equal(t, "testnet", net.Name())

	d, _, err := net.Build(state.New(lvldb.NewMem()), cry.NewSigner())
	require.NoError(t, err)
	maxNum, err := d.GetParam(params.MaxValidatorNum)
	require.NoError(t, err)
	assert.Equal(t, int64(7), maxNum.Int64())
	ok, err := d.IsValidator(gen.Validators[0].Address)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewCustomNetRejects(t *testing.T) {
	base := func() *CustomGenesis {
		gen, err := Load(writeFile(t, "genesis.yaml", yamlGenesis))
		require.NoError(t, err)
		return gen
	}

	tests := []struct {
		name   string
		modify func(*CustomGenesis)
	}{
		{"no engine", func(g *CustomGenesis) { g.Engine = thor.Address{} }},
		{"shared account", func(g *CustomGenesis) { g.Token = g.Engine }},
		{"no owner", func(g *CustomGenesis) { g.Owner = thor.Address{} }},
		{"no deposit", func(g *CustomGenesis) { g.Params.ProposalDeposit = nil }},
		{"zero balance", func(g *CustomGenesis) { g.Accounts[0].Balance = NewHexOrDecimal256(thor.Tokens(0)) }},
		{"validator without stake", func(g *CustomGenesis) { g.Validators[0].SelfStake = nil }},
		{"too many validators", func(g *CustomGenesis) { g.Params.MaxValidatorNum = thor.MaxValidatorCap + 1 }},
		{"stake below pool floor", func(g *CustomGenesis) { g.Params.MinStakingPool = NewHexOrDecimal256(thor.Tokens(1000)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := base()
			tt.modify(gen)
			_, err := NewCustomNet(gen)
			assert.Error(t, err)
		})
	}
}
