// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package govern

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/dpos/validatorset"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/test/datagen"
	"github.com/sgnlabs/dpos/thor"
)

func newContext() *solidity.Context {
	return solidity.NewContext(thor.BytesToAddress([]byte("dpos")), state.New(lvldb.NewMem()))
}

func TestParamProposalLifecycle(t *testing.T) {
	s := New(newContext())
	proposer := datagen.RandAddress()

	id, err := s.CreateParamProposal(proposer, big.NewInt(100), 10, 4, big.NewInt(21))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	next, err := s.NextParamProposalID()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	p, err := s.GetParamProposal(id)
	require.NoError(t, err)
	assert.Equal(t, proposer, p.Proposer)
	assert.Equal(t, StatusVoting, p.Status)
	assert.Equal(t, uint8(4), p.Record)
	assert.Equal(t, big.NewInt(21), p.NewValue)

	require.NoError(t, p.CheckVote(9))
	assert.ErrorIs(t, p.CheckVote(10), reverts.ErrVoteDeadlineReached)
	assert.ErrorIs(t, p.Close(9, true), reverts.ErrVoteDeadlineNotReached)
	require.NoError(t, p.Close(10, true))
	assert.ErrorIs(t, p.Close(11, true), reverts.ErrInvalidProposalStatus)
	assert.ErrorIs(t, p.CheckVote(1), reverts.ErrInvalidProposalStatus)
	require.NoError(t, s.SetParamProposal(id, p))

	got, err := s.GetParamProposal(id)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got.Status)
	assert.True(t, got.Passed)

	missing, err := s.GetParamProposal(5)
	require.NoError(t, err)
	assert.Equal(t, StatusUninitiated, missing.Status)
	assert.Equal(t, "uninitiated", missing.Status.String())
}

func TestVoteAndTally(t *testing.T) {
	sctx := newContext()
	s := New(sctx)
	set := validatorset.New(sctx)

	a, b, c := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, set.Add(a, big.NewInt(50)))
	require.NoError(t, set.Add(b, big.NewInt(30)))
	require.NoError(t, set.Add(c, big.NewInt(20)))

	assert.ErrorIs(t, s.Vote(KindParam, 0, a, VoteUnvoted), reverts.ErrInvalidVoteType)
	assert.ErrorIs(t, s.Vote(KindParam, 0, a, VoteType(9)), reverts.ErrInvalidVoteType)

	require.NoError(t, s.Vote(KindParam, 0, a, VoteYes))
	require.NoError(t, s.Vote(KindParam, 0, b, VoteNo))
	require.NoError(t, s.Vote(KindParam, 0, c, VoteYes))
	assert.ErrorIs(t, s.Vote(KindParam, 0, a, VoteNo), reverts.ErrVoted)

	// the same id of another kind is a separate proposal
	require.NoError(t, s.Vote(KindSidechain, 0, a, VoteNo))

	yes, err := s.Tally(KindParam, 0, set)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), yes)

	// votes of former validators no longer count
	require.NoError(t, set.Remove(c))
	yes, err = s.Tally(KindParam, 0, set)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), yes)

	yes, err = s.Tally(KindSidechain, 0, set)
	require.NoError(t, err)
	assert.Equal(t, 0, yes.Sign())
}

func TestSidechains(t *testing.T) {
	s := New(newContext())
	chain := datagen.RandAddress()

	id, err := s.CreateSidechainProposal(datagen.RandAddress(), big.NewInt(1), 5, chain, true)
	require.NoError(t, err)
	p, err := s.GetSidechainProposal(id)
	require.NoError(t, err)
	assert.Equal(t, chain, p.Sidechain)
	assert.True(t, p.Registered)

	ok, err := s.IsSidechainRegistered(chain)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSidechainRegistered(chain, true))
	ok, _ = s.IsSidechainRegistered(chain)
	assert.True(t, ok)

	require.NoError(t, s.SetSidechainRegistered(chain, false))
	ok, _ = s.IsSidechainRegistered(chain)
	assert.False(t, ok)
}
