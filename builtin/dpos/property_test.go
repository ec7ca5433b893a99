// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/request"
	"github.com/sgnlabs/dpos/test/datagen"
	"github.com/sgnlabs/dpos/thor"
)

// requireConserved checks that the engine holds exactly the stakes it tracks plus the
// pools, and that every candidate pool is the sum of its delegated stakes.
func (c *testChain) requireConserved(cands, accounts []thor.Address) {
	held := new(big.Int)
	for _, cand := range cands {
		pool := new(big.Int)
		for _, acct := range accounts {
			del, err := c.dpos.GetDelegation(cand, acct)
			require.NoError(c.t, err)
			held.Add(held, del.Total())
			pool.Add(pool, del.DelegatedStake)
		}
		got, err := c.dpos.GetCandidate(cand)
		require.NoError(c.t, err)
		require.Zero(c.t, pool.Cmp(got.StakingPool), "pool of %v", cand)
	}
	mining, err := c.dpos.GetMiningPool()
	require.NoError(c.t, err)
	service, err := c.dpos.GetServicePool()
	require.NoError(c.t, err)
	held.Add(held, mining).Add(held, service)

	require.Zero(c.t, held.Cmp(c.balance(testEngineAddr)), "engine holds %v, tracked %v", c.balance(testEngineAddr), held)
}

func requireRevertOrNil(t require.TestingT, err error) {
	if err != nil {
		require.True(t, reverts.IsRevertErr(err), "unexpected error %v", err)
	}
}

func TestStakeConservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newTestChain(rt)
		keyA, a := c.newValidator(thor.Tokens(100))
		keyB, b := c.newValidator(thor.Tokens(120))
		keys := map[thor.Address]*ecdsa.PrivateKey{a: keyA, b: keyB}
		cands := []thor.Address{a, b}

		accounts := []thor.Address{a, b}
		for range 3 {
			acct := datagen.RandAddress()
			c.fund(acct)
			accounts = append(accounts, acct)
		}
		outsider := datagen.RandAddress()

		var nonce uint64
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for range steps {
			cand := rapid.SampledFrom(cands).Draw(rt, "cand")
			acct := rapid.SampledFrom(accounts).Draw(rt, "acct")
			amount := thor.Tokens(rapid.Int64Range(1, 60).Draw(rt, "amount"))

			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				_, err := c.dpos.Delegate(c.env(acct), cand, amount)
				requireRevertOrNil(rt, err)
			case 1:
				_, err := c.dpos.IntendWithdraw(c.env(acct), cand, amount)
				requireRevertOrNil(rt, err)
			case 2:
				c.advance(uint32(rapid.IntRange(0, 60).Draw(rt, "blocks")))
			case 3:
				_, _, err := c.dpos.ConfirmWithdraw(c.env(acct), cand)
				requireRevertOrNil(rt, err)
				if err == nil {
					again, _, err := c.dpos.ConfirmWithdraw(c.env(acct), cand)
					require.NoError(rt, err)
					require.Zero(rt, again.Sign())
				}
			case 4:
				nonce++
				beneficiary := outsider
				if rapid.Bool().Draw(rt, "toPool") {
					beneficiary = thor.MiningPoolAddress
				}
				var signers []*ecdsa.PrivateKey
				for _, v := range cands {
					ok, err := c.dpos.IsValidator(v)
					require.NoError(rt, err)
					if ok {
						signers = append(signers, keys[v])
					}
				}
				data, err := request.SignPenalty(&request.Penalty{
					Nonce:               nonce,
					ExpireTime:          uint64(c.block),
					ValidatorAddress:    cand,
					PenalizedDelegators: []request.AccountAmtPair{{Account: acct, Amt: amount}},
					Beneficiaries:       []request.AccountAmtPair{{Account: beneficiary, Amt: amount}},
				}, signers...)
				require.NoError(rt, err)
				_, err = c.dpos.Slash(c.env(outsider), data)
				requireRevertOrNil(rt, err)
			}
			c.requireConserved(cands, accounts)
		}
	})
}

func TestCommissionRateLock(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newTestChain(rt)
		_, cand := c.newCandidate(thor.Tokens(20), thor.Tokens(0))

		lockEnd := rapid.Uint64Range(0, 100).Draw(rt, "lockEnd")
		_, err := c.dpos.NonIncreaseCommissionRate(c.env(cand), 50, lockEnd)
		requireRevertOrNil(rt, err)
		before, err := c.dpos.GetCandidate(cand)
		require.NoError(rt, err)

		_, err = c.dpos.AnnounceIncreaseCommissionRate(c.env(cand), 500, before.RateLockEndTime+10)
		require.NoError(rt, err)
		announcedAt := uint64(c.block)

		c.advance(uint32(rapid.IntRange(0, 120).Draw(rt, "wait")))
		_, err = c.dpos.ConfirmIncreaseCommissionRate(c.env(cand))
		requireRevertOrNil(rt, err)

		after, err := c.dpos.GetCandidate(cand)
		require.NoError(rt, err)
		if after.CommissionRate > before.CommissionRate {
			require.GreaterOrEqual(rt, uint64(c.block), before.RateLockEndTime)
			require.GreaterOrEqual(rt, uint64(c.block), announcedAt+10)
			require.Equal(rt, uint64(500), after.CommissionRate)
		} else {
			require.Error(rt, err)
		}
	})
}
