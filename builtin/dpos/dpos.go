// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package dpos implements the delegated proof-of-stake engine: candidates, delegations,
// the validator roster, slashing, reward redemption and governance.
package dpos

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos/access"
	"github.com/sgnlabs/dpos/builtin/dpos/candidate"
	"github.com/sgnlabs/dpos/builtin/dpos/delegation"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/govern"
	"github.com/sgnlabs/dpos/builtin/dpos/pools"
	"github.com/sgnlabs/dpos/builtin/dpos/quorum"
	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/dpos/validatorset"
	"github.com/sgnlabs/dpos/builtin/params"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/builtin/token"
	"github.com/sgnlabs/dpos/log"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/thor"
)

var logger = log.WithContext("pkg", "dpos")

func SetLogger(l log.Logger) {
	logger = l
}

// Env is the execution environment of a call, supplied by the host.
type Env struct {
	Caller      thor.Address
	BlockNumber uint32
}

func (e Env) block() uint64 {
	return uint64(e.BlockNumber)
}

// Receipt is the outcome of a successful call.
type Receipt struct {
	Events []events.Event
}

// Config holds the construction parameters applied at genesis.
type Config struct {
	Owner               thor.Address
	Companion           thor.Address
	ProposalDeposit     *big.Int
	GovernVoteTimeout   uint64
	SlashTimeout        uint64
	MinValidatorNum     uint64
	MaxValidatorNum     uint64
	MinStakingPool      *big.Int
	AdvanceNoticePeriod uint64
	DposGoLiveBlock     uint64
}

// DPoS implements the staking engine on top of contract storage.
type DPoS struct {
	addr  thor.Address
	state *state.State

	params      *params.Params
	token       *token.Token
	access      *access.Service
	candidates  *candidate.Service
	delegations *delegation.Service
	validators  *validatorset.Set
	verifier    *quorum.Verifier
	pools       *pools.Service
	govern      *govern.Service
}

// New binds an engine stored at addr, holding tokens of the ledger stored at tokenAddr.
func New(addr, tokenAddr thor.Address, st *state.State, recoverer quorum.Recoverer) *DPoS {
	sctx := solidity.NewContext(addr, st)
	validators := validatorset.New(sctx)

	return &DPoS{
		addr:        addr,
		state:       st,
		params:      params.New(sctx),
		token:       token.New(solidity.NewContext(tokenAddr, st)),
		access:      access.New(sctx),
		candidates:  candidate.New(sctx),
		delegations: delegation.New(sctx),
		validators:  validators,
		verifier:    quorum.New(validators, recoverer),
		pools:       pools.New(sctx),
		govern:      govern.New(sctx),
	}
}

// Initialize writes the construction parameters. It is called once at genesis.
func (d *DPoS) Initialize(cfg *Config) error {
	if cfg.MaxValidatorNum == 0 || cfg.MaxValidatorNum > thor.MaxValidatorCap {
		return errors.Errorf("max validator num %d out of range", cfg.MaxValidatorNum)
	}
	if cfg.MinValidatorNum > cfg.MaxValidatorNum {
		return errors.New("min validator num exceeds max validator num")
	}
	for name, window := range map[string]uint64{
		"govern vote timeout":   cfg.GovernVoteTimeout,
		"slash timeout":         cfg.SlashTimeout,
		"advance notice period": cfg.AdvanceNoticePeriod,
	} {
		if window > thor.MaxBlockWindow {
			return errors.Errorf("%s %d exceeds %d blocks", name, window, thor.MaxBlockWindow)
		}
	}

	values := map[params.ID]*big.Int{
		params.ProposalDeposit:     cfg.ProposalDeposit,
		params.GovernVoteTimeout:   new(big.Int).SetUint64(cfg.GovernVoteTimeout),
		params.SlashTimeout:        new(big.Int).SetUint64(cfg.SlashTimeout),
		params.MinValidatorNum:     new(big.Int).SetUint64(cfg.MinValidatorNum),
		params.MaxValidatorNum:     new(big.Int).SetUint64(cfg.MaxValidatorNum),
		params.MinStakingPool:      cfg.MinStakingPool,
		params.AdvanceNoticePeriod: new(big.Int).SetUint64(cfg.AdvanceNoticePeriod),
		params.MigrationTime:       new(big.Int),
	}
	for _, id := range params.IDs() {
		v := values[id]
		if v == nil {
			v = new(big.Int)
		}
		if err := d.params.Set(id.Key(), v); err != nil {
			return errors.Wrapf(err, "init param %v", id)
		}
	}
	if err := d.params.Set(thor.KeyDposGoLiveBlock, new(big.Int).SetUint64(cfg.DposGoLiveBlock)); err != nil {
		return errors.Wrap(err, "init go-live block")
	}
	d.access.SetOwner(cfg.Owner)
	d.pools.SetCompanion(cfg.Companion)

	logger.Info("initialized", "owner", cfg.Owner, "maxValidators", cfg.MaxValidatorNum, "goLive", cfg.DposGoLiveBlock)
	return nil
}

// Address returns the account holding the engine's storage and tokens.
func (d *DPoS) Address() thor.Address {
	return d.addr
}

// Token returns the token ledger the engine moves stake on.
func (d *DPoS) Token() *token.Token {
	return d.token
}

// call runs fn atomically: on any error every state change made by fn is reverted
// and its events are dropped.
func (d *DPoS) call(op string, env Env, fn func(*events.Log) error) (*Receipt, error) {
	checkpoint := d.state.NewCheckpoint()

	var evs events.Log
	if err := fn(&evs); err != nil {
		d.state.RevertTo(checkpoint)
		result := "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		}
		metricCallCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
		logger.Info(op+" failed", "caller", env.Caller, "block", env.BlockNumber, "error", err)
		return nil, err
	}

	metricCallCount().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	d.observeValidatorNum()
	logger.Debug(op+" done", "caller", env.Caller, "block", env.BlockNumber, "events", evs.Len())
	return &Receipt{Events: evs.Events()}, nil
}

// mutable is the precondition shared by every non-administrative operation.
func (d *DPoS) mutable() error {
	return d.access.WhenNotPaused()
}

func (d *DPoS) param(id params.ID) (*big.Int, error) {
	return d.params.Get(id.Key())
}

func (d *DPoS) paramUint64(id params.ID) (uint64, error) {
	return d.params.GetUint64(id.Key())
}

// pullTokens moves amount from the caller into the engine, using the allowance granted to the engine.
func (d *DPoS) pullTokens(from thor.Address, amount *big.Int) error {
	ok, err := d.token.TransferFrom(d.addr, from, d.addr, amount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrTransferFailed
	}
	return nil
}

// pushTokens pays amount out of the engine.
func (d *DPoS) pushTokens(to thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	ok, err := d.token.Transfer(d.addr, to, amount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrTransferFailed
	}
	return nil
}
