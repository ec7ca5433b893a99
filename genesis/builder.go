// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/quorum"
	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/builtin/token"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/thor"
)

// Builder helper to build genesis state.
type Builder struct {
	engine thor.Address
	token  thor.Address
	config *dpos.Config

	stateProcs []func(st *state.State, tok *token.Token) error
	calls      []call
}

type call struct {
	caller thor.Address
	fn     func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error)
}

// Engine sets the accounts of the engine and of its token.
func (b *Builder) Engine(engine, token thor.Address) *Builder {
	b.engine = engine
	b.token = token
	return b
}

// Config sets the construction parameters.
func (b *Builder) Config(cfg *dpos.Config) *Builder {
	b.config = cfg
	return b
}

// State add a state process. Processes run after the engine is initialized.
func (b *Builder) State(proc func(st *state.State, tok *token.Token) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Alloc mints amount tokens to addr.
func (b *Builder) Alloc(addr thor.Address, amount *big.Int) *Builder {
	return b.State(func(_ *state.State, tok *token.Token) error {
		return tok.Mint(addr, amount)
	})
}

// Call add an engine call made by caller at block 0.
func (b *Builder) Call(caller thor.Address, fn func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error)) *Builder {
	b.calls = append(b.calls, call{caller, fn})
	return b
}

// Validator mints selfStake to addr and bonds it as a validator.
func (b *Builder) Validator(v Validator) *Builder {
	stake := v.SelfStake.Int()
	minSelf := v.MinSelfStake.Int()
	return b.
		State(func(_ *state.State, tok *token.Token) error {
			if err := tok.Mint(v.Address, stake); err != nil {
				return err
			}
			return tok.Approve(v.Address, b.engine, stake)
		}).
		Call(v.Address, func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
			return d.InitializeCandidate(env, minSelf, v.CommissionRate, 0)
		}).
		Call(v.Address, func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
			return d.Delegate(env, v.Address, stake)
		}).
		Call(v.Address, func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error) {
			return d.ClaimValidator(env)
		})
}

// ComputeID compute genesis ID, the hash of the built state.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	st := state.New(lvldb.NewMem())
	if _, _, err := b.Build(st, nil); err != nil {
		return thor.Bytes32{}, err
	}
	return st.Stage().Hash(), nil
}

// Build initializes the engine on st and applies the presets. The state is left uncommitted.
func (b *Builder) Build(st *state.State, recoverer quorum.Recoverer) (*dpos.DPoS, []events.Event, error) {
	if b.config == nil {
		return nil, nil, errors.New("missing engine config")
	}
	d := dpos.New(b.engine, b.token, st, recoverer)
	if err := d.Initialize(b.config); err != nil {
		return nil, nil, errors.Wrap(err, "initialize")
	}

	tok := token.New(solidity.NewContext(b.token, st))
	for _, proc := range b.stateProcs {
		if err := proc(st, tok); err != nil {
			return nil, nil, errors.Wrap(err, "state process")
		}
	}

	var evs []events.Event
	for _, c := range b.calls {
		receipt, err := c.fn(d, dpos.Env{Caller: c.caller})
		if err != nil {
			return nil, nil, errors.Wrapf(err, "call from %v", c.caller)
		}
		evs = append(evs, receipt.Events...)
	}
	return d, evs, nil
}
