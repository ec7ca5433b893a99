// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/quorum"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/thor"
)

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	id      thor.Bytes32
	name    string
}

func newGenesis(name string, builder *Builder) (*Genesis, error) {
	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name}, nil
}

// Build applies the genesis presets on st.
func (g *Genesis) Build(st *state.State, recoverer quorum.Recoverer) (*dpos.DPoS, []events.Event, error) {
	return g.builder.Build(st, recoverer)
}

// ID returns genesis ID.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Engine returns the account holding the engine.
func (g *Genesis) Engine() thor.Address {
	return g.builder.engine
}

// Token returns the account holding the token ledger.
func (g *Genesis) Token() thor.Address {
	return g.builder.token
}
