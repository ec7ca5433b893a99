// Copyright (c) 2025 The sgnlabs DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solidity lays out the storage of builtin accounts the way a contract would:
// fixed slots holding single words, rlp encoded values and keyed mappings.
package solidity

import (
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/thor"
)

// Context binds a builtin account to the state its storage lives in.
type Context struct {
	address thor.Address
	state   *state.State
}

func NewContext(address thor.Address, state *state.State) *Context {
	return &Context{address: address, state: state}
}

func (c *Context) Address() thor.Address { return c.address }
func (c *Context) State() *state.State    { return c.state }

// slot is a fixed storage position of the bound account.
type slot struct {
	ctx *Context
	pos thor.Bytes32
}

func (s slot) word() (thor.Bytes32, error) {
	return s.ctx.state.GetStorage(s.ctx.address, s.pos)
}

func (s slot) setWord(w thor.Bytes32) {
	s.ctx.state.SetStorage(s.ctx.address, s.pos, w)
}
