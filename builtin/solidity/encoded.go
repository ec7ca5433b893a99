// Copyright (c) 2025 The sgnlabs DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/sgnlabs/dpos/thor"
)

// load decodes the rlp value at pos. An empty slot yields the zero value,
// or a freshly allocated one when V is a pointer type.
func load[V any](ctx *Context, pos thor.Bytes32) (value V, err error) {
	err = ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
			value = reflect.New(t.Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func store[V any](ctx *Context, pos thor.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Raw is a single rlp encoded value at a fixed slot.
type Raw[V any] struct{ slot }

func NewRaw[V any](ctx *Context, pos thor.Bytes32) *Raw[V] {
	return &Raw[V]{slot{ctx, pos}}
}

func (r *Raw[V]) Get() (V, error)   { return load[V](r.ctx, r.pos) }
func (r *Raw[V]) Set(value V) error { return store(r.ctx, r.pos, value) }

type Key interface {
	Bytes() []byte
}

// Mapping stores rlp encoded values under blake2b(key, base), so mappings with
// different bases never share slots.
type Mapping[K Key, V any] struct {
	ctx  *Context
	base thor.Bytes32
}

func NewMapping[K Key, V any](ctx *Context, base thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{ctx, base}
}

func (m *Mapping[K, V]) pos(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.base[:])
}

func (m *Mapping[K, V]) Get(key K) (V, error)     { return load[V](m.ctx, m.pos(key)) }
func (m *Mapping[K, V]) Set(key K, value V) error { return store(m.ctx, m.pos(key), value) }

// Delete clears the slot of key; a later Get reads the zero value.
func (m *Mapping[K, V]) Delete(key K) {
	m.ctx.state.SetRawStorage(m.ctx.address, m.pos(key), nil)
}
