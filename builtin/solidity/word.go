// Copyright (c) 2025 The sgnlabs DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/thor"
)

// ErrUnderflow is returned when a subtraction would drive a Uint256 below zero.
var ErrUnderflow = errors.New("uint256 underflow")

// Address holds one account address, right aligned in its word.
type Address struct{ slot }

func NewAddress(ctx *Context, pos thor.Bytes32) *Address {
	return &Address{slot{ctx, pos}}
}

func (a *Address) Get() (thor.Address, error) {
	w, err := a.word()
	if err != nil {
		return thor.Address{}, err
	}
	return thor.BytesToAddress(w[:]), nil
}

// Set stores addr; nil clears the slot.
func (a *Address) Set(addr *thor.Address) {
	var w thor.Bytes32
	if addr != nil {
		w = thor.BytesToBytes32(addr[:])
	}
	a.setWord(w)
}

type Bool struct{ slot }

func NewBool(ctx *Context, pos thor.Bytes32) *Bool {
	return &Bool{slot{ctx, pos}}
}

func (b *Bool) Get() (bool, error) {
	w, err := b.word()
	return !w.IsZero(), err
}

func (b *Bool) Set(flag bool) {
	var w thor.Bytes32
	if flag {
		w[31] = 1
	}
	b.setWord(w)
}

// Uint256 is an unsigned big-endian counter. Values wider than 256 bits lose their high bytes.
type Uint256 struct{ slot }

func NewUint256(ctx *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{slot{ctx, pos}}
}

func (u *Uint256) Get() (*big.Int, error) {
	w, err := u.word()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(w[:]), nil
}

func (u *Uint256) Set(v *big.Int) {
	u.setWord(thor.BytesToBytes32(v.Bytes()))
}

func (u *Uint256) Add(delta *big.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(v.Add(v, delta))
	return nil
}

// Sub decreases the counter by delta, leaving it untouched on underflow.
func (u *Uint256) Sub(delta *big.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if v.Cmp(delta) < 0 {
		return ErrUnderflow
	}
	u.Set(v.Sub(v, delta))
	return nil
}
