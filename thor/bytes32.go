// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding"

	"github.com/ethereum/go-ethereum/common"
)

// Bytes32 is a storage slot value, genesis id or changes digest.
// It encodes as 0x-prefixed hex in json and yaml.
type Bytes32 [32]byte

var (
	_ encoding.TextMarshaler   = Bytes32{}
	_ encoding.TextUnmarshaler = (*Bytes32)(nil)
)

func (b Bytes32) String() string { return encodeHex(b[:]) }
func (b Bytes32) Bytes() []byte  { return b[:] }
func (b Bytes32) IsZero() bool   { return b == Bytes32{} }

func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), b[:])
}

func ParseBytes32(s string) (b Bytes32, err error) {
	err = decodeFixedHex(s, b[:])
	return
}

// BytesToBytes32 keeps the trailing 32 bytes of b, left padding shorter input with zeros.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}
