// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding"

	"github.com/ethereum/go-ethereum/common"
)

const AddressLength = common.AddressLength

// Address identifies an account: a delegator, a candidate or one of the builtin pools.
type Address common.Address

var (
	_ encoding.TextMarshaler   = Address{}
	_ encoding.TextUnmarshaler = (*Address)(nil)
)

func (a Address) String() string { return encodeHex(a[:]) }
func (a Address) Bytes() []byte  { return a[:] }
func (a Address) IsZero() bool   { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText lets addresses appear as json strings, yaml scalars and map keys.
func (a *Address) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), a[:])
}

// ParseAddress parses 20 hex encoded bytes, with or without the 0x prefix.
func ParseAddress(s string) (addr Address, err error) {
	err = decodeFixedHex(s, addr[:])
	return
}

// MustParseAddress is ParseAddress for constants. It panics on malformed input.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress keeps the trailing 20 bytes of b, left padding shorter input with zeros.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
