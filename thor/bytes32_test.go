// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestBytes32JSON(t *testing.T) {
	encoded := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var b Bytes32
	assert.NoError(t, json.Unmarshal([]byte(encoded), &b))
	assert.Equal(t, BytesToBytes32([]byte("master")), b)

	byValue, err := json.Marshal(b)
	assert.NoError(t, err)
	assert.Equal(t, encoded, string(byValue))

	byPtr, err := json.Marshal(&b)
	assert.NoError(t, err)
	assert.Equal(t, encoded, string(byPtr))

	var nilPtr *Bytes32
	null, err := json.Marshal(nilPtr)
	assert.NoError(t, err)
	assert.Equal(t, "null", string(null))

	assert.Error(t, json.Unmarshal([]byte(`"0x12"`), &b))
}

func TestParseBytes32(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"with prefix", "0x" + "11" + "00000000000000000000000000000000000000000000000000000000000000", false},
		{"without prefix", "11" + "00000000000000000000000000000000000000000000000000000000000000", false},
		{"bad prefix", "1x" + "11" + "00000000000000000000000000000000000000000000000000000000000000", true},
		{"short", "0x1234", true},
		{"non hex", "0x" + "zz" + "00000000000000000000000000000000000000000000000000000000000000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBytes32(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, byte(0x11), b[0])
		})
	}
	_, err := ParseBytes32("0x12")
	assert.ErrorIs(t, err, errHexLength)
}

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte("validator"))

	var out struct {
		Addr Address `yaml:"addr"`
	}
	assert.NoError(t, yaml.Unmarshal([]byte("addr: "+addr.String()), &out))
	assert.Equal(t, addr, out.Addr)

	var fromJSON Address
	raw, err := json.Marshal(&addr)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, &fromJSON))
	assert.Equal(t, addr, fromJSON)

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	assert.True(t, Address{}.IsZero())
	assert.False(t, addr.IsZero())
}

func TestTokens(t *testing.T) {
	assert.Equal(t, "1000000000000000000", MinUnit.String())
	assert.Equal(t, 0, Tokens(3).Cmp(new(big.Int).Mul(big.NewInt(3), MinUnit)))
	assert.NotEqual(t, MiningPoolAddress, ServicePoolAddress)
}
