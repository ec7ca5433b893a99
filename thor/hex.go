// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	errHexPrefix = errors.New("invalid prefix")
	errHexLength = errors.New("invalid length")
)

// decodeFixedHex decodes s into out, which must be filled exactly. The 0x prefix is optional.
func decodeFixedHex(s string, out []byte) error {
	switch len(s) {
	case len(out) * 2:
	case len(out)*2 + 2:
		if !strings.EqualFold(s[:2], "0x") {
			return errHexPrefix
		}
		s = s[2:]
	default:
		return errHexLength
	}
	buf := make([]byte, len(out))
	if _, err := hex.Decode(buf, []byte(s)); err != nil {
		return err
	}
	copy(out, buf)
	return nil
}

func encodeHex(b []byte) string {
	return hexutil.Encode(b)
}
