// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var slotParams = thor.BytesToBytes32([]byte("params"))

// Params binder of the global parameters store.
type Params struct {
	values *solidity.Mapping[thor.Bytes32, *big.Int]
}

func New(sctx *solidity.Context) *Params {
	return &Params{
		values: solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotParams),
	}
}

// Get native way to get param.
func (p *Params) Get(key thor.Bytes32) (*big.Int, error) {
	v, err := p.values.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get param")
	}
	return v, nil
}

// Set native way to set param.
func (p *Params) Set(key thor.Bytes32, value *big.Int) error {
	if value.Sign() < 0 {
		return errors.New("negative param value")
	}
	if err := p.values.Set(key, value); err != nil {
		return errors.Wrap(err, "failed to set param")
	}
	return nil
}

// GetUint64 returns the param truncated to uint64, for block counts and roster sizes.
func (p *Params) GetUint64(key thor.Bytes32) (uint64, error) {
	v, err := p.Get(key)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, errors.Errorf("param %v overflows uint64", key)
	}
	return v.Uint64(), nil
}
