// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/sgnlabs/dpos/metrics"
	"github.com/sgnlabs/dpos/thor"
)

var (
	metricCallCount      = metrics.LazyLoadCounterVec("engine_calls_count", []string{"op", "result"})
	metricSlashedTokens  = metrics.LazyLoadCounter("engine_slashed_tokens")
	metricRedeemedTokens = metrics.LazyLoadCounterVec("engine_redeemed_tokens", []string{"pool"})
	metricValidatorNum   = metrics.LazyLoadGauge("engine_validator_num")
)

// wholeTokens truncates amount to whole tokens, so meters stay within int64.
func wholeTokens(amount *big.Int) int64 {
	v := new(big.Int).Div(amount, thor.MinUnit)
	if !v.IsInt64() {
		return 0
	}
	return v.Int64()
}

func (d *DPoS) observeValidatorNum() {
	if n, err := d.validators.Count(); err == nil {
		metricValidatorNum().Set(int64(n))
	}
}
