// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math"
	"math/big"
)

// Constants of the staking engine.
const (
	CommissionRateBase uint64 = 10000 // commission rates are in basis points
	TokenDecimals             = 18

	// MaxValidatorCap is the hard upper bound of the validator roster, whatever MaxValidatorNum is voted to.
	MaxValidatorCap uint64 = 101

	// MaxBlockWindow bounds every param counted in blocks (timeouts, notice period, migration height).
	// Block numbers are uint32, so adding a window to a height never wraps a uint64.
	MaxBlockWindow uint64 = math.MaxUint32
)

// Keys of governance params.
var (
	KeyProposalDeposit     = BytesToBytes32([]byte("proposal-deposit"))
	KeyGovernVoteTimeout   = BytesToBytes32([]byte("govern-vote-timeout"))
	KeySlashTimeout        = BytesToBytes32([]byte("slash-timeout"))
	KeyMinValidatorNum     = BytesToBytes32([]byte("min-validator-num"))
	KeyMaxValidatorNum     = BytesToBytes32([]byte("max-validator-num"))
	KeyMinStakingPool      = BytesToBytes32([]byte("min-staking-pool"))
	KeyAdvanceNoticePeriod = BytesToBytes32([]byte("advance-notice-period"))
	KeyMigrationTime       = BytesToBytes32([]byte("migration-time"))

	// KeyDposGoLiveBlock is set once at genesis and is not governable.
	KeyDposGoLiveBlock = BytesToBytes32([]byte("dpos-go-live-block"))
)

var (
	// MinUnit is one whole token in base units; the smallest amount accepted for stake movements.
	MinUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

	// MiningPoolAddress as a slash beneficiary credits the mining pool.
	MiningPoolAddress = Address{}
	// ServicePoolAddress as a slash beneficiary credits the service pool.
	ServicePoolAddress = BytesToAddress([]byte{1})
)

// Tokens returns n whole tokens in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), MinUnit)
}
