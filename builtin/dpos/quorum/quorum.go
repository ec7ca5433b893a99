// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package quorum checks that a set of signatures carries more than two thirds of the
// validator stake.
package quorum

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/reverts"
	"github.com/sgnlabs/dpos/builtin/dpos/validatorset"
	"github.com/sgnlabs/dpos/thor"
)

// Recoverer recovers the signer of a hash.
type Recoverer interface {
	Recover(hash thor.Bytes32, sig []byte) (thor.Address, error)
}

// Verifier checks signatures against the current validator set. It never mutates state.
type Verifier struct {
	validators *validatorset.Set
	recoverer  Recoverer
}

func New(validators *validatorset.Set, recoverer Recoverer) *Verifier {
	return &Verifier{validators: validators, recoverer: recoverer}
}

// Signers returns the distinct validators that signed hash and their combined stake.
// An unrecoverable signature, a non-validator signer or a repeated signer fails the whole set.
func (v *Verifier) Signers(hash thor.Bytes32, sigs [][]byte) ([]thor.Address, *big.Int, error) {
	seen := make(map[thor.Address]struct{}, len(sigs))
	signers := make([]thor.Address, 0, len(sigs))
	stake := new(big.Int)

	for _, sig := range sigs {
		signer, err := v.recoverer.Recover(hash, sig)
		if err != nil {
			return nil, nil, reverts.ErrCheckSigs
		}
		if _, dup := seen[signer]; dup {
			return nil, nil, reverts.ErrCheckSigs
		}
		seen[signer] = struct{}{}

		pool, err := v.validators.PoolOf(signer)
		if err != nil {
			return nil, nil, err
		}
		if pool == nil {
			return nil, nil, reverts.ErrCheckSigs
		}
		stake.Add(stake, pool)
		signers = append(signers, signer)
	}
	return signers, stake, nil
}

// Check fails unless the signers of hash hold at least the minimum quorum stake.
func (v *Verifier) Check(hash thor.Bytes32, sigs [][]byte) error {
	_, stake, err := v.Signers(hash, sigs)
	if err != nil {
		return err
	}
	quorum, err := v.validators.MinQuorum()
	if err != nil {
		return err
	}
	if stake.Cmp(quorum) < 0 {
		return reverts.ErrCheckSigs
	}
	return nil
}
