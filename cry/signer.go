// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/cache"
	"github.com/sgnlabs/dpos/metrics"
	"github.com/sgnlabs/dpos/thor"
)

var metricSignerCache = metrics.LazyLoadCounterVec("signer_cache_lookup_count", []string{"result"})

const signerCacheSize = 4096

// Signer recovers signer addresses from secp256k1 signatures, caching results.
type Signer struct {
	cache *cache.LRU
}

// NewSigner creates a signer with a bounded recovery cache.
func NewSigner() *Signer {
	c, _ := cache.NewLRU(signerCacheSize, func(hit bool) {
		result := "miss"
		if hit {
			result = "hit"
		}
		metricSignerCache().AddWithLabel(1, map[string]string{"result": result})
	})
	return &Signer{c}
}

type signerKey struct {
	hash thor.Bytes32
	sig  string
}

// Recover extracts the signer address of sig over hash.
// The recovery id may be 0/1 or the Ethereum 27/28 form.
func (s *Signer) Recover(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	v, err := s.cache.GetOrLoad(signerKey{hash, string(sig)}, func(any) (any, error) {
		return recoverSigner(hash, sig)
	})
	if err != nil {
		return thor.Address{}, err
	}
	return v.(thor.Address), nil
}

func recoverSigner(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return thor.Address{}, errors.Errorf("invalid signature length %d", len(sig))
	}
	normalized := sig
	if sig[crypto.RecoveryIDOffset] >= 27 {
		normalized = append([]byte(nil), sig...)
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(hash[:], normalized)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "recover signer")
	}
	return thor.Address(crypto.PubkeyToAddress(*pub)), nil
}

// Sign signs hash with the given private key. The produced signature is in the [R || S || V] form, V being 0 or 1.
func Sign(hash thor.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	return crypto.Sign(hash[:], key)
}

// PrivateKeyToAddress derives the address of key.
func PrivateKeyToAddress(key *ecdsa.PrivateKey) thor.Address {
	return thor.Address(crypto.PubkeyToAddress(key.PublicKey))
}
