// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// NewBlake2b return blake2b-256 hash.
func NewBlake2b() hash.Hash {
	hash, _ := blake2b.New256(nil)
	return hash
}

var (
	blake2bPool   = sync.Pool{New: func() any { return NewBlake2b() }}
	keccak256Pool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}
)

func sum(pool *sync.Pool, data [][]byte) (h Bytes32) {
	hasher := pool.Get().(hash.Hash)
	for _, b := range data {
		hasher.Write(b)
	}
	hasher.Sum(h[:0])
	hasher.Reset()
	pool.Put(hasher)
	return
}

// Blake2b computes blake2b-256 checksum of the concatenated data.
// Storage slots of engine records are derived with it.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	return sum(&blake2bPool, data)
}

// Keccak256 computes the legacy keccak-256 digest of the concatenated data.
// Signed requests are hashed with it.
func Keccak256(data ...[]byte) Bytes32 {
	return sum(&keccak256Pool, data)
}
