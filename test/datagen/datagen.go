// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random fixtures for tests.
package datagen

import (
	"crypto/ecdsa"
	"crypto/rand"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/sgnlabs/dpos/thor"
)

func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}

func RandomHash() (hash thor.Bytes32) {
	rand.Read(hash[:])
	return
}

// RandKey generates a secp256k1 key and the address that signs with it.
func RandKey() (*ecdsa.PrivateKey, thor.Address) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key, thor.Address(crypto.PubkeyToAddress(key.PublicKey))
}
