// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"slices"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/kv"
	"github.com/sgnlabs/dpos/thor"
)

// Stage abstracts the changes of a state, flattened by key.
type Stage struct {
	changes map[storageKey][]byte
}

// Len returns the count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

func (s *Stage) sortedKeys() []storageKey {
	keys := make([]storageKey, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b storageKey) int {
		return bytes.Compare(a.bytes(), b.bytes())
	})
	return keys
}

// Hash computes the digest of all changes, independent of the write order.
func (s *Stage) Hash() thor.Bytes32 {
	hasher := thor.NewBlake2b()
	for _, k := range s.sortedKeys() {
		hasher.Write(k.bytes())
		hasher.Write(s.changes[k])
	}
	var h thor.Bytes32
	hasher.Sum(h[:0])
	return h
}

// Commit writes all changes into the store atomically. Empty values delete the slot.
func (s *Stage) Commit(store kv.Store) error {
	batch := StorageBucket.NewBatch(store.NewBatch())
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.bytes())
		} else {
			err = batch.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{errors.Wrap(err, "stage")}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{errors.Wrap(err, "commit")}
	}
	return nil
}
