// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket namespaces keys of a shared store under a fixed prefix.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(k)), b...), k...)
}

func (b Bucket) NewReader(src Reader) Reader {
	return &struct {
		getFunc
		isNotFoundFunc
	}{
		func(key []byte) ([]byte, error) { return src.Get(b.key(key)) },
		src.IsNotFound,
	}
}

func (b Bucket) NewWriter(src Writer) Writer {
	return &struct {
		putFunc
		deleteFunc
	}{
		func(key, val []byte) error { return src.Put(b.key(key), val) },
		func(key []byte) error { return src.Delete(b.key(key)) },
	}
}

// NewBatch prefixes the writes of src; Write still applies them all at once.
func (b Bucket) NewBatch(src Batch) Batch {
	return &struct {
		Writer
		writeFunc
	}{
		b.NewWriter(src),
		src.Write,
	}
}

// Iterate walks the bucket keys in r, yielding keys without the prefix.
func (b Bucket) Iterate(src Store, r Range) Iterator {
	rng := Range{Start: b.key(r.Start), Limit: b.key(r.Limit)}
	if len(r.Limit) == 0 {
		rng.Limit = util.BytesPrefix([]byte(b)).Limit
	}
	return &bucketIter{src.Iterate(rng), len(b)}
}

type bucketIter struct {
	Iterator
	n int
}

func (i *bucketIter) Key() []byte { return i.Iterator.Key()[i.n:] }
