// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// Loader produces the value of a missing key.
type Loader func(key any) (any, error)

// LRU is a bounded cache that loads missing entries on demand and counts lookups.
type LRU struct {
	*lru.Cache
	hits, misses atomic.Int64
	onLookup     func(hit bool)
}

// NewLRU creates a cache holding at most maxSize entries. onLookup, when set,
// observes the outcome of each GetOrLoad.
func NewLRU(maxSize int, onLookup func(hit bool)) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: c, onLookup: onLookup}, nil
}

func (l *LRU) record(hit bool) {
	if hit {
		l.hits.Add(1)
	} else {
		l.misses.Add(1)
	}
	if l.onLookup != nil {
		l.onLookup(hit)
	}
}

// GetOrLoad returns the cached value of key, calling loader on a miss.
// Failed loads are not cached.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.record(true)
		return v, nil
	}
	l.record(false)
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

// HitRate reports the lookup counters and the fraction of them served from the cache.
func (l *LRU) HitRate() (hits, misses int64, rate float64) {
	hits, misses = l.hits.Load(), l.misses.Load()
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return
}
