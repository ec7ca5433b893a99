// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgnlabs/dpos/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", M("bar", true, nil)},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", M("baz", true, nil)},
		{func() {}, 2, "foo", "baz1", "foo", M("baz1", true, nil)},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", M("qux", true, nil)},
		{func() { sm.Pop() }, 2, "", "", "foo", M("baz1", true, nil)},
		{func() { sm.Pop() }, 1, "", "", "foo", M("bar", true, nil)},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(1) }, 1, "", "", "foo", M("bar", true, nil)},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapPuts(t *testing.T) {
	sm := stackedmap.New(func(key string) (string, bool, error) {
		return "", false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}

	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(t, kvs[i].k, k)
		assert.Equal(t, kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(t, len(kvs), i)

	// stop early
	n := 0
	sm.Journal(func(string, string) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}

func TestStackedMapRepeatedPutAtSameLevel(t *testing.T) {
	sm := stackedmap.New(func(key string) (int, bool, error) {
		return 0, false, nil
	})

	rev := sm.Push()
	sm.Put("k", 1)
	sm.Put("k", 2)
	sm.Push()
	sm.Put("k", 3)

	sm.PopTo(rev + 1)
	v, ok, err := sm.Get("k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	sm.PopTo(rev)
	v, ok, err = sm.Get("k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestStackedMapSourceError(t *testing.T) {
	sm := stackedmap.New(func(key string) (string, bool, error) {
		return "", false, errors.New("boom")
	})
	_, _, err := sm.Get("missing")
	assert.EqualError(t, err, "boom")
}
