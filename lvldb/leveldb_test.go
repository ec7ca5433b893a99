// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer disk.Close()

	mem := NewMem()
	defer mem.Close()

	for _, ldb := range []*LevelDB{disk, mem} {
		assert.NoError(t, ldb.Put(key, value))

		got, err := ldb.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := ldb.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = ldb.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, ldb.Delete(key))
		_, err = ldb.Get(key)
		assert.True(t, ldb.IsNotFound(err))
	}
}

func TestBatchAndIterate(t *testing.T) {
	ldb := NewMem()
	defer ldb.Close()

	batch := ldb.NewBatch()
	for _, k := range []string{"a1", "a2", "b1", "a3"} {
		assert.NoError(t, batch.Put([]byte(k), []byte("v"+k)))
	}

	// nothing visible before write
	has, err := ldb.Has([]byte("a1"))
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, batch.Write())

	var keys []string
	it := kv.Bucket("a").Iterate(ldb, kv.Range{})
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	assert.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)

	bb := kv.Bucket("b").NewBatch(ldb.NewBatch())
	assert.NoError(t, bb.Delete([]byte("1")))
	assert.NoError(t, bb.Write())

	_, err = ldb.Get([]byte("b1"))
	assert.True(t, ldb.IsNotFound(err))
}
