// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv abstracts the ordered key/value store that backs committed state.
package kv

type (
	// Reader reads committed values. Get fails on a missing key; IsNotFound tells that failure apart.
	Reader interface {
		Get(key []byte) ([]byte, error)
		IsNotFound(err error) bool
	}

	Writer interface {
		Put(key, val []byte) error
		Delete(key []byte) error
	}

	// Batch buffers writes until Write applies them atomically.
	Batch interface {
		Writer
		Write() error
	}

	Iterator interface {
		Next() bool
		Key() []byte
		Value() []byte
		Release()
		Error() error
	}

	// Range selects keys in [Start, Limit). An empty Limit means no upper bound.
	Range struct {
		Start []byte
		Limit []byte
	}

	Store interface {
		Reader
		Writer
		NewBatch() Batch
		Iterate(r Range) Iterator
		Close() error
	}
)

type (
	getFunc        func(key []byte) ([]byte, error)
	isNotFoundFunc func(err error) bool
	putFunc        func(key, val []byte) error
	deleteFunc     func(key []byte) error
	writeFunc      func() error
)

func (f getFunc) Get(key []byte) ([]byte, error)   { return f(key) }
func (f isNotFoundFunc) IsNotFound(err error) bool { return f(err) }
func (f putFunc) Put(key, val []byte) error        { return f(key, val) }
func (f deleteFunc) Delete(key []byte) error       { return f(key) }
func (f writeFunc) Write() error                   { return f() }
