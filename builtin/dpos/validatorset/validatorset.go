// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package validatorset keeps the bonded validators in a doubly linked list ordered by
// staking pool, largest first. The list is maintained incrementally on every change.
package validatorset

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/solidity"
	"github.com/sgnlabs/dpos/thor"
)

var (
	slotNodes  = thor.BytesToBytes32([]byte("validators-nodes"))
	slotBounds = thor.BytesToBytes32([]byte("validators-bounds"))
	slotCount  = thor.BytesToBytes32([]byte("validators-count"))
	slotTotal  = thor.BytesToBytes32([]byte("validators-total"))
)

type node struct {
	Member bool
	Prev   *thor.Address `rlp:"nil"`
	Next   *thor.Address `rlp:"nil"`
	Pool   *big.Int
}

type bounds struct {
	Head *thor.Address `rlp:"nil"`
	Tail *thor.Address `rlp:"nil"`
}

// Entry is a validator and the staking pool it is ranked by.
type Entry struct {
	Address thor.Address
	Pool    *big.Int
}

type Set struct {
	nodes  *solidity.Mapping[thor.Address, *node]
	bounds *solidity.Raw[*bounds]
	count  *solidity.Raw[uint64]
	total  *solidity.Uint256
}

func New(sctx *solidity.Context) *Set {
	return &Set{
		nodes:  solidity.NewMapping[thor.Address, *node](sctx, slotNodes),
		bounds: solidity.NewRaw[*bounds](sctx, slotBounds),
		count:  solidity.NewRaw[uint64](sctx, slotCount),
		total:  solidity.NewUint256(sctx, slotTotal),
	}
}

func (s *Set) getNode(addr thor.Address) (*node, error) {
	n, err := s.nodes.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get validator node")
	}
	if n.Pool == nil {
		n.Pool = new(big.Int)
	}
	return n, nil
}

func (s *Set) setNode(addr thor.Address, n *node) error {
	if err := s.nodes.Set(addr, n); err != nil {
		return errors.Wrap(err, "failed to set validator node")
	}
	return nil
}

// Contains reports whether addr is a validator.
func (s *Set) Contains(addr thor.Address) (bool, error) {
	n, err := s.getNode(addr)
	if err != nil {
		return false, err
	}
	return n.Member, nil
}

// Count returns the number of validators.
func (s *Set) Count() (uint64, error) {
	return s.count.Get()
}

// Total returns the summed staking pool of all validators.
func (s *Set) Total() (*big.Int, error) {
	return s.total.Get()
}

// MinQuorum returns the smallest stake strictly above two thirds of the total.
func (s *Set) MinQuorum() (*big.Int, error) {
	total, err := s.total.Get()
	if err != nil {
		return nil, err
	}
	q := new(big.Int).Mul(total, big.NewInt(2))
	q.Div(q, big.NewInt(3))
	return q.Add(q, big.NewInt(1)), nil
}

// PoolOf returns the staking pool the validator is ranked by, nil if not a validator.
func (s *Set) PoolOf(addr thor.Address) (*big.Int, error) {
	n, err := s.getNode(addr)
	if err != nil {
		return nil, err
	}
	if !n.Member {
		return nil, nil
	}
	return n.Pool, nil
}

// Tail returns the validator with the smallest staking pool.
// The returned entry is nil when the set is empty.
func (s *Set) Tail() (*Entry, error) {
	b, err := s.bounds.Get()
	if err != nil {
		return nil, err
	}
	if b.Tail == nil {
		return nil, nil
	}
	n, err := s.getNode(*b.Tail)
	if err != nil {
		return nil, err
	}
	return &Entry{Address: *b.Tail, Pool: n.Pool}, nil
}

// Iterate walks validators from the largest pool to the smallest.
func (s *Set) Iterate(callback func(Entry) error) error {
	b, err := s.bounds.Get()
	if err != nil {
		return err
	}
	for current := b.Head; current != nil; {
		n, err := s.getNode(*current)
		if err != nil {
			return err
		}
		if !n.Member {
			return errors.New("unlinked validator in list")
		}
		if err := callback(Entry{Address: *current, Pool: n.Pool}); err != nil {
			return err
		}
		current = n.Next
	}
	return nil
}

// List returns all validators, largest pool first.
func (s *Set) List() ([]Entry, error) {
	var entries []Entry
	err := s.Iterate(func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// Add inserts a validator behind every validator with an equal or larger pool.
func (s *Set) Add(addr thor.Address, pool *big.Int) error {
	n, err := s.getNode(addr)
	if err != nil {
		return err
	}
	if n.Member {
		return errors.New("validator already added")
	}
	if err := s.link(addr, &node{Member: true, Pool: new(big.Int).Set(pool)}); err != nil {
		return err
	}

	count, err := s.count.Get()
	if err != nil {
		return err
	}
	if err := s.count.Set(count + 1); err != nil {
		return err
	}
	return s.total.Add(pool)
}

// Remove unlinks a validator.
func (s *Set) Remove(addr thor.Address) error {
	n, err := s.getNode(addr)
	if err != nil {
		return err
	}
	if !n.Member {
		return errors.New("validator not found")
	}
	if err := s.unlink(addr, n); err != nil {
		return err
	}
	s.nodes.Delete(addr)

	count, err := s.count.Get()
	if err != nil {
		return err
	}
	if count == 0 {
		return errors.New("count is already 0")
	}
	if err := s.count.Set(count - 1); err != nil {
		return err
	}
	return s.total.Sub(n.Pool)
}

// Update re-ranks a validator after its staking pool changed.
func (s *Set) Update(addr thor.Address, pool *big.Int) error {
	n, err := s.getNode(addr)
	if err != nil {
		return err
	}
	if !n.Member {
		return errors.New("validator not found")
	}
	if err := s.total.Sub(n.Pool); err != nil {
		return err
	}
	if err := s.unlink(addr, n); err != nil {
		return err
	}
	if err := s.link(addr, &node{Member: true, Pool: new(big.Int).Set(pool)}); err != nil {
		return err
	}
	return s.total.Add(pool)
}

// link places a detached node at its ordered position.
func (s *Set) link(addr thor.Address, newNode *node) error {
	b, err := s.bounds.Get()
	if err != nil {
		return err
	}

	// empty list
	if b.Head == nil {
		b.Head, b.Tail = &addr, &addr
		if err := s.setNode(addr, newNode); err != nil {
			return err
		}
		return s.bounds.Set(b)
	}

	// find the first node with a strictly smaller pool
	var prev *thor.Address
	current := b.Head
	for current != nil {
		n, err := s.getNode(*current)
		if err != nil {
			return err
		}
		if newNode.Pool.Cmp(n.Pool) > 0 {
			break
		}
		prev, current = current, n.Next
	}

	newNode.Prev, newNode.Next = prev, current
	if prev == nil {
		b.Head = &addr
	} else {
		p, err := s.getNode(*prev)
		if err != nil {
			return err
		}
		p.Next = &addr
		if err := s.setNode(*prev, p); err != nil {
			return err
		}
	}
	if current == nil {
		b.Tail = &addr
	} else {
		c, err := s.getNode(*current)
		if err != nil {
			return err
		}
		c.Prev = &addr
		if err := s.setNode(*current, c); err != nil {
			return err
		}
	}
	if err := s.setNode(addr, newNode); err != nil {
		return err
	}
	return s.bounds.Set(b)
}

// unlink detaches a node from its neighbours, leaving the node record untouched.
func (s *Set) unlink(addr thor.Address, n *node) error {
	b, err := s.bounds.Get()
	if err != nil {
		return err
	}
	if n.Prev == nil {
		b.Head = n.Next
	} else {
		p, err := s.getNode(*n.Prev)
		if err != nil {
			return err
		}
		p.Next = n.Next
		if err := s.setNode(*n.Prev, p); err != nil {
			return err
		}
	}
	if n.Next == nil {
		b.Tail = n.Prev
	} else {
		next, err := s.getNode(*n.Next)
		if err != nil {
			return err
		}
		next.Prev = n.Prev
		if err := s.setNode(*n.Next, next); err != nil {
			return err
		}
	}
	return s.bounds.Set(b)
}
