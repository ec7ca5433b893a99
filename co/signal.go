// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides channel to wait for.
// A value read from the channel is true for a signal and false for a broadcast.
type Waiter interface {
	C() <-chan bool
}

// Signal is a channel based condition: waiters can select on it alongside other channels.
// The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	ch chan bool
}

func (s *Signal) current() chan bool {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
	return s.ch
}

// Signal wakes one waiter. A signal with nobody waiting is kept for the next one.
func (s *Signal) Signal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.current() <- true:
	default:
	}
}

// Broadcast wakes every waiter obtained before the call.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.current())
	s.ch = make(chan bool, 1)
}

// NewWaiter returns a waiter. After each wake up, C moves on to the next round.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	ref := s.current()
	s.mu.Unlock()

	return waiterFunc(func() <-chan bool {
		ch := ref
		s.mu.Lock()
		ref = s.current()
		s.mu.Unlock()
		return ch
	})
}

type waiterFunc func() <-chan bool

func (w waiterFunc) C() <-chan bool {
	return w()
}
