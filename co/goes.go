// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds small goroutine coordination helpers shared by the host and the node.
package co

import (
	"context"
	"sync"
)

// Goes tracks background loops so their owner can wait for them on shutdown.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a new goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// GoCtx runs f in a new goroutine, handing it ctx.
func (g *Goes) GoCtx(ctx context.Context, f func(ctx context.Context)) {
	g.Go(func() { f(ctx) })
}

// Wait blocks until every goroutine started by Go has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once every goroutine has returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
