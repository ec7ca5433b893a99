// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sgnlabs/dpos/co"
)

func TestSignalKeptForLateWaiter(t *testing.T) {
	var sig co.Signal
	sig.Signal()

	assert.True(t, <-sig.NewWaiter().C())
}

func TestBroadcastWakesAll(t *testing.T) {
	var sig co.Signal
	ws := make([]co.Waiter, 5)
	for i := range ws {
		ws[i] = sig.NewWaiter()
	}
	sig.Broadcast()

	for _, w := range ws {
		select {
		case v := <-w.C():
			assert.False(t, v)
		case <-time.After(time.Second):
			t.Fatal("waiter not woken")
		}
	}
}

func TestWaiterFollowsRounds(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()
	sig.Broadcast()
	<-w.C()

	// the next round has not been broadcast yet
	select {
	case <-w.C():
		t.Fatal("unexpected wake up")
	case <-time.After(20 * time.Millisecond):
	}

	sig.Broadcast()
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestGoes(t *testing.T) {
	var (
		goes co.Goes
		n    atomic.Int32
	)
	ctx, cancel := context.WithCancel(context.Background())
	for range 3 {
		goes.GoCtx(ctx, func(ctx context.Context) {
			<-ctx.Done()
			n.Add(1)
		})
	}
	cancel()

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("goroutines not done")
	}
	goes.Wait()
	assert.Equal(t, int32(3), n.Load())
}
