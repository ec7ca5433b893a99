// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgnlabs/dpos/cry"
	"github.com/sgnlabs/dpos/genesis"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/solo"
)

func TestHealth_NewBlock(t *testing.T) {
	h := New(10 * time.Second)
	h.NewBlock(7)

	status := h.Status(0)
	assert.True(t, status.Healthy)
	assert.True(t, status.Packing)
	assert.Equal(t, uint32(7), status.BlockIngestion.Head)
	assert.WithinDuration(t, time.Now(), *status.BlockIngestion.Timestamp, time.Second)
}

func TestHealth_Stale(t *testing.T) {
	h := New(time.Second)
	h.lastBlock = time.Now().Add(-time.Minute)

	assert.False(t, h.Status(0).Healthy)
	assert.True(t, h.Status(time.Hour).Healthy, "override widens the window")
}

func TestHealth_OnDemand(t *testing.T) {
	h := New(0)
	h.lastBlock = time.Now().Add(-time.Hour)

	status := h.Status(0)
	assert.True(t, status.Healthy)
	assert.False(t, status.Packing)
}

func TestHealth_Watch(t *testing.T) {
	host, err := solo.New(lvldb.NewMem(), genesis.NewDevnet(), cry.NewSigner(), solo.Options{})
	require.NoError(t, err)

	h := New(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Watch(ctx, host)
		close(done)
	}()

	_, err = host.NextBlock()
	require.NoError(t, err)
	_, err = host.NextBlock()
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return h.Status(0).BlockIngestion.Head == 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
