// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/sgnlabs/dpos/solo"
)

// delayBuffer is the tolerated lag on top of the block interval.
const delayBuffer = 5 * time.Second

type BlockIngestion struct {
	Head      uint32     `json:"head"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
	Packing        bool            `json:"packing"`
}

// Health tracks when the host last committed a block.
type Health struct {
	lock          sync.RWMutex
	lastBlock     time.Time
	head          uint32
	blockInterval time.Duration
}

// New returns a tracker for a host packing every blockInterval. Zero means blocks
// are only committed on demand, so silence is never unhealthy.
func New(blockInterval time.Duration) *Health {
	return &Health{
		lastBlock:     time.Now(),
		blockInterval: blockInterval,
	}
}

func (h *Health) NewBlock(number uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastBlock = time.Now()
	h.head = number
}

// Status reports the block ingestion. A positive maxTimeBetweenBlocks replaces
// the configured interval and its delay buffer.
func (h *Health) Status(maxTimeBetweenBlocks time.Duration) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	last := h.lastBlock
	limit := h.blockInterval + delayBuffer
	if maxTimeBetweenBlocks > 0 {
		limit = maxTimeBetweenBlocks
	}
	packing := h.blockInterval > 0

	return &Status{
		Healthy: !packing || time.Since(last) <= limit,
		BlockIngestion: &BlockIngestion{
			Head:      h.head,
			Timestamp: &last,
		},
		Packing: packing,
	}
}

// Watch follows the committed blocks of host until ctx is done.
func (h *Health) Watch(ctx context.Context, host *solo.Solo) {
	ticker := host.NewTicker()
	h.NewBlock(host.Head())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			h.NewBlock(host.Head())
		}
	}
}
