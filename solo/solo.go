// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo hosts the engine in a single process: it orders calls, numbers blocks,
// persists state at every block and keeps a window of recent events for subscribers.
package solo

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/builtin/dpos"
	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/builtin/dpos/quorum"
	"github.com/sgnlabs/dpos/cache"
	"github.com/sgnlabs/dpos/co"
	"github.com/sgnlabs/dpos/genesis"
	"github.com/sgnlabs/dpos/kv"
	"github.com/sgnlabs/dpos/log"
	"github.com/sgnlabs/dpos/metrics"
	"github.com/sgnlabs/dpos/state"
	"github.com/sgnlabs/dpos/thor"
)

var (
	logger = log.WithContext("pkg", "solo")

	metricBlockNumber = metrics.LazyLoadGauge("solo_block_number")
	metricBlockEvents = metrics.LazyLoadCounter("solo_block_events_count")
)

var (
	metaBucket   = kv.Bucket("m")
	keyHead      = []byte("head")
	keyGenesisID = []byte("genesis")

	errNoGenesis = errors.New("store holds no genesis")
	// ErrGenesisMismatch is returned when opening a store built from another genesis.
	ErrGenesisMismatch = errors.New("store was built from another genesis")
)

// DefaultHistorySize is how many recent blocks keep their events in memory.
const DefaultHistorySize = 1024

type Options struct {
	// BlockInterval in seconds between blocks packed by Run. Zero disables the loop.
	BlockInterval uint64
	// OnDemand packs a block right after every successful call.
	OnDemand bool
	// HistorySize bounds the blocks whose events are retained.
	HistorySize int
}

// Record is an event as seen by subscribers.
type Record struct {
	BlockNumber uint32       `json:"blockNumber"`
	Index       int          `json:"index"`
	Name        string       `json:"name"`
	Event       events.Event `json:"event"`
}

// Block summarizes a committed block.
type Block struct {
	Number      uint32       `json:"number"`
	ChangesHash thor.Bytes32 `json:"changesHash"`
	Events      int          `json:"events"`
}

// Solo mode runs the engine without any consensus.
type Solo struct {
	mu        sync.Mutex
	store     kv.Store
	gen       *genesis.Genesis
	recoverer quorum.Recoverer
	options   Options

	state   *state.State
	engine  *dpos.DPoS
	head    uint32 // last committed block
	pending []events.Event

	history *cache.LRU
	ticker  co.Signal
}

// New opens the host on store, building the genesis state if the store is empty.
func New(store kv.Store, gen *genesis.Genesis, recoverer quorum.Recoverer, options Options) (*Solo, error) {
	if options.HistorySize <= 0 {
		options.HistorySize = DefaultHistorySize
	}
	history, err := cache.NewLRU(options.HistorySize, nil)
	if err != nil {
		return nil, err
	}
	s := &Solo{
		store:     store,
		gen:       gen,
		recoverer: recoverer,
		options:   options,
		history:   history,
	}

	head, err := s.loadHead()
	switch {
	case err == nil:
		s.head = head
		s.reset()
		logger.Info("resumed", "genesis", gen.ID(), "head", head)
	case errors.Is(err, errNoGenesis):
		if err := s.buildGenesis(); err != nil {
			return nil, err
		}
		logger.Info("genesis built", "name", gen.Name(), "id", gen.ID())
	default:
		return nil, err
	}
	metricBlockNumber().Set(int64(s.head))
	return s, nil
}

func (s *Solo) loadHead() (uint32, error) {
	meta := metaBucket.NewReader(s.store)
	id, err := meta.Get(keyGenesisID)
	if err != nil {
		if meta.IsNotFound(err) {
			return 0, errNoGenesis
		}
		return 0, errors.Wrap(err, "load genesis id")
	}
	if thor.BytesToBytes32(id) != s.gen.ID() {
		return 0, ErrGenesisMismatch
	}
	head, err := meta.Get(keyHead)
	if err != nil {
		return 0, errors.Wrap(err, "load head")
	}
	return binary.BigEndian.Uint32(head), nil
}

func (s *Solo) buildGenesis() error {
	st := state.New(s.store)
	_, evs, err := s.gen.Build(st, s.recoverer)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	s.state = st
	s.pending = evs
	if _, err := s.commit(0); err != nil {
		return err
	}
	id := s.gen.ID()
	return metaBucket.NewWriter(s.store).Put(keyGenesisID, id[:])
}

// reset rebinds the engine to a fresh state over the committed store.
func (s *Solo) reset() {
	s.state = state.New(s.store)
	s.engine = dpos.New(s.gen.Engine(), s.gen.Token(), s.state, s.recoverer)
}

// commit writes the open block as number, records its events and opens the next block.
func (s *Solo) commit(number uint32) (*Block, error) {
	stage := s.state.Stage()
	if err := stage.Commit(s.store); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	var head [4]byte
	binary.BigEndian.PutUint32(head[:], number)
	if err := metaBucket.NewWriter(s.store).Put(keyHead, head[:]); err != nil {
		return nil, errors.Wrap(err, "save head")
	}

	records := make([]Record, 0, len(s.pending))
	for i, ev := range s.pending {
		records = append(records, Record{BlockNumber: number, Index: i, Name: ev.Name(), Event: ev})
	}
	s.history.Add(number, records)

	blk := &Block{Number: number, ChangesHash: stage.Hash(), Events: len(records)}
	s.head = number
	s.pending = nil
	s.reset()

	metricBlockNumber().Set(int64(number))
	metricBlockEvents().Add(int64(len(records)))
	s.ticker.Broadcast()
	return blk, nil
}

// Head returns the number of the last committed block.
func (s *Solo) Head() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head
}

// BlockNumber returns the number calls are currently executed at.
func (s *Solo) BlockNumber() uint32 {
	return s.Head() + 1
}

// Genesis returns the genesis the host was built from.
func (s *Solo) Genesis() *genesis.Genesis {
	return s.gen
}

// Execute runs one engine call as caller in the open block.
func (s *Solo) Execute(caller thor.Address, fn func(d *dpos.DPoS, env dpos.Env) (*dpos.Receipt, error)) (*dpos.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := fn(s.engine, dpos.Env{Caller: caller, BlockNumber: s.head + 1})
	if err != nil {
		return nil, err
	}
	s.pending = append(s.pending, receipt.Events...)

	if s.options.OnDemand {
		if _, err := s.commit(s.head + 1); err != nil {
			return nil, err
		}
	}
	return receipt, nil
}

// View runs a read-only function against the open block. fn must not mutate the engine.
func (s *Solo) View(fn func(d *dpos.DPoS, block uint32) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine, s.head+1)
}

// NextBlock commits the open block.
func (s *Solo) NextBlock() (*Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blk, err := s.commit(s.head + 1)
	if err != nil {
		return nil, err
	}
	logger.Debug("block committed", "number", blk.Number, "events", blk.Events, "hash", blk.ChangesHash)
	return blk, nil
}

// Events returns the records of a committed block, if still retained.
func (s *Solo) Events(number uint32) ([]Record, bool) {
	v, ok := s.history.Get(number)
	if !ok {
		return nil, false
	}
	return v.([]Record), true
}

// NewTicker returns a waiter woken after every committed block.
func (s *Solo) NewTicker() co.Waiter {
	return s.ticker.NewWaiter()
}

// Run packs a block every BlockInterval seconds until ctx is done.
func (s *Solo) Run(ctx context.Context) {
	if s.options.BlockInterval == 0 {
		<-ctx.Done()
		return
	}
	var goes co.Goes
	defer goes.Wait()

	logger.Info("prepared to pack block", "interval", s.options.BlockInterval)
	goes.GoCtx(ctx, s.loop)
	<-ctx.Done()
}

func (s *Solo) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.options.BlockInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval packing service......")
			return
		case <-ticker.C:
			if _, err := s.NextBlock(); err != nil {
				logger.Error("failed to pack block", "err", err)
			}
		}
	}
}
