// Package scheduler drives the round state machine on a fixed interval.
// Ticks are single-flight: a new pass never starts while the previous one
// is still running, so the same auction is never mutated by two passes.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"auction-engine/internal/hub"
	"auction-engine/internal/rounds"
	"auction-engine/utils"
)

// Broadcaster receives lifecycle events for fan-out.
type Broadcaster interface {
	Broadcast(auctionID string, ev hub.Event)
}

// Scheduler periodically starts due auctions and finalizes due rounds.
type Scheduler struct {
	engine   *rounds.Engine
	hub      Broadcaster
	interval time.Duration

	running atomic.Bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// New creates a scheduler ticking at the given interval.
func New(engine *rounds.Engine, broadcaster Broadcaster, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{
		engine:   engine,
		hub:      broadcaster,
		interval: interval,
		quit:     make(chan struct{}),
	}
}

// Start launches the tick loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick(time.Now().UTC())
			case <-s.quit:
				return
			}
		}
	}()
	utils.Info("auction scheduler started", map[string]any{"interval": s.interval.String()})
}

// Stop halts the tick loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}

// Tick runs one start/finalize pass. Re-entrant calls are dropped while a
// pass is in flight. Errors abort the pass; both transitions are
// idempotent re-evaluations, so the next tick self-heals.
func (s *Scheduler) Tick(now time.Time) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)

	started, err := s.engine.StartDueAuctions(now)
	if err != nil {
		utils.Error("scheduler start pass failed", map[string]any{"error": err.Error()})
		return
	}
	for _, auctionID := range started {
		snapshot, err := s.engine.Snapshot(auctionID, "")
		if err != nil {
			utils.Error("snapshot after start failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
			continue
		}
		s.hub.Broadcast(auctionID, hub.Event{Type: hub.EventAuctionStarted, Data: snapshot})
	}

	closed, err := s.engine.FinalizeDueRounds(now)
	if err != nil {
		utils.Error("scheduler finalize pass failed", map[string]any{"error": err.Error()})
		return
	}
	for _, entry := range closed {
		snapshot, err := s.engine.Snapshot(entry.AuctionID, "")
		if err != nil {
			utils.Error("snapshot after finalize failed", map[string]any{"auction_id": entry.AuctionID, "error": err.Error()})
			continue
		}
		result, err := s.engine.RoundResultView(entry.AuctionID, entry.RoundNumber)
		if err != nil {
			utils.Error("round result lookup failed", map[string]any{"auction_id": entry.AuctionID, "error": err.Error()})
			continue
		}
		s.hub.Broadcast(entry.AuctionID, hub.Event{
			Type: hub.EventRoundClosed,
			Data: map[string]any{
				"snapshot":         snapshot,
				"roundNumber":      entry.RoundNumber,
				"winners":          result.Winners,
				"lowestWinningBid": result.LowestWinningBid,
			},
		})
	}
}
