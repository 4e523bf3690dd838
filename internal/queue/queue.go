// Package queue implements the bid admission queue: submissions are
// acknowledged immediately and applied to the bid ledger by a bounded,
// rate-limited worker pool. Delivery is at-least-once; the per-submission
// token makes replays harmless.
package queue

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/bidding"
	"auction-engine/internal/hub"
	"auction-engine/utils"
)

// ErrQueueClosed is returned by Submit after Stop.
var ErrQueueClosed = errors.New("bid queue is closed")

// ErrQueueFull is returned when the submission buffer is saturated.
var ErrQueueFull = errors.New("bid queue is full")

// BidJob is one bid submission. Amount stays a decimal string until the
// ledger parses it against the auction currency.
type BidJob struct {
	AuctionID string `json:"auctionId"`
	UserID    string `json:"userId"`
	Amount    string `json:"amount"`
}

// Submitter is the handler-facing side of the queue.
type Submitter interface {
	Submit(job BidJob) (string, error)
	Stats() Stats
}

// BidPlacer applies one admitted bid atomically. Implemented by the bid
// ledger.
type BidPlacer interface {
	PlaceBid(token, auctionID, userID, amount string) (bidding.Update, error)
}

// Broadcaster receives the outcome of processed jobs.
type Broadcaster interface {
	Broadcast(auctionID string, ev hub.Event)
	SendToUser(auctionID, userID string, ev hub.Event)
}

// EventSink receives audit events. A nil sink disables auditing.
type EventSink interface {
	Append(eventType, userID, auctionID string, payload any)
}

// Options bound the worker pool and its retry policy.
type Options struct {
	Workers     int
	Capacity    int
	RatePerSec  float64
	Burst       int
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// Stats is a point-in-time view of queue counters.
type Stats struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

type job struct {
	id string
	BidJob
}

// Queue is the in-process admission queue. A broker-backed implementation
// can replace it behind the Submitter interface.
type Queue struct {
	ledger  BidPlacer
	hub     Broadcaster
	events  EventSink
	opts    Options
	limiter *RateLimiter

	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup

	closed    atomic.Bool
	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// New creates a stopped queue; call Start to launch the workers.
func New(ledger BidPlacer, broadcaster Broadcaster, events EventSink, opts Options) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 10
	}
	if opts.Capacity <= 0 {
		opts.Capacity = 1024
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 100
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.Workers
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 100 * time.Millisecond
	}
	if opts.BackoffMax <= 0 {
		opts.BackoffMax = 5 * time.Second
	}
	return &Queue{
		ledger:  ledger,
		hub:     broadcaster,
		events:  events,
		opts:    opts,
		limiter: NewRateLimiter(opts.Burst, opts.RatePerSec),
		jobs:    make(chan job, opts.Capacity),
		quit:    make(chan struct{}),
	}
}

// Start launches the worker pool.
func (q *Queue) Start() {
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// Stop prevents new submissions and waits for every accepted job to
// finish. Submit returned an id for each buffered job, so none may be
// dropped.
func (q *Queue) Stop() {
	if !q.closed.CompareAndSwap(false, true) {
		return
	}
	close(q.quit)
	q.wg.Wait()
}

// Submit enqueues a bid and returns its job id immediately. The returned
// id doubles as the idempotency token for ledger application.
func (q *Queue) Submit(j BidJob) (string, error) {
	if q.closed.Load() {
		return "", ErrQueueClosed
	}
	item := job{id: utils.GenerateID(), BidJob: j}
	select {
	case q.jobs <- item:
		return item.id, nil
	default:
		return "", fmt.Errorf("capacity %d reached: %w", q.opts.Capacity, ErrQueueFull)
	}
}

// Stats returns current queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Waiting:   int64(len(q.jobs)),
		Active:    q.active.Load(),
		Completed: q.completed.Load(),
		Failed:    q.failed.Load(),
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.quit:
			q.drain()
			return
		case j := <-q.jobs:
			q.active.Add(1)
			q.process(j)
			q.active.Add(-1)
		}
	}
}

// drain empties the buffer on shutdown. Submit stops accepting before
// quit closes, so the buffer only shrinks here.
func (q *Queue) drain() {
	for {
		select {
		case j := <-q.jobs:
			q.active.Add(1)
			q.process(j)
			q.active.Add(-1)
		default:
			return
		}
	}
}

// process applies one job with bounded retries. Only transient store
// contention retries; domain errors fail the bid immediately.
func (q *Queue) process(j job) {
	var lastErr error
	for attempt := 0; attempt < q.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(Backoff(q.opts.BackoffBase, q.opts.BackoffMax, attempt-1))
		}
		q.limiter.Wait()

		update, err := q.ledger.PlaceBid(j.id, j.AuctionID, j.UserID, j.Amount)
		switch {
		case err == nil:
			q.completed.Add(1)
			q.hub.Broadcast(j.AuctionID, hub.Event{Type: hub.EventBidUpdated, Data: update})
			if len(update.OutbidUserIDs) > 0 {
				q.hub.Broadcast(j.AuctionID, hub.Event{
					Type: hub.EventBidOutbid,
					Data: map[string]any{"userIds": update.OutbidUserIDs},
				})
			}
			if q.events != nil {
				q.events.Append(hub.EventBidUpdated, j.UserID, j.AuctionID, map[string]any{
					"amount":        update.Amount,
					"currentMinBid": update.CurrentMinBid,
				})
			}
			return
		case errors.Is(err, auctionerrors.ErrAlreadyApplied):
			// A previous attempt committed; nothing new to broadcast.
			q.completed.Add(1)
			return
		case errors.Is(err, auctionerrors.ErrTxConflict):
			lastErr = err
			continue
		default:
			q.fail(j, err)
			return
		}
	}
	q.fail(j, lastErr)
}

// fail reports the outcome to the submitting user only; other bidders are
// unaffected and must not see it.
func (q *Queue) fail(j job, err error) {
	q.failed.Add(1)
	utils.Error("bid processing failed", map[string]any{
		"job_id":     j.id,
		"auction_id": j.AuctionID,
		"user_id":    j.UserID,
		"error":      err.Error(),
	})
	q.hub.SendToUser(j.AuctionID, j.UserID, hub.Event{
		Type: hub.EventBidFailed,
		Data: map[string]any{"userId": j.UserID, "error": err.Error()},
	})
}
