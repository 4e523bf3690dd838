package queue

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/bidding"
	"auction-engine/internal/hub"

	"github.com/stretchr/testify/require"
)

// scriptedPlacer returns the scripted errors in order, then succeeds.
type scriptedPlacer struct {
	mu     sync.Mutex
	script []error
	calls  []string // tokens in call order
	update bidding.Update
}

func (p *scriptedPlacer) PlaceBid(token, auctionID, userID, amount string) (bidding.Update, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, token)
	if len(p.script) > 0 {
		err := p.script[0]
		p.script = p.script[1:]
		if err != nil {
			return bidding.Update{}, err
		}
	}
	return p.update, nil
}

func (p *scriptedPlacer) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *scriptedPlacer) tokens() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

type sentEvent struct {
	auctionID string
	userID    string // empty for broadcasts
	event     hub.Event
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (b *recordingBroadcaster) Broadcast(auctionID string, ev hub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{auctionID: auctionID, event: ev})
}

func (b *recordingBroadcaster) SendToUser(auctionID, userID string, ev hub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{auctionID: auctionID, userID: userID, event: ev})
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func (b *recordingBroadcaster) byType(eventType string) []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []sentEvent
	for _, e := range b.events {
		if e.event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func testOptions() Options {
	return Options{
		Workers:     2,
		Capacity:    16,
		RatePerSec:  10000,
		Burst:       16,
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
		BackoffMax:  5 * time.Millisecond,
	}
}

func testJob() BidJob {
	return BidJob{AuctionID: "auction1", UserID: "user1", Amount: "1.5"}
}

func TestQueue_SuccessBroadcastsUpdate(t *testing.T) {
	placer := &scriptedPlacer{
		update: bidding.Update{
			AuctionID:     "auction1",
			UserID:        "user1",
			Amount:        "1.5",
			OutbidUserIDs: []string{"user2"},
		},
	}
	broadcaster := &recordingBroadcaster{}
	q := New(placer, broadcaster, nil, testOptions())
	q.Start()
	defer q.Stop()

	jobID, err := q.Submit(testJob())
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	require.Eventually(t, func() bool {
		return q.Stats().Completed == 1
	}, time.Second, 5*time.Millisecond)

	// The job id was handed to the ledger as the idempotency token.
	require.Equal(t, []string{jobID}, placer.tokens())

	updated := broadcaster.byType(hub.EventBidUpdated)
	require.Len(t, updated, 1)
	require.Equal(t, "auction1", updated[0].auctionID)
	require.Empty(t, updated[0].userID)

	outbid := broadcaster.byType(hub.EventBidOutbid)
	require.Len(t, outbid, 1)
}

func TestQueue_RetriesOnTxConflict(t *testing.T) {
	placer := &scriptedPlacer{
		script: []error{auctionerrors.ErrTxConflict, auctionerrors.ErrTxConflict},
	}
	broadcaster := &recordingBroadcaster{}
	q := New(placer, broadcaster, nil, testOptions())
	q.Start()
	defer q.Stop()

	_, err := q.Submit(testJob())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return q.Stats().Completed == 1
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, 3, placer.callCount())
	require.Empty(t, broadcaster.byType(hub.EventBidFailed))
}

func TestQueue_ExhaustedRetriesFailToSubmitter(t *testing.T) {
	placer := &scriptedPlacer{
		script: []error{
			auctionerrors.ErrTxConflict,
			auctionerrors.ErrTxConflict,
			auctionerrors.ErrTxConflict,
		},
	}
	broadcaster := &recordingBroadcaster{}
	q := New(placer, broadcaster, nil, testOptions())
	q.Start()
	defer q.Stop()

	_, err := q.Submit(testJob())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return q.Stats().Failed == 1
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, 3, placer.callCount())

	failed := broadcaster.byType(hub.EventBidFailed)
	require.Len(t, failed, 1)
	// Failure goes to the submitter only, never room-wide.
	require.Equal(t, "user1", failed[0].userID)
	require.Empty(t, broadcaster.byType(hub.EventBidUpdated))
}

func TestQueue_DomainErrorFailsFast(t *testing.T) {
	placer := &scriptedPlacer{
		script: []error{fmt.Errorf("bid too low: %w", auctionerrors.ErrBelowMinimum)},
	}
	broadcaster := &recordingBroadcaster{}
	q := New(placer, broadcaster, nil, testOptions())
	q.Start()
	defer q.Stop()

	_, err := q.Submit(testJob())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return q.Stats().Failed == 1
	}, time.Second, 5*time.Millisecond)

	// No retries for domain rejections.
	require.Equal(t, 1, placer.callCount())

	failed := broadcaster.byType(hub.EventBidFailed)
	require.Len(t, failed, 1)
	require.Equal(t, "user1", failed[0].userID)
}

func TestQueue_AlreadyAppliedCompletesSilently(t *testing.T) {
	placer := &scriptedPlacer{
		script: []error{auctionerrors.ErrAlreadyApplied},
	}
	broadcaster := &recordingBroadcaster{}
	q := New(placer, broadcaster, nil, testOptions())
	q.Start()
	defer q.Stop()

	_, err := q.Submit(testJob())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return q.Stats().Completed == 1
	}, time.Second, 5*time.Millisecond)

	// A replayed submission must not re-broadcast.
	require.Zero(t, broadcaster.count())
}

func TestQueue_SubmitAfterStop(t *testing.T) {
	q := New(&scriptedPlacer{}, &recordingBroadcaster{}, nil, testOptions())
	q.Start()
	q.Stop()

	_, err := q.Submit(testJob())
	require.ErrorIs(t, err, ErrQueueClosed)
}

// gatedPlacer blocks every call until release is closed.
type gatedPlacer struct {
	scriptedPlacer
	entered chan struct{}
	release chan struct{}
}

func (p *gatedPlacer) PlaceBid(token, auctionID, userID, amount string) (bidding.Update, error) {
	p.entered <- struct{}{}
	<-p.release
	return p.scriptedPlacer.PlaceBid(token, auctionID, userID, amount)
}

func TestQueue_StopDrainsAcceptedJobs(t *testing.T) {
	placer := &gatedPlacer{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
	opts := testOptions()
	opts.Workers = 1
	q := New(placer, &recordingBroadcaster{}, nil, opts)
	q.Start()

	// One job held in flight, two more sitting in the buffer.
	for i := 0; i < 3; i++ {
		_, err := q.Submit(testJob())
		require.NoError(t, err)
	}
	<-placer.entered

	stopped := make(chan struct{})
	go func() {
		q.Stop()
		close(stopped)
	}()

	close(placer.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	// Every accepted job ran, including the buffered ones.
	require.Equal(t, int64(3), q.Stats().Completed)
}

func TestQueue_FullBuffer(t *testing.T) {
	opts := testOptions()
	opts.Capacity = 1
	q := New(&scriptedPlacer{}, &recordingBroadcaster{}, nil, opts)
	// Workers never started, so the buffer cannot drain.

	_, err := q.Submit(testJob())
	require.NoError(t, err)
	_, err = q.Submit(testJob())
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	max := 5 * time.Second

	tests := []struct {
		retry    int
		expected time.Duration
	}{
		{retry: -1, expected: base},
		{retry: 0, expected: 100 * time.Millisecond},
		{retry: 1, expected: 200 * time.Millisecond},
		{retry: 2, expected: 400 * time.Millisecond},
		{retry: 5, expected: 3200 * time.Millisecond},
		{retry: 6, expected: max},
		{retry: 40, expected: max},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, Backoff(base, max, tt.retry), "retry %d", tt.retry)
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, 1000)

	require.True(t, limiter.TryAcquire())
	require.True(t, limiter.TryAcquire())
	require.False(t, limiter.TryAcquire())

	// Tokens come back as time passes.
	require.Eventually(t, limiter.TryAcquire, time.Second, time.Millisecond)
}

func TestRateLimiter_WaitBlocks(t *testing.T) {
	limiter := NewRateLimiter(1, 100)
	limiter.Wait()

	start := time.Now()
	limiter.Wait()
	// Second token needs a refill at 100/s, so roughly 10ms.
	require.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
