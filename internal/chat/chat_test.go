package chat

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/hub"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/internal/repository"

	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []hub.Event
}

func (b *recordingBroadcaster) Broadcast(auctionID string, ev hub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBroadcaster) all() []hub.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]hub.Event(nil), b.events...)
}

func newTestService(t *testing.T) (*Service, *recordingBroadcaster, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	broadcaster := &recordingBroadcaster{}

	err := store.Update(func(tx repository.Tx) error {
		tx.SaveAuction(model.Auction{
			AuctionID: "auction1",
			Title:     "Test Auction",
			Currency:  money.TON,
			Status:    model.AuctionActive,
		})
		tx.SaveUser(model.User{
			UserID:   "user1",
			Username: "alice",
			Balances: make(map[money.Currency]model.Balance),
		})
		return nil
	})
	require.NoError(t, err)

	return NewService(store, broadcaster, nil), broadcaster, store
}

func TestPost_StoresAndBroadcasts(t *testing.T) {
	svc, broadcaster, _ := newTestService(t)

	view, err := svc.Post("auction1", "user1", "hello room")
	require.NoError(t, err)
	require.NotEmpty(t, view.MessageID)
	require.Equal(t, "user1", view.UserID)
	require.Equal(t, "hello room", view.Message)
	require.False(t, view.CreatedAt.IsZero())

	events := broadcaster.all()
	require.Len(t, events, 1)
	require.Equal(t, hub.EventChatMessage, events[0].Type)
	require.Equal(t, view, events[0].Data)

	messages, err := svc.Messages("auction1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, view, messages[0])
}

func TestPost_SanitizesMarkup(t *testing.T) {
	svc, broadcaster, _ := newTestService(t)

	view, err := svc.Post("auction1", "user1", "  <b>nice</b> item <script>x()</script>  ")
	require.NoError(t, err)
	require.Equal(t, "nice item x()", view.Message)

	// The broadcast carries the sanitized form only.
	events := broadcaster.all()
	require.Len(t, events, 1)
	require.Equal(t, view, events[0].Data)
}

func TestPost_Validation(t *testing.T) {
	svc, broadcaster, _ := newTestService(t)

	tests := []struct {
		name        string
		auctionID   string
		userID      string
		message     string
		expectedErr error
	}{
		{name: "empty", auctionID: "auction1", userID: "user1", message: "   ", expectedErr: auctionerrors.ErrInvalidMessage},
		{name: "markup_only", auctionID: "auction1", userID: "user1", message: "<br/>", expectedErr: auctionerrors.ErrInvalidMessage},
		{name: "too_long", auctionID: "auction1", userID: "user1", message: strings.Repeat("a", 501), expectedErr: auctionerrors.ErrInvalidMessage},
		{name: "unknown_auction", auctionID: "missing", userID: "user1", message: "hello", expectedErr: auctionerrors.ErrAuctionNotFound},
		{name: "unknown_user", auctionID: "auction1", userID: "ghost", message: "hello", expectedErr: auctionerrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Post(tt.auctionID, tt.userID, tt.message)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}

	// Nothing was stored or broadcast.
	require.Empty(t, broadcaster.all())
	messages, err := svc.Messages("auction1")
	require.NoError(t, err)
	require.Empty(t, messages)
}

func TestPost_MaxLengthBoundary(t *testing.T) {
	svc, _, _ := newTestService(t)

	view, err := svc.Post("auction1", "user1", strings.Repeat("a", 500))
	require.NoError(t, err)
	require.Len(t, view.Message, 500)
}

func TestMessages_NewestFirstAndLimited(t *testing.T) {
	svc, _, store := newTestService(t)

	// Seed past the listing limit with distinct timestamps.
	base := time.Now().UTC().Add(-time.Hour)
	err := store.Update(func(tx repository.Tx) error {
		for i := 0; i < 105; i++ {
			tx.AppendChatMessage(model.ChatMessage{
				MessageID: fmt.Sprintf("msg%03d", i),
				AuctionID: "auction1",
				UserID:    "user1",
				Message:   "m",
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
		}
		return nil
	})
	require.NoError(t, err)

	messages, err := svc.Messages("auction1")
	require.NoError(t, err)
	require.Len(t, messages, 100)

	// Newest first, so the oldest five fell off.
	require.Equal(t, base.Add(104*time.Second), messages[0].CreatedAt)
	require.Equal(t, base.Add(5*time.Second), messages[99].CreatedAt)
}

func TestMessages_UnknownAuction(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Messages("missing")
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)
}
