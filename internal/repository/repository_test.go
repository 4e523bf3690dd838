package repository

import (
	"errors"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"

	"github.com/stretchr/testify/require"
)

func newBid(bidID, userID string, amount int64, placedAt time.Time) model.Bid {
	return model.Bid{
		BidID:     bidID,
		AuctionID: "auction1",
		UserID:    userID,
		Amount:    money.FromInt64(amount),
		Status:    model.BidActive,
		LastBidAt: placedAt,
	}
}

func TestMemoryStore_LeaderboardOrdering(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	err := store.Update(func(tx Tx) error {
		tx.SaveBid(newBid("bid-c", "user3", 100, now.Add(2*time.Second)))
		tx.SaveBid(newBid("bid-a", "user1", 300, now))
		tx.SaveBid(newBid("bid-b", "user2", 100, now.Add(time.Second)))
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		bids := tx.ActiveBids("auction1", -1)
		require.Len(t, bids, 3)
		// Amount descending, then earlier bid first on ties.
		require.Equal(t, "bid-a", bids[0].BidID)
		require.Equal(t, "bid-b", bids[1].BidID)
		require.Equal(t, "bid-c", bids[2].BidID)

		top2 := tx.ActiveBids("auction1", 2)
		require.Len(t, top2, 2)
		require.Equal(t, "bid-a", top2[0].BidID)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_UpdateRollsBackOnError(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("boom")

	err := store.Update(func(tx Tx) error {
		tx.SaveAuction(model.Auction{AuctionID: "auction1", Status: model.AuctionScheduled})
		tx.SaveBid(newBid("bid1", "user1", 100, time.Now()))
		tx.MarkApplied("token1")
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.View(func(tx ReadTx) error {
		_, err := tx.Auction("auction1")
		require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)
		require.Empty(t, tx.ActiveBids("auction1", -1))
		require.False(t, tx.Applied("token1"))
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_UpdateSeesOwnWrites(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	err := store.Update(func(tx Tx) error {
		tx.SaveBid(newBid("bid1", "user1", 100, now))

		// Staged writes must be visible to reads in the same unit of work.
		bids := tx.ActiveBids("auction1", -1)
		require.Len(t, bids, 1)

		bid := bids[0]
		bid.Amount = money.FromInt64(200)
		tx.SaveBid(bid)

		bids = tx.ActiveBids("auction1", -1)
		require.Equal(t, "200", bids[0].Amount.String())
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		bids := tx.ActiveBids("auction1", -1)
		require.Len(t, bids, 1)
		require.Equal(t, "200", bids[0].Amount.String())
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_AppliedTokens(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update(func(tx Tx) error {
		require.False(t, tx.Applied("token1"))
		tx.MarkApplied("token1")
		require.True(t, tx.Applied("token1"))
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		require.True(t, tx.Applied("token1"))
		require.False(t, tx.Applied("token2"))
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_UserCopyIsDetached(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update(func(tx Tx) error {
		tx.SaveUser(model.User{
			UserID:   "user1",
			Username: "alice",
			Balances: map[money.Currency]model.Balance{
				money.TON: {Total: money.FromInt64(100)},
			},
		})
		return nil
	})
	require.NoError(t, err)

	// Mutating a read copy must not leak into committed state.
	err = store.View(func(tx ReadTx) error {
		u, err := tx.User("user1")
		require.NoError(t, err)
		u.Balances[money.TON] = model.Balance{Total: money.FromInt64(999)}
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		u, err := tx.User("user1")
		require.NoError(t, err)
		require.Equal(t, "100", u.Balances[money.TON].Total.String())
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_DueQueries(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	err := store.Update(func(tx Tx) error {
		tx.SaveAuction(model.Auction{
			AuctionID: "due-scheduled",
			Status:    model.AuctionScheduled,
			StartTime: now.Add(-time.Minute),
		})
		tx.SaveAuction(model.Auction{
			AuctionID: "future-scheduled",
			Status:    model.AuctionScheduled,
			StartTime: now.Add(time.Hour),
		})
		tx.SaveAuction(model.Auction{
			AuctionID:   "due-active",
			Status:      model.AuctionActive,
			StartTime:   now.Add(-time.Hour),
			RoundEndsAt: now.Add(-time.Second),
		})
		tx.SaveAuction(model.Auction{
			AuctionID:   "running-active",
			Status:      model.AuctionActive,
			StartTime:   now.Add(-time.Hour),
			RoundEndsAt: now.Add(time.Minute),
		})
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		due := tx.DueScheduled(now)
		require.Len(t, due, 1)
		require.Equal(t, "due-scheduled", due[0].AuctionID)

		active := tx.DueActive(now)
		require.Len(t, active, 1)
		require.Equal(t, "due-active", active[0].AuctionID)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_ActiveBidPerUser(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	err := store.Update(func(tx Tx) error {
		tx.SaveBid(newBid("bid1", "user1", 100, now))
		lost := newBid("bid2", "user2", 150, now)
		lost.Status = model.BidLost
		tx.SaveBid(lost)
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		bid, ok := tx.ActiveBid("auction1", "user1")
		require.True(t, ok)
		require.Equal(t, "bid1", bid.BidID)

		_, ok = tx.ActiveBid("auction1", "user2")
		require.False(t, ok)

		lost := tx.BidsByStatus("auction1", model.BidLost)
		require.Len(t, lost, 1)
		require.Equal(t, "bid2", lost[0].BidID)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_BidHistoryNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	err := store.Update(func(tx Tx) error {
		tx.AppendBidHistory(model.BidHistory{
			HistoryID: "h1", AuctionID: "auction1", UserID: "user1",
			NewAmount: money.FromInt64(100), CreatedAt: now,
		})
		tx.AppendBidHistory(model.BidHistory{
			HistoryID: "h2", AuctionID: "auction1", UserID: "user1",
			NewAmount: money.FromInt64(150), CreatedAt: now.Add(time.Second),
		})
		tx.AppendBidHistory(model.BidHistory{
			HistoryID: "other", AuctionID: "auction2", UserID: "user2",
			NewAmount: money.FromInt64(100), CreatedAt: now,
		})

		// Staged entries are visible inside the same transaction.
		entries := tx.BidHistory("auction1")
		require.Len(t, entries, 2)
		require.Equal(t, "h2", entries[0].HistoryID)
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		entries := tx.BidHistory("auction1")
		require.Len(t, entries, 2)
		require.Equal(t, "h2", entries[0].HistoryID)
		require.Equal(t, "h1", entries[1].HistoryID)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_ChatMessages(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	err := store.Update(func(tx Tx) error {
		tx.AppendChatMessage(model.ChatMessage{
			MessageID: "m1", AuctionID: "auction1", UserID: "user1",
			Message: "first", CreatedAt: now,
		})
		tx.AppendChatMessage(model.ChatMessage{
			MessageID: "m2", AuctionID: "auction1", UserID: "user2",
			Message: "second", CreatedAt: now.Add(time.Second),
		})
		tx.AppendChatMessage(model.ChatMessage{
			MessageID: "m3", AuctionID: "auction1", UserID: "user1",
			Message: "third", CreatedAt: now.Add(2 * time.Second),
		})
		return nil
	})
	require.NoError(t, err)

	err = store.View(func(tx ReadTx) error {
		// Newest first, cut at the limit.
		messages := tx.ChatMessages("auction1", 2)
		require.Len(t, messages, 2)
		require.Equal(t, "m3", messages[0].MessageID)
		require.Equal(t, "m2", messages[1].MessageID)

		// A negative limit returns everything.
		require.Len(t, tx.ChatMessages("auction1", -1), 3)
		require.Empty(t, tx.ChatMessages("auction2", -1))
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_ChatMessageRollsBackOnError(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("boom")

	err := store.Update(func(tx Tx) error {
		tx.AppendChatMessage(model.ChatMessage{
			MessageID: "m1", AuctionID: "auction1", UserID: "user1",
			Message: "hello", CreatedAt: time.Now().UTC(),
		})
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.View(func(tx ReadTx) error {
		require.Empty(t, tx.ChatMessages("auction1", -1))
		return nil
	})
	require.NoError(t, err)
}
