// Package repository defines the storage contract for the auction engine
// and a concurrency-safe in-memory implementation of it.
//
// Every engine operation runs inside one unit of work: reads observe a
// consistent snapshot, writes are staged and become visible only when the
// closure returns nil. The in-memory store serializes units of work under
// a single mutex, which satisfies the serializable-equivalent isolation
// the bid and round transitions rely on. Other implementations may use
// optimistic concurrency and return ErrTxConflict from Update; the
// admission queue retries that error with backoff.
package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"
)

// ReadTx exposes consistent reads inside a unit of work.
type ReadTx interface {
	Auction(auctionID string) (model.Auction, error)
	Auctions() []model.Auction
	DueScheduled(now time.Time) []model.Auction
	DueActive(now time.Time) []model.Auction

	// ActiveBids returns active bids for an auction ordered by amount
	// descending, then lastBidAt ascending (earlier bid wins ties).
	// limit < 0 returns all.
	ActiveBids(auctionID string, limit int) []model.Bid
	ActiveBid(auctionID, userID string) (model.Bid, bool)
	BidsByStatus(auctionID string, status model.BidStatus) []model.Bid

	User(userID string) (model.User, error)
	RoundResults(auctionID string) []model.RoundResult
	RoundResult(auctionID string, roundNumber int) (model.RoundResult, bool)
	Items(auctionID string) []model.Item
	Transactions(userID string) []model.Transaction

	// BidHistory returns an auction's bid history newest first.
	BidHistory(auctionID string) []model.BidHistory
	// ChatMessages returns an auction's chat newest first. limit < 0
	// returns all.
	ChatMessages(auctionID string, limit int) []model.ChatMessage

	// Applied reports whether a submission token has already committed.
	Applied(token string) bool
}

// Tx extends ReadTx with staged writes. Saves are upserts keyed by the
// entity's own ID; appends are append-only records.
type Tx interface {
	ReadTx
	SaveAuction(model.Auction)
	SaveBid(model.Bid)
	SaveUser(model.User)
	AppendRoundResult(model.RoundResult)
	AppendItem(model.Item)
	AppendTransaction(model.Transaction)
	AppendBidHistory(model.BidHistory)
	AppendChatMessage(model.ChatMessage)
	MarkApplied(token string)
}

// Store runs closures as atomic units of work.
type Store interface {
	View(fn func(ReadTx) error) error
	Update(fn func(Tx) error) error
}

// MemoryStore is the in-memory Store implementation.
type MemoryStore struct {
	mu           sync.Mutex
	users        map[string]model.User
	auctions     map[string]model.Auction
	bids         map[string]model.Bid
	roundResults map[string][]model.RoundResult
	items        map[string][]model.Item
	transactions []model.Transaction
	bidHistory   []model.BidHistory
	chatMessages map[string][]model.ChatMessage
	applied      map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]model.User),
		auctions:     make(map[string]model.Auction),
		bids:         make(map[string]model.Bid),
		roundResults: make(map[string][]model.RoundResult),
		items:        make(map[string][]model.Item),
		chatMessages: make(map[string][]model.ChatMessage),
		applied:      make(map[string]struct{}),
	}
}

// View runs fn against a consistent read-only snapshot.
func (s *MemoryStore) View(fn func(ReadTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{store: s})
}

// Update runs fn as one atomic unit of work. Writes are staged in the
// transaction and committed only if fn returns nil; any error rolls the
// whole unit back.
func (s *MemoryStore) Update(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memTx stages writes on top of the store state. Reads consult the staged
// layer first so a unit of work observes its own writes.
type memTx struct {
	store *MemoryStore

	users        map[string]model.User
	auctions     map[string]model.Auction
	bids         map[string]model.Bid
	roundResults []model.RoundResult
	items        []model.Item
	transactions []model.Transaction
	bidHistory   []model.BidHistory
	chatMessages []model.ChatMessage
	applied      []string
}

func (t *memTx) commit() {
	s := t.store
	for id, u := range t.users {
		s.users[id] = u
	}
	for id, a := range t.auctions {
		s.auctions[id] = a
	}
	for id, b := range t.bids {
		s.bids[id] = b
	}
	for _, rr := range t.roundResults {
		s.roundResults[rr.AuctionID] = append(s.roundResults[rr.AuctionID], rr)
	}
	for _, it := range t.items {
		s.items[it.AuctionID] = append(s.items[it.AuctionID], it)
	}
	s.transactions = append(s.transactions, t.transactions...)
	s.bidHistory = append(s.bidHistory, t.bidHistory...)
	for _, m := range t.chatMessages {
		s.chatMessages[m.AuctionID] = append(s.chatMessages[m.AuctionID], m)
	}
	for _, token := range t.applied {
		s.applied[token] = struct{}{}
	}
}

// copyUser detaches the balance map so callers cannot mutate committed
// state without going through SaveUser.
func copyUser(u model.User) model.User {
	out := u
	out.Balances = make(map[money.Currency]model.Balance, len(u.Balances))
	for c, b := range u.Balances {
		out.Balances[c] = b
	}
	return out
}

func (t *memTx) Auction(auctionID string) (model.Auction, error) {
	if t.auctions != nil {
		if a, ok := t.auctions[auctionID]; ok {
			return a, nil
		}
	}
	if a, ok := t.store.auctions[auctionID]; ok {
		return a, nil
	}
	return model.Auction{}, fmt.Errorf("auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
}

func (t *memTx) mergedAuctions() []model.Auction {
	out := make([]model.Auction, 0, len(t.store.auctions))
	for id, a := range t.store.auctions {
		if t.auctions != nil {
			if staged, ok := t.auctions[id]; ok {
				out = append(out, staged)
				continue
			}
		}
		out = append(out, a)
	}
	for id, a := range t.auctions {
		if _, ok := t.store.auctions[id]; !ok {
			out = append(out, a)
		}
	}
	return out
}

func (t *memTx) Auctions() []model.Auction {
	out := t.mergedAuctions()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].AuctionID < out[j].AuctionID
	})
	return out
}

func (t *memTx) DueScheduled(now time.Time) []model.Auction {
	var out []model.Auction
	for _, a := range t.Auctions() {
		if a.Status == model.AuctionScheduled && !a.StartTime.After(now) {
			out = append(out, a)
		}
	}
	return out
}

func (t *memTx) DueActive(now time.Time) []model.Auction {
	var out []model.Auction
	for _, a := range t.Auctions() {
		if a.Status == model.AuctionActive && !a.RoundEndsAt.IsZero() && !a.RoundEndsAt.After(now) {
			out = append(out, a)
		}
	}
	return out
}

func (t *memTx) mergedBids(auctionID string) []model.Bid {
	var out []model.Bid
	for id, b := range t.store.bids {
		if b.AuctionID != auctionID {
			continue
		}
		if t.bids != nil {
			if staged, ok := t.bids[id]; ok {
				out = append(out, staged)
				continue
			}
		}
		out = append(out, b)
	}
	for id, b := range t.bids {
		if b.AuctionID != auctionID {
			continue
		}
		if _, ok := t.store.bids[id]; !ok {
			out = append(out, b)
		}
	}
	return out
}

// sortLeaderboard orders bids amount descending, then lastBidAt ascending,
// then bid ID for full determinism.
func sortLeaderboard(bids []model.Bid) {
	sort.Slice(bids, func(i, j int) bool {
		if c := bids[i].Amount.Cmp(bids[j].Amount); c != 0 {
			return c > 0
		}
		if !bids[i].LastBidAt.Equal(bids[j].LastBidAt) {
			return bids[i].LastBidAt.Before(bids[j].LastBidAt)
		}
		return bids[i].BidID < bids[j].BidID
	})
}

func (t *memTx) ActiveBids(auctionID string, limit int) []model.Bid {
	var out []model.Bid
	for _, b := range t.mergedBids(auctionID) {
		if b.Status == model.BidActive {
			out = append(out, b)
		}
	}
	sortLeaderboard(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (t *memTx) ActiveBid(auctionID, userID string) (model.Bid, bool) {
	for _, b := range t.mergedBids(auctionID) {
		if b.Status == model.BidActive && b.UserID == userID {
			return b, true
		}
	}
	return model.Bid{}, false
}

func (t *memTx) BidsByStatus(auctionID string, status model.BidStatus) []model.Bid {
	var out []model.Bid
	for _, b := range t.mergedBids(auctionID) {
		if b.Status == status {
			out = append(out, b)
		}
	}
	sortLeaderboard(out)
	return out
}

func (t *memTx) User(userID string) (model.User, error) {
	var u model.User
	var ok bool
	if t.users != nil {
		u, ok = t.users[userID]
	}
	if !ok {
		u, ok = t.store.users[userID]
	}
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return copyUser(u), nil
}

func (t *memTx) RoundResults(auctionID string) []model.RoundResult {
	out := append([]model.RoundResult(nil), t.store.roundResults[auctionID]...)
	for _, rr := range t.roundResults {
		if rr.AuctionID == auctionID {
			out = append(out, rr)
		}
	}
	return out
}

func (t *memTx) RoundResult(auctionID string, roundNumber int) (model.RoundResult, bool) {
	for _, rr := range t.RoundResults(auctionID) {
		if rr.RoundNumber == roundNumber {
			return rr, true
		}
	}
	return model.RoundResult{}, false
}

func (t *memTx) Items(auctionID string) []model.Item {
	out := append([]model.Item(nil), t.store.items[auctionID]...)
	for _, it := range t.items {
		if it.AuctionID == auctionID {
			out = append(out, it)
		}
	}
	return out
}

func (t *memTx) Transactions(userID string) []model.Transaction {
	var out []model.Transaction
	for _, tx := range t.store.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	for _, tx := range t.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out
}

func (t *memTx) BidHistory(auctionID string) []model.BidHistory {
	var out []model.BidHistory
	for _, h := range t.store.bidHistory {
		if h.AuctionID == auctionID {
			out = append(out, h)
		}
	}
	for _, h := range t.bidHistory {
		if h.AuctionID == auctionID {
			out = append(out, h)
		}
	}
	// Stable so entries sharing a timestamp keep insertion order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (t *memTx) ChatMessages(auctionID string, limit int) []model.ChatMessage {
	out := append([]model.ChatMessage(nil), t.store.chatMessages[auctionID]...)
	for _, m := range t.chatMessages {
		if m.AuctionID == auctionID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (t *memTx) Applied(token string) bool {
	if _, ok := t.store.applied[token]; ok {
		return true
	}
	for _, tok := range t.applied {
		if tok == token {
			return true
		}
	}
	return false
}

func (t *memTx) SaveAuction(a model.Auction) {
	if t.auctions == nil {
		t.auctions = make(map[string]model.Auction)
	}
	t.auctions[a.AuctionID] = a
}

func (t *memTx) SaveBid(b model.Bid) {
	if t.bids == nil {
		t.bids = make(map[string]model.Bid)
	}
	t.bids[b.BidID] = b
}

func (t *memTx) SaveUser(u model.User) {
	if t.users == nil {
		t.users = make(map[string]model.User)
	}
	t.users[u.UserID] = copyUser(u)
}

func (t *memTx) AppendRoundResult(rr model.RoundResult) {
	t.roundResults = append(t.roundResults, rr)
}

func (t *memTx) AppendItem(it model.Item) {
	t.items = append(t.items, it)
}

func (t *memTx) AppendTransaction(tx model.Transaction) {
	t.transactions = append(t.transactions, tx)
}

func (t *memTx) AppendBidHistory(h model.BidHistory) {
	t.bidHistory = append(t.bidHistory, h)
}

func (t *memTx) AppendChatMessage(m model.ChatMessage) {
	t.chatMessages = append(t.chatMessages, m)
}

func (t *memTx) MarkApplied(token string) {
	t.applied = append(t.applied, token)
}
