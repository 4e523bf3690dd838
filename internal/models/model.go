package models

import (
	"time"

	"auction-engine/internal/money"
)

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	AuctionScheduled AuctionStatus = "scheduled"
	AuctionActive    AuctionStatus = "active"
	AuctionCompleted AuctionStatus = "completed"
	AuctionCancelled AuctionStatus = "cancelled"
)

// BidStatus is the lifecycle state of a bid.
type BidStatus string

const (
	BidActive    BidStatus = "active"
	BidWon       BidStatus = "won"
	BidLost      BidStatus = "lost"
	BidRefunded  BidStatus = "refunded"
	BidCancelled BidStatus = "cancelled"
)

// TransactionType classifies balance movements.
type TransactionType string

const (
	TxDeposit   TransactionType = "deposit"
	TxBidLock   TransactionType = "bid_lock"
	TxBidRefund TransactionType = "bid_refund"
	TxPayout    TransactionType = "payout"
)

// Balance holds per-currency funds in smallest units.
// Invariant: 0 <= Locked <= Total.
type Balance struct {
	Total  money.Units
	Locked money.Units
}

// User represents a participant with per-currency balances.
type User struct {
	UserID   string
	Username string
	Balances map[money.Currency]Balance
}

// Auction represents a multi-round auction.
// RoundEndsAt is the zero time unless Status is active.
type Auction struct {
	AuctionID          string
	Title              string
	Description        string
	Currency           money.Currency
	Status             AuctionStatus
	TotalItems         int
	ItemsSold          int
	RoundsCount        int
	ItemsPerRound      int
	CurrentRound       int
	StartTime          time.Time
	FirstRoundDuration time.Duration
	RoundDuration      time.Duration
	RoundEndsAt        time.Time
	StartingPrice      money.Units
	MinIncrement       money.Units
	ReservePrice       money.Units
	HasReserve         bool
	CreatedBy          string
	CreatedAt          time.Time
}

// RemainingItems returns the unsold inventory, never negative.
func (a Auction) RemainingItems() int {
	if r := a.TotalItems - a.ItemsSold; r > 0 {
		return r
	}
	return 0
}

// CutoffSize returns the number of slots contested in the current round.
func (a Auction) CutoffSize() int {
	if a.ItemsPerRound < a.RemainingItems() {
		return a.ItemsPerRound
	}
	return a.RemainingItems()
}

// Bid is an authoritative bid record. At most one active bid exists per
// (auction, user); Amount only grows while the bid stays active.
type Bid struct {
	BidID     string
	AuctionID string
	UserID    string
	Amount    money.Units
	Status    BidStatus
	LastBidAt time.Time
	WonRound  int
}

// RoundWinner is one awarded slot inside a RoundResult.
type RoundWinner struct {
	UserID string
	BidID  string
	Amount money.Units
}

// RoundResult is the immutable record of one finalized round.
type RoundResult struct {
	AuctionID        string
	RoundNumber      int
	Winners          []RoundWinner
	LowestWinningBid money.Units
	HasLowestWinning bool
	ClosedAt         time.Time
}

// Item is one awarded unit of inventory. Serial numbers run sequentially
// across the whole auction.
type Item struct {
	ItemID       string
	AuctionID    string
	WinnerUserID string
	BidID        string
	RoundNumber  int
	SerialNumber int
	PricePaid    money.Units
}

// Transaction is an audit record of a balance movement.
type Transaction struct {
	TransactionID string
	UserID        string
	Type          TransactionType
	Currency      money.Currency
	Amount        money.Units
	RefID         string
	CreatedAt     time.Time
}

// ChatMessage is one message in an auction's chat room.
type ChatMessage struct {
	MessageID string
	AuctionID string
	UserID    string
	Message   string
	CreatedAt time.Time
}

// BidHistory records one bid creation or raise.
type BidHistory struct {
	HistoryID      string
	AuctionID      string
	BidID          string
	UserID         string
	PreviousAmount money.Units
	HasPrevious    bool
	NewAmount      money.Units
	CreatedAt      time.Time
}
