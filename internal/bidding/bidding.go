// Package bidding implements the bid ledger: admission of new and raised
// bids against an active auction round, balance locking, anti-snipe
// extension and outbid detection. Every PlaceBid call is one atomic unit
// of work against the store.
package bidding

import (
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/ledger"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// TopBid is one leaderboard row in a bid update payload.
type TopBid struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	User   string `json:"user"`
	Amount string `json:"amount"`
}

// Update is the result of a successfully admitted bid.
type Update struct {
	AuctionID     string    `json:"auctionId"`
	UserID        string    `json:"userId"`
	Amount        string    `json:"amount"`
	CurrentMinBid string    `json:"currentMinBid"`
	RoundEndsAt   time.Time `json:"roundEndsAt"`
	OutbidUserIDs []string  `json:"outbidUserIds,omitempty"`
	TopBids       []TopBid  `json:"topBids"`
}

// Ledger admits bids against the authoritative bid records.
type Ledger struct {
	store           repository.Store
	antiSnipeWindow time.Duration
	antiSnipeExtend time.Duration
	now             func() time.Time
}

// NewLedger creates a bid ledger with the given anti-snipe rule.
func NewLedger(store repository.Store, antiSnipeWindow, antiSnipeExtend time.Duration) *Ledger {
	return &Ledger{
		store:           store,
		antiSnipeWindow: antiSnipeWindow,
		antiSnipeExtend: antiSnipeExtend,
		now:             time.Now,
	}
}

// SetClock overrides the ledger clock. Intended for tests.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// MinRequired computes the minimum amount a new bid must reach:
// the greater of the dynamic round floor (startingPrice + minIncrement x
// (currentRound-1)) and, when the leaderboard is full, the lowest leading
// bid plus one increment.
func MinRequired(a model.Auction, top []model.Bid, cutoffSize int) money.Units {
	roundMultiplier := a.CurrentRound - 1
	if roundMultiplier < 0 {
		roundMultiplier = 0
	}
	dynamicFloor := a.StartingPrice.Add(a.MinIncrement.MulInt(int64(roundMultiplier)))

	if cutoffSize > 0 && len(top) >= cutoffSize {
		lowest := top[len(top)-1].Amount
		competitiveFloor := lowest.Add(a.MinIncrement)
		if competitiveFloor.Cmp(dynamicFloor) > 0 {
			return competitiveFloor
		}
	}
	return dynamicFloor
}

// NextRoundMinPrice forecasts the dynamic floor of the round after the
// current one, or false when the current round is the last.
func NextRoundMinPrice(a model.Auction) (money.Units, bool) {
	if a.CurrentRound >= a.RoundsCount {
		return money.Units{}, false
	}
	return a.StartingPrice.Add(a.MinIncrement.MulInt(int64(a.CurrentRound))), true
}

// PlaceBid admits a bid atomically. The token identifies the submission
// for at-least-once delivery: if a previous attempt with the same token
// already committed, PlaceBid fails with ErrAlreadyApplied and changes
// nothing.
func (l *Ledger) PlaceBid(token, auctionID, userID, amount string) (Update, error) {
	var update Update
	err := l.store.Update(func(tx repository.Tx) error {
		if token != "" && tx.Applied(token) {
			return auctionerrors.ErrAlreadyApplied
		}

		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		now := l.now()
		if auction.Status != model.AuctionActive {
			return fmt.Errorf("auction %s has status %s: %w", auctionID, auction.Status, auctionerrors.ErrAuctionNotActive)
		}
		if auction.RoundEndsAt.IsZero() || !auction.RoundEndsAt.After(now) {
			return fmt.Errorf("round %d has ended: %w", auction.CurrentRound, auctionerrors.ErrAuctionNotActive)
		}

		amountUnits, err := money.ParseAmount(amount, auction.Currency)
		if err != nil {
			return fmt.Errorf("%v: %w", err, auctionerrors.ErrInvalidAmount)
		}
		if amountUnits.Sign() <= 0 {
			return fmt.Errorf("bid amount must be positive: %w", auctionerrors.ErrInvalidAmount)
		}

		if auction.RemainingItems() == 0 {
			return fmt.Errorf("auction %s: %w", auctionID, auctionerrors.ErrSoldOut)
		}
		cutoffSize := auction.CutoffSize()

		topBids := tx.ActiveBids(auctionID, cutoffSize)
		previousTop := make([]string, 0, len(topBids))
		for _, b := range topBids {
			previousTop = append(previousTop, b.UserID)
		}
		minRequired := MinRequired(auction, topBids, cutoffSize)

		existing, hasExisting := tx.ActiveBid(auctionID, userID)
		if hasExisting {
			if err := l.raiseBid(tx, auction, existing, amountUnits, minRequired, now); err != nil {
				return err
			}
		} else {
			if err := l.openBid(tx, auction, userID, amountUnits, minRequired, now); err != nil {
				return err
			}
		}

		// Anti-snipe: any bid landing inside the window pushes the close
		// out again, with no cap on total extensions.
		if auction.RoundEndsAt.Sub(now) <= l.antiSnipeWindow {
			auction.RoundEndsAt = auction.RoundEndsAt.Add(l.antiSnipeExtend)
			tx.SaveAuction(auction)
		}

		refreshed := tx.ActiveBids(auctionID, cutoffSize)
		update = l.buildUpdate(tx, auction, amountUnits, userID, previousTop, refreshed, cutoffSize)

		if token != "" {
			tx.MarkApplied(token)
		}
		return nil
	})
	if err != nil {
		return Update{}, err
	}
	return update, nil
}

// raiseBid applies a raise to the user's existing active bid, locking only
// the incremental delta.
func (l *Ledger) raiseBid(tx repository.Tx, auction model.Auction, existing model.Bid, amountUnits, minRequired money.Units, now time.Time) error {
	if amountUnits.Cmp(existing.Amount) <= 0 {
		return fmt.Errorf("bid must exceed current bid %s: %w", existing.Amount, auctionerrors.ErrIncrementTooSmall)
	}
	delta := amountUnits.Sub(existing.Amount)
	if delta.Cmp(auction.MinIncrement) < 0 {
		return fmt.Errorf("raise of %s is below the minimum increment: %w", delta, auctionerrors.ErrIncrementTooSmall)
	}
	if amountUnits.Cmp(minRequired) < 0 {
		return fmt.Errorf("bid %s is below minimum %s: %w", amountUnits, minRequired, auctionerrors.ErrBelowMinimum)
	}

	user, err := tx.User(existing.UserID)
	if err != nil {
		return err
	}
	balance := user.Balances[auction.Currency]
	if ledger.Available(balance).Cmp(delta) < 0 {
		return fmt.Errorf("available %s, need %s: %w", ledger.Available(balance), delta, auctionerrors.ErrInsufficientBalance)
	}
	if err := ledger.ApplyDelta(&balance, money.Zero(), delta); err != nil {
		return err
	}
	user.Balances[auction.Currency] = balance
	tx.SaveUser(user)

	previousAmount := existing.Amount
	existing.Amount = amountUnits
	existing.LastBidAt = now
	tx.SaveBid(existing)

	tx.AppendBidHistory(model.BidHistory{
		HistoryID:      utils.GenerateID(),
		AuctionID:      auction.AuctionID,
		BidID:          existing.BidID,
		UserID:         existing.UserID,
		PreviousAmount: previousAmount,
		HasPrevious:    true,
		NewAmount:      amountUnits,
		CreatedAt:      now,
	})
	tx.AppendTransaction(model.Transaction{
		TransactionID: utils.GenerateID(),
		UserID:        existing.UserID,
		Type:          model.TxBidLock,
		Currency:      auction.Currency,
		Amount:        delta,
		RefID:         existing.BidID,
		CreatedAt:     now,
	})
	return nil
}

// openBid creates the user's first active bid on the auction, locking the
// full amount.
func (l *Ledger) openBid(tx repository.Tx, auction model.Auction, userID string, amountUnits, minRequired money.Units, now time.Time) error {
	if amountUnits.Cmp(minRequired) < 0 {
		return fmt.Errorf("bid %s is below minimum %s: %w", amountUnits, minRequired, auctionerrors.ErrBelowMinimum)
	}
	if amountUnits.Cmp(auction.StartingPrice) < 0 {
		return fmt.Errorf("bid %s is below starting price %s: %w", amountUnits, auction.StartingPrice, auctionerrors.ErrBelowStarting)
	}

	user, err := tx.User(userID)
	if err != nil {
		return err
	}
	balance := user.Balances[auction.Currency]
	if ledger.Available(balance).Cmp(amountUnits) < 0 {
		return fmt.Errorf("available %s, need %s: %w", ledger.Available(balance), amountUnits, auctionerrors.ErrInsufficientBalance)
	}
	if err := ledger.ApplyDelta(&balance, money.Zero(), amountUnits); err != nil {
		return err
	}
	user.Balances[auction.Currency] = balance
	tx.SaveUser(user)

	bid := model.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auction.AuctionID,
		UserID:    userID,
		Amount:    amountUnits,
		Status:    model.BidActive,
		LastBidAt: now,
	}
	tx.SaveBid(bid)

	tx.AppendBidHistory(model.BidHistory{
		HistoryID: utils.GenerateID(),
		AuctionID: auction.AuctionID,
		BidID:     bid.BidID,
		UserID:    userID,
		NewAmount: amountUnits,
		CreatedAt: now,
	})
	tx.AppendTransaction(model.Transaction{
		TransactionID: utils.GenerateID(),
		UserID:        userID,
		Type:          model.TxBidLock,
		Currency:      auction.Currency,
		Amount:        amountUnits,
		RefID:         bid.BidID,
		CreatedAt:     now,
	})
	return nil
}

// buildUpdate assembles the broadcast payload: the refreshed leaderboard,
// the new minimum to win, and the set of users pushed out of the slots.
func (l *Ledger) buildUpdate(tx repository.Tx, auction model.Auction, amountUnits money.Units, userID string, previousTop []string, refreshed []model.Bid, cutoffSize int) Update {
	inRefreshed := make(map[string]bool, len(refreshed))
	top := make([]TopBid, 0, len(refreshed))
	for i, b := range refreshed {
		inRefreshed[b.UserID] = true
		username := b.UserID
		if u, err := tx.User(b.UserID); err == nil {
			username = u.Username
		}
		top = append(top, TopBid{
			Rank:   i + 1,
			UserID: b.UserID,
			User:   username,
			Amount: money.FormatAmount(b.Amount, auction.Currency),
		})
	}

	var outbid []string
	for _, id := range previousTop {
		if !inRefreshed[id] {
			outbid = append(outbid, id)
		}
	}

	return Update{
		AuctionID:     auction.AuctionID,
		UserID:        userID,
		Amount:        money.FormatAmount(amountUnits, auction.Currency),
		CurrentMinBid: money.FormatAmount(MinRequired(auction, refreshed, cutoffSize), auction.Currency),
		RoundEndsAt:   auction.RoundEndsAt,
		OutbidUserIDs: outbid,
		TopBids:       top,
	}
}
