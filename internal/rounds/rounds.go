// Package rounds implements the auction round state machine: scheduled
// auctions start, active rounds finalize into winners and items, and the
// auction completes or rolls inventory into the next round. All
// transitions run as atomic units of work.
package rounds

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

// EventSink receives audit events. A nil sink disables auditing.
type EventSink interface {
	Append(eventType, userID, auctionID string, payload any)
}

// Engine drives auction lifecycle transitions.
type Engine struct {
	store  repository.Store
	events EventSink
}

// NewEngine creates a round state machine over the given store.
func NewEngine(store repository.Store, events EventSink) *Engine {
	return &Engine{store: store, events: events}
}

func (e *Engine) logEvent(eventType, userID, auctionID string, payload any) {
	if e.events != nil {
		e.events.Append(eventType, userID, auctionID, payload)
	}
}

// CreateParams are the inputs for a new auction. Amounts are decimal
// strings in the auction currency.
type CreateParams struct {
	Title              string
	Description        string
	Currency           money.Currency
	TotalItems         int // 0 means roundsCount * itemsPerRound
	RoundsCount        int
	ItemsPerRound      int
	StartTime          time.Time
	FirstRoundDuration time.Duration
	RoundDuration      time.Duration
	MinIncrement       string
	StartingPrice      string
	ReservePrice       string // empty means no reserve
	CreatedBy          string
}

const maxTotalItems = 10000

// CreateAuction validates and persists a scheduled auction.
func (e *Engine) CreateAuction(p CreateParams) (model.Auction, error) {
	if !p.Currency.Valid() {
		return model.Auction{}, fmt.Errorf("currency %q: %w", p.Currency, auctionerrors.ErrInvalidCurrency)
	}
	if p.Title == "" {
		return model.Auction{}, fmt.Errorf("title is required: %w", auctionerrors.ErrInvalidAuction)
	}
	if p.RoundsCount <= 0 || p.ItemsPerRound <= 0 {
		return model.Auction{}, fmt.Errorf("roundsCount and itemsPerRound must be positive: %w", auctionerrors.ErrInvalidAuction)
	}
	if p.RoundsCount > 1000 || p.ItemsPerRound > 1000 {
		return model.Auction{}, fmt.Errorf("too many rounds or items per round: %w", auctionerrors.ErrInvalidAuction)
	}
	if p.FirstRoundDuration <= 0 || p.RoundDuration <= 0 {
		return model.Auction{}, fmt.Errorf("round durations must be positive: %w", auctionerrors.ErrInvalidAuction)
	}

	totalItems := p.TotalItems
	if totalItems == 0 {
		totalItems = p.RoundsCount * p.ItemsPerRound
	}
	if totalItems <= 0 || totalItems > maxTotalItems {
		return model.Auction{}, fmt.Errorf("totalItems must be between 1 and %d: %w", maxTotalItems, auctionerrors.ErrInvalidAuction)
	}
	if totalItems > p.RoundsCount*p.ItemsPerRound {
		return model.Auction{}, fmt.Errorf("totalItems exceeds total round capacity: %w", auctionerrors.ErrInvalidAuction)
	}

	minIncrement, err := money.ParseAmount(p.MinIncrement, p.Currency)
	if err != nil || minIncrement.Sign() <= 0 {
		return model.Auction{}, fmt.Errorf("minIncrement must be positive: %w", auctionerrors.ErrInvalidAuction)
	}
	startingPrice, err := money.ParseAmount(p.StartingPrice, p.Currency)
	if err != nil || startingPrice.Sign() <= 0 {
		return model.Auction{}, fmt.Errorf("startingPrice must be positive: %w", auctionerrors.ErrInvalidAuction)
	}
	var reservePrice money.Units
	hasReserve := false
	if p.ReservePrice != "" {
		reservePrice, err = money.ParseAmount(p.ReservePrice, p.Currency)
		if err != nil {
			return model.Auction{}, fmt.Errorf("invalid reservePrice: %w", auctionerrors.ErrInvalidAuction)
		}
		if reservePrice.Cmp(startingPrice) < 0 {
			return model.Auction{}, fmt.Errorf("reservePrice cannot be below startingPrice: %w", auctionerrors.ErrInvalidAuction)
		}
		hasReserve = true
	}

	auction := model.Auction{
		AuctionID:          utils.GenerateID(),
		Title:              p.Title,
		Description:        p.Description,
		Currency:           p.Currency,
		Status:             model.AuctionScheduled,
		TotalItems:         totalItems,
		RoundsCount:        p.RoundsCount,
		ItemsPerRound:      p.ItemsPerRound,
		CurrentRound:       0,
		StartTime:          p.StartTime,
		FirstRoundDuration: p.FirstRoundDuration,
		RoundDuration:      p.RoundDuration,
		StartingPrice:      startingPrice,
		MinIncrement:       minIncrement,
		ReservePrice:       reservePrice,
		HasReserve:         hasReserve,
		CreatedBy:          p.CreatedBy,
		CreatedAt:          time.Now().UTC(),
	}

	err = e.store.Update(func(tx repository.Tx) error {
		tx.SaveAuction(auction)
		return nil
	})
	if err != nil {
		return model.Auction{}, err
	}
	e.logEvent("auction.created", p.CreatedBy, auction.AuctionID, nil)
	return auction, nil
}

// UpdateParams are optional field updates for a scheduled auction.
type UpdateParams struct {
	Title              *string
	Description        *string
	TotalItems         *int
	RoundsCount        *int
	ItemsPerRound      *int
	StartTime          *time.Time
	FirstRoundDuration *time.Duration
	RoundDuration      *time.Duration
	MinIncrement       *string
	StartingPrice      *string
	ReservePrice       *string // empty string clears the reserve
}

// UpdateAuction edits an auction that has not started yet.
func (e *Engine) UpdateAuction(auctionID string, p UpdateParams) (model.Auction, error) {
	var updated model.Auction
	err := e.store.Update(func(tx repository.Tx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		if auction.Status != model.AuctionScheduled || auction.CurrentRound > 0 {
			return fmt.Errorf("auction %s: %w", auctionID, auctionerrors.ErrNotEditable)
		}

		if p.Title != nil {
			auction.Title = *p.Title
		}
		if p.Description != nil {
			auction.Description = *p.Description
		}
		if p.StartTime != nil {
			auction.StartTime = *p.StartTime
		}
		if p.FirstRoundDuration != nil {
			auction.FirstRoundDuration = *p.FirstRoundDuration
		}
		if p.RoundDuration != nil {
			auction.RoundDuration = *p.RoundDuration
		}

		roundsCount := auction.RoundsCount
		if p.RoundsCount != nil {
			roundsCount = *p.RoundsCount
		}
		itemsPerRound := auction.ItemsPerRound
		if p.ItemsPerRound != nil {
			itemsPerRound = *p.ItemsPerRound
		}
		if roundsCount <= 0 || itemsPerRound <= 0 {
			return fmt.Errorf("roundsCount and itemsPerRound must be positive: %w", auctionerrors.ErrInvalidAuction)
		}
		auction.RoundsCount = roundsCount
		auction.ItemsPerRound = itemsPerRound

		totalItems := auction.TotalItems
		if p.TotalItems != nil {
			totalItems = *p.TotalItems
		}
		if totalItems <= 0 {
			return fmt.Errorf("totalItems must be positive: %w", auctionerrors.ErrInvalidAuction)
		}
		if totalItems > roundsCount*itemsPerRound {
			return fmt.Errorf("totalItems exceeds total round capacity: %w", auctionerrors.ErrInvalidAuction)
		}
		auction.TotalItems = totalItems

		if p.MinIncrement != nil {
			minIncrement, err := money.ParseAmount(*p.MinIncrement, auction.Currency)
			if err != nil || minIncrement.Sign() <= 0 {
				return fmt.Errorf("minIncrement must be positive: %w", auctionerrors.ErrInvalidAuction)
			}
			auction.MinIncrement = minIncrement
		}
		if p.StartingPrice != nil {
			startingPrice, err := money.ParseAmount(*p.StartingPrice, auction.Currency)
			if err != nil || startingPrice.Sign() <= 0 {
				return fmt.Errorf("startingPrice must be positive: %w", auctionerrors.ErrInvalidAuction)
			}
			auction.StartingPrice = startingPrice
		}
		if p.ReservePrice != nil {
			if *p.ReservePrice == "" {
				auction.ReservePrice = money.Units{}
				auction.HasReserve = false
			} else {
				reservePrice, err := money.ParseAmount(*p.ReservePrice, auction.Currency)
				if err != nil {
					return fmt.Errorf("invalid reservePrice: %w", auctionerrors.ErrInvalidAuction)
				}
				if reservePrice.Cmp(auction.StartingPrice) < 0 {
					return fmt.Errorf("reservePrice cannot be below startingPrice: %w", auctionerrors.ErrInvalidAuction)
				}
				auction.ReservePrice = reservePrice
				auction.HasReserve = true
			}
		}

		tx.SaveAuction(auction)
		updated = auction
		return nil
	})
	if err != nil {
		return model.Auction{}, err
	}
	e.logEvent("auction.updated", "", auctionID, nil)
	return updated, nil
}

// StartDueAuctions activates every scheduled auction whose start time has
// passed and opens round 1. It is an idempotent no-op when nothing is due.
func (e *Engine) StartDueAuctions(now time.Time) ([]string, error) {
	var started []string
	err := e.store.Update(func(tx repository.Tx) error {
		for _, auction := range tx.DueScheduled(now) {
			auction.Status = model.AuctionActive
			auction.CurrentRound = 1
			auction.RoundEndsAt = now.Add(auction.FirstRoundDuration)
			tx.SaveAuction(auction)
			started = append(started, auction.AuctionID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range started {
		e.logEvent("auction.started", "", id, nil)
	}
	return started, nil
}

// ClosedRound identifies one finalized round.
type ClosedRound struct {
	AuctionID   string
	RoundNumber int
}

// FinalizeDueRounds finalizes every active auction whose round deadline
// has passed. Failures are logged per auction and do not stop the pass;
// the next tick re-evaluates naturally.
func (e *Engine) FinalizeDueRounds(now time.Time) ([]ClosedRound, error) {
	var due []string
	err := e.store.View(func(tx repository.ReadTx) error {
		for _, auction := range tx.DueActive(now) {
			due = append(due, auction.AuctionID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var closed []ClosedRound
	for _, auctionID := range due {
		roundNumber, err := e.FinalizeRound(auctionID, now)
		if err != nil {
			utils.Error("finalize round failed", map[string]any{
				"auction_id": auctionID,
				"error":      err.Error(),
			})
			continue
		}
		if roundNumber > 0 {
			closed = append(closed, ClosedRound{AuctionID: auctionID, RoundNumber: roundNumber})
		}
	}
	return closed, nil
}

// FinalizeRound settles the current round of one auction: the leaderboard
// is cut to the remaining inventory, reserve-unmet bids are dropped without
// backfill, winners are charged from locked funds and receive serially
// numbered items, and the auction either advances a round or completes.
// Returns 0 when the auction is not due.
func (e *Engine) FinalizeRound(auctionID string, now time.Time) (int, error) {
	closedRound := 0
	err := e.store.Update(func(tx repository.Tx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		if auction.Status != model.AuctionActive {
			return nil
		}
		if auction.RoundEndsAt.IsZero() || auction.RoundEndsAt.After(now) {
			return nil
		}

		limit := auction.CutoffSize()
		var topBids []model.Bid
		if limit > 0 {
			topBids = tx.ActiveBids(auctionID, limit)
		}

		eligible := topBids
		if auction.HasReserve {
			eligible = nil
			for _, b := range topBids {
				if b.Amount.Cmp(auction.ReservePrice) >= 0 {
					eligible = append(eligible, b)
				}
			}
		}

		winners := make([]model.RoundWinner, 0, len(eligible))
		serialNumber := auction.ItemsSold + 1
		for _, bid := range eligible {
			user, err := tx.User(bid.UserID)
			if err != nil {
				return err
			}
			balance := user.Balances[auction.Currency]
			// Winner pays from locked funds: both total and locked drop.
			if err := ledger.ApplyDelta(&balance, bid.Amount.Neg(), bid.Amount.Neg()); err != nil {
				return err
			}
			user.Balances[auction.Currency] = balance
			tx.SaveUser(user)

			bid.Status = model.BidWon
			bid.WonRound = auction.CurrentRound
			tx.SaveBid(bid)

			tx.AppendTransaction(model.Transaction{
				TransactionID: utils.GenerateID(),
				UserID:        bid.UserID,
				Type:          model.TxPayout,
				Currency:      auction.Currency,
				Amount:        bid.Amount,
				RefID:         bid.BidID,
				CreatedAt:     now,
			})
			tx.AppendItem(model.Item{
				ItemID:       utils.GenerateID(),
				AuctionID:    auction.AuctionID,
				WinnerUserID: bid.UserID,
				BidID:        bid.BidID,
				RoundNumber:  auction.CurrentRound,
				SerialNumber: serialNumber,
				PricePaid:    bid.Amount,
			})
			winners = append(winners, model.RoundWinner{
				UserID: bid.UserID,
				BidID:  bid.BidID,
				Amount: bid.Amount,
			})
			serialNumber++
		}

		result := model.RoundResult{
			AuctionID:   auction.AuctionID,
			RoundNumber: auction.CurrentRound,
			Winners:     winners,
			ClosedAt:    now,
		}
		if len(winners) > 0 {
			// Leaderboard is sorted descending, so the last winner paid least.
			result.LowestWinningBid = winners[len(winners)-1].Amount
			result.HasLowestWinning = true
		}
		tx.AppendRoundResult(result)

		closedRound = auction.CurrentRound
		auction.ItemsSold += len(winners)

		auctionDone := auction.CurrentRound >= auction.RoundsCount ||
			auction.ItemsSold >= auction.TotalItems
		if auctionDone {
			if err := e.releaseActiveBids(tx, auction, model.BidLost, now); err != nil {
				return err
			}
			auction.Status = model.AuctionCompleted
			auction.RoundEndsAt = time.Time{}
		} else {
			auction.CurrentRound++
			auction.RoundEndsAt = now.Add(auction.RoundDuration)
		}

		tx.SaveAuction(auction)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if closedRound > 0 {
		e.logEvent("round.closed", "", auctionID, map[string]any{"roundNumber": closedRound})
	}
	return closedRound, nil
}

// releaseActiveBids unlocks every remaining active bid (refund, no charge)
// and moves them to the given terminal status.
func (e *Engine) releaseActiveBids(tx repository.Tx, auction model.Auction, status model.BidStatus, now time.Time) error {
	for _, bid := range tx.BidsByStatus(auction.AuctionID, model.BidActive) {
		user, err := tx.User(bid.UserID)
		if err != nil {
			return err
		}
		balance := user.Balances[auction.Currency]
		if err := ledger.ApplyDelta(&balance, money.Zero(), bid.Amount.Neg()); err != nil {
			return err
		}
		user.Balances[auction.Currency] = balance
		tx.SaveUser(user)

		bid.Status = status
		tx.SaveBid(bid)

		tx.AppendTransaction(model.Transaction{
			TransactionID: utils.GenerateID(),
			UserID:        bid.UserID,
			Type:          model.TxBidRefund,
			Currency:      auction.Currency,
			Amount:        bid.Amount,
			RefID:         bid.BidID,
			CreatedAt:     now,
		})
	}
	return nil
}

// Cancel aborts an auction that has not finished, refunding every active
// bid in full.
func (e *Engine) Cancel(auctionID string) error {
	now := time.Now().UTC()
	err := e.store.Update(func(tx repository.Tx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		if auction.Status == model.AuctionCompleted || auction.Status == model.AuctionCancelled {
			return fmt.Errorf("auction %s has status %s: %w", auctionID, auction.Status, auctionerrors.ErrNotCancellable)
		}
		if err := e.releaseActiveBids(tx, auction, model.BidRefunded, now); err != nil {
			return err
		}
		auction.Status = model.AuctionCancelled
		auction.RoundEndsAt = time.Time{}
		tx.SaveAuction(auction)
		return nil
	})
	if err != nil {
		return err
	}
	e.logEvent("auction.cancelled", "", auctionID, nil)
	return nil
}

// RoundResultView returns the formatted outcome of a finalized round for
// broadcasting.
func (e *Engine) RoundResultView(auctionID string, roundNumber int) (RoundResultView, error) {
	var view RoundResultView
	err := e.store.View(func(tx repository.ReadTx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		result, ok := tx.RoundResult(auctionID, roundNumber)
		if !ok {
			return fmt.Errorf("round %d of auction %s has no result: %w", roundNumber, auctionID, auctionerrors.ErrAuctionNotFound)
		}
		view.RoundNumber = result.RoundNumber
		for _, w := range result.Winners {
			view.Winners = append(view.Winners, WinnerView{
				UserID: w.UserID,
				BidID:  w.BidID,
				Amount: money.FormatAmount(w.Amount, auction.Currency),
			})
		}
		if result.HasLowestWinning {
			lowest := money.FormatAmount(result.LowestWinningBid, auction.Currency)
			view.LowestWinningBid = &lowest
		}
		return nil
	})
	return view, err
}

// WinnerView is one formatted winner entry.
type WinnerView struct {
	UserID string `json:"userId"`
	BidID  string `json:"bidId"`
	Amount string `json:"amount"`
}

// RoundResultView is the broadcast form of a RoundResult.
type RoundResultView struct {
	RoundNumber      int          `json:"roundNumber"`
	Winners          []WinnerView `json:"winners"`
	LowestWinningBid *string      `json:"lowestWinningBid"`
}
