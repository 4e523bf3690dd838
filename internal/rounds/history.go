package rounds

import (
	"sort"
	"time"

	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/internal/repository"
)

// bidHistoryLimit caps how many history entries one query returns.
const bidHistoryLimit = 200

// ItemView is one awarded item in API form.
type ItemView struct {
	ItemID       string `json:"id"`
	WinnerUserID string `json:"winnerUserId"`
	BidID        string `json:"bidId"`
	RoundNumber  int    `json:"roundNumber"`
	SerialNumber int    `json:"serialNumber"`
	PricePaid    string `json:"pricePaid"`
}

// BidHistoryEntry is one recorded bid creation or raise in API form.
// PreviousAmount is nil for the opening bid.
type BidHistoryEntry struct {
	HistoryID      string    `json:"id"`
	UserID         string    `json:"userId"`
	BidID          string    `json:"bidId"`
	PreviousAmount *string   `json:"previousAmount"`
	NewAmount      string    `json:"newAmount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Items returns an auction's awarded items ordered by serial number.
func (e *Engine) Items(auctionID string) ([]ItemView, error) {
	var out []ItemView
	err := e.store.View(func(tx repository.ReadTx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		items := tx.Items(auctionID)
		sort.Slice(items, func(i, j int) bool {
			return items[i].SerialNumber < items[j].SerialNumber
		})
		for _, it := range items {
			out = append(out, ItemView{
				ItemID:       it.ItemID,
				WinnerUserID: it.WinnerUserID,
				BidID:        it.BidID,
				RoundNumber:  it.RoundNumber,
				SerialNumber: it.SerialNumber,
				PricePaid:    money.FormatAmount(it.PricePaid, auction.Currency),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RoundHistory returns every finalized round of an auction in round order.
func (e *Engine) RoundHistory(auctionID string) ([]RoundResultView, error) {
	var out []RoundResultView
	err := e.store.View(func(tx repository.ReadTx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		results := tx.RoundResults(auctionID)
		sort.Slice(results, func(i, j int) bool {
			return results[i].RoundNumber < results[j].RoundNumber
		})
		for _, result := range results {
			view := RoundResultView{RoundNumber: result.RoundNumber}
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
			out = append(out, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BidHistory returns an auction's recorded bid mutations newest first,
// optionally filtered to one user.
func (e *Engine) BidHistory(auctionID, userID string) ([]BidHistoryEntry, error) {
	var out []BidHistoryEntry
	err := e.store.View(func(tx repository.ReadTx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}
		for _, h := range tx.BidHistory(auctionID) {
			if userID != "" && h.UserID != userID {
				continue
			}
			out = append(out, formatHistoryEntry(h, auction.Currency))
			if len(out) == bidHistoryLimit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func formatHistoryEntry(h model.BidHistory, currency money.Currency) BidHistoryEntry {
	entry := BidHistoryEntry{
		HistoryID: h.HistoryID,
		UserID:    h.UserID,
		BidID:     h.BidID,
		NewAmount: money.FormatAmount(h.NewAmount, currency),
		CreatedAt: h.CreatedAt,
	}
	if h.HasPrevious {
		previous := money.FormatAmount(h.PreviousAmount, currency)
		entry.PreviousAmount = &previous
	}
	return entry
}
