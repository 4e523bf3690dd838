package rounds

import (
	"sort"
	"time"

	"auction-engine/internal/bidding"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/internal/repository"
)

// Summary is one row of the auction listing.
type Summary struct {
	AuctionID     string              `json:"auctionId"`
	Title         string              `json:"title"`
	Currency      money.Currency      `json:"currency"`
	Status        model.AuctionStatus `json:"status"`
	StartTime     time.Time           `json:"startTime"`
	CurrentRound  int                 `json:"currentRound"`
	TotalRounds   int                 `json:"totalRounds"`
	ItemsPerRound int                 `json:"itemsPerRound"`
	TotalItems    int                 `json:"totalItems"`
	ItemsSold     int                 `json:"itemsSold"`
}

// UserBidView is the requesting user's own standing in a snapshot.
type UserBidView struct {
	Amount string          `json:"amount"`
	Rank   *int            `json:"rank"`
	Status model.BidStatus `json:"status"`
}

// Snapshot is the full client-facing state of one auction, sent on
// subscribe and after lifecycle transitions.
type Snapshot struct {
	AuctionID           string              `json:"auctionId"`
	Title               string              `json:"title"`
	Description         string              `json:"description,omitempty"`
	Currency            money.Currency      `json:"currency"`
	Status              model.AuctionStatus `json:"status"`
	StartTime           time.Time           `json:"startTime"`
	CurrentRound        int                 `json:"currentRound"`
	TotalRounds         int                 `json:"totalRounds"`
	RoundEndsAt         *time.Time          `json:"roundEndsAt,omitempty"`
	ItemsPerRound       int                 `json:"itemsPerRound"`
	ItemsInCurrentRound int                 `json:"itemsInCurrentRound"`
	TotalItems          int                 `json:"totalItems"`
	ItemsSold           int                 `json:"itemsSold"`
	CurrentMinBid       *string             `json:"currentMinBid"`
	NextRoundMinBid     *string             `json:"nextRoundMinBid"`
	MinIncrement        string              `json:"minIncrement"`
	ReservePrice        *string             `json:"reservePrice"`
	UserBid             *UserBidView        `json:"userBid,omitempty"`
	TopBids             []bidding.TopBid    `json:"topBids"`
}

// ListAuctions returns all auctions, most recently starting first.
func (e *Engine) ListAuctions() ([]Summary, error) {
	var out []Summary
	err := e.store.View(func(tx repository.ReadTx) error {
		for _, a := range tx.Auctions() {
			out = append(out, Summary{
				AuctionID:     a.AuctionID,
				Title:         a.Title,
				Currency:      a.Currency,
				Status:        a.Status,
				StartTime:     a.StartTime,
				CurrentRound:  a.CurrentRound,
				TotalRounds:   a.RoundsCount,
				ItemsPerRound: a.ItemsPerRound,
				TotalItems:    a.TotalItems,
				ItemsSold:     a.ItemsSold,
			})
		}
		return nil
	})
	return out, err
}

// sortWonBids orders winning bids by round, then amount descending, then
// recency ascending, matching the leaderboard tie-break within a round.
func sortWonBids(bids []model.Bid) {
	sort.Slice(bids, func(i, j int) bool {
		if bids[i].WonRound != bids[j].WonRound {
			return bids[i].WonRound < bids[j].WonRound
		}
		if c := bids[i].Amount.Cmp(bids[j].Amount); c != 0 {
			return c > 0
		}
		return bids[i].LastBidAt.Before(bids[j].LastBidAt)
	})
}

// Snapshot builds the full state of an auction. userID may be empty; when
// set, the user's own bid and rank are included.
func (e *Engine) Snapshot(auctionID, userID string) (Snapshot, error) {
	var snap Snapshot
	err := e.store.View(func(tx repository.ReadTx) error {
		auction, err := tx.Auction(auctionID)
		if err != nil {
			return err
		}

		completed := auction.Status == model.AuctionCompleted

		// Completed auctions show the slot capacity of a full round; live
		// ones cut the leaderboard to the remaining inventory.
		limit := auction.CutoffSize()
		if limit == 0 {
			limit = auction.ItemsPerRound
		}

		var topBids []model.Bid
		if completed {
			topBids = tx.BidsByStatus(auctionID, model.BidWon)
			sortWonBids(topBids)
		} else {
			topBids = tx.ActiveBids(auctionID, limit)
		}

		snap = Snapshot{
			AuctionID:           auction.AuctionID,
			Title:               auction.Title,
			Description:         auction.Description,
			Currency:            auction.Currency,
			Status:              auction.Status,
			StartTime:           auction.StartTime,
			CurrentRound:        auction.CurrentRound,
			TotalRounds:         auction.RoundsCount,
			ItemsPerRound:       auction.ItemsPerRound,
			ItemsInCurrentRound: limit,
			TotalItems:          auction.TotalItems,
			ItemsSold:           auction.ItemsSold,
			MinIncrement:        money.FormatAmount(auction.MinIncrement, auction.Currency),
		}
		if !auction.RoundEndsAt.IsZero() {
			ends := auction.RoundEndsAt
			snap.RoundEndsAt = &ends
		}
		if auction.HasReserve {
			reserve := money.FormatAmount(auction.ReservePrice, auction.Currency)
			snap.ReservePrice = &reserve
		}

		if !completed {
			minBid := money.FormatAmount(bidding.MinRequired(auction, topBids, limit), auction.Currency)
			snap.CurrentMinBid = &minBid
			if next, ok := bidding.NextRoundMinPrice(auction); ok {
				nextBid := money.FormatAmount(next, auction.Currency)
				snap.NextRoundMinBid = &nextBid
			}
		}

		for i, b := range topBids {
			username := b.UserID
			if u, err := tx.User(b.UserID); err == nil {
				username = u.Username
			}
			snap.TopBids = append(snap.TopBids, bidding.TopBid{
				Rank:   i + 1,
				UserID: b.UserID,
				User:   username,
				Amount: money.FormatAmount(b.Amount, auction.Currency),
			})
		}

		if userID != "" {
			snap.UserBid = userBidView(tx, auction, userID, topBids, completed)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func userBidView(tx repository.ReadTx, auction model.Auction, userID string, topBids []model.Bid, completed bool) *UserBidView {
	if completed {
		for _, status := range []model.BidStatus{model.BidWon, model.BidLost} {
			for _, b := range tx.BidsByStatus(auction.AuctionID, status) {
				if b.UserID != userID {
					continue
				}
				view := &UserBidView{
					Amount: money.FormatAmount(b.Amount, auction.Currency),
					Status: b.Status,
				}
				if b.Status == model.BidWon {
					for i, top := range topBids {
						if top.BidID == b.BidID {
							rank := i + 1
							view.Rank = &rank
							break
						}
					}
				}
				return view
			}
		}
		return nil
	}

	bid, ok := tx.ActiveBid(auction.AuctionID, userID)
	if !ok {
		return nil
	}
	// Rank among all active bids: one plus the number of strictly better
	// bids (higher amount, or same amount placed earlier).
	higher := 0
	for _, other := range tx.ActiveBids(auction.AuctionID, -1) {
		if other.BidID == bid.BidID {
			continue
		}
		if c := other.Amount.Cmp(bid.Amount); c > 0 || (c == 0 && other.LastBidAt.Before(bid.LastBidAt)) {
			higher++
		}
	}
	rank := higher + 1
	return &UserBidView{
		Amount: money.FormatAmount(bid.Amount, auction.Currency),
		Rank:   &rank,
		Status: bid.Status,
	}
}
