package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/internal/queue"
	"auction-engine/internal/rounds"
	"auction-engine/internal/storage"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	CreateAuction(p rounds.CreateParams) (model.Auction, error)
	UpdateAuction(auctionID string, p rounds.UpdateParams) (model.Auction, error)
	ListAuctions() ([]rounds.Summary, error)
	Snapshot(auctionID, userID string) (rounds.Snapshot, error)
	Cancel(auctionID string) error
	Items(auctionID string) ([]rounds.ItemView, error)
	RoundHistory(auctionID string) ([]rounds.RoundResultView, error)
	BidHistory(auctionID, userID string) ([]rounds.BidHistoryEntry, error)
}

type BidSubmitterInterface interface {
	Submit(job queue.BidJob) (string, error)
	Stats() queue.Stats
}

// AuditLogInterface reads back the persisted event trail of an auction.
type AuditLogInterface interface {
	Recent(auctionID string, n int) ([]storage.EventRecord, error)
}

type AuctionHandler struct {
	auctions AuctionServiceInterface
	bids     BidSubmitterInterface
	audit    AuditLogInterface
}

func NewAuctionHandler(auctions AuctionServiceInterface, bids BidSubmitterInterface, audit AuditLogInterface) *AuctionHandler {
	return &AuctionHandler{auctions: auctions, bids: bids, audit: audit}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", fmt.Errorf("invalid start_time: %w", err))
		return
	}

	auction, err := h.auctions.CreateAuction(rounds.CreateParams{
		Title:              req.Title,
		Description:        req.Description,
		Currency:           money.Currency(req.Currency),
		TotalItems:         req.TotalItems,
		RoundsCount:        req.RoundsCount,
		ItemsPerRound:      req.ItemsPerRound,
		StartTime:          startTime,
		FirstRoundDuration: time.Duration(req.FirstRoundDurationSec) * time.Second,
		RoundDuration:      time.Duration(req.RoundDurationSec) * time.Second,
		MinIncrement:       req.MinIncrement,
		StartingPrice:      req.StartingPrice,
		ReservePrice:       req.ReservePrice,
		CreatedBy:          c.GetHeader("X-User-ID"),
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("CreateAuctionHandler: failed to create auction", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.AuctionCreatedResponse{
		AuctionID: auction.AuctionID,
		Status:    string(auction.Status),
	}, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created", map[string]any{
		"auction_id": auction.AuctionID,
		"title":      auction.Title,
	})
}

// UpdateAuctionHandler handles PATCH /auctions/:auction_id
func (h *AuctionHandler) UpdateAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateAuctionHandler", err)
		return
	}

	params := rounds.UpdateParams{
		Title:         req.Title,
		Description:   req.Description,
		TotalItems:    req.TotalItems,
		RoundsCount:   req.RoundsCount,
		ItemsPerRound: req.ItemsPerRound,
		MinIncrement:  req.MinIncrement,
		StartingPrice: req.StartingPrice,
		ReservePrice:  req.ReservePrice,
	}
	if req.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			helpers.HandleBindError(c, "UpdateAuctionHandler", fmt.Errorf("invalid start_time: %w", err))
			return
		}
		params.StartTime = &startTime
	}
	if req.FirstRoundDurationSec != nil {
		d := time.Duration(*req.FirstRoundDurationSec) * time.Second
		params.FirstRoundDuration = &d
	}
	if req.RoundDurationSec != nil {
		d := time.Duration(*req.RoundDurationSec) * time.Second
		params.RoundDuration = &d
	}

	auction, err := h.auctions.UpdateAuction(auctionID, params)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("UpdateAuctionHandler: failed to update auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.AuctionCreatedResponse{
		AuctionID: auction.AuctionID,
		Status:    string(auction.Status),
	}, "auction updated successfully")
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.auctions.ListAuctions()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	if auctions == nil {
		auctions = []rounds.Summary{}
	}
	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	snapshot, err := h.auctions.Snapshot(auctionID, c.Query("user_id"))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("GetAuctionHandler: snapshot failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}
	utils.JSONResponse(c, http.StatusOK, snapshot, "auction retrieved successfully")
}

// CancelAuctionHandler handles POST /auctions/:auction_id/cancel
func (h *AuctionHandler) CancelAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	if err := h.auctions.Cancel(auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("CancelAuctionHandler: cancel failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}
	utils.JSONResponse(c, http.StatusOK, nil, "auction cancelled successfully")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled", map[string]any{
		"auction_id": auctionID,
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids.
// The response acknowledges admission only; the ledger outcome arrives
// over the broadcast hub.
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}
	if !helpers.IsValidAmount(req.Amount) {
		helpers.HandleBindError(c, "PlaceBidHandler", fmt.Errorf("invalid amount format %q", req.Amount))
		return
	}

	jobID, err := h.bids.Submit(queue.BidJob{
		AuctionID: auctionID,
		UserID:    req.UserID,
		Amount:    req.Amount,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Error("PlaceBidHandler: failed to enqueue bid", map[string]any{
			"auction_id": auctionID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusAccepted, helpers.PlaceBidResponse{
		JobID:  jobID,
		Status: "queued",
	}, "bid queued successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid queued", map[string]any{
		"job_id":     jobID,
		"auction_id": auctionID,
		"user_id":    req.UserID,
		"amount":     req.Amount,
	})
}

// GetItemsHandler handles GET /auctions/:auction_id/items
func (h *AuctionHandler) GetItemsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	items, err := h.auctions.Items(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	if items == nil {
		items = []rounds.ItemView{}
	}
	utils.JSONResponse(c, http.StatusOK, items, "items retrieved successfully")
}

// GetRoundHistoryHandler handles GET /auctions/:auction_id/rounds
func (h *AuctionHandler) GetRoundHistoryHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	results, err := h.auctions.RoundHistory(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	if results == nil {
		results = []rounds.RoundResultView{}
	}
	utils.JSONResponse(c, http.StatusOK, results, "round history retrieved successfully")
}

// GetBidHistoryHandler handles GET /auctions/:auction_id/bids/history.
// An optional user_id query narrows the feed to one bidder.
func (h *AuctionHandler) GetBidHistoryHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	entries, err := h.auctions.BidHistory(auctionID, c.Query("user_id"))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	if entries == nil {
		entries = []rounds.BidHistoryEntry{}
	}
	utils.JSONResponse(c, http.StatusOK, entries, "bid history retrieved successfully")
}

// auditEventView is one audit-log record in API form.
type auditEventView struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	UserID    string          `json:"userId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GetEventsHandler handles GET /auctions/:auction_id/events
func (h *AuctionHandler) GetEventsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			helpers.HandleBindError(c, "GetEventsHandler", fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	records, err := h.audit.Recent(auctionID, limit)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("GetEventsHandler: audit read failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	views := make([]auditEventView, 0, len(records))
	for _, rec := range records {
		views = append(views, auditEventView{
			ID:        rec.ID,
			Type:      rec.Type,
			UserID:    rec.UserID,
			Payload:   rec.Payload,
			CreatedAt: rec.CreatedAt,
		})
	}
	utils.JSONResponse(c, http.StatusOK, views, "events retrieved successfully")
}

// QueueStatsHandler handles GET /bids/queue/stats
func (h *AuctionHandler) QueueStatsHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.bids.Stats(), "queue stats retrieved successfully")
}
