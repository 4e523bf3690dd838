package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"auction-engine/internal/hub"
	"auction-engine/internal/queue"
	"auction-engine/internal/rounds"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks are delegated to the fronting proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Snapshotter produces the full auction view sent to a subscriber on
// connect.
type Snapshotter interface {
	Snapshot(auctionID, userID string) (rounds.Snapshot, error)
}

// clientMessage is the inbound frame format on the live socket.
type clientMessage struct {
	Action string `json:"action"`
	Amount string `json:"amount"`
}

// WSHandler upgrades live-auction subscriptions and bridges inbound bid
// frames onto the queue.
type WSHandler struct {
	hub       *hub.Hub
	snapshots Snapshotter
	bids      queue.Submitter
	heartbeat time.Duration
}

func NewWSHandler(h *hub.Hub, snapshots Snapshotter, bids queue.Submitter, heartbeat time.Duration) *WSHandler {
	return &WSHandler{hub: h, snapshots: snapshots, bids: bids, heartbeat: heartbeat}
}

// Subscribe handles GET /ws?auction_id=...&user_id=...
//
// The snapshot is sent first so every later delta applies to a known
// state; viewer counts go room-wide on both join and leave.
func (h *WSHandler) Subscribe(c *gin.Context) {
	auctionID := c.Query("auction_id")
	userID := c.Query("user_id")
	if auctionID == "" {
		utils.JSONError(c, http.StatusBadRequest, errors.New("auction_id is required"), "auction_id is required")
		return
	}

	snapshot, err := h.snapshots.Snapshot(auctionID, userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("WSHandler: upgrade failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	client := hub.NewClient(conn, userID, h.heartbeat)
	h.hub.AddClient(auctionID, client)
	h.hub.Broadcast(auctionID, hub.Event{
		Type: hub.EventViewerCount,
		Data: map[string]any{"count": h.hub.ViewerCount(auctionID)},
	})
	client.Send(hub.Event{Type: hub.EventSnapshot, Data: snapshot})

	utils.Info("WSHandler: subscriber joined", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
	})

	go h.readLoop(conn, client, auctionID, userID)
}

// readLoop consumes inbound frames until the peer disconnects or misses
// its pong deadline, then tears the subscription down.
func (h *WSHandler) readLoop(conn *websocket.Conn, client *hub.Client, auctionID, userID string) {
	defer func() {
		h.hub.RemoveClient(auctionID, client)
		client.Close()
		h.hub.Broadcast(auctionID, hub.Event{
			Type: hub.EventViewerCount,
			Data: map[string]any{"count": h.hub.ViewerCount(auctionID)},
		})
		utils.Info("WSHandler: subscriber left", map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			client.Send(hub.Event{
				Type: hub.EventBidFailed,
				Data: map[string]any{"reason": "malformed message"},
			})
			continue
		}
		h.handleMessage(client, auctionID, userID, msg)
	}
}

func (h *WSHandler) handleMessage(client *hub.Client, auctionID, userID string, msg clientMessage) {
	switch msg.Action {
	case "place_bid":
		if userID == "" {
			client.Send(hub.Event{
				Type: hub.EventBidFailed,
				Data: map[string]any{"reason": "user_id is required to bid"},
			})
			return
		}
		if !helpers.IsValidAmount(msg.Amount) {
			client.Send(hub.Event{
				Type: hub.EventBidFailed,
				Data: map[string]any{"reason": "invalid amount format"},
			})
			return
		}
		jobID, err := h.bids.Submit(queue.BidJob{
			AuctionID: auctionID,
			UserID:    userID,
			Amount:    msg.Amount,
		})
		if err != nil {
			client.Send(hub.Event{
				Type: hub.EventBidFailed,
				Data: map[string]any{"reason": "bid queue unavailable"},
			})
			return
		}
		client.Send(hub.Event{
			Type: hub.EventBidQueued,
			Data: map[string]any{"job_id": jobID, "amount": msg.Amount},
		})
	default:
		client.Send(hub.Event{
			Type: hub.EventBidFailed,
			Data: map[string]any{"reason": "unknown action"},
		})
	}
}
