package handler

import (
	"net/http"

	"auction-engine/internal/chat"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

type ChatServiceInterface interface {
	Messages(auctionID string) ([]chat.MessageView, error)
	Post(auctionID, userID, message string) (chat.MessageView, error)
}

type ChatHandler struct {
	service ChatServiceInterface
}

func NewChatHandler(service ChatServiceInterface) *ChatHandler {
	return &ChatHandler{service: service}
}

// GetChatHandler handles GET /auctions/:auction_id/chat
func (h *ChatHandler) GetChatHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	messages, err := h.service.Messages(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	if messages == nil {
		messages = []chat.MessageView{}
	}
	utils.JSONResponse(c, http.StatusOK, messages, "chat retrieved successfully")
}

// PostChatHandler handles POST /auctions/:auction_id/chat. The stored
// message is echoed back; live subscribers get it as a chat.message
// event.
func (h *ChatHandler) PostChatHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.PostChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PostChatHandler", err)
		return
	}

	view, err := h.service.Post(auctionID, req.UserID, req.Message)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("PostChatHandler: post failed", map[string]any{
			"auction_id": auctionID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, view, "message posted successfully")
	helpers.LogSuccess("PostChatHandler", "message posted", map[string]any{
		"auction_id": auctionID,
		"user_id":    req.UserID,
		"message_id": view.MessageID,
	})
}
