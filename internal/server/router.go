package server

import (
	"net/http"

	handler "auction-engine/services/auction/handler"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(
	auctionHandler *handler.AuctionHandler,
	accountHandler *handler.AccountHandler,
	chatHandler *handler.ChatHandler,
	wsHandler *WSHandler,
) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/health", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, gin.H{"status": "ok"}, "service healthy")
	})

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.PATCH("/:auction_id", auctionHandler.UpdateAuctionHandler)
		auctions.POST("/:auction_id/cancel", auctionHandler.CancelAuctionHandler)
		auctions.POST("/:auction_id/bids", auctionHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bids/history", auctionHandler.GetBidHistoryHandler)
		auctions.GET("/:auction_id/items", auctionHandler.GetItemsHandler)
		auctions.GET("/:auction_id/rounds", auctionHandler.GetRoundHistoryHandler)
		auctions.GET("/:auction_id/events", auctionHandler.GetEventsHandler)
		auctions.GET("/:auction_id/chat", chatHandler.GetChatHandler)
		auctions.POST("/:auction_id/chat", chatHandler.PostChatHandler)
	}

	bids := router.Group("/bids")
	{
		bids.GET("/queue/stats", auctionHandler.QueueStatsHandler)
	}

	users := router.Group("/users")
	{
		users.POST("", accountHandler.CreateUserHandler)
		users.POST("/:user_id/credit", accountHandler.CreditHandler)
		users.GET("/:user_id/balances", accountHandler.GetBalancesHandler)
		users.GET("/:user_id/transactions", accountHandler.GetTransactionsHandler)
	}

	router.GET("/ws", wsHandler.Subscribe)

	return router
}
