package main

import (
	"fmt"
	"os"
	"time"

	"auction-engine/internal/accounts"
	"auction-engine/internal/bidding"
	"auction-engine/internal/chat"
	"auction-engine/internal/config"
	"auction-engine/internal/hub"
	"auction-engine/internal/queue"
	"auction-engine/internal/repository"
	"auction-engine/internal/rounds"
	"auction-engine/internal/scheduler"
	"auction-engine/internal/server"
	"auction-engine/internal/storage"
	handler "auction-engine/services/auction/handler"
	"auction-engine/utils"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetLogLevel(cfg.Logging.Level)

	eventLog, err := storage.NewEventLog(cfg.Storage.EventDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open event log: %v\n", err)
		os.Exit(1)
	}
	defer eventLog.Close()

	store := repository.NewMemoryStore()
	broadcastHub := hub.NewHub()

	ledger := bidding.NewLedger(store,
		time.Duration(cfg.Auction.AntiSnipeWindowSec)*time.Second,
		time.Duration(cfg.Auction.AntiSnipeExtendSec)*time.Second,
	)
	engine := rounds.NewEngine(store, eventLog)
	accountsSvc := accounts.NewService(store, eventLog)
	chatSvc := chat.NewService(store, broadcastHub, eventLog)

	bidQueue := queue.New(ledger, broadcastHub, eventLog, queue.Options{
		Workers:     cfg.Queue.Workers,
		Capacity:    cfg.Queue.Capacity,
		RatePerSec:  cfg.Queue.RatePerSec,
		Burst:       cfg.Queue.Burst,
		MaxAttempts: cfg.Queue.MaxAttempts,
	})
	bidQueue.Start()
	defer bidQueue.Stop()

	roundScheduler := scheduler.New(engine, broadcastHub,
		time.Duration(cfg.Auction.TickIntervalMS)*time.Millisecond)
	roundScheduler.Start()
	defer roundScheduler.Stop()

	auctionHandler := handler.NewAuctionHandler(engine, bidQueue, eventLog)
	accountHandler := handler.NewAccountHandler(accountsSvc)
	chatHandler := handler.NewChatHandler(chatSvc)
	wsHandler := server.NewWSHandler(broadcastHub, engine, bidQueue,
		time.Duration(cfg.WS.HeartbeatSec)*time.Second)

	router := server.SetupRouter(auctionHandler, accountHandler, chatHandler, wsHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("Starting auction server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
