package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"auction-engine/internal/accounts"
	"auction-engine/internal/bidding"
	"auction-engine/internal/chat"
	"auction-engine/internal/hub"
	"auction-engine/internal/queue"
	"auction-engine/internal/repository"
	"auction-engine/internal/rounds"
	"auction-engine/internal/server"
	"auction-engine/internal/storage"
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// TestApp bundles the full wiring against an in-memory store so tests
// can drive both the HTTP surface and the round engine directly.
type TestApp struct {
	Router *gin.Engine
	Store  *repository.MemoryStore
	Engine *rounds.Engine
	Hub    *hub.Hub
	Queue  *queue.Queue
	Events *storage.EventLog
}

// SetupTestApp initializes the application with in-memory components for
// integration testing.
func SetupTestApp(t *testing.T) *TestApp {
	gin.SetMode(gin.TestMode)

	eventLog, err := storage.NewEventLog(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("failed to open event log: %v", err)
	}
	t.Cleanup(func() { eventLog.Close() })

	store := repository.NewMemoryStore()
	broadcastHub := hub.NewHub()
	ledger := bidding.NewLedger(store, 30*time.Second, 30*time.Second)
	engine := rounds.NewEngine(store, eventLog)
	accountsSvc := accounts.NewService(store, eventLog)
	chatSvc := chat.NewService(store, broadcastHub, eventLog)

	bidQueue := queue.New(ledger, broadcastHub, eventLog, queue.Options{
		Workers:     2,
		Capacity:    64,
		RatePerSec:  10000,
		Burst:       64,
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
		BackoffMax:  10 * time.Millisecond,
	})
	bidQueue.Start()
	t.Cleanup(bidQueue.Stop)

	auctionHandler := handler.NewAuctionHandler(engine, bidQueue, eventLog)
	accountHandler := handler.NewAccountHandler(accountsSvc)
	chatHandler := handler.NewChatHandler(chatSvc)
	wsHandler := server.NewWSHandler(broadcastHub, engine, bidQueue, 30*time.Second)

	return &TestApp{
		Router: server.SetupRouter(auctionHandler, accountHandler, chatHandler, wsHandler),
		Store:  store,
		Engine: engine,
		Hub:    broadcastHub,
		Queue:  bidQueue,
		Events: eventLog,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the app router and
// parses the JSON envelope.
func ExecuteRequestAndParse(t *testing.T, app *TestApp, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	app.Router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// data extracts the data object from a response envelope.
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return d
}
