// Package storage provides the append-only audit log of engine events,
// backed by SQLite in WAL mode.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"auction-engine/utils"
)

// EventRecord is one persisted audit event.
type EventRecord struct {
	ID        int64
	Type      string
	UserID    string
	AuctionID string
	Payload   []byte
	CreatedAt time.Time
}

// EventLog persists engine events. Append failures are logged and
// swallowed; auditing must never abort the operation that emitted the
// event.
type EventLog struct {
	db *sql.DB
}

// NewEventLog opens (or creates) the event database at path.
func NewEventLog(path string) (*EventLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			type TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			auction_id TEXT NOT NULL DEFAULT '',
			payload BLOB,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_events_auction ON events(auction_id, id);`); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &EventLog{db: db}, nil
}

// Append records one event. payload may be nil.
func (l *EventLog) Append(eventType, userID, auctionID string, payload any) {
	var blob []byte
	if payload != nil {
		var err error
		blob, err = json.Marshal(payload)
		if err != nil {
			utils.Warn("event payload marshal failed", map[string]any{"type": eventType, "error": err.Error()})
			blob = nil
		}
	}
	_, err := l.db.Exec(
		`INSERT INTO events (type, user_id, auction_id, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		eventType, userID, auctionID, blob, time.Now().UnixMilli(),
	)
	if err != nil {
		utils.Warn("event append failed", map[string]any{"type": eventType, "error": err.Error()})
	}
}

// Recent returns the newest n events for an auction, newest first.
func (l *EventLog) Recent(auctionID string, n int) ([]EventRecord, error) {
	rows, err := l.db.Query(
		`SELECT id, type, user_id, auction_id, payload, created_at
		 FROM events WHERE auction_id = ? ORDER BY id DESC LIMIT ?`,
		auctionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query events for auction %s: %w", auctionID, err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var rec EventRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.UserID, &rec.AuctionID, &rec.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (l *EventLog) Close() error {
	return l.db.Close()
}
