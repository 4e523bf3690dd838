// Package chat implements the per-auction chat room: a persisted message
// feed fanned out live through the broadcast hub.
package chat

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/hub"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// maxMessageLen bounds one chat message after sanitization.
const maxMessageLen = 500

// historyLimit is how many messages a room listing returns.
const historyLimit = 100

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Broadcaster fans a posted message out to the room's live subscribers.
type Broadcaster interface {
	Broadcast(auctionID string, ev hub.Event)
}

// EventSink receives audit events. A nil sink disables auditing.
type EventSink interface {
	Append(eventType, userID, auctionID string, payload any)
}

// MessageView is one chat message in API form.
type MessageView struct {
	MessageID string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service persists and fans out auction chat messages.
type Service struct {
	store  repository.Store
	hub    Broadcaster
	events EventSink
}

// NewService creates a chat service over the given store.
func NewService(store repository.Store, broadcaster Broadcaster, events EventSink) *Service {
	return &Service{store: store, hub: broadcaster, events: events}
}

// sanitize strips markup and surrounding whitespace. Messages are stored
// and broadcast in sanitized form only.
func sanitize(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// Messages returns the newest messages of an auction's room, newest
// first.
func (s *Service) Messages(auctionID string) ([]MessageView, error) {
	var out []MessageView
	err := s.store.View(func(tx repository.ReadTx) error {
		if _, err := tx.Auction(auctionID); err != nil {
			return err
		}
		for _, m := range tx.ChatMessages(auctionID, historyLimit) {
			out = append(out, MessageView{
				MessageID: m.MessageID,
				UserID:    m.UserID,
				Message:   m.Message,
				CreatedAt: m.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Post stores a message and broadcasts it to the room.
func (s *Service) Post(auctionID, userID, message string) (MessageView, error) {
	msg := sanitize(message)
	if msg == "" {
		return MessageView{}, fmt.Errorf("message is empty: %w", auctionerrors.ErrInvalidMessage)
	}
	if len(msg) > maxMessageLen {
		return MessageView{}, fmt.Errorf("message exceeds %d characters: %w", maxMessageLen, auctionerrors.ErrInvalidMessage)
	}

	record := model.ChatMessage{
		MessageID: utils.GenerateID(),
		AuctionID: auctionID,
		UserID:    userID,
		Message:   msg,
		CreatedAt: time.Now().UTC(),
	}
	err := s.store.Update(func(tx repository.Tx) error {
		if _, err := tx.Auction(auctionID); err != nil {
			return err
		}
		if _, err := tx.User(userID); err != nil {
			return err
		}
		tx.AppendChatMessage(record)
		return nil
	})
	if err != nil {
		return MessageView{}, err
	}

	view := MessageView{
		MessageID: record.MessageID,
		UserID:    record.UserID,
		Message:   record.Message,
		CreatedAt: record.CreatedAt,
	}
	if s.events != nil {
		s.events.Append(hub.EventChatMessage, userID, auctionID, map[string]any{
			"message": record.Message,
		})
	}
	s.hub.Broadcast(auctionID, hub.Event{Type: hub.EventChatMessage, Data: view})
	return view, nil
}
