package utils

import (
	"github.com/google/uuid"
)

// GenerateID mints the identifiers used across the engine: auctions,
// bids, users, items, transactions, and bid-queue job ids (which double
// as idempotency tokens).
func GenerateID() string {
	return uuid.New().String()
}
