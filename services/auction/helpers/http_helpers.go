package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/queue"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// amountPattern is the synchronous gate on bid amounts: anything else is
// rejected before it can reach the queue.
var amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// IsValidAmount reports whether s looks like a non-negative decimal
// amount. Precision against the currency is checked later by the ledger.
func IsValidAmount(s string) bool {
	return amountPattern.MatchString(s)
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound),
		errors.Is(err, auctionerrors.ErrUserNotFound),
		errors.Is(err, auctionerrors.ErrBidNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, auctionerrors.ErrInvalidAmount),
		errors.Is(err, auctionerrors.ErrInvalidAuction),
		errors.Is(err, auctionerrors.ErrInvalidCurrency),
		errors.Is(err, auctionerrors.ErrInvalidMessage):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, auctionerrors.ErrAuctionNotActive),
		errors.Is(err, auctionerrors.ErrSoldOut),
		errors.Is(err, auctionerrors.ErrBelowMinimum),
		errors.Is(err, auctionerrors.ErrIncrementTooSmall),
		errors.Is(err, auctionerrors.ErrBelowStarting),
		errors.Is(err, auctionerrors.ErrInsufficientBalance),
		errors.Is(err, auctionerrors.ErrNotCancellable),
		errors.Is(err, auctionerrors.ErrNotEditable):
		return http.StatusConflict, "operation rejected"
	case errors.Is(err, queue.ErrQueueFull),
		errors.Is(err, queue.ErrQueueClosed):
		return http.StatusServiceUnavailable, "bid queue unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
