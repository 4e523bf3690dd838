package auctionerrors

import "errors"

// Lookup errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBidNotFound     = errors.New("bid not found")
)

// Validation errors: rejected synchronously, never enqueued.
var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidAuction  = errors.New("invalid auction parameters")
	ErrInvalidCurrency = errors.New("unknown currency")
	ErrInvalidMessage  = errors.New("invalid chat message")
)

// Domain errors: fail one bid only, reported to its submitter.
var (
	ErrAuctionNotActive    = errors.New("auction is not active")
	ErrSoldOut             = errors.New("auction is sold out")
	ErrBelowMinimum        = errors.New("bid is below current minimum to win")
	ErrIncrementTooSmall   = errors.New("bid increment is too small")
	ErrBelowStarting       = errors.New("bid is below starting price")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotCancellable      = errors.New("auction cannot be cancelled")
	ErrNotEditable         = errors.New("only scheduled auctions can be updated")
)

// ErrInvariantViolation marks a broken monetary invariant. It is a bug,
// never a user error: the enclosing transaction must roll back wholesale.
var ErrInvariantViolation = errors.New("balance invariant violation")

// ErrTxConflict is transient store contention. The admission queue retries
// it with backoff; nothing else should.
var ErrTxConflict = errors.New("transaction conflict")

// ErrAlreadyApplied means this submission token committed on an earlier
// attempt. Callers treat it as success without re-broadcasting.
var ErrAlreadyApplied = errors.New("submission already applied")
