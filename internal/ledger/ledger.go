// Package ledger implements the funds ledger: pure arithmetic over
// per-currency total/locked balances with hard monetary invariants.
package ledger

import (
	"fmt"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
	"auction-engine/internal/money"
)

// Available returns the spendable part of a balance: total - locked.
func Available(b models.Balance) money.Units {
	return b.Total.Sub(b.Locked)
}

// ApplyDelta mutates the balance in place by deltaTotal/deltaLocked.
// It fails with ErrInvariantViolation if the result would have a negative
// total, a negative locked amount, or locked exceeding total; the balance
// is left untouched on failure.
func ApplyDelta(b *models.Balance, deltaTotal, deltaLocked money.Units) error {
	total := b.Total.Add(deltaTotal)
	locked := b.Locked.Add(deltaLocked)
	if total.Sign() < 0 {
		return fmt.Errorf("total would become %s: %w", total, auctionerrors.ErrInvariantViolation)
	}
	if locked.Sign() < 0 {
		return fmt.Errorf("locked would become %s: %w", locked, auctionerrors.ErrInvariantViolation)
	}
	if locked.Cmp(total) > 0 {
		return fmt.Errorf("locked %s would exceed total %s: %w", locked, total, auctionerrors.ErrInvariantViolation)
	}
	b.Total = total
	b.Locked = locked
	return nil
}
