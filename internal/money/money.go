package money

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Currency identifies one of the supported settlement currencies. Amounts
// are always handled as an integer count of the currency's smallest unit.
type Currency string

const (
	TON  Currency = "TON"
	USDT Currency = "USDT"
)

var currencyDecimals = map[Currency]int32{
	TON:  9,
	USDT: 6,
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	_, ok := currencyDecimals[c]
	return ok
}

// Decimals returns the number of fractional digits used at the boundary.
func (c Currency) Decimals() int32 {
	return currencyDecimals[c]
}

// Units is an arbitrary-precision count of smallest currency units.
// The zero value is zero units. Units values are immutable: every
// operation returns a fresh value, so copies are always safe to share.
type Units struct {
	val *big.Int
}

func wrap(v *big.Int) Units { return Units{val: v} }

func (u Units) big() *big.Int {
	if u.val == nil {
		return new(big.Int)
	}
	return u.val
}

// Zero returns zero units.
func Zero() Units { return Units{} }

// FromInt64 converts a raw unit count to Units.
func FromInt64(n int64) Units { return wrap(big.NewInt(n)) }

// Add returns u + v.
func (u Units) Add(v Units) Units { return wrap(new(big.Int).Add(u.big(), v.big())) }

// Sub returns u - v.
func (u Units) Sub(v Units) Units { return wrap(new(big.Int).Sub(u.big(), v.big())) }

// Neg returns -u.
func (u Units) Neg() Units { return wrap(new(big.Int).Neg(u.big())) }

// MulInt returns u * n.
func (u Units) MulInt(n int64) Units {
	return wrap(new(big.Int).Mul(u.big(), big.NewInt(n)))
}

// Cmp compares u and v, returning -1, 0 or 1.
func (u Units) Cmp(v Units) int { return u.big().Cmp(v.big()) }

// Sign returns -1, 0 or 1 depending on the sign of u.
func (u Units) Sign() int { return u.big().Sign() }

// IsZero reports whether u is exactly zero.
func (u Units) IsZero() bool { return u.big().Sign() == 0 }

// String returns the raw unit count in decimal notation.
func (u Units) String() string { return u.big().String() }

// ParseUnits parses a raw unit count previously produced by String.
func ParseUnits(s string) (Units, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Units{}, fmt.Errorf("invalid unit count %q", s)
	}
	return wrap(v), nil
}

// MustUnits is a test/bootstrap helper for known-good unit strings.
func MustUnits(s string) Units {
	u, err := ParseUnits(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ParseAmount converts a non-negative decimal amount string (e.g. "1.25")
// into smallest units of the given currency. Excess fractional digits are
// rejected rather than rounded.
func ParseAmount(amount string, c Currency) (Units, error) {
	if !c.Valid() {
		return Units{}, fmt.Errorf("unknown currency %q", c)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Units{}, fmt.Errorf("invalid amount format %q: %w", amount, err)
	}
	if d.IsNegative() {
		return Units{}, fmt.Errorf("amount %q cannot be negative", amount)
	}
	scaled := d.Shift(c.Decimals())
	if !scaled.IsInteger() {
		return Units{}, fmt.Errorf("amount %q has too many decimal places for %s", amount, c)
	}
	return wrap(scaled.BigInt()), nil
}

// FormatAmount renders units as a decimal amount string with trailing
// zeros trimmed, the inverse of ParseAmount.
func FormatAmount(u Units, c Currency) string {
	return decimal.NewFromBigInt(u.big(), -c.Decimals()).String()
}
