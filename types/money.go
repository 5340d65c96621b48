// Package types provides common value types shared across the marketplace.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Money is an amount in the smallest unit of its currency.
// Arithmetic is integer-only.
//
// Examples:
//   - ETH(1_500_000_000) = 1.5 ETH (amounts are held in gwei)
//   - USD(4900) = $49.00
type Money struct {
	Amount   int64  `json:"amount"`   // gwei, cents, ...
	Currency string `json:"currency"` // lowercase code: "eth", "usd"
}

// Supported currency codes.
const (
	CurrencyETH = "eth"
	CurrencyUSD = "usd"
)

// New creates a Money value with a normalized currency code.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToLower(currency)}
}

// ETH creates an ether amount expressed in gwei.
func ETH(gwei int64) Money { return Money{Amount: gwei, Currency: CurrencyETH} }

// USD creates a US dollar amount expressed in cents.
func USD(cents int64) Money { return Money{Amount: cents, Currency: CurrencyUSD} }

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money { return New(0, currency) }

// Add returns m + other. Panics on a currency mismatch.
func (m Money) Add(other Money) Money {
	m.mustMatch(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Subtract returns m - other. Panics on a currency mismatch.
func (m Money) Subtract(other Money) Money {
	m.mustMatch(other)
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}
}

// Negate flips the sign.
func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// SameCurrency reports whether both values use the same currency code.
func (m Money) SameCurrency(other Money) bool { return m.Currency == other.Currency }

// Equal reports whether amount and currency both match. It never panics,
// which makes it the comparison to use for caller-supplied payments.
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// FormatMajor renders the amount in major units without a symbol,
// e.g. "1.500000000" for ETH(1_500_000_000) and "49.00" for USD(4900).
func (m Money) FormatMajor() string {
	decimals := Decimals(m.Currency)
	if decimals == 0 {
		return fmt.Sprintf("%d", m.Amount)
	}

	abs := m.Amount
	sign := ""
	if abs < 0 {
		abs = -abs
		sign = "-"
	}

	divisor := int64(1)
	for range decimals {
		divisor *= 10
	}

	return fmt.Sprintf("%s%d.%0*d", sign, abs/divisor, decimals, abs%divisor)
}

// String renders the amount with its currency, e.g. "1.500000000 ETH" or "$49.00".
func (m Money) String() string {
	if m.Currency == CurrencyUSD {
		return "$" + m.FormatMajor()
	}
	return m.FormatMajor() + " " + strings.ToUpper(m.Currency)
}

// MarshalJSON adds a display field next to the raw amount.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

func (m Money) mustMatch(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

// Decimals returns the number of minor-unit digits of a currency.
// ETH amounts are tracked in gwei.
func Decimals(currency string) int {
	switch strings.ToLower(currency) {
	case CurrencyETH:
		return 9
	case "jpy", "krw":
		return 0
	default:
		return 2
	}
}

// Sum adds values of one currency. An empty input yields zero in fallback.
func Sum(fallback string, values ...Money) Money {
	total := Zero(fallback)
	if len(values) == 0 {
		return total
	}
	total = Zero(values[0].Currency)
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
