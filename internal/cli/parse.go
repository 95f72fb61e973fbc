package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

// parseAmount parses a non-negative decimal amount. Grouping commas are
// ignored.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", s)
	}
	return d, nil
}

// parseOptionalAmount returns nil for an empty string.
func parseOptionalAmount(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseWhen accepts a calendar day or an RFC 3339 timestamp. Empty means
// now, returned as nil.
func parseWhen(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := domain.ParseDay(s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC 3339)", s)
	}
	t = t.UTC()
	return &t, nil
}

// parseValue parses a balance. Balances may be negative, e.g. an overdrawn
// account.
func parseValue(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseSignedOptional parses an optional decimal that may be negative.
func parseSignedOptional(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseValue(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
