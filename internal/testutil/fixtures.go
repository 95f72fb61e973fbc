package testutil

import (
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Category options
type CategoryOption func(*domain.Category)

func WithParent(id string) CategoryOption {
	return func(c *domain.Category) {
		c.ParentID = &id
	}
}

func WithOrder(o int) CategoryOption {
	return func(c *domain.Category) {
		c.Order = o
	}
}

func WithTag(tag string) CategoryOption {
	return func(c *domain.Category) {
		c.Tag = tag
	}
}

func AsCash() CategoryOption {
	return func(c *domain.Category) {
		c.IsCash = true
	}
}

func AsLiability() CategoryOption {
	return func(c *domain.Category) {
		c.IsLiability = true
	}
}

func WithColor(color string) CategoryOption {
	return func(c *domain.Category) {
		c.Color = color
	}
}

func AsValuationTarget(order int) CategoryOption {
	return func(c *domain.Category) {
		c.IsValuationTarget = true
		c.ValuationOrder = order
	}
}

func NewTestCategory(name string, opts ...CategoryOption) *domain.Category {
	now := time.Now().UTC().Truncate(time.Second)
	c := &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transaction options
type TransactionOption func(*domain.Transaction)

func WithRealizedGain(gain int64) TransactionOption {
	return func(t *domain.Transaction) {
		g := decimal.NewFromInt(gain)
		t.RealizedGain = &g
	}
}

func WithMemo(memo string) TransactionOption {
	return func(t *domain.Transaction) {
		t.Memo = memo
	}
}

func NewTestTransaction(categoryID string, typ domain.TransactionType, amount int64, at time.Time, opts ...TransactionOption) *domain.Transaction {
	t := &domain.Transaction{
		ID:           uuid.New().String(),
		CategoryID:   categoryID,
		Type:         typ,
		Amount:       decimal.NewFromInt(amount),
		TransactedAt: at.UTC(),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Valuation options
type ValuationOption func(*domain.Valuation)

func WithTransaction(txID string) ValuationOption {
	return func(v *domain.Valuation) {
		v.TransactionID = &txID
	}
}

func NewTestValuation(categoryID string, value int64, at time.Time, opts ...ValuationOption) *domain.Valuation {
	v := &domain.Valuation{
		ID:           uuid.New().String(),
		CategoryID:   categoryID,
		CurrentValue: decimal.NewFromInt(value),
		RecordedAt:   at.UTC(),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}
