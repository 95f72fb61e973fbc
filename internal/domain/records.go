package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrMissingCategory        = errors.New("category id is required")
)

// Valuation is an authoritative snapshot of what a category was worth at a
// point in time.
type Valuation struct {
	ID           string
	CategoryID   string
	CurrentValue decimal.Decimal
	RecordedAt   time.Time

	// TransactionID is set when the valuation was recorded together with a
	// transaction as its resulting balance.
	TransactionID *string

	CreatedAt time.Time
}

// Day returns the calendar day the valuation applies to.
func (v *Valuation) Day() time.Time { return DayOf(v.RecordedAt) }

func (v *Valuation) Validate() error {
	if v.CategoryID == "" {
		return ErrMissingCategory
	}
	return nil
}

// Transaction is a cash flow into or out of a category. Amount is always
// stored non-negative; Type carries the sign.
type Transaction struct {
	ID           string
	CategoryID   string
	Type         TransactionType
	Amount       decimal.Decimal
	RealizedGain *decimal.Decimal // WITHDRAW only
	TransactedAt time.Time
	Memo         string

	CreatedAt time.Time
}

// Day returns the calendar day the transaction applies to.
func (t *Transaction) Day() time.Time { return DayOf(t.TransactedAt) }

// SignedAmount is +Amount for deposits, -Amount for withdrawals and zero
// for valuation markers.
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch t.Type {
	case TxDeposit:
		return t.Amount
	case TxWithdraw:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

func (t *Transaction) Validate() error {
	if t.CategoryID == "" {
		return ErrMissingCategory
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction: %w", ErrNegativeAmount)
	}
	if t.RealizedGain != nil && t.Type != TxWithdraw {
		return fmt.Errorf("realized gain is only meaningful on %s transactions", TxWithdraw)
	}
	return nil
}

// CostBasisAsOf sums the signed amounts of every transaction on or before
// day. Transactions need not be sorted.
func CostBasisAsOf(txs []Transaction, day time.Time) decimal.Decimal {
	day = DayOf(day)
	total := decimal.Zero
	for i := range txs {
		if txs[i].Day().After(day) {
			continue
		}
		total = total.Add(txs[i].SignedAmount())
	}
	return total
}

// CostBasis sums the signed amounts of every transaction.
func CostBasis(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		total = total.Add(txs[i].SignedAmount())
	}
	return total
}
