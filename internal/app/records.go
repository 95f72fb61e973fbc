package app

import (
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

type RecordTransactionRequest struct {
	CategoryID   string
	Type         domain.TransactionType
	Amount       decimal.Decimal
	RealizedGain *decimal.Decimal
	At           *time.Time // defaults to now
	Memo         string

	// ResultingValue, when set, is stored as a valuation paired with the
	// transaction: the category's balance right after it.
	ResultingValue *decimal.Decimal
}

func NewRecordTransactionRequest(categoryID string, typ domain.TransactionType, amount decimal.Decimal) RecordTransactionRequest {
	return RecordTransactionRequest{
		CategoryID: categoryID,
		Type:       typ,
		Amount:     amount,
	}
}

type RecordTransactionResult struct {
	Transaction *domain.Transaction
	Valuation   *domain.Valuation // nil without a resulting value
}

// UpdateTransactionRequest patches a transaction. Nil fields are left as
// they are.
type UpdateTransactionRequest struct {
	ID             string
	Amount         *decimal.Decimal
	RealizedGain   *decimal.Decimal
	At             *time.Time
	Memo           *string
	ResultingValue *decimal.Decimal
}

type RecordValuationRequest struct {
	CategoryID string
	Value      decimal.Decimal
	At         *time.Time // defaults to now
}

// BulkValuationEntry is one line of a bulk valuation update.
type BulkValuationEntry struct {
	CategoryID string
	Value      decimal.Decimal
}

type BulkValuationRequest struct {
	At      *time.Time // defaults to now
	Entries []BulkValuationEntry
}

type CategoryRequest struct {
	Name              string
	Color             string
	Order             int
	ParentID          *string
	Tag               string
	IsCash            bool
	IsLiability       bool
	ValuationOrder    int
	IsValuationTarget bool
}

type ImportResult struct {
	CategoryCount    int
	ValuationCount   int
	TransactionCount int
}
