package contract

import (
	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

type RecordTransactionRequest = app.RecordTransactionRequest

func NewRecordTransactionRequest(categoryID string, typ domain.TransactionType, amount decimal.Decimal) RecordTransactionRequest {
	return app.NewRecordTransactionRequest(categoryID, typ, amount)
}

type RecordTransactionResult = app.RecordTransactionResult

type UpdateTransactionRequest = app.UpdateTransactionRequest

type RecordValuationRequest = app.RecordValuationRequest

type BulkValuationEntry = app.BulkValuationEntry

type BulkValuationRequest = app.BulkValuationRequest

type CategoryRequest = app.CategoryRequest

type ImportResult = app.ImportResult
