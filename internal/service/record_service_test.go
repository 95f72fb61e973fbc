package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/repository"
	"github.com/alexanderramin/holdings/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransaction_WithResultingValuePairsValuation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "ETF")

	at := jan(3)
	req := app.NewRecordTransactionRequest(c.ID, domain.TxDeposit, decimal.NewFromInt(500))
	req.At = &at
	req.ResultingValue = decPtr(1500)

	res, err := f.records.RecordTransaction(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res.Valuation)
	require.NotNil(t, res.Valuation.TransactionID)
	assert.Equal(t, res.Transaction.ID, *res.Valuation.TransactionID)
	assert.True(t, res.Valuation.RecordedAt.Equal(at))

	stored, err := f.valuations.GetByTransaction(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assertDecimal(t, 1500, stored.CurrentValue, "paired value")
}

func TestRecordTransaction_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "ETF")

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.records.RecordTransaction(ctx, app.NewRecordTransactionRequest("missing", domain.TxDeposit, decimal.NewFromInt(1)))
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := f.records.RecordTransaction(ctx, app.NewRecordTransactionRequest(c.ID, domain.TxDeposit, decimal.NewFromInt(-1)))
		assert.ErrorIs(t, err, domain.ErrNegativeAmount)
	})

	t.Run("realized gain on deposit", func(t *testing.T) {
		req := app.NewRecordTransactionRequest(c.ID, domain.TxDeposit, decimal.NewFromInt(1))
		req.RealizedGain = decPtr(5)
		_, err := f.records.RecordTransaction(ctx, req)
		assert.Error(t, err)
	})

	txs, err := f.transactions.ListByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRecordTransaction_RollbackOnValuationFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	cats := repository.NewSQLiteCategoryRepo(database)
	c := testutil.NewTestCategory("ETF")
	require.NoError(t, cats.Create(ctx, c))

	// ExecContext #1 = transactions.Create, #2 = valuations.Create
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Err:    fmt.Errorf("injected valuation create failure"),
	}
	svc := NewRecordService(failUoW)

	req := app.NewRecordTransactionRequest(c.ID, domain.TxDeposit, decimal.NewFromInt(100))
	req.ResultingValue = decPtr(100)
	_, err := svc.RecordTransaction(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected valuation create failure")

	txs, err := repository.NewSQLiteTransactionRepo(database).ListByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, txs, "no transaction should survive the rollback")
}

func TestUpdateTransaction_MovesPairedValuation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "ETF")

	at := jan(3)
	req := app.NewRecordTransactionRequest(c.ID, domain.TxDeposit, decimal.NewFromInt(500))
	req.At = &at
	req.ResultingValue = decPtr(500)
	res, err := f.records.RecordTransaction(ctx, req)
	require.NoError(t, err)

	moved := jan(7)
	memo := "corrected"
	updated, err := f.records.UpdateTransaction(ctx, app.UpdateTransactionRequest{
		ID:             res.Transaction.ID,
		Amount:         decPtr(600),
		At:             &moved,
		Memo:           &memo,
		ResultingValue: decPtr(610),
	})
	require.NoError(t, err)
	assert.Equal(t, res.Valuation.ID, updated.Valuation.ID, "paired valuation is updated in place")

	tx, err := f.transactions.GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assertDecimal(t, 600, tx.Amount, "amount")
	assert.Equal(t, "corrected", tx.Memo)
	assert.True(t, tx.TransactedAt.Equal(moved))

	v, err := f.valuations.GetByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, v.RecordedAt.Equal(moved), "paired valuation follows the transaction date")
	assertDecimal(t, 610, v.CurrentValue, "paired value")
}

func TestUpdateTransaction_AddsPairedValuation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "ETF")
	tx := f.transaction(t, c.ID, domain.TxDeposit, 100, jan(2))

	res, err := f.records.UpdateTransaction(ctx, app.UpdateTransactionRequest{ID: tx.ID, ResultingValue: decPtr(120)})
	require.NoError(t, err)
	require.NotNil(t, res.Valuation)

	v, err := f.valuations.GetByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assertDecimal(t, 120, v.CurrentValue, "new paired value")
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.records.UpdateTransaction(context.Background(), app.UpdateTransactionRequest{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// Deleting a paired transaction must leave no stale valuation behind in the
// category's event list.
func TestDeleteTransaction_RemovesPairedValuation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "ETF")

	at := jan(3)
	req := app.NewRecordTransactionRequest(c.ID, domain.TxDeposit, decimal.NewFromInt(500))
	req.At = &at
	req.ResultingValue = decPtr(500)
	res, err := f.records.RecordTransaction(ctx, req)
	require.NoError(t, err)

	before, err := f.portfolio.CategoryDetail(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, before.Events, 1, "same-day pair shows as one row")

	require.NoError(t, f.records.DeleteTransaction(ctx, res.Transaction.ID))

	_, err = f.valuations.GetByID(ctx, res.Valuation.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	after, err := f.portfolio.CategoryDetail(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Events)
	assertDecimal(t, 0, after.CurrentValue, "value after delete")
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	f := newFixture(t)
	err := f.records.DeleteTransaction(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecordValuation_DefaultsToNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.category(t, "House")

	v, err := f.records.RecordValuation(ctx, app.RecordValuationRequest{CategoryID: c.ID, Value: decimal.NewFromInt(250000)})
	require.NoError(t, err)
	assert.False(t, v.RecordedAt.IsZero())
	assert.Nil(t, v.TransactionID)

	require.NoError(t, f.records.DeleteValuation(ctx, v.ID))
	assert.ErrorIs(t, f.records.DeleteValuation(ctx, v.ID), repository.ErrNotFound)
}

func TestBulkRecordValuations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.category(t, "A")
	b := f.category(t, "B")

	t.Run("empty", func(t *testing.T) {
		_, err := f.records.BulkRecordValuations(ctx, app.BulkValuationRequest{})
		assert.True(t, errors.Is(err, ErrNoEntries))
	})

	t.Run("shares one timestamp", func(t *testing.T) {
		at := jan(10)
		out, err := f.records.BulkRecordValuations(ctx, app.BulkValuationRequest{
			At: &at,
			Entries: []app.BulkValuationEntry{
				{CategoryID: a.ID, Value: decimal.NewFromInt(10)},
				{CategoryID: b.ID, Value: decimal.NewFromInt(20)},
			},
		})
		require.NoError(t, err)
		require.Len(t, out, 2)
		for _, v := range out {
			assert.True(t, v.RecordedAt.Equal(at))
		}
	})

	t.Run("unknown category writes nothing", func(t *testing.T) {
		_, err := f.records.BulkRecordValuations(ctx, app.BulkValuationRequest{
			Entries: []app.BulkValuationEntry{
				{CategoryID: a.ID, Value: decimal.NewFromInt(11)},
				{CategoryID: "missing", Value: decimal.NewFromInt(1)},
			},
		})
		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.Contains(t, err.Error(), "entry 1")

		vals, err := f.valuations.ListByCategory(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, vals, 1, "only the earlier bulk write remains")
	})
}
