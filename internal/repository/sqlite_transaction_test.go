package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionTestSetup(t *testing.T) (*SQLiteTransactionRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	c := testutil.NewTestCategory("Brokerage")
	require.NoError(t, NewSQLiteCategoryRepo(db).Create(context.Background(), c))
	return NewSQLiteTransactionRepo(db), c.ID
}

func TestTransactionRepo_CreateAndGetByID(t *testing.T) {
	repo, catID := transactionTestSetup(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	tx := testutil.NewTestTransaction(catID, domain.TxWithdraw, 1500, at,
		testutil.WithRealizedGain(200), testutil.WithMemo("rebalance"))
	tx.Amount = decimal.RequireFromString("1500.01")
	require.NoError(t, repo.Create(ctx, tx))

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxWithdraw, got.Type)
	assert.Equal(t, "1500.01", got.Amount.String())
	require.NotNil(t, got.RealizedGain)
	assert.Equal(t, "200", got.RealizedGain.String())
	assert.Equal(t, "rebalance", got.Memo)
	assert.True(t, at.Equal(got.TransactedAt))
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := transactionTestSetup(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionRepo_ListByCategoryIsChronological(t *testing.T) {
	repo, catID := transactionTestSetup(t)
	ctx := context.Background()

	later := testutil.NewTestTransaction(catID, domain.TxDeposit, 10, testutil.Day(2024, 2, 1))
	earlier := testutil.NewTestTransaction(catID, domain.TxDeposit, 20, testutil.Day(2024, 1, 1))
	require.NoError(t, repo.Create(ctx, later))
	require.NoError(t, repo.Create(ctx, earlier))

	list, err := repo.ListByCategory(ctx, catID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, earlier.ID, list[0].ID)
	assert.Nil(t, list[0].RealizedGain)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := repo.ListByCategory(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTransactionRepo_UpdateAndDelete(t *testing.T) {
	repo, catID := transactionTestSetup(t)
	ctx := context.Background()

	tx := testutil.NewTestTransaction(catID, domain.TxDeposit, 100, testutil.Day(2024, 1, 1))
	require.NoError(t, repo.Create(ctx, tx))

	tx.Amount = decimal.NewFromInt(200)
	tx.Memo = "corrected"
	require.NoError(t, repo.Update(ctx, tx))

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "200", got.Amount.String())
	assert.Equal(t, "corrected", got.Memo)

	require.NoError(t, repo.Delete(ctx, tx.ID))
	assert.ErrorIs(t, repo.Delete(ctx, tx.ID), ErrNotFound)
}

func TestTransactionRepo_RejectsUnknownCategory(t *testing.T) {
	repo, _ := transactionTestSetup(t)

	tx := testutil.NewTestTransaction("missing", domain.TxDeposit, 1, testutil.Day(2024, 1, 1))
	assert.Error(t, repo.Create(context.Background(), tx))
}
