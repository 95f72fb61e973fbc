package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordRepos struct {
	categories   *SQLiteCategoryRepo
	transactions *SQLiteTransactionRepo
	valuations   *SQLiteValuationRepo
}

func recordTestSetup(t *testing.T) (recordRepos, *domain.Category) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repos := recordRepos{
		categories:   NewSQLiteCategoryRepo(db),
		transactions: NewSQLiteTransactionRepo(db),
		valuations:   NewSQLiteValuationRepo(db),
	}
	c := testutil.NewTestCategory("Savings")
	require.NoError(t, repos.categories.Create(context.Background(), c))
	return repos, c
}

func TestValuationRepo_CreateAndGet(t *testing.T) {
	repos, c := recordTestSetup(t)
	ctx := context.Background()

	v := testutil.NewTestValuation(c.ID, 0, testutil.Day(2024, 1, 2))
	v.CurrentValue = decimal.RequireFromString("1234.56")
	require.NoError(t, repos.valuations.Create(ctx, v))

	got, err := repos.valuations.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234.56", got.CurrentValue.String())
	assert.Nil(t, got.TransactionID)
	assert.True(t, testutil.Day(2024, 1, 2).Equal(got.RecordedAt))

	_, err = repos.valuations.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValuationRepo_PairedWithTransaction(t *testing.T) {
	repos, c := recordTestSetup(t)
	ctx := context.Background()

	tx := testutil.NewTestTransaction(c.ID, domain.TxDeposit, 100, testutil.Day(2024, 1, 3))
	require.NoError(t, repos.transactions.Create(ctx, tx))
	v := testutil.NewTestValuation(c.ID, 1100, tx.TransactedAt, testutil.WithTransaction(tx.ID))
	require.NoError(t, repos.valuations.Create(ctx, v))

	got, err := repos.valuations.GetByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	n, err := repos.valuations.DeleteByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repos.valuations.GetByTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = repos.valuations.DeleteByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestValuationRepo_ListAndUpdate(t *testing.T) {
	repos, c := recordTestSetup(t)
	ctx := context.Background()

	second := testutil.NewTestValuation(c.ID, 200, testutil.Day(2024, 1, 9))
	first := testutil.NewTestValuation(c.ID, 100, testutil.Day(2024, 1, 1))
	require.NoError(t, repos.valuations.Create(ctx, second))
	require.NoError(t, repos.valuations.Create(ctx, first))

	list, err := repos.valuations.ListByCategory(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	first.CurrentValue = decimal.NewFromInt(150)
	require.NoError(t, repos.valuations.Update(ctx, first))
	got, err := repos.valuations.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "150", got.CurrentValue.String())

	require.NoError(t, repos.valuations.Delete(ctx, second.ID))
	all, err := repos.valuations.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// TestCascadeDelete_TransactionToPairedValuation verifies transactions ->
// valuations cascade through transaction_id.
func TestCascadeDelete_TransactionToPairedValuation(t *testing.T) {
	repos, c := recordTestSetup(t)
	ctx := context.Background()

	tx := testutil.NewTestTransaction(c.ID, domain.TxDeposit, 100, testutil.Day(2024, 1, 3))
	require.NoError(t, repos.transactions.Create(ctx, tx))
	v := testutil.NewTestValuation(c.ID, 100, tx.TransactedAt, testutil.WithTransaction(tx.ID))
	require.NoError(t, repos.valuations.Create(ctx, v))

	require.NoError(t, repos.transactions.Delete(ctx, tx.ID))

	_, err := repos.valuations.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestCascadeDelete_CategoryToRecords verifies categories -> records cascade
// and that children survive as roots.
func TestCascadeDelete_CategoryToRecords(t *testing.T) {
	repos, c := recordTestSetup(t)
	ctx := context.Background()

	child := testutil.NewTestCategory("Sub", testutil.WithParent(c.ID))
	require.NoError(t, repos.categories.Create(ctx, child))
	tx := testutil.NewTestTransaction(c.ID, domain.TxDeposit, 5, testutil.Day(2024, 1, 1))
	require.NoError(t, repos.transactions.Create(ctx, tx))
	v := testutil.NewTestValuation(c.ID, 5, testutil.Day(2024, 1, 1))
	require.NoError(t, repos.valuations.Create(ctx, v))

	require.NoError(t, repos.categories.Delete(ctx, c.ID))

	_, err := repos.transactions.GetByID(ctx, tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repos.valuations.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	orphan, err := repos.categories.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)
}
