package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/repository"
	"github.com/alexanderramin/holdings/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires every service against one in-memory database.
type fixture struct {
	db           *sql.DB
	categories   *repository.SQLiteCategoryRepo
	transactions *repository.SQLiteTransactionRepo
	valuations   *repository.SQLiteValuationRepo

	portfolio PortfolioService
	records   RecordService
	cats      CategoryService
	imports   ImportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	f := &fixture{
		db:           database,
		categories:   repository.NewSQLiteCategoryRepo(database),
		transactions: repository.NewSQLiteTransactionRepo(database),
		valuations:   repository.NewSQLiteValuationRepo(database),
	}
	f.portfolio = NewPortfolioService(f.categories, f.valuations, f.transactions)
	f.records = NewRecordService(uow)
	f.cats = NewCategoryService(f.categories, uow)
	f.imports = NewImportService(uow)

	// Freeze "today" so cash histories are deterministic.
	f.portfolio.(*portfolioService).now = func() time.Time { return testutil.Day(2024, time.March, 1) }
	return f
}

func (f *fixture) category(t *testing.T, name string, opts ...testutil.CategoryOption) *domain.Category {
	t.Helper()
	c := testutil.NewTestCategory(name, opts...)
	require.NoError(t, f.categories.Create(context.Background(), c))
	return c
}

func (f *fixture) valuation(t *testing.T, catID string, value int64, at time.Time) *domain.Valuation {
	t.Helper()
	v := testutil.NewTestValuation(catID, value, at)
	require.NoError(t, f.valuations.Create(context.Background(), v))
	return v
}

func (f *fixture) transaction(t *testing.T, catID string, typ domain.TransactionType, amount int64, at time.Time) *domain.Transaction {
	t.Helper()
	tx := testutil.NewTestTransaction(catID, typ, amount, at)
	require.NoError(t, f.transactions.Create(context.Background(), tx))
	return tx
}

func jan(day int) time.Time { return testutil.Day(2024, time.January, day) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "%s: got %s, want %d", msg, got, want)
}
