package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/repository"
	"github.com/alexanderramin/holdings/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingValuationRepo fails every list call.
type failingValuationRepo struct {
	repository.ValuationRepo
}

func (failingValuationRepo) ListAll(context.Context) ([]*domain.Valuation, error) {
	return nil, errors.New("disk on fire")
}

func TestPortfolio_StoreFailureIsDataUnavailable(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewPortfolioService(
		repository.NewSQLiteCategoryRepo(database),
		failingValuationRepo{},
		repository.NewSQLiteTransactionRepo(database),
	)
	ctx := context.Background()

	rows, err := svc.AggregatedCategories(ctx)
	assert.ErrorIs(t, err, app.ErrDataUnavailable)
	assert.Nil(t, rows, "no partial result")

	_, err = svc.Summary(ctx)
	assert.ErrorIs(t, err, app.ErrDataUnavailable)
	_, err = svc.CategoryDetail(ctx, "any")
	assert.ErrorIs(t, err, app.ErrDataUnavailable)
	_, err = svc.GlobalHistory(ctx)
	assert.ErrorIs(t, err, app.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestPortfolio_AggregatedCategoriesPreOrder(t *testing.T) {
	f := newFixture(t)
	inv := f.category(t, "Investments", testutil.WithOrder(0))
	etf := f.category(t, "ETF", testutil.WithParent(inv.ID))
	cash := f.category(t, "Cash", testutil.WithOrder(1), testutil.AsCash())
	f.valuation(t, etf.ID, 1100, jan(2))
	f.transaction(t, etf.ID, domain.TxDeposit, 1000, jan(1))
	f.valuation(t, cash.ID, 300, jan(1))

	rows, err := f.portfolio.AggregatedCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Investments", "ETF", "Cash"}, []string{rows[0].Name, rows[1].Name, rows[2].Name})
	assert.Equal(t, 1, rows[1].Depth)
	assert.Equal(t, inv.ID, rows[1].ParentID)
	assertDecimal(t, 1100, rows[0].CurrentValue, "investments value")
	assertDecimal(t, 100, rows[0].UnrealizedProfit(), "investments profit")
	assertDecimal(t, 300, rows[2].CostBasis, "cash cost equals value")
}

func TestPortfolio_CategoryDetail_ParentAddsOwnFigures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := f.category(t, "Investments")
	child := f.category(t, "ETF", testutil.WithParent(parent.ID))

	tx := f.transaction(t, child.ID, domain.TxDeposit, 1000, jan(1))
	require.NoError(t, f.valuations.Create(ctx, testutil.NewTestValuation(child.ID, 1000, jan(1), testutil.WithTransaction(tx.ID))))
	f.valuation(t, child.ID, 1100, jan(3))
	f.valuation(t, parent.ID, 50, jan(1))

	detail, err := f.portfolio.CategoryDetail(ctx, parent.ID)
	require.NoError(t, err)

	assertDecimal(t, 1150, detail.CurrentValue, "consolidated value includes own value")
	assertDecimal(t, 1000, detail.CostBasis, "consolidated cost")
	assertDecimal(t, 150, detail.UnrealizedProfit, "profit")
	require.Len(t, detail.Children, 1)
	assert.Equal(t, child.ID, detail.Children[0].ID)
	require.Len(t, detail.ChildSeries, 1)
	assert.Equal(t, "ETF", detail.ChildSeries[0].Name)

	require.NotEmpty(t, detail.History)
	last := detail.History[len(detail.History)-1]
	assertDecimal(t, 1100, last.Value, "history excludes the parent's own value")

	// Child pair folds into one row; the child's later valuation and the
	// parent's own valuation stay separate.
	require.Len(t, detail.Events, 3)
	for i := 1; i < len(detail.Events); i++ {
		assert.False(t, detail.Events[i].OccurredAt.After(detail.Events[i-1].OccurredAt), "events newest first")
	}
	seen := map[string]bool{}
	for _, e := range detail.Events {
		assert.False(t, seen[e.ID], "duplicate event id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestPortfolio_CategoryDetail_ParentMatchesSummaryWithCashChild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wallets := f.category(t, "Wallets")
	cash := f.category(t, "Pocket", testutil.WithParent(wallets.ID), testutil.AsCash())
	f.transaction(t, cash.ID, domain.TxDeposit, 1000, jan(1))
	f.valuation(t, cash.ID, 1010, jan(2))
	f.transaction(t, cash.ID, domain.TxWithdraw, 200, jan(4))

	rows, err := f.portfolio.AggregatedCategories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assertDecimal(t, 1010, rows[0].CurrentValue, "summary value")
	assertDecimal(t, 1010, rows[0].CostBasis, "summary cost")

	parent, err := f.portfolio.CategoryDetail(ctx, wallets.ID)
	require.NoError(t, err)
	assertDecimal(t, 1010, parent.CurrentValue, "parent detail value")
	assertDecimal(t, 1010, parent.CostBasis, "parent detail cost")
	assertDecimal(t, 0, parent.UnrealizedProfit, "parent detail profit")

	child, err := f.portfolio.CategoryDetail(ctx, cash.ID)
	require.NoError(t, err)
	assert.True(t, child.CurrentValue.Equal(parent.CurrentValue), "child and parent agree")

	// The series itself still steps down with the withdrawal.
	last := parent.History[len(parent.History)-1]
	assertDecimal(t, 810, last.Value, "series after withdrawal")
}

// TestPortfolio_CategoryDetail_AgreesWithAggregator property-tests that the
// detail view of every category reports the same value and cost basis as
// its summary row, over random trees with cash and liability members.
func TestPortfolio_CategoryDetail_AgreesWithAggregator(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	types := []domain.TransactionType{domain.TxDeposit, domain.TxWithdraw, domain.TxValuation}

	for trial := 0; trial < 25; trial++ {
		f := newFixture(t)
		ctx := context.Background()

		var ids []string
		for i, n := 0, rng.Intn(7)+2; i < n; i++ {
			var opts []testutil.CategoryOption
			if len(ids) > 0 && rng.Intn(4) != 0 {
				opts = append(opts, testutil.WithParent(ids[rng.Intn(len(ids))]))
			}
			if rng.Intn(3) == 0 {
				opts = append(opts, testutil.AsCash())
			}
			if rng.Intn(8) == 0 {
				opts = append(opts, testutil.AsLiability())
			}
			c := f.category(t, fmt.Sprintf("c%d", i), opts...)
			ids = append(ids, c.ID)

			for k, m := 0, rng.Intn(4); k < m; k++ {
				f.transaction(t, c.ID, types[rng.Intn(len(types))], int64(rng.Intn(1000)+1), jan(rng.Intn(20)+1))
			}
			for k, m := 0, rng.Intn(4); k < m; k++ {
				f.valuation(t, c.ID, int64(rng.Intn(3000)), jan(rng.Intn(20)+1))
			}
		}

		rows, err := f.portfolio.AggregatedCategories(ctx)
		require.NoError(t, err)
		for _, row := range rows {
			detail, err := f.portfolio.CategoryDetail(ctx, row.ID)
			require.NoError(t, err)
			assert.True(t, row.CurrentValue.Equal(detail.CurrentValue),
				"trial %d %s: value %s vs %s", trial, row.Name, row.CurrentValue, detail.CurrentValue)
			assert.True(t, row.CostBasis.Equal(detail.CostBasis),
				"trial %d %s: cost %s vs %s", trial, row.Name, row.CostBasis, detail.CostBasis)
		}
	}
}

func TestPortfolio_CategoryDetail_ParentEventsUseMergedSeries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := f.category(t, "Brokerage")
	a := f.category(t, "A", testutil.WithParent(parent.ID))
	b := f.category(t, "B", testutil.WithParent(parent.ID))

	f.transaction(t, a.ID, domain.TxDeposit, 1000, jan(1))
	f.valuation(t, a.ID, 2000, jan(1))
	f.transaction(t, b.ID, domain.TxDeposit, 1000, jan(1))
	f.valuation(t, b.ID, 1000, jan(1))
	f.transaction(t, a.ID, domain.TxWithdraw, 500, jan(3))

	detail, err := f.portfolio.CategoryDetail(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, detail.Events, 3)

	// Jan 3: A's history derives 1500 at cost 500, B carries 1000 at cost
	// 1000, so the merged point is 2500 at cost 1500.
	latest := detail.Events[0]
	assert.Equal(t, a.ID, latest.CategoryID)
	require.NotNil(t, latest.PointInTimeValuation)
	assertDecimal(t, 2500, *latest.PointInTimeValuation, "balance backfilled from merged series")
	require.NotNil(t, latest.ProfitRatio)
	assert.Equal(t, "66.67", latest.ProfitRatio.String())

	// Jan 1: merged point is 3000 at cost 2000. Same-day valuations stay
	// attached to their own transaction.
	balances := map[string]int64{a.ID: 2000, b.ID: 1000}
	for _, e := range detail.Events[1:] {
		require.NotNil(t, e.ProfitRatio)
		assert.Equal(t, "50", e.ProfitRatio.String(), "ratio of the parent series, not %s's own", e.CategoryID)
		require.NotNil(t, e.PointInTimeValuation)
		assertDecimal(t, balances[e.CategoryID], *e.PointInTimeValuation, "same-day valuation")
	}
}

func TestPortfolio_CategoryDetail_Leaf(t *testing.T) {
	f := newFixture(t)
	leaf := f.category(t, "ETF")
	f.transaction(t, leaf.ID, domain.TxDeposit, 800, jan(1))
	f.valuation(t, leaf.ID, 1000, jan(1))
	f.valuation(t, leaf.ID, 900, jan(4))

	detail, err := f.portfolio.CategoryDetail(context.Background(), leaf.ID)
	require.NoError(t, err)
	assertDecimal(t, 900, detail.CurrentValue, "value")
	assertDecimal(t, 800, detail.CostBasis, "cost")
	assertDecimal(t, -100, detail.DailyChange, "change")
	assert.Empty(t, detail.Children)
	assert.Empty(t, detail.ChildSeries)
	require.Len(t, detail.Events, 2)
	require.NotNil(t, detail.Events[0].ProfitRatio)
	assert.Equal(t, "12.5", detail.Events[0].ProfitRatio.String())
}

func TestPortfolio_CategoryDetail_CashWithoutRecords(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Wallet", testutil.AsCash())

	detail, err := f.portfolio.CategoryDetail(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, detail.History, 1)
	assert.True(t, detail.History[0].Date.Equal(testutil.Day(2024, time.March, 1)))
	assertDecimal(t, 0, detail.History[0].Value, "flat zero")
	assert.Empty(t, detail.Events)
}

func TestPortfolio_CategoryDetail_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.portfolio.CategoryDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPortfolio_GlobalHistory_LiabilityRoot(t *testing.T) {
	f := newFixture(t)
	house := f.category(t, "House", testutil.WithTag("property"))
	loan := f.category(t, "Loan", testutil.AsLiability(), testutil.WithTag("debt"))
	f.transaction(t, house.ID, domain.TxDeposit, 800, jan(1))
	f.valuation(t, house.ID, 1000, jan(1))
	f.valuation(t, loan.ID, 300, jan(1))
	f.valuation(t, loan.ID, 250, jan(2))

	points, err := f.portfolio.GlobalHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)

	assertDecimal(t, 1000, points[0].TotalAssets, "assets")
	assertDecimal(t, 800, points[0].TotalCost, "cost")
	assertDecimal(t, 300, points[0].TotalLiabilities, "liabilities")
	assertDecimal(t, 700, points[0].NetWorth, "net worth")
	assertDecimal(t, 1000, points[0].Tags["property"], "property tag")
	_, hasDebt := points[0].Tags["debt"]
	assert.False(t, hasDebt, "liabilities stay out of tag totals")

	assertDecimal(t, 1000, points[1].TotalAssets, "carried assets")
	assertDecimal(t, 750, points[1].NetWorth, "net worth after paydown")
}

func TestPortfolio_Empty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.portfolio.Summary(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Categories)
	assertDecimal(t, 0, summary.NetWorth, "net worth")

	points, err := f.portfolio.GlobalHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, points)
}
