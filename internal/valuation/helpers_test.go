package valuation

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var seq int

func d(n int) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func nextID(prefix string) string {
	seq++
	return fmt.Sprintf("%s%d", prefix, seq)
}

type catOpt func(*domain.Category)

func parent(id string) catOpt { return func(c *domain.Category) { c.ParentID = &id } }
func order(o int) catOpt { return func(c *domain.Category) { c.Order = o } }
func cash() catOpt { return func(c *domain.Category) { c.IsCash = true } }
func liability() catOpt { return func(c *domain.Category) { c.IsLiability = true } }
func tagged(t string) catOpt { return func(c *domain.Category) { c.Tag = t } }

func cat(id string, opts ...catOpt) domain.Category {
	c := domain.Category{ID: id, Name: id}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func deposit(catID string, on time.Time, amt int64) domain.Transaction {
	return domain.Transaction{ID: nextID("tx"), CategoryID: catID, Type: domain.TxDeposit, Amount: dec(amt), TransactedAt: on}
}

func withdraw(catID string, on time.Time, amt int64) domain.Transaction {
	return domain.Transaction{ID: nextID("tx"), CategoryID: catID, Type: domain.TxWithdraw, Amount: dec(amt), TransactedAt: on}
}

func marker(catID string, on time.Time) domain.Transaction {
	return domain.Transaction{ID: nextID("tx"), CategoryID: catID, Type: domain.TxValuation, TransactedAt: on}
}

func val(catID string, on time.Time, amt int64) domain.Valuation {
	return domain.Valuation{ID: nextID("v"), CategoryID: catID, CurrentValue: dec(amt), RecordedAt: on}
}

func assertDec(t *testing.T, want int64, got decimal.Decimal, label string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %d, got %s", label, want, got)
}

func assertPoint(t *testing.T, p Point, day int, value, cost int64) {
	t.Helper()
	assert.Equal(t, d(day), p.Date, "date")
	assertDec(t, value, p.Value, fmt.Sprintf("value on day %d", day))
	assertDec(t, cost, p.Cost, fmt.Sprintf("cost on day %d", day))
}
