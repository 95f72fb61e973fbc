package valuation

import (
	"sort"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	txRowPrefix  = "tx-"
	valRowPrefix = "val-"
)

var hundred = decimal.NewFromInt(100)

// EventRow is one line of the merged transaction/valuation list.
type EventRow struct {
	ID         string // kind-prefixed record id, unique across kinds
	RecordID   string
	Kind       domain.EventKind
	CategoryID string
	OccurredAt time.Time

	// Transaction rows.
	Type         domain.TransactionType
	Amount       decimal.Decimal
	RealizedGain *decimal.Decimal
	Memo         string

	// Valuation rows.
	Value decimal.Decimal

	// PointInTimeValuation is the balance after the event: a same-day
	// valuation merged into a transaction, or the history value as a
	// fallback.
	PointInTimeValuation *decimal.Decimal
	// ProfitRatio is the unrealized profit in percent on the event's day,
	// nil when the cost basis that day is not positive.
	ProfitRatio *decimal.Decimal
}

// MergeEvents interleaves transactions and valuations most recent first.
// When a category has both kinds on one calendar day, the day's latest
// valuation is folded into the day's latest transaction as its
// PointInTimeValuation. Every transaction is kept; other same-day
// valuations stay as their own rows. history is the reconstructed series
// used for profit ratios and balance backfill.
func MergeEvents(txs []domain.Transaction, vals []domain.Valuation, history []Point) []EventRow {
	rows := make([]EventRow, 0, len(txs)+len(vals))
	for _, tx := range txs {
		rows = append(rows, EventRow{
			ID:           txRowPrefix + tx.ID,
			RecordID:     tx.ID,
			Kind:         domain.EventTransaction,
			CategoryID:   tx.CategoryID,
			OccurredAt:   tx.TransactedAt,
			Type:         tx.Type,
			Amount:       tx.Amount,
			RealizedGain: tx.RealizedGain,
			Memo:         tx.Memo,
		})
	}
	for _, v := range vals {
		rows = append(rows, EventRow{
			ID:         valRowPrefix + v.ID,
			RecordID:   v.ID,
			Kind:       domain.EventValuation,
			CategoryID: v.CategoryID,
			OccurredAt: v.RecordedAt,
			Value:      v.CurrentValue,
		})
	}
	sortNewestFirst(rows)

	type groupKey struct {
		category string
		day      time.Time
	}
	var order []groupKey
	groups := make(map[groupKey][]EventRow)
	for _, r := range rows {
		k := groupKey{r.CategoryID, domain.DayOf(r.OccurredAt)}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	merged := make([]EventRow, 0, len(rows))
	for _, k := range order {
		merged = append(merged, mergeDay(groups[k])...)
	}
	sortNewestFirst(merged)

	for i := range merged {
		annotate(&merged[i], history)
	}
	return merged
}

// mergeDay merges one category-day group, already sorted newest first.
func mergeDay(group []EventRow) []EventRow {
	latestTx, latestVal := -1, -1
	for i, r := range group {
		switch r.Kind {
		case domain.EventTransaction:
			if latestTx < 0 {
				latestTx = i
			}
		case domain.EventValuation:
			if latestVal < 0 {
				latestVal = i
			}
		}
	}
	if latestTx < 0 || latestVal < 0 {
		return group
	}

	out := make([]EventRow, 0, len(group)-1)
	for i, r := range group {
		if i == latestVal {
			continue
		}
		if i == latestTx {
			v := group[latestVal].Value
			r.PointInTimeValuation = &v
		}
		out = append(out, r)
	}
	return out
}

func annotate(r *EventRow, history []Point) {
	p, ok := PointAsOf(history, r.OccurredAt)
	if !ok {
		return
	}
	if p.Cost.IsPositive() {
		ratio := p.Value.Sub(p.Cost).Div(p.Cost).Mul(hundred).Round(2)
		r.ProfitRatio = &ratio
	}
	if r.PointInTimeValuation == nil {
		v := p.Value
		r.PointInTimeValuation = &v
	}
}

func sortNewestFirst(rows []EventRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].OccurredAt.After(rows[j].OccurredAt)
	})
}
