package valuation

import (
	"sort"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

// Point is one day of a category's value history.
type Point struct {
	Date  time.Time
	Value decimal.Decimal
	Cost  decimal.Decimal
}

// HistoryInput is everything Reconstruct needs for one category.
type HistoryInput struct {
	IsCash bool
	// CurrentValue and Today seed the single flat point of a cash category
	// with no records at all.
	CurrentValue decimal.Decimal
	Today        time.Time

	Valuations   []domain.Valuation
	Transactions []domain.Transaction
}

// dayEntry is the per-day working row. A nil value means no valuation was
// recorded that day.
type dayEntry struct {
	date    time.Time
	value   *decimal.Decimal
	cost    decimal.Decimal
	netFlow decimal.Decimal
}

// Reconstruct builds a gap-filled daily {value, cost} series for one
// category. Whenever consecutive entries are more than a day apart, a
// synthetic point is placed on the day before the later entry so that the
// change renders as a step on its effective date instead of a ramp.
func Reconstruct(in HistoryInput) []Point {
	entries := buildDayEntries(in.Transactions, in.Valuations)
	if len(entries) == 0 {
		if in.IsCash {
			today := domain.DayOf(in.Today)
			return []Point{{Date: today, Value: in.CurrentValue, Cost: in.CurrentValue}}
		}
		return nil
	}

	points := walkEntries(entries)
	if in.IsCash {
		for i := range points {
			points[i].Cost = points[i].Value
		}
	}
	return points
}

// buildDayEntries collects transactions and valuations into one entry per
// day, sorted ascending. The running cost of the day's last transaction
// overwrites the entry's cost while net flows are summed.
func buildDayEntries(txs []domain.Transaction, vals []domain.Valuation) []*dayEntry {
	byDay := make(map[time.Time]*dayEntry)

	sortedTxs := make([]domain.Transaction, len(txs))
	copy(sortedTxs, txs)
	sort.SliceStable(sortedTxs, func(i, j int) bool {
		return sortedTxs[i].TransactedAt.Before(sortedTxs[j].TransactedAt)
	})

	running := decimal.Zero
	for i := range sortedTxs {
		tx := &sortedTxs[i]
		flow := tx.SignedAmount()
		running = running.Add(flow)

		d := tx.Day()
		e, ok := byDay[d]
		if !ok {
			e = &dayEntry{date: d}
			byDay[d] = e
		}
		e.cost = running
		e.netFlow = e.netFlow.Add(flow)
	}

	sortedVals := make([]domain.Valuation, len(vals))
	copy(sortedVals, vals)
	sort.SliceStable(sortedVals, func(i, j int) bool {
		return sortedVals[i].RecordedAt.Before(sortedVals[j].RecordedAt)
	})

	for i := range sortedVals {
		v := sortedVals[i].CurrentValue
		d := sortedVals[i].Day()
		if e, ok := byDay[d]; ok {
			e.value = &v
			continue
		}
		byDay[d] = &dayEntry{
			date:  d,
			value: &v,
			cost:  domain.CostBasisAsOf(txs, d),
		}
	}

	entries := make([]*dayEntry, 0, len(byDay))
	for _, e := range byDay {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].date.Before(entries[j].date) })
	return entries
}

func walkEntries(entries []*dayEntry) []Point {
	points := make([]Point, 0, len(entries)*2)

	first := entries[0]
	points = append(points, Point{
		Date:  first.date,
		Value: domain.DecimalFromPtrWithDefault(decimal.Zero, first.value),
		Cost:  first.cost,
	})

	for _, e := range entries[1:] {
		prev := points[len(points)-1]

		if domain.DaysBetween(prev.Date, e.date) > 1 {
			before := Point{Date: e.date.AddDate(0, 0, -1), Cost: prev.Cost}
			if e.value != nil {
				// The balance just before today's net flow was applied.
				before.Value = domain.MaxZero(e.value.Sub(e.netFlow))
			} else {
				before.Value = prev.Value
			}
			points = append(points, before)
			prev = before
		}

		cur := Point{Date: e.date, Cost: e.cost}
		if e.value != nil {
			cur.Value = domain.MaxZero(*e.value)
		} else {
			cur.Value = domain.MaxZero(prev.Value.Add(e.netFlow))
		}
		points = append(points, cur)
	}
	return points
}

// PointAsOf returns the last point dated on or before day.
func PointAsOf(points []Point, day time.Time) (Point, bool) {
	day = domain.DayOf(day)
	i := sort.Search(len(points), func(i int) bool { return points[i].Date.After(day) })
	if i == 0 {
		return Point{}, false
	}
	return points[i-1], true
}
