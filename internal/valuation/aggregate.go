package valuation

import (
	"sort"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

// Records holds the raw records of one category.
type Records struct {
	Valuations   []domain.Valuation
	Transactions []domain.Transaction
}

// Figures is a value/cost/change triple.
type Figures struct {
	Value  decimal.Decimal
	Cost   decimal.Decimal
	Change decimal.Decimal
}

func (f Figures) add(o Figures) Figures {
	return Figures{
		Value:  f.Value.Add(o.Value),
		Cost:   f.Cost.Add(o.Cost),
		Change: f.Change.Add(o.Change),
	}
}

// Aggregate is the consolidated view of one category.
type Aggregate struct {
	Node

	OwnValue       decimal.Decimal
	OwnCostBasis   decimal.Decimal
	OwnDailyChange decimal.Decimal

	CurrentValue decimal.Decimal
	CostBasis    decimal.Decimal
	DailyChange  decimal.Decimal

	// LiabilityValue is the consolidated value of liabilities held beneath
	// this node that did not fold into CurrentValue.
	LiabilityValue decimal.Decimal
}

// UnrealizedProfit is CurrentValue minus CostBasis.
func (a Aggregate) UnrealizedProfit() decimal.Decimal {
	return a.CurrentValue.Sub(a.CostBasis)
}

// OwnFigures derives a category's own value, cost basis and daily change
// from its raw records.
func OwnFigures(c domain.Category, recs Records) Figures {
	latest, prior := latestTwo(recs.Valuations)

	var f Figures
	if latest != nil {
		f.Value = latest.CurrentValue
		if prior != nil {
			f.Change = latest.CurrentValue.Sub(prior.CurrentValue)
		}
	}
	if c.IsCash {
		f.Cost = f.Value
	} else {
		f.Cost = domain.CostBasis(recs.Transactions)
	}
	return f
}

// latestTwo returns the most recent and the prior valuation. On equal
// timestamps the later one in input order wins.
func latestTwo(vals []domain.Valuation) (latest, prior *domain.Valuation) {
	if len(vals) == 0 {
		return nil, nil
	}
	sorted := make([]domain.Valuation, len(vals))
	copy(sorted, vals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
	})
	latest = &sorted[len(sorted)-1]
	if len(sorted) > 1 {
		prior = &sorted[len(sorted)-2]
	}
	return latest, prior
}

// AggregateTree consolidates every category bottom-up and returns the
// result in pre-order. Categories without records aggregate to zero.
func AggregateTree(tree *Tree, records map[string]Records) []Aggregate {
	own := make(map[string]Figures, tree.Len())
	for _, n := range tree.Nodes() {
		own[n.Category.ID] = OwnFigures(n.Category, records[n.Category.ID])
	}

	total, liab := consolidate(tree, own)

	out := make([]Aggregate, 0, tree.Len())
	for _, n := range tree.Nodes() {
		id := n.Category.ID
		out = append(out, Aggregate{
			Node:           n,
			OwnValue:       own[id].Value,
			OwnCostBasis:   own[id].Cost,
			OwnDailyChange: own[id].Change,
			CurrentValue:   total[id].Value,
			CostBasis:      total[id].Cost,
			DailyChange:    total[id].Change,
			LiabilityValue: liab[id],
		})
	}
	return out
}

// consolidate folds own figures into parents in one deepest-first pass.
// Every child is processed before its parent, so by the time a node folds
// upward its total already includes its whole subtree.
func consolidate(tree *Tree, own map[string]Figures) (map[string]Figures, map[string]decimal.Decimal) {
	total := make(map[string]Figures, len(own))
	liab := make(map[string]decimal.Decimal, len(own))
	for _, n := range tree.Nodes() {
		total[n.Category.ID] = own[n.Category.ID]
	}

	nodes := tree.Nodes()
	for _, i := range tree.deepestFirst() {
		n := nodes[i]
		if n.ParentID == "" {
			continue
		}
		id, parent := n.Category.ID, n.ParentID
		if tree.foldsInto(n) {
			total[parent] = total[parent].add(total[id])
			liab[parent] = liab[parent].Add(liab[id])
			continue
		}
		liab[parent] = liab[parent].Add(total[id].Value).Add(liab[id])
	}
	return total, liab
}

// Totals are portfolio-wide figures across all roots.
type Totals struct {
	Assets      decimal.Decimal
	Cost        decimal.Decimal
	Liabilities decimal.Decimal
	DailyChange decimal.Decimal
	NetWorth    decimal.Decimal
}

// SumRoots adds up root aggregates. Liability roots only count toward
// Liabilities and never enter Assets or Cost.
func SumRoots(aggs []Aggregate) Totals {
	var t Totals
	for _, a := range aggs {
		if a.ParentID != "" {
			continue
		}
		t.Liabilities = t.Liabilities.Add(a.LiabilityValue)
		if a.Category.IsLiability {
			t.Liabilities = t.Liabilities.Add(a.CurrentValue)
			continue
		}
		t.Assets = t.Assets.Add(a.CurrentValue)
		t.Cost = t.Cost.Add(a.CostBasis)
		t.DailyChange = t.DailyChange.Add(a.DailyChange)
	}
	t.NetWorth = t.Assets.Sub(t.Liabilities)
	return t
}
