package valuation

import (
	"time"

	"github.com/shopspring/decimal"
)

// GlobalPoint is one day of the whole-portfolio series.
type GlobalPoint struct {
	Date             time.Time
	TotalAssets      decimal.Decimal
	TotalCost        decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	// Tags sums the own values of non-liability categories by effective tag.
	Tags map[string]decimal.Decimal
}

// GlobalSeries replays the tree consolidation on every date any category
// has a history point, carrying each category's last known value forward.
func GlobalSeries(tree *Tree, histories map[string][]Point) []GlobalPoint {
	ids := make([]string, 0, tree.Len())
	for _, n := range tree.Nodes() {
		ids = append(ids, n.Category.ID)
	}

	tagOf := effectiveTags(tree)
	dates := unionDates(ids, histories)
	carry := newCarrier(ids, histories)

	series := make([]GlobalPoint, 0, len(dates))
	for _, date := range dates {
		carry.advance(date)

		own := make(map[string]Figures, len(ids))
		tags := make(map[string]decimal.Decimal)
		for _, n := range tree.Nodes() {
			id := n.Category.ID
			p := carry.last[id]
			own[id] = Figures{Value: p.Value, Cost: p.Cost}

			if tag := tagOf(id); tag != "" && !n.Category.IsLiability {
				tags[tag] = tags[tag].Add(p.Value)
			}
		}

		total, liab := consolidate(tree, own)
		aggs := make([]Aggregate, 0, tree.Len())
		for _, root := range tree.Roots() {
			n, _ := tree.Node(root)
			aggs = append(aggs, Aggregate{
				Node:           n,
				CurrentValue:   total[root].Value,
				CostBasis:      total[root].Cost,
				LiabilityValue: liab[root],
			})
		}
		t := SumRoots(aggs)

		series = append(series, GlobalPoint{
			Date:             date,
			TotalAssets:      t.Assets,
			TotalCost:        t.Cost,
			TotalLiabilities: t.Liabilities,
			NetWorth:         t.NetWorth,
			Tags:             tags,
		})
	}
	return series
}

// effectiveTags returns a lookup of each category's tag, inherited from the
// nearest tagged ancestor when the category has none. Results are memoized
// for the lifetime of the returned function only.
func effectiveTags(tree *Tree) func(id string) string {
	memo := make(map[string]string, tree.Len())
	var lookup func(id string) string
	lookup = func(id string) string {
		if tag, ok := memo[id]; ok {
			return tag
		}
		n, ok := tree.Node(id)
		if !ok {
			return ""
		}
		tag := n.Category.Tag
		if tag == "" && n.ParentID != "" {
			tag = lookup(n.ParentID)
		}
		memo[id] = tag
		return tag
	}
	return lookup
}
