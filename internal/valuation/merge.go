package valuation

import (
	"sort"
	"time"
)

// Series is one category's slice of a merged history, aligned with the
// merged dates.
type Series struct {
	CategoryID string
	Points     []Point
}

// Merged is the combined history of a category's subtree.
type Merged struct {
	Points []Point
	// Breakdown holds one series per direct child, each including that
	// child's own descendants. Empty when the category has no children.
	Breakdown []Series
}

// MergeHistories combines the reconstructed histories of every descendant
// of rootID into one series over the union of their dates. A descendant
// missing from a date keeps its last known value and cost; one that has no
// point yet contributes zero. With no descendants the root's own history is
// returned unchanged.
func MergeHistories(tree *Tree, rootID string, histories map[string][]Point) Merged {
	members := tree.Consolidated(rootID)
	if len(members) == 0 {
		return Merged{Points: histories[rootID]}
	}

	// Map each member to the direct child whose subtree holds it.
	var directChildren []string
	owner := make(map[string]string, len(members))
	for _, child := range tree.Children(rootID) {
		n, _ := tree.Node(child)
		if !tree.foldsInto(n) {
			continue
		}
		directChildren = append(directChildren, child)
		owner[child] = child
		for _, m := range tree.Consolidated(child) {
			owner[m] = child
		}
	}

	dates := unionDates(members, histories)
	carry := newCarrier(members, histories)

	merged := Merged{Points: make([]Point, 0, len(dates))}
	byChild := make(map[string][]Point, len(directChildren))

	for _, date := range dates {
		carry.advance(date)

		total := Point{Date: date}
		perChild := make(map[string]Point, len(directChildren))
		for _, id := range members {
			p := carry.last[id]
			total.Value = total.Value.Add(p.Value)
			total.Cost = total.Cost.Add(p.Cost)

			c := owner[id]
			acc := perChild[c]
			acc.Value = acc.Value.Add(p.Value)
			acc.Cost = acc.Cost.Add(p.Cost)
			perChild[c] = acc
		}
		merged.Points = append(merged.Points, total)

		for _, c := range directChildren {
			p := perChild[c]
			p.Date = date
			byChild[c] = append(byChild[c], p)
		}
	}

	for _, c := range directChildren {
		merged.Breakdown = append(merged.Breakdown, Series{CategoryID: c, Points: byChild[c]})
	}
	return merged
}

// unionDates returns the sorted distinct dates across the given histories.
func unionDates(ids []string, histories map[string][]Point) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, id := range ids {
		for _, p := range histories[id] {
			if !seen[p.Date] {
				seen[p.Date] = true
				dates = append(dates, p.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// carrier walks several sorted histories in step, remembering the last
// point seen at or before the current date for each.
type carrier struct {
	ids       []string
	histories map[string][]Point
	cursor    map[string]int
	last      map[string]Point
}

func newCarrier(ids []string, histories map[string][]Point) *carrier {
	return &carrier{
		ids:       ids,
		histories: histories,
		cursor:    make(map[string]int, len(ids)),
		last:      make(map[string]Point, len(ids)),
	}
}

// advance moves every cursor forward to date. Dates must be passed in
// ascending order.
func (c *carrier) advance(date time.Time) {
	for _, id := range c.ids {
		h := c.histories[id]
		i := c.cursor[id]
		for i < len(h) && !h[i].Date.After(date) {
			c.last[id] = h[i]
			i++
		}
		c.cursor[id] = i
	}
}
