package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/holdings/internal/contract"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

// SummaryTree converts the pre-ordered category list into tree rows with
// value, profit and daily change badges.
func SummaryTree(rows []contract.AggregatedCategory, m Money) []TreeItem {
	childCount := make(map[string]int)
	for _, r := range rows {
		childCount[r.ParentID]++
	}

	seen := make(map[string]int)
	var lastAt []bool
	items := make([]TreeItem, 0, len(rows))
	for _, r := range rows {
		seen[r.ParentID]++
		isLast := seen[r.ParentID] == childCount[r.ParentID]

		for len(lastAt) <= r.Depth {
			lastAt = append(lastAt, false)
		}
		lastAt[r.Depth] = isLast
		open := make([]bool, 0, r.Depth)
		for i := 1; i < r.Depth; i++ {
			open = append(open, !lastAt[i])
		}

		title := r.Name
		if r.IsLiability {
			title = StyleRed.Render(title)
		}
		if flags := CategoryFlags(r.IsCash, false, r.Tag); flags != "" {
			title += " " + flags
		}
		if !r.LiabilityValue.IsZero() {
			title += " " + StyleRed.Render("−"+m.Format(r.LiabilityValue))
		}

		items = append(items, TreeItem{
			Title:  title,
			Level:  r.Depth,
			Open:   open,
			IsLast: isLast,
			Muted:  r.CurrentValue.IsZero() && r.LiabilityValue.IsZero(),
			Badges: []string{
				m.Format(r.CurrentValue),
				m.Signed(r.UnrealizedProfit()),
				m.Signed(r.DailyChange),
			},
		})
	}
	return items
}

// FormatSummary renders the category tree followed by portfolio totals.
func FormatSummary(s *contract.PortfolioSummary, m Money) string {
	if len(s.Categories) == 0 {
		return Dim("No categories yet. Add one with 'holdings category add'.") + "\n"
	}

	var b strings.Builder
	b.WriteString(Header("Portfolio") + "\n")
	b.WriteString(RenderTree(SummaryTree(s.Categories, m)))
	b.WriteString("\n")

	profit := s.TotalAssets.Sub(s.TotalCost)
	b.WriteString(RenderBox("Totals", KeyValues([][2]string{
		{"Assets", Bold(m.Format(s.TotalAssets))},
		{"Cost basis", m.Format(s.TotalCost)},
		{"Unrealized", m.Signed(profit) + " " + Percent(ProfitPercent(s.TotalAssets, s.TotalCost))},
		{"Liabilities", StyleRed.Render(m.Format(s.TotalLiabilities))},
		{"Net worth", Bold(m.Format(s.NetWorth))},
		{"Today", m.Signed(s.DailyChange)},
	})))
	b.WriteString("\n")
	return b.String()
}

// FormatCategoryList renders categories as a table in the given order.
func FormatCategoryList(cats []*domain.Category) string {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		parent := ""
		if !c.IsRoot() {
			parent = names[c.ParentKey()]
		}
		target := ""
		if c.IsValuationTarget {
			target = fmt.Sprintf("%d", c.ValuationOrder)
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			c.Name,
			parent,
			CategoryFlags(c.IsCash, c.IsLiability, c.Tag),
			target,
		})
	}
	return RenderTable([]string{"ID", "NAME", "PARENT", "FLAGS", "BULK"}, rows)
}

// FormatCategoryDetail renders one category's figures, children, recent
// history and activity. limit caps history and event rows; zero shows all.
func FormatCategoryDetail(d *contract.CategoryDetail, m Money, limit int) string {
	var b strings.Builder

	b.WriteString(Header(d.Category.Name) + "\n")
	pairs := [][2]string{
		{"Value", Bold(m.Format(d.CurrentValue))},
		{"Cost basis", m.Format(d.CostBasis)},
		{"Unrealized", m.Signed(d.UnrealizedProfit) + " " + Percent(ProfitPercent(d.CurrentValue, d.CostBasis))},
		{"Today", m.Signed(d.DailyChange)},
	}
	if flags := CategoryFlags(d.Category.IsCash, d.Category.IsLiability, d.Category.Tag); flags != "" {
		pairs = append(pairs, [2]string{"Flags", flags})
	}
	b.WriteString(KeyValues(pairs) + "\n")

	if len(d.Children) > 0 {
		b.WriteString("\n" + Header("Children") + "\n")
		rows := make([][]string, 0, len(d.Children))
		for _, c := range d.Children {
			rows = append(rows, []string{
				c.Name,
				m.Format(c.CurrentValue),
				m.Format(c.CostBasis),
				m.Signed(c.UnrealizedProfit()),
			})
		}
		b.WriteString(Table{Headers: []string{"NAME", "VALUE", "COST", "PROFIT"}, Rows: rows, Right: []int{1, 2, 3}}.Render())
	}

	if len(d.History) > 0 {
		b.WriteString("\n" + Header("History") + "\n")
		b.WriteString(historyTable(d.History, d.ChildSeries, m, limit))
	}

	b.WriteString("\n" + Header("Activity") + "\n")
	if len(d.Events) == 0 {
		b.WriteString(Dim("No transactions or valuations recorded.") + "\n")
	} else {
		b.WriteString(eventTable(d.Events, m, limit))
	}
	return b.String()
}

func historyTable(points []contract.HistoryPoint, series []contract.ChildSeries, m Money, limit int) string {
	start := 0
	if limit > 0 && len(points) > limit {
		start = len(points) - limit
	}

	headers := []string{"DATE", "VALUE", "COST", "PROFIT"}
	right := []int{1, 2, 3}
	for i, s := range series {
		headers = append(headers, strings.ToUpper(s.Name))
		right = append(right, 4+i)
	}

	rows := make([][]string, 0, len(points)-start)
	for i := len(points) - 1; i >= start; i-- {
		p := points[i]
		row := []string{
			Day(p.Date),
			m.Format(p.Value),
			m.Format(p.CostBasis),
			Percent(ProfitPercent(p.Value, p.CostBasis)),
		}
		for _, s := range series {
			cell := ""
			if i < len(s.Points) {
				cell = m.Format(s.Points[i].Value)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows, Right: right}.Render()
}

func eventTable(events []contract.EventRow, m Money, limit int) string {
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		what, amount := "", ""
		switch e.Kind {
		case domain.EventTransaction:
			what = strings.ToLower(string(e.Type))
			switch e.Type {
			case domain.TxDeposit:
				amount = StyleGreen.Render("+" + m.Format(e.Amount))
			case domain.TxWithdraw:
				amount = StyleRed.Render("−" + m.Format(e.Amount))
				if e.RealizedGain != nil {
					what += " " + Dim("gain ") + m.Signed(*e.RealizedGain)
				}
			}
		case domain.EventValuation:
			what = Dim("valuation")
		}

		balance := ""
		if e.PointInTimeValuation != nil {
			balance = m.Format(*e.PointInTimeValuation)
		} else if e.Kind == domain.EventValuation {
			balance = m.Format(e.Value)
		}

		rows = append(rows, []string{
			Day(e.OccurredAt),
			what,
			amount,
			balance,
			Percent(e.ProfitRatio),
			e.Memo,
			TruncID(e.RecordID),
		})
	}
	return Table{
		Headers: []string{"DATE", "EVENT", "AMOUNT", "BALANCE", "PROFIT", "MEMO", "ID"},
		Rows:    rows,
		Right:   []int{2, 3, 4},
	}.Render()
}

// FormatGlobalHistory renders the whole-portfolio series newest first, with
// one column per tag. limit caps the rows; zero shows all.
func FormatGlobalHistory(points []contract.GlobalPoint, m Money, limit int) string {
	if len(points) == 0 {
		return Dim("No history yet.") + "\n"
	}

	tagSet := make(map[string]bool)
	for _, p := range points {
		for tag := range p.Tags {
			tagSet[tag] = true
		}
	}
	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	headers := []string{"DATE", "ASSETS", "COST", "LIABILITIES", "NET WORTH"}
	right := []int{1, 2, 3, 4}
	for i, tag := range tags {
		headers = append(headers, "#"+strings.ToUpper(tag))
		right = append(right, 5+i)
	}

	start := 0
	if limit > 0 && len(points) > limit {
		start = len(points) - limit
	}
	rows := make([][]string, 0, len(points)-start)
	for i := len(points) - 1; i >= start; i-- {
		p := points[i]
		row := []string{
			Day(p.Date),
			m.Format(p.TotalAssets),
			m.Format(p.TotalCost),
			m.Format(p.TotalLiabilities),
			Bold(m.Format(p.NetWorth)),
		}
		for _, tag := range tags {
			v, ok := p.Tags[tag]
			if !ok {
				v = decimal.Zero
			}
			row = append(row, m.Format(v))
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows, Right: right}.Render()
}
