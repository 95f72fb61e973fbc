package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/repository"
	"github.com/alexanderramin/holdings/internal/valuation"
)

type portfolioService struct {
	categories   repository.CategoryRepo
	valuations   repository.ValuationRepo
	transactions repository.TransactionRepo
	observer     UseCaseObserver
	now          func() time.Time
}

func NewPortfolioService(
	categories repository.CategoryRepo,
	valuations repository.ValuationRepo,
	transactions repository.TransactionRepo,
	observers ...UseCaseObserver,
) PortfolioService {
	return &portfolioService{
		categories:   categories,
		valuations:   valuations,
		transactions: transactions,
		observer:     useCaseObserverOrNoop(observers),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// snapshot is one consistent fetch of every record.
type snapshot struct {
	tree    *valuation.Tree
	records map[string]valuation.Records
}

func (s *portfolioService) load(ctx context.Context) (*snapshot, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading categories: %w", app.ErrDataUnavailable, err)
	}
	vals, err := s.valuations.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading valuations: %w", app.ErrDataUnavailable, err)
	}
	txs, err := s.transactions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading transactions: %w", app.ErrDataUnavailable, err)
	}

	flat := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		flat = append(flat, *c)
	}

	records := make(map[string]valuation.Records, len(cats))
	for _, v := range vals {
		r := records[v.CategoryID]
		r.Valuations = append(r.Valuations, *v)
		records[v.CategoryID] = r
	}
	for _, t := range txs {
		r := records[t.CategoryID]
		r.Transactions = append(r.Transactions, *t)
		records[t.CategoryID] = r
	}

	return &snapshot{tree: valuation.NewTree(flat), records: records}, nil
}

// history reconstructs one category's own series.
func (s *portfolioService) history(snap *snapshot, n valuation.Node) []valuation.Point {
	recs := snap.records[n.Category.ID]
	own := valuation.OwnFigures(n.Category, recs)
	return valuation.Reconstruct(valuation.HistoryInput{
		IsCash:       n.Category.IsCash,
		CurrentValue: own.Value,
		Today:        s.now(),
		Valuations:   recs.Valuations,
		Transactions: recs.Transactions,
	})
}

func (s *portfolioService) histories(snap *snapshot, ids []string) map[string][]valuation.Point {
	out := make(map[string][]valuation.Point, len(ids))
	for _, id := range ids {
		n, ok := snap.tree.Node(id)
		if !ok {
			continue
		}
		out[id] = s.history(snap, n)
	}
	return out
}

func (s *portfolioService) AggregatedCategories(ctx context.Context) (rows []app.AggregatedCategory, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "aggregated-categories", startedAt, fields, &err) }()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	aggs := valuation.AggregateTree(snap.tree, snap.records)
	fields["category_count"] = len(aggs)
	return toAggregatedCategories(aggs), nil
}

func (s *portfolioService) Summary(ctx context.Context) (summary *app.PortfolioSummary, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "summary", startedAt, fields, &err) }()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	aggs := valuation.AggregateTree(snap.tree, snap.records)
	totals := valuation.SumRoots(aggs)
	fields["category_count"] = len(aggs)

	return &app.PortfolioSummary{
		Categories:       toAggregatedCategories(aggs),
		TotalAssets:      totals.Assets,
		TotalCost:        totals.Cost,
		TotalLiabilities: totals.Liabilities,
		DailyChange:      totals.DailyChange,
		NetWorth:         totals.NetWorth,
	}, nil
}

func (s *portfolioService) CategoryDetail(ctx context.Context, categoryID string) (detail *app.CategoryDetail, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"category_id": categoryID}
	defer func() { observe(ctx, s.observer, "category-detail", startedAt, fields, &err) }()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := snap.tree.Node(categoryID)
	if !ok {
		return nil, fmt.Errorf("category %s: %w", categoryID, repository.ErrNotFound)
	}

	aggs := valuation.AggregateTree(snap.tree, snap.records)
	byID := make(map[string]valuation.Aggregate, len(aggs))
	for _, a := range aggs {
		byID[a.Category.ID] = a
	}
	self := byID[categoryID]

	members := snap.tree.Consolidated(categoryID)
	hist := s.histories(snap, append([]string{categoryID}, members...))
	merged := valuation.MergeHistories(snap.tree, categoryID, hist)
	fields["member_count"] = len(members)

	// Headline figures always come from the aggregator so a category reads
	// the same here as in the summary. The merged series can end elsewhere:
	// it derives values from flows recorded after the latest valuation.
	detail = &app.CategoryDetail{
		Category:         node.Category,
		CurrentValue:     self.CurrentValue,
		CostBasis:        self.CostBasis,
		UnrealizedProfit: self.UnrealizedProfit(),
		DailyChange:      self.DailyChange,
		History:          toHistoryPoints(merged.Points),
	}

	for _, childID := range snap.tree.Children(categoryID) {
		detail.Children = append(detail.Children, toAggregatedCategory(byID[childID]))
	}
	for _, series := range merged.Breakdown {
		n, _ := snap.tree.Node(series.CategoryID)
		detail.ChildSeries = append(detail.ChildSeries, app.ChildSeries{
			CategoryID: series.CategoryID,
			Name:       n.Category.Name,
			Points:     toHistoryPoints(series.Points),
		})
	}

	// Every row is annotated against the viewed category's merged series.
	var events []valuation.EventRow
	for _, id := range append([]string{categoryID}, members...) {
		recs := snap.records[id]
		events = append(events, valuation.MergeEvents(recs.Transactions, recs.Valuations, merged.Points)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})
	detail.Events = toEventRows(events)
	fields["event_count"] = len(detail.Events)

	return detail, nil
}

func (s *portfolioService) GlobalHistory(ctx context.Context) (points []app.GlobalPoint, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "global-history", startedAt, fields, &err) }()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, snap.tree.Len())
	for _, n := range snap.tree.Nodes() {
		ids = append(ids, n.Category.ID)
	}
	series := valuation.GlobalSeries(snap.tree, s.histories(snap, ids))
	fields["point_count"] = len(series)

	points = make([]app.GlobalPoint, 0, len(series))
	for _, p := range series {
		points = append(points, app.GlobalPoint{
			Date:             p.Date,
			TotalAssets:      p.TotalAssets,
			TotalCost:        p.TotalCost,
			TotalLiabilities: p.TotalLiabilities,
			NetWorth:         p.NetWorth,
			Tags:             p.Tags,
		})
	}
	return points, nil
}

func toAggregatedCategories(aggs []valuation.Aggregate) []app.AggregatedCategory {
	out := make([]app.AggregatedCategory, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, toAggregatedCategory(a))
	}
	return out
}

func toAggregatedCategory(a valuation.Aggregate) app.AggregatedCategory {
	return app.AggregatedCategory{
		ID:             a.Category.ID,
		Name:           a.Category.Name,
		Color:          a.Category.Color,
		ParentID:       a.ParentID,
		Depth:          a.Depth,
		Tag:            a.Category.Tag,
		IsCash:         a.Category.IsCash,
		IsLiability:    a.Category.IsLiability,
		CurrentValue:   a.CurrentValue,
		CostBasis:      a.CostBasis,
		DailyChange:    a.DailyChange,
		OwnValue:       a.OwnValue,
		OwnCostBasis:   a.OwnCostBasis,
		OwnDailyChange: a.OwnDailyChange,
		LiabilityValue: a.LiabilityValue,
	}
}

func toHistoryPoints(points []valuation.Point) []app.HistoryPoint {
	out := make([]app.HistoryPoint, 0, len(points))
	for _, p := range points {
		out = append(out, app.HistoryPoint{Date: p.Date, Value: p.Value, CostBasis: p.Cost})
	}
	return out
}

func toEventRows(rows []valuation.EventRow) []app.EventRow {
	out := make([]app.EventRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, app.EventRow{
			ID:                   r.ID,
			RecordID:             r.RecordID,
			Kind:                 r.Kind,
			CategoryID:           r.CategoryID,
			OccurredAt:           r.OccurredAt,
			Type:                 r.Type,
			Amount:               r.Amount,
			RealizedGain:         r.RealizedGain,
			Memo:                 r.Memo,
			Value:                r.Value,
			PointInTimeValuation: r.PointInTimeValuation,
			ProfitRatio:          r.ProfitRatio,
		})
	}
	return out
}
