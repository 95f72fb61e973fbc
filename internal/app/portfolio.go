package app

import (
	"errors"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrDataUnavailable wraps every record store failure on a read path. No
// partial result accompanies it.
var ErrDataUnavailable = errors.New("cannot fetch current data")

// AggregatedCategory is one row of the consolidated category list.
type AggregatedCategory struct {
	ID       string
	Name     string
	Color    string
	ParentID string // "" for roots, orphans and cycle breaks
	Depth    int
	Tag      string

	IsCash      bool
	IsLiability bool

	CurrentValue   decimal.Decimal
	CostBasis      decimal.Decimal
	DailyChange    decimal.Decimal
	OwnValue       decimal.Decimal
	OwnCostBasis   decimal.Decimal
	OwnDailyChange decimal.Decimal
	LiabilityValue decimal.Decimal
}

func (a AggregatedCategory) UnrealizedProfit() decimal.Decimal {
	return a.CurrentValue.Sub(a.CostBasis)
}

// PortfolioSummary is the category list plus portfolio-wide totals.
type PortfolioSummary struct {
	Categories       []AggregatedCategory
	TotalAssets      decimal.Decimal
	TotalCost        decimal.Decimal
	TotalLiabilities decimal.Decimal
	DailyChange      decimal.Decimal
	NetWorth         decimal.Decimal
}

type HistoryPoint struct {
	Date      time.Time
	Value     decimal.Decimal
	CostBasis decimal.Decimal
}

// ChildSeries is one direct child's contribution to a merged history.
type ChildSeries struct {
	CategoryID string
	Name       string
	Points     []HistoryPoint
}

// EventRow is a transaction or valuation in a category's activity list.
type EventRow struct {
	ID         string
	RecordID   string
	Kind       domain.EventKind
	CategoryID string
	OccurredAt time.Time

	Type         domain.TransactionType
	Amount       decimal.Decimal
	RealizedGain *decimal.Decimal
	Memo         string
	Value        decimal.Decimal

	PointInTimeValuation *decimal.Decimal
	ProfitRatio          *decimal.Decimal
}

// CategoryDetail is the drill-down view of one category.
type CategoryDetail struct {
	Category         domain.Category
	CurrentValue     decimal.Decimal
	CostBasis        decimal.Decimal
	DailyChange      decimal.Decimal
	UnrealizedProfit decimal.Decimal

	// History is the category's own series when it has no children and the
	// merged series of its descendants otherwise.
	History     []HistoryPoint
	Children    []AggregatedCategory
	ChildSeries []ChildSeries
	Events      []EventRow
}

// GlobalPoint is one day of the whole-portfolio series.
type GlobalPoint struct {
	Date             time.Time
	TotalAssets      decimal.Decimal
	TotalCost        decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	Tags             map[string]decimal.Decimal
}
