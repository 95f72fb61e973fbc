package contract

import "github.com/alexanderramin/holdings/internal/app"

var ErrDataUnavailable = app.ErrDataUnavailable

type AggregatedCategory = app.AggregatedCategory

type PortfolioSummary = app.PortfolioSummary

type HistoryPoint = app.HistoryPoint

type ChildSeries = app.ChildSeries

type EventRow = app.EventRow

type CategoryDetail = app.CategoryDetail

type GlobalPoint = app.GlobalPoint
