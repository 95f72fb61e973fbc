package service

import "github.com/alexanderramin/holdings/internal/app"

// PortfolioService serves the read side: aggregates, drill-down detail and
// the global series. Every call fetches fresh records.
type PortfolioService interface {
	app.PortfolioUseCase
}

// RecordService writes transactions and valuations.
type RecordService interface {
	app.RecordUseCase
}

type CategoryService interface {
	app.CategoryUseCase
}

type ImportService interface {
	app.ImportUseCase
}
