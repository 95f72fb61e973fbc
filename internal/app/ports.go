package app

import (
	"context"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/importer"
)

type PortfolioUseCase interface {
	AggregatedCategories(ctx context.Context) ([]AggregatedCategory, error)
	Summary(ctx context.Context) (*PortfolioSummary, error)
	CategoryDetail(ctx context.Context, categoryID string) (*CategoryDetail, error)
	GlobalHistory(ctx context.Context) ([]GlobalPoint, error)
}

type RecordUseCase interface {
	RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*RecordTransactionResult, error)
	UpdateTransaction(ctx context.Context, req UpdateTransactionRequest) (*RecordTransactionResult, error)
	DeleteTransaction(ctx context.Context, id string) error
	RecordValuation(ctx context.Context, req RecordValuationRequest) (*domain.Valuation, error)
	DeleteValuation(ctx context.Context, id string) error
	BulkRecordValuations(ctx context.Context, req BulkValuationRequest) ([]*domain.Valuation, error)
}

type CategoryUseCase interface {
	Create(ctx context.Context, req CategoryRequest) (*domain.Category, error)
	Update(ctx context.Context, id string, req CategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Category, error)
	// Resolve finds a category by id, falling back to an exact name match.
	Resolve(ctx context.Context, idOrName string) (*domain.Category, error)
	ValuationTargets(ctx context.Context) ([]*domain.Category, error)
}

type ImportUseCase interface {
	ImportPortfolio(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPortfolioFromSchema(ctx context.Context, schema *importer.PortfolioSchema) (*ImportResult, error)
}
