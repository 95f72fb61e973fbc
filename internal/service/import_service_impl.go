package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/db"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/importer"
	"github.com/alexanderramin/holdings/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportPortfolio(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadPortfolioSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportPortfolioFromSchema(ctx context.Context, schema *importer.PortfolioSchema) (*app.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.PortfolioSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "import-portfolio", startedAt, fields, &err) }()

	if errs := importer.ValidatePortfolioSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		cats := repository.NewSQLiteCategoryRepo(dbtx)
		txs := repository.NewSQLiteTransactionRepo(dbtx)
		vals := repository.NewSQLiteValuationRepo(dbtx)

		for _, c := range generated.Categories {
			if err := cats.Create(ctx, c); err != nil {
				return fmt.Errorf("creating category %q: %w", c.Name, err)
			}
		}
		// Transactions go first so paired valuations can reference them.
		for _, t := range generated.Transactions {
			if err := txs.Create(ctx, t); err != nil {
				return fmt.Errorf("creating transaction on %s: %w", t.Day().Format(domain.DayLayout), err)
			}
		}
		for _, v := range generated.Valuations {
			if err := vals.Create(ctx, v); err != nil {
				return fmt.Errorf("creating valuation on %s: %w", v.Day().Format(domain.DayLayout), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &app.ImportResult{
		CategoryCount:    len(generated.Categories),
		ValuationCount:   len(generated.Valuations),
		TransactionCount: len(generated.Transactions),
	}
	fields["category_count"] = result.CategoryCount
	fields["valuation_count"] = result.ValuationCount
	fields["transaction_count"] = result.TransactionCount
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
