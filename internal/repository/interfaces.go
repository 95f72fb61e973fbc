package repository

import (
	"context"

	"github.com/alexanderramin/holdings/internal/domain"
)

type CategoryRepo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	// GetByName matches the name exactly. When several categories share a
	// name the oldest one wins.
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}

type TransactionRepo interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Transaction, error)
	ListAll(ctx context.Context) ([]*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}

type ValuationRepo interface {
	Create(ctx context.Context, v *domain.Valuation) error
	GetByID(ctx context.Context, id string) (*domain.Valuation, error)
	GetByTransaction(ctx context.Context, transactionID string) (*domain.Valuation, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Valuation, error)
	ListAll(ctx context.Context) ([]*domain.Valuation, error)
	Update(ctx context.Context, v *domain.Valuation) error
	Delete(ctx context.Context, id string) error
	DeleteByTransaction(ctx context.Context, transactionID string) (int64, error)
}
