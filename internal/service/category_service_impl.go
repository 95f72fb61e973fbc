package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/db"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/repository"
	"github.com/google/uuid"
)

type categoryService struct {
	categories repository.CategoryRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewCategoryService(categories repository.CategoryRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CategoryService {
	return &categoryService{
		categories: categories,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func applyCategoryRequest(c *domain.Category, req app.CategoryRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Color = req.Color
	c.Order = req.Order
	c.ParentID = req.ParentID
	if c.ParentID != nil && *c.ParentID == "" {
		c.ParentID = nil
	}
	c.Tag = strings.TrimSpace(req.Tag)
	c.IsCash = req.IsCash
	c.IsLiability = req.IsLiability
	c.ValuationOrder = req.ValuationOrder
	c.IsValuationTarget = req.IsValuationTarget
}

func (s *categoryService) Create(ctx context.Context, req app.CategoryRequest) (c *domain.Category, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": req.Name}
	defer func() { observe(ctx, s.observer, "create-category", startedAt, fields, &err) }()

	now := time.Now().UTC()
	c = &domain.Category{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyCategoryRequest(c, req)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		cats := repository.NewSQLiteCategoryRepo(dbtx)
		if c.ParentID != nil {
			if _, err := cats.GetByID(ctx, *c.ParentID); err != nil {
				return err
			}
		}
		return cats.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req app.CategoryRequest) (c *domain.Category, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"category_id": id}
	defer func() { observe(ctx, s.observer, "update-category", startedAt, fields, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		cats := repository.NewSQLiteCategoryRepo(dbtx)

		existing, err := cats.GetByID(ctx, id)
		if err != nil {
			return err
		}
		applyCategoryRequest(existing, req)
		existing.UpdatedAt = time.Now().UTC()
		if err := existing.Validate(); err != nil {
			return err
		}
		if existing.ParentID != nil {
			if err := checkAncestry(ctx, cats, id, *existing.ParentID); err != nil {
				return err
			}
		}
		if err := cats.Update(ctx, existing); err != nil {
			return err
		}
		c = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// checkAncestry walks up from parentID and fails if it reaches id.
func checkAncestry(ctx context.Context, cats repository.CategoryRepo, id, parentID string) error {
	seen := map[string]bool{}
	for cur := parentID; cur != ""; {
		if cur == id {
			return domain.ErrParentCycle
		}
		if seen[cur] {
			return nil
		}
		seen[cur] = true

		p, err := cats.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		cur = p.ParentKey()
	}
	return nil
}

// Delete removes a category. Its records go with it; its children become
// roots.
func (s *categoryService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"category_id": id}
	defer func() { observe(ctx, s.observer, "delete-category", startedAt, fields, &err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		return repository.NewSQLiteCategoryRepo(dbtx).Delete(ctx, id)
	})
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Resolve(ctx context.Context, idOrName string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, idOrName)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.categories.GetByName(ctx, strings.TrimSpace(idOrName))
}

// ValuationTargets lists the categories offered for bulk valuation entry.
func (s *categoryService) ValuationTargets(ctx context.Context) ([]*domain.Category, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Category
	for _, c := range all {
		if c.IsValuationTarget {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ValuationOrder != out[j].ValuationOrder {
			return out[i].ValuationOrder < out[j].ValuationOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
