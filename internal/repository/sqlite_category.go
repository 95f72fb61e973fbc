package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/holdings/internal/db"
	"github.com/alexanderramin/holdings/internal/domain"
)

const categoryColumns = `id, name, color, order_index, parent_id, tag, is_cash, is_liability,
	valuation_order, is_valuation_target, created_at, updated_at`

// SQLiteCategoryRepo implements CategoryRepo using a SQLite database.
type SQLiteCategoryRepo struct {
	db db.DBTX
}

func NewSQLiteCategoryRepo(db db.DBTX) *SQLiteCategoryRepo {
	return &SQLiteCategoryRepo{db: db}
}

func (r *SQLiteCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Color,
		c.Order,
		nullableString(c.ParentID),
		c.Tag,
		boolToInt(c.IsCash),
		boolToInt(c.IsLiability),
		c.ValuationOrder,
		boolToInt(c.IsValuationTarget),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func (r *SQLiteCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = ? ORDER BY created_at, id LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *SQLiteCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY order_index, created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

func (r *SQLiteCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name = ?, color = ?, order_index = ?, parent_id = ?, tag = ?,
		is_cash = ?, is_liability = ?, valuation_order = ?, is_valuation_target = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Color,
		c.Order,
		nullableString(c.ParentID),
		c.Tag,
		boolToInt(c.IsCash),
		boolToInt(c.IsLiability),
		c.ValuationOrder,
		boolToInt(c.IsValuationTarget),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return expectOneRow(res, "category")
}

// Delete removes a category. Its records go with it; its children become
// roots.
func (r *SQLiteCategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return expectOneRow(res, "category")
}

func (r *SQLiteCategoryRepo) scanOne(row *sql.Row) (*domain.Category, error) {
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category: %w", ErrNotFound)
	}
	return c, err
}

func scanCategory(s scanner) (*domain.Category, error) {
	var c domain.Category
	var parentID sql.NullString
	var isCash, isLiability, isTarget int
	var createdAt, updatedAt string

	err := s.Scan(
		&c.ID, &c.Name, &c.Color, &c.Order, &parentID, &c.Tag, &isCash, &isLiability,
		&c.ValuationOrder, &isTarget, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning category: %w", err)
	}

	c.ParentID = parseNullableString(parentID)
	c.IsCash = intToBool(isCash)
	c.IsLiability = intToBool(isLiability)
	c.IsValuationTarget = intToBool(isTarget)
	if c.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
