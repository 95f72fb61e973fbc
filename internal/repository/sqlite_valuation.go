package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/holdings/internal/db"
	"github.com/alexanderramin/holdings/internal/domain"
)

const valuationColumns = `id, category_id, current_value, recorded_at, transaction_id, created_at`

// SQLiteValuationRepo implements ValuationRepo using a SQLite database.
type SQLiteValuationRepo struct {
	db db.DBTX
}

func NewSQLiteValuationRepo(db db.DBTX) *SQLiteValuationRepo {
	return &SQLiteValuationRepo{db: db}
}

func (r *SQLiteValuationRepo) Create(ctx context.Context, v *domain.Valuation) error {
	query := `INSERT INTO valuations (` + valuationColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.CategoryID,
		v.CurrentValue.String(),
		formatTime(v.RecordedAt),
		nullableString(v.TransactionID),
		formatTime(v.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting valuation: %w", err)
	}
	return nil
}

func (r *SQLiteValuationRepo) GetByID(ctx context.Context, id string) (*domain.Valuation, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteValuationRepo) GetByTransaction(ctx context.Context, transactionID string) (*domain.Valuation, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations WHERE transaction_id = ? LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, transactionID))
}

func (r *SQLiteValuationRepo) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Valuation, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations
		WHERE category_id = ? ORDER BY recorded_at, created_at`
	return r.list(ctx, query, categoryID)
}

func (r *SQLiteValuationRepo) ListAll(ctx context.Context) ([]*domain.Valuation, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuations ORDER BY recorded_at, created_at`
	return r.list(ctx, query)
}

func (r *SQLiteValuationRepo) Update(ctx context.Context, v *domain.Valuation) error {
	query := `UPDATE valuations SET category_id = ?, current_value = ?, recorded_at = ?, transaction_id = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		v.CategoryID,
		v.CurrentValue.String(),
		formatTime(v.RecordedAt),
		nullableString(v.TransactionID),
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating valuation: %w", err)
	}
	return expectOneRow(res, "valuation")
}

func (r *SQLiteValuationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM valuations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting valuation: %w", err)
	}
	return expectOneRow(res, "valuation")
}

// DeleteByTransaction removes the valuations paired with a transaction and
// returns how many were removed.
func (r *SQLiteValuationRepo) DeleteByTransaction(ctx context.Context, transactionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM valuations WHERE transaction_id = ?`, transactionID)
	if err != nil {
		return 0, fmt.Errorf("deleting paired valuations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting paired valuations: rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteValuationRepo) scanOne(row *sql.Row) (*domain.Valuation, error) {
	v, err := scanValuation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("valuation: %w", ErrNotFound)
	}
	return v, err
}

func (r *SQLiteValuationRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Valuation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing valuations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Valuation
	for rows.Next() {
		v, err := scanValuation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating valuations: %w", err)
	}
	return out, nil
}

func scanValuation(s scanner) (*domain.Valuation, error) {
	var v domain.Valuation
	var value, recordedAt, createdAt string
	var txID sql.NullString

	err := s.Scan(&v.ID, &v.CategoryID, &value, &recordedAt, &txID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning valuation: %w", err)
	}

	v.TransactionID = parseNullableString(txID)
	if v.CurrentValue, err = parseDecimal(value, "current_value"); err != nil {
		return nil, err
	}
	if v.RecordedAt, err = parseTime(recordedAt, "recorded_at"); err != nil {
		return nil, err
	}
	if v.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &v, nil
}
