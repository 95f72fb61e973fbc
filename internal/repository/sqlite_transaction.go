package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/holdings/internal/db"
	"github.com/alexanderramin/holdings/internal/domain"
)

const transactionColumns = `id, category_id, type, amount, realized_gain, transacted_at, memo, created_at`

// SQLiteTransactionRepo implements TransactionRepo using a SQLite database.
type SQLiteTransactionRepo struct {
	db db.DBTX
}

func NewSQLiteTransactionRepo(db db.DBTX) *SQLiteTransactionRepo {
	return &SQLiteTransactionRepo{db: db}
}

func (r *SQLiteTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.CategoryID,
		string(t.Type),
		t.Amount.String(),
		nullableDecimal(t.RealizedGain),
		formatTime(t.TransactedAt),
		t.Memo,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

func (r *SQLiteTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTransactionRepo) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE category_id = ? ORDER BY transacted_at, created_at`
	return r.list(ctx, query, categoryID)
}

func (r *SQLiteTransactionRepo) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transacted_at, created_at`
	return r.list(ctx, query)
}

func (r *SQLiteTransactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	query := `UPDATE transactions SET category_id = ?, type = ?, amount = ?, realized_gain = ?,
		transacted_at = ?, memo = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.CategoryID,
		string(t.Type),
		t.Amount.String(),
		nullableDecimal(t.RealizedGain),
		formatTime(t.TransactedAt),
		t.Memo,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	return expectOneRow(res, "transaction")
}

func (r *SQLiteTransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return expectOneRow(res, "transaction")
}

func (r *SQLiteTransactionRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	return out, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var typ, amount, transactedAt, createdAt string
	var gain sql.NullString

	err := s.Scan(&t.ID, &t.CategoryID, &typ, &amount, &gain, &transactedAt, &t.Memo, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning transaction: %w", err)
	}

	t.Type = domain.TransactionType(typ)
	if t.Amount, err = parseDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	if t.RealizedGain, err = parseNullableDecimal(gain, "realized_gain"); err != nil {
		return nil, err
	}
	if t.TransactedAt, err = parseTime(transactedAt, "transacted_at"); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
