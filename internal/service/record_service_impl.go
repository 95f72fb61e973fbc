package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/db"
	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/alexanderramin/holdings/internal/repository"
	"github.com/google/uuid"
)

// ErrNoEntries is returned by a bulk update with nothing to write.
var ErrNoEntries = errors.New("no valuation entries")

type recordService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRecordService(uow db.UnitOfWork, observers ...UseCaseObserver) RecordService {
	return &recordService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func whenOrNow(at *time.Time) time.Time {
	if at == nil {
		return time.Now().UTC()
	}
	return at.UTC()
}

func (s *recordService) RecordTransaction(ctx context.Context, req app.RecordTransactionRequest) (result *app.RecordTransactionResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"category_id": req.CategoryID, "type": string(req.Type)}
	defer func() { observe(ctx, s.observer, "record-transaction", startedAt, fields, &err) }()

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:           uuid.New().String(),
		CategoryID:   req.CategoryID,
		Type:         req.Type,
		Amount:       req.Amount,
		RealizedGain: req.RealizedGain,
		TransactedAt: whenOrNow(req.At),
		Memo:         req.Memo,
		CreatedAt:    now,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	result = &app.RecordTransactionResult{Transaction: tx}
	if req.ResultingValue != nil {
		txID := tx.ID
		result.Valuation = &domain.Valuation{
			ID:            uuid.New().String(),
			CategoryID:    tx.CategoryID,
			CurrentValue:  *req.ResultingValue,
			RecordedAt:    tx.TransactedAt,
			TransactionID: &txID,
			CreatedAt:     now,
		}
		if err := result.Valuation.Validate(); err != nil {
			return nil, err
		}
	}
	fields["paired"] = result.Valuation != nil

	err = s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		if _, err := repository.NewSQLiteCategoryRepo(dbtx).GetByID(ctx, tx.CategoryID); err != nil {
			return err
		}
		if err := repository.NewSQLiteTransactionRepo(dbtx).Create(ctx, tx); err != nil {
			return err
		}
		if result.Valuation != nil {
			return repository.NewSQLiteValuationRepo(dbtx).Create(ctx, result.Valuation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *recordService) UpdateTransaction(ctx context.Context, req app.UpdateTransactionRequest) (result *app.RecordTransactionResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"transaction_id": req.ID}
	defer func() { observe(ctx, s.observer, "update-transaction", startedAt, fields, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		txs := repository.NewSQLiteTransactionRepo(dbtx)
		vals := repository.NewSQLiteValuationRepo(dbtx)

		tx, err := txs.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if req.Amount != nil {
			tx.Amount = *req.Amount
		}
		if req.RealizedGain != nil {
			tx.RealizedGain = req.RealizedGain
		}
		if req.At != nil {
			tx.TransactedAt = req.At.UTC()
		}
		if req.Memo != nil {
			tx.Memo = *req.Memo
		}
		if err := tx.Validate(); err != nil {
			return err
		}
		if err := txs.Update(ctx, tx); err != nil {
			return err
		}
		result = &app.RecordTransactionResult{Transaction: tx}

		paired, err := vals.GetByTransaction(ctx, tx.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			paired = nil
		case err != nil:
			return err
		}

		if paired == nil {
			if req.ResultingValue == nil {
				return nil
			}
			txID := tx.ID
			paired = &domain.Valuation{
				ID:            uuid.New().String(),
				CategoryID:    tx.CategoryID,
				CurrentValue:  *req.ResultingValue,
				RecordedAt:    tx.TransactedAt,
				TransactionID: &txID,
				CreatedAt:     time.Now().UTC(),
			}
			if err := paired.Validate(); err != nil {
				return err
			}
			result.Valuation = paired
			return vals.Create(ctx, paired)
		}

		// An existing paired valuation follows the transaction's date.
		paired.RecordedAt = tx.TransactedAt
		if req.ResultingValue != nil {
			paired.CurrentValue = *req.ResultingValue
		}
		if err := paired.Validate(); err != nil {
			return err
		}
		result.Valuation = paired
		return vals.Update(ctx, paired)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTransaction removes a transaction and its paired valuation in one
// unit of work.
func (s *recordService) DeleteTransaction(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"transaction_id": id}
	defer func() { observe(ctx, s.observer, "delete-transaction", startedAt, fields, &err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		n, err := repository.NewSQLiteValuationRepo(dbtx).DeleteByTransaction(ctx, id)
		if err != nil {
			return err
		}
		fields["paired_deleted"] = n
		return repository.NewSQLiteTransactionRepo(dbtx).Delete(ctx, id)
	})
}

func (s *recordService) RecordValuation(ctx context.Context, req app.RecordValuationRequest) (v *domain.Valuation, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"category_id": req.CategoryID}
	defer func() { observe(ctx, s.observer, "record-valuation", startedAt, fields, &err) }()

	v = &domain.Valuation{
		ID:           uuid.New().String(),
		CategoryID:   req.CategoryID,
		CurrentValue: req.Value,
		RecordedAt:   whenOrNow(req.At),
		CreatedAt:    time.Now().UTC(),
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		if _, err := repository.NewSQLiteCategoryRepo(dbtx).GetByID(ctx, v.CategoryID); err != nil {
			return err
		}
		return repository.NewSQLiteValuationRepo(dbtx).Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *recordService) DeleteValuation(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"valuation_id": id}
	defer func() { observe(ctx, s.observer, "delete-valuation", startedAt, fields, &err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		return repository.NewSQLiteValuationRepo(dbtx).Delete(ctx, id)
	})
}

// BulkRecordValuations writes every entry at the same timestamp, all or
// nothing.
func (s *recordService) BulkRecordValuations(ctx context.Context, req app.BulkValuationRequest) (out []*domain.Valuation, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entry_count": len(req.Entries)}
	defer func() { observe(ctx, s.observer, "bulk-record-valuations", startedAt, fields, &err) }()

	if len(req.Entries) == 0 {
		return nil, ErrNoEntries
	}

	at := whenOrNow(req.At)
	now := time.Now().UTC()
	for i, e := range req.Entries {
		v := &domain.Valuation{
			ID:           uuid.New().String(),
			CategoryID:   e.CategoryID,
			CurrentValue: e.Value,
			RecordedAt:   at,
			CreatedAt:    now,
		}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, v)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		cats := repository.NewSQLiteCategoryRepo(dbtx)
		vals := repository.NewSQLiteValuationRepo(dbtx)
		for i, v := range out {
			if _, err := cats.GetByID(ctx, v.CategoryID); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			if err := vals.Create(ctx, v); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
