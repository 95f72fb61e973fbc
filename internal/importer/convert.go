package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/google/uuid"
)

// Portfolio is a converted import, ready for persistence in slice order.
type Portfolio struct {
	Categories   []*domain.Category
	Transactions []*domain.Transaction
	Valuations   []*domain.Valuation
}

// Convert transforms a validated PortfolioSchema into domain objects with
// fresh ids. Call ValidatePortfolioSchema first; Convert assumes the schema
// is valid.
func Convert(schema *PortfolioSchema) (*Portfolio, error) {
	now := time.Now().UTC()
	out := &Portfolio{}

	refMap := make(map[string]string) // ref -> UUID

	for _, c := range schema.Categories {
		realID := uuid.New().String()
		refMap[c.Ref] = realID

		var parentID *string
		if c.ParentRef != nil && *c.ParentRef != "" {
			if pid, ok := refMap[*c.ParentRef]; ok {
				parentID = &pid
			}
		}

		out.Categories = append(out.Categories, &domain.Category{
			ID:                realID,
			Name:              strings.TrimSpace(c.Name),
			Color:             c.Color,
			Order:             c.Order,
			ParentID:          parentID,
			Tag:               c.Tag,
			IsCash:            c.IsCash,
			IsLiability:       c.IsLiability,
			ValuationOrder:    c.ValuationOrder,
			IsValuationTarget: c.IsValuationTarget,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	for i, t := range schema.Transactions {
		at, err := parseWhen(t.Date)
		if err != nil {
			return nil, fmt.Errorf("transactions[%d].date: %w", i, err)
		}
		catID, ok := refMap[t.CategoryRef]
		if !ok {
			return nil, fmt.Errorf("transactions[%d].category_ref: unknown ref %q", i, t.CategoryRef)
		}

		tx := &domain.Transaction{
			ID:           uuid.New().String(),
			CategoryID:   catID,
			Type:         domain.TransactionType(strings.ToUpper(t.Type)),
			Amount:       t.Amount,
			RealizedGain: t.RealizedGain,
			TransactedAt: at,
			Memo:         t.Memo,
			CreatedAt:    now,
		}
		out.Transactions = append(out.Transactions, tx)

		if t.ResultingValue != nil {
			txID := tx.ID
			out.Valuations = append(out.Valuations, &domain.Valuation{
				ID:            uuid.New().String(),
				CategoryID:    catID,
				CurrentValue:  *t.ResultingValue,
				RecordedAt:    at,
				TransactionID: &txID,
				CreatedAt:     now,
			})
		}
	}

	for i, v := range schema.Valuations {
		at, err := parseWhen(v.Date)
		if err != nil {
			return nil, fmt.Errorf("valuations[%d].date: %w", i, err)
		}
		catID, ok := refMap[v.CategoryRef]
		if !ok {
			return nil, fmt.Errorf("valuations[%d].category_ref: unknown ref %q", i, v.CategoryRef)
		}
		out.Valuations = append(out.Valuations, &domain.Valuation{
			ID:           uuid.New().String(),
			CategoryID:   catID,
			CurrentValue: v.Value,
			RecordedAt:   at,
			CreatedAt:    now,
		})
	}

	return out, nil
}
