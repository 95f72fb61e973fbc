package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// PortfolioSchema is the top-level JSON structure for a portfolio import.
type PortfolioSchema struct {
	Categories   []CategoryImport    `json:"categories"`
	Valuations   []ValuationImport   `json:"valuations,omitempty"`
	Transactions []TransactionImport `json:"transactions,omitempty"`
}

// CategoryImport defines a category in the import file. Children reference
// their parent by ref; the parent must appear earlier in the list.
type CategoryImport struct {
	Ref               string  `json:"ref"`
	ParentRef         *string `json:"parent_ref,omitempty"`
	Name              string  `json:"name"`
	Color             string  `json:"color,omitempty"`
	Order             int     `json:"order"`
	Tag               string  `json:"tag,omitempty"`
	IsCash            bool    `json:"is_cash,omitempty"`
	IsLiability       bool    `json:"is_liability,omitempty"`
	ValuationOrder    int     `json:"valuation_order,omitempty"`
	IsValuationTarget bool    `json:"is_valuation_target,omitempty"`
}

// ValuationImport defines a standalone valuation. Amounts accept JSON
// numbers or quoted decimal strings.
type ValuationImport struct {
	CategoryRef string          `json:"category_ref"`
	Date        string          `json:"date"`
	Value       decimal.Decimal `json:"value"`
}

// TransactionImport defines a transaction. A resulting_value becomes a
// valuation paired with the transaction.
type TransactionImport struct {
	CategoryRef    string           `json:"category_ref"`
	Type           string           `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	RealizedGain   *decimal.Decimal `json:"realized_gain,omitempty"`
	Date           string           `json:"date"`
	Memo           string           `json:"memo,omitempty"`
	ResultingValue *decimal.Decimal `json:"resulting_value,omitempty"`
}

// LoadPortfolioSchema reads and parses a portfolio import JSON file.
func LoadPortfolioSchema(path string) (*PortfolioSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema PortfolioSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
