package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
)

// ValidatePortfolioSchema checks the schema before conversion and returns
// every problem found.
func ValidatePortfolioSchema(schema *PortfolioSchema) []error {
	var errs []error

	refs := make(map[string]bool)
	errs = append(errs, validateCategories(schema.Categories, refs)...)
	errs = append(errs, validateValuations(schema.Valuations, refs)...)
	errs = append(errs, validateTransactions(schema.Transactions, refs)...)

	return errs
}

func validateCategories(cats []CategoryImport, refs map[string]bool) []error {
	var errs []error

	if len(cats) == 0 {
		errs = append(errs, fmt.Errorf("categories: at least one category is required"))
	}

	for i, c := range cats {
		prefix := fmt.Sprintf("categories[%d]", i)

		if c.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[c.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, c.Ref))
		}

		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		if c.ParentRef != nil && *c.ParentRef != "" {
			if *c.ParentRef == c.Ref {
				errs = append(errs, fmt.Errorf("%s.parent_ref: category cannot be its own parent", prefix))
			} else if !refs[*c.ParentRef] {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in categories list)", prefix, *c.ParentRef))
			}
		}

		if c.Ref != "" {
			refs[c.Ref] = true
		}
	}

	return errs
}

func validateValuations(vals []ValuationImport, refs map[string]bool) []error {
	var errs []error

	for i, v := range vals {
		prefix := fmt.Sprintf("valuations[%d]", i)

		errs = append(errs, validateCategoryRef(prefix, v.CategoryRef, refs)...)
		errs = append(errs, validateDate(prefix+".date", v.Date)...)
	}

	return errs
}

func validateTransactions(txs []TransactionImport, refs map[string]bool) []error {
	var errs []error

	for i, t := range txs {
		prefix := fmt.Sprintf("transactions[%d]", i)

		errs = append(errs, validateCategoryRef(prefix, t.CategoryRef, refs)...)
		errs = append(errs, validateDate(prefix+".date", t.Date)...)

		typ := domain.TransactionType(strings.ToUpper(t.Type))
		if t.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		} else if !typ.Valid() {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, t.Type))
		}

		if t.Amount.IsNegative() {
			errs = append(errs, fmt.Errorf("%s.amount must not be negative", prefix))
		}
		if t.RealizedGain != nil && typ != domain.TxWithdraw {
			errs = append(errs, fmt.Errorf("%s.realized_gain is only allowed on WITHDRAW", prefix))
		}
	}

	return errs
}

func validateCategoryRef(prefix, ref string, refs map[string]bool) []error {
	if ref == "" {
		return []error{fmt.Errorf("%s.category_ref is required", prefix)}
	}
	if !refs[ref] {
		return []error{fmt.Errorf("%s.category_ref: ref %q not found in categories", prefix, ref)}
	}
	return nil
}

func validateDate(field, s string) []error {
	if s == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	if _, err := parseWhen(s); err != nil {
		return []error{fmt.Errorf("%s: invalid date %q (expected YYYY-MM-DD or RFC 3339)", field, s)}
	}
	return nil
}

// parseWhen accepts a calendar day or a full RFC 3339 timestamp.
func parseWhen(s string) (time.Time, error) {
	if t, err := domain.ParseDay(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
