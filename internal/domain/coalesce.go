package domain

import "github.com/shopspring/decimal"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecimalFromPtrWithDefault returns the first non-nil *decimal.Decimal value, or the fallback.
func DecimalFromPtrWithDefault(fallback decimal.Decimal, ptrs ...*decimal.Decimal) decimal.Decimal {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// MaxZero clamps d to be at least zero.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
