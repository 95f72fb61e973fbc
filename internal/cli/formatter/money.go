package formatter

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money formats decimal amounts in one currency.
type Money struct {
	code string
	cur  *money.Currency // nil for codes go-money does not know
}

// NewMoney returns a formatter for the ISO 4217 code.
func NewMoney(code string) Money {
	return Money{code: code, cur: money.GetCurrency(code)}
}

// Code returns the currency code.
func (m Money) Code() string { return m.code }

// Format renders v with the currency's symbol, grouping and fraction digits.
// Unknown currencies fall back to two decimals and the code.
func (m Money) Format(v decimal.Decimal) string {
	if m.cur == nil {
		return v.StringFixed(2) + " " + m.code
	}
	minor := v.Shift(int32(m.cur.Fraction)).Round(0)
	return m.cur.Formatter().Format(minor.IntPart())
}

// Signed renders v with an explicit plus sign for gains, colored by sign.
func (m Money) Signed(v decimal.Decimal) string {
	text := m.Format(v)
	if v.IsPositive() {
		text = "+" + text
	}
	return SignStyle(v).Render(text)
}

// Percent renders a ratio already expressed in percent, or a dash when nil.
func Percent(p *decimal.Decimal) string {
	if p == nil {
		return Dim("–")
	}
	text := p.StringFixed(2) + "%"
	if p.IsPositive() {
		text = "+" + text
	}
	return SignStyle(*p).Render(text)
}

// ProfitPercent returns (value - cost) / cost in percent, nil when cost is
// not positive.
func ProfitPercent(value, cost decimal.Decimal) *decimal.Decimal {
	if !cost.IsPositive() {
		return nil
	}
	p := value.Sub(cost).Div(cost).Mul(hundred).Round(2)
	return &p
}
