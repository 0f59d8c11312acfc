package money

import (
	"github.com/shopspring/decimal"
)

// LineAmounts holds the computed amounts for one document line
// (invoice, credit note, purchase or sales order).
type LineAmounts struct {
	LineTotal decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// DocumentTotals aggregates line amounts into header fields.
type DocumentTotals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeLine calculates line_total = quantity * unit_price and
// tax = line_total * tax_rate/100, both rounded to 2 decimal places.
func ComputeLine(quantity, unitPrice, taxRate decimal.Decimal) LineAmounts {
	lineTotal := quantity.Mul(unitPrice).Round(2)
	taxAmount := lineTotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	return LineAmounts{
		LineTotal: lineTotal,
		TaxAmount: taxAmount,
		Total:     lineTotal.Add(taxAmount),
	}
}

// SumLines folds line amounts into document header totals.
func SumLines(lines []LineAmounts) DocumentTotals {
	totals := DocumentTotals{
		Subtotal:    decimal.Zero,
		TaxAmount:   decimal.Zero,
		TotalAmount: decimal.Zero,
	}
	for _, l := range lines {
		totals.Subtotal = totals.Subtotal.Add(l.LineTotal)
		totals.TaxAmount = totals.TaxAmount.Add(l.TaxAmount)
		totals.TotalAmount = totals.TotalAmount.Add(l.Total)
	}
	return totals
}

// ApplyDiscount reduces a line total by a percentage in [0, 100],
// rounded to 2 decimal places. Out-of-range percentages are clamped.
func ApplyDiscount(lineTotal decimal.Decimal, percent float64) decimal.Decimal {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	factor := decimal.NewFromFloat(1 - percent/100)
	return lineTotal.Mul(factor).Round(2)
}
