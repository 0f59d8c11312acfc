package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLine(t *testing.T) {
	// quantity=2, unit_price=100.00, tax_rate=10 -> 200.00 / 20.00
	amounts := ComputeLine(dec("2"), dec("100.00"), dec("10"))

	assert.True(t, amounts.LineTotal.Equal(dec("200.00")), "line total = %s", amounts.LineTotal)
	assert.True(t, amounts.TaxAmount.Equal(dec("20.00")), "tax = %s", amounts.TaxAmount)
	assert.True(t, amounts.Total.Equal(dec("220.00")), "total = %s", amounts.Total)
}

func TestComputeLineRounding(t *testing.T) {
	// 3 * 3.333 = 9.999 -> 10.00, tax 7.5% of 10.00 = 0.75
	amounts := ComputeLine(dec("3"), dec("3.333"), dec("7.5"))
	assert.True(t, amounts.LineTotal.Equal(dec("10.00")))
	assert.True(t, amounts.TaxAmount.Equal(dec("0.75")))
}

func TestComputeLineZeroTax(t *testing.T) {
	amounts := ComputeLine(dec("5"), dec("19.99"), decimal.Zero)
	assert.True(t, amounts.LineTotal.Equal(dec("99.95")))
	assert.True(t, amounts.TaxAmount.IsZero())
	assert.True(t, amounts.Total.Equal(dec("99.95")))
}

func TestSumLinesMatchesLineFields(t *testing.T) {
	lines := []LineAmounts{
		ComputeLine(dec("2"), dec("100.00"), dec("10")),
		ComputeLine(dec("1"), dec("49.50"), dec("20")),
		ComputeLine(dec("4"), dec("0.25"), decimal.Zero),
	}

	totals := SumLines(lines)

	subtotal, tax, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
		tax = tax.Add(l.TaxAmount)
		total = total.Add(l.Total)
	}

	assert.True(t, totals.Subtotal.Equal(subtotal))
	assert.True(t, totals.TaxAmount.Equal(tax))
	assert.True(t, totals.TotalAmount.Equal(total))
	assert.True(t, totals.TotalAmount.Equal(totals.Subtotal.Add(totals.TaxAmount)))
}

func TestApplyDiscount(t *testing.T) {
	assert.True(t, ApplyDiscount(dec("200.00"), 10).Equal(dec("180.00")))
	assert.True(t, ApplyDiscount(dec("200.00"), 0).Equal(dec("200.00")))
	// Clamped to [0, 100]
	assert.True(t, ApplyDiscount(dec("200.00"), 150).IsZero())
	assert.True(t, ApplyDiscount(dec("200.00"), -5).Equal(dec("200.00")))
}
