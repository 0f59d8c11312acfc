package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a purchase or sales order header; the two share shape and
// line arithmetic and differ only in table and status vocabulary.
type Order struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	CompanyID    string          `json:"company_id"`
	Status       string          `json:"status"`
	OrderDate    time.Time       `json:"order_date"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Lines        []OrderLine     `json:"lines,omitempty"`
	CreatedDate  time.Time       `json:"created_date"`
	ModifiedDate time.Time       `json:"last_modified_date"`
}

// OrderLine is one priced row on an order.
type OrderLine struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	LineTotal decimal.Decimal `json:"line_total"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}
