package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing document header. Monetary fields are sums over
// the document's lines.
type Invoice struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	CompanyID    string          `json:"company_id"`
	Status       string          `json:"status"`
	IssueDate    time.Time       `json:"issue_date"`
	DueDate      time.Time       `json:"due_date"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Lines        []InvoiceLine   `json:"lines,omitempty"`
	CreatedDate  time.Time       `json:"created_date"`
	ModifiedDate time.Time       `json:"last_modified_date"`
}

// InvoiceLine is one priced row on an invoice or credit note.
type InvoiceLine struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"document_id"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// CreditNote reverses all or part of an invoice.
type CreditNote struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	InvoiceID   string          `json:"invoice_id"`
	CompanyID   string          `json:"company_id"`
	Reason      string          `json:"reason,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []InvoiceLine   `json:"lines,omitempty"`
	CreatedDate time.Time       `json:"created_date"`
}

// RecurringTemplate materializes invoices on a cron schedule.
type RecurringTemplate struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Description string          `json:"description"`
	Schedule    string          `json:"schedule"` // cron expression
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	IsActive    bool            `json:"is_active"`
	NextRunAt   *time.Time      `json:"next_run_at,omitempty"`
	LastRunAt   *time.Time      `json:"last_run_at,omitempty"`
	CreatedDate time.Time       `json:"created_date"`
}

// PricingRule is an expr-lang expression evaluated against an invoice
// line environment; it yields a discount percentage in [0, 100].
type PricingRule struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Expression  string    `json:"expression"`
	IsActive    bool      `json:"is_active"`
	CreatedDate time.Time `json:"created_date"`
}

// InvoiceAnalytics summarizes the module for dashboards.
type InvoiceAnalytics struct {
	CountByStatus map[string]int             `json:"count_by_status"`
	TotalByStatus map[string]decimal.Decimal `json:"total_by_status"`
	Aging         AgingBuckets               `json:"aging"`
}

// AgingBuckets groups unpaid invoice totals by days past due.
type AgingBuckets struct {
	Current    decimal.Decimal `json:"current"`
	Days1To30  decimal.Decimal `json:"days_1_30"`
	Days31To60 decimal.Decimal `json:"days_31_60"`
	Days61To90 decimal.Decimal `json:"days_61_90"`
	DaysOver90 decimal.Decimal `json:"days_over_90"`
}
