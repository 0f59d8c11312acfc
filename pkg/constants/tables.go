package constants

import "strings"

// Table names. Every suite table carries the atlas_ prefix so the
// analytics allow-list can be derived mechanically.
const (
	TablePrefix = "atlas_"

	TableUser               = "atlas_users"
	TableCompany            = "atlas_companies"
	TableContact            = "atlas_contacts"
	TableActivity           = "atlas_activities"
	TableInvoice            = "atlas_invoices"
	TableInvoiceLine        = "atlas_invoice_lines"
	TableCreditNote         = "atlas_credit_notes"
	TableCreditNoteLine     = "atlas_credit_note_lines"
	TableRecurringTemplate  = "atlas_recurring_templates"
	TableJournalEntry       = "atlas_journal_entries"
	TableBankTransaction    = "atlas_bank_transactions"
	TableProduct            = "atlas_products"
	TableStockLevel         = "atlas_stock_levels"
	TablePurchaseOrder      = "atlas_purchase_orders"
	TablePurchaseOrderLine  = "atlas_purchase_order_lines"
	TableSalesOrder         = "atlas_sales_orders"
	TableSalesOrderLine     = "atlas_sales_order_lines"
	TableSubscription       = "atlas_subscriptions"
	TableEmployee           = "atlas_employees"
	TableProductionOrder    = "atlas_production_orders"
	TableProductionMaterial = "atlas_production_materials"
	TableProject            = "atlas_projects"
	TableTask               = "atlas_tasks"
	TablePricingRule        = "atlas_pricing_rules"
)

// IsSuiteTable reports whether a table name belongs to the suite schema.
func IsSuiteTable(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), TablePrefix)
}

// Common column names shared across tables
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldEmail        = "email"
	FieldStatus       = "status"
	FieldCreatedDate  = "created_date"
	FieldModifiedDate = "last_modified_date"
)

// DateTimeLayout is the MySQL datetime layout used for raw []byte scans.
const DateTimeLayout = "2006-01-02 15:04:05"
