package bootstrap

import (
	"fmt"
	"log"

	"github.com/atlaserp/backend/internal/infrastructure/database"
	"github.com/atlaserp/backend/pkg/constants"
)

// tableDefinitions holds the suite schema in creation order. Monetary
// columns are DECIMAL(15,2); rates and percentages DECIMAL(7,4).
var tableDefinitions = []struct {
	name string
	ddl  string
}{
	{constants.TableUser, `
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'standard',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_date DATETIME NOT NULL,
		last_login DATETIME NULL`},

	{constants.TableCompany, `
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		industry VARCHAR(128),
		website VARCHAR(255),
		annual_value DECIMAL(15,2) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL`},

	{constants.TableContact, `
		id VARCHAR(36) PRIMARY KEY,
		company_id VARCHAR(36),
		first_name VARCHAR(128) NOT NULL,
		last_name VARCHAR(128) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(64),
		title VARCHAR(128),
		response_rate DECIMAL(7,4) NOT NULL DEFAULT 0,
		content_engagement DECIMAL(7,4) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL,
		INDEX idx_contact_company (company_id)`},

	{constants.TableActivity, `
		id VARCHAR(36) PRIMARY KEY,
		contact_id VARCHAR(36) NOT NULL,
		type VARCHAR(32) NOT NULL,
		subject VARCHAR(255),
		sentiment VARCHAR(16) NOT NULL DEFAULT 'neutral',
		occurred_at DATETIME NOT NULL,
		created_date DATETIME NOT NULL,
		INDEX idx_activity_contact (contact_id, occurred_at)`},

	{constants.TableInvoice, `
		id VARCHAR(36) PRIMARY KEY,
		number VARCHAR(32) NOT NULL UNIQUE,
		company_id VARCHAR(36) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'draft',
		issue_date DATETIME NOT NULL,
		due_date DATETIME NOT NULL,
		subtotal DECIMAL(15,2) NOT NULL DEFAULT 0,
		tax_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		total_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL,
		INDEX idx_invoice_status (status),
		INDEX idx_invoice_company (company_id)`},

	{constants.TableInvoiceLine, `
		id VARCHAR(36) PRIMARY KEY,
		document_id VARCHAR(36) NOT NULL,
		product_id VARCHAR(36) NULL,
		description VARCHAR(512),
		quantity DECIMAL(15,4) NOT NULL,
		unit_price DECIMAL(15,2) NOT NULL,
		tax_rate DECIMAL(7,4) NOT NULL DEFAULT 0,
		line_total DECIMAL(15,2) NOT NULL,
		tax_amount DECIMAL(15,2) NOT NULL,
		INDEX idx_invoice_line_document (document_id)`},

	{constants.TableCreditNote, `
		id VARCHAR(36) PRIMARY KEY,
		number VARCHAR(32) NOT NULL UNIQUE,
		invoice_id VARCHAR(36) NOT NULL,
		company_id VARCHAR(36) NOT NULL,
		reason VARCHAR(512),
		subtotal DECIMAL(15,2) NOT NULL DEFAULT 0,
		tax_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		total_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		INDEX idx_credit_note_invoice (invoice_id)`},

	{constants.TableCreditNoteLine, `
		id VARCHAR(36) PRIMARY KEY,
		document_id VARCHAR(36) NOT NULL,
		product_id VARCHAR(36) NULL,
		description VARCHAR(512),
		quantity DECIMAL(15,4) NOT NULL,
		unit_price DECIMAL(15,2) NOT NULL,
		tax_rate DECIMAL(7,4) NOT NULL DEFAULT 0,
		line_total DECIMAL(15,2) NOT NULL,
		tax_amount DECIMAL(15,2) NOT NULL,
		INDEX idx_credit_note_line_document (document_id)`},

	{constants.TableRecurringTemplate, `
		id VARCHAR(36) PRIMARY KEY,
		company_id VARCHAR(36) NOT NULL,
		description VARCHAR(512) NOT NULL,
		schedule VARCHAR(64) NOT NULL,
		quantity DECIMAL(15,4) NOT NULL,
		unit_price DECIMAL(15,2) NOT NULL,
		tax_rate DECIMAL(7,4) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		next_run_at DATETIME NULL,
		last_run_at DATETIME NULL,
		created_date DATETIME NOT NULL,
		INDEX idx_template_due (is_active, next_run_at)`},

	{constants.TableJournalEntry, `
		id VARCHAR(36) PRIMARY KEY,
		account VARCHAR(128) NOT NULL,
		description VARCHAR(512),
		amount DECIMAL(15,2) NOT NULL,
		entry_date DATETIME NOT NULL,
		reconciled BOOLEAN NOT NULL DEFAULT FALSE,
		created_date DATETIME NOT NULL,
		INDEX idx_journal_entry_date (entry_date)`},

	{constants.TableBankTransaction, `
		id VARCHAR(36) PRIMARY KEY,
		reference VARCHAR(128),
		description VARCHAR(512),
		amount DECIMAL(15,2) NOT NULL,
		txn_date DATETIME NOT NULL,
		matched BOOLEAN NOT NULL DEFAULT FALSE,
		created_date DATETIME NOT NULL,
		INDEX idx_bank_txn_matched (matched)`},

	{constants.TableProduct, `
		id VARCHAR(36) PRIMARY KEY,
		sku VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		unit_cost DECIMAL(15,2) NOT NULL DEFAULT 0,
		unit_price DECIMAL(15,2) NOT NULL DEFAULT 0,
		annual_demand DECIMAL(15,2) NOT NULL DEFAULT 0,
		lead_time_days INT NOT NULL DEFAULT 0,
		safety_stock DECIMAL(15,2) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL`},

	{constants.TableStockLevel, `
		id VARCHAR(36) PRIMARY KEY,
		product_id VARCHAR(36) NOT NULL,
		location VARCHAR(128) NOT NULL,
		on_hand DECIMAL(15,2) NOT NULL DEFAULT 0,
		last_modified_date DATETIME NOT NULL,
		UNIQUE KEY uk_stock_product_location (product_id, location)`},

	{constants.TablePurchaseOrder, `
		id VARCHAR(36) PRIMARY KEY,
		number VARCHAR(32) NOT NULL UNIQUE,
		company_id VARCHAR(36) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'draft',
		order_date DATETIME NOT NULL,
		subtotal DECIMAL(15,2) NOT NULL DEFAULT 0,
		tax_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		total_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL,
		INDEX idx_purchase_order_status (status)`},

	{constants.TablePurchaseOrderLine, `
		id VARCHAR(36) PRIMARY KEY,
		order_id VARCHAR(36) NOT NULL,
		product_id VARCHAR(36) NULL,
		quantity DECIMAL(15,4) NOT NULL,
		unit_price DECIMAL(15,2) NOT NULL,
		tax_rate DECIMAL(7,4) NOT NULL DEFAULT 0,
		line_total DECIMAL(15,2) NOT NULL,
		tax_amount DECIMAL(15,2) NOT NULL,
		INDEX idx_purchase_order_line (order_id)`},

	{constants.TableSalesOrder, `
		id VARCHAR(36) PRIMARY KEY,
		number VARCHAR(32) NOT NULL UNIQUE,
		company_id VARCHAR(36) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'draft',
		order_date DATETIME NOT NULL,
		subtotal DECIMAL(15,2) NOT NULL DEFAULT 0,
		tax_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		total_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL,
		INDEX idx_sales_order_status (status)`},

	{constants.TableSalesOrderLine, `
		id VARCHAR(36) PRIMARY KEY,
		order_id VARCHAR(36) NOT NULL,
		product_id VARCHAR(36) NULL,
		quantity DECIMAL(15,4) NOT NULL,
		unit_price DECIMAL(15,2) NOT NULL,
		tax_rate DECIMAL(7,4) NOT NULL DEFAULT 0,
		line_total DECIMAL(15,2) NOT NULL,
		tax_amount DECIMAL(15,2) NOT NULL,
		INDEX idx_sales_order_line (order_id)`},

	{constants.TableSubscription, `
		id VARCHAR(36) PRIMARY KEY,
		company_id VARCHAR(36) NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		monthly_price DECIMAL(15,2) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		started_at DATETIME NOT NULL,
		cancelled_at DATETIME NULL,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL,
		INDEX idx_subscription_status (status)`},

	{constants.TableEmployee, `
		id VARCHAR(36) PRIMARY KEY,
		first_name VARCHAR(128) NOT NULL,
		last_name VARCHAR(128) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		department VARCHAR(128),
		position VARCHAR(128),
		hired_at DATETIME NOT NULL,
		terminated_at DATETIME NULL,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL,
		INDEX idx_employee_department (department)`},

	{constants.TableProductionOrder, `
		id VARCHAR(36) PRIMARY KEY,
		number VARCHAR(32) NOT NULL UNIQUE,
		product_id VARCHAR(36) NOT NULL,
		quantity DECIMAL(15,4) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'planned',
		material_cost DECIMAL(15,2) NOT NULL DEFAULT 0,
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL,
		INDEX idx_production_status (status)`},

	{constants.TableProductionMaterial, `
		id VARCHAR(36) PRIMARY KEY,
		order_id VARCHAR(36) NOT NULL,
		product_id VARCHAR(36) NOT NULL,
		quantity DECIMAL(15,4) NOT NULL,
		unit_cost DECIMAL(15,2) NOT NULL DEFAULT 0,
		INDEX idx_production_material (order_id)`},

	{constants.TableProject, `
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		company_id VARCHAR(36) NULL,
		description VARCHAR(1024),
		created_date DATETIME NOT NULL,
		last_modified_date DATETIME NOT NULL`},

	{constants.TableTask, `
		id VARCHAR(36) PRIMARY KEY,
		project_id VARCHAR(36) NOT NULL,
		title VARCHAR(255) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'open',
		assignee_id VARCHAR(36) NULL,
		due_date DATETIME NULL,
		created_date DATETIME NOT NULL,
		INDEX idx_task_project (project_id)`},

	{constants.TablePricingRule, `
		id VARCHAR(36) PRIMARY KEY,
		company_id VARCHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		expression VARCHAR(1024) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_date DATETIME NOT NULL,
		INDEX idx_pricing_rule_company (company_id, is_active)`},
}

// InitializeSchema creates all suite tables when they do not exist.
func InitializeSchema(db *database.Connection) error {
	for _, def := range tableDefinitions {
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
			def.name, def.ddl)
		if _, err := db.DB().Exec(ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", def.name, err)
		}
	}
	log.Printf("✅ Schema ready (%d tables)", len(tableDefinitions))
	return nil
}
