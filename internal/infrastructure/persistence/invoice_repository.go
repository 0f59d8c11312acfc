package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

// InvoiceRepository persists invoices, credit notes, recurring
// templates and pricing rules.
type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// InsertInvoice writes the header and all lines in one transaction so
// a partial document can never be observed.
func (r *InvoiceRepository) InsertInvoice(ctx context.Context, inv *models.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (id, number, company_id, status, issue_date, due_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableInvoice)
	if _, err := tx.ExecContext(ctx, headerQuery,
		inv.ID, inv.Number, inv.CompanyID, inv.Status, inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.CreatedDate, inv.ModifiedDate); err != nil {
		return err
	}

	lineQuery := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, product_id, description, quantity, unit_price,
			tax_rate, line_total, tax_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableInvoiceLine)
	for _, line := range inv.Lines {
		if _, err := tx.ExecContext(ctx, lineQuery,
			line.ID, line.DocumentID, line.ProductID, line.Description, line.Quantity,
			line.UnitPrice, line.TaxRate, line.LineTotal, line.TaxAmount); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *InvoiceRepository) FindInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT id, number, company_id, status, issue_date, due_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date
		FROM %s WHERE %s = ?`, constants.TableInvoice, constants.FieldID)

	var inv models.Invoice
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.CompanyID, &inv.Status, &inv.IssueDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.CreatedDate, &inv.ModifiedDate)
	if err != nil {
		return nil, err
	}

	lines, err := r.findLines(ctx, constants.TableInvoiceLine, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return &inv, nil
}

func (r *InvoiceRepository) findLines(ctx context.Context, table, documentID string) ([]models.InvoiceLine, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, product_id, description, quantity, unit_price,
			tax_rate, line_total, tax_amount
		FROM %s WHERE document_id = ?`, table)

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]models.InvoiceLine, 0)
	for rows.Next() {
		var l models.InvoiceLine
		var productID sql.NullString
		if err := rows.Scan(&l.ID, &l.DocumentID, &productID, &l.Description, &l.Quantity,
			&l.UnitPrice, &l.TaxRate, &l.LineTotal, &l.TaxAmount); err != nil {
			return nil, err
		}
		l.ProductID = productID.String
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *InvoiceRepository) FindInvoices(ctx context.Context, status string, limit, offset int) ([]*models.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT id, number, company_id, status, issue_date, due_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date
		FROM %s`, constants.TableInvoice)
	args := []interface{}{}
	if status != "" {
		query += fmt.Sprintf(" WHERE %s = ?", constants.FieldStatus)
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT ? OFFSET ?", constants.FieldCreatedDate)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]*models.Invoice, 0)
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.CompanyID, &inv.Status, &inv.IssueDate, &inv.DueDate,
			&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.CreatedDate, &inv.ModifiedDate); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) UpdateInvoiceStatus(ctx context.Context, id, status string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
		constants.TableInvoice, constants.FieldStatus, constants.FieldModifiedDate, constants.FieldID)
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *InvoiceRepository) DeleteInvoice(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lineQuery := fmt.Sprintf("DELETE FROM %s WHERE document_id = ?", constants.TableInvoiceLine)
	if _, err := tx.ExecContext(ctx, lineQuery, id); err != nil {
		return err
	}
	headerQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableInvoice, constants.FieldID)
	if _, err := tx.ExecContext(ctx, headerQuery, id); err != nil {
		return err
	}

	return tx.Commit()
}

// ---- analytics ----

// CountTotalsByStatus returns invoice counts and total amounts per status.
func (r *InvoiceRepository) CountTotalsByStatus(ctx context.Context) (map[string]int, map[string]decimal.Decimal, error) {
	query := fmt.Sprintf("SELECT %s, COUNT(*), COALESCE(SUM(total_amount), 0) FROM %s GROUP BY %s",
		constants.FieldStatus, constants.TableInvoice, constants.FieldStatus)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var status string
		var count int
		var total decimal.Decimal
		if err := rows.Scan(&status, &count, &total); err != nil {
			return nil, nil, err
		}
		counts[status] = count
		totals[status] = total
	}
	return counts, totals, rows.Err()
}

// UnpaidInvoices returns sent and overdue invoices for aging analysis.
func (r *InvoiceRepository) UnpaidInvoices(ctx context.Context) ([]*models.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT id, number, company_id, status, issue_date, due_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date
		FROM %s WHERE %s IN (?, ?)`, constants.TableInvoice, constants.FieldStatus)

	rows, err := r.db.QueryContext(ctx, query, constants.InvoiceStatusSent, constants.InvoiceStatusOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]*models.Invoice, 0)
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.CompanyID, &inv.Status, &inv.IssueDate, &inv.DueDate,
			&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.CreatedDate, &inv.ModifiedDate); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

// ---- credit notes ----

func (r *InvoiceRepository) InsertCreditNote(ctx context.Context, cn *models.CreditNote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (id, number, invoice_id, company_id, reason,
			subtotal, tax_amount, total_amount, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableCreditNote)
	if _, err := tx.ExecContext(ctx, headerQuery,
		cn.ID, cn.Number, cn.InvoiceID, cn.CompanyID, cn.Reason,
		cn.Subtotal, cn.TaxAmount, cn.TotalAmount, cn.CreatedDate); err != nil {
		return err
	}

	lineQuery := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, product_id, description, quantity, unit_price,
			tax_rate, line_total, tax_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableCreditNoteLine)
	for _, line := range cn.Lines {
		if _, err := tx.ExecContext(ctx, lineQuery,
			line.ID, line.DocumentID, line.ProductID, line.Description, line.Quantity,
			line.UnitPrice, line.TaxRate, line.LineTotal, line.TaxAmount); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *InvoiceRepository) FindCreditNoteByID(ctx context.Context, id string) (*models.CreditNote, error) {
	query := fmt.Sprintf(`
		SELECT id, number, invoice_id, company_id, reason,
			subtotal, tax_amount, total_amount, created_date
		FROM %s WHERE %s = ?`, constants.TableCreditNote, constants.FieldID)

	var cn models.CreditNote
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cn.ID, &cn.Number, &cn.InvoiceID, &cn.CompanyID, &cn.Reason,
		&cn.Subtotal, &cn.TaxAmount, &cn.TotalAmount, &cn.CreatedDate)
	if err != nil {
		return nil, err
	}

	lines, err := r.findLines(ctx, constants.TableCreditNoteLine, id)
	if err != nil {
		return nil, err
	}
	cn.Lines = lines
	return &cn, nil
}

// ---- recurring templates ----

func (r *InvoiceRepository) InsertTemplate(ctx context.Context, t *models.RecurringTemplate) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, description, schedule, quantity, unit_price,
			tax_rate, is_active, next_run_at, last_run_at, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableRecurringTemplate)
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.CompanyID, t.Description, t.Schedule, t.Quantity, t.UnitPrice,
		t.TaxRate, t.IsActive, timePtrValue(t.NextRunAt), timePtrValue(t.LastRunAt), t.CreatedDate)
	return err
}

func (r *InvoiceRepository) FindDueTemplates(ctx context.Context, now time.Time) ([]*models.RecurringTemplate, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, description, schedule, quantity, unit_price,
			tax_rate, is_active, next_run_at, last_run_at, created_date
		FROM %s WHERE is_active = TRUE AND (next_run_at IS NULL OR next_run_at <= ?)`,
		constants.TableRecurringTemplate)

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTemplates(rows)
}

func (r *InvoiceRepository) FindTemplates(ctx context.Context) ([]*models.RecurringTemplate, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, description, schedule, quantity, unit_price,
			tax_rate, is_active, next_run_at, last_run_at, created_date
		FROM %s ORDER BY created_date DESC`, constants.TableRecurringTemplate)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTemplates(rows)
}

func collectTemplates(rows *sql.Rows) ([]*models.RecurringTemplate, error) {
	templates := make([]*models.RecurringTemplate, 0)
	for rows.Next() {
		var t models.RecurringTemplate
		var nextRun, lastRun sql.NullTime
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Description, &t.Schedule, &t.Quantity, &t.UnitPrice,
			&t.TaxRate, &t.IsActive, &nextRun, &lastRun, &t.CreatedDate); err != nil {
			return nil, err
		}
		t.NextRunAt = nullTimePtr(nextRun)
		t.LastRunAt = nullTimePtr(lastRun)
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (r *InvoiceRepository) MarkTemplateRun(ctx context.Context, id string, ranAt, nextRun time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET last_run_at = ?, next_run_at = ? WHERE %s = ?",
		constants.TableRecurringTemplate, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, ranAt, nextRun, id)
	return err
}

func (r *InvoiceRepository) SetTemplateActive(ctx context.Context, id string, active bool) error {
	query := fmt.Sprintf("UPDATE %s SET is_active = ? WHERE %s = ?",
		constants.TableRecurringTemplate, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, active, id)
	return err
}

// ---- pricing rules ----

func (r *InvoiceRepository) InsertPricingRule(ctx context.Context, rule *models.PricingRule) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, name, expression, is_active, created_date)
		VALUES (?, ?, ?, ?, ?, ?)`, constants.TablePricingRule)
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.CompanyID, rule.Name, rule.Expression, rule.IsActive, rule.CreatedDate)
	return err
}

func (r *InvoiceRepository) FindActivePricingRules(ctx context.Context, companyID string) ([]*models.PricingRule, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, name, expression, is_active, created_date
		FROM %s WHERE company_id = ? AND is_active = TRUE`, constants.TablePricingRule)

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*models.PricingRule, 0)
	for rows.Next() {
		var rule models.PricingRule
		if err := rows.Scan(&rule.ID, &rule.CompanyID, &rule.Name, &rule.Expression, &rule.IsActive, &rule.CreatedDate); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

func (r *InvoiceRepository) DeletePricingRule(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TablePricingRule, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// NextInvoiceNumber produces a sequential document number.
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context, prefix string) (string, error) {
	return r.nextNumber(ctx, constants.TableInvoice, prefix)
}

// NextCreditNoteNumber produces a sequential credit note number.
func (r *InvoiceRepository) NextCreditNoteNumber(ctx context.Context, prefix string) (string, error) {
	return r.nextNumber(ctx, constants.TableCreditNote, prefix)
}

// nextNumber allocates one past the highest suffix already stored.
// The number column is unique, so counting rows would collide after a
// document is deleted.
func (r *InvoiceRepository) nextNumber(ctx context.Context, table, prefix string) (string, error) {
	var maxSuffix int64
	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(CAST(SUBSTRING_INDEX(number, '-', -1) AS UNSIGNED)), 0) FROM %s", table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&maxSuffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", strings.ToUpper(prefix), maxSuffix+1), nil
}
