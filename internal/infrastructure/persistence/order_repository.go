package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

// OrderRepository persists purchase and sales orders. Both document
// kinds share shape; the repository is parameterized by table names.
type OrderRepository struct {
	db          *sql.DB
	headerTable string
	lineTable   string
}

// NewPurchaseOrderRepository creates a repository over the purchasing tables.
func NewPurchaseOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db, headerTable: constants.TablePurchaseOrder, lineTable: constants.TablePurchaseOrderLine}
}

// NewSalesOrderRepository creates a repository over the sales tables.
func NewSalesOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db, headerTable: constants.TableSalesOrder, lineTable: constants.TableSalesOrderLine}
}

// Insert writes the header and all lines in one transaction.
func (r *OrderRepository) Insert(ctx context.Context, o *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (id, number, company_id, status, order_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.headerTable)
	if _, err := tx.ExecContext(ctx, headerQuery,
		o.ID, o.Number, o.CompanyID, o.Status, o.OrderDate,
		o.Subtotal, o.TaxAmount, o.TotalAmount, o.CreatedDate, o.ModifiedDate); err != nil {
		return err
	}

	lineQuery := fmt.Sprintf(`
		INSERT INTO %s (id, order_id, product_id, quantity, unit_price,
			tax_rate, line_total, tax_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r.lineTable)
	for _, line := range o.Lines {
		if _, err := tx.ExecContext(ctx, lineQuery,
			line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice,
			line.TaxRate, line.LineTotal, line.TaxAmount); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	query := fmt.Sprintf(`
		SELECT id, number, company_id, status, order_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date
		FROM %s WHERE %s = ?`, r.headerTable, constants.FieldID)

	var o models.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Number, &o.CompanyID, &o.Status, &o.OrderDate,
		&o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.CreatedDate, &o.ModifiedDate)
	if err != nil {
		return nil, err
	}

	lineQuery := fmt.Sprintf(`
		SELECT id, order_id, product_id, quantity, unit_price, tax_rate, line_total, tax_amount
		FROM %s WHERE order_id = ?`, r.lineTable)
	rows, err := r.db.QueryContext(ctx, lineQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l models.OrderLine
		var productID sql.NullString
		if err := rows.Scan(&l.ID, &l.OrderID, &productID, &l.Quantity, &l.UnitPrice,
			&l.TaxRate, &l.LineTotal, &l.TaxAmount); err != nil {
			return nil, err
		}
		l.ProductID = productID.String
		o.Lines = append(o.Lines, l)
	}
	return &o, rows.Err()
}

func (r *OrderRepository) FindAll(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	query := fmt.Sprintf(`
		SELECT id, number, company_id, status, order_date,
			subtotal, tax_amount, total_amount, created_date, last_modified_date
		FROM %s`, r.headerTable)
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

	orders := make([]*models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.CompanyID, &o.Status, &o.OrderDate,
			&o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.CreatedDate, &o.ModifiedDate); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
		r.headerTable, constants.FieldStatus, constants.FieldModifiedDate, constants.FieldID)
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

// NextNumber produces a sequential document number for this order
// kind. It continues from the highest suffix on record rather than the
// row count, so numbers freed by deletes are never reissued against
// the unique index.
func (r *OrderRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	var maxSuffix int64
	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(CAST(SUBSTRING_INDEX(number, '-', -1) AS UNSIGNED)), 0) FROM %s", r.headerTable)
	if err := r.db.QueryRowContext(ctx, query).Scan(&maxSuffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", strings.ToUpper(prefix), maxSuffix+1), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE order_id = ?", r.lineTable), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.headerTable, constants.FieldID), id); err != nil {
		return err
	}

	return tx.Commit()
}
