package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

// ProductionRepository persists production orders and their material lists.
type ProductionRepository struct {
	db *sql.DB
}

func NewProductionRepository(db *sql.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

// Insert writes the order and its materials in one transaction.
func (r *ProductionRepository) Insert(ctx context.Context, o *models.ProductionOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := fmt.Sprintf(`
		INSERT INTO %s (id, number, product_id, quantity, status, material_cost,
			created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, constants.TableProductionOrder)
	if _, err := tx.ExecContext(ctx, orderQuery,
		o.ID, o.Number, o.ProductID, o.Quantity, o.Status, o.MaterialCost,
		o.CreatedDate, o.ModifiedDate); err != nil {
		return err
	}

	materialQuery := fmt.Sprintf(`
		INSERT INTO %s (id, order_id, product_id, quantity, unit_cost)
		VALUES (?, ?, ?, ?, ?)`, constants.TableProductionMaterial)
	for _, m := range o.Materials {
		if _, err := tx.ExecContext(ctx, materialQuery,
			m.ID, m.OrderID, m.ProductID, m.Quantity, m.UnitCost); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ProductionRepository) FindByID(ctx context.Context, id string) (*models.ProductionOrder, error) {
	query := fmt.Sprintf(`
		SELECT id, number, product_id, quantity, status, material_cost,
			created_date, last_modified_date
		FROM %s WHERE %s = ?`, constants.TableProductionOrder, constants.FieldID)

	var o models.ProductionOrder
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Number, &o.ProductID, &o.Quantity, &o.Status, &o.MaterialCost,
		&o.CreatedDate, &o.ModifiedDate)
	if err != nil {
		return nil, err
	}

	materialQuery := fmt.Sprintf(`
		SELECT id, order_id, product_id, quantity, unit_cost
		FROM %s WHERE order_id = ?`, constants.TableProductionMaterial)
	rows, err := r.db.QueryContext(ctx, materialQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ProductionMaterial
		if err := rows.Scan(&m.ID, &m.OrderID, &m.ProductID, &m.Quantity, &m.UnitCost); err != nil {
			return nil, err
		}
		o.Materials = append(o.Materials, m)
	}
	return &o, rows.Err()
}

func (r *ProductionRepository) FindAll(ctx context.Context, status string, limit, offset int) ([]*models.ProductionOrder, error) {
	query := fmt.Sprintf(`
		SELECT id, number, product_id, quantity, status, material_cost,
			created_date, last_modified_date
		FROM %s`, constants.TableProductionOrder)
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

	orders := make([]*models.ProductionOrder, 0)
	for rows.Next() {
		var o models.ProductionOrder
		if err := rows.Scan(&o.ID, &o.Number, &o.ProductID, &o.Quantity, &o.Status, &o.MaterialCost,
			&o.CreatedDate, &o.ModifiedDate); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (r *ProductionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
		constants.TableProductionOrder, constants.FieldStatus, constants.FieldModifiedDate, constants.FieldID)
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

// SetMaterialCost stores the rolled-up material cost on the order header.
func (r *ProductionRepository) SetMaterialCost(ctx context.Context, id string, cost float64) error {
	query := fmt.Sprintf("UPDATE %s SET material_cost = ?, %s = ? WHERE %s = ?",
		constants.TableProductionOrder, constants.FieldModifiedDate, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, cost, time.Now(), id)
	return err
}

func (r *ProductionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE order_id = ?", constants.TableProductionMaterial), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableProductionOrder, constants.FieldID), id); err != nil {
		return err
	}

	return tx.Commit()
}
