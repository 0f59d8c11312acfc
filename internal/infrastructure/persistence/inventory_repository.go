package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/constants"
)

// ErrInsufficientStock is returned when an adjustment would take
// on-hand below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryRepository persists products and stock levels.
type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const productColumns = `id, sku, name, unit_cost, unit_price, annual_demand,
	lead_time_days, safety_stock, created_date, last_modified_date`

func (r *InventoryRepository) InsertProduct(ctx context.Context, p *models.Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		constants.TableProduct, productColumns)
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SKU, p.Name, p.UnitCost, p.UnitPrice, p.AnnualDemand,
		p.LeadTimeDays, p.SafetyStock, p.CreatedDate, p.ModifiedDate)
	return err
}

func (r *InventoryRepository) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", productColumns, constants.TableProduct, constants.FieldID)

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.UnitCost, &p.UnitPrice, &p.AnnualDemand,
		&p.LeadTimeDays, &p.SafetyStock, &p.CreatedDate, &p.ModifiedDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *InventoryRepository) FindProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY sku LIMIT ? OFFSET ?", productColumns, constants.TableProduct)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// FindAllProducts returns every product, for ABC classification.
func (r *InventoryRepository) FindAllProducts(ctx context.Context) ([]*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", productColumns, constants.TableProduct)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*models.Product, error) {
	products := make([]*models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.UnitCost, &p.UnitPrice, &p.AnnualDemand,
			&p.LeadTimeDays, &p.SafetyStock, &p.CreatedDate, &p.ModifiedDate); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *InventoryRepository) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}
	for k, v := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", k))
		args = append(args, v)
	}
	setClauses = append(setClauses, fmt.Sprintf("%s = ?", constants.FieldModifiedDate))
	args = append(args, time.Now())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		constants.TableProduct, strings.Join(setClauses, ", "), constants.FieldID)
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *InventoryRepository) DeleteProduct(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableProduct, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ---- stock levels ----

func (r *InventoryRepository) UpsertStockLevel(ctx context.Context, s *models.StockLevel) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, product_id, location, on_hand, last_modified_date)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE on_hand = VALUES(on_hand), last_modified_date = VALUES(last_modified_date)`,
		constants.TableStockLevel)
	_, err := r.db.ExecContext(ctx, query, s.ID, s.ProductID, s.Location, s.OnHand, s.ModifiedDate)
	return err
}

// AdjustStock applies a delta to on-hand quantity and returns the new
// value. The guard in the WHERE clause keeps on-hand from going
// negative without a read-check-write race.
func (r *InventoryRepository) AdjustStock(ctx context.Context, productID, location string, delta float64) (float64, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET on_hand = on_hand + ?, %s = ?
		WHERE product_id = ? AND location = ? AND on_hand + ? >= 0`,
		constants.TableStockLevel, constants.FieldModifiedDate)
	res, err := r.db.ExecContext(ctx, query, delta, time.Now(), productID, location, delta)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	var onHand float64
	selectQuery := fmt.Sprintf("SELECT on_hand FROM %s WHERE product_id = ? AND location = ?", constants.TableStockLevel)
	if err := r.db.QueryRowContext(ctx, selectQuery, productID, location).Scan(&onHand); err != nil {
		return 0, err
	}
	if affected == 0 {
		// The row exists but the guard blocked the update.
		return onHand, ErrInsufficientStock
	}
	return onHand, nil
}

func (r *InventoryRepository) FindStockLevels(ctx context.Context, productID string) ([]*models.StockLevel, error) {
	query := fmt.Sprintf(`
		SELECT id, product_id, location, on_hand, last_modified_date
		FROM %s WHERE product_id = ?`, constants.TableStockLevel)

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make([]*models.StockLevel, 0)
	for rows.Next() {
		var s models.StockLevel
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Location, &s.OnHand, &s.ModifiedDate); err != nil {
			return nil, err
		}
		levels = append(levels, &s)
	}
	return levels, rows.Err()
}

// TotalOnHand sums stock for a product across locations.
func (r *InventoryRepository) TotalOnHand(ctx context.Context, productID string) (float64, error) {
	var total float64
	query := fmt.Sprintf("SELECT COALESCE(SUM(on_hand), 0) FROM %s WHERE product_id = ?", constants.TableStockLevel)
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&total)
	return total, err
}
