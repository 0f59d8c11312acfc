package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/scoring"
	"github.com/atlaserp/backend/pkg/utils"
)

// InventoryService owns products, stock levels, ABC analysis and
// reorder advice.
type InventoryService struct {
	inventory *persistence.InventoryRepository
}

func NewInventoryService(inventory *persistence.InventoryRepository) *InventoryService {
	return &InventoryService{inventory: inventory}
}

type ProductRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	UnitCost     float64 `json:"unit_cost"`
	UnitPrice    float64 `json:"unit_price"`
	AnnualDemand float64 `json:"annual_demand"`
	LeadTimeDays float64 `json:"lead_time_days"`
	SafetyStock  float64 `json:"safety_stock"`
}

func (s *InventoryService) CreateProduct(ctx context.Context, req ProductRequest) (*models.Product, error) {
	if req.UnitCost < 0 || req.UnitPrice < 0 || req.AnnualDemand < 0 || req.LeadTimeDays < 0 || req.SafetyStock < 0 {
		return nil, errors.NewValidationError("", "Numeric product fields must not be negative")
	}

	now := time.Now()
	product := &models.Product{
		ID:           utils.GenerateID(),
		SKU:          req.SKU,
		Name:         req.Name,
		UnitCost:     req.UnitCost,
		UnitPrice:    req.UnitPrice,
		AnnualDemand: req.AnnualDemand,
		LeadTimeDays: req.LeadTimeDays,
		SafetyStock:  req.SafetyStock,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.inventory.InsertProduct(ctx, product); err != nil {
		return nil, errors.NewPersistenceError("create product", err)
	}
	return product, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.inventory.FindProductByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Product", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get product", err)
	}
	return product, nil
}

func (s *InventoryService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	products, err := s.inventory.FindProducts(ctx, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list products", err)
	}
	return products, nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	filtered, err := filterUpdates(updates,
		"sku", "name", "unit_cost", "unit_price", "annual_demand", "lead_time_days", "safety_stock")
	if err != nil {
		return err
	}
	if err := s.inventory.UpdateProduct(ctx, id, filtered); err != nil {
		return errors.NewPersistenceError("update product", err)
	}
	return nil
}

func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.inventory.DeleteProduct(ctx, id); err != nil {
		return errors.NewPersistenceError("delete product", err)
	}
	return nil
}

// ---- stock ----

type StockRequest struct {
	Location string  `json:"location" binding:"required"`
	OnHand   float64 `json:"on_hand"`
}

func (s *InventoryService) SetStock(ctx context.Context, productID string, req StockRequest) (*models.StockLevel, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if req.OnHand < 0 {
		return nil, errors.NewValidationError("on_hand", "Must not be negative")
	}

	level := &models.StockLevel{
		ID:           utils.GenerateID(),
		ProductID:    productID,
		Location:     req.Location,
		OnHand:       req.OnHand,
		ModifiedDate: time.Now(),
	}
	if err := s.inventory.UpsertStockLevel(ctx, level); err != nil {
		return nil, errors.NewPersistenceError("set stock", err)
	}
	return level, nil
}

// AdjustStock applies a signed delta and returns the new on-hand
// value. Adjustments that would drive on-hand below zero are rejected,
// matching the floor SetStock enforces.
func (s *InventoryService) AdjustStock(ctx context.Context, productID, location string, delta float64) (float64, error) {
	onHand, err := s.inventory.AdjustStock(ctx, productID, location, delta)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError("Stock level", productID+"/"+location)
	}
	if err == persistence.ErrInsufficientStock {
		return 0, errors.NewValidationError("delta",
			fmt.Sprintf("Adjustment would take on-hand below zero (current %.2f)", onHand))
	}
	if err != nil {
		return 0, errors.NewPersistenceError("adjust stock", err)
	}
	return onHand, nil
}

func (s *InventoryService) StockLevels(ctx context.Context, productID string) ([]*models.StockLevel, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	levels, err := s.inventory.FindStockLevels(ctx, productID)
	if err != nil {
		return nil, errors.NewPersistenceError("stock levels", err)
	}
	return levels, nil
}

// ---- analytics ----

// ABCAnalysis classifies all products by annual consumption value.
func (s *InventoryService) ABCAnalysis(ctx context.Context) ([]scoring.ABCResult, error) {
	products, err := s.inventory.FindAllProducts(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("abc analysis", err)
	}

	items := make([]scoring.ABCItem, 0, len(products))
	for _, p := range products {
		items = append(items, scoring.ABCItem{
			ProductID:    p.ID,
			AnnualDemand: p.AnnualDemand,
			UnitCost:     p.UnitCost,
		})
	}
	return scoring.ClassifyABC(items), nil
}

// ReorderAdvice computes each product's reorder point from daily
// demand (annual/365), lead time and safety stock, and compares it
// against total on-hand stock.
func (s *InventoryService) ReorderAdvice(ctx context.Context) ([]models.ReorderAdvice, error) {
	products, err := s.inventory.FindAllProducts(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("reorder advice", err)
	}

	advice := make([]models.ReorderAdvice, 0, len(products))
	for _, p := range products {
		onHand, err := s.inventory.TotalOnHand(ctx, p.ID)
		if err != nil {
			return nil, errors.NewPersistenceError("reorder advice", err)
		}
		point := scoring.ReorderPoint(p.AnnualDemand/365, p.LeadTimeDays, p.SafetyStock)
		advice = append(advice, models.ReorderAdvice{
			ProductID:    p.ID,
			SKU:          p.SKU,
			OnHand:       onHand,
			ReorderPoint: point,
			BelowPoint:   onHand < point,
		})
	}
	return advice, nil
}

// LowStock filters reorder advice to products below their point.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.ReorderAdvice, error) {
	advice, err := s.ReorderAdvice(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.ReorderAdvice, 0)
	for _, a := range advice {
		if a.BelowPoint {
			low = append(low, a)
		}
	}
	return low, nil
}
