package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/utils"
)

// productionTransitions guards the manufacturing lifecycle. Completed
// and cancelled are terminal.
var productionTransitions = map[string][]string{
	constants.ProductionStatusPlanned:    {constants.ProductionStatusInProgress, constants.ProductionStatusCancelled},
	constants.ProductionStatusInProgress: {constants.ProductionStatusCompleted, constants.ProductionStatusCancelled},
}

// ProductionService owns production orders and their material cost
// rollups.
type ProductionService struct {
	production *persistence.ProductionRepository
	inventory  *InventoryService
}

func NewProductionService(production *persistence.ProductionRepository, inventory *InventoryService) *ProductionService {
	return &ProductionService{production: production, inventory: inventory}
}

type MaterialRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
}

type ProductionOrderRequest struct {
	ProductID string            `json:"product_id" binding:"required"`
	Quantity  float64           `json:"quantity"`
	Materials []MaterialRequest `json:"materials"`
}

// CreateOrder schedules a production run. Material unit costs default
// to the component product's unit cost when omitted; the header cost
// is the rollup of quantity * unit_cost over materials.
func (s *ProductionService) CreateOrder(ctx context.Context, req ProductionOrderRequest) (*models.ProductionOrder, error) {
	if req.Quantity <= 0 {
		return nil, errors.NewValidationError("quantity", "Must be positive")
	}
	if _, err := s.inventory.GetProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	now := time.Now()
	id := utils.GenerateID()

	materials := make([]models.ProductionMaterial, 0, len(req.Materials))
	materialCost := 0.0
	for _, m := range req.Materials {
		if m.Quantity <= 0 {
			return nil, errors.NewValidationError("materials", "Material quantity must be positive")
		}
		unitCost := m.UnitCost
		if unitCost == 0 {
			component, err := s.inventory.GetProduct(ctx, m.ProductID)
			if err != nil {
				return nil, err
			}
			unitCost = component.UnitCost
		}
		materials = append(materials, models.ProductionMaterial{
			ID:        utils.GenerateID(),
			OrderID:   id,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			UnitCost:  unitCost,
		})
		materialCost += m.Quantity * unitCost
	}

	order := &models.ProductionOrder{
		ID:           id,
		Number:       "MO-" + utils.GenerateID()[:8],
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Status:       constants.ProductionStatusPlanned,
		MaterialCost: materialCost,
		Materials:    materials,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.production.Insert(ctx, order); err != nil {
		return nil, errors.NewPersistenceError("create production order", err)
	}
	return order, nil
}

func (s *ProductionService) Get(ctx context.Context, id string) (*models.ProductionOrder, error) {
	order, err := s.production.FindByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Production order", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get production order", err)
	}
	return order, nil
}

func (s *ProductionService) List(ctx context.Context, status string, limit, offset int) ([]*models.ProductionOrder, error) {
	if status != "" && !isValidProductionStatus(status) {
		return nil, errors.NewValidationError("status", "Unknown production status")
	}
	orders, err := s.production.FindAll(ctx, status, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list production orders", err)
	}
	return orders, nil
}

// TransitionStatus moves an order through planned -> in_progress ->
// completed, allowing cancellation before completion.
func (s *ProductionService) TransitionStatus(ctx context.Context, id, next string) error {
	if !isValidProductionStatus(next) {
		return errors.NewValidationError("status", "Unknown production status")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !transitionAllowed(productionTransitions, order.Status, next) {
		return errors.NewValidationError("status", "Cannot move production order from "+order.Status+" to "+next)
	}

	if err := s.production.UpdateStatus(ctx, id, next); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError("Production order", id)
		}
		return errors.NewPersistenceError("update production status", err)
	}
	return nil
}

// Delete removes a planned order.
func (s *ProductionService) Delete(ctx context.Context, id string) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != constants.ProductionStatusPlanned {
		return errors.NewValidationError("status", "Only planned production orders can be deleted")
	}
	if err := s.production.Delete(ctx, id); err != nil {
		return errors.NewPersistenceError("delete production order", err)
	}
	return nil
}

func isValidProductionStatus(status string) bool {
	switch status {
	case constants.ProductionStatusPlanned, constants.ProductionStatusInProgress,
		constants.ProductionStatusCompleted, constants.ProductionStatusCancelled:
		return true
	}
	return false
}
