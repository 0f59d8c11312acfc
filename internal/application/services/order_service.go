package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/money"
	"github.com/atlaserp/backend/pkg/utils"
)

// OrderKind distinguishes the two order modules sharing this service.
type OrderKind string

const (
	KindPurchase OrderKind = "purchase"
	KindSales    OrderKind = "sales"
)

// OrderService implements purchase and sales orders. The two share
// line arithmetic and a guarded lifecycle; they differ in the closing
// status (received vs fulfilled) and number prefix.
type OrderService struct {
	orders *persistence.OrderRepository
	kind   OrderKind
}

func NewPurchaseOrderService(orders *persistence.OrderRepository) *OrderService {
	return &OrderService{orders: orders, kind: KindPurchase}
}

func NewSalesOrderService(orders *persistence.OrderRepository) *OrderService {
	return &OrderService{orders: orders, kind: KindSales}
}

func (s *OrderService) closingStatus() string {
	if s.kind == KindPurchase {
		return constants.OrderStatusReceived
	}
	return constants.OrderStatusFulfilled
}

func (s *OrderService) numberPrefix() string {
	if s.kind == KindPurchase {
		return "po"
	}
	return "so"
}

func (s *OrderService) resource() string {
	if s.kind == KindPurchase {
		return "Purchase order"
	}
	return "Sales order"
}

// transitions builds the lifecycle map for this order kind.
func (s *OrderService) transitions() map[string][]string {
	return map[string][]string{
		constants.OrderStatusDraft:     {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
		constants.OrderStatusConfirmed: {s.closingStatus(), constants.OrderStatusCancelled},
	}
}

type CreateOrderRequest struct {
	CompanyID string        `json:"company_id" binding:"required"`
	OrderDate time.Time     `json:"order_date"`
	Lines     []LineRequest `json:"lines" binding:"required"`
}

func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	number, err := s.orders.NextNumber(ctx, s.numberPrefix())
	if err != nil {
		return nil, errors.NewPersistenceError("allocate order number", err)
	}

	now := time.Now()
	id := utils.GenerateID()

	lines := make([]models.OrderLine, 0, len(req.Lines))
	amounts := make([]money.LineAmounts, 0, len(req.Lines))
	for _, l := range req.Lines {
		computed := money.ComputeLine(l.Quantity, l.UnitPrice, l.TaxRate)
		lines = append(lines, models.OrderLine{
			ID:        utils.GenerateID(),
			OrderID:   id,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxRate:   l.TaxRate,
			LineTotal: computed.LineTotal,
			TaxAmount: computed.TaxAmount,
		})
		amounts = append(amounts, computed)
	}
	totals := money.SumLines(amounts)

	order := &models.Order{
		ID:           id,
		Number:       number,
		CompanyID:    req.CompanyID,
		Status:       constants.OrderStatusDraft,
		OrderDate:    orderDate,
		Subtotal:     totals.Subtotal,
		TaxAmount:    totals.TaxAmount,
		TotalAmount:  totals.TotalAmount,
		Lines:        lines,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, errors.NewPersistenceError("create order", err)
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(s.resource(), id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get order", err)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	if status != "" && !s.isValidStatus(status) {
		return nil, errors.NewValidationError("status", "Unknown order status")
	}
	orders, err := s.orders.FindAll(ctx, status, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list orders", err)
	}
	return orders, nil
}

// TransitionStatus moves an order through draft -> confirmed ->
// received/fulfilled, allowing cancellation before closing.
func (s *OrderService) TransitionStatus(ctx context.Context, id, next string) error {
	if !s.isValidStatus(next) {
		return errors.NewValidationError("status", "Unknown order status")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !transitionAllowed(s.transitions(), order.Status, next) {
		return errors.NewValidationError("status", "Cannot move order from "+order.Status+" to "+next)
	}

	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(s.resource(), id)
		}
		return errors.NewPersistenceError("update order status", err)
	}
	return nil
}

// Delete removes a draft order.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != constants.OrderStatusDraft {
		return errors.NewValidationError("status", "Only draft orders can be deleted")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return errors.NewPersistenceError("delete order", err)
	}
	return nil
}

func (s *OrderService) isValidStatus(status string) bool {
	switch status {
	case constants.OrderStatusDraft, constants.OrderStatusConfirmed, constants.OrderStatusCancelled:
		return true
	}
	return status == s.closingStatus()
}
