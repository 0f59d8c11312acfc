package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/pkg/constants"
)

// OrderHandler serves purchase or sales orders, depending on the
// service it wraps. Both sides share the same request shapes.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req services.CreateOrderRequest
	if !BindJSON(c, &req) {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "order", "Order created", order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "order", order)
}

func (h *OrderHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)
	orders, err := h.orders.List(c.Request.Context(), c.Query(constants.ParamStatus), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "orders", orders)
}

// UpdateStatus handles POST .../:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSON(c, &req) {
		return
	}
	if err := h.orders.TransitionStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Order status updated")
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Order deleted")
}
