package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/pkg/constants"
)

// ProductionHandler serves manufacturing orders.
type ProductionHandler struct {
	production *services.ProductionService
}

func NewProductionHandler(production *services.ProductionService) *ProductionHandler {
	return &ProductionHandler{production: production}
}

func (h *ProductionHandler) Create(c *gin.Context) {
	var req services.ProductionOrderRequest
	if !BindJSON(c, &req) {
		return
	}
	order, err := h.production.CreateOrder(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "order", "Production order created", order)
}

func (h *ProductionHandler) Get(c *gin.Context) {
	order, err := h.production.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "order", order)
}

func (h *ProductionHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)
	orders, err := h.production.List(c.Request.Context(), c.Query(constants.ParamStatus), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "orders", orders)
}

func (h *ProductionHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSON(c, &req) {
		return
	}
	if err := h.production.TransitionStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Production order status updated")
}

func (h *ProductionHandler) Delete(c *gin.Context) {
	if err := h.production.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Production order deleted")
}
