package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
)

// InventoryHandler serves products, stock levels, ABC analysis and
// reorder advice.
type InventoryHandler struct {
	inventory *services.InventoryService
}

func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// ---- products ----

func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req services.ProductRequest
	if !BindJSON(c, &req) {
		return
	}
	product, err := h.inventory.CreateProduct(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "product", "Product created", product)
}

func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.inventory.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "product", product)
}

func (h *InventoryHandler) GetProducts(c *gin.Context) {
	limit, offset := ParsePagination(c)
	products, err := h.inventory.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "products", products)
}

func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var updates map[string]interface{}
	if !BindJSON(c, &updates) {
		return
	}
	if err := h.inventory.UpdateProduct(c.Request.Context(), c.Param("id"), updates); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Product updated")
}

func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventory.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Product deleted")
}

// ---- stock ----

// SetStock handles PUT /api/inventory/products/:id/stock
func (h *InventoryHandler) SetStock(c *gin.Context) {
	var req services.StockRequest
	if !BindJSON(c, &req) {
		return
	}
	level, err := h.inventory.SetStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "stock", level)
}

type adjustStockRequest struct {
	Location string  `json:"location" binding:"required"`
	Delta    float64 `json:"delta" binding:"required"`
}

// AdjustStock handles POST /api/inventory/products/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if !BindJSON(c, &req) {
		return
	}
	onHand, err := h.inventory.AdjustStock(c.Request.Context(), c.Param("id"), req.Location, req.Delta)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "on_hand", onHand)
}

func (h *InventoryHandler) GetStockLevels(c *gin.Context) {
	levels, err := h.inventory.StockLevels(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "stock_levels", levels)
}

// ---- analysis ----

// GetABCAnalysis handles GET /api/inventory/abc
func (h *InventoryHandler) GetABCAnalysis(c *gin.Context) {
	results, err := h.inventory.ABCAnalysis(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "classification", results)
}

// GetReorderAdvice handles GET /api/inventory/reorder
func (h *InventoryHandler) GetReorderAdvice(c *gin.Context) {
	advice, err := h.inventory.ReorderAdvice(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "advice", advice)
}

// GetLowStock handles GET /api/inventory/low-stock
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	advice, err := h.inventory.LowStock(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "low_stock", advice)
}
