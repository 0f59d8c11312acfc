package rest

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/pkg/constants"
)

// InvoiceHandler serves invoices, credit notes, recurring templates,
// pricing rules and invoice analytics.
type InvoiceHandler struct {
	invoices *services.InvoiceService
	pricing  *services.PricingService
}

func NewInvoiceHandler(invoices *services.InvoiceService, pricing *services.PricingService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, pricing: pricing}
}

// ---- invoices ----

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if !BindJSON(c, &req) {
		return
	}
	inv, err := h.invoices.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "invoice", "Invoice created", inv)
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.invoices.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "invoice", inv)
}

func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	limit, offset := ParsePagination(c)
	invoices, err := h.invoices.ListInvoices(c.Request.Context(), c.Query(constants.ParamStatus), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "invoices", invoices)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles POST /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSON(c, &req) {
		return
	}
	if err := h.invoices.TransitionStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Invoice status updated")
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoices.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Invoice deleted")
}

// GetAnalytics handles GET /api/invoices/analytics
func (h *InvoiceHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.invoices.Analytics(c.Request.Context(), time.Now())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "analytics", analytics)
}

// ---- credit notes ----

func (h *InvoiceHandler) CreateCreditNote(c *gin.Context) {
	var req services.CreateCreditNoteRequest
	if !BindJSON(c, &req) {
		return
	}
	cn, err := h.invoices.CreateCreditNote(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "credit_note", "Credit note created", cn)
}

func (h *InvoiceHandler) GetCreditNote(c *gin.Context) {
	cn, err := h.invoices.GetCreditNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "credit_note", cn)
}

// ---- recurring templates ----

func (h *InvoiceHandler) CreateTemplate(c *gin.Context) {
	var req services.TemplateRequest
	if !BindJSON(c, &req) {
		return
	}
	template, err := h.invoices.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "template", "Recurring template created", template)
}

func (h *InvoiceHandler) GetTemplates(c *gin.Context) {
	templates, err := h.invoices.ListTemplates(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "templates", templates)
}

type templateActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetTemplateActive handles PUT /api/invoices/templates/:id/active
func (h *InvoiceHandler) SetTemplateActive(c *gin.Context) {
	var req templateActiveRequest
	if !BindJSON(c, &req) {
		return
	}
	if err := h.invoices.SetTemplateActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Template updated")
}

// ---- pricing rules ----

func (h *InvoiceHandler) CreatePricingRule(c *gin.Context) {
	var req services.PricingRuleRequest
	if !BindJSON(c, &req) {
		return
	}
	rule, err := h.pricing.CreateRule(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "rule", "Pricing rule created", rule)
}

func (h *InvoiceHandler) GetPricingRules(c *gin.Context) {
	rules, err := h.pricing.ListRules(c.Request.Context(), c.Query("company_id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "rules", rules)
}

func (h *InvoiceHandler) DeletePricingRule(c *gin.Context) {
	if err := h.pricing.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Pricing rule deleted")
}
