package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/pkg/constants"
)

// ContactHandler serves companies, contacts, activities and the
// engagement/churn heuristics.
type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// ---- companies ----

func (h *ContactHandler) CreateCompany(c *gin.Context) {
	var req services.CompanyRequest
	if !BindJSON(c, &req) {
		return
	}
	company, err := h.contacts.CreateCompany(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "company", "Company created", company)
}

func (h *ContactHandler) GetCompany(c *gin.Context) {
	company, err := h.contacts.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "company", company)
}

func (h *ContactHandler) GetCompanies(c *gin.Context) {
	limit, offset := ParsePagination(c)
	companies, err := h.contacts.ListCompanies(c.Request.Context(), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "companies", companies)
}

func (h *ContactHandler) UpdateCompany(c *gin.Context) {
	var updates map[string]interface{}
	if !BindJSON(c, &updates) {
		return
	}
	if err := h.contacts.UpdateCompany(c.Request.Context(), c.Param("id"), updates); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Company updated")
}

func (h *ContactHandler) DeleteCompany(c *gin.Context) {
	if err := h.contacts.DeleteCompany(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Company deleted")
}

// ---- contacts ----

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req services.ContactRequest
	if !BindJSON(c, &req) {
		return
	}
	contact, err := h.contacts.CreateContact(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "contact", "Contact created", contact)
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contacts.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "contact", contact)
}

// GetContacts lists contacts, optionally filtered by a search term.
func (h *ContactHandler) GetContacts(c *gin.Context) {
	limit, offset := ParsePagination(c)
	term := c.Query(constants.ParamSearch)
	contacts, err := h.contacts.ListContacts(c.Request.Context(), term, limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "contacts", contacts)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var updates map[string]interface{}
	if !BindJSON(c, &updates) {
		return
	}
	if err := h.contacts.UpdateContact(c.Request.Context(), c.Param("id"), updates); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Contact updated")
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contacts.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Contact deleted")
}

// ---- activities ----

func (h *ContactHandler) RecordActivity(c *gin.Context) {
	var req services.ActivityRequest
	if !BindJSON(c, &req) {
		return
	}
	activity, err := h.contacts.RecordActivity(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "activity", "Activity recorded", activity)
}

func (h *ContactHandler) GetActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery(constants.ParamLimit, "0"))
	activities, err := h.contacts.ListActivities(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "activities", activities)
}

// ---- scoring ----

// GetEngagement handles GET /api/contacts/:id/engagement
func (h *ContactHandler) GetEngagement(c *gin.Context) {
	result, err := h.contacts.EngagementScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "engagement", result)
}

// GetChurnRisk handles GET /api/contacts/:id/churn
func (h *ContactHandler) GetChurnRisk(c *gin.Context) {
	result, err := h.contacts.ChurnRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "churn", result)
}
