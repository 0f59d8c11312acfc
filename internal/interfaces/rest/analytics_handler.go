package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
)

// AnalyticsHandler runs admin SQL against the suite schema.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

type analyticsQueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Query handles POST /api/analytics/query (admin only)
func (h *AnalyticsHandler) Query(c *gin.Context) {
	var req analyticsQueryRequest
	if !BindJSON(c, &req) {
		return
	}
	result, err := h.analytics.Query(c.Request.Context(), req.Query)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "result", result)
}
