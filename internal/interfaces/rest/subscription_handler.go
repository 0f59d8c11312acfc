package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/pkg/constants"
)

// SubscriptionHandler serves the subscription lifecycle and MRR/churn
// metrics.
type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req services.SubscriptionRequest
	if !BindJSON(c, &req) {
		return
	}
	sub, err := h.subscriptions.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "subscription", "Subscription created", sub)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	sub, err := h.subscriptions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "subscription", sub)
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)
	subs, err := h.subscriptions.List(c.Request.Context(), c.Query(constants.ParamStatus), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "subscriptions", subs)
}

func (h *SubscriptionHandler) Pause(c *gin.Context) {
	if err := h.subscriptions.Pause(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Subscription paused")
}

func (h *SubscriptionHandler) Resume(c *gin.Context) {
	if err := h.subscriptions.Resume(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Subscription resumed")
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	if err := h.subscriptions.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Subscription cancelled")
}

// GetMetrics handles GET /api/subscriptions/metrics
func (h *SubscriptionHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.subscriptions.Metrics(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "metrics", metrics)
}
