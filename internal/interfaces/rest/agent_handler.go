package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
)

// AgentHandler exposes the per-module assistants.
type AgentHandler struct {
	agents *services.AgentRegistry
}

func NewAgentHandler(agents *services.AgentRegistry) *AgentHandler {
	return &AgentHandler{agents: agents}
}

type agentSummary struct {
	Name         string                `json:"name"`
	Capabilities []services.Capability `json:"capabilities"`
}

// List handles GET /api/agents
func (h *AgentHandler) List(c *gin.Context) {
	summaries := make([]agentSummary, 0)
	for _, agent := range h.agents.List() {
		summaries = append(summaries, agentSummary{
			Name:         agent.Name(),
			Capabilities: agent.Capabilities(),
		})
	}
	RespondOK(c, "agents", summaries)
}

// Invoke handles POST /api/agents/:name
func (h *AgentHandler) Invoke(c *gin.Context) {
	agent, err := h.agents.Get(c.Param("name"))
	if err != nil {
		RespondAppError(c, err)
		return
	}

	var req services.AgentRequest
	if !BindJSON(c, &req) {
		return
	}

	resp, err := agent.Handle(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
