package services

import (
	"context"
	"fmt"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/pkg/errors"
)

// Capability names one operation an agent can perform.
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AgentRequest is a capability invocation. Params carry
// capability-specific inputs; Prompt is used by chat capabilities.
type AgentRequest struct {
	Capability string                 `json:"capability"`
	Prompt     string                 `json:"prompt,omitempty"`
	Params     map[string]interface{} `json:"params,omitempty"`
}

// AgentResponse is a structured result. Exactly one of Data or Text is
// set depending on the capability kind.
type AgentResponse struct {
	Agent      string      `json:"agent"`
	Capability string      `json:"capability"`
	Data       interface{} `json:"data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

// Agent is a per-module assistant combining rule-based analytics with
// an optional chat capability.
type Agent interface {
	Name() string
	Capabilities() []Capability
	Handle(ctx context.Context, req AgentRequest) (*AgentResponse, error)
}

// AgentRegistry indexes agents by name.
type AgentRegistry struct {
	agents map[string]Agent
	order  []string
}

func NewAgentRegistry(agents ...Agent) *AgentRegistry {
	r := &AgentRegistry{agents: make(map[string]Agent)}
	for _, a := range agents {
		r.agents[a.Name()] = a
		r.order = append(r.order, a.Name())
	}
	return r
}

func (r *AgentRegistry) Get(name string) (Agent, error) {
	agent, ok := r.agents[name]
	if !ok {
		return nil, errors.NewNotFoundError("Agent", name)
	}
	return agent, nil
}

// List returns agents in registration order.
func (r *AgentRegistry) List() []Agent {
	out := make([]Agent, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.agents[name])
	}
	return out
}

// chatCapability forwards a prompt to the LLM collaborator. A nil or
// failing client surfaces as an upstream error, not a crash.
func chatCapability(ctx context.Context, llm LLMClient, agent, prompt string) (*AgentResponse, error) {
	if prompt == "" {
		return nil, errors.NewValidationError("prompt", "Prompt is required for chat")
	}
	if llm == nil {
		return nil, errors.NewUpstreamError("llm", nil)
	}
	text, err := llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &AgentResponse{Agent: agent, Capability: "chat", Text: text}, nil
}

func stringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", errors.NewValidationError(key, "Missing required parameter")
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.NewValidationError(key, "Must be a non-empty string")
	}
	return s, nil
}

// ---- contact insights ----

// ContactInsightsAgent answers engagement and churn questions over
// stored contact signals.
type ContactInsightsAgent struct {
	contacts *ContactService
	llm      LLMClient
}

func NewContactInsightsAgent(contacts *ContactService, llm LLMClient) *ContactInsightsAgent {
	return &ContactInsightsAgent{contacts: contacts, llm: llm}
}

func (a *ContactInsightsAgent) Name() string { return "contact-insights" }

func (a *ContactInsightsAgent) Capabilities() []Capability {
	return []Capability{
		{Name: "engagement", Description: "Score a contact's engagement from stored activity signals"},
		{Name: "churn", Description: "Assess a contact's churn risk and revenue exposure"},
		{Name: "chat", Description: "Free-form question forwarded to the text-generation service"},
	}
}

func (a *ContactInsightsAgent) Handle(ctx context.Context, req AgentRequest) (*AgentResponse, error) {
	switch req.Capability {
	case "engagement":
		contactID, err := stringParam(req.Params, "contact_id")
		if err != nil {
			return nil, err
		}
		result, err := a.contacts.EngagementScore(ctx, contactID)
		if err != nil {
			return nil, err
		}
		return &AgentResponse{Agent: a.Name(), Capability: req.Capability, Data: result}, nil

	case "churn":
		contactID, err := stringParam(req.Params, "contact_id")
		if err != nil {
			return nil, err
		}
		result, err := a.contacts.ChurnRisk(ctx, contactID)
		if err != nil {
			return nil, err
		}
		return &AgentResponse{Agent: a.Name(), Capability: req.Capability, Data: result}, nil

	case "chat":
		return chatCapability(ctx, a.llm, a.Name(), req.Prompt)
	}
	return nil, errors.NewValidationError("capability", fmt.Sprintf("Agent %s has no capability %q", a.Name(), req.Capability))
}

// ---- accounting ----

// AccountingAgent runs reconciliation and risk summaries.
type AccountingAgent struct {
	accounting *AccountingService
	llm        LLMClient
}

func NewAccountingAgent(accounting *AccountingService, llm LLMClient) *AccountingAgent {
	return &AccountingAgent{accounting: accounting, llm: llm}
}

func (a *AccountingAgent) Name() string { return "accounting" }

func (a *AccountingAgent) Capabilities() []Capability {
	return []Capability{
		{Name: "reconcile", Description: "Match unreconciled bank transactions against journal entries"},
		{Name: "risk", Description: "Score account risk from anomaly and compliance findings"},
		{Name: "chat", Description: "Free-form question forwarded to the text-generation service"},
	}
}

func (a *AccountingAgent) Handle(ctx context.Context, req AgentRequest) (*AgentResponse, error) {
	switch req.Capability {
	case "reconcile":
		report, err := a.accounting.Reconcile(ctx)
		if err != nil {
			return nil, err
		}
		return &AgentResponse{Agent: a.Name(), Capability: req.Capability, Data: report}, nil

	case "risk":
		findings, err := decodeFindings(req.Params)
		if err != nil {
			return nil, err
		}
		review, err := a.accounting.AccountRiskReview(findings)
		if err != nil {
			return nil, err
		}
		return &AgentResponse{Agent: a.Name(), Capability: req.Capability, Data: review}, nil

	case "chat":
		return chatCapability(ctx, a.llm, a.Name(), req.Prompt)
	}
	return nil, errors.NewValidationError("capability", fmt.Sprintf("Agent %s has no capability %q", a.Name(), req.Capability))
}

// decodeFindings reads a findings list from loosely-typed JSON params.
func decodeFindings(params map[string]interface{}) ([]models.RiskFinding, error) {
	raw, ok := params["findings"].([]interface{})
	if !ok {
		return nil, errors.NewValidationError("findings", "Must be a list of findings")
	}

	findings := make([]models.RiskFinding, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.NewValidationError("findings", "Each finding must be an object")
		}
		f := models.RiskFinding{}
		if kind, ok := m["kind"].(string); ok {
			f.Kind = kind
		}
		if sev, ok := m["severity"].(string); ok {
			f.Severity = sev
		}
		if detail, ok := m["detail"].(string); ok {
			f.Detail = detail
		}
		findings = append(findings, f)
	}
	return findings, nil
}
