package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaserp/backend/pkg/errors"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestAgentRegistryGet(t *testing.T) {
	agent := NewAccountingAgent(NewAccountingService(nil), nil)
	registry := NewAgentRegistry(agent)

	got, err := registry.Get("accounting")
	require.NoError(t, err)
	assert.Equal(t, agent, got)

	_, err = registry.Get("shipping")
	assert.True(t, errors.IsNotFound(err))
}

func TestAccountingAgentRiskCapability(t *testing.T) {
	agent := NewAccountingAgent(NewAccountingService(nil), nil)

	resp, err := agent.Handle(context.Background(), AgentRequest{
		Capability: "risk",
		Params: map[string]interface{}{
			"findings": []interface{}{
				map[string]interface{}{"kind": "anomaly", "severity": "high", "detail": "Spike in refunds"},
				map[string]interface{}{"kind": "compliance", "severity": "low", "detail": "Late filing"},
			},
		},
	})
	require.NoError(t, err)

	review, ok := resp.Data.(*RiskReview)
	require.True(t, ok)
	assert.Equal(t, 1, review.Anomalies)
	assert.Equal(t, 1, review.Compliance)
	assert.Greater(t, review.Score, 0)
}

func TestAccountingAgentRejectsUnknownSeverity(t *testing.T) {
	agent := NewAccountingAgent(NewAccountingService(nil), nil)

	_, err := agent.Handle(context.Background(), AgentRequest{
		Capability: "risk",
		Params: map[string]interface{}{
			"findings": []interface{}{
				map[string]interface{}{"kind": "anomaly", "severity": "catastrophic"},
			},
		},
	})
	assert.True(t, errors.IsValidation(err))
}

func TestAgentChatForwardsPrompt(t *testing.T) {
	llm := &stubLLM{reply: "Revenue is trending up."}
	agent := NewAccountingAgent(NewAccountingService(nil), llm)

	resp, err := agent.Handle(context.Background(), AgentRequest{
		Capability: "chat",
		Prompt:     "Summarize this quarter",
	})
	require.NoError(t, err)
	assert.Equal(t, "Revenue is trending up.", resp.Text)
	assert.Equal(t, "chat", resp.Capability)
}

func TestAgentChatRequiresPrompt(t *testing.T) {
	agent := NewAccountingAgent(NewAccountingService(nil), &stubLLM{})

	_, err := agent.Handle(context.Background(), AgentRequest{Capability: "chat"})
	assert.True(t, errors.IsValidation(err))
}

func TestAgentRejectsUnknownCapability(t *testing.T) {
	agent := NewContactInsightsAgent(nil, nil)

	_, err := agent.Handle(context.Background(), AgentRequest{Capability: "forecast"})
	assert.True(t, errors.IsValidation(err))
}

func TestContactInsightsRequiresContactID(t *testing.T) {
	agent := NewContactInsightsAgent(nil, nil)

	_, err := agent.Handle(context.Background(), AgentRequest{Capability: "engagement"})
	assert.True(t, errors.IsValidation(err))
}
