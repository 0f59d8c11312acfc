package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/internal/interfaces/rest"
	"github.com/atlaserp/backend/pkg/errors"
)

// echoAgent answers a single capability by echoing the prompt back.
type echoAgent struct{}

func (a *echoAgent) Name() string { return "echo" }

func (a *echoAgent) Capabilities() []services.Capability {
	return []services.Capability{{Name: "chat", Description: "Echo the prompt"}}
}

func (a *echoAgent) Handle(ctx context.Context, req services.AgentRequest) (*services.AgentResponse, error) {
	if req.Capability != "chat" {
		return nil, errors.NewValidationError("capability", "Unknown capability")
	}
	return &services.AgentResponse{Agent: a.Name(), Capability: req.Capability, Text: req.Prompt}, nil
}

func TestAgentHandler_Invoke(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := rest.NewAgentHandler(services.NewAgentRegistry(&echoAgent{}))

	t.Run("Success", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body, _ := json.Marshal(services.AgentRequest{Capability: "chat", Prompt: "hello"})
		c.Request = httptest.NewRequest("POST", "/agents/echo", bytes.NewBuffer(body))
		c.Params = gin.Params{{Key: "name", Value: "echo"}}

		handler.Invoke(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp services.AgentResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "hello", resp.Text)
	})

	t.Run("Unknown Agent", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest("POST", "/agents/forecaster", bytes.NewBufferString(`{}`))
		c.Params = gin.Params{{Key: "name", Value: "forecaster"}}

		handler.Invoke(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unknown Capability", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body, _ := json.Marshal(services.AgentRequest{Capability: "paint"})
		c.Request = httptest.NewRequest("POST", "/agents/echo", bytes.NewBuffer(body))
		c.Params = gin.Params{{Key: "name", Value: "echo"}}

		handler.Invoke(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAgentHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := rest.NewAgentHandler(services.NewAgentRegistry(&echoAgent{}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/agents", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Agents []struct {
			Name         string                `json:"name"`
			Capabilities []services.Capability `json:"capabilities"`
		} `json:"agents"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Agents, 1)
	assert.Equal(t, "echo", resp.Agents[0].Name)
	assert.Len(t, resp.Agents[0].Capabilities, 1)
}
