package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GemFund/gemini-service/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInteractionsCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/interactions", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body createInteractionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "deep-research", body.Agent)
		assert.True(t, body.Background)
		assert.Contains(t, body.Input, "Hearts for Children")

		json.NewEncoder(w).Encode(map[string]string{"id": "interaction_abc123", "status": "in_progress"})
	}))
	defer srv.Close()

	c := NewInteractionsClient(srv.URL, "test-key", "deep-research", zap.NewNop())
	interaction, err := c.Create(context.Background(), BuildInvestigationPrompt("Hearts for Children", "pediatric surgeries"))
	require.NoError(t, err)
	assert.Equal(t, "interaction_abc123", interaction.ID)
}

func TestInteractionsGetCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/interactions/interaction_abc123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "interaction_abc123",
			"status": "completed",
			"outputs": []map[string]string{
				{"type": "text", "text": "Registered 501(c)(3)."},
				{"type": "tool_call", "text": ""},
				{"type": "text", "text": "No scam reports found."},
			},
		})
	}))
	defer srv.Close()

	c := NewInteractionsClient(srv.URL, "k", "deep-research", zap.NewNop())
	interaction, err := c.Get(context.Background(), "interaction_abc123")
	require.NoError(t, err)

	assert.Equal(t, InteractionCompleted, interaction.Status)
	assert.Equal(t, "Registered 501(c)(3).\n\nNo scam reports found.", interaction.RawOutput())
}

func TestInteractionsGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewInteractionsClient(srv.URL, "k", "deep-research", zap.NewNop())
	_, err := c.Get(context.Background(), "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("  \n{\"a\":1}\n  "))
}
