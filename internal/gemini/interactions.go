package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GemFund/gemini-service/internal/apperr"

	"go.uber.org/zap"
)

// Interaction statuses reported by the deep-research API.
const (
	InteractionCompleted = "completed"
	InteractionFailed    = "failed"
	InteractionCancelled = "cancelled"
)

// InteractionOutput is one output part of a finished interaction.
type InteractionOutput struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Interaction is a long-running background research job.
type Interaction struct {
	ID      string              `json:"id"`
	Status  string              `json:"status"`
	Outputs []InteractionOutput `json:"outputs"`
}

// RawOutput concatenates all text-bearing output parts.
func (i *Interaction) RawOutput() string {
	parts := make([]string, 0, len(i.Outputs))
	for _, out := range i.Outputs {
		if out.Text != "" {
			parts = append(parts, out.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// InteractionsClient talks to the background interactions API that runs
// deep-research agents.
type InteractionsClient struct {
	baseURL    string
	apiKey     string
	agent      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewInteractionsClient creates a new interactions client
func NewInteractionsClient(baseURL, apiKey, agent string, logger *zap.Logger) *InteractionsClient {
	return &InteractionsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		agent:      agent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type createInteractionRequest struct {
	Agent      string `json:"agent"`
	Input      string `json:"input"`
	Background bool   `json:"background"`
}

// Create starts a background research interaction and returns its handle.
func (c *InteractionsClient) Create(ctx context.Context, input string) (*Interaction, error) {
	body, err := json.Marshal(createInteractionRequest{
		Agent:      c.agent,
		Input:      input,
		Background: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/interactions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAI, "interactions", "create", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperr.New(apperr.KindRateLimited, "interactions", "create", "rate limited")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return nil, apperr.New(apperr.KindAI, "interactions", "create",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}

	var interaction Interaction
	if err := json.NewDecoder(resp.Body).Decode(&interaction); err != nil {
		return nil, apperr.Wrap(apperr.KindAI, "interactions", "create", "failed to decode response", err)
	}

	c.logger.Info("Deep research interaction started", zap.String("interaction_id", interaction.ID))
	return &interaction, nil
}

// Get fetches the current state of an interaction. The call is idempotent and
// side-effect-free; polling a finished interaction returns the same outputs.
func (c *InteractionsClient) Get(ctx context.Context, id string) (*Interaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/interactions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAI, "interactions", "get", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperr.New(apperr.KindNotFound, "interactions", "get", "interaction not found").With("interaction_id", id)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, apperr.New(apperr.KindAI, "interactions", "get",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}

	var interaction Interaction
	if err := json.NewDecoder(resp.Body).Decode(&interaction); err != nil {
		return nil, apperr.Wrap(apperr.KindAI, "interactions", "get", "failed to decode response", err)
	}
	return &interaction, nil
}
