// Package gemini wraps the Gemini API for the two call shapes this service
// needs: grounded free-form analysis and schema-constrained JSON extraction.
// Grounding (external search) and deterministic structured output are separate
// model capabilities, so every assessment is two calls, never one.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/GemFund/gemini-service/internal/apperr"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Config for Gemini client
type Config struct {
	APIKey            string
	ModelName         string // Default: "gemini-2.5-flash"
	DeepResearchAgent string
	InteractionsURL   string
	RequestsPerMinute int
	MediaPollInterval time.Duration
	MediaPollAttempts int
}

// Client wraps the Gemini API client
type Client struct {
	client       *genai.Client
	interactions *InteractionsClient
	modelName    string
	limiter      *RateLimiter
	logger       *zap.Logger
	pollInterval time.Duration
	pollAttempts int
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.5-flash"
	}

	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 8
	}

	if cfg.MediaPollInterval == 0 {
		cfg.MediaPollInterval = 2 * time.Second
	}

	if cfg.MediaPollAttempts == 0 {
		cfg.MediaPollAttempts = 30
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("Gemini client initialized",
		zap.String("model", cfg.ModelName),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute))

	return &Client{
		client:       client,
		interactions: NewInteractionsClient(cfg.InteractionsURL, cfg.APIKey, cfg.DeepResearchAgent, logger),
		modelName:    cfg.ModelName,
		limiter:      NewRateLimiter(cfg.RequestsPerMinute),
		logger:       logger,
		pollInterval: cfg.MediaPollInterval,
		pollAttempts: cfg.MediaPollAttempts,
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

// Interactions exposes the deep-research interactions API.
func (c *Client) Interactions() *InteractionsClient {
	return c.interactions
}

// Analyze runs a search-grounded free-form call and returns the model's text.
func (c *Client) Analyze(ctx context.Context, systemInstruction string, parts ...genai.Part) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.Tools = []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", wrapModelError("analyze", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", apperr.New(apperr.KindAI, "gemini", "analyze", "no response from model")
	}
	return text, nil
}

// ExtractJSON runs a schema-constrained call and unmarshals the result into out.
// Invalid or missing fields fail the call rather than silently defaulting.
func (c *Client) ExtractJSON(ctx context.Context, systemInstruction, prompt string, schema *genai.Schema, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return wrapModelError("extract", err)
	}

	text := responseText(resp)
	if text == "" {
		return apperr.New(apperr.KindAI, "gemini", "extract", "no response from model")
	}

	if err := json.Unmarshal([]byte(stripFences(text)), out); err != nil {
		c.logger.Error("Failed to parse structured response",
			zap.Error(err),
			zap.String("response", text))
		return apperr.Wrap(apperr.KindAI, "gemini", "extract", "failed to parse structured response", err)
	}

	return nil
}

// responseText concatenates all text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// stripFences removes markdown code fences the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func wrapModelError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return apperr.Wrap(apperr.KindRateLimited, "gemini", op, "model rate limited", err)
	}
	return apperr.Wrap(apperr.KindAI, "gemini", op, "model call failed", err)
}
