// Package serpapi is a client for SerpAPI's reverse image search, used to
// detect recycled or stock imagery in campaign media.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/GemFund/gemini-service/internal/apperr"
	"github.com/GemFund/gemini-service/internal/models"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://serpapi.com/search.json"

// SearchResult is one reverse-image search run for a single image URL.
type SearchResult struct {
	Sources   []models.ImageSource
	SearchURL string
}

// Client talks to SerpAPI
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new SerpAPI client
func NewClient(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type serpResponse struct {
	ImageResults []struct {
		Title  string `json:"title"`
		Link   string `json:"link"`
		Source string `json:"source"`
	} `json:"image_results"`
	SearchMetadata struct {
		GoogleURL string `json:"google_url"`
	} `json:"search_metadata"`
}

// ReverseSearch runs a Google reverse image search for the given image URL.
func (c *Client) ReverseSearch(ctx context.Context, imageURL string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google_reverse_image")
	params.Set("image_url", imageURL)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindReverseImage, "serpapi", "reverse_search", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperr.New(apperr.KindRateLimited, "serpapi", "reverse_search", "rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, apperr.New(apperr.KindReverseImage, "serpapi", "reverse_search",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}

	var data serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperr.Wrap(apperr.KindReverseImage, "serpapi", "reverse_search", "failed to decode response", err)
	}

	result := &SearchResult{SearchURL: data.SearchMetadata.GoogleURL}
	for _, r := range data.ImageResults {
		result.Sources = append(result.Sources, models.ImageSource{
			Title:  r.Title,
			Link:   r.Link,
			Source: r.Source,
		})
	}

	c.logger.Debug("Reverse image search completed", zap.Int("matches", len(result.Sources)))
	return result, nil
}
