// Package storage is a client for the Supabase Storage API, the bucket that
// holds campaign media referenced by assessment requests.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/GemFund/gemini-service/internal/apperr"

	"go.uber.org/zap"
)

// signedURLTTL bounds how long a resolved media URL stays fetchable.
const signedURLTTL = 3600 // seconds

// mimeTypes maps file extensions to the MIME type reported alongside
// resolved URLs. Unknown extensions fall back to application/octet-stream.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// ResolvedFile is a time-bounded fetchable reference to a stored object.
type ResolvedFile struct {
	URL      string
	MIMEType string
}

// Client talks to the Supabase Storage API
type Client struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new storage client
func NewClient(baseURL, apiKey, bucket string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// MIMETypeFor derives the MIME type of a stored object from its extension.
func MIMETypeFor(objectPath string) string {
	if mime, ok := mimeTypes[strings.ToLower(path.Ext(objectPath))]; ok {
		return mime
	}
	return "application/octet-stream"
}

type signRequest struct {
	ExpiresIn int `json:"expiresIn"`
}

type signResponse struct {
	SignedURL string `json:"signedURL"`
}

// Resolve returns a signed, time-bounded URL for the object plus its MIME type.
func (c *Client) Resolve(ctx context.Context, objectPath string) (*ResolvedFile, error) {
	body, err := json.Marshal(signRequest{ExpiresIn: signedURLTTL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sign request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.baseURL, c.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "storage", "resolve", "sign request failed", err).With("path", objectPath)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperr.New(apperr.KindNotFound, "storage", "resolve", "object not found").With("path", objectPath)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, apperr.New(apperr.KindStorage, "storage", "resolve",
			fmt.Sprintf("sign returned status %d: %s", resp.StatusCode, string(raw))).With("path", objectPath)
	}

	var signed signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "storage", "resolve", "failed to decode sign response", err)
	}

	return &ResolvedFile{
		URL:      c.baseURL + "/storage/v1" + signed.SignedURL,
		MIMEType: MIMETypeFor(objectPath),
	}, nil
}

// Download streams the object's bytes into w.
func (c *Client) Download(ctx context.Context, objectPath string, w io.Writer) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "storage", "download", "request failed", err).With("path", objectPath)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.New(apperr.KindNotFound, "storage", "download", "object not found").With("path", objectPath)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return apperr.New(apperr.KindStorage, "storage", "download",
			fmt.Sprintf("download returned status %d: %s", resp.StatusCode, string(raw))).With("path", objectPath)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return apperr.Wrap(apperr.KindStorage, "storage", "download", "copy failed", err).With("path", objectPath)
	}

	c.logger.Debug("Downloaded object", zap.String("path", objectPath))
	return nil
}
