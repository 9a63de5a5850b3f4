package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GemFund/gemini-service/internal/exif"
	"github.com/GemFund/gemini-service/internal/forensics"
	"github.com/GemFund/gemini-service/internal/gemini"
	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/scratch"
	"github.com/GemFund/gemini-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

type stubAI struct {
	analysis  string
	extracted string
}

func (s *stubAI) Analyze(ctx context.Context, systemInstruction string, parts ...genai.Part) (string, error) {
	return s.analysis, nil
}

func (s *stubAI) ExtractJSON(ctx context.Context, systemInstruction, prompt string, schema *genai.Schema, out any) error {
	return json.Unmarshal([]byte(s.extracted), out)
}

func (s *stubAI) UploadMedia(ctx context.Context, localPath, mimeType string) (*genai.File, error) {
	return &genai.File{URI: "files/" + localPath, MIMEType: mimeType}, nil
}

type stubMedia struct{}

func (stubMedia) Acquire(ctx context.Context, items []models.MediaItem) (*scratch.Lease, error) {
	return &scratch.Lease{}, nil
}

type stubAggregator struct{}

func (stubAggregator) Collect(ctx context.Context, in forensics.Input) models.Forensics {
	return models.Forensics{
		Exif:         models.DefaultExifForensics(),
		ReverseImage: models.DefaultReverseImageForensics(),
	}
}

type stubMetadata struct{}

func (stubMetadata) Extract(path string) exif.Metadata { return exif.Metadata{} }

type stubRunner struct {
	interaction *gemini.Interaction
}

func (s *stubRunner) Create(ctx context.Context, input string) (*gemini.Interaction, error) {
	return &gemini.Interaction{ID: "int-42", Status: "in_progress"}, nil
}

func (s *stubRunner) Get(ctx context.Context, id string) (*gemini.Interaction, error) {
	return s.interaction, nil
}

func newTestRouter(t *testing.T, ai *stubAI, runner *stubRunner) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	assessor := service.NewAssessor(ai, stubMedia{}, stubAggregator{}, stubMetadata{}, logger)
	investigator := service.NewInvestigator(runner, ai, logger)

	r := gin.New()
	NewHandler(assessor, investigator, testSecret, logger).RegisterRoutes(r)
	return r
}

func authToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const assessExtraction = `{
	"score": 30,
	"verdict": "SUSPICIOUS",
	"summary": "Multiple fraud markers.",
	"flags": ["burner wallet"],
	"evidence_match": {}
}`

func TestAssessEndpoint(t *testing.T) {
	ai := &stubAI{analysis: "analysis", extracted: assessExtraction}
	r := newTestRouter(t, ai, &stubRunner{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/assess",
		`{"text": "Urgent help needed for surgery costs", "creator_wallet": "0xabc"}`, authToken(t))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "RECOMMENDED", body["deep_investigation"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(30), data["score"])
	assert.Equal(t, "SUSPICIOUS", data["verdict"])

	_, ok = body["forensics"].(map[string]any)
	assert.True(t, ok)
}

func TestAssessRequiresAuth(t *testing.T) {
	r := newTestRouter(t, &stubAI{}, &stubRunner{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/assess", `{"text": "Urgent help needed"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/assess", `{"text": "Urgent help needed"}`, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssessRejectsWrongSecret(t *testing.T) {
	r := newTestRouter(t, &stubAI{}, &stubRunner{})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPost, "/api/v1/assess", `{"text": "Urgent help needed"}`, signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssessValidation(t *testing.T) {
	r := newTestRouter(t, &stubAI{analysis: "a", extracted: assessExtraction}, &stubRunner{})

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"short text", `{"text": "short"}`},
		{"malformed JSON", `{"text": `},
		{"too many media items", `{"text": "Urgent help needed now", "media": [
			{"path": "1.jpg", "type": "image"}, {"path": "2.jpg", "type": "image"},
			{"path": "3.jpg", "type": "image"}, {"path": "4.jpg", "type": "image"},
			{"path": "5.jpg", "type": "image"}, {"path": "6.jpg", "type": "image"},
			{"path": "7.jpg", "type": "image"}, {"path": "8.jpg", "type": "image"},
			{"path": "9.jpg", "type": "image"}, {"path": "10.jpg", "type": "image"},
			{"path": "11.jpg", "type": "image"}]}`},
		{"bad media kind", `{"text": "Urgent help needed now", "media": [{"path": "a.pdf", "type": "document"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/api/v1/assess", tt.body, authToken(t))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, decodeBody(t, w)["success"])
		})
	}
}

func TestInvestigateEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubAI{}, &stubRunner{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/investigate",
		`{"charity_name": "Hope Relief Fund", "claim_context": "Ships medical supplies to flood victims"}`, authToken(t))

	require.Equal(t, http.StatusAccepted, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "int-42", body["interaction_id"])
	assert.Equal(t, "processing", body["status"])
}

func TestInvestigateValidation(t *testing.T) {
	r := newTestRouter(t, &stubAI{}, &stubRunner{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/investigate", `{"charity_name": "X"}`, authToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvestigateStatusLifecycle(t *testing.T) {
	reportJSON := `{
		"charity_name": "Hope Relief Fund",
		"registration_status": {"is_registered": true},
		"fraud_indicators": {"scam_reports_found": false, "negative_mentions": [], "warning_signs": []},
		"financial_transparency": {"has_public_reports": true, "notes": "ok"},
		"cost_analysis": {"claimed_amount_reasonable": true, "market_rate_comparison": "ok"},
		"overall_risk_level": "LOW",
		"recommendation": "Proceed.",
		"sources": []
	}`
	ai := &stubAI{extracted: reportJSON}
	runner := &stubRunner{interaction: &gemini.Interaction{ID: "int-42", Status: "in_progress"}}
	r := newTestRouter(t, ai, runner)
	token := authToken(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/investigate",
		`{"charity_name": "Hope Relief Fund", "claim_context": "Ships medical supplies"}`, token)
	require.Equal(t, http.StatusAccepted, w.Code)

	// still processing
	w = doRequest(t, r, http.MethodPost, "/api/v1/investigate/status", `{"interaction_id": "int-42"}`, token)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "processing", decodeBody(t, w)["status"])

	// completed
	runner.interaction = &gemini.Interaction{
		ID:      "int-42",
		Status:  gemini.InteractionCompleted,
		Outputs: []gemini.InteractionOutput{{Type: "text", Text: "Registered 501(c)(3)."}},
	}
	w = doRequest(t, r, http.MethodPost, "/api/v1/investigate/status", `{"interaction_id": "int-42"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, "Registered 501(c)(3).", body["raw_output"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hope Relief Fund", data["charity_name"])
}

func TestInvestigateStatusFailed(t *testing.T) {
	runner := &stubRunner{interaction: &gemini.Interaction{ID: "int-42", Status: gemini.InteractionFailed}}
	r := newTestRouter(t, &stubAI{}, runner)
	token := authToken(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/investigate",
		`{"charity_name": "Hope Relief Fund", "claim_context": "Ships medical supplies"}`, token)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/investigate/status", `{"interaction_id": "int-42"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "failed", body["status"])
	assert.Nil(t, body["data"])
}

func TestInvestigateStatusUnknownID(t *testing.T) {
	r := newTestRouter(t, &stubAI{}, &stubRunner{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/investigate/status", `{"interaction_id": "missing"}`, authToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheckIsPublic(t *testing.T) {
	r := newTestRouter(t, &stubAI{}, &stubRunner{})

	w := doRequest(t, r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}
