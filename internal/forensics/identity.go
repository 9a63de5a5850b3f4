package forensics

import (
	"context"

	"github.com/GemFund/gemini-service/internal/gemini"
	"github.com/GemFund/gemini-service/internal/models"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// IdentityAnalyzer is the AI dependency of the identity collector: a grounded
// analysis call followed by a schema-constrained extraction call.
type IdentityAnalyzer interface {
	Analyze(ctx context.Context, systemInstruction string, parts ...genai.Part) (string, error)
	ExtractJSON(ctx context.Context, systemInstruction, prompt string, schema *genai.Schema, out any) error
}

// IdentityCollector runs the OSINT investigation of the campaign creator.
type IdentityCollector struct {
	ai     IdentityAnalyzer
	logger *zap.Logger
}

// NewIdentityCollector creates a new identity collector
func NewIdentityCollector(ai IdentityAnalyzer, logger *zap.Logger) *IdentityCollector {
	return &IdentityCollector{ai: ai, logger: logger}
}

// Collect investigates the creator's online identity with a grounded search
// call, then extracts the findings into a structured profile. Returns nil on
// any failure; a degraded partial profile is never surfaced.
func (c *IdentityCollector) Collect(ctx context.Context, identity models.CreatorIdentity) *models.IdentityForensics {
	prompt := gemini.BuildIdentityPrompt(identity.FullName, identity.Username, identity.Email)

	analysis, err := c.ai.Analyze(ctx, gemini.IdentitySystemPrompt, genai.Text(prompt))
	if err != nil {
		c.logger.Warn("Identity investigation failed", zap.Error(err))
		return nil
	}

	var result models.IdentityForensics
	err = c.ai.ExtractJSON(ctx, gemini.ExtractionSystemPrompt, gemini.BuildExtractionPrompt(analysis), gemini.IdentitySchema, &result)
	if err != nil {
		c.logger.Warn("Identity extraction failed", zap.Error(err))
		return nil
	}

	if result.TrustScore < 0 || result.TrustScore > 100 {
		c.logger.Warn("Identity extraction returned out-of-range trust score",
			zap.Int("trust_score", result.TrustScore))
		return nil
	}
	switch result.AccountAge {
	case models.AccountAgeNew, models.AccountAgeEstablished, models.AccountAgeUnknown:
	default:
		c.logger.Warn("Identity extraction returned unknown account age",
			zap.String("account_age", string(result.AccountAge)))
		return nil
	}

	if result.PlatformsFound == nil {
		result.PlatformsFound = []string{}
	}
	if result.RedFlags == nil {
		result.RedFlags = []string{}
	}
	if result.GreenFlags == nil {
		result.GreenFlags = []string{}
	}

	return &result
}
