// Package service holds the two orchestration flows of the API: the rapid
// two-phase assessment and the long-running deep investigation.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GemFund/gemini-service/internal/apperr"
	"github.com/GemFund/gemini-service/internal/exif"
	"github.com/GemFund/gemini-service/internal/forensics"
	"github.com/GemFund/gemini-service/internal/gemini"
	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/scratch"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Recommendation values surfaced with every assessment.
const (
	DeepInvestigationRecommended = "RECOMMENDED"
	DeepInvestigationOptional    = "OPTIONAL"
)

// deepInvestigationThreshold is the score below which a deep investigation
// is recommended.
const deepInvestigationThreshold = 50

// maxMetadataImages bounds the per-image metadata block fed to the model.
const maxMetadataImages = 3

// AssessmentAI is the model dependency of the assessor.
type AssessmentAI interface {
	Analyze(ctx context.Context, systemInstruction string, parts ...genai.Part) (string, error)
	ExtractJSON(ctx context.Context, systemInstruction, prompt string, schema *genai.Schema, out any) error
	UploadMedia(ctx context.Context, localPath, mimeType string) (*genai.File, error)
}

// MediaStore leases remote media into local scratch storage.
type MediaStore interface {
	Acquire(ctx context.Context, items []models.MediaItem) (*scratch.Lease, error)
}

// EvidenceAggregator fans an assessment out to the evidence collectors.
type EvidenceAggregator interface {
	Collect(ctx context.Context, in forensics.Input) models.Forensics
}

// MetadataReader extracts per-image metadata for the model prompt.
type MetadataReader interface {
	Extract(path string) exif.Metadata
}

// Assessment is the full outcome of one rapid assessment.
type Assessment struct {
	Result            models.AssessmentResult
	Forensics         models.Forensics
	DeepInvestigation string
}

// Assessor orchestrates evidence collection and the two-phase model call.
type Assessor struct {
	ai         AssessmentAI
	media      MediaStore
	aggregator EvidenceAggregator
	metadata   MetadataReader
	logger     *zap.Logger
}

// NewAssessor creates a new assessor
func NewAssessor(ai AssessmentAI, media MediaStore, aggregator EvidenceAggregator, metadata MetadataReader, logger *zap.Logger) *Assessor {
	return &Assessor{
		ai:         ai,
		media:      media,
		aggregator: aggregator,
		metadata:   metadata,
		logger:     logger,
	}
}

// Assess runs the full pipeline for one campaign: lease media locally,
// collect forensic evidence in parallel, reason over everything with a
// grounded analysis call, then extract the structured verdict.
func (a *Assessor) Assess(ctx context.Context, req models.AssessRequest) (*Assessment, error) {
	lease, err := a.media.Acquire(ctx, req.Media)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "assessor", "acquire media", "failed to lease scratch storage", err)
	}
	defer lease.Release()
	files := lease.Files

	bundle := a.aggregator.Collect(ctx, forensics.Input{
		Media:           req.Media,
		LocalFiles:      files,
		CreatorWallet:   req.CreatorWallet,
		DonorWallets:    req.DonorWallets,
		CreatorIdentity: req.CreatorIdentity,
	})

	forensicsJSON, err := json.Marshal(bundle)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAI, "assessor", "marshal forensics", "failed to encode forensic bundle", err)
	}

	parts := []genai.Part{genai.Text(gemini.BuildAssessmentPrompt(req.Text, string(forensicsJSON), a.metadataBlock(files)))}
	parts = append(parts, a.uploadMedia(ctx, files)...)

	analysis, err := a.ai.Analyze(ctx, gemini.AssessmentSystemPrompt, parts...)
	if err != nil {
		return nil, err
	}

	var result models.AssessmentResult
	if err := a.ai.ExtractJSON(ctx, gemini.ExtractionSystemPrompt, gemini.BuildExtractionPrompt(analysis), gemini.AssessmentSchema, &result); err != nil {
		return nil, err
	}
	if err := validateResult(result); err != nil {
		return nil, err
	}
	if result.Flags == nil {
		result.Flags = []string{}
	}

	recommendation := DeepInvestigationOptional
	if result.Score < deepInvestigationThreshold {
		recommendation = DeepInvestigationRecommended
	}

	a.logger.Info("Assessment completed",
		zap.Int("score", result.Score),
		zap.String("verdict", string(result.Verdict)),
		zap.String("deep_investigation", recommendation))

	return &Assessment{
		Result:            result,
		Forensics:         bundle,
		DeepInvestigation: recommendation,
	}, nil
}

// uploadMedia pushes every leased file to the model's file store. Upload
// failures skip the file so the assessment can still reason over the rest.
func (a *Assessor) uploadMedia(ctx context.Context, files []scratch.LocalFile) []genai.Part {
	var parts []genai.Part
	for _, f := range files {
		uploaded, err := a.ai.UploadMedia(ctx, f.LocalPath, f.MIMEType)
		if err != nil {
			a.logger.Warn("Skipping media upload",
				zap.String("path", f.Item.Path),
				zap.Error(err))
			continue
		}
		parts = append(parts, genai.FileData{MIMEType: uploaded.MIMEType, FileURI: uploaded.URI})
	}
	return parts
}

// metadataBlock formats per-image metadata for the analysis prompt.
func (a *Assessor) metadataBlock(files []scratch.LocalFile) string {
	var b strings.Builder
	images := 0
	for _, f := range files {
		if f.Item.Kind != models.MediaImage {
			continue
		}
		if images == maxMetadataImages {
			break
		}
		images++

		meta := a.metadata.Extract(f.LocalPath)
		fmt.Fprintf(&b, "Image %d (%s):\n", images, f.Item.Path)
		fmt.Fprintf(&b, "  GPS data present: %t\n", meta.HasGps)
		if meta.Software != "" {
			fmt.Fprintf(&b, "  Software: %s\n", meta.Software)
		}
		if meta.DateTaken != "" {
			fmt.Fprintf(&b, "  Date taken: %s\n", meta.DateTaken)
		}
		if meta.DateModified != "" {
			fmt.Fprintf(&b, "  Date modified: %s\n", meta.DateModified)
		}
		for _, w := range meta.Warnings {
			fmt.Fprintf(&b, "  Warning: %s\n", w)
		}
	}
	return b.String()
}

func validateResult(result models.AssessmentResult) error {
	if result.Score < 0 || result.Score > 100 {
		return apperr.New(apperr.KindAI, "assessor", "validate result",
			fmt.Sprintf("score out of range: %d", result.Score))
	}
	switch result.Verdict {
	case models.VerdictCredible, models.VerdictSuspicious, models.VerdictFraudulent:
	default:
		return apperr.New(apperr.KindAI, "assessor", "validate result",
			fmt.Sprintf("unknown verdict: %q", result.Verdict))
	}
	return nil
}
