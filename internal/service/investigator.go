package service

import (
	"context"
	"sync"
	"time"

	"github.com/GemFund/gemini-service/internal/apperr"
	"github.com/GemFund/gemini-service/internal/gemini"
	"github.com/GemFund/gemini-service/internal/models"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// InteractionRunner is the background-research dependency of the investigator.
type InteractionRunner interface {
	Create(ctx context.Context, input string) (*gemini.Interaction, error)
	Get(ctx context.Context, id string) (*gemini.Interaction, error)
}

// ReportFormatter turns raw research text into a structured dossier.
type ReportFormatter interface {
	ExtractJSON(ctx context.Context, systemInstruction, prompt string, schema *genai.Schema, out any) error
}

// Investigator manages long-running charity investigations. Sessions live in
// memory for the lifetime of the process; completed and failed sessions are
// frozen and every later poll returns the stored result unchanged.
type Investigator struct {
	runner    InteractionRunner
	formatter ReportFormatter
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*models.Investigation

	now func() time.Time
}

// NewInvestigator creates a new investigator
func NewInvestigator(runner InteractionRunner, formatter ReportFormatter, logger *zap.Logger) *Investigator {
	return &Investigator{
		runner:    runner,
		formatter: formatter,
		logger:    logger,
		sessions:  make(map[string]*models.Investigation),
		now:       time.Now,
	}
}

// Start launches a background investigation and tracks it as processing.
func (inv *Investigator) Start(ctx context.Context, charityName, claimContext string) (*models.Investigation, error) {
	interaction, err := inv.runner.Create(ctx, gemini.BuildInvestigationPrompt(charityName, claimContext))
	if err != nil {
		return nil, err
	}

	session := &models.Investigation{
		InteractionID: interaction.ID,
		Status:        models.InvestigationProcessing,
		StartedAt:     inv.now(),
	}

	inv.mu.Lock()
	inv.sessions[interaction.ID] = session
	inv.mu.Unlock()

	inv.logger.Info("Investigation started",
		zap.String("interaction_id", interaction.ID),
		zap.String("charity_name", charityName))

	return snapshot(session), nil
}

// Poll returns the current state of an investigation, advancing it when the
// background interaction has finished. Terminal sessions are returned as-is
// without contacting the research backend again.
func (inv *Investigator) Poll(ctx context.Context, id string) (*models.Investigation, error) {
	inv.mu.Lock()
	session, ok := inv.sessions[id]
	if !ok {
		inv.mu.Unlock()
		return nil, apperr.New(apperr.KindNotFound, "investigator", "poll", "unknown interaction id")
	}
	if session.Status.Terminal() {
		result := snapshot(session)
		inv.mu.Unlock()
		return result, nil
	}
	inv.mu.Unlock()

	interaction, err := inv.runner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	// A concurrent poll may have finished the session while we were fetching.
	if !session.Status.Terminal() {
		switch interaction.Status {
		case gemini.InteractionCompleted:
			session.Status = models.InvestigationCompleted
			session.RawOutput = interaction.RawOutput()
		case gemini.InteractionFailed, gemini.InteractionCancelled:
			session.Status = models.InvestigationFailed
		default:
			session.Status = models.InvestigationProcessing
		}
	}

	return snapshot(session), nil
}

// Format extracts the structured dossier from a completed investigation's
// research output. The dossier is cached on the session, so repeated status
// requests after completion never re-run the extraction call.
func (inv *Investigator) Format(ctx context.Context, id string) (*models.InvestigationReport, error) {
	inv.mu.Lock()
	session, ok := inv.sessions[id]
	if !ok {
		inv.mu.Unlock()
		return nil, apperr.New(apperr.KindNotFound, "investigator", "format", "unknown interaction id")
	}
	if session.Status != models.InvestigationCompleted {
		inv.mu.Unlock()
		return nil, apperr.New(apperr.KindValidation, "investigator", "format", "investigation not completed")
	}
	if session.Report != nil {
		report := session.Report
		inv.mu.Unlock()
		return report, nil
	}
	rawOutput := session.RawOutput
	inv.mu.Unlock()

	var report models.InvestigationReport
	err := inv.formatter.ExtractJSON(ctx, gemini.InvestigationSystemPrompt, gemini.BuildReportPrompt(rawOutput), gemini.ReportSchema, &report)
	if err != nil {
		return nil, err
	}

	inv.mu.Lock()
	session.Report = &report
	inv.mu.Unlock()

	return &report, nil
}

func snapshot(session *models.Investigation) *models.Investigation {
	copied := *session
	return &copied
}
