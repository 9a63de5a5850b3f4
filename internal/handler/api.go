package handler

import (
	"net/http"

	"github.com/GemFund/gemini-service/internal/apperr"
	"github.com/GemFund/gemini-service/internal/middleware"
	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	assessor     *service.Assessor
	investigator *service.Investigator
	jwtSecret    []byte
	logger       *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(assessor *service.Assessor, investigator *service.Investigator, jwtSecret []byte, logger *zap.Logger) *Handler {
	return &Handler{
		assessor:     assessor,
		investigator: investigator,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(h.jwtSecret, h.logger))
	{
		api.POST("/assess", h.Assess)
		api.POST("/investigate", h.Investigate)
		api.POST("/investigate/status", h.InvestigateStatus)
	}

	// Health check
	r.GET("/health", h.HealthCheck)
}

// Assess runs the rapid two-phase fraud assessment
func (h *Handler) Assess(c *gin.Context) {
	var req models.AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	assessment, err := h.assessor.Assess(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Assessment failed", zap.Error(err))
		h.writeError(c, err, "assessment failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"data":               assessment.Result,
		"forensics":          assessment.Forensics,
		"deep_investigation": assessment.DeepInvestigation,
	})
}

// Investigate starts a background deep investigation
func (h *Handler) Investigate(c *gin.Context) {
	var req models.InvestigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	investigation, err := h.investigator.Start(c.Request.Context(), req.CharityName, req.ClaimContext)
	if err != nil {
		h.logger.Error("Failed to start investigation", zap.Error(err))
		h.writeError(c, err, "failed to start investigation")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":        true,
		"interaction_id": investigation.InteractionID,
		"status":         investigation.Status,
		"message":        "Deep investigation started. Poll /api/v1/investigate/status for results",
	})
}

// InvestigateStatus returns the state of a deep investigation, including the
// formatted dossier once the research has completed.
func (h *Handler) InvestigateStatus(c *gin.Context) {
	var req models.InvestigateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	investigation, err := h.investigator.Poll(c.Request.Context(), req.InteractionID)
	if err != nil {
		h.logger.Error("Failed to poll investigation", zap.Error(err), zap.String("interaction_id", req.InteractionID))
		h.writeError(c, err, "failed to poll investigation")
		return
	}

	switch investigation.Status {
	case models.InvestigationCompleted:
		report, err := h.investigator.Format(c.Request.Context(), req.InteractionID)
		if err != nil {
			h.logger.Error("Failed to format report", zap.Error(err), zap.String("interaction_id", req.InteractionID))
			h.writeError(c, err, "failed to format report")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"status":     investigation.Status,
			"data":       report,
			"raw_output": investigation.RawOutput,
		})
	case models.InvestigationFailed:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  investigation.Status,
		})
	default:
		c.JSON(http.StatusAccepted, gin.H{
			"success": true,
			"status":  investigation.Status,
			"message": "Investigation still in progress",
		})
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "gemini-service",
		"version": "1.0.0",
	})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	status := apperr.StatusOf(err)
	message := fallback
	if appErr := apperr.FromError(err); appErr != nil {
		message = appErr.Message
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}
