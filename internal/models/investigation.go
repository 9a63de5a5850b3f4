package models

import "time"

// InvestigationStatus is the lifecycle state of a deep investigation.
// Completed and Failed are terminal: no transition ever leaves them.
type InvestigationStatus string

const (
	InvestigationPending    InvestigationStatus = "pending"
	InvestigationProcessing InvestigationStatus = "processing"
	InvestigationCompleted  InvestigationStatus = "completed"
	InvestigationFailed     InvestigationStatus = "failed"
)

// Terminal reports whether no further status transitions are permitted.
func (s InvestigationStatus) Terminal() bool {
	return s == InvestigationCompleted || s == InvestigationFailed
}

// Investigation tracks one long-running research job.
type Investigation struct {
	InteractionID string               `json:"interaction_id"`
	Status        InvestigationStatus  `json:"status"`
	RawOutput     string               `json:"raw_output,omitempty"`
	Report        *InvestigationReport `json:"report,omitempty"`
	StartedAt     time.Time            `json:"started_at"`
}

// RiskLevel grades the investigated organization.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RegistrationStatus holds official charity registry findings.
type RegistrationStatus struct {
	IsRegistered       bool   `json:"is_registered"`
	RegistryName       string `json:"registry_name,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// FraudIndicators holds scam and complaint findings.
type FraudIndicators struct {
	ScamReportsFound bool     `json:"scam_reports_found"`
	NegativeMentions []string `json:"negative_mentions"`
	WarningSigns     []string `json:"warning_signs"`
}

// FinancialTransparency describes the organization's public reporting.
type FinancialTransparency struct {
	HasPublicReports bool   `json:"has_public_reports"`
	LastReportYear   int    `json:"last_report_year,omitempty"`
	Notes            string `json:"notes"`
}

// CostAnalysis compares claimed costs with market rates.
type CostAnalysis struct {
	ClaimedAmountReasonable bool   `json:"claimed_amount_reasonable"`
	MarketRateComparison    string `json:"market_rate_comparison"`
}

// ResearchSource is one source consulted during deep research.
type ResearchSource struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Relevance string `json:"relevance"`
}

// InvestigationReport is the structured dossier extracted from raw research output.
type InvestigationReport struct {
	CharityName           string                `json:"charity_name"`
	RegistrationStatus    RegistrationStatus    `json:"registration_status"`
	FraudIndicators       FraudIndicators       `json:"fraud_indicators"`
	FinancialTransparency FinancialTransparency `json:"financial_transparency"`
	CostAnalysis          CostAnalysis          `json:"cost_analysis"`
	OverallRiskLevel      RiskLevel             `json:"overall_risk_level"`
	Recommendation        string                `json:"recommendation"`
	Sources               []ResearchSource      `json:"sources"`
}

// InvestigateRequest is the payload of POST /api/v1/investigate.
type InvestigateRequest struct {
	CharityName  string `json:"charity_name" binding:"required,min=2"`
	ClaimContext string `json:"claim_context" binding:"required,min=10"`
}

// InvestigateStatusRequest is the payload of POST /api/v1/investigate/status.
type InvestigateStatusRequest struct {
	InteractionID string `json:"interaction_id" binding:"required,min=1"`
}
