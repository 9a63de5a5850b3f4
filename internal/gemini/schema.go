package gemini

import "github.com/google/generative-ai-go/genai"

// AssessmentSchema constrains the phase-2 extraction of an assessment.
var AssessmentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score": {
			Type:        genai.TypeInteger,
			Description: "Credibility score 0-100, higher is more credible",
		},
		"verdict": {
			Type: genai.TypeString,
			Enum: []string{"CREDIBLE", "SUSPICIOUS", "FRAUDULENT"},
		},
		"summary": {
			Type:        genai.TypeString,
			Description: "Human-readable explanation of the assessment findings",
		},
		"flags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"evidence_match": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"location_verified":    {Type: genai.TypeBoolean},
				"visuals_match_text":   {Type: genai.TypeBoolean},
				"search_corroboration": {Type: genai.TypeBoolean},
				"metadata_consistent":  {Type: genai.TypeBoolean},
			},
			Required: []string{"location_verified", "visuals_match_text", "search_corroboration", "metadata_consistent"},
		},
	},
	Required: []string{"score", "verdict", "summary", "flags", "evidence_match"},
}

// IdentitySchema constrains the extraction of an identity OSINT investigation.
var IdentitySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"platforms_found": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"scam_reports_found":  {Type: genai.TypeBoolean},
		"is_disposable_email": {Type: genai.TypeBoolean},
		"identity_consistent": {Type: genai.TypeBoolean},
		"account_age": {
			Type: genai.TypeString,
			Enum: []string{"NEW", "ESTABLISHED", "UNKNOWN"},
		},
		"trust_score": {
			Type:        genai.TypeInteger,
			Description: "Identity trust score 0-100",
		},
		"red_flags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"green_flags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"summary": {Type: genai.TypeString},
	},
	Required: []string{
		"platforms_found", "scam_reports_found", "is_disposable_email",
		"identity_consistent", "account_age", "trust_score",
		"red_flags", "green_flags", "summary",
	},
}

// ReportSchema constrains the extraction of a deep-investigation dossier.
var ReportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"charity_name": {Type: genai.TypeString},
		"registration_status": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"is_registered":       {Type: genai.TypeBoolean},
				"registry_name":       {Type: genai.TypeString},
				"registration_number": {Type: genai.TypeString},
			},
			Required: []string{"is_registered"},
		},
		"fraud_indicators": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"scam_reports_found": {Type: genai.TypeBoolean},
				"negative_mentions": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"warning_signs": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"scam_reports_found", "negative_mentions", "warning_signs"},
		},
		"financial_transparency": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"has_public_reports": {Type: genai.TypeBoolean},
				"last_report_year":   {Type: genai.TypeInteger},
				"notes":              {Type: genai.TypeString},
			},
			Required: []string{"has_public_reports", "notes"},
		},
		"cost_analysis": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"claimed_amount_reasonable": {Type: genai.TypeBoolean},
				"market_rate_comparison":    {Type: genai.TypeString},
			},
			Required: []string{"claimed_amount_reasonable", "market_rate_comparison"},
		},
		"overall_risk_level": {
			Type: genai.TypeString,
			Enum: []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"},
		},
		"recommendation": {Type: genai.TypeString},
		"sources": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":     {Type: genai.TypeString},
					"url":       {Type: genai.TypeString},
					"relevance": {Type: genai.TypeString},
				},
				Required: []string{"title", "url", "relevance"},
			},
		},
	},
	Required: []string{
		"charity_name", "registration_status", "fraud_indicators",
		"financial_transparency", "cost_analysis", "overall_risk_level",
		"recommendation", "sources",
	},
}
