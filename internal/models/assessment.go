package models

// Verdict is the overall outcome of a rapid assessment.
type Verdict string

const (
	VerdictCredible   Verdict = "CREDIBLE"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictFraudulent Verdict = "FRAUDULENT"
)

// EvidenceMatch holds cross-modal verification results comparing the written
// claim with the visual and forensic evidence.
type EvidenceMatch struct {
	LocationVerified    bool `json:"location_verified"`
	VisualsMatchText    bool `json:"visuals_match_text"`
	SearchCorroboration bool `json:"search_corroboration"`
	MetadataConsistent  bool `json:"metadata_consistent"`
}

// AssessmentResult is the structured output of the two-phase assessment.
type AssessmentResult struct {
	Score         int           `json:"score"`
	Verdict       Verdict       `json:"verdict"`
	Summary       string        `json:"summary"`
	Flags         []string      `json:"flags"`
	EvidenceMatch EvidenceMatch `json:"evidence_match"`
}

// CreatorIdentity is the optional identity supplied with an assessment request,
// used for the OSINT collector.
type CreatorIdentity struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AssessRequest is the payload of POST /api/v1/assess.
type AssessRequest struct {
	Text            string           `json:"text" binding:"required,min=10"`
	Media           []MediaItem      `json:"media" binding:"omitempty,max=10,dive"`
	CreatorWallet   string           `json:"creator_wallet,omitempty"`
	DonorWallets    []string         `json:"donor_wallets,omitempty"`
	CreatorIdentity *CreatorIdentity `json:"creator_identity,omitempty"`
}
