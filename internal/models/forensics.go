package models

// MediaKind distinguishes images from videos in a campaign's evidence set.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem references a file in the storage bucket.
type MediaItem struct {
	Path string    `json:"path" binding:"required"`
	Kind MediaKind `json:"type" binding:"required,oneof=image video"`
}

// WalletHistory is the raw view of a wallet derived from the chain explorer:
// transaction count, age since first transaction and current balance in wei.
type WalletHistory struct {
	Nonce       uint   `json:"nonce"`
	AgeHours    uint   `json:"age_hours"`
	Balance     string `json:"balance"`
	FirstTxDate string `json:"first_tx_date,omitempty"`
}

// BlockchainForensics summarizes wallet-level fraud signals.
// A nil *BlockchainForensics on the Forensics record means the check could not
// run (no creator wallet supplied, or the chain data source was unavailable),
// which is a different signal than "checked and found nothing".
type BlockchainForensics struct {
	Nonce            uint `json:"nonce"`
	AgeHours         uint `json:"age_hours"`
	WashTradingScore int  `json:"wash_trading_score"`
	IsBurnerWallet   bool `json:"is_burner_wallet"`
}

// WashTradingResult is the outcome of the circular-funding check.
type WashTradingResult struct {
	Score         int      `json:"score"`
	FlaggedDonors []string `json:"flagged_donors"`
	TotalChecked  int      `json:"total_checked"`
}

// ExifForensics aggregates metadata signals across all analyzed images.
// Always populated; defaults stand in when there are no images or extraction fails.
type ExifForensics struct {
	HasGps       bool     `json:"has_gps"`
	HasEdits     bool     `json:"has_edits"`
	DateMismatch bool     `json:"date_mismatch"`
	Warnings     []string `json:"warnings"`
}

// ImageSource is a single reverse-image search hit.
type ImageSource struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// ReverseImageForensics aggregates reverse-search results across all checked images.
// Always populated; defaults stand in when no search could run.
type ReverseImageForensics struct {
	DuplicatesFound int           `json:"duplicates_found"`
	IsStockPhoto    bool          `json:"is_stock_photo"`
	Sources         []ImageSource `json:"sources"`
}

// AccountAge buckets the creator's digital footprint depth.
type AccountAge string

const (
	AccountAgeNew         AccountAge = "NEW"
	AccountAgeEstablished AccountAge = "ESTABLISHED"
	AccountAgeUnknown     AccountAge = "UNKNOWN"
)

// IdentityForensics is the OSINT profile of the campaign creator.
// Nil when no identity was supplied or the investigation failed.
type IdentityForensics struct {
	PlatformsFound     []string   `json:"platforms_found"`
	ScamReportsFound   bool       `json:"scam_reports_found"`
	IsDisposableEmail  bool       `json:"is_disposable_email"`
	IdentityConsistent bool       `json:"identity_consistent"`
	AccountAge         AccountAge `json:"account_age"`
	TrustScore         int        `json:"trust_score"`
	RedFlags           []string   `json:"red_flags"`
	GreenFlags         []string   `json:"green_flags"`
	Summary            string     `json:"summary"`
}

// Forensics is the merged evidence bundle for one assessment request.
// Invariant: Exif and ReverseImage are never nil-equivalent (always populated
// or defaulted); Blockchain and Identity are nil exactly when their required
// input was absent or the collector failed.
type Forensics struct {
	Blockchain   *BlockchainForensics  `json:"blockchain"`
	Exif         ExifForensics         `json:"exif"`
	ReverseImage ReverseImageForensics `json:"reverse_image"`
	Identity     *IdentityForensics    `json:"identity"`
}

// DefaultExifForensics returns the neutral EXIF record used when nothing
// could be extracted.
func DefaultExifForensics() ExifForensics {
	return ExifForensics{Warnings: []string{}}
}

// DefaultReverseImageForensics returns the neutral reverse-image record.
func DefaultReverseImageForensics() ReverseImageForensics {
	return ReverseImageForensics{Sources: []ImageSource{}}
}
