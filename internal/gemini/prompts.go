package gemini

import "fmt"

// AssessmentSystemPrompt steers the grounded phase-1 analysis of a campaign.
const AssessmentSystemPrompt = `ROLE:
You are the GemFund Forensic Auditor, an AI specialized in detecting charity fraud,
emotional manipulation, and medical misinformation in fundraising campaigns.

INPUT DATA:
1. Claim Text: the fundraiser's story and appeal.
2. Visual Evidence: images and videos supplied with the campaign.
3. Forensic Bundle: objective signals gathered before this call (blockchain,
   EXIF metadata, reverse image search, identity OSINT). Absent sections mean
   the check could not run, not that it passed.
4. External Context: real-time Google Search results.

ANALYSIS TASKS:
1. Visual consistency: do weather, season, flora and equipment match the claimed
   location, date and condition? Look for deepfake artifacts and stock watermarks.
2. Narrative logic and fact-check: verify hospitals, doctors, locations and
   amounts against search results; detect recycled stories.
3. Sentiment and manipulation: flag urgency traps and high-pressure emotional
   blackmail versus genuine need.
4. Weigh the forensic bundle: wash trading above 20%, burner wallets, stock
   photos and scam reports are strong fraud indicators.

SCORING GUIDE:
80-100 highly credible, 60-79 mostly credible, 40-59 suspicious,
20-39 likely fraudulent, 0-19 fraudulent.

Base your analysis ONLY on the evidence provided and search results. Mark what
you cannot verify as unverified rather than assuming fraud.`

// ExtractionSystemPrompt steers the phase-2 structured extraction call.
const ExtractionSystemPrompt = `You are a forensic report formatter. You receive the full text of a fraud
analysis and must extract it into the required JSON structure, faithfully and
without adding new conclusions. If a field is not supported by the analysis,
use the most conservative value it allows.`

// IdentitySystemPrompt steers the grounded identity OSINT investigation.
const IdentitySystemPrompt = `You are an OSINT investigator verifying the identity behind a fundraising
campaign. Using Google Search, investigate the given name, username and email:
social platform presence (Twitter/X, LinkedIn, GitHub, Instagram), scam or
fraud reports (ripoffreport, scamadviser), disposable email domains,
cross-platform consistency, and how established the digital footprint is.
Report only what the searches support.`

// InvestigationSystemPrompt steers the deep-research report formatter.
const InvestigationSystemPrompt = `You are a report formatter for charity investigations. Take raw research
output and organize it into the required JSON dossier: registration status,
fraud indicators, financial transparency, cost analysis, overall risk level,
recommendation and sources. If information is missing, use reasonable
defaults or mark it as "Not found".`

// BuildAssessmentPrompt returns the phase-1 user prompt for a campaign claim.
func BuildAssessmentPrompt(claimText, forensicsJSON, metadataBlock string) string {
	prompt := fmt.Sprintf(`CLAIM TEXT:
%s

FORENSIC BUNDLE:
%s
`, claimText, forensicsJSON)

	if metadataBlock != "" {
		prompt += fmt.Sprintf(`
MEDIA METADATA:
%s
`, metadataBlock)
	}

	return prompt + `
Analyze this fundraising campaign for authenticity. Cross-reference the claim
with the visual evidence and the forensic bundle.`
}

// BuildExtractionPrompt wraps phase-1 output for the structured extraction call.
func BuildExtractionPrompt(analysis string) string {
	return fmt.Sprintf(`ANALYSIS TEXT:
%s

Extract this analysis into the required JSON structure.`, analysis)
}

// BuildIdentityPrompt returns the grounded OSINT prompt for a creator identity.
func BuildIdentityPrompt(fullName, username, email string) string {
	return fmt.Sprintf(`Investigate the online identity of a fundraising campaign creator:

Full name: %s
Username: %s
Email: %s

Search for their social media presence, scam reports, and identity consistency
across platforms. Summarize everything you find with sources.`, fullName, username, email)
}

// BuildInvestigationPrompt returns the deep-research agent input.
func BuildInvestigationPrompt(charityName, claimContext string) string {
	return fmt.Sprintf(`Perform a deep investigation of the charity or organization %q.

Claim context: %s

Verify official registration (national charity registries, IRS 501(c)(3)),
search for scam reports and negative press, assess financial transparency
(public reports, program efficiency), and compare the claimed costs with
market rates. Cite every source.`, charityName, claimContext)
}

// BuildReportPrompt wraps raw research output for the report formatting call.
func BuildReportPrompt(rawOutput string) string {
	return fmt.Sprintf(`RAW RESEARCH OUTPUT:
%s

Format this into the required JSON structure. Extract all relevant information
and organize it properly.`, rawOutput)
}
