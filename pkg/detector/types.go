// Package detector implements multi-signal phishing and scam detection for
// emails, SMS messages, and URLs. It combines rule-based pattern matching,
// structural URL analysis, brand impersonation detection, and optional ML
// classifiers into a single calibrated assessment.
package detector

// ScanType identifies the kind of content being analyzed.
type ScanType string

const (
	ScanTypeAuto  ScanType = "auto"
	ScanTypeEmail ScanType = "email"
	ScanTypeSMS   ScanType = "sms"
	ScanTypeURL   ScanType = "url"
)

// ThreatLevel is the severity tier of an assessment.
type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "NONE"
	ThreatLow      ThreatLevel = "LOW"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatCritical ThreatLevel = "CRITICAL"
)

// rank orders threat levels so tier floors can take the max of two levels.
func (l ThreatLevel) rank() int {
	switch l {
	case ThreatLow:
		return 1
	case ThreatMedium:
		return 2
	case ThreatHigh:
		return 3
	case ThreatCritical:
		return 4
	default:
		return 0
	}
}

// maxLevel returns the more severe of two threat levels.
func maxLevel(a, b ThreatLevel) ThreatLevel {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// PhishingType classifies the attack vector of a positive detection.
type PhishingType string

const (
	PhishingNone  PhishingType = "NONE"
	PhishingEmail PhishingType = "EMAIL"
	PhishingSMS   PhishingType = "SMS"
	PhishingURL   PhishingType = "URL"
)

// URLAnalysis is the structural verdict for a single extracted URL.
type URLAnalysis struct {
	URL        string   `json:"url"`
	Suspicious bool     `json:"is_suspicious"`
	Score      float64  `json:"score"`
	Reasons    []string `json:"reasons"`
}

// BrandImpersonation reports whether the message impersonates a known brand.
// Brand is empty unless Detected is true.
type BrandImpersonation struct {
	Detected   bool    `json:"detected"`
	Brand      string  `json:"brand,omitempty"`
	Similarity float64 `json:"similarity_score"`
}

// SignalScores carries the raw per-signal scores that fed the ensemble.
// Kept on the assessment for auditing and calibration work.
type SignalScores struct {
	ML                   float64  `json:"ml_score"`
	MLAvailable          bool     `json:"ml_available"`
	Rule                 float64  `json:"rule_score"`
	Transformer          float64  `json:"transformer_score"`
	TransformerAvailable bool     `json:"transformer_available"`
	URL                  float64  `json:"url_score"`
	URLCount             int      `json:"url_count"`
	ScanType             ScanType `json:"scan_type"`
}

// Assessment is the complete result of analyzing one piece of content.
type Assessment struct {
	IsPhishing     bool                `json:"is_phishing"`
	Confidence     float64             `json:"confidence"`
	PhishingType   PhishingType        `json:"phishing_type"`
	ThreatLevel    ThreatLevel         `json:"threat_level"`
	Indicators     []string            `json:"indicators"`
	URLsAnalyzed   []URLAnalysis       `json:"urls_analyzed"`
	Brand          *BrandImpersonation `json:"brand_impersonation,omitempty"`
	Recommendation string              `json:"recommendation"`
	Signals        SignalScores        `json:"details"`
}
