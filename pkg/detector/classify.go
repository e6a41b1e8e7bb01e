package detector

import (
	"fmt"
	"strings"

	"github.com/shieldstack/phishguard/pkg/patterns"
)

// criticalKeywords escalate the threat tier when they appear in any
// indicator text.
var criticalKeywords = []string{
	"credential", "password", "lookalike", "typosquatting",
	"homoglyph", "spoofing", "obfuscation", "@",
	"crypto", "seed phrase", "private key",
}

// decisionThreshold picks the phishing cutoff for this assessment. More
// corroborating indicators lower the bar, and URL-focused content with a
// flagged URL lowers it further.
func decisionThreshold(cal Calibration, indicators []string, scanType ScanType, text string, urlResults []URLAnalysis) float64 {
	threshold := cal.Thresholds.Base
	if len(indicators) >= 3 {
		threshold = cal.Thresholds.ManyIndicators
	}
	if len(indicators) >= 5 {
		threshold = cal.Thresholds.VeryManyIndicators
	}

	if scanType == ScanTypeURL || (len(urlResults) > 0 && len(strings.TrimSpace(text)) < 100) {
		for _, r := range urlResults {
			if r.Suspicious {
				threshold = cal.Thresholds.SuspiciousURL
				break
			}
		}
	}

	return threshold
}

// collectIndicators merges rule indicators with URL-level and brand-level
// findings, deduplicated in first-seen order.
func collectIndicators(ruleIndicators []string, urls []string, brand BrandImpersonation) []string {
	indicators := make([]string, 0, len(ruleIndicators)+4)
	seen := make(map[string]struct{}, len(ruleIndicators)+4)

	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		indicators = append(indicators, s)
	}

	for _, ind := range ruleIndicators {
		add(ind)
	}

	tbl := patterns.Get()
	for _, u := range urls {
		if parts, ok := extractParts(u); ok && tbl.IsSuspiciousTLD(parts.suffix) {
			add(fmt.Sprintf("Suspicious domain: %s.%s", parts.domain, parts.suffix))
		}
	}

	if brand.Detected {
		add(fmt.Sprintf("Possible %s impersonation detected", brand.Brand))
	}

	for _, u := range urls {
		host := strings.ToLower(u)
		shortened := false
		for _, s := range patterns.URLShorteners {
			if strings.Contains(host, s) {
				shortened = true
				break
			}
		}
		if shortened {
			add("URL shortener used (may hide destination)")
			break
		}
	}

	return indicators
}

// determineThreatLevel tiers the assessment by score, escalated when critical
// keywords appear in the indicators, with floors driven by the sheer number
// of indicators.
func determineThreatLevel(score float64, indicators []string) ThreatLevel {
	hasCritical := false
outer:
	for _, ind := range indicators {
		lower := strings.ToLower(ind)
		for _, kw := range criticalKeywords {
			if strings.Contains(lower, kw) {
				hasCritical = true
				break outer
			}
		}
	}

	n := len(indicators)

	switch {
	case score >= 0.8 || (score >= 0.7 && hasCritical) || n >= 6:
		return ThreatCritical
	case score >= 0.65 || (score >= 0.55 && hasCritical) || n >= 4:
		return ThreatHigh
	case score >= 0.5 || n >= 3:
		return ThreatMedium
	case score >= 0.3 || n >= 1:
		return ThreatLow
	default:
		return ThreatNone
	}
}

// determinePhishingType classifies the attack vector. NONE unless the
// content was actually judged phishing.
func determinePhishingType(scanType ScanType, urlResults []URLAnalysis, isPhishing bool) PhishingType {
	if !isPhishing {
		return PhishingNone
	}

	allSuspicious := len(urlResults) > 0
	anySuspicious := false
	for _, r := range urlResults {
		if r.Suspicious {
			anySuspicious = true
		} else {
			allSuspicious = false
		}
	}

	switch {
	case scanType == ScanTypeURL || allSuspicious:
		return PhishingURL
	case scanType == ScanTypeSMS:
		return PhishingSMS
	case scanType == ScanTypeEmail:
		return PhishingEmail
	case anySuspicious:
		return PhishingURL
	default:
		return PhishingNone
	}
}

// recommendationFor maps a threat level to user-facing guidance.
func recommendationFor(level ThreatLevel) string {
	switch level {
	case ThreatNone:
		return "This message appears to be safe. However, always verify sender identity for sensitive requests."
	case ThreatLow:
		return "Some suspicious elements detected. Verify the sender before taking any action."
	case ThreatMedium:
		return "This message contains suspicious content. Do not click links or provide personal information. Verify directly with the organization."
	case ThreatHigh:
		return "This message is likely a phishing attempt. Do not respond, click links, or provide any information. Report and delete."
	case ThreatCritical:
		return "DANGER: This is a phishing attack. Do not interact with this message in any way. Report to your IT department and delete immediately."
	default:
		return "Exercise caution with this message."
	}
}
