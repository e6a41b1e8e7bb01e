package detector

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/shieldstack/phishguard/pkg/patterns"
)

// Per-category score contribution: each matched instance adds weight, the
// category total is capped. Caps and weights are calibrated against labeled
// phishing corpora; change them only together with the ensemble calibration.
type categoryWeight struct {
	cat    patterns.Category
	cap    float64
	weight float64
	label  string
}

var categoryWeights = []categoryWeight{
	{patterns.CategoryUrgency, 0.30, 0.12, "Urgency/pressure tactics detected"},
	{patterns.CategoryCredential, 0.40, 0.18, "Credential/password request detected"},
	{patterns.CategoryThreat, 0.30, 0.12, "Threatening language detected"},
	{patterns.CategoryFinancial, 0.25, 0.10, "Financial/payment keywords detected"},
	{patterns.CategorySocialEngineering, 0.25, 0.10, "Social engineering tactics detected"},
	{patterns.CategoryActionRequest, 0.20, 0.10, "Suspicious action requests detected"},
	{patterns.CategoryCryptoScam, 0.35, 0.15, "Crypto/NFT scam indicators detected"},
	{patterns.CategoryImpersonation, 0.20, 0.08, "Impersonation indicators detected"},
}

// extractIndicators runs the rule layer: weighted category matching, phrase
// lookup, domain co-occurrence checks, homoglyph detection, and text shape
// heuristics. Returns the rule score in [0,1] and human-readable indicators
// in a fixed order.
func extractIndicators(text string) (float64, []string) {
	tbl := patterns.Get()
	textLower := strings.ToLower(text)

	var indicators []string
	score := 0.0

	// Safe-context reduction accumulates first, applied at the end.
	safeContext := 0.0
	for _, p := range tbl.Category(patterns.CategorySafeContext) {
		if p.Regex.MatchString(textLower) {
			safeContext += 0.15
		}
	}
	if tbl.OfficialDomainRegex().MatchString(textLower) {
		safeContext += 0.20
	}
	if safeContext > 0.5 {
		safeContext = 0.5
	}

	for _, cw := range categoryWeights {
		n := tbl.CountMatches(text, cw.cat)
		if n > 0 {
			score += minF(cw.cap, float64(n)*cw.weight)
			indicators = append(indicators, fmt.Sprintf("%s (%d instances)", cw.label, n))
		}
	}

	// Literal phishing phrases
	phraseCount := 0
	for _, phrase := range patterns.PhishingPhrases {
		if strings.Contains(textLower, phrase) {
			phraseCount++
		}
	}
	if phraseCount > 0 {
		score += minF(0.35, float64(phraseCount)*0.10)
		indicators = append(indicators, fmt.Sprintf("Known phishing phrases detected (%d)", phraseCount))
	}

	// Brand mention combined with a suspicious domain is a strong signal,
	// unless an official domain for the brand also appears.
	brandMatch := tbl.BrandRegex().FindString(textLower)
	hasOfficialDomain := tbl.OfficialDomainRegex().MatchString(textLower)
	hasSuspiciousDomain := tbl.SuspiciousTLDRegex().MatchString(textLower) ||
		tbl.BrandHyphenRegex().MatchString(textLower)

	switch {
	case brandMatch != "" && hasSuspiciousDomain && !hasOfficialDomain:
		score += 0.30
		indicators = append(indicators, "Brand '"+brandMatch+"' with suspicious URL/domain")
	case hasSuspiciousDomain && !hasOfficialDomain:
		score += 0.15
		indicators = append(indicators, "Suspicious domain TLD detected")
	}

	// Crypto brands paired with security-themed URLs (fake "cancel withdrawal"
	// alerts are a common exchange phishing template).
	hasCryptoBrand := false
	for _, b := range patterns.CryptoBrands {
		if strings.Contains(textLower, b) {
			hasCryptoBrand = true
			break
		}
	}
	if hasCryptoBrand && tbl.SecurityThemedURLRegex().MatchString(textLower) {
		score += 0.20
		indicators = append(indicators, "Crypto brand with security-themed URL")
	}

	// Obfuscation notation: each distinct technique counts once.
	obfuscation := tbl.CountMatchingPatterns(text, patterns.CategoryObfuscatedURL)
	if obfuscation > 0 {
		score += minF(0.2, float64(obfuscation)*0.1)
		indicators = append(indicators, fmt.Sprintf("URL obfuscation detected (%d techniques)", obfuscation))
	}

	if containsHomoglyphs(text) {
		score += 0.25
		indicators = append(indicators, "Lookalike/homoglyph characters detected (possible spoofing)")
	}

	// Shape heuristics only apply to substantial text.
	if len(text) > 50 {
		upper := 0
		for _, r := range text {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		if float64(upper)/float64(len(text)) > 0.3 {
			score += 0.10
			indicators = append(indicators, "Excessive capitalization (attention-grabbing tactic)")
		}

		punct := strings.Count(text, "!") + strings.Count(text, "?")
		if punct > 5 {
			score += 0.08
			indicators = append(indicators, "Excessive exclamation/question marks")
		}
	}

	// Safe context only reduces the score when no URL with a high-risk TLD is
	// present; a live malicious link trumps legitimate-looking boilerplate.
	if safeContext > 0 && score > 0 {
		if !tbl.SuspiciousTLDURLRegex().MatchString(textLower) {
			score -= safeContext
			if score < 0 {
				score = 0
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, indicators
}

// containsHomoglyphs reports whether the text carries non-ASCII characters
// that imitate Latin letters. The text is NFKC-normalized first so that
// fullwidth and compatibility forms resolve before the rune scan.
func containsHomoglyphs(text string) bool {
	normalized := norm.NFKC.String(text)
	for _, r := range normalized {
		if _, ok := patterns.UnicodeHomoglyphs[r]; ok {
			return true
		}
	}
	return false
}
