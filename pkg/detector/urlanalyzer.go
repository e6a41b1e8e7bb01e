package detector

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/shieldstack/phishguard/pkg/patterns"
)

// A URL scoring at or above this is flagged suspicious.
const urlSuspicionThreshold = 0.25

// At most this many URLs are analyzed per message; later ones still count
// toward URLCount but get no structural verdict.
const maxURLsAnalyzed = 5

var (
	ipURLRegex     = regexp.MustCompile(`^https?://\d+\.\d+\.\d+\.\d+`)
	hexIPURLRegex  = regexp.MustCompile(`(?i)^https?://0x[0-9a-f]+`)
	portRegex      = regexp.MustCompile(`:\d{4,5}/`)
	fileExtRegex   = regexp.MustCompile(`(?i)\.(html?|php|asp|exe|scr|bat|cmd|js|vbs)\?`)
	randomEntropy  = 3.5
	minEntropyLen  = 8
	maxSubdomDepth = 3
)

// domainParts is the registrable decomposition of a URL host.
type domainParts struct {
	subdomain string // "mail.login" in mail.login.example.co.uk
	domain    string // "example"
	suffix    string // "co.uk"
}

// splitDomain decomposes a host into subdomain, registrable label, and public
// suffix. Returns ok=false for IP literals and hosts without a valid suffix.
func splitDomain(host string) (domainParts, bool) {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return domainParts{}, false
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return domainParts{}, false
	}
	suffix, _ := publicsuffix.PublicSuffix(host)
	domain := strings.TrimSuffix(etld1, "."+suffix)

	sub := strings.TrimSuffix(host, etld1)
	sub = strings.TrimSuffix(sub, ".")

	return domainParts{subdomain: sub, domain: domain, suffix: suffix}, true
}

// analyzeURL runs every structural check against one URL and returns the
// accumulated verdict. Reasons appear in check order so output is stable.
func analyzeURL(rawURL string) URLAnalysis {
	tbl := patterns.Get()
	urlLower := strings.ToLower(rawURL)
	reasons := []string{}
	score := 0.0

	// IP literal hosts are the strongest single structural signal.
	if ipURLRegex.MatchString(rawURL) {
		score += 0.55
		reasons = append(reasons, "URL uses IP address instead of domain name")
	}

	if hexIPURLRegex.MatchString(urlLower) {
		score += 0.50
		reasons = append(reasons, "URL uses hexadecimal IP encoding (obfuscation)")
	}

	if parts, ok := extractParts(rawURL); ok {
		if tbl.IsSuspiciousTLD(parts.suffix) {
			score += 0.30
			reasons = append(reasons, fmt.Sprintf("Suspicious/free TLD: .%s", parts.suffix))
		}

		if parts.subdomain != "" && tbl.BrandRegex().MatchString(parts.subdomain) {
			score += 0.35
			reasons = append(reasons, "Brand name in subdomain (likely typosquatting)")
		}

		if brand := tbl.BrandRegex().FindString(parts.domain); brand != "" {
			if tbl.IsSuspiciousTLD(parts.suffix) {
				score += 0.45
				reasons = append(reasons, fmt.Sprintf("Brand '%s' in domain with suspicious TLD", brand))
			} else if strings.Contains(parts.domain, "-") {
				score += 0.35
				reasons = append(reasons, fmt.Sprintf("Brand '%s' with hyphenated domain (suspicious)", brand))
			}
		}

		if brand := detectBrandMisspelling(parts.domain); brand != "" {
			score += 0.40
			reasons = append(reasons, fmt.Sprintf("Possible misspelling of '%s' in domain", brand))
		}

		// Only the first lookalike affix counts.
		for _, tok := range patterns.LookalikeDomainTokens {
			if strings.Contains(parts.domain, tok.Token) || strings.Contains(parts.subdomain, tok.Token) {
				score += 0.20
				reasons = append(reasons, "Suspicious "+tok.Desc)
				break
			}
		}

		if parts.subdomain != "" {
			depth := len(strings.Split(parts.subdomain, "."))
			if depth > maxSubdomDepth {
				score += 0.25
				reasons = append(reasons, fmt.Sprintf("Excessive subdomain depth (%d levels)", depth))
			}
		}

		if len(parts.domain) > minEntropyLen && shannonEntropy(parts.domain) > randomEntropy {
			score += 0.20
			reasons = append(reasons, "Domain appears randomly generated")
		}
	}

	for _, shortener := range patterns.URLShorteners {
		if strings.Contains(urlLower, shortener) {
			score += 0.25
			reasons = append(reasons, "URL shortener detected (hides real destination)")
			break
		}
	}

	if strings.Contains(rawURL, "@") {
		score += 0.45
		reasons = append(reasons, "URL contains @ symbol (URL credential obfuscation)")
	}

	if dots := strings.Count(rawURL, "."); dots > 5 {
		score += 0.20
		reasons = append(reasons, fmt.Sprintf("Unusual number of dots in URL (%d)", dots))
	}

	keywordCount := 0
	for _, kw := range patterns.SuspiciousURLKeywords {
		if strings.Contains(urlLower, kw) {
			keywordCount++
		}
	}
	if keywordCount >= 2 {
		score += minF(0.25, float64(keywordCount)*0.08)
		reasons = append(reasons, fmt.Sprintf("Multiple suspicious keywords in URL (%d)", keywordCount))
	}

	if strings.HasPrefix(urlLower, "data:") || strings.HasPrefix(urlLower, "javascript:") {
		score += 0.50
		reasons = append(reasons, "Suspicious protocol (data: or javascript:)")
	}

	if portRegex.MatchString(rawURL) {
		score += 0.15
		reasons = append(reasons, "Non-standard port number in URL")
	}

	if fileExtRegex.MatchString(urlLower) {
		score += 0.20
		reasons = append(reasons, "Suspicious file extension in URL")
	}

	if len(rawURL) > 200 {
		score += 0.15
		reasons = append(reasons, "Unusually long URL")
	}

	if strings.Contains(urlLower, "xn--") {
		score += 0.30
		reasons = append(reasons, "Punycode domain detected (possible homograph attack)")
	}

	return URLAnalysis{
		URL:        rawURL,
		Suspicious: score >= urlSuspicionThreshold,
		Score:      minF(score, 1.0),
		Reasons:    reasons,
	}
}

// analyzeURLs applies analyzeURL to at most maxURLsAnalyzed URLs.
func analyzeURLs(urls []string) []URLAnalysis {
	if len(urls) > maxURLsAnalyzed {
		urls = urls[:maxURLsAnalyzed]
	}
	results := make([]URLAnalysis, 0, len(urls))
	for _, u := range urls {
		results = append(results, analyzeURL(u))
	}
	return results
}

// extractParts parses a raw URL and decomposes its host. Malformed URLs and
// IP-literal hosts yield ok=false; their other checks still run.
func extractParts(rawURL string) (domainParts, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return domainParts{}, false
	}
	host := parsed.Hostname()
	if ipURLRegex.MatchString("http://" + host) {
		return domainParts{}, false
	}
	return splitDomain(host)
}

// detectBrandMisspelling reports the brand a domain label appears to
// typosquat, or "" if none. Checks single-character edits, insertions and
// deletions, adjacent transpositions, and digit-for-letter substitutions.
// A domain containing the brand verbatim is not a misspelling.
func detectBrandMisspelling(domain string) string {
	domain = strings.ToLower(domain)

	for _, brand := range patterns.KnownBrands {
		if strings.Contains(domain, brand) {
			continue
		}

		// Off-by-one character
		if len(domain) == len(brand) {
			diff := 0
			for i := 0; i < len(brand); i++ {
				if domain[i] != brand[i] {
					diff++
				}
			}
			if diff == 1 {
				return brand
			}
		}

		// Single insertion or deletion
		if abs(len(domain)-len(brand)) == 1 {
			if strings.Contains(domain, brand) || strings.Contains(brand, domain) {
				return brand
			}
		}

		// Adjacent transposition
		if len(domain) == len(brand) {
			for i := 0; i < len(brand)-1; i++ {
				swapped := brand[:i] + string(brand[i+1]) + string(brand[i]) + brand[i+2:]
				if domain == swapped {
					return brand
				}
			}
		}

		// Leetspeak normalization (paypa1 -> paypal)
		if normalizeLeet(domain) == brand {
			return brand
		}
	}
	return ""
}

// normalizeLeet replaces digit lookalikes with the letters they imitate.
func normalizeLeet(s string) string {
	b := []byte(s)
	for i, c := range b {
		if sub, ok := patterns.LeetSubstitutions[c]; ok {
			b[i] = sub
		}
	}
	return string(b)
}

// shannonEntropy computes the character-level Shannon entropy of s.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ToLower(s)
	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}
	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
