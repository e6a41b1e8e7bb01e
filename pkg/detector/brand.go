package detector

import (
	"strings"

	"github.com/shieldstack/phishguard/pkg/patterns"
)

// detectBrandImpersonation checks whether the message leans on a known brand
// while pointing somewhere the brand does not own. The most frequently
// mentioned brand is examined; ties break toward the earlier entry in the
// brand list so results are deterministic.
func detectBrandImpersonation(text string, urls []string) BrandImpersonation {
	tbl := patterns.Get()
	combined := strings.ToLower(text + " " + strings.Join(urls, " "))

	mentions := make(map[string]int)
	for _, m := range tbl.BrandRegex().FindAllString(combined, -1) {
		mentions[strings.ToLower(m)]++
	}
	if len(mentions) == 0 {
		return BrandImpersonation{Detected: false}
	}

	brand := ""
	best := 0
	for _, candidate := range patterns.KnownBrands {
		if n := mentions[candidate]; n > best {
			brand = candidate
			best = n
		}
	}

	detected := false
	similarity := 0.0

	// Repeated mentions raise the baseline even before URL checks.
	if strings.Count(combined, brand) >= 2 {
		similarity += 0.2
	}

	official := tbl.OfficialDomains(brand)

	for _, u := range urls {
		parts, ok := extractParts(u)
		if !ok {
			continue
		}
		fullDomain := parts.domain + "." + parts.suffix

		isOfficial := false
		for _, dom := range official {
			if fullDomain == dom || strings.HasSuffix(fullDomain, "."+dom) {
				isOfficial = true
				break
			}
		}
		if isOfficial {
			continue
		}

		// Brand mentioned but the link goes elsewhere.
		detected = true
		similarity = maxF(similarity, 0.7)

		if strings.Contains(parts.subdomain, brand) && !strings.Contains(parts.domain, brand) {
			similarity = maxF(similarity, 0.9)
		}

		if detectBrandMisspelling(parts.domain) == brand {
			similarity = maxF(similarity, 0.95)
		}
	}

	// Without URLs, fall back to phrasing and credential-request context.
	if len(urls) == 0 && best >= 1 {
		impersonationPhrases := []string{
			brand + " team", brand + " support", brand + " security",
			brand + " account", brand + " service", "from " + brand,
			brand + " customer", brand + " verification", brand + " notification",
		}
		phraseMatches := 0
		for _, p := range impersonationPhrases {
			if strings.Contains(combined, p) {
				phraseMatches++
			}
		}
		if phraseMatches >= 2 {
			detected = true
			similarity = maxF(similarity, 0.6)
		}

		if tbl.MatchAny(text, patterns.CategoryCredential) != nil {
			detected = true
			similarity = maxF(similarity, 0.75)
		}
	}

	result := BrandImpersonation{
		Detected:   detected,
		Similarity: minF(similarity, 1.0),
	}
	if detected {
		result.Brand = brand
	}
	return result
}
