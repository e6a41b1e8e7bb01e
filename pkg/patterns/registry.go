// Package patterns provides a centralized, high-performance pattern table
// for phishing and scam detection. All regular expressions are compiled once
// at first use and shared by every analysis call.
//
// Design principles:
// - COMPILE ONCE: All patterns compiled at init, not per-request
// - DRY: Single source of truth for all detection rules and data lists
// - CATEGORIZED: Patterns organized by indicator category for weighted scoring
// - READ-ONLY: The table is frozen after construction; analyses never mutate it
package patterns

import (
	"regexp"
	"strings"
	"sync"
)

// Category represents an indicator category
type Category string

const (
	// Text rule categories
	CategoryUrgency           Category = "urgency"
	CategoryCredential        Category = "credential"
	CategoryThreat            Category = "threat"
	CategoryFinancial         Category = "financial"
	CategorySocialEngineering Category = "social_engineering"
	CategoryActionRequest     Category = "action_request"
	CategoryCryptoScam        Category = "crypto_scam"
	CategoryImpersonation     Category = "impersonation"

	// Mitigating categories (reduce the rule score)
	CategorySafeContext Category = "safe_context"

	// URL obfuscation notation (defanged URLs, [dot] tricks, encodings)
	CategoryObfuscatedURL Category = "obfuscated_url"
)

// Pattern holds a compiled regex with metadata
type Pattern struct {
	Name        string         // Human-readable name for logging
	Regex       *regexp.Regexp // Compiled regex (never nil after init)
	Category    Category       // Indicator category
	Description string         // What this pattern detects
}

// Table holds all compiled patterns and detection lists, organized by
// category. Immutable after construction.
type Table struct {
	byCategory map[Category][]*Pattern
	all        []*Pattern

	// Composites derived from the data lists
	brandRegex            *regexp.Regexp // \b(paypal|amazon|...)\b
	urlRegex              *regexp.Regexp // http(s) URL extraction
	suspiciousTLDRegex    *regexp.Regexp // bare-domain.tld with a risky TLD
	suspiciousTLDURLRegex *regexp.Regexp // http(s)://...riskytld, the safe-context override
	brandHyphenRegex      *regexp.Regexp // paypal-secure.com style lookalikes
	officialDomainRegex   *regexp.Regexp // account.microsoft.com style official refs
	securityThemedURL     *regexp.Regexp // secur/verif/alert keyword before a TLD

	suspiciousTLDs map[string]struct{}
	shorteners     map[string]struct{}
}

// global singleton - initialized once at first use
var (
	globalTable *Table
	initOnce    sync.Once
)

// Get returns the global pattern table (singleton)
// Thread-safe and guaranteed to be initialized
func Get() *Table {
	initOnce.Do(func() {
		globalTable = newTable()
	})
	return globalTable
}

// newTable creates and populates the pattern table
func newTable() *Table {
	t := &Table{
		byCategory: make(map[Category][]*Pattern),
		all:        make([]*Pattern, 0, 128),
	}

	// Register all pattern categories
	t.registerUrgencyPatterns()
	t.registerCredentialPatterns()
	t.registerThreatPatterns()
	t.registerFinancialPatterns()
	t.registerSocialEngineeringPatterns()
	t.registerActionRequestPatterns()
	t.registerCryptoScamPatterns()
	t.registerImpersonationPatterns()
	t.registerSafeContextPatterns()
	t.registerObfuscatedURLPatterns()

	t.compileComposites()

	t.suspiciousTLDs = make(map[string]struct{}, len(SuspiciousTLDs))
	for _, tld := range SuspiciousTLDs {
		t.suspiciousTLDs[tld] = struct{}{}
	}
	t.shorteners = make(map[string]struct{}, len(URLShorteners))
	for _, host := range URLShorteners {
		t.shorteners[host] = struct{}{}
	}

	return t
}

// register adds a pattern to the table (internal use only)
func (t *Table) register(name string, pattern string, category Category, description string) {
	p := &Pattern{
		Name:        name,
		Regex:       regexp.MustCompile(pattern),
		Category:    category,
		Description: description,
	}
	t.byCategory[category] = append(t.byCategory[category], p)
	t.all = append(t.all, p)
}

// compileComposites builds the regexes derived from the brand and TLD lists.
// They track the lists automatically, so they are built here rather than
// hand-maintained alongside them.
func (t *Table) compileComposites() {
	brandAlt := strings.Join(KnownBrands, "|")
	tldAlt := strings.Join(SuspiciousTLDs, "|")

	t.brandRegex = regexp.MustCompile(`(?i)\b(` + brandAlt + `)\b`)
	t.urlRegex = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	t.suspiciousTLDRegex = regexp.MustCompile(`(?i)[a-z0-9][-a-z0-9]*\.(` + tldAlt + `)\b`)
	t.suspiciousTLDURLRegex = regexp.MustCompile(`(?i)https?://[^\s]*\.(` + tldAlt + `)\b`)
	t.brandHyphenRegex = regexp.MustCompile(`(?i)\b(` + brandAlt + `)[-_][a-z0-9]+\.(com|net|org|io|co|xyz|top|click|site|info|me|app)\b`)
	t.officialDomainRegex = regexp.MustCompile(`(?i)\b(account\.|www\.|mail\.|support\.)?(` + brandAlt + `)\.(com|org|net|co)\b`)
	t.securityThemedURL = regexp.MustCompile(`(?i)(secur|verif|alert|withdraw|cancel)[a-z0-9-]*\.(io|com|net|org)\b`)
}

// Category returns all patterns for a specific category
// Returns empty slice if category not found (never nil)
func (t *Table) Category(cat Category) []*Pattern {
	if ps, ok := t.byCategory[cat]; ok {
		return ps
	}
	return []*Pattern{}
}

// CountMatches counts non-overlapping matches across every pattern in a
// category. This is the raw input to the weighted rule score.
func (t *Table) CountMatches(text string, cat Category) int {
	count := 0
	for _, p := range t.byCategory[cat] {
		count += len(p.Regex.FindAllStringIndex(text, -1))
	}
	return count
}

// CountMatchingPatterns counts how many distinct patterns in a category match
// the text at least once. Used where repeated hits of one technique should not
// stack (obfuscation notation).
func (t *Table) CountMatchingPatterns(text string, cat Category) int {
	count := 0
	for _, p := range t.byCategory[cat] {
		if p.Regex.MatchString(text) {
			count++
		}
	}
	return count
}

// MatchAny checks if text matches any pattern in the given categories
// Returns the first matching pattern or nil
// This is optimized for early exit on first match
func (t *Table) MatchAny(text string, cats ...Category) *Pattern {
	for _, cat := range cats {
		for _, p := range t.byCategory[cat] {
			if p.Regex.MatchString(text) {
				return p
			}
		}
	}
	return nil
}

// TotalPatterns returns the total count of registered patterns
func (t *Table) TotalPatterns() int {
	return len(t.all)
}

// CategoryCount returns the number of patterns in a category
func (t *Table) CategoryCount(cat Category) int {
	return len(t.byCategory[cat])
}

// BrandRegex matches any known brand name on a word boundary.
func (t *Table) BrandRegex() *regexp.Regexp { return t.brandRegex }

// URLRegex matches http(s) URLs embedded in free text.
func (t *Table) URLRegex() *regexp.Regexp { return t.urlRegex }

// SuspiciousTLDRegex matches bare domains carrying a high-risk TLD.
func (t *Table) SuspiciousTLDRegex() *regexp.Regexp { return t.suspiciousTLDRegex }

// SuspiciousTLDURLRegex matches full http(s) URLs carrying a high-risk TLD.
// Safe-context reductions are suppressed whenever this matches.
func (t *Table) SuspiciousTLDURLRegex() *regexp.Regexp { return t.suspiciousTLDURLRegex }

// BrandHyphenRegex matches hyphenated brand-lookalike domains
// ("paypal-secure.com", "binance-security.io").
func (t *Table) BrandHyphenRegex() *regexp.Regexp { return t.brandHyphenRegex }

// OfficialDomainRegex matches references to a brand's plausible official
// domain ("account.microsoft.com"). Its presence downgrades the
// brand-plus-suspicious-domain penalty.
func (t *Table) OfficialDomainRegex() *regexp.Regexp { return t.officialDomainRegex }

// SecurityThemedURLRegex matches security-verb domains used in crypto scams.
func (t *Table) SecurityThemedURLRegex() *regexp.Regexp { return t.securityThemedURL }

// IsSuspiciousTLD reports whether a public suffix is on the high-risk list.
func (t *Table) IsSuspiciousTLD(suffix string) bool {
	_, ok := t.suspiciousTLDs[strings.ToLower(suffix)]
	return ok
}

// IsShortenerHost reports whether host is a known URL shortener, directly or
// as a subdomain of one.
func (t *Table) IsShortenerHost(host string) bool {
	host = strings.ToLower(host)
	if _, ok := t.shorteners[host]; ok {
		return true
	}
	for s := range t.shorteners {
		if strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

// OfficialDomains returns the official-domain allowlist for a brand.
// Brands without an explicit entry fall back to "<brand>.com".
func (t *Table) OfficialDomains(brand string) []string {
	if doms, ok := BrandOfficialDomains[brand]; ok {
		return doms
	}
	return []string{brand + ".com"}
}
