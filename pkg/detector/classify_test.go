package detector

import (
	"strings"
	"testing"
)

func TestDecisionThreshold(t *testing.T) {
	cal := DefaultCalibration()
	longText := strings.Repeat("word ", 30)

	tests := []struct {
		name       string
		indicators []string
		scanType   ScanType
		text       string
		urlResults []URLAnalysis
		want       float64
	}{
		{"no indicators", nil, ScanTypeEmail, longText, nil, 0.45},
		{"two indicators", []string{"a", "b"}, ScanTypeEmail, longText, nil, 0.45},
		{"three indicators", []string{"a", "b", "c"}, ScanTypeEmail, longText, nil, 0.40},
		{"five indicators", []string{"a", "b", "c", "d", "e"}, ScanTypeEmail, longText, nil, 0.35},
		{
			"url scan with suspicious url",
			nil, ScanTypeURL, "http://x.tk",
			[]URLAnalysis{{Suspicious: true}},
			0.32,
		},
		{
			"short message with suspicious url",
			nil, ScanTypeSMS, "click http://x.tk",
			[]URLAnalysis{{Suspicious: true}},
			0.32,
		},
		{
			"long email with suspicious url keeps base",
			nil, ScanTypeEmail, longText,
			[]URLAnalysis{{Suspicious: true}},
			0.45,
		},
		{
			"url scan without suspicious url",
			nil, ScanTypeURL, "http://example.com",
			[]URLAnalysis{{Suspicious: false}},
			0.45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decisionThreshold(cal, tt.indicators, tt.scanType, tt.text, tt.urlResults)
			if got != tt.want {
				t.Errorf("threshold = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetermineThreatLevel(t *testing.T) {
	many := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "indicator"
		}
		return out
	}

	tests := []struct {
		name       string
		score      float64
		indicators []string
		want       ThreatLevel
	}{
		{"clean", 0.1, nil, ThreatNone},
		{"low score", 0.35, nil, ThreatLow},
		{"single indicator floor", 0.1, many(1), ThreatLow},
		{"medium score", 0.55, nil, ThreatMedium},
		{"three indicator floor", 0.2, many(3), ThreatMedium},
		{"high score", 0.7, nil, ThreatHigh},
		{"four indicator floor", 0.2, many(4), ThreatHigh},
		{"critical score", 0.85, nil, ThreatCritical},
		{"six indicator floor", 0.2, many(6), ThreatCritical},
		{"critical keyword escalation", 0.72, []string{"Credential/password request detected (2 instances)"}, ThreatCritical},
		{"critical keyword high escalation", 0.56, []string{"seed phrase request"}, ThreatHigh},
		{"no escalation without keyword", 0.72, []string{"Urgency/pressure tactics detected (1 instances)"}, ThreatHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineThreatLevel(tt.score, tt.indicators); got != tt.want {
				t.Errorf("determineThreatLevel(%v, %d indicators) = %v, want %v",
					tt.score, len(tt.indicators), got, tt.want)
			}
		})
	}
}

func TestDeterminePhishingType(t *testing.T) {
	susp := []URLAnalysis{{Suspicious: true}}
	mixed := []URLAnalysis{{Suspicious: true}, {Suspicious: false}}

	tests := []struct {
		name       string
		scanType   ScanType
		urlResults []URLAnalysis
		isPhishing bool
		want       PhishingType
	}{
		{"not phishing", ScanTypeEmail, susp, false, PhishingNone},
		{"url scan", ScanTypeURL, susp, true, PhishingURL},
		{"all urls suspicious", ScanTypeEmail, susp, true, PhishingURL},
		{"sms", ScanTypeSMS, nil, true, PhishingSMS},
		{"email", ScanTypeEmail, nil, true, PhishingEmail},
		{"email with mixed urls", ScanTypeEmail, mixed, true, PhishingEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determinePhishingType(tt.scanType, tt.urlResults, tt.isPhishing); got != tt.want {
				t.Errorf("determinePhishingType = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectIndicatorsDedup(t *testing.T) {
	rule := []string{"Urgency/pressure tactics detected (2 instances)", "Urgency/pressure tactics detected (2 instances)"}
	urls := []string{"http://a.tk/x", "http://b.tk/y", "https://bit.ly/z"}
	brand := BrandImpersonation{Detected: true, Brand: "paypal", Similarity: 0.7}

	got := collectIndicators(rule, urls, brand)

	seen := make(map[string]int)
	for _, ind := range got {
		seen[ind]++
	}
	for ind, n := range seen {
		if n > 1 {
			t.Errorf("indicator %q appears %d times", ind, n)
		}
	}

	// First-seen ordering: rule indicators lead.
	if len(got) == 0 || got[0] != rule[0] {
		t.Fatalf("indicators = %v, want rule indicator first", got)
	}

	want := []string{
		"Suspicious domain: a.tk",
		"Suspicious domain: b.tk",
		"Possible paypal impersonation detected",
		"URL shortener used (may hide destination)",
	}
	for _, w := range want {
		found := false
		for _, ind := range got {
			if ind == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing indicator %q in %v", w, got)
		}
	}
}

func TestRecommendationCoversAllLevels(t *testing.T) {
	levels := []ThreatLevel{ThreatNone, ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical}
	seen := make(map[string]bool)
	for _, l := range levels {
		rec := recommendationFor(l)
		if rec == "" {
			t.Errorf("empty recommendation for %v", l)
		}
		if seen[rec] {
			t.Errorf("duplicate recommendation for %v", l)
		}
		seen[rec] = true
	}
}
