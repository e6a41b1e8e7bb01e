package detector

import (
	"strings"
	"testing"
)

func TestExtractIndicators(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantIndicator string // substring expected in one indicator, "" for none
		minScore      float64
		maxScore      float64
	}{
		{
			name:          "urgency and credential pressure",
			text:          "URGENT: verify your account immediately or your account will be suspended",
			wantIndicator: "Urgency/pressure",
			minScore:      0.2,
			maxScore:      1.0,
		},
		{
			name:          "seed phrase request",
			text:          "connect your wallet and enter your seed phrase to claim your reward",
			wantIndicator: "Crypto/NFT scam",
			minScore:      0.15,
			maxScore:      1.0,
		},
		{
			name:          "defanged url notation",
			text:          "the link was hxxp://evil[dot]example[dot]com",
			wantIndicator: "URL obfuscation",
			minScore:      0.1,
			maxScore:      1.0,
		},
		{
			name:          "homoglyph spoofing",
			text:          "visit pаypаl.com to continue", // Cyrillic 'а'
			wantIndicator: "homoglyph",
			minScore:      0.25,
			maxScore:      1.0,
		},
		{
			name:     "plain conversation",
			text:     "see you at the park tomorrow afternoon",
			minScore: 0,
			maxScore: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, indicators := extractIndicators(tt.text)
			if score < tt.minScore || score > tt.maxScore {
				t.Errorf("score = %v, want in [%v, %v] (indicators %v)",
					score, tt.minScore, tt.maxScore, indicators)
			}
			if tt.wantIndicator == "" {
				return
			}
			found := false
			for _, ind := range indicators {
				if strings.Contains(ind, tt.wantIndicator) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no indicator containing %q in %v", tt.wantIndicator, indicators)
			}
		})
	}
}

func TestExtractIndicatorsSafeContext(t *testing.T) {
	// The same mild signal scores lower when legitimate-transaction context
	// surrounds it.
	bare := "we have detected a payment issue"
	cushioned := "Order confirmed! Thanks for your order. We have detected a payment issue with order #4411, no action needed. Your next billing date is June 1."

	bareScore, _ := extractIndicators(bare)
	cushionedScore, _ := extractIndicators(cushioned)

	if cushionedScore >= bareScore {
		t.Errorf("safe context did not reduce score: bare=%v cushioned=%v", bareScore, cushionedScore)
	}
}

func TestExtractIndicatorsSafeContextIgnoredWithRiskyURL(t *testing.T) {
	// A live link on a high-risk TLD cancels the safe-context reduction.
	text := "Order confirmed! Thanks for your order. Verify your account at http://orders-check.tk/verify"
	score, _ := extractIndicators(text)

	noContext := "Verify your account at http://orders-check.tk/verify"
	noContextScore, _ := extractIndicators(noContext)

	if score < noContextScore {
		t.Errorf("suspicious-TLD link must disable the reduction: with=%v without=%v", score, noContextScore)
	}
}

func TestContainsHomoglyphs(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"plain ascii text", false},
		{"pаypаl", true},  // Cyrillic а
		{"gοogle", true},  // Greek omicron
		{"café résumé", false},
	}
	for _, tt := range tests {
		if got := containsHomoglyphs(tt.text); got != tt.want {
			t.Errorf("containsHomoglyphs(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtractIndicatorsShapeHeuristics(t *testing.T) {
	shouty := "CLAIM YOUR FREE PRIZE NOW!!! YOU ARE THE WINNER!!! DO NOT MISS THIS CHANCE!!!"
	_, indicators := extractIndicators(shouty)

	var capsFound, punctFound bool
	for _, ind := range indicators {
		if strings.Contains(ind, "capitalization") {
			capsFound = true
		}
		if strings.Contains(ind, "exclamation") {
			punctFound = true
		}
	}
	if !capsFound {
		t.Errorf("no capitalization indicator in %v", indicators)
	}
	if !punctFound {
		t.Errorf("no punctuation indicator in %v", indicators)
	}
}

func BenchmarkExtractIndicators(b *testing.B) {
	text := "URGENT: Your account has been suspended. Verify your account immediately " +
		"at http://secure-login.tk or it will be permanently closed. Enter your password now."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		extractIndicators(text)
	}
}
