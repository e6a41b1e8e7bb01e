package detector

import "testing"

func TestDetectBrandImpersonation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		urls     []string
		detected bool
		brand    string
		minSim   float64
	}{
		{
			name:     "no brand mention",
			text:     "lunch at noon tomorrow?",
			detected: false,
		},
		{
			name:     "brand with official link",
			text:     "Your PayPal receipt is attached",
			urls:     []string{"https://www.paypal.com/receipt/123"},
			detected: false,
		},
		{
			name:     "brand with unrelated link",
			text:     "PayPal notice: review your account",
			urls:     []string{"http://account-review.example.net/x"},
			detected: true,
			brand:    "paypal",
			minSim:   0.7,
		},
		{
			name:     "brand in subdomain",
			text:     "paypal alert",
			urls:     []string{"http://paypal.evil-site.com/login"},
			detected: true,
			brand:    "paypal",
			minSim:   0.9,
		},
		{
			name:     "typosquatted domain",
			text:     "Update your PayPal information",
			urls:     []string{"http://paypol.com/update"},
			detected: true,
			brand:    "paypal",
			minSim:   0.95,
		},
		{
			name:     "no urls with credential request",
			text:     "PayPal team: enter your password to restore access",
			detected: true,
			brand:    "paypal",
			minSim:   0.75,
		},
		{
			name:     "no urls with impersonation phrasing",
			text:     "Message from the Netflix team. Netflix support has updated its terms. - netflix customer care",
			detected: true,
			brand:    "netflix",
			minSim:   0.6,
		},
		{
			name:     "no urls casual mention",
			text:     "I watched a movie on netflix yesterday",
			detected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectBrandImpersonation(tt.text, tt.urls)
			if got.Detected != tt.detected {
				t.Fatalf("Detected = %v (%+v), want %v", got.Detected, got, tt.detected)
			}
			if !tt.detected {
				if got.Brand != "" {
					t.Errorf("Brand = %q on negative result", got.Brand)
				}
				return
			}
			if got.Brand != tt.brand {
				t.Errorf("Brand = %q, want %q", got.Brand, tt.brand)
			}
			if got.Similarity < tt.minSim {
				t.Errorf("Similarity = %v, want >= %v", got.Similarity, tt.minSim)
			}
			if got.Similarity > 1.0 {
				t.Errorf("Similarity = %v above 1.0", got.Similarity)
			}
		})
	}
}

func TestBrandTieBreaksDeterministic(t *testing.T) {
	// One mention each of two brands: the earlier list entry wins.
	text := "amazon and paypal both emailed me, check http://updates.example.xyz/account"
	for i := 0; i < 10; i++ {
		got := detectBrandImpersonation(text, []string{"http://updates.example.xyz/account"})
		if got.Brand != "paypal" {
			t.Fatalf("run %d: Brand = %q, want stable tie-break to paypal", i, got.Brand)
		}
	}
}
