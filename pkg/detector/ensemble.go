package detector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights distributes the final score across the five signals. Each row of
// the weight table sums to roughly 1.0.
type Weights struct {
	ML          float64 `yaml:"ml"`
	Rule        float64 `yaml:"rule"`
	URL         float64 `yaml:"url"`
	Brand       float64 `yaml:"brand"`
	Transformer float64 `yaml:"transformer"`
}

// WeightTable holds one weight row per provider-availability situation.
// Which row applies depends on which classifiers answered and whether the
// message carried URLs.
type WeightTable struct {
	FullWithURLs         Weights `yaml:"full_with_urls"`
	FullNoURLs           Weights `yaml:"full_no_urls"`
	PartialWithURLs      Weights `yaml:"partial_with_urls"`
	PartialNoURLs        Weights `yaml:"partial_no_urls"`
	RuleOnlyURLDominated Weights `yaml:"rule_only_url_dominated"`
	RuleOnlyWithURLs     Weights `yaml:"rule_only_with_urls"`
	RuleOnlyNoURLs       Weights `yaml:"rule_only_no_urls"`
}

// Thresholds are the dynamic decision cutoffs. More corroborating indicators
// let a lower ensemble score qualify as phishing.
type Thresholds struct {
	Base               float64 `yaml:"base"`
	ManyIndicators     float64 `yaml:"many_indicators"`      // applies at >= 3 indicators
	VeryManyIndicators float64 `yaml:"very_many_indicators"` // applies at >= 5 indicators
	SuspiciousURL      float64 `yaml:"suspicious_url"`       // URL-focused content with a flagged URL
}

// Boosts are the agreement multipliers applied when independent signals
// corroborate each other.
type Boosts struct {
	One   float64 `yaml:"one"`
	Two   float64 `yaml:"two"`
	Three float64 `yaml:"three"`
	Four  float64 `yaml:"four"`
}

// Calibration bundles every tunable constant of the ensemble. Values are
// calibrated empirically; DefaultCalibration is authoritative unless a YAML
// override is loaded.
type Calibration struct {
	Thresholds Thresholds  `yaml:"thresholds"`
	Boosts     Boosts      `yaml:"boosts"`
	Weights    WeightTable `yaml:"weights"`
}

// DefaultCalibration returns the compiled-in calibration.
func DefaultCalibration() Calibration {
	return Calibration{
		Thresholds: Thresholds{
			Base:               0.45,
			ManyIndicators:     0.40,
			VeryManyIndicators: 0.35,
			SuspiciousURL:      0.32,
		},
		Boosts: Boosts{One: 1.15, Two: 1.20, Three: 1.35, Four: 1.50},
		Weights: WeightTable{
			FullWithURLs:         Weights{ML: 0.25, Rule: 0.20, URL: 0.25, Brand: 0.10, Transformer: 0.20},
			FullNoURLs:           Weights{ML: 0.30, Rule: 0.25, URL: 0.0, Brand: 0.15, Transformer: 0.30},
			PartialWithURLs:      Weights{ML: 0.30, Rule: 0.30, URL: 0.20, Brand: 0.10, Transformer: 0.10},
			PartialNoURLs:        Weights{ML: 0.35, Rule: 0.40, URL: 0.0, Brand: 0.15, Transformer: 0.10},
			RuleOnlyURLDominated: Weights{ML: 0.0, Rule: 0.15, URL: 0.65, Brand: 0.20, Transformer: 0.0},
			RuleOnlyWithURLs:     Weights{ML: 0.0, Rule: 0.55, URL: 0.25, Brand: 0.20, Transformer: 0.0},
			RuleOnlyNoURLs:       Weights{ML: 0.0, Rule: 0.75, URL: 0.0, Brand: 0.25, Transformer: 0.0},
		},
	}
}

// LoadCalibration reads a calibration override from a YAML file. Fields left
// unset in the file keep their defaults.
func LoadCalibration(path string) (Calibration, error) {
	cal := DefaultCalibration()

	data, err := os.ReadFile(path)
	if err != nil {
		return cal, fmt.Errorf("read calibration file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return cal, fmt.Errorf("parse calibration file: %w", err)
	}
	return cal, nil
}

// ensembleInputs are the raw signals feeding one ensemble evaluation.
type ensembleInputs struct {
	mlScore              float64
	mlAvailable          bool
	ruleScore            float64
	transformerScore     float64
	transformerAvailable bool
	urlResults           []URLAnalysis
	brand                BrandImpersonation
}

// ensembleScore combines all signals into a final score in [0,1].
//
// The combination happens in four stages: pick a weight row for the current
// provider availability, take the weighted sum, multiply by the agreement
// boost, then apply override floors for patterns that are near-certain
// phishing regardless of the weighted average.
func ensembleScore(cal Calibration, in ensembleInputs) float64 {
	urlScore := 0.0
	urlSuspiciousCount := 0
	for _, r := range in.urlResults {
		urlScore = maxF(urlScore, r.Score)
		if r.Suspicious {
			urlSuspiciousCount++
		}
	}

	brandScore := 0.0
	if in.brand.Detected {
		brandScore = in.brand.Similarity
	}

	hasURLs := len(in.urlResults) > 0

	var w Weights
	switch {
	case in.mlAvailable && in.transformerAvailable:
		if hasURLs {
			w = cal.Weights.FullWithURLs
		} else {
			w = cal.Weights.FullNoURLs
		}
	case in.mlAvailable || in.transformerAvailable:
		if hasURLs {
			w = cal.Weights.PartialWithURLs
		} else {
			w = cal.Weights.PartialNoURLs
		}
	default:
		if hasURLs {
			// Bare URLs or short text with links: the URL verdict carries
			// the signal when the rule layer found little.
			if in.ruleScore < 0.25 && urlScore > 0.35 {
				w = cal.Weights.RuleOnlyURLDominated
			} else {
				w = cal.Weights.RuleOnlyWithURLs
			}
		} else {
			w = cal.Weights.RuleOnlyNoURLs
		}
	}

	score := w.ML*in.mlScore +
		w.Rule*in.ruleScore +
		w.URL*urlScore +
		w.Brand*brandScore +
		w.Transformer*in.transformerScore

	// Count independently strong signals for agreement boosting.
	strong := 0
	if in.mlAvailable && in.mlScore > 0.6 {
		strong++
	}
	if in.ruleScore > 0.20 {
		strong++
	}
	if urlScore > 0.25 {
		strong++
	}
	if in.brand.Detected && in.brand.Similarity > 0.5 {
		strong++
	}
	if in.transformerAvailable && in.transformerScore > 0.6 {
		strong++
	}

	switch {
	case strong >= 4:
		score = minF(score*cal.Boosts.Four, 1.0)
	case strong == 3:
		score = minF(score*cal.Boosts.Three, 1.0)
	case strong == 2:
		score = minF(score*cal.Boosts.Two, 1.0)
	case strong == 1:
		score = minF(score*cal.Boosts.One, 1.0)
	}

	// Override floors: certain combinations are near-certain phishing even
	// when the weighted average comes out low.
	if in.brand.Detected && in.brand.Similarity > 0.85 {
		score = maxF(score, 0.75)
	}
	if urlSuspiciousCount >= 2 {
		score = maxF(score, 0.65)
	}
	if in.ruleScore > 0.5 {
		score = maxF(score, 0.65)
	} else if in.ruleScore > 0.4 {
		score = maxF(score, 0.55)
	}
	if in.transformerAvailable && in.transformerScore > 0.7 && in.ruleScore > 0.25 {
		score = maxF(score, 0.65)
	}

	// Rule-only mode trusts high pattern scores more, since nothing else can
	// confirm them.
	if !in.mlAvailable && !in.transformerAvailable {
		if in.ruleScore > 0.35 && in.brand.Detected {
			score = maxF(score, 0.6)
		} else if in.ruleScore > 0.40 {
			score = maxF(score, 0.55)
		} else if in.ruleScore > 0.35 {
			score = maxF(score, 0.5)
		}

		if urlScore > 0.25 && in.ruleScore > 0.15 {
			score = maxF(score, 0.5)
		}

		if in.brand.Detected && (in.ruleScore > 0.15 || urlScore > 0.2) {
			score = maxF(score, 0.55)
		}
	}

	return minF(maxF(score, 0.0), 1.0)
}
