package detector

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWeightRowsSumToOne(t *testing.T) {
	cal := DefaultCalibration()
	rows := map[string]Weights{
		"full_with_urls":          cal.Weights.FullWithURLs,
		"full_no_urls":            cal.Weights.FullNoURLs,
		"partial_with_urls":       cal.Weights.PartialWithURLs,
		"partial_no_urls":         cal.Weights.PartialNoURLs,
		"rule_only_url_dominated": cal.Weights.RuleOnlyURLDominated,
		"rule_only_with_urls":     cal.Weights.RuleOnlyWithURLs,
		"rule_only_no_urls":       cal.Weights.RuleOnlyNoURLs,
	}
	for name, w := range rows {
		sum := w.ML + w.Rule + w.URL + w.Brand + w.Transformer
		if math.Abs(sum-1.0) > 0.01 {
			t.Errorf("row %s sums to %v, want 1.0", name, sum)
		}
	}
}

func TestEnsembleScoreBounds(t *testing.T) {
	cal := DefaultCalibration()
	inputs := []ensembleInputs{
		{},
		{ruleScore: 1.0},
		{
			mlScore: 1.0, mlAvailable: true,
			ruleScore:        1.0,
			transformerScore: 1.0, transformerAvailable: true,
			urlResults: []URLAnalysis{{Score: 1.0, Suspicious: true}, {Score: 1.0, Suspicious: true}},
			brand:      BrandImpersonation{Detected: true, Similarity: 1.0},
		},
	}
	for i, in := range inputs {
		got := ensembleScore(cal, in)
		if got < 0 || got > 1 {
			t.Errorf("input %d: score %v out of [0,1]", i, got)
		}
	}
}

func TestEnsembleFloors(t *testing.T) {
	cal := DefaultCalibration()

	tests := []struct {
		name string
		in   ensembleInputs
		min  float64
	}{
		{
			"high rule score",
			ensembleInputs{ruleScore: 0.55},
			0.65,
		},
		{
			"moderate rule score",
			ensembleInputs{ruleScore: 0.45},
			0.55,
		},
		{
			"near-certain brand impersonation",
			ensembleInputs{brand: BrandImpersonation{Detected: true, Similarity: 0.9}},
			0.75,
		},
		{
			"two suspicious urls",
			ensembleInputs{urlResults: []URLAnalysis{
				{Score: 0.3, Suspicious: true},
				{Score: 0.3, Suspicious: true},
			}},
			0.65,
		},
		{
			"rule only with brand",
			ensembleInputs{ruleScore: 0.38, brand: BrandImpersonation{Detected: true, Similarity: 0.7}},
			0.6,
		},
		{
			"rule only url corroboration",
			ensembleInputs{
				ruleScore:  0.18,
				urlResults: []URLAnalysis{{Score: 0.3, Suspicious: true}},
			},
			0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ensembleScore(cal, tt.in); got < tt.min {
				t.Errorf("score = %v, want >= %v", got, tt.min)
			}
		})
	}
}

func TestEnsembleAgreementBoost(t *testing.T) {
	cal := DefaultCalibration()

	// One strong signal, low enough that no floor applies.
	weak := ensembleInputs{ruleScore: 0.22}
	base := cal.Weights.RuleOnlyNoURLs.Rule * 0.22
	got := ensembleScore(cal, weak)
	want := base * cal.Boosts.One
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("single-signal score = %v, want boosted %v", got, want)
	}
}

func TestEnsembleUnavailableSignalsReweight(t *testing.T) {
	cal := DefaultCalibration()

	// The same rule evidence must not be diluted when classifiers are down:
	// rule-only mode weights the rule signal more heavily than full mode.
	in := ensembleInputs{ruleScore: 0.3}
	ruleOnly := ensembleScore(cal, in)

	in.mlAvailable = true
	in.transformerAvailable = true
	withIdleClassifiers := ensembleScore(cal, in)

	if ruleOnly <= withIdleClassifiers {
		t.Errorf("rule-only score %v not above full-mode score %v with zero classifier scores",
			ruleOnly, withIdleClassifiers)
	}
}

func TestLoadCalibration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibration.yaml")
	content := []byte("thresholds:\n  base: 0.50\nboosts:\n  two: 1.25\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cal, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration: %v", err)
	}
	if cal.Thresholds.Base != 0.50 {
		t.Errorf("Base = %v, want overridden 0.50", cal.Thresholds.Base)
	}
	if cal.Boosts.Two != 1.25 {
		t.Errorf("Boosts.Two = %v, want overridden 1.25", cal.Boosts.Two)
	}
	// Unset fields keep defaults.
	def := DefaultCalibration()
	if cal.Thresholds.SuspiciousURL != def.Thresholds.SuspiciousURL {
		t.Errorf("SuspiciousURL = %v, want default %v", cal.Thresholds.SuspiciousURL, def.Thresholds.SuspiciousURL)
	}
	if cal.Boosts.Four != def.Boosts.Four {
		t.Errorf("Boosts.Four = %v, want default %v", cal.Boosts.Four, def.Boosts.Four)
	}
}

func TestLoadCalibrationMissingFile(t *testing.T) {
	cal, err := LoadCalibration("/nonexistent/calibration.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cal.Thresholds.Base != DefaultCalibration().Thresholds.Base {
		t.Error("missing file must return defaults")
	}
}

func TestLoadCalibrationMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("thresholds: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCalibration(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
