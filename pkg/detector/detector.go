package detector

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/shieldstack/phishguard/pkg/httputil"
	"github.com/shieldstack/phishguard/pkg/ml"
	"github.com/shieldstack/phishguard/pkg/patterns"
)

// Trimmed input shorter than this gets the canonical safe assessment without
// running any analysis.
const minInputLength = 3

// Upper bound on parallel items inside one BatchDetect call.
const defaultBatchConcurrency = 8

var smsHintRegex = regexp.MustCompile(`(?i)\b(txt|sms|text me|click link|tap here)\b`)

// Engine is the multi-signal phishing detection engine. It is stateless per
// call and safe for concurrent use; the only shared state is the read-only
// pattern table and the injected providers.
type Engine struct {
	cal         Calibration
	mlProvider  ml.ScoreProvider
	transformer ml.ScoreProvider
	batchSem    *httputil.Semaphore
}

// Option configures an Engine.
type Option func(*Engine)

// WithCalibration overrides the compiled-in calibration.
func WithCalibration(cal Calibration) Option {
	return func(e *Engine) { e.cal = cal }
}

// WithMLProvider injects the embedding-similarity classifier signal.
// A nil provider leaves the signal unavailable.
func WithMLProvider(p ml.ScoreProvider) Option {
	return func(e *Engine) { e.mlProvider = p }
}

// WithTransformerProvider injects the transformer classifier signal.
// A nil provider leaves the signal unavailable.
func WithTransformerProvider(p ml.ScoreProvider) Option {
	return func(e *Engine) { e.transformer = p }
}

// WithBatchConcurrency bounds the number of items analyzed in parallel by
// BatchDetect.
func WithBatchConcurrency(n int) Option {
	return func(e *Engine) { e.batchSem = httputil.NewSemaphore(n) }
}

// New creates a detection engine. Without options the engine runs in
// rule-based mode: pattern, URL, and brand signals only.
func New(opts ...Option) *Engine {
	e := &Engine{
		cal:      DefaultCalibration(),
		batchSem: httputil.NewSemaphore(defaultBatchConcurrency),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Detect analyzes one piece of content and returns the full assessment.
// It never fails: unavailable providers degrade the ensemble, empty input
// yields the canonical safe result.
func (e *Engine) Detect(ctx context.Context, text string, scanType ScanType) Assessment {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minInputLength {
		return emptyAssessment()
	}
	text = trimmed

	if scanType == ScanTypeAuto || scanType == "" {
		scanType = detectScanType(text)
	}

	urls := e.ExtractURLs(text)

	mlScore, mlAvailable := e.providerScore(ctx, e.mlProvider, text)
	transformerScore, transformerAvailable := e.providerScore(ctx, e.transformer, text)
	ruleScore, ruleIndicators := extractIndicators(text)
	urlResults := analyzeURLs(urls)
	brand := detectBrandImpersonation(text, urls)

	finalScore := ensembleScore(e.cal, ensembleInputs{
		mlScore:              mlScore,
		mlAvailable:          mlAvailable,
		ruleScore:            ruleScore,
		transformerScore:     transformerScore,
		transformerAvailable: transformerAvailable,
		urlResults:           urlResults,
		brand:                brand,
	})

	indicators := collectIndicators(ruleIndicators, urls, brand)
	threatLevel := determineThreatLevel(finalScore, indicators)

	threshold := decisionThreshold(e.cal, indicators, scanType, text, urlResults)
	isPhishing := finalScore >= threshold

	phishingType := determinePhishingType(scanType, urlResults, isPhishing)

	assessment := Assessment{
		IsPhishing:     isPhishing,
		Confidence:     round4(finalScore),
		PhishingType:   phishingType,
		ThreatLevel:    threatLevel,
		Indicators:     indicators,
		URLsAnalyzed:   urlResults,
		Recommendation: recommendationFor(threatLevel),
		Signals: SignalScores{
			ML:                   mlScore,
			MLAvailable:          mlAvailable,
			Rule:                 ruleScore,
			Transformer:          transformerScore,
			TransformerAvailable: transformerAvailable,
			URL:                  maxURLScore(urlResults),
			URLCount:             len(urls),
			ScanType:             scanType,
		},
	}
	if brand.Detected {
		b := brand
		assessment.Brand = &b
	}
	return assessment
}

// BatchDetect analyzes items in parallel and returns assessments in input
// order. Parallelism is bounded by the engine's batch semaphore.
func (e *Engine) BatchDetect(ctx context.Context, items []string, scanType ScanType) []Assessment {
	results := make([]Assessment, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		if err := e.batchSem.Acquire(ctx); err != nil {
			// Context cancelled: remaining items get the safe empty result.
			results[i] = emptyAssessment()
			continue
		}
		wg.Add(1)
		go func(idx int, text string) {
			defer wg.Done()
			defer e.batchSem.Release()
			results[idx] = e.Detect(ctx, text, scanType)
		}(i, item)
	}
	wg.Wait()

	return results
}

// ExtractURLs returns every http(s) URL embedded in text, in order of
// appearance. Malformed fragments that the pattern rejects are skipped.
func (e *Engine) ExtractURLs(text string) []string {
	return patterns.Get().URLRegex().FindAllString(text, -1)
}

// IsSuspiciousDomain reports whether a URL's public suffix is on the
// high-risk TLD list.
func (e *Engine) IsSuspiciousDomain(rawURL string) bool {
	parts, ok := extractParts(rawURL)
	if !ok {
		return false
	}
	return patterns.Get().IsSuspiciousTLD(parts.suffix)
}

// CheckSuspiciousURLs reports whether any URL in the list has a high-risk
// TLD.
func (e *Engine) CheckSuspiciousURLs(urls []string) bool {
	for _, u := range urls {
		if e.IsSuspiciousDomain(u) {
			return true
		}
	}
	return false
}

// CheckBrandImpersonation reports whether any known brand is mentioned.
func (e *Engine) CheckBrandImpersonation(text string) bool {
	return patterns.Get().BrandRegex().MatchString(strings.ToLower(text))
}

// CheckUrgencyLanguage reports whether urgency patterns are present.
func (e *Engine) CheckUrgencyLanguage(text string) bool {
	return patterns.Get().MatchAny(text, patterns.CategoryUrgency) != nil
}

// providerScore invokes an optional provider. Any error makes the signal
// unavailable rather than neutral: the ensemble reweights around it.
func (e *Engine) providerScore(ctx context.Context, p ml.ScoreProvider, text string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	score, err := p.Score(ctx, text)
	if err != nil {
		log.Printf("[WARN] %s signal unavailable: %v", p.Name(), err)
		return 0, false
	}
	return score, true
}

// detectScanType classifies untyped input: a bare URL, a short message with
// SMS phrasing, or an email by default.
func detectScanType(text string) ScanType {
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		if len(strings.Fields(text)) <= 3 {
			return ScanTypeURL
		}
	}

	if smsHintRegex.MatchString(text) && len(text) < 500 {
		return ScanTypeSMS
	}

	return ScanTypeEmail
}

// emptyAssessment is the canonical safe result for empty or trivial input.
func emptyAssessment() Assessment {
	return Assessment{
		IsPhishing:     false,
		Confidence:     0.0,
		PhishingType:   PhishingNone,
		ThreatLevel:    ThreatNone,
		Indicators:     []string{},
		URLsAnalyzed:   []URLAnalysis{},
		Recommendation: "No suspicious content detected.",
	}
}

func maxURLScore(results []URLAnalysis) float64 {
	score := 0.0
	for _, r := range results {
		score = maxF(score, r.Score)
	}
	return score
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
