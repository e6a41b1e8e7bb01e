// transformer.go - Local transformer-based phishing classification using Hugot/ONNX
//
// Architecture:
// - Uses ONNX Runtime for fast inference when available
// - Runs fully local - no external API calls required
// - Gracefully degrades if no model can be loaded
//
// Build:
// - Standard: go build (uses Go backend, slower but no dependencies)
// - With ORT: go build -tags ORT (uses ONNX Runtime, faster)
package ml

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// Model presets. Both are DistilBERT/BERT checkpoints fine-tuned on phishing
// email and URL corpora.
const (
	// ModelDistilBERTPhishing is the primary model, best accuracy on mixed
	// email/SMS/URL input.
	ModelDistilBERTPhishing = "cybersectony/phishing-email-detection-distilbert_v2.4.1"

	// ModelBERTPhishing is the fallback checkpoint.
	ModelBERTPhishing = "ealvaradob/bert-finetuned-phishing"
)

// BERT-family models truncate input anyway; cutting early keeps tokenization
// cheap for long emails.
const maxClassifierInput = 512

// TransformerConfig configures the transformer classifier.
type TransformerConfig struct {
	// ModelPath is the local path to the ONNX model directory.
	// If empty and ModelName is set, the model will be downloaded.
	ModelPath string

	// ModelName is the HuggingFace model name used to download the model
	// when ModelPath is empty or missing.
	ModelName string

	// OnnxLibraryPath is the directory holding libonnxruntime.
	// Empty means the pure Go backend.
	OnnxLibraryPath string

	// Timeout is the maximum time for a single inference call.
	Timeout time.Duration
}

// DefaultTransformerConfig returns the primary model configuration.
func DefaultTransformerConfig() TransformerConfig {
	return TransformerConfig{
		ModelName:       ModelDistilBERTPhishing,
		ModelPath:       "./models/distilbert-phishing",
		OnnxLibraryPath: getDefaultOnnxLibPath(),
		Timeout:         30 * time.Second,
	}
}

// FallbackTransformerConfig returns the secondary model configuration.
func FallbackTransformerConfig() TransformerConfig {
	return TransformerConfig{
		ModelName:       ModelBERTPhishing,
		ModelPath:       "./models/bert-phishing",
		OnnxLibraryPath: getDefaultOnnxLibPath(),
		Timeout:         30 * time.Second,
	}
}

// modelSearchOrder lists local model directories in preference order.
var modelSearchOrder = []struct {
	path  string
	model string
}{
	{"./models/distilbert-phishing", ModelDistilBERTPhishing},
	{"./models/bert-phishing", ModelBERTPhishing},
}

// AutoDetectTransformerConfig finds a usable local model, honoring
// PHISHGUARD_MODEL_PATH first. Returns nil when no model is present and
// auto-download is disabled.
func AutoDetectTransformerConfig() *TransformerConfig {
	if envPath := os.Getenv("PHISHGUARD_MODEL_PATH"); envPath != "" {
		if _, err := os.Stat(filepath.Join(envPath, "model.onnx")); err == nil {
			log.Printf("[ML] Using model from PHISHGUARD_MODEL_PATH: %s", envPath)
			cfg := DefaultTransformerConfig()
			cfg.ModelName = ""
			cfg.ModelPath = envPath
			return &cfg
		}
	}

	for _, m := range modelSearchOrder {
		if _, err := os.Stat(filepath.Join(m.path, "model.onnx")); err == nil {
			log.Printf("[ML] Auto-detected model: %s", m.model)
			cfg := DefaultTransformerConfig()
			cfg.ModelName = m.model
			cfg.ModelPath = m.path
			return &cfg
		}
	}

	autoDownload := os.Getenv("PHISHGUARD_AUTO_DOWNLOAD_MODEL")
	if autoDownload == "true" || autoDownload == "1" {
		log.Printf("[ML] No local models found, will download %s on first use", ModelDistilBERTPhishing)
		cfg := DefaultTransformerConfig()
		return &cfg
	}

	log.Printf("[ML] No transformer models found. To enable transformer detection:")
	log.Printf("[ML]   1. Set PHISHGUARD_AUTO_DOWNLOAD_MODEL=true for download on first use")
	log.Printf("[ML]   2. Set PHISHGUARD_MODEL_PATH to a local ONNX model directory")
	return nil
}

// TransformerClassifier scores text with a local phishing-tuned transformer.
// Safe for concurrent use.
type TransformerClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.RWMutex
	config   TransformerConfig
	ready    bool
}

// NewTransformerClassifier creates a classifier with the given configuration.
func NewTransformerClassifier(cfg TransformerConfig) (*TransformerClassifier, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &TransformerClassifier{config: cfg}
	if err := c.initialize(); err != nil {
		return nil, fmt.Errorf("transformer initialization failed: %w", err)
	}
	return c, nil
}

// NewTransformerClassifierWithFallback creates a classifier that degrades
// gracefully: on failure it returns an instance with ready=false instead of
// an error, and Score reports unavailability.
func NewTransformerClassifierWithFallback(cfg TransformerConfig) *TransformerClassifier {
	c, err := NewTransformerClassifier(cfg)
	if err != nil {
		log.Printf("[WARN] Transformer classifier initialization failed (graceful degradation): %v", err)
		return &TransformerClassifier{config: cfg, ready: false}
	}
	return c
}

// NewAutoDetectedTransformer creates a classifier from auto-detected models.
// Returns nil if no models are available.
func NewAutoDetectedTransformer() *TransformerClassifier {
	cfg := AutoDetectTransformerConfig()
	if cfg == nil {
		return nil
	}
	return NewTransformerClassifierWithFallback(*cfg)
}

// initialize sets up the ONNX session and pipeline.
func (c *TransformerClassifier) initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.createSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	c.session = session

	modelPath, err := c.resolveModelPath()
	if err != nil {
		_ = c.session.Destroy()
		return fmt.Errorf("failed to resolve model path: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "phishing-classifier",
	}

	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = c.session.Destroy()
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	c.pipeline = pipeline
	c.ready = true
	log.Printf("[ML] Transformer classifier initialized (model: %s)", modelPath)
	return nil
}

// createSession creates the Hugot session, preferring the ONNX Runtime
// backend and falling back to the pure Go backend.
func (c *TransformerClassifier) createSession() (*hugot.Session, error) {
	if c.config.OnnxLibraryPath != "" {
		session, err := hugot.NewORTSession(
			options.WithOnnxLibraryPath(c.config.OnnxLibraryPath),
		)
		if err == nil {
			log.Printf("[ML] Using ONNX Runtime backend")
			return session, nil
		}
		log.Printf("[ML] ONNX Runtime unavailable, falling back to Go backend: %v", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create Go session: %w", err)
	}
	log.Printf("[ML] Using pure Go backend (slower, consider installing ONNX Runtime)")
	return session, nil
}

// resolveModelPath ensures the model is available locally, downloading it
// by name when the configured path is missing.
func (c *TransformerClassifier) resolveModelPath() (string, error) {
	if c.config.ModelPath != "" {
		if _, err := os.Stat(c.config.ModelPath); err == nil {
			return c.config.ModelPath, nil
		}
	}

	if c.config.ModelName == "" {
		return "", fmt.Errorf("no model path or name specified")
	}

	modelsDir := "./models"
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create models directory: %w", err)
	}

	log.Printf("[ML] Downloading model %s...", c.config.ModelName)
	modelPath, err := hugot.DownloadModel(c.config.ModelName, modelsDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model: %w", err)
	}
	log.Printf("[ML] Model downloaded to %s", modelPath)
	return modelPath, nil
}

// IsReady reports whether the classifier can serve inference.
func (c *TransformerClassifier) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Name identifies this provider in logs and signal scores.
func (c *TransformerClassifier) Name() string { return "transformer" }

// isPhishingLabel maps model-specific positive labels to a boolean.
// cybersectony emits "phishing"/"legitimate"; ealvaradob emits
// "phishing"/"benign"; generic checkpoints emit "LABEL_1"/"LABEL_0".
func isPhishingLabel(label string) bool {
	switch strings.ToLower(label) {
	case "phishing", "spam", "malicious", "1", "positive", "label_1":
		return true
	default:
		return false
	}
}

// Score classifies text and returns the probability that it is phishing.
// When the model's top label is the benign class, the returned probability
// is the complement of the model's confidence.
func (c *TransformerClassifier) Score(ctx context.Context, text string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.ready || c.pipeline == nil {
		return 0, fmt.Errorf("transformer classifier not ready")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if len(text) > maxClassifierInput {
		text = text[:maxClassifierInput]
	}

	result, err := c.pipeline.RunPipeline([]string{text})
	if err != nil {
		return 0, fmt.Errorf("classification failed: %w", err)
	}
	if len(result.ClassificationOutputs) == 0 || len(result.ClassificationOutputs[0]) == 0 {
		return 0, fmt.Errorf("no classification output")
	}

	out := result.ClassificationOutputs[0][0]
	if isPhishingLabel(out.Label) {
		return float64(out.Score), nil
	}
	return 1.0 - float64(out.Score), nil
}

// Close releases the ONNX session.
func (c *TransformerClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ready = false
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
	}
	return nil
}

// getDefaultOnnxLibPath returns the ONNX Runtime library directory for the
// current platform, or "" when not installed.
func getDefaultOnnxLibPath() string {
	paths := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Dir(p)
		}
	}
	return ""
}
