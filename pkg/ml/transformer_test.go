package ml

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsPhishingLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"phishing", true},
		{"PHISHING", true},
		{"spam", true},
		{"malicious", true},
		{"LABEL_1", true},
		{"1", true},
		{"positive", true},
		{"benign", false},
		{"legitimate", false},
		{"LABEL_0", false},
		{"ham", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isPhishingLabel(tt.label); got != tt.want {
			t.Errorf("isPhishingLabel(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestDefaultTransformerConfig(t *testing.T) {
	cfg := DefaultTransformerConfig()
	if cfg.ModelName != ModelDistilBERTPhishing {
		t.Errorf("ModelName = %q, want primary model", cfg.ModelName)
	}
	if cfg.ModelPath == "" {
		t.Error("ModelPath must have a default")
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}

	fb := FallbackTransformerConfig()
	if fb.ModelName != ModelBERTPhishing {
		t.Errorf("fallback ModelName = %q, want %q", fb.ModelName, ModelBERTPhishing)
	}
}

func TestAutoDetectTransformerConfigEnvPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "model.onnx"), []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHISHGUARD_MODEL_PATH", dir)
	t.Setenv("PHISHGUARD_AUTO_DOWNLOAD_MODEL", "")

	cfg := AutoDetectTransformerConfig()
	if cfg == nil {
		t.Fatal("expected config for env-provided model path")
	}
	if cfg.ModelPath != dir {
		t.Errorf("ModelPath = %q, want %q", cfg.ModelPath, dir)
	}
	if cfg.ModelName != "" {
		t.Errorf("ModelName = %q, want empty (no download for explicit path)", cfg.ModelName)
	}
}

func TestAutoDetectTransformerConfigNoModels(t *testing.T) {
	t.Setenv("PHISHGUARD_MODEL_PATH", "")
	t.Setenv("PHISHGUARD_AUTO_DOWNLOAD_MODEL", "")

	if cfg := AutoDetectTransformerConfig(); cfg != nil {
		t.Errorf("expected nil config without models, got %+v", cfg)
	}
}

func TestAutoDetectTransformerConfigAutoDownload(t *testing.T) {
	t.Setenv("PHISHGUARD_MODEL_PATH", "")
	t.Setenv("PHISHGUARD_AUTO_DOWNLOAD_MODEL", "true")

	cfg := AutoDetectTransformerConfig()
	if cfg == nil {
		t.Fatal("expected config with auto-download enabled")
	}
	if cfg.ModelName != ModelDistilBERTPhishing {
		t.Errorf("ModelName = %q, want primary model for download", cfg.ModelName)
	}
}

func TestTransformerNotReady(t *testing.T) {
	c := &TransformerClassifier{}
	if c.IsReady() {
		t.Error("zero-value classifier must not be ready")
	}
	if _, err := c.Score(t.Context(), "hello"); err == nil {
		t.Error("Score on a not-ready classifier must fail")
	}
	if c.Name() != "transformer" {
		t.Errorf("Name = %q", c.Name())
	}
}
