package ml

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultExemplars(t *testing.T) {
	if len(defaultExemplars) == 0 {
		t.Fatal("no built-in exemplars")
	}

	scam, benign := 0, 0
	for i, e := range defaultExemplars {
		if e.Text == "" || e.Category == "" {
			t.Errorf("exemplar %d has empty text or category", i)
		}
		if e.Category == "benign" {
			benign++
		} else {
			scam++
		}
	}
	if scam == 0 || benign == 0 {
		t.Errorf("exemplar set needs both classes: %d scam, %d benign", scam, benign)
	}
}

func TestLoadExemplarFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.yaml")
	content := []byte(`exemplars:
  - text: "verify your account now or lose access"
    category: credential_harvest
  - text: "your invoice is attached, thanks for your business"
    category: benign
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadExemplarFile(path)
	if err != nil {
		t.Fatalf("loadExemplarFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d exemplars, want 2", len(got))
	}
	if got[0].Category != "credential_harvest" {
		t.Errorf("Category = %q", got[0].Category)
	}
	if got[1].Category != "benign" {
		t.Errorf("Category = %q", got[1].Category)
	}
}

func TestLoadExemplarFileErrors(t *testing.T) {
	if _, err := loadExemplarFile("/nonexistent/seeds.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("exemplars: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadExemplarFile(empty); err == nil {
		t.Error("expected error for seed file without exemplars")
	}
}

func TestSemanticClassifierNotSeeded(t *testing.T) {
	sc, err := NewSemanticClassifier("http://localhost:11434")
	if err != nil {
		t.Fatalf("NewSemanticClassifier: %v", err)
	}
	if sc.IsReady() {
		t.Error("classifier ready before LoadExemplars")
	}
	if _, err := sc.Score(t.Context(), "hello"); err == nil {
		t.Error("Score before seeding must fail")
	}
	if sc.Name() != "semantic" {
		t.Errorf("Name = %q", sc.Name())
	}
}
