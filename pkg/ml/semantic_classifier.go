package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"gopkg.in/yaml.v3"

	"github.com/shieldstack/phishguard/pkg/httputil"
)

// Exemplar is a labeled reference message for similarity scoring.
type Exemplar struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category"` // scam family, or "benign"
}

// SemanticClassifier scores text by embedding similarity against labeled
// phishing and benign exemplars held in an in-memory vector store.
type SemanticClassifier struct {
	db         *chromem.DB
	collection *chromem.Collection
	threshold  float32
	mu         sync.RWMutex
	ready      bool
}

// newOllamaEmbeddingFunc creates an embedding function backed by an
// Ollama-compatible /api/embeddings endpoint.
func newOllamaEmbeddingFunc(model, baseURL string) chromem.EmbeddingFunc {
	client := httputil.SlowClient()

	return func(ctx context.Context, text string) ([]float32, error) {
		reqBody := map[string]string{
			"model":  model,
			"prompt": text,
		}
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/api/embeddings", bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer httputil.DrainAndClose(resp.Body)

		if resp.StatusCode != http.StatusOK {
			body, _ := httputil.ReadErrorBody(resp.Body)
			return nil, fmt.Errorf("ollama embedding returned %d: %s", resp.StatusCode, string(body))
		}

		var result struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return result.Embedding, nil
	}
}

// NewSemanticClassifier creates a classifier using Ollama embeddings.
// Call LoadExemplars before scoring.
func NewSemanticClassifier(ollamaURL string) (*SemanticClassifier, error) {
	db := chromem.NewDB()

	embeddingFunc := newOllamaEmbeddingFunc("embeddinggemma", ollamaURL)

	collection, err := db.CreateCollection("phishing_exemplars", nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &SemanticClassifier{
		db:         db,
		collection: collection,
		threshold:  0.65,
	}, nil
}

// NewAutoDetectedSemanticClassifier creates and seeds a semantic classifier
// when an Ollama endpoint is configured and reachable. Returns nil when the
// signal cannot be provided.
func NewAutoDetectedSemanticClassifier(ctx context.Context, ollamaURL string) *SemanticClassifier {
	if ollamaURL == "" {
		fmt.Fprintf(os.Stderr, "[INFO] Semantic classifier disabled - no embedding endpoint configured\n")
		return nil
	}

	sc, err := NewSemanticClassifier(ollamaURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Semantic classifier initialization failed: %v\n", err)
		return nil
	}
	if err := sc.LoadExemplars(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Semantic classifier seeding failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(os.Stderr, "[INFO] Semantic classifier using Ollama embeddings at %s\n", ollamaURL)
	return sc
}

// LoadExemplars seeds the vector store. A YAML seed file can override the
// compiled-in exemplars via PHISHGUARD_SEED_FILE.
func (sc *SemanticClassifier) LoadExemplars(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	exemplars := defaultExemplars
	if path := os.Getenv("PHISHGUARD_SEED_FILE"); path != "" {
		loaded, err := loadExemplarFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to load seed file %s: %v, using built-in exemplars\n", path, err)
		} else {
			fmt.Fprintf(os.Stderr, "[INFO] Loaded %d exemplars from %s\n", len(loaded), path)
			exemplars = loaded
		}
	}

	docs := make([]chromem.Document, len(exemplars))
	for i, e := range exemplars {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("exemplar_%d", i),
			Content: e.Text,
			Metadata: map[string]string{
				"category": e.Category,
			},
		}
	}

	// One worker keeps the embedding endpoint from being flooded at startup.
	if err := sc.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("failed to add exemplars: %w", err)
	}

	sc.ready = true
	return nil
}

// loadExemplarFile reads exemplars from a YAML file.
func loadExemplarFile(path string) ([]Exemplar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var doc struct {
		Exemplars []Exemplar `yaml:"exemplars"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(doc.Exemplars) == 0 {
		return nil, fmt.Errorf("seed file contains no exemplars")
	}
	return doc.Exemplars, nil
}

// IsReady reports whether exemplars have been loaded.
func (sc *SemanticClassifier) IsReady() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ready
}

// Name identifies this provider in logs and signal scores.
func (sc *SemanticClassifier) Name() string { return "semantic" }

// Score returns the probability that text is phishing based on its nearest
// labeled exemplars. Similarity to a scam exemplar maps directly to the
// score; similarity to a benign exemplar maps to its complement.
func (sc *SemanticClassifier) Score(ctx context.Context, text string) (float64, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if !sc.ready {
		return 0, fmt.Errorf("semantic classifier not seeded - call LoadExemplars first")
	}

	// Lowercase improves embedding similarity for shouty scam texts.
	results, err := sc.collection.Query(ctx, strings.ToLower(text), 3, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	best := results[0]
	if best.Metadata["category"] == "benign" {
		return float64(1.0 - best.Similarity), nil
	}
	return float64(best.Similarity), nil
}

// SetThreshold updates the similarity threshold used by callers that gate on
// IsReady plus a hard cutoff.
func (sc *SemanticClassifier) SetThreshold(t float32) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.threshold = t
}

// defaultExemplars are canonical scam and benign reference messages. One per
// major scam family, plus benign counterweights so routine notifications
// do not score high by default.
var defaultExemplars = []Exemplar{
	{Text: "your account has been suspended, verify your password immediately to restore access", Category: "credential_harvest"},
	{Text: "we detected unusual sign-in activity on your account, confirm your identity now", Category: "credential_harvest"},
	{Text: "your package could not be delivered, pay the customs fee to reschedule delivery", Category: "delivery_scam"},
	{Text: "congratulations you have won a prize, claim your reward before it expires", Category: "prize_scam"},
	{Text: "your wallet is at risk, connect your wallet and enter your seed phrase to secure funds", Category: "crypto_scam"},
	{Text: "this is the irs, an arrest warrant will be issued unless you pay your outstanding tax balance", Category: "government_impersonation"},
	{Text: "your computer is infected with a virus, call technical support for remote access", Category: "tech_support_scam"},
	{Text: "invoice overdue, wire the payment today to avoid legal action", Category: "payment_fraud"},
	{Text: "i need you to buy gift cards and send me the codes, it's urgent", Category: "gift_card_scam"},
	{Text: "work from home and make money fast, no experience needed, guaranteed income", Category: "job_scam"},
	{Text: "a document is ready for your signature, log in with your email password to view it", Category: "credential_harvest"},
	{Text: "your subscription has expired, update your billing information to avoid service interruption", Category: "subscription_scam"},

	{Text: "your order has shipped and is scheduled to be delivered on tuesday, here is your tracking number", Category: "benign"},
	{Text: "thanks for your payment, here is your receipt for this month's subscription", Category: "benign"},
	{Text: "reminder: team meeting tomorrow at 10am, see the attached agenda", Category: "benign"},
	{Text: "you requested a password reset, if this was you follow the link, otherwise ignore this email", Category: "benign"},
	{Text: "your statement is ready, view it any time in your account settings", Category: "benign"},
	{Text: "alice commented on your photo, open the app to reply", Category: "benign"},
}
