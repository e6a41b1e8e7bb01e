package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/shieldstack/phishguard/pkg/cache"
	"github.com/shieldstack/phishguard/pkg/config"
	"github.com/shieldstack/phishguard/pkg/detector"
	"github.com/shieldstack/phishguard/pkg/ml"
	"github.com/shieldstack/phishguard/pkg/store"
)

const Version = "1.0.0"

// Service bundles the engine with its optional infrastructure.
// Every component except the engine degrades to nil when unavailable.
type Service struct {
	engine   *detector.Engine
	cache    *cache.AssessmentCache
	feedback *store.FeedbackStore
	cfg      *config.Config
}

// NewService wires the engine from configuration. Classifier, cache, and
// store failures are logged and skipped, never fatal.
func NewService(ctx context.Context, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	cal := detector.DefaultCalibration()
	if cfg.CalibrationPath != "" {
		loaded, err := detector.LoadCalibration(cfg.CalibrationPath)
		if err != nil {
			log.Printf("[WARN] Calibration override failed, using defaults: %v", err)
		} else {
			cal = loaded
			log.Printf("[STARTUP] Calibration loaded from %s", cfg.CalibrationPath)
		}
	}

	opts := []detector.Option{
		detector.WithCalibration(cal),
		detector.WithBatchConcurrency(cfg.BatchConcurrency),
	}

	if cfg.EnableTransformer {
		if t := ml.NewAutoDetectedTransformer(); t != nil && t.IsReady() {
			opts = append(opts, detector.WithTransformerProvider(t))
			log.Println("✓ Transformer classification enabled (hugot/ONNX)")
		} else {
			log.Println("○ Transformer classification disabled (no ONNX model found)")
		}
	} else {
		log.Println("○ Transformer classification disabled (by config)")
	}

	if cfg.EnableSemantics {
		if sc := ml.NewAutoDetectedSemanticClassifier(ctx, cfg.OllamaURL); sc != nil {
			opts = append(opts, detector.WithMLProvider(sc))
			log.Println("✓ Semantic classification enabled (chromem-go + Ollama embeddings)")
		} else {
			log.Println("○ Semantic classification disabled (no embedding source)")
		}
	} else {
		log.Println("○ Semantic classification disabled (by config)")
	}

	svc := &Service{
		engine: detector.New(opts...),
		cfg:    cfg,
	}

	if cfg.CacheEnabled {
		svc.cache = cache.NewWithFallback(ctx, cfg.RedisURL, cfg.CacheTTL)
	}
	svc.feedback = store.NewWithFallback(ctx, cfg.PostgresDSN)

	return svc
}

// Detect serves one detection with read-through caching.
func (s *Service) Detect(ctx context.Context, text string, scanType detector.ScanType) detector.Assessment {
	if a, ok := s.cache.Get(ctx, scanType, text); ok {
		return a
	}
	a := s.engine.Detect(ctx, text, scanType)
	s.cache.Put(ctx, scanType, text, a)
	return a
}

func (s *Service) Close() {
	if err := s.cache.Close(); err != nil {
		log.Printf("[WARN] Cache close: %v", err)
	}
	s.feedback.Close()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cfg := config.NewDefaultConfig()
		if len(os.Args) > 2 {
			cfg.ListenPort = os.Args[2]
		}
		cfg.MustValidate()
		runHTTPServer(cfg)
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: phishguard scan <text>")
			os.Exit(1)
		}
		runCLIScan(strings.Join(os.Args[2:], " "))
	case "version":
		fmt.Printf("PhishGuard v%s\n", Version)
		fmt.Println("Multi-signal phishing and scam detection engine")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("PhishGuard v%s - phishing and scam detection\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  phishguard serve [port]   Start HTTP server (default: 8080)")
	fmt.Println("  phishguard scan <text>    Scan text or a URL from the command line")
	fmt.Println("  phishguard version        Show version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  phishguard serve 8080")
	fmt.Println("  phishguard scan \"URGENT: verify your PayPal account at http://paypal-secure.tk\"")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  PHISHGUARD_PORT           HTTP listen port")
	fmt.Println("  PHISHGUARD_CALIBRATION    YAML calibration override file")
	fmt.Println("  PHISHGUARD_MODEL_PATH     Path to ONNX model directory")
	fmt.Println("  PHISHGUARD_OLLAMA_URL     Ollama endpoint for semantic embeddings")
	fmt.Println("  PHISHGUARD_REDIS_URL      Redis URL for the assessment cache")
	fmt.Println("  PHISHGUARD_POSTGRES_DSN   Postgres DSN for feedback persistence")
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

type detectRequest struct {
	Text     string `json:"text"`
	ScanType string `json:"scan_type"`
}

type batchRequest struct {
	Items    []string `json:"items"`
	ScanType string   `json:"scan_type"`
}

type feedbackRequest struct {
	Text        string  `json:"text"`
	ScanType    string  `json:"scan_type"`
	Verdict     string  `json:"verdict"`
	WasPhishing bool    `json:"was_phishing"`
	Confidence  float64 `json:"confidence"`
	ThreatLevel string  `json:"threat_level"`
	Comment     string  `json:"comment"`
}

func parseScanType(raw, fallback string) (detector.ScanType, bool) {
	if raw == "" {
		raw = fallback
	}
	switch detector.ScanType(raw) {
	case detector.ScanTypeAuto, detector.ScanTypeEmail, detector.ScanTypeSMS, detector.ScanTypeURL:
		return detector.ScanType(raw), true
	default:
		return detector.ScanTypeAuto, false
	}
}

func runHTTPServer(cfg *config.Config) {
	ctx := context.Background()
	svc := NewService(ctx, cfg)
	defer svc.Close()

	app := fiber.New(fiber.Config{
		AppName: "PhishGuard",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": Version,
			"cache":   svc.cache != nil,
			"store":   svc.feedback != nil,
		})
	})

	app.Post("/detect", func(c fiber.Ctx) error {
		var req detectRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.Text == "" {
			return c.Status(400).JSON(fiber.Map{"error": "text field is required"})
		}
		scanType, ok := parseScanType(req.ScanType, cfg.DefaultScanType)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "scan_type must be one of: auto, email, sms, url"})
		}

		result := svc.Detect(c.Context(), req.Text, scanType)

		if svc.feedback != nil {
			if _, err := svc.feedback.RecordAssessment(c.Context(), result); err != nil {
				log.Printf("[WARN] Assessment audit write failed: %v", err)
			}
		}
		return c.JSON(result)
	})

	app.Post("/batch", func(c fiber.Ctx) error {
		var req batchRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if len(req.Items) == 0 {
			return c.Status(400).JSON(fiber.Map{"error": "items field is required"})
		}
		if len(req.Items) > cfg.MaxBatchItems {
			return c.Status(400).JSON(fiber.Map{
				"error": fmt.Sprintf("too many items: %d (max %d)", len(req.Items), cfg.MaxBatchItems),
			})
		}
		scanType, ok := parseScanType(req.ScanType, cfg.DefaultScanType)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "scan_type must be one of: auto, email, sms, url"})
		}

		results := svc.engine.BatchDetect(c.Context(), req.Items, scanType)

		threats := 0
		for _, r := range results {
			if r.IsPhishing {
				threats++
			}
		}
		return c.JSON(fiber.Map{
			"results":       results,
			"total":         len(results),
			"threats_found": threats,
		})
	})

	app.Post("/scan-url", func(c fiber.Ctx) error {
		var req struct {
			URL string `json:"url"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.URL == "" {
			return c.Status(400).JSON(fiber.Map{"error": "url field is required"})
		}
		result := svc.Detect(c.Context(), req.URL, detector.ScanTypeURL)
		return c.JSON(result)
	})

	app.Post("/feedback", func(c fiber.Ctx) error {
		if svc.feedback == nil {
			return c.Status(503).JSON(fiber.Map{"error": "feedback store not configured"})
		}

		var req feedbackRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.Text == "" || req.Verdict == "" {
			return c.Status(400).JSON(fiber.Map{"error": "text and verdict fields are required"})
		}
		if !store.ValidVerdict(store.Verdict(req.Verdict)) {
			return c.Status(400).JSON(fiber.Map{"error": "verdict must be one of: confirmed, false_positive, false_negative"})
		}

		id, err := svc.feedback.RecordFeedback(c.Context(), store.Feedback{
			Text:        req.Text,
			ScanType:    req.ScanType,
			Verdict:     store.Verdict(req.Verdict),
			WasPhishing: req.WasPhishing,
			Confidence:  req.Confidence,
			ThreatLevel: req.ThreatLevel,
			Comment:     req.Comment,
			SubmittedAt: time.Now().UTC(),
		})
		if err != nil {
			log.Printf("[WARN] Feedback write failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to record feedback"})
		}
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Get("/feedback", func(c fiber.Ctx) error {
		if svc.feedback == nil {
			return c.Status(503).JSON(fiber.Map{"error": "feedback store not configured"})
		}

		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return c.Status(400).JSON(fiber.Map{"error": "limit must be a positive integer"})
			}
			limit = n
		}

		records, err := svc.feedback.RecentFeedback(c.Context(), limit)
		if err != nil {
			log.Printf("[WARN] Feedback read failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to read feedback"})
		}
		return c.JSON(fiber.Map{
			"feedback": records,
			"count":    len(records),
		})
	})

	log.Printf("PhishGuard HTTP server starting on :%s", cfg.ListenPort)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health     - Health check")
	log.Printf("  POST /detect     - Analyze one email/SMS/URL")
	log.Printf("  POST /batch      - Analyze up to %d items", cfg.MaxBatchItems)
	log.Printf("  POST /scan-url   - Analyze a single URL")
	log.Printf("  POST /feedback   - Submit a verdict correction")
	log.Printf("  GET  /feedback   - List recent verdict corrections")

	if err := app.Listen(":" + cfg.ListenPort); err != nil {
		log.Fatal(err)
	}
}

// ============================================================================
// CLI Scan Mode
// ============================================================================

func runCLIScan(text string) {
	cfg := config.NewDefaultConfig()
	// CLI scans skip cache and store; one-shot usage.
	cfg.CacheEnabled = false
	cfg.PostgresDSN = ""

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	svc := NewService(ctx, cfg)
	result := svc.engine.Detect(ctx, text, detector.ScanTypeAuto)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))

	if result.IsPhishing {
		os.Exit(2)
	}
}
