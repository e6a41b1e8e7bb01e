package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds global settings for the PhishGuard service.
// All settings can be configured via environment variables or programmatically.
type Config struct {
	// === Core Settings ===
	ListenPort      string // HTTP listen port (default: "8080")
	CalibrationPath string // Optional YAML calibration override for the ensemble

	// === Detection Settings ===
	DefaultScanType  string // Scan type used when a request omits one (default: "auto")
	BatchConcurrency int    // Parallel items per batch request (default: 8)
	MaxBatchItems    int    // Maximum items per batch request (default: 100)

	// === Classifier Configuration ===
	EnableTransformer bool   // Enable the local ONNX transformer classifier
	EnableSemantics   bool   // Enable embedding similarity classification (requires Ollama)
	OllamaURL         string // Ollama-compatible endpoint for embeddings

	// === Cache Configuration ===
	RedisURL     string        // Redis connection URL; empty disables the assessment cache
	CacheTTL     time.Duration // TTL for cached assessments (default: 1 hour)
	CacheEnabled bool          // Master switch for the assessment cache

	// === Feedback Store Configuration ===
	PostgresDSN string // pgx connection string; empty disables feedback persistence
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		ListenPort:      GetEnv("PHISHGUARD_PORT", "8080"),
		CalibrationPath: GetEnv("PHISHGUARD_CALIBRATION", ""),

		DefaultScanType:  GetEnv("PHISHGUARD_DEFAULT_SCAN_TYPE", "auto"),
		BatchConcurrency: clampInt(GetEnvInt("PHISHGUARD_BATCH_CONCURRENCY", 8), 1, 64),
		MaxBatchItems:    clampInt(GetEnvInt("PHISHGUARD_MAX_BATCH_ITEMS", 100), 1, 1000),

		EnableTransformer: GetEnvBool("PHISHGUARD_ENABLE_TRANSFORMER", true),
		EnableSemantics:   GetEnvBool("PHISHGUARD_ENABLE_SEMANTICS", true),
		OllamaURL:         GetEnv("PHISHGUARD_OLLAMA_URL", ""),

		RedisURL:     GetEnv("PHISHGUARD_REDIS_URL", ""),
		CacheTTL:     time.Duration(GetEnvInt("PHISHGUARD_CACHE_TTL_SECONDS", 3600)) * time.Second,
		CacheEnabled: GetEnvBool("PHISHGUARD_ENABLE_CACHE", true),

		PostgresDSN: GetEnv("PHISHGUARD_POSTGRES_DSN", ""),
	}
}

// NewHighSecurityConfig creates a Config for maximum catch rate (may have
// more false positives). Pair it with a lowered calibration threshold file.
func NewHighSecurityConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.EnableTransformer = true
	cfg.EnableSemantics = true
	cfg.BatchConcurrency = clampInt(cfg.BatchConcurrency, 1, 16)
	return cfg
}

// NewHighThroughputConfig creates a Config that favors latency over signal
// breadth: rule and URL layers only, wide batch fan-out.
func NewHighThroughputConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.EnableTransformer = false
	cfg.EnableSemantics = false
	cfg.BatchConcurrency = clampInt(GetEnvInt("PHISHGUARD_BATCH_CONCURRENCY", 32), 1, 64)
	return cfg
}

// clampInt ensures a value is within bounds
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Helper functions for environment variable parsing
// These are exported for use by other packages (e.g., pkg/ml)

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvSlice returns a comma-separated list from an environment variable or a default value.
func GetEnvSlice(key string, defaultValue []string) []string {
	if v := os.Getenv(key); v != "" {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	var problems []string

	if _, err := strconv.Atoi(c.ListenPort); err != nil {
		problems = append(problems, fmt.Sprintf("PHISHGUARD_PORT %q is not a number", c.ListenPort))
	}

	switch c.DefaultScanType {
	case "auto", "email", "sms", "url":
	default:
		problems = append(problems, fmt.Sprintf("PHISHGUARD_DEFAULT_SCAN_TYPE %q must be one of auto, email, sms, url", c.DefaultScanType))
	}

	if c.EnableSemantics && c.OllamaURL == "" {
		log.Printf("[STARTUP] Warning: semantics enabled but PHISHGUARD_OLLAMA_URL is unset - semantic signal will be unavailable")
	}

	if c.CalibrationPath != "" {
		if _, err := os.Stat(c.CalibrationPath); err != nil {
			problems = append(problems, fmt.Sprintf("PHISHGUARD_CALIBRATION %q: %v", c.CalibrationPath, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before starting the server.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}
