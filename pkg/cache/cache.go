// Package cache provides an optional Redis-backed cache for assessments.
// Detection is deterministic for identical input, so identical (scan type,
// text) pairs can be served from cache safely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shieldstack/phishguard/pkg/detector"
)

// AssessmentCache caches assessments keyed by a hash of the input.
type AssessmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using a URL ("redis://host:port/db"). Returns an
// error when the URL does not parse or the server does not answer a ping.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*AssessmentCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AssessmentCache{client: client, ttl: ttl}, nil
}

// NewWithFallback connects to Redis, returning nil (cache disabled) instead
// of an error when the connection fails.
func NewWithFallback(ctx context.Context, redisURL string, ttl time.Duration) *AssessmentCache {
	if redisURL == "" {
		return nil
	}
	c, err := New(ctx, redisURL, ttl)
	if err != nil {
		log.Printf("[WARN] Assessment cache unavailable (continuing without): %v", err)
		return nil
	}
	log.Printf("[STARTUP] Assessment cache connected (ttl=%s)", ttl)
	return c
}

// Key derives the cache key for one input. SHA-256 keeps message content out
// of Redis keyspace listings.
func Key(scanType detector.ScanType, text string) string {
	sum := sha256.Sum256([]byte(string(scanType) + "\x00" + text))
	return "phishguard:assessment:" + hex.EncodeToString(sum[:])
}

// Get returns a cached assessment, or ok=false on miss or error.
// A nil receiver is a permanent miss, so callers need no nil checks.
func (c *AssessmentCache) Get(ctx context.Context, scanType detector.ScanType, text string) (detector.Assessment, bool) {
	var a detector.Assessment
	if c == nil {
		return a, false
	}

	data, err := c.client.Get(ctx, Key(scanType, text)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] Cache read failed: %v", err)
		}
		return a, false
	}
	if err := json.Unmarshal(data, &a); err != nil {
		log.Printf("[WARN] Cache entry corrupt, ignoring: %v", err)
		return a, false
	}
	return a, true
}

// Put stores an assessment. Failures are logged and ignored; the cache is
// best-effort.
func (c *AssessmentCache) Put(ctx context.Context, scanType detector.ScanType, text string, a detector.Assessment) {
	if c == nil {
		return
	}

	data, err := json.Marshal(a)
	if err != nil {
		log.Printf("[WARN] Cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, Key(scanType, text), data, c.ttl).Err(); err != nil {
		log.Printf("[WARN] Cache write failed: %v", err)
	}
}

// Close releases the Redis connection.
func (c *AssessmentCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
