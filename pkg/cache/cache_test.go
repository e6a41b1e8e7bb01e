package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/shieldstack/phishguard/pkg/detector"
)

func TestKey(t *testing.T) {
	k1 := Key(detector.ScanTypeEmail, "verify your account")
	k2 := Key(detector.ScanTypeEmail, "verify your account")
	if k1 != k2 {
		t.Error("identical input must produce identical keys")
	}

	if k1 == Key(detector.ScanTypeSMS, "verify your account") {
		t.Error("scan type must be part of the key")
	}
	if k1 == Key(detector.ScanTypeEmail, "verify your password") {
		t.Error("text must be part of the key")
	}

	if !strings.HasPrefix(k1, "phishguard:assessment:") {
		t.Errorf("key %q missing namespace prefix", k1)
	}
	// Keys must not leak message content.
	if strings.Contains(k1, "verify") {
		t.Errorf("key %q contains raw message text", k1)
	}
}

func TestKeySeparatorNotAmbiguous(t *testing.T) {
	// "sms" + "x" and "sm" + "sx" must not collide.
	a := Key(detector.ScanType("sms"), "x")
	b := Key(detector.ScanType("sm"), "sx")
	if a == b {
		t.Error("key derivation must separate scan type and text")
	}
}

func TestNilCacheIsPermanentMiss(t *testing.T) {
	var c *AssessmentCache
	ctx := context.Background()

	if _, ok := c.Get(ctx, detector.ScanTypeEmail, "text"); ok {
		t.Error("nil cache returned a hit")
	}
	c.Put(ctx, detector.ScanTypeEmail, "text", detector.Assessment{})
	if err := c.Close(); err != nil {
		t.Errorf("nil cache Close: %v", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New(context.Background(), "not-a-url", 0); err == nil {
		t.Error("expected error for malformed redis url")
	}
}

func TestNewWithFallbackEmptyURL(t *testing.T) {
	if c := NewWithFallback(context.Background(), "", 0); c != nil {
		t.Error("empty URL must disable the cache")
	}
}
