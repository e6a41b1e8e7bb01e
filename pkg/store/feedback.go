// Package store persists assessments and user feedback to Postgres.
// Feedback records are the raw material for periodic recalibration of the
// ensemble constants; the store itself is optional and the service runs
// fully without it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shieldstack/phishguard/pkg/detector"
)

// Verdict is the user's judgment of an assessment.
type Verdict string

const (
	VerdictConfirmed     Verdict = "confirmed"      // assessment was right
	VerdictFalsePositive Verdict = "false_positive" // flagged but legitimate
	VerdictFalseNegative Verdict = "false_negative" // missed a real phish
)

// ValidVerdict reports whether v is one of the accepted verdict values.
func ValidVerdict(v Verdict) bool {
	switch v {
	case VerdictConfirmed, VerdictFalsePositive, VerdictFalseNegative:
		return true
	}
	return false
}

// Feedback is one user-submitted correction or confirmation.
type Feedback struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	ScanType     string    `json:"scan_type"`
	Verdict      Verdict   `json:"verdict"`
	WasPhishing  bool      `json:"was_phishing"`
	Confidence   float64   `json:"confidence"`
	ThreatLevel  string    `json:"threat_level"`
	Comment      string    `json:"comment,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
	AssessmentID uuid.UUID `json:"assessment_id,omitempty"`
}

// FeedbackStore wraps a pgx pool with the feedback schema.
type FeedbackStore struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the schema exists.
func New(ctx context.Context, dsn string) (*FeedbackStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &FeedbackStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithFallback connects to Postgres, returning nil (persistence disabled)
// instead of an error when the connection fails.
func NewWithFallback(ctx context.Context, dsn string) *FeedbackStore {
	if dsn == "" {
		return nil
	}
	s, err := New(ctx, dsn)
	if err != nil {
		log.Printf("[WARN] Feedback store unavailable (continuing without): %v", err)
		return nil
	}
	log.Printf("[STARTUP] Feedback store connected")
	return s
}

func (s *FeedbackStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id UUID PRIMARY KEY,
	scan_type TEXT NOT NULL,
	is_phishing BOOLEAN NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	threat_level TEXT NOT NULL,
	phishing_type TEXT NOT NULL,
	indicators JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS feedback (
	id UUID PRIMARY KEY,
	assessment_id UUID REFERENCES assessments(id),
	text_sample TEXT NOT NULL,
	scan_type TEXT NOT NULL,
	verdict TEXT NOT NULL,
	was_phishing BOOLEAN NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	threat_level TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS feedback_verdict_idx ON feedback (verdict);
`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// RecordAssessment persists an assessment for audit and returns its ID.
func (s *FeedbackStore) RecordAssessment(ctx context.Context, a detector.Assessment) (uuid.UUID, error) {
	if s == nil {
		return uuid.Nil, nil
	}

	id := uuid.New()
	indicators, err := json.Marshal(a.Indicators)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode indicators: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO assessments (id, scan_type, is_phishing, confidence, threat_level, phishing_type, indicators)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, string(a.Signals.ScanType), a.IsPhishing, a.Confidence,
		string(a.ThreatLevel), string(a.PhishingType), indicators,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert assessment: %w", err)
	}
	return id, nil
}

// RecordFeedback persists one feedback record and returns its ID.
func (s *FeedbackStore) RecordFeedback(ctx context.Context, f Feedback) (uuid.UUID, error) {
	if s == nil {
		return uuid.Nil, fmt.Errorf("feedback store disabled")
	}

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now().UTC()
	}

	var assessmentID any
	if f.AssessmentID != uuid.Nil {
		assessmentID = f.AssessmentID
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO feedback (id, assessment_id, text_sample, scan_type, verdict, was_phishing, confidence, threat_level, comment, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		f.ID, assessmentID, f.Text, f.ScanType, string(f.Verdict),
		f.WasPhishing, f.Confidence, f.ThreatLevel, f.Comment, f.SubmittedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert feedback: %w", err)
	}
	return f.ID, nil
}

// RecentFeedback returns the newest feedback records, up to limit.
func (s *FeedbackStore) RecentFeedback(ctx context.Context, limit int) ([]Feedback, error) {
	if s == nil {
		return nil, fmt.Errorf("feedback store disabled")
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, COALESCE(assessment_id, '00000000-0000-0000-0000-000000000000'::uuid),
		       text_sample, scan_type, verdict, was_phishing, confidence, threat_level, comment, submitted_at
		FROM feedback ORDER BY submitted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		var verdict string
		if err := rows.Scan(&f.ID, &f.AssessmentID, &f.Text, &f.ScanType, &verdict,
			&f.WasPhishing, &f.Confidence, &f.ThreatLevel, &f.Comment, &f.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		f.Verdict = Verdict(verdict)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (s *FeedbackStore) Close() {
	if s != nil {
		s.pool.Close()
	}
}
