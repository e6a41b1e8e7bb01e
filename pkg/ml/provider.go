// Package ml provides the optional classifier signals that feed the
// detection ensemble: a local ONNX transformer fine-tuned on phishing
// corpora, and an embedding-similarity classifier backed by a vector store.
//
// Both are injected into the detector as ScoreProviders. A provider that
// fails to initialize or errors at inference time is simply treated as
// unavailable; the ensemble reweights around it.
package ml

import "context"

// ScoreProvider produces a phishing probability for a piece of text.
// Score returns a value in [0,1] where 1 means certainly phishing.
// An error means the provider could not answer; the caller must treat the
// signal as unavailable, not as a neutral score.
type ScoreProvider interface {
	Name() string
	Score(ctx context.Context, text string) (float64, error)
}
