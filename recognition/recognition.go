// Package recognition talks to the external plant-recognition backend and
// provides a deterministic mock substitute for unconfigured environments.
package recognition

import (
	"context"
	"errors"
)

// ErrUpstreamUnavailable signals a transport failure or non-2xx response from
// the recognition backend. Callers treat recognition as best-effort and
// substitute mock data instead of failing the pipeline.
var ErrUpstreamUnavailable = errors.New("recognition backend unavailable")

// Suggestion is one ranked species candidate.
type Suggestion struct {
	ScientificName string
	CommonName     string
	Confidence     float64
	Details        map[string]interface{}
}

// Result is the outcome of one recognition call. Suggestions arrive ranked by
// descending confidence; an empty list is a valid "no match" outcome.
type Result struct {
	RequestID   string
	Source      string
	Suggestions []Suggestion
}

// Provider identifies the species in an image supplied as a data URI.
type Provider interface {
	Identify(ctx context.Context, imageDataURI string) (*Result, error)
}
