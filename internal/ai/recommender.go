package ai

import (
	"context"
	"errors"
)

// ErrServiceUnavailable marks failures of the generative service itself, as
// opposed to failures processing the uploaded document.
var ErrServiceUnavailable = errors.New("recommendation service is unavailable")

// Profile is what the recommender knows about a candidate.
type Profile struct {
	Seniority string
	Skills    []string
	// Years is nil when no experience could be inferred.
	Years *float64
}

// Recommendation is the best-effort structured reply of the service. Parsed
// holds the decoded JSON object, or {"raw": Raw} when the reply was not JSON.
type Recommendation struct {
	Prompt string
	Raw    string
	Parsed map[string]any
}

// Recommender requests learning recommendations for a profile.
type Recommender interface {
	Recommend(ctx context.Context, profile Profile) (*Recommendation, error)
}
