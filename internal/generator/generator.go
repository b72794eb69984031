package generator

import (
	"context"
	"errors"
)

// ErrAuth indicates the generation backend rejected our credentials.
// Retrying will not help, so the whole search aborts on it.
var ErrAuth = errors.New("generator authentication failed")

// Request describes one round of candidate generation.
type Request struct {
	Query            string
	Excluded         []string // bare names already seen in prior rounds
	Extensions       []string // permitted extensions for this round
	DefaultExtension string
	ExtensionBias    float64 // share of candidates that should use the default extension
	Creative         bool    // push the model toward more inventive names
	BatchSize        int     // how many candidates to ask for
}

// Generator proposes candidate domain names for a query. Implementations
// return the model's raw text; parsing is the extractor's job.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
