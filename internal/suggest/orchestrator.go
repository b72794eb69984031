package suggest

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/namescout/internal/extract"
	"github.com/namescout/internal/generator"
	"github.com/namescout/internal/registrar"
	"github.com/sirupsen/logrus"
)

// Orchestrator defaults.
const (
	DefaultTargetCount     = 5
	DefaultMaxRounds       = 5
	DefaultMaxSuggestions  = 10
	DefaultBatchSize       = 10
	DefaultExtension       = ".com"
	DefaultExtensionBias   = 0.6
	DefaultInterRoundDelay = time.Second
)

// Prober resolves availability for a batch of fully qualified domains.
type Prober interface {
	Probe(ctx context.Context, domains []string) ([]registrar.Availability, error)
}

// Options tunes the orchestrator's retry loop.
type Options struct {
	TargetCount      int
	MaxRounds        int
	MaxSuggestions   int
	BatchSize        int
	DefaultExtension string
	ExtensionBias    float64
	InterRoundDelay  time.Duration
	AcceptPremium    bool // whether premium results count toward the target
	Salvage          bool // enable the extractor's last-resort recovery pass
	Seed             int64
}

func (o Options) withDefaults() Options {
	if o.TargetCount <= 0 {
		o.TargetCount = DefaultTargetCount
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = DefaultMaxSuggestions
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.DefaultExtension == "" {
		o.DefaultExtension = DefaultExtension
	}
	if o.ExtensionBias <= 0 {
		o.ExtensionBias = DefaultExtensionBias
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// Orchestrator runs the generate, extract, qualify, probe retry loop
// until enough available domains are accepted or the round budget runs out.
type Orchestrator struct {
	generator generator.Generator
	prober    Prober
	opts      Options
	rng       *rand.Rand
}

// NewOrchestrator creates an orchestrator with the given collaborators.
func NewOrchestrator(gen generator.Generator, prober Prober, opts Options) *Orchestrator {
	opts = opts.withDefaults()
	return &Orchestrator{
		generator: gen,
		prober:    prober,
		opts:      opts,
		rng:       rand.New(rand.NewSource(opts.Seed)),
	}
}

// Run executes the search for a query. It always returns a result unless a
// fatal configuration-class error surfaces: generation auth failures and
// registrar configuration errors abort; everything else degrades to fewer or
// zero suggestions. An exhausted round budget is a normal terminal state.
func (o *Orchestrator) Run(ctx context.Context, query string) (*Result, error) {
	state := newSearchState()

	for state.round < o.opts.MaxRounds && len(state.accepted) < o.opts.TargetCount {
		if state.round > 0 {
			if err := o.pause(ctx); err != nil {
				return nil, err
			}
		}

		if err := o.runRound(ctx, query, state); err != nil {
			return nil, err
		}

		state.round++
	}

	suggestions := state.accepted
	if len(suggestions) > o.opts.MaxSuggestions {
		suggestions = suggestions[:o.opts.MaxSuggestions]
	}
	if suggestions == nil {
		suggestions = []Suggestion{}
	}

	logrus.Infof("Search for %q finished: %d suggestions in %d rounds", query, len(suggestions), state.round)

	return &Result{
		Query:       query,
		Suggestions: suggestions,
		RoundsUsed:  state.round,
	}, nil
}

// runRound performs one generate/probe cycle, mutating the search state. A
// round that cannot produce candidates contributes zero and the loop moves
// on.
func (o *Orchestrator) runRound(ctx context.Context, query string, state *searchState) error {
	policy := policyForRound(state.round, o.opts.DefaultExtension, o.opts.ExtensionBias)

	raw, err := o.generator.Generate(ctx, generator.Request{
		Query:            query,
		Excluded:         state.excluded(),
		Extensions:       append(append([]string{}, policy.preferred...), policy.defaultExtension),
		DefaultExtension: policy.defaultExtension,
		ExtensionBias:    policy.bias,
		Creative:         policy.creative,
		BatchSize:        o.opts.BatchSize,
	})
	if err != nil {
		if errors.Is(err, generator.ErrAuth) || ctx.Err() != nil {
			return err
		}
		logrus.Warnf("Round %d generation failed, contributing zero candidates: %v", state.round, err)
		return nil
	}

	candidates, err := extract.Extract(raw, extract.Options{Salvage: o.opts.Salvage})
	if err != nil {
		logrus.Warnf("Round %d extraction failed, contributing zero candidates: %v", state.round, err)
		return nil
	}

	qualified := qualify(candidates, policy, o.rng)
	if len(qualified) > registrar.MaxBatchSize {
		qualified = qualified[:registrar.MaxBatchSize]
	}

	domains := make([]string, 0, len(qualified))
	byDomain := make(map[string]qualifiedCandidate, len(qualified))
	for _, q := range qualified {
		state.markSeen(q.Name)
		if _, dup := byDomain[q.Domain]; dup {
			continue
		}
		byDomain[q.Domain] = q
		domains = append(domains, q.Domain)
	}

	if len(domains) == 0 {
		logrus.Warnf("Round %d produced no usable domains", state.round)
		return nil
	}

	results, err := o.prober.Probe(ctx, domains)
	if err != nil {
		// Only configuration-class failures escape the prober.
		return err
	}

	added := 0
	for _, result := range results {
		if !result.Available {
			continue
		}
		if result.Premium && !o.opts.AcceptPremium {
			continue
		}
		q := byDomain[result.Domain]
		if state.accept(toSuggestion(q, result)) {
			added++
		}
	}

	logrus.Debugf("Round %d: %d candidates, %d probed, %d newly accepted", state.round, len(candidates), len(domains), added)
	return nil
}

// pause waits out the inter-round delay, aborting early on cancellation.
func (o *Orchestrator) pause(ctx context.Context) error {
	if o.opts.InterRoundDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(o.opts.InterRoundDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
