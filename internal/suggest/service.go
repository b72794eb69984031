package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/namescout/internal/analytics"
	"github.com/namescout/internal/cache"
	"github.com/namescout/internal/metrics"
	"github.com/namescout/internal/ratelimit"
	"github.com/namescout/internal/registrar"
	"github.com/sirupsen/logrus"
)

// RateLimitError is returned when a client key has exhausted its window.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// searcher runs one full suggestion search.
type searcher interface {
	Run(ctx context.Context, query string) (*Result, error)
}

// gate decides whether a client key may start a search.
type gate interface {
	Allow(key string) ratelimit.Decision
}

// Service is the caller-facing surface: throttled, response-cached
// suggestion searches plus direct availability checks.
type Service struct {
	orchestrator searcher
	prober       Prober
	responses    *cache.TTL[Result]
	gate         gate
	sink         *analytics.Sink
	metrics      *metrics.Metrics
}

// NewService wires the service. The gate, sink, and metrics may be nil.
func NewService(orchestrator searcher, prober Prober, responses *cache.TTL[Result], g gate, sink *analytics.Sink, m *metrics.Metrics) *Service {
	return &Service{
		orchestrator: orchestrator,
		prober:       prober,
		responses:    responses,
		gate:         g,
		sink:         sink,
		metrics:      m,
	}
}

// Suggest runs a suggestion search for the query on behalf of clientKey.
// Whole responses are cached briefly by raw query, so a repeated search
// costs nothing upstream. The caller always receives a result unless the
// throttle denies the request or a fatal configuration error surfaces.
func (s *Service) Suggest(ctx context.Context, clientKey, query string) (*Result, error) {
	if s.gate != nil {
		decision := s.gate.Allow(clientKey)
		if !decision.Allowed {
			s.metrics.SearchThrottled()
			logrus.Warnf("Client %s throttled until %s", clientKey, decision.ResetAt.Format(time.RFC3339))
			return nil, &RateLimitError{ResetAt: decision.ResetAt}
		}
	}

	if cached, ok := s.responses.Get(query); ok {
		s.metrics.ResponseCacheHit()
		logrus.Debugf("Serving cached response for query %q", query)
		return &cached, nil
	}

	searchID := uuid.New()
	start := time.Now()

	result, err := s.orchestrator.Run(ctx, query)
	if err != nil {
		return nil, err
	}

	s.responses.Set(query, *result)
	s.metrics.SearchCompleted(result.RoundsUsed, len(result.Suggestions))

	accepted := make(pq.StringArray, 0, len(result.Suggestions))
	for _, sg := range result.Suggestions {
		accepted = append(accepted, sg.Domain)
	}
	s.sink.Record(analytics.SearchEvent{
		ID:               searchID,
		Query:            query,
		ClientKey:        clientKey,
		RoundsUsed:       result.RoundsUsed,
		SuggestionsCount: len(result.Suggestions),
		AcceptedDomains:  accepted,
		DurationMS:       time.Since(start).Milliseconds(),
	})

	return result, nil
}

// Check resolves availability for explicitly requested domains through the
// same cache, prescreen, and breaker path the orchestrator uses.
func (s *Service) Check(ctx context.Context, domains []string) ([]registrar.Availability, error) {
	cleaned := make([]string, 0, len(domains))
	for _, domain := range domains {
		if d := sanitizeName(domain); d != "" {
			cleaned = append(cleaned, d)
		}
	}
	return s.prober.Probe(ctx, cleaned)
}
