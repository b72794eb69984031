package analytics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sink records search events without ever failing or delaying the caller.
// A nil Sink, or one constructed without a repository, is a no-op.
type Sink struct {
	repo    *Repository
	timeout time.Duration
}

// NewSink creates a sink over the repository. Pass nil to disable recording.
func NewSink(repo *Repository) *Sink {
	return &Sink{
		repo:    repo,
		timeout: 5 * time.Second,
	}
}

// Record persists the event asynchronously. Failures are logged and ignored.
func (s *Sink) Record(event SearchEvent) {
	if s == nil || s.repo == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.repo.CreateSearchEvent(ctx, &event); err != nil {
			logrus.Warnf("Failed to record search event for %q: %v", event.Query, err)
		}
	}()
}
