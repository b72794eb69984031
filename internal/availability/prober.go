package availability

import (
	"context"
	"fmt"

	"github.com/namescout/internal/cache"
	"github.com/namescout/internal/metrics"
	"github.com/namescout/internal/registrar"
	"github.com/sirupsen/logrus"
)

// RegistrarClient is the slice of the registrar API the prober needs.
type RegistrarClient interface {
	CheckAvailability(ctx context.Context, domains []string) ([]registrar.Availability, error)
	HasCredentials() bool
}

// Prescreener reports which of the given domains already serve live web
// content. A domain with a live site is registered, so it can be ruled out
// without spending a registrar call.
type Prescreener interface {
	LiveDomains(ctx context.Context, domains []string) (map[string]bool, error)
}

// Prober resolves domain availability through a TTL cache, a web-presence
// prescreen, and a bulk registrar call guarded by the circuit breaker.
type Prober struct {
	client    RegistrarClient
	breaker   *Breaker
	cache     *cache.TTL[registrar.Availability]
	prescreen Prescreener // nil disables the prescreen
	metrics   *metrics.Metrics
}

// NewProber creates a prober. The prescreener is optional; pass nil to probe
// through the registrar only.
func NewProber(client RegistrarClient, breaker *Breaker, resultCache *cache.TTL[registrar.Availability], prescreen Prescreener) *Prober {
	return &Prober{
		client:    client,
		breaker:   breaker,
		cache:     resultCache,
		prescreen: prescreen,
	}
}

// SetMetrics attaches an instrumentation sink. Optional; the prober is fully
// functional without one.
func (p *Prober) SetMetrics(m *metrics.Metrics) {
	p.metrics = m
}

// Probe resolves availability for up to registrar.MaxBatchSize domains.
// Every requested domain is represented exactly once in the output. Cache
// hits never trigger a live call; when the breaker is open or credentials
// are absent, unknown domains degrade to unavailable without caching, since
// absence of real data must not be cached as fact. A configuration-class
// registrar error is propagated to the caller unmasked.
func (p *Prober) Probe(ctx context.Context, domains []string) ([]registrar.Availability, error) {
	unique := dedupe(domains)
	if len(unique) > registrar.MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d domains, max is %d", registrar.ErrBatchTooLarge, len(unique), registrar.MaxBatchSize)
	}

	results := make([]registrar.Availability, 0, len(unique))
	var misses []string

	for _, domain := range unique {
		if hit, ok := p.cache.Get(domain); ok {
			results = append(results, hit)
		} else {
			misses = append(misses, domain)
		}
	}

	p.metrics.ProbeCacheHit(len(results))
	p.metrics.ProbeCacheMiss(len(misses))
	logrus.Debugf("Availability probe: %d cached, %d to check", len(results), len(misses))

	if len(misses) == 0 {
		return results, nil
	}

	if p.breaker.Open() || !p.client.HasCredentials() {
		if p.breaker.Open() {
			logrus.Warnf("Availability breaker open, treating %d domains as unavailable", len(misses))
		}
		return append(results, unavailableAll(misses)...), nil
	}

	misses = p.runPrescreen(ctx, misses, &results)
	if len(misses) == 0 {
		return results, nil
	}

	p.metrics.RegistrarCall()
	checked, err := p.client.CheckAvailability(ctx, misses)
	if err != nil {
		if registrar.IsConfiguration(err) {
			p.metrics.RegistrarError("configuration")
			return nil, err
		}
		p.breaker.RecordFailure()
		p.metrics.RegistrarError("transient")
		p.metrics.BreakerOpen(p.breaker.Open())
		logrus.Errorf("Registrar availability check failed: %v", err)
		return append(results, unavailableAll(misses)...), nil
	}

	p.breaker.RecordSuccess()
	p.metrics.BreakerOpen(false)

	byDomain := make(map[string]registrar.Availability, len(checked))
	for _, result := range checked {
		byDomain[result.Domain] = result
	}

	for _, domain := range misses {
		result, ok := byDomain[domain]
		if !ok {
			// The registrar dropped the domain from its response; do not
			// cache the absence as a verdict.
			results = append(results, registrar.Availability{Domain: domain, Available: false})
			continue
		}
		p.cache.Set(domain, result)
		results = append(results, result)
	}

	return results, nil
}

// runPrescreen filters out domains that already serve live web content,
// recording them as unavailable. A live site is real evidence that the
// domain is registered, so those verdicts are cached. Prescreen failures are
// best effort and leave the input untouched.
func (p *Prober) runPrescreen(ctx context.Context, misses []string, results *[]registrar.Availability) []string {
	if p.prescreen == nil {
		return misses
	}

	live, err := p.prescreen.LiveDomains(ctx, misses)
	if err != nil {
		logrus.Warnf("Web-presence prescreen failed, falling through to registrar: %v", err)
		return misses
	}

	var remaining []string
	for _, domain := range misses {
		if live[domain] {
			taken := registrar.Availability{Domain: domain, Available: false, Definitive: true}
			p.cache.Set(domain, taken)
			*results = append(*results, taken)
		} else {
			remaining = append(remaining, domain)
		}
	}

	if skipped := len(misses) - len(remaining); skipped > 0 {
		logrus.Debugf("Prescreen ruled out %d live domains before the registrar call", skipped)
	}

	return remaining
}

// dedupe removes duplicate domains preserving first-seen order.
func dedupe(domains []string) []string {
	seen := make(map[string]bool, len(domains))
	unique := make([]string, 0, len(domains))
	for _, domain := range domains {
		if domain == "" || seen[domain] {
			continue
		}
		seen[domain] = true
		unique = append(unique, domain)
	}
	return unique
}

// unavailableAll builds fail-closed results for domains that could not be
// checked.
func unavailableAll(domains []string) []registrar.Availability {
	results := make([]registrar.Availability, 0, len(domains))
	for _, domain := range domains {
		results = append(results, registrar.Availability{Domain: domain, Available: false})
	}
	return results
}
