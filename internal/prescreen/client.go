package prescreen

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/projectdiscovery/httpx/runner"
	"github.com/sirupsen/logrus"
)

// Config holds web-presence prescreen configuration.
type Config struct {
	Timeout     time.Duration // per-URL timeout
	Concurrency int
	RateLimit   int
}

// Client probes candidate domains over HTTP before any registrar call. A
// domain that answers is registered, so the prober can rule it out without
// spending registrar quota.
type Client struct {
	config Config
}

// NewClient creates a prescreen client.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 25
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 100
	}
	return &Client{config: config}
}

// LiveDomains probes the given domains and returns the set that served any
// HTTP response. Domains that never answer are simply absent from the map.
func (c *Client) LiveDomains(ctx context.Context, domains []string) (map[string]bool, error) {
	live := make(map[string]bool)
	if len(domains) == 0 {
		return live, nil
	}

	urls := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimSpace(domain)
		if domain == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf("https://%s", domain))
	}

	var mu sync.Mutex

	options := &runner.Options{
		InputTargetHost: urls,
		RateLimit:       c.config.RateLimit,
		Threads:         c.config.Concurrency,
		Timeout:         int(c.config.Timeout.Seconds()),
		FollowRedirects: true,
		MaxRedirects:    3,
		Silent:          true,
		NoColor:         true,
		OnResult: func(result runner.Result) {
			if result.StatusCode <= 0 {
				return
			}
			domain := domainFromURL(result.URL)
			if domain == "" {
				return
			}
			mu.Lock()
			live[domain] = true
			mu.Unlock()
		},
	}

	httpxRunner, err := runner.New(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create httpx runner: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer httpxRunner.Close()
		httpxRunner.RunEnumeration()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	logrus.Debugf("Prescreen probed %d domains, %d live", len(urls), len(live))
	return live, nil
}

// domainFromURL strips scheme, path, and port from a probed URL.
func domainFromURL(urlStr string) string {
	urlStr = strings.TrimPrefix(urlStr, "https://")
	urlStr = strings.TrimPrefix(urlStr, "http://")
	if idx := strings.IndexAny(urlStr, "/:"); idx != -1 {
		urlStr = urlStr[:idx]
	}
	return strings.ToLower(strings.TrimSpace(urlStr))
}
