package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.registrar.example.com"

	// MaxBatchSize is the registrar's per-call domain limit on the bulk
	// availability endpoint.
	MaxBatchSize = 50
)

// ClientConfig holds registrar client configuration.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// Client is a registrar API client for bulk domain availability checks.
type Client struct {
	httpClient *resty.Client
	config     *ClientConfig
}

// NewClient creates a new registrar client.
func NewClient(config *ClientConfig) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeaders(map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   "namescout/1.0",
	})

	if config.APIKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("sso-key %s:%s", config.APIKey, config.APISecret))
	}

	return &Client{
		httpClient: client,
		config:     config,
	}
}

// HasCredentials reports whether the client was configured with an API key.
func (c *Client) HasCredentials() bool {
	return c.config.APIKey != ""
}

// CheckAvailability issues one bulk availability call for up to MaxBatchSize
// domains. The per-call timeout is enforced by the underlying client and an
// expiry is classified as transient.
func (c *Client) CheckAvailability(ctx context.Context, domains []string) ([]Availability, error) {
	if len(domains) == 0 {
		return []Availability{}, nil
	}
	if len(domains) > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d domains, max is %d", ErrBatchTooLarge, len(domains), MaxBatchSize)
	}
	if !c.HasCredentials() {
		return nil, fmt.Errorf("%w: no API key configured", ErrConfiguration)
	}

	start := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(availableRequest{Domains: domains}).
		Post("/v1/domains/available?checkType=FAST")

	if err != nil {
		// resty surfaces timeouts and connection failures here.
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, c.classifyStatus(resp)
	}

	var apiResp availableResponse
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal availability response: %v", ErrTransient, err)
	}

	results := make([]Availability, 0, len(apiResp.Domains))
	for _, d := range apiResp.Domains {
		results = append(results, Availability{
			Domain:     d.Domain,
			Available:  d.Available,
			Definitive: d.Definitive,
			Premium:    d.Premium,
			Price:      d.Price,
			Currency:   d.Currency,
		})
	}

	logrus.Debugf("Registrar availability check for %d domains completed in %v", len(domains), time.Since(start))
	return results, nil
}

// IsHealthy checks whether the registrar API is reachable.
func (c *Client) IsHealthy(ctx context.Context) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get("/v1/domains/tlds")

	if err != nil {
		return fmt.Errorf("failed to reach registrar API: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("registrar API returned status %d", resp.StatusCode())
	}

	return nil
}

// classifyStatus maps a non-200 response to the error taxonomy. Auth and
// validation failures are configuration errors because retrying will not
// help; everything else is treated as transient.
func (c *Client) classifyStatus(resp *resty.Response) error {
	detail := fmt.Sprintf("registrar API returned status %d", resp.StatusCode())

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil && errResp.Message != "" {
		detail = fmt.Sprintf("registrar API error %s: %s", errResp.Code, errResp.Message)
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrConfiguration, detail)
	default:
		return fmt.Errorf("%w: %s", ErrTransient, detail)
	}
}
