package connpass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"connpass-mcp/internal/json"
)

// DefaultBaseURL is the event search endpoint queried when no other is configured.
const DefaultBaseURL = "https://do0nwqqcugpye.cloudfront.net/search_events"

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

const apiKeyHeader = "x-api-key"

// Credentials identify the caller to the search API. Empty values are not sent.
type Credentials struct {
	APIKey   string
	Nickname string
}

// EventRecord is the reduced view of one upstream event. Fields the upstream
// omitted stay nil and encode as null.
type EventRecord struct {
	EventName         *string `json:"event_name"`
	EventURL          *string `json:"event_url"`
	StartedAt         *string `json:"started_at"`
	OwnerDisplayName  *string `json:"owner_display_name"`
	ParticipationType *string `json:"participation_type"`
}

// EventListResult holds records in the order the upstream returned them.
type EventListResult struct {
	Events []EventRecord `json:"events"`
}

// searchResponse is the part of the upstream body we read; everything else is ignored.
type searchResponse struct {
	Events []EventRecord `json:"events"`
}

// Client searches events. It is safe for concurrent use; its configuration
// never changes after NewClient returns.
type Client struct {
	baseURL    *url.URL
	creds      Credentials
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient returns a Client for baseURL. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute http(s) URL, got %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		creds:      creds,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search runs one query against the search endpoint. It does not retry.
func (c *Client) Search(ctx context.Context, filters SearchFilters) (*EventListResult, error) {
	req, err := c.newRequest(ctx, filters)
	if err != nil {
		return nil, err
	}

	log.WithField("url", req.URL.String()).Debug("Searching connpass events")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	return decodeSearchResponse(body)
}

func (c *Client) newRequest(ctx context.Context, filters SearchFilters) (*http.Request, error) {
	u := *c.baseURL
	q := u.Query()
	for name, values := range filters.Values() {
		for _, v := range values {
			q.Add(name, v)
		}
	}
	if c.creds.Nickname != "" {
		q.Set("api_nickname", c.creds.Nickname)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.creds.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.creds.APIKey)
	}
	return req, nil
}

// decodeSearchResponse maps an upstream body to a result. An empty body, a
// JSON null, or a missing/null events field all yield an empty list. Keys
// match exactly; differently cased keys count as missing.
func decodeSearchResponse(body []byte) (*EventListResult, error) {
	result := &EventListResult{Events: []EventRecord{}}
	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}

	var parsed searchResponse
	if err := json.UnmarshalStrict(body, &parsed); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}
	if parsed.Events != nil {
		result.Events = parsed.Events
	}
	return result, nil
}
