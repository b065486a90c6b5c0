// Package serper provides a client for the serper.dev Google Search and
// Places APIs.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/resilience"
)

const defaultBaseURL = "https://google.serper.dev"

// Client performs serper.dev operations.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Places(ctx context.Context, req PlacesRequest) (*PlacesResponse, error)
}

// SearchRequest is the body of a /search call.
type SearchRequest struct {
	Query   string `json:"q"`
	Num     int    `json:"num,omitempty"`
	Country string `json:"gl,omitempty"`
	Lang    string `json:"hl,omitempty"`
}

// PlacesRequest is the body of a /places call.
type PlacesRequest struct {
	Query   string `json:"q"`
	Country string `json:"gl,omitempty"`
	Lang    string `json:"hl,omitempty"`
}

// SearchResponse is the subset of a /search response the resolver reads.
type SearchResponse struct {
	KnowledgeGraph *KnowledgeGraph `json:"knowledgeGraph,omitempty"`
	Organic        []Organic       `json:"organic"`
}

// KnowledgeGraph is the knowledge panel shown beside web results.
type KnowledgeGraph struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// Organic is one web result.
type Organic struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// PlacesResponse is a /places response.
type PlacesResponse struct {
	Places []Place `json:"places"`
}

// Place is one local business listing.
type Place struct {
	Position    int     `json:"position"`
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phoneNumber"`
	Website     string  `json:"website"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	CID         string  `json:"cid"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps requests per second. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithBreaker routes calls through a circuit breaker.
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *httpClient) {
		c.breaker = b
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
}

// NewClient creates a serper.dev client. The default limiter allows 5
// requests per second.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(5, 5),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("serper", "post")
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.Num <= 0 {
		req.Num = 10
	}
	var out SearchResponse
	if err := c.post(ctx, "/search", req, &out); err != nil {
		return nil, eris.Wrap(err, "serper: search")
	}
	return &out, nil
}

func (c *httpClient) Places(ctx context.Context, req PlacesRequest) (*PlacesResponse, error) {
	var out PlacesResponse
	if err := c.post(ctx, "/places", req, &out); err != nil {
		return nil, eris.Wrap(err, "serper: places")
	}
	return &out, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	respBody, err := resilience.Call(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, path, body)
		})
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func (c *httpClient) do(ctx context.Context, path string, body []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "read response"), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resilience.StatusError("serper", resp.StatusCode, respBody)
	}
	return respBody, nil
}
