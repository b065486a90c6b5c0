package scrape

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/resilience"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/jina"
)

// JinaAdapter wraps a Jina Reader client as a Scraper with a circuit breaker.
type JinaAdapter struct {
	client  jina.Client
	breaker *resilience.Breaker
}

// NewJinaAdapter creates a JinaAdapter. Three consecutive transient failures
// open the circuit for 60s, sending pages straight to the next scraper.
func NewJinaAdapter(client jina.Client) *JinaAdapter {
	return &JinaAdapter{
		client:  client,
		breaker: resilience.NewBreaker("jina", 3, 60*time.Second),
	}
}

func (j *JinaAdapter) Name() string { return "jina" }

// Supports returns true unless the circuit breaker is open.
func (j *JinaAdapter) Supports(_ string) bool {
	return j.breaker.State() != resilience.StateOpen
}

// Scrape fetches a URL via Jina Reader and validates the response.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*Page, error) {
	resp, err := resilience.Call(ctx, j.breaker, func(ctx context.Context) (*jina.ReadResponse, error) {
		return j.client.Read(ctx, targetURL)
	})
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 && resp.Code != 200 {
		return nil, eris.Errorf("jina: upstream status %d", resp.Code)
	}
	if blocked, kind := DetectBlock(resp.Data.Content); blocked {
		return nil, eris.Errorf("jina: blocked (%s)", kind)
	}

	url := resp.Data.URL
	if url == "" {
		url = targetURL
	}
	return &Page{URL: url, Title: resp.Data.Title, Text: resp.Data.Content, Source: "jina"}, nil
}
