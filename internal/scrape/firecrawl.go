package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/firecrawl"
)

// FirecrawlAdapter wraps a Firecrawl client as a Scraper. It renders
// JavaScript and gets past most bot walls, so it sits last in the chain.
type FirecrawlAdapter struct {
	client firecrawl.Client
}

// NewFirecrawlAdapter creates a FirecrawlAdapter from a Firecrawl client.
func NewFirecrawlAdapter(client firecrawl.Client) *FirecrawlAdapter {
	return &FirecrawlAdapter{client: client}
}

func (f *FirecrawlAdapter) Name() string { return "firecrawl" }

// Supports returns true; Firecrawl can attempt any URL as a fallback.
func (f *FirecrawlAdapter) Supports(_ string) bool { return true }

// Scrape fetches a single URL via Firecrawl's scrape API.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, targetURL string) (*Page, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:             targetURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, eris.New("firecrawl: scrape not successful")
	}
	if blocked, kind := DetectBlock(resp.Data.Markdown); blocked {
		return nil, eris.Errorf("firecrawl: blocked (%s)", kind)
	}

	url := resp.Data.Metadata.SourceURL
	if url == "" {
		url = targetURL
	}
	return &Page{
		URL:    url,
		Title:  resp.Data.Metadata.Title,
		Text:   resp.Data.Markdown,
		Source: "firecrawl",
	}, nil
}
