package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/fetcher"
)

// LocalScraper fetches pages directly over HTTP and extracts their text.
// Free, no API calls. Blocked pages fall through to the hosted readers.
type LocalScraper struct {
	fetcher *fetcher.HTTPFetcher
}

// NewLocalScraper creates a LocalScraper over f.
func NewLocalScraper(f *fetcher.HTTPFetcher) *LocalScraper {
	return &LocalScraper{fetcher: f}
}

func (l *LocalScraper) Name() string           { return "local_http" }
func (l *LocalScraper) Supports(_ string) bool { return true }

// Scrape fetches a URL, extracts its text and rejects blocked pages.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*Page, error) {
	text, err := l.fetcher.PageText(ctx, targetURL)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: fetch")
	}
	if blocked, kind := DetectBlock(text); blocked {
		return nil, eris.Errorf("local_http: blocked (%s)", kind)
	}

	// PageText puts the title on the first line, followed by a blank line.
	title, body, found := strings.Cut(text, "\n\n")
	if !found {
		title, body = "", text
	}
	return &Page{URL: targetURL, Title: title, Text: body, Source: "local_http"}, nil
}
