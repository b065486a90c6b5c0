// Package scrape reads the visible text of a web page through a chain of
// scrapers, falling through to the next one when a page is blocked, empty
// or unreachable.
package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Page is the readable content of a page.
type Page struct {
	URL    string
	Title  string
	Text   string
	Source string // e.g. "local_http", "jina"
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Page, error)
	Name() string
	Supports(url string) bool
}

// Chain tries scrapers in priority order, returning the first success.
type Chain struct {
	PathMatcher *PathMatcher
	scrapers    []Scraper
}

// NewChain creates a Chain with the given path matcher and scrapers.
// Scrapers are tried in order; the first successful result is returned.
func NewChain(matcher *PathMatcher, scrapers ...Scraper) *Chain {
	if matcher == nil {
		matcher = NewPathMatcher(nil)
	}
	return &Chain{
		PathMatcher: matcher,
		scrapers:    scrapers,
	}
}

// Scrape tries each scraper in order for a single URL.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Page, error) {
	if c.PathMatcher.IsExcluded(targetURL) {
		return nil, eris.Errorf("scrape: url excluded by path matcher: %s", targetURL)
	}

	var lastErr error
	for _, s := range c.scrapers {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "scrape: cancelled")
		}
		if !s.Supports(targetURL) {
			continue
		}
		page, err := s.Scrape(ctx, targetURL)
		if err == nil && page != nil {
			return page, nil
		}
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}

// PageText returns the page title and text separated by a blank line. It
// satisfies verify.PageReader.
func (c *Chain) PageText(ctx context.Context, targetURL string) (string, error) {
	page, err := c.Scrape(ctx, targetURL)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(page.Text)
	if page.Title != "" && !strings.HasPrefix(text, page.Title) {
		text = page.Title + "\n\n" + text
	}
	return text, nil
}
