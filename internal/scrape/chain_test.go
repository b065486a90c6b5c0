package scrape

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	name     string
	page     *Page
	err      error
	supports bool
	calls    int
}

func (f *fakeScraper) Name() string           { return f.name }
func (f *fakeScraper) Supports(_ string) bool { return f.supports }
func (f *fakeScraper) Scrape(_ context.Context, _ string) (*Page, error) {
	f.calls++
	return f.page, f.err
}

func TestChain_FallsThrough(t *testing.T) {
	first := &fakeScraper{name: "local_http", err: eris.New("blocked"), supports: true}
	skipped := &fakeScraper{name: "jina", supports: false}
	last := &fakeScraper{name: "firecrawl", page: &Page{Title: "Acme", Text: "Welcome", Source: "firecrawl"}, supports: true}

	page, err := NewChain(nil, first, skipped, last).Scrape(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "firecrawl", page.Source)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, skipped.calls)
}

func TestChain_AllFail(t *testing.T) {
	a := &fakeScraper{name: "a", err: eris.New("boom a"), supports: true}
	b := &fakeScraper{name: "b", err: eris.New("boom b"), supports: true}

	_, err := NewChain(nil, a, b).Scrape(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all scrapers failed")
	assert.Contains(t, err.Error(), "boom b")
}

func TestChain_NoSuitableScraper(t *testing.T) {
	_, err := NewChain(nil, &fakeScraper{name: "a"}).Scrape(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable scraper")
}

func TestChain_ExcludedURL(t *testing.T) {
	s := &fakeScraper{name: "a", page: &Page{Text: "x"}, supports: true}
	_, err := NewChain(nil, s).Scrape(context.Background(), "https://acme.com/files/report.pdf")
	require.Error(t, err)
	assert.Equal(t, 0, s.calls)
}

func TestChain_PageText(t *testing.T) {
	tests := []struct {
		name string
		page *Page
		want string
	}{
		{"title and text", &Page{Title: "Acme Clinic", Text: "Open daily."}, "Acme Clinic\n\nOpen daily."},
		{"no title", &Page{Text: "  Open daily.  "}, "Open daily."},
		{"text starts with title", &Page{Title: "Acme", Text: "Acme Clinic\nOpen daily."}, "Acme Clinic\nOpen daily."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeScraper{name: "a", page: tt.page, supports: true}
			got, err := NewChain(nil, s).PageText(context.Background(), "https://acme.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
