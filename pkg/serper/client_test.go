package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var body SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme Plumbing Denver official website", body.Query)
		assert.Equal(t, 10, body.Num)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"knowledgeGraph": {"title": "Acme Plumbing", "type": "Plumber", "website": "https://www.acmeplumbing.com/"},
			"organic": [
				{"title": "Acme Plumbing | Denver", "link": "https://acmeplumbing.com/", "snippet": "Family owned", "position": 1},
				{"title": "Acme Plumbing - Yelp", "link": "https://www.yelp.com/biz/acme", "snippet": "Reviews", "position": 2}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0, 0))
	resp, err := c.Search(context.Background(), SearchRequest{Query: "Acme Plumbing Denver official website"})
	require.NoError(t, err)
	require.NotNil(t, resp.KnowledgeGraph)
	assert.Equal(t, "https://www.acmeplumbing.com/", resp.KnowledgeGraph.Website)
	require.Len(t, resp.Organic, 2)
	assert.Equal(t, 2, resp.Organic[1].Position)
}

func TestPlaces_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places", r.URL.Path)
		_, _ = w.Write([]byte(`{"places": [{"position": 1, "title": "Acme Plumbing", "phoneNumber": "(555) 123-4567", "website": "https://acmeplumbing.com", "address": "1 Main St, Denver, CO"}]}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	resp, err := c.Places(context.Background(), PlacesRequest{Query: "Acme Plumbing Denver"})
	require.NoError(t, err)
	require.Len(t, resp.Places, 1)
	assert.Equal(t, "(555) 123-4567", resp.Places[0].PhoneNumber)
	assert.Equal(t, "https://acmeplumbing.com", resp.Places[0].Website)
}

func TestSearch_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"organic": []}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRetry(fastRetry()), WithRateLimit(0, 0))
	resp, err := c.Search(context.Background(), SearchRequest{Query: "x"})
	require.NoError(t, err)
	assert.Empty(t, resp.Organic)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearch_PermanentError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Unauthorized."}`))
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL), WithRetry(fastRetry()))
	resp, err := c.Search(context.Background(), SearchRequest{Query: "x"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_BreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := resilience.NewBreaker("serper", 1, time.Minute)
	c := NewClient("k", WithBaseURL(srv.URL), WithBreaker(b),
		WithRetry(resilience.RetryConfig{MaxAttempts: 1}))

	_, err := c.Search(context.Background(), SearchRequest{Query: "x"})
	require.Error(t, err)

	_, err = c.Search(context.Background(), SearchRequest{Query: "x"})
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Search(ctx, SearchRequest{Query: "x"})
	assert.Error(t, err)
}
