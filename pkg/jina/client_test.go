package jina

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

func fastRetry() Option {
	return WithRetry(resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond})
}

func TestRead_Success(t *testing.T) {
	t.Parallel()

	want := ReadResponse{
		Code: 200,
		Data: ReadData{
			Title:   "Acme Plumbing",
			URL:     "https://acmeplumbing.com",
			Content: "# Acme Plumbing\n\nFamily owned since 1990.",
			Usage:   ReadUsage{Tokens: 512},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "markdown", r.Header.Get("X-Return-Format"))
		assert.Equal(t, "/https://acmeplumbing.com", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Read(context.Background(), "https://acmeplumbing.com")

	require.NoError(t, err)
	assert.Equal(t, want.Data.Title, got.Data.Title)
	assert.Equal(t, want.Data.Content, got.Data.Content)
	assert.Equal(t, want.Data.Usage.Tokens, got.Data.Usage.Tokens)
}

func TestRead_AnonymousHasNoAuthHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"code":200,"data":{"content":"hi"}}`))
	}))
	defer srv.Close()

	got, err := NewClient("", WithBaseURL(srv.URL)).Read(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Data.Content)
}

func TestRead_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"data":{"content":"ok"}}`))
	}))
	defer srv.Close()

	got, err := NewClient("k", WithBaseURL(srv.URL), fastRetry()).Read(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Data.Content)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRead_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	got, err := NewClient("k", WithBaseURL(srv.URL), fastRetry()).Read(context.Background(), "https://acme.com/missing")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "404")
}

func TestRead_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("k").Read(context.Background(), " ")
	assert.Error(t, err)
}
