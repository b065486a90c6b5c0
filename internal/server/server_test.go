package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/store"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/verify"
)

type fakeResolver struct {
	portalHint string
}

func (f *fakeResolver) ResolveWithPolicy(_ context.Context, q model.EntityQuery) (model.Resolution, error) {
	if err := q.Validate(); err != nil {
		return model.Resolution{Query: q}, err
	}
	if q.Name == "Broken" {
		return model.Resolution{Query: q}, eris.New("boom")
	}
	return model.Resolution{
		Query:          q,
		Result:         &model.ResolutionResult{Domain: "acme.com", Confidence: 98, Source: model.SourceGooglePlaces},
		Classification: model.SiteClassification{SiteType: model.SiteTypeNone},
	}, nil
}

func (f *fakeResolver) ResolveDeepLink(_ context.Context, q model.EntityQuery, portalDomain, hint string) *model.ResolutionResult {
	f.portalHint = hint
	if portalDomain != "county.gov" {
		return nil
	}
	return &model.ResolutionResult{Domain: "https://county.gov/clinics/" + strings.ToLower(q.Name), IsDeepLink: true, Confidence: 70}
}

func (f *fakeResolver) ClassifySite(domain string) model.SiteClassification {
	if domain == "hrsa.gov" {
		return model.SiteClassification{IsFederalOversight: true, SiteType: model.SiteTypeFederalOversight, Confidence: 0.95}
	}
	return model.SiteClassification{SiteType: model.SiteTypeNone}
}

type fakeVerifier struct{}

func (fakeVerifier) Judge(_ context.Context, _ model.EntityQuery, _ string, pageText string) model.VerificationJudgment {
	return model.VerificationJudgment{Match: strings.Contains(pageText, "Acme"), Confidence: 90, Evidence: "judged"}
}

func (fakeVerifier) FetchAndJudge(ctx context.Context, reader verify.PageReader, meta model.EntityQuery, url string) model.VerificationJudgment {
	text, err := reader.PageText(ctx, url)
	if err != nil {
		return model.VerificationJudgment{Evidence: err.Error()}
	}
	return fakeVerifier{}.Judge(ctx, meta, url, text)
}

type staticReader string

func (s staticReader) PageText(context.Context, string) (string, error) { return string(s), nil }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, New(&fakeResolver{}).Routes(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestResolve(t *testing.T) {
	h := New(&fakeResolver{}).Routes()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"resolved", `{"name":"Acme","city":"Austin"}`, http.StatusOK},
		{"missing name", `{"city":"Austin"}`, http.StatusBadRequest},
		{"bad json", `{"name":`, http.StatusBadRequest},
		{"resolver failure", `{"name":"Broken"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/resolve", tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := do(t, h, http.MethodPost, "/v1/resolve", `{"name":"Acme"}`)
	res := decodeBody[model.Resolution](t, rec)
	require.NotNil(t, res.Result)
	assert.Equal(t, "acme.com", res.Result.Domain)
	assert.Equal(t, "Acme", res.Query.Name)
}

func TestDeepLink(t *testing.T) {
	fr := &fakeResolver{}
	h := New(fr).Routes()

	rec := do(t, h, http.MethodPost, "/v1/deeplink", `{"entity":{"name":"Eastside"},"portal_domain":"county.gov","hint":"clinics"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[deepLinkResponse](t, rec)
	assert.True(t, got.Found)
	assert.Equal(t, "https://county.gov/clinics/eastside", got.Result.Domain)
	assert.Equal(t, "clinics", fr.portalHint)

	rec = do(t, h, http.MethodPost, "/v1/deeplink", `{"entity":{"name":"Eastside"},"portal_domain":"other.gov"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[deepLinkResponse](t, rec).Found)

	rec = do(t, h, http.MethodPost, "/v1/deeplink", `{"entity":{"name":"Eastside"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/deeplink", `{"entity":{},"portal_domain":"county.gov"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify(t *testing.T) {
	h := New(&fakeResolver{}).Routes()

	rec := do(t, h, http.MethodGet, "/v1/classify/hrsa.gov", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[model.SiteClassification](t, rec)
	assert.True(t, got.IsFederalOversight)

	rec = do(t, h, http.MethodGet, "/v1/classify/acme.com", "")
	assert.Equal(t, model.SiteTypeNone, decodeBody[model.SiteClassification](t, rec).SiteType)
}

func TestVerify(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		rec := do(t, New(&fakeResolver{}).Routes(), http.MethodPost, "/v1/verify", `{"entity":{"name":"Acme"},"url":"https://acme.com"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("inline page text", func(t *testing.T) {
		h := New(&fakeResolver{}, WithVerifier(fakeVerifier{}, nil)).Routes()
		rec := do(t, h, http.MethodPost, "/v1/verify", `{"entity":{"name":"Acme"},"url":"https://acme.com","page_text":"Welcome to Acme"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[model.VerificationJudgment](t, rec).Match)
	})

	t.Run("fetched page", func(t *testing.T) {
		h := New(&fakeResolver{}, WithVerifier(fakeVerifier{}, staticReader("Other Corp"))).Routes()
		rec := do(t, h, http.MethodPost, "/v1/verify", `{"entity":{"name":"Acme"},"url":"https://other.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decodeBody[model.VerificationJudgment](t, rec).Match)
	})

	t.Run("no reader and no text", func(t *testing.T) {
		h := New(&fakeResolver{}, WithVerifier(fakeVerifier{}, nil)).Routes()
		rec := do(t, h, http.MethodPost, "/v1/verify", `{"entity":{"name":"Acme"},"url":"https://acme.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing url", func(t *testing.T) {
		h := New(&fakeResolver{}, WithVerifier(fakeVerifier{}, nil)).Routes()
		rec := do(t, h, http.MethodPost, "/v1/verify", `{"entity":{"name":"Acme"},"page_text":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() { st.Close() })

	run, err := st.CreateRun(ctx, "entities.csv")
	require.NoError(t, err)
	q := model.EntityQuery{Name: "Acme", City: "Austin"}
	res := &model.Resolution{Query: q, Result: &model.ResolutionResult{Domain: "acme.com", Confidence: 98}}
	require.NoError(t, st.SaveResults(ctx, []model.ResultRecord{model.NewResultRecord(run.ID, 2, q, res, nil)}))
	require.NoError(t, st.FinishRun(ctx, run.ID, model.RunStatusComplete, model.RunStats{Total: 1, Resolved: 1}, ""))

	h := New(&fakeResolver{}, WithStore(st)).Routes()

	rec := do(t, h, http.MethodGet, "/v1/runs?status=complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decodeBody[[]model.Run](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	rec = do(t, h, http.MethodGet, "/v1/runs/"+run.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[model.Run](t, rec).Stats.Resolved)

	rec = do(t, h, http.MethodGet, "/v1/runs/"+run.ID+"/results?outcome=resolved", "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeBody[[]model.ResultRecord](t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, "acme.com", results[0].Domain)

	rec = do(t, h, http.MethodGet, "/v1/runs/"+run.ID+"/results?outcome=error", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRuns_NoStore(t *testing.T) {
	rec := do(t, New(&fakeResolver{}).Routes(), http.MethodGet, "/v1/runs", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORS(t *testing.T) {
	h := New(&fakeResolver{}, WithAllowedOrigins([]string{"https://app.example.com"})).Routes()
	req := httptest.NewRequest(http.MethodOptions, "/v1/resolve", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(&fakeResolver{}).ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
