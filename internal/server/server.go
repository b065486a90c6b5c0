// Package server exposes domain resolution, deep-link lookup, site
// classification, page verification and batch run history over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/store"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/verify"
)

const maxBodyBytes = 1 << 20

// Resolver is the resolution engine surface served over HTTP.
type Resolver interface {
	ResolveWithPolicy(ctx context.Context, q model.EntityQuery) (model.Resolution, error)
	ResolveDeepLink(ctx context.Context, q model.EntityQuery, portalDomain, hint string) *model.ResolutionResult
	ClassifySite(domain string) model.SiteClassification
}

// Verifier judges whether a page belongs to an entity.
type Verifier interface {
	Judge(ctx context.Context, meta model.EntityQuery, url, pageText string) model.VerificationJudgment
	FetchAndJudge(ctx context.Context, reader verify.PageReader, meta model.EntityQuery, url string) model.VerificationJudgment
}

// Server holds the HTTP handlers. Verifier, page reader and store are
// optional; their routes answer 503 when unset.
type Server struct {
	resolver       Resolver
	verifier       Verifier
	reader         verify.PageReader
	store          store.Store
	allowedOrigins []string
	log            *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithVerifier enables POST /v1/verify.
func WithVerifier(v Verifier, reader verify.PageReader) Option {
	return func(s *Server) {
		s.verifier = v
		s.reader = reader
	}
}

// WithStore enables the run history routes.
func WithStore(st store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithAllowedOrigins sets the CORS origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Server.
func New(r Resolver, opts ...Option) *Server {
	s := &Server{
		resolver:       r,
		allowedOrigins: []string{"*"},
		log:            zap.L(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/deeplink", s.handleDeepLink)
		r.Get("/classify/{domain}", s.handleClassify)
		r.Post("/verify", s.handleVerify)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/results", s.handleListResults)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server: listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	s.log.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var q model.EntityQuery
	if !decode(w, r, &q) {
		return
	}
	res, err := s.resolver.ResolveWithPolicy(r.Context(), q)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type deepLinkRequest struct {
	Entity       model.EntityQuery `json:"entity"`
	PortalDomain string            `json:"portal_domain"`
	Hint         string            `json:"hint,omitempty"`
}

type deepLinkResponse struct {
	Found  bool                    `json:"found"`
	Result *model.ResolutionResult `json:"result,omitempty"`
}

func (s *Server) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	var req deepLinkRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Entity.Validate(); err != nil {
		s.writeErr(w, err)
		return
	}
	if req.PortalDomain == "" {
		writeError(w, http.StatusBadRequest, "portal_domain is required")
		return
	}
	res := s.resolver.ResolveDeepLink(r.Context(), req.Entity, req.PortalDomain, req.Hint)
	writeJSON(w, http.StatusOK, deepLinkResponse{Found: res != nil, Result: res})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	writeJSON(w, http.StatusOK, s.resolver.ClassifySite(domain))
}

type verifyRequest struct {
	Entity   model.EntityQuery `json:"entity"`
	URL      string            `json:"url"`
	PageText string            `json:"page_text,omitempty"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if s.verifier == nil {
		writeError(w, http.StatusServiceUnavailable, "verification is not configured")
		return
	}
	var req verifyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Entity.Validate(); err != nil {
		s.writeErr(w, err)
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	if req.PageText != "" {
		writeJSON(w, http.StatusOK, s.verifier.Judge(r.Context(), req.Entity, req.URL, req.PageText))
		return
	}
	if s.reader == nil {
		writeError(w, http.StatusBadRequest, "page_text is required")
		return
	}
	writeJSON(w, http.StatusOK, s.verifier.FetchAndJudge(r.Context(), s.reader, req.Entity, req.URL))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, offset := paging(r)
	runs, err := s.store.ListRuns(r.Context(), store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, offset := paging(r)
	results, err := s.store.ListResults(r.Context(), store.ResultFilter{
		RunID:   chi.URLParam(r, "id"),
		Outcome: model.Outcome(r.URL.Query().Get("outcome")),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if results == nil {
		results = []model.ResultRecord{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "result store is not configured")
		return false
	}
	return true
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrMissingName):
		writeError(w, http.StatusBadRequest, model.ErrMissingName.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.log.Error("server: request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func paging(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return max(limit, 0), max(offset, 0)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
