// Package batch resolves every entity of an input file concurrently, writing
// one JSON line per entity and recording outcomes in the result store.
package batch

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/fetcher"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/store"
)

// Defaults for Options.
const (
	DefaultConcurrency = 8
	DefaultFlushEvery  = 25
)

// Resolver is the resolution entry point the runner drives.
type Resolver interface {
	ResolveWithPolicy(ctx context.Context, q model.EntityQuery) (model.Resolution, error)
}

// Options configures a Runner.
type Options struct {
	Concurrency int
	// FlushEvery is the number of records buffered per store write.
	FlushEvery int
	// Limit stops reading after this many entities; 0 means no limit.
	Limit int
	// ResumeRunID continues an earlier run, skipping entities it already
	// resolved without error.
	ResumeRunID string
}

// Runner executes batch runs. The store is optional.
type Runner struct {
	resolver Resolver
	store    store.Store
	out      io.Writer
	opts     Options
	log      *zap.Logger
}

// NewRunner builds a Runner writing JSON lines to out.
func NewRunner(r Resolver, st store.Store, out io.Writer, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = DefaultFlushEvery
	}
	return &Runner{resolver: r, store: st, out: out, opts: opts, log: zap.L()}
}

// WithLogger replaces the runner's logger.
func (r *Runner) WithLogger(l *zap.Logger) *Runner {
	if l != nil {
		r.log = l
	}
	return r
}

// Run resolves every entity in inputPath. A failing entity never aborts the
// run; it is recorded with outcome "error". The returned run carries the
// final stats even when an error is returned.
func (r *Runner) Run(ctx context.Context, inputPath string) (*model.Run, error) {
	run, done, err := r.startRun(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	log := r.log.With(zap.String("run_id", run.ID), zap.String("input", inputPath))
	log.Info("batch: starting",
		zap.Int("concurrency", r.opts.Concurrency),
		zap.Int("already_done", len(done)),
	)

	results := make(chan model.ResultRecord, r.opts.Concurrency*2)
	var (
		stats    model.RunStats
		writeErr error
		wg       sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		stats, writeErr = r.write(context.WithoutCancel(ctx), results)
	}()

	var skipped, started atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	readCtx, stopReading := context.WithCancel(gctx)
	defer stopReading()
	limited := false

	recCh, errCh := fetcher.StreamEntities(readCtx, inputPath)
	for rec := range recCh {
		if gctx.Err() != nil {
			break
		}
		if r.opts.Limit > 0 && started.Load() >= int64(r.opts.Limit) {
			limited = true
			stopReading()
			break
		}
		if _, ok := done[rec.Query.Key()]; ok {
			skipped.Add(1)
			continue
		}
		started.Add(1)
		g.Go(func() error {
			res, err := r.resolver.ResolveWithPolicy(gctx, rec.Query)
			if err == nil && gctx.Err() != nil {
				// Stages cut short by cancellation look like misses.
				err = gctx.Err()
			}
			var resolution *model.Resolution
			if err == nil {
				resolution = &res
			}
			record := model.NewResultRecord(run.ID, rec.Line, rec.Query, resolution, err)
			if err != nil {
				log.Warn("batch: entity failed",
					zap.Int("line", rec.Line),
					zap.String("entity", rec.Query.Name),
					zap.Error(err),
				)
			}
			results <- record
			return nil // don't abort batch on individual failure
		})
	}
	// Unblock the reader if the loop stopped early.
	for range recCh {
	}
	inputErr := <-errCh
	if limited {
		inputErr = nil
	}

	_ = g.Wait()
	close(results)
	wg.Wait()

	stats.Skipped = int(skipped.Load())
	run.Stats = stats

	status := model.RunStatusComplete
	var runErr error
	switch {
	case ctx.Err() != nil:
		runErr = eris.Wrap(ctx.Err(), "batch: interrupted")
	case inputErr != nil:
		runErr = eris.Wrap(inputErr, "batch: read input")
	case writeErr != nil:
		runErr = writeErr
	}
	if runErr != nil {
		status = model.RunStatusFailed
		run.Error = runErr.Error()
	}
	run.Status = status

	if r.store != nil {
		if err := r.store.FinishRun(context.WithoutCancel(ctx), run.ID, status, stats, run.Error); err != nil {
			log.Warn("batch: finish run", zap.Error(err))
		}
	}

	log.Info("batch: complete",
		zap.String("status", string(status)),
		zap.Int("total", stats.Total),
		zap.Int("resolved", stats.Resolved),
		zap.Int("deep_links", stats.DeepLinks),
		zap.Int("rejected", stats.Rejected),
		zap.Int("unresolved", stats.Unresolved),
		zap.Int("errors", stats.Errors),
		zap.Int("skipped", stats.Skipped),
	)
	return run, runErr
}

// startRun creates or reopens the run and loads the keys to skip.
func (r *Runner) startRun(ctx context.Context, inputPath string) (*model.Run, map[string]struct{}, error) {
	if r.store == nil {
		if r.opts.ResumeRunID != "" {
			return nil, nil, eris.New("batch: resume needs a result store")
		}
		return &model.Run{ID: uuid.New().String(), Input: inputPath, Status: model.RunStatusRunning}, nil, nil
	}

	if r.opts.ResumeRunID == "" {
		run, err := r.store.CreateRun(ctx, inputPath)
		if err != nil {
			return nil, nil, eris.Wrap(err, "batch: create run")
		}
		return run, nil, nil
	}

	run, err := r.store.GetRun(ctx, r.opts.ResumeRunID)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "batch: resume run %s", r.opts.ResumeRunID)
	}
	done, err := r.store.CompletedKeys(ctx, run.ID)
	if err != nil {
		return nil, nil, eris.Wrap(err, "batch: load completed keys")
	}
	return run, done, nil
}

// write drains results into the JSON-lines output and the store. It keeps
// draining after a write failure so workers never block.
func (r *Runner) write(ctx context.Context, results <-chan model.ResultRecord) (model.RunStats, error) {
	var (
		stats    model.RunStats
		firstErr error
		pending  []model.ResultRecord
	)
	enc := json.NewEncoder(r.out)

	flush := func() {
		if r.store == nil || len(pending) == 0 {
			pending = pending[:0]
			return
		}
		if err := r.store.SaveResults(ctx, pending); err != nil && firstErr == nil {
			firstErr = eris.Wrap(err, "batch: save results")
			r.log.Error("batch: save results", zap.Error(err))
		}
		pending = pending[:0]
	}

	for rec := range results {
		stats.Add(rec.Outcome)
		if r.out != nil {
			if err := enc.Encode(rec); err != nil && firstErr == nil {
				firstErr = eris.Wrap(err, "batch: write output")
			}
		}
		pending = append(pending, rec)
		if len(pending) >= r.opts.FlushEvery {
			flush()
		}
	}
	flush()
	return stats, firstErr
}
