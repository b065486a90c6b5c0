package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/batch"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/store"
)

var (
	batchOutput      string
	batchResume      string
	batchLimit       int
	batchConcurrency int
	batchNoStore     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-file>",
	Short: "Resolve every organization in a CSV, TSV, JSON, JSONL or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := args[0]
		engine, err := initEngine()
		if err != nil {
			return err
		}

		var st store.Store
		if !batchNoStore {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		out, closeOut, err := openBatchOutput(batchOutputPath(input, batchOutput, cfg.Batch.OutputDir), batchResume != "")
		if err != nil {
			return err
		}
		defer closeOut()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		runner := batch.NewRunner(engine, st, out, batch.Options{
			Concurrency: concurrency,
			Limit:       batchLimit,
			ResumeRunID: batchResume,
		})
		run, err := runner.Run(ctx, input)
		if run != nil {
			fmt.Fprintf(os.Stderr, "run %s: %s (total=%d resolved=%d deep_links=%d rejected=%d unresolved=%d errors=%d skipped=%d)\n",
				run.ID, run.Status, run.Stats.Total, run.Stats.Resolved, run.Stats.DeepLinks,
				run.Stats.Rejected, run.Stats.Unresolved, run.Stats.Errors, run.Stats.Skipped)
		}
		return err
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", `JSON-lines output path, "-" for stdout (default <output_dir>/<input>.results.jsonl)`)
	batchCmd.Flags().StringVar(&batchResume, "resume", "", "continue an earlier run by ID, skipping finished entities")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of entities to resolve (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel resolutions (default from config)")
	batchCmd.Flags().BoolVar(&batchNoStore, "no-store", false, "do not record the run in the result store")
	rootCmd.AddCommand(batchCmd)
}

// batchOutputPath picks the output path: the flag if set, otherwise a file
// named after the input inside dir.
func batchOutputPath(input, flag, dir string) string {
	if flag != "" {
		return flag
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, base+".results.jsonl")
}

// openBatchOutput opens path for writing. Resumed runs append.
func openBatchOutput(path string, appendMode bool) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, eris.Wrap(err, "batch: create output dir")
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "batch: open output %s", path)
	}
	zap.L().Info("batch: writing results", zap.String("path", path))
	return f, func() { _ = f.Close() }, nil
}
