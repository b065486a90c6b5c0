// Package fetcher streams entity records from CSV, TSV, JSON, JSON Lines and
// XLSX files, and fetches readable page text over HTTP.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

// Format is an entity input file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatXLSX  Format = "xlsx"
)

// DetectFormat picks a Format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", eris.Errorf("fetcher: unsupported input format %q", filepath.Ext(path))
}

// Record is one entity read from an input file. Line is the 1-based data row
// (header excluded) or JSON value index.
type Record struct {
	Line  int
	Query model.EntityQuery
}

// StreamEntities reads entity records from path. Tabular files need a header
// row; columns are matched by name (name, company, city, state, phone,
// context and their aliases). Fully blank rows are skipped. Both channels are
// closed when processing completes.
func StreamEntities(ctx context.Context, path string) (<-chan Record, <-chan error) {
	out := make(chan Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		if err := streamEntities(ctx, path, out); err != nil {
			errCh <- err
		}
	}()

	return out, errCh
}

// ReadEntities collects every record of path.
func ReadEntities(ctx context.Context, path string) ([]Record, error) {
	recCh, errCh := StreamEntities(ctx, path)
	var records []Record
	for rec := range recCh {
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return records, err
	}
	return records, nil
}

func streamEntities(ctx context.Context, path string, out chan<- Record) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	if format == FormatXLSX {
		rows, errs := StreamXLSX(ctx, path, XLSXOptions{})
		return emitRows(ctx, rows, errs, out)
	}

	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "fetcher: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	switch format {
	case FormatCSV, FormatTSV:
		opts := CSVOptions{TrimSpace: true, LazyQuotes: true}
		if format == FormatTSV {
			opts.Delimiter = '\t'
		}
		rows, errs := StreamCSV(ctx, f, opts)
		return emitRows(ctx, rows, errs, out)
	case FormatJSONL:
		items, errs := DecodeJSONLines[model.EntityQuery](ctx, f)
		return emitItems(ctx, items, errs, out)
	default:
		items, errs := DecodeJSONArray[model.EntityQuery](ctx, f)
		return emitItems(ctx, items, errs, out)
	}
}

// emitRows treats the first row as the header and maps later rows onto it.
func emitRows(ctx context.Context, rows <-chan []string, errs <-chan error, out chan<- Record) error {
	var header []string
	line := 0
	for row := range rows {
		if header == nil {
			header = row
			continue
		}
		if blank(row) {
			line++
			continue
		}
		line++
		fields := make(map[string]any, len(header))
		for i, h := range header {
			if i < len(row) {
				fields[h] = row[i]
			}
		}
		if err := send(ctx, out, Record{Line: line, Query: model.EntityQueryFromMap(fields)}); err != nil {
			return err
		}
	}
	if err := <-errs; err != nil {
		return err
	}
	if header == nil {
		return eris.New("fetcher: input has no header row")
	}
	return nil
}

func emitItems(ctx context.Context, items <-chan model.EntityQuery, errs <-chan error, out chan<- Record) error {
	line := 0
	for q := range items {
		line++
		if err := send(ctx, out, Record{Line: line, Query: q}); err != nil {
			return err
		}
	}
	return <-errs
}

func send(ctx context.Context, out chan<- Record, rec Record) error {
	select {
	case out <- rec:
		return nil
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "fetcher: context cancelled")
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
