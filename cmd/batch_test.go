package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

func TestBatchOutputPath(t *testing.T) {
	assert.Equal(t, "out.jsonl", batchOutputPath("data/clinics.csv", "out.jsonl", "results"))
	assert.Equal(t, "-", batchOutputPath("data/clinics.csv", "-", "results"))
	assert.Equal(t, filepath.Join("results", "clinics.results.jsonl"), batchOutputPath("data/clinics.csv", "", "results"))
	assert.Equal(t, "clinics.results.jsonl", batchOutputPath("clinics.xlsx", "", ""))
}

func TestOpenBatchOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jsonl")

	w, closeFn, err := openBatchOutput(path, false)
	require.NoError(t, err)
	_, _ = w.Write([]byte("first\n"))
	closeFn()

	w, closeFn, err = openBatchOutput(path, true)
	require.NoError(t, err)
	_, _ = w.Write([]byte("second\n"))
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))

	w, closeFn, err = openBatchOutput(path, false)
	require.NoError(t, err)
	_, _ = w.Write([]byte("fresh\n"))
	closeFn()

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))
}

func TestOpenBatchOutput_Stdout(t *testing.T) {
	w, closeFn, err := openBatchOutput("-", false)
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, os.Stdout, w)
}

func TestFormatClassifications(t *testing.T) {
	var buf bytes.Buffer
	formatClassifications(&buf,
		[]string{"hrsa.gov", "acme.com"},
		[]model.SiteClassification{
			{IsFederalOversight: true, SiteType: model.SiteTypeFederalOversight, Confidence: 0.95},
			{SiteType: model.SiteTypeNone},
		},
	)
	output := buf.String()
	assert.Contains(t, output, "DOMAIN")
	assert.Contains(t, output, "federal_oversight")
	assert.Contains(t, output, "0.95")
	assert.Contains(t, output, "none")
}
