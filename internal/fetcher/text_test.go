package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	page := `<!doctype html>
<html><head><title>Acme Dental | Austin TX</title>
<style>body { color: red }</style>
<script>var tracking = "ignore me";</script></head>
<body>
<nav><a href="/">Home</a> <a href="/contact">Contact</a></nav>
<h1>Welcome to   Acme Dental</h1>
<p>Family dentistry in <b>Austin</b>, Texas.</p>
<p>Call (512) 555-0100</p>
<noscript>Enable JavaScript</noscript>
</body></html>`

	text, err := ExtractText(strings.NewReader(page))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Acme Dental | Austin TX\n\n"))
	assert.Contains(t, text, "Welcome to Acme Dental")
	assert.Contains(t, text, "Family dentistry in Austin, Texas.")
	assert.Contains(t, text, "Call (512) 555-0100")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Enable JavaScript")
}

func TestExtractText_NoTitle(t *testing.T) {
	text, err := ExtractText(strings.NewReader("<div>one</div><div>two</div>"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", text)
}
