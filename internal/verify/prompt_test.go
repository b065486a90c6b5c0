package verify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 10))
	assert.Equal(t, "hé", Truncate("héllo", 2))
	assert.Equal(t, "日本", Truncate("日本語", 2))

	bad := "ok\xff\xfebad"
	got := Truncate(bad, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "ok")

	long := strings.Repeat("a", DefaultMaxPageChars+50)
	assert.Len(t, Truncate(long, 0), DefaultMaxPageChars)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(model.EntityQuery{Name: "Acme Plumbing", City: "Denver", State: "CO", Phone: "555-123-4567"},
		"https://acmeplumbing.com", "Welcome to Acme", 100)

	assert.Contains(t, p, "Name: Acme Plumbing")
	assert.Contains(t, p, "Location: Denver, CO")
	assert.Contains(t, p, "Phone: 555-123-4567")
	assert.Contains(t, p, "Candidate URL: https://acmeplumbing.com")
	assert.True(t, strings.HasSuffix(p, "Welcome to Acme"))
	assert.NotContains(t, p, "Context:")
}
