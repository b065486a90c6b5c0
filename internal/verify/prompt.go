package verify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

// DefaultMaxPageChars bounds the page text sent to the model.
const DefaultMaxPageChars = 12000

const systemPrompt = `You verify whether a web page is the official website of a specific organization.
Respond with a single JSON object and nothing else:
{
  "match": true|false,
  "confidence": 0-100,
  "evidence": "short quote or reason",
  "is_parent_company": true|false,
  "is_directory_site": true|false,
  "is_government_oversight_site": true|false,
  "is_government_portal": true|false,
  "needs_deep_link": true|false,
  "suggested_deep_link_search": "search query, only when needs_deep_link is true"
}
Flags:
- is_parent_company: the page belongs to a parent or holding company, not the organization itself.
- is_directory_site: the page is a listing, review or aggregator site.
- is_government_oversight_site: a federal regulator or registry describing the organization.
- is_government_portal: a state or county site hosting many organizations.
- needs_deep_link: the organization has a dedicated page inside this site that should be used instead.`

// BuildPrompt renders the user message for one verification.
func BuildPrompt(meta model.EntityQuery, url, pageText string, maxChars int) string {
	var b strings.Builder
	b.WriteString("Organization:\n")
	fmt.Fprintf(&b, "- Name: %s\n", meta.Name)
	if meta.City != "" || meta.State != "" {
		fmt.Fprintf(&b, "- Location: %s\n", strings.Trim(meta.City+", "+meta.State, ", "))
	}
	if meta.Phone != "" {
		fmt.Fprintf(&b, "- Phone: %s\n", meta.Phone)
	}
	if meta.Context != "" {
		fmt.Fprintf(&b, "- Context: %s\n", meta.Context)
	}
	fmt.Fprintf(&b, "\nCandidate URL: %s\n\nPage content:\n", url)
	b.WriteString(Truncate(pageText, maxChars))
	return b.String()
}

// Truncate replaces invalid UTF-8 and cuts s to at most maxRunes runes.
// maxRunes <= 0 means DefaultMaxPageChars.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxPageChars
	}
	s = strings.ToValidUTF8(s, "�")
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
