package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
)

// significantWordLen is the length a name word must exceed to count as
// evidence in a deep-link candidate.
const significantWordLen = 3

var trivialPaths = map[string]struct{}{
	"":             {},
	"index":        {},
	"index.html":   {},
	"index.htm":    {},
	"index.php":    {},
	"index.asp":    {},
	"index.aspx":   {},
	"default.aspx": {},
	"home":         {},
	"home.html":    {},
}

// ResolveDeepLink searches inside portalDomain for a page about q. Results
// must be on the portal host (or one of its subdomains) and have a
// non-trivial path. Each candidate counts how many of its title, URL path and
// snippet mention a significant name word; the highest count wins, ties going
// to the better search position. hint replaces the default site-restricted
// query when non-empty. It returns nil when nothing qualifies.
func (e *Engine) ResolveDeepLink(ctx context.Context, q model.EntityQuery, portalDomain, hint string) *model.ResolutionResult {
	portal := portalHost(portalDomain)
	if portal == "" || strings.TrimSpace(q.Name) == "" {
		return nil
	}

	query := strings.TrimSpace(hint)
	if query == "" {
		query = deepLinkQuery(portalDomain, q)
	}
	resp := e.webSearch(ctx, "deep_link", query)
	if resp == nil {
		return nil
	}

	words := e.names.SignificantWords(q.Name, significantWordLen)

	var best *model.OrganicResult
	bestCount, bestPos := -1, 0
	for i := range resp.Organic {
		r := &resp.Organic[i]
		if !onPortal(r.Link, portal) {
			continue
		}
		path := normalize.URLPath(r.Link)
		if isTrivialPath(path) {
			continue
		}

		count := e.matchedLocations(words, r.Title, path, r.Snippet)
		pos := r.Position
		if pos <= 0 {
			pos = i + 1
		}
		if count > bestCount || (count == bestCount && pos < bestPos) {
			best, bestCount, bestPos = r, count, pos
		}
	}
	if best == nil {
		return nil
	}

	return &model.ResolutionResult{
		Domain:       best.Link,
		Confidence:   deepLinkBase + deepLinkPerLocation*float64(bestCount),
		Source:       model.SourceDeepLinkSearch,
		Method:       model.MethodDeepLink,
		IsDeepLink:   true,
		PortalDomain: portal,
		Details: map[string]any{
			"title":             best.Title,
			"position":          bestPos,
			"matched_locations": bestCount,
			"query":             query,
		},
	}
}

func deepLinkQuery(portalDomain string, q model.EntityQuery) string {
	host := strings.TrimPrefix(normalize.Hostname(portalDomain), "www.")
	query := fmt.Sprintf("site:%s %q", host, strings.TrimSpace(q.Name))
	if city := strings.TrimSpace(q.City); city != "" {
		query += " " + city
	}
	return query
}

func isTrivialPath(path string) bool {
	_, ok := trivialPaths[strings.Trim(strings.ToLower(path), "/")]
	return ok
}

// portalHost returns the lower-cased host of portalDomain without "www.",
// or "" when it has no registrable domain.
func portalHost(portalDomain string) string {
	if normalize.CleanDomain(portalDomain) == "" {
		return ""
	}
	return strings.TrimPrefix(normalize.Hostname(portalDomain), "www.")
}

func onPortal(link, portal string) bool {
	host := strings.TrimPrefix(normalize.Hostname(link), "www.")
	return host == portal || strings.HasSuffix(host, "."+portal)
}

// matchedLocations reports how many of title, path and snippet contain at
// least one of words (0-3).
func (e *Engine) matchedLocations(words []string, title, path, snippet string) int {
	path = strings.NewReplacer("-", " ", "_", " ", "/", " ", "+", " ").Replace(path)
	n := 0
	for _, text := range []string{title, path, snippet} {
		if containsAny(" "+e.names.Name(text)+" ", words) {
			n++
		}
	}
	return n
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
