package normalize

import "strings"

// QueryType selects how a provider query is assembled.
type QueryType string

const (
	// QueryPlaces omits context; maps providers already geofence.
	QueryPlaces QueryType = "places"
	// QueryOfficial biases ranking toward the organization's own site.
	QueryOfficial QueryType = "official"
	// QueryGeneral is name, city and context.
	QueryGeneral QueryType = "general"
)

const officialQualifier = "official website"

// CreateSearchQuery builds a provider query string.
func CreateSearchQuery(name, city, context string, qt QueryType) string {
	parts := []string{name, city}
	switch qt {
	case QueryPlaces:
	case QueryOfficial:
		parts = append(parts, context, officialQualifier)
	default:
		parts = append(parts, context)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
