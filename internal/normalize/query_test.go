package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateSearchQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		qt      QueryType
		city    string
		context string
		want    string
	}{
		{"places omits context", QueryPlaces, "Denver", "plumbing", "Acme Plumbing Denver"},
		{"official appends qualifier", QueryOfficial, "Denver", "plumbing", "Acme Plumbing Denver plumbing official website"},
		{"official without city", QueryOfficial, "", "", "Acme Plumbing official website"},
		{"general", QueryGeneral, "Denver", "plumbing", "Acme Plumbing Denver plumbing"},
		{"collapses whitespace", QueryGeneral, "  Denver  ", " ", "Acme Plumbing Denver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CreateSearchQuery("Acme Plumbing", tt.city, tt.context, tt.qt))
		})
	}
}
