package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCompanyName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"lowercase", "Acme Plumbing", "acme plumbing"},
		{"strip llc", "Acme Plumbing LLC", "acme plumbing"},
		{"strip dotted llc", "Acme Plumbing, L.L.C.", "acme plumbing"},
		{"strip inc", "Acme Plumbing, Inc.", "acme plumbing"},
		{"strip group holdings", "Acme Group Holdings", "acme"},
		{"leading article", "The Home Depot", "home depot"},
		{"keep hyphen", "Acme-Plumbing Corp", "acme-plumbing"},
		{"ampersand", "Smith & Jones", "smith jones"},
		{"apostrophe", "Joe's Diner", "joes diner"},
		{"diacritics", "Café Olé Inc", "cafe ole"},
		{"collapse spaces", "  Acme    Plumbing  ", "acme plumbing"},
		{"only stop words", "Group Inc", "group inc"},
		{"dangling hyphen", "Acme - Denver", "acme denver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeCompanyName(tt.in))
		})
	}
}

func TestNormalizeCompanyName_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Acme Plumbing, L.L.C.",
		"The Group, Inc.",
		"St. Mary's Hospital & Clinics",
		"Ärzte-Zentrum GmbH",
		"  --Acme--  ",
		"Group Inc",
		"1-800-Flowers.com, Inc.",
		"東京 Company",
	}
	for _, in := range inputs {
		once := NormalizeCompanyName(in)
		assert.Equal(t, once, NormalizeCompanyName(once), "input %q", in)
	}
}

func TestNormalizer_CustomStopWords(t *testing.T) {
	t.Parallel()

	n := NewNormalizer([]string{"Dental", "P.C."})
	assert.Equal(t, "smile studio", n.Name("Smile Studio Dental PC"))
	assert.Equal(t, "smile studio inc", n.Name("Smile Studio Inc"))
}

func TestNormalizer_SignificantWords(t *testing.T) {
	t.Parallel()

	words := NewNormalizer(DefaultStopWords).SignificantWords("The Big Sky Family Health Center, Inc.", 3)
	assert.Equal(t, []string{"family", "health", "center"}, words)
}
