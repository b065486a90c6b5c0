package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityQuery_Validate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, EntityQuery{}.Validate(), ErrMissingName)
	assert.ErrorIs(t, EntityQuery{Name: "   "}.Validate(), ErrMissingName)
	assert.NoError(t, EntityQuery{Name: "Acme Plumbing"}.Validate())
}

func TestEntityQuery_UnmarshalCoercesNumbers(t *testing.T) {
	t.Parallel()

	var q EntityQuery
	err := json.Unmarshal([]byte(`{"name": 7, "city": "Denver", "phone": 3035551234, "state": true}`), &q)
	require.NoError(t, err)

	assert.Equal(t, "7", q.Name)
	assert.Equal(t, "Denver", q.City)
	assert.Equal(t, "3035551234", q.Phone)
	assert.Equal(t, "true", q.State)
}

func TestEntityQuery_UnmarshalAliases(t *testing.T) {
	t.Parallel()

	var q EntityQuery
	err := json.Unmarshal([]byte(`{"company_name": " Acme Plumbing ", "phone_number": "303-555-1234", "industry": "plumbing"}`), &q)
	require.NoError(t, err)

	assert.Equal(t, "Acme Plumbing", q.Name)
	assert.Equal(t, "303-555-1234", q.Phone)
	assert.Equal(t, "plumbing", q.Context)
}

func TestEntityQuery_UnmarshalInvalid(t *testing.T) {
	t.Parallel()

	var q EntityQuery
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &q))
}

func TestEntityQueryFromMap_SpreadsheetFloats(t *testing.T) {
	t.Parallel()

	q := EntityQueryFromMap(map[string]any{
		"Name":  "Acme",
		"Phone": float64(3035551234),
		"City":  nil,
	})
	assert.Equal(t, "Acme", q.Name)
	assert.Equal(t, "3035551234", q.Phone)
	assert.Empty(t, q.City)
}

func TestEntityQuery_Key(t *testing.T) {
	t.Parallel()

	a := EntityQuery{Name: "Acme Plumbing", City: "Denver", Phone: "(303) 555-1234"}
	b := EntityQuery{Name: " acme plumbing", City: "DENVER", Phone: "303.555.1234"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), EntityQuery{Name: "Acme Plumbing", City: "Boulder"}.Key())
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ClampScore(-5))
	assert.Equal(t, 100.0, ClampScore(140))
	assert.Equal(t, 42.5, ClampScore(42.5))
}

func TestSiteClassification_IsPortal(t *testing.T) {
	t.Parallel()

	assert.True(t, SiteClassification{IsStateGov: true}.IsPortal())
	assert.True(t, SiteClassification{IsCountyPortal: true}.IsPortal())
	assert.False(t, SiteClassification{IsFederalOversight: true}.IsPortal())
	assert.False(t, SiteClassification{}.IsPortal())
}
