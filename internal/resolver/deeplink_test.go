package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

func clinic() model.EntityQuery {
	return model.EntityQuery{Name: "Sunrise Family Clinic", City: "Albany"}
}

const clinicQuery = `site:health.ny.gov "Sunrise Family Clinic" Albany`

func TestResolveDeepLink_BestLocationMatch(t *testing.T) {
	p := &mockProvider{}
	p.On("Search", mock.Anything, clinicQuery, DefaultSearchNum).Return(&model.SearchResponse{
		Organic: []model.OrganicResult{
			{Link: "https://www.health.ny.gov/", Title: "Department of Health", Position: 1},
			{Link: "https://www.health.ny.gov/facilities/other", Title: "Other Clinic", Position: 2},
			{Link: "https://profiles.health.ny.gov/clinic/view/1234", Title: "Sunrise Family Clinic - Profile", Snippet: "Sunrise Family Clinic, licensed diagnostic and treatment center.", Position: 3},
			{Link: "https://example.com/sunrise-family-clinic", Title: "Sunrise Family Clinic", Position: 4},
		},
	}, nil)

	got := newTestEngine(p).ResolveDeepLink(context.Background(), clinic(), "health.ny.gov", "")
	require.NotNil(t, got)
	assert.Equal(t, "https://profiles.health.ny.gov/clinic/view/1234", got.Domain)
	assert.InDelta(t, 90, got.Confidence, 0.001)
	assert.True(t, got.IsDeepLink)
	assert.Equal(t, "health.ny.gov", got.PortalDomain)
	assert.Equal(t, 3, got.Details["matched_locations"])
	assert.Equal(t, model.SourceDeepLinkSearch, got.Source)
	assert.Equal(t, model.MethodDeepLink, got.Method)
}

func TestResolveDeepLink_PathCountsOnce(t *testing.T) {
	p := &mockProvider{}
	p.On("Search", mock.Anything, clinicQuery, DefaultSearchNum).Return(&model.SearchResponse{
		Organic: []model.OrganicResult{
			{Link: "https://www.health.ny.gov/facilities/sunrise_family", Title: "Facility details", Position: 1},
		},
	}, nil)

	got := newTestEngine(p).ResolveDeepLink(context.Background(), clinic(), "https://www.health.ny.gov", "")
	require.NotNil(t, got)
	assert.InDelta(t, 70, got.Confidence, 0.001)
}

func TestResolveDeepLink_ConfidenceRange(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		result model.OrganicResult
		want   float64
	}{
		{
			name:   "long name in title only",
			entity: "Riverside Community Health Center Clinic Services",
			result: model.OrganicResult{Link: "https://www.health.ny.gov/facilities/4411", Title: "Riverside Community Health Center Clinic Services", Position: 1},
			want:   70,
		},
		{
			name:   "long name everywhere",
			entity: "Riverside Community Health Center Clinic Services",
			result: model.OrganicResult{
				Link:     "https://www.health.ny.gov/facilities/riverside-community-health-center",
				Title:    "Riverside Community Health Center Clinic Services",
				Snippet:  "Riverside Community Health Center Clinic Services operates in Albany.",
				Position: 1,
			},
			want: 90,
		},
		{
			name:   "single word in all three locations",
			entity: "Acme",
			result: model.OrganicResult{Link: "https://www.health.ny.gov/providers/acme", Title: "Acme", Snippet: "Acme provider record", Position: 1},
			want:   90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockProvider{}
			p.On("Search", mock.Anything, mock.Anything, DefaultSearchNum).Return(&model.SearchResponse{
				Organic: []model.OrganicResult{tt.result},
			}, nil)

			got := newTestEngine(p).ResolveDeepLink(context.Background(), model.EntityQuery{Name: tt.entity}, "health.ny.gov", "")
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, got.Confidence, 0.001)
			assert.LessOrEqual(t, got.Confidence, 90.0)
		})
	}
}

func TestResolveDeepLink_SiblingHostRejected(t *testing.T) {
	p := &mockProvider{}
	p.On("Search", mock.Anything, clinicQuery, DefaultSearchNum).Return(&model.SearchResponse{
		Organic: []model.OrganicResult{
			{Link: "https://www.dot.ny.gov/sunrise-family-clinic", Title: "Sunrise Family Clinic", Position: 1},
			{Link: "https://ny.gov/sunrise-family-clinic", Title: "Sunrise Family Clinic", Position: 2},
			{Link: "https://apps.health.ny.gov/facilities/88", Title: "Facility 88", Position: 3},
		},
	}, nil)

	got := newTestEngine(p).ResolveDeepLink(context.Background(), clinic(), "health.ny.gov", "")
	require.NotNil(t, got)
	assert.Equal(t, "https://apps.health.ny.gov/facilities/88", got.Domain)
}

func TestOnPortal(t *testing.T) {
	assert.True(t, onPortal("https://www.health.ny.gov/a", "health.ny.gov"))
	assert.True(t, onPortal("https://profiles.health.ny.gov/a", "health.ny.gov"))
	assert.False(t, onPortal("https://dot.ny.gov/a", "health.ny.gov"))
	assert.False(t, onPortal("https://myhealth.ny.gov/a", "health.ny.gov"))
}

func TestResolveDeepLink_TieBrokenByPosition(t *testing.T) {
	p := &mockProvider{}
	p.On("Search", mock.Anything, clinicQuery, DefaultSearchNum).Return(&model.SearchResponse{
		Organic: []model.OrganicResult{
			{Link: "https://www.health.ny.gov/facilities/b", Title: "Facility B", Position: 5},
			{Link: "https://www.health.ny.gov/facilities/a", Title: "Facility A", Position: 2},
		},
	}, nil)

	got := newTestEngine(p).ResolveDeepLink(context.Background(), clinic(), "health.ny.gov", "")
	require.NotNil(t, got)
	assert.Equal(t, "https://www.health.ny.gov/facilities/a", got.Domain)
	assert.InDelta(t, 60, got.Confidence, 0.001)
}

func TestResolveDeepLink_NoneSurvive(t *testing.T) {
	p := &mockProvider{}
	p.On("Search", mock.Anything, clinicQuery, DefaultSearchNum).Return(&model.SearchResponse{
		Organic: []model.OrganicResult{
			{Link: "https://www.health.ny.gov/index.html", Title: "Sunrise Family Clinic", Position: 1},
			{Link: "https://sunriseclinic.org/about", Title: "Sunrise Family Clinic", Position: 2},
		},
	}, nil)

	assert.Nil(t, newTestEngine(p).ResolveDeepLink(context.Background(), clinic(), "health.ny.gov", ""))
}

func TestResolveDeepLink_HintAndErrors(t *testing.T) {
	p := &mockProvider{}
	p.On("Search", mock.Anything, "sunrise clinic license lookup", DefaultSearchNum).Return(nil, errors.New("boom"))

	e := newTestEngine(p)
	assert.Nil(t, e.ResolveDeepLink(context.Background(), clinic(), "health.ny.gov", "sunrise clinic license lookup"))
	assert.Nil(t, e.ResolveDeepLink(context.Background(), clinic(), "not a domain", ""))
	assert.Nil(t, e.ResolveDeepLink(context.Background(), model.EntityQuery{}, "health.ny.gov", ""))
	p.AssertNumberOfCalls(t, "Search", 1)
}

func TestIsTrivialPath(t *testing.T) {
	for _, p := range []string{"", "/", "/index.html", "/Home/", "/default.aspx"} {
		assert.True(t, isTrivialPath(p), p)
	}
	for _, p := range []string{"/facilities/123", "/home/clinics"} {
		assert.False(t, isTrivialPath(p), p)
	}
}
