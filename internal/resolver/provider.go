package resolver

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/google"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/serper"
)

// SearchProvider answers places and web-search queries with typed results.
// Implementations own retries and rate limiting.
type SearchProvider interface {
	PlacesSearch(ctx context.Context, query string) (*model.PlacesResponse, error)
	Search(ctx context.Context, query string, num int) (*model.SearchResponse, error)
}

// SerperProvider serves both query kinds from serper.dev.
type SerperProvider struct {
	client  serper.Client
	country string
}

// NewSerperProvider adapts a serper client. country is the "gl" parameter
// and may be empty.
func NewSerperProvider(client serper.Client, country string) *SerperProvider {
	return &SerperProvider{client: client, country: country}
}

// PlacesSearch implements SearchProvider.
func (p *SerperProvider) PlacesSearch(ctx context.Context, query string) (*model.PlacesResponse, error) {
	resp, err := p.client.Places(ctx, serper.PlacesRequest{Query: query, Country: p.country})
	if err != nil {
		return nil, err
	}
	out := &model.PlacesResponse{Places: make([]model.Place, 0, len(resp.Places))}
	for _, pl := range resp.Places {
		out.Places = append(out.Places, model.Place{
			Title:       pl.Title,
			Website:     pl.Website,
			PhoneNumber: pl.PhoneNumber,
			Address:     pl.Address,
		})
	}
	return out, nil
}

// Search implements SearchProvider.
func (p *SerperProvider) Search(ctx context.Context, query string, num int) (*model.SearchResponse, error) {
	resp, err := p.client.Search(ctx, serper.SearchRequest{Query: query, Num: num, Country: p.country})
	if err != nil {
		return nil, err
	}
	out := &model.SearchResponse{Organic: make([]model.OrganicResult, 0, len(resp.Organic))}
	if kg := resp.KnowledgeGraph; kg != nil {
		out.KnowledgeGraph = &model.KnowledgeGraph{Title: kg.Title, Type: kg.Type, Website: kg.Website}
	}
	for i, o := range resp.Organic {
		pos := o.Position
		if pos <= 0 {
			pos = i + 1
		}
		out.Organic = append(out.Organic, model.OrganicResult{
			Link:     o.Link,
			Title:    o.Title,
			Snippet:  o.Snippet,
			Position: pos,
		})
	}
	return out, nil
}

// GooglePlacesProvider serves places from the Google Places API and
// delegates web search to another provider.
type GooglePlacesProvider struct {
	places google.Client
	web    SearchProvider
}

// NewGooglePlacesProvider combines a Google Places client with a web-search
// provider.
func NewGooglePlacesProvider(places google.Client, web SearchProvider) *GooglePlacesProvider {
	return &GooglePlacesProvider{places: places, web: web}
}

// PlacesSearch implements SearchProvider.
func (p *GooglePlacesProvider) PlacesSearch(ctx context.Context, query string) (*model.PlacesResponse, error) {
	resp, err := p.places.TextSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &model.PlacesResponse{Places: make([]model.Place, 0, len(resp.Places))}
	for _, pl := range resp.Places {
		out.Places = append(out.Places, model.Place{
			Title:       pl.DisplayName.Text,
			Website:     pl.WebsiteURI,
			PhoneNumber: pl.Phone(),
			Address:     pl.FormattedAddress,
		})
	}
	return out, nil
}

// Search implements SearchProvider.
func (p *GooglePlacesProvider) Search(ctx context.Context, query string, num int) (*model.SearchResponse, error) {
	if p.web == nil {
		return nil, eris.New("resolver: no web search provider configured")
	}
	return p.web.Search(ctx, query, num)
}
