package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/scorer"
)

// ResolveViaPlaces examines the top place listings for q and returns the
// first whose website is confirmed by phone or by a strong name match.
// It returns nil when no listing qualifies or the provider fails.
func (e *Engine) ResolveViaPlaces(ctx context.Context, q model.EntityQuery) *model.ResolutionResult {
	query := normalize.CreateSearchQuery(q.Name, q.City, q.Context, normalize.QueryPlaces)
	resp := e.placesSearch(ctx, query)
	if resp == nil {
		return nil
	}

	for i, place := range resp.Places {
		if i >= e.maxPlaces {
			break
		}
		if place.Website == "" || e.blacklist.Contains(place.Website) {
			continue
		}
		domain := normalize.CleanDomain(place.Website)
		if domain == "" {
			continue
		}

		if q.Phone != "" && normalize.PhoneFuzzyMatch(q.Phone, place.PhoneNumber, e.phoneDigits) {
			return &model.ResolutionResult{
				Domain:     domain,
				Confidence: e.phoneVerified,
				Source:     model.SourceGooglePlaces,
				Method:     model.MethodPhoneVerified,
				Details: map[string]any{
					"place_title": place.Title,
					"place_phone": place.PhoneNumber,
					"rank":        i + 1,
					"query":       query,
				},
			}
		}

		sc := e.scorer.Score(scorer.Input{
			EntityName: q.Name,
			URL:        place.Website,
			Title:      place.Title,
			Context:    q.Context,
		})
		if sc.Score >= e.nameMatch {
			details := sc.Details
			details["place_title"] = place.Title
			details["rank"] = i + 1
			details["query"] = query
			return &model.ResolutionResult{
				Domain:     domain,
				Confidence: sc.Score,
				Source:     model.SourceGooglePlaces,
				Method:     model.MethodNameMatched,
				Details:    details,
			}
		}
		e.log.Debug("resolver: place rejected",
			zap.String("entity", q.Name),
			zap.String("place", place.Title),
			zap.String("domain", domain),
			zap.Float64("score", sc.Score),
		)
	}
	return nil
}
