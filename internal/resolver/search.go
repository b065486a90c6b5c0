package resolver

import (
	"context"
	"sort"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/scorer"
)

type organicCandidate struct {
	result model.OrganicResult
	scored model.ScoredCandidate
	raw    float64
}

// ResolveViaSearch runs an official-site web search for q. A knowledge-panel
// website wins outright; otherwise the best-scoring organic result is
// returned, whatever its score. Organic results without phone evidence are
// capped below the phone-verified place score. It returns nil when nothing
// survives filtering or the provider fails.
func (e *Engine) ResolveViaSearch(ctx context.Context, q model.EntityQuery) *model.ResolutionResult {
	query := normalize.CreateSearchQuery(q.Name, q.City, q.Context, normalize.QueryOfficial)
	resp := e.webSearch(ctx, "search", query)
	if resp == nil {
		return nil
	}

	if kg := resp.KnowledgeGraph; kg != nil && kg.Website != "" && !e.blacklist.Contains(kg.Website) {
		if domain := normalize.CleanDomain(kg.Website); domain != "" {
			return &model.ResolutionResult{
				Domain:     domain,
				Confidence: e.kgScore,
				Source:     model.SourceGoogleKG,
				Method:     model.MethodKnowledgeGraph,
				Details: map[string]any{
					"kg_title": kg.Title,
					"kg_type":  kg.Type,
					"query":    query,
				},
			}
		}
	}

	ceiling := e.organicCeiling()
	var candidates []organicCandidate
	for i, r := range resp.Organic {
		if i >= e.maxOrganic {
			break
		}
		if r.Link == "" || e.blacklist.Contains(r.Link) {
			continue
		}
		sc := e.scorer.Score(scorer.Input{
			EntityName: q.Name,
			URL:        r.Link,
			Title:      r.Title,
			Snippet:    r.Snippet,
			Context:    q.Context,
			Phone:      q.Phone,
		})
		if sc.Domain == "" || sc.Details["parked"] == true {
			continue
		}
		raw := sc.Score
		if sc.Method != model.MethodPhoneVerified && sc.Score > ceiling {
			sc.Score = ceiling
			sc.Details["uncapped_score"] = raw
		}
		candidates = append(candidates, organicCandidate{result: r, scored: sc, raw: raw})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.scored.Score != b.scored.Score {
			return a.scored.Score > b.scored.Score
		}
		return a.raw > b.raw
	})

	best := candidates[0]
	method := best.scored.Method
	if method == "" {
		method = model.MethodNameSimilarity
	}
	details := best.scored.Details
	details["title"] = best.result.Title
	details["position"] = best.result.Position
	details["candidates"] = len(candidates)
	details["query"] = query
	return &model.ResolutionResult{
		Domain:     best.scored.Domain,
		Confidence: best.scored.Score,
		Source:     model.SourceSerperSearch,
		Method:     method,
		Details:    details,
	}
}

// organicCeiling is the highest confidence an organic result without phone
// evidence may carry: the scorer's name-only ceiling, kept strictly below the
// phone-verified place score.
func (e *Engine) organicCeiling() float64 {
	ceiling := e.scorer.Weights().NameOnlyCeiling
	if ceiling >= e.phoneVerified {
		ceiling = e.phoneVerified - 1
	}
	return max(ceiling, 0)
}
