package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

// Resolve runs the places stage and, unless it is confident enough, the web
// search stage, returning the higher-confidence result. Places wins ties.
// The only error is model.ErrMissingName; provider failures yield nil.
func (e *Engine) Resolve(ctx context.Context, q model.EntityQuery) (*model.ResolutionResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	places := e.ResolveViaPlaces(ctx, q)
	if places != nil && places.Confidence >= e.autoAccept {
		e.logResult(q, places)
		return places, nil
	}

	search := e.ResolveViaSearch(ctx, q)

	best := places
	if best == nil || (search != nil && search.Confidence > best.Confidence) {
		best = search
	}
	e.logResult(q, best)
	return best, nil
}

// ResolveWithPolicy resolves q and applies the acceptance policy: federal
// oversight sites are rejected, and state or county portals are replaced by
// an entity-specific deep link when one can be found.
func (e *Engine) ResolveWithPolicy(ctx context.Context, q model.EntityQuery) (model.Resolution, error) {
	out := model.Resolution{
		Query:          q,
		Classification: model.SiteClassification{SiteType: model.SiteTypeNone},
	}
	res, err := e.Resolve(ctx, q)
	if err != nil {
		return out, err
	}
	if res == nil {
		return out, nil
	}

	out.Classification = e.classifier.Classify(res.Domain)
	switch {
	case out.Classification.IsFederalOversight:
		out.Rejected = true
		out.RejectReason = "federal oversight site: " + res.Domain
		e.log.Info("resolver: rejected oversight site",
			zap.String("entity", q.Name),
			zap.String("domain", res.Domain),
		)
	case out.Classification.IsPortal():
		out.PortalResult = res
		out.Result = res
		if dl := e.ResolveDeepLink(ctx, q, res.Domain, ""); dl != nil {
			out.Result = dl
		}
	default:
		out.Result = res
	}
	return out, nil
}

func (e *Engine) logResult(q model.EntityQuery, res *model.ResolutionResult) {
	if res == nil {
		e.log.Info("resolver: no domain found", zap.String("entity", q.Name), zap.String("city", q.City))
		return
	}
	e.log.Info("resolver: resolved",
		zap.String("entity", q.Name),
		zap.String("domain", res.Domain),
		zap.Float64("confidence", res.Confidence),
		zap.String("source", string(res.Source)),
		zap.String("method", string(res.Method)),
	)
}
