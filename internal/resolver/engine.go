// Package resolver maps an entity description to its authoritative web
// domain through a places lookup followed by a web search, and finds
// entity-specific pages inside government portals.
package resolver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/scorer"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/siteclass"
)

// Defaults for the waterfall thresholds and fixed confidences.
const (
	DefaultAutoAcceptThreshold = 85.0
	DefaultNameMatchThreshold  = 85.0
	DefaultPhoneVerifiedScore  = 75.0
	DefaultKnowledgeGraphScore = 98.0
	DefaultMaxPlaces           = 3
	DefaultMaxOrganic          = 5
	DefaultSearchNum           = 10
	DefaultStageTimeout        = 20 * time.Second

	deepLinkBase        = 60.0
	deepLinkPerLocation = 10.0
)

// Engine runs resolutions. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	provider   SearchProvider
	scorer     *scorer.Scorer
	blacklist  *normalize.Blacklist
	classifier *siteclass.Classifier
	names      *normalize.Normalizer
	log        *zap.Logger

	autoAccept    float64
	nameMatch     float64
	phoneVerified float64
	kgScore       float64
	maxPlaces     int
	maxOrganic    int
	searchNum     int
	phoneDigits   int
	stageTimeout  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithAutoAcceptThreshold sets the places confidence that skips web search.
func WithAutoAcceptThreshold(v float64) Option {
	return func(e *Engine) { e.autoAccept = v }
}

// WithNameMatchThreshold sets the scorer cutoff for accepting a place by name.
func WithNameMatchThreshold(v float64) Option {
	return func(e *Engine) { e.nameMatch = v }
}

// WithPhoneVerifiedScore sets the confidence of a phone-verified place.
func WithPhoneVerifiedScore(v float64) Option {
	return func(e *Engine) { e.phoneVerified = v }
}

// WithKnowledgeGraphScore sets the confidence of a knowledge-panel website.
func WithKnowledgeGraphScore(v float64) Option {
	return func(e *Engine) { e.kgScore = v }
}

// WithBlacklist replaces the default directory/social blacklist.
func WithBlacklist(b *normalize.Blacklist) Option {
	return func(e *Engine) {
		if b != nil {
			e.blacklist = b
		}
	}
}

// WithScorer replaces the default candidate scorer.
func WithScorer(s *scorer.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithClassifier replaces the default site classifier.
func WithClassifier(c *siteclass.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithNormalizer sets the name normalizer used for deep-link word matching.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.names = n
		}
	}
}

// WithMaxPlaces sets how many place listings are examined.
func WithMaxPlaces(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPlaces = n
		}
	}
}

// WithMaxOrganic sets how many organic results are scored.
func WithMaxOrganic(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxOrganic = n
		}
	}
}

// WithSearchNum sets the number of web results requested.
func WithSearchNum(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.searchNum = n
		}
	}
}

// WithPhoneDigits sets the trailing digits compared for phone verification.
func WithPhoneDigits(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.phoneDigits = n
		}
	}
}

// WithStageTimeout bounds each provider call. Zero disables the bound.
func WithStageTimeout(d time.Duration) Option {
	return func(e *Engine) { e.stageTimeout = d }
}

// WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Engine over provider.
func New(provider SearchProvider, opts ...Option) *Engine {
	e := &Engine{
		provider:      provider,
		scorer:        scorer.New(),
		blacklist:     normalize.NewBlacklist(normalize.DefaultBlacklist...),
		classifier:    siteclass.NewClassifier(siteclass.DefaultOversightDomains),
		names:         normalize.NewNormalizer(normalize.DefaultStopWords),
		log:           zap.L(),
		autoAccept:    DefaultAutoAcceptThreshold,
		nameMatch:     DefaultNameMatchThreshold,
		phoneVerified: DefaultPhoneVerifiedScore,
		kgScore:       DefaultKnowledgeGraphScore,
		maxPlaces:     DefaultMaxPlaces,
		maxOrganic:    DefaultMaxOrganic,
		searchNum:     DefaultSearchNum,
		phoneDigits:   normalize.DefaultPhoneDigits,
		stageTimeout:  DefaultStageTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ClassifySite classifies a domain or URL with the engine's classifier.
func (e *Engine) ClassifySite(domain string) model.SiteClassification {
	return e.classifier.Classify(domain)
}

func (e *Engine) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.stageTimeout)
}

// placesSearch calls the provider and logs failures; a failure yields nil.
func (e *Engine) placesSearch(ctx context.Context, query string) *model.PlacesResponse {
	ctx, cancel := e.stageContext(ctx)
	defer cancel()

	resp, err := e.provider.PlacesSearch(ctx, query)
	if err != nil {
		e.log.Warn("resolver: places search failed",
			zap.String("stage", "places"),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return resp
}

// webSearch calls the provider and logs failures; a failure yields nil.
func (e *Engine) webSearch(ctx context.Context, stage, query string) *model.SearchResponse {
	ctx, cancel := e.stageContext(ctx)
	defer cancel()

	resp, err := e.provider.Search(ctx, query, e.searchNum)
	if err != nil {
		e.log.Warn("resolver: web search failed",
			zap.String("stage", stage),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return resp
}
