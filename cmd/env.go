package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/config"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/fetcher"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/resilience"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/resolver"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/scorer"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/scrape"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/siteclass"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/store"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/verify"
	anthropicpkg "github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/anthropic"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/firecrawl"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/google"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/jina"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/serper"
)

// retryConfig converts the configured retry policy.
func retryConfig(c *config.Config) resilience.RetryConfig {
	return resilience.NewRetryConfig(
		c.Retry.MaxAttempts,
		time.Duration(c.Retry.InitialBackoffMs)*time.Millisecond,
		time.Duration(c.Retry.MaxBackoffMs)*time.Millisecond,
	)
}

func newBreaker(c *config.Config, name string) *resilience.Breaker {
	return resilience.NewBreaker(name, c.Breaker.Threshold, time.Duration(c.Breaker.CooldownSecs)*time.Second)
}

// orDefault returns list unless it is nil.
func orDefault(list, def []string) []string {
	if list == nil {
		return def
	}
	return list
}

// buildProvider returns the search provider selected by search.places_provider.
func buildProvider(c *config.Config) resolver.SearchProvider {
	sc := serper.NewClient(c.Serper.Key,
		serper.WithBaseURL(c.Serper.BaseURL),
		serper.WithRateLimit(c.Serper.RateLimit, c.Serper.Burst),
		serper.WithRetry(retryConfig(c)),
		serper.WithBreaker(newBreaker(c, "serper")),
	)
	web := resolver.NewSerperProvider(sc, c.Serper.Country)
	if c.Search.PlacesProvider != "google" {
		return web
	}
	gc := google.NewClient(c.Google.Key,
		google.WithBaseURL(c.Google.BaseURL),
		google.WithMaxResults(c.Google.MaxResults),
		google.WithRetry(retryConfig(c)),
	)
	return resolver.NewGooglePlacesProvider(gc, web)
}

// buildEngine wires the resolution engine from configuration and the
// optional lists file.
func buildEngine(c *config.Config, provider resolver.SearchProvider) (*resolver.Engine, error) {
	lists, err := config.LoadLists(c.Resolver.ListsFile)
	if err != nil {
		return nil, err
	}

	names := normalize.NewNormalizer(orDefault(lists.StopWords, normalize.DefaultStopWords))
	parking := scorer.NewParkingDetector(
		orDefault(lists.ParkingPhrases, scorer.DefaultParkingPhrases),
		orDefault(lists.ParkingHosts, scorer.DefaultParkingHosts),
	)
	sc := scorer.New(
		scorer.WithNormalizer(names),
		scorer.WithParkingDetector(parking),
		scorer.WithWeights(scorer.Weights{
			Domain:           c.Scorer.Domain,
			Title:            c.Scorer.Title,
			Phone:            c.Scorer.Phone,
			Context:          c.Scorer.Context,
			SnippetName:      c.Scorer.SnippetName,
			NameOnlyCeiling:  c.Scorer.NameOnlyCeiling,
			MaxScore:         c.Scorer.MaxScore,
			StrongSimilarity: c.Scorer.StrongSimilarity,
			PhoneDigits:      c.Resolver.PhoneDigits,
		}),
	)

	r := c.Resolver
	return resolver.New(provider,
		resolver.WithScorer(sc),
		resolver.WithNormalizer(names),
		resolver.WithBlacklist(normalize.NewBlacklist(orDefault(lists.Blacklist, normalize.DefaultBlacklist)...)),
		resolver.WithClassifier(siteclass.NewClassifier(orDefault(lists.OversightDomains, siteclass.DefaultOversightDomains))),
		resolver.WithAutoAcceptThreshold(r.AutoAcceptThreshold),
		resolver.WithNameMatchThreshold(r.NameMatchThreshold),
		resolver.WithPhoneVerifiedScore(r.PhoneVerifiedScore),
		resolver.WithKnowledgeGraphScore(r.KnowledgeGraphScore),
		resolver.WithMaxPlaces(r.MaxPlaces),
		resolver.WithMaxOrganic(r.MaxOrganic),
		resolver.WithSearchNum(r.SearchNum),
		resolver.WithPhoneDigits(r.PhoneDigits),
		resolver.WithStageTimeout(r.StageTimeout()),
	), nil
}

// initEngine builds the engine with the configured live provider.
func initEngine() (*resolver.Engine, error) {
	return buildEngine(cfg, buildProvider(cfg))
}

// initVerifier builds the verifier and its page reader.
func initVerifier(c *config.Config) (*verify.Verifier, verify.PageReader) {
	var aopts []anthropicpkg.Option
	if c.Anthropic.BaseURL != "" {
		aopts = append(aopts, anthropicpkg.WithBaseURL(c.Anthropic.BaseURL))
	}
	if c.Retry.MaxAttempts > 0 {
		aopts = append(aopts, anthropicpkg.WithMaxRetries(c.Retry.MaxAttempts))
	}
	v := verify.New(anthropicpkg.NewClient(c.Anthropic.Key, aopts...),
		verify.WithModel(c.Anthropic.Model),
		verify.WithMaxTokens(c.Anthropic.MaxTokens),
		verify.WithMaxPageChars(c.Anthropic.MaxPageChars),
	)
	return v, pageReader(c)
}

// pageReader builds the scrape chain used for verification: a direct fetch
// first, then Jina and Firecrawl when keys are configured.
func pageReader(c *config.Config) verify.PageReader {
	scrapers := []scrape.Scraper{
		scrape.NewLocalScraper(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Retry: retryConfig(c)})),
	}
	if c.Jina.Key != "" {
		scrapers = append(scrapers, scrape.NewJinaAdapter(jina.NewClient(c.Jina.Key,
			jina.WithBaseURL(c.Jina.BaseURL),
			jina.WithRetry(retryConfig(c)),
		)))
	}
	if c.Firecrawl.Key != "" {
		scrapers = append(scrapers, scrape.NewFirecrawlAdapter(firecrawl.NewClient(c.Firecrawl.Key,
			firecrawl.WithBaseURL(c.Firecrawl.BaseURL),
			firecrawl.WithRetry(retryConfig(c)),
		)))
	}
	return scrape.NewChain(nil, scrapers...)
}

// initStore opens the configured result store.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// entityFlags binds the entity query flags shared by several commands.
type entityFlags struct {
	name, city, state, phone, context string
}

func (f *entityFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "organization name (required)")
	cmd.Flags().StringVar(&f.city, "city", "", "city")
	cmd.Flags().StringVar(&f.state, "state", "", "state")
	cmd.Flags().StringVar(&f.phone, "phone", "", "known phone number")
	cmd.Flags().StringVar(&f.context, "context", "", "free-text context (e.g. industry)")
	_ = cmd.MarkFlagRequired("name")
}

func (f *entityFlags) query() model.EntityQuery {
	return model.EntityQuery{Name: f.name, City: f.city, State: f.state, Phone: f.phone, Context: f.context}
}
