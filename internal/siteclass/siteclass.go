// Package siteclass detects government-oversight, state-government and
// county/municipal portal domains from the hostname alone. It never performs
// I/O, so results can be cached indefinitely.
package siteclass

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
)

// Tier confidences.
const (
	FederalOversightConfidence = 0.95
	StateGovConfidence         = 0.85
	CountyPortalConfidence     = 0.75
	OtherGovConfidence         = 0.60
)

// DefaultOversightDomains lists national oversight and registry sites that
// describe organizations without being their own site.
var DefaultOversightDomains = []string{
	"hrsa.gov", "cms.gov", "medicare.gov", "medicaid.gov", "hhs.gov", "cdc.gov",
	"nih.gov", "fda.gov", "samhsa.gov", "va.gov", "irs.gov", "sec.gov", "ftc.gov",
	"dol.gov", "osha.gov", "epa.gov", "usda.gov", "ed.gov", "hud.gov", "sba.gov",
	"fdic.gov", "ncua.gov", "sam.gov", "grants.gov", "usaspending.gov",
	"census.gov", "bls.gov", "healthdata.gov", "data.gov", "finra.org",
	"guidestar.org", "candid.org", "charitynavigator.org", "propublica.org",
}

const stateCodes = `al|ak|az|ar|ca|co|ct|de|dc|fl|ga|hi|id|il|in|ia|ks|ky|la|me|md|ma|mi|mn|ms|mo|mt|ne|nv|nh|nj|nm|ny|nc|nd|oh|ok|or|pa|ri|sc|sd|tn|tx|ut|vt|va|wa|wv|wi|wy`

const stateNames = `alabama|alaska|arizona|arkansas|california|colorado|connecticut|delaware|florida|georgia|hawaii|idaho|illinois|indiana|iowa|kansas|kentucky|louisiana|maine|maryland|massachusetts|mass|michigan|minnesota|mississippi|missouri|montana|nebraska|nevada|newhampshire|newjersey|newmexico|newyork|northcarolina|northdakota|ohio|oklahoma|oregon|pennsylvania|rhodeisland|southcarolina|southdakota|tennessee|texas|utah|vermont|virginia|washington|westvirginia|wisconsin|wyoming`

// statePatterns match state-government hostnames: state-code .gov domains and
// their agency subdomains (health.ny.gov), full-name .gov domains
// (hhs.texas.gov) and the legacy state.<st>.us tree.
var statePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|\.)(` + stateCodes + `)\.gov$`),
	regexp.MustCompile(`(^|\.)(` + stateNames + `)\.gov$`),
	regexp.MustCompile(`(^|\.)state\.(` + stateCodes + `)\.us$`),
	regexp.MustCompile(`^(www\.)?(` + stateCodes + `)\.us$`),
}

var localKeywords = []string{"county", "parish", "borough", "city", "town", "village", "municipal"}

// strongKeywords may open a label on their own ("countyhealth"); the others
// need an "of" after them ("cityofboise").
var strongKeywords = map[string]bool{"county": true, "parish": true, "borough": true, "municipal": true}

// falseLocalHits are common words that end in a local keyword.
var falseLocalHits = map[string]struct{}{
	"electricity": {}, "velocity": {}, "publicity": {}, "capacity": {}, "simplicity": {},
	"authenticity": {}, "ethnicity": {}, "elasticity": {}, "felicity": {}, "scarcity": {},
	"specificity": {}, "toxicity": {}, "audacity": {}, "tenacity": {}, "veracity": {},
	"downtown": {}, "uptown": {}, "midtown": {}, "hometown": {}, "crosstown": {}, "motown": {},
}

var portalSuffixes = []string{".org", ".gov", ".us"}

const maxMemo = 10000

// Classifier classifies hostnames against an injected oversight list.
type Classifier struct {
	oversight []string
	memo      sync.Map
	memoSize  atomic.Int64
}

// NewClassifier builds a Classifier. Entries are canonicalised to lower case.
func NewClassifier(oversightDomains []string) *Classifier {
	c := &Classifier{}
	for _, d := range oversightDomains {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d != "" {
			c.oversight = append(c.oversight, d)
		}
	}
	return c
}

var defaultClassifier = NewClassifier(DefaultOversightDomains)

// DetectGovernmentSiteType classifies domain with the default oversight list.
func DetectGovernmentSiteType(domain string) model.SiteClassification {
	return defaultClassifier.Classify(domain)
}

// Classify runs the tiers in order; the first match wins.
func (c *Classifier) Classify(domain string) model.SiteClassification {
	host := normalize.Hostname(domain)
	if host == "" {
		return none()
	}
	if v, ok := c.memo.Load(host); ok {
		return v.(model.SiteClassification)
	}

	sc := c.classify(host)
	if c.memoSize.Load() < maxMemo {
		if _, loaded := c.memo.LoadOrStore(host, sc); !loaded {
			c.memoSize.Add(1)
		}
	}
	return sc
}

func (c *Classifier) classify(host string) model.SiteClassification {
	host = strings.TrimPrefix(host, "www.")

	for _, d := range c.oversight {
		if host == d || strings.HasSuffix(host, "."+d) {
			return model.SiteClassification{
				IsFederalOversight: true,
				SiteType:           model.SiteTypeFederalOversight,
				Confidence:         FederalOversightConfidence,
			}
		}
	}

	for _, re := range statePatterns {
		if re.MatchString(host) {
			return model.SiteClassification{
				IsStateGov: true,
				SiteType:   model.SiteTypeStateGov,
				Confidence: StateGovConfidence,
			}
		}
	}

	if hasPortalSuffix(host) && hasLocalKeyword(host) {
		return county(CountyPortalConfidence)
	}

	if strings.HasSuffix(host, ".gov") {
		return county(OtherGovConfidence)
	}

	return none()
}

// hasLocalKeyword reports whether a label of host (the TLD excluded), or a
// hyphen-separated word of one, starts or ends with a local-government
// keyword.
func hasLocalKeyword(host string) bool {
	labels := strings.Split(host, ".")
	for _, label := range labels[:len(labels)-1] {
		for _, word := range strings.Split(label, "-") {
			if isLocalWord(word) {
				return true
			}
		}
	}
	return false
}

func isLocalWord(word string) bool {
	if _, ok := falseLocalHits[word]; ok {
		return false
	}
	for _, kw := range localKeywords {
		if strings.HasSuffix(word, kw) || strings.HasPrefix(word, kw+"of") ||
			(strongKeywords[kw] && strings.HasPrefix(word, kw)) {
			return true
		}
	}
	return false
}

func hasPortalSuffix(host string) bool {
	for _, s := range portalSuffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}

func county(conf float64) model.SiteClassification {
	return model.SiteClassification{
		IsCountyPortal: true,
		SiteType:       model.SiteTypeCountyPortal,
		Confidence:     conf,
	}
}

func none() model.SiteClassification {
	return model.SiteClassification{SiteType: model.SiteTypeNone}
}
