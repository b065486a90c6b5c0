package normalize

import (
	"sort"
	"strings"
)

// DefaultBlacklist lists directory, social and aggregator domains that are
// never an organization's own site.
var DefaultBlacklist = []string{
	"yelp.com", "facebook.com", "linkedin.com", "instagram.com", "twitter.com",
	"x.com", "youtube.com", "tiktok.com", "pinterest.com", "wikipedia.org",
	"yellowpages.com", "superpages.com", "whitepages.com", "bbb.org", "manta.com",
	"mapquest.com", "bizapedia.com", "opencorporates.com", "zoominfo.com",
	"dnb.com", "crunchbase.com", "buzzfile.com", "chamberofcommerce.com",
	"angi.com", "angieslist.com", "homeadvisor.com", "thumbtack.com", "houzz.com",
	"nextdoor.com", "tripadvisor.com", "foursquare.com", "indeed.com",
	"glassdoor.com", "healthgrades.com", "vitals.com", "zocdoc.com", "webmd.com",
	"caring.com", "google.com", "apple.com", "bing.com", "amazon.com",
}

// Blacklist is an immutable set of registrable domains.
type Blacklist struct {
	domains map[string]struct{}
}

// NewBlacklist canonicalises entries to registrable domains. Entries that are
// not recognizable domains (e.g. a bare suffix like "gov") are kept verbatim
// and match as suffixes.
func NewBlacklist(entries ...string) *Blacklist {
	b := &Blacklist{domains: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		d := CleanDomain(e)
		if d == "" {
			d = strings.Trim(strings.ToLower(strings.TrimSpace(e)), ".")
		}
		if d != "" {
			b.domains[d] = struct{}{}
		}
	}
	return b
}

// Contains reports whether rawURL's registrable domain equals, or ends with,
// a blacklisted domain.
func (b *Blacklist) Contains(rawURL string) bool {
	if b == nil || len(b.domains) == 0 {
		return false
	}
	d := CleanDomain(rawURL)
	if d == "" {
		return false
	}
	if _, ok := b.domains[d]; ok {
		return true
	}
	for e := range b.domains {
		if strings.HasSuffix(d, "."+e) {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.domains)
}

// Entries returns the canonical entries in sorted order.
func (b *Blacklist) Entries() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.domains))
	for d := range b.domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// IsBlacklisted reports whether rawURL is covered by bl.
func IsBlacklisted(rawURL string, bl *Blacklist) bool {
	return bl.Contains(rawURL)
}
