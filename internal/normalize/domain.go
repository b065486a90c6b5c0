package normalize

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// CleanDomain extracts the registrable domain (name.suffix) from any URL form.
// It returns "" when the host has no public-suffix-recognizable structure.
func CleanDomain(rawURL string) string {
	host := Hostname(rawURL)
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann && !strings.Contains(suffix, ".") {
		return ""
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return etld1
}

// Hostname returns the lower-cased host of rawURL, accepting bare hostnames.
func Hostname(rawURL string) string {
	u := parseLoose(rawURL)
	if u == nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

// URLPath returns the path of rawURL ("" when unparseable).
func URLPath(rawURL string) string {
	u := parseLoose(rawURL)
	if u == nil {
		return ""
	}
	return u.Path
}

// DomainLabel returns the registrable domain without its public suffix,
// e.g. "acme-plumbing" for "https://www.acme-plumbing.com/contact".
func DomainLabel(rawURL string) string {
	d := CleanDomain(rawURL)
	if d == "" {
		return ""
	}
	suffix, _ := publicsuffix.PublicSuffix(d)
	return strings.TrimSuffix(d, "."+suffix)
}

func parseLoose(rawURL string) *url.URL {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, "://") {
		s = "http://" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	return u
}
