package scorer

import (
	"strings"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
)

// DefaultParkingPhrases is marketplace and registrar boilerplate found on
// parked or for-sale domains.
var DefaultParkingPhrases = []string{
	"domain is for sale",
	"domain may be for sale",
	"domain for sale",
	"buy this domain",
	"make an offer on this domain",
	"inquire about this domain",
	"this domain is parked",
	"parked free",
	"parked domain",
	"domain parking",
	"the domain name has expired",
	"this domain has expired",
	"is available for purchase",
	"hugedomains",
	"get this domain",
	"renew this domain",
	"related searches",
}

// DefaultParkingHosts are marketplaces and parking networks.
var DefaultParkingHosts = []string{
	"hugedomains.com", "sedo.com", "sedoparking.com", "dan.com", "afternic.com",
	"bodis.com", "parkingcrew.net", "above.com", "undeveloped.com",
}

// ParkingDetector flags parked or placeholder pages from snippet text and URL.
type ParkingDetector struct {
	phrases []string
	hosts   *normalize.Blacklist
}

// NewParkingDetector builds a detector from phrase and host lists.
func NewParkingDetector(phrases, hosts []string) *ParkingDetector {
	d := &ParkingDetector{hosts: normalize.NewBlacklist(hosts...)}
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			d.phrases = append(d.phrases, p)
		}
	}
	return d
}

var defaultParking = NewParkingDetector(DefaultParkingPhrases, DefaultParkingHosts)

// DetectParking reports whether text carries parking boilerplate.
func DetectParking(text string) bool {
	return defaultParking.IsParked("", text)
}

// IsParked reports whether the URL is on a parking network or the text
// carries parking boilerplate.
func (d *ParkingDetector) IsParked(rawURL, text string) bool {
	if d == nil {
		return false
	}
	if rawURL != "" && d.hosts.Contains(rawURL) {
		return true
	}
	if text == "" {
		return false
	}
	lower := strings.ToLower(strings.Join(strings.Fields(text), " "))
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
