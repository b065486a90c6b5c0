package model

// SiteType labels the government/portal class of a domain.
type SiteType string

const (
	SiteTypeFederalOversight SiteType = "federal_oversight"
	SiteTypeStateGov         SiteType = "state_gov"
	SiteTypeCountyPortal     SiteType = "county_portal"
	SiteTypeNone             SiteType = "none"
)

// SiteClassification is derived from a hostname alone.
type SiteClassification struct {
	IsFederalOversight bool     `json:"is_federal_oversight"`
	IsStateGov         bool     `json:"is_state_gov"`
	IsCountyPortal     bool     `json:"is_county_portal"`
	SiteType           SiteType `json:"site_type"`
	Confidence         float64  `json:"confidence"`
}

// IsPortal reports whether the site is a state or county portal, i.e. a
// candidate for deep-link resolution.
func (c SiteClassification) IsPortal() bool {
	return c.IsStateGov || c.IsCountyPortal
}
