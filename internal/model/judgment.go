package model

// ParseMode records how a verification response was decoded.
type ParseMode string

const (
	ParseModeStrict   ParseMode = "strict"
	ParseModeFallback ParseMode = "fallback"
	ParseModeFailed   ParseMode = "failed"
)

// VerificationJudgment is the semantic verifier's verdict on a candidate page.
// The red-flag booleans are independent; several may be true at once.
type VerificationJudgment struct {
	Match                     bool      `json:"match"`
	Confidence                int       `json:"confidence"`
	Evidence                  string    `json:"evidence"`
	IsParentCompany           bool      `json:"is_parent_company"`
	IsDirectorySite           bool      `json:"is_directory_site"`
	IsGovernmentOversightSite bool      `json:"is_government_oversight_site"`
	IsGovernmentPortal        bool      `json:"is_government_portal"`
	NeedsDeepLink             bool      `json:"needs_deep_link"`
	SuggestedDeepLinkSearch   string    `json:"suggested_deep_link_search,omitempty"`
	ParseMode                 ParseMode `json:"parse_mode,omitempty"`
}
