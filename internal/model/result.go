package model

// Method identifies the signal that drove a score.
type Method string

const (
	MethodKnowledgeGraph Method = "knowledge_graph"
	MethodPhoneVerified  Method = "phone_verified"
	MethodNameMatched    Method = "name_matched"
	MethodNameSimilarity Method = "name_similarity"
	MethodDeepLink       Method = "deep_link"
)

// Source identifies the waterfall stage that produced a result.
type Source string

const (
	SourceGooglePlaces   Source = "google_places"
	SourceGoogleKG       Source = "google_kg"
	SourceSerperSearch   Source = "serper_search"
	SourceDeepLinkSearch Source = "deep_link_search"
)

// Candidate is one retrieved search result prior to scoring.
type Candidate struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
	Phone    string `json:"phone,omitempty"`
}

// ScoredCandidate is a candidate domain with its match score.
// Score is always in [0,100] and Method is set whenever Score > 0.
type ScoredCandidate struct {
	Domain  string         `json:"domain"`
	Score   float64        `json:"score"`
	Method  Method         `json:"method,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ResolutionResult is the output of one waterfall or deep-link invocation.
// Domain holds a full URL when IsDeepLink is set.
type ResolutionResult struct {
	Domain       string         `json:"domain"`
	Confidence   float64        `json:"confidence"`
	Source       Source         `json:"source"`
	Method       Method         `json:"method"`
	Details      map[string]any `json:"details,omitempty"`
	IsDeepLink   bool           `json:"is_deep_link,omitempty"`
	PortalDomain string         `json:"portal_domain,omitempty"`
}

// Resolution is a waterfall result after the acceptance policy has been
// applied: oversight sites are rejected and portals routed to deep links.
type Resolution struct {
	Query          EntityQuery        `json:"query"`
	Result         *ResolutionResult  `json:"result,omitempty"`
	Classification SiteClassification `json:"classification"`
	Rejected       bool               `json:"rejected"`
	RejectReason   string             `json:"reject_reason,omitempty"`
	PortalResult   *ResolutionResult  `json:"portal_result,omitempty"`
}

// ClampScore bounds a score to [0,100].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
