package model

// Place is a single map/place listing.
type Place struct {
	Title       string `json:"title"`
	Website     string `json:"website,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// PlacesResponse is the typed result of a places query.
type PlacesResponse struct {
	Places []Place `json:"places"`
}

// KnowledgeGraph is the provider's curated entity panel.
type KnowledgeGraph struct {
	Title   string `json:"title,omitempty"`
	Type    string `json:"type,omitempty"`
	Website string `json:"website,omitempty"`
}

// OrganicResult is one ranked web result.
type OrganicResult struct {
	Link     string `json:"link"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// SearchResponse is the typed result of a web search.
type SearchResponse struct {
	KnowledgeGraph *KnowledgeGraph `json:"knowledge_graph,omitempty"`
	Organic        []OrganicResult `json:"organic"`
}
