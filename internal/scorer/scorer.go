// Package scorer rates how likely a candidate URL is the official website of
// a named entity, combining fuzzy name similarity with phone, context and
// snippet evidence.
package scorer

import (
	"math"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/normalize"
)

// Weights are the point budgets of each scoring signal.
type Weights struct {
	Domain            float64 `yaml:"domain" mapstructure:"domain"`
	Title             float64 `yaml:"title" mapstructure:"title"`
	Phone             float64 `yaml:"phone" mapstructure:"phone"`
	Context           float64 `yaml:"context" mapstructure:"context"`
	SnippetName       float64 `yaml:"snippet_name" mapstructure:"snippet_name"`
	NameOnlyCeiling   float64 `yaml:"name_only_ceiling" mapstructure:"name_only_ceiling"`
	MaxScore          float64 `yaml:"max_score" mapstructure:"max_score"`
	StrongSimilarity  float64 `yaml:"strong_similarity" mapstructure:"strong_similarity"`
	ContextWordMinLen int     `yaml:"context_word_min_len" mapstructure:"context_word_min_len"`
	PhoneDigits       int     `yaml:"phone_digits" mapstructure:"phone_digits"`
}

// DefaultWeights returns the production weights. A name-only candidate tops
// out at 70 and any heuristic score at 95, below the fixed phone-verified
// (75) and knowledge-panel (98) confidences.
func DefaultWeights() Weights {
	return Weights{
		Domain:            60,
		Title:             25,
		Phone:             15,
		Context:           5,
		SnippetName:       5,
		NameOnlyCeiling:   70,
		MaxScore:          95,
		StrongSimilarity:  0.85,
		ContextWordMinLen: 3,
		PhoneDigits:       normalize.DefaultPhoneDigits,
	}
}

// Input is one candidate to score against an entity.
type Input struct {
	EntityName     string
	URL            string
	Title          string
	Snippet        string
	Context        string
	Phone          string
	CandidatePhone string
}

// Scorer scores candidates. It is safe for concurrent use.
type Scorer struct {
	weights Weights
	names   *normalize.Normalizer
	parking *ParkingDetector
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the signal weights. Zero fields keep their defaults.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		d := &s.weights
		setIf(&d.Domain, w.Domain)
		setIf(&d.Title, w.Title)
		setIf(&d.Phone, w.Phone)
		setIf(&d.Context, w.Context)
		setIf(&d.SnippetName, w.SnippetName)
		setIf(&d.NameOnlyCeiling, w.NameOnlyCeiling)
		setIf(&d.MaxScore, w.MaxScore)
		setIf(&d.StrongSimilarity, w.StrongSimilarity)
		if w.ContextWordMinLen > 0 {
			d.ContextWordMinLen = w.ContextWordMinLen
		}
		if w.PhoneDigits > 0 {
			d.PhoneDigits = w.PhoneDigits
		}
	}
}

// WithNormalizer sets the company-name normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Scorer) {
		if n != nil {
			s.names = n
		}
	}
}

// WithParkingDetector sets the parked-page detector.
func WithParkingDetector(d *ParkingDetector) Option {
	return func(s *Scorer) {
		if d != nil {
			s.parking = d
		}
	}
}

// New creates a Scorer with default weights, stop words and parking lists.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights: DefaultWeights(),
		names:   normalize.NewNormalizer(normalize.DefaultStopWords),
		parking: defaultParking,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Weights returns the effective weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Score rates in. The result's Score is in [0,100]; a parked page or a URL
// without a registrable domain scores 0 with no method.
func (s *Scorer) Score(in Input) model.ScoredCandidate {
	w := s.weights
	domain := normalize.CleanDomain(in.URL)
	out := model.ScoredCandidate{
		Domain:  domain,
		Details: map[string]any{},
	}
	if domain == "" {
		out.Details["reason"] = "no_domain"
		return out
	}
	if s.parking.IsParked(in.URL, in.Title+" "+in.Snippet) {
		out.Details["parked"] = true
		return out
	}

	tokens := s.names.Tokens(in.EntityName)
	domainSim := domainSimilarity(tokens, normalize.DomainLabel(domain))
	titleSim := 0.0
	if in.Title != "" {
		titleSim = titleSimilarity(tokens, s.names.Tokens(in.Title))
	}

	score := w.Domain*domainSim + w.Title*titleSim

	phoneMatched := s.phoneMatches(in)
	if phoneMatched {
		score += w.Phone
	}

	evidence := strings.ToLower(in.Title + " " + in.Snippet)
	contextMatched := false
	if in.Context != "" {
		for _, word := range s.names.SignificantWords(in.Context, w.ContextWordMinLen) {
			if strings.Contains(evidence, word) {
				contextMatched = true
				break
			}
		}
	}
	if contextMatched {
		score += w.Context
	}

	snippetName := false
	if name := strings.Join(tokens, " "); name != "" && in.Snippet != "" {
		snippetName = strings.Contains(" "+s.names.Name(in.Snippet)+" ", " "+name+" ")
	}
	if snippetName {
		score += w.SnippetName
	}

	switch {
	case phoneMatched:
		out.Method = model.MethodPhoneVerified
	case domainSim >= w.StrongSimilarity && titleSim >= w.StrongSimilarity:
		out.Method = model.MethodNameMatched
	default:
		out.Method = model.MethodNameSimilarity
		score = math.Min(score, w.NameOnlyCeiling)
	}
	score = math.Min(score, w.MaxScore)
	out.Score = model.ClampScore(math.Round(score*100) / 100)
	if out.Score == 0 {
		out.Method = ""
	}

	out.Details["domain_similarity"] = round3(domainSim)
	out.Details["title_similarity"] = round3(titleSim)
	out.Details["phone_matched"] = phoneMatched
	out.Details["context_matched"] = contextMatched
	out.Details["snippet_mentions_name"] = snippetName
	return out
}

func (s *Scorer) phoneMatches(in Input) bool {
	if normalize.PhoneDigits(in.Phone) == "" {
		return false
	}
	found := normalize.ExtractPhones(in.URL + " " + in.Title + " " + in.Snippet)
	if in.CandidatePhone != "" {
		found = append(found, in.CandidatePhone)
	}
	for _, p := range found {
		if normalize.PhoneFuzzyMatch(in.Phone, p, s.weights.PhoneDigits) {
			return true
		}
	}
	return false
}

// domainSimilarity compares the entity's name tokens against a domain label.
func domainSimilarity(tokens []string, label string) float64 {
	compact := strings.ReplaceAll(strings.Join(tokens, ""), "-", "")
	label = strings.ReplaceAll(label, "-", "")
	if compact == "" || label == "" {
		return 0
	}
	if compact == label {
		return 1
	}
	sim := levenshtein.Similarity(compact, label, nil)

	short, long := compact, label
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) >= 4 && strings.Contains(long, short) {
		sim = math.Max(sim, 0.7+0.3*float64(len(short))/float64(len(long)))
	}

	if len(tokens) >= 2 {
		var initials strings.Builder
		for _, t := range tokens {
			initials.WriteString(t[:1])
		}
		if initials.String() == label {
			sim = math.Max(sim, 0.85)
		}
	}

	var present, total int
	for _, t := range tokens {
		if len(t) < 3 {
			continue
		}
		total++
		if strings.Contains(label, t) {
			present++
		}
	}
	if total > 0 {
		sim = math.Max(sim, 0.9*float64(present)/float64(total))
	}
	return math.Min(sim, 1)
}

// titleSimilarity is the larger of the share of name tokens present in the
// title and the edit similarity of the joined token strings.
func titleSimilarity(name, title []string) float64 {
	if len(name) == 0 || len(title) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(title))
	for _, t := range title {
		set[t] = struct{}{}
	}
	hit := 0
	for _, t := range name {
		if _, ok := set[t]; ok {
			hit++
		}
	}
	coverage := float64(hit) / float64(len(name))
	edit := levenshtein.Similarity(strings.Join(name, " "), strings.Join(title, " "), nil)
	return math.Max(coverage, edit)
}

func setIf(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
