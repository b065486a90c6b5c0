package verify

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

var (
	fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

	matchRe      = boolFieldRe("match")
	confidenceRe = regexp.MustCompile(`(?i)"?confidence"?\s*[:=]\s*"?(\d{1,3}(?:\.\d+)?)`)
	evidenceRe   = stringFieldRe("evidence")
	suggestionRe = stringFieldRe("suggested_deep_link_search")

	flagRes = map[string]*regexp.Regexp{
		"is_parent_company":            boolFieldRe("is_parent_company"),
		"is_directory_site":            boolFieldRe("is_directory_site"),
		"is_government_oversight_site": boolFieldRe("is_government_oversight_site"),
		"is_government_portal":         boolFieldRe("is_government_portal"),
		"needs_deep_link":              boolFieldRe("needs_deep_link"),
	}
)

func boolFieldRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)"?\b` + name + `"?\s*[:=]\s*"?(true|false|yes|no)\b`)
}

func stringFieldRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)"?\b` + name + `"?\s*[:=]\s*"((?:[^"\\]|\\.)*)"`)
}

// ParseJudgment decodes a model response. It tries strict JSON first, then
// field-by-field extraction. When neither yields both match and confidence
// the judgment is a non-match at confidence 0 with ParseModeFailed.
func ParseJudgment(text string) model.VerificationJudgment {
	j, ok := parseStrict(text)
	if !ok {
		j, ok = parseFallback(text)
	}
	if !ok {
		return failed(fmt.Sprintf("unparseable verification response: %q", Truncate(strings.TrimSpace(text), 200)))
	}
	if !j.NeedsDeepLink {
		j.SuggestedDeepLinkSearch = ""
	}
	return j
}

func failed(evidence string) model.VerificationJudgment {
	return model.VerificationJudgment{Evidence: evidence, ParseMode: model.ParseModeFailed}
}

// cleanJSON strips markdown fences and surrounding prose.
func cleanJSON(text string) string {
	s := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func parseStrict(text string) (model.VerificationJudgment, bool) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(cleanJSON(text)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return model.VerificationJudgment{}, false
	}

	rawMatch, okMatch := raw["match"]
	rawConf, okConf := raw["confidence"]
	if !okMatch || !okConf {
		return model.VerificationJudgment{}, false
	}
	match, err := toBool(rawMatch)
	if err != nil {
		return model.VerificationJudgment{}, false
	}
	conf, err := cast.ToFloat64E(rawConf)
	if err != nil {
		return model.VerificationJudgment{}, false
	}

	flag := func(key string) bool {
		b, _ := toBool(raw[key])
		return b
	}
	return model.VerificationJudgment{
		Match:                     match,
		Confidence:                normalizeConfidence(conf),
		Evidence:                  cast.ToString(raw["evidence"]),
		IsParentCompany:           flag("is_parent_company"),
		IsDirectorySite:           flag("is_directory_site"),
		IsGovernmentOversightSite: flag("is_government_oversight_site"),
		IsGovernmentPortal:        flag("is_government_portal"),
		NeedsDeepLink:             flag("needs_deep_link"),
		SuggestedDeepLinkSearch:   strings.TrimSpace(cast.ToString(raw["suggested_deep_link_search"])),
		ParseMode:                 model.ParseModeStrict,
	}, true
}

func parseFallback(text string) (model.VerificationJudgment, bool) {
	m := matchRe.FindStringSubmatch(text)
	c := confidenceRe.FindStringSubmatch(text)
	if m == nil || c == nil {
		return model.VerificationJudgment{}, false
	}
	match, _ := toBool(m[1])
	conf, err := cast.ToFloat64E(c[1])
	if err != nil {
		return model.VerificationJudgment{}, false
	}

	flag := func(key string) bool {
		if sm := flagRes[key].FindStringSubmatch(text); sm != nil {
			b, _ := toBool(sm[1])
			return b
		}
		return false
	}
	str := func(re *regexp.Regexp) string {
		if sm := re.FindStringSubmatch(text); sm != nil {
			var s string
			if err := json.Unmarshal([]byte(`"`+sm[1]+`"`), &s); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(sm[1])
		}
		return ""
	}
	return model.VerificationJudgment{
		Match:                     match,
		Confidence:                normalizeConfidence(conf),
		Evidence:                  str(evidenceRe),
		IsParentCompany:           flag("is_parent_company"),
		IsDirectorySite:           flag("is_directory_site"),
		IsGovernmentOversightSite: flag("is_government_oversight_site"),
		IsGovernmentPortal:        flag("is_government_portal"),
		NeedsDeepLink:             flag("needs_deep_link"),
		SuggestedDeepLinkSearch:   str(suggestionRe),
		ParseMode:                 model.ParseModeFallback,
	}, true
}

func toBool(v any) (bool, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y":
			return true, nil
		case "no", "n", "":
			return false, nil
		}
	}
	return cast.ToBoolE(v)
}

// normalizeConfidence maps fractional confidences onto 0-100 and clamps.
func normalizeConfidence(f float64) int {
	if f > 0 && f < 1 {
		f *= 100
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}
