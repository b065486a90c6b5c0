package model

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
)

// ErrMissingName is returned when an EntityQuery has no name. It is the only
// input condition that fails a resolution before any network call.
var ErrMissingName = eris.New("entity name is required")

// EntityQuery is the immutable input to a domain resolution.
type EntityQuery struct {
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Context string `json:"context,omitempty"`
}

// fieldAliases maps accepted input column names to EntityQuery fields.
var fieldAliases = map[string]string{
	"name":         "name",
	"company":      "name",
	"company_name": "name",
	"business":     "name",
	"city":         "city",
	"state":        "state",
	"phone":        "phone",
	"phone_number": "phone",
	"telephone":    "phone",
	"context":      "context",
	"industry":     "context",
	"category":     "context",
}

// Validate fails fast on a missing name.
func (q EntityQuery) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Key returns a stable identity for the query, used to dedupe stored results.
func (q EntityQuery) Key() string {
	var digits strings.Builder
	for _, r := range q.Phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	parts := []string{
		strings.ToLower(strings.TrimSpace(q.Name)),
		strings.ToLower(strings.TrimSpace(q.City)),
		strings.ToLower(strings.TrimSpace(q.State)),
		digits.String(),
	}
	return strings.Join(parts, "|")
}

// EntityQueryFromMap builds an EntityQuery from loosely typed input such as a
// decoded JSON object, a CSV row or a spreadsheet row. Numbers and booleans are
// coerced to text; unknown keys are ignored.
func EntityQueryFromMap(fields map[string]any) EntityQuery {
	var q EntityQuery
	for k, v := range fields {
		target, ok := fieldAliases[aliasKey(k)]
		if !ok {
			continue
		}
		s := strings.TrimSpace(coerceText(v))
		if s == "" {
			continue
		}
		switch target {
		case "name":
			if q.Name == "" {
				q.Name = s
			}
		case "city":
			q.City = s
		case "state":
			q.State = s
		case "phone":
			if q.Phone == "" {
				q.Phone = s
			}
		case "context":
			if q.Context == "" {
				q.Context = s
			}
		}
	}
	return q
}

// UnmarshalJSON accepts numeric-typed fields (e.g. a phone stored as a number).
func (q *EntityQuery) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return eris.Wrap(err, "model: decode entity query")
	}
	*q = EntityQueryFromMap(raw)
	return nil
}

// aliasKey folds "Phone Number" and "phone-number" to "phone_number".
func aliasKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.Join(strings.FieldsFunc(k, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func coerceText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case json.Number:
		return t.String()
	case float64:
		// Spreadsheet cells often carry integers as floats.
		if t == float64(int64(t)) {
			return cast.ToString(int64(t))
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
