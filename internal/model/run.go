package model

import "time"

// RunStatus represents the current state of a batch resolution run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Outcome summarises one stored resolution.
type Outcome string

const (
	OutcomeResolved   Outcome = "resolved"
	OutcomeDeepLink   Outcome = "deep_link"
	OutcomeRejected   Outcome = "rejected"
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeError      Outcome = "error"
)

// Run is one batch resolution over an input file.
type Run struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Status    RunStatus `json:"status"`
	Stats     RunStats  `json:"stats"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunStats counts run outcomes.
type RunStats struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	DeepLinks  int `json:"deep_links"`
	Rejected   int `json:"rejected"`
	Unresolved int `json:"unresolved"`
	Errors     int `json:"errors"`
	Skipped    int `json:"skipped"`
}

// Add counts one outcome.
func (s *RunStats) Add(o Outcome) {
	s.Total++
	switch o {
	case OutcomeResolved:
		s.Resolved++
	case OutcomeDeepLink:
		s.DeepLinks++
	case OutcomeRejected:
		s.Rejected++
	case OutcomeUnresolved:
		s.Unresolved++
	case OutcomeError:
		s.Errors++
	}
}

// ResultRecord is a stored resolution keyed by run and entity.
type ResultRecord struct {
	ID         string      `json:"id"`
	RunID      string      `json:"run_id"`
	EntityKey  string      `json:"entity_key"`
	Line       int         `json:"line"`
	Outcome    Outcome     `json:"outcome"`
	Domain     string      `json:"domain,omitempty"`
	Confidence float64     `json:"confidence"`
	Resolution *Resolution `json:"resolution,omitempty"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OutcomeOf classifies a policy-applied resolution.
func OutcomeOf(r *Resolution) Outcome {
	switch {
	case r == nil:
		return OutcomeError
	case r.Rejected:
		return OutcomeRejected
	case r.Result == nil:
		return OutcomeUnresolved
	case r.Result.IsDeepLink:
		return OutcomeDeepLink
	default:
		return OutcomeResolved
	}
}

// NewResultRecord builds the stored form of a resolution. err, when set,
// marks the record as failed.
func NewResultRecord(runID string, line int, q EntityQuery, r *Resolution, err error) ResultRecord {
	rec := ResultRecord{
		RunID:      runID,
		EntityKey:  q.Key(),
		Line:       line,
		Resolution: r,
		CreatedAt:  time.Now().UTC(),
	}
	if err != nil {
		rec.Outcome = OutcomeError
		rec.Error = err.Error()
		return rec
	}
	rec.Outcome = OutcomeOf(r)
	if rec.Outcome != OutcomeRejected && r.Result != nil {
		rec.Domain = r.Result.Domain
		rec.Confidence = r.Result.Confidence
	}
	return rec
}
