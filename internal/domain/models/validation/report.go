package validation

import (
	"encoding/json"
	"time"
)

// Severity is the ordered outcome lattice for validation results:
// info < warning < error. The ordering is defined once here and used by both
// per-report and orchestrator-level aggregation.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the wire name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON encodes the severity as its wire name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity from its wire name. Unknown names decode
// as info rather than failing, so a lenient external collaborator cannot
// poison a whole report.
func (s *Severity) UnmarshalJSON(data []byte) error {
	*s = ParseSeverity(string(data))
	return nil
}

// ParseSeverity maps a wire name (quoted or bare) onto the lattice.
func ParseSeverity(name string) Severity {
	switch trimQuotes(name) {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Max returns the higher of two severities.
func Max(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// Result is a single finding produced by a validator.
type Result struct {
	Passed            bool     `json:"passed"`
	Severity          Severity `json:"severity"`
	Message           string   `json:"message"`
	AffectedLessonIDs []string `json:"affected_lesson_ids,omitempty"`
	Details           string   `json:"details,omitempty"`
}

// Report is the output of one validator run.
type Report struct {
	Validator string    `json:"validator"`
	Timestamp time.Time `json:"timestamp"`
	Results   []Result  `json:"results"`
}

// NewReport creates a report stamped with the current time.
func NewReport(validator string, results []Result) *Report {
	return &Report{
		Validator: validator,
		Timestamp: time.Now().UTC(),
		Results:   results,
	}
}

// OverallSeverity is the maximum severity among the report's results. An
// empty or all-passed report is info.
func (r *Report) OverallSeverity() Severity {
	overall := SeverityInfo
	for _, res := range r.Results {
		overall = Max(overall, res.Severity)
	}
	return overall
}

// MarshalJSON includes the derived overall severity so persisted reports
// carry it without a second source of truth in the struct.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(struct {
		*alias
		OverallSeverity Severity `json:"overall_severity"`
	}{
		alias:           (*alias)(r),
		OverallSeverity: r.OverallSeverity(),
	})
}

// FailedCount returns the number of non-passing results.
func (r *Report) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}
