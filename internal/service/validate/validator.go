// Package validate implements the deterministic course checks and the
// orchestrator that fans them out. Semantic (LLM-backed) checks live in the
// deep subpackage; both produce reports in the same shape.
package validate

import (
	"fmt"

	"coursecraft/internal/domain/models/validation"
)

// Fast validator names. Recorded on reports and usable by callers to select
// checks.
const (
	ValidatorStructure     = "structure"
	ValidatorOutline       = "outline"
	ValidatorLinks         = "links"
	ValidatorPrerequisites = "prerequisites"
	ValidatorLength        = "content_length"
)

// guard converts a panic inside a validator into a single error-severity
// result, so a buggy check degrades to a failed report instead of taking the
// whole run down.
func guard(name string, fn func() []validation.Result) (report *validation.Report) {
	defer func() {
		if r := recover(); r != nil {
			report = validation.NewReport(name, []validation.Result{{
				Passed:   false,
				Severity: validation.SeverityError,
				Message:  "validator failed internally",
				Details:  fmt.Sprint(r),
			}})
		}
	}()
	return validation.NewReport(name, fn())
}

// pass builds the conventional all-clear result.
func pass(message string) validation.Result {
	return validation.Result{
		Passed:   true,
		Severity: validation.SeverityInfo,
		Message:  message,
	}
}

// issue builds a finding. Info-severity findings count as passed, matching
// the conversion rule shared with deep validators.
func issue(severity validation.Severity, message string, lessonIDs ...string) validation.Result {
	return validation.Result{
		Passed:            severity == validation.SeverityInfo,
		Severity:          severity,
		Message:           message,
		AffectedLessonIDs: lessonIDs,
	}
}
