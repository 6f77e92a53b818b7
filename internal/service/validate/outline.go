package validate

import (
	"context"
	"fmt"
	"strings"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

// OutlineValidator checks outline-level completeness: the course describes
// itself, every lesson has a logline, and objectives are substantive.
type OutlineValidator struct{}

// NewOutlineValidator creates an outline-consistency validator
func NewOutlineValidator() *OutlineValidator {
	return &OutlineValidator{}
}

// Name returns the validator identifier
func (v *OutlineValidator) Name() string { return ValidatorOutline }

// Validate runs the outline checks
func (v *OutlineValidator) Validate(_ context.Context, c *course.Course) *validation.Report {
	return guard(v.Name(), func() []validation.Result {
		var results []validation.Result

		if strings.TrimSpace(c.Description) == "" {
			results = append(results, issue(validation.SeverityWarning, "course description is empty"))
		}

		for _, l := range c.Lessons {
			if l.Logline == nil || strings.TrimSpace(*l.Logline) == "" {
				results = append(results, issue(validation.SeverityInfo,
					fmt.Sprintf("lesson %q has no logline", l.ID), l.ID))
			}
			if len(l.Objectives) < 2 {
				results = append(results, issue(validation.SeverityWarning,
					fmt.Sprintf("lesson %q has fewer than 2 objectives", l.ID), l.ID))
			}
		}

		if len(results) == 0 {
			results = append(results, pass("outline is consistent"))
		}
		return results
	})
}
