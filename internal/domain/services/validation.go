package services

import (
	"context"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

// Validator is a single course check. Implementations never return an error:
// an internal fault is captured into an error-severity result inside the
// report so the orchestrator can always aggregate. Validators are read-only
// over the course.
type Validator interface {
	// Name returns the validator identifier recorded on its reports.
	Name() string

	// Validate runs the check against the course.
	Validate(ctx context.Context, c *course.Course) *validation.Report
}
