package repositories

import (
	"context"
	"time"

	"coursecraft/internal/domain/models/validation"
)

// ValidationRun is a persisted orchestrator run for one course.
type ValidationRun struct {
	ID              string               `json:"id"`
	CourseID        string               `json:"course_id"`
	Mode            string               `json:"mode"`
	OverallSeverity validation.Severity  `json:"overall_severity"`
	Summary         string               `json:"summary"`
	Reports         []*validation.Report `json:"reports"`
	CreatedAt       time.Time            `json:"created_at"`
}

// ReportRepository persists validation runs so past results can be surfaced
// without re-running checks.
type ReportRepository interface {
	// SaveRun persists a run and fills in its generated ID.
	SaveRun(ctx context.Context, run *ValidationRun) error

	// LatestRun returns the most recent run for a course.
	// Returns domain.ErrNotFound if the course has never been validated.
	LatestRun(ctx context.Context, courseID string) (*ValidationRun, error)
}
