package services

import (
	"context"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

// CourseService handles course business logic: persistence wiring around the
// pure merge engine and the validation orchestrator.
type CourseService interface {
	// CreateCourse persists a course document produced by the generation
	// pipeline.
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*course.Course, error)

	// GetCourse retrieves a course by ID
	GetCourse(ctx context.Context, courseID string) (*course.Course, error)

	// ListCourses returns all courses, newest first
	ListCourses(ctx context.Context) ([]course.Course, error)

	// MergeGeneration reconciles a freshly generated course document with
	// the stored one and persists the result. Merges for the same course
	// are serialized internally; callers never race on a document.
	MergeGeneration(ctx context.Context, req *MergeRequest) (*MergeOutcome, error)

	// ValidateCourse runs the validation orchestrator against a persisted
	// course and stores the resulting reports.
	ValidateCourse(ctx context.Context, req *ValidateRequest) (*ValidateOutcome, error)
}

// CreateCourseRequest represents a course creation request
type CreateCourseRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Lessons     []course.Lesson        `json:"lessons"`
	Outline     []course.OutlineItem   `json:"outline,omitempty"`
	SourceFiles []course.SourceFileRef `json:"source_files,omitempty"`
}

// MergeRequest carries a newly generated course document to reconcile into
// the stored course identified by CourseID.
type MergeRequest struct {
	CourseID string `json:"-"` // Set by handler from the URL, not the body

	// Incoming is the candidate document from the generation pipeline.
	// Title and description are ignored by merge (existing values win) but
	// are accepted so the pipeline can pass its output through unchanged.
	Incoming course.Course `json:"incoming"`
}

// MergeOutcome is the persisted result of a merge plus its change report.
type MergeOutcome struct {
	Course  *course.Course  `json:"course"`
	Changes *course.Changes `json:"changes"`
}

// ValidateRequest selects which checks to run against a course.
type ValidateRequest struct {
	CourseID string `json:"-"` // Set by handler from the URL

	// Mode is "fast" or "deep".
	Mode string `json:"mode"`

	// Validators optionally narrows the deep-mode set. Empty means all.
	Validators []string `json:"validators,omitempty"`
}

// ValidateOutcome is the aggregated result of one orchestrator run.
type ValidateOutcome struct {
	Reports         []*validation.Report `json:"reports"`
	OverallSeverity validation.Severity  `json:"overall_severity"`
	Summary         string               `json:"summary"`
}
