package repositories

import (
	"context"

	"coursecraft/internal/domain/models/course"
)

// CourseRepository is the persistence collaborator for course documents.
// The merge engine and validators are pure functions over an already-loaded
// course; only the service layer touches this interface.
type CourseRepository interface {
	// Create persists a new course and fills in its generated ID and
	// timestamps.
	Create(ctx context.Context, c *course.Course) error

	// GetByID loads a course. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*course.Course, error)

	// Update persists a merged course. The expectedVersion is the version
	// the caller loaded; a mismatch returns domain.ErrConflict so two
	// concurrent merges on the same course cannot silently overwrite each
	// other.
	Update(ctx context.Context, c *course.Course, expectedVersion int) error

	// List returns all courses, newest first.
	List(ctx context.Context) ([]course.Course, error)
}
