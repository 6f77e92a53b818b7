package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursecraft/internal/domain"
	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/repositories"
)

// PostgresCourseRepository implements the CourseRepository interface
type PostgresCourseRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(config *RepositoryConfig) repositories.CourseRepository {
	return &PostgresCourseRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create persists a new course document
func (r *PostgresCourseRepository) Create(ctx context.Context, c *course.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Version == 0 {
		c.Version = 1
	}

	lessons, outline, sourceFiles, err := marshalCourseBlobs(c)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, description, lessons, outline, source_files, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		c.ID, c.Title, c.Description, lessons, outline, sourceFiles,
		c.Version, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{Message: fmt.Sprintf("course %q already exists", c.ID)}
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// GetByID loads a course document
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	query := fmt.Sprintf(`
		SELECT id, title, description, lessons, outline, source_files, version, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	row := executor.QueryRow(ctx, query, id)

	c, err := scanCourse(row)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("course %q not found", id)}
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// Update persists a merged course. The WHERE clause on version makes the
// update an optimistic-concurrency check: a second merge that raced the
// first sees zero affected rows and reports a conflict rather than silently
// overwriting.
func (r *PostgresCourseRepository) Update(ctx context.Context, c *course.Course, expectedVersion int) error {
	lessons, outline, sourceFiles, err := marshalCourseBlobs(c)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, lessons = $3, outline = $4,
		    source_files = $5, version = $6, updated_at = $7
		WHERE id = $8 AND version = $9
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		c.Title, c.Description, lessons, outline, sourceFiles,
		c.Version, c.UpdatedAt, c.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a stale version from a missing course.
		if _, getErr := r.GetByID(ctx, c.ID); getErr != nil {
			return getErr
		}
		return &domain.ConflictError{
			Message: fmt.Sprintf("course %q was modified concurrently (expected version %d)", c.ID, expectedVersion),
		}
	}
	return nil
}

// List returns all courses, newest first
func (r *PostgresCourseRepository) List(ctx context.Context) ([]course.Course, error) {
	query := fmt.Sprintf(`
		SELECT id, title, description, lessons, outline, source_files, version, created_at, updated_at
		FROM %s
		ORDER BY updated_at DESC
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*course.Course, error) {
	var c course.Course
	var lessons, outline, sourceFiles []byte

	err := row.Scan(&c.ID, &c.Title, &c.Description, &lessons, &outline, &sourceFiles,
		&c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lessons, &c.Lessons); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	if len(outline) > 0 {
		if err := json.Unmarshal(outline, &c.Outline); err != nil {
			return nil, fmt.Errorf("decode outline: %w", err)
		}
	}
	if err := json.Unmarshal(sourceFiles, &c.SourceFiles); err != nil {
		return nil, fmt.Errorf("decode source files: %w", err)
	}
	return &c, nil
}

func marshalCourseBlobs(c *course.Course) (lessons, outline, sourceFiles []byte, err error) {
	if c.Lessons == nil {
		c.Lessons = []course.Lesson{}
	}
	if c.SourceFiles == nil {
		c.SourceFiles = []course.SourceFileRef{}
	}

	lessons, err = json.Marshal(c.Lessons)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode lessons: %w", err)
	}
	if c.Outline != nil {
		outline, err = json.Marshal(c.Outline)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encode outline: %w", err)
		}
	}
	sourceFiles, err = json.Marshal(c.SourceFiles)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode source files: %w", err)
	}
	return lessons, outline, sourceFiles, nil
}
