// Package course wires the pure merge engine and the validation orchestrator
// to persistence. This layer owns the caller contracts the core leaves open:
// input-shape validation before merge, and at-most-one-in-flight merge per
// course ID.
package course

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"coursecraft/internal/config"
	"coursecraft/internal/domain"
	coursemodel "coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/repositories"
	"coursecraft/internal/domain/services"
	"coursecraft/internal/service/merge"
	"coursecraft/internal/service/validate"
)

type courseService struct {
	courseRepo   repositories.CourseRepository
	reportRepo   repositories.ReportRepository
	txManager    repositories.TransactionManager
	orchestrator *validate.Orchestrator
	logger       *slog.Logger

	// mergeLocks serializes merges per course ID so two concurrent
	// regenerations cannot race on the same stored document.
	mergeLocks sync.Map // course ID -> *sync.Mutex
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo repositories.CourseRepository,
	reportRepo repositories.ReportRepository,
	txManager repositories.TransactionManager,
	orchestrator *validate.Orchestrator,
	logger *slog.Logger,
) services.CourseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &courseService{
		courseRepo:   courseRepo,
		reportRepo:   reportRepo,
		txManager:    txManager,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// CreateCourse persists a generated course document
func (s *courseService) CreateCourse(ctx context.Context, req *services.CreateCourseRequest) (*coursemodel.Course, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	c := &coursemodel.Course{
		Title:       req.Title,
		Description: req.Description,
		Lessons:     req.Lessons,
		Outline:     req.Outline,
		SourceFiles: req.SourceFiles,
	}
	if err := s.courseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("course created", "course_id", c.ID, "lessons", len(c.Lessons))
	return c, nil
}

// GetCourse retrieves a course by ID
func (s *courseService) GetCourse(ctx context.Context, courseID string) (*coursemodel.Course, error) {
	return s.courseRepo.GetByID(ctx, courseID)
}

// ListCourses returns all courses
func (s *courseService) ListCourses(ctx context.Context) ([]coursemodel.Course, error) {
	return s.courseRepo.List(ctx)
}

// MergeGeneration reconciles a new generation into the stored course. The
// merge itself is pure; this method adds shape validation, the per-course
// serialization contract, and the load/merge/save transaction.
func (s *courseService) MergeGeneration(ctx context.Context, req *services.MergeRequest) (*services.MergeOutcome, error) {
	if err := validateIncoming(&req.Incoming); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	lock := s.lockFor(req.CourseID)
	lock.Lock()
	defer lock.Unlock()

	var outcome *services.MergeOutcome
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.courseRepo.GetByID(txCtx, req.CourseID)
		if err != nil {
			return err
		}

		result := merge.MergeCourses(existing, &req.Incoming)
		if err := s.courseRepo.Update(txCtx, result.Merged, existing.Version); err != nil {
			return err
		}

		outcome = &services.MergeOutcome{Course: result.Merged, Changes: result.Changes}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("generation merged",
		"course_id", req.CourseID,
		"version", outcome.Course.Version,
		"new", len(outcome.Changes.NewLessons),
		"updated", len(outcome.Changes.UpdatedLessons),
		"preserved", len(outcome.Changes.PreservedLessons),
	)
	return outcome, nil
}

// ValidateCourse runs the orchestrator against a stored course and persists
// the run.
func (s *courseService) ValidateCourse(ctx context.Context, req *services.ValidateRequest) (*services.ValidateOutcome, error) {
	mode, err := validate.ParseMode(req.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	c, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	result := s.orchestrator.Run(ctx, c, mode, validate.RunOptions{Validators: req.Validators})

	run := &repositories.ValidationRun{
		CourseID:        req.CourseID,
		Mode:            string(mode),
		OverallSeverity: result.OverallSeverity,
		Summary:         result.Summary,
		Reports:         result.Reports,
	}
	if err := s.reportRepo.SaveRun(ctx, run); err != nil {
		// The run itself succeeded; surface results even if persistence
		// failed.
		s.logger.Error("failed to persist validation run", "course_id", req.CourseID, "error", err)
	}

	return &services.ValidateOutcome{
		Reports:         result.Reports,
		OverallSeverity: result.OverallSeverity,
		Summary:         result.Summary,
	}, nil
}

func (s *courseService) lockFor(courseID string) *sync.Mutex {
	actual, _ := s.mergeLocks.LoadOrStore(courseID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func validateCreateRequest(req *services.CreateCourseRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxCourseTitleLength),
		),
	); err != nil {
		return err
	}
	return validateLessons(req.Lessons)
}

// validateIncoming enforces the merge engine's well-formed-input contract:
// merge itself is total and never checks shape.
func validateIncoming(incoming *coursemodel.Course) error {
	return validateLessons(incoming.Lessons)
}

func validateLessons(lessons []coursemodel.Lesson) error {
	seen := make(map[string]bool, len(lessons))
	for i := range lessons {
		l := &lessons[i]
		if err := validation.ValidateStruct(l,
			validation.Field(&l.ID, validation.Required),
			validation.Field(&l.Title, validation.Length(0, config.MaxLessonTitleLength)),
		); err != nil {
			return fmt.Errorf("lesson %d: %v", i, err)
		}
		if seen[l.ID] {
			return fmt.Errorf("lesson %d: duplicate lesson id %q", i, l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}
