package course

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"coursecraft/internal/domain"
	coursemodel "coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
	"coursecraft/internal/domain/repositories"
	"coursecraft/internal/domain/services"
	"coursecraft/internal/service/validate"
)

// fakeCourseRepo is an in-memory CourseRepository with the same optimistic
// concurrency behavior as the postgres implementation.
type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*coursemodel.Course
	nextID  int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*coursemodel.Course)}
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *coursemodel.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		r.nextID++
		c.ID = fmt.Sprintf("course-%d", r.nextID)
	}
	if c.Version == 0 {
		c.Version = 1
	}
	stored := *c
	r.courses[c.ID] = &stored
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id string) (*coursemodel.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "course not found: " + id}
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *coursemodel.Course, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.courses[c.ID]
	if !ok {
		return &domain.NotFoundError{Message: "course not found: " + c.ID}
	}
	if stored.Version != expectedVersion {
		return &domain.ConflictError{Message: "course modified concurrently"}
	}
	copied := *c
	r.courses[c.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) List(ctx context.Context) ([]coursemodel.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]coursemodel.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	return out, nil
}

type fakeReportRepo struct {
	mu   sync.Mutex
	runs []*repositories.ValidationRun
}

func (r *fakeReportRepo) SaveRun(ctx context.Context, run *repositories.ValidationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeReportRepo) LatestRun(ctx context.Context, courseID string) (*repositories.ValidationRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].CourseID == courseID {
			return r.runs[i], nil
		}
	}
	return nil, &domain.NotFoundError{Message: "no validation runs for course " + courseID}
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type stubValidator struct {
	name     string
	severity validation.Severity
}

func (v stubValidator) Name() string { return v.name }

func (v stubValidator) Validate(ctx context.Context, c *coursemodel.Course) *validation.Report {
	passed := v.severity == validation.SeverityInfo
	return validation.NewReport(v.name, []validation.Result{
		{Passed: passed, Severity: v.severity, Message: "stub"},
	})
}

func newTestService(t *testing.T, fast []services.Validator) (services.CourseService, *fakeCourseRepo, *fakeReportRepo) {
	t.Helper()
	courseRepo := newFakeCourseRepo()
	reportRepo := &fakeReportRepo{}
	orchestrator := validate.NewOrchestrator(fast, nil, nil)
	svc := NewCourseService(courseRepo, reportRepo, fakeTxManager{}, orchestrator, nil)
	return svc, courseRepo, reportRepo
}

func seedCourse(t *testing.T, svc services.CourseService) *coursemodel.Course {
	t.Helper()
	created, err := svc.CreateCourse(context.Background(), &services.CreateCourseRequest{
		Title: "Go Basics",
		Lessons: []coursemodel.Lesson{
			{ID: "l1", Order: 0, Title: "Hello", Content: "Some content.", Objectives: []string{"a"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	return created
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	tests := []struct {
		name string
		req  services.CreateCourseRequest
	}{
		{
			name: "missing title",
			req:  services.CreateCourseRequest{},
		},
		{
			name: "title too long",
			req:  services.CreateCourseRequest{Title: strings.Repeat("x", 300)},
		},
		{
			name: "lesson without id",
			req: services.CreateCourseRequest{
				Title:   "Go",
				Lessons: []coursemodel.Lesson{{Title: "No ID"}},
			},
		},
		{
			name: "duplicate lesson ids",
			req: services.CreateCourseRequest{
				Title: "Go",
				Lessons: []coursemodel.Lesson{
					{ID: "l1", Title: "A"},
					{ID: "l1", Title: "B"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCourse(context.Background(), &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestMergeGenerationPersistsResult(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)
	created := seedCourse(t, svc)

	outcome, err := svc.MergeGeneration(context.Background(), &services.MergeRequest{
		CourseID: created.ID,
		Incoming: coursemodel.Course{
			Lessons: []coursemodel.Lesson{
				{ID: "l1", Order: 0, Title: "Hello, revised", Content: "Some content.", Objectives: []string{"a"}},
				{ID: "l2", Order: 1, Title: "Errors", Content: "Error handling.", Objectives: []string{"b"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("MergeGeneration: %v", err)
	}

	if got := len(outcome.Changes.NewLessons); got != 1 {
		t.Errorf("new lessons = %d, want 1", got)
	}
	if got := len(outcome.Changes.UpdatedLessons); got != 1 {
		t.Errorf("updated lessons = %d, want 1", got)
	}
	if outcome.Course.Version != created.Version+1 {
		t.Errorf("version = %d, want %d", outcome.Course.Version, created.Version+1)
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID after merge: %v", err)
	}
	if len(stored.Lessons) != 2 {
		t.Errorf("stored lessons = %d, want 2", len(stored.Lessons))
	}
	if stored.Version != created.Version+1 {
		t.Errorf("stored version = %d, want %d", stored.Version, created.Version+1)
	}
}

func TestMergeGenerationRejectsMalformedIncoming(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	created := seedCourse(t, svc)

	_, err := svc.MergeGeneration(context.Background(), &services.MergeRequest{
		CourseID: created.ID,
		Incoming: coursemodel.Course{
			Lessons: []coursemodel.Lesson{{Title: "missing id"}},
		},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMergeGenerationUnknownCourse(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.MergeGeneration(context.Background(), &services.MergeRequest{
		CourseID: "nope",
		Incoming: coursemodel.Course{Lessons: []coursemodel.Lesson{{ID: "l1"}}},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestConcurrentMergesSerialize(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)
	created := seedCourse(t, svc)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.MergeGeneration(context.Background(), &services.MergeRequest{
				CourseID: created.ID,
				Incoming: coursemodel.Course{
					Lessons: []coursemodel.Lesson{
						{ID: fmt.Sprintf("extra-%d", i), Title: "Extra", Content: "c", Objectives: []string{"o"}},
					},
				},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("merge %d: %v", i, err)
		}
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// Original lesson plus one per merge; every merge bumped the version.
	if len(stored.Lessons) != n+1 {
		t.Errorf("stored lessons = %d, want %d", len(stored.Lessons), n+1)
	}
	if stored.Version != created.Version+n {
		t.Errorf("stored version = %d, want %d", stored.Version, created.Version+n)
	}
}

func TestValidateCoursePersistsRun(t *testing.T) {
	fast := []services.Validator{
		stubValidator{name: "a", severity: validation.SeverityInfo},
		stubValidator{name: "b", severity: validation.SeverityWarning},
	}
	svc, _, reportRepo := newTestService(t, fast)
	created := seedCourse(t, svc)

	outcome, err := svc.ValidateCourse(context.Background(), &services.ValidateRequest{
		CourseID: created.ID,
		Mode:     "fast",
	})
	if err != nil {
		t.Fatalf("ValidateCourse: %v", err)
	}

	if outcome.OverallSeverity != validation.SeverityWarning {
		t.Errorf("overall severity = %v, want warning", outcome.OverallSeverity)
	}
	if len(outcome.Reports) != 2 {
		t.Errorf("reports = %d, want 2", len(outcome.Reports))
	}

	run, err := reportRepo.LatestRun(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if run.Mode != "fast" {
		t.Errorf("run mode = %q, want fast", run.Mode)
	}
	if run.OverallSeverity != validation.SeverityWarning {
		t.Errorf("run severity = %v, want warning", run.OverallSeverity)
	}
}

func TestValidateCourseRejectsUnknownMode(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	created := seedCourse(t, svc)

	_, err := svc.ValidateCourse(context.Background(), &services.ValidateRequest{
		CourseID: created.ID,
		Mode:     "thorough",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
