package handler

import (
	"log/slog"
	"net/http"

	"coursecraft/internal/domain/repositories"
	"coursecraft/internal/domain/services"
	"coursecraft/internal/httputil"
)

// CourseHandler handles course HTTP requests
type CourseHandler struct {
	courseService services.CourseService
	reportRepo    repositories.ReportRepository
	logger        *slog.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService services.CourseService, reportRepo repositories.ReportRepository, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		reportRepo:    reportRepo,
		logger:        logger,
	}
}

// Register mounts all course routes on the mux.
func (h *CourseHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/courses", h.CreateCourse)
	mux.HandleFunc("GET /api/courses", h.ListCourses)
	mux.HandleFunc("GET /api/courses/{id}", h.GetCourse)
	mux.HandleFunc("POST /api/courses/{id}/merge", h.MergeGeneration)
	mux.HandleFunc("POST /api/courses/{id}/validate", h.ValidateCourse)
	mux.HandleFunc("GET /api/courses/{id}/validation", h.LatestValidation)
}

// CreateCourse creates a new course
// POST /api/courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCourseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, course)
}

// ListCourses returns all courses
// GET /api/courses
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse retrieves a course by ID
// GET /api/courses/{id}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "course ID is required")
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, course)
}

// MergeGeneration merges a regenerated course document into the stored one
// POST /api/courses/{id}/merge
func (h *CourseHandler) MergeGeneration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "course ID is required")
		return
	}

	var req services.MergeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.CourseID = id

	outcome, err := h.courseService.MergeGeneration(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, outcome)
}

// ValidateCourse runs validators against a stored course
// POST /api/courses/{id}/validate
func (h *CourseHandler) ValidateCourse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "course ID is required")
		return
	}

	var req services.ValidateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.CourseID = id

	outcome, err := h.courseService.ValidateCourse(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, outcome)
}

// LatestValidation returns the most recent validation run for a course
// GET /api/courses/{id}/validation
func (h *CourseHandler) LatestValidation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "course ID is required")
		return
	}

	run, err := h.reportRepo.LatestRun(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, run)
}
