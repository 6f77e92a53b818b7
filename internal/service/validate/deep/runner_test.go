package deep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
	"coursecraft/internal/domain/services/llm"
)

// transientError mimics a provider rate-limit or server error.
type transientError struct{ status int }

func (e *transientError) Error() string { return fmt.Sprintf("provider returned HTTP %d", e.status) }

// fakeGenerator scripts a sequence of responses for the retry loop.
type fakeGenerator struct {
	calls     int
	responses []func() (json.RawMessage, error)
}

func (f *fakeGenerator) Generate(_ context.Context, _ *llm.GenerateRequest) (json.RawMessage, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i]()
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Retryable(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return te.status == 429 || te.status == 500 || te.status == 503
	}
	return false
}

func testRunner(gen llm.StructuredGenerator) *Runner {
	r := NewRunner(gen, nil)
	r.wait = func(context.Context, time.Duration) error { return nil }
	return r
}

func passResponse(summary string) func() (json.RawMessage, error) {
	return func() (json.RawMessage, error) {
		return json.RawMessage(fmt.Sprintf(`{"passed":true,"issues":[],"summary":%q}`, summary)), nil
	}
}

func failWith(status int) func() (json.RawMessage, error) {
	return func() (json.RawMessage, error) { return nil, &transientError{status: status} }
}

func sampleCourse() *course.Course {
	return &course.Course{
		Title: "Test course",
		Lessons: []course.Lesson{
			{ID: "l1", Title: "Intro", Content: "hello", Objectives: []string{"a", "b"}},
		},
	}
}

func TestDeepValidator_RetriesThenSucceeds(t *testing.T) {
	gen := &fakeGenerator{responses: []func() (json.RawMessage, error){
		failWith(429),
		failWith(429),
		passResponse("looks good"),
	}}

	v := NewObjectivesAlignment(testRunner(gen))
	report := v.Validate(context.Background(), sampleCourse())

	if gen.calls != 3 {
		t.Errorf("generator called %d times, want 3 (two retries then success)", gen.calls)
	}
	if len(report.Results) != 1 || !report.Results[0].Passed {
		t.Fatalf("want a single pass result, got %+v", report.Results)
	}
	if report.Results[0].Message != "looks good" {
		t.Errorf("message = %q, want the collaborator summary", report.Results[0].Message)
	}
	if report.Validator != ValidatorObjectives {
		t.Errorf("validator = %q, want %q", report.Validator, ValidatorObjectives)
	}
}

func TestDeepValidator_ExhaustsRetries(t *testing.T) {
	gen := &fakeGenerator{responses: []func() (json.RawMessage, error){
		failWith(503),
	}}

	v := NewEducationalQuality(testRunner(gen))
	report := v.Validate(context.Background(), sampleCourse())

	if gen.calls != 3 {
		t.Errorf("generator called %d times, want 3 (initial + 2 retries)", gen.calls)
	}
	if report.OverallSeverity() != validation.SeverityError {
		t.Errorf("overall = %v, want error after exhausted retries", report.OverallSeverity())
	}
	if !strings.Contains(report.Results[0].Details, "503") {
		t.Errorf("details = %q, want the provider error", report.Results[0].Details)
	}
}

func TestDeepValidator_FatalErrorShortCircuits(t *testing.T) {
	gen := &fakeGenerator{responses: []func() (json.RawMessage, error){
		func() (json.RawMessage, error) { return nil, errors.New("missing API credential") },
	}}

	v := NewTerminologyConsistency(testRunner(gen))
	report := v.Validate(context.Background(), sampleCourse())

	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1 (no retry on fatal error)", gen.calls)
	}
	if report.OverallSeverity() != validation.SeverityError {
		t.Errorf("overall = %v, want error", report.OverallSeverity())
	}
}

func TestDeepValidator_ConvertsIssues(t *testing.T) {
	gen := &fakeGenerator{responses: []func() (json.RawMessage, error){
		func() (json.RawMessage, error) {
			return json.RawMessage(`{
				"passed": false,
				"issues": [
					{"severity":"error","message":"objective never taught","lesson_ids":["l1"],"details":"objective b"},
					{"severity":"info","message":"minor note"}
				],
				"summary": "problems found"
			}`), nil
		},
	}}

	v := NewTransitionSmoothness(testRunner(gen))
	report := v.Validate(context.Background(), sampleCourse())

	if len(report.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(report.Results))
	}
	if report.Results[0].Passed || report.Results[0].Severity != validation.SeverityError {
		t.Errorf("error issue converted wrong: %+v", report.Results[0])
	}
	if got := report.Results[0].AffectedLessonIDs; len(got) != 1 || got[0] != "l1" {
		t.Errorf("affected ids = %v, want [l1]", got)
	}
	// Info-severity issues count as passed.
	if !report.Results[1].Passed || report.Results[1].Severity != validation.SeverityInfo {
		t.Errorf("info issue converted wrong: %+v", report.Results[1])
	}
	if report.OverallSeverity() != validation.SeverityError {
		t.Errorf("overall = %v, want error", report.OverallSeverity())
	}
}

func TestDeepValidator_MalformedJSONBecomesFailure(t *testing.T) {
	gen := &fakeGenerator{responses: []func() (json.RawMessage, error){
		func() (json.RawMessage, error) { return json.RawMessage(`not json`), nil },
	}}

	v := NewObjectivesAlignment(testRunner(gen))
	report := v.Validate(context.Background(), sampleCourse())

	if report.OverallSeverity() != validation.SeverityError {
		t.Errorf("overall = %v, want error for malformed object", report.OverallSeverity())
	}
}

func TestAll_ReturnsFourValidators(t *testing.T) {
	vs := All(testRunner(&fakeGenerator{responses: []func() (json.RawMessage, error){passResponse("ok")}}))
	if len(vs) != 4 {
		t.Fatalf("validators = %d, want 4", len(vs))
	}
	names := map[string]bool{}
	for _, v := range vs {
		names[v.Name()] = true
	}
	for _, want := range []string{ValidatorObjectives, ValidatorTerminology, ValidatorTransitions, ValidatorQuality} {
		if !names[want] {
			t.Errorf("missing validator %s", want)
		}
	}
}
