package validate

import (
	"context"
	"strings"
	"testing"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
	"coursecraft/internal/domain/services"
)

// stubValidator returns a fixed report; used to test aggregation in
// isolation from real checks.
type stubValidator struct {
	name    string
	results []validation.Result
}

func (s *stubValidator) Name() string { return s.name }

func (s *stubValidator) Validate(_ context.Context, _ *course.Course) *validation.Report {
	return validation.NewReport(s.name, s.results)
}

func TestOrchestrator_FastModeAggregatesSeverity(t *testing.T) {
	fast := []services.Validator{
		&stubValidator{name: "a", results: []validation.Result{
			{Passed: true, Severity: validation.SeverityInfo, Message: "ok"},
		}},
		&stubValidator{name: "b", results: []validation.Result{
			{Passed: false, Severity: validation.SeverityWarning, Message: "meh"},
			{Passed: false, Severity: validation.SeverityError, Message: "bad"},
		}},
	}

	o := NewOrchestrator(fast, nil, nil)
	res := o.Run(context.Background(), &course.Course{}, ModeFast, RunOptions{})

	if len(res.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(res.Reports))
	}
	if res.OverallSeverity != validation.SeverityError {
		t.Errorf("overall = %v, want error", res.OverallSeverity)
	}
	if res.Summary != "2 checks failed" {
		t.Errorf("summary = %q, want 2 checks failed", res.Summary)
	}
	// Report order matches validator registration order.
	if res.Reports[0].Validator != "a" || res.Reports[1].Validator != "b" {
		t.Errorf("report order = [%s %s], want [a b]", res.Reports[0].Validator, res.Reports[1].Validator)
	}
}

func TestOrchestrator_AllPassed(t *testing.T) {
	fast := []services.Validator{
		&stubValidator{name: "a", results: []validation.Result{
			{Passed: true, Severity: validation.SeverityInfo, Message: "ok"},
		}},
	}

	o := NewOrchestrator(fast, nil, nil)
	res := o.Run(context.Background(), &course.Course{}, ModeFast, RunOptions{})

	if res.Summary != "all checks passed" {
		t.Errorf("summary = %q, want all checks passed", res.Summary)
	}
	if res.OverallSeverity != validation.SeverityInfo {
		t.Errorf("overall = %v, want info", res.OverallSeverity)
	}
}

func TestOrchestrator_DeepSubsetSelection(t *testing.T) {
	deep := []services.Validator{
		&stubValidator{name: "one", results: []validation.Result{{Passed: true, Severity: validation.SeverityInfo}}},
		&stubValidator{name: "two", results: []validation.Result{{Passed: true, Severity: validation.SeverityInfo}}},
		&stubValidator{name: "three", results: []validation.Result{{Passed: true, Severity: validation.SeverityInfo}}},
	}

	o := NewOrchestrator(nil, deep, nil)

	res := o.Run(context.Background(), &course.Course{}, ModeDeep, RunOptions{Validators: []string{"three", "one"}})
	if len(res.Reports) != 2 {
		t.Fatalf("reports = %d, want 2 for subset", len(res.Reports))
	}

	res = o.Run(context.Background(), &course.Course{}, ModeDeep, RunOptions{})
	if len(res.Reports) != 3 {
		t.Fatalf("reports = %d, want all 3 by default", len(res.Reports))
	}
}

// panickyValidator simulates a check that blows up inside its goroutine.
type panickyValidator struct{ name string }

func (p *panickyValidator) Name() string { return p.name }

func (p *panickyValidator) Validate(_ context.Context, _ *course.Course) *validation.Report {
	panic("provider blew up")
}

func TestOrchestrator_PanickingValidatorBecomesErrorReport(t *testing.T) {
	deep := []services.Validator{
		&panickyValidator{name: "boom"},
		&stubValidator{name: "ok", results: []validation.Result{
			{Passed: true, Severity: validation.SeverityInfo, Message: "fine"},
		}},
	}

	o := NewOrchestrator(nil, deep, nil)
	res := o.Run(context.Background(), &course.Course{}, ModeDeep, RunOptions{})

	if len(res.Reports) != 2 {
		t.Fatalf("reports = %d, want 2 (run must survive the panic)", len(res.Reports))
	}
	crashed := res.Reports[0]
	if crashed.Validator != "boom" {
		t.Fatalf("first report from %q, want boom", crashed.Validator)
	}
	if crashed.OverallSeverity() != validation.SeverityError {
		t.Errorf("crashed validator severity = %v, want error", crashed.OverallSeverity())
	}
	if !strings.Contains(crashed.Results[0].Details, "blew up") {
		t.Errorf("details = %q, want the panic value", crashed.Results[0].Details)
	}
	if res.Reports[1].Validator != "ok" || res.Reports[1].FailedCount() != 0 {
		t.Errorf("healthy validator report corrupted: %+v", res.Reports[1])
	}
	if res.OverallSeverity != validation.SeverityError {
		t.Errorf("overall = %v, want error", res.OverallSeverity)
	}
}

func TestOrchestrator_EmptyCourseFailsStructure(t *testing.T) {
	prereq, err := NewPrerequisiteValidator()
	if err != nil {
		t.Fatalf("NewPrerequisiteValidator: %v", err)
	}
	fast := []services.Validator{
		NewStructureValidator(),
		NewOutlineValidator(),
		prereq,
		NewLengthValidator(),
	}

	o := NewOrchestrator(fast, nil, nil)
	res := o.Run(context.Background(), &course.Course{ID: "c1", Description: "d"}, ModeFast, RunOptions{})

	if res.OverallSeverity != validation.SeverityError {
		t.Errorf("overall = %v, want error for zero lessons", res.OverallSeverity)
	}
	if res.Summary == "all checks passed" {
		t.Error("summary must reflect at least one failed check")
	}
	if !strings.Contains(res.Summary, "checks failed") {
		t.Errorf("summary = %q, want failed-check count", res.Summary)
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("fast"); err != nil {
		t.Errorf("fast: %v", err)
	}
	if _, err := ParseMode("deep"); err != nil {
		t.Errorf("deep: %v", err)
	}
	if _, err := ParseMode("thorough"); err == nil {
		t.Error("unknown mode must be rejected")
	}
}
