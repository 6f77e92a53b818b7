package validate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
	"coursecraft/internal/domain/services"
)

// Mode selects which validator set an orchestrator run executes.
type Mode string

const (
	ModeFast Mode = "fast"
	ModeDeep Mode = "deep"
)

// ParseMode validates a wire-level mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFast, ModeDeep:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown validation mode %q", s)
	}
}

// RunOptions tunes a single orchestrator run.
type RunOptions struct {
	// Validators narrows deep mode to the named checks. Empty means all.
	// Ignored in fast mode.
	Validators []string
}

// RunResult aggregates all reports from one run.
type RunResult struct {
	Reports         []*validation.Report `json:"reports"`
	OverallSeverity validation.Severity  `json:"overall_severity"`
	Summary         string               `json:"summary"`
}

// Orchestrator fans course checks out concurrently and aggregates their
// reports. Validators have no ordering dependency on each other; results are
// combined only after all have settled. Run never returns an error: every
// failure is data inside a report.
type Orchestrator struct {
	fast   []services.Validator
	deep   []services.Validator
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given validator sets
func NewOrchestrator(fast, deep []services.Validator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{fast: fast, deep: deep, logger: logger}
}

// Run executes the selected validators concurrently and aggregates severity.
func (o *Orchestrator) Run(ctx context.Context, c *course.Course, mode Mode, opts RunOptions) *RunResult {
	validators := o.selectValidators(mode, opts)

	start := time.Now()
	reports := make([]*validation.Report, len(validators))

	var wg sync.WaitGroup
	for i, v := range validators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i] = safeValidate(ctx, v, c)
		}()
	}
	wg.Wait()

	overall := validation.SeverityInfo
	failed := 0
	for _, r := range reports {
		overall = validation.Max(overall, r.OverallSeverity())
		failed += r.FailedCount()
	}

	summary := "all checks passed"
	if failed > 0 {
		summary = fmt.Sprintf("%d checks failed", failed)
	}

	o.logger.Info("validation run complete",
		"mode", string(mode),
		"validators", len(validators),
		"failed_results", failed,
		"overall_severity", overall.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &RunResult{
		Reports:         reports,
		OverallSeverity: overall,
		Summary:         summary,
	}
}

// safeValidate contains a panicking validator inside its own goroutine. The
// fast validators already recover internally; deep validators call out to
// provider SDKs the run cannot vouch for, so the fan-out recovers here too
// and a panic degrades to an error-severity report like any other failure.
func safeValidate(ctx context.Context, v services.Validator, c *course.Course) (report *validation.Report) {
	defer func() {
		if r := recover(); r != nil {
			report = validation.NewReport(v.Name(), []validation.Result{{
				Passed:   false,
				Severity: validation.SeverityError,
				Message:  "validator failed internally",
				Details:  fmt.Sprint(r),
			}})
		}
	}()
	return v.Validate(ctx, c)
}

// selectValidators resolves the validator set for a mode. Deep mode defaults
// to all configured deep validators; a subset can be named in the options.
func (o *Orchestrator) selectValidators(mode Mode, opts RunOptions) []services.Validator {
	if mode == ModeFast {
		return o.fast
	}
	if len(opts.Validators) == 0 {
		return o.deep
	}

	wanted := make(map[string]bool, len(opts.Validators))
	for _, name := range opts.Validators {
		wanted[name] = true
	}
	var selected []services.Validator
	for _, v := range o.deep {
		if wanted[v.Name()] {
			selected = append(selected, v)
		}
	}
	return selected
}
