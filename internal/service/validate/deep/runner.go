// Package deep implements the semantic course checks. Each validator builds
// a natural-language analysis prompt, hands it to the structured-generation
// collaborator, and converts the returned JSON into the same report shape the
// fast validators produce.
package deep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"coursecraft/internal/config"
	"coursecraft/internal/domain/models/validation"
	"coursecraft/internal/domain/services/llm"
)

// analysisSystemPrompt frames every deep check.
const analysisSystemPrompt = "You are a course quality reviewer. Analyze the provided course material " +
	"and record your findings with the analysis tool. Be specific: reference lesson IDs, " +
	"keep messages short, and reserve the error severity for problems that make the course unusable."

// analysisResult is the JSON object every deep check requests from the
// collaborator.
type analysisResult struct {
	Passed  bool            `json:"passed"`
	Issues  []analysisIssue `json:"issues"`
	Summary string          `json:"summary"`
}

type analysisIssue struct {
	Severity  string   `json:"severity"`
	Message   string   `json:"message"`
	LessonIDs []string `json:"lesson_ids,omitempty"`
	Details   string   `json:"details,omitempty"`
}

// analysisSchema describes analysisResult to the provider.
func analysisSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "record_analysis",
		Description: "Record the outcome of a course quality analysis.",
		Properties: map[string]any{
			"passed": map[string]any{
				"type":        "boolean",
				"description": "Whether the course passes this check overall.",
			},
			"issues": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"severity": map[string]any{
							"type": "string",
							"enum": []string{"info", "warning", "error"},
						},
						"message": map[string]any{"type": "string"},
						"lesson_ids": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"details": map[string]any{"type": "string"},
					},
					"required": []string{"severity", "message"},
				},
			},
			"summary": map[string]any{"type": "string"},
		},
		Required: []string{"passed", "issues", "summary"},
	}
}

// Runner executes deep checks against a structured-generation collaborator
// with a bounded retry for transient provider failures. Retryability is the
// provider's own call via its Retryable predicate; the loop never inspects
// provider error shapes itself.
type Runner struct {
	generator  llm.StructuredGenerator
	maxRetries int
	backoff    time.Duration
	maxTokens  int
	logger     *slog.Logger

	// wait is swapped out by tests to avoid real sleeps.
	wait func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a deep-check runner with the default retry policy
func NewRunner(generator llm.StructuredGenerator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		generator:  generator,
		maxRetries: config.DeepValidatorMaxRetries,
		backoff:    config.DeepValidatorBackoff,
		maxTokens:  config.DeepValidatorMaxOutputTokens,
		logger:     logger,
		wait:       sleep,
	}
}

// run executes one deep check end to end and always yields a report.
func (r *Runner) run(ctx context.Context, name, prompt string) *validation.Report {
	raw, err := r.generateWithRetry(ctx, name, &llm.GenerateRequest{
		Prompt:          prompt,
		System:          analysisSystemPrompt,
		Schema:          analysisSchema(),
		MaxOutputTokens: r.maxTokens,
	})
	if err != nil {
		return failureReport(name, err)
	}

	var res analysisResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return failureReport(name, fmt.Errorf("malformed analysis object: %w", err))
	}

	return validation.NewReport(name, convertResults(&res))
}

// generateWithRetry retries transient failures up to the retry budget with
// exponential backoff. Non-retryable errors short-circuit immediately.
func (r *Runner) generateWithRetry(ctx context.Context, name string, req *llm.GenerateRequest) (json.RawMessage, error) {
	backoff := r.backoff
	for attempt := 0; ; attempt++ {
		raw, err := r.generator.Generate(ctx, req)
		if err == nil {
			return raw, nil
		}
		if attempt >= r.maxRetries || !r.generator.Retryable(err) {
			return nil, err
		}

		r.logger.Warn("deep check retrying",
			"validator", name,
			"attempt", attempt+1,
			"backoff", backoff.String(),
			"error", err,
		)
		if werr := r.wait(ctx, backoff); werr != nil {
			return nil, werr
		}
		backoff *= 2
	}
}

// convertResults applies the shared conversion rule: a clean pass becomes a
// single info result carrying the summary, otherwise each issue becomes one
// result and info-severity issues count as passed.
func convertResults(res *analysisResult) []validation.Result {
	if res.Passed && len(res.Issues) == 0 {
		msg := res.Summary
		if msg == "" {
			msg = "check passed"
		}
		return []validation.Result{{
			Passed:   true,
			Severity: validation.SeverityInfo,
			Message:  msg,
		}}
	}

	// A failed analysis that names no issues still has to surface as a
	// failure, not an empty (passing) report.
	if !res.Passed && len(res.Issues) == 0 {
		msg := res.Summary
		if msg == "" {
			msg = "check failed without details"
		}
		return []validation.Result{{
			Passed:   false,
			Severity: validation.SeverityWarning,
			Message:  msg,
		}}
	}

	results := make([]validation.Result, 0, len(res.Issues))
	for _, is := range res.Issues {
		sev := validation.ParseSeverity(is.Severity)
		results = append(results, validation.Result{
			Passed:            sev == validation.SeverityInfo,
			Severity:          sev,
			Message:           is.Message,
			AffectedLessonIDs: is.LessonIDs,
			Details:           is.Details,
		})
	}
	return results
}

// failureReport represents an exhausted or fatal collaborator failure as
// data, so the orchestrator can always aggregate.
func failureReport(name string, err error) *validation.Report {
	return validation.NewReport(name, []validation.Result{{
		Passed:   false,
		Severity: validation.SeverityError,
		Message:  "semantic analysis unavailable",
		Details:  err.Error(),
	}})
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
