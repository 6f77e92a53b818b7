package deep

import (
	"context"
	"fmt"
	"strings"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

// Deep validator names. Usable by callers to select a subset for a run.
const (
	ValidatorObjectives  = "objectives_alignment"
	ValidatorTerminology = "terminology_consistency"
	ValidatorTransitions = "transition_smoothness"
	ValidatorQuality     = "educational_quality"
)

// excerptWords bounds how much lesson content each prompt includes.
const excerptWords = 150

// Validator is one semantic check bound to its prompt builder.
type Validator struct {
	name   string
	runner *Runner
	prompt func(c *course.Course) string
}

// Name returns the validator identifier
func (v *Validator) Name() string { return v.name }

// Validate runs the semantic check through the shared runner.
func (v *Validator) Validate(ctx context.Context, c *course.Course) *validation.Report {
	return v.runner.run(ctx, v.name, v.prompt(c))
}

// NewObjectivesAlignment checks that lesson content actually teaches the
// lesson's stated objectives.
func NewObjectivesAlignment(runner *Runner) *Validator {
	return &Validator{
		name:   ValidatorObjectives,
		runner: runner,
		prompt: func(c *course.Course) string {
			var b strings.Builder
			b.WriteString("Check whether each lesson's content covers its stated objectives. ")
			b.WriteString("Flag lessons whose objectives are not addressed by the content, and objectives that appear in no lesson.\n\n")
			writeCourseExcerpt(&b, c, true)
			return b.String()
		},
	}
}

// NewTerminologyConsistency checks that the course uses terms consistently
// across lessons.
func NewTerminologyConsistency(runner *Runner) *Validator {
	return &Validator{
		name:   ValidatorTerminology,
		runner: runner,
		prompt: func(c *course.Course) string {
			var b strings.Builder
			b.WriteString("Check terminology consistency across lessons: the same concept should use the same term everywhere. ")
			b.WriteString("Flag lessons that introduce a synonym for an already-established term without explanation.\n\n")
			writeCourseExcerpt(&b, c, false)
			return b.String()
		},
	}
}

// NewTransitionSmoothness checks that consecutive lessons connect.
func NewTransitionSmoothness(runner *Runner) *Validator {
	return &Validator{
		name:   ValidatorTransitions,
		runner: runner,
		prompt: func(c *course.Course) string {
			var b strings.Builder
			b.WriteString("Check the transitions between consecutive lessons: each lesson should build on the previous one ")
			b.WriteString("without abrupt jumps in difficulty or topic. Flag lesson pairs with rough transitions.\n\n")
			writeCourseExcerpt(&b, c, false)
			return b.String()
		},
	}
}

// NewEducationalQuality is the broad pedagogical check: clarity, engagement,
// and whether explanations are adequate for the apparent audience.
func NewEducationalQuality(runner *Runner) *Validator {
	return &Validator{
		name:   ValidatorQuality,
		runner: runner,
		prompt: func(c *course.Course) string {
			var b strings.Builder
			b.WriteString("Assess the overall educational quality of this course: clarity of explanations, ")
			b.WriteString("use of examples, and whether lessons are self-contained enough to follow. ")
			b.WriteString("Flag specific lessons that fall short.\n\n")
			writeCourseExcerpt(&b, c, true)
			return b.String()
		},
	}
}

// All returns the default deep validator set.
func All(runner *Runner) []*Validator {
	return []*Validator{
		NewObjectivesAlignment(runner),
		NewTerminologyConsistency(runner),
		NewTransitionSmoothness(runner),
		NewEducationalQuality(runner),
	}
}

// writeCourseExcerpt renders the course compactly for analysis prompts.
// Content is truncated per lesson so a long course still fits one call.
func writeCourseExcerpt(b *strings.Builder, c *course.Course, includeObjectives bool) {
	fmt.Fprintf(b, "Course: %s\n", c.Title)
	if c.Description != "" {
		fmt.Fprintf(b, "Description: %s\n", c.Description)
	}
	b.WriteString("\n")

	for _, l := range c.Lessons {
		fmt.Fprintf(b, "Lesson %s: %s\n", l.ID, l.Title)
		if includeObjectives && len(l.Objectives) > 0 {
			fmt.Fprintf(b, "Objectives: %s\n", strings.Join(l.Objectives, "; "))
		}
		fmt.Fprintf(b, "Content: %s\n\n", excerpt(l.Content, excerptWords))
	}
}

// excerpt returns the first maxWords words of text.
func excerpt(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + " ..."
}
