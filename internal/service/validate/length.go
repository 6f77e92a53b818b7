package validate

import (
	"context"
	"fmt"
	"strings"

	"coursecraft/internal/config"
	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

// LengthValidator classifies lesson word counts against configurable
// thresholds.
type LengthValidator struct {
	minWords int
	maxWords int
}

// NewLengthValidator creates a content-length validator with the default
// thresholds.
func NewLengthValidator() *LengthValidator {
	return &LengthValidator{
		minWords: config.DefaultMinContentWords,
		maxWords: config.DefaultMaxContentWords,
	}
}

// NewLengthValidatorWithLimits creates a content-length validator with custom
// thresholds.
func NewLengthValidatorWithLimits(minWords, maxWords int) *LengthValidator {
	return &LengthValidator{minWords: minWords, maxWords: maxWords}
}

// Name returns the validator identifier
func (v *LengthValidator) Name() string { return ValidatorLength }

// Validate runs the word-count checks
func (v *LengthValidator) Validate(_ context.Context, c *course.Course) *validation.Report {
	return guard(v.Name(), func() []validation.Result {
		var results []validation.Result

		inRange := 0
		inRangeWords := 0

		for _, l := range c.Lessons {
			if strings.TrimSpace(l.Content) == "" {
				results = append(results, issue(validation.SeverityError,
					fmt.Sprintf("lesson %q has no content", l.ID), l.ID))
				continue
			}

			words := countWords(l.Content)
			switch {
			case words < v.minWords:
				results = append(results, issue(validation.SeverityWarning,
					fmt.Sprintf("lesson %q is too short: %d words (minimum %d)", l.ID, words, v.minWords),
					l.ID))
			case words > v.maxWords:
				results = append(results, issue(validation.SeverityWarning,
					fmt.Sprintf("lesson %q is too long: %d words (maximum %d)", l.ID, words, v.maxWords),
					l.ID))
			default:
				inRange++
				inRangeWords += words
			}
		}

		avg := 0
		if inRange > 0 {
			avg = inRangeWords / inRange
		}
		results = append(results, pass(fmt.Sprintf(
			"%d of %d lessons within length range, average %d words", inRange, len(c.Lessons), avg)))

		return results
	})
}
