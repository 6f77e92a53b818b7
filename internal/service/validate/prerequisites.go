package validate

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

//go:embed config/prerequisites.yaml
var prerequisiteConfig embed.FS

// numberedTitlePattern matches "Part 3", "Lesson 12", "Урок 2" and similar
// numbered-title forms in Latin and Cyrillic. Digit patterns only; number
// words are out of scope.
var numberedTitlePattern = regexp.MustCompile(`(?i)\b(?:part|module|lesson|chapter|часть|модуль|урок|глава)\s*#?\s*(\d+)`)

// prerequisiteKeywords is the shape of the embedded keyword file.
type prerequisiteKeywords struct {
	Keywords []string `yaml:"keywords"`
}

// PrerequisiteValidator applies ordering heuristics: numbered lesson titles
// must increase through the document, and the opening lesson should not
// assume prior material.
type PrerequisiteValidator struct {
	keywords []string
}

// NewPrerequisiteValidator creates a prerequisite-ordering validator with the
// embedded keyword list.
func NewPrerequisiteValidator() (*PrerequisiteValidator, error) {
	data, err := prerequisiteConfig.ReadFile("config/prerequisites.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prerequisite keywords: %w", err)
	}

	var cfg prerequisiteKeywords
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal prerequisite keywords: %w", err)
	}

	return NewPrerequisiteValidatorWithKeywords(cfg.Keywords), nil
}

// NewPrerequisiteValidatorWithKeywords creates a validator with a custom
// keyword list.
func NewPrerequisiteValidatorWithKeywords(keywords []string) *PrerequisiteValidator {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &PrerequisiteValidator{keywords: lowered}
}

// Name returns the validator identifier
func (v *PrerequisiteValidator) Name() string { return ValidatorPrerequisites }

// Validate runs the ordering heuristics
func (v *PrerequisiteValidator) Validate(_ context.Context, c *course.Course) *validation.Report {
	return guard(v.Name(), func() []validation.Result {
		var results []validation.Result

		if r := checkNumberedTitles(c.Lessons); r != nil {
			results = append(results, *r)
		} else {
			results = append(results, pass("numbered lesson titles are in order"))
		}

		if r := v.checkFirstLesson(c.Lessons); r != nil {
			results = append(results, *r)
		} else {
			results = append(results, pass("first lesson assumes no prerequisites"))
		}

		return results
	})
}

// checkNumberedTitles warns when numbers extracted from titled sequences are
// not strictly increasing in document order.
func checkNumberedTitles(lessons []course.Lesson) *validation.Result {
	prev := 0
	var offenders []string
	seen := false

	for _, l := range lessons {
		m := numberedTitlePattern.FindStringSubmatch(l.Title)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if seen && n <= prev {
			offenders = append(offenders, l.ID)
		}
		prev = n
		seen = true
	}

	if len(offenders) == 0 {
		return nil
	}
	r := issue(validation.SeverityWarning,
		"numbered lesson titles are not strictly increasing", offenders...)
	return &r
}

// checkFirstLesson warns when the opening lesson's content references
// prerequisites.
func (v *PrerequisiteValidator) checkFirstLesson(lessons []course.Lesson) *validation.Result {
	if len(lessons) == 0 {
		return nil
	}

	first := lessons[0]
	content := strings.ToLower(first.Content)
	for _, kw := range v.keywords {
		if strings.Contains(content, kw) {
			r := issue(validation.SeverityWarning,
				fmt.Sprintf("first lesson mentions prerequisites (%q)", kw), first.ID)
			return &r
		}
	}
	return nil
}
