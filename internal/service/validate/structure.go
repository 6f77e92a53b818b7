package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

// StructureValidator checks the document skeleton: lessons exist, their
// order indices form a contiguous sequence, titles are unique, and every
// lesson carries the required fields.
type StructureValidator struct{}

// NewStructureValidator creates a structure validator
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{}
}

// Name returns the validator identifier
func (v *StructureValidator) Name() string { return ValidatorStructure }

// Validate runs the structural checks
func (v *StructureValidator) Validate(_ context.Context, c *course.Course) *validation.Report {
	return guard(v.Name(), func() []validation.Result {
		if len(c.Lessons) == 0 {
			return []validation.Result{issue(validation.SeverityError, "course has no lessons")}
		}

		var results []validation.Result

		if !contiguousOrder(c.Lessons) {
			results = append(results, issue(validation.SeverityWarning,
				fmt.Sprintf("lesson order indices are not a contiguous 0..%d sequence", len(c.Lessons)-1)))
		}

		results = append(results, duplicateTitles(c.Lessons)...)

		for _, l := range c.Lessons {
			var missing []string
			if strings.TrimSpace(l.Title) == "" {
				missing = append(missing, "title")
			}
			if strings.TrimSpace(l.Content) == "" {
				missing = append(missing, "content")
			}
			if len(l.Objectives) == 0 {
				missing = append(missing, "objectives")
			}
			if len(missing) > 0 {
				results = append(results, issue(validation.SeverityError,
					fmt.Sprintf("lesson %q is missing required fields: %s", l.ID, strings.Join(missing, ", ")),
					l.ID))
			}
		}

		if len(results) == 0 {
			results = append(results, pass(fmt.Sprintf("structure ok: %d lessons", len(c.Lessons))))
		}
		return results
	})
}

// contiguousOrder reports whether the order indices, once sorted, form
// exactly 0..n-1.
func contiguousOrder(lessons []course.Lesson) bool {
	orders := make([]int, len(lessons))
	for i, l := range lessons {
		orders[i] = l.Order
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i {
			return false
		}
	}
	return true
}

// duplicateTitles flags titles that collide after case and whitespace
// normalization, reporting every affected lesson ID.
func duplicateTitles(lessons []course.Lesson) []validation.Result {
	byTitle := make(map[string][]string)
	order := make([]string, 0)
	for _, l := range lessons {
		key := strings.ToLower(strings.Join(strings.Fields(l.Title), " "))
		if key == "" {
			continue
		}
		if _, seen := byTitle[key]; !seen {
			order = append(order, key)
		}
		byTitle[key] = append(byTitle[key], l.ID)
	}

	var results []validation.Result
	for _, key := range order {
		ids := byTitle[key]
		if len(ids) > 1 {
			results = append(results, issue(validation.SeverityWarning,
				fmt.Sprintf("duplicate lesson title %q", key), ids...))
		}
	}
	return results
}
