package merge

import (
	"time"

	"coursecraft/internal/domain/models/course"
)

// Result pairs a merged course document with its structured change report.
type Result struct {
	Merged  *course.Course
	Changes *course.Changes
}

// MergeCourses reconciles a freshly generated course document with the stored
// one. The policy: never delete a lesson, never overwrite a human-edited
// field, always refresh AI guidance. That makes repeated regeneration (add a
// source file, regenerate, merge again) non-destructive even when generation
// quality varies.
//
// Ordering is deterministic: incoming lessons first, in incoming order, then
// any stored lessons the new generation did not mention, in their original
// relative order. Lesson Order fields are renumbered to match the merged
// positions, so a partial regeneration cannot leave duplicate orders behind.
// Title and description always keep the existing values; those belong to the
// editor, not this pipeline.
//
// The function is pure and total over well-formed input. Shape validation is
// the caller's job (see the course service), so merge itself has no failure
// modes.
func MergeCourses(existing, incoming *course.Course) Result {
	index := existing.LessonIndex()
	processed := make(map[string]bool, len(existing.Lessons))

	changes := &course.Changes{
		// Merge never drops lessons; the field exists so change reports
		// have a stable shape for consumers.
		RemovedLessons: []course.LessonChange{},
	}
	lessons := make([]course.Lesson, 0, len(existing.Lessons)+len(incoming.Lessons))

	for i := range incoming.Lessons {
		in := &incoming.Lessons[i]

		ex, ok := index[in.ID]
		if !ok {
			added := in.Clone()
			added.Order = len(lessons)
			changes.NewLessons = append(changes.NewLessons, course.LessonChange{
				Kind:   course.ChangeKindNew,
				Lesson: added,
			})
			lessons = append(lessons, added)
			continue
		}

		processed[in.ID] = true
		diff := DiffLesson(ex, in)
		if diff.Changed {
			diff.Merged.Order = len(lessons)
			changes.UpdatedLessons = append(changes.UpdatedLessons, course.LessonChange{
				Kind:   course.ChangeKindUpdated,
				Lesson: diff.Merged,
				Labels: diff.Changes,
			})
			lessons = append(lessons, diff.Merged)
		} else {
			kept := ex.Clone()
			kept.Order = len(lessons)
			changes.PreservedLessons = append(changes.PreservedLessons, course.LessonChange{
				Kind:   course.ChangeKindPreserved,
				Lesson: kept,
			})
			lessons = append(lessons, kept)
		}
	}

	// Lessons the new generation never mentioned (partial regeneration).
	// Kept, not dropped, appended after all incoming-derived lessons.
	for i := range existing.Lessons {
		ex := &existing.Lessons[i]
		if processed[ex.ID] {
			continue
		}
		kept := ex.Clone()
		kept.Order = len(lessons)
		changes.PreservedLessons = append(changes.PreservedLessons, course.LessonChange{
			Kind:   course.ChangeKindPreserved,
			Lesson: kept,
		})
		lessons = append(lessons, kept)
	}

	merged := &course.Course{
		ID:          existing.ID,
		Title:       existing.Title,
		Description: existing.Description,
		Lessons:     lessons,
		Outline:     pickOutline(existing.Outline, incoming.Outline),
		SourceFiles: appendSourceFiles(existing.SourceFiles, incoming.SourceFiles),
		Version:     existing.Version + 1,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	return Result{Merged: merged, Changes: changes}
}

// pickOutline replaces the outline wholesale with the newer generation's when
// it provided one.
func pickOutline(existing, incoming []course.OutlineItem) []course.OutlineItem {
	src := existing
	if len(incoming) > 0 {
		src = incoming
	}
	if src == nil {
		return nil
	}
	out := make([]course.OutlineItem, len(src))
	copy(out, src)
	return out
}

// appendSourceFiles concatenates refs without deduplication. Source files
// accumulate across generations; pruning them is an explicit editor action.
func appendSourceFiles(existing, incoming []course.SourceFileRef) []course.SourceFileRef {
	out := make([]course.SourceFileRef, 0, len(existing)+len(incoming))
	out = append(out, existing...)
	out = append(out, incoming...)
	return out
}
