package merge

import (
	"fmt"

	"coursecraft/internal/domain/models/course"
)

// DiffResult is the outcome of reconciling one incoming lesson against its
// stored counterpart.
type DiffResult struct {
	Merged  course.Lesson
	Changed bool

	// Changes holds ordered human-readable labels for UI display. Never
	// used for logic.
	Changes []string
}

// DiffLesson reconciles an incoming generation of a lesson with the existing
// one. A field whose edit-provenance flag is set belongs to the user and is
// never overwritten, regardless of what the generator produced. AI guidance
// fields are the opposite: whenever the incoming generation supplies them,
// they replace the old values.
//
// Callers must only invoke this for lessons whose ID exists in the stored
// course; unknown IDs are classified as new by MergeCourses without a diff.
func DiffLesson(existing, incoming *course.Lesson) DiffResult {
	merged := existing.Clone()
	var labels []string
	changed := false

	if !existing.TitleEdited && incoming.Title != existing.Title {
		merged.Title = incoming.Title
		labels = append(labels, fmt.Sprintf("title changed to %q", incoming.Title))
		changed = true
	}

	if !existing.ContentEdited && incoming.Content != existing.Content {
		merged.Content = incoming.Content
		labels = append(labels, "content regenerated")
		changed = true
	}

	if !existing.ObjectivesEdited && !equalStrings(incoming.Objectives, existing.Objectives) {
		merged.Objectives = copyStrings(incoming.Objectives)
		labels = append(labels, "objectives updated")
		changed = true
	}

	// Guidance fields are regenerable and never user-locked. Supplying a
	// field (even an empty list) replaces it; omitting it keeps the old
	// value, which is the per-lesson safe fallback when guidance
	// generation failed upstream.
	if incoming.GuidingQuestions != nil {
		if !equalStrings(incoming.GuidingQuestions, existing.GuidingQuestions) {
			labels = append(labels, "guiding questions refreshed")
			changed = true
		}
		merged.GuidingQuestions = copyStrings(incoming.GuidingQuestions)
	}
	if incoming.ExpansionTips != nil {
		if !equalStrings(incoming.ExpansionTips, existing.ExpansionTips) {
			labels = append(labels, "expansion tips refreshed")
			changed = true
		}
		merged.ExpansionTips = copyStrings(incoming.ExpansionTips)
	}
	if incoming.ExamplesToAdd != nil {
		if !equalStrings(incoming.ExamplesToAdd, existing.ExamplesToAdd) {
			labels = append(labels, "examples refreshed")
			changed = true
		}
		merged.ExamplesToAdd = copyStrings(incoming.ExamplesToAdd)
	}

	if incoming.Logline != nil && *incoming.Logline != "" &&
		(existing.Logline == nil || *existing.Logline != *incoming.Logline) {
		v := *incoming.Logline
		merged.Logline = &v
		labels = append(labels, "logline updated")
		changed = true
	}

	return DiffResult{Merged: merged, Changed: changed, Changes: labels}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
