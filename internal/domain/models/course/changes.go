package course

// ChangeKind classifies how a lesson fared in a merge. Constructed once during
// the merge pass so downstream code never re-infers it from field comparisons.
type ChangeKind string

const (
	ChangeKindNew       ChangeKind = "new"
	ChangeKindUpdated   ChangeKind = "updated"
	ChangeKindPreserved ChangeKind = "preserved"
)

// LessonChange is the tagged per-lesson outcome of a merge.
type LessonChange struct {
	Kind   ChangeKind `json:"kind"`
	Lesson Lesson     `json:"lesson"`

	// Labels are human-readable change descriptions, populated only for
	// updated lessons. Display-only, never used for logic.
	Labels []string `json:"labels,omitempty"`
}

// Changes is the structured report returned alongside a merged course.
type Changes struct {
	NewLessons       []LessonChange `json:"new_lessons"`
	UpdatedLessons   []LessonChange `json:"updated_lessons"`
	PreservedLessons []LessonChange `json:"preserved_lessons"`

	// RemovedLessons is always empty: merge never drops a lesson. Deletion
	// is an explicit editor action handled elsewhere.
	RemovedLessons []LessonChange `json:"removed_lessons"`
}

// Total returns the number of lessons accounted for by the change report.
func (c *Changes) Total() int {
	return len(c.NewLessons) + len(c.UpdatedLessons) + len(c.PreservedLessons)
}
