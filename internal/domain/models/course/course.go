package course

import (
	"time"
)

// Course is the top-level aggregate the merge engine and validators operate on.
// Lessons are kept in authoring order; that order is significant and preserved
// across regenerations.
type Course struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Lessons     []Lesson        `json:"lessons" db:"lessons"`
	Outline     []OutlineItem   `json:"outline,omitempty" db:"outline"`
	SourceFiles []SourceFileRef `json:"source_files" db:"source_files"`
	Version     int             `json:"version" db:"version"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Lesson is a single unit of course content. The ID is the stable identity the
// generator must preserve when it regenerates the same logical lesson.
type Lesson struct {
	ID         string   `json:"id"`
	Order      int      `json:"order"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Objectives []string `json:"objectives"`
	Logline    *string  `json:"logline,omitempty"`

	// AI guidance fields. Always refreshable: a new generation that supplies
	// them replaces the old values regardless of edit flags.
	GuidingQuestions []string `json:"guiding_questions,omitempty"`
	ExpansionTips    []string `json:"expansion_tips,omitempty"`
	ExamplesToAdd    []string `json:"examples_to_add,omitempty"`

	// Edit-provenance flags. Set once a human changes the field through the
	// editor; a flagged field is never overwritten by merge.
	TitleEdited      bool `json:"title_edited"`
	ContentEdited    bool `json:"content_edited"`
	ObjectivesEdited bool `json:"objectives_edited"`

	Metadata *LessonMetadata `json:"metadata,omitempty"`
}

// LessonMetadata records who last touched a lesson and how often.
type LessonMetadata struct {
	LastModified time.Time `json:"last_modified"`
	ModifiedBy   string    `json:"modified_by"` // "ai" or "user"
	EditCount    int       `json:"edit_count"`
}

// OutlineItem is a lesson-linked summary bullet. The outline is replaced
// wholesale by the newer generation when it provides one.
type OutlineItem struct {
	LessonID string `json:"lesson_id"`
	Summary  string `json:"summary"`
}

// SourceFileRef points at an ingested source file. Refs accumulate across
// generations; merge never deduplicates or removes them.
type SourceFileRef struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"` // "document", "image", "webpage"
	AddedAt time.Time `json:"added_at"`
}

// LessonIndex builds a lookup of lessons keyed by stable ID.
func (c *Course) LessonIndex() map[string]*Lesson {
	index := make(map[string]*Lesson, len(c.Lessons))
	for i := range c.Lessons {
		index[c.Lessons[i].ID] = &c.Lessons[i]
	}
	return index
}

// Clone returns a deep copy of the lesson. The merge engine mutates copies,
// never its inputs.
func (l Lesson) Clone() Lesson {
	out := l
	out.Objectives = cloneStrings(l.Objectives)
	out.GuidingQuestions = cloneStrings(l.GuidingQuestions)
	out.ExpansionTips = cloneStrings(l.ExpansionTips)
	out.ExamplesToAdd = cloneStrings(l.ExamplesToAdd)
	if l.Logline != nil {
		v := *l.Logline
		out.Logline = &v
	}
	if l.Metadata != nil {
		m := *l.Metadata
		out.Metadata = &m
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
