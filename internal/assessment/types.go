package assessment

import "github.com/abhisek/shibl/internal/lesson"

// Kind selects where a graded run is recorded.
type Kind string

const (
	// KindAssessment updates the per-category assessment summary.
	KindAssessment Kind = "assessment"
	// KindExam upserts the category's exam report.
	KindExam Kind = "exam"
)

// Exam is a category exam or placement assessment.
type Exam struct {
	ID              string            `json:"id"`
	Category        Category          `json:"category"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Objective       string            `json:"objective"`
	DurationMinutes int               `json:"durationMinutes"`
	Activities      []lesson.Activity `json:"activities"`
}

// Lesson returns the exam as a level-less lesson the engine can run.
func (e *Exam) Lesson() *lesson.Lesson {
	return &lesson.Lesson{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Objective:       e.Objective,
		DurationMinutes: e.DurationMinutes,
		Activities:      e.Activities,
	}
}

// Section is one category block of the final exam.
type Section struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Category   Category          `json:"category"`
	Activities []lesson.Activity `json:"activities"`
}

// FinalExam covers every category in fixed-size sections.
type FinalExam struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Objective       string    `json:"objective"`
	DurationMinutes int       `json:"durationMinutes"`
	Sections        []Section `json:"sections"`
}

// Lesson flattens the sections into one lesson, section by section.
func (f *FinalExam) Lesson() *lesson.Lesson {
	l := &lesson.Lesson{
		ID:              f.ID,
		Title:           f.Title,
		Description:     f.Description,
		Objective:       f.Objective,
		DurationMinutes: f.DurationMinutes,
	}
	for _, s := range f.Sections {
		l.Activities = append(l.Activities, s.Activities...)
	}
	return l
}
