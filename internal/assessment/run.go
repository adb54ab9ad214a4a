package assessment

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/shibl/internal/lesson"
)

// ErrRunFinished is returned when answering after the last activity was
// answered correctly.
var ErrRunFinished = errors.New("run already finished")

// Step is the outcome of one answer within a run.
type Step struct {
	lesson.Result

	// Ratings is set once the run finishes, keyed by graded category.
	Ratings map[Category]Rating
}

type score struct {
	correct int
	total   int
}

// Run drives an engine through an exam and records the graded result
// when the last activity is answered correctly. Wrong answers can be
// retried; only correct answers count.
type Run struct {
	engine  *lesson.Engine
	reports *Reports
	kind    Kind
	final   bool

	// categories maps every activity position to its graded category.
	categories []Category
	scores     map[Category]*score
	order      []Category
	finished   bool
}

// StartExam runs a category exam or assessment from its first activity.
func StartExam(engine *lesson.Engine, reports *Reports, exam *Exam, kind Kind) (*Run, error) {
	r := newRun(engine, reports)
	r.kind = kind
	for range exam.Activities {
		r.categories = append(r.categories, exam.Category)
	}
	r.track(exam.Category, len(exam.Activities))

	if err := engine.Start(exam.Lesson(), 0); err != nil {
		return nil, fmt.Errorf("start exam %s: %w", exam.ID, err)
	}
	return r, nil
}

// StartFinal runs the final exam, grading every section separately.
func StartFinal(engine *lesson.Engine, reports *Reports, exam *FinalExam) (*Run, error) {
	r := newRun(engine, reports)
	r.final = true
	for _, s := range exam.Sections {
		for range s.Activities {
			r.categories = append(r.categories, s.Category)
		}
		r.track(s.Category, len(s.Activities))
	}

	if err := engine.Start(exam.Lesson(), 0); err != nil {
		return nil, fmt.Errorf("start final exam %s: %w", exam.ID, err)
	}
	return r, nil
}

func newRun(engine *lesson.Engine, reports *Reports) *Run {
	if reports == nil {
		reports = NewReports(nil, nil)
	}
	return &Run{engine: engine, reports: reports, scores: make(map[Category]*score)}
}

func (r *Run) track(c Category, activities int) {
	if s, ok := r.scores[c]; ok {
		s.total += activities
		return
	}
	r.scores[c] = &score{total: activities}
	r.order = append(r.order, c)
}

// Current returns the activity awaiting an answer.
func (r *Run) Current() (lesson.Activity, bool) {
	if r.finished {
		return lesson.Activity{}, false
	}
	return r.engine.CurrentActivity()
}

// Position returns the zero-based activity index and the activity count.
func (r *Run) Position() (int, int) {
	return r.engine.Index(), len(r.categories)
}

// Finished reports whether the run has been graded.
func (r *Run) Finished() bool {
	return r.finished
}

// Submit answers the current activity. The answer that finishes the run
// grades it and saves the result; the ratings are returned even when the
// save fails.
func (r *Run) Submit(ctx context.Context, choice string) (Step, error) {
	if r.finished {
		return Step{}, ErrRunFinished
	}
	index := r.engine.Index()
	res, err := r.engine.Submit(choice)
	if err != nil {
		return Step{}, err
	}
	if res.Correct && index < len(r.categories) {
		r.scores[r.categories[index]].correct++
	}

	step := Step{Result: res}
	if !res.Completed {
		return step, nil
	}

	r.finished = true
	step.Ratings = r.Ratings()
	return step, r.save(ctx, step.Ratings)
}

// Ratings grades every category from the answers so far.
func (r *Run) Ratings() map[Category]Rating {
	out := make(map[Category]Rating, len(r.scores))
	for c, s := range r.scores {
		out[c] = Grade(s.correct, s.total)
	}
	return out
}

// Score returns the correct answers and activity count for category.
func (r *Run) Score(c Category) (correct, total int) {
	if s, ok := r.scores[c]; ok {
		return s.correct, s.total
	}
	return 0, 0
}

func (r *Run) save(ctx context.Context, ratings map[Category]Rating) error {
	if r.final {
		return r.reports.SaveFinalExam(ctx, ratings)
	}
	c := r.order[0]
	switch r.kind {
	case KindAssessment:
		_, err := r.reports.SetSummaryRating(ctx, c, ratings[c])
		return err
	default:
		_, err := r.reports.SaveExamReport(ctx, c, ratings[c])
		return err
	}
}
