package session

import (
	"context"
	"time"

	"github.com/abhisek/shibl/internal/progress"
)

// LessonSummary is one row of a level overview.
type LessonSummary struct {
	ID            string
	Title         string
	Status        progress.LessonStatus
	ActivityIndex int
	Activities    int
}

// LevelSummary describes a level's unlock state and completion.
type LevelSummary struct {
	Number           int
	ID               string
	Unlocked         bool
	Started          bool
	Completed        bool
	CurrentLessonID  string
	CompletedLessons int
	TotalLessons     int
	Percent          int
	Lessons          []LessonSummary
}

// Overview summarizes every level in catalog order.
func (r *Runner) Overview(ctx context.Context) []LevelSummary {
	out := make([]LevelSummary, 0, len(r.levels))
	for i := range r.levels {
		lv := &r.levels[i]
		p := r.store.Load(ctx, lv.ID, lv.FirstLessonID)
		unlocked := r.unlocked(ctx, lv)

		s := LevelSummary{
			Number:           lv.Number,
			ID:               lv.ID,
			Unlocked:         unlocked,
			Started:          p.Started,
			Completed:        p.LevelCompleted,
			CurrentLessonID:  p.CurrentLessonID,
			CompletedLessons: progress.CompletedCount(*lv, p),
			TotalLessons:     len(lv.Lessons),
			Percent:          progress.Percent(*lv, p),
		}
		for j, l := range lv.Lessons {
			s.Lessons = append(s.Lessons, LessonSummary{
				ID:            l.ID,
				Title:         l.Title,
				Status:        progress.LessonStatusAt(*lv, p, j, !unlocked),
				ActivityIndex: progress.LessonFrom(p, l.ID).ActivityIndex,
				Activities:    len(l.Activities),
			})
		}
		out = append(out, s)
	}
	return out
}

// Stats holds answer totals for the lifetime of a Runner.
type Stats struct {
	Duration time.Duration
	Answers  int
	Correct  int
	Accuracy float64
}

// Stats returns the answer totals so far.
func (r *Runner) Stats() Stats {
	var accuracy float64
	if r.answers > 0 {
		accuracy = float64(r.correct) / float64(r.answers)
	}
	return Stats{
		Duration: r.now().Sub(r.startedAt),
		Answers:  r.answers,
		Correct:  r.correct,
		Accuracy: accuracy,
	}
}
