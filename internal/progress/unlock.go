package progress

import (
	"fmt"
	"slices"

	"github.com/abhisek/shibl/internal/lesson"
)

// Level groups the lessons sharing one level number, in content order.
type Level struct {
	Number        int
	ID            string
	Lessons       []*lesson.Lesson
	FirstLessonID string
}

// LevelID returns the storage id for a level number.
func LevelID(number int) string {
	return fmt.Sprintf("level-%d", number)
}

// GroupLevels groups lessons by level number, sorted ascending. Lesson
// order within a level follows the input order.
func GroupLevels(lessons []*lesson.Lesson) []Level {
	byNumber := make(map[int][]*lesson.Lesson)
	for _, l := range lessons {
		byNumber[l.Level] = append(byNumber[l.Level], l)
	}

	levels := make([]Level, 0, len(byNumber))
	for n, ls := range byNumber {
		levels = append(levels, Level{
			Number:        n,
			ID:            LevelID(n),
			Lessons:       ls,
			FirstLessonID: ls[0].ID,
		})
	}
	slices.SortFunc(levels, func(a, b Level) int { return a.Number - b.Number })
	return levels
}

// FindLesson returns the lesson with id and its position in the level.
func (lv Level) FindLesson(id string) (*lesson.Lesson, int, bool) {
	for i, l := range lv.Lessons {
		if l.ID == id {
			return l, i, true
		}
	}
	return nil, -1, false
}

// LevelUnlocked reports whether level number may be played. The lowest
// level is always unlocked; any other level needs the previous level's
// record to be completed. A level whose predecessor number is absent from
// levels is unlocked. lookup returns the stored record for a level.
func LevelUnlocked(levels []Level, number int, lookup func(Level) LevelProgress) bool {
	if len(levels) == 0 {
		return false
	}
	lowest := levels[0].Number
	for _, lv := range levels[1:] {
		lowest = min(lowest, lv.Number)
	}
	if number == lowest {
		return true
	}

	for _, lv := range levels {
		if lv.Number == number-1 {
			return lookup(lv).LevelCompleted
		}
	}
	return true
}

// LessonStatus is the display status of a lesson within a level.
type LessonStatus string

const (
	StatusCompleted LessonStatus = "completed"
	StatusCurrent   LessonStatus = "current"
	StatusReady     LessonStatus = "ready"
	StatusLocked    LessonStatus = "locked"
)

// LessonStatusAt returns the status of the lesson at index within level.
// Lessons unlock strictly in sequence: a lesson is selectable when it is
// current, completed, or its predecessor is completed. levelLocked forces
// every lesson that is neither completed nor current to locked.
func LessonStatusAt(level Level, p LevelProgress, index int, levelLocked bool) LessonStatus {
	l := level.Lessons[index]
	completed := LessonFrom(p, l.ID).Completed
	current := l.ID == p.CurrentLessonID

	switch {
	case completed:
		return StatusCompleted
	case current:
		return StatusCurrent
	case levelLocked:
		return StatusLocked
	case index == 0 || LessonFrom(p, level.Lessons[index-1].ID).Completed:
		return StatusReady
	default:
		return StatusLocked
	}
}

// Selectable reports whether the lesson at index may be opened.
func Selectable(level Level, p LevelProgress, index int) bool {
	return LessonStatusAt(level, p, index, false) != StatusLocked
}

// AllCompleted reports whether every lesson of level has a completed
// record in p. An empty level is never complete.
func AllCompleted(level Level, p LevelProgress) bool {
	if len(level.Lessons) == 0 {
		return false
	}
	for _, l := range level.Lessons {
		if !LessonFrom(p, l.ID).Completed {
			return false
		}
	}
	return true
}

// CompletedCount returns how many of the level's lessons are completed.
func CompletedCount(level Level, p LevelProgress) int {
	n := 0
	for _, l := range level.Lessons {
		if LessonFrom(p, l.ID).Completed {
			n++
		}
	}
	return n
}

// Percent returns the rounded share of completed lessons.
func Percent(level Level, p LevelProgress) int {
	total := max(len(level.Lessons), 1)
	return (CompletedCount(level, p)*100 + total/2) / total
}
