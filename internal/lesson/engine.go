// Package lesson sequences the activities of one lesson, judges submitted
// answers and reports every step as an event on a Bus.
package lesson

import (
	"errors"

	"github.com/abhisek/shibl/internal/logger"
)

var (
	// ErrNotStarted is returned when an answer is submitted before any
	// lesson was started. It indicates a caller bug.
	ErrNotStarted = errors.New("lesson has not been started")

	// ErrEmptyLesson is returned when starting a lesson with no activities.
	ErrEmptyLesson = errors.New("lesson has no activities")
)

// Result is the outcome of one submitted answer.
type Result struct {
	Correct   bool
	Completed bool // correct on the last activity
	NextIndex int
}

// Engine owns the current lesson and activity cursor for its lifetime.
// It is not safe for concurrent use.
type Engine struct {
	bus    *Bus
	log    *logger.Logger
	lesson *Lesson
	index  int
}

// NewEngine creates an engine emitting on bus. A nil logger discards
// diagnostics.
func NewEngine(bus *Bus, log *logger.Logger) *Engine {
	return &Engine{
		bus: bus,
		log: logger.OrNop(log).With("component", "lesson_engine"),
	}
}

// Start makes l the current lesson, positions the cursor at startIndex
// clamped into the lesson's range and emits LESSON_STARTED. It may be
// called again to re-enter a lesson.
func (e *Engine) Start(l *Lesson, startIndex int) error {
	if l == nil || len(l.Activities) == 0 {
		return ErrEmptyLesson
	}
	e.lesson = l
	e.index = max(0, min(startIndex, l.LastIndex()))
	e.bus.Emit(Event{
		Type: EventLessonStarted,
		Payload: Payload{
			LessonID:   l.ID,
			ActivityID: l.Activities[e.index].ID,
		},
	})
	return nil
}

// CurrentActivity returns the activity under the cursor. ok is false when
// no lesson is active.
func (e *Engine) CurrentActivity() (Activity, bool) {
	if e.lesson == nil {
		return Activity{}, false
	}
	return e.lesson.Activities[e.index], true
}

// Lesson returns the active lesson, or nil.
func (e *Engine) Lesson() *Lesson {
	return e.lesson
}

// Index returns the cursor position within the active lesson.
func (e *Engine) Index() int {
	return e.index
}

// Submit judges choice against the current activity.
//
// A correct answer advances the cursor by one, except on the last activity
// where LESSON_COMPLETED is emitted and the cursor stays put; moving to
// another lesson is the caller's decision. A wrong answer leaves the cursor
// on the same activity.
func (e *Engine) Submit(choice string) (Result, error) {
	if e.lesson == nil {
		return Result{}, ErrNotStarted
	}

	activity := e.lesson.Activities[e.index]
	payload := Payload{LessonID: e.lesson.ID, ActivityID: activity.ID, Choice: choice}
	e.bus.Emit(Event{Type: EventAnswerSubmitted, Payload: payload})

	correct, known := CheckAnswer(activity, choice)
	if !known {
		e.log.Warn("unknown activity type, accepting answer",
			"lesson_id", e.lesson.ID,
			"activity_id", activity.ID,
			"type", string(activity.Type),
		)
	}
	isLast := e.index == e.lesson.LastIndex()

	if correct {
		e.bus.Emit(Event{Type: EventAnswerCorrect, Payload: payload})
		if isLast {
			e.bus.Emit(Event{
				Type:    EventLessonCompleted,
				Payload: Payload{LessonID: e.lesson.ID, ActivityID: activity.ID},
			})
		} else {
			e.index++
		}
	} else {
		e.bus.Emit(Event{Type: EventAnswerWrong, Payload: payload})
	}

	return Result{
		Correct:   correct,
		Completed: correct && isLast,
		NextIndex: e.index,
	}, nil
}

// Restart starts the current lesson again from its first activity.
func (e *Engine) Restart() error {
	if e.lesson == nil {
		return ErrNotStarted
	}
	return e.Start(e.lesson, 0)
}
