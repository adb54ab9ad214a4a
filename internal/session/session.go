// Package session runs a learner through the levels of a lesson catalog.
// It gates levels and lessons, persists progress after every answer and
// moves on to the next lesson once one is finished.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/shibl/internal/companion"
	"github.com/abhisek/shibl/internal/lesson"
	"github.com/abhisek/shibl/internal/logger"
	"github.com/abhisek/shibl/internal/progress"
)

var (
	ErrUnknownLevel  = errors.New("unknown level")
	ErrUnknownLesson = errors.New("unknown lesson")
	ErrLevelLocked   = errors.New("level is locked")
	ErrLessonLocked  = errors.New("lesson is locked")
	ErrNoActiveLevel = errors.New("no level has been started")
)

// Options configures a Runner.
type Options struct {
	// Levels is the catalog, usually from progress.GroupLevels.
	Levels []progress.Level
	// Store persists progress. Nil keeps progress in nothing at all.
	Store *progress.Store
	// Bus receives lesson events and LEVEL_COMPLETED. Created when nil.
	Bus *lesson.Bus
	// Engine must emit on Bus. Created when nil.
	Engine *lesson.Engine
	// Companion, when set, is reset together with a level.
	Companion *companion.Adapter
	Logger    *logger.Logger
	// ID identifies the session in logs. A random UUID when empty.
	ID string
	// Now overrides time.Now.
	Now func() time.Time
}

// Outcome describes what one submitted answer changed.
type Outcome struct {
	lesson.Result

	LessonID   string
	ActivityID string

	// NextLessonID is set when the answer finished a lesson and the
	// runner moved on to the following one.
	NextLessonID string

	// LevelCompleted is true only for the answer that completed the level.
	LevelCompleted bool

	// Progress is the level record after every write of this answer.
	Progress progress.LevelProgress
}

// Runner owns the active level and drives the engine for it. It is not
// safe for concurrent use.
type Runner struct {
	id        string
	levels    []progress.Level
	store     *progress.Store
	bus       *lesson.Bus
	engine    *lesson.Engine
	companion *companion.Adapter
	log       *logger.Logger
	now       func() time.Time

	active    *progress.Level
	startedAt time.Time
	answers   int
	correct   int
}

// New creates a Runner.
func New(opts Options) *Runner {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	bus := opts.Bus
	if bus == nil {
		bus = lesson.NewBus()
	}
	engine := opts.Engine
	if engine == nil {
		engine = lesson.NewEngine(bus, opts.Logger)
	}
	store := opts.Store
	if store == nil {
		store = progress.NewStore(nil, opts.Logger)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		id:        id,
		levels:    opts.Levels,
		store:     store,
		bus:       bus,
		engine:    engine,
		companion: opts.Companion,
		log:       logger.OrNop(opts.Logger).With("component", "session", "session_id", id),
		now:       now,
		startedAt: now(),
	}
}

func (r *Runner) ID() string { return r.id }

func (r *Runner) Bus() *lesson.Bus { return r.bus }

func (r *Runner) Levels() []progress.Level { return r.levels }

// ActiveLevel returns the level being played.
func (r *Runner) ActiveLevel() (progress.Level, bool) {
	if r.active == nil {
		return progress.Level{}, false
	}
	return *r.active, true
}

// CurrentLesson returns the lesson and activity under the engine cursor.
func (r *Runner) CurrentLesson() (*lesson.Lesson, lesson.Activity, bool) {
	if r.active == nil {
		return nil, lesson.Activity{}, false
	}
	act, ok := r.engine.CurrentActivity()
	return r.engine.Lesson(), act, ok
}

// ActivityIndex returns the engine cursor within the current lesson.
func (r *Runner) ActivityIndex() int {
	return r.engine.Index()
}

// Progress returns the stored record for levelID.
func (r *Runner) Progress(ctx context.Context, levelID string) (progress.LevelProgress, error) {
	lv, err := r.level(levelID)
	if err != nil {
		return progress.LevelProgress{}, err
	}
	return r.store.Load(ctx, lv.ID, lv.FirstLessonID), nil
}

// StartLevel marks an unlocked level as started and resumes its current
// lesson at the saved activity.
func (r *Runner) StartLevel(ctx context.Context, levelID string) (progress.LevelProgress, error) {
	lv, err := r.level(levelID)
	if err != nil {
		return progress.LevelProgress{}, err
	}
	if !r.unlocked(ctx, lv) {
		return progress.LevelProgress{}, fmt.Errorf("%w: %s", ErrLevelLocked, levelID)
	}

	p := r.store.Load(ctx, lv.ID, lv.FirstLessonID)
	current, _, ok := lv.FindLesson(p.CurrentLessonID)
	if !ok {
		current = lv.Lessons[0]
	}

	p, err = r.store.UpdateLevel(ctx, lv.ID, lv.FirstLessonID, progress.LevelPatch{
		CurrentLessonID: &current.ID,
		Started:         ptr(true),
	})
	if err != nil {
		return p, err
	}
	if err := r.engine.Start(current, progress.LessonFrom(p, current.ID).ActivityIndex); err != nil {
		return p, fmt.Errorf("start lesson %s: %w", current.ID, err)
	}
	r.active = lv

	r.log.Info("level started", "level_id", lv.ID, "lesson_id", current.ID, "activity_index", r.engine.Index())
	return p, nil
}

// SelectLesson opens lessonID within an unlocked level. Only lessons that
// are current, completed or follow a completed lesson can be opened.
func (r *Runner) SelectLesson(ctx context.Context, levelID, lessonID string) (progress.LevelProgress, error) {
	lv, err := r.level(levelID)
	if err != nil {
		return progress.LevelProgress{}, err
	}
	if !r.unlocked(ctx, lv) {
		return progress.LevelProgress{}, fmt.Errorf("%w: %s", ErrLevelLocked, levelID)
	}
	target, idx, ok := lv.FindLesson(lessonID)
	if !ok {
		return progress.LevelProgress{}, fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}

	p := r.store.Load(ctx, lv.ID, lv.FirstLessonID)
	if !progress.Selectable(*lv, p, idx) {
		return p, fmt.Errorf("%w: %s", ErrLessonLocked, lessonID)
	}

	p, err = r.store.UpdateLevel(ctx, lv.ID, lv.FirstLessonID, progress.LevelPatch{
		CurrentLessonID: &target.ID,
		Started:         ptr(true),
	})
	if err != nil {
		return p, err
	}
	if err := r.engine.Start(target, progress.LessonFrom(p, target.ID).ActivityIndex); err != nil {
		return p, fmt.Errorf("start lesson %s: %w", target.ID, err)
	}
	r.active = lv

	r.log.Info("lesson selected", "level_id", lv.ID, "lesson_id", target.ID)
	return p, nil
}

// Submit judges choice, saves the lesson position and advances through
// the level. A finished lesson hands over to the next lesson of the level;
// finishing every lesson completes the level once and emits
// LEVEL_COMPLETED.
func (r *Runner) Submit(ctx context.Context, choice string) (Outcome, error) {
	if r.active == nil {
		return Outcome{}, ErrNoActiveLevel
	}
	lv := r.active
	current := r.engine.Lesson()
	activity, _ := r.engine.CurrentActivity()

	res, err := r.engine.Submit(choice)
	if err != nil {
		return Outcome{}, err
	}
	r.answers++
	if res.Correct {
		r.correct++
	}

	out := Outcome{Result: res, LessonID: current.ID, ActivityID: activity.ID}

	// A lesson finished once stays finished when it is replayed.
	before := r.store.Load(ctx, lv.ID, lv.FirstLessonID)
	updated, err := r.store.SaveLesson(ctx, lv.ID, lv.FirstLessonID, progress.LessonProgress{
		LessonID:      current.ID,
		ActivityIndex: res.NextIndex,
		Completed:     res.Completed || progress.LessonFrom(before, current.ID).Completed,
	})
	out.Progress = updated
	if err != nil {
		r.log.Error("saving lesson progress failed", "level_id", lv.ID, "lesson_id", current.ID, "error", err)
		return out, err
	}

	_, idx, _ := lv.FindLesson(current.ID)
	if res.Completed && idx < len(lv.Lessons)-1 {
		next := lv.Lessons[idx+1]
		moved, err := r.store.UpdateLevel(ctx, lv.ID, lv.FirstLessonID, progress.LevelPatch{
			CurrentLessonID: &next.ID,
			Started:         ptr(true),
		})
		if err != nil {
			return out, err
		}
		out.Progress = moved
		if err := r.engine.Start(next, progress.LessonFrom(moved, next.ID).ActivityIndex); err != nil {
			return out, fmt.Errorf("start lesson %s: %w", next.ID, err)
		}
		out.NextLessonID = next.ID
		r.log.Info("lesson completed", "level_id", lv.ID, "lesson_id", current.ID, "next_lesson_id", next.ID)
	}

	if progress.AllCompleted(*lv, updated) && !updated.LevelCompleted {
		done, err := r.store.UpdateLevel(ctx, lv.ID, lv.FirstLessonID, progress.LevelPatch{
			LevelCompleted: ptr(true),
			Started:        ptr(true),
		})
		if err != nil {
			return out, err
		}
		out.Progress = done
		out.LevelCompleted = true
		r.bus.Emit(lesson.Event{
			Type:    lesson.EventLevelCompleted,
			Payload: lesson.Payload{LessonID: current.ID, ActivityID: activity.ID},
		})
		r.log.Info("level completed", "level_id", lv.ID)
	}

	return out, nil
}

// RestartLesson starts the current lesson again from its first activity
// and saves that position. A completed lesson stays completed.
func (r *Runner) RestartLesson(ctx context.Context) error {
	if r.active == nil {
		return ErrNoActiveLevel
	}
	if err := r.engine.Restart(); err != nil {
		return err
	}
	lv, l := r.active, r.engine.Lesson()
	before := r.store.Load(ctx, lv.ID, lv.FirstLessonID)
	_, err := r.store.SaveLesson(ctx, lv.ID, lv.FirstLessonID, progress.LessonProgress{
		LessonID:  l.ID,
		Completed: progress.LessonFrom(before, l.ID).Completed,
	})
	return err
}

// ResetLevel discards the level's progress and returns the companion to
// idle. Resetting the active level ends it.
func (r *Runner) ResetLevel(ctx context.Context, levelID string) (progress.LevelProgress, error) {
	lv, err := r.level(levelID)
	if err != nil {
		return progress.LevelProgress{}, err
	}
	p, err := r.store.ResetLevel(ctx, lv.ID, lv.FirstLessonID)
	if err != nil {
		return p, err
	}
	if r.active != nil && r.active.ID == lv.ID {
		r.active = nil
	}
	if r.companion != nil {
		r.companion.Reset()
	}
	r.log.Info("level reset", "level_id", lv.ID)
	return p, nil
}

// Unlocked reports whether levelID may be played.
func (r *Runner) Unlocked(ctx context.Context, levelID string) (bool, error) {
	lv, err := r.level(levelID)
	if err != nil {
		return false, err
	}
	return r.unlocked(ctx, lv), nil
}

func (r *Runner) unlocked(ctx context.Context, lv *progress.Level) bool {
	return progress.LevelUnlocked(r.levels, lv.Number, func(l progress.Level) progress.LevelProgress {
		return r.store.Load(ctx, l.ID, l.FirstLessonID)
	})
}

func (r *Runner) level(levelID string) (*progress.Level, error) {
	for i := range r.levels {
		if r.levels[i].ID == levelID && len(r.levels[i].Lessons) > 0 {
			return &r.levels[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, levelID)
}

func ptr[T any](v T) *T { return &v }
