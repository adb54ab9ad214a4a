package progress

import "slices"

// LessonProgress is the saved position within one lesson.
type LessonProgress struct {
	LessonID      string `json:"lessonId"`
	ActivityIndex int    `json:"activityIndex"`
	Completed     bool   `json:"completed"`
}

// LevelProgress is the saved state of one level. Lessons holds at most
// one record per lesson id.
type LevelProgress struct {
	LevelID         string           `json:"levelId"`
	CurrentLessonID string           `json:"currentLessonId"`
	Lessons         []LessonProgress `json:"lessons"`
	LevelCompleted  bool             `json:"levelCompleted"`
	Started         bool             `json:"started"`
}

// LevelPatch lists the level fields to overwrite. Nil fields are kept.
type LevelPatch struct {
	CurrentLessonID *string
	LevelCompleted  *bool
	Started         *bool
}

// DefaultLevel returns the record of a level nobody has touched yet.
func DefaultLevel(levelID, firstLessonID string) LevelProgress {
	return LevelProgress{
		LevelID:         levelID,
		CurrentLessonID: firstLessonID,
		Lessons:         []LessonProgress{},
	}
}

// LessonFrom returns the lesson's record within level, or a zeroed record
// when the lesson has not been touched.
func LessonFrom(level LevelProgress, lessonID string) LessonProgress {
	for _, rec := range level.Lessons {
		if rec.LessonID == lessonID {
			return rec
		}
	}
	return LessonProgress{LessonID: lessonID}
}

// upsert replaces the record with the same lesson id or appends rec.
func (l *LevelProgress) upsert(rec LessonProgress) {
	for i := range l.Lessons {
		if l.Lessons[i].LessonID == rec.LessonID {
			l.Lessons[i] = rec
			return
		}
	}
	l.Lessons = append(l.Lessons, rec)
}

func (l *LevelProgress) apply(p LevelPatch) {
	if p.CurrentLessonID != nil {
		l.CurrentLessonID = *p.CurrentLessonID
	}
	if p.LevelCompleted != nil {
		l.LevelCompleted = *p.LevelCompleted
	}
	if p.Started != nil {
		l.Started = *p.Started
	}
}

func (l LevelProgress) clone() LevelProgress {
	l.Lessons = slices.Clone(l.Lessons)
	if l.Lessons == nil {
		l.Lessons = []LessonProgress{}
	}
	return l
}
