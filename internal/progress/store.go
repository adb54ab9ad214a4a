// Package progress persists per-level lesson progress and derives which
// levels and lessons are unlocked.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/shibl/internal/logger"
	"github.com/abhisek/shibl/internal/storage"
)

// StorageKey is the key holding every level's progress as one JSON object
// keyed by level id.
const StorageKey = "shibl-progress"

// Store reads and writes level progress through a storage.KV.
//
// With a nil KV every write is a no-op and every read returns defaults.
// A stored value that is not a valid progress object reads as empty.
// Read-modify-write cycles are serialized within the process; writers in
// other processes resolve last-write-wins.
type Store struct {
	kv  storage.KV
	log *logger.Logger
	mu  sync.Mutex
}

// NewStore creates a Store over kv, which may be nil.
func NewStore(kv storage.KV, log *logger.Logger) *Store {
	return &Store{
		kv:  kv,
		log: logger.OrNop(log).With("component", "progress_store"),
	}
}

// Load returns the stored record for levelID, or a fresh default whose
// current lesson is firstLessonID. It never writes.
func (s *Store) Load(ctx context.Context, levelID, firstLessonID string) LevelProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll(ctx)
	if err != nil {
		s.log.Warn("progress unavailable, using defaults", "level_id", levelID, "error", err)
		return DefaultLevel(levelID, firstLessonID)
	}
	return levelOrDefault(all, levelID, firstLessonID).clone()
}

// SaveLesson upserts rec into the level's lesson list, makes it the current
// lesson, marks the level started and persists the level.
func (s *Store) SaveLesson(ctx context.Context, levelID, firstLessonID string, rec LessonProgress) (LevelProgress, error) {
	return s.mutate(ctx, levelID, firstLessonID, func(l *LevelProgress) {
		l.upsert(rec)
		l.CurrentLessonID = rec.LessonID
		l.Started = true
	})
}

// UpdateLevel merges patch onto the stored or default level record and
// persists it. It is the only way a level becomes completed; callers check
// that every lesson of the level is completed before setting LevelCompleted.
func (s *Store) UpdateLevel(ctx context.Context, levelID, firstLessonID string, patch LevelPatch) (LevelProgress, error) {
	return s.mutate(ctx, levelID, firstLessonID, func(l *LevelProgress) {
		l.apply(patch)
	})
}

// ResetLevel replaces the level's record with a fresh default. Other
// levels are untouched.
func (s *Store) ResetLevel(ctx context.Context, levelID, firstLessonID string) (LevelProgress, error) {
	return s.mutate(ctx, levelID, firstLessonID, func(l *LevelProgress) {
		*l = DefaultLevel(levelID, firstLessonID)
	})
}

func (s *Store) mutate(ctx context.Context, levelID, firstLessonID string, fn func(*LevelProgress)) (LevelProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll(ctx)
	if err != nil {
		// Writing now would overwrite every other level with nothing.
		return DefaultLevel(levelID, firstLessonID), fmt.Errorf("read progress: %w", err)
	}

	level := levelOrDefault(all, levelID, firstLessonID).clone()
	fn(&level)
	all[levelID] = level

	if err := s.writeAll(ctx, all); err != nil {
		return level.clone(), fmt.Errorf("write progress: %w", err)
	}
	return level.clone(), nil
}

// readAll loads the progress collection. Only storage failures are
// returned; unparseable content reads as empty.
func (s *Store) readAll(ctx context.Context) (map[string]LevelProgress, error) {
	all := make(map[string]LevelProgress)
	if s.kv == nil {
		return all, nil
	}

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return all, nil
	}

	decoded, err := decodeLevels(raw)
	if err != nil {
		s.log.Warn("discarding unreadable progress", "error", err)
		return all, nil
	}
	return decoded, nil
}

func (s *Store) writeAll(ctx context.Context, all map[string]LevelProgress) error {
	if s.kv == nil {
		return nil
	}
	b, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return s.kv.Set(ctx, StorageKey, string(b))
}

// decodeLevels parses the stored blob and repairs what can be repaired:
// null levels are dropped, level ids follow their keys and duplicate lesson
// records collapse to the last one.
func decodeLevels(raw string) (map[string]LevelProgress, error) {
	var stored map[string]*LevelProgress
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("progress is not an object")
	}

	out := make(map[string]LevelProgress, len(stored))
	for id, lv := range stored {
		if lv == nil {
			continue
		}
		level := *lv
		level.LevelID = id
		lessons := level.Lessons
		level.Lessons = make([]LessonProgress, 0, len(lessons))
		for _, rec := range lessons {
			if rec.LessonID == "" {
				continue
			}
			rec.ActivityIndex = max(rec.ActivityIndex, 0)
			level.upsert(rec)
		}
		out[id] = level
	}
	return out, nil
}

func levelOrDefault(all map[string]LevelProgress, levelID, firstLessonID string) LevelProgress {
	if level, ok := all[levelID]; ok {
		if level.CurrentLessonID == "" {
			level.CurrentLessonID = firstLessonID
		}
		return level
	}
	return DefaultLevel(levelID, firstLessonID)
}
