package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/config"
	"github.com/abhisek/shibl/internal/content"
	"github.com/abhisek/shibl/internal/lesson"
	"github.com/abhisek/shibl/internal/logger"
	"github.com/abhisek/shibl/internal/progress"
	"github.com/abhisek/shibl/internal/storage"
)

// deps holds what every command needs: settings, a logger and the
// storage backend. Close releases the backend.
type deps struct {
	cfg   config.Config
	log   *logger.Logger
	kv    storage.KV
	close func() error
}

func (d *deps) Close() {
	if d.close != nil {
		if err := d.close(); err != nil {
			d.log.Warn("closing storage failed", "error", err)
		}
	}
	d.log.Sync()
}

// openDeps loads the configuration, applies flag overrides and opens the
// configured storage.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	d := &deps{cfg: cfg, log: log}
	switch cfg.Storage {
	case config.StorageNone:
	case config.StorageMemory:
		d.kv = storage.NewMemory()
	case config.StorageRedis:
		r, err := storage.OpenRedis(cmd.Context(), cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		d.kv, d.close = r, r.Close
	default:
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		s, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.kv, d.close = s, s.Close
	}

	log.Debug("storage ready", "backend", cfg.Storage)
	return d, nil
}

// resolveConfig reads SHIBL_* variables, then lets persistent flags
// override them.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("storage"); v != "" {
		cfg.Storage = strings.ToLower(strings.TrimSpace(v))
	}
	if v, _ := cmd.Flags().GetString("log"); v != "" {
		cfg.LogMode = v
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the configured database path (from --db or
// SHIBL_DB), falling back to the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, storage.EnsureDir(cfg.DBPath)
	}
	return storage.DefaultDBPath()
}

// lessonCatalog loads a lessons file and groups it into levels.
func lessonCatalog(path string) ([]progress.Level, error) {
	lessons, err := loadLessons(path)
	if err != nil {
		return nil, err
	}
	levels := progress.GroupLevels(lessons)
	if len(levels) == 0 {
		return nil, fmt.Errorf("%s has no lessons", path)
	}
	return levels, nil
}

// findLevel returns the level with number n.
func findLevel(levels []progress.Level, n int) (progress.Level, error) {
	for _, lv := range levels {
		if lv.Number == n {
			return lv, nil
		}
	}
	return progress.Level{}, fmt.Errorf("no level %d in catalog", n)
}

func loadLessons(path string) ([]*lesson.Lesson, error) {
	lessons, err := content.LoadLessons(path)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	return lessons, nil
}
