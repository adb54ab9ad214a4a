package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/companion"
	"github.com/abhisek/shibl/internal/lesson"
	"github.com/abhisek/shibl/internal/progress"
	"github.com/abhisek/shibl/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play <lessons.json>",
	Short: "Play the next unlocked level",
	Long: "Play lessons from a lessons file, answering on stdin. Type a choice or its number;\n" +
		":hint shows a hint, :restart restarts the lesson and :q quits. Progress is saved after every answer.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelNum, _ := cmd.Flags().GetInt("level")
		lessonID, _ := cmd.Flags().GetString("lesson")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		levels, err := lessonCatalog(args[0])
		if err != nil {
			return err
		}

		bus := lesson.NewBus()
		adapter := companion.NewAdapter(companion.AdapterOptions{Bus: bus, Cooldown: d.cfg.Cooldown})
		defer adapter.Subscribe()()

		runner := session.New(session.Options{
			Levels:    levels,
			Store:     progress.NewStore(d.kv, d.log),
			Bus:       bus,
			Companion: adapter,
			Logger:    d.log,
		})

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		level, err := pickLevel(ctx, runner, levels, levelNum)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if lessonID != "" {
			_, err = runner.SelectLesson(ctx, level.ID, lessonID)
		} else {
			_, err = runner.StartLevel(ctx, level.ID)
		}
		switch {
		case errors.Is(err, session.ErrLevelLocked):
			return fmt.Errorf("level %d is locked: finish level %d first", level.Number, level.Number-1)
		case errors.Is(err, session.ErrLessonLocked):
			return fmt.Errorf("lesson %s is locked: finish the lesson before it first", lessonID)
		case err != nil:
			return err
		}

		fmt.Fprintf(out, "Level %d\n%s\n", level.Number, moodLine(adapter.Mood()))
		if err := playLoop(ctx, runner, adapter, cmd.InOrStdin(), out); err != nil {
			return err
		}

		stats := runner.Stats()
		fmt.Fprintf(out, "\n%d answers, %d correct (%.0f%%)\n", stats.Answers, stats.Correct, stats.Accuracy*100)
		return nil
	},
}

// pickLevel returns level n, or the first unlocked level that is not yet
// completed.
func pickLevel(ctx context.Context, r *session.Runner, levels []progress.Level, n int) (progress.Level, error) {
	if n > 0 {
		return findLevel(levels, n)
	}
	for _, s := range r.Overview(ctx) {
		if s.Unlocked && !s.Completed {
			return findLevel(levels, s.Number)
		}
	}
	return levels[len(levels)-1], nil
}

func playLoop(ctx context.Context, r *session.Runner, adapter *companion.Adapter, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		l, act, ok := r.CurrentLesson()
		if !ok {
			return nil
		}
		printActivity(out, l, act, r.ActivityIndex())
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case ":q", ":quit":
			return nil
		case ":hint":
			if act.Hint == "" {
				fmt.Fprintln(out, "No hint for this one.")
			} else {
				fmt.Fprintf(out, "Hint: %s\n", act.Hint)
			}
			continue
		case ":restart":
			if err := r.RestartLesson(ctx); err != nil {
				return err
			}
			continue
		}

		res, err := r.Submit(ctx, resolveChoice(act, input))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, moodLine(adapter.Mood()))

		switch {
		case res.LevelCompleted:
			fmt.Fprintln(out, "You finished every lesson in this level!")
			return nil
		case res.NextLessonID != "":
			fmt.Fprintf(out, "Lesson complete! Next up: %s\n", res.NextLessonID)
		case res.Completed:
			fmt.Fprintln(out, "Lesson complete!")
			return nil
		}
	}
}

func init() {
	playCmd.Flags().Int("level", 0, "Level number to play (default: first unfinished unlocked level)")
	playCmd.Flags().String("lesson", "", "Open a specific lesson of the level")
}
