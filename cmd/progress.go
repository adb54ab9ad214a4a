package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/progress"
	"github.com/abhisek/shibl/internal/session"
)

var progressCmd = &cobra.Command{
	Use:   "progress <lessons.json>",
	Short: "Show level and lesson progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		levels, err := lessonCatalog(args[0])
		if err != nil {
			return err
		}
		runner := session.New(session.Options{
			Levels: levels,
			Store:  progress.NewStore(d.kv, d.log),
			Logger: d.log,
		})

		out := cmd.OutOrStdout()
		for _, lv := range runner.Overview(cmd.Context()) {
			state := "locked"
			switch {
			case lv.Completed:
				state = "completed"
			case lv.Started:
				state = "in progress"
			case lv.Unlocked:
				state = "unlocked"
			}
			fmt.Fprintf(out, "Level %d  %s  %3d%%  %d/%d lessons  (%s)\n",
				lv.Number, progressBar(lv.Percent), lv.Percent, lv.CompletedLessons, lv.TotalLessons, state)
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, l := range lv.Lessons {
				fmt.Fprintf(out, "  %-10s  %-28s  %d/%d\n", l.Status, l.ID, min(l.ActivityIndex+1, l.Activities), l.Activities)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
