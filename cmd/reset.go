package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/progress"
	"github.com/abhisek/shibl/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset <lessons.json>",
	Short: "Reset the progress of one level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelNum, _ := cmd.Flags().GetInt("level")
		if levelNum <= 0 {
			return fmt.Errorf("--level is required")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		levels, err := lessonCatalog(args[0])
		if err != nil {
			return err
		}
		level, err := findLevel(levels, levelNum)
		if err != nil {
			return err
		}

		runner := session.New(session.Options{
			Levels: levels,
			Store:  progress.NewStore(d.kv, d.log),
			Logger: d.log,
		})
		if _, err := runner.ResetLevel(cmd.Context(), level.ID); err != nil {
			return fmt.Errorf("reset level %d: %w", levelNum, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Level %d progress cleared.\n", levelNum)
		return nil
	},
}

func init() {
	resetCmd.Flags().Int("level", 0, "Level number to reset")
}
