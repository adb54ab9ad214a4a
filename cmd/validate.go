package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/content"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check content files against their schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")

		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			err = content.Validate(content.Kind(kind), f, filepath.Base(path))
			f.Close()

			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s\n  %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "✓ %s\n", path)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("kind", string(content.KindLessons), "Content kind: lessons, exam, final-exam or story")
}
