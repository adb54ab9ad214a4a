package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/companion"
	"github.com/abhisek/shibl/internal/content"
	"github.com/abhisek/shibl/internal/story"
)

var storyCmd = &cobra.Command{
	Use:   "story <story.json>",
	Short: "Read a story paragraph by paragraph",
	Long:  "Read a story. Press Enter for the next paragraph, type p to go back and q to stop.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		s, err := content.LoadStory(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		adapter := companion.NewAdapter(companion.AdapterOptions{
			Cooldown:      cfg.Cooldown,
			OnStateChange: func(m companion.Mood) { fmt.Fprintln(out, moodLine(m)) },
		})
		reader := story.NewReader(s, adapter)

		fmt.Fprintln(out, s.Title)
		reader.Start()

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for !reader.Done() {
			fmt.Fprintf(out, "\n[%d/%d]\n", reader.Index()+1, len(s.Paragraphs))
			for _, sentence := range reader.Paragraph() {
				fmt.Fprintf(out, "  %s\n", sentence)
			}
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
			case "q":
				return nil
			case "p":
				reader.Previous()
			default:
				reader.Next()
			}
		}
		fmt.Fprintln(out, "The end.")
		return nil
	},
}
