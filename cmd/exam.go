package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/assessment"
	"github.com/abhisek/shibl/internal/companion"
	"github.com/abhisek/shibl/internal/content"
	"github.com/abhisek/shibl/internal/lesson"
)

var examCmd = &cobra.Command{
	Use:   "exam <exam.json>",
	Short: "Take an exam, assessment or the final exam",
	Long: "Run an exam file on stdin. --kind exam saves a report for the exam's category,\n" +
		"--kind assessment updates the assessment summary and --kind final grades every section.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		bus := lesson.NewBus()
		adapter := companion.NewAdapter(companion.AdapterOptions{Bus: bus, Cooldown: d.cfg.Cooldown})
		defer adapter.Subscribe()()
		engine := lesson.NewEngine(bus, d.log)
		reports := assessment.NewReports(d.kv, d.log)

		var (
			run   *assessment.Run
			title string
		)
		switch kind {
		case "final":
			exam, err := content.LoadFinalExam(args[0])
			if err != nil {
				return err
			}
			title = exam.Title
			run, err = assessment.StartFinal(engine, reports, exam)
			if err != nil {
				return err
			}
		case string(assessment.KindExam), string(assessment.KindAssessment):
			exam, err := content.LoadExam(args[0])
			if err != nil {
				return err
			}
			title = fmt.Sprintf("%s (%s)", exam.Title, exam.Category)
			run, err = assessment.StartExam(engine, reports, exam, assessment.Kind(kind))
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown --kind %q (want exam, assessment or final)", kind)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, title)
		ratings, err := examLoop(cmd, run, adapter, cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if ratings == nil {
			fmt.Fprintln(out, "Exam stopped before the end; nothing was saved.")
			return nil
		}

		fmt.Fprintln(out, "\nResults")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, c := range assessment.Categories() {
			if r, ok := ratings[c]; ok {
				correct, total := run.Score(c)
				fmt.Fprintf(out, "  %-12s %-14s %d/%d\n", c, r, correct, total)
			}
		}
		return nil
	},
}

func examLoop(cmd *cobra.Command, run *assessment.Run, adapter *companion.Adapter, in io.Reader, out io.Writer) (map[assessment.Category]assessment.Rating, error) {
	scanner := bufio.NewScanner(in)
	for {
		act, ok := run.Current()
		if !ok {
			return nil, nil
		}
		index, total := run.Position()
		fmt.Fprintf(out, "\nQuestion %d/%d\n", index+1, total)
		printChoices(out, act)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return nil, scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == ":q" || input == ":quit" {
			return nil, nil
		}
		step, err := run.Submit(cmd.Context(), resolveChoice(act, input))
		if step.Ratings != nil {
			// Ratings are final even if saving them failed.
			if err != nil {
				fmt.Fprintf(out, "warning: %v\n", err)
			}
			return step.Ratings, nil
		}
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(out, moodLine(adapter.Mood()))
	}
}

func init() {
	examCmd.Flags().String("kind", string(assessment.KindExam), "exam, assessment or final")
}
