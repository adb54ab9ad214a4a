package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/shibl/internal/assessment"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show saved exam, assessment and final exam results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		reports := assessment.NewReports(d.kv, d.log)
		summary := reports.Summary(ctx)
		final := reports.FinalExam(ctx)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s  %-14s  %-14s  %-14s  %s\n", "Category", "Assessment", "Exam", "Final exam", "Exam taken")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, c := range assessment.Categories() {
			assessed := ratingOrDash(summary[c])

			exam, taken := "-", "-"
			if rep, ok := reports.Latest(ctx, c); ok {
				exam, taken = string(rep.Rating), rep.CompletedAt
			}

			finalRating := "-"
			if final != nil {
				finalRating = ratingOrDash(final.Sections[c])
			}
			fmt.Fprintf(out, "%-12s  %-14s  %-14s  %-14s  %s\n", c, assessed, exam, finalRating, taken)
		}
		return nil
	},
}

func ratingOrDash(r assessment.Rating) string {
	if r == "" {
		return "-"
	}
	return string(r)
}
