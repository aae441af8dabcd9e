package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tilepress/internal/workflow"
)

var titleCase = cases.Title(language.Und)

// printReport renders the run summary: a table on a terminal, plain
// key-value lines when piped.
func printReport(cmd *cobra.Command, report workflow.Report) {
	out := cmd.OutOrStdout()

	counters := []struct {
		label string
		value int
	}{
		{"discovered", report.Discovered},
		{"already complete", report.AlreadyComplete},
		{"pending", report.Pending},
		{"succeeded", report.Succeeded},
		{"failed", report.Failed},
		{"skipped", report.Skipped},
	}

	if !stdoutIsTerminal() {
		for _, c := range counters {
			fmt.Fprintf(out, "%s: %d\n", c.label, c.value)
		}
		fmt.Fprintf(out, "strategy: %s\n", report.Strategy)
		if report.Workers > 0 {
			fmt.Fprintf(out, "workers: %d\n", report.Workers)
		}
		fmt.Fprintf(out, "duration: %s\n", formatRunDuration(report.Duration))
		return
	}

	rows := make([][]string, 0, len(counters))
	for _, c := range counters {
		rows = append(rows, []string{titleCase.String(c.label), strconv.Itoa(c.value)})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Outcome", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	if report.DryRun {
		fmt.Fprintln(out, "Dry run: nothing was converted")
	}
	if report.Workers > 0 {
		fmt.Fprintf(out, "Strategy %s, %d workers, finished in %s\n",
			report.Strategy, report.Workers, formatRunDuration(report.Duration))
	} else {
		fmt.Fprintf(out, "Strategy %s, finished in %s\n",
			report.Strategy, formatRunDuration(report.Duration))
	}
}

func formatRunDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Truncate(time.Millisecond).String()
	case d < time.Minute:
		return d.Truncate(100 * time.Millisecond).String()
	default:
		return d.Truncate(time.Second).String()
	}
}
