// Package report renders the per-step run summary.
package report

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"rig/pkg/step"
)

// statusStyle returns the pterm style for a step status.
func statusStyle(status step.Status) *pterm.Style {
	switch status {
	case step.StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen)
	case step.StatusFailure:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Render writes one line per step plus a pass/fail tail line.
func Render(w io.Writer, results []step.Result) {
	var success, failure, skipped int
	for _, res := range results {
		line := fmt.Sprintf("%-20s %s", res.Name, statusStyle(res.Status).Sprint(res.Status))
		if res.Message != "" {
			line += "  " + pterm.Gray(res.Message)
		}
		fmt.Fprintln(w, line)

		switch res.Status {
		case step.StatusSuccess:
			success++
		case step.StatusFailure:
			failure++
		case step.StatusSkipped:
			skipped++
		}
	}

	summary := fmt.Sprintf("%d succeeded, %d failed, %d skipped", success, failure, skipped)
	if failure > 0 {
		fmt.Fprintln(w, pterm.Red(summary))
	} else {
		fmt.Fprintln(w, pterm.Green(summary))
	}
}
