package services

import (
	"fmt"
	"io"
	"strings"

	"rental-pipeline/models"
)

const maxPrintedRows = 10

// PrintValidationReport writes a human-readable summary of report to w:
// one line per rule, then each violation with a sample of offending rows.
func PrintValidationReport(w io.Writer, r *models.ValidationReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  DATA VALIDATION REPORT\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "  Run  : %s\n", r.RunID)
	fmt.Fprintf(w, "  Rows : %d\n\n", r.Rows)

	fmt.Fprintf(w, "\033[1;33m  Checks\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range r.Checks {
		name := c.Rule
		if c.Column != "" {
			name = c.Column
		}
		mark := "\033[1;32m✓\033[0m"
		switch {
		case c.Skipped:
			mark = "\033[1;36m-\033[0m"
		case !c.Passed:
			mark = "\033[1;31m✗\033[0m"
		}
		line := fmt.Sprintf("  %s %-26s", mark, name)
		if c.Message != "" {
			line += " " + c.Message
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if r.Passed() {
		fmt.Fprintln(w, "  All checks passed!")
		fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	fmt.Fprintf(w, "\033[1;33m  Some checks failed\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, v := range r.Violations {
		col := v.Column
		if col == "" {
			col = "(table)"
		}
		fmt.Fprintf(w, "  \033[1m%-26s\033[0m %-20s %s\n", v.Rule, col, v.Message)
		if len(v.Rows) > 0 {
			fmt.Fprintf(w, "      rows   : %s\n", formatIndexSample(v.Rows))
		}
		if len(v.Values) > 0 {
			fmt.Fprintf(w, "      values : %s\n", strings.Join(v.Values, " | "))
		}
	}
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func formatIndexSample(rows []int) string {
	n := len(rows)
	if n > maxPrintedRows {
		rows = rows[:maxPrintedRows]
	}
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprint(r)
	}
	s := strings.Join(parts, ", ")
	if n > maxPrintedRows {
		s += fmt.Sprintf(" … (%d total)", n)
	}
	return s
}
