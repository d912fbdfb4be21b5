package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/wallarm/gotestoffsets/internal/db"
)

// RenderConsoleReport prints a console report in selected format.
func RenderConsoleReport(w io.Writer, s *db.Statistics, meta Meta, format string) error {
	switch format {
	case consoleReportTextFormat:
		err := printConsoleReportTable(w, s, meta)
		if err != nil {
			return err
		}
	case consoleReportJsonFormat:
		err := printConsoleReportJson(w, s, meta)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}

	return nil
}

// printConsoleReportTable prepare and prints a console report in tabular format.
func printConsoleReportTable(w io.Writer, s *db.Statistics, meta Meta) error {
	var buffer strings.Builder

	fmt.Fprintf(&buffer, "Consumption offsets tests:\n")

	table := tablewriter.NewWriter(&buffer)
	table.Header("Test case", "Expected", "Actual", "Elapsed", "Status")

	var failures []string

	for _, row := range s.SummaryTable {
		actual := "-"
		if row.ActualStatus != 0 {
			actual = fmt.Sprintf("%d", row.ActualStatus)
		}

		elapsed := row.Elapsed
		if elapsed == "" {
			elapsed = "-"
		}

		err := table.Append([]string{
			row.TestCase,
			fmt.Sprintf("%d", row.ExpectedStatus),
			actual,
			elapsed,
			row.Status.String(),
		})
		if err != nil {
			return errors.Wrap(err, "couldn't render report table")
		}

		for _, reason := range row.Reasons {
			failures = append(failures, fmt.Sprintf("%s: %s", row.TestCase, reason))
		}
	}

	table.Footer(
		fmt.Sprintf("Date: %s", meta.Time.Format("2006-01-02")),
		fmt.Sprintf("Passed: %d/%d", s.PassedCasesNumber, s.AllCasesNumber),
		fmt.Sprintf("Failed: %d", s.FailedCasesNumber),
		fmt.Sprintf("Not run: %d", s.NotRunCasesNumber),
		fmt.Sprintf("Score: %.2f%%", s.PassedCasesPercentage),
	)

	if err := table.Render(); err != nil {
		return errors.Wrap(err, "couldn't render report table")
	}

	if len(failures) != 0 {
		fmt.Fprintf(&buffer, "\nFailures:\n")
		for _, f := range failures {
			fmt.Fprintf(&buffer, "  %s\n", f)
		}
	}

	fmt.Fprintln(w, buffer.String())

	return nil
}

// printConsoleReportJson prepares and prints a console report in json format.
func printConsoleReportJson(w io.Writer, s *db.Statistics, meta Meta) error {
	report := newJsonReport(s, meta)

	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "couldn't dump report to JSON")
	}

	fmt.Fprintln(w, string(jsonBytes))

	return nil
}
