package report

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wallarm/gotestoffsets/internal/db"
)

// jsonReport represents a data required to render a report in JSON format.
type jsonReport struct {
	RunID string `json:"run_id"`
	Date  string `json:"date"`
	URL   string `json:"url"`
	Args  string `json:"args,omitempty"`

	Summary *summary `json:"summary"`

	// fields for full report in JSON format
	Fixtures any               `json:"fixtures,omitempty"`
	Cases    []*db.CaseDetails `json:"cases,omitempty"`
}

type summary struct {
	Total      int     `json:"total"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	NotRun     int     `json:"not_run"`
	Percentage float64 `json:"percentage"`

	Tests []*db.SummaryTableRow `json:"tests"`
}

func newJsonReport(s *db.Statistics, meta Meta) *jsonReport {
	return &jsonReport{
		RunID: s.RunID,
		Date:  meta.Time.Format(time.ANSIC),
		URL:   meta.URL,
		Args:  strings.Join(meta.Args, " "),
		Summary: &summary{
			Total:      s.AllCasesNumber,
			Passed:     s.PassedCasesNumber,
			Failed:     s.FailedCasesNumber,
			NotRun:     s.NotRunCasesNumber,
			Percentage: s.PassedCasesPercentage,
			Tests:      s.SummaryTable,
		},
	}
}

// appendFullReportToJson appends the full report of the run as a single JSON
// line to the file.
func appendFullReportToJson(s *db.Statistics, reportFile string, meta Meta) error {
	report := newJsonReport(s, meta)
	report.Fixtures = s.Fixtures
	report.Cases = s.Cases

	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "couldn't dump report to JSON")
	}

	file, err := os.OpenFile(reportFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "couldn't open report file")
	}
	defer file.Close()

	_, err = file.Write(append(jsonBytes, '\n'))
	if err != nil {
		return errors.Wrap(err, "couldn't write report to file")
	}

	return nil
}
