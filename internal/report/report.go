package report

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wallarm/gotestoffsets/internal/db"
)

const (
	maxReportFilenameLength = 249 // 255 (max length) - 5 (".xlsx") - 1 (to be sure)

	consoleReportTextFormat = "text"
	consoleReportJsonFormat = "json"
)

const (
	NoneFormat = "none"
	JsonFormat = "json"
	YamlFormat = "yaml"
	XlsxFormat = "xlsx"
)

// Exit codes of a finished run.
const (
	ExitSuccess  = 0
	ExitFailures = 255
)

var (
	ReportFormatsSet = map[string]any{
		NoneFormat: nil,
		JsonFormat: nil,
		YamlFormat: nil,
		XlsxFormat: nil,
	}
	ReportFormats = slices.Collect(maps.Keys(ReportFormatsSet))
)

// Meta describes the run a report belongs to.
type Meta struct {
	Time time.Time
	URL  string
	Args []string
}

// ExportFullReport appends the full result structure of the run to the report
// files, one per format. Previous runs stored in the same files are kept.
func ExportFullReport(s *db.Statistics, reportFile string, meta Meta, formats []string) (reportFileNames []string, err error) {
	_, reportFileName := filepath.Split(reportFile)
	if len(reportFileName) > maxReportFilenameLength {
		return nil, errors.New("report filename too long")
	}

	if IsNoneReportFormat(formats) {
		return nil, nil
	}

	if dir := filepath.Dir(reportFile); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "couldn't create report directory")
		}
	}

	for _, format := range formats {
		switch format {
		case JsonFormat:
			reportFileName = reportFile + ".json"
			err = appendFullReportToJson(s, reportFileName, meta)

		case YamlFormat:
			reportFileName = reportFile + ".yaml"
			err = appendFullReportToYaml(s, reportFileName, meta)

		case XlsxFormat:
			reportFileName = reportFile + ".xlsx"
			err = appendFullReportToXlsx(s, reportFileName, meta)

		default:
			return nil, fmt.Errorf("unknown report format: %s", format)
		}

		if err != nil {
			return nil, err
		}

		reportFileNames = append(reportFileNames, reportFileName)
	}

	return reportFileNames, nil
}

func ValidateReportFormat(formats []string) error {
	if len(formats) == 0 {
		return errors.New("no report format specified")
	}

	// Convert slice to set (map)
	set := make(map[string]any)
	for _, s := range formats {
		if _, ok := ReportFormatsSet[s]; !ok {
			return fmt.Errorf("unknown report format: %s", s)
		}

		set[s] = nil
	}

	// Check for duplicating values
	if len(set) != len(formats) {
		return fmt.Errorf("found duplicated values: %s", strings.Join(formats, ","))
	}

	_, isNone := set[NoneFormat]

	if len(set) > 1 && isNone {
		delete(set, NoneFormat)
		conflictedFormats := slices.Collect(maps.Keys(set))
		slices.Sort(conflictedFormats)

		return fmt.Errorf("\"none\" conflicts with other formats: %s", strings.Join(conflictedFormats, ","))
	}

	return nil
}

func IsNoneReportFormat(reportFormat []string) bool {
	if len(reportFormat) > 0 && reportFormat[0] == NoneFormat {
		return true
	}

	return false
}

// ExitCode decides the exit status of the run. Failed and not run steps make
// the run fail unless skipFailure is set, in which case only a warning is
// logged.
func ExitCode(logger *logrus.Logger, s *db.Statistics, skipFailure bool) int {
	if !s.HasFailures() {
		logger.WithField("passed", s.PassedCasesNumber).Info("All tests passed")
		return ExitSuccess
	}

	fields := logrus.Fields{
		"failed":  s.FailedCasesNumber,
		"not_run": s.NotRunCasesNumber,
		"total":   s.AllCasesNumber,
	}

	if skipFailure {
		logger.WithFields(fields).Warn("Some tests failed, failure is skipped")
		return ExitSuccess
	}

	logger.WithFields(fields).Error("Some tests failed")

	return ExitFailures
}
