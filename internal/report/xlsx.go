package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/wallarm/gotestoffsets/internal/db"
)

const (
	xlsxSheetNameFormat = "Run %s"
	xlsxTimeFormat      = "2006-01-02 15.04.05"
	xlsxMaxSheetName    = 31
	xlsxColumnWidth     = 24
	xlsxReasonsWidth    = 80

	failedBgColor = "#FFC7CE"
	notRunBgColor = "#FFEB9C"
)

// appendFullReportToXlsx adds a sheet with the results of the run to the
// workbook, creating the workbook if it does not exist yet.
func appendFullReportToXlsx(s *db.Statistics, reportFile string, meta Meta) error {
	var (
		f        *excelize.File
		err      error
		existing = true
	)

	if _, statErr := os.Stat(reportFile); statErr == nil {
		f, err = excelize.OpenFile(reportFile)
		if err != nil {
			return errors.Wrap(err, "couldn't open report file")
		}
	} else {
		f = excelize.NewFile()
		existing = false
	}
	defer f.Close()

	sheetName := fmt.Sprintf(xlsxSheetNameFormat, meta.Time.Format(xlsxTimeFormat))
	if len(sheetName) > xlsxMaxSheetName {
		sheetName = sheetName[:xlsxMaxSheetName]
	}

	// several runs within the same second
	base := sheetName
	for i := 2; existing; i++ {
		idx, err := f.GetSheetIndex(sheetName)
		if err != nil {
			return errors.Wrap(err, "couldn't lookup sheet")
		}
		if idx == -1 {
			break
		}
		sheetName = fmt.Sprintf("%s (%d)", base[:min(len(base), xlsxMaxSheetName-5)], i)
	}

	var index int
	if existing {
		index, err = f.NewSheet(sheetName)
	} else {
		// a fresh workbook carries an empty default sheet
		err = f.SetSheetName(f.GetSheetName(0), sheetName)
	}
	if err != nil {
		return errors.Wrap(err, "couldn't create sheet")
	}
	f.SetActiveSheet(index)

	if err = writeXlsxSheet(f, sheetName, s, meta); err != nil {
		return err
	}

	// the workbook is written next to the target and renamed over it
	tmpFile, err := os.CreateTemp(filepath.Dir(reportFile), "gotestoffsets-*.xlsx")
	if err != nil {
		return errors.Wrap(err, "couldn't create temporary file")
	}
	tmpFileName := tmpFile.Name()
	tmpFile.Close()

	if err = f.SaveAs(tmpFileName); err != nil {
		os.Remove(tmpFileName)
		return errors.Wrap(err, "couldn't save report")
	}

	if err = os.Rename(tmpFileName, reportFile); err != nil {
		os.Remove(tmpFileName)
		return errors.Wrap(err, "couldn't move report file")
	}

	return nil
}

func writeXlsxSheet(f *excelize.File, sheet string, s *db.Statistics, meta Meta) error {
	failedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{failedBgColor}},
	})
	if err != nil {
		return errors.Wrap(err, "couldn't create style")
	}

	notRunStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{notRunBgColor}},
	})
	if err != nil {
		return errors.Wrap(err, "couldn't create style")
	}

	if err = f.SetColWidth(sheet, "A", "E", xlsxColumnWidth); err != nil {
		return errors.Wrap(err, "couldn't set column width")
	}
	if err = f.SetColWidth(sheet, "F", "F", xlsxReasonsWidth); err != nil {
		return errors.Wrap(err, "couldn't set column width")
	}

	if err = writeXlsxRow(f, sheet, 1, []any{"Test case", "Expected", "Actual", "Elapsed", "Status", "Reasons"}); err != nil {
		return err
	}

	for i, row := range s.SummaryTable {
		rowNum := i + 2

		cells := []any{
			row.TestCase,
			row.ExpectedStatus,
			row.ActualStatus,
			row.Elapsed,
			row.Status.String(),
			strings.Join(row.Reasons, "\n"),
		}

		if err = writeXlsxRow(f, sheet, rowNum, cells); err != nil {
			return err
		}

		style := -1
		switch row.Status {
		case db.StatusFailed:
			style = failedStyle
		case db.StatusNotRun:
			style = notRunStyle
		}
		if style == -1 {
			continue
		}

		first, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return errors.Wrap(err, "couldn't build cell name")
		}
		last, err := excelize.CoordinatesToCellName(len(cells), rowNum)
		if err != nil {
			return errors.Wrap(err, "couldn't build cell name")
		}

		if err = f.SetCellStyle(sheet, first, last, style); err != nil {
			return errors.Wrap(err, "couldn't set cell style")
		}
	}

	summaryRow := len(s.SummaryTable) + 3
	lines := []string{
		fmt.Sprintf("Run ID: %s", s.RunID),
		fmt.Sprintf("Date: %s", meta.Time.Format(xlsxTimeFormat)),
		fmt.Sprintf("URL: %s", meta.URL),
		fmt.Sprintf("Fixtures: amps %d/%d, watts %d/%d",
			s.Fixtures.Amps.First, s.Fixtures.Amps.Second,
			s.Fixtures.Watts.First, s.Fixtures.Watts.Second),
		fmt.Sprintf("Passed: %d/%d (%.2f%%)", s.PassedCasesNumber, s.AllCasesNumber, s.PassedCasesPercentage),
		fmt.Sprintf("Failed: %d", s.FailedCasesNumber),
		fmt.Sprintf("Not run: %d", s.NotRunCasesNumber),
	}

	for i, line := range lines {
		if err = writeXlsxRow(f, sheet, summaryRow+i, []any{line}); err != nil {
			return err
		}
	}

	return nil
}

func writeXlsxRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return errors.Wrap(err, "couldn't build cell name")
		}

		if err = f.SetCellValue(sheet, cell, value); err != nil {
			return errors.Wrapf(err, "couldn't write cell %s", cell)
		}
	}

	return nil
}
