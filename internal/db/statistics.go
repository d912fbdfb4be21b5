package db

import (
	"time"

	"github.com/wallarm/gotestoffsets/internal/fixture"
	"github.com/wallarm/gotestoffsets/internal/scenario"
)

type Statistics struct {
	RunID    string           `json:"run_id" yaml:"run_id"`
	Fixtures fixture.Fixtures `json:"fixtures" yaml:"fixtures"`

	SummaryTable []*SummaryTableRow `json:"summary" yaml:"summary"`
	Cases        []*CaseDetails     `json:"cases" yaml:"cases"`

	AllCasesNumber    int `json:"all_cases" yaml:"all_cases"`
	PassedCasesNumber int `json:"passed_cases" yaml:"passed_cases"`
	FailedCasesNumber int `json:"failed_cases" yaml:"failed_cases"`
	NotRunCasesNumber int `json:"not_run_cases" yaml:"not_run_cases"`

	PassedCasesPercentage float64 `json:"passed_percentage" yaml:"passed_percentage"`
}

type SummaryTableRow struct {
	TestCase       string   `json:"test_case" yaml:"test_case" validate:"required"`
	ExpectedStatus int      `json:"expected_status" yaml:"expected_status" validate:"min=100,max=599"`
	ActualStatus   int      `json:"actual_status" yaml:"actual_status" validate:"min=0,max=599"`
	Elapsed        string   `json:"elapsed" yaml:"elapsed"`
	Status         Status   `json:"status" yaml:"status"`
	Reasons        []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// CaseDetails keeps everything known about a step: its definition, what was
// observed and the verdict.
type CaseDetails struct {
	Step    *scenario.Step `json:"step" yaml:"step"`
	Outcome *Outcome       `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Result  *Result        `json:"result" yaml:"result"`
}

// HasFailures reports whether at least one step failed or never ran.
func (s *Statistics) HasFailures() bool {
	return s.FailedCasesNumber+s.NotRunCasesNumber > 0
}

func (db *DB) GetStatistics() *Statistics {
	s := &Statistics{
		RunID:    db.GetRunID(),
		Fixtures: db.GetFixtures(),
	}

	for _, step := range db.plan.Steps {
		outcome, _ := db.GetOutcome(step.ID)
		result := db.GetResult(step.ID)

		row := &SummaryTableRow{
			TestCase:       step.ID,
			ExpectedStatus: step.ExpectedStatus,
			Status:         result.Status,
			Reasons:        result.Reasons,
		}

		if outcome != nil {
			if outcome.StatusCode != nil {
				row.ActualStatus = *outcome.StatusCode
			}
			if outcome.Elapsed != nil {
				row.Elapsed = outcome.Elapsed.Round(time.Millisecond).String()
			}
		}

		s.SummaryTable = append(s.SummaryTable, row)
		s.Cases = append(s.Cases, &CaseDetails{
			Step:    step,
			Outcome: outcome,
			Result:  result,
		})

		s.AllCasesNumber++

		switch result.Status {
		case StatusPassed:
			s.PassedCasesNumber++
		case StatusFailed:
			s.FailedCasesNumber++
		default:
			s.NotRunCasesNumber++
		}
	}

	if s.AllCasesNumber != 0 {
		s.PassedCasesPercentage = float64(s.PassedCasesNumber) / float64(s.AllCasesNumber) * 100
	}

	return s
}
