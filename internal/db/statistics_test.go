package db

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/wallarm/gotestoffsets/internal/fixture"
	"github.com/wallarm/gotestoffsets/internal/scenario"
)

// Codes of the generated steps: a verified status or noResultCode for a step
// that was never verified.
const noResultCode = 3

func TestStatistics(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000

	properties := gopter.NewProperties(parameters)

	properties.Property("testPropertyNotPanics", prop.ForAllNoShrink(
		testPropertyNotPanics,
		NewDBGenerator(),
	))
	properties.Property("testPropertyOnlyPositiveNumberValues", prop.ForAllNoShrink(
		testPropertyOnlyPositiveNumberValues,
		NewDBGenerator(),
	))
	properties.Property("testPropertyCorrectStatValues", prop.ForAllNoShrink(
		testPropertyCorrectStatValues,
		NewDBGenerator(),
	))
	properties.Property("testPropertyFailClosed", prop.ForAllNoShrink(
		testPropertyFailClosed,
		NewDBGenerator(),
	))

	properties.TestingRun(t)
}

func testPropertyNotPanics(db *DB) bool {
	var err interface{}

	func() {
		defer func() {
			err = recover()
		}()

		_ = db.GetStatistics()
	}()

	return err == nil
}

func testPropertyOnlyPositiveNumberValues(db *DB) bool {
	stat := db.GetStatistics()

	if stat.AllCasesNumber < 0 ||
		stat.PassedCasesNumber < 0 ||
		stat.FailedCasesNumber < 0 ||
		stat.NotRunCasesNumber < 0 ||
		stat.PassedCasesPercentage < 0 ||
		stat.PassedCasesPercentage > 100 {
		return false
	}

	return true
}

func testPropertyCorrectStatValues(db *DB) bool {
	stat := db.GetStatistics()

	counters := make(map[Status]int)
	for _, row := range stat.SummaryTable {
		counters[row.Status]++
	}

	if len(stat.SummaryTable) != len(db.GetPlan().Steps) ||
		len(stat.Cases) != len(db.GetPlan().Steps) ||
		stat.AllCasesNumber != len(stat.SummaryTable) ||
		counters[StatusPassed] != stat.PassedCasesNumber ||
		counters[StatusFailed] != stat.FailedCasesNumber ||
		counters[StatusNotRun] != stat.NotRunCasesNumber ||
		stat.PassedCasesNumber+stat.FailedCasesNumber+stat.NotRunCasesNumber != stat.AllCasesNumber {
		return false
	}

	return true
}

func testPropertyFailClosed(db *DB) bool {
	stat := db.GetStatistics()

	allPassed := true
	for _, step := range db.GetPlan().Steps {
		if db.GetResult(step.ID).Status != StatusPassed {
			allPassed = false
		}
	}

	return stat.HasFailures() == !allPassed
}

func NewDBGenerator() gopter.Gen {
	return gen.SliceOf(gen.IntRange(int(StatusNotRun), noResultCode)).Map(func(codes []int) *DB {
		plan := &scenario.Plan{}
		for i := range codes {
			plan.Steps = append(plan.Steps, &scenario.Step{
				ID:             fmt.Sprintf("step%d", i),
				ExpectedStatus: http.StatusNoContent,
			})
		}

		db := NewDB(plan, fixture.Fixtures{})

		for i, code := range codes {
			id := plan.Steps[i].ID

			if code == noResultCode {
				continue
			}

			if Status(code) != StatusNotRun {
				status := http.StatusNoContent
				elapsed := time.Duration(i) * time.Millisecond
				db.AddOutcome(&Outcome{ID: id, StatusCode: &status, Elapsed: &elapsed})
			}

			db.SetResult(&Result{ID: id, Status: Status(code)})
		}

		return db
	})
}

func TestAddOutcomeOnce(t *testing.T) {
	plan := &scenario.Plan{Steps: []*scenario.Step{{ID: "a", ExpectedStatus: http.StatusBadRequest}}}
	db := NewDB(plan, fixture.Fixtures{})

	if err := db.AddOutcome(&Outcome{ID: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.AddOutcome(&Outcome{ID: "a", TransportFailed: true}); err == nil {
		t.Errorf("second outcome for the same step must be rejected")
	}
	if err := db.AddOutcome(&Outcome{ID: "b"}); err == nil {
		t.Errorf("outcome of unknown step must be rejected")
	}

	o, ok := db.GetOutcome("a")
	if !ok || o.TransportFailed {
		t.Errorf("recorded outcome was modified")
	}
}

func TestUnverifiedStepIsNotRun(t *testing.T) {
	plan := &scenario.Plan{Steps: []*scenario.Step{{ID: "a", ExpectedStatus: http.StatusBadRequest}}}
	db := NewDB(plan, fixture.Fixtures{})

	if got := db.GetResult("a").Status; got != StatusNotRun {
		t.Errorf("got %v, want %v", got, StatusNotRun)
	}

	stat := db.GetStatistics()
	if !stat.HasFailures() || stat.NotRunCasesNumber != 1 {
		t.Errorf("unverified step must be reported as inconclusive")
	}
}

func TestRunIDIsUnique(t *testing.T) {
	plan := &scenario.Plan{}
	if NewDB(plan, fixture.Fixtures{}).GetRunID() == NewDB(plan, fixture.Fixtures{}).GetRunID() {
		t.Errorf("run ids must differ")
	}
}

func TestStatusString(t *testing.T) {
	for status, want := range map[Status]string{
		StatusNotRun: "not run",
		StatusFailed: "failed",
		StatusPassed: "passed",
	} {
		if status.String() != want {
			t.Errorf("got %q, want %q", status.String(), want)
		}
	}
}
