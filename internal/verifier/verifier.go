package verifier

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wallarm/gotestoffsets/internal/db"
	"github.com/wallarm/gotestoffsets/internal/offset"
	"github.com/wallarm/gotestoffsets/internal/scenario"
)

type Verifier struct {
	logger     *logrus.Logger
	maxLatency time.Duration
}

func New(logger *logrus.Logger, maxLatency time.Duration) *Verifier {
	return &Verifier{
		logger:     logger,
		maxLatency: maxLatency,
	}
}

// Verify checks every planned step against its recorded outcome and stores
// the results in the DB.
func (v *Verifier) Verify(store *db.DB) error {
	// snapshot taken after the last executed step
	var previous *db.Snapshot

	for _, step := range store.GetPlan().Steps {
		outcome, ok := store.GetOutcome(step.ID)
		if !ok {
			v.logger.WithField("test", step.ID).Warn("No response was found for test, marking as inconclusive")

			if err := store.SetResult(&db.Result{ID: step.ID, Status: db.StatusNotRun}); err != nil {
				return errors.Wrap(err, "couldn't store result")
			}
			continue
		}

		result := v.VerifyStep(step, outcome, previous)
		if err := store.SetResult(result); err != nil {
			return errors.Wrap(err, "couldn't store result")
		}

		previous = outcome.Snapshot
	}

	return nil
}

// VerifyStep runs the status, latency and state-consistency checks of one
// executed step. previous is the snapshot taken after the step executed
// before it, nil for the first one.
//
// A contract violation of the listing fails only the step after which it
// shows up first: a violating entry stays listed and would fail every
// following step otherwise.
func (v *Verifier) VerifyStep(step *scenario.Step, outcome *db.Outcome, previous *db.Snapshot) *db.Result {
	result := &db.Result{ID: step.ID, Status: db.StatusFailed}
	logger := v.logger.WithField("test", step.ID)

	fail := func(reason string) {
		result.Reasons = append(result.Reasons, reason)
		logger.Error(reason)
	}

	if outcome.TransportFailed || outcome.StatusCode == nil {
		// already failed through the transport path, the status check is skipped
		fail(fmt.Sprintf("no response found: %s", outcome.TransportError))
		return result
	}

	if *outcome.StatusCode != step.ExpectedStatus {
		fail(fmt.Sprintf("response code %d does not equal expected result %d", *outcome.StatusCode, step.ExpectedStatus))
	}

	if outcome.Elapsed != nil && *outcome.Elapsed > v.maxLatency {
		fail(fmt.Sprintf("API request took %s, longer than maximum duration %s", *outcome.Elapsed, v.maxLatency))
	}

	snapshot := outcome.Snapshot
	if snapshot != nil && snapshot.Elapsed != nil && *snapshot.Elapsed > v.maxLatency {
		fail(fmt.Sprintf("listing request took %s, longer than maximum duration %s", *snapshot.Elapsed, v.maxLatency))
	}

	if snapshot != nil && snapshot.ContractError != "" && (previous == nil || previous.ContractError == "") {
		fail("listing doesn't match the API description: " + snapshot.ContractError)
	}

	var previousListing *offset.Listing
	if previous.Usable() {
		previousListing = &previous.Listing
	}

	if len(step.Checks) != 0 {
		if !snapshot.Usable() {
			reason := "listing is unavailable"
			if snapshot != nil && snapshot.Error != "" {
				reason += ": " + snapshot.Error
			}
			fail(reason)
		} else {
			for _, c := range step.Checks {
				if err := evaluate(c, snapshot.Listing, previousListing); err != nil {
					fail(err.Error())
				}
			}
		}
	}

	if len(result.Reasons) == 0 {
		result.Status = db.StatusPassed
		logger.Debug("test passed")
	}

	return result
}
