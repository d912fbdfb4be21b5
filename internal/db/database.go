package db

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/wallarm/gotestoffsets/internal/fixture"
	"github.com/wallarm/gotestoffsets/internal/scenario"
)

// DB collects outcomes and verification results of one scenario run.
type DB struct {
	sync.Mutex

	runID    string
	plan     *scenario.Plan
	fixtures fixture.Fixtures

	outcomes map[string]*Outcome
	results  map[string]*Result
}

func NewDB(plan *scenario.Plan, fixtures fixture.Fixtures) *DB {
	return &DB{
		runID:    uuid.NewString(),
		plan:     plan,
		fixtures: fixtures,
		outcomes: make(map[string]*Outcome),
		results:  make(map[string]*Result),
	}
}

// AddOutcome records the outcome of a planned step. Each step can be
// recorded only once.
func (db *DB) AddOutcome(o *Outcome) error {
	db.Lock()
	defer db.Unlock()

	if _, ok := db.plan.Lookup(o.ID); !ok {
		return errors.Errorf("unknown step: %s", o.ID)
	}

	if _, ok := db.outcomes[o.ID]; ok {
		return errors.Errorf("outcome of step %s is already recorded", o.ID)
	}

	db.outcomes[o.ID] = o

	return nil
}

func (db *DB) GetOutcome(id string) (*Outcome, bool) {
	db.Lock()
	defer db.Unlock()

	o, ok := db.outcomes[id]
	return o, ok
}

func (db *DB) SetResult(r *Result) error {
	db.Lock()
	defer db.Unlock()

	if _, ok := db.plan.Lookup(r.ID); !ok {
		return errors.Errorf("unknown step: %s", r.ID)
	}

	db.results[r.ID] = r

	return nil
}

// GetResult returns the verification result of a step. A step that was never
// verified is reported as not run.
func (db *DB) GetResult(id string) *Result {
	db.Lock()
	defer db.Unlock()

	if r, ok := db.results[id]; ok {
		return r
	}

	return &Result{ID: id, Status: StatusNotRun}
}

func (db *DB) GetPlan() *scenario.Plan {
	return db.plan
}

func (db *DB) GetFixtures() fixture.Fixtures {
	return db.fixtures
}

func (db *DB) GetRunID() string {
	return db.runID
}
