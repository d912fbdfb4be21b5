package scenario

import (
	"github.com/wallarm/gotestoffsets/internal/offset"
)

// CheckKind names a state-consistency check run against the listing that was
// fetched after a step.
type CheckKind string

const (
	// CheckPresent requires an entry with the name, value and unit of the
	// check offset.
	CheckPresent CheckKind = "present"

	// CheckUnique requires exactly one entry with the name of the check offset.
	CheckUnique CheckKind = "unique"

	// CheckAbsent requires that no entry carries the name of the check offset.
	CheckAbsent CheckKind = "absent"

	// CheckCountUnchanged requires the number of distinct names to be equal to
	// the one of the previous snapshot.
	CheckCountUnchanged CheckKind = "countUnchanged"

	// CheckUnchanged requires the listing to equal the previous snapshot.
	CheckUnchanged CheckKind = "unchanged"
)

// Check is a single state-consistency expectation of a step.
type Check struct {
	Kind   CheckKind     `json:"kind" yaml:"kind"`
	Offset offset.Offset `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// NeedsPrevious reports whether the check compares against the snapshot taken
// after the previous step.
func (c Check) NeedsPrevious() bool {
	return c.Kind == CheckCountUnchanged || c.Kind == CheckUnchanged
}

// Step is one request of the scenario. Steps are immutable once the plan is
// built.
type Step struct {
	ID             string `json:"id" yaml:"id"`
	ExpectedStatus int    `json:"expected_status" yaml:"expected_status"`

	// Payload is the body of the add offset request. A nil payload sends a
	// request without a body.
	Payload *offset.Offset `json:"payload,omitempty" yaml:"payload,omitempty"`

	// DependsOn lists the ids of earlier steps whose state this step consumes.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	// SettleAfter inserts the one-time settle pause between the request and
	// the listing that follows it.
	SettleAfter bool `json:"settle_after,omitempty" yaml:"settle_after,omitempty"`

	// Disabled steps are part of the expectations but are never sent.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	Checks []Check `json:"checks,omitempty" yaml:"checks,omitempty"`
}
