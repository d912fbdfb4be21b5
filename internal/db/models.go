package db

import (
	"time"

	"github.com/wallarm/gotestoffsets/internal/offset"
)

// Status is the verification status of a scenario step.
type Status int

const (
	// StatusNotRun marks a step without a recorded outcome. It is the
	// default of every step and is never reported as a success.
	StatusNotRun Status = iota
	StatusFailed
	StatusPassed
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusPassed:
		return "passed"
	default:
		return "not run"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Status) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Snapshot is the listing fetched after a step.
type Snapshot struct {
	StatusCode *int           `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Elapsed    *time.Duration `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Listing    offset.Listing `json:"listing,omitempty" yaml:"listing,omitempty"`

	// Error is set when the listing couldn't be fetched or used: transport
	// failure, unexpected status or a body that is not a list of offsets.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// ContractError is set when the listing doesn't match the API
	// description. The listing is still parsed and usable.
	ContractError string `json:"contract_error,omitempty" yaml:"contract_error,omitempty"`
}

// Usable reports whether the snapshot holds a listing the checks can rely on.
func (s *Snapshot) Usable() bool {
	return s != nil && s.Error == "" && s.Listing != nil
}

// Outcome is what was observed when a step was executed. It is recorded once
// and never modified afterwards.
type Outcome struct {
	ID string `json:"id" yaml:"id"`

	StatusCode *int           `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Reason     string         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Elapsed    *time.Duration `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`

	TransportFailed bool   `json:"transport_failed" yaml:"transport_failed"`
	TransportError  string `json:"transport_error,omitempty" yaml:"transport_error,omitempty"`

	Snapshot *Snapshot `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

// Result is the verification verdict of a step.
type Result struct {
	ID      string   `json:"id" yaml:"id"`
	Status  Status   `json:"status" yaml:"status"`
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}
