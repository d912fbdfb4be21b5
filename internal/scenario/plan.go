package scenario

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Plan is the ordered list of scenario steps.
type Plan struct {
	Steps []*Step
}

// Lookup returns the step with the given id.
func (p *Plan) Lookup(id string) (*Step, bool) {
	for _, s := range p.Steps {
		if s.ID == id {
			return s, true
		}
	}

	return nil, false
}

// IDs returns the ids of all steps in execution order.
func (p *Plan) IDs() []string {
	ids := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		ids = append(ids, s.ID)
	}

	return ids
}

// Validate statically checks the plan: ids are unique and non-empty, expected
// statuses are HTTP codes and every dependency names an earlier step that is
// actually sent. All problems are reported at once.
func (p *Plan) Validate() error {
	var err error

	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}

	position := make(map[string]int, len(p.Steps))

	for i, s := range p.Steps {
		if s.ID == "" {
			err = multierror.Append(err, fmt.Errorf("step #%d has an empty id", i))
			continue
		}

		if _, ok := position[s.ID]; ok {
			err = multierror.Append(err, fmt.Errorf("duplicated step id: %s", s.ID))
			continue
		}

		if s.ExpectedStatus < 100 || s.ExpectedStatus > 599 {
			err = multierror.Append(err, fmt.Errorf("step %s: invalid expected status %d", s.ID, s.ExpectedStatus))
		}

		for _, dep := range s.DependsOn {
			if dep == s.ID {
				err = multierror.Append(err, fmt.Errorf("step %s depends on itself", s.ID))
				continue
			}

			depPos, ok := position[dep]
			if !ok {
				if _, later := p.Lookup(dep); later {
					err = multierror.Append(err, fmt.Errorf("step %s depends on %s which runs after it", s.ID, dep))
				} else {
					err = multierror.Append(err, fmt.Errorf("step %s depends on unknown step %s", s.ID, dep))
				}
				continue
			}

			if p.Steps[depPos].Disabled && !s.Disabled {
				err = multierror.Append(err, fmt.Errorf("step %s depends on disabled step %s", s.ID, dep))
			}
		}

		for _, c := range s.Checks {
			if c.NeedsPrevious() && i == 0 {
				err = multierror.Append(err, fmt.Errorf("step %s: %s check has no previous snapshot", s.ID, c.Kind))
			}
		}

		position[s.ID] = i
	}

	return err
}
