package verifier

import (
	"fmt"

	"github.com/wallarm/gotestoffsets/internal/offset"
	"github.com/wallarm/gotestoffsets/internal/scenario"
)

// evaluate runs a single state-consistency check. The check fails unless the
// expected state is positively found.
func evaluate(c scenario.Check, after offset.Listing, before *offset.Listing) error {
	if c.NeedsPrevious() && before == nil {
		return fmt.Errorf("%s: previous listing is unavailable", c.Kind)
	}

	switch c.Kind {
	case scenario.CheckPresent:
		entries := after.Find(c.Offset.Name)
		if len(entries) == 0 {
			return fmt.Errorf("%s: offset %q is not listed", c.Kind, c.Offset.Name)
		}

		for _, e := range entries {
			if e.Value == c.Offset.Value && e.Unit == c.Offset.Unit {
				return nil
			}
		}

		return fmt.Errorf("%s: offset %q is listed as %s, expected %s", c.Kind, c.Offset.Name, entries[0], c.Offset)

	case scenario.CheckUnique:
		if n := len(after.Find(c.Offset.Name)); n != 1 {
			return fmt.Errorf("%s: offset %q is listed %d times", c.Kind, c.Offset.Name, n)
		}

	case scenario.CheckAbsent:
		if n := len(after.Find(c.Offset.Name)); n != 0 {
			return fmt.Errorf("%s: rejected offset %q is listed", c.Kind, truncate(c.Offset.Name))
		}

	case scenario.CheckCountUnchanged:
		got, want := len(after.Names()), len(before.Names())
		if got != want {
			return fmt.Errorf("%s: %d distinct offsets listed, %d before", c.Kind, got, want)
		}

	case scenario.CheckUnchanged:
		if !after.SameAs(*before) {
			return fmt.Errorf("%s: listing differs from the previous one", c.Kind)
		}

	default:
		return fmt.Errorf("unknown check: %s", c.Kind)
	}

	return nil
}

const maxNameInMessage = 64

func truncate(name string) string {
	if len(name) <= maxNameInMessage {
		return name
	}

	return fmt.Sprintf("%s... (%d chars)", name[:maxNameInMessage], len(name))
}
