package offset

import (
	"fmt"
	"strconv"
)

// Unit is the unit code of a consumption offset as it travels over the wire.
// It is a plain string, out-of-domain codes such as "Z" are representable.
type Unit string

const (
	Amps  Unit = "A"
	Watts Unit = "W"
)

// IsValid reports whether u is one of the units accepted by the API.
func (u Unit) IsValid() bool {
	return u == Amps || u == Watts
}

// Offset is a named, signed bias applied to reported or simulated power
// consumption. The name is the identity: submitting an existing name updates
// the entry in place.
type Offset struct {
	Name  string  `json:"offsetName" yaml:"name" validate:"required"`
	Value float64 `json:"offsetValue" yaml:"value"`
	Unit  Unit    `json:"offsetUnit" yaml:"unit" validate:"required"`
}

func (o Offset) String() string {
	return fmt.Sprintf("%s=%s%s", o.Name, strconv.FormatFloat(o.Value, 'f', -1, 64), o.Unit)
}

// Equal compares all fields of both offsets exactly.
func (o Offset) Equal(other Offset) bool {
	return o.Name == other.Name && o.Value == other.Value && o.Unit == other.Unit
}
