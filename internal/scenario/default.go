package scenario

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wallarm/gotestoffsets/internal/fixture"
	"github.com/wallarm/gotestoffsets/internal/offset"
)

// Step ids of the consumption offsets scenario.
const (
	NoArgsID       = "addConNoArgs"
	AmpsFirstID    = "addConAmpsFirst"
	AmpsSecondID   = "addConAmpsSecond"
	WattsFirstID   = "addConWattsFirst"
	WattsSecondID  = "addConWattsSecond"
	FloatID        = "addConFloat"
	InvalidUnitID  = "addConInvalidUnit"
	LongNameID     = "addConLongName"
	updatePrefix   = "Update "
	repeatPrefix   = "Repeat Update "
	longNameDigits = 4096
)

const (
	AmpsFirstName   = "First Amp Offset Positive"
	AmpsSecondName  = "Second Amp Offset Negative"
	WattsFirstName  = "First Watt Offset Positive"
	WattsSecondName = "Second Watts Offset Negative"
	FloatName       = "Float Value"
	InvalidUnitName = "Offset with Invalid Unit"

	FloatValue  = 1.1234567890123457
	UpdateValue = 5

	InvalidUnit offset.Unit = "Z"
)

// Options tune the default plan.
type Options struct {
	// SkipLongName keeps the oversized name case in the plan but never sends it.
	SkipLongName bool
}

// UpdateID returns the id of the update step for the named offset.
func UpdateID(name string) string {
	return updatePrefix + name
}

// LongName builds a name well beyond any sane length limit: "Offset "
// followed by the decimal numbers from 0 to 4095.
func LongName() string {
	var b strings.Builder

	b.WriteString("Offset ")
	for i := 0; i < longNameDigits; i++ {
		b.WriteString(strconv.Itoa(i))
	}

	return b.String()
}

// Default builds the consumption offsets scenario for the given fixtures.
func Default(f fixture.Fixtures, opts Options) *Plan {
	noArgs := &Step{
		ID:             NoArgsID,
		ExpectedStatus: http.StatusBadRequest,
		SettleAfter:    true,
	}

	ampsFirst := createStep(AmpsFirstID, offset.Offset{
		Name: AmpsFirstName, Value: float64(f.Amps.First), Unit: offset.Amps,
	})
	ampsSecond := createStep(AmpsSecondID, offset.Offset{
		Name: AmpsSecondName, Value: float64(-f.Amps.Second), Unit: offset.Amps,
	})
	wattsFirst := createStep(WattsFirstID, offset.Offset{
		Name: WattsFirstName, Value: float64(f.Watts.First), Unit: offset.Watts,
	})
	wattsSecond := createStep(WattsSecondID, offset.Offset{
		Name: WattsSecondName, Value: float64(-f.Watts.Second), Unit: offset.Watts,
	})

	// only acceptance is asserted, the round trip of the value is not
	floatStep := &Step{
		ID:             FloatID,
		ExpectedStatus: http.StatusNoContent,
		Payload:        &offset.Offset{Name: FloatName, Value: FloatValue, Unit: offset.Watts},
	}

	invalidUnit := rejectStep(InvalidUnitID, offset.Offset{
		Name: InvalidUnitName, Value: 500, Unit: InvalidUnit,
	})

	longName := rejectStep(LongNameID, offset.Offset{
		Name: LongName(), Value: UpdateValue, Unit: offset.Watts,
	})
	longName.Disabled = opts.SkipLongName

	steps := []*Step{
		noArgs,
		ampsFirst, ampsSecond, wattsFirst, wattsSecond,
		floatStep, invalidUnit, longName,
	}

	for i, create := range []*Step{ampsFirst, ampsSecond, wattsFirst, wattsSecond} {
		update := updateStep(UpdateID(create.Payload.Name), create)
		steps = append(steps, update)

		// the first update is submitted twice in a row
		if i == 0 {
			repeat := updateStep(repeatPrefix+update.Payload.Name, update)
			repeat.Checks = append(repeat.Checks, Check{Kind: CheckUnchanged})
			steps = append(steps, repeat)
		}
	}

	return &Plan{Steps: steps}
}

func createStep(id string, o offset.Offset) *Step {
	return &Step{
		ID:             id,
		ExpectedStatus: http.StatusNoContent,
		Payload:        &o,
		Checks: []Check{
			{Kind: CheckPresent, Offset: o},
			{Kind: CheckUnique, Offset: o},
		},
	}
}

func rejectStep(id string, o offset.Offset) *Step {
	return &Step{
		ID:             id,
		ExpectedStatus: http.StatusBadRequest,
		Payload:        &o,
		Checks: []Check{
			{Kind: CheckAbsent, Offset: o},
			{Kind: CheckUnchanged},
		},
	}
}

// updateStep submits the fixed update value for the name created (or last
// updated) by dep.
func updateStep(id string, dep *Step) *Step {
	o := offset.Offset{Name: dep.Payload.Name, Value: UpdateValue, Unit: offset.Amps}

	return &Step{
		ID:             id,
		ExpectedStatus: http.StatusNoContent,
		Payload:        &o,
		DependsOn:      []string{dep.ID},
		Checks: []Check{
			{Kind: CheckPresent, Offset: o},
			{Kind: CheckUnique, Offset: o},
			{Kind: CheckCountUnchanged},
		},
	}
}
