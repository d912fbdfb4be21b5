package fixture

import (
	"math/rand"
)

// Ranges of the generated fixture values, inclusive.
const (
	AmpsMin  = 2
	AmpsMax  = 6
	WattsMin = 100
	WattsMax = 500
)

// Pair holds two values of the same unit class that never collide, so that a
// case using Second cannot be satisfied by a stale value left by First.
type Pair struct {
	First  int `json:"first" yaml:"first"`
	Second int `json:"second" yaml:"second"`
}

// Fixtures are the randomized inputs of one scenario run.
type Fixtures struct {
	Amps  Pair `json:"amps" yaml:"amps"`
	Watts Pair `json:"watts" yaml:"watts"`
}

// Generate draws a fresh set of fixtures from r.
func Generate(r *rand.Rand) Fixtures {
	return Fixtures{
		Amps:  NewPair(r, AmpsMin, AmpsMax),
		Watts: NewPair(r, WattsMin, WattsMax),
	}
}

// NewPair draws two values in [min, max]. The second one is re-drawn until it
// is non-zero and differs from the first. The range must hold at least two
// values, one of them non-zero, otherwise NewPair never returns.
func NewPair(r *rand.Rand, min, max int) Pair {
	p := Pair{First: randInt(r, min, max)}

	for p.Second == 0 || p.Second == p.First {
		p.Second = randInt(r, min, max)
	}

	return p
}

func randInt(r *rand.Rand, min, max int) int {
	return min + r.Intn(max-min+1)
}
