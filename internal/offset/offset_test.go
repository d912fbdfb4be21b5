package offset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitIsValid(t *testing.T) {
	assert.True(t, Amps.IsValid())
	assert.True(t, Watts.IsValid())
	assert.False(t, Unit("Z").IsValid())
	assert.False(t, Unit("").IsValid())
	assert.False(t, Unit("a").IsValid())
}

func TestParseListing(t *testing.T) {
	body := []byte(`[
		{"offsetName": "First Amp Offset Positive", "offsetValue": 4, "offsetUnit": "A"},
		{"offsetName": "Float Value", "offsetValue": 1.1234567890123457, "offsetUnit": "W"}
	]`)

	l, err := ParseListing(body)
	require.NoError(t, err)
	require.Len(t, l, 2)

	assert.True(t, l.Contains(Offset{Name: "First Amp Offset Positive", Value: 4, Unit: Amps}))
	assert.False(t, l.Contains(Offset{Name: "First Amp Offset Positive", Value: 4, Unit: Watts}))
	assert.Equal(t, 1.1234567890123457, l[1].Value)
}

func TestParseListingEmptyArray(t *testing.T) {
	l, err := ParseListing([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, l)
}

func TestParseListingRejectsBadBodies(t *testing.T) {
	bodies := map[string]string{
		"empty":        ``,
		"not json":     `<html>oops</html>`,
		"object":       `{"offsetName": "x"}`,
		"missing name": `[{"offsetValue": 1, "offsetUnit": "A"}]`,
		"missing unit": `[{"offsetName": "x", "offsetValue": 1}]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListing([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestListingFindAndNames(t *testing.T) {
	l := Listing{
		{Name: "a", Value: 1, Unit: Amps},
		{Name: "b", Value: 2, Unit: Watts},
		{Name: "a", Value: 3, Unit: Amps},
	}

	assert.Len(t, l.Find("a"), 2)
	assert.Len(t, l.Find("b"), 1)
	assert.Empty(t, l.Find("c"))
	assert.Len(t, l.Names(), 2)
}

func TestListingSameAs(t *testing.T) {
	a := Listing{
		{Name: "a", Value: 1, Unit: Amps},
		{Name: "b", Value: -2, Unit: Watts},
	}
	b := Listing{
		{Name: "b", Value: -2, Unit: Watts},
		{Name: "a", Value: 1, Unit: Amps},
	}
	c := Listing{
		{Name: "a", Value: 5, Unit: Amps},
		{Name: "b", Value: -2, Unit: Watts},
	}

	assert.True(t, a.SameAs(b))
	assert.False(t, a.SameAs(c))
	assert.False(t, a.SameAs(a[:1]))
	assert.True(t, Listing(nil).SameAs(Listing{}))
}

func TestOffsetString(t *testing.T) {
	assert.Equal(t, "Second Amp Offset Negative=-3A", Offset{Name: "Second Amp Offset Negative", Value: -3, Unit: Amps}.String())
}
