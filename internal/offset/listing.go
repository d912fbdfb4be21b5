package offset

import (
	"encoding/json"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Listing is the state snapshot returned by the list offsets call.
type Listing []Offset

// ParseListing decodes a list offsets response body. Bodies that are not a
// JSON array of offsets, or contain entries without a name or unit, are
// rejected as a whole.
func ParseListing(body []byte) (Listing, error) {
	var l Listing

	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}

	if err := json.Unmarshal(body, &l); err != nil {
		return nil, errors.Wrap(err, "couldn't parse offsets listing")
	}

	for i := range l {
		if err := validate.Struct(&l[i]); err != nil {
			return nil, errors.Wrapf(err, "invalid offset at index %d", i)
		}
	}

	return l, nil
}

// Find returns every entry carrying the given name.
func (l Listing) Find(name string) []Offset {
	var found []Offset

	for _, o := range l {
		if o.Name == name {
			found = append(found, o)
		}
	}

	return found
}

// Contains reports whether an entry equal to o in all fields is listed.
func (l Listing) Contains(o Offset) bool {
	for _, entry := range l {
		if entry.Equal(o) {
			return true
		}
	}

	return false
}

// Names returns the set of distinct names in the listing.
func (l Listing) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(l))
	for _, o := range l {
		names[o.Name] = struct{}{}
	}

	return names
}

// SameAs reports whether both listings hold the same entries, ignoring order.
func (l Listing) SameAs(other Listing) bool {
	if len(l) != len(other) {
		return false
	}

	a := l.sorted()
	b := other.sorted()

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

func (l Listing) sorted() Listing {
	s := make(Listing, len(l))
	copy(s, l)

	sort.Slice(s, func(i, j int) bool {
		if s[i].Name != s[j].Name {
			return s[i].Name < s[j].Name
		}
		if s[i].Unit != s[j].Unit {
			return s[i].Unit < s[j].Unit
		}
		return s[i].Value < s[j].Value
	})

	return s
}
