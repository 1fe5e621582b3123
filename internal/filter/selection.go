// Package filter narrows dashboard record lists by the filters a user has ticked.
package filter

// Key identifies one dashboard filter.
type Key string

const (
	Search       Key = "search"
	Postcode     Key = "postcode"
	StartDate    Key = "startDate"
	EndDate      Key = "endDate"
	PropertyType Key = "property_type"
	ParkingType  Key = "parking_type"
)

// Keys lists every filter in display order.
var Keys = []Key{Search, Postcode, StartDate, EndDate, PropertyType, ParkingType}

// Known reports whether k is one of Keys.
func Known(k Key) bool {
	for _, key := range Keys {
		if key == k {
			return true
		}
	}
	return false
}

// Selection is the set of ticked filters and the value typed into each.
// A value only exists while its key is active.
type Selection struct {
	active map[Key]bool
	values map[Key]string
}

// NewSelection starts with search ticked and every value blank.
func NewSelection() *Selection {
	return &Selection{
		active: map[Key]bool{Search: true},
		values: map[Key]string{},
	}
}

// SelectionOf builds a selection from an explicit active set. Values for keys
// outside that set are dropped.
func SelectionOf(active []Key, values map[Key]string) *Selection {
	s := &Selection{active: map[Key]bool{}, values: map[Key]string{}}
	for _, k := range active {
		s.active[k] = true
	}
	for k, v := range values {
		if s.active[k] {
			s.values[k] = v
		}
	}
	return s
}

// Toggle ticks or unticks key. Unticking discards the stored value.
func (s *Selection) Toggle(key Key, on bool) {
	if on {
		s.active[key] = true
		return
	}
	delete(s.active, key)
	delete(s.values, key)
}

// Set stores value for an active key and reports whether it was kept.
func (s *Selection) Set(key Key, value string) bool {
	if !s.active[key] {
		return false
	}
	s.values[key] = value
	return true
}

func (s *Selection) IsActive(key Key) bool { return s.active[key] }

func (s *Selection) Value(key Key) string { return s.values[key] }

// ActiveKeys returns the ticked keys in display order, followed by any
// unrecognised keys in no particular order.
func (s *Selection) ActiveKeys() []Key {
	out := make([]Key, 0, len(s.active))
	for _, k := range Keys {
		if s.active[k] {
			out = append(out, k)
		}
	}
	for k := range s.active {
		if !Known(k) {
			out = append(out, k)
		}
	}
	return out
}

// Applicable returns the filters that constrain results: active and non-empty.
func (s *Selection) Applicable() map[Key]string {
	out := make(map[Key]string, len(s.values))
	for k, v := range s.values {
		if s.active[k] && v != "" {
			out[k] = v
		}
	}
	return out
}
