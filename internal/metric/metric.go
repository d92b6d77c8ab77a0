// Package metric defines the four county health indicators shown on the
// dashboard and a total, comparable mapping from indicator to reading.
package metric

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Key identifies one tracked health indicator.
type Key int

// Enumeration order is the display order of every chart category axis.
const (
	HighBloodPressure Key = iota
	CoronaryHeartDisease
	Stroke
	HighCholesterol
)

// Count is the number of tracked indicators.
const Count = 4

// Keys lists every indicator in enumeration order.
var Keys = [Count]Key{HighBloodPressure, CoronaryHeartDisease, Stroke, HighCholesterol}

var fields = [Count]string{
	"percent_high_blood_pressure",
	"percent_coronary_heart_disease",
	"percent_stroke",
	"percent_high_cholesterol",
}

// ErrUnknown is returned when a field name does not name an indicator.
var ErrUnknown = eris.New("metric: unknown indicator")

// Valid reports whether k is one of the four indicators.
func (k Key) Valid() bool {
	return k >= 0 && int(k) < Count
}

// Field returns the raw statistics column name, e.g. "percent_stroke".
func (k Key) Field() string {
	if !k.Valid() {
		return ""
	}
	return fields[k]
}

func (k Key) String() string {
	if !k.Valid() {
		return "metric(" + strconv.Itoa(int(k)) + ")"
	}
	return fields[k]
}

// Label returns the display label, e.g. "% stroke".
func (k Key) Label() string {
	return Format(k.Field())
}

// MarshalText encodes the key as its raw field name.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, eris.Wrapf(ErrUnknown, "metric: marshal %d", int(k))
	}
	return []byte(fields[k]), nil
}

// UnmarshalText decodes a raw field name.
func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Parse maps a raw field name to its Key. Matching ignores case and
// surrounding whitespace.
func Parse(field string) (Key, error) {
	f := strings.ToLower(strings.TrimSpace(field))
	for i, name := range fields {
		if name == f {
			return Key(i), nil
		}
	}
	return -1, eris.Wrapf(ErrUnknown, "metric: %q", field)
}

// Reading is one indicator value for one place. A zero Reading is missing
// data, which is never the same as a recorded zero.
type Reading struct {
	Value float64
	Valid bool
}

// Of returns a valid reading.
func Of(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// ParseReading parses a decimal percentage. Empty, malformed, non-finite and
// negative input yields a missing reading; the source files mark absent
// values with -1.
func ParseReading(s string) Reading {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return Reading{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Reading{}
	}
	return Of(v)
}

// Set maps every indicator to a reading.
type Set [Count]Reading

// Get returns the reading for k; unknown keys read as missing.
func (s Set) Get(k Key) Reading {
	if !k.Valid() {
		return Reading{}
	}
	return s[k]
}

// Put stores r under k. Unknown keys are ignored.
func (s *Set) Put(k Key, r Reading) {
	if k.Valid() {
		s[k] = r
	}
}

// Max returns the largest valid value, and false when no reading is valid.
func (s Set) Max() (float64, bool) {
	var (
		top float64
		ok  bool
	)
	for _, r := range s {
		if !r.Valid {
			continue
		}
		if !ok || r.Value > top {
			top = r.Value
			ok = true
		}
	}
	return top, ok
}

// FromValues builds a Set from a field-name keyed map. Unknown names are
// rejected so a misspelled field cannot silently read as missing data.
func FromValues(values map[string]float64) (Set, error) {
	var s Set
	for field, v := range values {
		k, err := Parse(field)
		if err != nil {
			return Set{}, err
		}
		s[k] = Of(v)
	}
	return s, nil
}
