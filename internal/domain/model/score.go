// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is an optional numeric value. Upstream tables carry decorated or
// missing cells, so every numeric field flows through the codebase as a
// Score rather than a bare float64. An absent Score compares as -Inf
// everywhere: a miner with no value on an axis never beats one with a
// defined value on that axis.
type Score struct {
	value   float64
	defined bool
}

// Parsed returns a defined Score. Non-finite inputs degrade to Absent.
func Parsed(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Absent()
	}
	return Score{value: v, defined: true}
}

// Absent returns the undefined Score.
func Absent() Score { return Score{} }

// Defined reports whether the score holds a finite value.
func (s Score) Defined() bool { return s.defined }

// Value returns the underlying value and whether it is defined.
func (s Score) Value() (float64, bool) { return s.value, s.defined }

// Rank returns the value used in comparisons: the score itself when
// defined, -Inf otherwise.
func (s Score) Rank() float64 {
	if !s.defined {
		return math.Inf(-1)
	}
	return s.value
}

// Cmp compares two scores with Absent treated as -Inf.
// Returns -1, 0, or +1.
func (s Score) Cmp(o Score) int {
	a, b := s.Rank(), o.Rank()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes Absent as null so API consumers see the same shape
// the upstream table uses.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Absent()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		// Tolerate quoted numbers and decorated strings the same way
		// ParseCell does; malformed input is Absent, never an error.
		var raw string
		if err2 := json.Unmarshal(data, &raw); err2 != nil {
			*s = Absent()
			return nil
		}
		*s = ParseCell(raw)
		return nil
	}
	*s = Parsed(v)
	return nil
}

// ParseCell converts one loosely-typed table cell into a Score.
// Dashboards decorate values for display ("81.9*" marks provisional,
// "81.9/100" shows a denominator); the rules are:
//   - finite numbers pass through as-is
//   - strings are stripped of '*' and cut at the first '/'
//   - anything that does not parse to a finite float is Absent
//
// The function is total: no cell value makes it return an error.
func ParseCell(cell any) Score {
	switch v := cell.(type) {
	case nil:
		return Absent()
	case float64:
		return Parsed(v)
	case float32:
		return Parsed(float64(v))
	case int:
		return Parsed(float64(v))
	case int64:
		return Parsed(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Absent()
		}
		return Parsed(f)
	case bool:
		return Absent()
	default:
		return parseCellString(toCellString(cell))
	}
}

func toCellString(cell any) string {
	if s, ok := cell.(string); ok {
		return s
	}
	if str, ok := cell.(interface{ String() string }); ok {
		return str.String()
	}
	return ""
}

func parseCellString(raw string) Score {
	s := strings.ReplaceAll(raw, "*", "")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Absent()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Absent()
	}
	return Parsed(f)
}
