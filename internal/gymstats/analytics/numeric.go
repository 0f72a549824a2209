package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a set field that may arrive as a JSON number, a numeric string, null or garbage.
// Decoding never fails; anything that is not a finite number leaves Valid false.
type Number struct {
	Float float64
	Valid bool
}

// N returns a valid Number, or an invalid one for NaN and infinities.
func N(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}
	}
	return Number{Float: f, Valid: true}
}

func NumberFromString(s string) Number {
	f, ok := ToNumber(s)
	if !ok {
		return Number{}
	}
	return Number{Float: f, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*n = NumberFromString(s)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*n = N(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Float, 'f', -1, 64)), nil
}

// ToNumber coerces numbers and numeric strings to float64.
// The second return value is false for anything else, including NaN and infinities.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case Number:
		return t.Float, t.Valid
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// validSet returns reps and weight when both are numeric.
func validSet(s SetLog) (reps, weight float64, ok bool) {
	if !s.Reps.Valid || !s.Weight.Valid {
		return 0, 0, false
	}
	return s.Reps.Float, s.Weight.Float, true
}
