package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Float is a float64 whose JSON form also covers the values JSON numbers
// cannot hold: NaN, +Inf and -Inf are written as the strings "NaN", "+Inf"
// and "-Inf".
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	return marshalFloat(float64(f))
}

// UnmarshalJSON accepts a JSON number or one of the non-finite strings.
func (f *Float) UnmarshalJSON(data []byte) error {
	v, err := unmarshalFloat(data)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// MarshalJSON writes the reward like Float.
func (r Reward) MarshalJSON() ([]byte, error) {
	return marshalFloat(float64(r))
}

// UnmarshalJSON reads the reward like Float.
func (r *Reward) UnmarshalJSON(data []byte) error {
	v, err := unmarshalFloat(data)
	if err != nil {
		return err
	}
	*r = Reward(v)
	return nil
}

// ParseNonFinite maps "NaN", "+Inf", "Inf" and "-Inf" to their float64 values.
func ParseNonFinite(s string) (float64, bool) {
	switch s {
	case "NaN":
		return math.NaN(), true
	case "+Inf", "Inf":
		return math.Inf(1), true
	case "-Inf":
		return math.Inf(-1), true
	default:
		return 0, false
	}
}

func marshalFloat(f float64) ([]byte, error) {
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	default:
		return json.Marshal(f)
	}
}

func unmarshalFloat(data []byte) (float64, error) {
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return 0, err
		}
		if v, ok := ParseNonFinite(s); ok {
			return v, nil
		}
		return 0, fmt.Errorf("invalid number %q (expected a number, NaN, +Inf or -Inf)", s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	return v, nil
}
