package csvdata

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern accepts plain decimal numbers with an optional sign and exponent.
// Hex, Inf, NaN and digit separators stay text.
var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Value is a single parsed cell. It is either a number or text; the zero Value is absent.
type Value struct {
	text    string
	number  float64
	numeric bool
	present bool
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{number: f, text: strconv.FormatFloat(f, 'f', -1, 64), numeric: true, present: true}
}

// Text returns a text Value. The empty string stays text.
func Text(s string) Value {
	return Value{text: s, present: true}
}

// ParseCell types a raw cell: numeric iff the trimmed text is non-empty and a plain number.
func ParseCell(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !numberPattern.MatchString(trimmed) {
		return Text(raw)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Text(raw)
	}
	return Value{text: raw, number: f, numeric: true, present: true}
}

func (v Value) IsNumber() bool  { return v.numeric }
func (v Value) IsPresent() bool { return v.present }

// Float returns the numeric value and whether the cell was numeric.
func (v Value) Float() (float64, bool) {
	return v.number, v.numeric
}

// String returns the cell's original text; absent values render as "".
func (v Value) String() string {
	return v.text
}

// Truthy reports whether the value would count as set in a boolean context:
// absent, empty text and zero are false.
func (v Value) Truthy() bool {
	switch {
	case !v.present:
		return false
	case v.numeric:
		return v.number != 0
	default:
		return v.text != ""
	}
}

// MarshalJSON writes numbers as JSON numbers, text as strings and absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.present:
		return []byte("null"), nil
	case v.numeric:
		return json.Marshal(v.number)
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON, for clients decoding figures and details.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Value{}
	case float64:
		*v = Number(x)
	case string:
		*v = Text(x)
	default:
		*v = Text(string(data))
	}
	return nil
}
