package engine

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Value is the payload of a Result: a Number, an Integer, a BigInteger or
// Fields.
type Value interface {
	isValue()
}

// Number is a rounded real result.
type Number float64

// Integer is an exact integral result that is never rounded (factorial).
type Integer int64

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

// BigInteger is an exact integral result beyond the int64 range. It
// encodes as a bare JSON number with every digit.
type BigInteger struct {
	n decimal.Decimal
}

func (b BigInteger) String() string { return b.n.String() }

// Float64 is the nearest float64, for callers that want a plain number.
func (b BigInteger) Float64() float64 { return b.n.InexactFloat64() }

func (b BigInteger) MarshalJSON() ([]byte, error) {
	return []byte(b.n.String()), nil
}

// exactInteger is an Integer or a BigInteger.
type exactInteger interface {
	Value
	String() string
}

// Fields is an ordered set of named sub-results. A Field with a nil
// Value is reported as absent and encodes as JSON null.
type Fields []Field

// Field is one named entry of Fields.
type Field struct {
	Name  string
	Value Value
}

func (Number) isValue()     {}
func (Integer) isValue()    {}
func (BigInteger) isValue() {}
func (Fields) isValue()     {}

// Get returns the value stored under name.
func (f Fields) Get(name string) (Value, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the fields as a JSON object, keeping their order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Result is the uniform record returned by every entry point.
type Result struct {
	Value             Value          `json:"result"`
	Formula           string         `json:"formula"`
	Steps             []string       `json:"steps"`
	VisualizationPath string         `json:"visualization_path,omitempty"`
	Metadata          map[string]any `json:"metadata"`
}

// Number returns the scalar result, converting an integer if needed.
func (r *Result) Number() (float64, bool) {
	return toFloat(r.Value)
}

// Field returns a named numeric sub-result. It reports false when the
// result is not a mapping, the name is unknown or the field is absent.
func (r *Result) Field(name string) (float64, bool) {
	fields, ok := r.Value.(Fields)
	if !ok {
		return 0, false
	}
	v, ok := fields.Get(name)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Number:
		return float64(n), true
	case Integer:
		return float64(n), true
	case BigInteger:
		return n.Float64(), true
	}
	return 0, false
}
