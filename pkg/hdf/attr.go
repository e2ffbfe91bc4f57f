// Package hdf normalizes HDF5 attribute values into a small closed set of
// scalar kinds.
//
// GCOM-C products store scalar attributes as one-element arrays and text
// attributes as fixed-length byte strings, and some attributes are written
// with an empty (null-dataspace) value. All of that is resolved here once;
// downstream code only ever sees Text, Integer, Real, or Absent.
package hdf

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind identifies the normalized type of an attribute value.
type Kind int

const (
	// Absent means the attribute is missing or carries the empty sentinel.
	Absent Kind = iota
	// Text is a decoded string value.
	Text
	// Integer is a signed or unsigned fixed-point value.
	Integer
	// Real is a floating-point value.
	Real
)

// Value is a normalized attribute value.
//
// Absent is distinct from a present-but-zero value: a band with no declared
// error value must not be treated as one whose error value is 0.
type Value struct {
	kind    Kind
	text    string
	integer int64
	real    float64
}

// AbsentValue is the normalized form of a missing attribute.
var AbsentValue = Value{kind: Absent}

// TextValue constructs a Text value.
func TextValue(s string) Value {
	return Value{kind: Text, text: s}
}

// IntValue constructs an Integer value.
func IntValue(i int64) Value {
	return Value{kind: Integer, integer: i}
}

// RealValue constructs a Real value.
func RealValue(f float64) Value {
	return Value{kind: Real, real: f}
}

// Normalize converts a raw attribute value, as produced by the HDF5 reader,
// into a Value. Unrecognized raw types normalize to Absent.
func Normalize(raw any) Value {
	if raw == nil {
		return AbsentValue
	}

	switch v := raw.(type) {
	case string:
		return TextValue(trimFixedString(v))
	case []byte:
		return TextValue(trimFixedString(string(v)))
	case int8:
		return IntValue(int64(v))
	case int16:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case int:
		return IntValue(int64(v))
	case uint8:
		return IntValue(int64(v))
	case uint16:
		return IntValue(int64(v))
	case uint32:
		return IntValue(int64(v))
	case uint64:
		return IntValue(int64(v))
	case float32:
		return RealValue(float64(v))
	case float64:
		return RealValue(v)
	}

	// Scalar attributes are commonly stored as one-element arrays; take the
	// first element. An empty slice is the empty sentinel.
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice {
		if rv.Len() == 0 {
			return AbsentValue
		}
		return Normalize(rv.Index(0).Interface())
	}

	return AbsentValue
}

// IsAbsent reports whether the value is Absent.
func (v Value) IsAbsent() bool {
	return v.kind == Absent
}

// Kind returns the normalized kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the string form of a Text value.
func (v Value) Text() (string, bool) {
	if v.kind != Text {
		return "", false
	}
	return v.text, true
}

// Int returns the integer form of an Integer value.
func (v Value) Int() (int64, bool) {
	if v.kind != Integer {
		return 0, false
	}
	return v.integer, true
}

// Float returns the value as a float64. Integer values promote.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Real:
		return v.real, true
	case Integer:
		return float64(v.integer), true
	}
	return 0, false
}

// String implements fmt.Stringer for logging and diagnostics.
func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.text
	case Integer:
		return fmt.Sprintf("%d", v.integer)
	case Real:
		return fmt.Sprintf("%g", v.real)
	}
	return "<absent>"
}

// trimFixedString strips the NUL padding and trailing whitespace that
// fixed-length HDF5 strings carry.
func trimFixedString(s string) string {
	return strings.TrimRight(s, "\x00 ")
}
