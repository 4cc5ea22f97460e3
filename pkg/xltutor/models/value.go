package models

import (
	"math"
	"strconv"
)

// ErrorKind names a recoverable evaluation or lookup condition.
type ErrorKind string

const (
	// ErrorUnparseableRange is a range token that does not decode to two cell addresses.
	ErrorUnparseableRange ErrorKind = "UnparseableRange"
	// ErrorUnsupportedExpression is a formula matching none of the known shapes.
	ErrorUnsupportedExpression ErrorKind = "UnsupportedExpression"
	// ErrorColumnIndexOutOfRange is a lookup column index outside the row width.
	ErrorColumnIndexOutOfRange ErrorKind = "ColumnIndexOutOfRange"
	// ErrorNoMatchFound is a lookup value absent from the first column.
	ErrorNoMatchFound ErrorKind = "NoMatchFound"
	// ErrorCycleDetected is a formula that depends on itself.
	ErrorCycleDetected ErrorKind = "CycleDetected"
)

// ErrorCodes maps error kinds to the code shown in a cell.
// Unsupported expressions are absent: they display their own formula text.
var ErrorCodes = map[ErrorKind]string{
	ErrorUnparseableRange:      "#REF!",
	ErrorColumnIndexOutOfRange: "#REF!",
	ErrorNoMatchFound:          "#N/A",
	ErrorCycleDetected:         "#CYCLE",
}

// Code returns the display code for the kind.
func (k ErrorKind) Code() string {
	return ErrorCodes[k]
}

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	ValueEmpty  ValueKind = "empty"
	ValueText   ValueKind = "text"
	ValueNumber ValueKind = "number"
	ValueError  ValueKind = "error"
)

// Value is the display value of a cell.
type Value struct {
	// Kind selects which of the remaining fields is meaningful.
	Kind ValueKind `json:"kind"`
	// Number holds the result of a numeric formula.
	Number float64 `json:"number,omitempty"`
	// Text holds a literal, or the raw formula for an error value.
	Text string `json:"text,omitempty"`
	// Err holds the error kind for error values.
	Err ErrorKind `json:"error,omitempty"`
}

// EmptyValue returns the value of an absent cell.
func EmptyValue() Value {
	return Value{Kind: ValueEmpty}
}

// TextValue returns a literal value. The empty string yields EmptyValue.
func TextValue(s string) Value {
	if s == "" {
		return EmptyValue()
	}
	return Value{Kind: ValueText, Text: s}
}

// NumberValue returns a numeric formula result.
func NumberValue(f float64) Value {
	return Value{Kind: ValueNumber, Number: f}
}

// ErrorValue returns an error value carrying the raw formula that produced it.
func ErrorValue(kind ErrorKind, raw string) Value {
	return Value{Kind: ValueError, Err: kind, Text: raw}
}

// IsError reports whether v is an error of the given kind.
func (v Value) IsError(kind ErrorKind) bool {
	return v.Kind == ValueError && v.Err == kind
}

// String renders the value as it appears in a cell.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return FormatNumber(v.Number)
	case ValueText:
		return v.Text
	case ValueError:
		if code := v.Err.Code(); code != "" {
			return code
		}
		return v.Text
	default:
		return ""
	}
}

// FormatNumber renders f with the fewest digits that round-trip.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "#NUM!"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
