package datatype

import (
	"fmt"
	"strconv"
)

// LiteralType is the set of Go types that can back a [Literal].
type LiteralType interface {
	bool | string | int64 | float64
}

// Literal is an immutable scalar value together with its engine type.
type Literal struct {
	val any
	dt  DataType
}

// NewLiteral creates a literal from a Go value. The engine type is derived
// from the Go type.
func NewLiteral[T LiteralType](value T) Literal {
	switch v := any(value).(type) {
	case bool:
		return Literal{val: v, dt: Bool}
	case string:
		return Literal{val: v, dt: String}
	case int64:
		return Literal{val: v, dt: Integer}
	case float64:
		return Literal{val: v, dt: Float}
	default:
		panic(fmt.Sprintf("invalid literal value type %T", value))
	}
}

// NewNullLiteral creates a literal representing the absence of a value.
func NewNullLiteral() Literal {
	return Literal{val: nil, dt: Null}
}

// NewTimestampLiteral creates a millisecond timestamp literal.
func NewTimestampLiteral(ms int64) Literal {
	return Literal{val: ms, dt: Timestamp}
}

// Any returns the untyped Go value of the literal. Timestamps are returned
// as int64 milliseconds.
func (l Literal) Any() any {
	return l.val
}

// Type returns the engine type of the literal.
func (l Literal) Type() DataType {
	return l.dt
}

// String returns the string representation of the literal value.
func (l Literal) String() string {
	switch v := l.val.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
