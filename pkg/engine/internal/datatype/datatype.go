package datatype

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// DataType is the engine-level type of a column or literal. It abstracts
// over the Arrow representation so that planning code does not need to
// reason about physical layouts.
type DataType interface {
	fmt.Stringer
	// ArrowType returns the Arrow data type used to materialize values of
	// this type.
	ArrowType() arrow.DataType
	isDataType()
}

type primitiveType struct {
	name      string
	arrowType arrow.DataType
}

func (t *primitiveType) isDataType() {}

func (t *primitiveType) String() string {
	return t.name
}

func (t *primitiveType) ArrowType() arrow.DataType {
	return t.arrowType
}

var (
	Null    DataType = &primitiveType{"null", arrow.Null}
	Bool    DataType = &primitiveType{"bool", arrow.FixedWidthTypes.Boolean}
	String  DataType = &primitiveType{"string", arrow.BinaryTypes.String}
	Integer DataType = &primitiveType{"integer", arrow.PrimitiveTypes.Int64}
	Float   DataType = &primitiveType{"float", arrow.PrimitiveTypes.Float64}
	// Timestamp is a millisecond-precision timestamp.
	Timestamp DataType = &primitiveType{"timestamp", arrow.FixedWidthTypes.Timestamp_ms}
	// Duration is a millisecond duration, stored as a 64bit integer.
	Duration DataType = &primitiveType{"duration", arrow.PrimitiveTypes.Int64}
)

// FromString converts the string representation back into a [DataType].
// Unknown names map to [Null].
func FromString(name string) DataType {
	switch name {
	case "bool":
		return Bool
	case "string":
		return String
	case "integer":
		return Integer
	case "float":
		return Float
	case "timestamp":
		return Timestamp
	case "duration":
		return Duration
	default:
		return Null
	}
}

// FromArrow maps an Arrow data type to its engine-level [DataType].
// It returns false if the Arrow type has no engine equivalent.
func FromArrow(dt arrow.DataType) (DataType, bool) {
	switch {
	case arrow.TypeEqual(dt, arrow.Null):
		return Null, true
	case arrow.TypeEqual(dt, arrow.FixedWidthTypes.Boolean):
		return Bool, true
	case arrow.TypeEqual(dt, arrow.BinaryTypes.String):
		return String, true
	case arrow.TypeEqual(dt, arrow.PrimitiveTypes.Int64):
		return Integer, true
	case arrow.TypeEqual(dt, arrow.PrimitiveTypes.Float64):
		return Float, true
	case arrow.TypeEqual(dt, arrow.FixedWidthTypes.Timestamp_ms):
		return Timestamp, true
	default:
		return nil, false
	}
}

// Arrow exposes the Arrow types used for each engine type, for building
// schemas and array builders without going through a [DataType] value.
var Arrow = struct {
	Null      arrow.DataType
	Bool      arrow.DataType
	String    arrow.DataType
	Integer   arrow.DataType
	Float     arrow.DataType
	Timestamp arrow.DataType
	Duration  arrow.DataType
}{
	Null:      arrow.Null,
	Bool:      arrow.FixedWidthTypes.Boolean,
	String:    arrow.BinaryTypes.String,
	Integer:   arrow.PrimitiveTypes.Int64,
	Float:     arrow.PrimitiveTypes.Float64,
	Timestamp: arrow.FixedWidthTypes.Timestamp_ms,
	Duration:  arrow.PrimitiveTypes.Int64,
}
