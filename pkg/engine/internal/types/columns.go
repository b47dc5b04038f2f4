package types

import "fmt"

// ColumnType denotes the provenance of a column in a record.
type ColumnType int

const (
	// ColumnTypeInvalid indicates an invalid column type.
	ColumnTypeInvalid ColumnType = iota

	// ColumnTypeBuiltin is a column that is created by the source itself,
	// such as the generated timestamp column.
	ColumnTypeBuiltin
	// ColumnTypeGenerated is a column that is computed by an expression
	// during execution.
	ColumnTypeGenerated
)

// String returns the string representation of the column type.
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeBuiltin:
		return "builtin"
	case ColumnTypeGenerated:
		return "generated"
	default:
		return "invalid"
	}
}

// ColumnRef references a column inside a record by name and provenance.
type ColumnRef struct {
	Column string     // Name of the column.
	Type   ColumnType // Provenance of the column.
}

// String returns the fully qualified name of the referenced column.
func (c ColumnRef) String() string {
	return fmt.Sprintf("%s.%s", c.Type, c.Column)
}
