package physical

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/timegrid/timegrid/pkg/engine/internal/datatype"
)

// timestampValueSize is the materialized size of one timestamp value in
// bytes, used for byte-size estimation.
const timestampValueSize = 8

// GridSource is a leaf node that synthesizes a grid of evenly spaced
// millisecond timestamps between Start and End (both inclusive), without
// reading any stored data. It produces a record with one or two columns:
//   - the time column, computed from Start, End and Interval
//   - an optional value column, computed by evaluating Expr. The expression
//     must not reference any column except the time column.
type GridSource struct {
	id string

	// Start, End and Interval define the time axis in milliseconds. The
	// grid covers Start, Start+Interval, ... up to the last value <= End.
	// Interval must be positive; End < Start denotes an empty grid.
	Start, End, Interval int64

	// TimeColumn is the name of the generated timestamp column.
	TimeColumn string
	// ValueColumn is the name of the derived value column. It is only part
	// of the output schema if Expr is set.
	ValueColumn string
	// Expr is the optional expression that computes the value column from
	// the generated timestamps.
	Expr Expression

	// Schema that only contains the time column. This is the input shape
	// for Expr and for intermediate results only.
	timeIndexSchema *arrow.Schema
	// Schema of the output record.
	resultSchema *arrow.Schema
}

// NewGridSource creates an immutable grid source from the time axis bounds,
// the column names, and an optional value expression. Construction only
// derives the schemas; no rows are generated. If expr references a column
// other than the time column, or does not type-check against it,
// construction fails with the schema or type error from [TypeOf].
func NewGridSource(start, end, interval int64, timeColumn, valueColumn string, expr Expression) (*GridSource, error) {
	timeIndexSchema := buildTimeIndexSchema(timeColumn)

	fields := []arrow.Field{timeIndexSchema.Field(0)}
	if expr != nil {
		dt, err := TypeOf(expr, timeIndexSchema)
		if err != nil {
			return nil, fmt.Errorf("type-check value expression: %w", err)
		}
		fields = append(fields, arrow.Field{
			Name:     valueColumn,
			Type:     dt.ArrowType(),
			Nullable: true,
		})
	}

	return &GridSource{
		Start:           start,
		End:             end,
		Interval:        interval,
		TimeColumn:      timeColumn,
		ValueColumn:     valueColumn,
		Expr:            expr,
		timeIndexSchema: timeIndexSchema,
		resultSchema:    arrow.NewSchema(fields, nil),
	}, nil
}

// buildTimeIndexSchema builds a schema that only contains the non-nullable
// millisecond timestamp column.
func buildTimeIndexSchema(timeColumn string) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{{
		Name:     timeColumn,
		Type:     datatype.Arrow.Timestamp,
		Nullable: false,
	}}, nil)
}

// ID implements the [Node] interface.
// Returns a string that uniquely identifies the node in the plan.
func (g *GridSource) ID() string {
	if g.id == "" {
		return fmt.Sprintf("%p", g)
	}
	return g.id
}

// Type implements the [Node] interface.
// Returns the type of the node.
func (*GridSource) Type() NodeType {
	return NodeTypeGridSource
}

// Accept implements the [Node] interface.
// Dispatches itself to the provided [Visitor] v.
func (g *GridSource) Accept(v Visitor) error {
	return v.VisitGridSource(g)
}

// isLeaf implements the [Node] interface. A grid source reads no input and
// is structurally forbidden from having children.
func (*GridSource) isLeaf() bool {
	return true
}

// Schema returns the schema of the output record: the time column, followed
// by the value column if an expression is set.
func (g *GridSource) Schema() *arrow.Schema {
	return g.resultSchema
}

// TimeIndexSchema returns the schema that only contains the time column.
// The value expression is scoped to this schema.
func (g *GridSource) TimeIndexSchema() *arrow.Schema {
	return g.timeIndexSchema
}

// String returns a one-line summary of the time axis for explain output.
func (g *GridSource) String() string {
	return fmt.Sprintf("range=[%d..%d], interval=[%d]", g.Start, g.End, g.Interval)
}

// Equal reports whether two grid sources are semantically identical. The
// derived schemas are excluded: two sources with equal bounds and expression
// are duplicates to plan deduplication even if their schema objects differ
// structurally.
func (g *GridSource) Equal(other *GridSource) bool {
	return g.Compare(other) == 0
}

// Compare orders grid sources lexicographically by (start, end, interval,
// expression). The derived schemas do not participate, see [GridSource.Equal].
func (g *GridSource) Compare(other *GridSource) int {
	if c := cmp.Compare(g.Start, other.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(g.End, other.End); c != 0 {
		return c
	}
	if c := cmp.Compare(g.Interval, other.Interval); c != 0 {
		return c
	}
	return strings.Compare(exprString(g.Expr), exprString(other.Expr))
}

func exprString(expr Expression) string {
	if expr == nil {
		return ""
	}
	return expr.String()
}

// WithExpressions returns a copy of the node with the value expression
// replaced. Passing no expression clears it. The derived schemas are
// retained from the receiver. At most one expression is accepted, and the
// node never accepts children.
func (g *GridSource) WithExpressions(exprs ...Expression) (*GridSource, error) {
	if len(exprs) > 1 {
		return nil, fmt.Errorf("grid source accepts at most one expression, got %d", len(exprs))
	}
	clone := *g
	clone.id = ""
	clone.Expr = nil
	if len(exprs) == 1 {
		clone.Expr = exprs[0]
	}
	return &clone, nil
}

// Statistics returns inexact output estimates for the optimizer. The row
// estimate is the cheap approximation (end-start)/interval, clamped at
// zero. It may differ from the actual enumeration by one row; the
// optimizer only needs magnitude-order guidance. Column-level statistics
// are unknown.
func (g *GridSource) Statistics() Statistics {
	estimatedRows := (g.End - g.Start) / g.Interval
	if estimatedRows < 0 {
		estimatedRows = 0
	}
	return Statistics{
		NumRows:       Inexact(estimatedRows),
		TotalByteSize: Inexact(estimatedRows * timestampValueSize),
		Columns:       UnknownColumnStatistics(g.resultSchema),
	}
}

// Properties declares the execution properties of the node: it produces
// exactly one partition, emits its entire output in a single batch, and is
// always bounded.
func (*GridSource) Properties() Properties {
	return Properties{
		Partitions:  1,
		Emission:    EmissionAllAtOnce,
		Boundedness: BoundednessBounded,
	}
}
