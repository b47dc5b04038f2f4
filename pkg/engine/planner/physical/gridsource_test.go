package physical

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/timegrid/timegrid/pkg/engine/internal/datatype"
	errs "github.com/timegrid/timegrid/pkg/engine/internal/errors"
	"github.com/timegrid/timegrid/pkg/engine/internal/types"
)

func TestNewGridSource_SchemaWithoutExpression(t *testing.T) {
	node, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)

	schema := node.Schema()
	require.Equal(t, 1, schema.NumFields())

	field := schema.Field(0)
	require.Equal(t, "time", field.Name)
	require.False(t, field.Nullable)
	require.True(t, arrow.TypeEqual(datatype.Arrow.Timestamp, field.Type))

	require.True(t, node.TimeIndexSchema().Equal(schema))
}

func TestNewGridSource_SchemaWithExpression(t *testing.T) {
	node, err := NewGridSource(0, 100, 10, "time", "value", NewTimeSecondsExpr("time"))
	require.NoError(t, err)

	schema := node.Schema()
	require.Equal(t, 2, schema.NumFields())

	// Column order is fixed: time, then value.
	require.Equal(t, "time", schema.Field(0).Name)
	require.Equal(t, "value", schema.Field(1).Name)

	// The value column is typed by type-checking the expression against
	// the timestamp-only schema, and is nullable.
	value := schema.Field(1)
	require.True(t, arrow.TypeEqual(datatype.Arrow.Float, value.Type))
	require.True(t, value.Nullable)

	// The timestamp-only schema never grows a value column.
	require.Equal(t, 1, node.TimeIndexSchema().NumFields())
}

func TestNewGridSource_RejectsUnknownColumn(t *testing.T) {
	_, err := NewGridSource(0, 100, 10, "time", "value",
		NewColumnExpr("other", types.ColumnTypeBuiltin))
	require.ErrorIs(t, err, errs.ErrSchema)
}

func TestNewGridSource_RejectsUnsupportedTypes(t *testing.T) {
	// Timestamp arithmetic without an explicit cast does not type-check.
	expr := &BinaryExpr{
		Left:  NewColumnExpr("time", types.ColumnTypeBuiltin),
		Right: NewLiteral(float64(1000)),
		Op:    types.BinaryOpDiv,
	}
	_, err := NewGridSource(0, 100, 10, "time", "value", expr)
	require.ErrorIs(t, err, errs.ErrType)
}

func TestGridSource_EqualityExcludesSchemas(t *testing.T) {
	// Identical bounds and expression, but structurally different schema
	// objects. The planner's deduplication must treat them as duplicates.
	a, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)
	b, err := NewGridSource(0, 100, 10, "ts", "val", nil)
	require.NoError(t, err)

	require.False(t, a.Schema().Equal(b.Schema()))
	require.True(t, a.Equal(b))
	require.Equal(t, 0, a.Compare(b))
}

func TestGridSource_CompareOrdersLexicographically(t *testing.T) {
	base, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)

	for _, tc := range []struct {
		name                 string
		start, end, interval int64
		expr                 Expression
	}{
		{name: "larger start", start: 1, end: 100, interval: 10},
		{name: "larger end", start: 0, end: 200, interval: 10},
		{name: "larger interval", start: 0, end: 100, interval: 20},
		{name: "expression set", start: 0, end: 100, interval: 10, expr: NewTimeSecondsExpr("time")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			other, err := NewGridSource(tc.start, tc.end, tc.interval, "time", "value", tc.expr)
			require.NoError(t, err)
			require.Negative(t, base.Compare(other))
			require.Positive(t, other.Compare(base))
		})
	}
}

func TestGridSource_String(t *testing.T) {
	node, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)
	require.Equal(t, "range=[0..100], interval=[10]", node.String())
}

func TestGridSource_Statistics(t *testing.T) {
	for _, tc := range []struct {
		name                 string
		start, end, interval int64
		rows                 int64
	}{
		// The estimate is the cheap approximation without the +1 of the
		// actual enumeration.
		{name: "aligned", start: 0, end: 100, interval: 10, rows: 10},
		{name: "unaligned", start: 0, end: 100, interval: 11, rows: 9},
		{name: "single point", start: 0, end: 100, interval: 1000, rows: 0},
		{name: "empty", start: 1000, end: -1000, interval: 10, rows: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			node, err := NewGridSource(tc.start, tc.end, tc.interval, "time", "value", NewTimeSecondsExpr("time"))
			require.NoError(t, err)

			stats := node.Statistics()
			require.Equal(t, Inexact(tc.rows), stats.NumRows)
			require.Equal(t, Inexact(tc.rows*timestampValueSize), stats.TotalByteSize)

			require.Len(t, stats.Columns, node.Schema().NumFields())
			for _, col := range stats.Columns {
				require.Equal(t, PrecisionAbsent, col.NullCount.Precision)
				require.Equal(t, PrecisionAbsent, col.DistinctCount.Precision)
			}
		})
	}
}

func TestGridSource_Properties(t *testing.T) {
	node, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)

	props := node.Properties()
	require.Equal(t, 1, props.Partitions)
	require.Equal(t, EmissionAllAtOnce, props.Emission)
	require.Equal(t, BoundednessBounded, props.Boundedness)
}

func TestGridSource_WithExpressions(t *testing.T) {
	node, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)

	expr := NewTimeSecondsExpr("time")
	clone, err := node.WithExpressions(expr)
	require.NoError(t, err)
	require.Equal(t, expr, clone.Expr)
	require.Nil(t, node.Expr)

	cleared, err := clone.WithExpressions()
	require.NoError(t, err)
	require.Nil(t, cleared.Expr)

	_, err = node.WithExpressions(expr, expr)
	require.Error(t, err)
}

func TestPlan_GridSourceIsStructuralLeaf(t *testing.T) {
	parent, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)
	child, err := NewGridSource(0, 200, 10, "time", "value", nil)
	require.NoError(t, err)

	var plan Plan
	plan.AddNode(parent)
	plan.AddNode(child)

	err = plan.AddEdge(Edge{Parent: parent, Child: child})
	require.ErrorContains(t, err, "leaf")
	require.Empty(t, plan.Children(parent))
}

func TestPlan_Root(t *testing.T) {
	var empty Plan
	_, err := empty.Root()
	require.Error(t, err)

	node, err := NewGridSource(0, 100, 10, "time", "value", nil)
	require.NoError(t, err)

	var plan Plan
	plan.AddNode(node)
	plan.AddNode(node) // adding twice is a no-op

	require.Equal(t, 1, plan.Len())
	root, err := plan.Root()
	require.NoError(t, err)
	require.Same(t, node, root.(*GridSource))
}

func TestPrintAsTree(t *testing.T) {
	node, err := NewGridSource(0, 100, 10, "time", "value", NewTimeSecondsExpr("time"))
	require.NoError(t, err)

	var plan Plan
	plan.AddNode(node)

	explain := PrintAsTree(&plan)
	require.Contains(t, explain, "GridSource: range=[0..100], interval=[10]")
	require.Contains(t, explain, "expr=")
}
