package executor

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/timegrid/timegrid/pkg/engine/internal/datatype"
	errs "github.com/timegrid/timegrid/pkg/engine/internal/errors"
	"github.com/timegrid/timegrid/pkg/engine/internal/types"
	"github.com/timegrid/timegrid/pkg/engine/planner/physical"
)

// timestampRecord builds a single-column record of millisecond timestamps
// named "time", the shape grid expressions are evaluated against.
func timestampRecord(t *testing.T, values []int64) arrow.Record {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{{
		Name:     "time",
		Type:     datatype.Arrow.Timestamp,
		Nullable: false,
	}}, nil)

	builder := array.NewTimestampBuilder(memory.NewGoAllocator(), datatype.Arrow.Timestamp.(*arrow.TimestampType))
	defer builder.Release()
	for _, v := range values {
		builder.Append(arrow.Timestamp(v))
	}
	arr := builder.NewArray()
	defer arr.Release()

	return array.NewRecord(schema, []arrow.Array{arr}, int64(len(values)))
}

func TestEvaluateLiteral(t *testing.T) {
	input := timestampRecord(t, []int64{0, 10, 20})
	defer input.Release()

	e := newExpressionEvaluator()
	vec, err := e.eval(physical.NewLiteral(float64(2.5)), input)
	require.NoError(t, err)

	require.Equal(t, int64(3), vec.Len())
	require.Equal(t, datatype.Float, vec.Type())
	require.Equal(t, 2.5, vec.Value(0))

	arr := vec.ToArray()
	defer arr.Release()
	require.Equal(t, 3, arr.Len())
}

func TestEvaluateColumn(t *testing.T) {
	input := timestampRecord(t, []int64{0, 10, 20})
	defer input.Release()

	e := newExpressionEvaluator()

	vec, err := e.eval(physical.NewColumnExpr("time", types.ColumnTypeBuiltin), input)
	require.NoError(t, err)
	require.Equal(t, datatype.Timestamp, vec.Type())
	require.Equal(t, int64(10), vec.Value(1))

	_, err = e.eval(physical.NewColumnExpr("missing", types.ColumnTypeBuiltin), input)
	require.ErrorIs(t, err, errs.ErrSchema)
}

func TestEvaluateCast(t *testing.T) {
	input := timestampRecord(t, []int64{0, 1500, 3000})
	defer input.Release()

	e := newExpressionEvaluator()

	expr := &physical.CastExpr{
		Expr: physical.NewColumnExpr("time", types.ColumnTypeBuiltin),
		To:   datatype.Integer,
	}
	vec, err := e.eval(expr, input)
	require.NoError(t, err)
	require.Equal(t, datatype.Integer, vec.Type())
	require.Equal(t, int64(1500), vec.Value(1))

	wider := &physical.CastExpr{Expr: expr, To: datatype.Float}
	vec, err = e.eval(wider, input)
	require.NoError(t, err)
	require.Equal(t, datatype.Float, vec.Type())
	require.Equal(t, float64(3000), vec.Value(2))
}

func TestEvaluateTimeSeconds(t *testing.T) {
	input := timestampRecord(t, []int64{0, 11, 22, 99})
	defer input.Release()

	e := newExpressionEvaluator()
	vec, err := e.eval(physical.NewTimeSecondsExpr("time"), input)
	require.NoError(t, err)

	require.Equal(t, datatype.Float, vec.Type())
	require.Equal(t, 0.011, vec.Value(1))
	require.Equal(t, 0.099, vec.Value(3))
}

func TestEvaluateComparison(t *testing.T) {
	input := timestampRecord(t, []int64{0, 10, 20})
	defer input.Release()

	e := newExpressionEvaluator()
	expr := &physical.BinaryExpr{
		Left: &physical.CastExpr{
			Expr: physical.NewColumnExpr("time", types.ColumnTypeBuiltin),
			To:   datatype.Integer,
		},
		Right: physical.NewLiteral(int64(10)),
		Op:    types.BinaryOpGte,
	}

	vec, err := e.eval(expr, input)
	require.NoError(t, err)
	require.Equal(t, datatype.Bool, vec.Type())
	require.Equal(t, []any{false, true, true}, []any{vec.Value(0), vec.Value(1), vec.Value(2)})
}

func TestEvaluateMismatchedOperandTypes(t *testing.T) {
	input := timestampRecord(t, []int64{0})
	defer input.Release()

	e := newExpressionEvaluator()
	expr := &physical.BinaryExpr{
		Left:  physical.NewLiteral(int64(1)),
		Right: physical.NewLiteral(float64(1)),
		Op:    types.BinaryOpAdd,
	}

	_, err := e.eval(expr, input)
	require.ErrorIs(t, err, errs.ErrType)
}

func TestBindTypeChecks(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{{
		Name:     "time",
		Type:     datatype.Arrow.Timestamp,
		Nullable: false,
	}}, nil)

	e := newExpressionEvaluator()

	fn, err := e.bind(physical.NewTimeSecondsExpr("time"), schema)
	require.NoError(t, err)
	require.NotNil(t, fn)

	_, err = e.bind(physical.NewColumnExpr("other", types.ColumnTypeBuiltin), schema)
	require.ErrorIs(t, err, errs.ErrBinding)
	require.ErrorIs(t, err, errs.ErrSchema)
}

func TestScalarToArrayTypes(t *testing.T) {
	for _, tc := range []struct {
		name    string
		literal datatype.Literal
	}{
		{name: "bool", literal: datatype.NewLiteral(true)},
		{name: "string", literal: datatype.NewLiteral("grid")},
		{name: "integer", literal: datatype.NewLiteral(int64(42))},
		{name: "float", literal: datatype.NewLiteral(3.14)},
		{name: "timestamp", literal: datatype.NewTimestampLiteral(1000)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &Scalar{value: tc.literal, rows: 4, ct: types.ColumnTypeGenerated}
			arr := s.ToArray()
			defer arr.Release()

			require.Equal(t, 4, arr.Len())
			require.True(t, arrow.TypeEqual(tc.literal.Type().ArrowType(), arr.DataType()))
		})
	}
}
