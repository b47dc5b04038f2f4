package physical

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timegrid/timegrid/pkg/engine/internal/datatype"
	errs "github.com/timegrid/timegrid/pkg/engine/internal/errors"
	"github.com/timegrid/timegrid/pkg/engine/internal/types"
)

func TestTypeOf(t *testing.T) {
	schema := buildTimeIndexSchema("time")
	timeCol := NewColumnExpr("time", types.ColumnTypeBuiltin)

	for _, tc := range []struct {
		name string
		expr Expression
		want datatype.DataType
		err  error
	}{
		{
			name: "time column",
			expr: timeCol,
			want: datatype.Timestamp,
		},
		{
			name: "unknown column",
			expr: NewColumnExpr("other", types.ColumnTypeBuiltin),
			err:  errs.ErrSchema,
		},
		{
			name: "literal",
			expr: NewLiteral(int64(42)),
			want: datatype.Integer,
		},
		{
			name: "cast timestamp to integer",
			expr: &CastExpr{Expr: timeCol, To: datatype.Integer},
			want: datatype.Integer,
		},
		{
			name: "cast timestamp to float is not lossless",
			expr: &CastExpr{Expr: timeCol, To: datatype.Float},
			err:  errs.ErrType,
		},
		{
			name: "time seconds",
			expr: NewTimeSecondsExpr("time"),
			want: datatype.Float,
		},
		{
			name: "comparison yields bool",
			expr: &BinaryExpr{
				Left:  &CastExpr{Expr: timeCol, To: datatype.Integer},
				Right: NewLiteral(int64(0)),
				Op:    types.BinaryOpLt,
			},
			want: datatype.Bool,
		},
		{
			name: "mismatched operands",
			expr: &BinaryExpr{
				Left:  NewLiteral(int64(1)),
				Right: NewLiteral(float64(1)),
				Op:    types.BinaryOpAdd,
			},
			err: errs.ErrType,
		},
		{
			name: "arithmetic on timestamps requires cast",
			expr: &BinaryExpr{Left: timeCol, Right: timeCol, Op: types.BinaryOpAdd},
			err:  errs.ErrType,
		},
		{
			name: "not on bool",
			expr: &UnaryExpr{
				Left: &BinaryExpr{
					Left:  NewLiteral(int64(1)),
					Right: NewLiteral(int64(2)),
					Op:    types.BinaryOpEq,
				},
				Op: types.UnaryOpNot,
			},
			want: datatype.Bool,
		},
		{
			name: "not on numeric",
			expr: &UnaryExpr{Left: NewLiteral(int64(1)), Op: types.UnaryOpNot},
			err:  errs.ErrType,
		},
		{
			name: "negate float",
			expr: &UnaryExpr{Left: NewLiteral(float64(1)), Op: types.UnaryOpNeg},
			want: datatype.Float,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TypeOf(tc.expr, schema)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExpressionStrings(t *testing.T) {
	expr := NewTimeSecondsExpr("time")
	require.Equal(t, "DIV(CAST(CAST(builtin.time, integer), float), 1000)", expr.String())
}
