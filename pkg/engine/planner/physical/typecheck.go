package physical

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/timegrid/timegrid/pkg/engine/internal/datatype"
	errs "github.com/timegrid/timegrid/pkg/engine/internal/errors"
	"github.com/timegrid/timegrid/pkg/engine/internal/types"
)

// TypeOf infers the output data type of expr when evaluated against records
// with the given schema. It returns [errs.ErrSchema] if the expression
// references a column that does not exist in the schema, and [errs.ErrType]
// for unsupported type combinations.
func TypeOf(expr Expression, schema *arrow.Schema) (datatype.DataType, error) {
	switch expr := expr.(type) {
	case *LiteralExpr:
		return expr.ValueType(), nil

	case *ColumnExpr:
		indices := schema.FieldIndices(expr.Ref.Column)
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: unknown column %s", errs.ErrSchema, expr.Ref.Column)
		}
		field := schema.Field(indices[0])
		dt, ok := datatype.FromArrow(field.Type)
		if !ok {
			return nil, fmt.Errorf("%w: column %s has unsupported arrow type %s", errs.ErrType, expr.Ref.Column, field.Type)
		}
		return dt, nil

	case *CastExpr:
		from, err := TypeOf(expr.Expr, schema)
		if err != nil {
			return nil, err
		}
		if !castable(from, expr.To) {
			return nil, fmt.Errorf("%w: cannot cast %s to %s", errs.ErrType, from, expr.To)
		}
		return expr.To, nil

	case *UnaryExpr:
		operand, err := TypeOf(expr.Left, schema)
		if err != nil {
			return nil, err
		}
		switch expr.Op {
		case types.UnaryOpNot:
			if operand != datatype.Bool {
				return nil, fmt.Errorf("%w: %s requires a bool operand, got %s", errs.ErrType, expr.Op, operand)
			}
			return datatype.Bool, nil
		case types.UnaryOpNeg:
			if operand != datatype.Integer && operand != datatype.Float {
				return nil, fmt.Errorf("%w: %s requires a numeric operand, got %s", errs.ErrType, expr.Op, operand)
			}
			return operand, nil
		default:
			return nil, fmt.Errorf("%w: unsupported unary operator %s", errs.ErrType, expr.Op)
		}

	case *BinaryExpr:
		left, err := TypeOf(expr.Left, schema)
		if err != nil {
			return nil, err
		}
		right, err := TypeOf(expr.Right, schema)
		if err != nil {
			return nil, err
		}
		// Operands must have the same type. Mixed-type arithmetic requires
		// an explicit cast in the expression.
		if left != right {
			return nil, fmt.Errorf("%w: mismatched operand types %s and %s for %s", errs.ErrType, left, right, expr.Op)
		}
		if expr.Op.IsComparison() {
			return datatype.Bool, nil
		}
		if left != datatype.Integer && left != datatype.Float {
			return nil, fmt.Errorf("%w: %s is not defined for %s operands", errs.ErrType, expr.Op, left)
		}
		return left, nil
	}

	return nil, fmt.Errorf("%w: unknown expression %v", errs.ErrType, expr)
}

// castable reports whether a value of type from can be converted to type to.
func castable(from, to datatype.DataType) bool {
	if from == to {
		return true
	}
	switch from {
	case datatype.Timestamp:
		// A millisecond timestamp reinterprets losslessly as its integer
		// millisecond value.
		return to == datatype.Integer
	case datatype.Integer:
		return to == datatype.Float || to == datatype.Timestamp || to == datatype.Duration
	case datatype.Float:
		return to == datatype.Integer
	case datatype.Duration:
		return to == datatype.Integer
	default:
		return false
	}
}
