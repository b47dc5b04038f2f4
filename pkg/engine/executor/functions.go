package executor

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/timegrid/timegrid/pkg/engine/internal/datatype"
	errs "github.com/timegrid/timegrid/pkg/engine/internal/errors"
	"github.com/timegrid/timegrid/pkg/engine/internal/types"
)

// UnaryFunction evaluates an operation on a single column vector.
type UnaryFunction interface {
	Evaluate(v ColumnVector) (ColumnVector, error)
}

type unaryFn func(v ColumnVector) (ColumnVector, error)

func (f unaryFn) Evaluate(v ColumnVector) (ColumnVector, error) { return f(v) }

// BinaryFunction evaluates an operation on two column vectors of equal length.
type BinaryFunction interface {
	Evaluate(lhs, rhs ColumnVector) (ColumnVector, error)
}

type binaryFn func(lhs, rhs ColumnVector) (ColumnVector, error)

func (f binaryFn) Evaluate(lhs, rhs ColumnVector) (ColumnVector, error) { return f(lhs, rhs) }

type unarySignature struct {
	op    types.UnaryOp
	ltype arrow.Type
}

type unaryFunctionRegistry struct {
	reg map[unarySignature]UnaryFunction
}

func (r *unaryFunctionRegistry) register(op types.UnaryOp, ltype arrow.DataType, f UnaryFunction) {
	if r.reg == nil {
		r.reg = make(map[unarySignature]UnaryFunction)
	}
	r.reg[unarySignature{op: op, ltype: ltype.ID()}] = f
}

// GetForSignature returns the function for the operation and operand type.
func (r *unaryFunctionRegistry) GetForSignature(op types.UnaryOp, ltype arrow.DataType) (UnaryFunction, error) {
	fn, ok := r.reg[unarySignature{op: op, ltype: ltype.ID()}]
	if !ok {
		return nil, fmt.Errorf("%w: no unary function registered for %s(%s)", errs.ErrType, op, ltype)
	}
	return fn, nil
}

type binarySignature struct {
	op    types.BinaryOp
	ltype arrow.Type
}

type binaryFunctionRegistry struct {
	reg map[binarySignature]BinaryFunction
}

func (r *binaryFunctionRegistry) register(op types.BinaryOp, ltype arrow.DataType, f BinaryFunction) {
	if r.reg == nil {
		r.reg = make(map[binarySignature]BinaryFunction)
	}
	r.reg[binarySignature{op: op, ltype: ltype.ID()}] = f
}

// GetForSignature returns the function for the operation and operand type.
func (r *binaryFunctionRegistry) GetForSignature(op types.BinaryOp, ltype arrow.DataType) (BinaryFunction, error) {
	fn, ok := r.reg[binarySignature{op: op, ltype: ltype.ID()}]
	if !ok {
		return nil, fmt.Errorf("%w: no binary function registered for %s(%s)", errs.ErrType, op, ltype)
	}
	return fn, nil
}

var (
	unaryFunctions  unaryFunctionRegistry
	binaryFunctions binaryFunctionRegistry
)

func init() {
	unaryFunctions.register(types.UnaryOpNot, datatype.Arrow.Bool, unaryFn(evalNotBool))
	unaryFunctions.register(types.UnaryOpNeg, datatype.Arrow.Integer, newIntegerNegation())
	unaryFunctions.register(types.UnaryOpNeg, datatype.Arrow.Float, newFloatNegation())

	for _, op := range []types.BinaryOp{
		types.BinaryOpAdd, types.BinaryOpSub, types.BinaryOpMul, types.BinaryOpDiv, types.BinaryOpMod,
	} {
		binaryFunctions.register(op, datatype.Arrow.Integer, binaryFn(newIntegerArithmetic(op)))
		binaryFunctions.register(op, datatype.Arrow.Float, binaryFn(newFloatArithmetic(op)))
	}

	for _, op := range []types.BinaryOp{
		types.BinaryOpEq, types.BinaryOpNeq, types.BinaryOpGt, types.BinaryOpGte, types.BinaryOpLt, types.BinaryOpLte,
	} {
		binaryFunctions.register(op, datatype.Arrow.Integer, binaryFn(newComparison[int64](op)))
		binaryFunctions.register(op, datatype.Arrow.Float, binaryFn(newComparison[float64](op)))
		binaryFunctions.register(op, datatype.Arrow.Timestamp, binaryFn(newComparison[int64](op)))
	}
}

func evalNotBool(v ColumnVector) (ColumnVector, error) {
	builder := array.NewBooleanBuilder(memory.NewGoAllocator())
	defer builder.Release()

	for i := range int(v.Len()) {
		val, ok := v.Value(i).(bool)
		if !ok {
			builder.AppendNull()
			continue
		}
		builder.Append(!val)
	}
	return &Array{array: builder.NewArray(), dt: datatype.Bool, ct: types.ColumnTypeGenerated, rows: v.Len()}, nil
}

// newIntegerNegation negates an integer vector by subtracting it from zero.
func newIntegerNegation() unaryFn {
	fn := newIntegerArithmetic(types.BinaryOpSub)
	return func(v ColumnVector) (ColumnVector, error) {
		zero := &Scalar{value: datatype.NewLiteral(int64(0)), rows: v.Len(), ct: types.ColumnTypeGenerated}
		return fn(zero, v)
	}
}

// newFloatNegation negates a float vector by subtracting it from zero.
func newFloatNegation() unaryFn {
	fn := newFloatArithmetic(types.BinaryOpSub)
	return func(v ColumnVector) (ColumnVector, error) {
		zero := &Scalar{value: datatype.NewLiteral(float64(0)), rows: v.Len(), ct: types.ColumnTypeGenerated}
		return fn(zero, v)
	}
}

func newIntegerArithmetic(op types.BinaryOp) func(lhs, rhs ColumnVector) (ColumnVector, error) {
	return func(lhs, rhs ColumnVector) (ColumnVector, error) {
		if lhs.Len() != rhs.Len() {
			return nil, fmt.Errorf("%w: mismatched vector lengths %d and %d", errs.ErrEvaluation, lhs.Len(), rhs.Len())
		}

		builder := array.NewInt64Builder(memory.NewGoAllocator())
		defer builder.Release()

		for i := range int(lhs.Len()) {
			lv, lok := lhs.Value(i).(int64)
			rv, rok := rhs.Value(i).(int64)
			if !lok || !rok {
				builder.AppendNull()
				continue
			}

			var res int64
			switch op {
			case types.BinaryOpAdd:
				res = lv + rv
			case types.BinaryOpSub:
				res = lv - rv
			case types.BinaryOpMul:
				res = lv * rv
			case types.BinaryOpDiv:
				if rv == 0 {
					return nil, fmt.Errorf("%w: integer division by zero", errs.ErrEvaluation)
				}
				res = lv / rv
			case types.BinaryOpMod:
				if rv == 0 {
					return nil, fmt.Errorf("%w: integer modulo by zero", errs.ErrEvaluation)
				}
				res = lv % rv
			default:
				return nil, fmt.Errorf("%w: not an arithmetic operation: %s", errs.ErrType, op)
			}
			builder.Append(res)
		}
		return &Array{array: builder.NewArray(), dt: datatype.Integer, ct: types.ColumnTypeGenerated, rows: lhs.Len()}, nil
	}
}

func newFloatArithmetic(op types.BinaryOp) func(lhs, rhs ColumnVector) (ColumnVector, error) {
	return func(lhs, rhs ColumnVector) (ColumnVector, error) {
		if lhs.Len() != rhs.Len() {
			return nil, fmt.Errorf("%w: mismatched vector lengths %d and %d", errs.ErrEvaluation, lhs.Len(), rhs.Len())
		}

		builder := array.NewFloat64Builder(memory.NewGoAllocator())
		defer builder.Release()

		for i := range int(lhs.Len()) {
			lv, lok := lhs.Value(i).(float64)
			rv, rok := rhs.Value(i).(float64)
			if !lok || !rok {
				builder.AppendNull()
				continue
			}

			var res float64
			switch op {
			case types.BinaryOpAdd:
				res = lv + rv
			case types.BinaryOpSub:
				res = lv - rv
			case types.BinaryOpMul:
				res = lv * rv
			case types.BinaryOpDiv:
				// Float division follows IEEE-754, including division by zero.
				res = lv / rv
			case types.BinaryOpMod:
				res = math.Mod(lv, rv)
			default:
				return nil, fmt.Errorf("%w: not an arithmetic operation: %s", errs.ErrType, op)
			}
			builder.Append(res)
		}
		return &Array{array: builder.NewArray(), dt: datatype.Float, ct: types.ColumnTypeGenerated, rows: lhs.Len()}, nil
	}
}

func newComparison[T int64 | float64](op types.BinaryOp) func(lhs, rhs ColumnVector) (ColumnVector, error) {
	return func(lhs, rhs ColumnVector) (ColumnVector, error) {
		if lhs.Len() != rhs.Len() {
			return nil, fmt.Errorf("%w: mismatched vector lengths %d and %d", errs.ErrEvaluation, lhs.Len(), rhs.Len())
		}

		builder := array.NewBooleanBuilder(memory.NewGoAllocator())
		defer builder.Release()

		for i := range int(lhs.Len()) {
			lv, lok := lhs.Value(i).(T)
			rv, rok := rhs.Value(i).(T)
			if !lok || !rok {
				builder.AppendNull()
				continue
			}

			var res bool
			switch op {
			case types.BinaryOpEq:
				res = lv == rv
			case types.BinaryOpNeq:
				res = lv != rv
			case types.BinaryOpGt:
				res = lv > rv
			case types.BinaryOpGte:
				res = lv >= rv
			case types.BinaryOpLt:
				res = lv < rv
			case types.BinaryOpLte:
				res = lv <= rv
			default:
				return nil, fmt.Errorf("%w: not a comparison operation: %s", errs.ErrType, op)
			}
			builder.Append(res)
		}
		return &Array{array: builder.NewArray(), dt: datatype.Bool, ct: types.ColumnTypeGenerated, rows: lhs.Len()}, nil
	}
}

// castVector converts a column vector to the target data type. The
// supported conversions match [physical.TypeOf]: timestamps reinterpret as
// their integer millisecond value, integers widen to floats, and floats
// truncate to integers.
func castVector(v ColumnVector, to datatype.DataType) (ColumnVector, error) {
	if v.Type() == to {
		return v, nil
	}

	mem := memory.NewGoAllocator()
	rows := int(v.Len())

	switch to {
	case datatype.Integer, datatype.Duration:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for i := range rows {
			switch val := v.Value(i).(type) {
			case int64:
				builder.Append(val)
			case float64:
				builder.Append(int64(val))
			case nil:
				builder.AppendNull()
			default:
				return nil, fmt.Errorf("%w: cannot cast %T to %s", errs.ErrType, val, to)
			}
		}
		return &Array{array: builder.NewArray(), dt: to, ct: types.ColumnTypeGenerated, rows: v.Len()}, nil

	case datatype.Float:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for i := range rows {
			switch val := v.Value(i).(type) {
			case int64:
				builder.Append(float64(val))
			case nil:
				builder.AppendNull()
			default:
				return nil, fmt.Errorf("%w: cannot cast %T to %s", errs.ErrType, val, to)
			}
		}
		return &Array{array: builder.NewArray(), dt: to, ct: types.ColumnTypeGenerated, rows: v.Len()}, nil

	case datatype.Timestamp:
		builder := array.NewTimestampBuilder(mem, datatype.Arrow.Timestamp.(*arrow.TimestampType))
		defer builder.Release()
		for i := range rows {
			switch val := v.Value(i).(type) {
			case int64:
				builder.Append(arrow.Timestamp(val))
			case nil:
				builder.AppendNull()
			default:
				return nil, fmt.Errorf("%w: cannot cast %T to %s", errs.ErrType, val, to)
			}
		}
		return &Array{array: builder.NewArray(), dt: to, ct: types.ColumnTypeGenerated, rows: v.Len()}, nil

	default:
		return nil, fmt.Errorf("%w: cannot cast %s to %s", errs.ErrType, v.Type(), to)
	}
}
