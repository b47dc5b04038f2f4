package errors

import "errors"

// Error kinds surfaced by planning and execution. Callers test for them
// with [errors.Is]; call sites wrap them with context using fmt.Errorf.
var (
	// ErrSchema indicates that an expression does not type-check against
	// the schema it is scoped to, e.g. it references an unknown column.
	// Raised at plan-construction time and never retried.
	ErrSchema = errors.New("schema error")

	// ErrBinding indicates that an expression could not be turned into an
	// executable form during lowering.
	ErrBinding = errors.New("expression binding error")

	// ErrEvaluation indicates that a bound expression failed while being
	// evaluated against a record.
	ErrEvaluation = errors.New("expression evaluation error")

	// ErrArrayConstruction indicates a record could not be assembled from
	// its column arrays. This is an internal invariant violation.
	ErrArrayConstruction = errors.New("array construction error")

	// ErrType indicates an unsupported type combination.
	ErrType = errors.New("type error")
)
