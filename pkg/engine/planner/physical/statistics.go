package physical

import "github.com/apache/arrow-go/v18/arrow"

// Precision qualifies how reliable an [Estimate] is.
type Precision uint8

const (
	// PrecisionAbsent means no estimate is available.
	PrecisionAbsent Precision = iota
	// PrecisionExact means the value is known to be correct.
	PrecisionExact
	// PrecisionInexact means the value is a heuristic approximation.
	PrecisionInexact
)

// String returns the string representation of the [Precision].
func (p Precision) String() string {
	switch p {
	case PrecisionExact:
		return "exact"
	case PrecisionInexact:
		return "inexact"
	default:
		return "absent"
	}
}

// Estimate is a value together with the precision it was derived at.
type Estimate struct {
	Value     int64
	Precision Precision
}

// Exact creates an estimate whose value is known to be correct.
func Exact(v int64) Estimate {
	return Estimate{Value: v, Precision: PrecisionExact}
}

// Inexact creates a heuristic estimate.
func Inexact(v int64) Estimate {
	return Estimate{Value: v, Precision: PrecisionInexact}
}

// Unknown creates an absent estimate.
func Unknown() Estimate {
	return Estimate{Precision: PrecisionAbsent}
}

// ColumnStatistics holds per-column estimates for the optimizer.
type ColumnStatistics struct {
	NullCount     Estimate
	DistinctCount Estimate
}

// Statistics holds node-level output estimates for the optimizer.
type Statistics struct {
	// NumRows estimates the number of rows the node produces.
	NumRows Estimate
	// TotalByteSize estimates the total size of the produced rows in bytes.
	TotalByteSize Estimate
	// Columns holds per-column statistics, one entry per output column.
	Columns []ColumnStatistics
}

// UnknownColumnStatistics returns fully absent statistics for every column
// of the given schema.
func UnknownColumnStatistics(schema *arrow.Schema) []ColumnStatistics {
	cols := make([]ColumnStatistics, schema.NumFields())
	for i := range cols {
		cols[i] = ColumnStatistics{NullCount: Unknown(), DistinctCount: Unknown()}
	}
	return cols
}

// Emission describes how a node hands its output to the consumer.
type Emission uint8

const (
	// EmissionIncremental means output is produced batch by batch as input
	// is consumed.
	EmissionIncremental Emission = iota
	// EmissionAllAtOnce means the node materializes its entire output and
	// emits it as a single batch.
	EmissionAllAtOnce
)

// String returns the string representation of the [Emission].
func (e Emission) String() string {
	switch e {
	case EmissionAllAtOnce:
		return "all-at-once"
	default:
		return "incremental"
	}
}

// Boundedness describes whether a node produces a finite result set.
type Boundedness uint8

const (
	// BoundednessBounded means the node produces a finite result set.
	BoundednessBounded Boundedness = iota
	// BoundednessUnbounded means the node may produce output indefinitely.
	BoundednessUnbounded
)

// String returns the string representation of the [Boundedness].
func (b Boundedness) String() string {
	switch b {
	case BoundednessUnbounded:
		return "unbounded"
	default:
		return "bounded"
	}
}

// Properties declares execution properties of a node that the scheduler
// relies on: how many partitions it produces, how it emits output, and
// whether the output is finite.
type Properties struct {
	Partitions  int
	Emission    Emission
	Boundedness Boundedness
}
