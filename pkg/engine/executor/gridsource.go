package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	errs "github.com/timegrid/timegrid/pkg/engine/internal/errors"
	"github.com/timegrid/timegrid/pkg/engine/planner/physical"
)

// gridState is the state of a [gridPipeline]. There is exactly one
// transition, from pending to done, triggered by the first read.
type gridState uint8

const (
	gridPending gridState = iota
	gridDone
)

// gridPipeline is the one-shot source pipeline for a [physical.GridSource].
// On the first read it synthesizes the timestamp grid, evaluates the bound
// value expression against it, and emits the single result record. Every
// subsequent read returns EOF.
type gridPipeline struct {
	start, end, interval int64

	// evalFn is the bound value expression, or nil if the node has none.
	evalFn evalFunc

	// Schema that only contains the time column. This is the input for
	// evalFn and for intermediate results only.
	timeIndexSchema *arrow.Schema
	// Schema of the output record.
	resultSchema *arrow.Schema

	mem   memory.Allocator
	state gridState
	stats pipelineStats
}

var _ Pipeline = (*gridPipeline)(nil)

func newGridPipeline(mem memory.Allocator, node *physical.GridSource, evalFn evalFunc) *gridPipeline {
	return &gridPipeline{
		start:           node.Start,
		end:             node.End,
		interval:        node.Interval,
		evalFn:          evalFn,
		timeIndexSchema: node.TimeIndexSchema(),
		resultSchema:    node.Schema(),
		mem:             mem,
		state:           gridPending,
	}
}

// Read implements Pipeline.
func (p *gridPipeline) Read(_ context.Context) (arrow.Record, error) {
	if p.state == gridDone {
		return nil, EOF
	}
	p.state = gridDone

	begin := time.Now()
	record, err := p.build()

	var rows int64
	if err == nil {
		rows = record.NumRows()
	}
	p.stats.recordRead(rows, time.Since(begin))

	return record, err
}

// build materializes the single output record: the timestamp grid, and the
// evaluated value column if an expression is bound. No partial record is
// ever returned.
func (p *gridPipeline) build() (arrow.Record, error) {
	numRows := p.rowCount()

	timeArray := p.buildTimeArray(numRows)
	defer timeArray.Release()

	columns := []arrow.Array{timeArray}

	if p.evalFn != nil {
		// The expression is scoped to a record that only contains the
		// time column.
		input := array.NewRecord(p.timeIndexSchema, []arrow.Array{timeArray}, numRows)
		defer input.Release()

		vec, err := p.evalFn(input)
		if err != nil {
			if errors.Is(err, errs.ErrEvaluation) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", errs.ErrEvaluation, err)
		}

		valueArray := vec.ToArray()
		defer valueArray.Release()
		columns = append(columns, valueArray)
	}

	return assembleRecord(p.resultSchema, columns, numRows)
}

// rowCount returns the number of grid points in the closed range
// [start, end] at the configured interval. The computation is carried out
// in uint64 so the distance between the bounds cannot overflow.
func (p *gridPipeline) rowCount() int64 {
	if p.end < p.start {
		return 0
	}
	diff := uint64(p.end) - uint64(p.start)
	return int64(diff/uint64(p.interval)) + 1
}

// buildTimeArray enumerates start, start+interval, ... as an exact integer
// sequence. The loop increments numRows-1 times, so the running value never
// exceeds end and cannot overflow.
func (p *gridPipeline) buildTimeArray(numRows int64) arrow.Array {
	builder := array.NewTimestampBuilder(p.mem, p.timeIndexSchema.Field(0).Type.(*arrow.TimestampType))
	defer builder.Release()

	builder.Reserve(int(numRows))
	ts := p.start
	for i := int64(0); i < numRows; i++ {
		builder.Append(arrow.Timestamp(ts))
		if i+1 < numRows {
			ts += p.interval
		}
	}
	return builder.NewArray()
}

// assembleRecord builds the output record and verifies that every column
// has the expected number of rows. A mismatch is an internal invariant
// violation and is surfaced rather than silently swallowed.
func assembleRecord(schema *arrow.Schema, columns []arrow.Array, numRows int64) (arrow.Record, error) {
	if len(columns) != schema.NumFields() {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", errs.ErrArrayConstruction, schema.NumFields(), len(columns))
	}
	for i, col := range columns {
		if int64(col.Len()) != numRows {
			return nil, fmt.Errorf("%w: column %s has %d rows, expected %d", errs.ErrArrayConstruction, schema.Field(i).Name, col.Len(), numRows)
		}
	}
	return array.NewRecord(schema, columns, numRows), nil
}

// Close implements Pipeline.
func (p *gridPipeline) Close() {}
