// Package engine executes physical plans over synthetic time grids. Its
// single source operator materializes evenly spaced millisecond timestamps
// between two bounds and optionally derives one value column by evaluating
// a scalar expression against them.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/timegrid/timegrid/pkg/engine/executor"
	"github.com/timegrid/timegrid/pkg/engine/planner/physical"
)

var tracer = otel.Tracer("pkg/engine")

// Params holds parameters for constructing a new [Engine].
type Params struct {
	Logger     log.Logger            // Logger for optional log messages.
	Registerer prometheus.Registerer // Registerer for optional metrics.

	// Allocator used for all array allocations during execution.
	Allocator memory.Allocator
}

// validate validates p and applies defaults.
func (p *Params) validate() error {
	if p.Logger == nil {
		p.Logger = log.NewNopLogger()
	}
	if p.Registerer == nil {
		p.Registerer = prometheus.NewRegistry()
	}
	if p.Allocator == nil {
		p.Allocator = memory.NewGoAllocator()
	}
	return nil
}

// Engine defines parameters for executing queries.
type Engine struct {
	logger  log.Logger
	metrics *metrics
	mem     memory.Allocator
}

// New creates a new Engine.
func New(params Params) (*Engine, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		logger:  params.Logger,
		metrics: newMetrics(params.Registerer),
		mem:     params.Allocator,
	}, nil
}

// Execute runs the plan to completion and returns all produced records.
// The caller must Release() the returned records.
func (e *Engine) Execute(ctx context.Context, plan *physical.Plan) ([]arrow.Record, error) {
	ctx, span := tracer.Start(ctx, "Engine.Execute")
	defer span.End()

	begin := time.Now()
	e.metrics.queriesTotal.Inc()

	pipeline := executor.Run(ctx, executor.Config{Logger: e.logger, Allocator: e.mem}, plan)
	defer pipeline.Close()

	var (
		records []arrow.Record
		rows    int64
	)
	for {
		record, err := pipeline.Read(ctx)
		if errors.Is(err, executor.EOF) {
			break
		}
		if err != nil {
			for _, r := range records {
				r.Release()
			}
			e.metrics.queriesFailed.Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			level.Error(e.logger).Log("msg", "query execution failed", "err", err, "duration", time.Since(begin))
			return nil, err
		}
		rows += record.NumRows()
		records = append(records, record)
	}

	duration := time.Since(begin)
	e.metrics.queryDuration.Observe(duration.Seconds())
	e.metrics.rowsProduced.Add(float64(rows))
	span.SetStatus(codes.Ok, "")
	level.Debug(e.logger).Log("msg", "query execution finished", "rows", rows, "duration", duration)

	return records, nil
}
