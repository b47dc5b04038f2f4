package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel"

	"github.com/timegrid/timegrid/pkg/engine/planner/physical"
)

var tracer = otel.Tracer("pkg/engine/executor")

// Config configures plan execution.
type Config struct {
	// Logger for optional log messages. Defaults to a nop logger.
	Logger log.Logger
	// Allocator used for all array allocations. Defaults to the Go
	// allocator.
	Allocator memory.Allocator
}

func (cfg *Config) applyDefaults() {
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	if cfg.Allocator == nil {
		cfg.Allocator = memory.NewGoAllocator()
	}
}

// Run lowers the plan into a pipeline tree and returns the root pipeline.
// Planning failures (nil or rootless plans, unbindable expressions) are
// returned as a pipeline that fails on first read, so callers handle all
// errors through a single code path.
func Run(ctx context.Context, cfg Config, plan *physical.Plan) Pipeline {
	cfg.applyDefaults()
	c := &Context{
		plan:      plan,
		logger:    cfg.Logger,
		mem:       cfg.Allocator,
		evaluator: newExpressionEvaluator(),
	}
	if plan == nil {
		return errorPipeline(ctx, errors.New("plan is nil"))
	}
	node, err := plan.Root()
	if err != nil {
		return errorPipeline(ctx, err)
	}
	return c.execute(ctx, node)
}

// RunPartition is like [Run] for a single output partition. Every node in
// this engine declares exactly one partition, so only partition 0 is valid.
func RunPartition(ctx context.Context, cfg Config, plan *physical.Plan, partition int) Pipeline {
	if partition != 0 {
		return errorPipeline(ctx, fmt.Errorf("invalid partition %d, only partition 0 exists", partition))
	}
	return Run(ctx, cfg, plan)
}

// Context is the execution context.
type Context struct {
	logger    log.Logger
	plan      *physical.Plan
	mem       memory.Allocator
	evaluator expressionEvaluator
}

func (c *Context) execute(ctx context.Context, node physical.Node) Pipeline {
	children := c.plan.Children(node)
	inputs := make([]Pipeline, 0, len(children))
	for _, child := range children {
		inputs = append(inputs, c.execute(ctx, child))
	}

	switch n := node.(type) {
	case *physical.GridSource:
		if len(inputs) > 0 {
			return errorPipeline(ctx, fmt.Errorf("grid source must not have inputs, got %d", len(inputs)))
		}
		return tracePipeline("physical.GridSource", c.executeGridSource(ctx, n))
	default:
		return errorPipeline(ctx, fmt.Errorf("invalid node type: %T", node))
	}
}

func (c *Context) executeGridSource(ctx context.Context, node *physical.GridSource) Pipeline {
	// A non-positive interval must be rejected by the planner; the
	// enumeration is undefined for it.
	if node.Interval <= 0 {
		return errorPipeline(ctx, fmt.Errorf("grid source interval must be positive, got %d", node.Interval))
	}

	var evalFn evalFunc
	if node.Expr != nil {
		fn, err := c.evaluator.bind(node.Expr, node.TimeIndexSchema())
		if err != nil {
			level.Error(c.logger).Log("msg", "failed to bind value expression", "expr", node.Expr, "err", err)
			return errorPipeline(ctx, err)
		}
		evalFn = fn
	}

	level.Debug(c.logger).Log(
		"msg", "execute grid source",
		"start", node.Start,
		"end", node.End,
		"interval", node.Interval,
		"estimated_rows", node.Statistics().NumRows.Value,
	)
	return newGridPipeline(c.mem, node, evalFn)
}
