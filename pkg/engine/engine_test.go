package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/timegrid/timegrid/pkg/engine/planner/physical"
)

func buildPlan(t *testing.T, start, end, interval int64, expr physical.Expression) *physical.Plan {
	t.Helper()

	node, err := physical.NewGridSource(start, end, interval, "time", "value", expr)
	require.NoError(t, err)

	var plan physical.Plan
	plan.AddNode(node)
	return &plan
}

func TestEngine_Execute(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, err := New(Params{Registerer: reg})
	require.NoError(t, err)

	plan := buildPlan(t, 0, 100, 10, physical.NewTimeSecondsExpr("time"))
	records, err := e.Execute(t.Context(), plan)
	require.NoError(t, err)
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()

	var rows int64
	for _, r := range records {
		rows += r.NumRows()
	}
	require.Equal(t, int64(11), rows)

	require.Equal(t, float64(1), testutil.ToFloat64(e.metrics.queriesTotal))
	require.Equal(t, float64(0), testutil.ToFloat64(e.metrics.queriesFailed))
	require.Equal(t, float64(11), testutil.ToFloat64(e.metrics.rowsProduced))
}

func TestEngine_ExecuteEmptyGrid(t *testing.T) {
	e, err := New(Params{})
	require.NoError(t, err)

	plan := buildPlan(t, 1000, -1000, 10, nil)
	records, err := e.Execute(t.Context(), plan)
	require.NoError(t, err)
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()

	require.Len(t, records, 1)
	require.Equal(t, int64(0), records[0].NumRows())
}

func TestEngine_ExecuteFailure(t *testing.T) {
	e, err := New(Params{})
	require.NoError(t, err)

	records, err := e.Execute(t.Context(), nil)
	require.Error(t, err)
	require.Nil(t, records)
	require.Equal(t, float64(1), testutil.ToFloat64(e.metrics.queriesFailed))
}
