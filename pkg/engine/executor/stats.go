package executor

import "time"

// pipelineStats tracks per-pipeline read statistics so that downstream
// aggregation sees the cost of a node exactly once.
type pipelineStats struct {
	rowsOut      int64
	readCalls    int64
	readDuration time.Duration
}

func (s *pipelineStats) recordRead(rows int64, d time.Duration) {
	s.readCalls++
	s.rowsOut += rows
	s.readDuration += d
}
