package metrics

import (
	"time"
)

// QueryStats per-query counters of the shortest-path searches. Scoped to
// a single query, never shared between concurrent queries.
type QueryStats struct {
	Algorithm       string        `json:"algorithm"`
	SettledVertices int           `json:"settled_vertices"`
	HeapPushes      int           `json:"heap_pushes"`
	Duration        time.Duration `json:"duration"`
}

func NewQueryStats(algorithm string) *QueryStats {
	return &QueryStats{Algorithm: algorithm}
}

func (qs *QueryStats) Settle() {
	qs.SettledVertices++
}

func (qs *QueryStats) Push() {
	qs.HeapPushes++
}

func (qs *QueryStats) Observe(start time.Time) {
	qs.Duration = time.Since(start)
}
