package pipeline

import (
	"github.com/tildaslashalef/snapreview/internal/review"
)

// State is the lifecycle stage of the pipeline
type State string

const (
	// StateIdle means nothing has been submitted yet
	StateIdle State = "idle"
	// StateSubmitting means one exchange is in flight
	StateSubmitting State = "submitting"
	// StateSuccess means the last exchange produced a model-derived review
	StateSuccess State = "success"
	// StateFailed means the last exchange failed and the pipeline-error review is published
	StateFailed State = "failed"
)

// IsTerminal reports whether s ends a cycle
func (s State) IsTerminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Snapshot is one published (state, review) pair. Snapshots are never mutated
// after publication; the pipeline replaces them wholesale.
type Snapshot struct {
	State  State
	Review *review.Review // nil while Idle or Submitting
	Cycle  string         // id of the cycle that produced this snapshot, "" while Idle
}
