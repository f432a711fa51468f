package executor

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
)

// PassState is the lifecycle of one evaluation pass.
type PassState int32

const (
	PassNotStarted PassState = iota
	PassRunning
	PassComplete
	PassFailed
)

func (s PassState) String() string {
	switch s {
	case PassNotStarted:
		return "not_started"
	case PassRunning:
		return "running"
	case PassComplete:
		return "complete"
	case PassFailed:
		return "failed"
	default:
		return fmt.Sprintf("pass_state(%d)", int32(s))
	}
}

// OperationFailure records an operation whose callback failed.
type OperationFailure struct {
	Operation nodeid.Address
	Err       error
	// Panicked is set when the callback panicked instead of returning.
	Panicked bool
}

func (f *OperationFailure) Error() string {
	return fmt.Sprintf("operation %s failed: %v", f.Operation, f.Err)
}

func (f *OperationFailure) Unwrap() error {
	return f.Err
}

// Stamp holds logical clock readings taken when an operation was handed to
// a worker and when it finished. Readings are unique within a pass.
type Stamp struct {
	Dispatched uint64
	Completed  uint64
}

// Result describes a finished pass.
type Result struct {
	PassID uuid.UUID
	State  PassState
	// Executed lists the operations that ran successfully, in completion
	// order.
	Executed []nodeid.Address
	Failed   []*OperationFailure
	// Blocked lists dirty operations that never ran because a producer
	// failed, ordered by handle.
	Blocked  []nodeid.Address
	Stamps   map[node.Handle]Stamp
	Duration time.Duration
}

// Err joins all operation failures, or returns nil for a clean pass.
func (r *Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Stamp returns the clock readings recorded for h.
func (r *Result) Stamp(h node.Handle) (Stamp, bool) {
	s, ok := r.Stamps[h]
	return s, ok
}
