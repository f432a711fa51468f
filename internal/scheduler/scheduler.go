package scheduler

import (
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
)

// Plan is the starting point of one pass.
type Plan struct {
	// Ready lists the dirty operations without dirty producers, ordered by
	// handle.
	Ready []node.Handle
	// Dirty is the number of operations the pass has to run.
	Dirty int
}

// Empty reports whether the pass has nothing to do.
func (p Plan) Empty() bool {
	return p.Dirty == 0
}

// Prepare resets pending counts for the dirty set of g and returns the
// initial ready set. The caller must hold the pass so that statuses do not
// change concurrently.
func Prepare(g *graph.Graph) Plan {
	ops := g.Operations()
	for _, op := range ops {
		if op.Status() == node.StatusFailed {
			op.SetStatus(node.StatusDirty)
		}
	}

	var plan Plan
	for _, op := range ops {
		if !op.IsDirty() {
			op.SetPending(0)
			continue
		}
		plan.Dirty++
		var pending int32
		for _, pred := range g.Predecessors(op) {
			if pred.IsDirty() {
				pending++
			}
		}
		op.SetPending(pending)
		if pending == 0 {
			plan.Ready = append(plan.Ready, op.Handle())
		}
	}
	return plan
}
