package validator

import (
	"fmt"
	"strings"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
)

// CycleDetectedWarning describes one relation removed to break a cycle.
// It is not fatal: evaluation proceeds without the relation.
type CycleDetectedWarning struct {
	Relation node.RelationHandle
	From     nodeid.Address
	To       nodeid.Address
	Label    string
	// Cycle lists the operations of the detected cycle, first and last
	// element being the same operation.
	Cycle []nodeid.Address
}

func (w CycleDetectedWarning) Error() string {
	path := make([]string, len(w.Cycle))
	for i, a := range w.Cycle {
		path[i] = a.String()
	}
	return fmt.Sprintf("dependency cycle %s: removed relation %s -> %s (%s)",
		strings.Join(path, " -> "), w.From, w.To, w.Label)
}

// StructuralWarning flags a suspicious but legal shape in the graph.
type StructuralWarning struct {
	Operation nodeid.Address
	Message   string
}

func (w StructuralWarning) String() string {
	return w.Operation.String() + ": " + w.Message
}

// Report is the outcome of one validation run.
type Report struct {
	Broken   []CycleDetectedWarning
	Warnings []StructuralWarning
}

// HasCycles reports whether any relation had to be removed.
func (r *Report) HasCycles() bool {
	return r != nil && len(r.Broken) > 0
}
