package validator

import (
	"fmt"
	"log/slog"

	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
	"github.com/vk/depsgraph/internal/obs"
)

// Options configures a validation run.
type Options struct {
	Policy   Policy
	Observer *obs.Observer
}

type visit uint8

const (
	unvisited visit = iota
	inProgress
	done
)

type frame struct {
	op   node.Handle
	out  []node.RelationHandle
	next int
}

// ValidateAndBreakCycles removes relations until the graph is acyclic and
// reports what was removed. It holds the graph's pass lock for the whole
// run.
func ValidateAndBreakCycles(g *graph.Graph, opts Options) (*Report, error) {
	o := opts.Observer.OrNop()
	policy := opts.Policy
	if policy == "" {
		policy = BreakNewest
	}

	g.Lock()
	defer g.Unlock()

	report := &Report{}
	for {
		cycle := findCycle(g)
		if cycle == nil {
			break
		}
		victim := policy.pick(cycle)
		if err := g.BreakRelation(victim.Handle); err != nil {
			return report, fmt.Errorf("break relation %d: %w", victim.Handle, err)
		}
		w := CycleDetectedWarning{
			Relation: victim.Handle,
			From:     g.Operation(victim.From).Address(),
			To:       g.Operation(victim.To).Address(),
			Label:    victim.Label,
			Cycle:    cyclePath(g, cycle),
		}
		o.Logger.Warn("Dependency cycle broken.", "relation", fmt.Sprintf("%s -> %s", w.From, w.To), "label", w.Label, "length", len(cycle))
		report.Broken = append(report.Broken, w)
	}

	for _, op := range g.Operations() {
		if len(op.Inbound()) == 0 && len(op.Outbound()) == 0 {
			report.Warnings = append(report.Warnings, StructuralWarning{
				Operation: op.Address(),
				Message:   "operation has no relations",
			})
		}
	}

	o.Logger.Debug("Graph validated.", slog.Int("broken", len(report.Broken)), slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

// IsAcyclic reports whether the active relations of g form a DAG.
func IsAcyclic(g *graph.Graph) bool {
	return findCycle(g) == nil
}

// findCycle returns the relations of the first cycle found, in traversal
// order, or nil when the graph is acyclic.
func findCycle(g *graph.Graph) []*node.Relation {
	n := g.OperationCount()
	state := make([]visit, n)
	var (
		stack []frame
		path  []node.RelationHandle // path[i] entered stack[i+1]
	)

	for root := 0; root < n; root++ {
		if state[root] != unvisited {
			continue
		}
		state[root] = inProgress
		stack = append(stack[:0], frame{op: node.Handle(root), out: g.Operation(node.Handle(root)).Outbound()})
		path = path[:0]

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.out) {
				state[top.op] = done
				stack = stack[:len(stack)-1]
				if len(path) > 0 {
					path = path[:len(path)-1]
				}
				continue
			}
			rh := top.out[top.next]
			top.next++
			to := g.Relation(rh).To

			switch state[to] {
			case inProgress:
				k := len(stack) - 1
				for stack[k].op != to {
					k--
				}
				cycle := make([]*node.Relation, 0, len(stack)-k)
				for _, h := range path[k:] {
					cycle = append(cycle, g.Relation(h))
				}
				return append(cycle, g.Relation(rh))
			case unvisited:
				state[to] = inProgress
				stack = append(stack, frame{op: to, out: g.Operation(to).Outbound()})
				path = append(path, rh)
			}
		}
	}
	return nil
}

func cyclePath(g *graph.Graph, cycle []*node.Relation) []nodeid.Address {
	out := make([]nodeid.Address, 0, len(cycle)+1)
	for _, r := range cycle {
		out = append(out, g.Operation(r.From).Address())
	}
	return append(out, g.Operation(cycle[0].From).Address())
}
