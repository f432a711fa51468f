// Package tagger marks operations dirty after an external change and
// propagates the mark to everything downstream.
//
// Tagging is monotonic: it only ever turns clean operations dirty, never
// the reverse, and it leaves pending counts alone. Tagging the same
// component twice yields the same dirty set as tagging it once. All entry
// points hold the graph's pass lock, so tagging queues behind a running
// pass.
package tagger

import (
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
)

// TagUpdate marks every operation of the `key.kind` component dirty along
// with all operations reachable from them.
func TagUpdate(g *graph.Graph, key string, kind node.ComponentKind) error {
	g.Lock()
	defer g.Unlock()

	c, err := g.Component(key, kind)
	if err != nil {
		return err
	}
	propagate(g, c.Operations())
	return nil
}

// TagOperation marks a single operation and its downstream dirty.
func TagOperation(g *graph.Graph, addr nodeid.Address) error {
	g.Lock()
	defer g.Unlock()

	op, err := g.Lookup(addr)
	if err != nil {
		return err
	}
	propagate(g, []*node.OperationNode{op})
	return nil
}

// TagID tags every component of the ID.
func TagID(g *graph.Graph, key string) error {
	g.Lock()
	defer g.Unlock()

	id, ok := g.ID(key)
	if !ok {
		return graph.ErrUnknownID
	}
	var seeds []*node.OperationNode
	for _, c := range id.Components() {
		seeds = append(seeds, c.Operations()...)
	}
	propagate(g, seeds)
	return nil
}

// TagAll marks the whole graph dirty. A freshly built graph starts this way.
func TagAll(g *graph.Graph) {
	g.Lock()
	defer g.Unlock()

	for _, op := range g.Operations() {
		op.MarkDirty()
	}
	for _, id := range g.IDs() {
		id.SetFullyEvaluated(false)
	}
}

// propagate runs a breadth-first walk over outgoing relations. Every seed is
// expanded; other operations are expanded only when this walk dirtied them,
// since an operation that was already dirty has a dirty downstream.
func propagate(g *graph.Graph, seeds []*node.OperationNode) {
	queue := make([]*node.OperationNode, 0, len(seeds))
	for _, op := range seeds {
		op.MarkDirty()
		op.Owner().SetFullyEvaluated(false)
		queue = append(queue, op)
	}

	for len(queue) > 0 {
		op := queue[0]
		queue = queue[1:]
		for _, succ := range g.Successors(op) {
			if succ.MarkDirty() {
				succ.Owner().SetFullyEvaluated(false)
				queue = append(queue, succ)
			}
		}
	}
}
