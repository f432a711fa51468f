package graph

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
)

type relationKey struct {
	from, to node.Handle
}

// Graph is the arena holding every node and relation of one scene revision.
type Graph struct {
	passMu sync.Mutex
	inPass atomic.Bool

	ids     map[string]*node.IDNode
	idOrder []*node.IDNode

	ops      []*node.OperationNode
	rels     []*node.Relation
	relIndex map[relationKey]node.RelationHandle
	seq      uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		ids:      make(map[string]*node.IDNode),
		relIndex: make(map[relationKey]node.RelationHandle),
	}
}

// Lock acquires the pass lock for a short exclusive section. It blocks while
// a pass is running.
func (g *Graph) Lock() {
	g.passMu.Lock()
}

// Unlock releases the pass lock.
func (g *Graph) Unlock() {
	g.passMu.Unlock()
}

// BeginPass acquires the pass lock and forbids structural changes until
// EndPass is called. A second caller queues until the first pass ends.
func (g *Graph) BeginPass() {
	g.passMu.Lock()
	g.inPass.Store(true)
}

// EndPass re-allows structural changes and releases the pass lock.
func (g *Graph) EndPass() {
	g.inPass.Store(false)
	g.passMu.Unlock()
}

// InPass reports whether an evaluation pass is in flight.
func (g *Graph) InPass() bool {
	return g.inPass.Load()
}

// CreateIDNode returns the ID node for key, creating it if needed. The call
// is idempotent; the type of an existing node is left unchanged.
func (g *Graph) CreateIDNode(key string, t node.IDType) (*node.IDNode, error) {
	if g.inPass.Load() {
		return nil, ErrGraphBusy
	}
	if n, ok := g.ids[key]; ok {
		return n, nil
	}
	n := node.NewIDNode(key, t)
	g.ids[key] = n
	g.idOrder = append(g.idOrder, n)
	return n, nil
}

// ID returns the ID node registered under key.
func (g *Graph) ID(key string) (*node.IDNode, bool) {
	n, ok := g.ids[key]
	return n, ok
}

// IDs returns all ID nodes in creation order.
func (g *Graph) IDs() []*node.IDNode {
	out := make([]*node.IDNode, len(g.idOrder))
	copy(out, g.idOrder)
	return out
}

// AddOperation appends a new operation to a component. It returns a
// *node.DuplicateOperationError, leaving the graph untouched, if the
// component already has an operation with that opcode.
func (g *Graph) AddOperation(c *node.ComponentNode, opcode node.Opcode, cb node.Callback) (*node.OperationNode, error) {
	if g.inPass.Load() {
		return nil, ErrGraphBusy
	}
	if c.HasOperation(opcode) {
		return nil, &node.DuplicateOperationError{Component: c.Address(), Opcode: opcode}
	}
	op := node.NewOperationNode(node.Handle(len(g.ops)), c, opcode, cb)
	if err := c.Attach(op); err != nil {
		return nil, err
	}
	g.ops = append(g.ops, op)
	return op, nil
}

// Operation returns the operation with the given handle, or nil.
func (g *Graph) Operation(h node.Handle) *node.OperationNode {
	if h < 0 || int(h) >= len(g.ops) {
		return nil
	}
	return g.ops[h]
}

// Operations returns every operation ordered by handle.
func (g *Graph) Operations() []*node.OperationNode {
	out := make([]*node.OperationNode, len(g.ops))
	copy(out, g.ops)
	return out
}

// OperationCount returns the number of operations in the arena.
func (g *Graph) OperationCount() int {
	return len(g.ops)
}

// Component resolves an `id.component` address.
func (g *Graph) Component(key string, kind node.ComponentKind) (*node.ComponentNode, error) {
	id, ok := g.ids[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownID, key)
	}
	c, ok := id.Component(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q component", ErrUnknownComponent, key, kind)
	}
	return c, nil
}

// Lookup resolves an operation address.
func (g *Graph) Lookup(addr nodeid.Address) (*node.OperationNode, error) {
	c, err := g.Component(addr.ID, node.ComponentKind(addr.Component))
	if err != nil {
		return nil, err
	}
	op, ok := c.Operation(node.Opcode(addr.Opcode))
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q operation", ErrUnknownOperation, c.Address(), addr.Opcode)
	}
	return op, nil
}

// AddRelation inserts the relation from → to. Adding an existing pair
// returns the existing relation with the new flags merged in. Label is
// kept from the first insertion.
func (g *Graph) AddRelation(from, to *node.OperationNode, label string, flags node.RelationFlag) (*node.Relation, error) {
	if g.inPass.Load() {
		return nil, ErrGraphBusy
	}
	if g.Operation(from.Handle()) != from || g.Operation(to.Handle()) != to {
		return nil, fmt.Errorf("relation %s -> %s references operations from another graph", from.Address(), to.Address())
	}

	key := relationKey{from: from.Handle(), to: to.Handle()}
	if h, ok := g.relIndex[key]; ok {
		r := g.rels[h]
		if r.Active() {
			r.Flags |= flags
			return r, nil
		}
	}

	g.seq++
	r := &node.Relation{
		Handle: node.RelationHandle(len(g.rels)),
		From:   from.Handle(),
		To:     to.Handle(),
		Label:  label,
		Seq:    g.seq,
		Flags:  flags,
	}
	g.rels = append(g.rels, r)
	g.relIndex[key] = r.Handle
	from.LinkOutbound(r.Handle)
	to.LinkInbound(r.Handle)
	return r, nil
}

// Relation returns the relation with the given handle, or nil.
func (g *Graph) Relation(h node.RelationHandle) *node.Relation {
	if h < 0 || int(h) >= len(g.rels) {
		return nil
	}
	return g.rels[h]
}

// Relations returns every relation ever inserted, including broken ones,
// ordered by insertion.
func (g *Graph) Relations() []*node.Relation {
	out := make([]*node.Relation, len(g.rels))
	copy(out, g.rels)
	return out
}

// ActiveRelationCount returns the number of relations that constrain
// scheduling.
func (g *Graph) ActiveRelationCount() int {
	n := 0
	for _, r := range g.rels {
		if r.Active() {
			n++
		}
	}
	return n
}

// BreakRelation flags a relation as cyclic and unlinks it from both
// endpoints. Breaking an already broken relation is a no-op.
func (g *Graph) BreakRelation(h node.RelationHandle) error {
	if g.inPass.Load() {
		return ErrGraphBusy
	}
	r := g.Relation(h)
	if r == nil {
		return fmt.Errorf("relation handle %d out of range", h)
	}
	if !r.Active() {
		return nil
	}
	r.Flags |= node.FlagCyclic
	g.ops[r.From].UnlinkOutbound(h)
	g.ops[r.To].UnlinkInbound(h)
	return nil
}

// Successors returns the operations directly depending on op.
func (g *Graph) Successors(op *node.OperationNode) []*node.OperationNode {
	out := make([]*node.OperationNode, 0, len(op.Outbound()))
	for _, h := range op.Outbound() {
		out = append(out, g.ops[g.rels[h].To])
	}
	return out
}

// Predecessors returns the operations op directly depends on.
func (g *Graph) Predecessors(op *node.OperationNode) []*node.OperationNode {
	out := make([]*node.OperationNode, 0, len(op.Inbound()))
	for _, h := range op.Inbound() {
		out = append(out, g.ops[g.rels[h].From])
	}
	return out
}

// Stats summarizes the size of the graph.
type Stats struct {
	IDs        int
	Components int
	Operations int
	Relations  int
}

// Stats returns node and active relation counts.
func (g *Graph) Stats() Stats {
	s := Stats{IDs: len(g.idOrder), Operations: len(g.ops), Relations: g.ActiveRelationCount()}
	for _, id := range g.idOrder {
		s.Components += len(id.Components())
	}
	return s
}

// RefreshEvaluated recomputes the fully-evaluated flag of every ID.
func (g *Graph) RefreshEvaluated() {
	for _, id := range g.idOrder {
		id.SetFullyEvaluated(id.AllClean())
	}
}
