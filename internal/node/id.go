package node

import "sync/atomic"

// IDNode represents one top-level addressable entity. It owns its
// components exclusively.
type IDNode struct {
	key  string
	Type IDType

	components map[ComponentKind]*ComponentNode
	order      []ComponentKind

	evaluated atomic.Bool
}

// NewIDNode creates an empty ID node. Nodes are normally created through
// graph.CreateIDNode, which keeps keys unique.
func NewIDNode(key string, t IDType) *IDNode {
	return &IDNode{
		key:        key,
		Type:       t,
		components: make(map[ComponentKind]*ComponentNode),
	}
}

// Key returns the stable identity of the ID.
func (n *IDNode) Key() string {
	return n.key
}

// Component returns the component of the given kind, if it exists.
func (n *IDNode) Component(kind ComponentKind) (*ComponentNode, bool) {
	c, ok := n.components[kind]
	return c, ok
}

// GetOrCreateComponent returns the component of the given kind, creating it
// on first use.
func (n *IDNode) GetOrCreateComponent(kind ComponentKind) *ComponentNode {
	if c, ok := n.components[kind]; ok {
		return c
	}
	c := newComponentNode(n, kind)
	n.components[kind] = c
	n.order = append(n.order, kind)
	return c
}

// Components returns the ID's components in creation order.
func (n *IDNode) Components() []*ComponentNode {
	out := make([]*ComponentNode, 0, len(n.order))
	for _, kind := range n.order {
		out = append(out, n.components[kind])
	}
	return out
}

// IsFullyEvaluated reports whether every operation of the ID was clean at
// the end of the last pass and nothing has been tagged since.
func (n *IDNode) IsFullyEvaluated() bool {
	return n.evaluated.Load()
}

// SetFullyEvaluated updates the fully-evaluated flag.
func (n *IDNode) SetFullyEvaluated(v bool) {
	n.evaluated.Store(v)
}

// AllClean reports whether every operation owned by the ID is clean.
func (n *IDNode) AllClean() bool {
	for _, c := range n.components {
		for _, op := range c.ops {
			if op.IsDirty() {
				return false
			}
		}
	}
	return true
}
