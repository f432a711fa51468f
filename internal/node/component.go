package node

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vk/depsgraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// ComponentNode represents one coherent aspect of an ID (e.g. its transform
// or its geometry). It owns an ordered list of operations and the evaluated
// values those operations write.
type ComponentNode struct {
	owner *IDNode
	kind  ComponentKind

	ops      []*OperationNode
	byOpcode map[Opcode]*OperationNode
	entry    *OperationNode
	exit     *OperationNode

	// values is written by operation callbacks while a pass runs.
	mu     sync.RWMutex
	values map[string]cty.Value
}

func newComponentNode(owner *IDNode, kind ComponentKind) *ComponentNode {
	return &ComponentNode{
		owner:    owner,
		kind:     kind,
		byOpcode: make(map[Opcode]*OperationNode),
		values:   make(map[string]cty.Value),
	}
}

// Kind returns the component kind.
func (c *ComponentNode) Kind() ComponentKind {
	return c.kind
}

// Owner returns the ID node the component belongs to.
func (c *ComponentNode) Owner() *IDNode {
	return c.owner
}

// Address returns the component's address.
func (c *ComponentNode) Address() nodeid.Address {
	return nodeid.ForComponent(c.owner.key, string(c.kind))
}

// Operation looks up an operation by opcode.
func (c *ComponentNode) Operation(opcode Opcode) (*OperationNode, bool) {
	op, ok := c.byOpcode[opcode]
	return op, ok
}

// Operations returns the component's operations in insertion order.
func (c *ComponentNode) Operations() []*OperationNode {
	out := make([]*OperationNode, len(c.ops))
	copy(out, c.ops)
	return out
}

// HasOperation reports whether an operation with this opcode is registered.
func (c *ComponentNode) HasOperation(opcode Opcode) bool {
	_, ok := c.byOpcode[opcode]
	return ok
}

// Attach adds an operation to the component. It fails without modifying the
// component if the opcode is already taken.
func (c *ComponentNode) Attach(op *OperationNode) error {
	if _, exists := c.byOpcode[op.opcode]; exists {
		return &DuplicateOperationError{Component: c.Address(), Opcode: op.opcode}
	}
	c.ops = append(c.ops, op)
	c.byOpcode[op.opcode] = op
	return nil
}

// Entry returns the operation that relations targeting this component
// attach to. Unless set explicitly it is the first operation added.
func (c *ComponentNode) Entry() *OperationNode {
	if c.entry != nil {
		return c.entry
	}
	if len(c.ops) == 0 {
		return nil
	}
	return c.ops[0]
}

// Exit returns the operation that marks the component as fully computed.
// Unless set explicitly it is the last operation added.
func (c *ComponentNode) Exit() *OperationNode {
	if c.exit != nil {
		return c.exit
	}
	if len(c.ops) == 0 {
		return nil
	}
	return c.ops[len(c.ops)-1]
}

// SetEntry designates the entry operation.
func (c *ComponentNode) SetEntry(op *OperationNode) error {
	if op.component != c {
		return fmt.Errorf("operation %s does not belong to component %s", op.Address(), c.Address())
	}
	c.entry = op
	return nil
}

// SetExit designates the exit operation.
func (c *ComponentNode) SetExit(op *OperationNode) error {
	if op.component != c {
		return fmt.Errorf("operation %s does not belong to component %s", op.Address(), c.Address())
	}
	c.exit = op
	return nil
}

// Set records an evaluated value.
func (c *ComponentNode) Set(name string, v cty.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = v
}

// Get returns an evaluated value.
func (c *ComponentNode) Get(name string) (cty.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// Snapshot returns all evaluated values as a single cty object.
func (c *ComponentNode) Snapshot() cty.Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.values) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(c.values))
	for k, v := range c.values {
		attrs[k] = v
	}
	return cty.ObjectVal(attrs)
}

// ValueNames returns the names of the recorded values in sorted order.
func (c *ComponentNode) ValueNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.values))
	for k := range c.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
