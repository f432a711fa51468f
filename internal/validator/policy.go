package validator

import (
	"fmt"

	"github.com/vk/depsgraph/internal/node"
)

// Policy selects which relation of a cycle is removed.
type Policy string

const (
	// BreakNewest removes the most recently inserted relation of the cycle.
	BreakNewest Policy = "newest"
	// BreakClosing removes the relation that closed the cycle during the
	// traversal.
	BreakClosing Policy = "closing"
)

// ParsePolicy converts a configuration value into a Policy. The empty
// string selects BreakNewest.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", BreakNewest:
		return BreakNewest, nil
	case BreakClosing:
		return BreakClosing, nil
	default:
		return "", fmt.Errorf("unknown cycle policy %q (want %q or %q)", s, BreakNewest, BreakClosing)
	}
}

// pick returns the relation to remove. cycle is ordered along the
// traversal; its last element is the closing relation.
func (p Policy) pick(cycle []*node.Relation) *node.Relation {
	if p == BreakClosing {
		return cycle[len(cycle)-1]
	}
	victim := cycle[0]
	for _, r := range cycle[1:] {
		if r.Seq > victim.Seq {
			victim = r
		}
	}
	return victim
}
