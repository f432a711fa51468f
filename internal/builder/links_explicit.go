package builder

import (
	"errors"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
	"github.com/vk/depsgraph/internal/scene"
)

var errEntityGranularity = errors.New("address must name a component or an operation")

// linkExplicit resolves a `relation` block. Component addresses resolve to
// the exit on the producer side and the entry on the consumer side.
func (b *builder) linkExplicit(r *scene.Relation) error {
	logger := b.logger.With("relation", r.Name)
	logger.Debug("Resolving explicit relation.", "from", r.From, "to", r.To)

	from, err := b.resolveAddress(r, r.From, (*node.ComponentNode).Exit)
	if err != nil {
		return err
	}
	to, err := b.resolveAddress(r, r.To, (*node.ComponentNode).Entry)
	if err != nil {
		return err
	}
	return b.relate(from, to, RuleExplicit+":"+r.Name, node.FlagMayCauseCycle)
}

func (b *builder) resolveAddress(r *scene.Relation, raw string, anchor func(*node.ComponentNode) *node.OperationNode) (*node.OperationNode, error) {
	unresolved := func(err error) error {
		return &UnresolvedRelationError{Rule: RuleExplicit, Owner: r.Name, Ref: raw, Err: err}
	}
	addr, err := nodeid.Parse(raw)
	if err != nil {
		return nil, unresolved(err)
	}
	if addr.IsOperation() {
		op, err := b.g.Lookup(addr)
		if err != nil {
			return nil, unresolved(err)
		}
		return op, nil
	}
	if !addr.IsComponent() {
		return nil, unresolved(errEntityGranularity)
	}
	c, err := b.g.Component(addr.ID, node.ComponentKind(addr.Component))
	if err != nil {
		return nil, unresolved(err)
	}
	return anchor(c), nil
}
