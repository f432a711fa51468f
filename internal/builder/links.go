package builder

import (
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
	"github.com/vk/depsgraph/internal/scene"
)

// Relation labels, one per rule.
const (
	RuleTransform     = "transform"
	RuleAnimation     = "animation"
	RuleParent        = "parent"
	RuleConstraint    = "constraint"
	RuleGeometry      = "geometry"
	RuleModifierInput = "modifier_input"
	RuleDriver        = "driver"
	RuleMaterial      = "material"
	RuleShading       = "shading"
	RuleNodeTree      = "node_tree"
	RuleNodeTreeInput = "node_tree_input"
	RuleExplicit      = "relation"
)

// linkNodes performs the second pass, establishing relations between
// operations.
func (b *builder) linkNodes() error {
	b.logger.Debug("Starting relation linking pass.")
	for _, o := range b.scene.Objects {
		if err := b.linkObject(o); err != nil {
			return err
		}
	}
	for _, m := range b.scene.Materials {
		if m.NodeTree == "" {
			continue
		}
		if err := b.componentRelation(RuleNodeTree, m.Name, m.NodeTree, node.KindShading, m.Name, node.KindShading, 0); err != nil {
			return err
		}
	}
	for _, nt := range b.scene.NodeTrees {
		for _, in := range nt.Inputs {
			if err := b.componentRelation(RuleNodeTreeInput, nt.Name, in, node.KindShading, nt.Name, node.KindShading, 0); err != nil {
				return err
			}
		}
	}
	for _, r := range b.scene.Relations {
		if err := b.linkExplicit(r); err != nil {
			return err
		}
	}
	b.logger.Debug("Finished relation linking pass.")
	return nil
}

func (b *builder) linkObject(o *scene.Object) error {
	logger := b.logger.With("id", o.Name)
	logger.Debug("Processing relations for object.")

	if err := b.chain(RuleTransform, o.Name, node.KindTransform); err != nil {
		return err
	}
	if o.Animation != nil {
		if err := b.componentRelation(RuleAnimation, o.Name, o.Name, node.KindAnimation, o.Name, node.KindTransform, 0); err != nil {
			return err
		}
	}
	if o.Parent != "" {
		if err := b.componentRelation(RuleParent, o.Name, o.Parent, node.KindTransform, o.Name, node.KindTransform, 0); err != nil {
			return err
		}
	}

	if len(o.Constraints) > 0 {
		target, err := b.op(o.Name, node.KindTransform, node.OpTransformConstraints)
		if err != nil {
			return err
		}
		for _, c := range o.Constraints {
			from, err := b.exit(RuleConstraint, o.Name, c.Target, node.KindTransform)
			if err != nil {
				return err
			}
			if err := b.relate(from, target, RuleConstraint, 0); err != nil {
				return err
			}
		}
	}

	if o.HasGeometry() {
		if err := b.chain(RuleGeometry, o.Name, node.KindGeometry); err != nil {
			return err
		}
		if err := b.linkModifierInputs(o); err != nil {
			return err
		}
	}

	if len(o.Drivers) > 0 {
		logger.Debug("Linking driver relations.", "count", len(o.Drivers))
		for _, d := range o.Drivers {
			if err := b.linkDriver(o, d); err != nil {
				return err
			}
		}
	}

	if o.Material != "" {
		if err := b.componentRelation(RuleMaterial, o.Name, o.Material, node.KindShading, o.Name, node.KindShading, 0); err != nil {
			return err
		}
	}
	if o.HasGeometry() {
		if err := b.componentRelation(RuleShading, o.Name, o.Name, node.KindGeometry, o.Name, node.KindShading, 0); err != nil {
			return err
		}
	}
	return nil
}

// linkModifierInputs makes each modifier with an object input wait for
// that object's geometry, when it has one, and transform.
func (b *builder) linkModifierInputs(o *scene.Object) error {
	for _, m := range o.Modifiers {
		if m.Object == "" {
			continue
		}
		to, err := b.op(o.Name, node.KindGeometry, node.ModifierOpcode(m.Name))
		if err != nil {
			return err
		}
		kinds := []node.ComponentKind{node.KindTransform}
		if other, _ := b.scene.Object(m.Object); other != nil && other.HasGeometry() {
			kinds = append([]node.ComponentKind{node.KindGeometry}, kinds...)
		}
		for _, kind := range kinds {
			from, err := b.exit(RuleModifierInput, o.Name, m.Object, kind)
			if err != nil {
				return err
			}
			if err := b.relate(from, to, RuleModifierInput, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// chain links the operations of a component in declaration order.
func (b *builder) chain(rule, entity string, kind node.ComponentKind) error {
	c, err := b.component(rule, entity, entity, kind)
	if err != nil {
		return err
	}
	ops := c.Operations()
	for i := 1; i < len(ops); i++ {
		if err := b.relate(ops[i-1], ops[i], rule, 0); err != nil {
			return err
		}
	}
	return nil
}

// componentRelation links `from.fromKind` (exit) to `to.toKind` (entry).
func (b *builder) componentRelation(rule, owner, from string, fromKind node.ComponentKind, to string, toKind node.ComponentKind, flags node.RelationFlag) error {
	src, err := b.exit(rule, owner, from, fromKind)
	if err != nil {
		return err
	}
	dst, err := b.entry(rule, owner, to, toKind)
	if err != nil {
		return err
	}
	return b.relate(src, dst, rule, flags)
}

// op returns an operation the first pass is known to have created.
func (b *builder) op(entity string, kind node.ComponentKind, opcode node.Opcode) (*node.OperationNode, error) {
	return b.g.Lookup(nodeid.ForOperation(entity, string(kind), string(opcode)))
}
