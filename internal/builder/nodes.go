package builder

import (
	"fmt"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/scene"
)

// createNodes performs the first pass of graph creation, populating the graph
// with the nodes of every entity in the scene.
func (b *builder) createNodes() error {
	b.logger.Debug("Starting node creation pass.")
	for _, o := range b.scene.Objects {
		if err := b.createObject(o); err != nil {
			return err
		}
	}
	for _, m := range b.scene.Materials {
		id, err := b.g.CreateIDNode(m.Name, node.TypeMaterial)
		if err != nil {
			return err
		}
		if err := b.addOp(id, node.KindShading, node.OpMaterialUpdate, &registry.Binding{Material: m}); err != nil {
			return err
		}
	}
	for _, nt := range b.scene.NodeTrees {
		id, err := b.g.CreateIDNode(nt.Name, node.TypeNodeTree)
		if err != nil {
			return err
		}
		if err := b.addOp(id, node.KindShading, node.OpNodeTreeUpdate, &registry.Binding{NodeTree: nt}); err != nil {
			return err
		}
	}
	b.logger.Debug("Finished node creation pass.")
	return nil
}

func (b *builder) createObject(o *scene.Object) error {
	logger := b.logger.With("id", o.Name)
	logger.Debug("Creating object nodes.")
	id, err := b.g.CreateIDNode(o.Name, node.TypeObject)
	if err != nil {
		return err
	}
	bind := func() *registry.Binding { return &registry.Binding{Object: o} }

	for _, d := range o.Drivers {
		kind, _, err := d.Target()
		if err != nil {
			return fmt.Errorf("object %q: %w", o.Name, err)
		}
		if !driveable(node.ComponentKind(kind)) {
			return fmt.Errorf("object %q: driver %q targets unknown component %q", o.Name, d.Property, kind)
		}
		b2 := bind()
		b2.Driver = d
		if err := b.addOp(id, node.KindParameters, node.DriverOpcode(d.Property), b2); err != nil {
			return err
		}
	}

	if o.Animation != nil {
		if err := b.addOp(id, node.KindAnimation, node.OpAnimationEval, bind()); err != nil {
			return err
		}
	}

	transform := []node.Opcode{node.OpTransformLocal}
	if o.Parent != "" {
		transform = append(transform, node.OpTransformParent)
	}
	if len(o.Constraints) > 0 {
		transform = append(transform, node.OpTransformConstraints)
	}
	transform = append(transform, node.OpTransformWorld)
	for _, opcode := range transform {
		if err := b.addOp(id, node.KindTransform, opcode, bind()); err != nil {
			return err
		}
	}

	if o.HasGeometry() {
		if err := b.addOp(id, node.KindGeometry, node.OpGeometryInit, bind()); err != nil {
			return err
		}
		for _, m := range o.Modifiers {
			b2 := bind()
			b2.Modifier = m
			if err := b.addOp(id, node.KindGeometry, node.ModifierOpcode(m.Name), b2); err != nil {
				return err
			}
		}
		if err := b.addOp(id, node.KindGeometry, node.OpGeometryEval, bind()); err != nil {
			return err
		}
	}

	if o.Material != "" || o.HasGeometry() {
		if err := b.addOp(id, node.KindShading, node.OpShadingUpdate, bind()); err != nil {
			return err
		}
	}
	return nil
}

// addOp binds a callback for opcode and appends the operation.
func (b *builder) addOp(id *node.IDNode, kind node.ComponentKind, opcode node.Opcode, bind *registry.Binding) error {
	bind.Resolve = b.resolver()
	cb, err := b.reg.Callback(opcode, bind)
	if err != nil {
		return err
	}
	_, err = b.g.AddOperation(id.GetOrCreateComponent(kind), opcode, cb)
	return err
}

func driveable(kind node.ComponentKind) bool {
	switch kind {
	case node.KindTransform, node.KindGeometry, node.KindShading, node.KindAnimation:
		return true
	}
	return false
}
