// Package shading resolves the color of node trees, materials and the
// objects using them.
package shading

import (
	"context"
	"fmt"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

var (
	// DefaultNodeTreeColor is emitted by a node tree with no color and no inputs.
	DefaultNodeTreeColor = []float64{1, 1, 1}
	// DefaultMaterialColor is used by materials without color or node tree,
	// and by objects without a material.
	DefaultMaterialColor = []float64{0.8, 0.8, 0.8}
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(node.OpNodeTreeUpdate, EvalNodeTree)
	r.RegisterHandler(node.OpMaterialUpdate, EvalMaterial)
	r.RegisterHandler(node.OpShadingUpdate, EvalObject)
}

// EvalNodeTree emits the tree's color parameter, or the average of its
// inputs' colors.
func EvalNodeTree(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	nt := b.NodeTree
	color := DefaultNodeTreeColor
	if v, ok := nt.Params[registry.ValueColor]; ok {
		c, err := registry.AsVec(v)
		if err != nil {
			return fmt.Errorf("node tree %q color: %w", nt.Name, err)
		}
		color = c
	} else if len(nt.Inputs) > 0 {
		var sum []float64
		for _, in := range nt.Inputs {
			c, err := colorOf(b, in)
			if err != nil {
				return err
			}
			sum = registry.AddVec(sum, c)
		}
		color = registry.Lerp(nil, sum, 1/float64(len(nt.Inputs)))
	}
	op.Component().Set(registry.ValueColor, registry.Vec(color))
	return nil
}

// EvalMaterial takes its color from the node tree when one is set.
func EvalMaterial(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	m := b.Material
	color := DefaultMaterialColor
	switch {
	case m.NodeTree != "":
		c, err := colorOf(b, m.NodeTree)
		if err != nil {
			return err
		}
		color = c
	case len(m.Color) > 0:
		color = m.Color
	}
	op.Component().Set(registry.ValueColor, registry.Vec(color))
	return nil
}

// EvalObject binds the material's color to the object.
func EvalObject(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	o := b.Object
	color := DefaultMaterialColor
	if o.Material != "" {
		c, err := colorOf(b, o.Material)
		if err != nil {
			return err
		}
		color = c
	}
	op.Component().Set(registry.ValueColor, registry.Vec(color))
	op.Component().Set(registry.ValueMaterial, cty.StringVal(o.Material))
	return nil
}

func colorOf(b *registry.Binding, entity string) ([]float64, error) {
	c, ok := b.Component(entity, node.KindShading)
	if !ok {
		return nil, fmt.Errorf("%q has no shading", entity)
	}
	v, found, err := registry.ReadVec(c, registry.ValueColor)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%q has no evaluated color", entity)
	}
	return v, nil
}
