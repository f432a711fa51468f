// Package geometry evaluates an object's modifier stack over a vertex count.
//
// Each stage records its own result so a stage can be re-evaluated without
// its predecessors: geometry_init writes "vertices", a modifier writes
// "<modifier>.vertices", and geometry_eval publishes the last stage as
// "final_vertices".
package geometry

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(node.OpGeometryInit, EvalInit)
	r.RegisterHandler(node.OpGeometryEval, EvalFinal)
	r.RegisterModifier("subsurf", Subsurf)
	r.RegisterModifier("array", Array)
	r.RegisterModifier("boolean", Boolean)
	r.RegisterModifier("decimate", Decimate)
}

// StageValue names the value a modifier writes.
func StageValue(modifier string) string {
	return modifier + "." + registry.ValueVertices
}

// EvalInit publishes the base mesh size.
func EvalInit(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	op.Component().Set(registry.ValueVertices, cty.NumberIntVal(int64(b.Object.Vertices)))
	return nil
}

// EvalFinal publishes the output of the last stage.
func EvalFinal(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	last := registry.ValueVertices
	if n := len(b.Object.Modifiers); n > 0 {
		last = StageValue(b.Object.Modifiers[n-1].Name)
	}
	v, err := read(op.Component(), last)
	if err != nil {
		return err
	}
	op.Component().Set(registry.ValueFinalVertices, cty.NumberIntVal(int64(v)))
	return nil
}

// Subsurf subdivides every face `levels` times.
func Subsurf(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	levels, err := registry.ParamInt(b.Params(), "levels", 1)
	if err != nil {
		return err
	}
	if levels < 0 || levels > 6 {
		return fmt.Errorf("subsurf levels %d out of range [0, 6]", levels)
	}
	return stage(op, b, func(v int) (int, error) {
		return v * int(math.Pow(4, float64(levels))), nil
	})
}

// Array repeats the mesh `count` times. With an object input the copies
// are spaced by that object's world location.
func Array(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	count, err := registry.ParamInt(b.Params(), "count", 2)
	if err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("array count %d must be positive", count)
	}
	if b.Modifier.Object != "" {
		t, ok := b.Component(b.Modifier.Object, node.KindTransform)
		if !ok {
			return fmt.Errorf("array object %q has no transform", b.Modifier.Object)
		}
		world, found, err := registry.ReadVec(t, registry.ValueWorld)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("array object %q has no evaluated world location", b.Modifier.Object)
		}
		offset := registry.Lerp(nil, world, float64(count-1))
		op.Component().Set(b.Modifier.Name+"."+registry.ValueArrayOffset, registry.Vec(offset))
	}
	return stage(op, b, func(v int) (int, error) { return v * count, nil })
}

// Boolean unions the mesh with another object's evaluated mesh.
func Boolean(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	if b.Modifier.Object == "" {
		return fmt.Errorf("boolean modifier %q needs an object", b.Modifier.Name)
	}
	other, ok := b.Component(b.Modifier.Object, node.KindGeometry)
	if !ok {
		return fmt.Errorf("boolean object %q has no geometry", b.Modifier.Object)
	}
	n, err := read(other, registry.ValueFinalVertices)
	if err != nil {
		return err
	}
	return stage(op, b, func(v int) (int, error) { return v + n, nil })
}

// Decimate keeps `ratio` of the vertices, at least one.
func Decimate(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	ratio, err := registry.ParamFloat(b.Params(), "ratio", 0.5)
	if err != nil {
		return err
	}
	if ratio <= 0 || ratio > 1 {
		return fmt.Errorf("decimate ratio %g out of range (0, 1]", ratio)
	}
	return stage(op, b, func(v int) (int, error) {
		if v == 0 {
			return 0, nil
		}
		return max(1, int(math.Floor(float64(v)*ratio))), nil
	})
}

// stage applies fn to the output of the modifier's predecessor.
func stage(op *node.OperationNode, b *registry.Binding, fn func(int) (int, error)) error {
	in, err := read(op.Component(), previous(b.Object, b.Modifier))
	if err != nil {
		return err
	}
	out, err := fn(in)
	if err != nil {
		return err
	}
	op.Component().Set(StageValue(b.Modifier.Name), cty.NumberIntVal(int64(out)))
	return nil
}

func previous(o *scene.Object, m *scene.Modifier) string {
	for i, cur := range o.Modifiers {
		if cur == m && i > 0 {
			return StageValue(o.Modifiers[i-1].Name)
		}
	}
	return registry.ValueVertices
}

func read(c *node.ComponentNode, name string) (int, error) {
	v, found, err := registry.ReadInt(c, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%s has no %q value", c.Address(), name)
	}
	return v, nil
}
