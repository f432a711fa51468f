// Package transform evaluates object placement: animation offsets, local
// location, parenting, constraints and the final world location.
package transform

import (
	"context"
	"fmt"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/scene"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(node.OpAnimationEval, EvalAnimation)
	r.RegisterHandler(node.OpTransformLocal, EvalLocal)
	r.RegisterHandler(node.OpTransformParent, EvalParent)
	r.RegisterHandler(node.OpTransformConstraints, EvalConstraints)
	r.RegisterHandler(node.OpTransformWorld, EvalWorld)
	r.RegisterConstraint("copy_location", CopyLocation)
	r.RegisterConstraint("child_of", ChildOf)
}

// EvalAnimation publishes the animation offset.
func EvalAnimation(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	var offset []float64
	if b.Object.Animation != nil {
		offset = b.Object.Animation.Offset
	}
	op.Component().Set(registry.ValueOffset, registry.Vec(offset))
	return nil
}

// EvalLocal computes the local location: the driven or static location plus
// the animation offset.
func EvalLocal(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	loc := b.Object.Location
	if v, ok := b.Override("location"); ok {
		driven, err := registry.AsVec(v)
		if err != nil {
			return fmt.Errorf("driven location: %w", err)
		}
		loc = driven
	}
	if len(loc) == 0 {
		loc = []float64{0, 0, 0}
	}
	if anim, ok := b.Component(b.Object.Name, node.KindAnimation); ok {
		offset, found, err := registry.ReadVec(anim, registry.ValueOffset)
		if err != nil {
			return err
		}
		if found {
			loc = registry.AddVec(loc, offset)
		}
	}
	op.Component().Set(registry.ValueLocal, registry.Vec(loc))
	return nil
}

// EvalParent offsets the local location by the parent's world location.
func EvalParent(_ context.Context, op *node.OperationNode, b *registry.Binding) error {
	parent, ok := b.Component(b.Object.Parent, node.KindTransform)
	if !ok {
		return fmt.Errorf("parent %q has no transform", b.Object.Parent)
	}
	world, found, err := registry.ReadVec(parent, registry.ValueWorld)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("parent %q has no evaluated world location", b.Object.Parent)
	}
	local, err := mustVec(op.Component(), registry.ValueLocal)
	if err != nil {
		return err
	}
	op.Component().Set(registry.ValueParented, registry.Vec(registry.AddVec(world, local)))
	return nil
}

// EvalConstraints applies the constraint stack in declaration order.
func EvalConstraints(ctx context.Context, op *node.OperationNode, b *registry.Binding) error {
	cur, err := latest(op.Component(), registry.ValueParented, registry.ValueLocal)
	if err != nil {
		return err
	}
	for _, c := range b.Object.Constraints {
		h, ok := b.Registry().Constraint(c.Type)
		if !ok {
			return &registry.UnknownHandlerError{Kind: "constraint", Name: c.Type, Entity: b.Object.Name}
		}
		if cur, err = h(ctx, c, cur, b); err != nil {
			return fmt.Errorf("constraint %q: %w", c.Name, err)
		}
	}
	op.Component().Set(registry.ValueConstrained, registry.Vec(cur))
	return nil
}

// EvalWorld publishes the final world location.
func EvalWorld(_ context.Context, op *node.OperationNode, _ *registry.Binding) error {
	world, err := latest(op.Component(), registry.ValueConstrained, registry.ValueParented, registry.ValueLocal)
	if err != nil {
		return err
	}
	op.Component().Set(registry.ValueWorld, registry.Vec(world))
	return nil
}

// CopyLocation blends towards the target's world location.
func CopyLocation(_ context.Context, c *scene.Constraint, cur []float64, b *registry.Binding) ([]float64, error) {
	target, err := targetWorld(c.Target, b)
	if err != nil {
		return nil, err
	}
	return registry.Lerp(cur, target, c.Influence), nil
}

// ChildOf adds the target's world location scaled by influence.
func ChildOf(_ context.Context, c *scene.Constraint, cur []float64, b *registry.Binding) ([]float64, error) {
	target, err := targetWorld(c.Target, b)
	if err != nil {
		return nil, err
	}
	return registry.AddVec(cur, registry.Lerp(nil, target, c.Influence)), nil
}

func targetWorld(name string, b *registry.Binding) ([]float64, error) {
	t, ok := b.Component(name, node.KindTransform)
	if !ok {
		return nil, fmt.Errorf("target %q has no transform", name)
	}
	return mustVec(t, registry.ValueWorld)
}

func mustVec(c *node.ComponentNode, name string) ([]float64, error) {
	v, found, err := registry.ReadVec(c, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s has no %q value", c.Address(), name)
	}
	return v, nil
}

// latest returns the first of names present on c.
func latest(c *node.ComponentNode, names ...string) ([]float64, error) {
	for _, name := range names {
		v, found, err := registry.ReadVec(c, name)
		if err != nil {
			return nil, err
		}
		if found {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%s has none of %v", c.Address(), names)
}
