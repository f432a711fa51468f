package testutil

import (
	"context"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/scene"
)

// builtinOpcodes are the fixed opcodes the builder can create.
var builtinOpcodes = []node.Opcode{
	node.OpAnimationEval,
	node.OpTransformLocal,
	node.OpTransformParent,
	node.OpTransformConstraints,
	node.OpTransformWorld,
	node.OpGeometryInit,
	node.OpGeometryEval,
	node.OpShadingUpdate,
	node.OpMaterialUpdate,
	node.OpNodeTreeUpdate,
	registry.HandlerDriver,
}

// NoOpModule registers a handler that does nothing for every built-in
// opcode and for each listed modifier and constraint type. It's useful for tests that
// care about graph structure and scheduling but not about values.
type NoOpModule struct {
	Modifiers   []string
	Constraints []string
}

func noop(context.Context, *node.OperationNode, *registry.Binding) error { return nil }

// Register implements the registry.Module interface.
func (m *NoOpModule) Register(r *registry.Registry) {
	for _, op := range builtinOpcodes {
		r.RegisterHandler(op, noop)
	}
	for _, t := range m.Modifiers {
		r.RegisterModifier(t, noop)
	}
	for _, t := range m.Constraints {
		r.RegisterConstraint(t, func(_ context.Context, _ *scene.Constraint, current []float64, _ *registry.Binding) ([]float64, error) {
			return current, nil
		})
	}
}
