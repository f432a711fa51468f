package testutil

import (
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single operation handler or modifier.
type SimpleModule struct {
	Opcode  node.Opcode
	Handler registry.Handler

	ModifierType string
	Modifier     registry.Handler
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Opcode != "" && m.Handler != nil {
		r.RegisterHandler(m.Opcode, m.Handler)
	}
	if m.ModifierType != "" && m.Modifier != nil {
		r.RegisterModifier(m.ModifierType, m.Modifier)
	}
}
