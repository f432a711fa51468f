package testutil

import (
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
)

// Resolver resolves components directly from g.
func Resolver(g *graph.Graph) registry.Resolver {
	return func(entity string, kind node.ComponentKind) (*node.ComponentNode, bool) {
		c, err := g.Component(entity, kind)
		return c, err == nil
	}
}
