package registry

import (
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/scene"
)

// Resolver finds a component of another entity at evaluation time.
type Resolver func(entity string, kind node.ComponentKind) (*node.ComponentNode, bool)

// Binding is the scene data one operation evaluates. Exactly one of
// Object, Material and NodeTree is set; Modifier and Driver narrow an
// object binding down to one stack entry or driver.
type Binding struct {
	Object   *scene.Object
	Material *scene.Material
	NodeTree *scene.NodeTree
	Modifier *scene.Modifier
	Driver   *scene.Driver
	Resolve  Resolver

	registry *Registry
}

// Entity returns the name of the bound entity.
func (b *Binding) Entity() string {
	switch {
	case b.Object != nil:
		return b.Object.Name
	case b.Material != nil:
		return b.Material.Name
	case b.NodeTree != nil:
		return b.NodeTree.Name
	default:
		return ""
	}
}

// Registry returns the registry the binding was created from.
func (b *Binding) Registry() *Registry {
	return b.registry
}

// Component resolves a component of another entity.
func (b *Binding) Component(entity string, kind node.ComponentKind) (*node.ComponentNode, bool) {
	if b.Resolve == nil {
		return nil, false
	}
	return b.Resolve(entity, kind)
}
