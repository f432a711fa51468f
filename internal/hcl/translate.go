package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/depsgraph/internal/ctxlog"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/zclconf/go-cty/cty"
)

// translateObject converts an object block into the scene model.
func translateObject(ctx context.Context, o *Object) (*scene.Object, error) {
	logger := ctxlog.FromContext(ctx).With("object", o.Name)
	logger.Debug("Translating HCL object to scene model.")

	obj := &scene.Object{
		Name:     o.Name,
		Parent:   o.Parent,
		Location: o.Location,
		Vertices: o.Vertices,
		Material: o.Material,
	}
	if o.Animation != nil {
		obj.Animation = &scene.Animation{Offset: o.Animation.Offset}
	}
	for _, c := range o.Constraints {
		influence := 1.0
		if c.Influence != nil {
			influence = *c.Influence
		}
		if influence < 0 || influence > 1 {
			return nil, fmt.Errorf("object %q: constraint %q influence %g out of range [0, 1]", o.Name, c.Name, influence)
		}
		obj.Constraints = append(obj.Constraints, &scene.Constraint{
			Name:      c.Name,
			Type:      c.Type,
			Target:    c.Target,
			Influence: influence,
		})
	}
	for _, m := range o.Modifiers {
		params, err := staticAttributes(m.Params)
		if err != nil {
			return nil, fmt.Errorf("object %q: modifier %q: %w", o.Name, m.Name, err)
		}
		obj.Modifiers = append(obj.Modifiers, &scene.Modifier{
			Name:   m.Name,
			Type:   m.Type,
			Object: m.Object,
			Params: params,
		})
	}
	for _, d := range o.Drivers {
		obj.Drivers = append(obj.Drivers, &scene.Driver{Property: d.Property, Expr: d.Expr})
	}
	logger.Debug("Translated object.", "constraints", len(obj.Constraints), "modifiers", len(obj.Modifiers), "drivers", len(obj.Drivers))
	return obj, nil
}

func translateMaterial(m *Material) *scene.Material {
	return &scene.Material{Name: m.Name, NodeTree: m.NodeTree, Color: m.Color}
}

func translateNodeTree(ctx context.Context, nt *NodeTree) (*scene.NodeTree, error) {
	ctxlog.FromContext(ctx).Debug("Translating HCL node tree to scene model.", "node_tree", nt.Name)
	params, err := staticAttributes(nt.Params)
	if err != nil {
		return nil, fmt.Errorf("node tree %q: %w", nt.Name, err)
	}
	return &scene.NodeTree{Name: nt.Name, Inputs: nt.Inputs, Params: params}, nil
}

// staticAttributes evaluates the remaining attributes of a block without
// variables. Parameters must be constants; computed values belong in a
// driver.
func staticAttributes(body hcl.Body) (map[string]cty.Value, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(map[string]cty.Value, len(attrs))
	for _, name := range names {
		attr := attrs[name]
		if len(attr.Expr.Variables()) > 0 {
			return nil, fmt.Errorf("%s: parameter %q must be a constant; use a driver to compute it", attr.Range, name)
		}
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		params[name] = v
	}
	return params, nil
}
