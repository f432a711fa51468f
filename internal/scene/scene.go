// Package scene holds the format-agnostic description of a scene that the
// builder turns into a dependency graph.
package scene

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Scene enumerates every entity and every explicitly declared relation.
type Scene struct {
	Objects   []*Object
	Materials []*Material
	NodeTrees []*NodeTree
	Relations []*Relation
}

// Object is a placeable entity with a transform and optional geometry.
type Object struct {
	Name     string
	Parent   string
	Location []float64
	// Animation, when set, offsets the location before parenting.
	Animation   *Animation
	Constraints []*Constraint
	// Vertices is the base mesh size; zero with no modifiers means the
	// object has no geometry.
	Vertices  int
	Modifiers []*Modifier
	Material  string
	Drivers   []*Driver
}

// HasGeometry reports whether the object carries a geometry component.
func (o *Object) HasGeometry() bool {
	return o.Vertices > 0 || len(o.Modifiers) > 0
}

// Animation describes keyed motion as a constant offset.
type Animation struct {
	Offset []float64
}

// Constraint pulls an object's transform towards a target's.
type Constraint struct {
	Name      string
	Type      string
	Target    string
	Influence float64
}

// Modifier is one step of the geometry stack.
type Modifier struct {
	Name string
	Type string
	// Object is an optional input entity whose geometry and transform the
	// modifier reads.
	Object string
	Params map[string]cty.Value
}

// Driver computes one property from an expression over other components.
type Driver struct {
	// Property is `component.attribute`, e.g. "transform.location".
	Property string
	Expr     hcl.Expression
}

// Target splits Property into the driven component kind and attribute.
func (d *Driver) Target() (component, attribute string, err error) {
	component, attribute, ok := strings.Cut(d.Property, ".")
	if !ok || component == "" || attribute == "" {
		return "", "", fmt.Errorf("driver property %q must have the form component.attribute", d.Property)
	}
	return component, attribute, nil
}

// Material is a shading entity, optionally driven by a node tree.
type Material struct {
	Name     string
	NodeTree string
	Color    []float64
}

// NodeTree is a shading network that may consume other node trees.
type NodeTree struct {
	Name   string
	Inputs []string
	Params map[string]cty.Value
}

// Relation is an explicitly declared dependency. From and To are
// `entity.component` or `entity.component.opcode` addresses.
type Relation struct {
	Name string
	From string
	To   string
}

// Entities returns the number of named entities.
func (s *Scene) Entities() int {
	return len(s.Objects) + len(s.Materials) + len(s.NodeTrees)
}

// Object returns the object called name.
func (s *Scene) Object(name string) (*Object, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Validate checks that entity names are unique across all kinds.
func (s *Scene) Validate() error {
	seen := make(map[string]string, s.Entities())
	check := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%s with empty name", kind)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("duplicate entity name %q (%s and %s)", name, prev, kind)
		}
		seen[name] = kind
		return nil
	}
	for _, o := range s.Objects {
		if err := check("object", o.Name); err != nil {
			return err
		}
	}
	for _, m := range s.Materials {
		if err := check("material", m.Name); err != nil {
			return err
		}
	}
	for _, nt := range s.NodeTrees {
		if err := check("node_tree", nt.Name); err != nil {
			return err
		}
	}
	return nil
}
