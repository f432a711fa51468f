package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Top-level attributes are rejected by the decoder.
type fileRoot struct {
	Objects   []*Object   `hcl:"object,block"`
	Materials []*Material `hcl:"material,block"`
	NodeTrees []*NodeTree `hcl:"node_tree,block"`
	Relations []*Relation `hcl:"relation,block"`
}

// Object maps an `object "name" {}` block.
type Object struct {
	Name        string        `hcl:"name,label"`
	Parent      string        `hcl:"parent,optional"`
	Location    []float64     `hcl:"location,optional"`
	Vertices    int           `hcl:"vertices,optional"`
	Material    string        `hcl:"material,optional"`
	Animation   *Animation    `hcl:"animation,block"`
	Constraints []*Constraint `hcl:"constraint,block"`
	Modifiers   []*Modifier   `hcl:"modifier,block"`
	Drivers     []*Driver     `hcl:"driver,block"`
}

// Animation maps an `animation {}` block.
type Animation struct {
	Offset []float64 `hcl:"offset"`
}

// Constraint maps a `constraint "name" {}` block.
type Constraint struct {
	Name      string   `hcl:"name,label"`
	Type      string   `hcl:"type"`
	Target    string   `hcl:"target"`
	Influence *float64 `hcl:"influence,optional"`
}

// Modifier maps a `modifier "name" {}` block. Attributes other than type
// and object are the modifier's parameters.
type Modifier struct {
	Name   string   `hcl:"name,label"`
	Type   string   `hcl:"type"`
	Object string   `hcl:"object,optional"`
	Params hcl.Body `hcl:",remain"`
}

// Driver maps a `driver "component.attribute" {}` block.
type Driver struct {
	Property string         `hcl:"property,label"`
	Expr     hcl.Expression `hcl:"expr"`
}

// Material maps a `material "name" {}` block.
type Material struct {
	Name     string    `hcl:"name,label"`
	NodeTree string    `hcl:"node_tree,optional"`
	Color    []float64 `hcl:"color,optional"`
}

// NodeTree maps a `node_tree "name" {}` block. Attributes other than
// inputs are the tree's parameters.
type NodeTree struct {
	Name   string   `hcl:"name,label"`
	Inputs []string `hcl:"inputs,optional"`
	Params hcl.Body `hcl:",remain"`
}

// Relation maps a `relation "name" {}` block.
type Relation struct {
	Name string `hcl:"name,label"`
	From string `hcl:"from"`
	To   string `hcl:"to"`
}
