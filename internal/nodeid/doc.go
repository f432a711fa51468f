// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for
locations inside the dependency graph.

The canonical format is a dot-separated path of at most three segments,
`id[.component[.opcode]]`, e.g. `Cube`, `Cube.geometry` or
`Cube.geometry.modifier:subsurf`.

This package centralizes formatting and parsing so the CLI, the scene
loader and the graph dump agree on one spelling.
*/
package nodeid
