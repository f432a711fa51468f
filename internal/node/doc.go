// Package node defines the atomic data structures of the dependency graph:
// ID nodes (one per top-level entity), component nodes (one aspect of an
// ID) and operation nodes (the smallest schedulable unit of work), plus the
// relations connecting operations.
//
// Nodes do not point at each other through relations directly. Operations
// and relations live in an arena owned by the graph package and are
// addressed by integer handles, so a rebuild only has to drop the arena.
package node
