// Package validator checks a built graph for dependency cycles and breaks
// them deterministically.
//
// The search is an iterative depth-first traversal over active relations
// with three visitation states. When a relation leads back to an operation
// that is still in progress, the relations along the stack form a cycle.
// One relation of that cycle, chosen by the configured Policy, is flagged
// cyclic and unlinked, and the search starts over. Because traversal order
// follows handles and insertion order, repeated runs over the same input
// break the same relations.
package validator
