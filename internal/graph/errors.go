package graph

import "errors"

var (
	// ErrGraphBusy is returned when the structure is mutated during a pass.
	// The mutation is rejected rather than queued behind the pass; rebuilds
	// construct a fresh graph instead of editing one that is running.
	ErrGraphBusy = errors.New("graph: structural change requested while a pass is running")
	// ErrUnknownID is returned when an ID key is not part of the graph.
	ErrUnknownID = errors.New("graph: unknown id")
	// ErrUnknownComponent is returned when an ID lacks the requested component.
	ErrUnknownComponent = errors.New("graph: unknown component")
	// ErrUnknownOperation is returned when a component lacks the requested opcode.
	ErrUnknownOperation = errors.New("graph: unknown operation")
)
