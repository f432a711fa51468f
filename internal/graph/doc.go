// Package graph owns the dependency graph: an arena of operation nodes and
// relations addressed by integer handles, plus the ID and component nodes
// that group operations.
//
// # Structure and state
//
// The arena is built once per scene revision by the builder package and is
// then treated as immutable. Per-operation evaluation state (status and
// pending count) lives in atomics on the operation nodes and is the only
// data mutated while a pass runs.
//
//	┌──────────────┐      ┌───────────────────┐
//	│   IDNode     │ ───▶ │  ComponentNode    │ ──┐
//	│ (entity key) │      │ (entry/exit, values)│  │ handles
//	└──────────────┘      └───────────────────┘  ▼
//	                      ┌─────────────────────────────┐
//	                      │ arena: []*OperationNode      │
//	                      │        []*Relation           │
//	                      └─────────────────────────────┘
//
// # Concurrency
//
// BeginPass/EndPass bracket an evaluation pass and hold the graph's pass
// lock, so passes over one graph are serialized. Lock/Unlock take the same
// lock for short exclusive sections such as tagging. Structural mutators
// (CreateIDNode, AddOperation, AddRelation, BreakRelation) return
// ErrGraphBusy while a pass is in flight. Read accessors take no lock; they
// are safe during a pass because the structure does not change then.
package graph
