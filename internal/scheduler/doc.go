// Package scheduler prepares an evaluation pass: it computes how many
// unfinished producers each dirty operation waits on and which operations
// can start immediately.
//
// # Why Scheduler Exists
//
// Separating "what can run" from "how to run it" keeps the executor a plain
// worker pool. The scheduler reads the graph once per pass and leaves the
// executor with two facts per operation: its pending count and whether it
// is in the initial ready set.
//
// # How It Works
//
//  1. Every operation left failed by the previous pass returns to dirty so
//     it is retried.
//  2. For each dirty operation, pending = number of dirty direct
//     predecessors over active relations. Clean predecessors already hold
//     a valid result and are not waited on.
//  3. The ready set is every dirty operation with pending 0, ordered by
//     handle.
//
// Clean operations get pending 0 and are never dispatched.
//
// # Relationship with Other Components
//
//   - **Graph:** read-only access to operations and relations; only the
//     per-operation atomics are written.
//   - **Executor:** calls Prepare under the pass lock, then decrements
//     pending counts as producers finish.
//   - **Tagger:** establishes the dirty set Prepare works from.
package scheduler
