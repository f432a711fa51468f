// Package executor runs one evaluation pass over a graph on a pool of
// worker goroutines.
//
// A pass drains a ready queue: workers pull operations whose producers have
// all finished, run their callbacks, and release dependents whose pending
// count drops to zero. A failing callback, or one that panics, marks its
// operation failed; its dependents are never released and stay dirty for
// the next pass, while unrelated branches keep running. The context passed
// to Evaluate is forwarded to callbacks only; a started pass always runs to
// its terminal state.
package executor
