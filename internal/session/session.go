// Package session defines the interface hosts use to drive a dependency
// graph over the lifetime of a scene: rebuilding it after structural
// changes, tagging updates, evaluating and reading back results.
package session

import (
	"context"
	"errors"

	"github.com/vk/depsgraph/internal/executor"
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/vk/depsgraph/internal/validator"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoGraph is returned by operations that need an installed graph before
// the first successful Rebuild.
var ErrNoGraph = errors.New("session: no graph installed")

// Session owns the currently installed graph.
type Session interface {
	// Rebuild builds and validates a graph for s and installs it. On
	// failure the previously installed graph stays in place.
	Rebuild(ctx context.Context, s *scene.Scene) (*validator.Report, error)
	// TagUpdate marks a component and everything downstream dirty.
	TagUpdate(key string, kind node.ComponentKind) error
	// Tag accepts an `id`, `id.component` or `id.component.opcode` address.
	Tag(addr string) error
	// Evaluate runs one pass over the installed graph.
	Evaluate(ctx context.Context) (*executor.Result, error)
	// IsFullyEvaluated reports whether every operation of the ID is clean.
	IsFullyEvaluated(key string) (bool, error)
	// Snapshot returns the evaluated values of one component.
	Snapshot(key string, kind node.ComponentKind) (cty.Value, error)
	// Dump snapshots the structure and state of the installed graph.
	Dump() (*graph.Dump, error)
	// Report returns the validation report of the installed graph.
	Report() *validator.Report
	// Close releases any resources held by the session.
	Close(ctx context.Context) error
}
