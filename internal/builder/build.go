package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/obs"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/vk/depsgraph/internal/tagger"
	"go.opentelemetry.io/otel/attribute"
)

// builder carries the state shared by the construction passes.
type builder struct {
	g      *graph.Graph
	scene  *scene.Scene
	reg    *registry.Registry
	logger *slog.Logger
}

// Build constructs a complete dependency graph from s. Every operation of
// the returned graph is dirty. The graph has not been checked for cycles.
func Build(ctx context.Context, s *scene.Scene, r *registry.Registry, o *obs.Observer) (*graph.Graph, error) {
	o = o.OrNop()
	start := time.Now()
	_, span := o.Tracer.Start(ctx, "depsgraph.build")
	defer span.End()

	logger := o.Logger
	logger.Debug("Build: Starting graph construction.", "entities", s.Entities(), "relations", len(s.Relations))

	if err := s.Validate(); err != nil {
		obs.RecordError(span, err)
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	if err := r.Validate(s); err != nil {
		obs.RecordError(span, err)
		return nil, fmt.Errorf("scene uses unregistered handlers: %w", err)
	}

	b := &builder{g: graph.New(), scene: s, reg: r, logger: logger}

	// First pass: create all ID, component and operation nodes.
	if err := b.createNodes(); err != nil {
		obs.RecordError(span, err)
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "operation_count", b.g.OperationCount())

	// Second pass: apply the relation rules.
	if err := b.linkNodes(); err != nil {
		obs.RecordError(span, err)
		return nil, err
	}
	logger.Debug("Build: Relation linking complete.", "relation_count", b.g.ActiveRelationCount())

	// A fresh graph has never been evaluated.
	tagger.TagAll(b.g)

	stats := b.g.Stats()
	span.SetAttributes(
		attribute.Int("depsgraph.operations", stats.Operations),
		attribute.Int("depsgraph.relations", stats.Relations),
	)
	o.Recorder.RecordBuild(time.Since(start), stats.Operations, stats.Relations)
	logger.Info("Build: Graph construction successful.",
		"ids", stats.IDs, "operations", stats.Operations, "relations", stats.Relations)
	return b.g, nil
}

// relate adds a relation and logs it.
func (b *builder) relate(from, to *node.OperationNode, label string, flags node.RelationFlag) error {
	if _, err := b.g.AddRelation(from, to, label, flags); err != nil {
		return fmt.Errorf("error linking %s relation: %w", label, err)
	}
	b.logger.Debug("Linked relation.", "from", from.Address().String(), "to", to.Address().String(), "rule", label)
	return nil
}

// component resolves `entity.kind`, wrapping failures for rule.
func (b *builder) component(rule, owner, entity string, kind node.ComponentKind) (*node.ComponentNode, error) {
	c, err := b.g.Component(entity, kind)
	if err != nil {
		return nil, &UnresolvedRelationError{Rule: rule, Owner: owner, Ref: entity + "." + string(kind), Err: err}
	}
	return c, nil
}

// exit returns the exit operation of `entity.kind`.
func (b *builder) exit(rule, owner, entity string, kind node.ComponentKind) (*node.OperationNode, error) {
	c, err := b.component(rule, owner, entity, kind)
	if err != nil {
		return nil, err
	}
	return c.Exit(), nil
}

// entry returns the entry operation of `entity.kind`.
func (b *builder) entry(rule, owner, entity string, kind node.ComponentKind) (*node.OperationNode, error) {
	c, err := b.component(rule, owner, entity, kind)
	if err != nil {
		return nil, err
	}
	return c.Entry(), nil
}

// resolver looks components up in the graph under construction.
func (b *builder) resolver() registry.Resolver {
	g := b.g
	return func(entity string, kind node.ComponentKind) (*node.ComponentNode, bool) {
		c, err := g.Component(entity, kind)
		return c, err == nil
	}
}
