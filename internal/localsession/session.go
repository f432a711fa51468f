// Package localsession provides a concrete implementation of the
// session.Session interface for local, in-process evaluation.
package localsession

import (
	"context"
	"sync"

	"github.com/vk/depsgraph/internal/builder"
	"github.com/vk/depsgraph/internal/executor"
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
	"github.com/vk/depsgraph/internal/obs"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/vk/depsgraph/internal/session"
	"github.com/vk/depsgraph/internal/tagger"
	"github.com/vk/depsgraph/internal/validator"
	"github.com/zclconf/go-cty/cty"
)

// Options configures a Session.
type Options struct {
	Workers     int
	CyclePolicy validator.Policy
	Observer    *obs.Observer
}

// Session implements session.Session for local runs.
type Session struct {
	reg    *registry.Registry
	exec   *executor.Executor
	policy validator.Policy
	obs    *obs.Observer

	// mu guards the installed graph. Passes and tagging hold it shared so
	// a rebuild installs only between them.
	mu     sync.RWMutex
	graph  *graph.Graph
	report *validator.Report
}

var _ session.Session = (*Session)(nil)

// New creates a session with no graph installed.
func New(reg *registry.Registry, opts Options) *Session {
	o := opts.Observer.OrNop()
	return &Session{
		reg:    reg,
		exec:   executor.New(executor.Options{Workers: opts.Workers, Observer: o}),
		policy: opts.CyclePolicy,
		obs:    o,
	}
}

// Rebuild implements session.Session.
func (s *Session) Rebuild(ctx context.Context, sc *scene.Scene) (*validator.Report, error) {
	logger := s.obs.Logger
	logger.Debug("Rebuilding graph.", "entities", sc.Entities())

	g, err := builder.Build(ctx, sc, s.reg, s.obs)
	if err != nil {
		logger.Error("Rebuild failed, keeping the installed graph.", "error", err)
		return nil, err
	}
	report, err := validator.ValidateAndBreakCycles(g, validator.Options{Policy: s.policy, Observer: s.obs})
	if err != nil {
		logger.Error("Validation failed, keeping the installed graph.", "error", err)
		return nil, err
	}
	for _, w := range report.Broken {
		logger.Warn("Broke dependency cycle.", "from", w.From.String(), "to", w.To.String(), "rule", w.Label)
	}

	s.mu.Lock()
	s.graph = g
	s.report = report
	s.mu.Unlock()
	logger.Info("Installed new graph.", "operations", g.OperationCount(), "cycles_broken", len(report.Broken))
	return report, nil
}

// TagUpdate implements session.Session.
func (s *Session) TagUpdate(key string, kind node.ComponentKind) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return session.ErrNoGraph
	}
	return tagger.TagUpdate(s.graph, key, kind)
}

// Tag implements session.Session.
func (s *Session) Tag(raw string) error {
	addr, err := nodeid.Parse(raw)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return session.ErrNoGraph
	}
	switch {
	case addr.IsOperation():
		return tagger.TagOperation(s.graph, addr)
	case addr.IsComponent():
		return tagger.TagUpdate(s.graph, addr.ID, node.ComponentKind(addr.Component))
	default:
		return tagger.TagID(s.graph, addr.ID)
	}
}

// Evaluate implements session.Session.
func (s *Session) Evaluate(ctx context.Context) (*executor.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return nil, session.ErrNoGraph
	}
	return s.exec.Evaluate(ctx, s.graph), nil
}

// IsFullyEvaluated implements session.Session.
func (s *Session) IsFullyEvaluated(key string) (bool, error) {
	g, err := s.installed()
	if err != nil {
		return false, err
	}
	// The ID map is not mutated after build and the flag is atomic, so the
	// read does not wait for a running pass.
	id, ok := g.ID(key)
	if !ok {
		return false, graph.ErrUnknownID
	}
	return id.IsFullyEvaluated(), nil
}

// Snapshot implements session.Session.
func (s *Session) Snapshot(key string, kind node.ComponentKind) (cty.Value, error) {
	g, err := s.installed()
	if err != nil {
		return cty.NilVal, err
	}
	g.Lock()
	defer g.Unlock()
	c, err := g.Component(key, kind)
	if err != nil {
		return cty.NilVal, err
	}
	return c.Snapshot(), nil
}

// Dump implements session.Session.
func (s *Session) Dump() (*graph.Dump, error) {
	g, err := s.installed()
	if err != nil {
		return nil, err
	}
	g.Lock()
	defer g.Unlock()
	return g.Dump(), nil
}

// Report implements session.Session. It is nil before the first
// successful Rebuild.
func (s *Session) Report() *validator.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Graph returns the installed graph, or nil.
func (s *Session) Graph() *graph.Graph {
	g, _ := s.installed()
	return g
}

// Close implements session.Session.
func (s *Session) Close(ctx context.Context) error {
	s.obs.Logger.Debug("localsession.Session.Close called")
	s.mu.Lock()
	s.graph = nil
	s.report = nil
	s.mu.Unlock()
	return nil
}

func (s *Session) installed() (*graph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return nil, session.ErrNoGraph
	}
	return s.graph, nil
}
