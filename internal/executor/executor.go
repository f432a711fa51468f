package executor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vk/depsgraph/internal/ctxlog"
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/obs"
	"github.com/vk/depsgraph/internal/scheduler"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Options configures an Executor.
type Options struct {
	// Workers is the size of the worker pool; zero or less uses GOMAXPROCS.
	Workers  int
	Observer *obs.Observer
}

// Executor evaluates graphs. One Executor may serve many graphs; passes over
// the same graph queue on the graph's pass lock.
type Executor struct {
	workers int
	obs     *obs.Observer
}

// New creates an executor.
func New(opts Options) *Executor {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Executor{workers: workers, obs: opts.Observer.OrNop()}
}

// Workers returns the pool size.
func (e *Executor) Workers() int {
	return e.workers
}

// Evaluate runs a pass over g with the given options.
func Evaluate(ctx context.Context, g *graph.Graph, opts Options) *Result {
	return New(opts).Evaluate(ctx, g)
}

// pass is the shared state of one evaluation pass.
type pass struct {
	g      *graph.Graph
	obs    *obs.Observer
	queue  chan *node.OperationNode
	clock  atomic.Uint64
	flight atomic.Int64
	stamps []Stamp

	mu       sync.Mutex
	executed []*node.OperationNode
	failed   []*OperationFailure
}

// Evaluate brings every dirty operation of g up to date. It blocks until
// the pass reaches a terminal state.
func (e *Executor) Evaluate(ctx context.Context, g *graph.Graph) *Result {
	g.BeginPass()
	defer g.EndPass()

	start := time.Now()
	res := &Result{PassID: uuid.New(), State: PassRunning}
	logger := e.obs.Logger.With("pass", res.PassID.String())
	ctx = ctxlog.WithLogger(ctx, logger)
	ctx, span := e.obs.Tracer.Start(ctx, "depsgraph.evaluate",
		trace.WithAttributes(attribute.String("depsgraph.pass", res.PassID.String())))
	defer span.End()

	plan := scheduler.Prepare(g)
	logger.Debug("Evaluation pass prepared.", "dirty", plan.Dirty, "ready", len(plan.Ready), "workers", e.workers)

	p := &pass{
		g:      g,
		obs:    e.obs,
		queue:  make(chan *node.OperationNode, max(plan.Dirty, 1)),
		stamps: make([]Stamp, g.OperationCount()),
	}

	if len(plan.Ready) == 0 {
		close(p.queue)
	} else {
		p.flight.Store(int64(len(plan.Ready)))
		for _, h := range plan.Ready {
			p.queue <- g.Operation(h)
		}
	}

	var eg errgroup.Group
	for i := 0; i < e.workers; i++ {
		eg.Go(func() error {
			p.worker(ctx, logger.With("workerID", i))
			return nil
		})
	}
	_ = eg.Wait()

	p.finish(res)
	g.RefreshEvaluated()
	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("depsgraph.executed", len(res.Executed)),
		attribute.Int("depsgraph.failed", len(res.Failed)),
		attribute.Int("depsgraph.blocked", len(res.Blocked)),
	)
	obs.RecordError(span, res.Err())
	e.obs.Recorder.RecordPass(res.Duration, len(res.Executed), len(res.Failed), len(res.Blocked))
	logger.Info("Evaluation pass finished.",
		"state", res.State.String(),
		"executed", len(res.Executed),
		"failed", len(res.Failed),
		"blocked", len(res.Blocked),
		"duration", res.Duration,
	)
	return res
}

// worker is the processing loop of a single pool goroutine.
func (p *pass) worker(ctx context.Context, logger *slog.Logger) {
	for op := range p.queue {
		p.run(ctx, logger, op)
		if p.flight.Add(-1) == 0 {
			close(p.queue)
		}
	}
}

func (p *pass) run(ctx context.Context, logger *slog.Logger, op *node.OperationNode) {
	addr := op.Address().String()
	p.stamps[op.Handle()].Dispatched = p.clock.Add(1)
	op.SetStatus(node.StatusRunning)

	opCtx, span := p.obs.Tracer.Start(ctx, "depsgraph.operation", obs.OperationAttributes(addr, string(op.Opcode())))
	started := time.Now()
	panicked, err := invoke(opCtx, op)
	elapsed := time.Since(started)
	obs.RecordError(span, err)
	span.End()
	p.obs.Recorder.RecordOperation(addr, elapsed, err)
	p.stamps[op.Handle()].Completed = p.clock.Add(1)

	if err != nil {
		logger.Error("Operation failed.", "operation", addr, "error", err, "panicked", panicked)
		op.SetStatus(node.StatusFailed)
		p.mu.Lock()
		p.failed = append(p.failed, &OperationFailure{Operation: op.Address(), Err: err, Panicked: panicked})
		p.mu.Unlock()
		return
	}

	op.SetStatus(node.StatusClean)
	p.mu.Lock()
	p.executed = append(p.executed, op)
	p.mu.Unlock()
	logger.Debug("Operation finished.", "operation", addr, "duration", elapsed)

	for _, succ := range p.g.Successors(op) {
		if !succ.IsDirty() {
			continue
		}
		if succ.DecrementPending() == 0 {
			p.flight.Add(1)
			p.queue <- succ
		}
	}
}

// invoke runs the callback, converting a panic into an error.
func invoke(ctx context.Context, op *node.OperationNode) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return false, op.Run(ctx)
}

func (p *pass) finish(res *Result) {
	res.Stamps = make(map[node.Handle]Stamp)
	for _, op := range p.executed {
		res.Executed = append(res.Executed, op.Address())
	}
	res.Failed = p.failed
	for _, op := range p.g.Operations() {
		h := op.Handle()
		if s := p.stamps[h]; s.Dispatched != 0 {
			res.Stamps[h] = s
		}
		if op.Status() == node.StatusDirty {
			res.Blocked = append(res.Blocked, op.Address())
		}
	}
	if len(res.Failed) > 0 || len(res.Blocked) > 0 {
		res.State = PassFailed
	} else {
		res.State = PassComplete
	}
}
