package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/depsgraph/internal/node"
)

// ExecutionRecord holds the start and end times of one operation run.
type ExecutionRecord struct {
	Seq   int
	Start time.Time
	End   time.Time
}

// Probe supplies callbacks that record when and in which order operations
// ran. It is safe for concurrent use by executor workers.
type Probe struct {
	Sleep time.Duration

	mu       sync.Mutex
	order    []string
	records  map[string]*ExecutionRecord
	failures map[string]error
	panics   map[string]bool

	running    atomic.Int32
	maxRunning atomic.Int32
}

// NewProbe creates an empty probe.
func NewProbe() *Probe {
	return &Probe{
		records:  make(map[string]*ExecutionRecord),
		failures: make(map[string]error),
		panics:   make(map[string]bool),
	}
}

// FailOn makes the callback for addr return err.
func (p *Probe) FailOn(addr string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[addr] = err
}

// PanicOn makes the callback for addr panic.
func (p *Probe) PanicOn(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.panics[addr] = true
}

// Callback returns a callback recording its operation's execution.
func (p *Probe) Callback() node.Callback {
	return func(_ context.Context, op *node.OperationNode) error {
		addr := op.Address().String()
		n := p.running.Add(1)
		for {
			m := p.maxRunning.Load()
			if n <= m || p.maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		defer p.running.Add(-1)

		start := time.Now()
		if p.Sleep > 0 {
			time.Sleep(p.Sleep)
		}

		p.mu.Lock()
		p.order = append(p.order, addr)
		p.records[addr] = &ExecutionRecord{Seq: len(p.order), Start: start, End: time.Now()}
		err, doPanic := p.failures[addr], p.panics[addr]
		p.mu.Unlock()

		if doPanic {
			panic(fmt.Sprintf("probe panic in %s", addr))
		}
		return err
	}
}

// For is a convenience adapter for RandomDAG.
func (p *Probe) For(string) node.Callback {
	return p.Callback()
}

// Order returns the addresses in completion order.
func (p *Probe) Order() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

// Record returns the execution record for addr.
func (p *Probe) Record(addr string) (*ExecutionRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[addr]
	return r, ok
}

// Ran reports whether addr executed at least once.
func (p *Probe) Ran(addr string) bool {
	_, ok := p.Record(addr)
	return ok
}

// Count returns the number of recorded runs.
func (p *Probe) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// MaxConcurrency returns the highest number of callbacks observed running
// at once.
func (p *Probe) MaxConcurrency() int {
	return int(p.maxRunning.Load())
}

// Reset forgets recorded runs, keeping failure and panic settings.
func (p *Probe) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.order = nil
	p.records = make(map[string]*ExecutionRecord)
}
