package testutil

import (
	"sync"
	"time"
)

// MemoryRecorder keeps every reported timing in memory.
type MemoryRecorder struct {
	mu         sync.Mutex
	Builds     int
	Passes     []PassRecord
	Operations map[string]int
	Failures   map[string]int
}

// PassRecord is one reported pass.
type PassRecord struct {
	Duration                  time.Duration
	Executed, Failed, Blocked int
}

// NewMemoryRecorder returns an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{Operations: make(map[string]int), Failures: make(map[string]int)}
}

func (r *MemoryRecorder) RecordBuild(time.Duration, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Builds++
}

func (r *MemoryRecorder) RecordPass(d time.Duration, executed, failed, blocked int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Passes = append(r.Passes, PassRecord{Duration: d, Executed: executed, Failed: failed, Blocked: blocked})
}

func (r *MemoryRecorder) RecordOperation(address string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Operations[address]++
	if err != nil {
		r.Failures[address]++
	}
}

// LastPass returns the most recent pass record.
func (r *MemoryRecorder) LastPass() (PassRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Passes) == 0 {
		return PassRecord{}, false
	}
	return r.Passes[len(r.Passes)-1], true
}
