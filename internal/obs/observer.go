package obs

import (
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope used for spans and metrics.
const TracerName = "github.com/vk/depsgraph"

// Recorder receives timings from building and evaluation. Implementations
// must be safe for concurrent use; RecordOperation is called from workers.
type Recorder interface {
	RecordBuild(d time.Duration, operations, relations int)
	RecordPass(d time.Duration, executed, failed, blocked int)
	RecordOperation(address string, d time.Duration, err error)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordBuild(time.Duration, int, int)          {}
func (NopRecorder) RecordPass(time.Duration, int, int, int)      {}
func (NopRecorder) RecordOperation(string, time.Duration, error) {}

// Observer bundles the logger, tracer and recorder used by one session.
type Observer struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Recorder Recorder
}

// Nop returns an observer that discards logs, spans and timings.
func Nop() *Observer {
	return &Observer{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:   noop.NewTracerProvider().Tracer(TracerName),
		Recorder: NopRecorder{},
	}
}

// New returns an observer using logger, with no-op tracing and recording.
func New(logger *slog.Logger) *Observer {
	o := Nop()
	if logger != nil {
		o.Logger = logger
	}
	return o
}

// OrNop fills missing fields of o with no-op implementations. A nil
// observer yields Nop().
func (o *Observer) OrNop() *Observer {
	n := Nop()
	if o == nil {
		return n
	}
	out := *o
	if out.Logger == nil {
		out.Logger = n.Logger
	}
	if out.Tracer == nil {
		out.Tracer = n.Tracer
	}
	if out.Recorder == nil {
		out.Recorder = n.Recorder
	}
	return &out
}
