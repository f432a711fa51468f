package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/depsgraph/internal/config"
	"github.com/vk/depsgraph/internal/ctxlog"
	"github.com/vk/depsgraph/internal/hcl"
	"github.com/vk/depsgraph/internal/localsession"
	"github.com/vk/depsgraph/internal/obs"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/validator"
)

// Version is reported as the service version in traces.
var Version = "dev"

// AppConfig holds all the necessary configuration for an App instance to run.
type AppConfig struct {
	Config *config.Config
	// LogW receives log output; it defaults to the output writer.
	LogW io.Writer
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	session  *localsession.Session
	loader   *hcl.Loader
	tracing  *obs.TracerProvider
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(ctx context.Context, outW io.Writer, appConfig *AppConfig, modules ...registry.Module) (*App, error) {
	cfg := appConfig.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logW := appConfig.LogW
	if logW == nil {
		logW = outW
	}
	logger := newLogger(cfg.Log, logW)
	logger.Debug("Logger configured successfully.")

	tp, err := obs.InitTracing(ctx, obs.TracingConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: Version,
		OTLPEndpoint:   cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	recorder, err := obs.NewMeterRecorder(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	observer := &obs.Observer{Logger: logger, Tracer: tp.Tracer(), Recorder: recorder}

	// Create and populate the registry with Go handlers.
	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.NewWith(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "opcodes", reg.Opcodes())

	policy, _ := validator.ParsePolicy(cfg.Validator.CyclePolicy)
	sess := localsession.New(reg, localsession.Options{
		Workers:     cfg.Executor.Workers,
		CyclePolicy: policy,
		Observer:    observer,
	})

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		session:  sess,
		loader:   hcl.NewLoader(),
		tracing:  tp,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Session returns the application's session.
func (a *App) Session() *localsession.Session {
	return a.session
}

// Close flushes traces and releases the session.
func (a *App) Close(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if err := a.session.Close(ctx); err != nil {
		return err
	}
	return a.tracing.Shutdown(ctx)
}
