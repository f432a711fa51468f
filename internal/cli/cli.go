package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/depsgraph/internal/app"
	"github.com/vk/depsgraph/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes returned through ExitError.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// options holds the global flags shared by every subcommand.
type options struct {
	configPath  string
	logLevel    string
	logFormat   string
	cyclePolicy string
	workers     int
}

// Execute parses args and runs the selected command, writing results to
// outW and logs and usage errors to errW. Usage problems are returned as an ExitError with ExitUsage and run
// failures with ExitFailure.
func Execute(ctx context.Context, outW, errW io.Writer, args []string) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// NewRootCommand builds the depsgraph command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "depsgraph",
		Short:         "Build and evaluate scene dependency graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file path (YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Logging level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format: text or json")
	flags.StringVar(&opts.cyclePolicy, "cycle-policy", "", "Relation removed from a cycle: newest or closing")
	flags.IntVar(&opts.workers, "workers", 0, "Executor worker count; 0 uses GOMAXPROCS")

	var tags []string
	evalCmd := &cobra.Command{
		Use:   "eval SCENE...",
		Short: "Evaluate a scene, optionally re-evaluating after tagging updates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, outW, func(ctx context.Context, a *app.App) error {
				return a.Eval(ctx, args, tags)
			})
		},
	}
	evalCmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag ID, ID.component or ID.component.operation for update (repeatable)")

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump SCENE...",
		Short: "Print the built dependency graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, outW, func(ctx context.Context, a *app.App) error {
				return a.Dump(ctx, args, format)
			})
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", app.FormatText, "Output format: text, json or dot")

	validateCmd := &cobra.Command{
		Use:   "validate SCENE...",
		Short: "Build the graph and report broken dependency cycles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, outW, func(ctx context.Context, a *app.App) error {
				return a.Validate(ctx, args)
			})
		},
	}

	root.AddCommand(evalCmd, dumpCmd, validateCmd)
	return root
}

// config loads the configuration file and environment, then applies the
// flags the user set explicitly.
func (o *options) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = strings.ToLower(o.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = strings.ToLower(o.logFormat)
	}
	if flags.Changed("cycle-policy") {
		cfg.Validator.CyclePolicy = strings.ToLower(o.cyclePolicy)
	}
	if flags.Changed("workers") {
		cfg.Executor.Workers = o.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) run(cmd *cobra.Command, outW io.Writer, fn func(context.Context, *app.App) error) error {
	slog.Debug("CLI parser started.", "command", cmd.Name())
	cfg, err := o.config(cmd)
	if err != nil {
		return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}

	ctx := cmd.Context()
	a, err := app.NewApp(ctx, outW, &app.AppConfig{Config: cfg, LogW: cmd.ErrOrStderr()})
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	runErr := fn(ctx, a)
	if err := a.Close(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return &ExitError{Code: ExitFailure, Message: runErr.Error()}
	}
	return nil
}
