package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vk/depsgraph/internal/ctxlog"
	"github.com/vk/depsgraph/internal/executor"
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/validator"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Dump formats accepted by App.Dump.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ErrPassFailed is returned by Eval when an evaluation pass did not
// complete cleanly.
var ErrPassFailed = errors.New("evaluation pass failed")

// context attaches the app logger, tagged with the running command.
func (a *App) context(ctx context.Context, command string) context.Context {
	return ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "command", command)
}

// load parses the scene files and installs a freshly built graph.
func (a *App) load(ctx context.Context, paths []string) (*validator.Report, error) {
	sc, err := a.loader.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	return a.session.Rebuild(ctx, sc)
}

// Eval builds the graph for the scene in paths, evaluates it, then applies
// each tag and evaluates once more. It prints a summary of every pass
// followed by the evaluated component values.
func (a *App) Eval(ctx context.Context, paths []string, tags []string) error {
	ctx = a.context(ctx, "eval")
	logger := ctxlog.FromContext(ctx).With("paths", paths)
	logger.Debug("Starting evaluation run.")

	if _, err := a.load(ctx, paths); err != nil {
		return err
	}

	res, err := a.session.Evaluate(ctx)
	if err != nil {
		return err
	}
	a.writePass(res)
	failed := res.State == executor.PassFailed

	if len(tags) > 0 {
		for _, t := range tags {
			if err := a.session.Tag(t); err != nil {
				return fmt.Errorf("failed to tag %q: %w", t, err)
			}
			logger.Debug("Tagged for update.", "tag", t)
		}
		res, err = a.session.Evaluate(ctx)
		if err != nil {
			return err
		}
		a.writePass(res)
		failed = failed || res.State == executor.PassFailed
	}

	if err := a.writeValues(); err != nil {
		return err
	}
	if failed {
		return ErrPassFailed
	}
	logger.Info("Evaluation finished.")
	return nil
}

// Dump builds the graph for the scene in paths and writes it in format.
func (a *App) Dump(ctx context.Context, paths []string, format string) error {
	ctx = a.context(ctx, "dump")
	if _, err := a.load(ctx, paths); err != nil {
		return err
	}
	d, err := a.session.Dump()
	if err != nil {
		return err
	}
	return writeDump(a.outW, d, format)
}

// Validate builds the graph for the scene in paths and prints the cycle
// breaker's report. Broken cycles are warnings and do not fail.
func (a *App) Validate(ctx context.Context, paths []string) error {
	ctx = a.context(ctx, "validate")
	report, err := a.load(ctx, paths)
	if err != nil {
		return err
	}
	stats := a.session.Graph().Stats()
	fmt.Fprintf(a.outW, "ok: %d operations, %d relations\n", stats.Operations, stats.Relations)
	for _, w := range report.Broken {
		fmt.Fprintf(a.outW, "warning: %s\n", w.Error())
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(a.outW, "note: %s\n", w.String())
	}
	return nil
}

func writeDump(w io.Writer, d *graph.Dump, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return d.WriteText(w)
	case FormatJSON:
		return d.WriteJSON(w)
	case FormatDOT:
		return d.WriteDOT(w)
	default:
		return fmt.Errorf("unknown dump format %q: must be one of text, json, dot", format)
	}
}

func (a *App) writePass(res *executor.Result) {
	fmt.Fprintf(a.outW, "pass %s: %s executed=%d failed=%d blocked=%d\n",
		res.PassID, res.State, len(res.Executed), len(res.Failed), len(res.Blocked))
	for _, f := range res.Failed {
		fmt.Fprintf(a.outW, "  failed: %s\n", f.Error())
	}
	for _, b := range res.Blocked {
		fmt.Fprintf(a.outW, "  blocked: %s\n", b)
	}
}

// writeValues prints every non-empty component snapshot as JSON, one line
// per component, in graph order.
func (a *App) writeValues() error {
	d, err := a.session.Dump()
	if err != nil {
		return err
	}
	for _, id := range d.IDs {
		for _, c := range id.Components {
			v, err := a.session.Snapshot(id.Key, node.ComponentKind(c.Kind))
			if err != nil {
				return err
			}
			if len(v.Type().AttributeTypes()) == 0 {
				continue
			}
			buf, err := ctyjson.Marshal(v, v.Type())
			if err != nil {
				return fmt.Errorf("failed to encode %s.%s: %w", id.Key, c.Kind, err)
			}
			fmt.Fprintf(a.outW, "%s.%s = %s\n", id.Key, c.Kind, buf)
		}
	}
	return nil
}
