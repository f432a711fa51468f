// Package drivers evaluates driver expressions. A driver reads components of
// other entities through `entity.component.value` references and writes its
// result into its owner's parameters component, where the driven handler
// picks it up as an override.
package drivers

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/depsgraph/internal/ctxlog"
	"github.com/vk/depsgraph/internal/expr"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the driver handler and the functions expressions may call.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(registry.HandlerDriver, EvalDriver)
	r.RegisterFunction("abs", stdlib.AbsoluteFunc)
	r.RegisterFunction("min", stdlib.MinFunc)
	r.RegisterFunction("max", stdlib.MaxFunc)
	r.RegisterFunction("floor", stdlib.FloorFunc)
	r.RegisterFunction("ceil", stdlib.CeilFunc)
	r.RegisterFunction("pow", stdlib.PowFunc)
	r.RegisterFunction("signum", stdlib.SignumFunc)
	r.RegisterFunction("length", stdlib.LengthFunc)
	r.RegisterFunction("element", stdlib.ElementFunc)
}

// EvalDriver evaluates the bound driver and stores the value under the
// driven attribute.
func EvalDriver(ctx context.Context, op *node.OperationNode, b *registry.Binding) error {
	d := b.Driver
	_, attr, err := d.Target()
	if err != nil {
		return err
	}
	evalCtx, err := buildEvalContext(ctx, d.Expr, b)
	if err != nil {
		return err
	}
	v, diags := d.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return fmt.Errorf("driver %q: %w", d.Property, diags)
	}
	op.Component().Set(attr, v)
	return nil
}

// buildEvalContext exposes every referenced entity as an object of its
// referenced component snapshots.
func buildEvalContext(ctx context.Context, e hcl.Expression, b *registry.Binding) (*hcl.EvalContext, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building driver evaluation context.", "entity", b.Entity(), "property", b.Driver.Property)

	byEntity := make(map[string]map[string]cty.Value)
	for _, t := range expr.NewContainer(e).References() {
		ref, err := expr.ParseReference(t)
		if err != nil {
			return nil, err
		}
		c, ok := b.Component(ref.Entity, node.ComponentKind(ref.Component))
		if !ok {
			return nil, fmt.Errorf("%s: driver references unknown component %s", ref.Range, ref)
		}
		if _, ok := byEntity[ref.Entity]; !ok {
			byEntity[ref.Entity] = make(map[string]cty.Value)
		}
		byEntity[ref.Entity][ref.Component] = c.Snapshot()
	}

	vars := make(map[string]cty.Value, len(byEntity))
	for entity, comps := range byEntity {
		vars[entity] = cty.ObjectVal(comps)
	}
	logger.Debug("Finished building driver evaluation context.", "entity", b.Entity(), "vars_count", len(vars))
	return &hcl.EvalContext{Variables: vars, Functions: b.Registry().Functions()}, nil
}
