package builder

import (
	"github.com/vk/depsgraph/internal/expr"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/scene"
)

// linkDriver makes the driver wait for every component its expression
// references and makes the driven component wait for the driver.
func (b *builder) linkDriver(o *scene.Object, d *scene.Driver) error {
	driver, err := b.op(o.Name, node.KindParameters, node.DriverOpcode(d.Property))
	if err != nil {
		return err
	}
	logger := b.logger.With("id", o.Name, "driver", d.Property)

	for _, traversal := range expr.NewContainer(d.Expr).References() {
		ref, err := expr.ParseReference(traversal)
		if err != nil {
			return &UnresolvedRelationError{Rule: RuleDriver, Owner: o.Name, Ref: expr.TraversalKey(traversal), Err: err}
		}
		logger.Debug("Parsed driver reference.", "ref", ref.String())
		from, err := b.exit(RuleDriver, o.Name, ref.Entity, node.ComponentKind(ref.Component))
		if err != nil {
			return err
		}
		if err := b.relate(from, driver, RuleDriver, node.FlagMayCauseCycle); err != nil {
			return err
		}
	}

	kind, _, err := d.Target()
	if err != nil {
		return err
	}
	to, err := b.entry(RuleDriver, o.Name, o.Name, node.ComponentKind(kind))
	if err != nil {
		return err
	}
	return b.relate(driver, to, RuleDriver, node.FlagMayCauseCycle)
}
