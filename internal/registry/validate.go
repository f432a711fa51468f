package registry

import (
	"errors"
	"fmt"

	"github.com/vk/depsgraph/internal/expr"
	"github.com/vk/depsgraph/internal/scene"
)

// Validate checks that every modifier, constraint and driver function used
// by s has a registered handler. All problems are reported together.
func (r *Registry) Validate(s *scene.Scene) error {
	var errs []error
	for _, o := range s.Objects {
		for _, m := range o.Modifiers {
			if _, ok := r.modifiers[m.Type]; !ok {
				errs = append(errs, &UnknownHandlerError{Kind: "modifier", Name: m.Type, Entity: o.Name})
			}
		}
		for _, c := range o.Constraints {
			if _, ok := r.constraints[c.Type]; !ok {
				errs = append(errs, &UnknownHandlerError{Kind: "constraint", Name: c.Type, Entity: o.Name})
			}
		}
		for _, d := range o.Drivers {
			if d.Expr == nil {
				errs = append(errs, fmt.Errorf("%s: driver %q has no expression", o.Name, d.Property))
				continue
			}
			for _, fn := range expr.NewContainer(d.Expr).CalledFunctions() {
				if _, ok := r.functions[fn]; !ok {
					errs = append(errs, &UnknownHandlerError{Kind: "function", Name: fn, Entity: o.Name})
				}
			}
		}
	}
	return errors.Join(errs...)
}
