package registry

import "fmt"

// UnknownHandlerError reports a scene element no registered handler can
// evaluate.
type UnknownHandlerError struct {
	// Kind is "operation", "modifier", "constraint" or "function".
	Kind   string
	Name   string
	Entity string
}

func (e *UnknownHandlerError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("no %s handler registered for %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s: no %s handler registered for %q", e.Entity, e.Kind, e.Name)
}
