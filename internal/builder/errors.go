package builder

import "fmt"

// UnresolvedRelationError reports a rule whose reference names an entity,
// component or operation that is not part of the scene.
type UnresolvedRelationError struct {
	// Rule is the label of the rule being applied, e.g. "parent".
	Rule string
	// Owner is the entity declaring the reference.
	Owner string
	// Ref is the reference as written.
	Ref string
	Err error
}

func (e *UnresolvedRelationError) Error() string {
	return fmt.Sprintf("unresolved %s relation on %q: %q: %v", e.Rule, e.Owner, e.Ref, e.Err)
}

func (e *UnresolvedRelationError) Unwrap() error {
	return e.Err
}
