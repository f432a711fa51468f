package node

import (
	"fmt"

	"github.com/vk/depsgraph/internal/nodeid"
)

// DuplicateOperationError is returned when an operation is registered twice
// for the same (component, opcode) pair.
type DuplicateOperationError struct {
	Component nodeid.Address
	Opcode    Opcode
}

func (e *DuplicateOperationError) Error() string {
	return fmt.Sprintf("operation %q already exists in component %s", e.Opcode, e.Component)
}
