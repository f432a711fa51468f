// internal/nodeid/types.go
package nodeid

// Address is the structured representation of a graph location. An address
// names an ID node, optionally narrowed to one of its components and then to
// one operation inside that component.
type Address struct {
	ID        string
	Component string // empty when the address names the whole ID.
	Opcode    string // empty when the address names a whole component.
}

// ForID returns an address naming an ID node.
func ForID(id string) Address {
	return Address{ID: id}
}

// ForComponent returns an address naming one component of an ID.
func ForComponent(id, component string) Address {
	return Address{ID: id, Component: component}
}

// ForOperation returns an address naming a single operation.
func ForOperation(id, component, opcode string) Address {
	return Address{ID: id, Component: component, Opcode: opcode}
}

// IsComponent is true if the address stops at component granularity.
func (a Address) IsComponent() bool {
	return a.Component != "" && a.Opcode == ""
}

// IsOperation is true if the address names a single operation.
func (a Address) IsOperation() bool {
	return a.Opcode != ""
}

// ComponentAddress drops the opcode, returning the enclosing component.
func (a Address) ComponentAddress() Address {
	return Address{ID: a.ID, Component: a.Component}
}
