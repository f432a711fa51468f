// internal/nodeid/address.go
package nodeid

import "strings"

// String serializes the Address into its canonical dotted form, e.g.
// `Cube.transform.transform_world`.
func (a Address) String() string {
	var sb strings.Builder
	sb.WriteString(a.ID)
	if a.Component != "" {
		sb.WriteRune('.')
		sb.WriteString(a.Component)
	}
	if a.Opcode != "" {
		sb.WriteRune('.')
		sb.WriteString(a.Opcode)
	}
	return sb.String()
}

// Equal reports whether both addresses name the same location.
func (a Address) Equal(other Address) bool {
	return a == other
}

// Less orders addresses lexicographically by ID, component and opcode.
func (a Address) Less(other Address) bool {
	if a.ID != other.ID {
		return a.ID < other.ID
	}
	if a.Component != other.Component {
		return a.Component < other.Component
	}
	return a.Opcode < other.Opcode
}
