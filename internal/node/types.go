package node

import "fmt"

// Handle addresses an operation inside the graph arena.
type Handle int32

// InvalidHandle marks the absence of an operation.
const InvalidHandle Handle = -1

// RelationHandle addresses a relation inside the graph arena.
type RelationHandle int32

// IDType classifies the entity an ID node stands for.
type IDType string

const (
	TypeObject   IDType = "object"
	TypeMaterial IDType = "material"
	TypeNodeTree IDType = "node_tree"
	TypeGeneric  IDType = "generic"
)

// ComponentKind names one aspect of an ID's behavior.
type ComponentKind string

const (
	KindParameters ComponentKind = "parameters"
	KindAnimation  ComponentKind = "animation"
	KindTransform  ComponentKind = "transform"
	KindGeometry   ComponentKind = "geometry"
	KindShading    ComponentKind = "shading"
)

// Opcode identifies the computation an operation performs. Opcodes are
// unique within a component.
type Opcode string

const (
	OpAnimationEval        Opcode = "animation_eval"
	OpTransformLocal       Opcode = "transform_local"
	OpTransformParent      Opcode = "transform_parent"
	OpTransformConstraints Opcode = "transform_constraints"
	OpTransformWorld       Opcode = "transform_world"
	OpGeometryInit         Opcode = "geometry_init"
	OpGeometryEval         Opcode = "geometry_eval"
	OpShadingUpdate        Opcode = "shading_update"
	OpMaterialUpdate       Opcode = "material_update"
	OpNodeTreeUpdate       Opcode = "node_tree_update"
)

// ModifierOpcode returns the opcode of the modifier operation for the
// modifier with the given name.
func ModifierOpcode(name string) Opcode {
	return Opcode("modifier:" + name)
}

// DriverOpcode returns the opcode of the driver operation that drives the
// given property.
func DriverOpcode(property string) Opcode {
	return Opcode("driver:" + property)
}

// Status is the evaluation state of an operation, managed atomically.
type Status int32

const (
	// StatusClean means the operation's output is up to date.
	StatusClean Status = iota
	// StatusDirty means the operation needs to run in the next pass.
	StatusDirty
	// StatusRunning means a worker is executing the operation.
	StatusRunning
	// StatusFailed means the operation's callback failed in the last pass.
	// A failed operation is still dirty.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusDirty:
		return "dirty"
	case StatusRunning:
		return "running"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}
