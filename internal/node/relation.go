package node

// RelationFlag carries per-relation annotations.
type RelationFlag uint8

const (
	// FlagMayCauseCycle marks relations whose rule can close a loop, such as
	// drivers and user-declared relations.
	FlagMayCauseCycle RelationFlag = 1 << iota
	// FlagCyclic marks relations removed by the cycle breaker.
	FlagCyclic
)

// Has reports whether all bits of f are set.
func (r RelationFlag) Has(f RelationFlag) bool {
	return r&f == f
}

// Relation is a directed edge meaning "From must complete before To may run".
type Relation struct {
	Handle RelationHandle
	From   Handle
	To     Handle
	// Label names the rule that created the relation.
	Label string
	// Seq is the insertion counter used for deterministic cycle breaking.
	Seq   uint64
	Flags RelationFlag
}

// Active reports whether the relation still constrains scheduling.
func (r *Relation) Active() bool {
	return !r.Flags.Has(FlagCyclic)
}
