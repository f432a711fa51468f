/*
Package builder turns a scene description into a dependency graph.

Construction is one-shot and non-incremental; a structural scene change
means a new Build. It runs in passes:

 1. Node Creation: every object, material and node tree becomes an ID node.
    Each entity gets the components and operations its data calls for, and
    every operation is bound to a callback from the registry.

 2. Relation Linking: the domain rules (transform chain, parenting,
    constraints, the modifier stack, drivers, shading and explicit
    `relation` blocks) are applied. Component-granularity references
    resolve to the component's exit operation on the producer side and its
    entry operation on the consumer side.

 3. Tagging: every operation starts dirty, since nothing has been
    evaluated yet.

Any reference to an unknown entity, component or operation fails the build
with an *UnresolvedRelationError and the partial graph is discarded. The
caller is expected to run the validator on the returned graph before
evaluating it; relations that may close a cycle (drivers and explicit
relations) carry node.FlagMayCauseCycle so the cycle breaker can report
them.
*/
package builder
