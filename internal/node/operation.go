package node

import (
	"context"
	"sync/atomic"

	"github.com/vk/depsgraph/internal/nodeid"
)

// Callback is the computation an operation performs. It is invoked by the
// executor once per pass in which the operation is dirty and ready.
// Callbacks must not tag, rebuild or evaluate the graph they run in.
type Callback func(ctx context.Context, op *OperationNode) error

// OperationNode is the smallest schedulable unit of work.
type OperationNode struct {
	handle    Handle
	component *ComponentNode
	opcode    Opcode
	callback  Callback

	inbound  []RelationHandle
	outbound []RelationHandle

	// pending is the number of dirty predecessors that have not completed in
	// the current pass. It is computed fresh at the start of every pass.
	pending atomic.Int32
	status  atomic.Int32
}

// NewOperationNode creates an operation bound to a component. It does not
// attach the operation; see ComponentNode.Attach.
func NewOperationNode(h Handle, c *ComponentNode, opcode Opcode, cb Callback) *OperationNode {
	return &OperationNode{
		handle:    h,
		component: c,
		opcode:    opcode,
		callback:  cb,
	}
}

// Handle returns the operation's arena handle.
func (o *OperationNode) Handle() Handle {
	return o.handle
}

// Opcode returns the operation's opcode.
func (o *OperationNode) Opcode() Opcode {
	return o.opcode
}

// Component returns the component owning the operation.
func (o *OperationNode) Component() *ComponentNode {
	return o.component
}

// Owner returns the ID node owning the operation.
func (o *OperationNode) Owner() *IDNode {
	return o.component.owner
}

// Address returns the operation's full address.
func (o *OperationNode) Address() nodeid.Address {
	return nodeid.ForOperation(o.component.owner.key, string(o.component.kind), string(o.opcode))
}

// Run invokes the callback. Operations without a callback succeed.
func (o *OperationNode) Run(ctx context.Context) error {
	if o.callback == nil {
		return nil
	}
	return o.callback(ctx, o)
}

// Inbound returns the handles of relations ending at this operation. The
// returned slice must not be modified.
func (o *OperationNode) Inbound() []RelationHandle {
	return o.inbound
}

// Outbound returns the handles of relations starting at this operation. The
// returned slice must not be modified.
func (o *OperationNode) Outbound() []RelationHandle {
	return o.outbound
}

// LinkInbound records an incoming relation.
func (o *OperationNode) LinkInbound(r RelationHandle) {
	o.inbound = append(o.inbound, r)
}

// LinkOutbound records an outgoing relation.
func (o *OperationNode) LinkOutbound(r RelationHandle) {
	o.outbound = append(o.outbound, r)
}

// UnlinkInbound forgets an incoming relation.
func (o *OperationNode) UnlinkInbound(r RelationHandle) {
	o.inbound = removeHandle(o.inbound, r)
}

// UnlinkOutbound forgets an outgoing relation.
func (o *OperationNode) UnlinkOutbound(r RelationHandle) {
	o.outbound = removeHandle(o.outbound, r)
}

func removeHandle(list []RelationHandle, r RelationHandle) []RelationHandle {
	for i, h := range list {
		if h == r {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Pending atomically returns the number of unmet dependencies.
func (o *OperationNode) Pending() int32 {
	return o.pending.Load()
}

// SetPending stores the number of unmet dependencies.
func (o *OperationNode) SetPending(n int32) {
	o.pending.Store(n)
}

// DecrementPending atomically decrements the dependency counter and returns
// the new value.
func (o *OperationNode) DecrementPending() int32 {
	return o.pending.Add(-1)
}

// Status atomically retrieves the operation's state.
func (o *OperationNode) Status() Status {
	return Status(o.status.Load())
}

// SetStatus atomically sets the operation's state.
func (o *OperationNode) SetStatus(s Status) {
	o.status.Store(int32(s))
}

// IsDirty reports whether the operation needs to run.
func (o *OperationNode) IsDirty() bool {
	return o.Status() != StatusClean
}

// MarkDirty transitions a clean operation to dirty. It returns false if
// the operation was already dirty, running or failed.
func (o *OperationNode) MarkDirty() bool {
	return o.status.CompareAndSwap(int32(StatusClean), int32(StatusDirty))
}
