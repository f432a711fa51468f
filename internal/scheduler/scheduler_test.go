package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/testutil"
)

func diamond(t *testing.T) *testutil.GraphBuilder {
	t.Helper()
	b := testutil.NewGraph(t)
	b.Op("A.parameters.op", nil)
	b.Op("B.parameters.op", nil)
	b.Op("C.parameters.op", nil)
	b.Op("D.parameters.op", nil)
	b.Rel("A.parameters.op", "B.parameters.op")
	b.Rel("A.parameters.op", "C.parameters.op")
	b.Rel("B.parameters.op", "D.parameters.op")
	b.Rel("C.parameters.op", "D.parameters.op")
	return b
}

func TestPrepare_AllDirty(t *testing.T) {
	b := diamond(t)
	testutil.MarkAllDirty(b.G)

	plan := Prepare(b.G)

	assert.Equal(t, 4, plan.Dirty)
	assert.Equal(t, []node.Handle{0}, plan.Ready)
	assert.Equal(t, int32(0), b.Get("A.parameters.op").Pending())
	assert.Equal(t, int32(1), b.Get("B.parameters.op").Pending())
	assert.Equal(t, int32(2), b.Get("D.parameters.op").Pending())
}

func TestPrepare_CleanProducersAreNotCounted(t *testing.T) {
	b := diamond(t)
	b.Get("C.parameters.op").SetStatus(node.StatusDirty)
	b.Get("D.parameters.op").SetStatus(node.StatusDirty)

	plan := Prepare(b.G)

	assert.Equal(t, 2, plan.Dirty)
	assert.Equal(t, []node.Handle{2}, plan.Ready)
	assert.Equal(t, int32(1), b.Get("D.parameters.op").Pending())
}

func TestPrepare_FailedOperationsAreRetried(t *testing.T) {
	b := diamond(t)
	b.Get("B.parameters.op").SetStatus(node.StatusFailed)
	b.Get("D.parameters.op").SetStatus(node.StatusDirty)

	plan := Prepare(b.G)

	assert.Equal(t, node.StatusDirty, b.Get("B.parameters.op").Status())
	assert.Equal(t, []node.Handle{1}, plan.Ready)
	assert.Equal(t, 2, plan.Dirty)
}

func TestPrepare_NothingDirty(t *testing.T) {
	b := diamond(t)
	b.Get("D.parameters.op").SetPending(3)

	plan := Prepare(b.G)

	assert.True(t, plan.Empty())
	assert.Empty(t, plan.Ready)
	assert.Equal(t, int32(0), b.Get("D.parameters.op").Pending())
}

func TestPrepare_IgnoresBrokenRelations(t *testing.T) {
	b := diamond(t)
	testutil.MarkAllDirty(b.G)
	assert.NoError(t, b.G.BreakRelation(3)) // C -> D

	plan := Prepare(b.G)

	assert.Equal(t, int32(1), b.Get("D.parameters.op").Pending())
	assert.Equal(t, []node.Handle{0}, plan.Ready)
}
