package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
	"github.com/vk/depsgraph/internal/testutil"
)

// dirtySet returns the addresses of all dirty operations.
func dirtySet(g *graph.Graph) map[string]bool {
	out := make(map[string]bool)
	for _, op := range g.Operations() {
		if op.IsDirty() {
			out[op.Address().String()] = true
		}
	}
	return out
}

// parentChain builds P.transform -> C.transform plus an unrelated U.
func parentChain(t *testing.T) *testutil.GraphBuilder {
	t.Helper()
	b := testutil.NewGraph(t)
	b.Op("P.transform.transform_local", nil)
	b.Op("P.transform.transform_world", nil)
	b.Op("C.transform.transform_local", nil)
	b.Op("C.transform.transform_world", nil)
	b.Op("U.transform.transform_world", nil)
	b.Rel("P.transform.transform_local", "P.transform.transform_world")
	b.Rel("P.transform.transform_world", "C.transform.transform_local")
	b.Rel("C.transform.transform_local", "C.transform.transform_world")
	return b
}

func TestTagUpdate_Propagates(t *testing.T) {
	b := parentChain(t)
	for _, id := range b.G.IDs() {
		id.SetFullyEvaluated(true)
	}

	require.NoError(t, TagUpdate(b.G, "P", node.KindTransform))

	assert.Equal(t, map[string]bool{
		"P.transform.transform_local": true,
		"P.transform.transform_world": true,
		"C.transform.transform_local": true,
		"C.transform.transform_world": true,
	}, dirtySet(b.G))

	p, _ := b.G.ID("P")
	c, _ := b.G.ID("C")
	u, _ := b.G.ID("U")
	assert.False(t, p.IsFullyEvaluated())
	assert.False(t, c.IsFullyEvaluated())
	assert.True(t, u.IsFullyEvaluated())
}

func TestTagUpdate_DownstreamOnly(t *testing.T) {
	b := parentChain(t)

	require.NoError(t, TagUpdate(b.G, "C", node.KindTransform))

	assert.Equal(t, map[string]bool{
		"C.transform.transform_local": true,
		"C.transform.transform_world": true,
	}, dirtySet(b.G))
}

func TestTagUpdate_Idempotent(t *testing.T) {
	once := parentChain(t)
	twice := parentChain(t)

	require.NoError(t, TagUpdate(once.G, "P", node.KindTransform))
	require.NoError(t, TagUpdate(twice.G, "P", node.KindTransform))
	require.NoError(t, TagUpdate(twice.G, "P", node.KindTransform))

	assert.Equal(t, dirtySet(once.G), dirtySet(twice.G))
}

func TestTagUpdate_UnionOfTags(t *testing.T) {
	b := parentChain(t)

	require.NoError(t, TagUpdate(b.G, "C", node.KindTransform))
	require.NoError(t, TagUpdate(b.G, "U", node.KindTransform))

	assert.Len(t, dirtySet(b.G), 3)
}

func TestTagUpdate_LeavesPendingAlone(t *testing.T) {
	b := parentChain(t)
	op := b.Get("C.transform.transform_world")
	op.SetPending(7)

	require.NoError(t, TagUpdate(b.G, "P", node.KindTransform))
	assert.Equal(t, int32(7), op.Pending())
}

func TestTagUpdate_KeepsFailedStatus(t *testing.T) {
	b := parentChain(t)
	failed := b.Get("P.transform.transform_world")
	failed.SetStatus(node.StatusFailed)

	require.NoError(t, TagUpdate(b.G, "P", node.KindTransform))
	assert.Equal(t, node.StatusFailed, failed.Status())
	assert.True(t, b.Get("C.transform.transform_world").IsDirty())
}

func TestTagUpdate_UnknownTargets(t *testing.T) {
	b := parentChain(t)

	err := TagUpdate(b.G, "Nope", node.KindTransform)
	assert.ErrorIs(t, err, graph.ErrUnknownID)

	err = TagUpdate(b.G, "P", node.KindGeometry)
	assert.ErrorIs(t, err, graph.ErrUnknownComponent)

	assert.Empty(t, dirtySet(b.G))
}

func TestTagOperation(t *testing.T) {
	b := parentChain(t)

	require.NoError(t, TagOperation(b.G, nodeid.MustParse("C.transform.transform_world")))
	assert.Equal(t, map[string]bool{"C.transform.transform_world": true}, dirtySet(b.G))

	err := TagOperation(b.G, nodeid.MustParse("C.transform.transform_parent"))
	assert.ErrorIs(t, err, graph.ErrUnknownOperation)
}

func TestTagIDAndAll(t *testing.T) {
	b := parentChain(t)

	require.NoError(t, TagID(b.G, "U"))
	assert.Equal(t, map[string]bool{"U.transform.transform_world": true}, dirtySet(b.G))
	assert.ErrorIs(t, TagID(b.G, "Nope"), graph.ErrUnknownID)

	TagAll(b.G)
	assert.Len(t, dirtySet(b.G), b.G.OperationCount())
}
