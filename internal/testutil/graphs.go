package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/nodeid"
)

// GraphBuilder assembles small graphs by operation address.
type GraphBuilder struct {
	tb testing.TB
	G  *graph.Graph
}

// NewGraph returns a builder over an empty graph.
func NewGraph(tb testing.TB) *GraphBuilder {
	return &GraphBuilder{tb: tb, G: graph.New()}
}

// Op adds the operation named by a full `id.component.opcode` address,
// creating its ID and component as needed.
func (b *GraphBuilder) Op(addr string, cb node.Callback) *node.OperationNode {
	b.tb.Helper()
	a, err := nodeid.Parse(addr)
	require.NoError(b.tb, err)
	require.True(b.tb, a.IsOperation(), "%q is not an operation address", addr)

	id, err := b.G.CreateIDNode(a.ID, node.TypeGeneric)
	require.NoError(b.tb, err)
	c := id.GetOrCreateComponent(node.ComponentKind(a.Component))
	op, err := b.G.AddOperation(c, node.Opcode(a.Opcode), cb)
	require.NoError(b.tb, err)
	return op
}

// Get looks up an existing operation.
func (b *GraphBuilder) Get(addr string) *node.OperationNode {
	b.tb.Helper()
	op, err := b.G.Lookup(nodeid.MustParse(addr))
	require.NoError(b.tb, err)
	return op
}

// Rel adds a relation between two existing operations.
func (b *GraphBuilder) Rel(from, to string) *node.Relation {
	b.tb.Helper()
	r, err := b.G.AddRelation(b.Get(from), b.Get(to), "test", 0)
	require.NoError(b.tb, err)
	return r
}

// MarkAllDirty sets every operation of g to dirty.
func MarkAllDirty(g *graph.Graph) {
	for _, op := range g.Operations() {
		op.SetStatus(node.StatusDirty)
	}
}

// OpAddress returns the address RandomDAG gives operation i.
func OpAddress(i int) string {
	return fmt.Sprintf("n%d.parameters.op", i)
}

// RandomDAG builds n operations with relations i -> j (i < j) drawn with the
// given probability, inserted in a shuffled order. cb supplies the callback
// for each address.
func RandomDAG(tb testing.TB, seed int64, n int, density float64, cb func(addr string) node.Callback) *GraphBuilder {
	tb.Helper()
	rng := rand.New(rand.NewSource(seed))
	b := NewGraph(tb)
	for i := 0; i < n; i++ {
		addr := OpAddress(i)
		var fn node.Callback
		if cb != nil {
			fn = cb(addr)
		}
		b.Op(addr, fn)
	}

	type pair struct{ from, to int }
	var pairs []pair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < density {
				pairs = append(pairs, pair{i, j})
			}
		}
	}
	rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	for _, p := range pairs {
		b.Rel(OpAddress(p.from), OpAddress(p.to))
	}
	return b
}
