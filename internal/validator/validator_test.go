package validator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/testutil"
)

func twoNodeCycle(t *testing.T) *testutil.GraphBuilder {
	t.Helper()
	b := testutil.NewGraph(t)
	b.Op("X.transform.transform_world", nil)
	b.Op("Y.transform.transform_world", nil)
	b.Rel("X.transform.transform_world", "Y.transform.transform_world")
	b.Rel("Y.transform.transform_world", "X.transform.transform_world")
	return b
}

func TestValidate_BreaksLaterInsertedRelation(t *testing.T) {
	// Arrange
	b := twoNodeCycle(t)
	require.False(t, IsAcyclic(b.G))

	// Act
	report, err := ValidateAndBreakCycles(b.G, Options{})

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Broken, 1)
	w := report.Broken[0]
	assert.Equal(t, node.RelationHandle(1), w.Relation)
	assert.Equal(t, "Y.transform.transform_world", w.From.String())
	assert.Equal(t, "X.transform.transform_world", w.To.String())
	require.Len(t, w.Cycle, 3)
	assert.Equal(t, w.Cycle[0], w.Cycle[2])
	assert.Contains(t, w.Error(), "removed relation Y.transform.transform_world -> X.transform.transform_world")

	assert.True(t, IsAcyclic(b.G))
	assert.True(t, b.G.Relation(1).Flags.Has(node.FlagCyclic))
	assert.True(t, b.G.Relation(0).Active())
}

func TestValidate_Deterministic(t *testing.T) {
	build := func() *testutil.GraphBuilder {
		b := testutil.NewGraph(t)
		for i := 0; i < 6; i++ {
			b.Op(testutil.OpAddress(i), nil)
		}
		// Two overlapping rings sharing n0 and n3.
		for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {3, 4}, {4, 5}, {5, 0}, {2, 5}} {
			b.Rel(testutil.OpAddress(e[0]), testutil.OpAddress(e[1]))
		}
		return b
	}

	for _, policy := range []Policy{BreakNewest, BreakClosing} {
		t.Run(string(policy), func(t *testing.T) {
			first, err := ValidateAndBreakCycles(build().G, Options{Policy: policy})
			require.NoError(t, err)
			second, err := ValidateAndBreakCycles(build().G, Options{Policy: policy})
			require.NoError(t, err)

			require.NotEmpty(t, first.Broken)
			require.Equal(t, len(first.Broken), len(second.Broken))
			for i := range first.Broken {
				assert.Equal(t, first.Broken[i].Relation, second.Broken[i].Relation)
			}
		})
	}
}

func TestValidate_AcyclicAfterBreaking(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			b := testutil.RandomDAG(t, seed, 40, 0.1, nil)
			// Add back edges to create cycles.
			for i := 5; i < 40; i += 7 {
				b.Rel(testutil.OpAddress(i-5), testutil.OpAddress(i))
				b.Rel(testutil.OpAddress(i), testutil.OpAddress(i-5))
			}
			require.False(t, IsAcyclic(b.G))

			report, err := ValidateAndBreakCycles(b.G, Options{})
			require.NoError(t, err)
			assert.True(t, report.HasCycles())
			assert.True(t, IsAcyclic(b.G))

			again, err := ValidateAndBreakCycles(b.G, Options{})
			require.NoError(t, err)
			assert.False(t, again.HasCycles())
		})
	}
}

func TestValidate_ClosingPolicy(t *testing.T) {
	b := testutil.NewGraph(t)
	b.Op("A.parameters.op", nil)
	b.Op("B.parameters.op", nil)
	b.Op("C.parameters.op", nil)
	// Newest relation sits in the middle of the traversal path.
	b.Rel("B.parameters.op", "C.parameters.op")
	b.Rel("C.parameters.op", "A.parameters.op")
	b.Rel("A.parameters.op", "B.parameters.op")

	report, err := ValidateAndBreakCycles(b.G, Options{Policy: BreakClosing})
	require.NoError(t, err)
	require.Len(t, report.Broken, 1)
	// Traversal starts at A: A -> B -> C, and C -> A closes the cycle.
	assert.Equal(t, "C.parameters.op", report.Broken[0].From.String())
	assert.Equal(t, "A.parameters.op", report.Broken[0].To.String())
}

func TestValidate_SelfRelation(t *testing.T) {
	b := testutil.NewGraph(t)
	b.Op("A.parameters.op", nil)
	b.Op("A.parameters.next", nil)
	b.Rel("A.parameters.op", "A.parameters.next")
	b.Rel("A.parameters.op", "A.parameters.op")

	report, err := ValidateAndBreakCycles(b.G, Options{})
	require.NoError(t, err)
	require.Len(t, report.Broken, 1)
	assert.Equal(t, report.Broken[0].From, report.Broken[0].To)
	assert.Len(t, report.Broken[0].Cycle, 2)
}

func TestValidate_DeepChainDoesNotRecurse(t *testing.T) {
	const n = 20000
	b := testutil.NewGraph(t)
	for i := 0; i < n; i++ {
		b.Op(testutil.OpAddress(i), nil)
	}
	for i := 1; i < n; i++ {
		b.Rel(testutil.OpAddress(i-1), testutil.OpAddress(i))
	}
	b.Rel(testutil.OpAddress(n-1), testutil.OpAddress(0))

	report, err := ValidateAndBreakCycles(b.G, Options{})
	require.NoError(t, err)
	require.Len(t, report.Broken, 1)
	assert.Len(t, report.Broken[0].Cycle, n+1)
	assert.True(t, IsAcyclic(b.G))
}

func TestValidate_IsolatedOperationWarning(t *testing.T) {
	b := testutil.NewGraph(t)
	b.Op("A.parameters.op", nil)
	b.Op("B.parameters.op", nil)
	b.Op("C.shading.shading_update", nil)
	b.Rel("A.parameters.op", "B.parameters.op")

	report, err := ValidateAndBreakCycles(b.G, Options{})
	require.NoError(t, err)
	assert.False(t, report.HasCycles())
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "C.shading.shading_update", report.Warnings[0].Operation.String())
}

func TestParsePolicy(t *testing.T) {
	testCases := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: BreakNewest},
		{in: "newest", want: BreakNewest},
		{in: "closing", want: BreakClosing},
		{in: "oldest", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePolicy(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
