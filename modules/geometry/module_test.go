package geometry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/graph"
	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/vk/depsgraph/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

// stack creates the geometry operations of o in stack order and returns
// them ready to run.
func stack(t *testing.T, g *graph.Graph, o *scene.Object) []*node.OperationNode {
	t.Helper()
	reg := registry.NewWith(&Module{})
	id, err := g.CreateIDNode(o.Name, node.TypeObject)
	require.NoError(t, err)
	c := id.GetOrCreateComponent(node.KindGeometry)

	add := func(opcode node.Opcode, b *registry.Binding) *node.OperationNode {
		b.Object = o
		b.Resolve = testutil.Resolver(g)
		cb, err := reg.Callback(opcode, b)
		require.NoError(t, err)
		op, err := g.AddOperation(c, opcode, cb)
		require.NoError(t, err)
		return op
	}
	ops := []*node.OperationNode{add(node.OpGeometryInit, &registry.Binding{})}
	for _, m := range o.Modifiers {
		ops = append(ops, add(node.ModifierOpcode(m.Name), &registry.Binding{Modifier: m}))
	}
	return append(ops, add(node.OpGeometryEval, &registry.Binding{}))
}

func run(t *testing.T, ops []*node.OperationNode) {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, op.Run(context.Background()), "running %s", op.Address())
	}
}

func final(t *testing.T, g *graph.Graph, name string) int {
	t.Helper()
	c, err := g.Component(name, node.KindGeometry)
	require.NoError(t, err)
	v, ok, err := registry.ReadInt(c, registry.ValueFinalVertices)
	require.NoError(t, err)
	require.True(t, ok)
	return v
}

func TestModifierStack(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		vertices  int
		modifiers []*scene.Modifier
		want      int
	}{
		{name: "no modifiers", vertices: 8, want: 8},
		{name: "subsurf default level", vertices: 8, modifiers: []*scene.Modifier{{Name: "s", Type: "subsurf"}}, want: 32},
		{
			name:     "subsurf two levels",
			vertices: 8,
			modifiers: []*scene.Modifier{
				{Name: "s", Type: "subsurf", Params: map[string]cty.Value{"levels": cty.NumberIntVal(2)}},
			},
			want: 128,
		},
		{name: "array default count", vertices: 8, modifiers: []*scene.Modifier{{Name: "a", Type: "array"}}, want: 16},
		{
			name:     "decimate then array",
			vertices: 10,
			modifiers: []*scene.Modifier{
				{Name: "d", Type: "decimate", Params: map[string]cty.Value{"ratio": cty.NumberFloatVal(0.3)}},
				{Name: "a", Type: "array", Params: map[string]cty.Value{"count": cty.NumberIntVal(3)}},
			},
			want: 9,
		},
		{name: "decimate keeps one vertex", vertices: 1, modifiers: []*scene.Modifier{{Name: "d", Type: "decimate"}}, want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := graph.New()
			run(t, stack(t, g, &scene.Object{Name: "Mesh", Vertices: tc.vertices, Modifiers: tc.modifiers}))
			assert.Equal(t, tc.want, final(t, g, "Mesh"))
		})
	}
}

func TestModifierStack_ReRunStageIsStable(t *testing.T) {
	t.Parallel()
	g := graph.New()
	ops := stack(t, g, &scene.Object{
		Name:      "Mesh",
		Vertices:  8,
		Modifiers: []*scene.Modifier{{Name: "s", Type: "subsurf"}},
	})
	run(t, ops)

	// Act: re-evaluate only the modifier and the final stage.
	run(t, ops[1:])

	assert.Equal(t, 32, final(t, g, "Mesh"))
}

func TestModifierStack_DrivenParameter(t *testing.T) {
	t.Parallel()
	g := graph.New()
	ops := stack(t, g, &scene.Object{
		Name:      "Mesh",
		Vertices:  2,
		Modifiers: []*scene.Modifier{{Name: "rep", Type: "array"}},
	})
	id, _ := g.ID("Mesh")
	id.GetOrCreateComponent(node.KindParameters).Set("rep.count", cty.NumberIntVal(5))

	run(t, ops)

	assert.Equal(t, 10, final(t, g, "Mesh"))
}

func TestBooleanAndArrayObjectInput(t *testing.T) {
	t.Parallel()
	g := graph.New()
	cutter := stack(t, g, &scene.Object{Name: "Cutter", Vertices: 6})
	offset, err := g.CreateIDNode("Offset", node.TypeObject)
	require.NoError(t, err)
	offset.GetOrCreateComponent(node.KindTransform).Set(registry.ValueWorld, registry.Vec([]float64{1, 0, 0}))

	ops := stack(t, g, &scene.Object{
		Name:     "Mesh",
		Vertices: 8,
		Modifiers: []*scene.Modifier{
			{Name: "cut", Type: "boolean", Object: "Cutter"},
			{Name: "rep", Type: "array", Object: "Offset", Params: map[string]cty.Value{"count": cty.NumberIntVal(3)}},
		},
	})

	// The boolean needs the cutter's final mesh.
	require.NoError(t, ops[0].Run(context.Background()))
	require.Error(t, ops[1].Run(context.Background()))
	run(t, cutter)
	run(t, ops)

	assert.Equal(t, 42, final(t, g, "Mesh"))
	c, err := g.Component("Mesh", node.KindGeometry)
	require.NoError(t, err)
	v, ok, err := registry.ReadVec(c, "rep."+registry.ValueArrayOffset)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 0, 0}, v)
}

func TestModifierErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		modifier *scene.Modifier
	}{
		{name: "subsurf level too high", modifier: &scene.Modifier{Name: "m", Type: "subsurf", Params: map[string]cty.Value{"levels": cty.NumberIntVal(7)}}},
		{name: "array zero count", modifier: &scene.Modifier{Name: "m", Type: "array", Params: map[string]cty.Value{"count": cty.NumberIntVal(0)}}},
		{name: "decimate zero ratio", modifier: &scene.Modifier{Name: "m", Type: "decimate", Params: map[string]cty.Value{"ratio": cty.NumberIntVal(0)}}},
		{name: "boolean without object", modifier: &scene.Modifier{Name: "m", Type: "boolean"}},
		{name: "boolean with unknown object", modifier: &scene.Modifier{Name: "m", Type: "boolean", Object: "Ghost"}},
		{name: "parameter of wrong type", modifier: &scene.Modifier{Name: "m", Type: "array", Params: map[string]cty.Value{"count": cty.StringVal("many")}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := graph.New()
			ops := stack(t, g, &scene.Object{Name: "Mesh", Vertices: 4, Modifiers: []*scene.Modifier{tc.modifier}})
			require.NoError(t, ops[0].Run(context.Background()))
			assert.Error(t, ops[1].Run(context.Background()))
		})
	}
}
