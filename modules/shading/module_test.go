package shading

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

type fixture struct {
	t   *testing.T
	g   *graph.Graph
	reg *registry.Registry
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, g: graph.New(), reg: registry.NewWith(&Module{})}
}

func (f *fixture) op(name string, typ node.IDType, opcode node.Opcode, b *registry.Binding) *node.OperationNode {
	f.t.Helper()
	id, err := f.g.CreateIDNode(name, typ)
	require.NoError(f.t, err)
	b.Resolve = testutil.Resolver(f.g)
	cb, err := f.reg.Callback(opcode, b)
	require.NoError(f.t, err)
	op, err := f.g.AddOperation(id.GetOrCreateComponent(node.KindShading), opcode, cb)
	require.NoError(f.t, err)
	return op
}

func (f *fixture) tree(nt *scene.NodeTree) *node.OperationNode {
	return f.op(nt.Name, node.TypeNodeTree, node.OpNodeTreeUpdate, &registry.Binding{NodeTree: nt})
}

func (f *fixture) material(m *scene.Material) *node.OperationNode {
	return f.op(m.Name, node.TypeMaterial, node.OpMaterialUpdate, &registry.Binding{Material: m})
}

func (f *fixture) object(o *scene.Object) *node.OperationNode {
	return f.op(o.Name, node.TypeObject, node.OpShadingUpdate, &registry.Binding{Object: o})
}

func (f *fixture) color(name string) []float64 {
	f.t.Helper()
	c, err := f.g.Component(name, node.KindShading)
	require.NoError(f.t, err)
	v, ok, err := registry.ReadVec(c, registry.ValueColor)
	require.NoError(f.t, err)
	require.True(f.t, ok)
	return v
}

func run(t *testing.T, ops ...*node.OperationNode) {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, op.Run(context.Background()), "running %s", op.Address())
	}
}

func TestShadingChain(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	red := f.tree(&scene.NodeTree{Name: "Red", Params: map[string]cty.Value{"color": registry.Vec([]float64{1, 0, 0})}})
	blue := f.tree(&scene.NodeTree{Name: "Blue", Params: map[string]cty.Value{"color": registry.Vec([]float64{0, 0, 1})}})
	mix := f.tree(&scene.NodeTree{Name: "Mix", Inputs: []string{"Red", "Blue"}})
	mat := f.material(&scene.Material{Name: "Paint", NodeTree: "Mix"})
	obj := f.object(&scene.Object{Name: "Cube", Material: "Paint"})

	run(t, red, blue, mix, mat, obj)

	assert.Equal(t, []float64{0.5, 0, 0.5}, f.color("Mix"))
	assert.Equal(t, []float64{0.5, 0, 0.5}, f.color("Cube"))
	c, err := f.g.Component("Cube", node.KindShading)
	require.NoError(t, err)
	v, ok := c.Get(registry.ValueMaterial)
	require.True(t, ok)
	assert.Equal(t, "Paint", v.AsString())
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	run(t,
		f.tree(&scene.NodeTree{Name: "Plain"}),
		f.material(&scene.Material{Name: "Tinted", Color: []float64{0, 1, 0}}),
		f.material(&scene.Material{Name: "Grey"}),
		f.object(&scene.Object{Name: "Bare"}),
	)

	assert.Equal(t, DefaultNodeTreeColor, f.color("Plain"))
	assert.Equal(t, []float64{0, 1, 0}, f.color("Tinted"))
	assert.Equal(t, DefaultMaterialColor, f.color("Grey"))
	assert.Equal(t, DefaultMaterialColor, f.color("Bare"))
}

func TestUnevaluatedInputFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.tree(&scene.NodeTree{Name: "Late"})
	mat := f.material(&scene.Material{Name: "Paint", NodeTree: "Late"})
	obj := f.object(&scene.Object{Name: "Cube", Material: "Missing"})

	assert.ErrorContains(t, mat.Run(context.Background()), "no evaluated color")
	assert.ErrorContains(t, obj.Run(context.Background()), "no shading")
}
