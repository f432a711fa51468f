package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/expr"
	"github.com/vk/depsgraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

const sceneHCL = `
object "Base" {
  location = [1, 2, 3]
}

object "Cube" {
  parent   = "Base"
  vertices = 8
  material = "Paint"

  animation {
    offset = [0, 0, 1]
  }

  constraint "follow" {
    type   = "copy_location"
    target = "Base"
  }

  constraint "soft" {
    type      = "child_of"
    target    = "Base"
    influence = 0.25
  }

  modifier "smooth" {
    type   = "subsurf"
    levels = 2
  }

  modifier "cut" {
    type   = "boolean"
    object = "Base"
  }

  driver "transform.location" {
    expr = [abs(Base.transform.world[0]), 0, 0]
  }
}

material "Paint" {
  node_tree = "Mix"
}

node_tree "Mix" {
  inputs = ["Noise"]
  color  = [1, 0, 0]
}

node_tree "Noise" {}

relation "sync" {
  from = "Base.transform"
  to   = "Cube.geometry"
}
`

func TestParse(t *testing.T) {
	t.Parallel()

	// Act
	s, err := NewLoader().Parse(context.Background(), "scene.hcl", []byte(sceneHCL))

	// Assert
	require.NoError(t, err)
	require.Len(t, s.Objects, 2)
	assert.Equal(t, []float64{1, 2, 3}, s.Objects[0].Location)

	cube := s.Objects[1]
	assert.Equal(t, "Base", cube.Parent)
	assert.Equal(t, 8, cube.Vertices)
	assert.Equal(t, "Paint", cube.Material)
	require.NotNil(t, cube.Animation)
	assert.Equal(t, []float64{0, 0, 1}, cube.Animation.Offset)

	require.Len(t, cube.Constraints, 2)
	assert.Equal(t, 1.0, cube.Constraints[0].Influence, "influence defaults to 1")
	assert.Equal(t, 0.25, cube.Constraints[1].Influence)

	require.Len(t, cube.Modifiers, 2)
	assert.Equal(t, "subsurf", cube.Modifiers[0].Type)
	assert.True(t, cube.Modifiers[0].Params["levels"].Equals(cty.NumberIntVal(2)).True())
	assert.Equal(t, "Base", cube.Modifiers[1].Object)
	assert.Empty(t, cube.Modifiers[1].Params)

	require.Len(t, cube.Drivers, 1)
	d := cube.Drivers[0]
	assert.Equal(t, "transform.location", d.Property)
	refs := expr.NewContainer(d.Expr).References()
	require.Len(t, refs, 1)
	assert.Equal(t, "Base.transform.world[0]", expr.TraversalKey(refs[0]))

	require.Len(t, s.NodeTrees, 2)
	assert.Equal(t, []string{"Noise"}, s.NodeTrees[0].Inputs)
	assert.Contains(t, s.NodeTrees[0].Params, "color")
	assert.Equal(t, "Mix", s.Materials[0].NodeTree)

	require.Len(t, s.Relations, 1)
	assert.Equal(t, "Base.transform", s.Relations[0].From)
	assert.Equal(t, "Cube.geometry", s.Relations[0].To)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax error", src: `object "A" {`, wantErr: "failed to parse"},
		{name: "unknown block", src: `camera "Main" {}`, wantErr: "failed to decode"},
		{name: "top-level attribute", src: `fps = 24`, wantErr: "Unsupported argument"},
		{
			name: "missing modifier type",
			src: `
object "A" {
  modifier "m" {}
}`,
			wantErr: "failed to decode",
		},
		{
			name: "influence out of range",
			src: `
object "A" {
  constraint "c" {
    type      = "child_of"
    target    = "B"
    influence = 2
  }
}`,
			wantErr: "out of range",
		},
		{
			name: "computed modifier parameter",
			src: `
object "A" {
  modifier "m" {
    type  = "array"
    count = B.parameters.n
  }
}`,
			wantErr: "must be a constant",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().Parse(context.Background(), "bad.hcl", []byte(tc.src))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_MergesFilesFromDirectories(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	nested := filepath.Join(dir, "materials")
	require.NoError(t, os.Mkdir(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "objects.hcl"), []byte(`object "Cube" { material = "Paint" }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "paint.hcl"), []byte(`material "Paint" { color = [1, 1, 0] }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not hcl`), 0o644))

	// Act
	s, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "missing"))

	// Assert
	require.NoError(t, err)
	require.Len(t, s.Objects, 1)
	require.Len(t, s.Materials, 1)
	assert.Equal(t, []float64{1, 1, 0}, s.Materials[0].Color)
}

func TestLoad_NoFiles(t *testing.T) {
	t.Parallel()
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no .hcl files")
}

func TestLoad_EveryBlockKind(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.hcl"), []byte(sceneHCL), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gate.hcl"), []byte(`
relation "gate" {
  from = "Base.transform"
  to   = "Cube.parameters.driver:transform.location"
}
`), 0o644))

	// Act
	s, err := NewLoader().Load(context.Background(), dir)

	// Assert
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Len(t, s.Objects, 2)
	assert.Len(t, s.Materials, 1)
	assert.Len(t, s.NodeTrees, 2)
	require.Len(t, s.Relations, 2)
	assert.Equal(t, 5, s.Entities())

	cube, ok := s.Object("Cube")
	require.True(t, ok)
	assert.NotNil(t, cube.Animation)
	assert.Len(t, cube.Constraints, 2)
	assert.Len(t, cube.Modifiers, 2)
	assert.Len(t, cube.Drivers, 1)

	for _, r := range s.Relations {
		for _, ref := range []string{r.From, r.To} {
			_, err := nodeid.Parse(ref)
			assert.NoError(t, err, "relation %s endpoint %q", r.Name, ref)
		}
	}
}
