package hcl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/vk/depsgraph/internal/testutil"
)

func TestObjectParsing(t *testing.T) {
	testutil.RunObjectParsingTests(t, []testutil.ObjectTestCase{
		{
			Name: "empty object has no geometry",
			HCL:  ``,
			Validate: func(t *testing.T, o *scene.Object) {
				assert.False(t, o.HasGeometry())
				assert.Empty(t, o.Parent)
				assert.Nil(t, o.Animation)
			},
		},
		{
			Name: "location and vertices",
			HCL: `
				location = [1, 2, 3]
				vertices = 8
			`,
			Validate: func(t *testing.T, o *scene.Object) {
				assert.Equal(t, []float64{1, 2, 3}, o.Location)
				assert.Equal(t, 8, o.Vertices)
				assert.True(t, o.HasGeometry())
			},
		},
		{
			Name: "constraint influence defaults to one",
			HCL: `
				constraint "follow" {
				  type   = "copy_location"
				  target = "Other"
				}
			`,
			Extra: `object "Other" {}`,
			Validate: func(t *testing.T, o *scene.Object) {
				require.Len(t, o.Constraints, 1)
				assert.Equal(t, 1.0, o.Constraints[0].Influence)
				assert.Equal(t, "Other", o.Constraints[0].Target)
			},
		},
		{
			Name: "modifier parameters are collected",
			HCL: `
				modifier "smooth" {
				  type   = "subsurf"
				  levels = 3
				}
			`,
			Validate: func(t *testing.T, o *scene.Object) {
				require.Len(t, o.Modifiers, 1)
				m := o.Modifiers[0]
				assert.Equal(t, "smooth", m.Name)
				assert.Equal(t, "subsurf", m.Type)
				require.Contains(t, m.Params, "levels")
				assert.True(t, o.HasGeometry())
			},
		},
		{
			Name: "driver keeps its expression",
			HCL: `
				driver "transform.location" {
				  expr = [1, 2, 3]
				}
			`,
			Validate: func(t *testing.T, o *scene.Object) {
				require.Len(t, o.Drivers, 1)
				assert.Equal(t, "transform.location", o.Drivers[0].Property)
				assert.NotNil(t, o.Drivers[0].Expr)
			},
		},
		{
			Name: "influence out of range",
			HCL: `
				constraint "follow" {
				  type      = "copy_location"
				  target    = "Other"
				  influence = 2
				}
			`,
			ExpectErr:   true,
			ErrContains: "influence",
		},
		{
			Name: "non-constant modifier parameter",
			HCL: `
				modifier "smooth" {
				  type   = "subsurf"
				  levels = Other.geometry.vertices
				}
			`,
			ExpectErr:   true,
			ErrContains: "must be a constant",
		},
		{
			Name:        "unknown attribute",
			HCL:         `colour = "red"`,
			ExpectErr:   true,
			ErrContains: "colour",
		},
	})
}
