// internal/nodeid/address_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        Address
		expectedStr string
	}{
		{
			name:        "id only",
			addr:        ForID("Cube"),
			expectedStr: "Cube",
		},
		{
			name:        "component",
			addr:        ForComponent("Cube", "transform"),
			expectedStr: "Cube.transform",
		},
		{
			name:        "operation with colon opcode",
			addr:        ForOperation("Cube", "geometry", "modifier:subsurf"),
			expectedStr: "Cube.geometry.modifier:subsurf",
		},
		{
			name:        "zero address",
			addr:        Address{},
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testIDs := []string{
		"Cube",
		"Cube.transform",
		"Arm.parameters.driver:location_x",
		"Steel-2.shading.material_update",
	}

	for _, id := range testIDs {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)
			assert.Equal(t, id, addr.String())

			again, err := Parse(addr.String())
			require.NoError(t, err)
			assert.True(t, addr.Equal(again))
		})
	}
}

func TestAddress_Granularity(t *testing.T) {
	op := MustParse("A.transform.transform_world")
	assert.True(t, op.IsOperation())
	assert.False(t, op.IsComponent())
	assert.Equal(t, ForComponent("A", "transform"), op.ComponentAddress())

	comp := MustParse("A.transform")
	assert.True(t, comp.IsComponent())
	assert.False(t, comp.IsOperation())

	id := MustParse("A")
	assert.False(t, id.IsComponent())
	assert.False(t, id.IsOperation())
}

func TestAddress_Less(t *testing.T) {
	assert.True(t, MustParse("A.geometry").Less(MustParse("A.transform")))
	assert.True(t, MustParse("A.transform.a").Less(MustParse("A.transform.b")))
	assert.True(t, MustParse("A.z").Less(MustParse("B.a")))
	assert.False(t, MustParse("A").Less(MustParse("A")))
}
