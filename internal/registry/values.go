package registry

import (
	"fmt"

	"github.com/vk/depsgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// VecType is the cty type of locations and colors.
var VecType = cty.List(cty.Number)

// Vec converts xs to a list value. A nil slice becomes the origin.
func Vec(xs []float64) cty.Value {
	if len(xs) == 0 {
		xs = []float64{0, 0, 0}
	}
	v, err := gocty.ToCtyValue(xs, VecType)
	if err != nil {
		// A []float64 always converts to a list of numbers.
		panic(err)
	}
	return v
}

// AsVec converts a list or tuple of numbers to a slice.
func AsVec(v cty.Value) ([]float64, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("vector value is null or unknown")
	}
	if v.Type().IsTupleType() {
		conv, err := convertTuple(v)
		if err != nil {
			return nil, err
		}
		v = conv
	}
	var out []float64
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	return out, nil
}

func convertTuple(v cty.Value) (cty.Value, error) {
	elems := v.AsValueSlice()
	for _, e := range elems {
		if e.Type() != cty.Number {
			return cty.NilVal, fmt.Errorf("vector element has type %s, want number", e.Type().FriendlyName())
		}
	}
	if len(elems) == 0 {
		return cty.ListValEmpty(cty.Number), nil
	}
	return cty.ListVal(elems), nil
}

// ReadVec reads a vector value from a component. The boolean is false when
// the component has no value under name.
func ReadVec(c *node.ComponentNode, name string) ([]float64, bool, error) {
	v, ok := c.Get(name)
	if !ok {
		return nil, false, nil
	}
	out, err := AsVec(v)
	if err != nil {
		return nil, true, fmt.Errorf("%s.%s: %w", c.Address(), name, err)
	}
	return out, true, nil
}

// AddVec adds two vectors element-wise; the shorter is padded with zeros.
func AddVec(a, b []float64) []float64 {
	n := max(len(a), len(b))
	out := make([]float64, n)
	for i := range out {
		if i < len(a) {
			out[i] += a[i]
		}
		if i < len(b) {
			out[i] += b[i]
		}
	}
	return out
}

// Lerp blends a towards b by t.
func Lerp(a, b []float64, t float64) []float64 {
	n := max(len(a), len(b))
	out := make([]float64, n)
	for i := range out {
		var x, y float64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = x + (y-x)*t
	}
	return out
}

// ParamInt reads an integer parameter, returning def when it is absent.
func ParamInt(params map[string]cty.Value, name string, def int) (int, error) {
	v, ok := params[name]
	if !ok || v.IsNull() {
		return def, nil
	}
	var out int
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return 0, fmt.Errorf("parameter %q: %w", name, err)
	}
	return out, nil
}

// ParamFloat reads a number parameter, returning def when it is absent.
func ParamFloat(params map[string]cty.Value, name string, def float64) (float64, error) {
	v, ok := params[name]
	if !ok || v.IsNull() {
		return def, nil
	}
	var out float64
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return 0, fmt.Errorf("parameter %q: %w", name, err)
	}
	return out, nil
}

// Override returns the value a driver wrote for name on the bound entity's
// parameters component.
func (b *Binding) Override(name string) (cty.Value, bool) {
	c, ok := b.Component(b.Entity(), node.KindParameters)
	if !ok {
		return cty.NilVal, false
	}
	return c.Get(name)
}

// Params merges a modifier's static parameters with driver overrides named
// `<modifier>.<param>`.
func (b *Binding) Params() map[string]cty.Value {
	out := make(map[string]cty.Value)
	if b.Modifier == nil {
		return out
	}
	for k, v := range b.Modifier.Params {
		out[k] = v
	}
	c, ok := b.Component(b.Entity(), node.KindParameters)
	if !ok {
		return out
	}
	prefix := b.Modifier.Name + "."
	for _, name := range c.ValueNames() {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			v, _ := c.Get(name)
			out[name[len(prefix):]] = v
		}
	}
	return out
}

// Names of the values built-in handlers write into components.
const (
	ValueOffset        = "offset"
	ValueLocal         = "local"
	ValueParented      = "parented"
	ValueConstrained   = "constrained"
	ValueWorld         = "world"
	ValueVertices      = "vertices"
	ValueFinalVertices = "final_vertices"
	ValueArrayOffset   = "array_offset"
	ValueColor         = "color"
	ValueMaterial      = "material"
)

// ReadInt reads an integer value from a component. The boolean is false
// when the component has no value under name.
func ReadInt(c *node.ComponentNode, name string) (int, bool, error) {
	v, ok := c.Get(name)
	if !ok {
		return 0, false, nil
	}
	var out int
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return 0, true, fmt.Errorf("%s.%s: %w", c.Address(), name, err)
	}
	return out, true, nil
}
