package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrim(t *testing.T) {
	vs := []View{{1}, {2}, {3}}
	assert.Len(t, Trim(vs, 5), 3, "under capacity is returned unchanged")
	assert.Len(t, Trim(vs, 3), 3)

	trimmed := Trim(vs, 2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, View{1}, trimmed[0])
	assert.Equal(t, View{2}, trimmed[1])
}

func TestStackSingleViewAxis0(t *testing.T) {
	pair, err := Stack([]View{{0, 2, 2, 0}}, StackOptions{ViewsAxis: 0, MaxViews: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, pair.Features.Shape().Dimensions)
	assert.Equal(t, []int{1, 4}, pair.Mask.Shape().Dimensions)
	assert.Equal(t, []int32{0, 2, 2, 0}, Int32Data(pair.Features))
	assert.Equal(t, []int32{1, 1, 1, 1}, Int32Data(pair.Mask))
}

func TestStackSingleViewAxis1(t *testing.T) {
	pair, err := Stack([]View{{0, 2, 2, 0}}, StackOptions{ViewsAxis: 1, MaxViews: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1}, pair.Features.Shape().Dimensions)
	assert.Equal(t, []int32{0, 2, 2, 0}, Int32Data(pair.Features))
}

func TestStackMultiViewAxis0(t *testing.T) {
	pair, err := Stack([]View{{1, 0, 0}, {0, 2, 0}}, StackOptions{ViewsAxis: 0, MaxViews: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, pair.Features.Shape().Dimensions)
	assert.Equal(t, []int32{1, 0, 0, 0, 2, 0}, Int32Data(pair.Features))
	assert.Equal(t, []int32{1, 1, 1, 1, 1, 1}, Int32Data(pair.Mask))
}

// TestStackMultiViewAxis1 checks the interleaved [tokens, views] layout.
func TestStackMultiViewAxis1(t *testing.T) {
	pair, err := Stack([]View{{1, 0, 0}, {0, 2, 0}}, StackOptions{ViewsAxis: 1, MaxViews: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, pair.Features.Shape().Dimensions)
	assert.Equal(t, []int32{1, 0, 0, 2, 0, 0}, Int32Data(pair.Features))
}

// TestStackPadViews checks that a single natural view padded to 4
// channels yields 4 bit-identical slices.
func TestStackPadViews(t *testing.T) {
	pair, err := Stack([]View{{0, 5, 0}}, StackOptions{ViewsAxis: 0, MaxViews: 4, PadViews: true})
	require.NoError(t, err)
	require.Equal(t, []int{4, 3}, pair.Features.Shape().Dimensions)

	flat := Int32Data(pair.Features)
	for v := 1; v < 4; v++ {
		assert.Equal(t, flat[:3], flat[v*3:(v+1)*3], "slice %d must equal slice 0", v)
	}
	assert.Equal(t, []int{4, 3}, pair.Mask.Shape().Dimensions)
}

func TestStackPadViewsAxis1(t *testing.T) {
	pair, err := Stack([]View{{7, 8}}, StackOptions{ViewsAxis: 1, MaxViews: 3, PadViews: true})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, pair.Features.Shape().Dimensions)
	assert.Equal(t, []int32{7, 7, 7, 8, 8, 8}, Int32Data(pair.Features))
}

// TestStackUseMask checks that the mask becomes the feature tensor
// itself, not a copy.
func TestStackUseMask(t *testing.T) {
	pair, err := Stack([]View{{0, 3, 0}}, StackOptions{ViewsAxis: 0, MaxViews: 1, UseMask: true})
	require.NoError(t, err)
	assert.Same(t, pair.Features, pair.Mask)
	assert.Equal(t, []int32{0, 3, 0}, Int32Data(pair.Mask))
}

func TestStackEmpty(t *testing.T) {
	_, err := Stack(nil, StackOptions{MaxViews: 1})
	assert.Error(t, err)
}

func TestStackRaggedViews(t *testing.T) {
	_, err := Stack([]View{{1, 2}, {3}}, StackOptions{MaxViews: 2})
	assert.Error(t, err)
}

// TestShapesAlwaysAligned fuzzes the configuration space: the feature
// and mask shapes must match for every combination.
func TestShapesAlwaysAligned(t *testing.T) {
	base := []View{{0, 1, 2, 0, 0}, {3, 0, 0, 0, 4}, {0, 0, 5, 5, 0}}
	for _, axis := range []int{0, 1} {
		for _, pad := range []bool{false, true} {
			for _, useMask := range []bool{false, true} {
				for _, maxViews := range []int{1, 2, 3, 4, 7} {
					pair, err := Stack(Trim(base, maxViews), StackOptions{
						ViewsAxis: axis,
						MaxViews:  maxViews,
						PadViews:  pad,
						UseMask:   useMask,
					})
					require.NoError(t, err,
						"axis=%d pad=%v useMask=%v maxViews=%d", axis, pad, useMask, maxViews)
					assert.Equal(t,
						pair.Features.Shape().Dimensions,
						pair.Mask.Shape().Dimensions,
						"axis=%d pad=%v useMask=%v maxViews=%d", axis, pad, useMask, maxViews)
				}
			}
		}
	}
}

func TestInvariantViolationErrorMessage(t *testing.T) {
	err := &InvariantViolationError{FeatureDims: []int{1, 4}, MaskDims: []int{2, 4}}
	assert.Contains(t, err.Error(), "[1 4]")
	assert.Contains(t, err.Error(), "[2 4]")
}
