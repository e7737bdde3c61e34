// Package views implements the view construction layer shared by all
// feature extractors: trimming a list of per-token label arrays to a
// bounded number of views, stacking them along a configurable views axis,
// deriving the alignment mask, and materializing both as int32 GoMLX
// tensors whose shapes are guaranteed to match.
package views

import (
	"encoding/binary"
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
)

// View is one per-token feature channel over the flattened document token
// sequence. The value 0 is the background label ("no feature applies").
type View []int32

// NewView returns an all-background view of the given length.
func NewView(totalTokens int) View {
	return make(View, totalTokens)
}

// Trim bounds a view list to at most maxViews views. When the input
// already fits it is returned unchanged; otherwise the first maxViews
// views are kept, in input order. Ranking views before trimming is the
// caller's concern. Trim never pads — padding happens in Stack.
func Trim(vs []View, maxViews int) []View {
	if len(vs) <= maxViews {
		return vs
	}
	return vs[:maxViews]
}

// StackOptions configures Stack.
type StackOptions struct {
	// ViewsAxis selects which output axis indexes views: 0 for
	// [views, tokens], 1 for [tokens, views].
	ViewsAxis int

	// MaxViews is the configured view count to pad to when PadViews is
	// set. Ignored otherwise.
	MaxViews int

	// PadViews tiles the stacked views cyclically along ViewsAxis until
	// the views dimension equals MaxViews. Tiled copies are bit-identical.
	PadViews bool

	// UseMask substitutes the feature tensor itself for the mask: the
	// returned Pair holds the same tensor twice.
	UseMask bool
}

// Pair is the stacked result handed to the attention encoder: a feature
// tensor and its alignment mask, both int32 and of identical shape.
type Pair struct {
	Features *tensors.Tensor
	Mask     *tensors.Tensor
}

// Dims returns the shared shape of the pair.
func (p *Pair) Dims() []int {
	return p.Features.Shape().Dimensions
}

// InvariantViolationError reports a feature/mask shape mismatch. It
// signals a defect in the view construction pipeline itself, never bad
// input; callers should treat it as fatal rather than retry.
type InvariantViolationError struct {
	FeatureDims []int
	MaskDims    []int
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("feature/mask shape mismatch: features %v, mask %v",
		e.FeatureDims, e.MaskDims)
}

// Stack assembles views into a feature tensor and its alignment mask.
//
// The views are laid out along opts.ViewsAxis, the mask starts as all
// ones broadcast to the same view count, and when opts.PadViews is set
// both tensors are tiled along the views axis up to opts.MaxViews. The
// returned pair always satisfies Features.Shape == Mask.Shape; a
// violation is returned as *InvariantViolationError.
func Stack(vs []View, opts StackOptions) (*Pair, error) {
	if len(vs) == 0 {
		return nil, errors.New("no views to stack")
	}
	tokens := len(vs[0])
	for i, v := range vs {
		if len(v) != tokens {
			return nil, errors.Errorf("view %d has %d tokens, view 0 has %d", i, len(v), tokens)
		}
	}

	numViews := len(vs)
	if opts.PadViews && numViews < opts.MaxViews {
		tiled := make([]View, opts.MaxViews)
		for i := range tiled {
			tiled[i] = vs[i%numViews]
		}
		vs = tiled
		numViews = opts.MaxViews
	}

	feats := flatten(vs, opts.ViewsAxis, tokens)
	ones := make(View, tokens)
	for i := range ones {
		ones[i] = 1
	}
	maskViews := make([]View, numViews)
	for i := range maskViews {
		maskViews[i] = ones
	}
	mask := flatten(maskViews, opts.ViewsAxis, tokens)

	dims := []int{numViews, tokens}
	if opts.ViewsAxis == 1 {
		dims = []int{tokens, numViews}
	}

	pair := &Pair{
		Features: tensors.FromFlatDataAndDimensions(feats, dims...),
		Mask:     tensors.FromFlatDataAndDimensions(mask, dims...),
	}
	if opts.UseMask {
		pair.Mask = pair.Features
	}
	if err := pair.checkAligned(); err != nil {
		return nil, err
	}
	return pair, nil
}

// checkAligned enforces the pipeline's load-bearing postcondition.
func (p *Pair) checkAligned() error {
	fd := p.Features.Shape().Dimensions
	md := p.Mask.Shape().Dimensions
	if len(fd) != len(md) {
		return errors.WithStack(&InvariantViolationError{FeatureDims: fd, MaskDims: md})
	}
	for i := range fd {
		if fd[i] != md[i] {
			return errors.WithStack(&InvariantViolationError{FeatureDims: fd, MaskDims: md})
		}
	}
	return nil
}

// flatten lays out views row-major for the requested axis order:
// axis 0 gives [views, tokens], axis 1 gives [tokens, views].
func flatten(vs []View, viewsAxis, tokens int) []int32 {
	flat := make([]int32, len(vs)*tokens)
	if viewsAxis == 0 {
		for v, view := range vs {
			copy(flat[v*tokens:(v+1)*tokens], view)
		}
		return flat
	}
	for v, view := range vs {
		for t, label := range view {
			flat[t*len(vs)+v] = label
		}
	}
	return flat
}

// Int32Data reads the tensor's data back as a flat int32 slice, in
// row-major order. Intended for consumers that need the raw values (and
// for tests).
func Int32Data(t *tensors.Tensor) []int32 {
	out := make([]int32, t.Shape().Size())
	t.MutableBytes(func(data []byte) {
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
		}
	})
	return out
}
