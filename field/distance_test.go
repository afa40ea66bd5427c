package field

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/voxel"
)

func buildUniformOpenHeightfield() *OpenHeightfield {
	hf := voxel.NewHeightfield(newTestFrame())
	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			hf.AddSpan(c, r, 0, 2, true, 1)
		}
	}
	return Build(hf, 2, 1)
}

func TestBuildDistanceFieldPinsBorderSeedsToTwo(t *testing.T) {
	ohf := buildUniformOpenHeightfield()
	BuildDistanceField(ohf)

	for r := int32(0); r < ohf.Height; r++ {
		for c := int32(0); c < ohf.Width; c++ {
			spans := ohf.CellSpans(c, r)
			isEdge := c == 0 || r == 0 || c == ohf.Width-1 || r == ohf.Height-1
			if !isEdge {
				continue
			}
			for _, s := range spans {
				assert.Equal(t, uint16(2), s.Distance, "border span at (%d,%d) must be pinned to 2 by the blur", c, r)
			}
		}
	}
	assert.GreaterOrEqual(t, ohf.MaxDistance, uint16(2))
}

func TestBuildDistanceFieldIsDeterministic(t *testing.T) {
	a := buildUniformOpenHeightfield()
	BuildDistanceField(a)
	b := buildUniformOpenHeightfield()
	BuildDistanceField(b)

	assert.Equal(t, a.MaxDistance, b.MaxDistance)
	for i := range a.Spans {
		assert.Equal(t, a.Spans[i].Distance, b.Spans[i].Distance)
	}
}
