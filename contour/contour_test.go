package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/field"
	"github.com/talusforge/navmesh/region"
	"github.com/talusforge/navmesh/tilespace"
	"github.com/talusforge/navmesh/voxel"
)

func buildUniformRegionedField() *field.OpenHeightfield {
	params := tilespace.Params{
		CellWidth:        1,
		CellHeight:       1,
		TileWidth:        8,
		WorldHalfExtents: 4,
		WorldBottomBound: -10,
		WalkableRadius:   1,
	}
	frame := tilespace.NewFrame(params, tilespace.Coord{X: 0, Z: 0})
	hf := voxel.NewHeightfield(frame)
	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			hf.AddSpan(c, r, 0, 2, true, 1)
		}
	}
	ohf := field.Build(hf, 2, 1)
	field.BuildDistanceField(ohf)
	region.Build(ohf, 0, 0)
	return ohf
}

func TestTraceProducesOneClosedOutline(t *testing.T) {
	ohf := buildUniformRegionedField()
	contours := Trace(ohf, 1.0, 12)

	assert.Len(t, contours, 1)
	c := contours[0]
	assert.True(t, IsOutline(c.Vertices), "the uniform slab's single region must trace as an outline, not a hole")

	for i := range c.Vertices {
		j := (i + 1) % len(c.Vertices)
		a, b := c.Vertices[i], c.Vertices[j]
		assert.False(t, a.X == b.X && a.Z == b.Z, "successive contour vertices must differ in X or Z")
	}
}

func TestSignedAreaSignsOutlinesAndHoles(t *testing.T) {
	outline := []Vertex{{X: 0, Z: 0}, {X: 4, Z: 0}, {X: 4, Z: 4}, {X: 0, Z: 4}}
	hole := []Vertex{{X: 0, Z: 4}, {X: 4, Z: 4}, {X: 4, Z: 0}, {X: 0, Z: 0}}

	assert.True(t, SignedArea(outline) >= 0)
	assert.True(t, SignedArea(hole) < 0)
	assert.True(t, IsOutline(outline))
	assert.False(t, IsOutline(hole))
}
