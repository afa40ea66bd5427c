package field

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/tilespace"
	"github.com/talusforge/navmesh/voxel"
)

func newTestFrame() tilespace.Frame {
	params := tilespace.Params{
		CellWidth:        1,
		CellHeight:       1,
		TileWidth:        4,
		WorldHalfExtents: 2,
		WorldBottomBound: -10,
		WalkableRadius:   1,
	}
	return tilespace.NewFrame(params, tilespace.Coord{X: 0, Z: 0})
}

func TestBuildInvertsFloorIntoOpenSpans(t *testing.T) {
	hf := voxel.NewHeightfield(newTestFrame())
	// A single ground slab at every column: open space above it is
	// unbounded, so each column should produce exactly one open span.
	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			hf.AddSpan(c, r, 0, 2, true, 1)
		}
	}

	ohf := Build(hf, 2, 1)
	assert.Equal(t, hf.Width, ohf.Width)
	assert.Equal(t, hf.Height, ohf.Height)

	spans := ohf.CellSpans(1, 1)
	assert.Len(t, spans, 1)
	assert.Equal(t, uint16(2), spans[0].Min)
	assert.Equal(t, unboundedMax, spans[0].Max)
}

func TestBuildDropsClearanceBelowWalkableHeight(t *testing.T) {
	hf := voxel.NewHeightfield(newTestFrame())
	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			hf.AddSpan(c, r, 0, 2, true, 1)
			hf.AddSpan(c, r, 3, 5, true, 1) // only 1 unit of clearance above the floor
		}
	}

	ohf := Build(hf, 2, 1)
	spans := ohf.CellSpans(1, 1)
	// The 1-unit gap between the two solid spans is below walkableHeight
	// and must be discarded; only the unbounded span above the ceiling
	// survives.
	assert.Len(t, spans, 1)
	assert.Equal(t, uint16(5), spans[0].Min)
	assert.Equal(t, unboundedMax, spans[0].Max)
}

func TestLinkNeighboursIsSymmetric(t *testing.T) {
	hf := voxel.NewHeightfield(newTestFrame())
	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			hf.AddSpan(c, r, 0, 2, true, 1)
		}
	}

	ohf := Build(hf, 2, 1)
	for r := int32(0); r < ohf.Height; r++ {
		for c := int32(0); c < ohf.Width; c++ {
			cell := ohf.Cells[ohf.index(c, r)]
			for si := cell.Index; si < cell.Index+cell.Count; si++ {
				span := ohf.Spans[si]
				for d := 0; d < 4; d++ {
					ni := span.Neighbours[d]
					if ni == noNeighbour {
						continue
					}
					n := ohf.Spans[ni]
					opposite := (d + 2) % 4
					assert.Equal(t, si, n.Neighbours[opposite], "neighbour link must be reciprocated")
				}
			}
		}
	}
}

func TestBuildEmptyColumnHasNoSpans(t *testing.T) {
	hf := voxel.NewHeightfield(newTestFrame())
	ohf := Build(hf, 2, 1)
	assert.Empty(t, ohf.CellSpans(0, 0))
}
