package region

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/field"
	"github.com/talusforge/navmesh/tilespace"
	"github.com/talusforge/navmesh/voxel"
)

func newTestOpenHeightfield() *field.OpenHeightfield {
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
	return ohf
}

func TestBuildAssignsEveryOpenSpanToARegion(t *testing.T) {
	ohf := newTestOpenHeightfield()
	regions := Build(ohf, 0, 0)

	var total int32
	for _, r := range regions {
		assert.Greater(t, r.SpanCount, int32(0))
		total += r.SpanCount
	}
	assert.Equal(t, int32(len(ohf.Spans)), total, "every open span must end up counted in exactly one region")

	for _, s := range ohf.Spans {
		assert.NotEqual(t, uint16(0), s.Region)
	}
}

func TestBuildCullsRegionsBelowMinArea(t *testing.T) {
	ohf := newTestOpenHeightfield()
	// A minRegionArea larger than the whole grid's span count leaves
	// nothing alive except regions touching the border (the flat
	// uniform fixture's single region touches the border on every
	// side, so it always survives regardless of minArea).
	tiny := Build(ohf, 0, 0)
	huge := Build(ohf, uint32(len(ohf.Spans))*10, 0)
	assert.LessOrEqual(t, len(huge), len(tiny))
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build(newTestOpenHeightfield(), 0, 0)
	b := Build(newTestOpenHeightfield(), 0, 0)
	assert.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].SpanCount, b[i].SpanCount)
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

// TestFloodFillRejectsOnlyCollidingSpan exercises a seed whose BFS
// fans out into two independent branches: one reaches a span that
// directly neighbours an already-claimed foreign region and must be
// rejected, the other is clean. Spans 0 (seed) and 1 (clean branch)
// must stay claimed for candidateID even though span 2 (bad branch)
// collides — the whole flood must not be discarded as one unit (§4.D
// step 3).
func TestFloodFillRejectsOnlyCollidingSpan(t *testing.T) {
	ohf := &field.OpenHeightfield{
		Spans: []field.OpenSpan{
			0: {Area: 1, Neighbours: [4]int32{1, 2, -1, -1}},
			1: {Area: 1, Neighbours: [4]int32{-1, -1, -1, -1}},
			2: {Area: 1, Neighbours: [4]int32{-1, -1, -1, 3}},
			3: {Area: 1, Neighbours: [4]int32{-1, -1, -1, -1}},
		},
	}
	regionIDs := make([]uint16, len(ohf.Spans))
	regionIDs[3] = 9 // already claimed by a foreign region

	claimed := floodFill(ohf, regionIDs, 0, 5)

	assert.True(t, claimed, "the seed and its clean branch are still claimable")
	assert.Equal(t, uint16(5), regionIDs[0])
	assert.Equal(t, uint16(5), regionIDs[1])
	assert.Equal(t, uint16(0), regionIDs[2], "span touching the foreign region must be rejected individually")
	assert.Equal(t, uint16(9), regionIDs[3], "untouched foreign span keeps its region")
}

// TestCollidesWithForeignRegionDetectsOneHopDiagonal exercises two
// same-area plateaus that only touch through a one-hop diagonal: span
// 1 is span 0's direct neighbour and is not itself foreign, but span
// 1's own neighbour (span 2) already carries a different region.
// Missing the one-hop check would let span 0 be claimed despite this
// diagonal contact (§4.D step 3's "8-neighbours (including one-hop
// diagonal through the same area)").
func TestCollidesWithForeignRegionDetectsOneHopDiagonal(t *testing.T) {
	ohf := &field.OpenHeightfield{
		Spans: []field.OpenSpan{
			0: {Area: 1, Neighbours: [4]int32{1, -1, -1, -1}},
			1: {Area: 1, Neighbours: [4]int32{-1, 2, -1, -1}},
			2: {Area: 1, Neighbours: [4]int32{-1, -1, -1, -1}},
		},
	}
	regionIDs := make([]uint16, len(ohf.Spans))
	regionIDs[2] = 9

	assert.True(t, collidesWithForeignRegion(ohf, regionIDs, 0, 1, 5),
		"span 0 diagonally touches region 9 through span 1 and must be rejected")
}

// TestFloodFillSeparatesNonContiguousPlateaus builds two disjoint
// same-area plateaus (no path between them at all) seeded one after
// the other, the way floodNewRegions seeds successive unregioned
// spans: each flood must claim only its own plateau, never bleeding
// into or being aborted by the other.
func TestFloodFillSeparatesNonContiguousPlateaus(t *testing.T) {
	ohf := &field.OpenHeightfield{
		Spans: []field.OpenSpan{
			0: {Area: 1, Neighbours: [4]int32{1, -1, -1, -1}},
			1: {Area: 1, Neighbours: [4]int32{-1, -1, -1, -1}},
			2: {Area: 1, Neighbours: [4]int32{3, -1, -1, -1}},
			3: {Area: 1, Neighbours: [4]int32{-1, -1, -1, -1}},
		},
	}
	regionIDs := make([]uint16, len(ohf.Spans))

	assert.True(t, floodFill(ohf, regionIDs, 0, 1))
	assert.True(t, floodFill(ohf, regionIDs, 2, 2))

	assert.Equal(t, uint16(1), regionIDs[0])
	assert.Equal(t, uint16(1), regionIDs[1])
	assert.Equal(t, uint16(2), regionIDs[2])
	assert.Equal(t, uint16(2), regionIDs[3])
}
