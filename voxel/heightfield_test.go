package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/tilespace"
)

func newTestHeightfield(t *testing.T) *Heightfield {
	t.Helper()
	params := tilespace.Params{
		CellWidth:        1,
		CellHeight:       1,
		TileWidth:        4,
		WorldHalfExtents: 2,
		WorldBottomBound: -10,
		WalkableRadius:   1,
	}
	frame := tilespace.NewFrame(params, tilespace.Coord{X: 0, Z: 0})
	return NewHeightfield(frame)
}

func TestAddSpanMergeTieBreak(t *testing.T) {
	t.Run("existing taller and walkable wins", func(t *testing.T) {
		hf := newTestHeightfield(t)
		hf.AddSpan(1, 1, 10, 20, true, 2)  // existing: tall, walkable
		hf.AddSpan(1, 1, 0, 15, false, 1)  // incoming: shorter, overlapping
		col := hf.Column(1, 1)
		assert.Len(t, col, 1)
		assert.Equal(t, uint16(0), col[0].Min)
		assert.Equal(t, uint16(20), col[0].Max)
		assert.True(t, col[0].Traversable)
		assert.Equal(t, Area(2), col[0].Area)
	})

	t.Run("existing taller and unwalkable wins", func(t *testing.T) {
		hf := newTestHeightfield(t)
		hf.AddSpan(1, 1, 10, 20, false, 2) // existing: tall, unwalkable
		hf.AddSpan(1, 1, 0, 15, true, 1)   // incoming: shorter, overlapping
		col := hf.Column(1, 1)
		assert.Len(t, col, 1)
		assert.False(t, col[0].Traversable)
		assert.Equal(t, Area(2), col[0].Area)
	})

	t.Run("exact tie ORs the flags", func(t *testing.T) {
		hf := newTestHeightfield(t)
		hf.AddSpan(1, 1, 0, 10, false, 1) // existing
		hf.AddSpan(1, 1, 5, 10, true, 2)  // incoming, same top
		col := hf.Column(1, 1)
		assert.Len(t, col, 1)
		assert.True(t, col[0].Traversable)
		assert.Equal(t, Area(2), col[0].Area)
	})
}

func TestAddSpanKeepsColumnSortedAndDisjoint(t *testing.T) {
	hf := newTestHeightfield(t)
	hf.AddSpan(2, 2, 0, 5, true, 1)
	hf.AddSpan(2, 2, 20, 25, true, 1)
	hf.AddSpan(2, 2, 10, 12, true, 1)

	col := hf.Column(2, 2)
	assert.Len(t, col, 3)
	for i := 1; i < len(col); i++ {
		assert.Less(t, col[i-1].Max, col[i].Min)
	}
}

func TestAddSpanOutOfBoundsIsNoop(t *testing.T) {
	hf := newTestHeightfield(t)
	hf.AddSpan(-1, 0, 0, 5, true, 1)
	hf.AddSpan(hf.Width, 0, 0, 5, true, 1)
	assert.Nil(t, hf.Column(-1, 0))
}
