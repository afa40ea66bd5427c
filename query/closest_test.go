package query

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/navtile"
	"github.com/talusforge/navmesh/tilespace"
)

// flatSquareStore returns a store holding one tile at {0,0}: a 10x10
// flat square split into two triangles at y=0, covering x,z in [0,10].
func flatSquareStore(t *testing.T) *navtile.TileStore {
	t.Helper()
	params := tilespace.Params{CellWidth: 1, CellHeight: 1, TileWidth: 20, WorldHalfExtents: 0}
	store := navtile.NewTileStore(params, 2)

	tile := &navtile.Tile{
		Vertices: []d3.Vec3{
			{0, 0, 0},
			{10, 0, 0},
			{10, 0, 10},
			{0, 0, 10},
		},
		Polygons: []navtile.Polygon{
			{Indices: [3]uint32{0, 1, 2}},
			{Indices: [3]uint32{0, 2, 3}},
		},
	}
	assert.True(t, store.Commit(tilespace.Coord{X: 0, Z: 0}, 1, tile))
	return store
}

func TestFindClosestPolygonAboveSurfaceSnapsDown(t *testing.T) {
	store := flatSquareStore(t)
	ref, point, ok := FindClosestPolygon(store, d3.Vec3{5, 3, 5}, d3.Vec3{1, 5, 1})
	assert.True(t, ok)
	assert.Equal(t, tilespace.Coord{X: 0, Z: 0}, ref.Coord)
	assert.InDelta(t, 0, point[1], 1e-5)
	assert.InDelta(t, 5, point[0], 1e-5)
	assert.InDelta(t, 5, point[2], 1e-5)
}

func TestFindClosestPolygonOutsideSurfaceClampsToEdge(t *testing.T) {
	store := flatSquareStore(t)
	// (15,0,5) is east of the square's x=10 edge.
	_, point, ok := FindClosestPolygon(store, d3.Vec3{15, 0, 5}, d3.Vec3{1, 5, 1})
	assert.True(t, ok)
	assert.InDelta(t, 10, point[0], 1e-5)
	assert.InDelta(t, 5, point[2], 1e-5)
}

func TestFindClosestPolygonNoTileInRange(t *testing.T) {
	store := flatSquareStore(t)
	_, _, ok := FindClosestPolygon(store, d3.Vec3{1000, 0, 1000}, d3.Vec3{1, 5, 1})
	assert.False(t, ok)
}
