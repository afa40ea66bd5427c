package query

import (
	"context"
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/navtile"
	"github.com/talusforge/navmesh/tilespace"
)

// linkedSquareStore is flatSquareStore's two triangles with their
// shared diagonal wired as a reciprocal LinkInternal, so FindPath has
// an actual edge to cross.
func linkedSquareStore(t *testing.T) (*navtile.TileStore, tilespace.Coord) {
	t.Helper()
	params := tilespace.Params{CellWidth: 1, CellHeight: 1, TileWidth: 20, WorldHalfExtents: 0}
	store := navtile.NewTileStore(params, 2)
	coord := tilespace.Coord{X: 0, Z: 0}

	tile := &navtile.Tile{
		Vertices: []d3.Vec3{
			{0, 0, 0},
			{10, 0, 0},
			{10, 0, 10},
			{0, 0, 10},
		},
		Polygons: []navtile.Polygon{
			{
				Indices: [3]uint32{0, 1, 2},
				Links:   []navtile.Link{{Kind: navtile.LinkInternal, Edge: 2, NeighbourTile: coord, NeighbourPoly: 1}},
			},
			{
				Indices: [3]uint32{0, 2, 3},
				Links:   []navtile.Link{{Kind: navtile.LinkInternal, Edge: 0, NeighbourTile: coord, NeighbourPoly: 0}},
			},
		},
	}
	assert.True(t, store.Commit(coord, 1, tile))
	return store, coord
}

func TestFindPathCrossesInternalLink(t *testing.T) {
	store, coord := linkedSquareStore(t)

	path, partial, err := FindPath(context.Background(), store, d3.Vec3{2, 0, 2}, d3.Vec3{8, 0, 8}, d3.Vec3{1, 5, 1}, nil)
	assert.NoError(t, err)
	assert.False(t, partial)
	assert.Equal(t, PolygonPath{
		{Coord: coord, Polygon: 0},
		{Coord: coord, Polygon: 1},
	}, path)
}

func TestFindPathSameStartAndEndPolygon(t *testing.T) {
	store, coord := linkedSquareStore(t)

	path, partial, err := FindPath(context.Background(), store, d3.Vec3{1, 0, 1}, d3.Vec3{2, 0, 2}, d3.Vec3{1, 5, 1}, nil)
	assert.NoError(t, err)
	assert.False(t, partial)
	assert.Equal(t, PolygonPath{{Coord: coord, Polygon: 0}}, path)
}

func TestFindPathStartOutOfMesh(t *testing.T) {
	store, _ := linkedSquareStore(t)
	_, _, err := FindPath(context.Background(), store, d3.Vec3{1000, 0, 1000}, d3.Vec3{2, 0, 2}, d3.Vec3{1, 5, 1}, nil)
	assert.ErrorIs(t, err, ErrStartOutOfMesh)
}
