package navtile

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh"
	"github.com/talusforge/navmesh/tilespace"
)

func newTestStore() *TileStore {
	return NewTileStore(tilespace.Params{CellHeight: 1}, 2)
}

// borderTile returns a one-triangle tile whose single OffMesh edge runs
// along x=atX from (atX,0,0) to (atX,0,10), facing dir.
func borderTile(coord Coord, atX float32, dir navmesh.Direction) *Tile {
	return &Tile{
		Coord: coord,
		Vertices: []d3.Vec3{
			{atX, 0, 0},
			{atX, 0, 10},
			{atX - 1, 0, 5}, // a third vertex off the shared line, interior to the tile
		},
		Polygons: []Polygon{
			{
				Indices: [3]uint32{0, 1, 2},
				Edges: [3]Edge{
					{Kind: EdgeOffMesh, Direction: dir},
					{Kind: EdgeNone},
					{Kind: EdgeNone},
				},
			},
		},
	}
}

func TestCommitRejectsStaleGeneration(t *testing.T) {
	store := newTestStore()
	c := Coord{X: 0, Z: 0}

	assert.True(t, store.Commit(c, 5, borderTile(c, 10, navmesh.DirPlusX)))
	assert.False(t, store.Commit(c, 3, borderTile(c, 10, navmesh.DirPlusX)), "older generation must be rejected")
	assert.True(t, store.Commit(c, 6, borderTile(c, 10, navmesh.DirPlusX)), "newer generation must win")

	tile, ok := store.Get(c)
	assert.True(t, ok)
	assert.Equal(t, uint32(6), tile.Salt)
}

func TestCommitLinksOffMeshAcrossNeighbours(t *testing.T) {
	store := newTestStore()
	left := Coord{X: 0, Z: 0}
	right := Coord{X: 1, Z: 0}

	store.Commit(left, 1, borderTile(left, 10, navmesh.DirPlusX))
	store.Commit(right, 1, borderTile(right, 10, navmesh.DirMinusX))

	leftTile, _ := store.Get(left)
	rightTile, _ := store.Get(right)

	assert.Len(t, leftTile.Polygons[0].Links, 1)
	assert.Equal(t, LinkOffMesh, leftTile.Polygons[0].Links[0].Kind)
	assert.Equal(t, right, leftTile.Polygons[0].Links[0].NeighbourTile)

	assert.Len(t, rightTile.Polygons[0].Links, 1)
	assert.Equal(t, left, rightTile.Polygons[0].Links[0].NeighbourTile)
}

func TestCommitRebuildPurgesStaleNeighbourLinks(t *testing.T) {
	store := newTestStore()
	left := Coord{X: 0, Z: 0}
	right := Coord{X: 1, Z: 0}

	store.Commit(left, 1, borderTile(left, 10, navmesh.DirPlusX))
	store.Commit(right, 1, borderTile(right, 10, navmesh.DirMinusX))

	// Rebuild left with its OffMesh edge moved away from the shared
	// border: the link on right pointing at left must be dropped.
	moved := borderTile(left, 10, navmesh.DirMinusX) // no longer faces +X
	store.Commit(left, 2, moved)

	rightTile, _ := store.Get(right)
	assert.Empty(t, rightTile.Polygons[0].Links)
}
