package query

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/tilespace"
)

func TestPerformStringPullingSinglePolygonIsDirect(t *testing.T) {
	store, coord := linkedSquareStore(t)
	path := PolygonPath{{Coord: coord, Polygon: 0}}

	out, err := PerformStringPulling(store, path, d3.Vec3{1, 0, 1}, d3.Vec3{8, 0, 2})
	assert.NoError(t, err)
	assert.Equal(t, []d3.Vec3{{1, 0, 1}, {8, 0, 2}}, out)
}

func TestPerformStringPullingCrossesPortal(t *testing.T) {
	store, coord := linkedSquareStore(t)
	path := PolygonPath{
		{Coord: coord, Polygon: 0},
		{Coord: coord, Polygon: 1},
	}

	out, err := PerformStringPulling(store, path, d3.Vec3{2, 0, 1}, d3.Vec3{8, 0, 9})
	assert.NoError(t, err)
	assert.True(t, len(out) >= 2)
	assert.Equal(t, d3.Vec3{2, 0, 1}, out[0])
	assert.Equal(t, d3.Vec3{8, 0, 9}, out[len(out)-1])
}

func TestPerformStringPullingEmptyPathErrors(t *testing.T) {
	store, _ := linkedSquareStore(t)
	_, err := PerformStringPulling(store, nil, d3.Vec3{0, 0, 0}, d3.Vec3{1, 0, 1})
	assert.ErrorIs(t, err, ErrPathEmpty)
}

func TestPerformStringPullingMissingTileErrors(t *testing.T) {
	store, _ := linkedSquareStore(t)
	path := PolygonPath{{Coord: tilespace.Coord{X: 99, Z: 99}, Polygon: 0}}
	_, err := PerformStringPulling(store, path, d3.Vec3{0, 0, 0}, d3.Vec3{1, 0, 1})
	assert.ErrorIs(t, err, ErrMissingStartTile)
}
