package polymesh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh/contour"
)

func noopWarn(string, ...interface{}) {}

// squareContour returns the exposed tile's full outline (border=1,
// tileWidth=4) as a single 4-vertex counter-clockwise loop, so every
// outer edge of its two triangles should end up tagged OffMesh and the
// shared diagonal tagged Internal.
func squareContour() contour.Contour {
	return contour.Contour{
		Region: 1,
		Area:   1,
		Vertices: []contour.Vertex{
			{X: 1, Y: 0, Z: 1},
			{X: 5, Y: 0, Z: 1},
			{X: 5, Y: 0, Z: 5},
			{X: 1, Y: 0, Z: 5},
		},
	}
}

func TestBuildAdjacencyInternalAndOffMesh(t *testing.T) {
	mesh := Build([]contour.Contour{squareContour()}, 4, 1, noopWarn)

	assert.Len(t, mesh.Polygons, 2)

	var internalPairs, offMesh int
	for pi, poly := range mesh.Polygons {
		for slot, e := range poly.Edges {
			switch e.Kind {
			case EdgeInternal:
				internalPairs++
				nb := mesh.Polygons[e.Neighbour]
				found := false
				for _, ne := range nb.Edges {
					if ne.Kind == EdgeInternal && ne.Neighbour == uint32(pi) {
						found = true
					}
				}
				assert.True(t, found, "internal edge must be reciprocated")
			case EdgeOffMesh:
				offMesh++
			case EdgeNone:
				t.Errorf("polygon %d slot %d left as EdgeNone", pi, slot)
			}
		}
	}
	assert.Equal(t, 2, internalPairs, "the shared diagonal should be tagged from both sides")
	assert.Equal(t, 4, offMesh, "all four outer edges should be border-tagged")
}

func TestBuildSkipsDegenerateContour(t *testing.T) {
	degenerate := contour.Contour{
		Region: 2,
		Area:   1,
		Vertices: []contour.Vertex{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
		},
	}
	mesh := Build([]contour.Contour{degenerate}, 4, 1, noopWarn)
	assert.Empty(t, mesh.Polygons)
}
