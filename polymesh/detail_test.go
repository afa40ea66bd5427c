package polymesh

import (
	"testing"

	"github.com/arl/math32"
	"github.com/stretchr/testify/assert"
)

// TestDelaunayTriangulateSquareHullCoversArea checks that a convex
// quad hull triangulates into exactly two non-overlapping triangles
// whose combined area equals the quad's own area, the way
// delaunayHull is expected to tile a polygon's hull with no gap or
// overlap.
func TestDelaunayTriangulateSquareHullCoversArea(t *testing.T) {
	pts := []DetailVertex{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 4},
		{X: 0, Y: 0, Z: 4},
	}
	hull := []int32{0, 1, 2, 3}

	tris := delaunayTriangulate(pts, hull)

	assert.Len(t, tris, 2, "a convex quad hull triangulates into exactly two triangles")

	var area float32
	for _, tri := range tris {
		a, b, c := pts[tri[0]], pts[tri[1]], pts[tri[2]]
		area += math32.Abs(triCross2D(a, b, c)) / 2
	}
	assert.InDelta(t, float32(16), area, 0.001, "the two triangles must tile the whole square with no gap or overlap")
}

// TestSimplifyEdgeSamplesDropsFlatRun exercises the Douglas-Peucker
// pass against a dense run of collinear samples: every interior
// sample deviates by exactly zero from the segment spanning the
// endpoints, so none should survive simplification regardless of
// maxHeightError.
func TestSimplifyEdgeSamplesDropsFlatRun(t *testing.T) {
	dense := []DetailVertex{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
	}
	out := simplifyEdgeSamples(dense, 1)
	assert.Equal(t, []DetailVertex{dense[0], dense[4]}, out)
}

// TestSimplifyEdgeSamplesKeepsSpike exercises the same run with a
// single sample raised well past maxHeightError: that sample must
// survive simplification since dropping it would leave a hidden
// height error between the endpoints.
func TestSimplifyEdgeSamplesKeepsSpike(t *testing.T) {
	dense := []DetailVertex{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 5, Z: 0},
		{X: 3, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
	}
	out := simplifyEdgeSamples(dense, 1)
	assert.Equal(t, []DetailVertex{dense[0], dense[2], dense[4]}, out)
}

// TestTriangulateDetailConvergesOnInteriorSample checks that a flat
// quad hull with a single interior sample whose height error exceeds
// maxHeightError gets that sample inserted as a real vertex and the
// mesh re-triangulated around it, rather than being silently dropped.
func TestTriangulateDetailConvergesOnInteriorSample(t *testing.T) {
	hull := []DetailVertex{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 4},
		{X: 0, Y: 0, Z: 4},
	}
	interior := []DetailVertex{{X: 1, Y: 5, Z: 2}}

	verts, tris := triangulateDetail(hull, interior, 1)

	assert.Len(t, verts, 5, "the high-error interior sample must be inserted as a new vertex")
	assert.Len(t, tris, 4, "inserting one interior vertex into a quad yields four triangles")

	var area float32
	usesInserted := false
	for _, tri := range tris {
		a, b, c := verts[tri[0]], verts[tri[1]], verts[tri[2]]
		area += math32.Abs(triCross2D(a, b, c)) / 2
		if tri[0] == 4 || tri[1] == 4 || tri[2] == 4 {
			usesInserted = true
		}
	}
	assert.InDelta(t, float32(16), area, 0.001, "the refined mesh must still tile the whole quad with no gap or overlap")
	assert.True(t, usesInserted, "the inserted vertex must be part of the retriangulated mesh")
}

// TestTriangulateDetailLeavesConvergedMeshAlone checks that an
// interior sample already within maxHeightError of the flat hull
// plane is never inserted, so a well-approximated polygon keeps its
// minimal two-triangle mesh.
func TestTriangulateDetailLeavesConvergedMeshAlone(t *testing.T) {
	hull := []DetailVertex{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 4},
		{X: 0, Y: 0, Z: 4},
	}
	interior := []DetailVertex{{X: 1, Y: 0.1, Z: 2}}

	verts, tris := triangulateDetail(hull, interior, 1)

	assert.Len(t, verts, 4, "a sample within tolerance must not be inserted")
	assert.Len(t, tris, 2)
}
