package query

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/talusforge/navmesh/navtile"
	"github.com/talusforge/navmesh/tilespace"
)

// PolygonRef addresses one polygon inside the store: the tile it
// belongs to and its index within that tile's polygon slice (§3).
type PolygonRef struct {
	Coord   navtile.Coord
	Polygon uint32
}

// closestHeightPointTriangle returns the barycentric-interpolated Y of
// p over triangle a,b,c if p's XZ projection lies inside it (within a
// small epsilon, so points exactly on an edge still resolve), grounded
// on detour/common.go's closestHeightPointTriangle.
func closestHeightPointTriangle(p, a, b, c d3.Vec3) (h float32, inside bool) {
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := p.Sub(a)

	dot00 := v0.Dot2D(v0)
	dot01 := v0.Dot2D(v1)
	dot02 := v0.Dot2D(v2)
	dot11 := v1.Dot2D(v1)
	dot12 := v1.Dot2D(v2)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return 0, false
	}
	invDenom := 1.0 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	const eps = 1e-4
	if u >= -eps && v >= -eps && (u+v) <= 1+eps {
		return a[1] + v0[1]*u + v1[1]*v, true
	}
	return 0, false
}

// distPtSegSqr2D returns the squared XZ distance from pt to its
// closest point on segment p-q and that point's position.
func distPtSegSqr2D(pt, p, q d3.Vec3) (distSqr float32, closest d3.Vec3) {
	pqx := q[0] - p[0]
	pqz := q[2] - p[2]
	dx := pt[0] - p[0]
	dz := pt[2] - p[2]
	d := pqx*pqx + pqz*pqz
	t := pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := p[0] + t*pqx
	cz := p[2] + t*pqz
	closest = d3.Vec3{cx, p[1] + t*(q[1]-p[1]), cz}
	ddx := cx - pt[0]
	ddz := cz - pt[2]
	return ddx*ddx + ddz*ddz, closest
}

// closestPointOnPolygon finds the 2D-closest point of p against a
// triangle's three edges, used when p's projection lies outside the
// triangle.
func closestPointOnPolygon(p, a, b, c d3.Vec3) (closest d3.Vec3, distSqr float32) {
	verts := [3]d3.Vec3{a, b, c}
	best := float32(-1)
	var bestPt d3.Vec3
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		d, pt := distPtSegSqr2D(p, verts[i], verts[j])
		if best < 0 || d < best {
			best = d
			bestPt = pt
		}
	}
	return bestPt, best
}

// FindClosestPolygon enumerates every tile whose cell-grid bounds
// intersect the AABB (center-halfExtents, center+halfExtents) and
// returns the polygon whose projected point is nearest to center
// (§4.I). ok is false if the store holds no tile intersecting the
// search box.
func FindClosestPolygon(store *navtile.TileStore, center, halfExtents d3.Vec3) (ref PolygonRef, point d3.Vec3, ok bool) {
	params := store.Params()

	minC := tilespace.CoordForPoint(params, center[0]-halfExtents[0], center[2]-halfExtents[2])
	maxC := tilespace.CoordForPoint(params, center[0]+halfExtents[0], center[2]+halfExtents[2])

	bestDist := float32(-1)
	for x := minC.X; x <= maxC.X; x++ {
		for z := minC.Z; z <= maxC.Z; z++ {
			coord := tilespace.Coord{X: x, Z: z}
			tile, found := store.Get(coord)
			if !found {
				continue
			}
			for pi, poly := range tile.Polygons {
				a := tile.Vertices[poly.Indices[0]]
				b := tile.Vertices[poly.Indices[1]]
				c := tile.Vertices[poly.Indices[2]]

				var candidate d3.Vec3
				var distSqr float32
				if h, inside := closestHeightPointTriangle(center, a, b, c); inside {
					candidate = d3.Vec3{center[0], h, center[2]}
					dy := center[1] - h
					distSqr = dy * dy
				} else {
					candidate, distSqr = closestPointOnPolygon(center, a, b, c)
				}

				if bestDist < 0 || distSqr < bestDist {
					bestDist = distSqr
					ref = PolygonRef{Coord: coord, Polygon: uint32(pi)}
					point = candidate
					ok = true
				}
			}
		}
	}
	return ref, point, ok
}
