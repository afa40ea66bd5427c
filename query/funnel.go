package query

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/talusforge/navmesh/navtile"
)

// triArea2D returns twice the signed area of triangle a,b,c projected
// onto XZ, grounded on detour/common.go's TriArea2D: positive when c
// lies to the left of a->b.
func triArea2D(a, b, c d3.Vec3) float32 {
	abx := b[0] - a[0]
	abz := b[2] - a[2]
	acx := c[0] - a[0]
	acz := c[2] - a[2]
	return acx*abz - abx*acz
}

// portal returns the left/right endpoints of the edge shared by
// path[i] and path[i+1], found by matching the link on path[i]'s
// polygon that points at path[i+1]. Winding follows the polygon's own
// edge order, which keeps left/right consistent without needing the
// caller's approach direction.
func portal(store *navtile.TileStore, path PolygonPath, i int) (left, right d3.Vec3, ok bool) {
	tile, found := store.Get(path[i].Coord)
	if !found {
		return left, right, false
	}
	poly := tile.Polygons[path[i].Polygon]
	next := path[i+1]

	for _, link := range poly.Links {
		var matches bool
		switch link.Kind {
		case navtile.LinkInternal:
			matches = next.Coord == path[i].Coord && link.NeighbourPoly == next.Polygon
		case navtile.LinkOffMesh:
			matches = link.NeighbourTile == next.Coord && link.NeighbourPoly == next.Polygon
		}
		if !matches {
			continue
		}
		a, b := tile.EdgeVertices(int(path[i].Polygon), int(link.Edge))
		if link.Kind == navtile.LinkOffMesh {
			tmin := float32(link.BoundMin) / 255.0
			tmax := float32(link.BoundMax) / 255.0
			a, b = a.Lerp(b, tmin), a.Lerp(b, tmax)
		}
		return b, a, true
	}
	return left, right, false
}

// PerformStringPulling runs the Simple Stupid Funnel algorithm over
// path's portal sequence to produce a taut polyline from start to end
// (§4.I). Each vertex's Y comes from the portal endpoint it was pulled
// from, or from start/end directly for the first and last point.
func PerformStringPulling(store *navtile.TileStore, path PolygonPath, start, end d3.Vec3) ([]d3.Vec3, error) {
	if len(path) == 0 {
		return nil, &StringPullingError{Err: ErrPathEmpty}
	}
	if _, ok := store.Get(path[0].Coord); !ok {
		return nil, &StringPullingError{Err: ErrMissingStartTile}
	}
	if _, ok := store.Get(path[len(path)-1].Coord); !ok {
		return nil, &StringPullingError{Err: ErrMissingEndTile}
	}

	out := []d3.Vec3{start}
	if len(path) == 1 {
		return append(out, end), nil
	}

	type portalPt struct {
		left, right d3.Vec3
	}
	portals := make([]portalPt, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		if _, ok := store.Get(path[i].Coord); !ok {
			return nil, &StringPullingError{Err: ErrMissingNodeTile}
		}
		l, r, ok := portal(store, path, i)
		if !ok {
			return nil, &StringPullingError{Err: ErrNoLinkBetweenPathPoints}
		}
		portals[i] = portalPt{left: l, right: r}
	}

	apex, left, right := start, start, start
	apexIdx, leftIdx, rightIdx := 0, 0, 0

	portalAt := func(i int) (d3.Vec3, d3.Vec3) {
		if i < len(portals) {
			return portals[i].left, portals[i].right
		}
		return end, end
	}

	i := 0
	for i <= len(portals) {
		pLeft, pRight := portalAt(i)

		if triArea2D(apex, right, pRight) <= 0 {
			if apex.Approx(right) || triArea2D(apex, left, pRight) > 0 {
				right = pRight
				rightIdx = i
			} else {
				out = append(out, left)
				apex, apexIdx = left, leftIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				i++
				continue
			}
		}

		if triArea2D(apex, left, pLeft) >= 0 {
			if apex.Approx(left) || triArea2D(apex, right, pLeft) < 0 {
				left = pLeft
				leftIdx = i
			} else {
				out = append(out, right)
				apex, apexIdx = right, rightIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				i++
				continue
			}
		}
		i++
	}

	out = append(out, end)
	return out, nil
}
