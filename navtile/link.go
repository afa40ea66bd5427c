package navtile

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/talusforge/navmesh"
)

// neighbourCoord returns the coordinate one tile over from coord in
// dir.
func neighbourCoord(coord Coord, dir navmesh.Direction) Coord {
	return Coord{X: coord.X + dir.OffsetX(), Z: coord.Z + dir.OffsetZ()}
}

// linkNeighbours resolves tile's OffMesh edges against whichever of its
// four cardinal neighbours are already committed, and the reverse
// direction on each of those neighbours (§4.H). Both sides of a shared
// border are always rebuilt together: a neighbour's links toward coord
// are never left referencing tile's previous polygon layout.
func (s *TileStore) linkNeighbours(coord Coord, tile *Tile, existed bool) {
	_ = existed
	for dir := navmesh.Direction(0); dir < 4; dir++ {
		nc := neighbourCoord(coord, dir)
		ne, ok := s.entries[nc]
		if !ok {
			continue
		}
		purgeLinksToward(ne.tile, coord)
		purgeLinksToward(tile, nc)
		s.connect(tile, dir, ne.tile, nc)
		s.connect(ne.tile, dir.Opposite(), tile, coord)
	}
}

// purgeLinksToward drops every LinkOffMesh on t that points at
// neighbour, so a stale polygon index never survives a neighbour
// rebuild.
func purgeLinksToward(t *Tile, neighbour Coord) {
	for pi := range t.Polygons {
		poly := &t.Polygons[pi]
		if len(poly.Links) == 0 {
			continue
		}
		kept := poly.Links[:0]
		for _, l := range poly.Links {
			if l.Kind == LinkOffMesh && l.NeighbourTile == neighbour {
				continue
			}
			kept = append(kept, l)
		}
		poly.Links = kept
	}
}

// maxLinksPerEdge caps the number of OffMesh links recorded for a
// single edge (§4.H: "up to 8 connecting polygons per edge are
// recorded; additional matches beyond that are dropped").
const maxLinksPerEdge = 8

// connect resolves from's OffMesh edges facing dir against to's
// OffMesh edges facing the opposite direction, appending a LinkOffMesh
// to every matching edge on from (§4.H). It is grounded on
// detour/mesh.go's connectExtLinks/findConnectingPolys: edges are
// matched by proximity on the shared border plane, then by 2D overlap
// of their projection onto the border line with a tolerance on the
// vertical axis derived from the tile's step height.
func (s *TileStore) connect(from *Tile, dir navmesh.Direction, to *Tile, toCoord Coord) {
	stepWorld := float32(s.stepHeight) * s.params.CellHeight

	for pi := range from.Polygons {
		poly := &from.Polygons[pi]
		for slot, e := range poly.Edges {
			if e.Kind != EdgeOffMesh || e.Direction != dir {
				continue
			}
			va, vb := from.EdgeVertices(pi, slot)
			apos := slabCoord(va, dir)
			amin, amax := calcSlabEndPoints(va, vb, dir)
			matches := 0

			for qi := range to.Polygons {
				if matches >= maxLinksPerEdge {
					break
				}
				qpoly := &to.Polygons[qi]
				for qslot, qe := range qpoly.Edges {
					if qe.Kind != EdgeOffMesh || qe.Direction != dir.Opposite() {
						continue
					}
					vc, vd := to.EdgeVertices(qi, qslot)
					bpos := slabCoord(vc, dir)
					if absf32(apos-bpos) > 0.01 {
						continue
					}
					bmin, bmax := calcSlabEndPoints(vc, vd, dir)
					if !overlapSlabs(amin, amax, bmin, bmax, 0.01, stepWorld) {
						continue
					}

					lo := maxf32(amin[0], bmin[0])
					hi := minf32(amax[0], bmax[0])
					bmin8, bmax8 := quantizeBound(va, vb, dir, lo, hi)

					poly.Links = append(poly.Links, Link{
						Kind:          LinkOffMesh,
						Edge:          uint8(slot),
						NeighbourTile: toCoord,
						NeighbourPoly: uint32(qi),
						Direction:     dir,
						BoundMin:      bmin8,
						BoundMax:      bmax8,
					})
					matches++
					break
				}
			}
		}
	}
}

// edgeAxis returns the vector component index that varies along a
// border edge facing dir: Z for an X-facing border, X for a Z-facing
// one.
func edgeAxis(dir navmesh.Direction) int {
	if dir == navmesh.DirMinusX || dir == navmesh.DirPlusX {
		return 2
	}
	return 0
}

// slabCoord returns the coordinate that is constant along the shared
// border plane facing dir.
func slabCoord(v d3.Vec3, dir navmesh.Direction) float32 {
	if dir == navmesh.DirMinusX || dir == navmesh.DirPlusX {
		return v[0]
	}
	return v[2]
}

// calcSlabEndPoints projects edge va-vb onto (edge-axis, Y), sorted
// ascending by the edge axis.
func calcSlabEndPoints(va, vb d3.Vec3, dir navmesh.Direction) (min, max [2]float32) {
	axis := edgeAxis(dir)
	if va[axis] < vb[axis] {
		return [2]float32{va[axis], va[1]}, [2]float32{vb[axis], vb[1]}
	}
	return [2]float32{vb[axis], vb[1]}, [2]float32{va[axis], va[1]}
}

// overlapSlabs reports whether two projected border segments overlap,
// shrinking each by px along the edge axis and tolerating a vertical
// gap of up to 2*py (§4.H, DESIGN.md's resolution of the y-overlap
// tolerance open question).
func overlapSlabs(amin, amax, bmin, bmax [2]float32, px, py float32) bool {
	minx := maxf32(amin[0]+px, bmin[0]+px)
	maxx := minf32(amax[0]-px, bmax[0]-px)
	if minx > maxx {
		return false
	}

	ad := (amax[1] - amin[1]) / (amax[0] - amin[0])
	ak := amin[1] - ad*amin[0]
	bd := (bmax[1] - bmin[1]) / (bmax[0] - bmin[0])
	bk := bmin[1] - bd*bmin[0]
	aminy := ad*minx + ak
	amaxy := ad*maxx + ak
	bminy := bd*minx + bk
	bmaxy := bd*maxx + bk
	dmin := bminy - aminy
	dmax := bmaxy - amaxy

	if dmin*dmax < 0 {
		return true
	}
	thr := (py * 2) * (py * 2)
	return dmin*dmin <= thr || dmax*dmax <= thr
}

// quantizeBound compresses the traversable sub-interval [lo, hi] of
// edge va-vb (in world units along its edge axis) to a [0,255] bound
// pair relative to the edge's own span (§3).
func quantizeBound(va, vb d3.Vec3, dir navmesh.Direction, lo, hi float32) (uint8, uint8) {
	axis := edgeAxis(dir)
	span := vb[axis] - va[axis]
	if span == 0 {
		return 0, 255
	}
	tmin := (lo - va[axis]) / span
	tmax := (hi - va[axis]) / span
	if tmin > tmax {
		tmin, tmax = tmax, tmin
	}
	return quantize(tmin), quantize(tmax)
}

func quantize(t float32) uint8 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return uint8(t * 255.0)
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
