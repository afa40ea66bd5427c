package voxel

import "github.com/arl/gogeo/f32/d3"

// MarkConvexVolumeArea overwrites the area of every traversable span
// whose column center falls inside the convex polygon verts (XZ,
// tile-local cell coordinates) and whose floor lies within [minY,
// maxY], assigning area. This supplements the base voxelizer (§4.A only
// derives area from triangle membership) the way convex volume markers
// let hosts carve special-area regions — water, lava, roads — without
// retriangulating the source collider, mirroring the teacher's
// MarkConvexPolyArea.
func MarkConvexVolumeArea(hf *Heightfield, verts []d3.Vec3, minY, maxY uint16, area Area) {
	if len(verts) < 3 {
		return
	}
	minC, maxC, minR, maxR := hf.Width-1, int32(0), hf.Height-1, int32(0)
	for _, v := range verts {
		c := int32(v.X())
		r := int32(v.Z())
		if c < minC {
			minC = c
		}
		if c > maxC {
			maxC = c
		}
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}
	minC = clampi(minC, 0, hf.Width-1)
	maxC = clampi(maxC, 0, hf.Width-1)
	minR = clampi(minR, 0, hf.Height-1)
	maxR = clampi(maxR, 0, hf.Height-1)

	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			if !pointInPoly(verts, float32(c)+0.5, float32(r)+0.5) {
				continue
			}
			idx := hf.index(c, r)
			spans := hf.columns[idx]
			for i := range spans {
				if !spans[i].Traversable {
					continue
				}
				if spans[i].Max >= minY && spans[i].Max <= maxY {
					spans[i].Area = area
				}
			}
		}
	}
}

// pointInPoly is a standard even-odd crossing test over the XZ plane.
func pointInPoly(verts []d3.Vec3, px, pz float32) bool {
	inside := false
	n := len(verts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, zi := verts[i].X(), verts[i].Z()
		xj, zj := verts[j].X(), verts[j].Z()
		if ((zi > pz) != (zj > pz)) &&
			(px < (xj-xi)*(pz-zi)/(zj-zi)+xi) {
			inside = !inside
		}
	}
	return inside
}
