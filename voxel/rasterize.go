package voxel

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// maxClipVertices bounds the scratch polygon buffer used while clipping
// a triangle to one column: clipping a triangle against two successive
// perpendicular planes can add at most four vertices to the original
// three, so seven slots always suffice (§4.A).
const maxClipVertices = 7

// IsTraversable reports whether the triangle with unit normal n meets
// the slope threshold: acos(n . up) <= maxSlopeRadians.
func IsTraversable(n d3.Vec3, maxSlopeRadians float32) bool {
	return math32.Acos(n.Y()) <= maxSlopeRadians
}

// TriangleNormal returns the (non-unit) normal of triangle (a, b, c).
func TriangleNormal(a, b, c d3.Vec3) d3.Vec3 {
	e0 := b.Sub(a)
	e1 := c.Sub(a)
	return e0.Cross(e1)
}

// Rasterize clips triangle (a, b, c) into hf's bordered grid and
// inserts the resulting column spans. World-space vertices are assumed
// already tile-local in Y (world Y is unchanged by the tile frame).
// Triangles lying entirely outside the bordered grid are silently
// skipped, matching the voxelizer's "no recoverable errors" contract
// (§4.A) — callers are responsible for logging adapter-level skips.
func Rasterize(hf *Heightfield, a, b, c d3.Vec3, traversable bool, area Area) {
	minX, minZ, maxX, maxZ := hf.Frame.Bounds()

	triMinX := min3(a.X(), b.X(), c.X())
	triMaxX := max3(a.X(), b.X(), c.X())
	triMinZ := min3(a.Z(), b.Z(), c.Z())
	triMaxZ := max3(a.Z(), b.Z(), c.Z())
	if triMaxX < minX || triMinX > maxX || triMaxZ < minZ || triMinZ > maxZ {
		return
	}

	cw := hf.Frame.CellWidth()
	h0 := (triMinZ - minZ) / cw
	h1 := (triMaxZ - minZ) / cw

	z0 := clampi(int32(math32.Floor(h0)), 0, hf.Height-1)
	z1 := clampi(int32(math32.Floor(h1)), 0, hf.Height-1)

	var buf, rowClipped, colClipped [maxClipVertices]d3.Vec3
	in := buf[:0]
	in = append(in, a, b, c)

	for z := z0; z <= z1; z++ {
		rowMinZ := minZ + float32(z)*cw
		rowMaxZ := rowMinZ + cw

		row := clipPolygon(in, rowClipped[:0], 2, -rowMinZ, 1)
		if len(row) < 3 {
			continue
		}
		row = clipPolygon(row, rowClipped[:0], 2, rowMaxZ, -1)
		if len(row) < 3 {
			continue
		}

		rowMinX := min3Poly(row, 0)
		rowMaxX := max3Poly(row, 0)
		colX0 := clampi(int32(math32.Floor((rowMinX-minX)/cw)), 0, hf.Width-1)
		colX1 := clampi(int32(math32.Floor((rowMaxX-minX)/cw)), 0, hf.Width-1)

		for x := colX0; x <= colX1; x++ {
			colMinX := minX + float32(x)*cw
			colMaxX := colMinX + cw

			col := clipPolygon(row, colClipped[:0], 0, -colMinX, 1)
			if len(col) < 3 {
				continue
			}
			col = clipPolygon(col, colClipped[:0], 0, colMaxX, -1)
			if len(col) < 3 {
				continue
			}

			fragMinY := col[0].Y()
			fragMaxY := col[0].Y()
			for _, v := range col[1:] {
				if v.Y() < fragMinY {
					fragMinY = v.Y()
				}
				if v.Y() > fragMaxY {
					fragMaxY = v.Y()
				}
			}
			ch := hf.Frame.CellHeight()
			minY := clampi(int32(math32.Floor((fragMinY-hf.bottomY())/ch)), 0, 1<<30)
			maxY := clampi(int32(math32.Ceil((fragMaxY-hf.bottomY())/ch)), 0, 1<<30)
			if minY > 0xffff {
				minY = 0xffff
			}
			if maxY > 0xffff {
				maxY = 0xffff
			}
			hf.AddSpan(x, z, uint16(minY), uint16(maxY), traversable, area)
		}
	}
}

// bottomY exposes the world Y origin the heightfield quantizes against.
// Kept as a method so Rasterize does not need to know the frame's
// internal field layout.
func (hf *Heightfield) bottomY() float32 {
	return hf.Frame.CellToWorldY(0)
}

// clipPolygon clips a convex polygon against the half-plane
// sign*(axis==0?x:z) + offset >= 0, writing into out (reused scratch
// storage) and returning the clipped vertex slice.
func clipPolygon(in, out []d3.Vec3, axis int, offset, sign float32) []d3.Vec3 {
	n := len(in)
	if n == 0 {
		return out
	}
	in = append(make([]d3.Vec3, 0, n), in...) // out may share in's backing array
	dists := make([]float32, n)
	for i, v := range in {
		var c float32
		if axis == 0 {
			c = v.X()
		} else {
			c = v.Z()
		}
		dists[i] = sign*c + offset
	}
	for i := 0; i < n; i++ {
		j := (i + n - 1) % n
		inI := dists[i] >= 0
		inJ := dists[j] >= 0
		if inI != inJ {
			t := dists[j] / (dists[j] - dists[i])
			out = append(out, in[j].Lerp(in[i], t))
		}
		if inI {
			out = append(out, in[i])
		}
	}
	return out
}

func min3(a, b, c float32) float32 { return minf(minf(a, b), c) }
func max3(a, b, c float32) float32 { return maxf(maxf(a, b), c) }

func min3Poly(v []d3.Vec3, axis int) float32 {
	m := comp(v[0], axis)
	for _, p := range v[1:] {
		if c := comp(p, axis); c < m {
			m = c
		}
	}
	return m
}

func max3Poly(v []d3.Vec3, axis int) float32 {
	m := comp(v[0], axis)
	for _, p := range v[1:] {
		if c := comp(p, axis); c > m {
			m = c
		}
	}
	return m
}

func comp(v d3.Vec3, axis int) float32 {
	if axis == 0 {
		return v.X()
	}
	return v.Z()
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampi(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
