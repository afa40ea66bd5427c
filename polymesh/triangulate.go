package polymesh

// triangulate ear-clips the polygon given by indices into vertices
// into a set of triangles, preferring the ear whose new diagonal has
// minimum squared length, falling back to a relaxed visibility test
// when no strict ear exists (§4.F). Returns ok=false when indices has
// fewer than three entries, or when no ear passes even the relaxed
// test (the triangles clipped so far are returned with it).
func triangulate(vertices []Vertex, indices []uint32) ([][3]uint32, bool) {
	n := len(indices)
	if n < 3 {
		return nil, false
	}
	ring := append([]uint32{}, indices...)

	var tris [][3]uint32
	loose := false
	for len(ring) > 3 {
		ear := findEar(vertices, ring, loose)
		if ear < 0 {
			if !loose {
				loose = true
				continue
			}
			return tris, false
		}
		m := len(ring)
		prev := (ear - 1 + m) % m
		next := (ear + 1) % m
		tris = append(tris, [3]uint32{ring[prev], ring[ear], ring[next]})
		ring = append(ring[:ear], ring[ear+1:]...)
		loose = false
	}
	if len(ring) == 3 {
		tris = append(tris, [3]uint32{ring[0], ring[1], ring[2]})
	}
	return tris, true
}

// findEar scans for the best ear tip by minimum new-edge squared
// length; loose relaxes the point-in-triangle containment test used to
// validate a candidate ear, for near-collinear layouts from coarse
// grids.
func findEar(vertices []Vertex, ring []uint32, loose bool) int {
	n := len(ring)
	best := -1
	bestLenSqr := int64(1) << 62

	for i := 0; i < n; i++ {
		prev := (i - 1 + n) % n
		next := (i + 1) % n
		a := vertices[ring[prev]]
		b := vertices[ring[i]]
		c := vertices[ring[next]]

		if !isConvex(a, b, c) {
			continue
		}
		if !diagonalClear(vertices, ring, prev, next, loose) {
			continue
		}
		dx := int64(c.X - a.X)
		dz := int64(c.Z - a.Z)
		lenSqr := dx*dx + dz*dz
		if lenSqr < bestLenSqr {
			bestLenSqr = lenSqr
			best = i
		}
	}
	return best
}

func isConvex(a, b, c Vertex) bool {
	cross := int64(b.X-a.X)*int64(c.Z-a.Z) - int64(c.X-a.X)*int64(b.Z-a.Z)
	return cross > 0
}

// diagonalClear reports whether the candidate diagonal (ring[prev],
// ring[next]) contains no other ring vertex strictly inside the ear
// triangle. loose widens the containment test (in_cone_loose +
// diagonalie_loose in the teacher's naming) to admit near-degenerate
// triangles on coarse grids.
func diagonalClear(vertices []Vertex, ring []uint32, prev, next int, loose bool) bool {
	n := len(ring)
	a := vertices[ring[prev]]
	b := vertices[ring[(prev+1)%n]]
	c := vertices[ring[next]]

	for k := 0; k < n; k++ {
		if k == prev || k == next || k == (prev+1)%n {
			continue
		}
		p := vertices[ring[k]]
		if pointInTriangle(p, a, b, c, loose) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c Vertex, loose bool) bool {
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)

	if loose {
		// relaxed: allow points exactly on an edge through, since
		// strict visibility can spuriously reject valid ears on
		// collinear coarse-grid contours.
		return (d1 > 0 && d2 > 0 && d3 > 0) || (d1 < 0 && d2 < 0 && d3 < 0)
	}

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos) && (d1 != 0 || d2 != 0 || d3 != 0)
}

func sign(p, a, b Vertex) int64 {
	return int64(p.X-b.X)*int64(a.Z-b.Z) - int64(a.X-b.X)*int64(p.Z-b.Z)
}
