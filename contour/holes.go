package contour

// MergeHoles groups contours by region and merges each region's hole
// loops into its outline by finding a non-intersecting diagonal from
// the hole's leftmost vertex to a visible outline vertex (§4.E). A hole
// with no visible diagonal after trying every rotation of its start
// vertex is dropped (reported through warnf). Regions are processed in
// the order they first appear in contours.
func MergeHoles(contours []Contour, warnf func(format string, args ...interface{})) []Contour {
	byRegion := map[uint16][]int{}
	var order []uint16
	for i, c := range contours {
		if _, seen := byRegion[c.Region]; !seen {
			order = append(order, c.Region)
		}
		byRegion[c.Region] = append(byRegion[c.Region], i)
	}

	var out []Contour
	for _, region := range order {
		idxs := byRegion[region]
		var outline *Contour
		var holes []*Contour
		for _, i := range idxs {
			c := &contours[i]
			if IsOutline(c.Vertices) {
				if outline == nil {
					outline = c
				} else {
					// a second outline in the same region: keep both,
					// merging holes only into the first.
					out = append(out, *c)
				}
				continue
			}
			holes = append(holes, c)
		}
		if outline == nil {
			for _, h := range holes {
				out = append(out, *h)
			}
			continue
		}

		merged := append([]Vertex{}, outline.Vertices...)
		for _, h := range holes {
			var ok bool
			merged, ok = mergeOneHole(merged, h.Vertices)
			if !ok {
				warnf("contour: region %d: hole has no visible diagonal, skipping", region)
			}
		}
		out = append(out, Contour{Region: region, Area: outline.Area, Vertices: merged, Raw: outline.Raw})
	}
	return out
}

// mergeOneHole finds a visible diagonal between hole's leftmost vertex
// and an outline vertex and splices the hole into outline along it.
func mergeOneHole(outline, hole []Vertex) ([]Vertex, bool) {
	if len(hole) == 0 {
		return outline, true
	}
	leftmost := 0
	for i, v := range hole {
		if v.X < hole[leftmost].X || (v.X == hole[leftmost].X && v.Z < hole[leftmost].Z) {
			leftmost = i
		}
	}

	for rot := 0; rot < len(hole); rot++ {
		hStart := (leftmost + rot) % len(hole)
		best := -1
		bestDistSqr := int64(1) << 62
		for j := range outline {
			if segmentIntersectsAny(outline[j], hole[hStart], outline) {
				continue
			}
			if segmentIntersectsAny(outline[j], hole[hStart], hole) {
				continue
			}
			d := distSqr(outline[j], hole[hStart])
			if d < bestDistSqr {
				bestDistSqr = d
				best = j
			}
		}
		if best < 0 {
			continue
		}
		return spliceHole(outline, hole, best, hStart), true
	}
	return outline, false
}

// spliceHole inserts hole (rotated to start at hStart) into outline at
// position outIdx via a double bridge, the standard way of folding a
// hole polygon into its outline as a single simple loop.
func spliceHole(outline, hole []Vertex, outIdx, hStart int) []Vertex {
	rotatedHole := make([]Vertex, 0, len(hole)+1)
	for i := 0; i < len(hole); i++ {
		rotatedHole = append(rotatedHole, hole[(hStart+i)%len(hole)])
	}
	rotatedHole = append(rotatedHole, rotatedHole[0])

	out := make([]Vertex, 0, len(outline)+len(rotatedHole)+1)
	out = append(out, outline[:outIdx+1]...)
	out = append(out, rotatedHole...)
	out = append(out, outline[outIdx:]...)
	return out
}

func distSqr(a, b Vertex) int64 {
	dx := int64(a.X - b.X)
	dz := int64(a.Z - b.Z)
	return dx*dx + dz*dz
}

// segmentIntersectsAny reports whether segment (a,b) properly
// intersects any edge of loop other than ones sharing an endpoint with
// it.
func segmentIntersectsAny(a, b Vertex, loop []Vertex) bool {
	n := len(loop)
	for i := 0; i < n; i++ {
		c := loop[i]
		d := loop[(i+1)%n]
		if sameXZ(a, c) || sameXZ(a, d) || sameXZ(b, c) || sameXZ(b, d) {
			continue
		}
		if segmentsIntersect(a, b, c, d) {
			return true
		}
	}
	return false
}

func sameXZ(a, b Vertex) bool { return a.X == b.X && a.Z == b.Z }

func segmentsIntersect(a, b, c, d Vertex) bool {
	d1 := cross2D(c, d, a)
	d2 := cross2D(c, d, b)
	d3 := cross2D(a, b, c)
	d4 := cross2D(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

func cross2D(a, b, p Vertex) int64 {
	return int64(b.X-a.X)*int64(p.Z-a.Z) - int64(b.Z-a.Z)*int64(p.X-a.X)
}
