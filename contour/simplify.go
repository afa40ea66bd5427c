package contour

// simplify runs the two simplification regimes of §4.E: bordered
// contours keep every region-transition vertex and Douglas-Peucker
// simplify each run between transitions; unbordered contours seed with
// the lexicographic min/max vertex instead. Both regimes then split any
// remaining segment whose squared length exceeds maxEdgeLen^2.
func simplify(raw []Vertex, maxError float32, maxEdgeLen uint16) []Vertex {
	if len(raw) < 2 {
		return raw
	}

	bordered := false
	for _, v := range raw {
		if v.BorderRegion() != 0 {
			bordered = true
			break
		}
	}

	var keep []int
	if bordered {
		for i, v := range raw {
			if i == 0 {
				keep = append(keep, i)
				continue
			}
			if v.BorderRegion() != raw[(i-1+len(raw))%len(raw)].BorderRegion() {
				keep = append(keep, i)
			}
		}
		if len(keep) == 0 {
			keep = []int{0}
		}
	} else {
		lo, hi := 0, 0
		for i, v := range raw {
			if v.X < raw[lo].X || (v.X == raw[lo].X && v.Z < raw[lo].Z) {
				lo = i
			}
			if v.X > raw[hi].X || (v.X == raw[hi].X && v.Z > raw[hi].Z) {
				hi = i
			}
		}
		keep = []int{lo, hi}
	}

	result := []Vertex{raw[keep[0]]}
	for k := 0; k < len(keep); k++ {
		a := keep[k]
		b := keep[(k+1)%len(keep)]
		run := sliceLoop(raw, a, b)
		simplified := douglasPeucker(run, maxError)
		result = append(result, simplified[1:]...)
	}

	return splitLongEdges(result, maxEdgeLen)
}

// sliceLoop returns raw[a..b] inclusive, wrapping around the loop if
// b < a.
func sliceLoop(raw []Vertex, a, b int) []Vertex {
	n := len(raw)
	if a <= b {
		out := make([]Vertex, 0, b-a+1)
		for i := a; i <= b; i++ {
			out = append(out, raw[i])
		}
		return out
	}
	out := make([]Vertex, 0, n-a+b+1)
	for i := a; i < n; i++ {
		out = append(out, raw[i])
	}
	for i := 0; i <= b; i++ {
		out = append(out, raw[i])
	}
	return out
}

// douglasPeucker simplifies run (endpoints always kept) against
// squared-distance threshold maxError^2.
func douglasPeucker(run []Vertex, maxError float32) []Vertex {
	if len(run) < 3 {
		return run
	}
	thresholdSqr := maxError * maxError

	keep := make([]bool, len(run))
	keep[0] = true
	keep[len(run)-1] = true

	var recurse func(lo, hi int)
	recurse = func(lo, hi int) {
		if hi-lo < 2 {
			return
		}
		maxDist := float32(-1)
		maxIdx := -1
		for i := lo + 1; i < hi; i++ {
			d := pointSegDistSqr(run[i], run[lo], run[hi])
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}
		if maxIdx >= 0 && maxDist > thresholdSqr {
			keep[maxIdx] = true
			recurse(lo, maxIdx)
			recurse(maxIdx, hi)
		}
	}
	recurse(0, len(run)-1)

	out := make([]Vertex, 0, len(run))
	for i, k := range keep {
		if k {
			out = append(out, run[i])
		}
	}
	return out
}

func pointSegDistSqr(p, a, b Vertex) float32 {
	ax, az := float32(a.X), float32(a.Z)
	bx, bz := float32(b.X), float32(b.Z)
	px, pz := float32(p.X), float32(p.Z)

	dx, dz := bx-ax, bz-az
	lenSqr := dx*dx + dz*dz
	if lenSqr < 1e-12 {
		ddx, ddz := px-ax, pz-az
		return ddx*ddx + ddz*ddz
	}
	t := ((px-ax)*dx + (pz-az)*dz) / lenSqr
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	cx, cz := ax+t*dx, az+t*dz
	ddx, ddz := px-cx, pz-cz
	return ddx*ddx + ddz*ddz
}

// splitLongEdges inserts one new vertex into each segment whose squared
// length exceeds maxEdgeLen^2 (§4.E): the segment's XZ midpoint from
// midBiased, with Y averaged. The vertex is computed, not taken from the
// raw contour, and each segment is split at most once, so a segment
// longer than 2*maxEdgeLen still exceeds maxEdgeLen afterward. The
// midpoint does not depend on which way the segment is traversed.
func splitLongEdges(v []Vertex, maxEdgeLen uint16) []Vertex {
	if maxEdgeLen == 0 || len(v) < 2 {
		return v
	}
	thresholdSqr := int64(maxEdgeLen) * int64(maxEdgeLen)

	out := make([]Vertex, 0, len(v)*2)
	n := len(v)
	for i := 0; i < n; i++ {
		a := v[i]
		b := v[(i+1)%n]
		out = append(out, a)
		dx := int64(b.X - a.X)
		dz := int64(b.Z - a.Z)
		lenSqr := dx*dx + dz*dz
		if lenSqr > thresholdSqr {
			mid := Vertex{
				X: midBiased(a.X, b.X),
				Z: midBiased(a.Z, b.Z),
				Y: (a.Y + b.Y) / 2,
			}
			out = append(out, mid)
		}
	}
	return out
}

func midBiased(a, b int32) int32 {
	sum := a + b
	if sum < 0 {
		// negative sum: round toward zero (the same result as sum / 2)
		return -((-sum) / 2)
	}
	return sum / 2
}
