package polymesh

import (
	"github.com/arl/math32"

	"github.com/talusforge/navmesh/field"
)

// DetailVertex is one vertex of a detail mesh, sharing the polygon
// tile's cell-space coordinate system but carrying a height-corrected Y
// sampled from the source heightfield rather than the coarse polygon
// surface (§4.G).
type DetailVertex struct {
	X, Y, Z float32
}

// DetailMesh holds the extra vertices and triangles produced for one
// polygon when detail mesh generation is enabled. It shares the owning
// polygon's logical identity: index i here corresponds to
// Mesh.Polygons[i].
type DetailMesh struct {
	Vertices  [][]DetailVertex
	Triangles [][][3]uint32
}

// searchRadius bounds the getHeight spiral search (§4.G).
const searchRadius = 8

// BuildDetailMesh samples ohf's heightfield to add height-corrected
// vertices to every polygon of mesh, resampling hull edges at
// sampleDistance intervals and adding interior samples on a
// sampleDistance grid, re-triangulating until no sample's height error
// exceeds maxHeightError.
func BuildDetailMesh(mesh *Mesh, ohf *field.OpenHeightfield, sampleDistance uint32, maxHeightError uint16) *DetailMesh {
	dm := &DetailMesh{
		Vertices:  make([][]DetailVertex, len(mesh.Polygons)),
		Triangles: make([][][3]uint32, len(mesh.Polygons)),
	}

	for pi, poly := range mesh.Polygons {
		hull := make([]DetailVertex, 3)
		for i, idx := range poly.Indices {
			v := mesh.Vertices[idx]
			hull[i] = DetailVertex{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
		}

		edgeSamples := resampleHull(hull, sampleDistance, ohf, maxHeightError)
		interior := interiorSamples(hull, sampleDistance, ohf)
		verts, tris := triangulateDetail(edgeSamples, interior, maxHeightError)

		dm.Vertices[pi] = verts
		dm.Triangles[pi] = tris
	}
	return dm
}

// resampleHull walks each hull edge, densely sampling get-height values
// every sampleDistance cells and Douglas-Peucker-simplifying the run
// against maxHeightError^2, the way recast's detail mesh builder
// tessellates polygon edges in a separate pass before the interior
// fill, to keep height seams consistent across shared edges.
func resampleHull(hull []DetailVertex, sampleDistance uint32, ohf *field.OpenHeightfield, maxHeightError uint16) []DetailVertex {
	if sampleDistance == 0 {
		return append([]DetailVertex{}, hull...)
	}
	n := len(hull)
	var out []DetailVertex
	for i := 0; i < n; i++ {
		a := hull[i]
		b := hull[(i+1)%n]

		dx := b.X - a.X
		dz := b.Z - a.Z
		length := math32.Sqrt(dx*dx + dz*dz)
		steps := int(length / float32(sampleDistance))
		if steps < 1 {
			steps = 1
		}

		dense := make([]DetailVertex, steps+1)
		for s := 0; s <= steps; s++ {
			t := float32(s) / float32(steps)
			x := a.X + dx*t
			z := a.Z + dz*t
			y, ok := getHeight(ohf, x, z)
			if !ok {
				y = a.Y + (b.Y-a.Y)*t
			}
			dense[s] = DetailVertex{X: x, Y: y, Z: z}
		}
		dense[0], dense[steps] = a, b

		simplified := simplifyEdgeSamples(dense, maxHeightError)
		out = append(out, simplified[:len(simplified)-1]...)
	}
	return out
}

// simplifyEdgeSamples keeps dense's endpoints and recursively inserts
// whichever interior sample deviates most from the segment spanning its
// current bracket, stopping once every bracket's worst deviation is
// within maxHeightError^2 — classic Douglas-Peucker, matching
// buildPolyDetail's edge-simplification loop.
func simplifyEdgeSamples(dense []DetailVertex, maxHeightError uint16) []DetailVertex {
	if len(dense) <= 2 {
		return dense
	}
	idx := []int{0, len(dense) - 1}
	thr := float32(maxHeightError) * float32(maxHeightError)

	for k := 0; k < len(idx)-1; {
		a, b := idx[k], idx[k+1]
		va, vb := dense[a], dense[b]

		var maxd float32
		maxi := -1
		for m := a + 1; m < b; m++ {
			dev := distPtSeg3DSqr(dense[m], va, vb)
			if dev > maxd {
				maxd = dev
				maxi = m
			}
		}

		if maxi != -1 && maxd > thr {
			idx = insertAt(idx, k+1, maxi)
		} else {
			k++
		}
	}

	out := make([]DetailVertex, len(idx))
	for i, ix := range idx {
		out[i] = dense[ix]
	}
	return out
}

func insertAt(s []int, pos, v int) []int {
	s = append(s, 0)
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}

// distPtSeg3DSqr returns the squared distance from pt to the closest
// point on segment p-q in full 3D.
func distPtSeg3DSqr(pt, p, q DetailVertex) float32 {
	pqx, pqy, pqz := q.X-p.X, q.Y-p.Y, q.Z-p.Z
	dx, dy, dz := pt.X-p.X, pt.Y-p.Y, pt.Z-p.Z
	d := pqx*pqx + pqy*pqy + pqz*pqz
	t := pqx*dx + pqy*dy + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx = p.X + t*pqx - pt.X
	dy = p.Y + t*pqy - pt.Y
	dz = p.Z + t*pqz - pt.Z
	return dx*dx + dy*dy + dz*dz
}

// interiorSamples lays a sampleDistance grid over the hull's bounding
// box and keeps points that fall inside it, each height-corrected via
// getHeight.
func interiorSamples(hull []DetailVertex, sampleDistance uint32, ohf *field.OpenHeightfield) []DetailVertex {
	if sampleDistance == 0 {
		return nil
	}
	minX, minZ, maxX, maxZ := hull[0].X, hull[0].Z, hull[0].X, hull[0].Z
	for _, v := range hull[1:] {
		minX, maxX = minf32(minX, v.X), maxf32(maxX, v.X)
		minZ, maxZ = minf32(minZ, v.Z), maxf32(maxZ, v.Z)
	}

	var out []DetailVertex
	step := float32(sampleDistance)
	for z := minZ + step; z < maxZ; z += step {
		for x := minX + step; x < maxX; x += step {
			if !pointInHull(hull, x, z) {
				continue
			}
			y, ok := getHeight(ohf, x, z)
			if !ok {
				continue
			}
			out = append(out, DetailVertex{X: x, Y: y, Z: z})
		}
	}
	return out
}

func pointInHull(hull []DetailVertex, x, z float32) bool {
	inside := false
	n := len(hull)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, zi := hull[i].X, hull[i].Z
		xj, zj := hull[j].X, hull[j].Z
		if ((zi > z) != (zj > z)) && (x < (xj-xi)*(z-zi)/(zj-zi)+xi) {
			inside = !inside
		}
	}
	return inside
}

// getHeight performs the spiral search of §4.G: expanding 1-ring,
// 2-ring, ... rings around (x, z) until a column with an open span is
// found or searchRadius rings are exhausted.
func getHeight(ohf *field.OpenHeightfield, x, z float32) (float32, bool) {
	cx, cz := int32(x), int32(z)
	if h, ok := sampleColumn(ohf, cx, cz); ok {
		return h, true
	}
	for ring := int32(1); ring <= searchRadius; ring++ {
		for dz := -ring; dz <= ring; dz++ {
			for dx := -ring; dx <= ring; dx++ {
				if absI32(dx) != ring && absI32(dz) != ring {
					continue
				}
				if h, ok := sampleColumn(ohf, cx+dx, cz+dz); ok {
					return h, true
				}
			}
		}
	}
	return 0, false
}

func sampleColumn(ohf *field.OpenHeightfield, c, r int32) (float32, bool) {
	spans := ohf.CellSpans(c, r)
	if len(spans) == 0 {
		return 0, false
	}
	return float32(spans[0].Min), true
}

// edgeUndef marks a hullEdge face as not yet resolved; edgeHull marks
// it resolved against the open hull boundary rather than a triangle,
// matching recast/meshdetail.go's EV_UNDEF/EV_HULL sentinels.
const (
	edgeUndef int32 = -1
	edgeHull  int32 = -2
)

// hullEdge is one edge of the growing triangulation: S->T with the
// face index (or sentinel) left of the edge and left of its reverse.
type hullEdge struct {
	S, T        int32
	Left, Right int32
}

// triCross2D returns twice the signed XZ area of p1,p2,p3: positive
// when p3 is left of the directed edge p1->p2.
func triCross2D(p1, p2, p3 DetailVertex) float32 {
	return (p2.X-p1.X)*(p3.Z-p1.Z) - (p2.Z-p1.Z)*(p3.X-p1.X)
}

func dist2D(a, b DetailVertex) float32 {
	dx, dz := a.X-b.X, a.Z-b.Z
	return math32.Sqrt(dx*dx + dz*dz)
}

// circumCircle2D returns the XZ circumcircle of p1,p2,p3, projecting
// out Y; ok is false when the three points are collinear in XZ.
func circumCircle2D(p1, p2, p3 DetailVertex) (c DetailVertex, r float32, ok bool) {
	const eps float32 = 1e-6

	v2x, v2z := p2.X-p1.X, p2.Z-p1.Z
	v3x, v3z := p3.X-p1.X, p3.Z-p1.Z

	cp := v2x*v3z - v2z*v3x
	if math32.Abs(cp) <= eps {
		return p1, 0, false
	}

	v2Sq := v2x*v2x + v2z*v2z
	v3Sq := v3x*v3x + v3z*v3z
	cx := (v2Sq*v3z - v3Sq*v2z) / (2 * cp)
	cz := (v3Sq*v2x - v2Sq*v3x) / (2 * cp)
	r = math32.Sqrt(cx*cx + cz*cz)
	c = DetailVertex{X: cx + p1.X, Y: 0, Z: cz + p1.Z}
	return c, r, true
}

// overlapSegSeg2D reports whether segments a-b and c-d cross in XZ.
func overlapSegSeg2D(a, b, c, d DetailVertex) bool {
	a1 := triCross2D(a, b, d)
	a2 := triCross2D(a, b, c)
	if a1*a2 < 0 {
		a3 := triCross2D(c, d, a)
		a4 := a3 + a2 - a1
		if a3*a4 < 0 {
			return true
		}
	}
	return false
}

// overlapEdges reports whether the prospective edge s1-t1 would cross
// any edge already in the triangulation (ignoring edges that share an
// endpoint, which never overlap).
func overlapEdges(pts []DetailVertex, edges []hullEdge, s1, t1 int32) bool {
	for _, e := range edges {
		if e.S == s1 || e.S == t1 || e.T == s1 || e.T == t1 {
			continue
		}
		if overlapSegSeg2D(pts[e.S], pts[e.T], pts[s1], pts[t1]) {
			return true
		}
	}
	return false
}

func findEdgeIdx(edges []hullEdge, s, t int32) int {
	for i, e := range edges {
		if (e.S == s && e.T == t) || (e.S == t && e.T == s) {
			return i
		}
	}
	return -1
}

func addEdgeIfMissing(edges *[]hullEdge, s, t, left, right int32) {
	if findEdgeIdx(*edges, s, t) != -1 {
		return
	}
	*edges = append(*edges, hullEdge{S: s, T: t, Left: left, Right: right})
}

func updateLeftFaceAt(edges []hullEdge, idx int, s, t, f int32) {
	e := edges[idx]
	if e.S == s && e.T == t && e.Left == edgeUndef {
		edges[idx].Left = f
	} else if e.T == s && e.S == t && e.Right == edgeUndef {
		edges[idx].Right = f
	}
}

// completeFacet resolves edge e's unset face (left or right, whichever
// is still edgeUndef) by finding the point that, together with e's
// endpoints, forms a Delaunay-valid triangle: the point whose
// circumcircle contains no other candidate, ties broken by rejecting
// points whose connecting edges would cross existing ones. Matches
// recast/meshdetail.go's completeFacet/circumCircle pairing.
func completeFacet(pts []DetailVertex, edges *[]hullEdge, nfaces *int32, e int32) {
	const eps float32 = 1e-5

	edge := (*edges)[e]
	var s, t int32
	switch {
	case edge.Left == edgeUndef:
		s, t = edge.S, edge.T
	case edge.Right == edgeUndef:
		s, t = edge.T, edge.S
	default:
		return
	}

	npts := int32(len(pts))
	pt := npts
	var c DetailVertex
	r := float32(-1)

	for u := int32(0); u < npts; u++ {
		if u == s || u == t {
			continue
		}
		if triCross2D(pts[s], pts[t], pts[u]) <= eps {
			continue
		}
		if r < 0 {
			pt = u
			c, r, _ = circumCircle2D(pts[s], pts[t], pts[u])
			continue
		}
		d := dist2D(c, pts[u])
		const tol = 0.001
		switch {
		case d > r*(1+tol):
			// Outside current circumcircle, skip.
		case d < r*(1-tol):
			pt = u
			c, r, _ = circumCircle2D(pts[s], pts[t], pts[u])
		default:
			if overlapEdges(pts, *edges, s, u) || overlapEdges(pts, *edges, t, u) {
				continue
			}
			pt = u
			c, r, _ = circumCircle2D(pts[s], pts[t], pts[u])
		}
	}

	if pt >= npts {
		updateLeftFaceAt(*edges, int(e), s, t, edgeHull)
		return
	}

	updateLeftFaceAt(*edges, int(e), s, t, *nfaces)

	if idx := findEdgeIdx(*edges, pt, s); idx == -1 {
		addEdgeIfMissing(edges, pt, s, *nfaces, edgeUndef)
	} else {
		updateLeftFaceAt(*edges, idx, pt, s, *nfaces)
	}

	if idx := findEdgeIdx(*edges, t, pt); idx == -1 {
		addEdgeIfMissing(edges, t, pt, *nfaces, edgeUndef)
	} else {
		updateLeftFaceAt(*edges, idx, t, pt, *nfaces)
	}

	*nfaces++
}

// delaunayTriangulate builds a Delaunay triangulation of pts, seeded
// from the boundary loop hull (indices into pts, in hull order), by
// completing every hull edge's open face and then every edge that
// completing discovers, until none remain unresolved. Grounded on
// recast/meshdetail.go's delaunayHull, adapted to leave both faces of
// each seed edge open (edgeUndef rather than presetting one side to
// edgeHull): recast's hull always arrives in one fixed winding, so it
// can assume which side is exterior up front, but nothing in this
// package guarantees a winding for polygon hulls, and completeFacet
// already discovers the exterior side on its own — no sample point
// ever lies outside the hull, so the true exterior side of a boundary
// edge never finds a circumcircle candidate regardless of which side
// is checked first.
func delaunayTriangulate(pts []DetailVertex, hull []int32) [][3]uint32 {
	var edges []hullEdge
	var nfaces int32

	n := int32(len(hull))
	j := n - 1
	for i := int32(0); i < n; i++ {
		addEdgeIfMissing(&edges, hull[j], hull[i], edgeUndef, edgeUndef)
		j = i
	}

	for cur := 0; cur < len(edges); cur++ {
		if edges[cur].Left == edgeUndef {
			completeFacet(pts, &edges, &nfaces, int32(cur))
		}
		if edges[cur].Right == edgeUndef {
			completeFacet(pts, &edges, &nfaces, int32(cur))
		}
	}

	tris := make([][3]int32, nfaces)
	for i := range tris {
		tris[i] = [3]int32{-1, -1, -1}
	}
	for _, e := range edges {
		if e.Right >= 0 {
			t := &tris[e.Right]
			switch {
			case t[0] == -1:
				t[0], t[1] = e.S, e.T
			case t[0] == e.T:
				t[2] = e.S
			case t[1] == e.S:
				t[2] = e.T
			}
		}
		if e.Left >= 0 {
			t := &tris[e.Left]
			switch {
			case t[0] == -1:
				t[0], t[1] = e.T, e.S
			case t[0] == e.S:
				t[2] = e.T
			case t[1] == e.T:
				t[2] = e.S
			}
		}
	}

	out := make([][3]uint32, 0, len(tris))
	for _, t := range tris {
		if t[0] == -1 || t[1] == -1 || t[2] == -1 {
			// Dangling face: a hull edge whose outer side never
			// resolved to a triangle. Dropped rather than rebuilt from
			// the tail slot, the way recast's untested removal branch
			// would have.
			continue
		}
		out = append(out, [3]uint32{uint32(t[0]), uint32(t[1]), uint32(t[2])})
	}
	return out
}

// heightErrorInTriangle returns the vertical distance from p to the
// triangle a,b,c's surface at p's XZ location, or -1 if p's XZ
// projection falls outside the triangle.
func heightErrorInTriangle(p, a, b, c DetailVertex) float32 {
	v0 := DetailVertex{X: c.X - a.X, Y: c.Y - a.Y, Z: c.Z - a.Z}
	v1 := DetailVertex{X: b.X - a.X, Y: b.Y - a.Y, Z: b.Z - a.Z}
	v2x, v2z := p.X-a.X, p.Z-a.Z

	dot00 := v0.X*v0.X + v0.Z*v0.Z
	dot01 := v0.X*v1.X + v0.Z*v1.Z
	dot02 := v0.X*v2x + v0.Z*v2z
	dot11 := v1.X*v1.X + v1.Z*v1.Z
	dot12 := v1.X*v2x + v1.Z*v2z

	invDenom := 1 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	const eps = 1e-4
	if u < -eps || v < -eps || u+v > 1+eps {
		return -1
	}
	y := a.Y + v0.Y*u + v1.Y*v
	return math32.Abs(y - p.Y)
}

// heightErrorAgainstMesh returns the minimum height error of p against
// whichever triangle of tris contains p's XZ projection, or -1 if none
// does (matching recast/meshdetail.go's distToTriMesh).
func heightErrorAgainstMesh(p DetailVertex, verts []DetailVertex, tris [][3]uint32) float32 {
	best := float32(-1)
	for _, t := range tris {
		d := heightErrorInTriangle(p, verts[t[0]], verts[t[1]], verts[t[2]])
		if d < 0 {
			continue
		}
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// triangulateDetail Delaunay-triangulates hull (already resampled and
// DP-simplified edge samples, in boundary order) and then, as long as
// any interior sample's height error against the current mesh exceeds
// maxHeightError, inserts the single worst such sample and fully
// re-triangulates — the iterative refinement buildPolyDetail performs
// (its own comment notes the full rebuild is a known TODO for
// incremental insertion, not a shortcut taken here).
func triangulateDetail(hull []DetailVertex, interior []DetailVertex, maxHeightError uint16) ([]DetailVertex, [][3]uint32) {
	if len(hull) < 3 {
		return append([]DetailVertex{}, hull...), nil
	}

	verts := append([]DetailVertex{}, hull...)
	hullIdx := make([]int32, len(hull))
	for i := range hullIdx {
		hullIdx[i] = int32(i)
	}

	tris := delaunayTriangulate(verts, hullIdx)
	if len(interior) == 0 {
		return verts, tris
	}

	thr := float32(maxHeightError)
	added := make([]bool, len(interior))

	for iter := 0; iter < len(interior); iter++ {
		besti := -1
		var bestErr float32
		for i, s := range interior {
			if added[i] {
				continue
			}
			d := heightErrorAgainstMesh(s, verts, tris)
			if d < 0 {
				continue
			}
			if d > bestErr {
				bestErr = d
				besti = i
			}
		}
		if besti == -1 || bestErr <= thr {
			break
		}

		added[besti] = true
		verts = append(verts, interior[besti])
		tris = delaunayTriangulate(verts, hullIdx)
	}

	return verts, tris
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
