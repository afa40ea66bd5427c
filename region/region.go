// Package region watershed-partitions the open spans of a
// field.OpenHeightfield into contiguous Regions, then merges and culls
// them by area (§4.D).
package region

import (
	"github.com/talusforge/navmesh/field"
	"github.com/talusforge/navmesh/voxel"
)

const (
	nbStacks    = 8
	logNbStacks = 3
	expandIters = 8
)

// Region describes one watershed partition (§3).
type Region struct {
	ID          uint16
	SpanCount   int32
	Area        voxel.Area
	Connections []uint16
	Floors      []uint16
	Overlap     bool
}

const noRegion uint16 = 0

// Build runs the watershed pass over ohf, writing a Region id onto
// every open span whose area is not voxel.NullArea, then merges and
// culls the resulting regions and compacts surviving ids to
// [1, region_count].
func Build(ohf *field.OpenHeightfield, minRegionArea, maxRegionAreaToMergeInto uint32) []Region {
	n := len(ohf.Spans)
	regionIDs := make([]uint16, n)
	distance := make([]uint16, n)
	for i := range ohf.Spans {
		distance[i] = ohf.Spans[i].Distance
	}

	stacks := make([][]int32, nbStacks)
	unregioned := make([]int32, 0, n)
	for i, s := range ohf.Spans {
		if s.Area != voxel.NullArea {
			unregioned = append(unregioned, int32(i))
		}
	}
	sortIntoStacks(unregioned, distance, stacks, 0)

	nextRegionID := uint16(1)
	startLevel := (ohf.MaxDistance + 1) &^ 1

	level := startLevel
	for stackIdx := 0; level > 0; stackIdx = (stackIdx + 1) % nbStacks {
		if level >= 2 {
			level -= 2
		} else {
			level = 0
		}

		if stackIdx == 0 {
			appendLeftoverUnregioned(ohf, regionIDs, &unregioned)
			sortIntoStacks(unregioned, distance, stacks, startLevel-level)
		}

		expandRegions(ohf, regionIDs, distance, stacks[stackIdx], expandIters)
		nextRegionID = floodNewRegions(ohf, regionIDs, distance, stacks[stackIdx], level, nextRegionID)
	}

	// final unbounded expansion: absorb anything the bucket passes missed.
	appendLeftoverUnregioned(ohf, regionIDs, &unregioned)
	expandRegions(ohf, regionIDs, distance, unregioned, -1)

	for i := range ohf.Spans {
		ohf.Spans[i].Region = regionIDs[i]
	}

	regions := buildRegionTable(ohf, regionIDs, nextRegionID)
	regions = mergeAndCull(ohf, regionIDs, regions, minRegionArea, maxRegionAreaToMergeInto)
	compact(ohf, regionIDs, regions)

	for i := range ohf.Spans {
		ohf.Spans[i].Region = regionIDs[i]
	}
	return regions
}

func appendLeftoverUnregioned(ohf *field.OpenHeightfield, regionIDs []uint16, unregioned *[]int32) {
	rest := (*unregioned)[:0]
	for _, i := range *unregioned {
		if regionIDs[i] == noRegion {
			rest = append(rest, i)
		}
	}
	*unregioned = rest
}

// sortIntoStacks buckets unregioned spans into nbStacks rotating
// buckets keyed by (startLevel-distance)/2 clamped to [0, nbStacks-1]
// (§4.D).
func sortIntoStacks(unregioned []int32, distance []uint16, stacks [][]int32, startLevel uint16) {
	for i := range stacks {
		stacks[i] = stacks[i][:0]
	}
	for _, idx := range unregioned {
		var bucket int32
		if int32(startLevel)-int32(distance[idx]) > 0 {
			bucket = (int32(startLevel) - int32(distance[idx])) / 2
		}
		if bucket >= nbStacks {
			bucket = nbStacks - 1
		}
		if bucket < 0 {
			bucket = 0
		}
		stacks[bucket] = append(stacks[bucket], idx)
	}
}

// expandRegions lets every unregioned span in stack adopt the region of
// a same-area neighbour offering the minimum accumulated
// distance+2, applying all adoptions only after the pass so the result
// does not depend on scan order. iters < 0 means run until no change.
func expandRegions(ohf *field.OpenHeightfield, regionIDs []uint16, distance []uint16, stack []int32, iters int) {
	for pass := 0; iters < 0 || pass < iters; pass++ {
		type pending struct {
			idx    int32
			region uint16
			dist   uint16
		}
		var updates []pending

		for _, idx := range stack {
			if regionIDs[idx] != noRegion {
				continue
			}
			s := ohf.Spans[idx]
			bestRegion := noRegion
			bestDist := uint16(0xffff)
			for d := 0; d < 4; d++ {
				nb := s.Neighbours[d]
				if nb == -1 {
					continue
				}
				if ohf.Spans[nb].Area != s.Area {
					continue
				}
				if regionIDs[nb] == noRegion {
					continue
				}
				cand := addSat16(distance[nb], 2)
				if cand < bestDist {
					bestDist = cand
					bestRegion = regionIDs[nb]
				}
			}
			if bestRegion != noRegion {
				updates = append(updates, pending{idx, bestRegion, bestDist})
			}
		}
		if len(updates) == 0 {
			break
		}
		for _, u := range updates {
			regionIDs[u.idx] = u.region
			distance[u.idx] = u.dist
		}
	}
}

// floodNewRegions seeds each unregioned span of stack whose distance is
// >= level as a new region through floodFill, a BFS over same-area
// 4-neighbours (§4.D step 3). Only the seed's distance is compared with
// level: the BFS claims every unregioned same-area span it reaches,
// whatever its distance. Spans that collide with a foreign region are
// rejected one by one, as floodFill describes.
func floodNewRegions(ohf *field.OpenHeightfield, regionIDs []uint16, distance []uint16, stack []int32, level uint16, nextID uint16) uint16 {
	for _, idx := range stack {
		if regionIDs[idx] != noRegion {
			continue
		}
		if distance[idx] < level {
			continue
		}

		if floodFill(ohf, regionIDs, idx, nextID) {
			nextID++
		}
	}
	return nextID
}

// floodFill performs the seed BFS from start, provisionally claiming
// each visited span for candidateID as soon as it is pushed. A span
// that collides with a different, already-assigned region is rejected
// individually — set back to noRegion and left for a later pass — while
// the rest of the BFS continues undisturbed (§4.D step 3: "if the seed
// BFS collides with a foreign region at the first step, the seed is
// rejected"; this applies per colliding span, not to the whole flood).
// Reports whether at least one span was claimed, so the caller knows
// whether candidateID was actually used.
func floodFill(ohf *field.OpenHeightfield, regionIDs []uint16, start int32, candidateID uint16) bool {
	area := ohf.Spans[start].Area
	stack := []int32{start}
	regionIDs[start] = candidateID

	var claimed int
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if collidesWithForeignRegion(ohf, regionIDs, cur, area, candidateID) {
			regionIDs[cur] = noRegion
			continue
		}
		claimed++

		s := ohf.Spans[cur]
		for d := 0; d < 4; d++ {
			nb := s.Neighbours[d]
			if nb == -1 {
				continue
			}
			if ohf.Spans[nb].Area != area {
				continue
			}
			if regionIDs[nb] != noRegion {
				continue
			}
			regionIDs[nb] = candidateID
			stack = append(stack, nb)
		}
	}
	return claimed > 0
}

// collidesWithForeignRegion reports whether span i's same-area
// 4-neighbours, or the same-area neighbour one hop clockwise from each
// of those, already carry a different nonzero region id (§4.D step 3's
// "8-neighbours (including one-hop diagonal through the same area)").
func collidesWithForeignRegion(ohf *field.OpenHeightfield, regionIDs []uint16, i int32, area voxel.Area, candidateID uint16) bool {
	s := ohf.Spans[i]
	for d := 0; d < 4; d++ {
		nb := s.Neighbours[d]
		if nb == -1 {
			continue
		}
		if ohf.Spans[nb].Area != area {
			continue
		}
		if nr := regionIDs[nb]; nr != noRegion && nr != candidateID {
			return true
		}

		ns := ohf.Spans[nb]
		nb2 := ns.Neighbours[(d+1)&3]
		if nb2 == -1 {
			continue
		}
		if ohf.Spans[nb2].Area != area {
			continue
		}
		if nr2 := regionIDs[nb2]; nr2 != noRegion && nr2 != candidateID {
			return true
		}
	}
	return false
}

func addSat16(v, add uint16) uint16 {
	if int32(v)+int32(add) > 0xfffe {
		return 0xfffe
	}
	return v + add
}

// buildRegionTable computes span_count, overlap, floors and the
// bordering-region connection order for every region id in
// [1, nextID).
func buildRegionTable(ohf *field.OpenHeightfield, regionIDs []uint16, nextID uint16) []Region {
	regions := make([]Region, nextID)
	for id := uint16(1); id < nextID; id++ {
		regions[id] = Region{ID: id}
	}

	for r := int32(0); r < ohf.Height; r++ {
		for c := int32(0); c < ohf.Width; c++ {
			cell := ohf.Cells[c+r*ohf.Width]
			seenInColumn := map[uint16]bool{}
			for si := cell.Index; si < cell.Index+cell.Count; si++ {
				id := regionIDs[si]
				if id == noRegion {
					continue
				}
				reg := &regions[id]
				reg.SpanCount++
				reg.Area = ohf.Spans[si].Area
				if seenInColumn[id] {
					reg.Overlap = true
				}
				for other := range seenInColumn {
					if other != id {
						addFloor(&regions[id], other)
						addFloor(&regions[other], id)
					}
				}
				seenInColumn[id] = true
			}
		}
	}

	walkConnections(ohf, regionIDs, regions)
	return regions
}

func addFloor(r *Region, id uint16) {
	for _, f := range r.Floors {
		if f == id {
			return
		}
	}
	r.Floors = append(r.Floors, id)
}

// walkConnections records, for every region, the region across each of
// its boundary edges, visiting spans in row-major scan order and each
// span's directions 0..3, and skipping an id equal to the one appended
// just before it. The sequence follows that scan order, not the order
// of a walk around the region's contour.
func walkConnections(ohf *field.OpenHeightfield, regionIDs []uint16, regions []Region) {
	visitedEdge := make(map[[2]int32]bool)
	for r := int32(0); r < ohf.Height; r++ {
		for c := int32(0); c < ohf.Width; c++ {
			cell := ohf.Cells[c+r*ohf.Width]
			for si := cell.Index; si < cell.Index+cell.Count; si++ {
				id := regionIDs[si]
				if id == noRegion {
					continue
				}
				s := ohf.Spans[si]
				for d := 0; d < 4; d++ {
					nb := s.Neighbours[d]
					var otherID uint16
					if nb == -1 {
						otherID = noRegion
					} else {
						otherID = regionIDs[nb]
					}
					if otherID == id {
						continue
					}
					key := [2]int32{si, int32(d)}
					if visitedEdge[key] {
						continue
					}
					visitedEdge[key] = true
					appendConnection(&regions[id], otherID)
				}
			}
		}
	}
}

func appendConnection(r *Region, id uint16) {
	if len(r.Connections) > 0 && r.Connections[len(r.Connections)-1] == id {
		return
	}
	r.Connections = append(r.Connections, id)
}

// mergeAndCull drops regions under minRegionArea, then iteratively
// merges mergeable neighbour pairs (§4.D).
func mergeAndCull(ohf *field.OpenHeightfield, regionIDs []uint16, regions []Region, minArea, maxMergeArea uint32) []Region {
	alive := make([]bool, len(regions))
	for i := 1; i < len(regions); i++ {
		alive[i] = regions[i].SpanCount > 0
	}

	for id := 1; id < len(regions); id++ {
		if alive[id] && uint32(regions[id].SpanCount) < minArea && !touchesBorder(regions[id]) {
			clearRegion(ohf, regionIDs, uint16(id))
			alive[id] = false
			regions[id].SpanCount = 0
		}
	}

	changed := true
	for changed {
		changed = false
		for aID := 1; aID < len(regions); aID++ {
			if !alive[aID] {
				continue
			}
			a := &regions[aID]
			if uint32(a.SpanCount) > maxMergeArea && touchesBorder(*a) {
				continue
			}
			bestB := uint16(0)
			for _, bID := range a.Connections {
				if bID == 0 || int(bID) >= len(regions) || !alive[bID] {
					continue
				}
				b := &regions[bID]
				if b.Area != a.Area {
					continue
				}
				if !canMerge(*a, *b, uint16(aID), bID) {
					continue
				}
				if bestB == 0 || bID < bestB {
					bestB = bID
				}
			}
			if bestB == 0 {
				continue
			}
			mergeRegions(ohf, regionIDs, regions, uint16(aID), bestB)
			alive[bestB] = false
			changed = true
		}
	}

	out := make([]Region, 0, len(regions))
	for i := 1; i < len(regions); i++ {
		if alive[i] {
			out = append(out, regions[i])
		}
	}
	return out
}

func touchesBorder(r Region) bool {
	for _, c := range r.Connections {
		if c == noRegion {
			return true
		}
	}
	return false
}

func countOccurrences(s []uint16, v uint16) int {
	n := 0
	for _, x := range s {
		if x == v {
			n++
		}
	}
	return n
}

// canMerge reports whether regions a and b may merge: b appears in a's
// connections and a in b's exactly once, and neither lists the other as
// a floor (§4.D).
func canMerge(a, b Region, aID, bID uint16) bool {
	if countOccurrences(a.Connections, bID) != 1 || countOccurrences(b.Connections, aID) != 1 {
		return false
	}
	for _, f := range a.Floors {
		if f == bID {
			return false
		}
	}
	for _, f := range b.Floors {
		if f == aID {
			return false
		}
	}
	return true
}

// mergeRegions rewrites a's connections by splicing in b's rotated
// connection loop at the shared edge, removes adjacent duplicates, and
// reassigns all of b's spans to a.
func mergeRegions(ohf *field.OpenHeightfield, regionIDs []uint16, regions []Region, aID, bID uint16) {
	a := &regions[aID]
	b := &regions[bID]

	ai := indexOf(a.Connections, bID)
	bi := indexOf(b.Connections, aID)
	rotatedB := append(append([]uint16{}, b.Connections[bi+1:]...), b.Connections[:bi]...)

	spliced := make([]uint16, 0, len(a.Connections)+len(rotatedB))
	spliced = append(spliced, a.Connections[:ai]...)
	spliced = append(spliced, rotatedB...)
	spliced = append(spliced, a.Connections[ai+1:]...)

	dedup := spliced[:0]
	for i, id := range spliced {
		if i > 0 && dedup[len(dedup)-1] == id {
			continue
		}
		dedup = append(dedup, id)
	}
	a.Connections = dedup
	a.SpanCount += b.SpanCount
	if b.Overlap {
		a.Overlap = true
	}
	for _, f := range b.Floors {
		addFloor(a, f)
	}

	for i := range regionIDs {
		if regionIDs[i] == bID {
			regionIDs[i] = aID
		}
	}
}

func indexOf(s []uint16, v uint16) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func clearRegion(ohf *field.OpenHeightfield, regionIDs []uint16, id uint16) {
	for i := range regionIDs {
		if regionIDs[i] == id {
			regionIDs[i] = noRegion
		}
	}
}

// compact renumbers surviving region ids to [1, len(regions)] in id
// order, matching the order mergeAndCull left them in.
func compact(ohf *field.OpenHeightfield, regionIDs []uint16, regions []Region) {
	remap := make(map[uint16]uint16, len(regions))
	for i := range regions {
		remap[regions[i].ID] = uint16(i + 1)
	}
	for i := range regions {
		regions[i].ID = uint16(i + 1)
	}
	for i := range regionIDs {
		if regionIDs[i] == noRegion {
			continue
		}
		if nid, ok := remap[regionIDs[i]]; ok {
			regionIDs[i] = nid
		}
	}
}
