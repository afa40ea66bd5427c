package voxel

// FilterLowHangingWalkableObstacles lets an unwalkable span whose top
// lies within walkableClimb cells above the top of the walkable span
// directly below it in the same column be reclassified traversable,
// matching the
// teacher's low-hanging-obstacle filter: low ledges like curbs and
// steps should not block traversal when they are shorter than the
// agent's climb.
func FilterLowHangingWalkableObstacles(hf *Heightfield, walkableClimb uint16) {
	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			idx := hf.index(c, r)
			spans := hf.columns[idx]
			var prevTraversable bool
			var prevArea Area
			var prevMax uint16
			for i := range spans {
				walkable := spans[i].Traversable
				if !walkable && prevTraversable {
					if int32(spans[i].Max)-int32(prevMax) <= int32(walkableClimb) {
						spans[i].Traversable = true
						spans[i].Area = prevArea
					}
				}
				prevTraversable = spans[i].Traversable
				prevArea = spans[i].Area
				prevMax = spans[i].Max
			}
			hf.columns[idx] = spans
		}
	}
}

// FilterLedgeSpans strips the traversable flag from a span when any of
// its four neighbour columns is outside the grid or has no span whose
// gap overlaps this span's gap by at least walkableHeight, or when the
// highest and lowest of the neighbour floors found that way (the first
// such span in each neighbour column) differ by more than
// walkableClimb. The span's own floor is not compared with those
// neighbour floors, and its own clearance to the span above is used
// only in the overlap test. A ledge is a walkable span overhanging a drop
// an agent of this height/climb cannot actually stand at the edge of.
func FilterLedgeSpans(hf *Heightfield, walkableHeight, walkableClimb uint16) {
	const unbounded = int32(1) << 20

	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			idx := hf.index(c, r)
			spans := hf.columns[idx]
			for i := range spans {
				if !spans[i].Traversable {
					continue
				}
				floor := int32(spans[i].Max)
				var ceiling int32 = unbounded
				if i+1 < len(spans) {
					ceiling = int32(spans[i+1].Min)
				}

				minNeighbourFloor := unbounded
				maxNeighbourFloor := -unbounded

				for d := 0; d < 4; d++ {
					nc, nr := c+dirOffsetX[d], r+dirOffsetZ[d]
					nspans := hf.Column(nc, nr)
					if nspans == nil {
						minNeighbourFloor = -unbounded
						break
					}
					nFloor := int32(-unbounded)
					nCeiling := unbounded
					for j := range nspans {
						f := int32(nspans[j].Max)
						var cl int32 = unbounded
						if j+1 < len(nspans) {
							cl = int32(nspans[j+1].Min)
						}
						if minOf(ceiling, cl)-maxOf(floor, f) >= int32(walkableHeight) {
							nFloor = f
							nCeiling = cl
							break
						}
					}
					if nFloor == -unbounded {
						minNeighbourFloor = -unbounded
						break
					}
					_ = nCeiling
					if nFloor < minNeighbourFloor {
						minNeighbourFloor = nFloor
					}
					if nFloor > maxNeighbourFloor {
						maxNeighbourFloor = nFloor
					}
				}

				if minNeighbourFloor == -unbounded {
					spans[i].Traversable = false
					continue
				}
				if maxNeighbourFloor-minNeighbourFloor > int32(walkableClimb) {
					spans[i].Traversable = false
				}
			}
		}
	}
}

var dirOffsetX = [4]int32{-1, 0, 1, 0}
var dirOffsetZ = [4]int32{0, 1, 0, -1}

func minOf(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxOf(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
