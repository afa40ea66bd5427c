package field

import "github.com/arl/assertgo"

const (
	cardinalWeight = 2
	diagonalWeight = 3
)

// BuildDistanceField computes the two-pass chamfer distance transform
// over ohf's 8-connected open-span graph (§4.C): weight 2 for cardinal
// moves, weight 3 for moves through an adjacent cardinal pair (the
// "diagonal" move, reached by following two neighbour links). Spans
// lacking a full set of four neighbours are border seeds with distance
// 0. The result is smoothed with a 3x3 box blur and ohf.MaxDistance is
// recorded.
func BuildDistanceField(ohf *OpenHeightfield) {
	n := len(ohf.Spans)
	dist := make([]uint16, n)
	const maxDist = 0xfffe

	for i, s := range ohf.Spans {
		isBorder := false
		for d := 0; d < 4; d++ {
			if s.Neighbours[d] == noNeighbour {
				isBorder = true
				break
			}
		}
		if isBorder {
			dist[i] = 0
		} else {
			dist[i] = maxDist
		}
	}

	// Pass 1: tile_index ascending, relaxing from the -X/-Z side.
	for i := 0; i < n; i++ {
		relax(ohf, dist, i, 0, 3)
		relax(ohf, dist, i, 3, 2)
	}

	// Pass 2: tile_index descending, relaxing from the +X/+Z side.
	for i := n - 1; i >= 0; i-- {
		relax(ohf, dist, i, 2, 1)
		relax(ohf, dist, i, 1, 0)
	}

	blur(ohf, dist)

	var maxD uint16
	for _, d := range dist {
		if d > maxD {
			maxD = d
		}
	}
	ohf.MaxDistance = maxD
	for i := range ohf.Spans {
		ohf.Spans[i].Distance = dist[i]
	}
}

// relax updates dist[self] using the cardinal neighbour in direction
// dir and the diagonal neighbour reached by following dir then diagDir.
func relax(ohf *OpenHeightfield, dist []uint16, self int, dir, diagDir int) {
	s := &ohf.Spans[self]
	nb := s.Neighbours[dir]
	if nb == noNeighbour {
		return
	}
	assert.True(nb >= 0 && int(nb) < len(ohf.Spans), "field: distance field neighbour index out of range")
	if cand := addSat(dist[nb], cardinalWeight); cand < dist[self] {
		dist[self] = cand
	}
	if dnb := ohf.Spans[nb].Neighbours[diagDir]; dnb != noNeighbour {
		if cand := addSat(dist[dnb], diagonalWeight); cand < dist[self] {
			dist[self] = cand
		}
	}
}

func addSat(v, add uint16) uint16 {
	if int32(v)+int32(add) > 0xfffe {
		return 0xfffe
	}
	return v + add
}

// blur applies the 3x3 box filter (sum of nine neighbours including
// self, +5 rounding, divide by 9), pinning distances <= 2 to exactly 2
// to stabilize watershed seeds (§4.C).
func blur(ohf *OpenHeightfield, dist []uint16) {
	out := make([]uint16, len(dist))
	copy(out, dist)

	for r := int32(0); r < ohf.Height; r++ {
		for c := int32(0); c < ohf.Width; c++ {
			cell := ohf.Cells[ohf.index(c, r)]
			for si := cell.Index; si < cell.Index+cell.Count; si++ {
				d := dist[si]
				if d <= 2 {
					out[si] = 2
					continue
				}
				sum := int32(d)
				span := ohf.Spans[si]
				for dir := 0; dir < 4; dir++ {
					nb := span.Neighbours[dir]
					if nb == noNeighbour {
						sum += int32(d) * 2
						continue
					}
					sum += int32(dist[nb])
					diagDir := (dir + 1) & 3
					dnb := ohf.Spans[nb].Neighbours[diagDir]
					if dnb == noNeighbour {
						sum += int32(d)
					} else {
						sum += int32(dist[dnb])
					}
				}
				out[si] = uint16((sum + 5) / 9)
			}
		}
	}
	copy(dist, out)
}
