// Package field inverts a solid voxel.Heightfield into the open
// walkable spans described in §4.B, computes their per-span distance
// field (§4.C), and supports eroding area from the mesh border by
// agent radius.
package field

import (
	"github.com/talusforge/navmesh/tilespace"
	"github.com/talusforge/navmesh/voxel"
)

// noNeighbour marks the absence of a neighbour link in OpenSpan.Neighbours.
const noNeighbour = -1

// unboundedMax marks an OpenSpan with no ceiling: the open space above
// the topmost traversable solid span in its column.
const unboundedMax uint16 = 0xffff

// OpenSpan is one walkable clearance gap (§3): "the empty Y-range above
// a walkable surface with clearance >= walkable_height".
type OpenSpan struct {
	Min, Max    uint16
	Neighbours  [4]int32
	Region      uint16
	Area        voxel.Area
	Distance    uint16
}

// Cell indexes the dense Spans slice for one column: [Index, Index+Count).
type Cell struct {
	Index, Count int32
}

// OpenHeightfield is the inverted, dense-indexed counterpart of
// voxel.Heightfield (§3): every open span carries a tile_index dense
// global id, here simply its position in Spans.
type OpenHeightfield struct {
	Frame       tilespace.Frame
	Width       int32
	Height      int32
	Cells       []Cell
	Spans       []OpenSpan
	MaxDistance uint16
}

func (ohf *OpenHeightfield) index(c, r int32) int32 { return r*ohf.Width + c }

// InBounds reports whether (c, r) addresses a column of ohf.
func (ohf *OpenHeightfield) InBounds(c, r int32) bool {
	return c >= 0 && r >= 0 && c < ohf.Width && r < ohf.Height
}

// CellSpans returns the dense span slice for column (c, r).
func (ohf *OpenHeightfield) CellSpans(c, r int32) []OpenSpan {
	if !ohf.InBounds(c, r) {
		return nil
	}
	cell := ohf.Cells[ohf.index(c, r)]
	return ohf.Spans[cell.Index : cell.Index+cell.Count]
}

// Build inverts hf into open spans between consecutive traversable
// solid spans, discarding clearances below walkableHeight, then links
// each span to its four cardinal neighbours (§4.B).
func Build(hf *voxel.Heightfield, walkableHeight, stepHeight uint16) *OpenHeightfield {
	ohf := &OpenHeightfield{
		Frame:  hf.Frame,
		Width:  hf.Width,
		Height: hf.Height,
		Cells:  make([]Cell, hf.Width*hf.Height),
	}

	for r := int32(0); r < hf.Height; r++ {
		for c := int32(0); c < hf.Width; c++ {
			col := hf.Column(c, r)
			start := int32(len(ohf.Spans))
			var count int32

			var prevTop uint16
			var prevArea voxel.Area
			haveFloor := false
			for i, s := range col {
				if !s.Traversable {
					continue
				}
				if haveFloor {
					clearance := int32(s.Min) - int32(prevTop)
					if clearance >= int32(walkableHeight) {
						ohf.Spans = append(ohf.Spans, OpenSpan{
							Min:        prevTop,
							Max:        s.Min,
							Neighbours: [4]int32{noNeighbour, noNeighbour, noNeighbour, noNeighbour},
							Area:       prevArea,
						})
						count++
					}
				}
				prevTop = s.Max
				prevArea = s.Area
				haveFloor = true
				_ = i
			}
			if haveFloor {
				ohf.Spans = append(ohf.Spans, OpenSpan{
					Min:        prevTop,
					Max:        unboundedMax,
					Neighbours: [4]int32{noNeighbour, noNeighbour, noNeighbour, noNeighbour},
					Area:       prevArea,
				})
				count++
			}

			ohf.Cells[ohf.index(c, r)] = Cell{Index: start, Count: count}
		}
	}

	linkNeighbours(ohf, stepHeight)
	return ohf
}

// linkNeighbours assigns each span's Neighbours[d] to the dense index
// of the first open span in the d-neighbour column whose floor differs
// from this span's floor by strictly less than stepHeight (§4.B).
func linkNeighbours(ohf *OpenHeightfield, stepHeight uint16) {
	for r := int32(0); r < ohf.Height; r++ {
		for c := int32(0); c < ohf.Width; c++ {
			cell := ohf.Cells[ohf.index(c, r)]
			for si := cell.Index; si < cell.Index+cell.Count; si++ {
				span := &ohf.Spans[si]
				for d := 0; d < 4; d++ {
					nc := c + dirOffsetX[d]
					nr := r + dirOffsetZ[d]
					if !ohf.InBounds(nc, nr) {
						continue
					}
					ncell := ohf.Cells[ohf.index(nc, nr)]
					for nsi := ncell.Index; nsi < ncell.Index+ncell.Count; nsi++ {
						n := ohf.Spans[nsi]
						if absDelta(span.Min, n.Min) < int32(stepHeight) {
							span.Neighbours[d] = nsi
							break
						}
					}
				}
			}
		}
	}
}

func absDelta(a, b uint16) int32 {
	d := int32(a) - int32(b)
	if d < 0 {
		return -d
	}
	return d
}

var dirOffsetX = [4]int32{-1, 0, 1, 0}
var dirOffsetZ = [4]int32{0, 1, 0, -1}
