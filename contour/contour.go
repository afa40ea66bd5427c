// Package contour walks region boundaries in a field.OpenHeightfield
// into ordered vertex loops, simplifies them, and merges each region's
// holes into its outline (§4.E).
package contour

import (
	"github.com/arl/assertgo"

	"github.com/talusforge/navmesh/field"
	"github.com/talusforge/navmesh/voxel"
)

// borderVertexFlag marks a contour vertex that lies on the tile's outer
// border, packed into the high bit of Vertex.Flags alongside the
// bordering region id (§4.E).
const borderVertexFlag = 1 << 15

// Vertex is one point of a traced contour loop, in tile-local cell
// coordinates (§3).
type Vertex struct {
	X, Y, Z int32
	Flags   uint16
}

// BorderRegion returns the bordering region id packed into v's flags.
func (v Vertex) BorderRegion() uint16 { return v.Flags &^ borderVertexFlag }

// IsBorder reports whether v lies on the tile's outer border.
func (v Vertex) IsBorder() bool { return v.Flags&borderVertexFlag != 0 }

// Contour is one traced, simplified boundary loop belonging to a
// region. Outline loops wind positive (counter-clockwise in XZ); hole
// loops wind negative, and are merged into the owning region's outline
// by MergeHoles.
type Contour struct {
	Region   uint16
	Area     voxel.Area
	Raw      []Vertex // unsimplified walker output
	Vertices []Vertex // simplified
}

type spanKey struct {
	col, row int32
	local    int32 // index within the cell's dense span range, for boundary-flag bookkeeping
}

// Trace walks every boundary open span of ohf into raw contour loops,
// one per (region, loop) pair — a region can own one outline and any
// number of holes, so Trace may emit several Contours with the same
// Region; MergeHoles consolidates them afterward.
func Trace(ohf *field.OpenHeightfield, maxError float32, maxEdgeLen uint16) []Contour {
	n := len(ohf.Spans)
	visited := make([]uint8, n) // bitmask of already-emitted boundary directions

	var contours []Contour
	for r := int32(0); r < ohf.Height; r++ {
		for c := int32(0); c < ohf.Width; c++ {
			cell := ohf.Cells[c+r*ohf.Width]
			for si := cell.Index; si < cell.Index+cell.Count; si++ {
				s := ohf.Spans[si]
				if s.Region == 0 || s.Area == voxel.NullArea {
					continue
				}
				flags := boundaryFlags(ohf, si)
				flags &^= visited[si]
				if flags == 0 {
					continue
				}
				for d := 0; d < 4; d++ {
					if flags&(1<<uint(d)) == 0 || visited[si]&(1<<uint(d)) != 0 {
						continue
					}
					raw := walk(ohf, c, r, si, d, visited)
					if len(raw) < 3 {
						continue
					}
					simplified := simplify(raw, maxError, maxEdgeLen)
					contours = append(contours, Contour{
						Region:   s.Region,
						Area:     s.Area,
						Raw:      raw,
						Vertices: dedupAdjacent(simplified),
					})
				}
			}
		}
	}
	return contours
}

// boundaryFlags computes the 4-bit mask: bit d set iff the d-neighbour
// has a different region than si (§4.E). A span with all four bits set
// is fully isolated and is excluded, matching the teacher's contour
// pass which skips flags == 0xf spans (they contribute no usable edge
// direction once cleared one bit at a time by the walker, so nothing is
// lost by reporting zero here).
func boundaryFlags(ohf *field.OpenHeightfield, si int32) uint8 {
	s := ohf.Spans[si]
	var flags uint8
	for d := 0; d < 4; d++ {
		nb := s.Neighbours[d]
		var nbRegion uint16
		if nb != -1 {
			nbRegion = ohf.Spans[nb].Region
		}
		if nbRegion != s.Region {
			flags |= 1 << uint(d)
		}
	}
	if flags == 0b1111 {
		return 0
	}
	return flags
}

var dirOffsetX = [4]int32{-1, 0, 1, 0}
var dirOffsetZ = [4]int32{0, 1, 0, -1}

// cornerOffsetX/Z give the four corners of a cell in the order indexed
// by the boundary direction that produced them, matching the
// convention used by recast's contour walker: the corner lies between
// the current cell and its d-neighbour.
var cornerOffsetX = [4]int32{0, 0, 1, 1}
var cornerOffsetZ = [4]int32{0, 1, 1, 0}

// walk traces one boundary loop starting at (col, row, span) and
// direction dir, per the §4.E walker: emit a corner vertex and clear
// the bit when it's set; otherwise step to the neighbour and rotate.
// Visited directions are marked in visited so Trace does not re-walk
// the same loop from a different starting edge.
//
// The walker keeps the region on its right, which traces an outline
// clockwise in XZ; the loop is returned reversed so outlines wind
// counter-clockwise and holes clockwise, each vertex carrying the flags
// of the edge that starts at it.
func walk(ohf *field.OpenHeightfield, col, row int32, span int32, dir int, visited []uint8) []Vertex {
	startCol, startRow, startSpan, startDir := col, row, span, dir
	var verts []Vertex
	region := ohf.Spans[span].Region

	safety := 0
	for {
		safety++
		assert.True(safety <= 4*len(ohf.Spans)+16, "contour: walker escaped a supposedly bounded contour")
		s := ohf.Spans[span]
		nb := s.Neighbours[dir]
		var nbRegion uint16
		if nb != -1 {
			nbRegion = ohf.Spans[nb].Region
		}
		if nbRegion != region {
			visited[span] |= 1 << uint(dir)
			px := col + cornerOffsetX[dir]
			pz := row + cornerOffsetZ[dir]
			py := cornerHeight(ohf, col, row, dir)
			verts = append(verts, Vertex{X: px, Y: py, Z: pz, Flags: borderOrRegionFlag(ohf, col, row, dir, nbRegion)})
			dir = (dir + 1) & 3
		} else {
			ncol := col + dirOffsetX[dir]
			nrow := row + dirOffsetZ[dir]
			col, row, span = ncol, nrow, nb
			dir = (dir + 3) & 3
		}
		if col == startCol && row == startRow && span == startSpan && dir == startDir {
			break
		}
	}

	n := len(verts)
	out := make([]Vertex, n)
	for j := 0; j < n; j++ {
		out[j] = verts[(n-j)%n]
		out[j].Flags = verts[(n-1-j)%n].Flags
	}
	return out
}

func borderOrRegionFlag(ohf *field.OpenHeightfield, col, row int32, dir int, nbRegion uint16) uint16 {
	ncol := col + dirOffsetX[dir]
	nrow := row + dirOffsetZ[dir]
	flags := nbRegion
	if !ohf.InBounds(ncol, nrow) {
		flags |= borderVertexFlag
	}
	return flags
}

// cornerHeight returns the max open_span.min over the 2x2 block of
// spans around the corner produced by (col,row,dir) (§4.E).
func cornerHeight(ohf *field.OpenHeightfield, col, row int32, dir int) int32 {
	cx := col + cornerOffsetX[dir]
	cz := row + cornerOffsetZ[dir]
	var maxMin int32 = -1
	for dc := int32(-1); dc <= 0; dc++ {
		for dr := int32(-1); dr <= 0; dr++ {
			spans := ohf.CellSpans(cx+dc, cz+dr)
			for _, s := range spans {
				if int32(s.Min) > maxMin {
					maxMin = int32(s.Min)
				}
			}
		}
	}
	if maxMin < 0 {
		return 0
	}
	return maxMin
}

func dedupAdjacent(v []Vertex) []Vertex {
	out := v[:0]
	for i, p := range v {
		if i > 0 {
			q := out[len(out)-1]
			if p.X == q.X && p.Z == q.Z {
				continue
			}
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].X == out[len(out)-1].X && out[0].Z == out[len(out)-1].Z {
		out = out[:len(out)-1]
	}
	return out
}

// SignedArea computes the doubled signed polygon area in XZ using
// widened i32 arithmetic (§4.E): non-negative means an outline, negative
// a hole.
func SignedArea(v []Vertex) int64 {
	var area int64
	n := len(v)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += int64(v[i].X)*int64(v[j].Z) - int64(v[j].X)*int64(v[i].Z)
	}
	return area
}

// IsOutline reports whether v winds as an outline (non-negative signed
// area) rather than a hole.
func IsOutline(v []Vertex) bool { return SignedArea(v) >= 0 }
