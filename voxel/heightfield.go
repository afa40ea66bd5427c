// Package voxel builds the solid heightfield described in §4.A: it
// clips triangle-soup geometry against a tile's cell columns and
// stacks the resulting spans per column, applying the "highest surface
// wins" merge policy and the supplemented low-hanging-obstacle and
// ledge filters.
package voxel

import (
	"github.com/arl/assertgo"

	"github.com/talusforge/navmesh/tilespace"
)

// Area tags a span with the traversal area of the triangle that
// produced it. The pipeline only ever compares areas for equality.
type Area uint8

// NullArea marks a span with no walkable area, either because it was
// never touched by a traversable triangle or because a filter removed
// it.
const NullArea Area = 0

// Span is one solid HeightSpan: a contiguous Y-range of voxels occupied
// by geometry (§3).
type Span struct {
	Min, Max    uint16
	Traversable bool
	Area        Area
}

// Heightfield holds one solid HeightSpan stack per column of the
// bordered tile grid (§3), sorted ascending by Min with no overlaps.
type Heightfield struct {
	Frame   tilespace.Frame
	Width   int32 // columns (X)
	Height  int32 // rows (Z)
	columns [][]Span
}

// NewHeightfield allocates an empty heightfield over f's bordered grid.
func NewHeightfield(f tilespace.Frame) *Heightfield {
	side := f.GridSide()
	return &Heightfield{
		Frame:   f,
		Width:   side,
		Height:  side,
		columns: make([][]Span, side*side),
	}
}

func (hf *Heightfield) index(c, r int32) int32 { return r*hf.Width + c }

// Column returns the span stack at (c, r), or nil if (c, r) is out of
// bounds.
func (hf *Heightfield) Column(c, r int32) []Span {
	if c < 0 || r < 0 || c >= hf.Width || r >= hf.Height {
		return nil
	}
	return hf.columns[hf.index(c, r)]
}

// InBounds reports whether (c, r) addresses a column of hf.
func (hf *Heightfield) InBounds(c, r int32) bool {
	return c >= 0 && r >= 0 && c < hf.Width && r < hf.Height
}

// AddSpan inserts [min, max] into column (c, r), merging with any
// spans it overlaps or touches, applying the merge policy mandated by
// §4.A: when the new span's top lies below an existing span's top,
// inherit the existing span's traversability and extend to its top; on
// exact ties, OR the flags; otherwise keep the new span's flag.
//
// This resolves the merge ambiguity flagged as an open question for
// the existing.max == new.max case by choosing logical OR.
func (hf *Heightfield) AddSpan(c, r int32, min, max uint16, traversable bool, area Area) {
	if !hf.InBounds(c, r) || min > max {
		return
	}
	idx := hf.index(c, r)
	spans := hf.columns[idx]

	newSpan := Span{Min: min, Max: max, Traversable: traversable, Area: area}
	if area == NullArea {
		newSpan.Traversable = false
	}

	merged := make([]Span, 0, len(spans)+1)
	inserted := false
	for _, s := range spans {
		if inserted {
			merged = append(merged, s)
			continue
		}
		if s.Max < newSpan.Min {
			// existing span lies entirely below: keep, keep scanning
			merged = append(merged, s)
			continue
		}
		if newSpan.Max < s.Min {
			// existing span lies entirely above: insert newSpan before it
			merged = append(merged, newSpan)
			inserted = true
			merged = append(merged, s)
			continue
		}
		// overlap or touch: merge into newSpan, keep scanning for
		// further overlaps with spans further up the stack
		newSpan = mergeSpans(newSpan, s)
	}
	if !inserted {
		merged = append(merged, newSpan)
	}
	for i := 1; i < len(merged); i++ {
		assert.True(merged[i-1].Max < merged[i].Min, "voxel: column spans must be sorted, non-overlapping")
	}
	hf.columns[idx] = merged
}

// mergeSpans combines an incoming span with an existing overlapping
// span under the §4.A "highest surface wins" rule.
func mergeSpans(incoming, existing Span) Span {
	out := Span{
		Min: minu16(incoming.Min, existing.Min),
		Max: maxu16(incoming.Max, existing.Max),
	}
	switch {
	case existing.Max > incoming.Max:
		out.Traversable = existing.Traversable
		out.Area = existing.Area
	case existing.Max == incoming.Max:
		out.Traversable = existing.Traversable || incoming.Traversable
		if existing.Traversable {
			out.Area = existing.Area
		} else {
			out.Area = incoming.Area
		}
	default:
		out.Traversable = incoming.Traversable
		out.Area = incoming.Area
	}
	return out
}

func minu16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

func maxu16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}
