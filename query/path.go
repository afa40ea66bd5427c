package query

import (
	"container/heap"
	"context"

	"github.com/arl/gogeo/f32/d3"

	"github.com/talusforge/navmesh/navtile"
	"github.com/talusforge/navmesh/voxel"
)

// heuristicScale biases the A* heuristic below 1.0 so it stays
// admissible-ish while favoring progress toward the goal (§4.I).
const heuristicScale = 0.999

// AreaCost maps an area category to a per-unit-distance cost
// multiplier (default 1.0 when nil is passed to FindPath).
type AreaCost func(area voxel.Area) float32

// PolygonPath is an ordered sequence of polygons from start to end,
// the result of FindPath (§3, §6).
type PolygonPath []PolygonRef

type searchNode struct {
	ref    PolygonRef
	pos    d3.Vec3
	g, h   float32
	parent *searchNode
	closed bool
	index  int // heap index
}

func (n *searchNode) total() float32 { return n.g + n.h }

// openHeap is a min-heap over searchNode ordered by total cost
// ascending (§4.I).
type openHeap []*searchNode

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].total() < h[j].total() }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x interface{}) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// FindPath runs A* over the polygon graph from the polygon closest to
// start to the polygon closest to end, both located within
// searchHalfExtents (§4.I). areaCost, if non-nil, scales the cost of
// crossing into a polygon of a given area; nil means every area costs
// 1.0.
//
// If ctx is cancelled or its deadline elapses before the open set is
// exhausted, FindPath returns the path to the best-so-far node (the
// one with the smallest observed heuristic) with partial set to true,
// per §4.I's timeout behaviour.
func FindPath(ctx context.Context, store *navtile.TileStore, start, end, searchHalfExtents d3.Vec3, areaCost AreaCost) (path PolygonPath, partial bool, err error) {
	startRef, startPt, ok := FindClosestPolygon(store, start, searchHalfExtents)
	if !ok {
		return nil, false, &FindPathError{Err: ErrStartOutOfMesh}
	}
	endRef, endPt, ok := FindClosestPolygon(store, end, searchHalfExtents)
	if !ok {
		return nil, false, &FindPathError{Err: ErrEndOutOfMesh}
	}

	if startRef == endRef {
		return PolygonPath{startRef}, false, nil
	}

	nodes := make(map[PolygonRef]*searchNode)
	startNode := &searchNode{ref: startRef, pos: startPt, g: 0, h: startPt.Dist(endPt) * heuristicScale}
	nodes[startRef] = startNode

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, startNode)

	best := startNode

	for i := 0; open.Len() > 0; i++ {
		if i&255 == 0 && ctx.Err() != nil {
			return reconstructPath(best), true, nil
		}

		cur := heap.Pop(open).(*searchNode)
		if cur.closed {
			continue
		}
		cur.closed = true

		if cur.h < best.h {
			best = cur
		}
		if cur.ref == endRef {
			return reconstructPath(cur), false, nil
		}

		tile, found := store.Get(cur.ref.Coord)
		if !found {
			continue
		}
		poly := tile.Polygons[cur.ref.Polygon]

		for _, link := range poly.Links {
			var nref PolygonRef
			var pos d3.Vec3
			switch link.Kind {
			case navtile.LinkInternal:
				nref = PolygonRef{Coord: cur.ref.Coord, Polygon: link.NeighbourPoly}
				a, b := tile.EdgeVertices(int(cur.ref.Polygon), int(link.Edge))
				pos = a.Lerp(b, 0.5)
			case navtile.LinkOffMesh:
				nref = PolygonRef{Coord: link.NeighbourTile, Polygon: link.NeighbourPoly}
				a, b := tile.EdgeVertices(int(cur.ref.Polygon), int(link.Edge))
				tmid := (float32(link.BoundMin) + float32(link.BoundMax)) / 2.0 / 255.0
				pos = a.Lerp(b, tmid)
			default:
				continue
			}

			if nref == endRef {
				pos = endPt
			}

			cost := cur.pos.Dist(pos)
			if areaCost != nil {
				var nArea voxel.Area
				if link.Kind == navtile.LinkInternal {
					nArea = tile.Polygons[link.NeighbourPoly].Area
				} else if nt, ok := store.Get(nref.Coord); ok && int(nref.Polygon) < len(nt.Polygons) {
					nArea = nt.Polygons[nref.Polygon].Area
				}
				cost *= areaCost(nArea)
			}

			next, seen := nodes[nref]
			if !seen {
				next = &searchNode{ref: nref, pos: pos, g: cur.g + cost, h: pos.Dist(endPt) * heuristicScale, parent: cur}
				nodes[nref] = next
				heap.Push(open, next)
				continue
			}
			if next.closed {
				continue
			}
			if g := cur.g + cost; g < next.g {
				next.g = g
				next.parent = cur
				next.pos = pos
				heap.Fix(open, next.index)
			}
		}
	}

	return nil, false, &FindPathError{Err: ErrNoPath}
}

func reconstructPath(n *searchNode) PolygonPath {
	var out PolygonPath
	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur.ref)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
