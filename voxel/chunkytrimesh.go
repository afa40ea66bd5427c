package voxel

import (
	"sort"

	"github.com/arl/gogeo/f32/d3"
)

// ChunkyTriMesh is a flat spatial index over a large triangle soup,
// grounded on the teacher's chunky tri-mesh: it avoids testing every
// triangle of a big static collider against every tile by bucketing
// triangles into axis-aligned leaf nodes and walking a simple BVH to
// answer 2D range queries. It supplements §4.A, which only specifies
// per-triangle clipping and says nothing about how a large Collection
// should be pruned before rasterization.
type ChunkyTriMesh struct {
	nodes   []chunkyNode
	indices []uint32 // triangle indices into the owning Collection, grouped per leaf
}

type chunkyNode struct {
	minX, minZ, maxX, maxZ float32
	// For a leaf, [triOffset, triOffset+triCount) indexes into indices
	// and escapeIndex is the next node. For an interior node, the child
	// holding the lower half of the sorted items starts at the next
	// node, and escapeIndex is the index just past this node's whole
	// subtree.
	triOffset, triCount int32
	escapeIndex         int32
}

const chunkyMaxTrisPerChunk = 64

// BuildChunkyTriMesh indexes every triangle of (vertices, tris) by its
// XZ centroid.
func BuildChunkyTriMesh(vertices []d3.Vec3, tris [][3]uint32) *ChunkyTriMesh {
	n := len(tris)
	if n == 0 {
		return &ChunkyTriMesh{}
	}
	items := make([]chunkyItem, n)
	for i, t := range tris {
		a, b, c := vertices[t[0]], vertices[t[1]], vertices[t[2]]
		items[i] = chunkyItem{
			idx:  uint32(i),
			minX: min3(a.X(), b.X(), c.X()),
			maxX: max3(a.X(), b.X(), c.X()),
			minZ: min3(a.Z(), b.Z(), c.Z()),
			maxZ: max3(a.Z(), b.Z(), c.Z()),
		}
	}

	ctm := &ChunkyTriMesh{indices: make([]uint32, 0, n)}
	ctm.subdivide(items, &ctm.nodes)
	return ctm
}

type chunkyItem struct {
	idx                    uint32
	minX, maxX, minZ, maxZ float32
}

func (ctm *ChunkyTriMesh) subdivide(items []chunkyItem, nodes *[]chunkyNode) int32 {
	bounds := itemBounds(items)
	self := int32(len(*nodes))
	*nodes = append(*nodes, chunkyNode{minX: bounds.minX, minZ: bounds.minZ, maxX: bounds.maxX, maxZ: bounds.maxZ})

	if len(items) <= chunkyMaxTrisPerChunk {
		off := int32(len(ctm.indices))
		for _, it := range items {
			ctm.indices = append(ctm.indices, it.idx)
		}
		(*nodes)[self].triOffset = off
		(*nodes)[self].triCount = int32(len(items))
		(*nodes)[self].escapeIndex = self + 1
		return self
	}

	axisX := (bounds.maxX - bounds.minX) >= (bounds.maxZ - bounds.minZ)
	sort.Slice(items, func(i, j int) bool {
		if axisX {
			return (items[i].minX + items[i].maxX) < (items[j].minX + items[j].maxX)
		}
		return (items[i].minZ + items[i].maxZ) < (items[j].minZ + items[j].maxZ)
	})

	mid := len(items) / 2
	ctm.subdivide(items[:mid], nodes)
	ctm.subdivide(items[mid:], nodes)
	(*nodes)[self].escapeIndex = int32(len(*nodes))
	return self
}

func itemBounds(items []chunkyItem) chunkyNode {
	b := chunkyNode{minX: items[0].minX, maxX: items[0].maxX, minZ: items[0].minZ, maxZ: items[0].maxZ}
	for _, it := range items[1:] {
		b.minX = minf(b.minX, it.minX)
		b.maxX = maxf(b.maxX, it.maxX)
		b.minZ = minf(b.minZ, it.minZ)
		b.maxZ = maxf(b.maxZ, it.maxZ)
	}
	return b
}

// Query appends to dst the indices of every triangle whose AABB
// overlaps [minX,maxX]x[minZ,maxZ] and returns the extended slice.
func (ctm *ChunkyTriMesh) Query(minX, minZ, maxX, maxZ float32, dst []uint32) []uint32 {
	if len(ctm.nodes) == 0 {
		return dst
	}
	i := int32(0)
	for i < int32(len(ctm.nodes)) {
		node := ctm.nodes[i]
		overlap := node.minX <= maxX && node.maxX >= minX && node.minZ <= maxZ && node.maxZ >= minZ
		isLeaf := node.triCount > 0
		if !overlap {
			i = node.escapeIndex
			continue
		}
		if isLeaf {
			dst = append(dst, ctm.indices[node.triOffset:node.triOffset+node.triCount]...)
		}
		i++
	}
	return dst
}
