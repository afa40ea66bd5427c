// Package polymesh triangulates contour loops into a tile's polygon
// mesh, deduplicating shared vertices and tagging every edge as
// Internal, OffMesh, or None (§4.F).
package polymesh

import (
	"github.com/talusforge/navmesh/contour"
	"github.com/talusforge/navmesh/voxel"
)

// EdgeKind tags one triangle edge (§3).
type EdgeKind int

const (
	// EdgeNone is an edge that buildAdjacency could not pair with
	// another polygon's edge and that does not lie on the tile border,
	// such as an edge on the hull of a region; it stays None in the
	// built Mesh.
	EdgeNone EdgeKind = iota
	// EdgeInternal links to another polygon of the same tile.
	EdgeInternal
	// EdgeOffMesh lies on the tile's outer border and needs cross-tile
	// linking.
	EdgeOffMesh
)

// Edge is one triangle edge's connection tag.
type Edge struct {
	Kind      EdgeKind
	Neighbour uint32 // polygon index, valid when Kind == EdgeInternal
	Direction int32  // cardinal direction 0..3, valid when Kind == EdgeOffMesh
}

// Vertex is a cell-space mesh vertex (tile-local, prior to the
// world-unit conversion the root package applies when assembling a
// navtile.Tile).
type Vertex struct {
	X, Y, Z int32
}

// Polygon is always a triangle (§3): "Every polygon is a triangle."
type Polygon struct {
	Indices [3]uint32
	Edges   [3]Edge
	Region  uint16
	Area    voxel.Area
}

// Mesh is one tile's triangulated polygon set, in cell-space prior to
// world-unit conversion.
type Mesh struct {
	Vertices []Vertex
	Polygons []Polygon
}

// spatialHashBits is the 12-bit hash width used to deduplicate
// vertices sharing X and Z (§4.F).
const spatialHashBits = 12

func spatialHash(x, z int32) uint32 {
	const h1, h2 = 0x8da6b343, 0xcb1ab31f
	return (uint32(h1)*uint32(x) + uint32(h2)*uint32(z)) & ((1 << spatialHashBits) - 1)
}

type vertexIndex struct {
	buckets map[uint32][]uint32
	mesh    *Mesh
}

func newVertexIndex(mesh *Mesh) *vertexIndex {
	return &vertexIndex{buckets: make(map[uint32][]uint32), mesh: mesh}
}

// addOrFind merges v into an existing vertex sharing X,Z and differing
// in Y by at most 1; otherwise appends v and returns its new index.
func (vi *vertexIndex) addOrFind(v Vertex) uint32 {
	h := spatialHash(v.X, v.Z)
	for _, idx := range vi.buckets[h] {
		ev := vi.mesh.Vertices[idx]
		if ev.X == v.X && ev.Z == v.Z && absI32(ev.Y-v.Y) <= 1 {
			return idx
		}
	}
	idx := uint32(len(vi.mesh.Vertices))
	vi.mesh.Vertices = append(vi.mesh.Vertices, v)
	vi.buckets[h] = append(vi.buckets[h], idx)
	return idx
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Build triangulates every contour (skipping any with fewer than 3
// vertices, and warning about and skipping any that fails
// triangulation) into a single tile Mesh, then builds polygon adjacency and tags tile-border edges
// OffMesh.
func Build(contours []contour.Contour, tileWidth, border int32, warnf func(format string, args ...interface{})) *Mesh {
	mesh := &Mesh{}
	vi := newVertexIndex(mesh)

	for _, c := range contours {
		if len(c.Vertices) < 3 {
			continue
		}
		indices := make([]uint32, len(c.Vertices))
		for i, v := range c.Vertices {
			indices[i] = vi.addOrFind(Vertex{X: v.X, Y: v.Y, Z: v.Z})
		}
		tris, ok := triangulate(mesh.Vertices, indices)
		if !ok {
			warnf("polymesh: region %d: contour triangulation failed, skipping", c.Region)
			continue
		}
		for _, t := range tris {
			if triangleArea2(mesh.Vertices, t) == 0 {
				continue // drop degenerate zero-area triangles from the loose fallback
			}
			mesh.Polygons = append(mesh.Polygons, Polygon{
				Indices: t,
				Region:  c.Region,
				Area:    c.Area,
			})
		}
	}

	buildAdjacency(mesh, tileWidth, border)
	return mesh
}

func triangleArea2(verts []Vertex, t [3]uint32) int64 {
	a, b, c := verts[t[0]], verts[t[1]], verts[t[2]]
	return int64(b.X-a.X)*int64(c.Z-a.Z) - int64(c.X-a.X)*int64(b.Z-a.Z)
}
