// Package navtile holds built tiles by coordinate and links their
// OffMesh edges to the (up to four) cardinal neighbours whenever a tile
// is (re)built (§4.H), under the generation-gated commit and
// reader/writer exclusion described in §5. Package query reads the
// TileStore to answer nearest-polygon, A* and funnel queries.
package navtile

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/talusforge/navmesh"
	"github.com/talusforge/navmesh/polymesh"
	"github.com/talusforge/navmesh/voxel"
)

// Coord addresses one tile; see navmesh.TileCoord.
type Coord = navmesh.TileCoord

// EdgeKind tags one triangle edge's static connection class (§3),
// carried alongside the resolved Links so a polygon's border shape is
// still visible even on edges a linker pass hasn't (yet) resolved.
type EdgeKind int

const (
	EdgeNone EdgeKind = iota
	EdgeInternal
	EdgeOffMesh
)

// Edge is one polygon edge's static tag, copied in from the polymesh
// adjacency pass.
type Edge struct {
	Kind      EdgeKind
	Neighbour uint32 // polygon index, valid when Kind == EdgeInternal
	Direction navmesh.Direction
}

// LinkKind distinguishes a same-tile polygon link from a cross-tile
// portal link (§3's Link variant).
type LinkKind int

const (
	LinkInternal LinkKind = iota
	LinkOffMesh
)

// Link is either Internal{edge, neighbour_polygon} or
// OffMesh{edge, neighbour_polygon, direction, bound_min, bound_max}
// (§3). NeighbourTile is this tile's own Coord for Internal links, and
// the neighbouring tile's Coord for OffMesh links.
type Link struct {
	Kind          LinkKind
	Edge          uint8
	NeighbourTile Coord
	NeighbourPoly uint32
	Direction     navmesh.Direction
	// BoundMin/BoundMax quantize the traversable sub-interval of the
	// shared edge to [0,255] (§3), valid only when Kind == LinkOffMesh.
	BoundMin, BoundMax uint8
}

// Polygon is one triangle of a tile's mesh together with its static
// edge tags and resolved links (§3).
type Polygon struct {
	Indices [3]uint32
	Region  uint16
	Area    voxel.Area
	Edges   [3]Edge
	Links   []Link
}

// Tile is one (re)built tile: world-space vertices, triangles, and
// their resolved links, plus the generation bookkeeping described in
// §3's lifecycle.
type Tile struct {
	Coord    Coord
	Salt     uint32
	Vertices []d3.Vec3
	Polygons []Polygon
	// Detail holds the optional detail mesh (§4.G), sharing this tile's
	// polygon identity: Detail.Vertices[i]/Triangles[i] belong to
	// Polygons[i]. Nil when detail mesh generation is disabled.
	Detail *polymesh.DetailMesh
}

// AssembleTile converts a pipeline TileData (cell-space, produced by
// navmesh.BuildTile) into a Tile with world-space vertices, copying the
// polymesh adjacency tags verbatim and seeding one Link per Internal
// edge. OffMesh edges gain their Links only once TileStore.Commit links
// this tile against its neighbours.
func AssembleTile(coord Coord, data *navmesh.TileData) *Tile {
	mesh := data.Mesh
	frame := data.Frame

	verts := make([]d3.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = frame.CellToWorld(v.X, v.Z, v.Y)
	}

	polys := make([]Polygon, len(mesh.Polygons))
	for i, p := range mesh.Polygons {
		poly := Polygon{
			Indices: p.Indices,
			Region:  p.Region,
			Area:    p.Area,
		}
		for slot, e := range p.Edges {
			switch e.Kind {
			case polymesh.EdgeInternal:
				poly.Edges[slot] = Edge{Kind: EdgeInternal, Neighbour: e.Neighbour}
				poly.Links = append(poly.Links, Link{
					Kind:          LinkInternal,
					Edge:          uint8(slot),
					NeighbourTile: coord,
					NeighbourPoly: e.Neighbour,
				})
			case polymesh.EdgeOffMesh:
				poly.Edges[slot] = Edge{Kind: EdgeOffMesh, Direction: navmesh.Direction(e.Direction)}
			default:
				poly.Edges[slot] = Edge{Kind: EdgeNone}
			}
		}
		polys[i] = poly
	}

	return &Tile{
		Coord:    coord,
		Vertices: verts,
		Polygons: polys,
		Detail:   data.Detail,
	}
}

// EdgeVertices returns the world-space endpoints of polygon pi's edge
// slot, in winding order.
func (t *Tile) EdgeVertices(pi int, slot int) (a, b d3.Vec3) {
	poly := t.Polygons[pi]
	a = t.Vertices[poly.Indices[slot]]
	b = t.Vertices[poly.Indices[(slot+1)%3]]
	return a, b
}
