package navmesh

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/google/uuid"
)

// AreaID tags a collection of triangles with the traversal area they
// belong to. AreaID 0 is voxel.NullArea: triangles tagged with it never
// produce walkable spans. Apart from that, equality is the only
// operation the pipeline performs on area ids: two collections with the
// same AreaID merge their spans as one area; different ids never merge.
type AreaID uint8

// DefaultArea is the area assigned to a Collection with no explicit
// area tag.
const DefaultArea AreaID = 1

// Transform is a row-major 4x3 affine transform (3 rows of 4, last row
// implicit (0,0,0,1)), mirroring the boundary interface described for
// collider adapters: the core consumes only vertices/indices/transform.
type Transform [3][4]float32

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
}

// Apply transforms v by t, returning a new point.
func (t Transform) Apply(v d3.Vec3) d3.Vec3 {
	return d3.NewVec3XYZ(
		t[0][0]*v.X()+t[0][1]*v.Y()+t[0][2]*v.Z()+t[0][3],
		t[1][0]*v.X()+t[1][1]*v.Y()+t[1][2]*v.Z()+t[1][3],
		t[2][0]*v.X()+t[2][1]*v.Y()+t[2][2]*v.Z()+t[2][3],
	)
}

// ApplyNormal transforms a normal direction by t, ignoring translation.
// Assumes t carries no non-uniform scale (the voxelizer only needs the
// normal's sign relative to up, not its exact length).
func (t Transform) ApplyNormal(n d3.Vec3) d3.Vec3 {
	return d3.NewVec3XYZ(
		t[0][0]*n.X()+t[0][1]*n.Y()+t[0][2]*n.Z(),
		t[1][0]*n.X()+t[1][1]*n.Y()+t[1][2]*n.Z(),
		t[2][0]*n.X()+t[2][1]*n.Y()+t[2][2]*n.Z(),
	)
}

// Collection is one affecting entity's world-space triangle soup: a
// collider's vertices and index triples, its placement, and the area it
// contributes. EntityID lets a host correlate a Collection back to the
// scene-graph/ECS entity that produced it (out of scope here — see §1);
// the pipeline itself never interprets it beyond carrying it through
// logs.
type Collection struct {
	EntityID  uuid.UUID
	Transform Transform
	Vertices  []d3.Vec3
	Indices   [][3]uint32
	Area      AreaID
}

// Geometry is the full set of collections that may affect a tile build.
// It is the pipeline's only input besides Settings and a TileCoord; a
// build is a pure function of (Geometry, Settings, TileCoord).
type Geometry struct {
	Collections []Collection
}

// Triangle returns the world-space vertices of the idx'th triangle of
// c, already placed by c.Transform.
func (c Collection) Triangle(idx int) (a, b, d d3.Vec3) {
	tri := c.Indices[idx]
	return c.Transform.Apply(c.Vertices[tri[0]]),
		c.Transform.Apply(c.Vertices[tri[1]]),
		c.Transform.Apply(c.Vertices[tri[2]])
}

// NumTriangles returns the number of triangles in c.
func (c Collection) NumTriangles() int { return len(c.Indices) }
