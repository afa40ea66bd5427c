// Package geomfixture builds the procedural geometry fixtures used by
// the pipeline's testable-property scenarios (§8, S1-S6), plus an OBJ
// loader for externally authored test meshes, grounded on
// recast/meshloaderobj.go's use of github.com/arl/gobj.
package geomfixture

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/google/uuid"

	"github.com/talusforge/navmesh"
)

// Cuboid returns a 12-triangle box collection centered at center with
// the given half-extents, tagged area, and identity transform.
// Winding is counter-clockwise seen from outside each face.
func Cuboid(center, halfExtents d3.Vec3, area navmesh.AreaID) navmesh.Collection {
	cx, cy, cz := center[0], center[1], center[2]
	hx, hy, hz := halfExtents[0], halfExtents[1], halfExtents[2]

	verts := []d3.Vec3{
		{cx - hx, cy - hy, cz - hz}, // 0
		{cx + hx, cy - hy, cz - hz}, // 1
		{cx + hx, cy + hy, cz - hz}, // 2
		{cx - hx, cy + hy, cz - hz}, // 3
		{cx - hx, cy - hy, cz + hz}, // 4
		{cx + hx, cy - hy, cz + hz}, // 5
		{cx + hx, cy + hy, cz + hz}, // 6
		{cx - hx, cy + hy, cz + hz}, // 7
	}

	indices := [][3]uint32{
		// -Z face
		{0, 2, 1}, {0, 3, 2},
		// +Z face
		{4, 5, 6}, {4, 6, 7},
		// -X face
		{0, 4, 7}, {0, 7, 3},
		// +X face
		{1, 2, 6}, {1, 6, 5},
		// -Y face
		{0, 1, 5}, {0, 5, 4},
		// +Y face
		{3, 7, 6}, {3, 6, 2},
	}

	return navmesh.Collection{
		EntityID:  uuid.New(),
		Transform: navmesh.Identity(),
		Vertices:  verts,
		Indices:   indices,
		Area:      area,
	}
}

// GroundPlane returns S1-S6's flat ground collider: a thin Cuboid
// acting as the walkable floor.
func GroundPlane(halfExtents d3.Vec3, area navmesh.AreaID) navmesh.Collection {
	return Cuboid(d3.Vec3{0, 0, 0}, halfExtents, area)
}

// Scenario1 is §8's S1: one ground plane, nothing else.
func Scenario1() navmesh.Geometry {
	return navmesh.Geometry{
		Collections: []navmesh.Collection{
			GroundPlane(d3.Vec3{10, 0.2, 10}, navmesh.DefaultArea),
		},
	}
}

// Scenario2 is §8's S2: the S1 ground plane plus five obstacle cubes.
func Scenario2() navmesh.Geometry {
	g := Scenario1()
	cubes := []struct {
		center, half d3.Vec3
	}{
		{d3.Vec3{0, 0, 0}, d3.Vec3{0.5, 0.5, 0.5}},
		{d3.Vec3{5, 1, 0}, d3.Vec3{0.5, 1, 0.5}},
		{d3.Vec3{-5, 1, 2}, d3.Vec3{0.5, 1, 0.5}},
		{d3.Vec3{-2.5, 2, 2}, d3.Vec3{0.5, 2, 0.5}},
		{d3.Vec3{-2.5, 2, -2}, d3.Vec3{0.5, 2, 0.5}},
	}
	for _, c := range cubes {
		g.Collections = append(g.Collections, Cuboid(c.center, c.half, navmesh.DefaultArea))
	}
	return g
}

// Scenario4 is §8's S4: an empty world.
func Scenario4() navmesh.Geometry {
	return navmesh.Geometry{}
}

// Scenario5Compound is §8's S5: the same five cuboids of Scenario2
// (minus the ground) as one compound collection sharing a single
// entity id, for comparison against Scenario5Individual.
func Scenario5Compound() navmesh.Geometry {
	individual := Scenario2()
	merged := individual.Collections[0]
	for _, c := range individual.Collections[1:] {
		base := uint32(len(merged.Vertices))
		merged.Vertices = append(merged.Vertices, c.Vertices...)
		for _, tri := range c.Indices {
			merged.Indices = append(merged.Indices, [3]uint32{tri[0] + base, tri[1] + base, tri[2] + base})
		}
	}
	return navmesh.Geometry{Collections: []navmesh.Collection{merged}}
}

// Scenario5Individual is Scenario2 under its proper name: the same six
// shapes (ground plus five cuboids) as separate colliders instead of
// Scenario5Compound's merged one.
func Scenario5Individual() navmesh.Geometry {
	return Scenario2()
}

// Scenario6 is §8's S6: S1 plus a thin wall obstructing the straight
// line between the two S6 query points.
func Scenario6() navmesh.Geometry {
	g := Scenario1()
	wall := Cuboid(d3.Vec3{-3, 0.8, 5}, d3.Vec3{2.5, 0.75, 0.05}, navmesh.DefaultArea)
	g.Collections = append(g.Collections, wall)
	return g
}
