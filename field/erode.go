package field

import "github.com/talusforge/navmesh/voxel"

// Erode clears the area (sets it to voxel.NullArea) of every span
// whose chamfer distance-to-border is below 2*radius, where radius is
// the agent's walkable_radius in cells. This supplements §4.B: the base
// spec only excludes spans from region growth via area==None, but never
// describes how the mesh is pulled back from obstacle edges by the
// agent's own radius so its rendered footprint does not clip through
// geometry. Grounded on the teacher's ErodeWalkableArea, which reuses
// the same distance-field machinery as region seeding.
func Erode(ohf *OpenHeightfield, radius uint16) {
	if radius == 0 {
		return
	}
	threshold := uint16(radius) * 2
	dist := make([]uint16, len(ohf.Spans))
	for i, s := range ohf.Spans {
		if s.Area == voxel.NullArea {
			dist[i] = 0
			continue
		}
		isBorder := false
		for d := 0; d < 4; d++ {
			nb := s.Neighbours[d]
			if nb == noNeighbour || ohf.Spans[nb].Area == voxel.NullArea {
				isBorder = true
				break
			}
		}
		if isBorder {
			dist[i] = 0
		} else {
			dist[i] = 0xfffe
		}
	}

	n := len(ohf.Spans)
	for i := 0; i < n; i++ {
		relax(ohf, dist, i, 0, 3)
		relax(ohf, dist, i, 3, 2)
	}
	for i := n - 1; i >= 0; i-- {
		relax(ohf, dist, i, 2, 1)
		relax(ohf, dist, i, 1, 0)
	}

	for i := range ohf.Spans {
		if dist[i] < threshold {
			ohf.Spans[i].Area = voxel.NullArea
		}
	}
}
