package geomfixture

import (
	"github.com/arl/gobj"
	"github.com/arl/gogeo/f32/d3"
	"github.com/google/uuid"

	"github.com/talusforge/navmesh"
)

// LoadOBJ reads an OBJ mesh from path and returns it as one Collection
// placed by transform and tagged area, fan-triangulating any polygon
// with more than three vertices. Grounded on
// recast/meshloaderobj.go's MeshLoaderObj.Load.
func LoadOBJ(path string, transform navmesh.Transform, area navmesh.AreaID) (navmesh.Collection, error) {
	obj, err := gobj.Load(path)
	if err != nil {
		return navmesh.Collection{}, err
	}

	objVerts := obj.Verts()
	verts := make([]d3.Vec3, len(objVerts))
	for i, v := range objVerts {
		verts[i] = d3.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
	}

	var indices [][3]uint32
	for _, poly := range obj.Polys() {
		for i := 2; i < len(poly); i++ {
			a, b, c := poly[0], poly[i-1], poly[i]
			if a < 0 || a >= len(verts) || b < 0 || b >= len(verts) || c < 0 || c >= len(verts) {
				continue
			}
			indices = append(indices, [3]uint32{uint32(a), uint32(b), uint32(c)})
		}
	}

	return navmesh.Collection{
		EntityID:  uuid.New(),
		Transform: transform,
		Vertices:  verts,
		Indices:   indices,
		Area:      area,
	}, nil
}
