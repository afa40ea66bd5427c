package polymesh

// edgeRef identifies one directed edge of one polygon by its polygon
// index and local edge slot (0, 1 or 2, the edge starting at that
// vertex index).
type edgeRef struct {
	poly uint32
	slot int
}

// buildAdjacency emits every polygon edge keyed on its (min,max)
// vertex pair, pairs up edges that share a key, and tags anything left
// unmatched that lies on the tile's exposed boundary (in cell space,
// offset by border) as OffMesh; everything else stays None (§4.F).
func buildAdjacency(mesh *Mesh, tileWidth, border int32) {
	table := map[[2]uint32][]edgeRef{}

	for pi := range mesh.Polygons {
		poly := &mesh.Polygons[pi]
		for slot := 0; slot < 3; slot++ {
			v0 := poly.Indices[slot]
			v1 := poly.Indices[(slot+1)%3]
			key := edgeKey(v0, v1)
			table[key] = append(table[key], edgeRef{poly: uint32(pi), slot: slot})
		}
	}

	for _, refs := range table {
		if len(refs) == 2 {
			a, b := refs[0], refs[1]
			mesh.Polygons[a.poly].Edges[a.slot] = Edge{Kind: EdgeInternal, Neighbour: b.poly}
			mesh.Polygons[b.poly].Edges[b.slot] = Edge{Kind: EdgeInternal, Neighbour: a.poly}
			continue
		}
		for _, ref := range refs {
			poly := &mesh.Polygons[ref.poly]
			v0 := poly.Indices[ref.slot]
			v1 := poly.Indices[(ref.slot+1)%3]
			dir, onBorder := borderDirection(mesh.Vertices[v0], mesh.Vertices[v1], tileWidth, border)
			if onBorder {
				poly.Edges[ref.slot] = Edge{Kind: EdgeOffMesh, Direction: dir}
			} else {
				poly.Edges[ref.slot] = Edge{Kind: EdgeNone}
			}
		}
	}
}

func edgeKey(a, b uint32) [2]uint32 {
	if a < b {
		return [2]uint32{a, b}
	}
	return [2]uint32{b, a}
}

// borderDirection reports which cardinal tile boundary (if any) the
// edge (v0,v1) lies on entirely, using exposed-mesh coordinates (cell
// coordinates minus the walkable-radius border).
func borderDirection(v0, v1 Vertex, tileWidth, border int32) (dir int32, onBorder bool) {
	x0, x1 := v0.X-border, v1.X-border
	z0, z1 := v0.Z-border, v1.Z-border
	switch {
	case x0 == 0 && x1 == 0:
		return 0, true // -X
	case z0 == tileWidth && z1 == tileWidth:
		return 1, true // +Z
	case x0 == tileWidth && x1 == tileWidth:
		return 2, true // +X
	case z0 == 0 && z1 == 0:
		return 3, true // -Z
	default:
		return 0, false
	}
}
