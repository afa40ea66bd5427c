package navmesh

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/talusforge/navmesh/contour"
	"github.com/talusforge/navmesh/field"
	"github.com/talusforge/navmesh/internal/buildlog"
	"github.com/talusforge/navmesh/polymesh"
	"github.com/talusforge/navmesh/region"
	"github.com/talusforge/navmesh/voxel"
)

// TileData is the output of one run of the pipeline (§2): everything
// needed to commit a navtile.Tile.
type TileData struct {
	Frame  Frame
	Mesh   *polymesh.Mesh
	Detail *polymesh.DetailMesh // nil unless Settings.DetailMesh is set
}

// BuildTile runs the whole per-tile pipeline (§2, stages A-G) for one
// tile coordinate: voxelize -> open heightfield -> distance field ->
// erode -> watershed regions -> contours -> polygon mesh -> optional
// detail mesh. It is a pure function of (geom, s, coord): given
// identical inputs it returns byte-identical output (§5 determinism).
//
// BuildTile never panics to its caller: a fatal invariant violation
// (§7) raised via assertgo from a lower stage is recovered here and
// returned as a *BuildError wrapping ErrFatalInvariant; the caller
// (typically navtile.Builder) is responsible for discarding the build
// and keeping the store's previous tile.
func BuildTile(geom Geometry, s Settings, coord TileCoord, log *buildlog.Context) (data *TileData, err error) {
	if log == nil {
		log = buildlog.New(nil)
	}
	defer recoverBuild("BuildTile", &err)

	log.StartTimer(buildlog.TimerTotal)
	defer log.StopTimer(buildlog.TimerTotal)

	frame := NewFrame(s, coord)

	hf := voxelize(geom, s, frame, log)

	log.StartTimer(buildlog.TimerFilter)
	voxel.FilterLowHangingWalkableObstacles(hf, s.StepHeight)
	voxel.FilterLedgeSpans(hf, s.WalkableHeight, s.StepHeight)
	log.StopTimer(buildlog.TimerFilter)

	log.StartTimer(buildlog.TimerOpenHeightfield)
	ohf := field.Build(hf, s.WalkableHeight, s.StepHeight)
	log.StopTimer(buildlog.TimerOpenHeightfield)
	log.Progressf("navmesh: tile %v: %d open spans", coord, len(ohf.Spans))

	log.StartTimer(buildlog.TimerDistanceField)
	field.BuildDistanceField(ohf)
	log.StopTimer(buildlog.TimerDistanceField)

	log.StartTimer(buildlog.TimerErode)
	field.Erode(ohf, s.WalkableRadius)
	log.StopTimer(buildlog.TimerErode)

	log.StartTimer(buildlog.TimerBuildRegions)
	regions := region.Build(ohf, s.MinRegionArea, s.MaxRegionAreaToMergeInto)
	log.StopTimer(buildlog.TimerBuildRegions)
	log.Progressf("navmesh: tile %v: %d regions", coord, len(regions))

	log.StartTimer(buildlog.TimerBuildContours)
	raw := contour.Trace(ohf, s.MaxContourSimplificationError, s.MaxEdgeLength)
	merged := contour.MergeHoles(raw, log.Warnf)
	log.StopTimer(buildlog.TimerBuildContours)

	log.StartTimer(buildlog.TimerBuildPolyMesh)
	mesh := polymesh.Build(merged, int32(s.TileWidth), frame.Border(), log.Warnf)
	log.StopTimer(buildlog.TimerBuildPolyMesh)
	log.Progressf("navmesh: tile %v: %d polygons", coord, len(mesh.Polygons))

	var detail *polymesh.DetailMesh
	if s.DetailMesh != nil {
		log.StartTimer(buildlog.TimerBuildDetailMesh)
		detail = polymesh.BuildDetailMesh(mesh, ohf, s.DetailMesh.SampleDistance, s.DetailMesh.MaxHeightError)
		log.StopTimer(buildlog.TimerBuildDetailMesh)
	}

	return &TileData{Frame: frame, Mesh: mesh, Detail: detail}, nil
}

// voxelize runs stage 4.A: every collection's triangles, chunk-indexed
// per collection, are clipped into hf. Any collider the adapter could
// not triangulate (zero triangles) is skipped with a warning, matching
// §4.A's "no recoverable errors" contract for the rasterizer itself —
// the skip happens one layer up, at the adapter boundary.
func voxelize(geom Geometry, s Settings, frame Frame, log *buildlog.Context) *voxel.Heightfield {
	log.StartTimer(buildlog.TimerVoxelize)
	defer log.StopTimer(buildlog.TimerVoxelize)

	hf := voxel.NewHeightfield(frame)
	minX, minZ, maxX, maxZ := frame.Bounds()

	for _, c := range geom.Collections {
		if c.NumTriangles() == 0 {
			log.Warnf("navmesh: collection %s: no triangles, skipping", c.EntityID)
			continue
		}

		worldVerts := make([]d3.Vec3, len(c.Vertices))
		for i, v := range c.Vertices {
			worldVerts[i] = c.Transform.Apply(v)
		}
		ctm := voxel.BuildChunkyTriMesh(worldVerts, c.Indices)
		var tris []uint32
		tris = ctm.Query(minX, minZ, maxX, maxZ, tris[:0])

		for _, ti := range tris {
			idx := c.Indices[ti]
			a, b, d := worldVerts[idx[0]], worldVerts[idx[1]], worldVerts[idx[2]]
			a = tileLocalY(frame, a)
			b = tileLocalY(frame, b)
			d = tileLocalY(frame, d)
			n := voxel.TriangleNormal(a, b, d)
			n.Normalize()
			traversable := voxel.IsTraversable(n, s.MaxTraversableSlopeRadians)
			voxel.Rasterize(hf, a, b, d, traversable, voxel.Area(c.Area))
		}
	}
	return hf
}

// tileLocalY leaves X/Z untouched (Rasterize works in world XZ against
// the frame's own bounds) but is the hook point §3 describes for "Y
// unchanged": kept as a named no-op so a future per-tile Y offset
// scheme has one call site to change.
func tileLocalY(frame Frame, v d3.Vec3) d3.Vec3 { return v }
