// Package navmesh generates a tiled navigation mesh — a connected graph
// of walkable triangles — from triangle-soup world geometry, and answers
// pathfinding queries against it.
//
// The pipeline mirrors Recast/Detour: a collection of triangles is
// voxelized into a solid heightfield (package voxel), inverted into an
// open heightfield with a distance field (package field), watershed-
// partitioned into regions (package region), traced into contours
// (package contour), triangulated into a polygon mesh with an optional
// detail mesh (package polymesh), and finally stored and linked to its
// neighbours (package navtile). Package query answers nearest-polygon,
// A*, and funnel (string-pulling) queries against a TileStore.
//
// BuildTile in this package runs the whole pipeline for one tile
// coordinate; navtile.Builder runs it across a bounded worker pool and
// commits results into a TileStore under the tile-rebuild ordering rules
// described in the package's own doc comment.
package navmesh
