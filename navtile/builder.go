package navtile

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/talusforge/navmesh"
	"github.com/talusforge/navmesh/internal/buildlog"
)

// GeometrySource supplies the affecting-geometry snapshot for one tile
// build job (§5: "the geometry snapshot passed to each build job is
// owned exclusively by that job").
type GeometrySource func(coord Coord) navmesh.Geometry

// Builder runs BuildTile across a bounded worker pool and commits
// results into a TileStore (§5's scheduling model). Tile builds have
// no suspension points and no cooperative cancellation: a submitted
// job always runs to completion, and a superseded build is discarded
// on commit rather than preempted.
type Builder struct {
	Store    *TileStore
	Settings navmesh.Settings
	Geometry GeometrySource

	// NewLog, if set, is called once per job to obtain the
	// buildlog.Context that job's BuildTile call logs progress and
	// timers to. Nil means BuildTile gets a no-op logger.
	NewLog func() *buildlog.Context

	generation uint64
}

// NewBuilder constructs a Builder over store, ready to build tiles
// with s against the geometry snapshots geom provides.
func NewBuilder(store *TileStore, s navmesh.Settings, geom GeometrySource) *Builder {
	return &Builder{Store: store, Settings: s, Geometry: geom}
}

// nextGeneration hands out one strictly increasing generation id per
// call; concurrent BuildTiles calls on the same Builder therefore never
// reuse a generation.
func (b *Builder) nextGeneration() uint64 {
	return atomic.AddUint64(&b.generation, 1)
}

// BuildTiles builds and commits every coord concurrently, bounded by
// Settings.MaxTileGenerationTasks (§5, §6). It returns the first
// non-fatal-invariant error encountered (e.g. ctx cancellation); a
// per-tile fatal invariant (§7 ErrFatalInvariant) is logged and
// swallowed so one bad tile does not abort its siblings, matching
// "discard the tile and log" (§7 propagation rule).
func (b *Builder) BuildTiles(ctx context.Context, coords []Coord) error {
	limit := int(b.Settings.MaxTileGenerationTasks)
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, coord := range coords {
		coord := coord
		gen := b.nextGeneration()
		g.Go(func() error {
			return b.buildOne(ctx, coord, gen)
		})
	}
	return g.Wait()
}

// BuildTile builds and commits a single coordinate at a freshly
// allocated generation, bypassing the worker pool (useful for one-off
// rebuilds triggered by a single geometry edit).
func (b *Builder) BuildTile(ctx context.Context, coord Coord) error {
	return b.buildOne(ctx, coord, b.nextGeneration())
}

func (b *Builder) buildOne(ctx context.Context, coord Coord, gen uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var log *buildlog.Context
	if b.NewLog != nil {
		log = b.NewLog()
	}

	geom := b.Geometry(coord)
	data, err := navmesh.BuildTile(geom, b.Settings, coord, log)
	if err != nil {
		if log != nil {
			log.Errorf("navtile: tile %v: build discarded: %v", coord, err)
		}
		// A fatal invariant is tile-local (§7): drop this build, keep
		// whatever the store already has for coord.
		return nil
	}

	tile := AssembleTile(coord, data)
	b.Store.Commit(coord, gen, tile)
	return nil
}
