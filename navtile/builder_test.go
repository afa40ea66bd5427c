package navtile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talusforge/navmesh"
	"github.com/talusforge/navmesh/geomfixture"
	"github.com/talusforge/navmesh/navtile"
	"github.com/talusforge/navmesh/tilespace"
)

func testSettings() navmesh.Settings {
	return navmesh.Settings{
		CellWidth:                     0.5,
		CellHeight:                    0.2,
		TileWidth:                     80,
		WorldHalfExtents:              20,
		WorldBottomBound:              -5,
		MaxTraversableSlopeRadians:    0.7853982,
		WalkableHeight:                4,
		WalkableRadius:                2,
		StepHeight:                    1,
		MinRegionArea:                 1,
		MaxRegionAreaToMergeInto:      50,
		MaxContourSimplificationError: 1.3,
		MaxEdgeLength:                 12,
		MaxTileGenerationTasks:        2,
	}
}

func TestBuilderBuildTileCommitsToStore(t *testing.T) {
	s := testSettings()
	store := navtile.NewTileStore(tilespace.Params{
		CellWidth:        s.CellWidth,
		CellHeight:       s.CellHeight,
		TileWidth:        s.TileWidth,
		WorldHalfExtents: s.WorldHalfExtents,
		WorldBottomBound: s.WorldBottomBound,
		WalkableRadius:   s.WalkableRadius,
	}, s.StepHeight)

	geom := geomfixture.Scenario1()
	builder := navtile.NewBuilder(store, s, func(navtile.Coord) navmesh.Geometry { return geom })

	err := builder.BuildTile(context.Background(), navtile.Coord{X: 0, Z: 0})
	assert.NoError(t, err)

	tile, ok := store.Get(navtile.Coord{X: 0, Z: 0})
	assert.True(t, ok, "a flat ground plane covering the whole tile must produce at least one polygon")
	assert.NotEmpty(t, tile.Polygons)
	assert.Equal(t, uint32(1), tile.Salt)
}

func TestBuilderBuildTilesRespectsGenerationOrdering(t *testing.T) {
	s := testSettings()
	store := navtile.NewTileStore(tilespace.Params{
		CellWidth:        s.CellWidth,
		CellHeight:       s.CellHeight,
		TileWidth:        s.TileWidth,
		WorldHalfExtents: s.WorldHalfExtents,
		WorldBottomBound: s.WorldBottomBound,
		WalkableRadius:   s.WalkableRadius,
	}, s.StepHeight)

	geom := geomfixture.Scenario1()
	builder := navtile.NewBuilder(store, s, func(navtile.Coord) navmesh.Geometry { return geom })

	coords := []navtile.Coord{{X: 0, Z: 0}}
	assert.NoError(t, builder.BuildTiles(context.Background(), coords))
	first, _ := store.Get(coords[0])
	firstSalt := first.Salt

	assert.NoError(t, builder.BuildTiles(context.Background(), coords))
	second, _ := store.Get(coords[0])
	assert.Greater(t, second.Salt, firstSalt, "a later BuildTiles call must win with a strictly newer generation")
}
