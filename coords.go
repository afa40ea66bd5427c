package navmesh

import "github.com/talusforge/navmesh/tilespace"

// TileCoord addresses one tile in the unbounded horizontal tiling
// established by Settings.WorldHalfExtents and Settings.TileWidth.
type TileCoord = tilespace.Coord

// Frame is the world-space placement of one tile: origin, bordered grid
// size, and world/cell-space conversions. See package tilespace.
type Frame = tilespace.Frame

// NewFrame builds the coordinate frame for one tile build.
func NewFrame(s Settings, coord TileCoord) Frame {
	return tilespace.NewFrame(s.frameParams(), coord)
}

func (s Settings) frameParams() tilespace.Params {
	return tilespace.Params{
		CellWidth:        s.CellWidth,
		CellHeight:       s.CellHeight,
		TileWidth:        s.TileWidth,
		WorldHalfExtents: s.WorldHalfExtents,
		WorldBottomBound: s.WorldBottomBound,
		WalkableRadius:   s.WalkableRadius,
	}
}

// TileCoordForPoint returns the TileCoord whose unbordered extent
// contains the world-space XZ point (x, z).
func TileCoordForPoint(s Settings, x, z float32) TileCoord {
	return tilespace.CoordForPoint(s.frameParams(), x, z)
}
