// Package tilespace converts between world space and the tile-local
// bordered cell grid (§3) used by every build stage. It has no
// dependency on the root package so voxel, field, region, contour,
// polymesh and navtile can all share one coordinate frame without a
// cyclic import.
package tilespace

import "github.com/arl/gogeo/f32/d3"

// Coord addresses one tile in the unbounded horizontal tiling
// established by WorldHalfExtents and TileWidth.
type Coord struct {
	X, Z int32
}

// Params is the subset of Settings the coordinate frame needs.
type Params struct {
	CellWidth        float32
	CellHeight       float32
	TileWidth        uint16
	WorldHalfExtents float32
	WorldBottomBound float32
	WalkableRadius   uint16
}

// Frame derives the world-space placement of one tile: the tile-local
// origin (its min world corner in XZ), the cell grid dimensions
// including the walkable-radius border, and conversions between world
// space and tile-local cell space.
type Frame struct {
	p     Params
	coord Coord

	side    int32
	border  int32
	originX float32
	originZ float32
}

// NewFrame builds the coordinate frame for one tile build.
func NewFrame(p Params, coord Coord) Frame {
	border := int32(p.WalkableRadius)
	side := int32(p.TileWidth)
	tileSize := float32(p.TileWidth) * p.CellWidth
	minX := -p.WorldHalfExtents + float32(coord.X)*tileSize
	minZ := -p.WorldHalfExtents + float32(coord.Z)*tileSize
	return Frame{
		p:       p,
		coord:   coord,
		side:    side,
		border:  border,
		originX: minX - float32(border)*p.CellWidth,
		originZ: minZ - float32(border)*p.CellWidth,
	}
}

// GridSide returns the cell count per side of the bordered grid, i.e.
// tile_width + 2*walkable_radius.
func (f Frame) GridSide() int32 { return f.side + 2*f.border }

// Border returns the walkable_radius border width in cells.
func (f Frame) Border() int32 { return f.border }

// TileWidth returns the exposed (unbordered) tile width in cells.
func (f Frame) TileWidth() int32 { return f.side }

// Coord returns the tile coordinate this frame was built for.
func (f Frame) Coord() Coord { return f.coord }

// CellWidth returns the horizontal cell size.
func (f Frame) CellWidth() float32 { return f.p.CellWidth }

// CellHeight returns the vertical cell size.
func (f Frame) CellHeight() float32 { return f.p.CellHeight }

// WorldToCellX converts a world X coordinate to fractional bordered-grid
// column.
func (f Frame) WorldToCellX(x float32) float32 { return (x - f.originX) / f.p.CellWidth }

// WorldToCellZ converts a world Z coordinate to fractional bordered-grid
// row.
func (f Frame) WorldToCellZ(z float32) float32 { return (z - f.originZ) / f.p.CellWidth }

// WorldToCellY converts a world Y coordinate to fractional Y cell index,
// relative to WorldBottomBound.
func (f Frame) WorldToCellY(y float32) float32 {
	return (y - f.p.WorldBottomBound) / f.p.CellHeight
}

// CellToWorldX converts a bordered-grid column back to world X (min
// corner of the cell).
func (f Frame) CellToWorldX(c int32) float32 { return f.originX + float32(c)*f.p.CellWidth }

// CellToWorldZ converts a bordered-grid row back to world Z.
func (f Frame) CellToWorldZ(r int32) float32 { return f.originZ + float32(r)*f.p.CellWidth }

// CellToWorldY converts a Y cell index back to world Y.
func (f Frame) CellToWorldY(y int32) float32 {
	return f.p.WorldBottomBound + float32(y)*f.p.CellHeight
}

// CellToWorld converts a bordered-grid (col, row, yIndex) triple to a
// world-space point.
func (f Frame) CellToWorld(c, r, y int32) d3.Vec3 {
	return d3.NewVec3XYZ(f.CellToWorldX(c), f.CellToWorldY(y), f.CellToWorldZ(r))
}

// Bounds returns the world-space XZ AABB of the bordered grid.
func (f Frame) Bounds() (minX, minZ, maxX, maxZ float32) {
	side := f.GridSide()
	return f.originX, f.originZ,
		f.originX + float32(side)*f.p.CellWidth,
		f.originZ + float32(side)*f.p.CellWidth
}

// CoordForPoint returns the Coord whose unbordered extent contains the
// world-space XZ point (x, z).
func CoordForPoint(p Params, x, z float32) Coord {
	tileSize := float32(p.TileWidth) * p.CellWidth
	fx := (x + p.WorldHalfExtents) / tileSize
	fz := (z + p.WorldHalfExtents) / tileSize
	return Coord{X: int32(floorf(fx)), Z: int32(floorf(fz))}
}

func floorf(v float32) float32 {
	i := float32(int32(v))
	if i > v {
		i--
	}
	return i
}
