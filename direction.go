package navmesh

// Direction is one of the four cardinal directions used throughout the
// cell grid: 0 = -X, 1 = +Z, 2 = +X, 3 = -Z.
type Direction int32

const (
	DirMinusX Direction = 0
	DirPlusZ  Direction = 1
	DirPlusX  Direction = 2
	DirMinusZ Direction = 3
)

var dirOffsetX = [4]int32{-1, 0, 1, 0}
var dirOffsetZ = [4]int32{0, 1, 0, -1}

// OffsetX returns the column offset to apply to move one cell in d.
func (d Direction) OffsetX() int32 { return dirOffsetX[d&3] }

// OffsetZ returns the row offset to apply to move one cell in d.
func (d Direction) OffsetZ() int32 { return dirOffsetZ[d&3] }

// CW rotates d clockwise: (d+1)&3.
func (d Direction) CW() Direction { return (d + 1) & 3 }

// CCW rotates d counter-clockwise: (d+3)&3.
func (d Direction) CCW() Direction { return (d + 3) & 3 }

// Opposite returns the direction pointing the other way: (d+2)&3.
func (d Direction) Opposite() Direction { return (d + 2) & 3 }
