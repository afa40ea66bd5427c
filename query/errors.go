// Package query answers navigation questions against a navtile.TileStore:
// locating the polygon closest to a point (§4.I find_closest_polygon),
// A* search over the polygon graph (find_path), and funnel string-pulling
// over the resulting polygon corridor (perform_string_pulling).
package query

import (
	"errors"
	"fmt"
)

// FindPathError's sentinel causes (§7).
var (
	ErrStartOutOfMesh = errors.New("query: start position has no polygon within the search extents")
	ErrEndOutOfMesh   = errors.New("query: end position has no polygon within the search extents")
	ErrNoPath         = errors.New("query: open set exhausted before reaching the end polygon")
)

// FindPathError reports why FindPath could not produce a path.
type FindPathError struct {
	Err error
}

func (e *FindPathError) Error() string { return fmt.Sprintf("query: find_path: %v", e.Err) }
func (e *FindPathError) Unwrap() error { return e.Err }

// StringPullingError's sentinel causes (§7).
var (
	ErrPathEmpty              = errors.New("query: polygon path is empty")
	ErrMissingStartTile       = errors.New("query: start polygon's tile is not in the store")
	ErrMissingEndTile         = errors.New("query: end polygon's tile is not in the store")
	ErrMissingNodeTile        = errors.New("query: an intermediate path polygon's tile is not in the store")
	ErrNoLinkBetweenPathPoints = errors.New("query: two consecutive path polygons are not linked")
)

// StringPullingError reports why PerformStringPulling could not smooth a
// path.
type StringPullingError struct {
	Err error
}

func (e *StringPullingError) Error() string { return fmt.Sprintf("query: perform_string_pulling: %v", e.Err) }
func (e *StringPullingError) Unwrap() error { return e.Err }
