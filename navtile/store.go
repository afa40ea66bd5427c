package navtile

import (
	"sync"

	"github.com/talusforge/navmesh"
	"github.com/talusforge/navmesh/tilespace"
)

// entry is the store's bookkeeping for one coordinate: the committed
// tile plus the build generation that produced it, used to reject
// stale commits (§5, §8 property 9).
type entry struct {
	tile       *Tile
	generation uint64
}

// TileStore owns all tiles keyed by coordinate (§3): the single source
// of truth navigation queries read. It is guarded by one
// reader/writer exclusion (§5): many readers may observe a consistent
// snapshot concurrently, writers block readers briefly, and the linker
// holds the write lock for the whole duration of a commit so neighbours
// never observe a half-linked tile.
type TileStore struct {
	params        tilespace.Params
	stepHeight    uint16 // cell units; world tolerance derived at link time
	mu            sync.RWMutex
	entries       map[Coord]*entry
}

// NewTileStore creates an empty store. params lets the store convert
// between Coord and world-space bounds for both linking (cardinal
// neighbour lookups are pure coordinate arithmetic and don't need this)
// and query's AABB-to-tile-range search; stepHeight is carried through
// for the linker's y-overlap tolerance (§4.H).
func NewTileStore(params tilespace.Params, stepHeight uint16) *TileStore {
	return &TileStore{
		params:     params,
		stepHeight: stepHeight,
		entries:    make(map[Coord]*entry),
	}
}

// Params returns the coordinate-frame parameters the store was built
// with.
func (s *TileStore) Params() tilespace.Params { return s.params }

// Get returns the currently committed tile at coord, if any.
func (s *TileStore) Get(coord Coord) (*Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[coord]
	if !ok {
		return nil, false
	}
	return e.tile, true
}

// Coords returns a snapshot of every populated coordinate.
func (s *TileStore) Coords() []Coord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Coord, 0, len(s.entries))
	for c := range s.entries {
		out = append(out, c)
	}
	return out
}

// Commit installs tile at coord if generation is strictly newer than
// the generation currently stored there (§5's "stored.generation <
// incoming.generation gate"; §8 property 9); older or equal
// generations are discarded and Commit returns false, leaving the
// store unchanged.
//
// On a successful commit, Salt is set to the winning generation (the
// glossary's "monotonically increasing generation counter... resolves
// stale references"), and the new tile's OffMesh edges are linked
// against the four cardinal
// neighbours while holding the write lock for the whole update.
func (s *TileStore) Commit(coord Coord, generation uint64, tile *Tile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, existed := s.entries[coord]
	if existed && generation <= prior.generation {
		return false
	}

	tile.Coord = coord
	tile.Salt = uint32(generation)

	s.entries[coord] = &entry{tile: tile, generation: generation}
	s.linkNeighbours(coord, tile, existed)
	return true
}

// Remove discards the tile at coord entirely (e.g. all affecting
// geometry was removed), purging any neighbour links that pointed at
// it.
func (s *TileStore) Remove(coord Coord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[coord]; !ok {
		return
	}
	delete(s.entries, coord)
	for dir := navmesh.Direction(0); dir < 4; dir++ {
		nc := neighbourCoord(coord, dir)
		if ne, ok := s.entries[nc]; ok {
			purgeLinksToward(ne.tile, coord)
		}
	}
}
