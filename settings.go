package navmesh

import (
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v2"
)

// DetailMeshSettings enables and configures the optional detail mesh
// stage (4.G). A nil *DetailMeshSettings on Settings disables the stage
// entirely.
type DetailMeshSettings struct {
	// MaxHeightError is the maximum allowed deviation, in cell_height
	// units, between the detail mesh surface and the source heightfield.
	MaxHeightError uint16 `yaml:"max_height_error"`
	// SampleDistance is the spacing, in cell_width units, at which hull
	// edges and the triangle interior are resampled.
	SampleDistance uint32 `yaml:"sample_distance"`
}

// Settings configures one agent profile's navmesh build (§6). All
// fields are required unless noted.
type Settings struct {
	CellWidth  float32 `yaml:"cell_width"`
	CellHeight float32 `yaml:"cell_height"`

	TileWidth         uint16  `yaml:"tile_width"`
	WorldHalfExtents  float32 `yaml:"world_half_extents"`
	WorldBottomBound  float32 `yaml:"world_bottom_bound"`

	MaxTraversableSlopeRadians float32 `yaml:"max_traversable_slope_radians"`

	WalkableHeight uint16 `yaml:"walkable_height"`
	WalkableRadius uint16 `yaml:"walkable_radius"`
	StepHeight     uint16 `yaml:"step_height"`

	MinRegionArea               uint32 `yaml:"min_region_area"`
	MaxRegionAreaToMergeInto    uint32 `yaml:"max_region_area_to_merge_into"`

	MaxContourSimplificationError float32 `yaml:"max_contour_simplification_error"`
	MaxEdgeLength                 uint16  `yaml:"max_edge_length"`

	// MaxTileGenerationTasks bounds the worker pool used by
	// navtile.Builder. Zero means "use the package default" (runtime.NumCPU).
	MaxTileGenerationTasks uint16 `yaml:"max_tile_generation_tasks,omitempty"`

	// DetailMesh is nil to disable stage 4.G.
	DetailMesh *DetailMeshSettings `yaml:"detail_mesh_generation,omitempty"`
}

// Validate checks the invariants §6 requires of Settings, returning the
// first violation found.
func (s Settings) Validate() error {
	switch {
	case s.CellWidth <= 0:
		return fmt.Errorf("navmesh: cell_width must be > 0, got %v", s.CellWidth)
	case s.CellHeight <= 0:
		return fmt.Errorf("navmesh: cell_height must be > 0, got %v", s.CellHeight)
	case s.TileWidth == 0:
		return fmt.Errorf("navmesh: tile_width must be > 0")
	case s.WorldHalfExtents <= 0:
		return fmt.Errorf("navmesh: world_half_extents must be > 0, got %v", s.WorldHalfExtents)
	case s.MaxTraversableSlopeRadians < 0 || s.MaxTraversableSlopeRadians > halfPi:
		return fmt.Errorf("navmesh: max_traversable_slope_radians must be in [0, pi/2], got %v", s.MaxTraversableSlopeRadians)
	case s.MaxTileGenerationTasks != 0 && s.MaxTileGenerationTasks < 1:
		return fmt.Errorf("navmesh: max_tile_generation_tasks must be >= 1 when set")
	}
	if s.DetailMesh != nil && s.DetailMesh.SampleDistance == 0 {
		return fmt.Errorf("navmesh: detail_mesh_generation.sample_distance must be > 0")
	}
	return nil
}

const halfPi = 1.5707964

// LoadSettings decodes a YAML-encoded Settings document, mirroring the
// teacher CLI's settings round-trip (gopkg.in/yaml.v2), but exposed here
// as a plain library function with no CLI attached.
func LoadSettings(r io.Reader) (Settings, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("navmesh: reading settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(buf, &s); err != nil {
		return Settings{}, fmt.Errorf("navmesh: decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Encode writes s as YAML to w.
func (s Settings) Encode(w io.Writer) error {
	buf, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("navmesh: encoding settings: %w", err)
	}
	_, err = w.Write(buf)
	return err
}

// DefaultSettings returns reasonable defaults scaled from an agent
// radius, the way sample/tilemesh/settings.go derives cell sizes from
// agent properties.
func DefaultSettings(agentRadius, agentHeight float32) Settings {
	cw := agentRadius / 2
	ch := cw / 2
	return Settings{
		CellWidth:                     cw,
		CellHeight:                    ch,
		TileWidth:                     64,
		WorldHalfExtents:              256,
		WorldBottomBound:              -512,
		MaxTraversableSlopeRadians:    0.7853982, // 45 degrees
		WalkableHeight:                uint16(clampCeil(agentHeight / ch)),
		WalkableRadius:                uint16(clampCeil(agentRadius / cw)),
		StepHeight:                    1,
		MinRegionArea:                 64,
		MaxRegionAreaToMergeInto:      400,
		MaxContourSimplificationError: 1.3,
		MaxEdgeLength:                 48,
	}
}

func clampCeil(v float32) int32 {
	i := int32(v)
	if float32(i) < v {
		i++
	}
	if i < 1 {
		return 1
	}
	return i
}
