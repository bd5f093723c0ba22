package graph

import "github.com/chazu/spaceship/pkg/geodesic"

// ---------------------------------------------------------------------------
// Shell
// ---------------------------------------------------------------------------

// Shell defaults used by the (shell ...) form.
const (
	DefaultShellDepth = 2
	DefaultShellPeak  = geodesic.DefaultPeak
	DefaultRadius     = 1.0

	// MaxShellDepth bounds output size: depth 6 is 737280 triangles.
	MaxShellDepth = 6
)

// ShellData is a peaked geodesic dodecahedron scaled to Radius.
type ShellData struct {
	Depth     int     `json:"depth"`               // subdivision depth
	Peak      float64 `json:"peak"`                // apex distance on the unit sphere
	Radius    float64 `json:"radius"`              // scale applied to the unit shell
	Thickness float64 `json:"thickness,omitempty"` // wall thickness, 0 = solid
	FlatBase  float64 `json:"flat_base,omitempty"` // height cut from the bottom, 0 = none
}

func (ShellData) nodeData() {}

// DefaultShell returns the shell the (shell) form builds with no arguments.
func DefaultShell() ShellData {
	return ShellData{
		Depth:  DefaultShellDepth,
		Peak:   DefaultShellPeak,
		Radius: DefaultRadius,
	}
}

// NeedsBooleans reports whether the shell needs solid-modeling operations,
// as opposed to being emitted as the raw generated surface.
func (s ShellData) NeedsBooleans() bool {
	return s.Thickness > 0 || s.FlatBase > 0
}

// ---------------------------------------------------------------------------
// Drill
// ---------------------------------------------------------------------------

// Drill defaults used by the (holes ...) form.
const (
	DefaultHoleDepth    = geodesic.DefaultHoleDepth
	DefaultHoleDiameter = 3.0
	DefaultHoleLength   = 10.0
)

// DrillData subtracts one cylinder per hole direction from its single child.
// Each cylinder is centered on the child's surface radius and runs along
// the direction.
type DrillData struct {
	HoleDepth int     `json:"hole_depth"` // subdivision depth for hole directions
	Diameter  float64 `json:"diameter"`
	Length    float64 `json:"length"`
}

func (DrillData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to a child node.
// Created by the (place ...) form.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping (assembly).
// Created by the (assembly ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
