package geodesic

import (
	"github.com/samber/lo"

	"github.com/chazu/spaceship/pkg/geom"
)

// DefaultHoleDepth is the subdivision depth hole directions are taken from.
const DefaultHoleDepth = 1

// HoleDirections subdivides every dodecahedron face to depth and returns
// the second vertex of each resulting triangle, with exact duplicates
// removed. The first occurrence of a direction keeps its position.
//
// Duplicates come from identical arithmetic on shared edges, so they are
// compared with ==, never with a tolerance.
func (s Subdivider) HoleDirections(depth int) []geom.Vec3 {
	faces := Pentagons()
	candidates := make([]geom.Vec3, 0, len(faces)*5*TriangleCount(depth))
	for _, p := range faces {
		for _, t := range s.SubdividePentagon(p, depth) {
			candidates = append(candidates, t[1])
		}
	}
	return UniqueDirections(candidates)
}

// UniqueDirections drops every vector equal to an earlier one.
func UniqueDirections(dirs []geom.Vec3) []geom.Vec3 {
	return lo.Uniq(dirs)
}

// GenerateHoleDirections returns the deduplicated hole directions at depth
// using the default peak.
func GenerateHoleDirections(depth int) []geom.Vec3 {
	return DefaultSubdivider.HoleDirections(depth)
}
