package geodesic

import (
	"github.com/chazu/spaceship/pkg/geom"
)

// DefaultPeak is the distance of every pyramid apex from the origin.
const DefaultPeak = 1.025

// Subdivider turns triangles and pentagons into peaked geodesic patches.
// The zero value peaks to distance 0 and is not useful; use DefaultSubdivider
// or set Peak.
type Subdivider struct {
	// Peak is the apex distance from the origin. Values <= 1 flatten or
	// invert the bumps.
	Peak float64
}

// DefaultSubdivider peaks to DefaultPeak.
var DefaultSubdivider = Subdivider{Peak: DefaultPeak}

// TriangleCount returns the number of triangles SubdivideTriangle emits
// for one input triangle at depth.
func TriangleCount(depth int) int {
	n := 3
	for ; depth > 0; depth-- {
		n *= 4
	}
	return n
}

// SubdivideTriangle splits t into 4 children per level, projecting new
// vertices onto the unit sphere, and peaks every leaf. Depth <= 0 peaks t
// directly.
func (s Subdivider) SubdivideTriangle(t geom.Triangle, depth int) geom.Mesh {
	out := make(geom.Mesh, 0, TriangleCount(depth))
	return s.appendTriangle(out, t, depth)
}

// SubdividePentagon fans p around its unit normal into 5 triangles and
// subdivides each to depth.
func (s Subdivider) SubdividePentagon(p geom.Pentagon, depth int) geom.Mesh {
	out := make(geom.Mesh, 0, 5*TriangleCount(depth))
	return s.appendPentagon(out, p, depth)
}

// PeakTriangle replaces t with three triangles meeting at an apex placed
// Peak away from the origin along t's normal.
func (s Subdivider) PeakTriangle(t geom.Triangle) geom.Mesh {
	return s.appendPeak(make(geom.Mesh, 0, 3), t)
}

func (s Subdivider) appendPentagon(out geom.Mesh, p geom.Pentagon, depth int) geom.Mesh {
	// The fan apex is the normal direction itself, not the centroid.
	n := p.Normal()
	for i := 0; i < 5; i++ {
		out = s.appendTriangle(out, geom.Triangle{n, p[i], p[(i+1)%5]}, depth)
	}
	return out
}

func (s Subdivider) appendTriangle(out geom.Mesh, t geom.Triangle, depth int) geom.Mesh {
	if depth <= 0 {
		return s.appendPeak(out, t)
	}

	m0 := geom.NormalizeTo(geom.Midpoint(t[0], t[1]), 1)
	m1 := geom.NormalizeTo(geom.Midpoint(t[1], t[2]), 1)
	m2 := geom.NormalizeTo(geom.Midpoint(t[2], t[0]), 1)

	out = s.appendTriangle(out, geom.Triangle{t[0], m0, m2}, depth-1)
	out = s.appendTriangle(out, geom.Triangle{t[1], m1, m0}, depth-1)
	out = s.appendTriangle(out, geom.Triangle{t[2], m2, m1}, depth-1)
	out = s.appendTriangle(out, geom.Triangle{m0, m1, m2}, depth-1)
	return out
}

func (s Subdivider) appendPeak(out geom.Mesh, t geom.Triangle) geom.Mesh {
	n := geom.NormalizeTo(t.Normal(), s.Peak)
	return append(out,
		geom.Triangle{n, t[0], t[1]},
		geom.Triangle{n, t[1], t[2]},
		geom.Triangle{n, t[2], t[0]},
	)
}

// SubdivideTriangle is DefaultSubdivider.SubdivideTriangle.
func SubdivideTriangle(t geom.Triangle, depth int) geom.Mesh {
	return DefaultSubdivider.SubdivideTriangle(t, depth)
}

// SubdividePentagon is DefaultSubdivider.SubdividePentagon.
func SubdividePentagon(p geom.Pentagon, depth int) geom.Mesh {
	return DefaultSubdivider.SubdividePentagon(p, depth)
}

// PeakTriangle is DefaultSubdivider.PeakTriangle.
func PeakTriangle(t geom.Triangle) geom.Mesh {
	return DefaultSubdivider.PeakTriangle(t)
}
