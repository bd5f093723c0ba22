// Package geodesic builds the Spaceship Earth shell: a regular dodecahedron
// whose faces are fanned into triangles, recursively subdivided onto the
// unit sphere and finally peaked outward into small pyramids.
//
// Everything in this package is a pure function over immutable values.
package geodesic

import (
	"math"

	"github.com/chazu/spaceship/pkg/geom"
)

// Phi is the golden ratio.
const Phi = math.Phi

// dodecaVertices is the raw vertex layout (circumradius sqrt(3)).
// Indices 0-7 are the cube corners a1..a8, 8-11 the yz-plane rectangle
// b1..b4, 12-15 the xz-plane rectangle c1..c4, 16-19 the xy-plane
// rectangle d1..d4.
var dodecaVertices = [20]geom.Vec3{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},

	{X: 0, Y: Phi, Z: 1 / Phi},
	{X: 0, Y: Phi, Z: -1 / Phi},
	{X: 0, Y: -Phi, Z: 1 / Phi},
	{X: 0, Y: -Phi, Z: -1 / Phi},

	{X: 1 / Phi, Y: 0, Z: Phi},
	{X: 1 / Phi, Y: 0, Z: -Phi},
	{X: -1 / Phi, Y: 0, Z: Phi},
	{X: -1 / Phi, Y: 0, Z: -Phi},

	{X: Phi, Y: 1 / Phi, Z: 0},
	{X: Phi, Y: -1 / Phi, Z: 0},
	{X: -Phi, Y: 1 / Phi, Z: 0},
	{X: -Phi, Y: -1 / Phi, Z: 0},
}

// Named vertex indices used by the face table.
const (
	a1 = iota
	a2
	a3
	a4
	a5
	a6
	a7
	a8
	b1
	b2
	b3
	b4
	c1
	c2
	c3
	c4
	d1
	d2
	d3
	d4
)

// dodecaFaces lists the vertices of each face, counter-clockwise seen
// from outside. Order within a face fixes the winding and therefore the
// sign of every derived normal.
var dodecaFaces = [12][5]int{
	{b1, a1, d1, a2, b2},
	{b2, a6, d3, a5, b1},
	{b3, a7, d4, a8, b4},
	{b4, a4, d2, a3, b3},
	{c1, a1, b1, a5, c3},
	{c2, a4, b4, a8, c4},
	{c3, a7, b3, a3, c1},
	{c4, a6, b2, a2, c2},
	{d1, a1, c1, a3, d2},
	{d2, a4, c2, a2, d1},
	{d3, a6, c4, a8, d4},
	{d4, a7, c3, a5, d3},
}

// Pentagons returns the 12 faces of a regular dodecahedron inscribed in
// the unit sphere.
func Pentagons() [12]geom.Pentagon {
	var out [12]geom.Pentagon
	for i, face := range dodecaFaces {
		for j, vi := range face {
			out[i][j] = geom.NormalizeTo(dodecaVertices[vi], 1)
		}
	}
	return out
}
