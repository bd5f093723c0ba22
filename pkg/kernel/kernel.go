// Package kernel defines the abstract solid-modeling interface the shell
// pipeline consumes. Implementations (sdfx, manifold) provide primitives
// and boolean operations behind this interface, so the mesh generator
// never depends on a particular CAD backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centered at the origin. Cylinder runs along Z.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Polyhedron builds a closed solid from a point buffer and its
	// triangle list (m.Vertices / m.Indices). Winding must be
	// counter-clockwise seen from outside.
	Polyhedron(m *Mesh) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, k float64) Solid        // uniform, about the origin

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
