package geom

// Triangle is an ordered vertex triple, counter-clockwise seen from outside.
type Triangle [3]Vec3

// Normal returns the outward unit normal of t.
func (t Triangle) Normal() Vec3 {
	return PlaneNormal(t[0], t[1], t[2])
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() Vec3 {
	return Vec3{
		X: (t[0].X + t[1].X + t[2].X) / 3,
		Y: (t[0].Y + t[1].Y + t[2].Y) / 3,
		Z: (t[0].Z + t[1].Z + t[2].Z) / 3,
	}
}

// Pentagon is one consistently wound dodecahedron face.
type Pentagon [5]Vec3

// Normal returns the unit normal of the plane through the first three vertices.
func (p Pentagon) Normal() Vec3 {
	return PlaneNormal(p[0], p[1], p[2])
}

// Mesh is an ordered triangle list. Order is significant: flattening keeps
// triangle i at faces[i].
type Mesh []Triangle

// Flatten returns the point buffer and the parallel (3i, 3i+1, 3i+2)
// face list of m.
func (m Mesh) Flatten() (points []Vec3, faces [][3]int) {
	points = make([]Vec3, 0, len(m)*3)
	faces = make([][3]int, 0, len(m))
	for i, t := range m {
		points = append(points, t[0], t[1], t[2])
		faces = append(faces, [3]int{3 * i, 3*i + 1, 3*i + 2})
	}
	return points, faces
}

// Bounds returns the axis-aligned bounding box of m. An empty mesh
// yields two zero vectors.
func (m Mesh) Bounds() (min, max Vec3) {
	if len(m) == 0 {
		return Vec3{}, Vec3{}
	}
	min, max = m[0][0], m[0][0]
	for _, t := range m {
		for _, v := range t {
			min = Vec3{X: fmin(min.X, v.X), Y: fmin(min.Y, v.Y), Z: fmin(min.Z, v.Z)}
			max = Vec3{X: fmax(max.X, v.X), Y: fmax(max.Y, v.Y), Z: fmax(max.Z, v.Z)}
		}
	}
	return min, max
}

// Scale returns a copy of m with every vertex multiplied by k.
func (m Mesh) Scale(k float64) Mesh {
	return m.Map(func(v Vec3) Vec3 { return v.MulScalar(k) })
}

// Map returns a copy of m with f applied to every vertex. f must preserve
// orientation (no reflections) for the winding to stay outward.
func (m Mesh) Map(f func(Vec3) Vec3) Mesh {
	out := make(Mesh, len(m))
	for i, t := range m {
		out[i] = Triangle{f(t[0]), f(t[1]), f(t[2])}
	}
	return out
}

func fmin(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

func fmax(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}
