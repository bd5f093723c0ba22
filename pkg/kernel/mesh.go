package kernel

import (
	"fmt"

	"github.com/chazu/spaceship/pkg/geom"
)

// Mesh is a flat triangle mesh: the point buffer plus face-index form
// solid-modeling backends and file writers consume.
// vertices has 3 floats per vertex (x,y,z), normals has 3 floats per
// vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which design graph part this came from
}

// FromTriangles flattens an ordered triangle list. Triangle i becomes
// vertices 3i, 3i+1, 3i+2 and face (3i, 3i+1, 3i+2); every vertex of a
// triangle carries its face normal.
func FromTriangles(tris geom.Mesh) *Mesh {
	points, faces := tris.Flatten()

	m := &Mesh{
		Vertices: make([]float32, 0, len(points)*3),
		Normals:  make([]float32, 0, len(points)*3),
		Indices:  make([]uint32, 0, len(faces)*3),
	}
	for _, p := range points {
		m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	for i, f := range faces {
		n := tris[i].Normal()
		for _, idx := range f {
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(idx))
		}
	}
	return m
}

// Triangles expands the indexed mesh back into an ordered triangle list.
func (m *Mesh) Triangles() (geom.Mesh, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("kernel: index count %d is not a multiple of 3", len(m.Indices))
	}
	nv := uint32(m.VertexCount())
	out := make(geom.Mesh, 0, m.TriangleCount())
	for t := 0; t < len(m.Indices); t += 3 {
		var tri geom.Triangle
		for j := 0; j < 3; j++ {
			idx := m.Indices[t+j]
			if idx >= nv {
				return nil, fmt.Errorf("kernel: triangle %d references vertex %d of %d", t/3, idx, nv)
			}
			tri[j] = m.vertex(idx)
		}
		out = append(out, tri)
	}
	return out, nil
}

func (m *Mesh) vertex(i uint32) geom.Vec3 {
	return geom.Vec3{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// Weld returns a copy of m in which vertices with identical positions are
// shared. Face order is kept; normals are dropped because a shared vertex
// no longer has a single face normal.
func (m *Mesh) Weld() *Mesh {
	out := &Mesh{
		Indices:  make([]uint32, len(m.Indices)),
		PartName: m.PartName,
	}
	seen := make(map[[3]float32]uint32, m.VertexCount())
	for i, idx := range m.Indices {
		key := [3]float32{m.Vertices[idx*3], m.Vertices[idx*3+1], m.Vertices[idx*3+2]}
		shared, ok := seen[key]
		if !ok {
			shared = uint32(len(out.Vertices) / 3)
			seen[key] = shared
			out.Vertices = append(out.Vertices, key[0], key[1], key[2])
		}
		out.Indices[i] = shared
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (min, max [3]float64) {
	for i := 0; i < m.VertexCount(); i++ {
		v := m.vertex(uint32(i))
		p := [3]float64{v.X, v.Y, v.Z}
		for k := 0; k < 3; k++ {
			if i == 0 || p[k] < min[k] {
				min[k] = p[k]
			}
			if i == 0 || p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
