package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/spaceship/pkg/geodesic"
	"github.com/chazu/spaceship/pkg/geom"
	"github.com/chazu/spaceship/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func vec(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

// octahedron returns a closed, outward-wound unit octahedron.
func octahedron() geom.Mesh {
	px, nx := vec(1, 0, 0), vec(-1, 0, 0)
	py, ny := vec(0, 1, 0), vec(0, -1, 0)
	pz, nz := vec(0, 0, 1), vec(0, 0, -1)
	return geom.Mesh{
		{px, py, pz}, {py, nx, pz}, {nx, ny, pz}, {ny, px, pz},
		{py, px, nz}, {nx, py, nz}, {ny, nx, nz}, {px, ny, nz},
	}
}

func welded(tris geom.Mesh) *kernel.Mesh {
	return kernel.FromTriangles(tris).Weld()
}

// bruteDistance is the unsigned distance from p to the nearest of tris.
func bruteDistance(p v3.Vec, tris geom.Mesh) float64 {
	d := math.Inf(1)
	for _, t := range tris {
		q, _ := closestPoint(p, t)
		d = math.Min(d, p.Sub(q).Length())
	}
	return d
}

func TestClosestPoint(t *testing.T) {
	tri := geom.Triangle{vec(0, 0, 0), vec(2, 0, 0), vec(0, 2, 0)}
	tests := []struct {
		name string
		p    v3.Vec
		want v3.Vec
		feat feature
	}{
		{"above interior", vec(0.5, 0.5, 3), vec(0.5, 0.5, 0), feature{kind: onFace}},
		{"vertex a region", vec(-1, -1, 0), vec(0, 0, 0), feature{kind: onVertex, a: 0}},
		{"vertex b region", vec(3, -1, 1), vec(2, 0, 0), feature{kind: onVertex, a: 1}},
		{"vertex c region", vec(-1, 3, 0), vec(0, 2, 0), feature{kind: onVertex, a: 2}},
		{"edge ab", vec(1, -2, 0), vec(1, 0, 0), feature{kind: onEdge, a: 0, b: 1}},
		{"edge ac", vec(-2, 1, 0), vec(0, 1, 0), feature{kind: onEdge, a: 0, b: 2}},
		{"edge bc", vec(2, 2, 0), vec(1, 1, 0), feature{kind: onEdge, a: 1, b: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, feat := closestPoint(tt.p, tri)
			if got.Sub(tt.want).Length() > 1e-12 {
				t.Errorf("closestPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
			if feat != tt.feat {
				t.Errorf("closestPoint(%v) feature = %+v, want %+v", tt.p, feat, tt.feat)
			}
		})
	}
}

func TestMeshSDFOctahedron(t *testing.T) {
	m, err := newMeshSDF(welded(octahedron()))
	if err != nil {
		t.Fatalf("newMeshSDF() error = %v", err)
	}

	// Faces lie 1/sqrt(3) from the origin.
	s3 := math.Sqrt(3)
	tests := []struct {
		name string
		p    v3.Vec
		want float64
	}{
		{"origin", vec(0, 0, 0), -1 / s3},
		{"inside near vertex", vec(0.9, 0, 0), -0.1 / s3},
		{"outside face", vec(1, 1, 1), 2 / s3},
		{"outside vertex", vec(0, 0, 2), 1},
		{"outside edge", vec(1, 1, 0), math.Sqrt(0.5)},
		{"outside lower edge", vec(0, -1, -1), math.Sqrt(0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := m.Evaluate(tt.p); math.Abs(d-tt.want) > 1e-6 {
				t.Errorf("Evaluate(%v) = %f, want %f", tt.p, d, tt.want)
			}
		})
	}

	bb := m.BoundingBox()
	if bb.Min != vec(-1, -1, -1) || bb.Max != vec(1, 1, 1) {
		t.Errorf("BoundingBox() = %v, want [-1,1]^3", bb)
	}
}

// TestMeshSDFMatchesBruteForce compares the indexed distance with a scan
// over every triangle of a peaked shell.
func TestMeshSDFMatchesBruteForce(t *testing.T) {
	km := welded(geodesic.GenerateMesh(2))
	tris, err := km.Triangles()
	if err != nil {
		t.Fatal(err)
	}
	m, err := newMeshSDF(km)
	if err != nil {
		t.Fatalf("newMeshSDF() error = %v", err)
	}

	for x := -1.3; x <= 1.3; x += 0.26 {
		for y := -1.3; y <= 1.3; y += 0.26 {
			for z := -1.3; z <= 1.3; z += 0.26 {
				p := vec(x, y, z)
				got := m.Evaluate(p)
				want := bruteDistance(p, tris)
				if math.Abs(math.Abs(got)-want) > 1e-9 {
					t.Fatalf("|Evaluate(%v)| = %g, brute force %g", p, math.Abs(got), want)
				}
				switch r := p.Length(); {
				case r < 0.95 && got >= 0:
					t.Errorf("Evaluate(%v) = %g, want negative at radius %.3f", p, got, r)
				case r > 1.05 && got <= 0:
					t.Errorf("Evaluate(%v) = %g, want positive at radius %.3f", p, got, r)
				}
			}
		}
	}
}

func TestNewMeshSDFRejects(t *testing.T) {
	tests := []struct {
		name string
		mesh *kernel.Mesh
	}{
		{"too few triangles", welded(octahedron()[:3])},
		{"open surface", welded(octahedron()[1:])},
		{"unwelded", kernel.FromTriangles(octahedron())},
		{"ragged", &kernel.Mesh{Vertices: []float32{0, 0, 0}, Indices: []uint32{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newMeshSDF(tt.mesh); err == nil {
				t.Error("newMeshSDF() error = nil, want error")
			}
		})
	}
}

func BenchmarkMeshSDFEvaluate(b *testing.B) {
	km := welded(geodesic.GenerateMesh(3))
	m, err := newMeshSDF(km)
	if err != nil {
		b.Fatal(err)
	}
	tris, _ := km.Triangles()
	points := []v3.Vec{vec(0, 0, 0), vec(0.5, 0.2, -0.7), vec(1.01, 0, 0), vec(0.3, 1.2, 0.4)}

	b.Run("indexed", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			m.Evaluate(points[i%len(points)])
		}
	})
	b.Run("scan", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			bruteDistance(points[i%len(points)], tris)
		}
	})
}
