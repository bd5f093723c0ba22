package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/spaceship/pkg/geom"
	"github.com/chazu/spaceship/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

// Branching factors of the face index.
const (
	treeMinChildren = 3
	treeMaxChildren = 5
)

// searchSlack widens the candidate box so faces exactly at the current
// best distance are not lost to rounding.
const searchSlack = 1e-9

// meshFace is one triangle of a meshSDF as stored in the face index.
type meshFace struct {
	idx    int
	tri    geom.Triangle
	bounds rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (f *meshFace) Bounds() rtreego.Rect {
	return f.bounds
}

// edgeKey names an undirected edge by its welded vertex indices.
type edgeKey [2]uint32

func edgeOf(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// meshSDF is the signed distance field of a closed triangle mesh.
// Distance is exact; faces are found through an r-tree so a sample only
// visits triangles near it. The sign comes from the angle-weighted
// pseudonormal of the closest feature (Baerentzen and Aanaes), which is
// reliable on closed meshes even where a ray would graze an edge.
type meshSDF struct {
	tree    *rtreego.Rtree
	faces   [][3]uint32
	normals []v3.Vec // per face, unit or zero when degenerate
	vertexN []v3.Vec // per welded vertex
	edgeN   map[edgeKey]v3.Vec
	bb      sdf.Box3
}

// newMeshSDF indexes m, which must be welded (see kernel.Mesh.Weld),
// closed and wound counter-clockwise seen from outside.
func newMeshSDF(m *kernel.Mesh) (*meshSDF, error) {
	tris, err := m.Triangles()
	if err != nil {
		return nil, err
	}
	if len(tris) < 4 {
		return nil, errors.New("mesh needs at least 4 triangles to enclose a volume")
	}

	s := &meshSDF{
		faces:   make([][3]uint32, len(tris)),
		normals: make([]v3.Vec, len(tris)),
		vertexN: make([]v3.Vec, m.VertexCount()),
		edgeN:   make(map[edgeKey]v3.Vec, len(tris)*3/2),
	}
	edgeFaces := make(map[edgeKey]int, len(tris)*3/2)
	spatials := make([]rtreego.Spatial, len(tris))

	for i, t := range tris {
		f := [3]uint32{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
		s.faces[i] = f
		n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
		if l := n.Length(); l > 0 {
			n = n.DivScalar(l)
		}
		s.normals[i] = n

		for j := 0; j < 3; j++ {
			a, b := f[j], f[(j+1)%3]
			k := edgeOf(a, b)
			edgeFaces[k]++
			s.edgeN[k] = s.edgeN[k].Add(n)
			s.vertexN[a] = s.vertexN[a].Add(n.MulScalar(cornerAngle(t, j)))
		}

		lo, hi := geom.Mesh{t}.Bounds()
		r, err := rtreego.NewRectFromPoints(rtreego.Point{lo.X, lo.Y, lo.Z}, rtreego.Point{hi.X, hi.Y, hi.Z})
		if err != nil {
			return nil, err
		}
		spatials[i] = &meshFace{idx: i, tri: t, bounds: r}
	}

	for k, n := range edgeFaces {
		if n != 2 {
			return nil, fmt.Errorf("mesh is not closed: edge %d-%d borders %d faces", k[0], k[1], n)
		}
	}

	lo, hi := tris.Bounds()
	s.bb = sdf.Box3{Min: lo, Max: hi}
	s.tree = rtreego.NewTree(3, treeMinChildren, treeMaxChildren, spatials...)
	return s, nil
}

// cornerAngle returns the interior angle of t at corner j.
func cornerAngle(t geom.Triangle, j int) float64 {
	a := t[(j+1)%3].Sub(t[j])
	b := t[(j+2)%3].Sub(t[j])
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// Evaluate returns the signed distance from p to the mesh surface,
// negative inside.
func (m *meshSDF) Evaluate(p v3.Vec) float64 {
	pt := rtreego.Point{p.X, p.Y, p.Z}

	// The face with the nearest bounds gives an upper bound on the
	// distance; every closer face has bounds inside that radius.
	best := m.tree.NearestNeighbor(pt).(*meshFace)
	q, feat := closestPoint(p, best.tri)
	d := p.Sub(q).Length()

	r := d + searchSlack
	box, err := rtreego.NewRect(rtreego.Point{p.X - r, p.Y - r, p.Z - r}, []float64{2 * r, 2 * r, 2 * r})
	if err == nil {
		for _, s := range m.tree.SearchIntersect(box) {
			f := s.(*meshFace)
			if f == best {
				continue
			}
			fq, ff := closestPoint(p, f.tri)
			if fd := p.Sub(fq).Length(); fd < d {
				best, q, feat, d = f, fq, ff, fd
			}
		}
	}

	if p.Sub(q).Dot(m.pseudonormal(best.idx, feat)) < 0 {
		return -d
	}
	return d
}

// pseudonormal returns the outward normal of feature ft of face i.
func (m *meshSDF) pseudonormal(i int, ft feature) v3.Vec {
	f := m.faces[i]
	switch ft.kind {
	case onVertex:
		return m.vertexN[f[ft.a]]
	case onEdge:
		return m.edgeN[edgeOf(f[ft.a], f[ft.b])]
	default:
		return m.normals[i]
	}
}

// BoundingBox returns the bounding box of the mesh.
func (m *meshSDF) BoundingBox() sdf.Box3 {
	return m.bb
}

type featureKind int

const (
	onFace featureKind = iota
	onEdge
	onVertex
)

// feature is the part of a triangle a closest point lies on. a and b are
// corner indices: a alone for a vertex, a and b for an edge.
type feature struct {
	kind featureKind
	a, b int
}

// closestPoint returns the point of triangle t nearest to p and the
// feature it lies on (Ericson, Real-Time Collision Detection, 5.1.5).
func closestPoint(p v3.Vec, t geom.Triangle) (v3.Vec, feature) {
	a, b, c := t[0], t[1], t[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, feature{kind: onVertex, a: 0}
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, feature{kind: onVertex, a: 1}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.MulScalar(v)), feature{kind: onEdge, a: 0, b: 1}
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, feature{kind: onVertex, a: 2}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.MulScalar(w)), feature{kind: onEdge, a: 0, b: 2}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).MulScalar(w)), feature{kind: onEdge, a: 1, b: 2}
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w)), feature{kind: onFace}
}
