// Package tessellate walks a design graph and produces triangle meshes
// using the geodesic generator and a geometry kernel. One mesh is produced
// per shell or drilled shell.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/spaceship/pkg/geodesic"
	"github.com/chazu/spaceship/pkg/geom"
	"github.com/chazu/spaceship/pkg/graph"
	"github.com/chazu/spaceship/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// parallelDepth is the shell depth from which pentagons are generated
// concurrently.
const parallelDepth = 3

// holeSegments is the facet count of drilled cylinders on polygonal kernels.
const holeSegments = 24

// transformStack accumulates spatial transforms during graph traversal.
type transformStack struct {
	translations []graph.Vec3
	rotations    []graph.Vec3
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) pushTranslation(v graph.Vec3) {
	ts.translations = append(ts.translations, v)
}

func (ts *transformStack) pushRotation(v graph.Vec3) {
	ts.rotations = append(ts.rotations, v)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
	if len(ts.rotations) > 0 {
		ts.rotations = ts.rotations[:len(ts.rotations)-1]
	}
}

// accumulatedTranslation returns the sum of all translations on the stack.
func (ts *transformStack) accumulatedTranslation() graph.Vec3 {
	var sum graph.Vec3
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// accumulatedRotation returns the sum of all rotations on the stack.
func (ts *transformStack) accumulatedRotation() graph.Vec3 {
	var sum graph.Vec3
	for _, r := range ts.rotations {
		sum = sum.Add(r)
	}
	return sum
}

// matrix returns the accumulated placement as a matrix with the same
// rotate-then-translate order the kernels use.
func (ts *transformStack) matrix() sdf.M44 {
	rot := ts.accumulatedRotation()
	trans := ts.accumulatedTranslation()
	r := sdf.RotateZ(sdf.DtoR(rot.Z)).Mul(sdf.RotateY(sdf.DtoR(rot.Y))).Mul(sdf.RotateX(sdf.DtoR(rot.X)))
	return sdf.Translate3d(v3.Vec{X: trans.X, Y: trans.Y, Z: trans.Z}).Mul(r)
}

// Tessellate walks the design graph and produces one triangle mesh per
// shell or drill using the provided geometry kernel. The tessellator is
// read-only and never mutates the graph.
//
// Shells that need no boolean operations are emitted directly from the
// generator, keeping the exact faceted surface; everything else goes
// through the kernel.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	ts := newTransformStack()

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(g, k, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		meshes = append(meshes, collected...)
	}

	return meshes, nil
}

// walkNode recursively traverses a node and its children, collecting meshes.
func walkNode(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	switch n.Kind {
	case graph.NodeShell:
		return handleShell(k, n, ts)

	case graph.NodeDrill:
		return handleDrill(g, k, n, ts)

	case graph.NodeTransform:
		return handleTransform(g, k, n, ts)

	case graph.NodeGroup:
		return handleGroup(g, k, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// shellMesh generates the unit shell for sd, scaled to its radius.
func shellMesh(sd graph.ShellData) (geom.Mesh, error) {
	gen, err := geodesic.NewGenerator(geodesic.Options{
		Peak:     sd.Peak,
		Parallel: sd.Depth >= parallelDepth,
	})
	if err != nil {
		return nil, err
	}
	mesh, err := gen.Mesh(sd.Depth)
	if err != nil {
		return nil, err
	}
	return mesh.Scale(sd.Radius), nil
}

// handleShell emits a shell. Plain shells bypass the kernel.
func handleShell(k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	sd, ok := n.Data.(graph.ShellData)
	if !ok {
		return nil, fmt.Errorf("shell node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	if !sd.NeedsBooleans() {
		mesh, err := shellMesh(sd)
		if err != nil {
			return nil, fmt.Errorf("tessellate: shell %s: %w", n.ID.Short(), err)
		}
		m := ts.matrix()
		out := kernel.FromTriangles(mesh.Map(m.MulPosition))
		out.PartName = partName(n)
		return []*kernel.Mesh{out}, nil
	}

	solid, err := shellSolid(k, n)
	if err != nil {
		return nil, err
	}
	return finish(k, n, solid, ts)
}

// handleDrill emits the drilled solid of a drill node.
func handleDrill(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	solid, err := drillSolid(g, k, n)
	if err != nil {
		return nil, err
	}
	return finish(k, n, solid, ts)
}

// finish places a solid and meshes it.
func finish(k kernel.Kernel, n *graph.Node, solid kernel.Solid, ts *transformStack) ([]*kernel.Mesh, error) {
	// Apply accumulated rotation first, then translation.
	rot := ts.accumulatedRotation()
	if !rot.IsZero() {
		solid = k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}

	trans := ts.accumulatedTranslation()
	if !trans.IsZero() {
		solid = k.Translate(solid, trans.X, trans.Y, trans.Z)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	mesh.PartName = partName(n)

	return []*kernel.Mesh{mesh}, nil
}

// partName prefers the node's Name, falling back to its short ID.
func partName(n *graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// solidOf builds the unplaced solid for a shell or drill node.
func solidOf(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	switch n.Kind {
	case graph.NodeShell:
		return shellSolid(k, n)
	case graph.NodeDrill:
		return drillSolid(g, k, n)
	default:
		return nil, fmt.Errorf("node %s is %s, not a shell or drill", n.ID.Short(), n.Kind)
	}
}

// shellSolid builds a shell as a kernel solid: the generated polyhedron,
// hollowed to its wall thickness and cut flat at the bottom if requested.
func shellSolid(k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	sd, ok := n.Data.(graph.ShellData)
	if !ok {
		return nil, fmt.Errorf("shell node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	unit, err := shellMesh(graph.ShellData{Depth: sd.Depth, Peak: sd.Peak, Radius: 1})
	if err != nil {
		return nil, fmt.Errorf("tessellate: shell %s: %w", n.ID.Short(), err)
	}
	poly, err := k.Polyhedron(kernel.FromTriangles(unit))
	if err != nil {
		return nil, fmt.Errorf("tessellate: shell %s: %w", n.ID.Short(), err)
	}

	solid := k.Scale(poly, sd.Radius)
	if sd.Thickness > 0 {
		solid = k.Difference(solid, k.Scale(poly, sd.Radius-sd.Thickness))
	}
	if sd.FlatBase > 0 {
		solid = k.Intersection(solid, baseCut(k, sd))
	}
	return solid, nil
}

// baseCut returns a box covering everything above the flat base plane.
// The lowest point of the shell is at most Radius*Peak below the origin.
func baseCut(k kernel.Kernel, sd graph.ShellData) kernel.Solid {
	extent := sd.Radius * math.Max(sd.Peak, 1)
	floor := -extent + sd.FlatBase
	side := 4 * extent
	height := extent - floor + extent
	box := k.Box(side, side, height)
	return k.Translate(box, 0, 0, floor+height/2)
}

// drillSolid subtracts one cylinder per hole direction from the child solid.
func drillSolid(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	dd, ok := n.Data.(graph.DrillData)
	if !ok {
		return nil, fmt.Errorf("drill node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := g.Children(n)
	if len(children) != 1 {
		return nil, fmt.Errorf("drill node %s has %d children, want 1", n.ID.Short(), len(children))
	}
	sd, ok := g.BaseShell(n)
	if !ok {
		return nil, fmt.Errorf("drill node %s does not cut a shell", n.ID.Short())
	}

	target, err := solidOf(g, k, children[0])
	if err != nil {
		return nil, err
	}

	gen, err := geodesic.NewGenerator(geodesic.Options{Peak: sd.Peak})
	if err != nil {
		return nil, fmt.Errorf("tessellate: drill %s: %w", n.ID.Short(), err)
	}
	dirs, err := gen.HoleDirections(dd.HoleDepth)
	if err != nil {
		return nil, fmt.Errorf("tessellate: drill %s: %w", n.ID.Short(), err)
	}

	if len(dirs) == 0 {
		return target, nil
	}
	cutters := lo.Map(dirs, func(d geom.Vec3, _ int) kernel.Solid {
		return holeCylinder(k, d, sd.Radius, dd)
	})
	holes := lo.Reduce(cutters[1:], func(acc kernel.Solid, c kernel.Solid, _ int) kernel.Solid {
		return k.Union(acc, c)
	}, cutters[0])

	return k.Difference(target, holes), nil
}

// holeCylinder returns a cylinder of the drill's size centered on the point
// at radius along d and aligned with d.
func holeCylinder(k kernel.Kernel, d geom.Vec3, radius float64, dd graph.DrillData) kernel.Solid {
	tilt, heading := eulerFor(d)
	c := k.Cylinder(dd.Length, dd.Diameter/2, holeSegments)
	c = k.Rotate(c, 0, tilt, heading)
	at := d.MulScalar(radius)
	return k.Translate(c, at.X, at.Y, at.Z)
}

// eulerFor returns the Y then Z rotation, in degrees, that turns the +Z axis
// onto the unit vector d.
func eulerFor(d geom.Vec3) (tilt, heading float64) {
	tilt = sdf.RtoD(math.Acos(math.Max(-1, math.Min(1, d.Z))))
	heading = sdf.RtoD(math.Atan2(d.Y, d.X))
	return tilt, heading
}

// handleTransform pushes the transform, recurses into children, then pops.
func handleTransform(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	// Push transform onto the stack.
	translation := graph.Vec3{}
	rotation := graph.Vec3{}
	if td.Translation != nil {
		translation = *td.Translation
	}
	if td.Rotation != nil {
		rotation = *td.Rotation
	}
	ts.pushTranslation(translation)
	ts.pushRotation(rotation)

	var meshes []*kernel.Mesh
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			ts.pop()
			return nil, err
		}
		meshes = append(meshes, collected...)
	}

	ts.pop()
	return meshes, nil
}

// handleGroup recurses into children transparently.
func handleGroup(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}
