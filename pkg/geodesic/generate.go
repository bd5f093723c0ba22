package geodesic

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/chazu/spaceship/pkg/geom"
)

// MeshSize returns the number of triangles GenerateMesh emits at depth.
func MeshSize(depth int) int {
	return 12 * 5 * TriangleCount(depth)
}

// GenerateMesh returns the full peaked shell at depth using DefaultPeak.
// Triangles are ordered face by face, fan triangle by fan triangle.
func GenerateMesh(depth int) geom.Mesh {
	return DefaultSubdivider.Mesh(depth)
}

// Mesh returns the full peaked shell at depth.
func (s Subdivider) Mesh(depth int) geom.Mesh {
	out := make(geom.Mesh, 0, MeshSize(depth))
	for _, p := range Pentagons() {
		out = s.appendPentagon(out, p, depth)
	}
	return out
}

// Options configures a Generator.
type Options struct {
	Peak     float64 // apex distance from the origin
	Parallel bool    // build each dodecahedron face on its own goroutine
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{Peak: DefaultPeak}
}

// Validate reports whether o can drive a generation.
func (o Options) Validate() error {
	if math.IsNaN(o.Peak) || math.IsInf(o.Peak, 0) {
		return fmt.Errorf("geodesic: peak must be finite, got %v", o.Peak)
	}
	if o.Peak <= 0 {
		return fmt.Errorf("geodesic: peak must be positive, got %v", o.Peak)
	}
	return nil
}

// Generator is the error-returning entry point to the mesh engine. A
// degenerate vector anywhere in the recursion aborts the whole run; no
// partial mesh is ever returned.
type Generator struct {
	opts Options
	sub  Subdivider
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts, sub: Subdivider{Peak: opts.Peak}}, nil
}

// Options returns the generator configuration.
func (g *Generator) Options() Options {
	return g.opts
}

// Mesh builds the shell at depth.
func (g *Generator) Mesh(depth int) (mesh geom.Mesh, err error) {
	defer recoverDegenerate(&err)
	if g.opts.Parallel {
		return g.parallelMesh(depth)
	}
	return g.sub.Mesh(depth), nil
}

// HoleDirections returns the deduplicated hole directions at depth.
func (g *Generator) HoleDirections(depth int) (dirs []geom.Vec3, err error) {
	defer recoverDegenerate(&err)
	return g.sub.HoleDirections(depth), nil
}

// parallelMesh builds each face concurrently into its own slot and joins
// the slots in face order, so the result is identical to the sequential
// path.
func (g *Generator) parallelMesh(depth int) (geom.Mesh, error) {
	faces := Pentagons()
	parts := make([]geom.Mesh, len(faces))
	errs := make([]error, len(faces))

	var wg sync.WaitGroup
	for i := range faces {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer recoverDegenerate(&errs[i])
			parts[i] = g.sub.SubdividePentagon(faces[i], depth)
		}(i)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	out := make(geom.Mesh, 0, MeshSize(depth))
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// recoverDegenerate converts a *geom.DegenerateError panic into an error.
// Any other panic is re-raised.
func recoverDegenerate(err *error) {
	r := recover()
	if r == nil {
		return
	}
	var de *geom.DegenerateError
	if e, ok := r.(error); ok && errors.As(e, &de) {
		*err = fmt.Errorf("geodesic: generation aborted: %w", de)
		return
	}
	panic(r)
}
