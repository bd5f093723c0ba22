package tessellate

import (
	"testing"

	"github.com/chazu/spaceship/pkg/geodesic"
	"github.com/chazu/spaceship/pkg/graph"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestEulerForAlignsZ(t *testing.T) {
	dirs := geodesic.GenerateHoleDirections(1)
	dirs = append(dirs, v3.Vec{Z: 1}, v3.Vec{Z: -1})
	for _, d := range dirs {
		tilt, heading := eulerFor(d)
		m := sdf.RotateZ(sdf.DtoR(heading)).Mul(sdf.RotateY(sdf.DtoR(tilt)))
		got := m.MulPosition(v3.Vec{Z: 1})
		if got.Sub(d).Length() > 1e-9 {
			t.Errorf("eulerFor(%v) turns +Z to %v", d, got)
		}
	}
}

func TestTransformStack(t *testing.T) {
	ts := newTransformStack()
	ts.pushTranslation(graph.Vec3{X: 1})
	ts.pushRotation(graph.Vec3{Z: 10})
	ts.pushTranslation(graph.Vec3{Y: 2})
	ts.pushRotation(graph.Vec3{Z: 20})

	if got := ts.accumulatedTranslation(); got != (graph.Vec3{X: 1, Y: 2}) {
		t.Errorf("translation = %v, want (1, 2, 0)", got)
	}
	if got := ts.accumulatedRotation(); got != (graph.Vec3{Z: 30}) {
		t.Errorf("rotation = %v, want (0, 0, 30)", got)
	}

	ts.pop()
	if got := ts.accumulatedTranslation(); got != (graph.Vec3{X: 1}) {
		t.Errorf("after pop translation = %v, want (1, 0, 0)", got)
	}
	ts.pop()
	ts.pop() // popping an empty stack is a no-op
	if got := ts.matrix().MulPosition(v3.Vec{X: 1, Y: 2, Z: 3}); got != (v3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("empty stack matrix moved a point to %v", got)
	}
}
