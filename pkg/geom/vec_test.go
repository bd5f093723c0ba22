package geom

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-12

func near(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNormalizeTo(t *testing.T) {
	tests := []struct {
		name   string
		v      Vec3
		length float64
		want   Vec3
	}{
		{"unit x", Vec3{X: 5}, 1, Vec3{X: 1}},
		{"scale up", Vec3{X: 3, Y: 4}, 10, Vec3{X: 6, Y: 8}},
		{"negative axis", Vec3{Z: -2}, 1.025, Vec3{Z: -1.025}},
		{"cube corner", Vec3{X: 1, Y: 1, Z: 1}, math.Sqrt(3), Vec3{X: 1, Y: 1, Z: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTo(tt.v, tt.length)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Z, tt.want.Z) {
				t.Errorf("NormalizeTo(%v, %v) = %v, want %v", tt.v, tt.length, got, tt.want)
			}
			if !near(got.Length(), math.Abs(tt.length)) {
				t.Errorf("length = %v, want %v", got.Length(), tt.length)
			}
		})
	}
}

func TestNormalizeToZeroPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("NormalizeTo(zero) did not panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %T, want error", r)
		}
		var de *DegenerateError
		if !errors.As(err, &de) {
			t.Fatalf("panic value %v, want *DegenerateError", err)
		}
	}()
	NormalizeTo(Vec3{}, 1)
}

func TestTryNormalizeTo(t *testing.T) {
	if _, err := TryNormalizeTo(Vec3{}, 1); err == nil {
		t.Error("TryNormalizeTo(zero) error = nil, want error")
	}
	if _, err := TryNormalizeTo(Vec3{X: math.NaN()}, 1); err == nil {
		t.Error("TryNormalizeTo(NaN) error = nil, want error")
	}
	v, err := TryNormalizeTo(Vec3{Y: 7}, 2)
	if err != nil {
		t.Fatalf("TryNormalizeTo() error = %v", err)
	}
	if v != (Vec3{Y: 2}) {
		t.Errorf("TryNormalizeTo() = %v, want (0, 2, 0)", v)
	}
}

func TestPlaneNormal(t *testing.T) {
	t.Run("counter-clockwise in xy points up", func(t *testing.T) {
		n := PlaneNormal(Vec3{}, Vec3{X: 1}, Vec3{Y: 1})
		if n != (Vec3{Z: 1}) {
			t.Errorf("PlaneNormal() = %v, want (0, 0, 1)", n)
		}
	})
	t.Run("clockwise flips sign", func(t *testing.T) {
		n := PlaneNormal(Vec3{}, Vec3{Y: 1}, Vec3{X: 1})
		if n != (Vec3{Z: -1}) {
			t.Errorf("PlaneNormal() = %v, want (0, 0, -1)", n)
		}
	})
	t.Run("unit length", func(t *testing.T) {
		n := PlaneNormal(Vec3{X: 3, Y: -1, Z: 2}, Vec3{X: 7, Y: 4, Z: -5}, Vec3{X: -2, Y: 9, Z: 1})
		if !near(n.Length(), 1) {
			t.Errorf("|n| = %v, want 1", n.Length())
		}
	})
	t.Run("collinear panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("PlaneNormal(collinear) did not panic")
			}
		}()
		PlaneNormal(Vec3{}, Vec3{X: 1}, Vec3{X: 2})
	})
}

func TestMidpoint(t *testing.T) {
	got := Midpoint(Vec3{X: 1, Y: 2, Z: 3}, Vec3{X: 3, Y: -2, Z: 1})
	if got != (Vec3{X: 2, Y: 0, Z: 2}) {
		t.Errorf("Midpoint() = %v, want (2, 0, 2)", got)
	}
	// No normalization: the midpoint of two unit vectors is inside the sphere.
	m := Midpoint(Vec3{X: 1}, Vec3{Y: 1})
	if m.Length() >= 1 {
		t.Errorf("|Midpoint| = %v, want < 1", m.Length())
	}
}
