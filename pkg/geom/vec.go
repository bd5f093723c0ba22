// Package geom provides the vector math and value types shared by the
// mesh generator. Vectors are sdfx v3.Vec values so the rest of the
// system (kernel, export) can consume them without conversion.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3 is a double-precision point or direction. It carries no unit;
// callers decide whether it is a position or a direction from the origin.
type Vec3 = v3.Vec

// DegenerateError reports an attempt to derive a direction from a vector
// of zero (or non-finite) magnitude.
type DegenerateError struct {
	Op string
	V  Vec3
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("geom: %s: degenerate vector (%g, %g, %g)", e.Op, e.V.X, e.V.Y, e.V.Z)
}

// TryNormalizeTo returns a vector collinear with v whose magnitude is length.
// It returns a *DegenerateError when v has no direction.
func TryNormalizeTo(v Vec3, length float64) (Vec3, error) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, &DegenerateError{Op: "normalize", V: v}
	}
	return Vec3{
		X: v.X / l * length,
		Y: v.Y / l * length,
		Z: v.Z / l * length,
	}, nil
}

// NormalizeTo is TryNormalizeTo for callers that guarantee v is non-zero.
// It panics with a *DegenerateError otherwise.
func NormalizeTo(v Vec3, length float64) Vec3 {
	n, err := TryNormalizeTo(v, length)
	if err != nil {
		panic(err)
	}
	return n
}

// PlaneNormal returns the unit normal of the plane through p0, p1, p2.
// The normal points towards the viewer when the points are counter-clockwise.
func PlaneNormal(p0, p1, p2 Vec3) Vec3 {
	a := p1.Sub(p0)
	b := p2.Sub(p0)
	return NormalizeTo(a.Cross(b), 1)
}

// Midpoint returns the arithmetic mean of p1 and p2.
func Midpoint(p1, p2 Vec3) Vec3 {
	return Vec3{
		X: (p1.X + p2.X) / 2,
		Y: (p1.Y + p2.Y) / 2,
		Z: (p1.Z + p2.Z) / 2,
	}
}
