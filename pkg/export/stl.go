// Package export writes tessellated shells to disk.
package export

import (
	"fmt"

	"github.com/chazu/spaceship/pkg/geom"
	"github.com/chazu/spaceship/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/samber/lo"
)

// WriteSTL writes meshes to a single binary STL file at path. Meshes are
// concatenated in order; STL has no notion of parts.
func WriteSTL(path string, meshes ...*kernel.Mesh) error {
	var tris geom.Mesh
	for _, m := range meshes {
		if m == nil {
			continue
		}
		t, err := m.Triangles()
		if err != nil {
			return fmt.Errorf("export: mesh %q: %w", m.PartName, err)
		}
		tris = append(tris, t...)
	}
	return SaveTriangles(path, tris)
}

// SaveTriangles writes an ordered triangle list to a binary STL file.
func SaveTriangles(path string, tris geom.Mesh) error {
	if len(tris) == 0 {
		return fmt.Errorf("export: nothing to write to %s", path)
	}
	out := lo.Map(tris, func(t geom.Triangle, _ int) *sdf.Triangle3 {
		return &sdf.Triangle3{t[0], t[1], t[2]}
	})
	if err := render.SaveSTL(path, out); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
