package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chazu/spaceship/pkg/engine"
	"github.com/chazu/spaceship/pkg/export"
	"github.com/chazu/spaceship/pkg/kernel"
	"github.com/chazu/spaceship/pkg/kernel/manifold"
	"github.com/chazu/spaceship/pkg/kernel/sdfx"
	"github.com/chazu/spaceship/pkg/tessellate"
)

// TessellateTimeout bounds how long one script's tessellation may run.
const TessellateTimeout = 2 * time.Minute

// App runs design scripts through evaluation, validation and tessellation.
type App struct {
	engine            *engine.Engine
	kernel            kernel.Kernel
	tessellateTimeout time.Duration
}

// MeshData is the JSON-serializable summary of one tessellated part.
type MeshData struct {
	Vertices []float32  `json:"vertices"`
	Normals  []float32  `json:"normals"`
	Indices  []uint32   `json:"indices"`
	PartName string     `json:"partName"`
	Min      [3]float64 `json:"min"`
	Max      [3]float64 `json:"max"`
}

// Size returns the extent of the part along each axis.
func (m MeshData) Size() [3]float64 {
	return [3]float64{m.Max[0] - m.Min[0], m.Max[1] - m.Min[1], m.Max[2] - m.Min[2]}
}

// EvalErrorData is a JSON-serializable evaluation error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of running a script.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with an engine and the best available kernel:
// Manifold when built with the manifold tag, sdfx otherwise.
func NewApp() *App {
	return NewAppWithKernel(defaultKernel())
}

func defaultKernel() kernel.Kernel {
	k, err := manifold.New()
	if err != nil {
		log.Printf("using sdfx kernel: %v", err)
		return sdfx.New()
	}
	return k
}

// NewAppWithKernel creates a new App that builds solids with k.
func NewAppWithKernel(k kernel.Kernel) *App {
	return &App{
		engine:            engine.NewEngine(),
		kernel:            k,
		tessellateTimeout: TessellateTimeout,
	}
}

// SetTessellateTimeout changes the tessellation limit. A limit <= 0
// disables it. A kernel still running when the limit passes is abandoned;
// its result is discarded.
func (a *App) SetTessellateTimeout(d time.Duration) {
	a.tessellateTimeout = d
}

// Evaluate takes design script source and returns mesh data plus any
// errors and warnings.
func (a *App) Evaluate(source string) EvalResult {
	result, _ := a.run(context.Background(), source)
	return result
}

// Export evaluates source and writes every resulting part to one STL file
// at path. Script errors are reported in the result and nothing is written.
func (a *App) Export(source, path string) (EvalResult, error) {
	result, meshes := a.run(context.Background(), source)
	if len(result.Errors) > 0 {
		return result, fmt.Errorf("%s: %d error(s), first: %s", path, len(result.Errors), result.Errors[0].Message)
	}
	if err := export.WriteSTL(path, meshes...); err != nil {
		log.Printf("Export error: %v", err)
		return result, err
	}
	return result, nil
}

func (a *App) run(ctx context.Context, source string) (EvalResult, []*kernel.Mesh) {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a validated design graph.
	checked, err := a.engine.EvaluateCheckedContext(ctx, source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}

	for _, w := range checked.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
		})
	}
	if len(checked.Errors) > 0 {
		for _, e := range checked.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result, nil
	}

	// Step 2: Tessellate the design graph into triangle meshes.
	meshes, err := engine.Bounded(ctx, a.tessellateTimeout, "tessellation", func() ([]*kernel.Mesh, error) {
		return tessellate.Tessellate(checked.Graph, a.kernel)
	})
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result, nil
	}

	// Step 3: Summarize each mesh.
	for _, m := range meshes {
		min, max := m.Bounds()
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Min:      min,
			Max:      max,
		})
	}

	return result, meshes
}
