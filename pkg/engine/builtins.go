package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/spaceship/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShell wraps a graph.ShellData so it can be returned from `shell`
// and consumed by `defpart`.
type sexpShell struct {
	data graph.ShellData
}

func (s *sexpShell) SexpString(ps *zygo.PrintState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(shell :depth %d :peak %g :radius %g", s.data.Depth, s.data.Peak, s.data.Radius)
	if s.data.Thickness != 0 {
		fmt.Fprintf(&sb, " :thickness %g", s.data.Thickness)
	}
	if s.data.FlatBase != 0 {
		fmt.Fprintf(&sb, " :flat-base %g", s.data.FlatBase)
	}
	sb.WriteByte(')')
	return sb.String()
}
func (s *sexpShell) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// unknownKW returns an error naming the first keyword not in allowed.
func (a kwArgs) unknownKW(form string, allowed ...string) error {
	for name := range a.kw {
		known := false
		for _, ok := range allowed {
			if name == ok {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%s: unknown keyword :%s", form, name)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a Sexp. Floats are accepted when they hold
// an integral value.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) && !math.IsInf(v.Val, 0) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a node reference from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// depthArg reads a subdivision depth keyword, rejecting values the
// generator must not be asked for.
func depthArg(form string, s zygo.Sexp) (int, error) {
	d, err := toInt(s)
	if err != nil {
		return 0, fmt.Errorf("%s: depth: %w", form, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: depth %d is negative", form, d)
	}
	if d > graph.MaxShellDepth {
		return 0, fmt.Errorf("%s: depth %d exceeds maximum %d", form, d, graph.MaxShellDepth)
	}
	return d, nil
}

// floatArgs reads optional float keywords into the given targets.
func floatArgs(form string, pa kwArgs, targets map[string]*float64) error {
	for name, dst := range targets {
		v, ok := pa.kw[name]
		if !ok {
			continue
		}
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", form, name, err)
		}
		*dst = f
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder holds per-evaluation state shared by the builtins.
type builder struct {
	g    *graph.DesignGraph
	anon map[string]int // per-prefix counters for unnamed nodes
}

func newBuilder(g *graph.DesignGraph) *builder {
	return &builder{g: g, anon: make(map[string]int)}
}

// nodeID returns a deterministic ID for a node created by form. Named
// targets give stable paths; otherwise a per-evaluation counter is used,
// so evaluating the same script twice yields the same IDs.
func (b *builder) nodeID(form, target string) graph.NodeID {
	if target != "" {
		path := form + "/" + target
		if _, taken := b.g.Nodes[graph.NewNodeID(path)]; !taken {
			return graph.NewNodeID(path)
		}
	}
	b.anon[form]++
	return graph.NewNodeID(fmt.Sprintf("%s/_anon_%d", form, b.anon[form]))
}

// finish makes every top-level node a root when the script declared no
// assembly.
func (b *builder) finish() {
	if len(b.g.Roots) > 0 {
		return
	}
	for _, id := range b.g.Unreferenced() {
		b.g.AddRoot(id)
	}
}

// register installs all DSL builtins into a zygomys environment.
// The builtins operate on the builder's DesignGraph, populating it during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func (b *builder) register(env *zygo.Zlisp) {
	g := b.g

	// -----------------------------------------------------------------------
	// (shell :depth 2 :peak 1.025 :radius 50 :thickness 2 :flat-base 5)
	// -----------------------------------------------------------------------
	env.AddFunction("shell", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknownKW("shell", "depth", "peak", "radius", "thickness", "flat-base"); err != nil {
			return zygo.SexpNull, err
		}
		sd := graph.DefaultShell()

		if v, ok := pa.kw["depth"]; ok {
			d, err := depthArg("shell", v)
			if err != nil {
				return zygo.SexpNull, err
			}
			sd.Depth = d
		}
		err := floatArgs("shell", pa, map[string]*float64{
			"peak":      &sd.Peak,
			"radius":    &sd.Radius,
			"thickness": &sd.Thickness,
			"flat-base": &sd.FlatBase,
		})
		if err != nil {
			return zygo.SexpNull, err
		}

		return &sexpShell{data: sd}, nil
	})

	// -----------------------------------------------------------------------
	// (defpart "name" (shell ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a body expression")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		if g.Lookup(partName) != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %q is already defined", partName)
		}

		body, ok := args[1].(*sexpShell)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defpart: expected shell expression, got %T", args[1])
		}

		id := graph.NewNodeID("defpart/" + partName)
		g.AddNode(&graph.Node{
			ID:   id,
			Kind: graph.NodeShell,
			Name: partName,
			Data: body.data,
		})

		return &sexpNodeRef{id: id, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		n := g.Lookup(partName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}

		return &sexpNodeRef{id: n.ID, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (holes (part "globe") :depth 1 :diameter 3 :length 10)
	// -----------------------------------------------------------------------
	env.AddFunction("holes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknownKW("holes", "depth", "diameter", "length"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("holes requires a part reference as first argument")
		}

		target, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("holes: part: %w", err)
		}

		dd := graph.DrillData{
			HoleDepth: graph.DefaultHoleDepth,
			Diameter:  graph.DefaultHoleDiameter,
			Length:    graph.DefaultHoleLength,
		}
		if v, ok := pa.kw["depth"]; ok {
			d, err := depthArg("holes", v)
			if err != nil {
				return zygo.SexpNull, err
			}
			dd.HoleDepth = d
		}
		err = floatArgs("holes", pa, map[string]*float64{
			"diameter": &dd.Diameter,
			"length":   &dd.Length,
		})
		if err != nil {
			return zygo.SexpNull, err
		}

		id := b.nodeID("holes", target.name)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeDrill,
			Children: []graph.NodeID{target.id},
			Data:     dd,
		})

		return &sexpNodeRef{id: id, name: target.name}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: graph.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (place (part "globe") :at (vec3 0 0 50) :rotate (vec3 0 0 36))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknownKW("place", "at", "rotate"); err != nil {
			return zygo.SexpNull, err
		}

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a part reference as first argument")
		}

		child, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: part: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}

		id := b.nodeID("place", child.name)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeTransform,
			Children: []graph.NodeID{child.id},
			Data:     td,
		})

		return &sexpNodeRef{id: id, name: child.name}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "name" (place ...) (holes ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}

		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		if g.Lookup(asmName) != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: %q is already defined", asmName)
		}

		var children []graph.NodeID
		for i := 1; i < len(args); i++ {
			ref, ok := args[i].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("assembly: child %d: expected node reference, got %T (%s)",
					i, args[i], args[i].SexpString(nil))
			}
			children = append(children, ref.id)
		}

		id := graph.NewNodeID("assembly/" + asmName)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeGroup,
			Name:     asmName,
			Children: children,
			Data:     graph.GroupData{},
		})
		g.AddRoot(id)

		return &sexpNodeRef{id: id, name: asmName}, nil
	})
}
