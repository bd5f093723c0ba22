package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: Parameter validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateParameters runs all Tier 2 checks on shell and drill payloads.
// Returns errors (blocking) and warnings (advisory) separately.
func validateParameters(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateShellParams(g)...)
	errs = append(errs, validateDrillParams(g)...)

	warnings = append(warnings, validateShellShape(g)...)
	warnings = append(warnings, validateDrillReach(g)...)

	return errs, warnings
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// validateShellParams checks that every ShellData describes a buildable
// shell.
func validateShellParams(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	fail := func(id NodeID, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, node := range g.ordered() {
		sd, ok := node.Data.(ShellData)
		if !ok {
			continue
		}

		if sd.Depth < 0 || sd.Depth > MaxShellDepth {
			fail(node.ID, "shell depth %d outside [0, %d]", sd.Depth, MaxShellDepth)
		}
		if !finite(sd.Peak) || sd.Peak <= 0 {
			fail(node.ID, "shell peak is %.4f, must be positive", sd.Peak)
		}
		if !finite(sd.Radius) || sd.Radius <= 0 {
			fail(node.ID, "shell radius is %.4f, must be positive", sd.Radius)
			continue
		}
		if !finite(sd.Thickness) || sd.Thickness < 0 || sd.Thickness >= sd.Radius {
			fail(node.ID, "shell thickness %.4f outside [0, radius %.4f)", sd.Thickness, sd.Radius)
		}
		if !finite(sd.FlatBase) || sd.FlatBase < 0 || sd.FlatBase >= 2*sd.Radius {
			fail(node.ID, "shell flat base %.4f outside [0, diameter %.4f)", sd.FlatBase, 2*sd.Radius)
		}
	}

	return errs
}

// validateDrillParams checks hole depth and cylinder dimensions.
func validateDrillParams(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	fail := func(id NodeID, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, node := range g.ordered() {
		dd, ok := node.Data.(DrillData)
		if !ok {
			continue
		}

		if dd.HoleDepth < 0 || dd.HoleDepth > MaxShellDepth {
			fail(node.ID, "hole depth %d outside [0, %d]", dd.HoleDepth, MaxShellDepth)
		}
		if !finite(dd.Diameter) || dd.Diameter <= 0 {
			fail(node.ID, "hole diameter is %.4f, must be positive", dd.Diameter)
		}
		if !finite(dd.Length) || dd.Length <= 0 {
			fail(node.ID, "hole length is %.4f, must be positive", dd.Length)
		}
	}

	return errs
}

// validateShellShape warns about legal shells that are probably not what
// the author meant.
func validateShellShape(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.ordered() {
		sd, ok := node.Data.(ShellData)
		if !ok {
			continue
		}
		if sd.Peak > 0 && sd.Peak < 1 {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("peak %.4f < 1 dents the faces inward", sd.Peak),
			})
		}
		if sd.Radius > 0 && sd.FlatBase > sd.Radius {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("flat base %.4f cuts above the equator (radius %.4f)", sd.FlatBase, sd.Radius),
			})
		}
	}

	return warnings
}

// validateDrillReach warns when holes cannot open the shell they cut: a
// solid shell only gets blind pockets, and a cylinder shorter than the wall
// never reaches the cavity.
func validateDrillReach(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.ordered() {
		dd, ok := node.Data.(DrillData)
		if !ok {
			continue
		}
		sd, ok := g.BaseShell(node)
		if !ok {
			continue
		}

		if sd.Thickness == 0 {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: "holes in a solid shell (thickness 0) are blind",
			})
			continue
		}
		// The cylinder is centered on the surface, so half of it reaches
		// inward.
		if dd.Length/2 < sd.Thickness {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("hole length %.4f does not pierce wall thickness %.4f", dd.Length, sd.Thickness),
			})
		}
	}

	return warnings
}
