package graph

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildValidEarth creates a valid graph: a hollow globe drilled with holes,
// placed above the origin, under an assembly root.
func buildValidEarth() *DesignGraph {
	g := New()

	globeID := NewNodeID("defpart/globe")
	drillID := NewNodeID("holes/globe")
	placeID := NewNodeID("place/globe")
	groupID := NewNodeID("assembly/earth")

	at := Vec3{0, 0, 50}
	g.AddNode(&Node{
		ID: globeID, Kind: NodeShell, Name: "globe",
		Data: ShellData{Depth: 2, Peak: 1.025, Radius: 50, Thickness: 2},
	})
	g.AddNode(&Node{
		ID: drillID, Kind: NodeDrill,
		Children: []NodeID{globeID},
		Data:     DrillData{HoleDepth: 1, Diameter: 3, Length: 10},
	})
	g.AddNode(&Node{
		ID: placeID, Kind: NodeTransform,
		Children: []NodeID{drillID},
		Data:     TransformData{Translation: &at},
	})
	g.AddNode(&Node{
		ID:       groupID,
		Kind:     NodeGroup,
		Name:     "earth",
		Children: []NodeID{placeID},
		Data:     GroupData{Description: "spaceship earth"},
	})
	g.AddRoot(groupID)

	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// errorCount returns the number of error-severity findings.
func errorCount(errs []ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidate_ValidGraph(t *testing.T) {
	g := buildValidEarth()
	errs := Validate(g)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation error: %s", e)
		}
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	g := New()
	errs := Validate(g)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation error on empty graph: %s", e)
		}
	}
}

func TestValidate_CycleDetection(t *testing.T) {
	g := New()

	aID := NewNodeID("a")
	bID := NewNodeID("b")
	cID := NewNodeID("c")

	// Create a cycle: a -> b -> c -> a
	g.AddNode(&Node{
		ID: aID, Kind: NodeGroup, Name: "a",
		Children: []NodeID{bID},
		Data:     GroupData{},
	})
	g.AddNode(&Node{
		ID: bID, Kind: NodeGroup, Name: "b",
		Children: []NodeID{cID},
		Data:     GroupData{},
	})
	g.AddNode(&Node{
		ID: cID, Kind: NodeGroup, Name: "c",
		Children: []NodeID{aID},
		Data:     GroupData{},
	})
	g.AddRoot(aID)

	errs := Validate(g)
	if !hasError(errs, "cycle") {
		t.Error("expected cycle detection error, got none")
		for _, e := range errs {
			t.Logf("  %s", e)
		}
	}
}

func TestValidate_DanglingReference(t *testing.T) {
	g := New()

	parentID := NewNodeID("parent")
	missingID := NewNodeID("missing-child")

	g.AddNode(&Node{
		ID: parentID, Kind: NodeGroup, Name: "parent",
		Children: []NodeID{missingID},
		Data:     GroupData{},
	})
	g.AddRoot(parentID)

	errs := Validate(g)
	if !hasError(errs, "does not exist") {
		t.Error("expected dangling reference error, got none")
		for _, e := range errs {
			t.Logf("  %s", e)
		}
	}
}

func TestValidate_DuplicateName(t *testing.T) {
	g := New()

	aID := NewNodeID("defpart/globe-1")
	bID := NewNodeID("defpart/globe-2")
	groupID := NewNodeID("assembly/root")

	g.AddNode(&Node{ID: aID, Kind: NodeShell, Name: "globe", Data: DefaultShell()})
	g.AddNode(&Node{ID: bID, Kind: NodeShell, Name: "globe", Data: DefaultShell()})
	g.AddNode(&Node{
		ID: groupID, Kind: NodeGroup, Name: "root",
		Children: []NodeID{aID, bID},
		Data:     GroupData{},
	})
	g.AddRoot(groupID)

	errs := Validate(g)
	if !hasError(errs, "duplicate name") {
		t.Error("expected duplicate name error")
	}
}

func TestValidate_OrphanNode(t *testing.T) {
	g := buildValidEarth()
	orphanID := NewNodeID("defpart/moon")
	g.AddNode(&Node{ID: orphanID, Kind: NodeShell, Name: "moon", Data: DefaultShell()})

	errs := Validate(g)
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning")
	}
	if errorCount(errs) != 0 {
		t.Errorf("orphan should only warn, got %d errors", errorCount(errs))
	}
}

func TestValidate_NameIndexPointsToMissingNode(t *testing.T) {
	g := New()
	g.NameIndex["ghost"] = NewNodeID("ghost")

	errs := Validate(g)
	if !hasError(errs, "non-existent node") {
		t.Error("expected name index error")
	}
}

func TestValidate_RootReferencesNonExistentNode(t *testing.T) {
	g := New()
	g.AddRoot(NewNodeID("nowhere"))

	errs := Validate(g)
	if !hasError(errs, "root reference") {
		t.Error("expected root reference error")
	}
}

func TestValidate_Arity(t *testing.T) {
	globeID := NewNodeID("defpart/globe")
	moonID := NewNodeID("defpart/moon")
	groupID := NewNodeID("assembly/sky")

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "shell with children",
			node: &Node{ID: NewNodeID("x"), Kind: NodeShell, Children: []NodeID{globeID}, Data: DefaultShell()},
			want: "shell has 1 children",
		},
		{
			name: "transform without child",
			node: &Node{ID: NewNodeID("x"), Kind: NodeTransform, Data: TransformData{}},
			want: "transform has 0 children",
		},
		{
			name: "drill over two shells",
			node: &Node{ID: NewNodeID("x"), Kind: NodeDrill, Children: []NodeID{globeID, moonID}, Data: DrillData{}},
			want: "drill has 2 children",
		},
		{
			name: "drill over group",
			node: &Node{ID: NewNodeID("x"), Kind: NodeDrill, Children: []NodeID{groupID}, Data: DrillData{}},
			want: "not shell",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.AddNode(&Node{ID: globeID, Kind: NodeShell, Name: "globe", Data: DefaultShell()})
			g.AddNode(&Node{ID: moonID, Kind: NodeShell, Name: "moon", Data: DefaultShell()})
			g.AddNode(&Node{ID: groupID, Kind: NodeGroup, Name: "sky", Children: []NodeID{moonID}, Data: GroupData{}})
			g.AddNode(tt.node)
			g.AddRoot(tt.node.ID)

			errs := Validate(g)
			if !hasError(errs, tt.want) {
				t.Errorf("expected error containing %q", tt.want)
				for _, e := range errs {
					t.Logf("  %s", e)
				}
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	g := New()

	missingID := NewNodeID("missing")
	drillID := NewNodeID("holes/x")
	g.AddNode(&Node{
		ID: drillID, Kind: NodeDrill,
		Children: []NodeID{missingID, missingID},
		Data:     DrillData{},
	})
	g.AddNode(&Node{ID: NewNodeID("defpart/moon"), Kind: NodeShell, Name: "moon", Data: DefaultShell()})
	g.AddRoot(drillID)

	errs := Validate(g)
	if !hasError(errs, "does not exist") {
		t.Error("expected dangling reference error")
	}
	if !hasError(errs, "drill has 2 children") {
		t.Error("expected arity error")
	}
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning")
	}
}

func TestValidationError_String(t *testing.T) {
	// Graph-level error (zero NodeID).
	e1 := ValidationError{
		Message:  "test graph error",
		Severity: SeverityError,
	}
	if !strings.Contains(e1.Error(), "error") {
		t.Errorf("expected 'error' in string, got %q", e1.Error())
	}
	if !strings.Contains(e1.Error(), "test graph error") {
		t.Errorf("expected message in string, got %q", e1.Error())
	}

	// Node-level warning.
	e2 := ValidationError{
		NodeID:   NewNodeID("test"),
		Message:  "test node warning",
		Severity: SeverityWarning,
	}
	if !strings.Contains(e2.Error(), "warning") {
		t.Errorf("expected 'warning' in string, got %q", e2.Error())
	}
	if !strings.Contains(e2.Error(), "node") {
		t.Errorf("expected 'node' in string, got %q", e2.Error())
	}
}
