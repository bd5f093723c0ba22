package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodeShell     NodeKind = iota // geodesic shell primitive
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // logical grouping (assembly)
	NodeDrill                     // radial holes through a shell (holes)
)

func (k NodeKind) String() string {
	switch k {
	case NodeShell:
		return "shell"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodeDrill:
		return "drill"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
