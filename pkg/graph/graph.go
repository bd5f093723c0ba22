package graph

import (
	"fmt"
	"slices"
)

// DesignGraph is the top-level immutable data structure produced by script
// evaluation. It is never mutated in place; each evaluation produces a new
// graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Order     []NodeID          `json:"order"` // insertion order of Nodes
	Version   uint64            `json:"version"`
}

// New creates an empty DesignGraph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. Re-adding an ID replaces the node but
// keeps its original position in Order.
func (g *DesignGraph) AddNode(n *Node) {
	if _, exists := g.Nodes[n.ID]; !exists {
		g.Order = append(g.Order, n.ID)
	}
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph. Adding a root twice
// is a no-op.
func (g *DesignGraph) AddRoot(id NodeID) {
	for _, r := range g.Roots {
		if r == id {
			return
		}
	}
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Shells returns all shell nodes in insertion order.
func (g *DesignGraph) Shells() []*Node {
	return g.ofKind(NodeShell)
}

// Drills returns all drill nodes in insertion order.
func (g *DesignGraph) Drills() []*Node {
	return g.ofKind(NodeDrill)
}

func (g *DesignGraph) ofKind(kind NodeKind) []*Node {
	var out []*Node
	for _, id := range g.Order {
		if n := g.Nodes[id]; n != nil && n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Unreferenced returns, in insertion order, the IDs of nodes that are not
// the child of any other node.
func (g *DesignGraph) Unreferenced() []NodeID {
	referenced := make(map[NodeID]bool)
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			referenced[c] = true
		}
	}
	var out []NodeID
	for _, id := range g.Order {
		if !referenced[id] {
			out = append(out, id)
		}
	}
	return out
}

// ordered returns every node in insertion order. Nodes stored in Nodes
// without AddNode follow, sorted by ID.
func (g *DesignGraph) ordered() []*Node {
	out := make([]*Node, 0, len(g.Nodes))
	seen := make(map[NodeID]bool, len(g.Nodes))
	for _, id := range g.Order {
		if n := g.Nodes[id]; n != nil && !seen[id] {
			seen[id] = true
			out = append(out, n)
		}
	}
	var rest []NodeID
	for id := range g.Nodes {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	for _, id := range rest {
		out = append(out, g.Nodes[id])
	}
	return out
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}

// BaseShell follows a drill chain down to the shell it cuts. It returns
// false if n is neither a shell nor a drill over one.
func (g *DesignGraph) BaseShell(n *Node) (ShellData, bool) {
	seen := make(map[NodeID]bool)
	for n != nil && !seen[n.ID] {
		seen[n.ID] = true
		switch d := n.Data.(type) {
		case ShellData:
			return d, true
		case DrillData:
			if len(n.Children) != 1 {
				return ShellData{}, false
			}
			n = g.Nodes[n.Children[0]]
		default:
			return ShellData{}, false
		}
	}
	return ShellData{}, false
}
