package physical

import (
	"errors"
	"fmt"
)

// NodeType represents the type of a node in the physical plan.
type NodeType uint32

const (
	_ NodeType = iota // zero-value is an invalid type

	NodeTypeGridSource
)

// String returns the string representation of the [NodeType].
func (t NodeType) String() string {
	switch t {
	case NodeTypeGridSource:
		return "GridSource"
	default:
		return "Invalid"
	}
}

// Node is the common interface for all nodes in a physical plan.
type Node interface {
	// ID returns a string that uniquely identifies the node in the plan.
	ID() string
	// Type returns the type of the node.
	Type() NodeType
	// Accept dispatches the node to the provided [Visitor].
	Accept(Visitor) error
	// isLeaf reports whether the node is a structural leaf that must not
	// have children.
	isLeaf() bool
}

// Edge is a connection between two nodes in the plan, pointing from the
// consuming Parent to the producing Child.
type Edge struct {
	Parent, Child Node
}

// Plan is a directed acyclic graph of physical plan nodes.
type Plan struct {
	nodes    []Node
	children map[Node][]Node
	parents  map[Node][]Node
}

// AddNode adds a node to the plan without connecting it.
func (p *Plan) AddNode(n Node) {
	if p.children == nil {
		p.children = make(map[Node][]Node)
		p.parents = make(map[Node][]Node)
	}
	if _, ok := p.children[n]; ok {
		return
	}
	p.nodes = append(p.nodes, n)
	p.children[n] = nil
	p.parents[n] = nil
}

// AddEdge connects two previously added nodes. Structural leaves cannot be
// the parent of an edge.
func (p *Plan) AddEdge(e Edge) error {
	if e.Parent == nil || e.Child == nil {
		return errors.New("edge must have a parent and a child node")
	}
	if _, ok := p.children[e.Parent]; !ok {
		return fmt.Errorf("parent node %s is not part of the plan", e.Parent.ID())
	}
	if _, ok := p.children[e.Child]; !ok {
		return fmt.Errorf("child node %s is not part of the plan", e.Child.ID())
	}
	if e.Parent.isLeaf() {
		return fmt.Errorf("node %s is a leaf and cannot have children", e.Parent.ID())
	}
	p.children[e.Parent] = append(p.children[e.Parent], e.Child)
	p.parents[e.Child] = append(p.parents[e.Child], e.Parent)
	return nil
}

// Children returns the child nodes of n in insertion order.
func (p *Plan) Children(n Node) []Node {
	return p.children[n]
}

// Roots returns all nodes that have no parent.
func (p *Plan) Roots() []Node {
	var roots []Node
	for _, n := range p.nodes {
		if len(p.parents[n]) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Root returns the single root node of the plan. It returns an error if the
// plan has no nodes, or more than one root.
func (p *Plan) Root() (Node, error) {
	roots := p.Roots()
	switch len(roots) {
	case 0:
		return nil, errors.New("plan has no root node")
	case 1:
		return roots[0], nil
	default:
		return nil, fmt.Errorf("plan has multiple root nodes (%d)", len(roots))
	}
}

// Len returns the number of nodes in the plan.
func (p *Plan) Len() int {
	return len(p.nodes)
}
