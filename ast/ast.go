package ast

// ast is the attribute tree shared by the expected and the found side
// of a comparison.

import (
	"strings"
)

// TypeSeparator joins an attribute name and its type in a qualified name
const TypeSeparator = `\`

// PathSeparator joins the segments of a qualified name
const PathSeparator = "."

// Node represents an attribute in an attribute tree
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Value    string  `json:"value" yaml:"value"`
	Type     string  `json:"type,omitempty" yaml:"type,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// New creates an untyped attribute with the given children
func New(name, value string, children ...*Node) *Node {
	return &Node{
		Name:     name,
		Value:    value,
		Children: children,
	}
}

// NewTyped creates a typed attribute with the given children
func NewTyped(name, value, typ string, children ...*Node) *Node {
	return &Node{
		Name:     name,
		Value:    value,
		Type:     typ,
		Children: children,
	}
}

// Segment returns the qualified name segment of the node, i.e. the name
// followed by the type if the node is typed
func (n *Node) Segment() string {
	if n.Type == "" {
		return n.Name
	}
	return n.Name + TypeSeparator + n.Type
}

// QualifiedName extends the qualified name of the parent by the segment of n.
// The root level has no leading separator.
func QualifiedName(prefix string, n *Node) string {
	if prefix == "" {
		return n.Segment()
	}
	return prefix + PathSeparator + n.Segment()
}

// Size counts the node and all of its descendants
func Size(n *Node) int {
	size := 1
	for _, child := range n.Children {
		size += Size(child)
	}
	return size
}

// Uppercase normalizes the values of all nodes in the forest in place
func Uppercase(nodes []*Node) {
	for _, n := range nodes {
		n.Value = strings.ToUpper(n.Value)
		Uppercase(n.Children)
	}
}

// Clone creates a deep copy of a node
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:  n.Name,
		Value: n.Value,
		Type:  n.Type,
	}
	if len(n.Children) > 0 {
		c.Children = CloneAll(n.Children)
	}
	return c
}

// CloneAll creates a deep copy of a forest
func CloneAll(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = Clone(n)
	}
	return result
}

// Walk visits every node of the forest in depth first order together
// with its qualified name
func Walk(nodes []*Node, prefix string, fn func(qname string, n *Node)) {
	for _, n := range nodes {
		qname := QualifiedName(prefix, n)
		fn(qname, n)
		Walk(n.Children, qname, fn)
	}
}
