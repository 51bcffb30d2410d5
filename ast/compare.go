package ast

// NodesEqual compares the name, value and type of two attributes.
// Children are not taken into account.
func NodesEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Name == b.Name &&
		a.Value == b.Value &&
		a.Type == b.Type
}

// TreesEqual compares two attributes including their children in order
func TreesEqual(a, b *Node) bool {
	if !NodesEqual(a, b) {
		return false
	}
	if a == nil {
		return true
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !TreesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
