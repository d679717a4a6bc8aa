package selector

// WalkAction tells Walk how to proceed after a visit.
type WalkAction uint8

const (
	WalkContinue WalkAction = iota
	WalkSkip                // do not descend into the visited node
	WalkStop
)

// Visitor receives a node, its index among siblings, the sibling slice and the
// ancestor chain, outermost first. Top-level selector nodes get no parents;
// items of a top-level chain get exactly one.
type Visitor func(node *Node, index int, siblings []*Node, parents []*Node) WalkAction

// Walk visits list depth-first in source order and reports whether the walk
// was stopped.
func Walk(list []*Node, fn Visitor) bool {
	return walk(list, nil, fn)
}

func walk(list []*Node, parents []*Node, fn Visitor) bool {
	for i, n := range list {
		switch fn(n, i, list, parents) {
		case WalkStop:
			return true
		case WalkSkip:
			continue
		}
		if len(n.Nodes) == 0 {
			continue
		}
		if walk(n.Nodes, append(parents[:len(parents):len(parents)], n), fn) {
			return true
		}
	}
	return false
}
