package codebase

import (
	"github.com/dhamidi/esq/js/parser"
)

// NodesAtPoint returns the nodes whose span contains pos, outermost first.
// Only Line and Column of pos are used.
func NodesAtPoint(root *parser.Node, pos parser.Position) []*parser.Node {
	var chain []*parser.Node
	for n := root; n != nil && positionInSpan(pos, n.Span); {
		chain = append(chain, n)
		var next *parser.Node
		for _, child := range n.Children {
			if positionInSpan(pos, child.Span) {
				next = child
				break
			}
		}
		n = next
	}
	return chain
}

func positionInSpan(pos parser.Position, span parser.Span) bool {
	return !before(pos, span.Start) && before(pos, span.End)
}

func before(a, b parser.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
