// Package syntax produces the raw, position-addressed tablature syntax tree.
//
// The raw tree mirrors the source layout: segments contain lines, lines
// contain strings or modifiers, strings contain measure lines. It does not
// know which strings belong together musically; that grouping is
// reconstructed by package tabast.
package syntax

import (
	"fmt"
	"strings"
)

// Raw node type names.
const (
	TypeTablature       = "Tablature"
	TypeTabSegment      = "TabSegment"
	TypeTabSegmentLine  = "TabSegmentLine"
	TypeTabString       = "TabString"
	TypeMeasureLineName = "MeasureLineName"
	TypeMeasureLine     = "MeasureLine"
	TypeBar             = "Bar"
	TypeFret            = "Fret"
	TypeHarmonic        = "Harmonic"
	TypeGrace           = "Grace"
	TypeHammer          = "Hammer"
	TypePull            = "Pull"
	TypeSlide           = "Slide"
	TypeConnectorSymbol = "ConnectorSymbol"
	TypeRepeat          = "Repeat"
	TypeTimeSignature   = "TimeSignature"
	TypeMultiplier      = "Multiplier"
)

// Node is an immutable raw syntax node covering [From,To).
type Node struct {
	Type     string
	From     int
	To       int
	children []*Node
	parent   *Node
	index    int
}

func newNode(typ string, from, to int) *Node {
	return &Node{Type: typ, From: from, To: to}
}

func (n *Node) addChild(child *Node) {
	child.parent = n
	child.index = len(n.children)
	n.children = append(n.children, child)
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

func (n *Node) PrevSibling() *Node {
	if n.parent == nil || n.index == 0 {
		return nil
	}
	return n.parent.children[n.index-1]
}

// ChildrenOfType returns the direct children whose type is one of types.
func (n *Node) ChildrenOfType(types ...string) []*Node {
	var result []*Node
	for _, child := range n.children {
		for _, typ := range types {
			if child.Type == typ {
				result = append(result, child)
				break
			}
		}
	}
	return result
}

// Is reports whether the node's type is one of types.
func (n *Node) Is(types ...string) bool {
	for _, typ := range types {
		if n.Type == typ {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, indent int) {
	fmt.Fprintf(b, "%s%s [%d-%d]\n", strings.Repeat("  ", indent), n.Type, n.From, n.To)
	for _, child := range n.children {
		child.write(b, indent+1)
	}
}

// Tree is a parsed raw syntax tree.
type Tree struct {
	Root   *Node
	Tokens []Token
}

// Resolve returns the innermost node whose range contains pos.
// Ranges are treated as closed at the end so a position just past a node
// still resolves to it.
func (t *Tree) Resolve(pos int) *Node {
	node := t.Root
	for {
		var next *Node
		for _, child := range node.children {
			if child.From <= pos && pos <= child.To {
				next = child
				break
			}
		}
		if next == nil {
			return node
		}
		node = next
	}
}

// Segments returns the TabSegment nodes that end after from and start before to.
func (t *Tree) Segments(from, to int) []*Node {
	var result []*Node
	for _, seg := range t.Root.children {
		if seg.To > from && seg.From < to {
			result = append(result, seg)
		}
	}
	return result
}
