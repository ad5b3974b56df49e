package tabast

import (
	"sort"
	"unicode"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
)

// createChildren computes the node's direct children. It runs at most once;
// later calls return nil.
func (n *Node) createChildren(src source.Text) []Node {
	if n.parsed {
		return nil
	}
	n.parsed = true

	switch n.Kind {
	case KindSegment:
		return n.segmentChildren(src)
	case KindBlock:
		return n.blockChildren()
	case KindLineNaming:
		return n.leaves(KindMeasureLineName)
	case KindMeasure:
		return n.measureChildren(src)
	case KindSound, KindConnectorGroup:
		return n.componentChildren()
	case KindGrace, KindHarmonic:
		return n.decoratorChildren()
	default:
		return nil
	}
}

func (n *Node) leaves(kind Kind) []Node {
	children := make([]Node, 0, len(n.raw))
	for _, r := range n.raw {
		children = append(children, newNode(kind, n.anchor, r))
	}
	return children
}

func column(src source.Text, r *syntax.Node) Span {
	from := r.From - src.LineAt(r.From).From
	return Span{From: from, To: from + r.To - r.From}
}

// segmentChildren splits the segment's strings into blocks of column
// overlapping strings and hands every modifier to a block.
func (n *Node) segmentChildren(src source.Text) []Node {
	var strs [][]*syntax.Node
	var modifiers []*syntax.Node
	for _, seg := range n.raw {
		for _, line := range seg.ChildrenOfType(syntax.TypeTabSegmentLine) {
			if s := line.ChildrenOfType(syntax.TypeTabString); len(s) > 0 {
				strs = append(strs, s)
			}
			for _, c := range line.Children() {
				if isModifier(c.Type) {
					modifiers = append(modifiers, c)
				}
			}
		}
	}

	groups := GroupPivotal(strs, func(r *syntax.Node) Span { return column(src, r) })
	if len(groups) == 0 {
		return nil
	}

	spans := make([]Span, len(groups))
	for i, g := range groups {
		sort.SliceStable(g, func(a, b int) bool { return g[a].From < g[b].From })
		spans[i] = column(src, g[0])
		for _, r := range g[1:] {
			s := column(src, r)
			spans[i].From = min(spans[i].From, s.From)
			spans[i].To = max(spans[i].To, s.To)
		}
	}

	assigned := make([][]*syntax.Node, len(groups))
	for _, m := range modifiers {
		i := blockForModifier(spans, column(src, m))
		assigned[i] = append(assigned[i], m)
	}

	children := make([]Node, len(groups))
	for i, g := range groups {
		raw := append(append([]*syntax.Node{}, assigned[i]...), g...)
		children[i] = newNode(KindBlock, n.anchor, raw...)
	}
	return children
}

// blockForModifier returns the first block overlapping s, else the nearest
// block to its left, else the nearest block to its right.
func blockForModifier(spans []Span, s Span) int {
	for i, b := range spans {
		if s.overlaps(b) {
			return i
		}
	}
	left, right := -1, -1
	for i, b := range spans {
		if b.To <= s.From {
			if left < 0 || b.To > spans[left].To {
				left = i
			}
		} else if right < 0 || b.From < spans[right].From {
			right = i
		}
	}
	if left >= 0 {
		return left
	}
	return right
}

// blockChildren emits the block's modifiers, a line naming over the string
// names and one measure per column of measure lines.
func (n *Node) blockChildren() []Node {
	var children []Node
	var names, measures [][]*syntax.Node
	for _, r := range n.raw {
		if isModifier(r.Type) {
			children = append(children, newNode(ModifierKind(r.Type), n.anchor, r))
			continue
		}
		names = append(names, r.ChildrenOfType(syntax.TypeMeasureLineName))
		measures = append(measures, r.ChildrenOfType(syntax.TypeMeasureLine))
	}

	for _, g := range GroupSequential(names) {
		children = append(children, newNode(KindLineNaming, n.anchor, g...))
	}
	for _, g := range GroupSequential(measures) {
		children = append(children, newNode(KindMeasure, n.anchor, g...))
	}
	return children
}

// measureChildren groups the components of the measure's lines into sounds
// and interleaves them with the connectors between them.
func (n *Node) measureChildren(src source.Text) []Node {
	components := make([][]Placed[*syntax.Node], len(n.raw))
	connectors := make([][]*syntax.Node, len(n.raw))
	distances := make(map[*syntax.Node]int)

	for li, ml := range n.raw {
		comps, conns := flattenMeasureLine(ml)
		connectors[li] = conns

		pos, dist := ml.From, 0
		for _, c := range comps {
			dist += nonSpace(src.Slice(pos, c.From))
			pos = c.From
			distances[c] = dist
			components[li] = append(components[li], Placed[*syntax.Node]{Line: li, Node: c})
		}
	}

	sounds := GroupSounds(components, func(p Placed[*syntax.Node]) int { return distances[p.Node] })
	for _, s := range sounds {
		sort.SliceStable(s, func(a, b int) bool { return s[a].Line < s[b].Line })
	}

	entries := OrderConnectors(connectors, sounds,
		func(c *syntax.Node) int { return connectorSymbol(c).From },
		func(c *syntax.Node) int { return c.From },
	)

	children := make([]Node, 0, len(entries))
	for _, e := range entries {
		raw := make([]*syntax.Node, len(e.Members))
		for i, m := range e.Members {
			raw[i] = m.Node
		}
		kind := KindSound
		if e.Connectors {
			kind = KindConnectorGroup
		}
		children = append(children, newNode(kind, n.anchor, raw...))
	}
	return children
}

// flattenMeasureLine returns a measure line's notes and connectors in
// source order. Chained connectors are unwound by walking each connector's
// children: left note, symbol, then either the right note or the next
// connector in the chain.
func flattenMeasureLine(ml *syntax.Node) (components, connectors []*syntax.Node) {
	for _, child := range ml.Children() {
		if isComponent(child.Type) {
			components = append(components, child)
			continue
		}
		for c := child; c != nil && isConnector(c.Type); {
			connectors = append(connectors, c)
			sym := connectorSymbol(c)
			if first := c.FirstChild(); first != sym && isComponent(first.Type) {
				components = append(components, first)
			}
			next := sym.NextSibling()
			if next == nil {
				break
			}
			if isComponent(next.Type) {
				components = append(components, next)
				break
			}
			c = next
		}
	}
	return components, connectors
}

func nonSpace(s string) int {
	count := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

func (n *Node) componentChildren() []Node {
	children := make([]Node, 0, len(n.raw))
	for _, r := range n.raw {
		children = append(children, newNode(ComponentKind(r.Type), n.anchor, r))
	}
	return children
}

func (n *Node) decoratorChildren() []Node {
	var children []Node
	for _, r := range n.raw {
		for _, c := range r.Children() {
			if isNote(c.Type) {
				children = append(children, newNode(NoteKind(c.Type), n.anchor, c))
			}
		}
	}
	return children
}
