package tabast

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/tablature/syntax"
)

// Node is one semantic unit of tablature structure.
//
// Nodes live in a fragment's flat array in pre-order. A node's subtree
// occupies the Length() elements starting at its own index, which is what
// lets cursors skip subtrees without child pointers.
type Node struct {
	Kind   Kind
	anchor int
	raw    []*syntax.Node
	ranges []int
	length int
	parsed bool
}

func newNode(kind Kind, anchor int, raw ...*syntax.Node) Node {
	return Node{Kind: kind, anchor: anchor, raw: raw, length: 1}
}

func (n *Node) Name() string { return n.Kind.String() }

// Anchor is the offset all of the node's ranges are relative to: the start
// of its fragment when it was parsed.
func (n *Node) Anchor() int { return n.anchor }

// Length is one plus the number of descendants.
func (n *Node) Length() int { return n.length }

// Raw returns the raw nodes the node derives from, in source order.
//
// Raw positions belong to the text the node was parsed from, so they are
// only meaningful relative to Anchor. Once the fragment has been shifted the
// absolute position of a raw offset p is p - Anchor() + Fragment.From; the
// cursors' Translate does this.
func (n *Node) Raw() []*syntax.Node { return n.raw }

// Grouped returns the raw nodes keyed by raw type. Positions are relative to
// Anchor, as with Raw.
func (n *Node) Grouped() map[string][]*syntax.Node {
	groups := make(map[string][]*syntax.Node)
	for _, r := range n.raw {
		groups[r.Type] = append(groups[r.Type], r)
	}
	return groups
}

// RawOfType returns the raw nodes of the given types, in source order.
// Positions are relative to Anchor, as with Raw.
func (n *Node) RawOfType(types ...string) []*syntax.Node {
	var result []*syntax.Node
	for _, r := range n.raw {
		if r.Is(types...) {
			result = append(result, r)
		}
	}
	return result
}

// Ranges returns flattened from/to pairs relative to Anchor, sorted by start.
func (n *Node) Ranges() []int {
	if n.ranges == nil {
		if n.Kind.Family() == FamilyConnector {
			n.ranges = n.connectorRanges()
		} else {
			n.ranges = n.rawRanges()
		}
	}
	return n.ranges
}

func (n *Node) rawRanges() []int {
	sorted := make([]*syntax.Node, len(n.raw))
	copy(sorted, n.raw)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })
	ranges := make([]int, 0, len(sorted)*2)
	for _, r := range sorted {
		ranges = append(ranges, r.From-n.anchor, r.To-n.anchor)
	}
	return ranges
}

// connectorRanges spans from the connector's left note to the note directly
// on its right. The raw tree nests chained connectors, so the right side is
// found by walking siblings rather than taking the raw node's own extent.
func (n *Node) connectorRanges() []int {
	if len(n.raw) == 0 {
		return []int{}
	}
	left, right := connectedNotes(n.raw[0])
	return []int{left.From - n.anchor, right.To - n.anchor}
}

// connectedNotes returns the notes immediately left and right of a raw
// connector. A missing side is replaced by the connector symbol.
func connectedNotes(conn *syntax.Node) (left, right *syntax.Node) {
	sym := connectorSymbol(conn)
	left, right = sym, sym
	if first := conn.FirstChild(); first != nil && first != sym {
		left = first
	}
	next := sym.NextSibling()
	switch {
	case next == nil:
	case isConnector(next.Type):
		if note := next.FirstChild(); note != nil && isComponent(note.Type) {
			right = note
		}
	default:
		right = next
	}
	return left, right
}

func connectorSymbol(conn *syntax.Node) *syntax.Node {
	for c := conn.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type == syntax.TypeConnectorSymbol {
			return c
		}
	}
	return conn
}

// From returns the start of the first range, relative to Anchor.
func (n *Node) From() int {
	r := n.Ranges()
	if len(r) == 0 {
		return 0
	}
	return r[0]
}

// To returns the largest range end, relative to Anchor.
func (n *Node) To() int {
	r := n.Ranges()
	to := 0
	for i := 1; i < len(r); i += 2 {
		if r[i] > to {
			to = r[i]
		}
	}
	return to
}

// Key is a structural key built from the kind and ranges. Equal keys mean
// equal structure at the same relative positions.
func (n *Node) Key() string {
	var b strings.Builder
	b.WriteString(n.Name())
	for i, v := range n.Ranges() {
		if i%2 == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
