package tabast

import (
	"strings"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
)

type fragmentState int

const (
	statePending fragmentState = iota
	stateDone
	stateInvalid
)

// Fragment is the parse state of one span of source text: either a segment
// being built by a LinearParser or a blank span with no content. It is the
// unit of reuse across edits.
type Fragment struct {
	From   int
	To     int
	raw    *syntax.Node
	parser *LinearParser
	nodes  []Node
	state  fragmentState
}

// StartParse begins parsing a TabSegment node. It returns nil for any other node.
func StartParse(raw *syntax.Node, src source.Text) *Fragment {
	if raw == nil || raw.Type != syntax.TypeTabSegment {
		return nil
	}
	root := newNode(KindSegment, raw.From, raw)
	return &Fragment{
		From:   raw.From,
		To:     raw.To,
		raw:    raw,
		parser: NewLinearParser(root, src),
	}
}

// Blank returns a fragment marking a skipped span.
func Blank(from, to int) *Fragment {
	return &Fragment{From: from, To: to, state: stateInvalid}
}

func (f *Fragment) IsBlank() bool { return f.parser == nil }

func (f *Fragment) Done() bool { return f.state != statePending }

// HasContent reports whether the fragment finished with a valid node array.
func (f *Fragment) HasContent() bool { return f.state == stateDone }

func (f *Fragment) Nodes() []Node { return f.nodes }

// Raw returns the segment node the fragment was started from, or nil.
func (f *Fragment) Raw() *syntax.Node { return f.raw }

// Advance runs one step of the fragment's parser. It returns nil while the
// build is in progress, a dud cursor if the finished build is invalid, and a
// cursor at the segment root otherwise. Once finished, further calls return
// the same result without doing any work.
func (f *Fragment) Advance() *FragmentCursor {
	switch f.state {
	case stateDone:
		return newFragmentCursor(f)
	case stateInvalid:
		return dudCursor(f)
	}

	nodes := f.parser.Advance()
	if nodes == nil {
		return nil
	}
	if !f.parser.Valid() {
		f.state = stateInvalid
		return dudCursor(f)
	}
	f.nodes = nodes
	f.state = stateDone
	return newFragmentCursor(f)
}

// Cursor returns a cursor at the fragment root, or a dud cursor if the
// fragment has no content.
func (f *Fragment) Cursor() *FragmentCursor {
	if f.state != stateDone {
		return dudCursor(f)
	}
	return newFragmentCursor(f)
}

// Offset returns a copy of the fragment moved by delta. Node ranges are
// relative to the fragment start and are shared with the original.
func (f *Fragment) Offset(delta int) *Fragment {
	if delta == 0 {
		return f
	}
	moved := *f
	moved.From += delta
	moved.To += delta
	return &moved
}

// Key concatenates the structural keys of the fragment's nodes.
func (f *Fragment) Key() string {
	if f.state != stateDone {
		return ""
	}
	keys := make([]string, len(f.nodes))
	for i := range f.nodes {
		keys[i] = f.nodes[i].Key()
	}
	return strings.Join(keys, ";")
}
