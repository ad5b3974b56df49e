package tabast

import (
	"strings"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
)

type frame struct {
	nodes []Node
	next  int
}

// LinearParser builds a node's subtree into a flat pre-order array, one
// node per Advance call, so large segments can be parsed in slices.
type LinearParser struct {
	src       source.Text
	nodes     []Node
	frames    []frame
	ancestors []int
	done      bool
}

func NewLinearParser(root Node, src source.Text) *LinearParser {
	return &LinearParser{
		src:    src,
		frames: []frame{{nodes: []Node{root}}},
	}
}

// Advance performs one unit of work. It returns the finished array once
// every pending frame is exhausted and nil before that.
func (p *LinearParser) Advance() []Node {
	if p.done {
		return p.nodes
	}

	top := &p.frames[len(p.frames)-1]
	if top.next >= len(top.nodes) {
		p.frames = p.frames[:len(p.frames)-1]
		if len(p.ancestors) > 0 {
			p.ancestors = p.ancestors[:len(p.ancestors)-1]
		}
		if len(p.frames) == 0 {
			p.done = true
			return p.nodes
		}
		return nil
	}

	idx := len(p.nodes)
	p.nodes = append(p.nodes, top.nodes[top.next])
	top.next++
	p.ancestors = append(p.ancestors, idx)

	children := p.nodes[idx].createChildren(p.src)
	for _, a := range p.ancestors {
		p.nodes[a].length += len(children)
	}
	p.frames = append(p.frames, frame{nodes: children})
	return nil
}

func (p *LinearParser) Done() bool { return p.done }

// Steps reports how many nodes have been emitted so far.
func (p *LinearParser) Steps() int { return len(p.nodes) }

// Valid reports whether a finished build has at least one measure with a
// non-whitespace line. Segments without one are usually prose that happens
// to contain bars.
func (p *LinearParser) Valid() bool {
	if !p.done {
		return false
	}
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.Kind != KindMeasure {
			continue
		}
		for _, ml := range n.RawOfType(syntax.TypeMeasureLine) {
			if strings.TrimSpace(p.src.Slice(ml.From, ml.To)) != "" {
				return true
			}
		}
	}
	return false
}
