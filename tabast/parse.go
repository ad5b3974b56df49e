package tabast

import (
	"errors"
	"fmt"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
)

// ErrStopBackward is returned by StopAt when the stop position would move
// before one set earlier.
var ErrStopBackward = errors.New("tabast: cannot move stop position backward")

// Parse turns a raw tree into a Tree one unit of work at a time. Fragments
// from an earlier parse, already reconciled with ApplyChanges, are reused
// when a segment has exactly the same span.
type Parse struct {
	src       source.Text
	segments  []*syntax.Node
	next      int
	reuse     []*Fragment
	reuseNext int
	fragments []*Fragment
	current   *Fragment
	pos       int
	stoppedAt int
	hasStop   bool
	tree      *Tree
	reused    int
	started   int
}

func NewParse(raw *syntax.Tree, src source.Text, reuse []*Fragment) *Parse {
	return &Parse{
		src:      src,
		segments: raw.Segments(0, src.Len()+1),
		reuse:    reuse,
	}
}

// Advance performs one unit of work and returns the finished tree, or nil
// while work remains. After it returns a tree, it keeps returning it.
func (p *Parse) Advance() *Tree {
	if p.tree != nil {
		return p.tree
	}

	if p.current != nil {
		c := p.current.Advance()
		if c == nil {
			return nil
		}
		f := p.current
		p.current = nil
		if c.IsDud() {
			f = Blank(f.From, f.To)
		}
		p.push(f)
		return nil
	}

	if p.next >= len(p.segments) || (p.hasStop && p.segments[p.next].From >= p.stoppedAt) {
		end := p.src.Len()
		if p.hasStop && p.stoppedAt < end {
			end = max(p.pos, p.stoppedAt)
		}
		if end > p.pos {
			p.push(Blank(p.pos, end))
		}
		p.tree = NewTree(p.fragments)
		return p.tree
	}

	seg := p.segments[p.next]
	p.next++
	if seg.From > p.pos {
		p.push(Blank(p.pos, seg.From))
	}
	if f := p.findReusable(seg); f != nil {
		p.reused++
		if f.Done() {
			p.push(f)
		} else {
			p.current = f
		}
		return nil
	}
	p.started++
	p.current = StartParse(seg, p.src)
	return nil
}

func (p *Parse) push(f *Fragment) {
	p.fragments = append(p.fragments, f)
	p.pos = f.To
}

func (p *Parse) findReusable(seg *syntax.Node) *Fragment {
	for p.reuseNext < len(p.reuse) && p.reuse[p.reuseNext].To <= seg.From {
		p.reuseNext++
	}
	for i := p.reuseNext; i < len(p.reuse) && p.reuse[i].From <= seg.From; i++ {
		f := p.reuse[i]
		if f.From == seg.From && f.To == seg.To && !f.IsBlank() {
			p.reuseNext = i + 1
			return f
		}
	}
	return nil
}

// ParsedPos is the position up to which the tree is complete.
func (p *Parse) ParsedPos() int { return p.pos }

// StopAt limits the parse to segments starting before pos. The limit can
// only be extended.
func (p *Parse) StopAt(pos int) error {
	if p.hasStop && pos < p.stoppedAt {
		return fmt.Errorf("%w: %d < %d", ErrStopBackward, pos, p.stoppedAt)
	}
	p.stoppedAt = pos
	p.hasStop = true
	return nil
}

// Partial returns a tree of the fragments completed so far.
func (p *Parse) Partial() *Tree {
	if p.tree != nil {
		return p.tree
	}
	return NewTree(append([]*Fragment(nil), p.fragments...))
}

// Reused counts fragments taken over from the previous parse.
func (p *Parse) Reused() int { return p.reused }

// Started counts fragments parsed from scratch.
func (p *Parse) Started() int { return p.started }
