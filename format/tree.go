package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/tabast"
)

// TreeEncoder writes one line per node, indented by depth:
//
//	Measure 2-5,9-12
//	  Sound 3-4,10-11
//	    Fret 3-4 "7"
type TreeEncoder struct {
	w    io.Writer
	src  source.Text
	tree *tabast.Tree
}

func NewTreeEncoder(w io.Writer, src source.Text) *TreeEncoder {
	return &TreeEncoder{w: w, src: src}
}

func (e *TreeEncoder) Encode(tree *tabast.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.tree == nil {
		return nil, nil
	}
	for _, f := range e.tree.Fragments {
		if !f.HasContent() {
			fmt.Fprintf(&sb, "blank %d-%d\n", f.From, f.To)
			continue
		}
		e.writeSubtree(&sb, f.Cursor())
	}
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeSubtree(sb *strings.Builder, c *tabast.FragmentCursor) {
	e.writeNode(sb, c)
	if !c.FirstChild() {
		return
	}
	for {
		e.writeSubtree(sb, c)
		if !c.NextSibling() {
			break
		}
	}
	c.Parent()
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, c *tabast.FragmentCursor) {
	sb.WriteString(strings.Repeat("  ", c.Depth()))
	sb.WriteString(c.Name())
	sb.WriteByte(' ')
	ranges := c.Ranges()
	for i := 0; i+1 < len(ranges); i += 2 {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(sb, "%d-%d", ranges[i], ranges[i+1])
	}
	if c.Node().Length() == 1 {
		fmt.Fprintf(sb, " %q", e.src.Slice(c.From(), c.To()))
	}
	sb.WriteByte('\n')
}
