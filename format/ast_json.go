package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/tabast"
)

type ASTJSONEncoder struct {
	w    io.Writer
	src  source.Text
	tree *tabast.Tree
}

func NewASTJSONEncoder(w io.Writer, src source.Text) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, src: src}
}

func (e *ASTJSONEncoder) Encode(tree *tabast.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.treeToJSON(), "", "  ")
}

type astJSONTree struct {
	From      int                `json:"from"`
	To        int                `json:"to"`
	Fragments []*astJSONFragment `json:"fragments"`
}

type astJSONFragment struct {
	From  int          `json:"from"`
	To    int          `json:"to"`
	Blank bool         `json:"blank,omitempty"`
	Root  *astJSONNode `json:"root,omitempty"`
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Ranges   [][2]int       `json:"ranges"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *ASTJSONEncoder) treeToJSON() *astJSONTree {
	jt := &astJSONTree{Fragments: []*astJSONFragment{}}
	if e.tree == nil {
		return jt
	}
	jt.From, jt.To = e.tree.From, e.tree.To
	for _, f := range e.tree.Fragments {
		jf := &astJSONFragment{From: f.From, To: f.To}
		if f.HasContent() {
			jf.Root = e.nodeToJSON(f.Cursor())
		} else {
			jf.Blank = true
		}
		jt.Fragments = append(jt.Fragments, jf)
	}
	return jt
}

func (e *ASTJSONEncoder) nodeToJSON(c *tabast.FragmentCursor) *astJSONNode {
	jn := &astJSONNode{
		Kind:   c.Name(),
		Ranges: pairs(c.Ranges()),
		Span: &astJSONSpan{
			Start: e.position(c.From()),
			End:   e.position(c.To()),
		},
	}

	if c.Node().Length() == 1 {
		jn.Text = e.src.Slice(c.From(), c.To())
		return jn
	}

	c.FirstChild()
	for {
		jn.Children = append(jn.Children, e.nodeToJSON(c))
		if !c.NextSibling() {
			break
		}
	}
	c.Parent()
	return jn
}

func (e *ASTJSONEncoder) position(pos int) astJSONPosition {
	line := e.src.LineAt(pos)
	return astJSONPosition{Line: line.Number, Column: pos - line.From + 1}
}

func pairs(ranges []int) [][2]int {
	result := make([][2]int, 0, len(ranges)/2)
	for i := 0; i+1 < len(ranges); i += 2 {
		result = append(result, [2]int{ranges[i], ranges[i+1]})
	}
	return result
}
