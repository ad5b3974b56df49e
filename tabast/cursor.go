package tabast

// FragmentCursor navigates a fragment's flat node array as a tree. The
// ancestors stack holds the indices of the nodes above the current one.
type FragmentCursor struct {
	frag      *Fragment
	pointer   int
	ancestors []int
	dud       bool
}

func newFragmentCursor(f *Fragment) *FragmentCursor {
	return &FragmentCursor{frag: f}
}

func dudCursor(f *Fragment) *FragmentCursor {
	return &FragmentCursor{frag: f, dud: true}
}

// IsDud reports whether the cursor stands for an invalid or empty parse.
// A dud cursor has no node and every move fails.
func (c *FragmentCursor) IsDud() bool { return c.dud }

func (c *FragmentCursor) Fragment() *Fragment { return c.frag }

func (c *FragmentCursor) Node() *Node {
	if c.dud {
		return nil
	}
	return &c.frag.nodes[c.pointer]
}

// Pointer returns the current index into the fragment's node array.
func (c *FragmentCursor) Pointer() int { return c.pointer }

func (c *FragmentCursor) Depth() int { return len(c.ancestors) }

func (c *FragmentCursor) Name() string {
	if c.dud {
		return ""
	}
	return c.Node().Name()
}

// Ranges returns the current node's ranges as absolute offsets.
func (c *FragmentCursor) Ranges() []int {
	if c.dud {
		return nil
	}
	rel := c.Node().Ranges()
	abs := make([]int, len(rel))
	for i, v := range rel {
		abs[i] = v + c.frag.From
	}
	return abs
}

func (c *FragmentCursor) From() int {
	if c.dud {
		return c.frag.From
	}
	return c.Node().From() + c.frag.From
}

func (c *FragmentCursor) To() int {
	if c.dud {
		return c.frag.To
	}
	return c.Node().To() + c.frag.From
}

// Translate maps a position taken from the current node's raw nodes to an
// absolute offset in the fragment's current text.
func (c *FragmentCursor) Translate(rawPos int) int {
	if c.dud {
		return rawPos
	}
	return rawPos - c.Node().Anchor() + c.frag.From
}

func (c *FragmentCursor) length(i int) int { return c.frag.nodes[i].length }

func (c *FragmentCursor) FirstChild() bool {
	if c.dud || c.length(c.pointer) == 1 {
		return false
	}
	c.ancestors = append(c.ancestors, c.pointer)
	c.pointer++
	return true
}

func (c *FragmentCursor) LastChild() bool {
	if !c.FirstChild() {
		return false
	}
	for c.NextSibling() {
	}
	return true
}

func (c *FragmentCursor) NextSibling() bool {
	if c.dud || len(c.ancestors) == 0 {
		return false
	}
	parent := c.ancestors[len(c.ancestors)-1]
	next := c.pointer + c.length(c.pointer)
	if next >= parent+c.length(parent) {
		return false
	}
	c.pointer = next
	return true
}

// PrevSibling walks forward from the first sibling, so it costs time
// proportional to the number of siblings.
func (c *FragmentCursor) PrevSibling() bool {
	if c.dud || len(c.ancestors) == 0 {
		return false
	}
	parent := c.ancestors[len(c.ancestors)-1]
	if c.pointer == parent+1 {
		return false
	}
	target := c.pointer
	prev := parent + 1
	for prev+c.length(prev) < target {
		prev += c.length(prev)
	}
	c.pointer = prev
	return true
}

func (c *FragmentCursor) Parent() bool {
	if c.dud || len(c.ancestors) == 0 {
		return false
	}
	c.pointer = c.ancestors[len(c.ancestors)-1]
	c.ancestors = c.ancestors[:len(c.ancestors)-1]
	return true
}

// Fork returns an independent copy of the cursor.
func (c *FragmentCursor) Fork() *FragmentCursor {
	fork := *c
	fork.ancestors = append([]int(nil), c.ancestors...)
	return &fork
}
