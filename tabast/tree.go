package tabast

// Tree is an ordered, non-overlapping sequence of fragments.
type Tree struct {
	Fragments []*Fragment
	From      int
	To        int
}

func NewTree(fragments []*Fragment) *Tree {
	t := &Tree{Fragments: fragments}
	if len(fragments) > 0 {
		t.From = fragments[0].From
		t.To = fragments[len(fragments)-1].To
	}
	return t
}

// Cursor returns a cursor on the root of the first fragment with content.
// Valid reports false on the returned cursor when there is none.
func (t *Tree) Cursor() *TreeCursor {
	c := &TreeCursor{tree: t, index: -1}
	c.enterFragment(t.nextContent(-1))
	return c
}

func (t *Tree) nextContent(after int) int {
	for i := after + 1; i < len(t.Fragments); i++ {
		if t.Fragments[i].HasContent() {
			return i
		}
	}
	return -1
}

func (t *Tree) prevContent(before int) int {
	for i := before - 1; i >= 0; i-- {
		if t.Fragments[i].HasContent() {
			return i
		}
	}
	return -1
}

// Iterate walks every node depth-first. enter is called before a node's
// children and returns false to skip them; leave, if non-nil, is called
// after them.
func (t *Tree) Iterate(enter func(c *TreeCursor) bool, leave func(c *TreeCursor)) {
	c := t.Cursor()
	if !c.Valid() {
		return
	}
	for {
		if enter(c) && c.FirstChild() {
			continue
		}
		for {
			if leave != nil {
				leave(c)
			}
			if c.NextSibling() {
				break
			}
			if !c.Parent() {
				return
			}
		}
	}
}

// Resolve returns a cursor on the innermost node whose half-open extent
// [From, To) contains pos, or nil if no fragment with content covers pos.
func (t *Tree) Resolve(pos int) *TreeCursor {
	var found *TreeCursor
	t.Iterate(func(c *TreeCursor) bool {
		if pos < c.From() || pos >= c.To() {
			return false
		}
		if found == nil || c.Depth() >= found.Depth() {
			found = c.Fork()
		}
		return true
	}, nil)
	return found
}

// TreeCursor navigates a whole tree. The roots of the fragments with content
// are siblings at the top level.
type TreeCursor struct {
	tree  *Tree
	index int
	inner *FragmentCursor
}

func (c *TreeCursor) enterFragment(i int) {
	c.index = i
	if i < 0 {
		c.inner = nil
		return
	}
	c.inner = c.tree.Fragments[i].Cursor()
}

func (c *TreeCursor) Valid() bool { return c.inner != nil }

func (c *TreeCursor) Fragment() *Fragment {
	if c.inner == nil {
		return nil
	}
	return c.inner.Fragment()
}

func (c *TreeCursor) Node() *Node {
	if c.inner == nil {
		return nil
	}
	return c.inner.Node()
}

func (c *TreeCursor) Name() string {
	if c.inner == nil {
		return ""
	}
	return c.inner.Name()
}

func (c *TreeCursor) Ranges() []int {
	if c.inner == nil {
		return nil
	}
	return c.inner.Ranges()
}

func (c *TreeCursor) From() int {
	if c.inner == nil {
		return 0
	}
	return c.inner.From()
}

func (c *TreeCursor) To() int {
	if c.inner == nil {
		return 0
	}
	return c.inner.To()
}

// Translate maps a raw position of the current node to an absolute offset.
func (c *TreeCursor) Translate(rawPos int) int {
	if c.inner == nil {
		return rawPos
	}
	return c.inner.Translate(rawPos)
}

func (c *TreeCursor) Depth() int {
	if c.inner == nil {
		return 0
	}
	return c.inner.Depth()
}

func (c *TreeCursor) FirstChild() bool {
	return c.inner != nil && c.inner.FirstChild()
}

func (c *TreeCursor) LastChild() bool {
	return c.inner != nil && c.inner.LastChild()
}

func (c *TreeCursor) Parent() bool {
	return c.inner != nil && c.inner.Parent()
}

func (c *TreeCursor) NextSibling() bool {
	if c.inner == nil {
		return false
	}
	if c.inner.Depth() > 0 {
		return c.inner.NextSibling()
	}
	next := c.tree.nextContent(c.index)
	if next < 0 {
		return false
	}
	c.enterFragment(next)
	return true
}

func (c *TreeCursor) PrevSibling() bool {
	if c.inner == nil {
		return false
	}
	if c.inner.Depth() > 0 {
		return c.inner.PrevSibling()
	}
	prev := c.tree.prevContent(c.index)
	if prev < 0 {
		return false
	}
	c.enterFragment(prev)
	return true
}

func (c *TreeCursor) Fork() *TreeCursor {
	fork := *c
	if c.inner != nil {
		fork.inner = c.inner.Fork()
	}
	return &fork
}
