package tabast

import (
	"strings"
	"testing"
)

// flatFragment builds a finished fragment from a bracket notation such as
// "a[bc[d]e]", where every letter is a node and brackets hold its children.
func flatFragment(s string) *Fragment {
	var nodes []Node
	var stack []int
	for _, r := range s {
		switch r {
		case '[':
			stack = append(stack, len(nodes)-1)
		case ']':
			stack = stack[:len(stack)-1]
		default:
			nodes = append(nodes, Node{Kind: Kind(r - 'a'), length: 1})
			for _, a := range stack {
				nodes[a].length++
			}
		}
	}
	return &Fragment{To: len(nodes), nodes: nodes, state: stateDone}
}

func letter(c interface{ Node() *Node }) string {
	n := c.Node()
	if n == nil {
		return ""
	}
	return string(rune('a' + int(n.Kind)))
}

func TestFragmentCursorFirstChild(t *testing.T) {
	c := flatFragment("a[bcdef]").Cursor()
	if !c.FirstChild() {
		t.Fatal("FirstChild() = false, want true")
	}
	if got := letter(c); got != "b" {
		t.Errorf("after FirstChild, node = %q, want %q", got, "b")
	}
	if c.FirstChild() {
		t.Error("FirstChild() on a leaf = true, want false")
	}
	if got := letter(c); got != "b" {
		t.Errorf("failed FirstChild moved the cursor to %q", got)
	}
}

func TestFragmentCursorSiblings(t *testing.T) {
	c := flatFragment("a[bc[d]e]").Cursor()
	c.FirstChild()
	c.NextSibling()
	if got := letter(c); got != "c" {
		t.Fatalf("node = %q, want c", got)
	}
	if !c.NextSibling() {
		t.Fatal("NextSibling() from c = false, want true")
	}
	if got := letter(c); got != "e" {
		t.Errorf("NextSibling() from c landed on %q, want e", got)
	}
	if c.NextSibling() {
		t.Error("NextSibling() from last child = true, want false")
	}

	var back []string
	for c.PrevSibling() {
		back = append(back, letter(c))
	}
	if got := strings.Join(back, ""); got != "cb" {
		t.Errorf("PrevSibling walk = %q, want %q", got, "cb")
	}
}

func TestFragmentCursorLastChild(t *testing.T) {
	c := flatFragment("a[bc[d]e]").Cursor()
	if !c.LastChild() {
		t.Fatal("LastChild() = false, want true")
	}
	if got := letter(c); got != "e" {
		t.Errorf("LastChild() = %q, want e", got)
	}
	if c.LastChild() {
		t.Error("LastChild() on a leaf = true, want false")
	}
}

func TestFragmentCursorRoundTrip(t *testing.T) {
	tests := []string{
		"a[bcdef]",
		"a[bc[d]e]",
		"a[b[c[d[e]]]f]",
		"a[b[cd]e[fg[h]]]",
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			f := flatFragment(tt)
			for i := range f.nodes {
				c := cursorAt(f, i)

				if c.FirstChild() {
					before := cursorAt(f, i)
					if !c.Parent() {
						t.Fatalf("Parent() after FirstChild() at %d = false", i)
					}
					if c.Pointer() != before.Pointer() || c.Depth() != before.Depth() {
						t.Errorf("FirstChild+Parent at %d: got pointer %d depth %d, want %d %d",
							i, c.Pointer(), c.Depth(), before.Pointer(), before.Depth())
					}
				}

				c = cursorAt(f, i)
				if c.NextSibling() {
					if !c.PrevSibling() {
						t.Fatalf("PrevSibling() after NextSibling() at %d = false", i)
					}
					if c.Pointer() != i {
						t.Errorf("NextSibling+PrevSibling at %d: pointer %d", i, c.Pointer())
					}
				}
			}
		})
	}
}

// cursorAt walks a cursor to the node at index i in pre-order.
func cursorAt(f *Fragment, i int) *FragmentCursor {
	c := f.Cursor()
	for c.Pointer() != i {
		if c.Pointer()+c.Node().Length() > i {
			c.FirstChild()
			continue
		}
		c.NextSibling()
	}
	return c
}

func TestFragmentCursorFork(t *testing.T) {
	c := flatFragment("a[bc[d]e]").Cursor()
	c.FirstChild()
	fork := c.Fork()
	fork.NextSibling()
	fork.FirstChild()
	if got := letter(c); got != "b" {
		t.Errorf("original moved to %q after moving the fork", got)
	}
	if got := letter(fork); got != "d" {
		t.Errorf("fork at %q, want d", got)
	}
	if c.Depth() != 1 || fork.Depth() != 2 {
		t.Errorf("depths = %d, %d, want 1, 2", c.Depth(), fork.Depth())
	}
}

func TestDudCursor(t *testing.T) {
	c := Blank(3, 9).Cursor()
	if !c.IsDud() {
		t.Fatal("IsDud() = false, want true")
	}
	if c.Node() != nil {
		t.Error("Node() on a dud cursor is not nil")
	}
	if c.FirstChild() || c.LastChild() || c.NextSibling() || c.PrevSibling() || c.Parent() {
		t.Error("a dud cursor moved")
	}
	if c.From() != 3 || c.To() != 9 {
		t.Errorf("From/To = %d/%d, want 3/9", c.From(), c.To())
	}
}

func TestTreeIterate(t *testing.T) {
	tree := NewTree([]*Fragment{
		flatFragment("a[bc[d]e]"),
		Blank(5, 7),
		flatFragment("f[g]").Offset(7),
	})

	tests := []struct {
		name string
		skip string
		want string
	}{
		{"all", "", "a b /b c d /d /c e /e /a f g /g /f"},
		{"skip c", "c", "a b /b c /c e /e /a f g /g /f"},
		{"skip a", "a", "a /a f g /g /f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []string
			tree.Iterate(func(c *TreeCursor) bool {
				events = append(events, letter(c))
				return letter(c) != tt.skip
			}, func(c *TreeCursor) {
				events = append(events, "/"+letter(c))
			})
			if got := strings.Join(events, " "); got != tt.want {
				t.Errorf("Iterate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeCursorCrossesFragments(t *testing.T) {
	tree := NewTree([]*Fragment{
		Blank(0, 2),
		flatFragment("a[b]").Offset(2),
		Blank(4, 6),
		flatFragment("c").Offset(6),
	})
	c := tree.Cursor()
	if got := letter(c); got != "a" {
		t.Fatalf("Cursor() at %q, want a", got)
	}
	if !c.NextSibling() || letter(c) != "c" {
		t.Fatalf("NextSibling() at top level = %q, want c", letter(c))
	}
	if c.NextSibling() {
		t.Error("NextSibling() past the last fragment = true")
	}
	if !c.PrevSibling() || letter(c) != "a" {
		t.Errorf("PrevSibling() = %q, want a", letter(c))
	}
	c.FirstChild()
	if c.NextSibling() {
		t.Error("NextSibling() from an only child crossed into another fragment")
	}
}

func TestEmptyTreeCursor(t *testing.T) {
	tree := NewTree(nil)
	if tree.From != 0 || tree.To != 0 {
		t.Errorf("empty tree span = %d-%d, want 0-0", tree.From, tree.To)
	}
	if tree.Cursor().Valid() {
		t.Error("cursor on an empty tree is valid")
	}
	called := false
	tree.Iterate(func(*TreeCursor) bool { called = true; return true }, nil)
	if called {
		t.Error("Iterate visited a node of an empty tree")
	}
}
