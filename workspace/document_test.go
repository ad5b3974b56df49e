package workspace

import (
	"testing"

	"github.com/dhamidi/tablature/config"
	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/tabast"
)

const song = "e|-7-|\nB|-8-|\n\nverse\n\ne|-5-|\nB|-6-|"

func checkSorted(t *testing.T, tree *tabast.Tree) {
	t.Helper()
	for i := 1; i < len(tree.Fragments); i++ {
		prev, cur := tree.Fragments[i-1], tree.Fragments[i]
		if cur.From < prev.To {
			t.Errorf("fragment %d (%d-%d) overlaps %d (%d-%d)", i, cur.From, cur.To, i-1, prev.From, prev.To)
		}
	}
}

func contentCount(tree *tabast.Tree) int {
	n := 0
	for _, f := range tree.Fragments {
		if f.HasContent() {
			n++
		}
	}
	return n
}

func TestDocumentFinish(t *testing.T) {
	d := NewDocument("song.tab", song, config.Default().Budget)
	tree := d.Finish()
	if tree == nil {
		t.Fatal("Finish() = nil")
	}
	if got := contentCount(tree); got != 2 {
		t.Errorf("got %d segments with content, want 2", got)
	}
	checkSorted(t, tree)
	if !d.Done() || d.Tree() != tree {
		t.Error("Tree() after Finish() is not the finished tree")
	}
}

func TestDocumentWorkInSlices(t *testing.T) {
	d := NewDocument("song.tab", song, config.Budget{Steps: 1})
	if d.Work(1) {
		t.Fatal("Work(1) finished the whole document")
	}
	checkSorted(t, d.Tree())

	slices := 1
	for !d.Work(1) {
		slices++
		if slices > 10000 {
			t.Fatal("document never finished")
		}
	}
	if slices < 10 {
		t.Errorf("finished after %d slices, expected the work to be spread out", slices)
	}
}

func TestDocumentFocus(t *testing.T) {
	d := NewDocument("song.tab", song, config.Budget{Steps: 1, FocusBonus: 10000})
	d.Focus()
	if !d.Work(1) {
		t.Error("Work(1) after Focus() did not finish")
	}
	d.Edit(source.Edit{From: 0, To: 0, Insert: "x"})
	if d.Work(1) {
		t.Error("focus bonus applied to more than one slice")
	}
}

func TestDocumentEditReusesUntouchedSegments(t *testing.T) {
	d := NewDocument("song.tab", song, config.Default().Budget)
	d.Finish()

	d.Edit(source.Edit{From: 25, To: 26, Insert: "9"})
	if d.Version() != 1 {
		t.Errorf("Version() = %d, want 1", d.Version())
	}
	partial := d.Tree()
	checkSorted(t, partial)
	if !partial.Fragments[0].HasContent() {
		t.Error("untouched first segment missing from the tree during the parse")
	}

	tree := d.Finish()
	reused, started := d.Stats()
	if reused != 1 || started != 1 {
		t.Errorf("reused %d started %d, want 1 and 1", reused, started)
	}
	c := tree.Resolve(25)
	if c == nil || c.Name() != "Fret" {
		t.Fatalf("Resolve(25) = %v, want a Fret", c)
	}
	if got := d.Text().Slice(c.From(), c.To()); got != "9" {
		t.Errorf("fret text = %q, want 9", got)
	}
}

func TestDocumentEditSequence(t *testing.T) {
	d := NewDocument("song.tab", song, config.Default().Budget)
	d.Finish()
	d.Edit(
		source.Edit{From: 0, To: 0, Insert: "intro\n"},
		source.Edit{From: 6, To: 6, Insert: "\n"},
	)
	want := "intro\n\n" + song
	if got := d.Text().String(); got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	tree := d.Finish()
	reused, started := d.Stats()
	if reused != 2 || started != 0 {
		t.Errorf("reused %d started %d, want 2 and 0", reused, started)
	}
	if got := tree.Fragments[1].From; got != 7 {
		t.Errorf("first segment moved to %d, want 7", got)
	}
}

func TestDocumentReplace(t *testing.T) {
	d := NewDocument("song.tab", song, config.Default().Budget)
	d.Finish()
	d.Replace(song)
	if d.Version() != 0 {
		t.Error("Replace() with identical text counted as an edit")
	}
	d.Replace(song + "\n")
	if d.Version() != 1 || !d.Work(1000) {
		t.Error("Replace() did not apply the new text")
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		old, new string
		want     source.Edit
	}{
		{"abc", "abc", source.Edit{From: 3, To: 3}},
		{"abc", "abXc", source.Edit{From: 2, To: 2, Insert: "X"}},
		{"abcdef", "abef", source.Edit{From: 2, To: 4}},
		{"aaa", "aaaa", source.Edit{From: 3, To: 3, Insert: "a"}},
		{"", "new", source.Edit{From: 0, To: 0, Insert: "new"}},
	}
	for _, tt := range tests {
		got := Diff(tt.old, tt.new)
		if got != tt.want {
			t.Errorf("Diff(%q, %q) = %+v, want %+v", tt.old, tt.new, got, tt.want)
		}
		if applied := source.New(tt.old).Apply(got).String(); applied != tt.new {
			t.Errorf("applying Diff(%q, %q) gave %q", tt.old, tt.new, applied)
		}
	}
}
