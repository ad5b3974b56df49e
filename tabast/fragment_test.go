package tabast

import (
	"reflect"
	"testing"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
)

// buildFragment parses text and drives the fragment of its first segment
// to completion.
func buildFragment(t *testing.T, text string) (*Fragment, *FragmentCursor) {
	t.Helper()
	raw := syntax.Parse(text)
	segments := raw.Root.Children()
	if len(segments) == 0 {
		t.Fatalf("no segment in %q", text)
	}
	f := StartParse(segments[0], source.New(text))
	if f == nil {
		t.Fatal("StartParse returned nil for a segment")
	}
	for i := 0; i < 10000; i++ {
		if c := f.Advance(); c != nil {
			return f, c
		}
	}
	t.Fatal("fragment did not finish")
	return nil, nil
}

func kindNamesOf(nodes []Node) []string {
	names := make([]string, len(nodes))
	for i := range nodes {
		names[i] = nodes[i].Name()
	}
	return names
}

// checkLengths verifies that every node's length is one plus the lengths of
// its direct children.
func checkLengths(t *testing.T, nodes []Node) {
	t.Helper()
	for i := range nodes {
		end := i + nodes[i].length
		if end > len(nodes) {
			t.Errorf("node %d (%s): length %d runs past the array", i, nodes[i].Name(), nodes[i].length)
			continue
		}
		sum := 1
		j := i + 1
		for j < end {
			sum += nodes[j].length
			j += nodes[j].length
		}
		if sum != nodes[i].length || j != end {
			t.Errorf("node %d (%s): length %d, children sum to %d", i, nodes[i].Name(), nodes[i].length, sum)
		}
	}
}

func TestStartParseRejectsOtherNodes(t *testing.T) {
	raw := syntax.Parse("e|-7-|")
	if f := StartParse(raw.Root, source.New("e|-7-|")); f != nil {
		t.Error("StartParse accepted the Tablature root")
	}
	if f := StartParse(nil, source.New("")); f != nil {
		t.Error("StartParse accepted nil")
	}
}

func TestTwoLineSound(t *testing.T) {
	f, c := buildFragment(t, "e|-7-|\nB|-8-|")
	if c.IsDud() {
		t.Fatal("cursor is a dud")
	}

	want := []string{
		"Segment", "Block", "LineNaming", "MeasureLineName", "MeasureLineName",
		"Measure", "Sound", "Fret", "Fret",
	}
	if got := kindNamesOf(f.Nodes()); !reflect.DeepEqual(got, want) {
		t.Fatalf("nodes = %v, want %v", got, want)
	}
	checkLengths(t, f.Nodes())

	sound := f.Nodes()[6]
	if got, want := sound.Ranges(), []int{3, 4, 10, 11}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sound ranges = %v, want %v", got, want)
	}
	measure := f.Nodes()[5]
	if got, want := measure.Ranges(), []int{2, 5, 9, 12}; !reflect.DeepEqual(got, want) {
		t.Errorf("Measure ranges = %v, want %v", got, want)
	}
}

func TestConnectorChainRanges(t *testing.T) {
	f, _ := buildFragment(t, "e|5h7-|")
	want := []string{
		"Segment", "Block", "LineNaming", "MeasureLineName",
		"Measure", "Sound", "Fret", "ConnectorGroup", "Hammer", "Sound", "Fret",
	}
	if got := kindNamesOf(f.Nodes()); !reflect.DeepEqual(got, want) {
		t.Fatalf("nodes = %v, want %v", got, want)
	}
	checkLengths(t, f.Nodes())

	hammer := f.Nodes()[8]
	if got := hammer.Key(); got != "Hammer 2-5" {
		t.Errorf("Hammer key = %q, want %q", got, "Hammer 2-5")
	}
}

func TestChainedConnectorsSpanDirectNeighbours(t *testing.T) {
	f, _ := buildFragment(t, "e|5h7p5-|")
	var keys []string
	for _, n := range f.Nodes() {
		if n.Kind.Family() == FamilyConnector {
			keys = append(keys, n.Key())
		}
	}
	want := []string{"Hammer 2-5", "Pull 4-7"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("connector keys = %v, want %v", keys, want)
	}
}

func TestSideBySideBlocks(t *testing.T) {
	f, c := buildFragment(t, "e|-5-| e|-7-|\nB|-6-| B|-8-|")
	checkLengths(t, f.Nodes())

	var blocks int
	c.FirstChild()
	for ok := true; ok; ok = c.NextSibling() {
		if c.Name() != "Block" {
			t.Errorf("segment child %q, want Block", c.Name())
		}
		blocks++
	}
	if blocks != 2 {
		t.Errorf("got %d blocks, want 2", blocks)
	}
}

func TestModifierGoesToBlock(t *testing.T) {
	f, _ := buildFragment(t, "3/4\ne|-5-|\nB|-6-|")
	want := []string{
		"Segment", "Block", "TimeSignature", "LineNaming", "MeasureLineName", "MeasureLineName",
		"Measure", "Sound", "Fret", "Fret",
	}
	if got := kindNamesOf(f.Nodes()); !reflect.DeepEqual(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
}

func TestDecoratorWrapsNote(t *testing.T) {
	f, _ := buildFragment(t, "e|-<12>-g3-|")
	want := []string{
		"Segment", "Block", "LineNaming", "MeasureLineName",
		"Measure", "Sound", "Harmonic", "Fret", "Sound", "Grace", "Fret",
	}
	if got := kindNamesOf(f.Nodes()); !reflect.DeepEqual(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
	checkLengths(t, f.Nodes())
}

func TestAdvanceIsIdempotent(t *testing.T) {
	f, _ := buildFragment(t, "e|-7-|\nB|-8-|")
	nodes := f.Nodes()
	for i := 0; i < 3; i++ {
		c := f.Advance()
		if c == nil || c.IsDud() {
			t.Fatalf("Advance() #%d = %v, want a cursor", i, c)
		}
		if c.Pointer() != 0 || c.Name() != "Segment" {
			t.Errorf("Advance() #%d at %s/%d, want the root", i, c.Name(), c.Pointer())
		}
	}
	if got := f.Nodes(); &got[0] != &nodes[0] || len(got) != len(nodes) {
		t.Error("Advance() on a finished fragment changed its nodes")
	}
}

func TestInvalidSegmentIsDud(t *testing.T) {
	f, c := buildFragment(t, "|   |")
	if !c.IsDud() {
		t.Fatal("cursor is not a dud")
	}
	if f.HasContent() {
		t.Error("HasContent() = true for an invalid segment")
	}
	if !f.Advance().IsDud() {
		t.Error("Advance() after an invalid finish is not a dud")
	}
}

func TestOffsetSharesNodes(t *testing.T) {
	f, _ := buildFragment(t, "e|-7-|\nB|-8-|")
	moved := f.Offset(10)
	if moved == f {
		t.Fatal("Offset returned the same fragment")
	}
	if moved.From != 10 || moved.To != 23 {
		t.Errorf("moved span = %d-%d, want 10-23", moved.From, moved.To)
	}
	if f.From != 0 {
		t.Errorf("original moved to %d", f.From)
	}
	if moved.Key() != f.Key() {
		t.Error("Offset changed the structural key")
	}

	c := moved.Cursor()
	c.FirstChild()
	block := c.Fork()
	c.LastChild()
	c.FirstChild()
	if got, want := c.Ranges(), []int{13, 14, 20, 21}; !reflect.DeepEqual(got, want) {
		t.Errorf("moved Sound ranges = %v, want %v", got, want)
	}

	if block.Name() != "Block" {
		t.Fatalf("first child of segment = %s, want Block", block.Name())
	}
	var names []int
	for _, str := range block.Node().RawOfType(syntax.TypeTabString) {
		for _, name := range str.ChildrenOfType(syntax.TypeMeasureLineName) {
			names = append(names, name.From, block.Translate(name.From))
		}
	}
	if want := []int{0, 10, 7, 17}; !reflect.DeepEqual(names, want) {
		t.Errorf("raw and translated name offsets = %v, want %v", names, want)
	}
}
