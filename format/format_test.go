package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
	"github.com/dhamidi/tablature/tabast"
)

func parseTree(t *testing.T, text string) (*tabast.Tree, *source.Snapshot) {
	t.Helper()
	src := source.New(text)
	p := tabast.NewParse(syntax.Parse(text), src, nil)
	for i := 0; i < 10000; i++ {
		if tree := p.Advance(); tree != nil {
			return tree, src
		}
	}
	t.Fatal("parse did not finish")
	return nil, nil
}

func TestTreeEncoder(t *testing.T) {
	tree, src := parseTree(t, "intro\ne|-7-|\nB|-8-|")
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf, src).Encode(tree); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"blank 0-6",
		"Segment 6-19",
		"  Block 6-12,13-19",
		"    LineNaming 6-7,13-14",
		`      MeasureLineName 6-7 "e"`,
		`      MeasureLineName 13-14 "B"`,
		"    Measure 8-11,15-18",
		"      Sound 9-10,16-17",
		`        Fret 9-10 "7"`,
		`        Fret 16-17 "8"`,
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestASTJSONEncoder(t *testing.T) {
	tree, src := parseTree(t, "e|-7-|\nB|-8-|")
	text, err := func() ([]byte, error) {
		e := NewASTJSONEncoder(&bytes.Buffer{}, src)
		if err := e.Encode(tree); err != nil {
			return nil, err
		}
		return e.MarshalText()
	}()
	if err != nil {
		t.Fatal(err)
	}

	var decoded astJSONTree
	if err := json.Unmarshal(text, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Fragments) != 1 || decoded.Fragments[0].Root == nil {
		t.Fatalf("fragments = %+v, want one with a root", decoded.Fragments)
	}

	root := decoded.Fragments[0].Root
	if root.Kind != "Segment" {
		t.Errorf("root kind = %q, want Segment", root.Kind)
	}
	measure := root.Children[0].Children[1]
	if measure.Kind != "Measure" {
		t.Fatalf("block child = %q, want Measure", measure.Kind)
	}
	fret := measure.Children[0].Children[1]
	if fret.Text != "8" {
		t.Errorf("fret text = %q, want 8", fret.Text)
	}
	if fret.Span.Start != (astJSONPosition{Line: 2, Column: 4}) {
		t.Errorf("fret start = %+v, want line 2 column 4", fret.Span.Start)
	}
}

func TestNewEncoder(t *testing.T) {
	src := source.New("")
	for _, name := range []string{"json", "tree"} {
		if _, err := NewEncoder(name, &bytes.Buffer{}, src); err != nil {
			t.Errorf("NewEncoder(%q) = %v", name, err)
		}
	}
	if _, err := NewEncoder("xml", &bytes.Buffer{}, src); err == nil {
		t.Error("NewEncoder(xml) succeeded")
	}
}
