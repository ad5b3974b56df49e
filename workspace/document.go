// Package workspace schedules incremental parsing of tablature documents.
//
// A Document keeps the text, the raw tree and the fragments of its last
// parse. Edits reconcile the fragments and restart the parse, which then
// runs in bounded slices through Work. A Document is not safe for
// concurrent use.
package workspace

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/tablature/config"
	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
	"github.com/dhamidi/tablature/tabast"
)

var log = commonlog.GetLogger("tabs.workspace")

type Document struct {
	name      string
	version   int
	budget    config.Budget
	text      *source.Snapshot
	raw       *syntax.Tree
	fragments []*tabast.Fragment
	parse     *tabast.Parse
	tree      *tabast.Tree
	bonus     int
}

func NewDocument(name, text string, budget config.Budget) *Document {
	d := &Document{
		name:   name,
		budget: budget,
		text:   source.New(text),
	}
	d.restart()
	return d
}

func (d *Document) Name() string { return d.name }

// Version counts the edits applied since the document was created.
func (d *Document) Version() int { return d.version }

func (d *Document) Text() *source.Snapshot { return d.text }

func (d *Document) Raw() *syntax.Tree { return d.raw }

// Edit applies edits in order, each against the text left by the previous
// one. Fragments the edits touch are dropped; the parse restarts and reuses
// the others.
func (d *Document) Edit(edits ...source.Edit) {
	if len(edits) == 0 {
		return
	}
	fragments := d.Tree().Fragments
	for _, e := range edits {
		from := clamp(e.From, d.text.Len())
		to := max(clamp(e.To, d.text.Len()), from)
		change := tabast.ChangedRange{FromA: from, ToA: to, FromB: from, ToB: from + len(e.Insert)}
		fragments = tabast.ApplyChanges(fragments, []tabast.ChangedRange{change})
		d.text = d.text.Apply(e)
	}
	d.fragments = fragments
	d.version++
	log.Debugf("%s: %d edits, %d fragments kept", d.name, len(edits), len(fragments))
	d.restart()
}

// Replace swaps in a new text, treating the difference as a single edit.
func (d *Document) Replace(text string) {
	if text == d.text.String() {
		return
	}
	d.Edit(Diff(d.text.String(), text))
}

func (d *Document) restart() {
	d.raw = syntax.Parse(d.text.String())
	d.parse = tabast.NewParse(d.raw, d.text, d.fragments)
	d.tree = nil
}

// Focus grants the configured bonus to the next Work call.
func (d *Document) Focus() {
	d.bonus = d.budget.FocusBonus
}

// Work advances the parse by at most steps units, plus any focus bonus,
// and reports whether the parse is complete.
func (d *Document) Work(steps int) bool {
	if d.tree != nil {
		return true
	}
	steps += d.bonus
	d.bonus = 0
	for i := 0; i < steps; i++ {
		if tree := d.parse.Advance(); tree != nil {
			d.tree = tree
			d.fragments = tree.Fragments
			log.Debugf("%s: parsed %d fragments, %d reused, %d new",
				d.name, len(tree.Fragments), d.parse.Reused(), d.parse.Started())
			return true
		}
	}
	return false
}

// Done reports whether the current parse is complete.
func (d *Document) Done() bool { return d.tree != nil }

// Tree returns the finished tree, or while a parse is running, the parsed
// part followed by the fragments of the previous tree that lie beyond it.
func (d *Document) Tree() *tabast.Tree {
	if d.tree != nil {
		return d.tree
	}
	return tabast.NewTree(tabast.AddTree(d.parse.Partial(), d.fragments))
}

// Finish runs the parse to completion.
func (d *Document) Finish() *tabast.Tree {
	steps := max(d.budget.Steps, 1)
	for !d.Work(steps) {
	}
	return d.tree
}

// Stats reports how many fragments the last parse reused and started.
func (d *Document) Stats() (reused, started int) {
	return d.parse.Reused(), d.parse.Started()
}

func clamp(pos, n int) int {
	return min(max(pos, 0), n)
}
