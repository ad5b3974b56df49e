// Package tabast builds a tablature syntax tree on top of the raw tree
// produced by package syntax, in small resumable steps.
//
// # Overview
//
// The raw tree records what is on each line: strings, bars, frets and
// connectors. Musical structure runs across lines instead. A block is a
// set of strings stacked in the same columns, a measure is the n-th bar
// interval of every string in a block, and a sound is the set of notes
// that sit at the same distance into their measure. This package
// recovers that structure.
//
//	Segment
//	├── Block
//	│   ├── Repeat / TimeSignature / Multiplier
//	│   ├── LineNaming
//	│   │   └── MeasureLineName ...
//	│   └── Measure ...
//	│       ├── Sound
//	│       │   └── Fret / Harmonic / Grace / Hammer / Pull / Slide
//	│       └── ConnectorGroup
//	└── Block ...
//
// # Flat Nodes
//
// Nodes are stored in a flat array in pre-order. Every node records its
// Length, one plus the number of its descendants, so the subtree of the
// node at index i is nodes[i : i+Length]. FragmentCursor walks this array
// as if it were a tree, keeping only a stack of ancestor indices.
//
// # Incremental Parsing
//
// A Fragment covers one TabSegment. Its LinearParser emits one node per
// Advance call, so a host can spread the work over several slices:
//
//	p := tabast.NewParse(raw, src, old)
//	for tree := p.Advance(); tree == nil; tree = p.Advance() {
//	}
//
// Node ranges are relative to the start of their fragment. After an edit,
// ApplyChanges drops every fragment the edit touches and shifts the rest
// without touching their nodes. A later Parse picks the survivors back up
// when a segment with the same span shows up again.
package tabast
