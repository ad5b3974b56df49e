// Package source provides immutable text snapshots addressed by byte offset.
package source

import (
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Text is the read-only view of a document the tablature core depends on.
type Text interface {
	// Slice returns the text in [from,to), clamped to the document bounds.
	Slice(from, to int) string
	// LineAt returns the line containing pos.
	LineAt(pos int) Line
	Len() int
}

// Line is a single line of text. To excludes the line terminator.
// Number is 1-based.
type Line struct {
	From   int
	To     int
	Number int
}

// Edit replaces the bytes in [From,To) with Insert.
type Edit struct {
	From   int
	To     int
	Insert string
}

// Snapshot is an immutable Text backed by a string and a line-start index.
type Snapshot struct {
	text       string
	lineStarts []int
}

func New(text string) *Snapshot {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Snapshot{text: text, lineStarts: starts}
}

func (s *Snapshot) String() string { return s.text }

func (s *Snapshot) Len() int { return len(s.text) }

func (s *Snapshot) Slice(from, to int) string {
	from = s.clamp(from)
	to = s.clamp(to)
	if to <= from {
		return ""
	}
	return s.text[from:to]
}

func (s *Snapshot) LineAt(pos int) Line {
	pos = s.clamp(pos)
	idx := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	return s.line(idx)
}

// LineCount returns the number of lines, counting a trailing empty line.
func (s *Snapshot) LineCount() int { return len(s.lineStarts) }

// Line returns the line with the given 1-based number.
func (s *Snapshot) Line(number int) Line {
	idx := number - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.lineStarts) {
		idx = len(s.lineStarts) - 1
	}
	return s.line(idx)
}

func (s *Snapshot) line(idx int) Line {
	from := s.lineStarts[idx]
	to := len(s.text)
	if idx+1 < len(s.lineStarts) {
		to = s.lineStarts[idx+1] - 1
	}
	if to > from && s.text[to-1] == '\r' {
		to--
	}
	return Line{From: from, To: to, Number: idx + 1}
}

func (s *Snapshot) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s.text) {
		return len(s.text)
	}
	return pos
}

// Apply returns a new snapshot with the edit applied.
func (s *Snapshot) Apply(e Edit) *Snapshot {
	from := s.clamp(e.From)
	to := s.clamp(e.To)
	if to < from {
		to = from
	}
	var b strings.Builder
	b.Grow(len(s.text) - (to - from) + len(e.Insert))
	b.WriteString(s.text[:from])
	b.WriteString(e.Insert)
	b.WriteString(s.text[to:])
	return New(b.String())
}

// Offset converts a zero-based line and UTF-16 character index to a byte
// offset. Characters past the end of the line resolve to the line end.
func (s *Snapshot) Offset(line, character int) int {
	if line >= len(s.lineStarts) {
		return len(s.text)
	}
	l := s.line(line)
	pos := l.From
	units := 0
	for pos < l.To && units < character {
		r, size := utf8.DecodeRuneInString(s.text[pos:])
		units += utf16.RuneLen(r)
		if units > character {
			break
		}
		pos += size
	}
	return pos
}

// Position converts a byte offset to a zero-based line and UTF-16 character index.
func (s *Snapshot) Position(offset int) (line, character int) {
	l := s.LineAt(offset)
	offset = s.clamp(offset)
	if offset > l.To {
		offset = l.To
	}
	for pos := l.From; pos < offset; {
		r, size := utf8.DecodeRuneInString(s.text[pos:])
		character += utf16.RuneLen(r)
		pos += size
	}
	return l.Number - 1, character
}
