package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/syntax"
	"github.com/dhamidi/tablature/tabast"
	"github.com/dhamidi/tablature/workspace"
)

// Edits converts LSP content changes to edits. Each change is positioned
// in the text left by the previous one.
func Edits(text *source.Snapshot, changes []any) []source.Edit {
	var edits []source.Edit
	for _, change := range changes {
		var e source.Edit
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				e = workspace.Diff(text.String(), c.Text)
				break
			}
			e = source.Edit{
				From:   offset(text, c.Range.Start),
				To:     offset(text, c.Range.End),
				Insert: c.Text,
			}
		case protocol.TextDocumentContentChangeEventWhole:
			e = workspace.Diff(text.String(), c.Text)
		default:
			log.Warningf("unsupported content change %T", change)
			continue
		}
		edits = append(edits, e)
		text = text.Apply(e)
	}
	return edits
}

func offset(text *source.Snapshot, p protocol.Position) int {
	return text.Offset(int(p.Line), int(p.Character))
}

func position(text *source.Snapshot, pos int) protocol.Position {
	line, character := text.Position(pos)
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(character)}
}

func toRange(text *source.Snapshot, from, to int) protocol.Range {
	return protocol.Range{Start: position(text, from), End: position(text, to)}
}

// DocumentSymbols lists the blocks of the document, each with its measures
// as children.
func DocumentSymbols(doc *workspace.Document) []protocol.DocumentSymbol {
	text := doc.Text()
	symbols := []protocol.DocumentSymbol{}
	var block *protocol.DocumentSymbol
	var measures int

	doc.Tree().Iterate(func(c *tabast.TreeCursor) bool {
		switch c.Node().Kind {
		case tabast.KindSegment:
			return true
		case tabast.KindBlock:
			r := toRange(text, c.From(), c.To())
			detail := fmt.Sprintf("line %d", text.LineAt(c.From()).Number)
			block = &protocol.DocumentSymbol{
				Name:           blockName(text, c, len(symbols)+1),
				Detail:         &detail,
				Kind:           protocol.SymbolKindNamespace,
				Range:          r,
				SelectionRange: r,
			}
			measures = 0
			return true
		case tabast.KindMeasure:
			measures++
			r := toRange(text, c.From(), c.To())
			block.Children = append(block.Children, protocol.DocumentSymbol{
				Name:           fmt.Sprintf("Measure %d", measures),
				Kind:           protocol.SymbolKindArray,
				Range:          r,
				SelectionRange: r,
			})
		}
		return false
	}, func(c *tabast.TreeCursor) {
		if c.Node().Kind == tabast.KindBlock && block != nil {
			symbols = append(symbols, *block)
			block = nil
		}
	})
	return symbols
}

// blockName joins the string names of a block, such as "e B G D A E".
// Raw positions are translated since a reused block keeps the raw nodes of
// the text it was first parsed from.
func blockName(text *source.Snapshot, c *tabast.TreeCursor, index int) string {
	var names []string
	for _, str := range c.Node().RawOfType(syntax.TypeTabString) {
		for _, name := range str.ChildrenOfType(syntax.TypeMeasureLineName) {
			names = append(names, text.Slice(c.Translate(name.From), c.Translate(name.To)))
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("Block %d", index)
	}
	return strings.Join(names, " ")
}

// FoldingRanges folds every segment with content that spans several lines.
func FoldingRanges(doc *workspace.Document) []protocol.FoldingRange {
	text := doc.Text()
	ranges := []protocol.FoldingRange{}
	for _, f := range doc.Tree().Fragments {
		if !f.HasContent() {
			continue
		}
		start, _ := text.Position(f.From)
		end, _ := text.Position(f.To)
		if end <= start {
			continue
		}
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: protocol.UInteger(start),
			EndLine:   protocol.UInteger(end),
		})
	}
	return ranges
}
