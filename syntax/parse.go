package syntax

import (
	"strings"
	"sync"

	"golang.org/x/exp/ebnf"
)

var tabGrammarOnce = sync.OnceValue(TabGrammar)

type lineKind int

const (
	lineText lineKind = iota
	lineString
	lineModifier
)

type line struct {
	from, to int
	tokens   []Token
	kind     lineKind
}

// Parse tokenizes text with the tablature grammar and builds the raw tree.
func Parse(text string) *Tree {
	return ParseWithGrammar(tabGrammarOnce(), text)
}

// ParseWithGrammar is Parse with a replacement token grammar. The grammar
// should define the productions CheckGrammar looks for.
func ParseWithGrammar(grammar ebnf.Grammar, text string) *Tree {
	tokens := NewLexer(grammar, []byte(text)).Tokenize()
	root := newNode(TypeTablature, 0, len(text))

	lines := splitLines(tokens, len(text))
	var run []*line
	hasString := false
	flush := func() {
		if hasString {
			root.addChild(buildSegment(run))
		}
		run = nil
		hasString = false
	}
	for _, l := range lines {
		if l.kind == lineText {
			flush()
			continue
		}
		run = append(run, l)
		if l.kind == lineString {
			hasString = true
		}
	}
	flush()

	return &Tree{Root: root, Tokens: tokens}
}

func splitLines(tokens []Token, length int) []*line {
	var lines []*line
	cur := &line{}
	for _, tok := range tokens {
		if tok.Kind == TokenNewline {
			cur.to = tok.Offset
			lines = append(lines, cur)
			cur = &line{from: tok.End()}
			continue
		}
		cur.tokens = append(cur.tokens, tok)
	}
	cur.to = length
	lines = append(lines, cur)

	for _, l := range lines {
		l.kind = classifyLine(l.tokens)
	}
	return lines
}

// classifyLine treats any line with a Bar as a string line. Otherwise a line
// made only of modifiers and spaces is a modifier line, and anything else is
// text.
func classifyLine(tokens []Token) lineKind {
	for _, tok := range tokens {
		if tok.Kind == TokenBar {
			return lineString
		}
	}
	modifiers := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenSpace:
		case TokenTimeSignature, TokenMultiplier, TokenRepeat:
			modifiers++
		default:
			return lineText
		}
	}
	if modifiers > 0 {
		return lineModifier
	}
	return lineText
}

func buildSegment(lines []*line) *Node {
	seg := newNode(TypeTabSegment, lines[0].from, lines[len(lines)-1].to)
	for _, l := range lines {
		segLine := newNode(TypeTabSegmentLine, l.from, l.to)
		switch l.kind {
		case lineModifier:
			for _, tok := range l.tokens {
				if tok.Kind != TokenSpace {
					segLine.addChild(newNode(tok.Kind, tok.Offset, tok.End()))
				}
			}
		case lineString:
			buildStrings(segLine, l.tokens)
		}
		seg.addChild(segLine)
	}
	return seg
}

// buildStrings splits a line into tab strings. A string is an optional name
// followed by a bar; it closes at a bar followed by whitespace or the end of
// the line.
func buildStrings(parent *Node, tokens []Token) {
	i := 0
	for i < len(tokens) {
		var str *Node
		switch {
		case tokens[i].Kind == TokenWord && i+1 < len(tokens) && tokens[i+1].Kind == TokenBar:
			str = newNode(TypeTabString, tokens[i].Offset, tokens[i].End())
			str.addChild(newNode(TypeMeasureLineName, tokens[i].Offset, tokens[i].End()))
			i++
		case tokens[i].Kind == TokenBar:
			str = newNode(TypeTabString, tokens[i].Offset, tokens[i].End())
		default:
			i++
			continue
		}

		str.addChild(newNode(TypeBar, tokens[i].Offset, tokens[i].End()))
		str.To = tokens[i].End()
		i++
		for i < len(tokens) && tokens[i].Kind != TokenSpace {
			j := i
			for j < len(tokens) && tokens[j].Kind != TokenBar {
				j++
			}
			content := tokens[i:j]
			if j == len(tokens) {
				content = trimSpace(content)
			}
			if len(content) > 0 {
				str.addChild(buildMeasureLine(content))
				str.To = content[len(content)-1].End()
			}
			if j == len(tokens) {
				i = j
				break
			}
			str.addChild(newNode(TypeBar, tokens[j].Offset, tokens[j].End()))
			str.To = tokens[j].End()
			i = j + 1
		}
		parent.addChild(str)
	}
}

func trimSpace(tokens []Token) []Token {
	for len(tokens) > 0 && tokens[len(tokens)-1].Kind == TokenSpace {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

type itemKind int

const (
	itemGap itemKind = iota
	itemNote
	itemConnector
)

type item struct {
	kind itemKind
	node *Node
}

func buildMeasureLine(content []Token) *Node {
	ml := newNode(TypeMeasureLine, content[0].Offset, content[len(content)-1].End())
	items := measureItems(content)

	start := 0
	for start < len(items) {
		if items[start].kind == itemGap {
			start++
			continue
		}
		end := start
		for end < len(items) && items[end].kind != itemGap {
			end++
		}
		run := items[start:end]
		for k := 0; k < len(run); {
			var n *Node
			n, k = parseChain(run, k)
			ml.addChild(n)
		}
		start = end
	}
	return ml
}

func measureItems(content []Token) []item {
	var items []item
	for i := 0; i < len(content); i++ {
		tok := content[i]
		switch tok.Kind {
		case TokenFret:
			items = append(items, item{itemNote, newNode(TypeFret, tok.Offset, tok.End())})
		case TokenTimeSignature:
			// "5/7" lexes as a time signature; inside a measure it is a slide.
			slash := strings.IndexByte(tok.Literal, '/')
			items = append(items,
				item{itemNote, newNode(TypeFret, tok.Offset, tok.Offset+slash)},
				item{itemConnector, newNode(TypeSlide, tok.Offset+slash, tok.Offset+slash+1)},
				item{itemNote, newNode(TypeFret, tok.Offset+slash+1, tok.End())},
			)
		case TokenSlide:
			items = append(items, item{itemConnector, newNode(TypeSlide, tok.Offset, tok.End())})
		case TokenHarmonicOpen:
			if i+2 < len(content) && content[i+1].Kind == TokenFret && content[i+2].Kind == TokenHarmonicClose {
				h := newNode(TypeHarmonic, tok.Offset, content[i+2].End())
				h.addChild(newNode(TypeFret, content[i+1].Offset, content[i+1].End()))
				items = append(items, item{itemNote, h})
				i += 2
				continue
			}
			items = append(items, item{kind: itemGap})
		case TokenWord:
			switch tok.Literal {
			case "h":
				items = append(items, item{itemConnector, newNode(TypeHammer, tok.Offset, tok.End())})
			case "p":
				items = append(items, item{itemConnector, newNode(TypePull, tok.Offset, tok.End())})
			case "s":
				items = append(items, item{itemConnector, newNode(TypeSlide, tok.Offset, tok.End())})
			case "g":
				if i+1 < len(content) && content[i+1].Kind == TokenFret {
					g := newNode(TypeGrace, tok.Offset, content[i+1].End())
					g.addChild(newNode(TypeFret, content[i+1].Offset, content[i+1].End()))
					items = append(items, item{itemNote, g})
					i++
					continue
				}
				items = append(items, item{kind: itemGap})
			default:
				items = append(items, item{kind: itemGap})
			}
		default:
			items = append(items, item{kind: itemGap})
		}
	}
	return items
}

// parseChain builds the component starting at run[k]. Connectors nest to the
// right: 5h7p5 becomes Hammer(5, Pull(7, 5)).
func parseChain(run []item, k int) (*Node, int) {
	if run[k].kind == itemNote {
		note := run[k].node
		if k+1 < len(run) && run[k+1].kind == itemConnector {
			c := connector(run[k+1].node)
			c.addChild(note)
			c.addChild(symbol(run[k+1].node))
			right, next := parseRight(run, k+2)
			if right != nil {
				c.addChild(right)
			}
			c.From = c.FirstChild().From
			c.To = c.LastChild().To
			return c, next
		}
		return note, k + 1
	}

	c := connector(run[k].node)
	c.addChild(symbol(run[k].node))
	right, next := parseRight(run, k+1)
	if right != nil {
		c.addChild(right)
	}
	c.From = c.FirstChild().From
	c.To = c.LastChild().To
	return c, next
}

func parseRight(run []item, k int) (*Node, int) {
	if k < len(run) && run[k].kind == itemNote {
		return parseChain(run, k)
	}
	return nil, k
}

func connector(tok *Node) *Node {
	return newNode(tok.Type, tok.From, tok.To)
}

func symbol(tok *Node) *Node {
	return newNode(TypeConnectorSymbol, tok.From, tok.To)
}
