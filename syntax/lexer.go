package syntax

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"golang.org/x/exp/ebnf"
)

//go:embed tab.ebnf
var tabGrammar []byte

// Token kinds produced by the tablature grammar. Token productions are the
// grammar's capitalized names.
const (
	TokenFret          = "Fret"
	TokenTimeSignature = "TimeSignature"
	TokenMultiplier    = "Multiplier"
	TokenRepeat        = "Repeat"
	TokenWord          = "Word"
	TokenBar           = "Bar"
	TokenFiller        = "Filler"
	TokenSlide         = "Slide"
	TokenHarmonicOpen  = "HarmonicOpen"
	TokenHarmonicClose = "HarmonicClose"
	TokenSpace         = "Space"
	TokenNewline       = "Newline"
	TokenError         = "ERROR"
	TokenEOF           = "EOF"
)

// Token is a lexical token with its byte range.
type Token struct {
	Kind    string
	Literal string
	Offset  int
}

// End returns the offset just past the token.
func (t Token) End() int { return t.Offset + len(t.Literal) }

func (t Token) String() string {
	return fmt.Sprintf("%d %s %q", t.Offset, t.Kind, t.Literal)
}

type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	grammar  ebnf.Grammar
	tokens   []string
	input    []byte
	pos      int
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

// LoadGrammar parses an EBNF grammar.
func LoadGrammar(name string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// TabGrammar returns the embedded tablature token grammar.
func TabGrammar() ebnf.Grammar {
	g, err := LoadGrammar("tab.ebnf", bytes.NewReader(tabGrammar))
	if err != nil {
		panic(err)
	}
	return g
}

// GrammarSource returns the text of the embedded tablature grammar.
func GrammarSource() []byte {
	return bytes.Clone(tabGrammar)
}

// CheckGrammar reports the token productions the tree builder relies on
// that grammar does not define.
func CheckGrammar(grammar ebnf.Grammar) error {
	var errs []error
	for _, name := range requiredTokens {
		if prod, ok := grammar[name]; !ok || prod.Expr == nil {
			errs = append(errs, fmt.Errorf("missing token production %s", name))
		}
	}
	return errors.Join(errs...)
}

var requiredTokens = []string{
	TokenFret, TokenTimeSignature, TokenMultiplier, TokenRepeat, TokenWord, TokenBar,
	TokenSlide, TokenHarmonicOpen, TokenHarmonicClose, TokenSpace, TokenNewline,
}

// NewLexer creates a lexer for the given grammar and input.
func NewLexer(grammar ebnf.Grammar, input []byte) *Lexer {
	var names []string
	for name, prod := range grammar {
		if prod.Expr == nil || len(name) == 0 || name[0] < 'A' || name[0] > 'Z' {
			continue
		}
		names = append(names, name)
	}
	// Ties on match length go to the first name in sorted order.
	sort.Strings(names)
	return &Lexer{
		grammar:  grammar,
		tokens:   names,
		input:    input,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// NextToken returns the longest token starting at the current position.
// Bytes no production matches come back one at a time as ERROR tokens.
func (l *Lexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Offset: l.pos}, io.EOF
	}

	start := l.pos
	clear(l.memo)

	var bestKind string
	var bestLen int
	for _, name := range l.tokens {
		clear(l.visiting)
		n := l.tryMatch(l.grammar[name].Expr, start)
		if n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		l.pos++
		return Token{Kind: TokenError, Literal: string(l.input[start:l.pos]), Offset: start}, nil
	}

	l.pos += bestLen
	return Token{Kind: bestKind, Literal: string(l.input[start:l.pos]), Offset: start}, nil
}

// noMatch is returned by the matchers when expr does not match at offset.
// Zero is a successful empty match, as produced by an Option or Repetition.
const noMatch = -1

func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := l.tryMatch(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := l.tryMatch(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.tryMatch(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		return max(l.tryMatch(e.Body, offset), 0)

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	default:
		return noMatch
	}
}

// tryMatchName matches a named production with memoization; a production
// re-entered at the same offset (left recursion) fails.
func (l *Lexer) tryMatchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := l.memo[key]; ok {
		return result
	}
	if l.visiting[key] {
		return noMatch
	}

	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = noMatch
		return noMatch
	}

	l.visiting[key] = true
	result := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = result
	return result
}

func (l *Lexer) tryMatchToken(s string, offset int) int {
	if s == "" || offset+len(s) > len(l.input) {
		return noMatch
	}
	if string(l.input[offset:offset+len(s)]) == s {
		return len(s)
	}
	return noMatch
}

func (l *Lexer) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(l.input) || len(begin) != 1 || len(end) != 1 {
		return noMatch
	}
	ch := l.input[offset]
	if ch >= begin[0] && ch <= end[0] {
		return 1
	}
	return noMatch
}

// Tokenize reads all tokens from input, excluding the final EOF.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
