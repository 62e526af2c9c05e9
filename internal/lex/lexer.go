// Package lex implements the token source: a lazy sequence of lexical
// tokens over an EBNF source text, with a small peek buffer for bounded
// look-ahead.
package lex

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/grammarkit/ebnfstudio/internal/keywords"
	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

var (
	patAssign = regexp.MustCompile(`^::=`)
)

func isIdentStart(ch rune) bool {
	return ch == '$' || ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z') || ('0' <= ch && ch <= '9')
}

func isIdentCont(ch rune) bool {
	return isIdentStart(ch) || ch == '_'
}

// Lexer reads a byte-oriented line stream, normalising line terminators,
// and produces Tokens on demand via Next and bounded look-ahead via Peek.
type Lexer struct {
	tbl *symbols.Table
	kw  keywords.Set

	runes []rune
	pos   int // index into runes of the next unread rune

	line int // 1-based line of the next unread rune
	col  int // 1-based column of the next unread rune

	pending []symbols.Token // FIFO push-back buffer for Peek
	atLineStart bool
}

// New constructs a Lexer over r. kw may be keywords.Empty if no keyword list
// applies. tbl is the interning table shared with the rest of the pipeline;
// if nil, a private table is created.
func New(r io.Reader, kw keywords.Set, tbl *symbols.Table) (*Lexer, error) {
	if kw == nil {
		kw = keywords.Empty
	}
	if tbl == nil {
		tbl = &symbols.Table{}
	}

	raw, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	normalized := normalizeLineEndings(string(raw))

	return &Lexer{
		tbl:         tbl,
		kw:          kw,
		runes:       []rune(normalized),
		pos:         0,
		line:        1,
		col:         1,
		atLineStart: true,
	}, nil
}

// normalizeLineEndings collapses \r\n, \r, and \x15 (NAK, used by some
// legacy EBNF sources as a line separator) to \n.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x15", "\n")
	return s
}

// Next consumes and returns the next token.
func (lx *Lexer) Next() symbols.Token {
	if len(lx.pending) > 0 {
		t := lx.pending[0]
		lx.pending = lx.pending[1:]
		return t
	}
	return lx.scan()
}

// Peek returns the k-th token ahead (k >= 1) without consuming it. Peek(1)
// is the token Next() would return next.
func (lx *Lexer) Peek(k int) symbols.Token {
	for len(lx.pending) < k {
		lx.pending = append(lx.pending, lx.scan())
	}
	return lx.pending[k-1]
}

func (lx *Lexer) eof() bool {
	return lx.pos >= len(lx.runes)
}

func (lx *Lexer) cur() rune {
	if lx.eof() {
		return 0
	}
	return lx.runes[lx.pos]
}

func (lx *Lexer) at(offset int) rune {
	i := lx.pos + offset
	if i < 0 || i >= len(lx.runes) {
		return 0
	}
	return lx.runes[i]
}

func (lx *Lexer) advance() rune {
	ch := lx.cur()
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.col = 1
		lx.atLineStart = true
	} else {
		lx.col++
	}
	return ch
}

func (lx *Lexer) skipBlanks() {
	for !lx.eof() && (lx.cur() == ' ' || lx.cur() == '\t') {
		lx.advance()
	}
}

func (lx *Lexer) skipBlanksAndNewlines() bool {
	sawNewline := false
	for !lx.eof() {
		if lx.cur() == '\n' {
			sawNewline = true
			lx.advance()
		} else if lx.cur() == ' ' || lx.cur() == '\t' {
			lx.advance()
		} else {
			break
		}
	}
	return sawNewline
}

// scan produces the single next token from the underlying rune stream.
func (lx *Lexer) scan() symbols.Token {
	wasLineStart := lx.atLineStart
	lx.skipBlanks()
	for !lx.eof() && lx.cur() == '\n' {
		lx.advance()
		wasLineStart = true
		lx.skipBlanks()
	}
	lx.atLineStart = false

	if lx.eof() {
		return symbols.Token{Kind: symbols.Eof, Line: lx.line, Col: lx.col}
	}

	startLine, startCol := lx.line, lx.col
	ch := lx.cur()

	switch {
	case ch == '/' && lx.at(1) == '/':
		return lx.scanComment(startLine, startCol)
	case isIdentStart(ch):
		return lx.scanIdentifier(startLine, startCol, wasLineStart)
	case ch == '\'':
		return lx.scanLiteral(startLine, startCol, wasLineStart)
	case ch == '\\':
		return lx.scanPredicate(startLine, startCol)
	case ch == ':' && lx.at(1) == ':' && lx.at(2) == '=':
		lx.advance()
		lx.advance()
		lx.advance()
		return symbols.Token{Kind: symbols.Assign, Line: startLine, Col: startCol, Length: 3}
	}

	switch ch {
	case '(':
		lx.advance()
		return symbols.Token{Kind: symbols.LPar, Line: startLine, Col: startCol, Length: 1}
	case ')':
		lx.advance()
		return symbols.Token{Kind: symbols.RPar, Line: startLine, Col: startCol, Length: 1}
	case '[':
		lx.advance()
		return symbols.Token{Kind: symbols.LBrack, Line: startLine, Col: startCol, Length: 1}
	case ']':
		lx.advance()
		return symbols.Token{Kind: symbols.RBrack, Line: startLine, Col: startCol, Length: 1}
	case '{':
		lx.advance()
		return symbols.Token{Kind: symbols.LBrace, Line: startLine, Col: startCol, Length: 1}
	case '}':
		lx.advance()
		return symbols.Token{Kind: symbols.RBrace, Line: startLine, Col: startCol, Length: 1}
	case '|':
		lx.advance()
		return symbols.Token{Kind: symbols.Bar, Line: startLine, Col: startCol, Length: 1}
	}

	lx.advance()
	return symbols.Token{
		Kind:    symbols.Invalid,
		Line:    startLine,
		Col:     startCol,
		Length:  1,
		Message: "unexpected character '" + string(ch) + "'",
	}
}

func (lx *Lexer) scanComment(line, col int) symbols.Token {
	lx.advance()
	lx.advance()
	var sb strings.Builder
	for !lx.eof() && lx.cur() != '\n' {
		sb.WriteRune(lx.advance())
	}
	return symbols.Token{
		Kind:    symbols.Comment,
		Line:    line,
		Col:     col,
		Length:  sb.Len() + 2,
		Message: strings.TrimSpace(sb.String()),
	}
}

// scanIdentifier reads an identifier/nonterminal lexeme, then checks for the
// operator suffix and, if at line start, for promotion to Production.
func (lx *Lexer) scanIdentifier(line, col int, atLineStart bool) symbols.Token {
	var sb strings.Builder
	for !lx.eof() && isIdentCont(lx.cur()) {
		sb.WriteRune(lx.advance())
	}
	value := sb.String()
	op := lx.readOp()

	tok := symbols.Token{Kind: symbols.Nonterm, Value: lx.tbl.Intern(value), Line: line, Col: col, Length: len(value), Op: op}

	if atLineStart && lx.isFollowedByAssign() {
		tok.Kind = symbols.Production
		return tok
	}
	if lx.kw.Has(value) {
		tok.Kind = symbols.Keyword
	}
	return tok
}

// scanLiteral reads a single-quote-delimited literal with \' and \\
// escapes, then checks for the operator suffix and production promotion.
func (lx *Lexer) scanLiteral(line, col int, atLineStart bool) symbols.Token {
	lx.advance() // opening quote
	var sb strings.Builder
	closed := false
	for !lx.eof() {
		ch := lx.cur()
		if ch == '\\' && (lx.at(1) == '\'' || lx.at(1) == '\\') {
			lx.advance()
			sb.WriteRune(lx.advance())
			continue
		}
		if ch == '\'' {
			lx.advance()
			closed = true
			break
		}
		if ch == '\n' {
			break
		}
		sb.WriteRune(lx.advance())
	}

	value := sb.String()
	op := lx.readOp()

	tok := symbols.Token{Kind: symbols.Literal, Value: lx.tbl.Intern(value), Line: line, Col: col, Length: len(value) + 2, Op: op}
	if !closed {
		tok.Kind = symbols.Invalid
		tok.Message = "unterminated literal"
		return tok
	}

	if atLineStart && lx.isFollowedByAssign() {
		tok.Kind = symbols.Production
	}
	return tok
}

// scanPredicate reads a \...\ backslash-delimited attribute string.
func (lx *Lexer) scanPredicate(line, col int) symbols.Token {
	lx.advance() // opening backslash
	var sb strings.Builder
	closed := false
	for !lx.eof() {
		ch := lx.cur()
		if ch == '\\' {
			lx.advance()
			closed = true
			break
		}
		if ch == '\n' {
			break
		}
		sb.WriteRune(lx.advance())
	}
	if !closed {
		return symbols.Token{Kind: symbols.Invalid, Line: line, Col: col, Message: "unterminated predicate"}
	}
	value := sb.String()
	return symbols.Token{Kind: symbols.Predicate, Value: lx.tbl.Intern(value), Line: line, Col: col, Length: len(value) + 2}
}

// readOp consumes an operator suffix (`*`, `!`, `-`) immediately following
// an identifier or literal lexeme, if present.
func (lx *Lexer) readOp() symbols.Op {
	switch lx.cur() {
	case '*':
		lx.advance()
		return symbols.Transparent
	case '!':
		lx.advance()
		return symbols.Keep
	case '-':
		lx.advance()
		return symbols.Skip
	default:
		return symbols.Normal
	}
}

// isFollowedByAssign reports whether, skipping blanks (but not newlines),
// the next characters are the three-character sequence "::=".
func (lx *Lexer) isFollowedByAssign() bool {
	save := lx.pos
	saveLine, saveCol := lx.line, lx.col
	lx.skipBlanks()
	ok := patAssign.MatchString(string(lx.runes[lx.pos:min(lx.pos+3, len(lx.runes))]))
	lx.pos, lx.line, lx.col = save, saveLine, saveCol
	return ok
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
