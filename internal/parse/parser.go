// Package parse implements the top-down recursive-descent parser: it
// consumes tokens from a lex.Lexer and emits the grammar IR, validating
// node nesting cardinality as it goes.
package parse

import (
	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/ir"
	"github.com/grammarkit/ebnfstudio/internal/lex"
	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

// Parser holds the state needed to turn a token stream into a *ir.Grammar.
type Parser struct {
	lx   *lex.Lexer
	sink ebnferr.Sink

	cur     symbols.Token
	def     *ir.Definition
	grammar *ir.Grammar
}

// New returns a Parser reading from lx and reporting findings to sink.
func New(lx *lex.Lexer, sink ebnferr.Sink) *Parser {
	return &Parser{lx: lx, sink: sink, grammar: ir.NewGrammar()}
}

// Parse runs the parser to completion and returns the resulting grammar.
// Parsing continues past recoverable errors (see error()/resync()); the
// caller should consult sink.FatalCount() to decide overall success.
func (p *Parser) Parse() *ir.Grammar {
	p.next()
	for p.cur.Kind != symbols.Eof {
		switch p.cur.Kind {
		case symbols.Production:
			p.parseProduction()
		default:
			p.error("production or comment expected")
			p.resync()
		}
	}
	return p.grammar
}

// next advances to the next non-Comment token (§4.1: "Comments are emitted
// as tokens; the parser skips them").
func (p *Parser) next() symbols.Token {
	t := p.lx.Next()
	for t.Kind == symbols.Comment {
		t = p.lx.Next()
	}
	p.cur = t
	return t
}

func (p *Parser) error(msg string) {
	if p.cur.Kind == symbols.Invalid {
		p.sink.Error(ebnferr.Lexical, p.cur.Line, p.cur.Col, p.cur.Message)
		return
	}
	p.sink.Error(ebnferr.Syntactic, p.cur.Line, p.cur.Col, msg)
}

// resync discards tokens until the next Production token or Eof, so a
// single syntax error doesn't cascade into the rest of the file.
func (p *Parser) resync() {
	for p.cur.Kind != symbols.Production && p.cur.Kind != symbols.Eof {
		p.next()
	}
}

func (p *Parser) parseProduction() {
	tok := p.cur
	def := &ir.Definition{Name: tok.Value, Op: tok.Op, Token: tok}

	p.next()
	if p.cur.Kind != symbols.Assign {
		p.error("expecting ::= for production")
		p.resync()
		return
	}

	if err := p.grammar.AddDefinition(def); err != nil {
		p.sink.Error(ebnferr.Semantic, tok.Line, tok.Col, err.Error())
		p.resync()
		return
	}
	p.def = def

	p.next()
	if p.cur.Kind != symbols.Production && p.cur.Kind != symbols.Eof {
		def.Root = p.parseExpression()
	}
	// else: empty production, Root stays nil.
}

func isFactorStart(k symbols.Kind) bool {
	switch k {
	case symbols.Keyword, symbols.Literal, symbols.Nonterm, symbols.LBrack, symbols.LBrace, symbols.LPar:
		return true
	default:
		return false
	}
}

// parseExpression ::= term { '|' term }
func (p *Parser) parseExpression() *ir.Node {
	if !isFactorStart(p.cur.Kind) && p.cur.Kind != symbols.Predicate {
		p.error("expecting term")
		return nil
	}
	first := p.cur
	node := p.parseTerm()
	if node == nil {
		return nil
	}

	var alt *ir.Node
	for p.cur.Kind == symbols.Bar {
		p.next()
		if alt == nil {
			alt = ir.NewNode(ir.Alternative, p.def, nil, symbols.Token{Line: first.Line, Col: first.Col})
			node.Parent = alt
			alt.Children = append(alt.Children, node)
			node = alt
		}
		n := p.parseTerm()
		if n == nil {
			return nil
		}
		n.Parent = alt
		alt.Children = append(alt.Children, n)
	}
	return node
}

// parseTerm ::= [ Predicate ] factor { factor }
func (p *Parser) parseTerm() *ir.Node {
	var pred symbols.Token
	havePred := false
	if p.cur.Kind == symbols.Predicate {
		pred = p.cur
		havePred = true
		p.next()
	}

	if !isFactorStart(p.cur.Kind) {
		p.error("expecting factor")
		return nil
	}
	first := p.cur
	node := p.parseFactor()
	if node == nil {
		return nil
	}

	var seq *ir.Node
	if havePred {
		seq = ir.NewNode(ir.Sequence, p.def, nil, symbols.Token{Line: first.Line, Col: first.Col})
		predNode := ir.NewNode(ir.PredicateNode, p.def, seq, pred)
		_ = predNode
		node.Parent = seq
		seq.Children = append(seq.Children, node)
		node = seq
	}

	for isFactorStart(p.cur.Kind) {
		if seq == nil {
			seq = ir.NewNode(ir.Sequence, p.def, nil, symbols.Token{Line: node.Token.Line, Col: node.Token.Col})
			node.Parent = seq
			seq.Children = append(seq.Children, node)
			node = seq
		}
		n := p.parseFactor()
		if n == nil {
			return nil
		}
		n.Parent = seq
		seq.Children = append(seq.Children, n)
	}
	return node
}

// parseFactor ::= Keyword | Literal | Nonterm
//
//	| '[' expression ']'
//	| '{' expression '}'
//	| '(' expression ')'
func (p *Parser) parseFactor() *ir.Node {
	switch p.cur.Kind {
	case symbols.Keyword, symbols.Literal:
		n := ir.NewNode(ir.Terminal, p.def, nil, p.cur)
		p.next()
		return n
	case symbols.Nonterm:
		n := ir.NewNode(ir.Nonterminal, p.def, nil, p.cur)
		p.next()
		return n
	case symbols.LBrack:
		return p.parseBracketed(symbols.RBrack, ir.ZeroOrOne, "]")
	case symbols.LBrace:
		return p.parseBracketed(symbols.RBrace, ir.ZeroOrMore, "}")
	case symbols.LPar:
		return p.parseBracketed(symbols.RPar, ir.One, ")")
	default:
		p.error("expecting keyword, delimiter, category, '{' or '['")
		return nil
	}
}

func (p *Parser) parseBracketed(closing symbols.Kind, quant ir.Quantifier, closeLit string) *ir.Node {
	p.next()
	node := p.parseExpression()
	if node == nil {
		return nil
	}
	if p.cur.Kind != closing {
		p.error("expecting '" + closeLit + "'")
		return nil
	}
	if !p.checkCardinality(node) {
		return nil
	}
	node.Quant = quant
	p.next()
	return node
}

// checkCardinality enforces the two structural invariants that apply to a
// freshly-closed bracketed construct: no nested non-One
// quantifier, and no singleton container wrapping another container.
func (p *Parser) checkCardinality(node *ir.Node) bool {
	if node.Quant != ir.One {
		p.error("contradicting nested quantifiers")
		return false
	}
	if !node.IsContainer() {
		return true
	}
	if len(node.Children) == 0 {
		p.error("container with zero items")
		return false
	}
	if len(node.Children) == 1 && node.Children[0].IsContainer() {
		p.error("container containing only one other sequence or alternative")
		return false
	}
	return true
}
