// Package parser implements the Gone parser using Pratt parsing.
//
// The grammar is the statement language from the language reference:
// declarations (const/var/func), assignment forms (including the augmented
// operators and ++/--, which desugar here), print, and the structured
// statements if/while/for/return/break/continue. Expressions follow the
// precedence ladder || < && < relational (non-associative) < additive <
// multiplicative < unary prefix.
//
// On a syntax error the parser reports "Syntax error in input at token
// '...'" to the sink and stops; it does not attempt resynchronization. The
// caller checks the sink before running later passes.
package parser

import (
	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/internal/errors"
	"github.com/miyuchina/compiler/internal/lexer"
	"github.com/miyuchina/compiler/pkg/token"
)

// Precedence levels for operators (lowest to highest).
const (
	_ int = iota
	LOWEST
	OR      // ||
	AND     // &&
	COMPARE // < > <= >= == != (non-associative)
	SUM     // + -
	PRODUCT // * /
	PREFIX  // -x, +x, !x
)

// precedences maps token types to their precedence levels.
var precedences = map[token.Type]int{
	token.OR:         OR,
	token.AND:        AND,
	token.LESS:       COMPARE,
	token.GREATER:    COMPARE,
	token.LESS_EQ:    COMPARE,
	token.GREATER_EQ: COMPARE,
	token.EQ:         COMPARE,
	token.NOT_EQ:     COMPARE,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.ASTERISK:   PRODUCT,
	token.SLASH:      PRODUCT,
}

// prefixParseFn parses prefix expressions (literals, unary ops, grouping).
type prefixParseFn func() ast.Expression

// infixParseFn parses infix expressions (binary operators).
type infixParseFn func(ast.Expression) ast.Expression

// Parser parses a token stream into an AST.
type Parser struct {
	l    *lexer.Lexer
	sink *errors.Sink

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	halted bool
}

// New creates a parser reading from l. Diagnostics go to sink.
func New(l *lexer.Lexer, sink *errors.Sink) *Parser {
	p := &Parser{l: l, sink: sink}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.INT:    p.parseIntLiteral,
		token.FLOAT:  p.parseFloatLiteral,
		token.CHAR:   p.parseCharLiteral,
		token.TRUE:   p.parseBoolLiteral,
		token.FALSE:  p.parseBoolLiteral,
		token.IDENT:  p.parseLocationExpression,
		token.LPAREN: p.parseGroupedExpression,
		token.PLUS:   p.parsePrefixExpression,
		token.MINUS:  p.parsePrefixExpression,
		token.NOT:    p.parsePrefixExpression,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:       p.parseBinOp,
		token.MINUS:      p.parseBinOp,
		token.ASTERISK:   p.parseBinOp,
		token.SLASH:      p.parseBinOp,
		token.LESS:       p.parseBinOp,
		token.GREATER:    p.parseBinOp,
		token.LESS_EQ:    p.parseBinOp,
		token.GREATER_EQ: p.parseBinOp,
		token.EQ:         p.parseBinOp,
		token.NOT_EQ:     p.parseBinOp,
		token.AND:        p.parseBinOp,
		token.OR:         p.parseBinOp,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances the token window. Illegal tokens were already reported
// by the lexer; skipping them here keeps the parser from tripping over the
// same byte twice.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	for p.peekToken.Type == token.ILLEGAL {
		p.peekToken = p.l.NextToken()
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

// expectPeek advances if the peek token matches, otherwise reports a syntax
// error and halts the parse.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.syntaxError(p.peekToken)
	return false
}

// syntaxError reports the offending token and stops the parse. Only the
// first syntax error is reported; everything after it is unreliable.
func (p *Parser) syntaxError(tok token.Token) {
	if p.halted {
		return
	}
	p.halted = true
	if tok.Type == token.EOF {
		p.sink.Report(tok.Pos.Line, "Syntax error. No more input.")
		return
	}
	p.sink.Reportf(tok.Pos.Line, "Syntax error in input at token '%s'", tok.Literal)
}

// peekPrecedence returns the precedence of the peek token.
func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses the entire program and returns the AST root. When a
// syntax error occurred the returned program is partial; callers must check
// the sink before trusting it.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) && !p.halted {
		stmt := p.parseStatement()
		if p.halted {
			break
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}
