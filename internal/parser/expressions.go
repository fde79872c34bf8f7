package parser

import (
	"strconv"
	"strings"

	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/pkg/token"
)

// parseExpression parses an expression with the given minimum binding
// power. Entry: curToken is the expression's first token. Exit: curToken is
// its last token.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.syntaxError(p.curToken)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// parseBinOp parses the right-hand side of a binary operator. Relational
// operators are non-associative: a second relational at the same level, as
// in "a == b >= c", is a syntax error.
func (p *Parser) parseBinOp(left ast.Expression) ast.Expression {
	expr := &ast.BinOp{
		Token: p.curToken,
		Op:    p.curToken.Literal,
		Left:  left,
	}

	relational := isRelational(p.curToken.Type)
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)

	if relational && isRelational(p.peekToken.Type) {
		p.syntaxError(p.peekToken)
		return nil
	}
	return expr
}

// isRelational reports whether t is one of the comparison operators.
func isRelational(t token.Type) bool {
	switch t {
	case token.LESS, token.GREATER, token.LESS_EQ, token.GREATER_EQ, token.EQ, token.NOT_EQ:
		return true
	}
	return false
}

// parsePrefixExpression parses the unary operators +, -, !.
func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.UnaryOp{
		Token: p.curToken,
		Op:    p.curToken.Literal,
	}
	p.nextToken()
	expr.Value = p.parseExpression(PREFIX)
	return expr
}

// parseGroupedExpression parses "( expr )". No AST node is produced for the
// parentheses themselves.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseLocationExpression parses an identifier in expression position:
// either a function call "loc(args)" or a plain read of the location.
func (p *Parser) parseLocationExpression() ast.Expression {
	loc := &ast.SimpleLocation{Token: p.curToken, Name: p.curToken.Literal}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		call := &ast.Call{Token: p.curToken, Callee: loc}
		call.Args = p.parseCallArguments()
		return call
	}
	return &ast.ReadLoc{Token: loc.Token, Location: loc}
}

// parseCallArguments parses "( )" or "( expr [, expr]* )". Entry: curToken
// is '('. Exit: curToken is ')'.
func (p *Parser) parseCallArguments() []ast.Expression {
	var args []ast.Expression

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}

	p.expectPeek(token.RPAREN)
	return args
}

// parseIntLiteral parses decimal and 0x/0o/0b integer literals.
func (p *Parser) parseIntLiteral() ast.Expression {
	lit := &ast.IntLit{Token: p.curToken}

	text := p.curToken.Literal
	base := 10
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			base = 0 // strconv understands the prefix
		}
	}
	value, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		p.syntaxError(p.curToken)
		return nil
	}
	lit.Value = value
	return lit
}

// parseFloatLiteral parses float literals, including "123.", ".5" and
// scientific notation.
func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLit{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.syntaxError(p.curToken)
		return nil
	}
	lit.Value = value
	return lit
}

// parseCharLiteral decodes a character constant to its byte value.
// The lexer guarantees one of the shapes 'c', '\n', '\\', '\'' or '\xHH'.
func (p *Parser) parseCharLiteral() ast.Expression {
	lit := &ast.CharLit{Token: p.curToken}

	text := p.curToken.Literal
	content := text[1 : len(text)-1]
	switch {
	case strings.HasPrefix(content, `\x`):
		value, err := strconv.ParseUint(content[2:], 16, 8)
		if err != nil {
			p.syntaxError(p.curToken)
			return nil
		}
		lit.Value = byte(value)
	case content == `\n`:
		lit.Value = '\n'
	case content == `\\`:
		lit.Value = '\\'
	case content == `\'`:
		lit.Value = '\''
	default:
		lit.Value = content[0]
	}
	return lit
}

// parseBoolLiteral parses "true" and "false".
func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLit{
		Token: p.curToken,
		Value: p.curTokenIs(token.TRUE),
	}
}
