package parser

import (
	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/pkg/token"
)

// parseStatement parses one statement. Entry: curToken is the statement's
// first token. Exit: curToken is the statement's last token (the ';' for
// simple statements, the closing '}' for structured ones).
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.CONST:
		return p.parseConstDecl()
	case token.VAR:
		return p.parseVarDecl()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FUNC:
		return p.parseFuncDecl()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		stmt := &ast.BreakStmt{Token: p.curToken}
		p.expectPeek(token.SEMICOLON)
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStmt{Token: p.curToken}
		p.expectPeek(token.SEMICOLON)
		return stmt
	case token.IDENT:
		return p.parseAssignment()
	default:
		p.syntaxError(p.curToken)
		return nil
	}
}

// parseConstDecl parses "const ID = expr ;".
func (p *Parser) parseConstDecl() ast.Statement {
	decl := &ast.ConstDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = p.curToken.Literal

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	decl.Value = p.parseExpression(LOWEST)

	p.expectPeek(token.SEMICOLON)
	return decl
}

// parseVarDecl parses "var ID type ;" or "var ID type = expr ;".
func (p *Parser) parseVarDecl() ast.Statement {
	decl := &ast.VarDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = p.curToken.Literal

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.DataType = &ast.SimpleType{Token: p.curToken, Name: p.curToken.Literal}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		decl.Value = p.parseExpression(LOWEST)
	}

	p.expectPeek(token.SEMICOLON)
	return decl
}

// parsePrintStatement parses "print expr ;".
func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStmt{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.expectPeek(token.SEMICOLON)
	return stmt
}

// parseAssignment parses the assignment forms starting at an identifier:
//
//	loc = expr ;
//	loc += expr ;   (also -=, *=, /=)
//	loc ++ ;        (also --)
//
// The augmented forms desugar to "loc = loc op expr" and the increment
// forms to "loc = loc op 1" right here, so later passes only ever see plain
// assignments.
func (p *Parser) parseAssignment() ast.Statement {
	target := &ast.SimpleLocation{Token: p.curToken, Name: p.curToken.Literal}

	switch p.peekToken.Type {
	case token.ASSIGN:
		p.nextToken()
		stmt := &ast.Assignment{Token: p.curToken, Target: target}
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		p.expectPeek(token.SEMICOLON)
		return stmt

	case token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.TIMES_ASSIGN, token.DIVIDE_ASSIGN:
		p.nextToken()
		opTok := p.curToken
		op := opTok.Literal[:1] // "+=" -> "+"
		p.nextToken()
		value := p.parseExpression(LOWEST)
		p.expectPeek(token.SEMICOLON)
		return &ast.Assignment{
			Token:  opTok,
			Target: target,
			Value: &ast.BinOp{
				Token: opTok,
				Op:    op,
				Left:  readOf(target),
				Right: value,
			},
		}

	case token.INC, token.DEC:
		p.nextToken()
		opTok := p.curToken
		op := opTok.Literal[:1] // "++" -> "+"
		p.expectPeek(token.SEMICOLON)
		return &ast.Assignment{
			Token:  opTok,
			Target: target,
			Value: &ast.BinOp{
				Token: opTok,
				Op:    op,
				Left:  readOf(target),
				Right: &ast.IntLit{Token: opTok, Value: 1},
			},
		}

	default:
		p.syntaxError(p.peekToken)
		return nil
	}
}

// readOf wraps a fresh copy of the assignment target for the read side of a
// desugared augmented assignment. The copy keeps the two sides' decorations
// independent.
func readOf(target *ast.SimpleLocation) ast.Expression {
	loc := &ast.SimpleLocation{Token: target.Token, Name: target.Name}
	return &ast.ReadLoc{Token: target.Token, Location: loc}
}

// parseBlock parses "{ stmt* }". Entry: curToken is '{'. Exit: curToken is
// '}'.
func (p *Parser) parseBlock() []ast.Statement {
	var stmts []ast.Statement

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.syntaxError(p.curToken)
			return stmts
		}
		stmt := p.parseStatement()
		if p.halted {
			return stmts
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return stmts
}

// parseIfStatement parses "if expr { ... } [else { ... }]".
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStmt{Token: p.curToken}

	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlock()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Else = p.parseBlock()
	}
	return stmt
}

// parseWhileStatement parses "while expr { ... }".
func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStmt{Token: p.curToken}

	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	return stmt
}

// parseForStatement parses "for ['('] stmt expr ; stmt [')'] { ... }".
// The init and step positions hold full statements, each with its own
// trailing ';'.
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStmt{Token: p.curToken}

	parens := p.peekTokenIs(token.LPAREN)
	if parens {
		p.nextToken()
	}

	p.nextToken()
	stmt.Init = p.parseStatement()
	if p.halted {
		return nil
	}

	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	p.nextToken()
	stmt.Step = p.parseStatement()
	if p.halted {
		return nil
	}

	if parens && !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	return stmt
}

// parseFuncDecl parses "func ID ( args? ) type { ... }".
func (p *Parser) parseFuncDecl() ast.Statement {
	decl := &ast.FuncDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	decl.Args = p.parseFuncArgs()
	if p.halted {
		return nil
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.ReturnType = &ast.SimpleType{Token: p.curToken, Name: p.curToken.Literal}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlock()
	return decl
}

// parseFuncArgs parses "( )" or "( ID type [, ID type]* )". Entry: curToken
// is '('. Exit: curToken is ')'.
func (p *Parser) parseFuncArgs() []*ast.FuncArg {
	var args []*ast.FuncArg

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return args
		}
		arg := &ast.FuncArg{Token: p.curToken, Name: p.curToken.Literal}
		if !p.expectPeek(token.IDENT) {
			return args
		}
		arg.DataType = &ast.SimpleType{Token: p.curToken, Name: p.curToken.Literal}
		args = append(args, arg)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	p.expectPeek(token.RPAREN)
	return args
}

// parseReturnStatement parses "return expr ;" or "return ;".
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStmt{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.expectPeek(token.SEMICOLON)
	return stmt
}
