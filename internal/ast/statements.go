package ast

import (
	"fmt"

	"github.com/miyuchina/compiler/pkg/token"
)

// Assignment represents "loc = expr;". Augmented assignments and ++/--
// never reach the AST; the parser desugars them into this node.
type Assignment struct {
	Token  token.Token // the '=' token
	Target *SimpleLocation
	Value  Expression
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) Pos() token.Position  { return a.Token.Pos }
func (a *Assignment) String() string {
	return fmt.Sprintf("Assignment(%s)", a.Target.Name)
}

// IfStmt represents "if cond { ... } else { ... }". Else is empty when the
// else arm is absent.
type IfStmt struct {
	Token token.Token // the IF token
	Cond  Expression
	Then  []Statement
	Else  []Statement
}

func (is *IfStmt) statementNode()       {}
func (is *IfStmt) TokenLiteral() string { return is.Token.Literal }
func (is *IfStmt) Pos() token.Position  { return is.Token.Pos }
func (is *IfStmt) String() string       { return "IfStmt" }

// WhileStmt represents "while cond { ... }".
type WhileStmt struct {
	Token token.Token // the WHILE token
	Cond  Expression
	Body  []Statement
}

func (ws *WhileStmt) statementNode()       {}
func (ws *WhileStmt) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStmt) Pos() token.Position  { return ws.Token.Pos }
func (ws *WhileStmt) String() string       { return "WhileStmt" }

// ForStmt represents "for init cond; step { ... }", with or without the
// optional parentheses around the header.
type ForStmt struct {
	Token token.Token // the FOR token
	Init  Statement
	Cond  Expression
	Step  Statement
	Body  []Statement
}

func (fs *ForStmt) statementNode()       {}
func (fs *ForStmt) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStmt) Pos() token.Position  { return fs.Token.Pos }
func (fs *ForStmt) String() string       { return "ForStmt" }

// ReturnStmt represents "return expr;" or "return;".
type ReturnStmt struct {
	Token token.Token // the RETURN token
	Value Expression  // nil for a bare return
}

func (rs *ReturnStmt) statementNode()       {}
func (rs *ReturnStmt) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStmt) Pos() token.Position  { return rs.Token.Pos }
func (rs *ReturnStmt) String() string       { return "ReturnStmt" }

// BreakStmt represents "break;".
type BreakStmt struct {
	Token token.Token
}

func (bs *BreakStmt) statementNode()       {}
func (bs *BreakStmt) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStmt) Pos() token.Position  { return bs.Token.Pos }
func (bs *BreakStmt) String() string       { return "BreakStmt" }

// ContinueStmt represents "continue;".
type ContinueStmt struct {
	Token token.Token
}

func (cs *ContinueStmt) statementNode()       {}
func (cs *ContinueStmt) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStmt) Pos() token.Position  { return cs.Token.Pos }
func (cs *ContinueStmt) String() string       { return "ContinueStmt" }

// PrintStmt represents "print expr;".
type PrintStmt struct {
	Token token.Token // the PRINT token
	Value Expression
}

func (ps *PrintStmt) statementNode()       {}
func (ps *PrintStmt) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStmt) Pos() token.Position  { return ps.Token.Pos }
func (ps *PrintStmt) String() string       { return "PrintStmt" }
