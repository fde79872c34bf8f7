// Package ast defines the Abstract Syntax Tree node types for Gone.
//
// Nodes fall into four families: declarations, statements, expressions, and
// the location/type leaves. Every node carries the token that introduced it,
// which gives error reporting its line number. Later passes decorate nodes
// in place: the checker fills the type (and writeable/callable/scope flags
// on declarations), the IR generator fills the register slot on
// expressions.
package ast

import (
	"github.com/miyuchina/compiler/internal/types"
	"github.com/miyuchina/compiler/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal text of the token the node is
	// anchored to.
	TokenLiteral() string

	// String returns a compact one-line description for AST dumps.
	String() string

	// Pos returns the node's position for error reporting.
	Pos() token.Position
}

// Statement represents a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Expression represents a node that produces a value. After checking every
// expression carries a result type; after IR generation it carries the
// register holding its value.
type Expression interface {
	Node
	expressionNode()
	ResultType() types.Type
	SetResultType(types.Type)
	Register() string
	SetRegister(string)
}

// Annot is the decoration slot embedded in every expression node. The
// checker writes Type, the IR generator writes Reg.
type Annot struct {
	Type types.Type
	Reg  string
}

func (a *Annot) ResultType() types.Type       { return a.Type }
func (a *Annot) SetResultType(t types.Type)   { a.Type = t }
func (a *Annot) Register() string             { return a.Reg }
func (a *Annot) SetRegister(reg string)       { a.Reg = reg }

// ScopeKind records where a declaration lives.
type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	LocalScope
)

// String returns "global" or "local".
func (s ScopeKind) String() string {
	if s == GlobalScope {
		return "global"
	}
	return "local"
}

// DeclInfo is the decoration slot embedded in every declaration node.
// The checker fills it; function declarations get no Storage name.
type DeclInfo struct {
	Type      types.Type // declared/inferred type of the symbol
	Writeable bool       // vars and parameters yes, constants and functions no
	Callable  bool       // functions only
	Scope     ScopeKind  // global vs local storage
	Storage   string     // storage name in the IR; source name, suffixed on redeclaration
}

// Program is the root node: the top-level statement list.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string { return "Program" }

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}
