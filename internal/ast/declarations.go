package ast

import (
	"fmt"
	"strings"

	"github.com/miyuchina/compiler/pkg/token"
)

// Decl is implemented by every declaring node. The symbol table maps names
// to Decls; passes reach the shared decoration slot through Info.
type Decl interface {
	Node
	DeclName() string
	Info() *DeclInfo
}

// ConstDecl represents "const name = value;". The type is inferred from the
// initializer literal by the checker.
type ConstDecl struct {
	Token token.Token // the CONST token
	Name  string
	Value Expression
	DeclInfo
}

func (cd *ConstDecl) statementNode()       {}
func (cd *ConstDecl) TokenLiteral() string { return cd.Token.Literal }
func (cd *ConstDecl) Pos() token.Position  { return cd.Token.Pos }
func (cd *ConstDecl) String() string {
	return fmt.Sprintf("ConstDecl(%s)", cd.Name)
}

// VarDecl represents "var name type;" or "var name type = value;".
type VarDecl struct {
	Token    token.Token // the VAR token
	Name     string
	DataType *SimpleType
	Value    Expression // nil when the declaration has no initializer
	DeclInfo
}

func (vd *VarDecl) statementNode()       {}
func (vd *VarDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDecl) Pos() token.Position  { return vd.Token.Pos }
func (vd *VarDecl) String() string {
	return fmt.Sprintf("VarDecl(%s %s)", vd.Name, vd.DataType.Name)
}

// FuncArg is one parameter in a function declaration.
type FuncArg struct {
	Token    token.Token // the parameter name token
	Name     string
	DataType *SimpleType
	DeclInfo
}

func (fa *FuncArg) TokenLiteral() string { return fa.Token.Literal }
func (fa *FuncArg) Pos() token.Position  { return fa.Token.Pos }
func (fa *FuncArg) String() string {
	return fmt.Sprintf("FuncArg(%s %s)", fa.Name, fa.DataType.Name)
}

// FuncDecl represents "func name(args) type { body }". Its DeclInfo.Type is
// the declared return type; Callable is set by the checker.
type FuncDecl struct {
	Token      token.Token // the FUNC token
	Name       string
	Args       []*FuncArg
	ReturnType *SimpleType
	Body       []Statement
	DeclInfo
}

func (fd *FuncDecl) statementNode()       {}
func (fd *FuncDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FuncDecl) Pos() token.Position  { return fd.Token.Pos }
func (fd *FuncDecl) String() string {
	args := make([]string, len(fd.Args))
	for i, arg := range fd.Args {
		args[i] = arg.Name + " " + arg.DataType.Name
	}
	return fmt.Sprintf("FuncDecl(%s(%s) %s)", fd.Name, strings.Join(args, ", "), fd.ReturnType.Name)
}

// SimpleType is a type annotation referring to a type by name.
type SimpleType struct {
	Token token.Token // the type name token
	Name  string
	Annot
}

func (st *SimpleType) expressionNode()      {}
func (st *SimpleType) TokenLiteral() string { return st.Token.Literal }
func (st *SimpleType) Pos() token.Position  { return st.Token.Pos }
func (st *SimpleType) String() string {
	return fmt.Sprintf("SimpleType(%s)", st.Name)
}

func (cd *ConstDecl) DeclName() string { return cd.Name }
func (cd *ConstDecl) Info() *DeclInfo  { return &cd.DeclInfo }

func (vd *VarDecl) DeclName() string { return vd.Name }
func (vd *VarDecl) Info() *DeclInfo  { return &vd.DeclInfo }

func (fa *FuncArg) DeclName() string { return fa.Name }
func (fa *FuncArg) Info() *DeclInfo  { return &fa.DeclInfo }

func (fd *FuncDecl) DeclName() string { return fd.Name }
func (fd *FuncDecl) Info() *DeclInfo  { return &fd.DeclInfo }
