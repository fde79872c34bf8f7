package ast

import (
	"fmt"
	"strconv"

	"github.com/miyuchina/compiler/pkg/token"
)

// IntLit is an integer literal.
type IntLit struct {
	Token token.Token
	Value int64
	Annot
}

func (il *IntLit) expressionNode()      {}
func (il *IntLit) TokenLiteral() string { return il.Token.Literal }
func (il *IntLit) Pos() token.Position  { return il.Token.Pos }
func (il *IntLit) String() string {
	return fmt.Sprintf("IntLit(%d)", il.Value)
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Token token.Token
	Value float64
	Annot
}

func (fl *FloatLit) expressionNode()      {}
func (fl *FloatLit) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLit) Pos() token.Position  { return fl.Token.Pos }
func (fl *FloatLit) String() string {
	return fmt.Sprintf("FloatLit(%s)", strconv.FormatFloat(fl.Value, 'g', -1, 64))
}

// CharLit is a character literal. Value is the decoded byte.
type CharLit struct {
	Token token.Token
	Value byte
	Annot
}

func (cl *CharLit) expressionNode()      {}
func (cl *CharLit) TokenLiteral() string { return cl.Token.Literal }
func (cl *CharLit) Pos() token.Position  { return cl.Token.Pos }
func (cl *CharLit) String() string {
	return fmt.Sprintf("CharLit(%s)", cl.Token.Literal)
}

// BoolLit is "true" or "false".
type BoolLit struct {
	Token token.Token
	Value bool
	Annot
}

func (bl *BoolLit) expressionNode()      {}
func (bl *BoolLit) TokenLiteral() string { return bl.Token.Literal }
func (bl *BoolLit) Pos() token.Position  { return bl.Token.Pos }
func (bl *BoolLit) String() string {
	return fmt.Sprintf("BoolLit(%t)", bl.Value)
}

// BinOp is a binary operation.
type BinOp struct {
	Token token.Token // the operator token
	Op    string
	Left  Expression
	Right Expression
	Annot
}

func (bo *BinOp) expressionNode()      {}
func (bo *BinOp) TokenLiteral() string { return bo.Token.Literal }
func (bo *BinOp) Pos() token.Position  { return bo.Token.Pos }
func (bo *BinOp) String() string {
	return fmt.Sprintf("BinOp(%s)", bo.Op)
}

// UnaryOp is a prefix operation: +x, -x, !x.
type UnaryOp struct {
	Token token.Token // the operator token
	Op    string
	Value Expression
	Annot
}

func (uo *UnaryOp) expressionNode()      {}
func (uo *UnaryOp) TokenLiteral() string { return uo.Token.Literal }
func (uo *UnaryOp) Pos() token.Position  { return uo.Token.Pos }
func (uo *UnaryOp) String() string {
	return fmt.Sprintf("UnaryOp(%s)", uo.Op)
}

// SimpleLocation is a named storage location. It appears bare as an
// assignment target or callee, and wrapped in ReadLoc when read. The
// checker resolves Storage to the declaring symbol's storage name, which
// differs from Name when an earlier declaration used the same name.
type SimpleLocation struct {
	Token   token.Token // the identifier token
	Name    string
	Storage string
	Annot
}

func (sl *SimpleLocation) expressionNode()      {}
func (sl *SimpleLocation) TokenLiteral() string { return sl.Token.Literal }
func (sl *SimpleLocation) Pos() token.Position  { return sl.Token.Pos }
func (sl *SimpleLocation) String() string {
	return fmt.Sprintf("SimpleLocation(%s)", sl.Name)
}

// ReadLoc wraps a SimpleLocation used as an r-value.
type ReadLoc struct {
	Token    token.Token // the identifier token
	Location *SimpleLocation
	Annot
}

func (rl *ReadLoc) expressionNode()      {}
func (rl *ReadLoc) TokenLiteral() string { return rl.Token.Literal }
func (rl *ReadLoc) Pos() token.Position  { return rl.Token.Pos }
func (rl *ReadLoc) String() string {
	return fmt.Sprintf("ReadLoc(%s)", rl.Location.Name)
}

// Call is a function call expression.
type Call struct {
	Token  token.Token // the '(' token
	Callee *SimpleLocation
	Args   []Expression
	Annot
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) Pos() token.Position  { return c.Token.Pos }
func (c *Call) String() string {
	return fmt.Sprintf("Call(%s)", c.Callee.Name)
}
