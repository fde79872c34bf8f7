package ast

import (
	"fmt"
	"io"

	"github.com/miyuchina/compiler/internal/types"
)

// Dump writes an indented pre-order listing of the tree, one node per line
// as "line: <indent><node>". With showTypes, nodes that carry a type after
// checking get a " type: <t>" suffix; this is what `gone check
// --show-types` prints.
func Dump(w io.Writer, program *Program, showTypes bool) {
	for _, stmt := range program.Statements {
		dumpNode(w, stmt, 0, showTypes)
	}
}

func dumpNode(w io.Writer, node Node, depth int, showTypes bool) {
	if node == nil {
		return
	}

	line := node.Pos().Line
	fmt.Fprintf(w, "%d: %*s%s", line, 4*depth, "", node.String())
	if showTypes {
		if typ, ok := nodeType(node); ok {
			fmt.Fprintf(w, " type: %s", typ)
		}
	}
	fmt.Fprintln(w)

	for _, child := range children(node) {
		dumpNode(w, child, depth+1, showTypes)
	}
}

// nodeType extracts the decorated type of nodes that carry one.
func nodeType(node Node) (types.Type, bool) {
	switch n := node.(type) {
	case Expression:
		return n.ResultType(), true
	case *ConstDecl:
		return n.DeclInfo.Type, true
	case *VarDecl:
		return n.DeclInfo.Type, true
	case *FuncDecl:
		return n.DeclInfo.Type, true
	case *FuncArg:
		return n.DeclInfo.Type, true
	}
	return types.Error, false
}

// children returns a node's children in source order.
func children(node Node) []Node {
	var kids []Node
	add := func(n Node) {
		if n != nil {
			kids = append(kids, n)
		}
	}
	addExpr := func(e Expression) {
		if e != nil {
			kids = append(kids, e)
		}
	}
	addStmts := func(stmts []Statement) {
		for _, s := range stmts {
			add(s)
		}
	}

	switch n := node.(type) {
	case *ConstDecl:
		addExpr(n.Value)
	case *VarDecl:
		add(n.DataType)
		addExpr(n.Value)
	case *FuncDecl:
		for _, arg := range n.Args {
			add(arg)
		}
		add(n.ReturnType)
		addStmts(n.Body)
	case *FuncArg:
		add(n.DataType)
	case *Assignment:
		add(n.Target)
		addExpr(n.Value)
	case *IfStmt:
		addExpr(n.Cond)
		addStmts(n.Then)
		addStmts(n.Else)
	case *WhileStmt:
		addExpr(n.Cond)
		addStmts(n.Body)
	case *ForStmt:
		add(n.Init)
		addExpr(n.Cond)
		add(n.Step)
		addStmts(n.Body)
	case *ReturnStmt:
		addExpr(n.Value)
	case *PrintStmt:
		addExpr(n.Value)
	case *BinOp:
		addExpr(n.Left)
		addExpr(n.Right)
	case *UnaryOp:
		addExpr(n.Value)
	case *ReadLoc:
		add(n.Location)
	case *Call:
		add(n.Callee)
		for _, arg := range n.Args {
			addExpr(arg)
		}
	}
	return kids
}
