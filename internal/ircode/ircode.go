package ircode

import (
	"strconv"

	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/internal/types"
)

// InitProc is the name of the synthesized initializer procedure holding all
// top-level declarations and statements.
const InitProc = "_init"

// loopContext tracks the branch targets of the innermost enclosing loop.
type loopContext struct {
	continueLabel string // loop head (while) or step point (for)
	breakLabel    string // past the loop
}

// Generator flattens a decorated AST into procedures of three-address
// instructions. The register and label counters are per-procedure: both
// reset when a new procedure opens.
type Generator struct {
	procedures []*Procedure
	current    *Procedure

	registerCount int
	labelCount    int
	loops         []loopContext
}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// Generate lowers the program. Top-level non-func statements become the
// body of the implicit _init procedure in source order; each func becomes
// its own procedure. The caller must only pass a program that checked
// cleanly.
func (g *Generator) Generate(program *ast.Program) []*Procedure {
	g.current = g.openProcedure(InitProc, nil, types.Void)
	for _, stmt := range program.Statements {
		g.genStatement(stmt)
	}
	return g.procedures
}

// openProcedure appends a fresh procedure record and resets the SSA
// counters for it.
func (g *Generator) openProcedure(name string, args []*ast.FuncArg, ret types.Type) *Procedure {
	proc := &Procedure{Name: name, ReturnType: ret}
	for _, arg := range args {
		proc.ParamNames = append(proc.ParamNames, arg.Name)
		proc.ParamTypes = append(proc.ParamTypes, arg.Info().Type)
	}
	g.procedures = append(g.procedures, proc)
	g.registerCount = 0
	g.labelCount = 0
	return proc
}

// emit appends an instruction to the current procedure.
func (g *Generator) emit(op string, operands ...any) {
	g.current.Code = append(g.current.Code, Instr(op, operands...))
}

// newRegister returns the next SSA register name (R1, R2, ...).
func (g *Generator) newRegister() string {
	g.registerCount++
	return "R" + strconv.Itoa(g.registerCount)
}

// newLabel returns the next basic-block label name (B1, B2, ...).
func (g *Generator) newLabel() string {
	g.labelCount++
	return "B" + strconv.Itoa(g.labelCount)
}

// suffix maps a type to its opcode suffix: int and bool are machine words
// (I), floats are F, chars are bytes (B).
func suffix(t types.Type) string {
	switch t {
	case types.Float:
		return "F"
	case types.Char:
		return "B"
	default:
		return "I"
	}
}

// genStatement lowers one statement into the current procedure.
func (g *Generator) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ConstDecl:
		g.genExpression(s.Value)
		g.declare(s.Info(), s.Name)
		g.store(s.Value, storageOf(s.Info(), s.Name))
	case *ast.VarDecl:
		if s.Value != nil {
			g.genExpression(s.Value)
		}
		g.declare(s.Info(), s.Name)
		if s.Value != nil {
			g.store(s.Value, storageOf(s.Info(), s.Name))
		}
	case *ast.Assignment:
		g.genExpression(s.Value)
		g.store(s.Value, locationStorage(s.Target))
	case *ast.PrintStmt:
		g.genExpression(s.Value)
		g.emit("PRINT"+suffix(s.Value.ResultType()), s.Value.Register())
	case *ast.IfStmt:
		g.genIfStmt(s)
	case *ast.WhileStmt:
		g.genWhileStmt(s)
	case *ast.ForStmt:
		g.genForStmt(s)
	case *ast.BreakStmt:
		if len(g.loops) > 0 {
			g.emit("BRANCH", g.loops[len(g.loops)-1].breakLabel)
		}
	case *ast.ContinueStmt:
		if len(g.loops) > 0 {
			g.emit("BRANCH", g.loops[len(g.loops)-1].continueLabel)
		}
	case *ast.ReturnStmt:
		if s.Value == nil {
			g.emit("RET")
			return
		}
		g.genExpression(s.Value)
		g.emit("RET", s.Value.Register())
	case *ast.FuncDecl:
		g.genFuncDecl(s)
	}
}

// declare emits storage for a declaration: VAR at global scope, ALLOC at
// local scope. Storage goes by the declaration's storage name, which the
// checker keeps distinct across shadowing declarations of one source name.
func (g *Generator) declare(info *ast.DeclInfo, name string) {
	op := "VAR"
	if info.Scope == ast.LocalScope {
		op = "ALLOC"
	}
	g.emit(op+suffix(info.Type), storageOf(info, name))
}

// store emits a STORE of the expression's register into the named variable.
func (g *Generator) store(value ast.Expression, name string) {
	g.emit("STORE"+suffix(value.ResultType()), value.Register(), name)
}

// storageOf returns a declaration's storage name, falling back to the
// source name for undecorated trees.
func storageOf(info *ast.DeclInfo, name string) string {
	if info.Storage != "" {
		return info.Storage
	}
	return name
}

// locationStorage returns the storage name a resolved location refers to.
func locationStorage(loc *ast.SimpleLocation) string {
	if loc.Storage != "" {
		return loc.Storage
	}
	return loc.Name
}

// genIfStmt lowers a conditional. Both arms branch to a shared join label;
// an absent else arm just produces an empty else block.
func (g *Generator) genIfStmt(stmt *ast.IfStmt) {
	thenLabel := g.newLabel()
	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	g.genExpression(stmt.Cond)
	g.emit("CBRANCH", stmt.Cond.Register(), thenLabel, elseLabel)

	g.emit("LABEL", thenLabel)
	g.genBlock(stmt.Then)
	g.emit("BRANCH", endLabel)

	g.emit("LABEL", elseLabel)
	g.genBlock(stmt.Else)
	g.emit("BRANCH", endLabel)

	g.emit("LABEL", endLabel)
}

// genWhileStmt lowers a while loop: test at the head, back-edge from the
// body. break exits to the end label, continue re-tests at the head.
func (g *Generator) genWhileStmt(stmt *ast.WhileStmt) {
	headLabel := g.newLabel()
	bodyLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit("BRANCH", headLabel)
	g.emit("LABEL", headLabel)
	g.genExpression(stmt.Cond)
	g.emit("CBRANCH", stmt.Cond.Register(), bodyLabel, endLabel)

	g.emit("LABEL", bodyLabel)
	g.pushLoop(headLabel, endLabel)
	g.genBlock(stmt.Body)
	g.popLoop()
	g.emit("BRANCH", headLabel)

	g.emit("LABEL", endLabel)
}

// genForStmt lowers "for init cond; step { body }" as
// "init; while cond { body; step; }". The step code sits behind its own
// label so continue can reach it without re-running the body.
func (g *Generator) genForStmt(stmt *ast.ForStmt) {
	headLabel := g.newLabel()
	bodyLabel := g.newLabel()
	stepLabel := g.newLabel()
	endLabel := g.newLabel()

	g.genStatement(stmt.Init)
	g.emit("BRANCH", headLabel)
	g.emit("LABEL", headLabel)
	g.genExpression(stmt.Cond)
	g.emit("CBRANCH", stmt.Cond.Register(), bodyLabel, endLabel)

	g.emit("LABEL", bodyLabel)
	g.pushLoop(stepLabel, endLabel)
	g.genBlock(stmt.Body)
	g.popLoop()

	g.emit("LABEL", stepLabel)
	g.genStatement(stmt.Step)
	g.emit("BRANCH", headLabel)

	g.emit("LABEL", endLabel)
}

func (g *Generator) genBlock(stmts []ast.Statement) {
	for _, stmt := range stmts {
		g.genStatement(stmt)
	}
}

func (g *Generator) pushLoop(continueLabel, breakLabel string) {
	g.loops = append(g.loops, loopContext{continueLabel, breakLabel})
}

func (g *Generator) popLoop() {
	g.loops = g.loops[:len(g.loops)-1]
}

// genFuncDecl opens a new procedure for a function declaration. The
// procedure's N parameters arrive in registers R1..RN and are spilled to
// stack slots up front, so the body addresses them by name like any local.
// The surrounding procedure's state is saved and restored: function bodies
// never leak into the initializer stream.
func (g *Generator) genFuncDecl(decl *ast.FuncDecl) {
	enclosing := g.current
	registerCount := g.registerCount
	labelCount := g.labelCount
	loops := g.loops

	g.current = g.openProcedure(decl.Name, decl.Args, decl.Info().Type)
	g.loops = nil

	for i, arg := range decl.Args {
		sfx := suffix(arg.Info().Type)
		slot := storageOf(arg.Info(), arg.Name)
		g.emit("ALLOC"+sfx, slot)
		g.emit("STORE"+sfx, "R"+strconv.Itoa(i+1), slot)
	}
	g.registerCount = len(decl.Args)

	g.genBlock(decl.Body)

	g.current = enclosing
	g.registerCount = registerCount
	g.labelCount = labelCount
	g.loops = loops
}

// genExpression lowers an expression and records its result register on the
// node.
func (g *Generator) genExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.IntLit:
		g.genLiteral(e, e.Value)
	case *ast.FloatLit:
		g.genLiteral(e, e.Value)
	case *ast.CharLit:
		g.genLiteral(e, int64(e.Value))
	case *ast.BoolLit:
		value := int64(0)
		if e.Value {
			value = 1
		}
		g.genLiteral(e, value)
	case *ast.BinOp:
		g.genBinOp(e)
	case *ast.UnaryOp:
		g.genUnaryOp(e)
	case *ast.ReadLoc:
		target := g.newRegister()
		g.emit("LOAD"+suffix(e.ResultType()), locationStorage(e.Location), target)
		e.SetRegister(target)
	case *ast.Call:
		g.genCall(e)
	}
}

// genLiteral emits a MOV of the literal payload: chars as their byte value,
// bools as 0/1, int and float as themselves.
func (g *Generator) genLiteral(expr ast.Expression, value any) {
	target := g.newRegister()
	g.emit("MOV"+suffix(expr.ResultType()), value, target)
	expr.SetRegister(target)
}

// binOpNames maps arithmetic operators to their opcode stems.
var binOpNames = map[string]string{
	"+": "ADD",
	"-": "SUB",
	"*": "MUL",
	"/": "DIV",
}

// relationalOps marks the comparison operators, which lower to CMP with the
// operator string as an explicit operand.
var relationalOps = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
}

// genBinOp lowers left, then right, then the operation itself. && and ||
// lower to bitwise AND/OR over the 0/1 encoding of bool.
func (g *Generator) genBinOp(expr *ast.BinOp) {
	g.genExpression(expr.Left)
	g.genExpression(expr.Right)
	target := g.newRegister()

	left := expr.Left.Register()
	right := expr.Right.Register()
	operandType := expr.Left.ResultType()

	switch {
	case relationalOps[expr.Op]:
		g.emit("CMP"+suffix(operandType), expr.Op, left, right, target)
	case expr.Op == "&&":
		g.emit("AND", left, right, target)
	case expr.Op == "||":
		g.emit("OR", left, right, target)
	default:
		g.emit(binOpNames[expr.Op]+suffix(operandType), left, right, target)
	}
	expr.SetRegister(target)
}

// genUnaryOp lowers the prefix operators. Negation subtracts from a typed
// zero; logical not subtracts from one; unary plus reuses the operand's
// register without emitting anything.
func (g *Generator) genUnaryOp(expr *ast.UnaryOp) {
	g.genExpression(expr.Value)

	switch expr.Op {
	case "-":
		sfx := suffix(expr.ResultType())
		zero := g.newRegister()
		if expr.ResultType() == types.Float {
			g.emit("MOV"+sfx, 0.0, zero)
		} else {
			g.emit("MOV"+sfx, int64(0), zero)
		}
		target := g.newRegister()
		g.emit("SUB"+sfx, zero, expr.Value.Register(), target)
		expr.SetRegister(target)
	case "!":
		one := g.newRegister()
		g.emit("MOVI", int64(1), one)
		target := g.newRegister()
		g.emit("SUBI", one, expr.Value.Register(), target)
		expr.SetRegister(target)
	default: // unary +
		expr.SetRegister(expr.Value.Register())
	}
}

// genCall lowers the arguments left to right, then emits the CALL with the
// argument registers and a fresh result register.
func (g *Generator) genCall(call *ast.Call) {
	operands := make([]any, 0, len(call.Args)+2)
	operands = append(operands, call.Callee.Name)
	for _, arg := range call.Args {
		g.genExpression(arg)
		operands = append(operands, arg.Register())
	}
	target := g.newRegister()
	operands = append(operands, target)
	g.emit("CALL", operands...)
	call.SetRegister(target)
}
