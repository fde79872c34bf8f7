// Package semantic implements the checking pass: name resolution through a
// stack of lexical scope frames, type propagation, and validation of every
// statement and expression. The pass decorates the AST in place (types on
// expressions, writeable/callable/scope flags on declarations) for the IR
// generator to consume.
//
// All diagnostics go to the sink; the walk never stops at the first error.
// Expressions whose type already collapsed to the error poison type are
// skipped by their parents, so one mistake produces one message.
package semantic

import (
	"fmt"
	"strings"

	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/internal/errors"
	"github.com/miyuchina/compiler/internal/types"
)

// Analyzer performs semantic analysis on a Gone program.
type Analyzer struct {
	sink     *errors.Sink
	symbols  *SymbolTable
	function *ast.FuncDecl // enclosing function, nil at top level

	// storageCounts tracks how often each source name has been declared,
	// so shadowing declarations get distinct storage names in the IR.
	storageCounts map[string]int
}

// New creates an analyzer reporting to sink.
func New(sink *errors.Sink) *Analyzer {
	return &Analyzer{
		sink:          sink,
		symbols:       NewSymbolTable(),
		storageCounts: make(map[string]int),
	}
}

// Check analyzes the whole program.
func (a *Analyzer) Check(program *ast.Program) {
	for _, stmt := range program.Statements {
		a.checkStatement(stmt)
	}
}

// Symbols exposes the current (innermost) scope frame, mainly for tests.
// After Check returns it is the global frame again.
func (a *Analyzer) Symbols() *SymbolTable {
	return a.symbols
}

// pushScope enters a new scope frame.
func (a *Analyzer) pushScope() {
	a.symbols = NewEnclosedSymbolTable(a.symbols)
}

// popScope leaves the innermost frame. Every pushScope is paired with a
// deferred popScope so error paths cannot unbalance the stack.
func (a *Analyzer) popScope() {
	a.symbols = a.symbols.outer
}

func (a *Analyzer) scopeKind() ast.ScopeKind {
	if a.symbols.IsGlobal() {
		return ast.GlobalScope
	}
	return ast.LocalScope
}

// checkStatement dispatches on the statement kind.
func (a *Analyzer) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ConstDecl:
		a.checkConstDecl(s)
	case *ast.VarDecl:
		a.checkVarDecl(s)
	case *ast.FuncDecl:
		a.checkFuncDecl(s)
	case *ast.Assignment:
		a.checkAssignment(s)
	case *ast.IfStmt:
		a.checkIfStmt(s)
	case *ast.WhileStmt:
		a.checkWhileStmt(s)
	case *ast.ForStmt:
		a.checkForStmt(s)
	case *ast.ReturnStmt:
		a.checkReturnStmt(s)
	case *ast.PrintStmt:
		a.checkExpression(s.Value)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// Nothing to validate; lowering gives them meaning.
	}
}

// checkBlock checks a statement list inside a fresh scope frame.
func (a *Analyzer) checkBlock(stmts []ast.Statement) {
	a.pushScope()
	defer a.popScope()
	for _, stmt := range stmts {
		a.checkStatement(stmt)
	}
}

// declareName enforces the shared declaration rules: no shadowing of
// builtin type names, no redefinition within the innermost frame. kind is
// the word used in the redefinition message ("constant", "variable",
// "function").
func (a *Analyzer) declareName(line int, name, kind string) bool {
	if types.IsBuiltinName(name) {
		a.sink.Reportf(line, "NameError: cannot declare variable with name %s", name)
		return false
	}
	if a.symbols.DefinedLocally(name) {
		a.sink.Reportf(line, "NameError: %s %q already defined.", kind, name)
		return false
	}
	return true
}

// assignStorage mints the declaration's storage name. The first
// declaration of a name in the program keeps it; every later declaration
// of the same name, shadowing or not, gets a suffixed variant (x, x.1,
// x.2, ...) so distinct symbols never alias one storage location in the
// instruction stream. The suffix contains '.', which no
// identifier can, so minted names cannot collide with source names.
func (a *Analyzer) assignStorage(info *ast.DeclInfo, name string) {
	count := a.storageCounts[name]
	a.storageCounts[name] = count + 1
	if count == 0 {
		info.Storage = name
		return
	}
	info.Storage = fmt.Sprintf("%s.%d", name, count)
}

// checkConstDecl handles "const name = value;". The constant's type is the
// initializer's type.
func (a *Analyzer) checkConstDecl(decl *ast.ConstDecl) {
	info := decl.Info()
	info.Writeable = false
	info.Callable = false
	info.Scope = a.scopeKind()

	if !a.declareName(decl.Pos().Line, decl.Name, "constant") {
		return
	}
	a.assignStorage(info, decl.Name)
	a.symbols.Define(decl)
	a.checkExpression(decl.Value)
	info.Type = decl.Value.ResultType()
}

// checkVarDecl handles "var name type [= value];".
func (a *Analyzer) checkVarDecl(decl *ast.VarDecl) {
	info := decl.Info()
	info.Writeable = true
	info.Callable = false
	info.Scope = a.scopeKind()

	if !a.declareName(decl.Pos().Line, decl.Name, "variable") {
		return
	}
	a.assignStorage(info, decl.Name)
	a.symbols.Define(decl)
	info.Type = a.resolveType(decl.DataType, false)

	if decl.Value == nil {
		return
	}
	a.checkExpression(decl.Value)
	valueType := decl.Value.ResultType()
	if valueType != types.Error && info.Type != types.Error && valueType != info.Type {
		a.sink.Reportf(decl.Pos().Line, "TypeError: assigning type %s to %q of type %s",
			valueType, decl.Name, info.Type)
	}
}

// checkAssignment handles "loc = value;".
func (a *Analyzer) checkAssignment(stmt *ast.Assignment) {
	a.checkLocation(stmt.Target, true)
	a.checkExpression(stmt.Value)

	targetType := stmt.Target.ResultType()
	valueType := stmt.Value.ResultType()
	if targetType != types.Error && valueType != types.Error && targetType != valueType {
		a.sink.Reportf(stmt.Pos().Line, "TypeError: assigning type %s to %q of type %s",
			valueType, stmt.Target.Name, targetType)
	}
}

// checkIfStmt handles "if cond { ... } else { ... }". Each arm gets its own
// scope frame.
func (a *Analyzer) checkIfStmt(stmt *ast.IfStmt) {
	a.checkCondition(stmt.Cond, "if")
	a.checkBlock(stmt.Then)
	a.checkBlock(stmt.Else)
}

// checkWhileStmt handles "while cond { ... }".
func (a *Analyzer) checkWhileStmt(stmt *ast.WhileStmt) {
	a.checkCondition(stmt.Cond, "while")
	a.checkBlock(stmt.Body)
}

// checkForStmt handles "for init cond; step { ... }". The header runs in
// its own frame so an init-declared variable is visible to the condition,
// step and body without leaking outside the loop.
func (a *Analyzer) checkForStmt(stmt *ast.ForStmt) {
	a.pushScope()
	defer a.popScope()

	a.checkStatement(stmt.Init)
	a.checkCondition(stmt.Cond, "for")
	a.checkStatement(stmt.Step)
	a.checkBlock(stmt.Body)
}

// checkCondition requires a bool-typed condition. An error-typed condition
// was already reported and stays quiet here.
func (a *Analyzer) checkCondition(cond ast.Expression, construct string) {
	a.checkExpression(cond)
	typ := cond.ResultType()
	if typ != types.Bool && typ != types.Error {
		a.sink.Reportf(cond.Pos().Line, "TypeError: %s-statement condition is not a boolean", construct)
	}
}

// checkFuncDecl handles "func name(args) type { ... }". The function symbol
// lands in the enclosing frame; the body is checked in one new frame that
// already holds the parameters.
func (a *Analyzer) checkFuncDecl(decl *ast.FuncDecl) {
	info := decl.Info()
	info.Writeable = false
	info.Callable = true
	info.Scope = a.scopeKind()

	if !a.declareName(decl.Pos().Line, decl.Name, "function") {
		return
	}
	a.symbols.Define(decl)
	info.Type = a.resolveType(decl.ReturnType, true)

	a.pushScope()
	defer a.popScope()

	for _, arg := range decl.Args {
		a.checkFuncArg(arg)
	}

	enclosing := a.function
	a.function = decl
	defer func() { a.function = enclosing }()

	for _, stmt := range decl.Body {
		a.checkStatement(stmt)
	}
}

// checkFuncArg declares one parameter in the function's frame. Parameters
// are writeable locals.
func (a *Analyzer) checkFuncArg(arg *ast.FuncArg) {
	info := arg.Info()
	info.Writeable = true
	info.Callable = false
	info.Scope = ast.LocalScope

	if !a.declareName(arg.Pos().Line, arg.Name, "variable") {
		return
	}
	a.assignStorage(info, arg.Name)
	a.symbols.Define(arg)
	info.Type = a.resolveType(arg.DataType, false)
}

// checkReturnStmt handles "return [expr];". A bare return has type void.
func (a *Analyzer) checkReturnStmt(stmt *ast.ReturnStmt) {
	returned := types.Void
	if stmt.Value != nil {
		a.checkExpression(stmt.Value)
		returned = stmt.Value.ResultType()
	}

	if a.function == nil {
		a.sink.Report(stmt.Pos().Line, "TypeError: returning outside a function.")
		return
	}

	declared := a.function.Info().Type
	if returned != types.Error && declared != types.Error && returned != declared {
		a.sink.Reportf(stmt.Pos().Line, "TypeError: returning %s instead of %s", returned, declared)
	}
}

// checkExpression dispatches on the expression kind, decorating the node
// with its result type.
func (a *Analyzer) checkExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.IntLit:
		e.SetResultType(types.Int)
	case *ast.FloatLit:
		e.SetResultType(types.Float)
	case *ast.CharLit:
		e.SetResultType(types.Char)
	case *ast.BoolLit:
		e.SetResultType(types.Bool)
	case *ast.BinOp:
		a.checkBinOp(e)
	case *ast.UnaryOp:
		a.checkUnaryOp(e)
	case *ast.ReadLoc:
		a.checkLocation(e.Location, false)
		e.SetResultType(e.Location.ResultType())
	case *ast.Call:
		a.checkCall(e)
	}
}

// checkBinOp validates an operator/operand combination against the type
// tables. Poisoned operands suppress the message.
func (a *Analyzer) checkBinOp(expr *ast.BinOp) {
	a.checkExpression(expr.Left)
	a.checkExpression(expr.Right)

	left := expr.Left.ResultType()
	right := expr.Right.ResultType()
	result := types.CheckBinOp(left, expr.Op, right)
	expr.SetResultType(result)

	if result == types.Error && left != types.Error && right != types.Error {
		a.sink.Reportf(expr.Pos().Line, "TypeError: performing %q on %s and %s", expr.Op, left, right)
	}
}

// checkUnaryOp validates a prefix operator.
func (a *Analyzer) checkUnaryOp(expr *ast.UnaryOp) {
	a.checkExpression(expr.Value)

	operand := expr.Value.ResultType()
	result := types.CheckUnaryOp(expr.Op, operand)
	expr.SetResultType(result)

	if result == types.Error && operand != types.Error {
		a.sink.Reportf(expr.Pos().Line, "TypeError: performing %q on %s", expr.Op, operand)
	}
}

// checkLocation resolves a named location and decorates it with the
// symbol's type. Writes to non-writeable symbols (constants, functions) are
// rejected.
func (a *Analyzer) checkLocation(loc *ast.SimpleLocation, write bool) {
	decl, ok := a.symbols.Resolve(loc.Name)
	if !ok {
		a.sink.Reportf(loc.Pos().Line, "NameError: symbol %q undefined.", loc.Name)
		loc.SetResultType(types.Error)
		return
	}
	loc.SetResultType(decl.Info().Type)
	loc.Storage = decl.Info().Storage
	if write && !decl.Info().Writeable {
		a.sink.Reportf(loc.Pos().Line, "TypeError: cannot assign to constant %q", loc.Name)
	}
}

// checkCall validates a function call: the callee must be callable, the
// argument count must match, and argument types must match the parameters
// elementwise.
func (a *Analyzer) checkCall(call *ast.Call) {
	a.checkLocation(call.Callee, false)
	for _, arg := range call.Args {
		a.checkExpression(arg)
	}

	decl, ok := a.symbols.Resolve(call.Callee.Name)
	if !ok {
		// Undefined callee was already reported by checkLocation.
		call.SetResultType(types.Error)
		return
	}

	fn, isFunc := decl.(*ast.FuncDecl)
	if !isFunc || !decl.Info().Callable {
		a.sink.Reportf(call.Pos().Line, "TypeError: %q is not callable.", call.Callee.Name)
		call.SetResultType(types.Error)
		return
	}

	if len(fn.Args) != len(call.Args) {
		// Zero and one parameter read as singular: "takes 0 argument but 1 given".
		plural := ""
		if len(fn.Args) > 1 {
			plural = "s"
		}
		a.sink.Reportf(call.Pos().Line, "TypeError: %s() takes %d argument%s but %d given",
			fn.Name, len(fn.Args), plural, len(call.Args))
		call.SetResultType(types.Error)
		return
	}

	expected := make([]types.Type, len(fn.Args))
	got := make([]types.Type, len(call.Args))
	poisoned := false
	for i := range fn.Args {
		expected[i] = fn.Args[i].Info().Type
		got[i] = call.Args[i].ResultType()
		if expected[i] == types.Error || got[i] == types.Error {
			poisoned = true
		}
	}
	if !poisoned && !typesEqual(expected, got) {
		a.sink.Reportf(call.Pos().Line, "TypeError: %s() expecting (%s), got (%s)",
			fn.Name, joinTypes(expected), joinTypes(got))
		call.SetResultType(types.Error)
		return
	}

	call.SetResultType(fn.Info().Type)
}

func typesEqual(a, b []types.Type) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinTypes(ts []types.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// resolveType resolves a type annotation. void is only legal where
// allowVoid is set (function return types).
func (a *Analyzer) resolveType(st *ast.SimpleType, allowVoid bool) types.Type {
	if typ, ok := types.Lookup(st.Name); ok {
		st.SetResultType(typ)
		return typ
	}
	if allowVoid && st.Name == "void" {
		st.SetResultType(types.Void)
		return types.Void
	}
	a.sink.Reportf(st.Pos().Line, "TypeError: unknown type %q", st.Name)
	st.SetResultType(types.Error)
	return types.Error
}
