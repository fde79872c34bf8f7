package ircode

import (
	"reflect"
	"strings"
	"testing"

	"github.com/miyuchina/compiler/internal/errors"
	"github.com/miyuchina/compiler/internal/lexer"
	"github.com/miyuchina/compiler/internal/parser"
	"github.com/miyuchina/compiler/internal/semantic"
	"github.com/miyuchina/compiler/internal/types"
)

// generate runs the full front-end on source and lowers it, failing the
// test on any diagnostic.
func generate(t *testing.T, source string) []*Procedure {
	t.Helper()
	sink := errors.NewSink()
	l := lexer.New(source, sink)
	program := parser.New(l, sink).ParseProgram()
	if sink.Reported() {
		t.Fatalf("parse errors: %v", sink.All())
	}
	semantic.New(sink).Check(program)
	if sink.Reported() {
		t.Fatalf("check errors: %v", sink.All())
	}
	return New().Generate(program)
}

// initCode returns the _init procedure's instructions.
func initCode(t *testing.T, source string) []Instruction {
	t.Helper()
	procs := generate(t, source)
	if len(procs) == 0 || procs[0].Name != InitProc {
		t.Fatalf("first procedure is not %s: %v", InitProc, procs)
	}
	return procs[0].Code
}

func expectCode(t *testing.T, got, want []Instruction) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d:\n got: %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("instruction %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSimpleLiterals(t *testing.T) {
	code := initCode(t, "print 3;\nprint 3.5;\nprint 'a';\n")
	expectCode(t, code, []Instruction{
		{"MOVI", int64(3), "R1"},
		{"PRINTI", "R1"},
		{"MOVF", 3.5, "R2"},
		{"PRINTF", "R2"},
		{"MOVB", int64(97), "R3"},
		{"PRINTB", "R3"},
	})
}

func TestBinaryOperations(t *testing.T) {
	code := initCode(t, "print (3 + 4*5 - 6) / 7;\n")
	expectCode(t, code, []Instruction{
		{"MOVI", int64(3), "R1"},
		{"MOVI", int64(4), "R2"},
		{"MOVI", int64(5), "R3"},
		{"MULI", "R2", "R3", "R4"},
		{"ADDI", "R1", "R4", "R5"},
		{"MOVI", int64(6), "R6"},
		{"SUBI", "R5", "R6", "R7"},
		{"MOVI", int64(7), "R8"},
		{"DIVI", "R7", "R8", "R9"},
		{"PRINTI", "R9"},
	})
}

func TestFloatBinaryOperations(t *testing.T) {
	code := initCode(t, "print (3.0 + 4.0*5.0 - 6.0) / 7.0;\n")
	expectCode(t, code, []Instruction{
		{"MOVF", 3.0, "R1"},
		{"MOVF", 4.0, "R2"},
		{"MOVF", 5.0, "R3"},
		{"MULF", "R2", "R3", "R4"},
		{"ADDF", "R1", "R4", "R5"},
		{"MOVF", 6.0, "R6"},
		{"SUBF", "R5", "R6", "R7"},
		{"MOVF", 7.0, "R8"},
		{"DIVF", "R7", "R8", "R9"},
		{"PRINTF", "R9"},
	})
}

func TestUnaryOperations(t *testing.T) {
	code := initCode(t, "print -(1+2);\nprint +(3+4);\n")
	expectCode(t, code, []Instruction{
		{"MOVI", int64(1), "R1"},
		{"MOVI", int64(2), "R2"},
		{"ADDI", "R1", "R2", "R3"},
		{"MOVI", int64(0), "R4"},
		{"SUBI", "R4", "R3", "R5"},
		{"PRINTI", "R5"},
		{"MOVI", int64(3), "R6"},
		{"MOVI", int64(4), "R7"},
		{"ADDI", "R6", "R7", "R8"},
		{"PRINTI", "R8"},
	})
}

func TestFloatNegation(t *testing.T) {
	code := initCode(t, "print -(5.0+6.0);\n")
	expectCode(t, code, []Instruction{
		{"MOVF", 5.0, "R1"},
		{"MOVF", 6.0, "R2"},
		{"ADDF", "R1", "R2", "R3"},
		{"MOVF", 0.0, "R4"},
		{"SUBF", "R4", "R3", "R5"},
		{"PRINTF", "R5"},
	})
}

func TestConstantDeclarations(t *testing.T) {
	source := "const x = 2;\n" +
		"const pi = 3.14159;\n" +
		"const a = 'a';\n" +
		"\n" +
		"print x;\n" +
		"print pi;\n" +
		"print a;\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"MOVI", int64(2), "R1"},
		{"VARI", "x"},
		{"STOREI", "R1", "x"},
		{"MOVF", 3.14159, "R2"},
		{"VARF", "pi"},
		{"STOREF", "R2", "pi"},
		{"MOVB", int64(97), "R3"},
		{"VARB", "a"},
		{"STOREB", "R3", "a"},
		{"LOADI", "x", "R4"},
		{"PRINTI", "R4"},
		{"LOADF", "pi", "R5"},
		{"PRINTF", "R5"},
		{"LOADB", "a", "R6"},
		{"PRINTB", "R6"},
	})
}

func TestVariableDeclarationsAndAssignment(t *testing.T) {
	source := "var x int = 42;\n" +
		"var y int;\n" +
		"y = x + 10;\n" +
		"\n" +
		"var a char = 'a';\n" +
		"var b char;\n" +
		"b = a;\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"MOVI", int64(42), "R1"},
		{"VARI", "x"},
		{"STOREI", "R1", "x"},
		{"VARI", "y"},
		{"LOADI", "x", "R2"},
		{"MOVI", int64(10), "R3"},
		{"ADDI", "R2", "R3", "R4"},
		{"STOREI", "R4", "y"},
		{"MOVB", int64(97), "R5"},
		{"VARB", "a"},
		{"STOREB", "R5", "a"},
		{"VARB", "b"},
		{"LOADB", "a", "R6"},
		{"STOREB", "R6", "b"},
	})
}

func TestBooleanLiterals(t *testing.T) {
	expectCode(t, initCode(t, "print true;\nprint false;\n"), []Instruction{
		{"MOVI", int64(1), "R1"},
		{"PRINTI", "R1"},
		{"MOVI", int64(0), "R2"},
		{"PRINTI", "R2"},
	})
}

func TestComparisons(t *testing.T) {
	code := initCode(t, "print 3 < 4;\nprint (3.0 > 6.0) || (5 >= 2);\n")
	expectCode(t, code, []Instruction{
		{"MOVI", int64(3), "R1"},
		{"MOVI", int64(4), "R2"},
		{"CMPI", "<", "R1", "R2", "R3"},
		{"PRINTI", "R3"},
		{"MOVF", 3.0, "R4"},
		{"MOVF", 6.0, "R5"},
		{"CMPF", ">", "R4", "R5", "R6"},
		{"MOVI", int64(5), "R7"},
		{"MOVI", int64(2), "R8"},
		{"CMPI", ">=", "R7", "R8", "R9"},
		{"OR", "R6", "R9", "R10"},
		{"PRINTI", "R10"},
	})
}

func TestCharComparison(t *testing.T) {
	code := initCode(t, "print 'a' < 'b';\n")
	expectCode(t, code, []Instruction{
		{"MOVB", int64(97), "R1"},
		{"MOVB", int64(98), "R2"},
		{"CMPB", "<", "R1", "R2", "R3"},
		{"PRINTI", "R3"},
	})
}

func TestLogicalNot(t *testing.T) {
	expectCode(t, initCode(t, "print !true;\n"), []Instruction{
		{"MOVI", int64(1), "R1"},
		{"MOVI", int64(1), "R2"},
		{"SUBI", "R2", "R1", "R3"},
		{"PRINTI", "R3"},
	})
}

func TestBooleanVariablesAndConstants(t *testing.T) {
	source := "const x = true;\n" +
		"var y bool = false;\n" +
		"var z bool;\n" +
		"z = x || y;\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"MOVI", int64(1), "R1"},
		{"VARI", "x"},
		{"STOREI", "R1", "x"},
		{"MOVI", int64(0), "R2"},
		{"VARI", "y"},
		{"STOREI", "R2", "y"},
		{"VARI", "z"},
		{"LOADI", "x", "R3"},
		{"LOADI", "y", "R4"},
		{"OR", "R3", "R4", "R5"},
		{"STOREI", "R5", "z"},
	})
}

func TestIfStatement(t *testing.T) {
	source := "var a int;\nif 3 < 4 { a = 1; } else { a = 2; }\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"VARI", "a"},
		{"MOVI", int64(3), "R1"},
		{"MOVI", int64(4), "R2"},
		{"CMPI", "<", "R1", "R2", "R3"},
		{"CBRANCH", "R3", "B1", "B2"},
		{"LABEL", "B1"},
		{"MOVI", int64(1), "R4"},
		{"STOREI", "R4", "a"},
		{"BRANCH", "B3"},
		{"LABEL", "B2"},
		{"MOVI", int64(2), "R5"},
		{"STOREI", "R5", "a"},
		{"BRANCH", "B3"},
		{"LABEL", "B3"},
	})
}

func TestIfWithoutElse(t *testing.T) {
	source := "var a int;\nif 3 < 4 { a = 1; }\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"VARI", "a"},
		{"MOVI", int64(3), "R1"},
		{"MOVI", int64(4), "R2"},
		{"CMPI", "<", "R1", "R2", "R3"},
		{"CBRANCH", "R3", "B1", "B2"},
		{"LABEL", "B1"},
		{"MOVI", int64(1), "R4"},
		{"STOREI", "R4", "a"},
		{"BRANCH", "B3"},
		{"LABEL", "B2"},
		{"BRANCH", "B3"},
		{"LABEL", "B3"},
	})
}

func TestWhileLoop(t *testing.T) {
	source := "var a int = 10;\nwhile a > 0 { a = a - 1; }\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"MOVI", int64(10), "R1"},
		{"VARI", "a"},
		{"STOREI", "R1", "a"},
		{"BRANCH", "B1"},
		{"LABEL", "B1"},
		{"LOADI", "a", "R2"},
		{"MOVI", int64(0), "R3"},
		{"CMPI", ">", "R2", "R3", "R4"},
		{"CBRANCH", "R4", "B2", "B3"},
		{"LABEL", "B2"},
		{"LOADI", "a", "R5"},
		{"MOVI", int64(1), "R6"},
		{"SUBI", "R5", "R6", "R7"},
		{"STOREI", "R7", "a"},
		{"BRANCH", "B1"},
		{"LABEL", "B3"},
	})
}

func TestBreakAndContinueInWhile(t *testing.T) {
	source := "var a int = 0;\nwhile true { a++; if a > 3 { break; } else { continue; } }\n"
	code := initCode(t, source)

	var breaks, continues []Instruction
	for i, instr := range code {
		if instr.Op() == "BRANCH" {
			switch code[i][1] {
			case "B3": // loop end
				breaks = append(breaks, instr)
			case "B1": // loop head
				continues = append(continues, instr)
			}
		}
	}
	// break -> B3 once; continue -> B1, plus the loop's entry jump and
	// back-edge.
	if len(breaks) != 1 {
		t.Errorf("got %d branches to loop end, want 1", len(breaks))
	}
	if len(continues) != 3 {
		t.Errorf("got %d branches to loop head, want 3", len(continues))
	}
}

func TestForLoop(t *testing.T) {
	source := "for var i int = 0; i < 3; i++; { print i; }\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"MOVI", int64(0), "R1"},
		{"ALLOCI", "i"},
		{"STOREI", "R1", "i"},
		{"BRANCH", "B1"},
		{"LABEL", "B1"},
		{"LOADI", "i", "R2"},
		{"MOVI", int64(3), "R3"},
		{"CMPI", "<", "R2", "R3", "R4"},
		{"CBRANCH", "R4", "B2", "B4"},
		{"LABEL", "B2"},
		{"LOADI", "i", "R5"},
		{"PRINTI", "R5"},
		{"LABEL", "B3"},
		{"LOADI", "i", "R6"},
		{"MOVI", int64(1), "R7"},
		{"ADDI", "R6", "R7", "R8"},
		{"STOREI", "R8", "i"},
		{"BRANCH", "B1"},
		{"LABEL", "B4"},
	})
}

func TestContinueInForTargetsStep(t *testing.T) {
	source := "for var i int = 0; i < 3; i++; { continue; }\n"
	code := initCode(t, source)

	found := false
	for _, instr := range code {
		if instr.Op() == "BRANCH" && instr[1] == "B3" {
			found = true
		}
	}
	if !found {
		t.Error("continue does not branch to the step label")
	}
}

func TestShadowedVariablesGetDistinctStorage(t *testing.T) {
	source := "var x int = 1;\nif true { var x int = 2; print x; }\nprint x;\n"
	expectCode(t, initCode(t, source), []Instruction{
		{"MOVI", int64(1), "R1"},
		{"VARI", "x"},
		{"STOREI", "R1", "x"},
		{"MOVI", int64(1), "R2"},
		{"CBRANCH", "R2", "B1", "B2"},
		{"LABEL", "B1"},
		{"MOVI", int64(2), "R3"},
		{"ALLOCI", "x.1"},
		{"STOREI", "R3", "x.1"},
		{"LOADI", "x.1", "R4"},
		{"PRINTI", "R4"},
		{"BRANCH", "B3"},
		{"LABEL", "B2"},
		{"BRANCH", "B3"},
		{"LABEL", "B3"},
		{"LOADI", "x", "R5"},
		{"PRINTI", "R5"},
	})
}

func TestShadowingAcrossLoopScopes(t *testing.T) {
	source := "var i int = 0;\nfor var i int = 0; i < 2; i++; { print i; }\nprint i;\n"
	code := initCode(t, source)

	var names []string
	for _, instr := range code {
		switch instr.Op() {
		case "VARI", "ALLOCI":
			names = append(names, instr[1].(string))
		}
	}
	if len(names) != 2 || names[0] != "i" || names[1] != "i.1" {
		t.Fatalf("storage names = %v, want [i i.1]", names)
	}

	// The trailing print reads the outer i, not the loop counter.
	last := code[len(code)-2]
	if last.Op() != "LOADI" || last[1] != "i" {
		t.Errorf("final load = %v, want (LOADI, i, ...)", last)
	}
}

func TestFunctionProcedure(t *testing.T) {
	procs := generate(t, "func add(x int, y int) int { return x + y; }\n")
	if len(procs) != 2 {
		t.Fatalf("got %d procedures, want 2", len(procs))
	}

	init := procs[0]
	if init.Name != InitProc || len(init.Code) != 0 {
		t.Errorf("_init = %s with %d instructions, want empty _init", init.Name, len(init.Code))
	}

	add := procs[1]
	if add.Name != "add" {
		t.Fatalf("second procedure = %q, want add", add.Name)
	}
	if !reflect.DeepEqual(add.ParamNames, []string{"x", "y"}) {
		t.Errorf("param names = %v", add.ParamNames)
	}
	if !reflect.DeepEqual(add.ParamTypes, []types.Type{types.Int, types.Int}) {
		t.Errorf("param types = %v", add.ParamTypes)
	}
	if add.ReturnType != types.Int {
		t.Errorf("return type = %v, want int", add.ReturnType)
	}

	expectCode(t, add.Code, []Instruction{
		{"ALLOCI", "x"},
		{"STOREI", "R1", "x"},
		{"ALLOCI", "y"},
		{"STOREI", "R2", "y"},
		{"LOADI", "x", "R3"},
		{"LOADI", "y", "R4"},
		{"ADDI", "R3", "R4", "R5"},
		{"RET", "R5"},
	})
}

func TestLocalDeclarationsAllocate(t *testing.T) {
	procs := generate(t, "func f() int { var n int = 1; return n; }\n")
	expectCode(t, procs[1].Code, []Instruction{
		{"MOVI", int64(1), "R1"},
		{"ALLOCI", "n"},
		{"STOREI", "R1", "n"},
		{"LOADI", "n", "R2"},
		{"RET", "R2"},
	})
}

func TestVoidReturn(t *testing.T) {
	procs := generate(t, "func f() void { return; }\n")
	expectCode(t, procs[1].Code, []Instruction{
		{"RET"},
	})
}

func TestCall(t *testing.T) {
	source := "func add(x int, y int) int { return x + y; }\n" +
		"var r int = add(1, 2 + 3);\n"
	code := initCode(t, source)
	expectCode(t, code, []Instruction{
		{"MOVI", int64(1), "R1"},
		{"MOVI", int64(2), "R2"},
		{"MOVI", int64(3), "R3"},
		{"ADDI", "R2", "R3", "R4"},
		{"CALL", "add", "R1", "R4", "R5"},
		{"VARI", "r"},
		{"STOREI", "R5", "r"},
	})
}

func TestFunctionsKeptOutOfInit(t *testing.T) {
	source := "print 1;\nfunc f() int { return 2; }\nprint 3;\n"
	procs := generate(t, source)
	if len(procs) != 2 {
		t.Fatalf("got %d procedures, want 2", len(procs))
	}
	for _, instr := range procs[0].Code {
		if instr.Op() == "RET" {
			t.Errorf("function body leaked into _init: %v", procs[0].Code)
		}
	}
	// _init keeps its own register sequence across the intervening func.
	expectCode(t, procs[0].Code, []Instruction{
		{"MOVI", int64(1), "R1"},
		{"PRINTI", "R1"},
		{"MOVI", int64(3), "R2"},
		{"PRINTI", "R2"},
	})
}

// destination returns the register an instruction produces, if any.
func destination(instr Instruction) (string, bool) {
	switch instr.Op() {
	case "LABEL", "BRANCH", "CBRANCH", "RET",
		"VARI", "VARF", "VARB", "ALLOCI", "ALLOCF", "ALLOCB",
		"STOREI", "STOREF", "STOREB", "PRINTI", "PRINTF", "PRINTB":
		return "", false
	}
	last, ok := instr[len(instr)-1].(string)
	return last, ok
}

func TestRegistersAreSSA(t *testing.T) {
	source := "var a int = 1;\n" +
		"func f(x int) int { if x > 0 { return x; } else { return 0 - x; } }\n" +
		"var b int = f(a);\n" +
		"while b > 0 { b--; print b; }\n"
	for _, proc := range generate(t, source) {
		seen := make(map[string]bool)
		count := 0
		for _, instr := range proc.Code {
			if dest, ok := destination(instr); ok {
				if seen[dest] {
					t.Errorf("%s: register %s produced twice", proc.Name, dest)
				}
				seen[dest] = true
				count++
			}
		}
		// Parameters occupy R1..RN without an explicit producer.
		for i := range proc.ParamNames {
			reg := "R" + string(rune('1'+i))
			if seen[reg] {
				t.Errorf("%s: parameter register %s re-produced", proc.Name, reg)
			}
			seen[reg] = true
			count++
		}
		// The register names form R1..Rk with no gaps.
		for i := 1; i <= count; i++ {
			name := "R" + itoa(i)
			if !seen[name] {
				t.Errorf("%s: missing register %s in sequence of %d", proc.Name, name, count)
			}
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestBranchTargetsHaveLabels(t *testing.T) {
	source := "var a int = 0;\n" +
		"if a < 1 { a = 1; } else { a = 2; }\n" +
		"while a > 0 { if a == 2 { break; } a--; }\n" +
		"for var i int = 0; i < 3; i++; { continue; }\n"
	for _, proc := range generate(t, source) {
		labels := make(map[string]int)
		var targets []string
		for _, instr := range proc.Code {
			switch instr.Op() {
			case "LABEL":
				labels[instr[1].(string)]++
			case "BRANCH":
				targets = append(targets, instr[1].(string))
			case "CBRANCH":
				targets = append(targets, instr[2].(string), instr[3].(string))
			}
		}
		for name, n := range labels {
			if n != 1 {
				t.Errorf("%s: label %s defined %d times", proc.Name, name, n)
			}
		}
		for _, target := range targets {
			if labels[target] != 1 {
				t.Errorf("%s: branch target %s has no unique label", proc.Name, target)
			}
		}
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		instr    Instruction
		expected string
	}{
		{Instr("MOVI", int64(3), "R1"), "(MOVI, 3, R1)"},
		{Instr("MOVF", 3.5, "R2"), "(MOVF, 3.5, R2)"},
		{Instr("MOVF", 2.0, "R3"), "(MOVF, 2.0, R3)"},
		{Instr("CMPI", "<", "R1", "R2", "R3"), "(CMPI, <, R1, R2, R3)"},
		{Instr("RET"), "(RET)"},
	}
	for _, tt := range tests {
		if got := tt.instr.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestProcedureSignature(t *testing.T) {
	proc := &Procedure{
		Name:       "add",
		ParamNames: []string{"x", "y"},
		ParamTypes: []types.Type{types.Int, types.Int},
		ReturnType: types.Int,
	}
	want := "proc add (x int, y int) int"
	if got := proc.Signature(); got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
	if !strings.HasPrefix((&Procedure{Name: "_init", ReturnType: types.Void}).Signature(), "proc _init ()") {
		t.Error("empty signature malformed")
	}
}
