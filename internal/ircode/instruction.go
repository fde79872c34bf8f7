// Package ircode lowers the decorated AST into three-address SSA-style
// instructions grouped into procedures.
//
// Instructions are tuples: the opcode string first, then (for comparisons)
// the operator string, then source operands, then the destination. Operands
// are register names (R1, R2, ...), variable names, label names, or literal
// payloads. Registers obey single static assignment: each name is produced
// exactly once per procedure.
//
// The PRINTI, PRINTF and PRINTB opcodes bind to the runtime library
// helpers _print_int, _print_float and _print_byte during target lowering;
// this package only references them by name.
package ircode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miyuchina/compiler/internal/types"
)

// Instruction is one three-address tuple.
type Instruction []any

// Instr builds an instruction from an opcode and its operands.
func Instr(op string, operands ...any) Instruction {
	in := make(Instruction, 0, len(operands)+1)
	in = append(in, op)
	return append(in, operands...)
}

// Op returns the opcode string.
func (in Instruction) Op() string {
	if len(in) == 0 {
		return ""
	}
	return in[0].(string)
}

// String renders the instruction as a parenthesized tuple, one per line in
// the `gone ircode` listing.
func (in Instruction) String() string {
	parts := make([]string, len(in))
	for i, operand := range in {
		parts[i] = formatOperand(operand)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatOperand(operand any) string {
	switch v := operand.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}

// Procedure is one lowered procedure: the synthesized initializer or a user
// function, with its signature and instruction list.
type Procedure struct {
	Name       string
	ParamNames []string
	ParamTypes []types.Type
	ReturnType types.Type
	Code       []Instruction
}

// Signature renders the procedure header for listings, e.g.
// "proc add (x int, y int) int".
func (p *Procedure) Signature() string {
	params := make([]string, len(p.ParamNames))
	for i, name := range p.ParamNames {
		params[i] = name + " " + p.ParamTypes[i].String()
	}
	return fmt.Sprintf("proc %s (%s) %s", p.Name, strings.Join(params, ", "), p.ReturnType)
}
