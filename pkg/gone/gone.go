// Package gone is the public compile facade: one function per pipeline
// stage, each running every stage before it. Stages share a fresh
// diagnostic sink per call, and the pipeline short-circuits at stage
// boundaries: a later pass never runs over the wreckage of an earlier one.
package gone

import (
	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/internal/errors"
	"github.com/miyuchina/compiler/internal/ircode"
	"github.com/miyuchina/compiler/internal/lexer"
	"github.com/miyuchina/compiler/internal/parser"
	"github.com/miyuchina/compiler/internal/semantic"
	"github.com/miyuchina/compiler/pkg/token"
)

// Tokenize scans source and returns its tokens (ending with EOF) together
// with any lexical diagnostics.
func Tokenize(source string) ([]token.Token, []errors.Diagnostic) {
	sink := errors.NewSink()
	toks := lexer.New(source, sink).Tokenize()
	return toks, sink.All()
}

// Parse scans and parses source. The program is partial when syntax
// diagnostics are present.
func Parse(source string) (*ast.Program, []errors.Diagnostic) {
	sink := errors.NewSink()
	program := parse(source, sink)
	return program, sink.All()
}

// Check scans, parses, and semantically checks source, returning the
// decorated program. Checking is skipped if parsing reported anything.
func Check(source string) (*ast.Program, []errors.Diagnostic) {
	sink := errors.NewSink()
	program := check(source, sink)
	return program, sink.All()
}

// IRCode runs the full pipeline and returns the lowered procedures. The
// generator only runs on a program that checked cleanly; otherwise the
// procedure list is nil and the diagnostics tell why.
func IRCode(source string) ([]*ircode.Procedure, []errors.Diagnostic) {
	sink := errors.NewSink()
	program := check(source, sink)
	if sink.Reported() {
		return nil, sink.All()
	}
	return ircode.New().Generate(program), sink.All()
}

func parse(source string, sink *errors.Sink) *ast.Program {
	l := lexer.New(source, sink)
	return parser.New(l, sink).ParseProgram()
}

func check(source string, sink *errors.Sink) *ast.Program {
	program := parse(source, sink)
	if sink.Reported() {
		return program
	}
	semantic.New(sink).Check(program)
	return program
}
