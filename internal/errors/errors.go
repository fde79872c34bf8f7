// Package errors implements the diagnostic sink shared by all compiler
// passes. Diagnostics are collected, never thrown: a pass reports what it
// finds and keeps going, and the driver checks Reported() at pipeline
// boundaries to decide whether to run the next pass.
package errors

import "fmt"

// Diagnostic is a single reported problem: the source line it was found on
// and an opaque message. The message prefixes (NameError, TypeError,
// Syntax error, Illegal character, Unterminated ...) are part of the
// contract; tests match on them.
type Diagnostic struct {
	Line    int
	Message string
}

// String formats the diagnostic as "line: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s", d.Line, d.Message)
}

// Sink collects diagnostics in the order they are reported. The zero value
// is ready to use. Each compilation constructs its own sink; two
// compilations never share one.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report records a diagnostic at the given source line.
func (s *Sink) Report(line int, message string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Line: line, Message: message})
}

// Reportf records a diagnostic built with fmt.Sprintf.
func (s *Sink) Reportf(line int, format string, args ...any) {
	s.Report(line, fmt.Sprintf(format, args...))
}

// Reported returns whether any diagnostic has been recorded since the last
// Clear.
func (s *Sink) Reported() bool {
	return len(s.diagnostics) > 0
}

// Count returns the number of recorded diagnostics.
func (s *Sink) Count() int {
	return len(s.diagnostics)
}

// All returns the recorded diagnostics in report order.
func (s *Sink) All() []Diagnostic {
	return s.diagnostics
}

// Clear discards all recorded diagnostics.
func (s *Sink) Clear() {
	s.diagnostics = nil
}
