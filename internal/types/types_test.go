package types

import "testing"

func TestBinOpTable(t *testing.T) {
	tests := []struct {
		left     Type
		op       string
		right    Type
		expected Type
	}{
		{Int, "+", Int, Int},
		{Int, "-", Int, Int},
		{Int, "*", Int, Int},
		{Int, "/", Int, Int},
		{Int, "<", Int, Bool},
		{Int, "==", Int, Bool},
		{Float, "+", Float, Float},
		{Float, ">=", Float, Bool},
		{Char, "==", Char, Bool},
		{Char, "<", Char, Bool},
		{Bool, "&&", Bool, Bool},
		{Bool, "||", Bool, Bool},

		// Mixed numerics are never implicit.
		{Int, "+", Float, Error},
		{Float, "+", Int, Error},
		// No char arithmetic.
		{Char, "+", Char, Error},
		// No bool comparison beyond && and ||.
		{Bool, "<", Bool, Error},
		{Bool, "+", Bool, Error},
		// Poison propagates silently.
		{Error, "+", Int, Error},
		{Int, "+", Error, Error},
	}

	for _, tt := range tests {
		if got := CheckBinOp(tt.left, tt.op, tt.right); got != tt.expected {
			t.Errorf("CheckBinOp(%s, %q, %s) = %s, want %s", tt.left, tt.op, tt.right, got, tt.expected)
		}
	}
}

func TestUnaryOpTable(t *testing.T) {
	tests := []struct {
		op       string
		operand  Type
		expected Type
	}{
		{"+", Int, Int},
		{"-", Int, Int},
		{"+", Float, Float},
		{"-", Float, Float},
		{"!", Bool, Bool},

		{"-", Char, Error},
		{"-", Bool, Error},
		{"!", Int, Error},
		{"!", Error, Error},
	}

	for _, tt := range tests {
		if got := CheckUnaryOp(tt.op, tt.operand); got != tt.expected {
			t.Errorf("CheckUnaryOp(%q, %s) = %s, want %s", tt.op, tt.operand, got, tt.expected)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Builtins {
		typ, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) failed", name)
		}
		if typ.String() != name {
			t.Errorf("Lookup(%q).String() = %q", name, typ.String())
		}
	}

	for _, name := range []string{"void", "error", "string", "Integer"} {
		if _, ok := Lookup(name); ok {
			t.Errorf("Lookup(%q) unexpectedly succeeded", name)
		}
	}
}

func TestZeroValueIsError(t *testing.T) {
	var typ Type
	if typ != Error {
		t.Fatalf("zero Type = %v, want Error", typ)
	}
	if typ.String() != "error" {
		t.Errorf("zero Type string = %q, want error", typ.String())
	}
}
