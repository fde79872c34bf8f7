package semantic

import "github.com/miyuchina/compiler/internal/ast"

// SymbolTable is one lexical scope frame: a mapping from names to their
// declaring AST nodes, linked to the enclosing frame. Lookups walk from the
// innermost frame outward; definitions and redefinition checks touch only
// the innermost frame.
type SymbolTable struct {
	symbols map[string]ast.Decl
	outer   *SymbolTable
}

// NewSymbolTable creates the global scope frame.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]ast.Decl)}
}

// NewEnclosedSymbolTable creates a frame nested inside outer. The outer
// frame is shared by reference, never copied.
func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	return st
}

// Define records a declaration in this frame.
func (st *SymbolTable) Define(decl ast.Decl) {
	st.symbols[decl.DeclName()] = decl
}

// Resolve looks up a name, walking outward through enclosing frames.
func (st *SymbolTable) Resolve(name string) (ast.Decl, bool) {
	for scope := st; scope != nil; scope = scope.outer {
		if decl, ok := scope.symbols[name]; ok {
			return decl, true
		}
	}
	return nil, false
}

// DefinedLocally reports whether name is already defined in this frame,
// ignoring enclosing frames.
func (st *SymbolTable) DefinedLocally(name string) bool {
	_, ok := st.symbols[name]
	return ok
}

// IsGlobal reports whether this is the outermost frame.
func (st *SymbolTable) IsGlobal() bool {
	return st.outer == nil
}
