// Package ast holds the declaration records produced by internal/parser:
// plain structs with exported fields, no interface-heavy visitor hierarchy,
// the same shape the teacher's own AST package uses.
package ast

import (
	"strings"

	"github.com/0xSMW/aster/internal/types"
)

// Program is the fully parsed declaration set for one assembled unit:
// every const, struct, and function across all of its modules.
type Program struct {
	Consts  []*Const
	Structs []*StructDecl
	Funcs   []*Func
}

// ConstKind is the literal category a Const's value was parsed from.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
)

// Const is a top-level `const <name> is <Type> = <literal>` declaration.
type Const struct {
	Name   string
	Module int
	Type   *types.Type
	Kind   ConstKind

	IntVal    int64
	FloatText string // preserved lexically; codegen emits float literals as text
	StrVal    []byte // NUL-terminated
	StrID     int    // stable id for @.strN emission
}

// Field is one member of a StructDecl, in declaration order.
type Field struct {
	Name   string
	Type   *types.Type
	Offset int
}

// StructDecl is a named, laid-out struct type.
type StructDecl struct {
	Name   string
	Module int
	Size   int
	Align  int
	Fields []Field
}

// Param is one function parameter.
type Param struct {
	Name string
	Type *types.Type
}

// Func is a `def`/`extern def` declaration. Body is not parsed eagerly:
// BodyStart/BodyEnd capture the matching token range (spec.md §4.3); the
// code generator reparses the body on demand.
type Func struct {
	ID         int
	Name       string
	Module     int
	IRName     string
	ReturnType *types.Type
	Params     []Param

	IsExtern   bool
	IsVarargs  bool
	IsNoalloc  bool
	DirectAlloc bool
	CalleeIDs  []int // de-duplicated at insertion, see AddCallee

	BodyStart int
	BodyEnd   int
}

// AddCallee records a call-graph edge, eliminating duplicates at insertion
// per spec.md invariant (vi).
func (f *Func) AddCallee(id int) {
	for _, c := range f.CalleeIDs {
		if c == id {
			return
		}
	}
	f.CalleeIDs = append(f.CalleeIDs, id)
}

// MangleIRName computes a function's IR-level symbol name. The entry
// module's `main` is unmangled; externs keep their source name; every other
// function becomes aster_<mod>__<name> with non-identifier module-path
// characters mapped to underscore.
func MangleIRName(name string, moduleDotted string, isEntryMain, isExtern bool) string {
	if isEntryMain {
		return "main"
	}
	if isExtern {
		return name
	}
	mangledMod := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, moduleDotted)
	return "aster_" + mangledMod + "__" + name
}
