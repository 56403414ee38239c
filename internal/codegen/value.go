// Package codegen implements aster's single-pass SSA code generator
// (spec.md §4.6-§4.7): expressions, statements, short-circuit conditions,
// pointer arithmetic, struct layout, and casts lowered directly to textual
// SSA as the function body token range is walked, with no intermediate
// tree. The walk itself is grounded on the teacher's internal/eval single
// evaluator (recursive descent over an AST, writing side effects as it
// goes) — generalized here from "evaluate to a runtime Value" to "emit SSA
// text," since aster never executes source, only lowers it.
package codegen

import (
	"strconv"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/types"
)

// Kind identifies what an operand's payload holds.
type Kind int

const (
	KindIntConst Kind = iota
	KindFloatConst
	KindNull
	KindTemp   // %tN
	KindParam  // %pN
	KindLocal  // %lN, an alloca'd stack slot
	KindFunc   // function reference (direct-call target)
	KindModule // module reference, from name-resolution step 7
)

// Value is the record every expression yields (spec.md §4.6): a type, a
// payload kind, and lvalue/assignability flags. An lvalue holds the
// address of its Type; IsAssignable is only meaningful when IsLvalue is
// true (it distinguishes an immutable ref's storage from a mutable one).
type Value struct {
	Type *types.Type
	Kind Kind

	// Name is the textual SSA operand this value reads as an rvalue
	// (e.g. "%t3", "%p0", "2", "null"). For KindLocal, Name is the alloca's
	// address operand; the rvalue must be loaded through it.
	Name string

	IntVal   int64  // KindIntConst
	FloatLit string // KindFloatConst, preserved lexically

	FuncIRName   string    // KindFunc
	FuncDecl     *ast.Func // KindFunc; nil for the synthesized calloc/memcpy sentinels
	ModuleDotted string    // KindModule

	IsLvalue     bool
	IsAssignable bool
}

// Int builds an integer-constant rvalue.
func Int(t *types.Type, v int64) Value {
	return Value{Type: t, Kind: KindIntConst, IntVal: v}
}

// Float builds a float-constant rvalue from its lexical text.
func Float(t *types.Type, text string) Value {
	return Value{Type: t, Kind: KindFloatConst, FloatLit: text}
}

// Null builds the null pointer literal, typed as a mutable pointer to
// void until a cast narrows it (spec.md §4.6 pointer-mutability rule: the
// only legal immutable->mutable direction is from null).
func Null(t *types.Type) Value {
	return Value{Type: t, Kind: KindNull, Name: "null"}
}

// Temp builds an SSA-temporary rvalue.
func Temp(t *types.Type, name string) Value {
	return Value{Type: t, Kind: KindTemp, Name: name}
}

// Operand renders v as the textual SSA operand used in an instruction's
// argument position. It never emits a load; callers needing an rvalue
// from an lvalue must call (*FuncGen).Load first.
func (v Value) Operand() string {
	switch v.Kind {
	case KindIntConst:
		return strconv.FormatInt(v.IntVal, 10)
	case KindFloatConst:
		return v.FloatLit
	case KindNull:
		return "null"
	default:
		return v.Name
	}
}
