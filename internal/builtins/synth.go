package builtins

import (
	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/types"
)

// SentinelFuncID is the function id shared by every synthesized extern
// (`calloc`, `memcpy`). Per the Open Question decision recorded in
// DESIGN.md, this id must never enter a `noalloc` call graph or a cache
// key's serialization — callers of internal/sema and internal/cache must
// explicitly skip any callee id equal to SentinelFuncID.
const SentinelFuncID = -1

// SynthCalloc builds the implicitly-declared `calloc` extern record
// (spec.md §4.4), callable by the code generator without a user
// declaration.
func SynthCalloc(in *types.Interner) *ast.Func {
	ptrVoid := in.Pointer(types.Void(), true)
	return &ast.Func{
		ID:         SentinelFuncID,
		Name:       "calloc",
		IRName:     "calloc",
		IsExtern:   true,
		ReturnType: ptrVoid,
		Params: []ast.Param{
			{Name: "nmemb", Type: types.U64()},
			{Name: "size", Type: types.U64()},
		},
	}
}

// SynthMemcpy builds the implicitly-declared `memcpy` extern record, used
// both for explicit calls and for whole-struct copy emission (spec.md
// §4.6's struct assignment rule).
func SynthMemcpy(in *types.Interner) *ast.Func {
	ptrVoid := in.Pointer(types.Void(), true)
	return &ast.Func{
		ID:         SentinelFuncID,
		Name:       "memcpy",
		IRName:     "memcpy",
		IsExtern:   true,
		ReturnType: ptrVoid,
		Params: []ast.Param{
			{Name: "dst", Type: ptrVoid},
			{Name: "src", Type: in.Pointer(types.Void(), false)},
			{Name: "n", Type: types.U64()},
		},
	}
}
