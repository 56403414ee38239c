package codegen

import (
	"fmt"
	"strings"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/builtins"
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// call compiles `f(args)` once fnVal has already resolved to a function
// reference (spec.md §4.6). During the collecting pass it additionally
// enforces spec.md §9's open question: a call to a function that may
// allocate, or whose allocation status is unknown, is not evaluable while
// only inferring local types, since its side effects would be observable
// without ever reaching the real pass.
func (fg *FuncGen) call(fnVal Value) Value {
	fg.advance() // '('
	fn := fnVal.FuncDecl

	var args []Value
	for fg.cur().Kind != lexer.RPAREN && !fg.atEnd() {
		args = append(args, fg.Load(fg.parseExpr(0)))
		if fg.cur().Kind == lexer.COMMA {
			fg.advance()
			continue
		}
		break
	}
	fg.expect(lexer.RPAREN, diag.ParUnbalanced, "expected ')' closing call arguments")

	if fg.collecting {
		if mayAlloc, known := allocStatus(fn); mayAlloc || !known {
			fg.reportAlways(diag.SemTypeMismatch, "call to "+callName(fn)+" is not allowed while inferring local types")
		}
		return Value{Type: fnVal.Type, Kind: KindTemp, Name: "%t0"}
	}

	if fn != nil && fn.ID != builtins.SentinelFuncID {
		fg.fn.AddCallee(fn.ID)
		if builtins.AllocatorSet[fn.Name] {
			fg.fn.DirectAlloc = true
		}
	}
	switch fnVal.FuncIRName {
	case "calloc":
		fg.gen.usedCalloc = true
	case "memcpy":
		fg.gen.usedMemcpy = true
	}

	if fn != nil && !fn.IsVarargs && len(args) != len(fn.Params) {
		fg.errorHere(diag.SemArityMismatch, fmt.Sprintf("%s expects %d argument(s), got %d", callName(fn), len(fn.Params), len(args)))
	}
	var rendered []string
	for i, a := range args {
		target := a.Type
		if fn != nil && i < len(fn.Params) {
			target = fn.Params[i].Type
		}
		cv := fg.coerceAssign(a, target)
		rendered = append(rendered, fmt.Sprintf("%s %s", llvmType(target), cv.Operand()))
	}

	retTy := fnVal.Type
	if retTy == nil {
		retTy = types.Void()
	}
	if retTy.Kind == types.KVoid {
		fg.emit("  call void @%s(%s)\n", fnVal.FuncIRName, strings.Join(rendered, ", "))
		return Value{Type: retTy, Kind: KindTemp}
	}
	t := fg.newTemp(retTy)
	fg.emit("  %s = call %s @%s(%s)\n", t.Name, llvmType(retTy), fnVal.FuncIRName, strings.Join(rendered, ", "))
	return t
}

func callName(fn *ast.Func) string {
	if fn == nil {
		return "function"
	}
	return fn.Name
}
