package codegen

import (
	"fmt"

	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// compileBody walks every statement in the function's token range. It is
// run twice per function (Generator.generateFunc): once in collecting
// mode against a discarded sink purely to harvest `var`/`let` locals and
// their types (spec.md §4.6's prepass), once for real.
func (fg *FuncGen) compileBody() {
	fg.skipNewlines()
	for !fg.atEnd() {
		fg.compileStmt()
		fg.skipNewlines()
	}
}

func (fg *FuncGen) compileBlockUntilDedent() {
	fg.skipNewlines()
	for fg.cur().Kind != lexer.DEDENT && !fg.atEnd() {
		fg.compileStmt()
		fg.skipNewlines()
	}
}

func (fg *FuncGen) compileStmt() {
	fg.freshBlockIfTerminated()
	switch fg.cur().Kind {
	case lexer.VAR, lexer.LET:
		fg.compileVarDecl()
	case lexer.IF:
		fg.compileIf()
	case lexer.WHILE:
		fg.compileWhile()
	case lexer.RETURN:
		fg.compileReturn()
	case lexer.BREAK:
		fg.compileBreak()
	case lexer.CONTINUE:
		fg.compileContinue()
	default:
		fg.compileExprOrAssign()
	}
}

// compileVarDecl parses `('var'|'let') IDENT ['is' Type] ['=' expr]`. In
// collecting mode it registers a fresh local slot (explicit type, or the
// dry-run-inferred type of the initializer); in the real pass the slot
// already exists (seeded from the collecting pass) and only the store to
// its address is emitted.
func (fg *FuncGen) compileVarDecl() {
	fg.advance() // 'var'/'let'
	nameTok, ok := fg.expect(lexer.IDENT, diag.ParExpectKeyword, "expected variable name")
	if !ok {
		return
	}
	name := nameTok.Text(fg.src)

	var explicitType *types.Type
	if fg.cur().Kind == lexer.IS {
		fg.advance()
		if t, ok := fg.parseType(); ok {
			explicitType = t
		}
	}

	var init *Value
	if fg.cur().Kind == lexer.ASSIGN {
		fg.advance()
		v := fg.parseExpr(0)
		init = &v
	}

	if fg.collecting {
		typ := explicitType
		if typ == nil {
			if init != nil {
				typ = fg.Load(*init).Type
			} else {
				fg.errorHere(diag.SemTypeMismatch, "variable "+name+" needs a type annotation or initializer")
				typ = types.I32()
			}
		}
		slot := &localSlot{name: name, typ: typ, ssaName: fmt.Sprintf("%%l%d", fg.gen.nextLocalID())}
		fg.locals = append(fg.locals, slot)
		fg.scope.define(name, Value{Type: typ, Kind: KindLocal, Name: slot.ssaName, IsLvalue: true, IsAssignable: true})
		return
	}

	slot, ok := fg.scope.lookup(name)
	if ok && init != nil {
		rv := fg.coerceAssign(*init, slot.Type)
		fg.emit("  store %s %s, ptr %s\n", llvmType(slot.Type), rv.Operand(), slot.Name)
	}
}

// compileExprOrAssign handles both bare expression statements (a call) and
// `lvalue = expr` assignment, distinguished by whether an '=' follows the
// parsed expression.
func (fg *FuncGen) compileExprOrAssign() {
	v := fg.parseExpr(0)
	if fg.cur().Kind == lexer.ASSIGN {
		fg.advance()
		rhs := fg.parseExpr(0)
		fg.compileAssign(v, rhs)
	}
}

// compileAssign stores rhs into lhs's address, or — when both sides are
// structs of equal size — emits a byte-wise `memcpy` copy (spec.md §4.6's
// struct-assignment rule).
func (fg *FuncGen) compileAssign(lhs, rhs Value) {
	if !lhs.IsLvalue || !lhs.IsAssignable {
		fg.errorHere(diag.SemNotAssignable, "left side of assignment is not assignable")
		return
	}
	if lhs.Type.IsStruct() {
		if !rhs.Type.IsStruct() || types.SizeOf(rhs.Type) != types.SizeOf(lhs.Type) {
			fg.errorHere(diag.SemTypeMismatch, "struct assignment requires matching struct types")
			return
		}
		if !rhs.IsLvalue {
			fg.errorHere(diag.SemNotAssignable, "struct assignment requires an addressable source")
			return
		}
		if !fg.collecting {
			fg.gen.usedMemcpy = true
			fg.emit("  call ptr @memcpy(ptr %s, ptr %s, i64 %d)\n", lhs.Operand(), rhs.Operand(), types.SizeOf(lhs.Type))
		}
		return
	}
	rv := fg.coerceAssign(rhs, lhs.Type)
	if !fg.collecting {
		fg.emit("  store %s %s, ptr %s\n", llvmType(lhs.Type), rv.Operand(), lhs.Name)
	}
}

// compileIf compiles an `if`/`else`/`else if` chain (spec.md §4.6): all
// branches of the chain converge on one end label, created once here and
// threaded through compileIfChain so nested else-if arms share it. The end
// label is opened only when some arm reaches it; when every arm ends in a
// terminator the current block stays terminated.
func (fg *FuncGen) compileIf() {
	endBB := fg.newLabel()
	if fg.compileIfChain(endBB) {
		fg.startBlock(endBB)
	}
}

// compileIfChain reports whether any arm of the chain branches to endBB.
func (fg *FuncGen) compileIfChain(endBB string) bool {
	fg.advance() // 'if'
	trueBB := fg.newLabel()
	falseBB := fg.newLabel()
	fg.emitCond(trueBB, falseBB)

	fg.expect(lexer.THEN, diag.ParExpectKeyword, "expected 'then' after if condition")
	fg.skipNewlines()
	fg.expect(lexer.INDENT, diag.ParUnbalanced, "expected indented if-body")
	fg.startBlock(trueBB)
	fg.compileBlockUntilDedent()
	reached := !fg.terminated
	if !fg.terminated {
		fg.branch(endBB)
	}
	fg.expect(lexer.DEDENT, diag.ParUnbalanced, "expected matching DEDENT closing if-body")
	fg.skipNewlines()

	fg.startBlock(falseBB)
	if fg.cur().Kind == lexer.ELSE {
		fg.advance()
		if fg.cur().Kind == lexer.IF {
			return fg.compileIfChain(endBB) || reached
		}
		fg.skipNewlines()
		fg.expect(lexer.INDENT, diag.ParUnbalanced, "expected indented else-body")
		fg.compileBlockUntilDedent()
		reached = reached || !fg.terminated
		if !fg.terminated {
			fg.branch(endBB)
		}
		fg.expect(lexer.DEDENT, diag.ParUnbalanced, "expected matching DEDENT closing else-body")
		return reached
	}
	fg.branch(endBB)
	return true
}

// compileWhile compiles `while <cond> do` / the infinite-loop special
// case `while 1 do` (spec.md §4.6: no end_bb, a trailing return is not
// required).
func (fg *FuncGen) compileWhile() {
	fg.advance() // 'while'
	condBB := fg.newLabel()
	bodyBB := fg.newLabel()

	infinite := fg.cur().Kind == lexer.INT && fg.cur().Text(fg.src) == "1" && fg.peek().Kind == lexer.DO
	var endBB string
	if !infinite {
		endBB = fg.newLabel()
	}

	fg.branch(condBB)
	fg.startBlock(condBB)
	if infinite {
		fg.advance() // '1'
		fg.expect(lexer.DO, diag.ParExpectKeyword, "expected 'do' after loop condition")
		fg.branch(bodyBB)
	} else {
		fg.emitCond(bodyBB, endBB)
		fg.expect(lexer.DO, diag.ParExpectKeyword, "expected 'do' after loop condition")
	}

	fg.skipNewlines()
	fg.expect(lexer.INDENT, diag.ParUnbalanced, "expected indented loop body")
	fg.startBlock(bodyBB)
	fg.loops = append(fg.loops, loopCtx{condBB: condBB, endBB: endBB})
	fg.compileBlockUntilDedent()
	fg.loops = fg.loops[:len(fg.loops)-1]
	if !fg.terminated {
		fg.branch(condBB)
	}
	fg.expect(lexer.DEDENT, diag.ParUnbalanced, "expected matching DEDENT closing loop body")

	if !infinite {
		fg.startBlock(endBB)
	}
}

func (fg *FuncGen) compileBreak() {
	fg.advance()
	if len(fg.loops) == 0 {
		fg.errorHere(diag.ParUnexpected, "'break' outside a loop")
		return
	}
	top := fg.loops[len(fg.loops)-1]
	if top.endBB == "" {
		fg.errorHere(diag.ParUnexpected, "'break' has no target in an infinite loop with no end label")
		return
	}
	fg.branch(top.endBB)
}

func (fg *FuncGen) compileContinue() {
	fg.advance()
	if len(fg.loops) == 0 {
		fg.errorHere(diag.ParUnexpected, "'continue' outside a loop")
		return
	}
	fg.branch(fg.loops[len(fg.loops)-1].condBB)
}

// compileReturn parses `return [expr]` (spec.md §4.6): a bare `return`
// requires a void return type; otherwise the expression is cast to the
// declared return type before the terminator is emitted.
func (fg *FuncGen) compileReturn() {
	fg.advance()
	if fg.cur().Kind == lexer.NEWLINE || fg.atEnd() {
		if fg.fn.ReturnType.Kind != types.KVoid {
			fg.errorHere(diag.SemMissingReturn, "missing return value for non-void function")
		}
		fg.emit("  ret void\n")
		fg.terminated = true
		return
	}
	v := fg.parseExpr(0)
	v = fg.coerceAssign(v, fg.fn.ReturnType)
	fg.emit("  ret %s %s\n", llvmType(fg.fn.ReturnType), v.Operand())
	fg.terminated = true
}
