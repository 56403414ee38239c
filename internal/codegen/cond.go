package codegen

import (
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// emitCond compiles a boolean condition directly to branches (spec.md
// §4.6's short-circuit rule), never materializing an intermediate bool
// for the top-level `or`/`and`/`not` structure. The grammar is parsed
// right-recursively (or/and are logically associative, so the
// evaluation order this produces is still strictly left-to-right): each
// level creates a fresh "continue chain" label for the non-short-circuit
// branch, and wires it either into the next operand or, once no operand
// remains, directly to the caller's target with one unconditional jump.
func (fg *FuncGen) emitCond(trueBB, falseBB string) {
	fg.emitCondOr(trueBB, falseBB)
}

func (fg *FuncGen) emitCondOr(trueBB, falseBB string) {
	mid := fg.newLabel()
	fg.emitCondAnd(trueBB, mid)
	fg.startBlock(mid)
	if fg.cur().Kind == lexer.OR {
		fg.advance()
		fg.emitCondOr(trueBB, falseBB)
		return
	}
	fg.branch(falseBB)
}

func (fg *FuncGen) emitCondAnd(trueBB, falseBB string) {
	mid := fg.newLabel()
	fg.emitCondNot(mid, falseBB)
	fg.startBlock(mid)
	if fg.cur().Kind == lexer.AND {
		fg.advance()
		fg.emitCondAnd(trueBB, falseBB)
		return
	}
	fg.branch(trueBB)
}

// emitCondNot handles the unary `not`, swapping the caller's true/false
// targets (spec.md §4.6) and recursing so `not not x` is legal.
func (fg *FuncGen) emitCondNot(trueBB, falseBB string) {
	if fg.cur().Kind == lexer.NOT {
		fg.advance()
		fg.emitCondNot(falseBB, trueBB)
		return
	}
	fg.emitCondAtom(trueBB, falseBB)
}

// emitCondAtom parses one operand at a precedence strictly above `and`
// (spec.md §4.6: comparisons and everything tighter), evaluates it to a
// bool, and terminates the current block with the conditional branch.
func (fg *FuncGen) emitCondAtom(trueBB, falseBB string) {
	v := fg.toBool(fg.parseExpr(prec[lexer.EQ]))
	fg.emit("  br i1 %s, label %%%s, label %%%s\n", v.Operand(), trueBB, falseBB)
	fg.terminated = true
}

// toBool loads v and coerces it to bool via the same cast matrix ordinary
// expressions use (int/float/ptr -> bool, ≠0/≠null).
func (fg *FuncGen) toBool(v Value) Value {
	v = fg.Load(v)
	if v.Type.Kind == types.KBool {
		return v
	}
	return fg.explicitCast(v, types.Bool())
}
