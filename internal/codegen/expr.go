package codegen

import (
	"strconv"
	"strings"

	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/sema"
	"github.com/0xSMW/aster/internal/types"
)

// parseExpr implements the precedence-climbing binary-operator parser
// (spec.md §4.6's operator table), canonicalizing the two-token sequence
// `is not` to `!=` at the point it's recognized (the only lookahead the
// grammar needs beyond one token).
func (fg *FuncGen) parseExpr(minPrec int) Value {
	lhs := fg.parseUnary()
	for {
		op, width := fg.peekBinOp()
		p, ok := prec[op]
		if !ok || p < minPrec {
			return lhs
		}
		for i := 0; i < width; i++ {
			fg.advance()
		}
		rhs := fg.parseExpr(p + 1)
		lhs = fg.binaryOp(op, lhs, rhs)
	}
}

// peekBinOp looks at the current token (and its successor, for `is not`)
// and reports the effective binary operator kind plus how many tokens it
// consumes.
func (fg *FuncGen) peekBinOp() (lexer.Kind, int) {
	k := fg.cur().Kind
	if k == lexer.IS && fg.peek().Kind == lexer.NOT {
		return lexer.NEQ, 2
	}
	if !isBinaryOp(k) {
		return lexer.ILLEGAL, 0
	}
	return k, 1
}

// parseUnary handles `-`, `not`, address-of `&`, and dereference `*`.
func (fg *FuncGen) parseUnary() Value {
	switch fg.cur().Kind {
	case lexer.MINUS:
		fg.advance()
		v := fg.Load(fg.parseUnary())
		return fg.negate(v)
	case lexer.NOT:
		fg.advance()
		v := fg.Load(fg.parseUnary())
		t := fg.newTemp(types.Bool())
		fg.emit("  %s = xor i1 %s, 1\n", t.Name, v.Operand())
		return t
	case lexer.AMP:
		fg.advance()
		v := fg.parseUnary()
		if !v.IsLvalue {
			fg.errorHere(diag.SemNotAssignable, "address-of requires an lvalue")
			return v
		}
		return Value{Type: fg.gen.interner.Pointer(v.Type, v.IsAssignable), Kind: KindTemp, Name: v.Name}
	case lexer.STAR:
		fg.advance()
		v := fg.Load(fg.parseUnary())
		if !v.Type.IsPointer() {
			fg.errorHere(diag.SemTypeMismatch, "dereference requires a pointer")
			return v
		}
		return Value{Type: v.Type.Pointee, Kind: KindTemp, Name: v.Operand(), IsLvalue: true, IsAssignable: v.Type.Mutable}
	default:
		return fg.parsePostfix(fg.parsePrimary())
	}
}

func (fg *FuncGen) negate(v Value) Value {
	if v.Type.IsFloat() {
		t := fg.newTemp(v.Type)
		fg.emit("  %s = fneg %s %s\n", t.Name, llvmType(v.Type), v.Operand())
		return t
	}
	t := fg.newTemp(v.Type)
	fg.emit("  %s = sub %s 0, %s\n", t.Name, llvmType(v.Type), v.Operand())
	return t
}

// parsePostfix handles `p[i]`, `p.field`, and `f(args)` chained
// left-to-right after a primary.
func (fg *FuncGen) parsePostfix(v Value) Value {
	for {
		switch fg.cur().Kind {
		case lexer.LBRACK:
			fg.advance()
			idx := fg.Load(fg.parseExpr(0))
			fg.expect(lexer.RBRACK, diag.ParUnbalanced, "expected ']' closing index expression")
			v = fg.index(v, idx)
		case lexer.DOT:
			fg.advance()
			nameTok, ok := fg.expect(lexer.IDENT, diag.ParExpectKeyword, "expected field name after '.'")
			if !ok {
				return v
			}
			if v.Kind == KindModule {
				v = fg.moduleAccess(v, nameTok.Text(fg.src))
			} else {
				v = fg.field(v, nameTok.Text(fg.src))
			}
		case lexer.LPAREN:
			if v.Kind != KindFunc {
				return v
			}
			v = fg.call(v)
		default:
			return v
		}
	}
}

// index implements `p[i]` (spec.md §4.6): requires a pointer base; `p[0]`
// is the *p fast path (a constant-zero index elides the GEP entirely).
func (fg *FuncGen) index(base Value, idx Value) Value {
	base = fg.Load(base)
	if !base.Type.IsPointer() {
		fg.errorHere(diag.SemTypeMismatch, "index requires a pointer base")
		return base
	}
	if idx.Kind == KindIntConst && idx.IntVal == 0 {
		return Value{Type: base.Type.Pointee, Kind: KindTemp, Name: base.Operand(), IsLvalue: true, IsAssignable: base.Type.Mutable}
	}
	t := fg.scaledElementPtr(base, idx)
	return Value{Type: base.Type.Pointee, Kind: KindTemp, Name: t.Name, IsLvalue: true, IsAssignable: base.Type.Mutable}
}

// field implements struct member access: byte-addressed via a
// compile-time multiply by the struct size (trivial here — the field
// offset is already a compile-time constant) followed by a GEP.
// Assignability inherits from the base lvalue (spec.md §4.6).
func (fg *FuncGen) field(base Value, name string) Value {
	baseType := base.Type
	if baseType.IsPointer() {
		baseType = baseType.Pointee
	} else if !base.IsLvalue {
		fg.errorHere(diag.SemNotAssignable, "field access requires a struct lvalue")
		return base
	}
	if !baseType.IsStruct() {
		fg.errorHere(diag.SemTypeMismatch, "field access requires a struct type")
		return base
	}
	var offset int
	var fieldType *types.Type
	found := false
	for _, f := range baseType.Layout.Fields {
		if f.Name == name {
			offset, fieldType, found = f.Offset, f.Type, true
			break
		}
	}
	if !found {
		fg.errorHere(diag.SemUnknownIdent, "unknown field "+name)
		return base
	}
	addr := base
	if base.IsLvalue && !base.Type.IsPointer() {
		addr = Value{Type: fg.gen.interner.Pointer(baseType, base.IsAssignable), Kind: KindTemp, Name: base.Name}
	}
	t := fg.newTemp(fg.gen.interner.Pointer(fieldType, base.IsAssignable))
	fg.emit("  %s = getelementptr i8, ptr %s, i64 %d\n", t.Name, addr.Operand(), offset)
	return Value{Type: fieldType, Kind: KindTemp, Name: t.Name, IsLvalue: true, IsAssignable: base.IsAssignable}
}

// moduleAccess implements one `.`-hop of a module access chain (spec.md
// §3): v.name resolves to a deeper namespace/submodule, a const, or a func
// defined directly in v's module.
func (fg *FuncGen) moduleAccess(v Value, name string) Value {
	res, err := fg.gen.resolver.ResolveQualified(v.ModuleDotted, name)
	if err != nil {
		fg.reportResolveErr(err)
		return Int(types.I32(), 0)
	}
	switch res.Kind {
	case sema.ResConst:
		return fg.gen.constValue(res.Const)
	case sema.ResFunc:
		return Value{Kind: KindFunc, FuncIRName: res.Func.IRName, FuncDecl: res.Func, Type: res.Func.ReturnType}
	case sema.ResModule:
		return Value{Kind: KindModule, ModuleDotted: res.ModuleDotted}
	}
	fg.errorHere(diag.SemUnknownIdent, "unknown member "+name)
	return Int(types.I32(), 0)
}

// parsePrimary handles literals, identifiers (local/param/const/func/
// module), parenthesized sub-expressions, and `true`/`false`/`null`.
func (fg *FuncGen) parsePrimary() Value {
	t := fg.cur()
	switch t.Kind {
	case lexer.INT:
		fg.advance()
		text := t.Text(fg.src)
		base := 10
		if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
			base = 16
			text = text[2:]
		}
		v, err := strconv.ParseInt(text, base, 64)
		if err != nil {
			fg.errorHere(diag.ParBadLiteral, "invalid integer literal")
			return Int(types.I32(), 0)
		}
		return Int(types.I32(), v)
	case lexer.FLOAT:
		fg.advance()
		return Float(types.F64(), t.Text(fg.src))
	case lexer.STRING:
		fg.advance()
		return fg.gen.internString(t.Text(fg.src))
	case lexer.CHAR:
		fg.advance()
		return Int(types.I8(), int64(unquoteCharLit(t.Text(fg.src))))
	case lexer.TRUE:
		fg.advance()
		return Value{Type: types.Bool(), Kind: KindIntConst, IntVal: 1}
	case lexer.FALSE:
		fg.advance()
		return Value{Type: types.Bool(), Kind: KindIntConst, IntVal: 0}
	case lexer.NULL:
		fg.advance()
		return Null(fg.gen.interner.Pointer(types.Void(), true))
	case lexer.LPAREN:
		fg.advance()
		v := fg.parseExpr(0)
		fg.expect(lexer.RPAREN, diag.ParUnbalanced, "expected ')' closing parenthesized expression")
		return v
	case lexer.IDENT:
		fg.advance()
		return fg.resolveIdent(t.Text(fg.src), t.ModuleID)
	default:
		fg.errorHere(diag.ParUnexpected, "expected an expression")
		fg.advance()
		return Int(types.I32(), 0)
	}
}

func unquoteCharLit(tok string) byte {
	if len(tok) >= 3 && tok[0] == '\'' {
		inner := tok[1 : len(tok)-1]
		if strings.HasPrefix(inner, `\`) && len(inner) >= 2 {
			return inner[1]
		}
		if len(inner) > 0 {
			return inner[0]
		}
	}
	return 0
}

// resolveIdent implements name resolution steps 1-7 (spec.md §4.4): steps
// 1-2 (locals, params) are this package's own scope chain; steps 3-7 are
// delegated to internal/sema.
func (fg *FuncGen) resolveIdent(name string, moduleID int) Value {
	if v, ok := fg.scope.lookup(name); ok {
		return v
	}
	res, err := fg.gen.resolver.ResolveBeyondLocal(moduleID, name)
	if err != nil {
		fg.reportResolveErr(err)
		return Int(types.I32(), 0)
	}
	switch res.Kind {
	case sema.ResConst:
		return fg.gen.constValue(res.Const)
	case sema.ResFunc:
		return Value{Kind: KindFunc, FuncIRName: res.Func.IRName, FuncDecl: res.Func, Type: res.Func.ReturnType}
	case sema.ResBuiltin:
		return Int(res.Builtin.Type, res.Builtin.Value)
	case sema.ResModule:
		return Value{Kind: KindModule, ModuleDotted: res.ModuleDotted}
	}
	fg.errorHere(diag.SemUnknownIdent, "unknown identifier "+name)
	return Int(types.I32(), 0)
}
