package codegen

import (
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// binaryOp emits one non-short-circuit binary operator (spec.md §4.6's
// arithmetic semantics table). `and`/`or` never reach here: they are
// compiled exclusively through the short-circuit condition flattener in
// cond.go.
func (fg *FuncGen) binaryOp(op lexer.Kind, lhs, rhs Value) Value {
	lhs, rhs = fg.Load(lhs), fg.Load(rhs)

	if lhs.Type.IsPointer() || rhs.Type.IsPointer() {
		return fg.pointerArith(op, lhs, rhs)
	}
	if lhs.Type.IsFloat() || rhs.Type.IsFloat() {
		return fg.floatArith(op, lhs, rhs)
	}
	return fg.intArith(op, lhs, rhs)
}

// intArith widens both operands to the wider bit-width, preserving the
// left operand's signedness for the result type (spec.md §4.6).
func (fg *FuncGen) intArith(op lexer.Kind, lhs, rhs Value) Value {
	width := lhs.Type.Bits
	if rhs.Type.Bits > width {
		width = rhs.Type.Bits
	}
	resultType := types.Int(width, lhs.Type.Signed)
	lhs = fg.castIntToInt(lhs, resultType)
	rhs = fg.castIntToInt(rhs, resultType)

	if pred, ok := intComparePred(op, resultType.Signed); ok {
		t := fg.newTemp(types.Bool())
		fg.emit("  %s = icmp %s %s %s, %s\n", t.Name, pred, llvmType(resultType), lhs.Operand(), rhs.Operand())
		return t
	}

	mnem, ok := intOpMnemonic(op, resultType.Signed)
	if !ok {
		fg.errorHere(diag.SemTypeMismatch, "operator not valid for integer operands")
		return Int(resultType, 0)
	}
	t := fg.newTemp(resultType)
	fg.emit("  %s = %s %s %s, %s\n", t.Name, mnem, llvmType(resultType), lhs.Operand(), rhs.Operand())
	return t
}

func intOpMnemonic(op lexer.Kind, signed bool) (string, bool) {
	switch op {
	case lexer.PLUS:
		return "add", true
	case lexer.MINUS:
		return "sub", true
	case lexer.STAR:
		return "mul", true
	case lexer.SLASH:
		if signed {
			return "sdiv", true
		}
		return "udiv", true
	case lexer.PERCENT:
		if signed {
			return "srem", true
		}
		return "urem", true
	case lexer.AMP:
		return "and", true
	case lexer.BAR:
		return "or", true
	case lexer.CARET:
		return "xor", true
	case lexer.SHL:
		return "shl", true
	case lexer.SHR:
		if signed {
			return "ashr", true
		}
		return "lshr", true
	}
	return "", false
}

func intComparePred(op lexer.Kind, signed bool) (string, bool) {
	switch op {
	case lexer.EQ, lexer.IS:
		return "eq", true
	case lexer.NEQ:
		return "ne", true
	case lexer.LT:
		if signed {
			return "slt", true
		}
		return "ult", true
	case lexer.LTE:
		if signed {
			return "sle", true
		}
		return "ule", true
	case lexer.GT:
		if signed {
			return "sgt", true
		}
		return "ugt", true
	case lexer.GTE:
		if signed {
			return "sge", true
		}
		return "uge", true
	}
	return "", false
}

// floatArith promotes to 64-bit if either operand is 64-bit, else stays
// 32-bit (spec.md §9's settled f32/f32 rule), and tags every arithmetic
// op with LLVM's "contract" fast-math flag per spec.md §4.6.
func (fg *FuncGen) floatArith(op lexer.Kind, lhs, rhs Value) Value {
	width := 32
	if lhs.Type.Bits == 64 || rhs.Type.Bits == 64 {
		width = 64
	}
	resultType := types.Float(width)
	lhs = fg.explicitCast(lhs, resultType)
	rhs = fg.explicitCast(rhs, resultType)

	if pred, ok := floatComparePred(op); ok {
		t := fg.newTemp(types.Bool())
		fg.emit("  %s = fcmp %s %s %s, %s\n", t.Name, pred, llvmType(resultType), lhs.Operand(), rhs.Operand())
		return t
	}

	mnem, ok := floatOpMnemonic(op)
	if !ok {
		fg.errorHere(diag.SemTypeMismatch, "operator not valid for float operands")
		return Float(resultType, "0.0")
	}
	t := fg.newTemp(resultType)
	fg.emit("  %s = %s contract %s %s, %s\n", t.Name, mnem, llvmType(resultType), lhs.Operand(), rhs.Operand())
	return t
}

func floatOpMnemonic(op lexer.Kind) (string, bool) {
	switch op {
	case lexer.PLUS:
		return "fadd", true
	case lexer.MINUS:
		return "fsub", true
	case lexer.STAR:
		return "fmul", true
	case lexer.SLASH:
		return "fdiv", true
	}
	return "", false
}

func floatComparePred(op lexer.Kind) (string, bool) {
	switch op {
	case lexer.EQ, lexer.IS:
		return "oeq", true
	case lexer.NEQ:
		return "one", true
	case lexer.LT:
		return "olt", true
	case lexer.LTE:
		return "ole", true
	case lexer.GT:
		return "ogt", true
	case lexer.GTE:
		return "oge", true
	}
	return "", false
}

// pointerArith implements pointer+int, pointer-int (element-indexed GEP)
// and pointer-pointer (byte difference / element size) per spec.md §4.6.
func (fg *FuncGen) pointerArith(op lexer.Kind, lhs, rhs Value) Value {
	if op == lexer.EQ || op == lexer.NEQ || op == lexer.IS {
		pred, _ := intComparePred(op, false)
		t := fg.newTemp(types.Bool())
		fg.emit("  %s = icmp %s ptr %s, %s\n", t.Name, pred, lhs.Operand(), rhs.Operand())
		return t
	}
	if lhs.Type.IsPointer() && rhs.Type.IsPointer() {
		return fg.pointerDiff(lhs, rhs)
	}
	ptr, idx := lhs, rhs
	if rhs.Type.IsPointer() {
		ptr, idx = rhs, lhs
	}
	if op != lexer.PLUS && op != lexer.MINUS {
		fg.errorHere(diag.SemTypeMismatch, "only +/- are valid for pointer arithmetic")
		return ptr
	}
	offset := idx
	if op == lexer.MINUS {
		t := fg.newTemp(idx.Type)
		fg.emit("  %s = sub %s 0, %s\n", t.Name, llvmType(idx.Type), idx.Operand())
		offset = t
	}
	return fg.scaledElementPtr(ptr, offset)
}

// scaledElementPtr computes the address of ptr + idx elements. Struct
// pointees are byte-addressed: llvmType renders every struct as the opaque
// "ptr" element type (cast.go), which would stride a raw element-typed GEP
// by a pointer's own size instead of the struct's, so a compile-time
// multiply by the struct's real size precedes the GEP here (spec.md §4.6),
// mirroring field()'s `getelementptr i8, ptr ..., i64 <offset>` pattern.
// Non-struct pointees use a typed element-indexed GEP directly.
func (fg *FuncGen) scaledElementPtr(ptr, idx Value) Value {
	pointee := ptr.Type.Pointee
	if pointee.Kind == types.KStruct {
		size := types.SizeOf(pointee)
		byteOff := idx
		if size != 1 {
			t := fg.newTemp(idx.Type)
			fg.emit("  %s = mul %s %s, %d\n", t.Name, llvmType(idx.Type), idx.Operand(), size)
			byteOff = t
		}
		t := fg.newTemp(ptr.Type)
		fg.emit("  %s = getelementptr i8, ptr %s, %s %s\n", t.Name, ptr.Operand(), llvmType(byteOff.Type), byteOff.Operand())
		return t
	}
	t := fg.newTemp(ptr.Type)
	fg.emit("  %s = getelementptr %s, ptr %s, %s %s\n", t.Name, llvmType(pointee), ptr.Operand(), llvmType(idx.Type), idx.Operand())
	return t
}

// pointerDiff implements `p - q`: ptrtoint both sides, integer subtract,
// then signed-divide by the pointee's size, typed isize (spec.md scenario
// 5).
func (fg *FuncGen) pointerDiff(lhs, rhs Value) Value {
	isize := types.Isize()
	a := fg.newTemp(isize)
	fg.emit("  %s = ptrtoint ptr %s to %s\n", a.Name, lhs.Operand(), llvmType(isize))
	b := fg.newTemp(isize)
	fg.emit("  %s = ptrtoint ptr %s to %s\n", b.Name, rhs.Operand(), llvmType(isize))
	diffT := fg.newTemp(isize)
	fg.emit("  %s = sub %s %s, %s\n", diffT.Name, llvmType(isize), a.Operand(), b.Operand())
	elemSize := types.SizeOf(lhs.Type.Pointee)
	if elemSize <= 1 {
		return diffT
	}
	result := fg.newTemp(isize)
	fg.emit("  %s = sdiv %s %s, %d\n", result.Name, llvmType(isize), diffT.Operand(), elemSize)
	return result
}
