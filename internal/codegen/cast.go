package codegen

import (
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/types"
)

// Load synthesizes an rvalue from v: a KindLocal/KindTemp-holding-address
// lvalue is read through a `load`; anything already an rvalue passes
// through unchanged (spec.md's lvalue/rvalue glossary entry).
func (fg *FuncGen) Load(v Value) Value {
	if !v.IsLvalue {
		return v
	}
	llty := llvmType(v.Type)
	t := fg.newTemp(v.Type)
	fg.emit("  %s = load %s, ptr %s\n", t.Name, llty, v.Name)
	return t
}

// coerceAssign applies the one implicit-cast family spec.md §4.6 names
// outside arithmetic: a mutable pointer converts to an immutable one of
// the same pointee for free; the reverse is only legal from the null
// literal. Any other mismatch between from.Type and target is reported
// and a placeholder of the target type is returned so emission continues
// (spec.md §4.6 failure-handling: keep emitting locally-plausible code).
func (fg *FuncGen) coerceAssign(from Value, target *types.Type) Value {
	from = fg.Load(from)
	if from.Type.Equal(target) {
		return from
	}
	if from.Type.IsPointer() && target.IsPointer() && from.Type.Pointee.Equal(target.Pointee) {
		if from.Type.Mutable && !target.Mutable {
			return fg.bitcastPointer(from, target)
		}
		if !from.Type.Mutable && target.Mutable && from.Kind == KindNull {
			return fg.bitcastPointer(from, target)
		}
		fg.errorHere(diag.SemTypeMismatch, "cannot implicitly convert immutable pointer to mutable")
		return Value{Type: target, Kind: KindNull}
	}
	if from.Kind == KindNull && target.IsPointer() {
		return Value{Type: target, Kind: KindNull, Name: "null"}
	}
	fg.errorHere(diag.SemTypeMismatch, "type mismatch: cannot assign value to declared type")
	return fg.explicitCast(from, target)
}

// bitcastPointer re-types a pointer operand without emitting an
// instruction: LLVM's opaque `ptr` type makes mutable/immutable pointer
// casts a compile-time-only distinction in this dialect.
func (fg *FuncGen) bitcastPointer(v Value, target *types.Type) Value {
	v.Type = target
	return v
}

// explicitCast implements the int<->int, int<->float, bool<->int,
// ptr->bool cast matrix (spec.md §4.6). Struct values are never cast;
// only pointer-to-struct is legal and that falls out of the pointer
// branch (pointer casts are nops in the opaque-ptr dialect).
func (fg *FuncGen) explicitCast(v Value, target *types.Type) Value {
	v = fg.Load(v)
	from := v.Type
	if from.Equal(target) {
		return v
	}
	switch {
	case from.IsInt() && target.IsInt():
		return fg.castIntToInt(v, target)
	case from.IsInt() && target.IsFloat():
		op := "sitofp"
		if !from.Signed {
			op = "uitofp"
		}
		return fg.unaryConvert(v, op, target)
	case from.IsFloat() && target.IsInt():
		op := "fptosi"
		if !target.Signed {
			op = "fptoui"
		}
		return fg.unaryConvert(v, op, target)
	case from.IsFloat() && target.IsFloat():
		if target.Bits > from.Bits {
			return fg.unaryConvert(v, "fpext", target)
		}
		return fg.unaryConvert(v, "fptrunc", target)
	case from.Kind == types.KBool && target.IsInt():
		return fg.unaryConvert(v, "zext", target)
	case from.IsInt() && target.Kind == types.KBool:
		return fg.compareToZero(v, "ne")
	case from.IsFloat() && target.Kind == types.KBool:
		return fg.compareFloatToZero(v, "one")
	case from.IsPointer() && target.Kind == types.KBool:
		t := fg.newTemp(types.Bool())
		fg.emit("  %s = icmp ne ptr %s, null\n", t.Name, v.Operand())
		return t
	case from.IsPointer() && target.IsPointer():
		v.Type = target
		return v
	}
	fg.errorHere(diag.SemTypeMismatch, "unsupported cast")
	return Value{Type: target, Kind: KindIntConst}
}

func (fg *FuncGen) castIntToInt(v Value, target *types.Type) Value {
	if v.Type.Bits == target.Bits {
		v.Type = target
		return v
	}
	if v.Type.Bits > target.Bits {
		return fg.unaryConvert(v, "trunc", target)
	}
	if v.Type.Signed {
		return fg.unaryConvert(v, "sext", target)
	}
	return fg.unaryConvert(v, "zext", target)
}

func (fg *FuncGen) unaryConvert(v Value, op string, target *types.Type) Value {
	t := fg.newTemp(target)
	fg.emit("  %s = %s %s %s to %s\n", t.Name, op, llvmType(v.Type), v.Operand(), llvmType(target))
	return t
}

func (fg *FuncGen) compareToZero(v Value, pred string) Value {
	t := fg.newTemp(types.Bool())
	fg.emit("  %s = icmp %s %s %s, 0\n", t.Name, pred, llvmType(v.Type), v.Operand())
	return t
}

func (fg *FuncGen) compareFloatToZero(v Value, pred string) Value {
	t := fg.newTemp(types.Bool())
	fg.emit("  %s = fcmp %s %s %s, 0.0\n", t.Name, pred, llvmType(v.Type), v.Operand())
	return t
}

// llvmType renders a types.Type in the textual SSA dialect (spec.md §6).
func llvmType(t *types.Type) string {
	switch t.Kind {
	case types.KVoid:
		return "void"
	case types.KBool:
		return "i1"
	case types.KInt:
		return intLLVM(t.Bits)
	case types.KFloat:
		if t.Bits == 32 {
			return "float"
		}
		return "double"
	case types.KPointer:
		return "ptr"
	case types.KStruct:
		return "ptr" // struct values are only ever referenced through a pointer
	}
	return "void"
}

func intLLVM(bits int) string {
	switch bits {
	case 8:
		return "i8"
	case 16:
		return "i16"
	case 32:
		return "i32"
	default:
		return "i64"
	}
}
