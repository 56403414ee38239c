// Package types implements aster's tagged-union type system: primitives,
// pointers (with mutability), structs, and void. It follows the teacher's
// types.go/kinds.go shape — a single tag enum plus a flat payload, no
// interfaces-as-variants — so comparisons and switches stay match-driven
// per spec.md §9 rather than dynamically dispatched.
package types

// Kind is the primitive tag of a Type.
type Kind int

const (
	KVoid Kind = iota
	KBool
	KInt
	KFloat
	KPointer
	KStruct
)

// Type is the tagged union. Only the fields relevant to Kind are populated;
// callers must switch on Kind before reading payload fields.
type Type struct {
	Kind Kind

	// KInt
	Bits   int
	Signed bool

	// KFloat reuses Bits (32 or 64).

	// KPointer
	Pointee *Type
	Mutable bool

	// KStruct
	StructName string
	Layout     *Layout
}

// Layout is a struct's computed field placement.
type Layout struct {
	Size   int
	Align  int
	Fields []FieldType
}

// FieldType is one laid-out struct field.
type FieldType struct {
	Name   string
	Type   *Type
	Offset int
}

// Singletons for process-lifetime primitive types, per spec.md §9: these
// must be safe to compare by pointer identity, so every accessor below
// returns the same *Type for the same (kind, bits, signedness).
var (
	voidT = &Type{Kind: KVoid}
	boolT = &Type{Kind: KBool}

	intTypes = map[[2]int]*Type{} // [bits][signed01] -> *Type
	fltTypes = map[int]*Type{}    // bits -> *Type
)

func init() {
	for _, bits := range []int{8, 16, 32, 64} {
		intTypes[[2]int{bits, 1}] = &Type{Kind: KInt, Bits: bits, Signed: true}
		intTypes[[2]int{bits, 0}] = &Type{Kind: KInt, Bits: bits, Signed: false}
	}
	fltTypes[32] = &Type{Kind: KFloat, Bits: 32}
	fltTypes[64] = &Type{Kind: KFloat, Bits: 64}
}

// Void returns the singleton void type.
func Void() *Type { return voidT }

// Bool returns the singleton bool type.
func Bool() *Type { return boolT }

// Int returns the singleton integer type for the given bit width and
// signedness. bits must be one of 8, 16, 32, 64.
func Int(bits int, signed bool) *Type {
	s := 0
	if signed {
		s = 1
	}
	t, ok := intTypes[[2]int{bits, s}]
	if !ok {
		panic("types: unsupported integer width")
	}
	return t
}

// Float returns the singleton float type for the given bit width (32/64).
func Float(bits int) *Type {
	t, ok := fltTypes[bits]
	if !ok {
		panic("types: unsupported float width")
	}
	return t
}

// I8/I16/.../F64 are convenience accessors matching the source grammar's
// primitive names.
func I8() *Type    { return Int(8, true) }
func I16() *Type   { return Int(16, true) }
func I32() *Type   { return Int(32, true) }
func I64() *Type   { return Int(64, true) }
func U8() *Type    { return Int(8, false) }
func U16() *Type   { return Int(16, false) }
func U32() *Type   { return Int(32, false) }
func U64() *Type   { return Int(64, false) }
func Usize() *Type { return Int(64, false) }
func Isize() *Type { return Int(64, true) }
func F32() *Type   { return Float(32) }
func F64() *Type   { return Float(64) }

// IsFloat reports whether t is a KFloat type.
func (t *Type) IsFloat() bool { return t != nil && t.Kind == KFloat }

// IsInt reports whether t is a KInt type.
func (t *Type) IsInt() bool { return t != nil && t.Kind == KInt }

// IsPointer reports whether t is a KPointer type.
func (t *Type) IsPointer() bool { return t != nil && t.Kind == KPointer }

// IsStruct reports whether t is a KStruct type.
func (t *Type) IsStruct() bool { return t != nil && t.Kind == KStruct }

// Equal reports structural-and-identity equality appropriate to each kind:
// pointers and structs compare by identity (interning/registration makes
// this sound), primitives by value.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KVoid, KBool:
		return true
	case KInt:
		return t.Bits == o.Bits && t.Signed == o.Signed
	case KFloat:
		return t.Bits == o.Bits
	case KPointer, KStruct:
		// these are interned/registered; reaching here with t != o means
		// genuinely different types.
		return false
	}
	return false
}
