package types

// AlignOf returns a type's C-like alignment requirement.
func AlignOf(t *Type) int {
	switch t.Kind {
	case KVoid:
		return 1
	case KBool:
		return 1
	case KInt:
		return t.Bits / 8
	case KFloat:
		return t.Bits / 8
	case KPointer:
		return 8
	case KStruct:
		if t.Layout == nil {
			return 1
		}
		return t.Layout.Align
	}
	return 1
}

// SizeOf returns a type's size in bytes.
func SizeOf(t *Type) int {
	switch t.Kind {
	case KVoid:
		return 0
	case KBool:
		return 1
	case KInt:
		return t.Bits / 8
	case KFloat:
		return t.Bits / 8
	case KPointer:
		return 8
	case KStruct:
		if t.Layout == nil {
			return 0
		}
		return t.Layout.Size
	}
	return 0
}

// FieldSpec is an unlayouted struct field, in declaration order, as handed
// to ComputeLayout by internal/parser right after a `struct` block is
// parsed.
type FieldSpec struct {
	Name string
	Type *Type
}

// ComputeLayout lays out fields C-style: each field placed at the next
// offset aligned to AlignOf(field), total size rounded up to the struct's
// max field alignment (spec.md §3). Recomputing layout for the same field
// list yields identical offsets and size (spec.md §8's idempotence
// property), since the function is pure over its input.
func ComputeLayout(fields []FieldSpec) *Layout {
	offset := 0
	maxAlign := 1
	out := make([]FieldType, 0, len(fields))
	for _, f := range fields {
		a := AlignOf(f.Type)
		if a > maxAlign {
			maxAlign = a
		}
		offset = alignUp(offset, a)
		out = append(out, FieldType{Name: f.Name, Type: f.Type, Offset: offset})
		offset += SizeOf(f.Type)
	}
	size := alignUp(offset, maxAlign)
	return &Layout{Size: size, Align: maxAlign, Fields: out}
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}
