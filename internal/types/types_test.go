package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveSingletonsAreIdentity(t *testing.T) {
	assert.Same(t, I32(), I32(), "I32() should return the identical singleton on each call")
	assert.Same(t, F64(), F64(), "F64() should return the identical singleton on each call")
	assert.False(t, I32().Equal(I64()), "I32 and I64 must not be equal")
	assert.True(t, I32().Equal(I32()), "I32 should equal itself")
}

func TestPointerInterning(t *testing.T) {
	in := NewInterner()
	a := in.Pointer(I32(), true)
	b := in.Pointer(I32(), true)
	assert.Same(t, a, b, "two Pointer() calls with the same (pointee, mutable) must return the identical *Type")

	c := in.Pointer(I32(), false)
	assert.NotSame(t, a, c, "mutable and immutable pointers to the same pointee must not be interned together")

	d := in.Pointer(I64(), true)
	assert.NotSame(t, a, d, "pointers to different pointees must not be interned together")
}

func TestStructLayoutBasic(t *testing.T) {
	// struct { a: i8; b: i32; c: i8 } -> a@0, b@4 (aligned up from 1), c@8; size 12 (align 4)
	layout := ComputeLayout([]FieldSpec{
		{Name: "a", Type: I8()},
		{Name: "b", Type: I32()},
		{Name: "c", Type: I8()},
	})
	require.Len(t, layout.Fields, 3)
	assert.Equal(t, 0, layout.Fields[0].Offset)
	assert.Equal(t, 4, layout.Fields[1].Offset)
	assert.Equal(t, 8, layout.Fields[2].Offset)
	assert.Equal(t, 12, layout.Size)
	assert.Equal(t, 4, layout.Align)
}

func TestStructLayoutIdempotent(t *testing.T) {
	fields := []FieldSpec{
		{Name: "x", Type: F64()},
		{Name: "y", Type: I8()},
		{Name: "z", Type: I32()},
	}
	l1 := ComputeLayout(fields)
	l2 := ComputeLayout(fields)
	assert.Equal(t, l1.Size, l2.Size, "recomputing layout must be idempotent")
	assert.Equal(t, l1.Align, l2.Align, "recomputing layout must be idempotent")
	require.Len(t, l2.Fields, len(l1.Fields))
	for i := range l1.Fields {
		assert.Equalf(t, l1.Fields[i].Offset, l2.Fields[i].Offset, "field %d offset mismatch across recompute", i)
	}
}

func TestFieldOffsetsMonotonicallyNonDecreasing(t *testing.T) {
	fields := []FieldSpec{
		{Name: "a", Type: I64()},
		{Name: "b", Type: I8()},
		{Name: "c", Type: I16()},
		{Name: "d", Type: I32()},
	}
	layout := ComputeLayout(fields)
	for i := 1; i < len(layout.Fields); i++ {
		assert.GreaterOrEqualf(t, layout.Fields[i].Offset, layout.Fields[i-1].Offset,
			"offsets not monotone: field %d offset %d < field %d offset %d",
			i, layout.Fields[i].Offset, i-1, layout.Fields[i-1].Offset)
	}
}

func TestRegisterHostStructs(t *testing.T) {
	in := NewInterner()
	RegisterHostStructs(in)
	for _, name := range []string{"PollFd", "TimeSpec", "Stat", "AttrList", "AttrRef", "FTS", "FTSENT"} {
		_, ok := in.Struct(name)
		assert.Truef(t, ok, "expected host struct %q to be registered", name)
	}
}
