package types

import "sync"

// pointerKey is the composite key pointer types are interned by: pointee
// identity plus mutability, per spec.md invariant (iii). Using the pointee
// *Type itself as part of the map key relies on primitives/pointers/structs
// already being identity-stable (singletons or registered once).
type pointerKey struct {
	pointee *Type
	mutable bool
}

// Interner owns the pointer-interning table, following the teacher's
// env.go pattern: a map keyed by a composite struct, guarded by a mutex so
// a single compilation's interning table can be shared across goroutines
// that merely read it (codegen is otherwise single-threaded per spec.md §5;
// the lock only protects the one-time population path).
type Interner struct {
	mu       sync.Mutex
	pointers map[pointerKey]*Type
	structs  map[string]*Type
}

// NewInterner returns an empty Interner, scoped to a single compilation.
func NewInterner() *Interner {
	return &Interner{
		pointers: make(map[pointerKey]*Type),
		structs:  make(map[string]*Type),
	}
}

// Pointer returns the canonical pointer type for (pointee, mutable),
// constructing it on first request. Two calls with the same arguments
// return the identical *Type value.
func (in *Interner) Pointer(pointee *Type, mutable bool) *Type {
	in.mu.Lock()
	defer in.mu.Unlock()
	key := pointerKey{pointee: pointee, mutable: mutable}
	if t, ok := in.pointers[key]; ok {
		return t
	}
	t := &Type{Kind: KPointer, Pointee: pointee, Mutable: mutable}
	in.pointers[key] = t
	return t
}

// RegisterStruct installs a named struct type under the given layout,
// returning the canonical *Type for subsequent lookups by name. Re-registering
// the same name is an error at the call site's discretion; RegisterStruct
// itself simply overwrites, matching the parser's single-definition-per-name
// duplicate check in internal/parser.
func (in *Interner) RegisterStruct(name string, layout *Layout) *Type {
	in.mu.Lock()
	defer in.mu.Unlock()
	t := &Type{Kind: KStruct, StructName: name, Layout: layout}
	in.structs[name] = t
	return t
}

// Struct looks up a previously registered struct type by name.
func (in *Interner) Struct(name string) (*Type, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	t, ok := in.structs[name]
	return t, ok
}
