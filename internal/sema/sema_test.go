package sema

import (
	"testing"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/types"
)

func TestResolveConstInOwnModule(t *testing.T) {
	prog := &ast.Program{Consts: []*ast.Const{
		{Name: "MAX", Module: 0, Type: types.I32(), Kind: ast.ConstInt, IntVal: 10},
	}}
	r := NewResolver(prog, map[string]int{"main": 0}, nil)
	res, err := r.ResolveBeyondLocal(0, "MAX")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != ResConst || res.Const.IntVal != 10 {
		t.Fatalf("res = %+v", res)
	}
}

func TestResolveAmbiguousConstAcrossImports(t *testing.T) {
	prog := &ast.Program{Consts: []*ast.Const{
		{Name: "MAX", Module: 1, Type: types.I32(), IntVal: 10},
		{Name: "MAX", Module: 2, Type: types.I32(), IntVal: 20},
	}}
	dotted := map[string]int{"main": 0, "a": 1, "b": 2}
	imports := map[int][]string{0: {"a", "b"}}
	r := NewResolver(prog, dotted, imports)
	_, err := r.ResolveBeyondLocal(0, "MAX")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
}

func TestResolveUnknownIdentifier(t *testing.T) {
	r := NewResolver(&ast.Program{}, map[string]int{"main": 0}, nil)
	_, err := r.ResolveBeyondLocal(0, "frobnicate")
	if err == nil {
		t.Fatal("expected unknown-identifier error")
	}
}

func TestResolveBuiltinConstant(t *testing.T) {
	r := NewResolver(&ast.Program{}, map[string]int{"main": 0}, nil)
	res, err := r.ResolveBeyondLocal(0, "O_RDONLY")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != ResBuiltin {
		t.Fatalf("res.Kind = %v, want ResBuiltin", res.Kind)
	}
}

func TestResolveModuleQualificationThroughNamespace(t *testing.T) {
	// core.io is imported by main; "core" has no file module of its own, so
	// step 7 must resolve to the namespace prefix, and a further
	// ResolveQualified("core", "io") hop must reach the real leaf module.
	prog := &ast.Program{Funcs: []*ast.Func{
		{Name: "read", Module: 2, IRName: "core_io_read"},
	}}
	dotted := map[string]int{"main": 0, "core.io": 2}
	imports := map[int][]string{0: {"core.io"}}
	r := NewResolver(prog, dotted, imports)

	res, err := r.ResolveBeyondLocal(0, "core")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != ResModule || res.ModuleDotted != "core" {
		t.Fatalf("res = %+v, want ResModule \"core\"", res)
	}

	res, err = r.ResolveQualified("core", "io")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != ResModule || res.ModuleDotted != "core.io" {
		t.Fatalf("res = %+v, want ResModule \"core.io\"", res)
	}

	res, err = r.ResolveQualified("core.io", "read")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != ResFunc || res.Func.IRName != "core_io_read" {
		t.Fatalf("res = %+v, want ResFunc core_io_read", res)
	}
}

func TestResolveQualifiedUnknownMember(t *testing.T) {
	dotted := map[string]int{"main": 0, "core.io": 2}
	r := NewResolver(&ast.Program{}, dotted, nil)
	_, err := r.ResolveQualified("core.io", "nope")
	if err == nil {
		t.Fatal("expected unknown-identifier error")
	}
}

func TestNoallocDirectViolation(t *testing.T) {
	funcs := map[int]*ast.Func{
		0: {ID: 0, Name: "a", IsNoalloc: true, DirectAlloc: true},
	}
	reports := AnalyzeNoalloc(funcs)
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
}

func TestNoallocTransitiveViolation(t *testing.T) {
	// a (noalloc) -> b -> c -> malloc(extern, allocator)
	malloc := &ast.Func{ID: 3, Name: "malloc", IsExtern: true}
	c := &ast.Func{ID: 2, Name: "c"}
	c.AddCallee(3)
	b := &ast.Func{ID: 1, Name: "b"}
	b.AddCallee(2)
	a := &ast.Func{ID: 0, Name: "a", IsNoalloc: true}
	a.AddCallee(1)

	funcs := map[int]*ast.Func{0: a, 1: b, 2: c, 3: malloc}
	reports := AnalyzeNoalloc(funcs)
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1 (only a should violate)", len(reports))
	}
}

func TestNoallocWhitelistedHelperDoesNotViolate(t *testing.T) {
	memcpy := &ast.Func{ID: 2, Name: "memcpy", IsExtern: true}
	b := &ast.Func{ID: 1, Name: "b"}
	b.AddCallee(2)
	a := &ast.Func{ID: 0, Name: "a", IsNoalloc: true}
	a.AddCallee(1)

	funcs := map[int]*ast.Func{0: a, 1: b, 2: memcpy}
	reports := AnalyzeNoalloc(funcs)
	if len(reports) != 0 {
		t.Fatalf("reports = %d, want 0 (memcpy is whitelisted)", len(reports))
	}
}

func TestNoallocSkipsSentinelCallee(t *testing.T) {
	a := &ast.Func{ID: 0, Name: "a", IsNoalloc: true}
	a.AddCallee(-1) // sentinel calloc/memcpy id
	funcs := map[int]*ast.Func{0: a}
	reports := AnalyzeNoalloc(funcs)
	if len(reports) != 0 {
		t.Fatalf("reports = %d, want 0 (sentinel callee must be ignored)", len(reports))
	}
}
