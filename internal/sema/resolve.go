// Package sema implements aster's module-scoped name resolution (spec.md
// §4.4, steps 3-7 — locals and parameters, steps 1-2, are resolved by
// internal/codegen directly against its own scope stack before falling
// back here) and the `noalloc` transitive call-graph analysis (spec.md
// §4.5). The lookup-chain shape is adapted from the teacher's
// internal/types/env.go (an ordered chain of scopes, innermost queried
// first) generalized from lexical scoping to module scoping; the
// fixpoint worklist mirrors internal/link/topo.go's visited/worklist
// style.
package sema

import (
	"fmt"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/builtins"
	"github.com/0xSMW/aster/internal/diag"
)

// Kind identifies what an identifier resolved to beyond local scope.
type Kind int

const (
	ResNone Kind = iota
	ResConst
	ResFunc
	ResBuiltin
	ResModule
)

// Resolution is the result of resolving an identifier past locals/params.
type Resolution struct {
	Kind         Kind
	Const        *ast.Const
	Func         *ast.Func
	Builtin      *builtins.Constant
	ModuleDotted string
}

// Resolver answers module-scoped identifier lookups for every module in
// one assembled unit.
type Resolver struct {
	consts  map[int]map[string]*ast.Const
	funcs   map[int]map[string]*ast.Func
	imports map[int][]int // module id -> imported module ids, declaration order
	dotted  map[string]int
}

// NewResolver builds a Resolver from the parsed declaration set. dotted
// maps every module's dotted logical name to its id; imports maps a
// module id to the dotted names it directly imports (module.Info.Imports).
func NewResolver(prog *ast.Program, dotted map[string]int, importsByModule map[int][]string) *Resolver {
	r := &Resolver{
		consts:  map[int]map[string]*ast.Const{},
		funcs:   map[int]map[string]*ast.Func{},
		imports: map[int][]int{},
		dotted:  dotted,
	}
	for _, c := range prog.Consts {
		m := r.consts[c.Module]
		if m == nil {
			m = map[string]*ast.Const{}
			r.consts[c.Module] = m
		}
		m[c.Name] = c
	}
	for _, f := range prog.Funcs {
		m := r.funcs[f.Module]
		if m == nil {
			m = map[string]*ast.Func{}
			r.funcs[f.Module] = m
		}
		m[f.Name] = f
	}
	for mod, deps := range importsByModule {
		for _, d := range deps {
			if id, ok := dotted[d]; ok {
				r.imports[mod] = append(r.imports[mod], id)
			}
		}
	}
	return r
}

// ResolveBeyondLocal implements steps 3-7 of spec.md §4.4's resolution
// order for an identifier referenced in a function body belonging to
// module m. Steps 1-2 (locals, then parameters) are the caller's
// responsibility and must be tried before calling this.
func (r *Resolver) ResolveBeyondLocal(m int, name string) (Resolution, error) {
	// 3. Constant defined in m.
	if c, ok := r.consts[m][name]; ok {
		return Resolution{Kind: ResConst, Const: c}, nil
	}

	// 4. Constant defined in a module directly imported by m.
	if c, amb, ok := r.lookupConstInImports(m, name); ok {
		if amb {
			return Resolution{}, ambiguousError(name)
		}
		return Resolution{Kind: ResConst, Const: c}, nil
	}

	// 5. Function defined in m, then in imported modules.
	if f, ok := r.funcs[m][name]; ok {
		return Resolution{Kind: ResFunc, Func: f}, nil
	}
	if f, amb, ok := r.lookupFuncInImports(m, name); ok {
		if amb {
			return Resolution{}, ambiguousError(name)
		}
		return Resolution{Kind: ResFunc, Func: f}, nil
	}

	// 6. Host-provided built-in compile-time constants.
	if b, ok := builtins.Lookup(name); ok {
		return Resolution{Kind: ResBuiltin, Builtin: b}, nil
	}

	// 7. Module qualification: name must be the first segment of some
	// directly-imported module's dotted name. That first segment may be a
	// synthesized namespace (spec.md §3, e.g. `core` from `core.io`) rather
	// than the imported module itself, so the resolution names the segment,
	// not the dep's full dotted name — further segments are walked one at a
	// time by ResolveQualified.
	for _, dep := range r.imports[m] {
		for dotted, id := range r.dotted {
			if id == dep && firstSegment(dotted) == name {
				return Resolution{Kind: ResModule, ModuleDotted: name}, nil
			}
		}
	}

	return Resolution{}, unknownIdentError(name)
}

// ResolveQualified implements one more `.segment` hop of a module access
// chain after an initial KindModule value has been produced, either by
// ResolveBeyondLocal's step 7 or by a previous ResolveQualified call
// (spec.md §3's namespace-module traversal): candidate is first checked as
// a deeper submodule dotted name, then as a const, then as a func defined
// directly in moduleDotted.
func (r *Resolver) ResolveQualified(moduleDotted, name string) (Resolution, error) {
	candidate := moduleDotted + "." + name
	if _, ok := r.dotted[candidate]; ok {
		return Resolution{Kind: ResModule, ModuleDotted: candidate}, nil
	}
	id, ok := r.dotted[moduleDotted]
	if !ok {
		return Resolution{}, unknownIdentError(candidate)
	}
	if c, ok := r.consts[id][name]; ok {
		return Resolution{Kind: ResConst, Const: c}, nil
	}
	if f, ok := r.funcs[id][name]; ok {
		return Resolution{Kind: ResFunc, Func: f}, nil
	}
	return Resolution{}, unknownIdentError(candidate)
}

func (r *Resolver) lookupConstInImports(m int, name string) (*ast.Const, bool, bool) {
	var found *ast.Const
	count := 0
	for _, dep := range r.imports[m] {
		if c, ok := r.consts[dep][name]; ok {
			found = c
			count++
		}
	}
	if count == 0 {
		return nil, false, false
	}
	return found, count > 1, true
}

func (r *Resolver) lookupFuncInImports(m int, name string) (*ast.Func, bool, bool) {
	var found *ast.Func
	count := 0
	for _, dep := range r.imports[m] {
		if f, ok := r.funcs[dep][name]; ok {
			found = f
			count++
		}
	}
	if count == 0 {
		return nil, false, false
	}
	return found, count > 1, true
}

func firstSegment(dotted string) string {
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

func ambiguousError(name string) error {
	return diag.Wrap(diag.New(diag.PhaseSema, diag.SemAmbiguousName,
		fmt.Sprintf("reference to %q is ambiguous across imported modules", name)))
}

func unknownIdentError(name string) error {
	return diag.Wrap(diag.New(diag.PhaseSema, diag.SemUnknownIdent,
		fmt.Sprintf("unknown identifier %q", name)))
}
