package codegen

import (
	"fmt"
	"strings"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/builtins"
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/sema"
	"github.com/0xSMW/aster/internal/types"
)

// Generator drives one compilation's code generation: it owns the module
// header/extern/string emission and dispatches each function body to its
// own FuncGen (spec.md §4.6-§4.7).
type Generator struct {
	src      string
	tokens   []lexer.Token
	interner *types.Interner
	resolver *sema.Resolver

	moduleDotted map[int]string
	entryModule  int
	pos          *diag.PositionResolver

	diags    *diag.Collector
	hadError bool

	consts map[string]*ast.Const // "module.name" -> const, for KindFunc-free const lookups
	funcs  []*ast.Func
	externDecls []*ast.Func

	usedCalloc bool
	usedMemcpy bool
	userCalloc bool
	userMemcpy bool

	strConsts []stringConst
	strByText map[string]int

	localCounter int
}

// nextLocalID returns the next %lN stack-slot number, reset to zero at the
// start of each function (Generator.generateFunc) so slot numbering is
// local to its own function body.
func (g *Generator) nextLocalID() int {
	id := g.localCounter
	g.localCounter++
	return id
}

type stringConst struct {
	id    int
	bytes []byte
}

// New builds a Generator over one parsed program and its tagged token
// stream (the same stream internal/parser consumed — function bodies are
// reparsed directly from it, per spec.md §4.3). pos resolves a token's byte
// offset to a module-relative file/line/col for diagnostics (spec.md §7);
// it may be nil, in which case diagnostics carry a zero-value Span.
func New(src string, tokens []lexer.Token, in *types.Interner, resolver *sema.Resolver, moduleDotted map[int]string, entryModule int, pos *diag.PositionResolver) *Generator {
	g := &Generator{
		src:          src,
		tokens:       tokens,
		interner:     in,
		resolver:     resolver,
		moduleDotted: moduleDotted,
		entryModule:  entryModule,
		pos:          pos,
		diags:        diag.NewCollector(),
		consts:       map[string]*ast.Const{},
		strByText:    map[string]int{},
	}
	return g
}

// Diagnostics returns the diagnostics collected during code generation.
func (g *Generator) Diagnostics() *diag.Collector { return g.diags }

// HadError reports whether any structural error was recorded (spec.md
// §4.6's failure-handling: cache storage is suppressed and compilation
// fails once this is true, even though emission itself continued).
func (g *Generator) HadError() bool { return g.hadError || g.diags.HadError() }

// Generate lowers every function in prog to textual SSA (spec.md §4.6)
// and returns the complete module text (spec.md §6's textual dialect).
func (g *Generator) Generate(prog *ast.Program) string {
	for _, c := range prog.Consts {
		g.consts[constKey(c.Module, c.Name)] = c
	}
	for _, f := range prog.Funcs {
		if f.IsExtern {
			g.externDecls = append(g.externDecls, f)
			switch f.Name {
			case "calloc":
				g.userCalloc = true
			case "memcpy":
				g.userMemcpy = true
			}
		} else {
			g.funcs = append(g.funcs, f)
		}
	}

	var body strings.Builder
	for _, f := range g.funcs {
		g.generateFunc(&body, f)
	}

	var out strings.Builder
	out.WriteString("; ModuleID = 'aster'\n")
	out.WriteString(`source_filename = "aster"` + "\n\n")

	if g.usedCalloc && !g.userCalloc {
		out.WriteString("declare noalias ptr @calloc(i64, i64)\n")
	}
	if g.usedMemcpy && !g.userMemcpy {
		out.WriteString("declare ptr @memcpy(ptr, ptr, i64)\n")
	}
	for _, f := range g.externDecls {
		out.WriteString(externSignature(f))
	}
	out.WriteString("\n")
	out.WriteString(body.String())

	if len(g.strConsts) > 0 {
		out.WriteString("\n")
		for _, s := range g.strConsts {
			out.WriteString(stringGlobal(s))
		}
	}
	return out.String()
}

func constKey(module int, name string) string {
	return fmt.Sprintf("%d.%s", module, name)
}

// constValue renders a parsed const declaration as a codegen Value.
func (g *Generator) constValue(c *ast.Const) Value {
	switch c.Kind {
	case ast.ConstInt:
		return Int(c.Type, c.IntVal)
	case ast.ConstFloat:
		return Float(c.Type, c.FloatText)
	case ast.ConstString:
		return g.internBytes(c.StrVal)
	}
	return Int(types.I32(), 0)
}

// internString interns a lexed string-literal token's quoted text
// (already containing escape sequences) as a NUL-terminated byte string.
func (g *Generator) internString(quoted string) Value {
	unescaped := unescapeString(quoted)
	return g.internBytes(append([]byte(unescaped), 0))
}

func (g *Generator) internBytes(b []byte) Value {
	key := string(b)
	id, ok := g.strByText[key]
	if !ok {
		id = len(g.strConsts)
		g.strByText[key] = id
		g.strConsts = append(g.strConsts, stringConst{id: id, bytes: b})
	}
	return Value{Type: g.interner.Pointer(types.U8(), false), Kind: KindTemp, Name: fmt.Sprintf("@.str%d", id)}
}

func unescapeString(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' {
		tok = tok[1 : len(tok)-1]
	}
	return strings.ReplaceAll(strings.ReplaceAll(tok, `\"`, `"`), `\n`, "\n")
}

// externSignature renders `declare <ret-ty> @<name>(<param-tys>[, ...])`
// (spec.md §6). printf and the other variadicExterns allowlist members
// always carry a trailing `...`.
func externSignature(f *ast.Func) string {
	var params []string
	for _, p := range f.Params {
		params = append(params, llvmType(p.Type))
	}
	if f.IsVarargs {
		params = append(params, "...")
	}
	return fmt.Sprintf("declare %s @%s(%s)\n", llvmType(f.ReturnType), f.IRName, strings.Join(params, ", "))
}

// stringGlobal renders one private byte-array string constant with
// hex-escaped content (spec.md §4.7).
func stringGlobal(s stringConst) string {
	var hex strings.Builder
	for _, b := range s.bytes {
		fmt.Fprintf(&hex, "\\%02X", b)
	}
	return fmt.Sprintf("@.str%d = private unnamed_addr constant [%d x i8] c\"%s\"\n", s.id, len(s.bytes), hex.String())
}

// allocStatus reports whether calling fn is known to never allocate, used
// by the dry-run sink to forbid observable calls during type inference
// (spec.md §9's open question).
func allocStatus(fn *ast.Func) (mayAllocate bool, known bool) {
	if fn == nil {
		return true, false
	}
	if fn.IsExtern {
		if builtins.AllocatorSet[fn.Name] {
			return true, true
		}
		if builtins.Whitelist[fn.Name] {
			return false, true
		}
		return true, false
	}
	return fn.DirectAlloc, true
}
