package codegen

import (
	"strings"
	"testing"

	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/parser"
	"github.com/0xSMW/aster/internal/sema"
	"github.com/0xSMW/aster/internal/types"
)

func lexAll(src string) []lexer.Token {
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	return toks
}

// compile runs the full lex -> parse -> resolve -> codegen pipeline over a
// single-module program, the same shape asterc's build command drives.
func compile(t *testing.T, src string) (string, *Generator) {
	t.Helper()
	toks := lexAll(src)
	for i := range toks {
		toks[i].ModuleID = 0
	}
	in := types.NewInterner()
	dotted := map[int]string{0: "main"}
	pos := diag.NewPositionResolver(src, []diag.ModuleSpan{{RelPath: "main.as", StartOffset: 0}})
	p := parser.New(src, toks, in, dotted, 0, pos)
	prog := p.Parse()
	if p.Diagnostics().HadError() {
		t.Fatalf("parse errors: %+v", p.Diagnostics().Reports())
	}
	resolver := sema.NewResolver(prog, map[string]int{"main": 0}, nil)
	g := New(src, toks, in, resolver, dotted, 0, pos)
	out := g.Generate(prog)
	return out, g
}

func TestMinimalProgramShape(t *testing.T) {
	out, g := compile(t, "def main() returns i32\n    return 0\n")
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if !strings.Contains(out, "define i32 @main() {") {
		t.Fatalf("missing define line:\n%s", out)
	}
	if !strings.Contains(out, "entry:") {
		t.Fatalf("missing entry label:\n%s", out)
	}
	if !strings.Contains(out, "ret i32 0") {
		t.Fatalf("missing return:\n%s", out)
	}
	if !strings.HasPrefix(out, "; ModuleID = 'aster'\n") {
		t.Fatalf("missing module header:\n%s", out)
	}
}

func TestShortCircuitAndZeroFalsePathLoads(t *testing.T) {
	src := "def check(p is ptr of i32) returns bool\n" +
		"    if p is not null and *p == 42 then\n" +
		"        return true\n" +
		"    return false\n"
	out, g := compile(t, src)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	// the null-check's false branch must jump straight to the else arm
	// without ever reaching a load through p.
	idx := strings.Index(out, "icmp ne ptr")
	if idx < 0 {
		t.Fatalf("expected a null-check icmp:\n%s", out)
	}
	branchIdx := strings.Index(out[idx:], "br i1")
	if branchIdx < 0 {
		t.Fatalf("expected a conditional branch after the null check:\n%s", out)
	}
	afterBranch := out[idx+branchIdx:]
	nextLoad := strings.Index(afterBranch, "load")
	nextLabel := strings.Index(afterBranch, "\nbb")
	if nextLoad >= 0 && (nextLabel < 0 || nextLoad < nextLabel) {
		t.Fatalf("a load appeared before the next block boundary, short-circuit may be broken:\n%s", out)
	}
}

func TestStructPointerIndexIsByteScaled(t *testing.T) {
	// Triple is 12 bytes (3 x i32); llvmType renders any struct pointee as
	// the opaque "ptr" element type, so p[i] must multiply by the struct's
	// real size and GEP over i8, not stride by a bare pointer's 8 bytes.
	src := "struct Triple\n" +
		"    var x is i32\n" +
		"    var y is i32\n" +
		"    var z is i32\n" +
		"\n" +
		"def sumAt(p is ptr of Triple, i is i32) returns i32\n" +
		"    return p[i].x\n"
	out, g := compile(t, src)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if !strings.Contains(out, "mul i32 %p1, 12") {
		t.Fatalf("expected a byte-scaling multiply by the struct's size (12):\n%s", out)
	}
	if !strings.Contains(out, "getelementptr i8, ptr") {
		t.Fatalf("expected a byte-addressed getelementptr over the struct pointee:\n%s", out)
	}
	if strings.Contains(out, "getelementptr ptr, ptr") {
		t.Fatalf("must not use an element-indexed GEP with the opaque \"ptr\" element type:\n%s", out)
	}
}

func TestStructPointerArithIsByteScaled(t *testing.T) {
	src := "struct Triple\n" +
		"    var x is i32\n" +
		"    var y is i32\n" +
		"    var z is i32\n" +
		"\n" +
		"def advance(p is ptr of Triple, i is i32) returns ptr of Triple\n" +
		"    return p + i\n"
	out, g := compile(t, src)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if !strings.Contains(out, "mul i32 %p1, 12") {
		t.Fatalf("expected a byte-scaling multiply by the struct's size (12):\n%s", out)
	}
	if !strings.Contains(out, "getelementptr i8, ptr") {
		t.Fatalf("expected a byte-addressed getelementptr over the struct pointee:\n%s", out)
	}
	if strings.Contains(out, "getelementptr ptr, ptr") {
		t.Fatalf("must not use an element-indexed GEP with the opaque \"ptr\" element type:\n%s", out)
	}
}

// TestModuleQualificationThroughNamespace exercises the `.`-traversal
// codegen path end to end: main imports core.io (module id 2) but never
// core itself, so "core" only exists as a synthesized namespace — the
// first `.` hop must resolve it via step 7 of name resolution, and the
// second must walk moduleAccess down into the real leaf module's function.
func TestModuleQualificationThroughNamespace(t *testing.T) {
	src := "def run() returns i32\n    return core.io.magic()\n" +
		"def magic() returns i32\n    return 7\n"
	ioStart := strings.Index(src, "def magic")
	if ioStart < 0 {
		t.Fatal("fixture source malformed")
	}
	toks := lexAll(src)
	for i := range toks {
		if toks[i].Start >= ioStart {
			toks[i].ModuleID = 2
		} else {
			toks[i].ModuleID = 0
		}
	}

	in := types.NewInterner()
	dotted := map[int]string{0: "main", 2: "core.io"}
	importsByModule := map[int][]string{0: {"core.io"}}
	pos := diag.NewPositionResolver(src, []diag.ModuleSpan{{RelPath: "main.as", StartOffset: 0}, {RelPath: "io.as", StartOffset: ioStart}})
	p := parser.New(src, toks, in, dotted, 0, pos)
	prog := p.Parse()
	if p.Diagnostics().HadError() {
		t.Fatalf("parse errors: %+v", p.Diagnostics().Reports())
	}

	resolver := sema.NewResolver(prog, map[string]int{"main": 0, "core.io": 2}, importsByModule)
	g := New(src, toks, in, resolver, dotted, 0, pos)
	out := g.Generate(prog)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if !strings.Contains(out, "call i32 @aster_core_io__magic()") {
		t.Fatalf("expected a call to the qualified core.io.magic, got:\n%s", out)
	}
}

func TestPointerDifferenceEmission(t *testing.T) {
	src := "def diff(a is ptr of i32, b is ptr of i32) returns isize\n" +
		"    return a - b\n"
	out, g := compile(t, src)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if !strings.Contains(out, "ptrtoint ptr") {
		t.Fatalf("expected ptrtoint in pointer difference:\n%s", out)
	}
	if !strings.Contains(out, "sdiv i64") {
		t.Fatalf("expected a trailing sdiv by element size:\n%s", out)
	}
}

func TestVarDeclInferredType(t *testing.T) {
	src := "def addOne(x is i32) returns i32\n" +
		"    var y = x + 1\n" +
		"    return y\n"
	out, g := compile(t, src)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if !strings.Contains(out, "alloca i32") {
		t.Fatalf("expected y's slot allocated as i32:\n%s", out)
	}
	if !strings.Contains(out, "entry:\n  %l0 = alloca i32") {
		t.Fatalf("expected the alloca to be the first entry-block instruction:\n%s", out)
	}
}

func TestIfElseConverges(t *testing.T) {
	src := "def abs(x is i32) returns i32\n" +
		"    if x < 0 then\n" +
		"        return 0 - x\n" +
		"    else\n" +
		"        return x\n"
	out, g := compile(t, src)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if strings.Count(out, "ret i32") != 2 {
		t.Fatalf("expected two returns, one per arm:\n%s", out)
	}
}

func TestWhileLoopSignedCondition(t *testing.T) {
	src := "def countDown(n is i32) returns i32\n" +
		"    var i = n\n" +
		"    while i > 0 do\n" +
		"        i = i - 1\n" +
		"    return i\n"
	out, g := compile(t, src)
	if g.HadError() {
		t.Fatalf("unexpected diagnostics: %+v", g.Diagnostics().Reports())
	}
	if !strings.Contains(out, "icmp sgt i32") {
		t.Fatalf("expected a signed > comparison driving the loop condition:\n%s", out)
	}
}
