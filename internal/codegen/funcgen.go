package codegen

import (
	"fmt"
	"io"
	"sort"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// loopCtx is one entry of the bounded loop-context stack (spec.md §4.6):
// break targets end_bb, continue targets cond_bb.
type loopCtx struct {
	condBB string
	endBB  string
}

// FuncGen holds all scratch state for compiling one function body: a
// cursor over its token sub-range, the local-variable scope chain, the
// monotone %tN/bbN counters, the loop stack, and the current block's
// terminated flag (spec.md §4.6).
type FuncGen struct {
	gen *Generator
	fn  *ast.Func

	src    string
	tokens []lexer.Token
	pos    int

	out io.Writer

	scope       *scope
	tempCounter int
	lblCounter  int
	loops       []loopCtx
	terminated  bool

	// collecting is true during the locals prepass (spec.md §4.6): the
	// whole body is walked once against a discarded sink purely to
	// harvest `var`/`let` names and types in encounter order, before the
	// real emission pass replays the same walk with their slots already
	// allocated.
	collecting bool
	locals     []*localSlot
}

// localSlot is one hoisted `var`/`let` binding: its name (for the scope
// chain), inferred/declared type, and the %lN it was assigned during the
// collecting pass.
type localSlot struct {
	name    string
	typ     *types.Type
	ssaName string
}

// newFuncGen slices the function's token range out of the full tagged
// stream: tokens[BodyStart's INDENT index+1 : BodyEnd's DEDENT index]
// (exclusive of both delimiters), since internal/parser recorded only
// their byte offsets.
func (g *Generator) newFuncGen(fn *ast.Func, out io.Writer) *FuncGen {
	indentIdx := tokenIndexAtStart(g.tokens, fn.BodyStart)
	dedentIdx := tokenIndexAtStart(g.tokens, fn.BodyEnd)
	// Blocks closing at the same offset emit several DEDENTs with one Start,
	// innermost first; a top-level body's own DEDENT is the last of them.
	for dedentIdx+1 < len(g.tokens) && g.tokens[dedentIdx].Kind == lexer.DEDENT &&
		g.tokens[dedentIdx+1].Kind == lexer.DEDENT && g.tokens[dedentIdx+1].Start == fn.BodyEnd {
		dedentIdx++
	}
	var body []lexer.Token
	if indentIdx+1 <= dedentIdx && dedentIdx <= len(g.tokens) {
		body = g.tokens[indentIdx+1 : dedentIdx]
	}
	fg := &FuncGen{
		gen:    g,
		fn:     fn,
		src:    g.src,
		tokens: body,
		out:    out,
		scope:  newScope(nil),
	}
	for i, p := range fn.Params {
		fg.scope.define(p.Name, Value{Type: p.Type, Kind: KindParam, Name: fmt.Sprintf("%%p%d", i)})
	}
	return fg
}

func tokenIndexAtStart(tokens []lexer.Token, start int) int {
	return sort.Search(len(tokens), func(i int) bool { return tokens[i].Start >= start })
}

func (fg *FuncGen) cur() lexer.Token {
	if fg.pos >= len(fg.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return fg.tokens[fg.pos]
}

func (fg *FuncGen) peek() lexer.Token {
	if fg.pos+1 >= len(fg.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return fg.tokens[fg.pos+1]
}

func (fg *FuncGen) advance() lexer.Token {
	t := fg.cur()
	if fg.pos < len(fg.tokens) {
		fg.pos++
	}
	return t
}

func (fg *FuncGen) curText() string { return fg.cur().Text(fg.src) }

func (fg *FuncGen) atEnd() bool { return fg.pos >= len(fg.tokens) }

func (fg *FuncGen) skipNewlines() {
	for fg.cur().Kind == lexer.NEWLINE {
		fg.advance()
	}
}

func (fg *FuncGen) expect(k lexer.Kind, code, msg string) (lexer.Token, bool) {
	if fg.cur().Kind != k {
		fg.errorHere(code, msg)
		return lexer.Token{}, false
	}
	return fg.advance(), true
}

// errorHere reports a diagnostic anchored at the current token. It is a
// no-op during the collecting pass: that pass walks the same tokens the
// real pass will walk right after, so reporting there too would duplicate
// every diagnostic. Use reportAlways for checks that only make sense
// during collecting itself.
func (fg *FuncGen) errorHere(code, msg string) {
	if fg.collecting {
		return
	}
	fg.reportAlways(code, msg)
}

func (fg *FuncGen) reportAlways(code, msg string) {
	t := fg.cur()
	span := fg.gen.pos.Resolve(t.Start)
	span.Excerpt = diag.TruncateExcerpt(t.Text(fg.src))
	fg.gen.diags.Add(diag.At(diag.PhaseCodegen, code, msg, span))
	fg.gen.hadError = true
}

// reportResolveErr reports a name-resolution failure from internal/sema,
// preserving its original diagnostic code (e.g. diag.SemAmbiguousName)
// instead of re-deriving diag.SemUnknownIdent from the error text — the
// Report sema already built already carries the right Code and message.
// No-op during the collecting pass, like errorHere.
func (fg *FuncGen) reportResolveErr(err error) {
	if fg.collecting {
		return
	}
	if r, ok := diag.As(err); ok {
		fg.gen.diags.Add(r)
		return
	}
	fg.reportAlways(diag.SemUnknownIdent, err.Error())
}

func (fg *FuncGen) newTemp(t *types.Type) Value {
	fg.tempCounter++
	return Value{Type: t, Kind: KindTemp, Name: fmt.Sprintf("%%t%d", fg.tempCounter)}
}

func (fg *FuncGen) newLabel() string {
	fg.lblCounter++
	return fmt.Sprintf("bb%d", fg.lblCounter)
}

func (fg *FuncGen) emit(format string, args ...any) {
	fmt.Fprintf(fg.out, format, args...)
}

// startBlock opens a new block: it writes the label and clears the
// terminated flag. It emits no branch into the new block; callers end the
// previous block themselves (branch, a return, or a conditional branch).
func (fg *FuncGen) startBlock(label string) {
	fg.emit("%s:\n", label)
	fg.terminated = false
}

// freshBlockIfTerminated emits a new (possibly unreachable) label when the
// current block has already ended in a terminator, so the following
// statement always lands in an open block (spec.md §4.6 block tracking).
func (fg *FuncGen) freshBlockIfTerminated() {
	if fg.terminated {
		fg.startBlock(fg.newLabel())
	}
}

func (fg *FuncGen) branch(label string) {
	if fg.terminated {
		return
	}
	fg.emit("  br label %%%s\n", label)
	fg.terminated = true
}
