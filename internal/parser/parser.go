// Package parser implements aster's declaration parser (spec.md §4.3): a
// cursor over the tagged token stream that recognizes `const`, `struct`,
// `extern def`, and `[noalloc] def` top-level forms. It keeps the
// teacher's cursor-based shape (curToken/peekToken, an accumulated error
// list, a panic-recovery wrapper around the entry point) without the
// Pratt-parsing machinery the teacher needs for full expression ASTs —
// aster's function bodies are captured as an unparsed token range
// (spec.md §4.3) and only later walked directly by internal/codegen.
package parser

import (
	"fmt"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// Parser walks a tagged token stream, producing top-level declarations.
type Parser struct {
	src    string
	tokens []lexer.Token
	pos    int

	interner *types.Interner
	diags    *diag.Collector

	nextFuncID int

	// duplicate-declaration tracking, per module (spec.md invariant (i)).
	namesByModule map[int]map[string]bool

	moduleDotted map[int]string // module id -> dotted name, for IR mangling
	entryModule  int

	posResolver *diag.PositionResolver // nil in tests that don't care about real spans
}

// New builds a Parser over tokens already tagged with module ids
// (internal/module.TagTokens). moduleDotted maps each module id to its
// dotted logical name; entryModule is the id of the root module, whose
// `main` function keeps its unmangled IR name. pos resolves a token's byte
// offset to a module-relative file/line/col for diagnostics (spec.md §7);
// it may be nil, in which case diagnostics carry a zero-value Span.
func New(src string, tokens []lexer.Token, in *types.Interner, moduleDotted map[int]string, entryModule int, pos *diag.PositionResolver) *Parser {
	return &Parser{
		src:           src,
		tokens:        tokens,
		interner:      in,
		diags:         diag.NewCollector(),
		namesByModule: map[int]map[string]bool{},
		moduleDotted:  moduleDotted,
		entryModule:   entryModule,
		posResolver:   pos,
	}
}

// Diagnostics returns every non-fatal diagnostic collected while parsing.
func (p *Parser) Diagnostics() *diag.Collector { return p.diags }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) curText() string { return p.cur().Text(p.src) }

func (p *Parser) atEOF() bool { return p.cur().Kind == lexer.EOF }

// skipNewlines advances past any run of blank NEWLINE tokens between
// top-level declarations.
func (p *Parser) skipNewlines() {
	for p.cur().Kind == lexer.NEWLINE {
		p.advance()
	}
}

func (p *Parser) errorHere(code, msg string) {
	t := p.cur()
	span := p.posResolver.Resolve(t.Start)
	span.Excerpt = diag.TruncateExcerpt(t.Text(p.src))
	p.diags.Add(diag.At(diag.PhaseParse, code, msg, span))
}

// Parse runs the top-level dispatch loop (spec.md §4.3): forms are
// order-free within a module. A panic anywhere below is converted into a
// parser diagnostic so a single malformed declaration cannot crash the
// whole compilation, matching the teacher's ParseFile recovery wrapper.
func (p *Parser) Parse() (prog *ast.Program) {
	prog = &ast.Program{}
	defer func() {
		if r := recover(); r != nil {
			p.diags.Add(diag.New(diag.PhaseParse, diag.ParUnexpected, fmt.Sprintf("parser panic: %v", r)))
		}
	}()

	for !p.atEOF() {
		p.skipNewlines()
		if p.atEOF() {
			break
		}
		switch p.cur().Kind {
		case lexer.CONST:
			if c := p.parseConst(); c != nil {
				prog.Consts = append(prog.Consts, c)
			}
		case lexer.STRUCT:
			if s := p.parseStruct(); s != nil {
				prog.Structs = append(prog.Structs, s)
			}
		case lexer.EXTERN:
			if f := p.parseExternDef(); f != nil {
				prog.Funcs = append(prog.Funcs, f)
			}
		case lexer.NOALLOC, lexer.DEF:
			if f := p.parseDef(); f != nil {
				prog.Funcs = append(prog.Funcs, f)
			}
		default:
			p.errorHere(diag.ParUnexpected, "expected a top-level declaration")
			p.advance()
		}
	}
	return prog
}

// checkDuplicate enforces spec.md invariant (i): names unique per module
// across consts and functions.
func (p *Parser) checkDuplicate(module int, name string) bool {
	names, ok := p.namesByModule[module]
	if !ok {
		names = map[string]bool{}
		p.namesByModule[module] = names
	}
	if names[name] {
		p.errorHere(diag.ParDuplicateDecl, fmt.Sprintf("duplicate declaration %q in this module", name))
		return false
	}
	names[name] = true
	return true
}

func (p *Parser) expect(k lexer.Kind, code, msg string) (lexer.Token, bool) {
	if p.cur().Kind != k {
		p.errorHere(code, msg)
		return lexer.Token{}, false
	}
	return p.advance(), true
}
