package parser

import (
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// primNames maps the fixed primitive-type identifier spellings (spec.md
// §4.3's grammar) to their singleton Type. These are ordinary identifiers,
// not reserved keywords — the lexer has no TYPE token kind for them.
var primNames = map[string]func() *types.Type{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
	"usize": types.Usize, "isize": types.Isize,
	"f32": types.F32, "f64": types.F64,
	"void": types.Void, "bool": types.Bool,
}

// parseType implements `Type := '(' ')' | 'slice' 'of' Type | 'ptr' 'of'
// Type | 'ref' Type | 'mut' 'ref' Type | <prim> | <struct-name>`
// (spec.md §4.3), with one dedicated branch per grammar alternative,
// mirroring the teacher's parseType entry-point-per-alternative style.
//
// The type system (internal/types) models only a single pointer kind, so
// `slice of T` and `ptr of T` both lower to a pointer-to-T — `slice`
// carries no distinct runtime representation in this core, matching the
// absence of a slice variant from spec.md §3's tagged union. `ref T` is an
// immutable pointer-to-T, `mut ref T` a mutable one, and `ptr of T` is
// treated as mutable (no modifier keyword narrows it further).
func (p *Parser) parseType() (*types.Type, bool) {
	switch p.cur().Kind {
	case lexer.LPAREN:
		p.advance()
		if _, ok := p.expect(lexer.RPAREN, diag.ParExpectType, "expected ')' closing void type '()'"); !ok {
			return nil, false
		}
		return types.Void(), true

	case lexer.SLICE:
		p.advance()
		if _, ok := p.expect(lexer.OF, diag.ParExpectKeyword, "expected 'of' after 'slice'"); !ok {
			return nil, false
		}
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return p.interner.Pointer(elem, true), true

	case lexer.PTR:
		p.advance()
		if _, ok := p.expect(lexer.OF, diag.ParExpectKeyword, "expected 'of' after 'ptr'"); !ok {
			return nil, false
		}
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return p.interner.Pointer(elem, true), true

	case lexer.MUT:
		p.advance()
		if _, ok := p.expect(lexer.REF, diag.ParExpectKeyword, "expected 'ref' after 'mut'"); !ok {
			return nil, false
		}
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return p.interner.Pointer(elem, true), true

	case lexer.REF:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return p.interner.Pointer(elem, false), true

	case lexer.IDENT:
		name := p.curText()
		switch name {
		case "String":
			p.advance()
			return p.interner.Pointer(types.U8(), false), true
		case "MutString":
			p.advance()
			return p.interner.Pointer(types.U8(), true), true
		case "File":
			p.advance()
			return p.interner.Pointer(types.Void(), false), true
		}
		if ctor, ok := primNames[name]; ok {
			p.advance()
			return ctor(), true
		}
		if st, ok := p.interner.Struct(name); ok {
			p.advance()
			return st, true
		}
		p.errorHere(diag.ParExpectType, "unknown type name "+name)
		p.advance()
		return nil, false

	default:
		p.errorHere(diag.ParExpectType, "expected a type")
		return nil, false
	}
}
