package parser

import (
	"strconv"
	"strings"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// variadicExterns is the fixed small allowlist of externs marked variadic
// (spec.md §4.3).
var variadicExterns = map[string]bool{"printf": true, "open": true, "openat": true}

// parseConst parses `const <name> is <Type> = <literal>`.
func (p *Parser) parseConst() *ast.Const {
	p.advance() // 'const'
	nameTok, ok := p.expect(lexer.IDENT, diag.ParExpectKeyword, "expected constant name")
	if !ok {
		return nil
	}
	name := nameTok.Text(p.src)
	module := nameTok.ModuleID

	if _, ok := p.expect(lexer.IS, diag.ParExpectKeyword, "expected 'is' after constant name"); !ok {
		return nil
	}
	ty, ok := p.parseType()
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.ASSIGN, diag.ParExpectKeyword, "expected '=' in const declaration"); !ok {
		return nil
	}

	c := &ast.Const{Name: name, Module: module, Type: ty}
	switch p.cur().Kind {
	case lexer.INT:
		text := p.curText()
		v, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X"), numBase(text), 64)
		if err != nil {
			p.errorHere(diag.ParBadLiteral, "invalid integer literal")
			return nil
		}
		c.Kind = ast.ConstInt
		c.IntVal = v
		p.advance()
	case lexer.FLOAT:
		c.Kind = ast.ConstFloat
		c.FloatText = p.curText()
		p.advance()
	case lexer.STRING:
		c.Kind = ast.ConstString
		c.StrVal = append([]byte(unquoteString(p.curText())), 0)
		p.advance()
	case lexer.CHAR:
		c.Kind = ast.ConstInt
		c.IntVal = int64(unquoteChar(p.curText()))
		p.advance()
	default:
		p.errorHere(diag.ParBadLiteral, "expected int, float, string, or char literal")
		return nil
	}

	if !p.checkDuplicate(module, name) {
		return nil
	}
	return c
}

func numBase(text string) int {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return 16
	}
	return 10
}

func unquoteString(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' {
		tok = tok[1 : len(tok)-1]
	}
	return strings.ReplaceAll(strings.ReplaceAll(tok, `\"`, `"`), `\\`, `\`)
}

func unquoteChar(tok string) byte {
	if len(tok) >= 3 && tok[0] == '\'' {
		inner := tok[1 : len(tok)-1]
		if strings.HasPrefix(inner, `\`) && len(inner) >= 2 {
			return inner[1]
		}
		if len(inner) > 0 {
			return inner[0]
		}
	}
	return 0
}

// parseStruct parses `struct <Name>\nINDENT (var <field> is <Type>\n)*
// DEDENT`, computing layout immediately (spec.md §4.3). Top-level forms
// are order-free, but struct types are still resolved in a single forward
// pass: a field or parameter referencing a struct declared later in the
// same module will fail to resolve. Callers needing full order-independence
// should parse struct declarations in a first pass before any other form.
func (p *Parser) parseStruct() *ast.StructDecl {
	p.advance() // 'struct'
	nameTok, ok := p.expect(lexer.IDENT, diag.ParExpectKeyword, "expected struct name")
	if !ok {
		return nil
	}
	name := nameTok.Text(p.src)
	module := nameTok.ModuleID

	p.skipNewlines()
	if _, ok := p.expect(lexer.INDENT, diag.ParUnbalanced, "expected indented struct body"); !ok {
		return nil
	}

	var fields []fieldSpec
	for p.cur().Kind != lexer.DEDENT && !p.atEOF() {
		p.skipNewlines()
		if p.cur().Kind == lexer.DEDENT {
			break
		}
		if _, ok := p.expect(lexer.VAR, diag.ParExpectKeyword, "expected 'var' in struct field"); !ok {
			return nil
		}
		fnameTok, ok := p.expect(lexer.IDENT, diag.ParExpectKeyword, "expected field name")
		if !ok {
			return nil
		}
		if _, ok := p.expect(lexer.IS, diag.ParExpectKeyword, "expected 'is' after field name"); !ok {
			return nil
		}
		fty, ok := p.parseType()
		if !ok {
			return nil
		}
		fields = append(fields, fieldSpec{name: fnameTok.Text(p.src), typ: fty})
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT, diag.ParUnbalanced, "expected matching DEDENT closing struct body")

	layout := computeAndRegister(p, name, fields)
	decl := &ast.StructDecl{Name: name, Module: module, Size: layout.Size, Align: layout.Align}
	for _, f := range layout.Fields {
		decl.Fields = append(decl.Fields, ast.Field{Name: f.Name, Type: f.Type, Offset: f.Offset})
	}

	if !p.checkDuplicate(module, name) {
		return nil
	}
	return decl
}

type fieldSpec struct {
	name string
	typ  *types.Type
}

func voidType() *types.Type { return types.Void() }

// computeAndRegister lays out a struct's fields and registers the result
// under name in the parser's interner, so `Type` references to this struct
// parsed after it resolve to the same interned *types.Type. References
// parsed before the declaration do not resolve (see parseStruct).
func computeAndRegister(p *Parser, name string, fields []fieldSpec) *types.Layout {
	specs := make([]types.FieldSpec, len(fields))
	for i, f := range fields {
		specs[i] = types.FieldSpec{Name: f.name, Type: f.typ}
	}
	layout := types.ComputeLayout(specs)
	p.interner.RegisterStruct(name, layout)
	return layout
}

// parseExternDef parses `extern def <name>(<params>) [returns <Type>]`.
func (p *Parser) parseExternDef() *ast.Func {
	p.advance() // 'extern'
	if _, ok := p.expect(lexer.DEF, diag.ParExpectKeyword, "expected 'def' after 'extern'"); !ok {
		return nil
	}
	nameTok, ok := p.expect(lexer.IDENT, diag.ParExpectKeyword, "expected function name")
	if !ok {
		return nil
	}
	name := nameTok.Text(p.src)
	module := nameTok.ModuleID

	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	retType := voidType()
	if p.cur().Kind == lexer.RETURNS {
		p.advance()
		rt, ok := p.parseType()
		if !ok {
			return nil
		}
		retType = rt
	}

	f := &ast.Func{
		ID:         p.allocFuncID(),
		Name:       name,
		Module:     module,
		ReturnType: retType,
		Params:     params,
		IsExtern:   true,
		IsVarargs:  variadicExterns[name],
	}
	f.IRName = ast.MangleIRName(name, p.moduleDotted[module], false, true)
	if !p.checkDuplicate(module, name) {
		return nil
	}
	return f
}

// parseDef parses `[noalloc] def <name>(<params>) [returns <Type>]\nINDENT
// <body> DEDENT`. The body is not parsed here: the parser counts
// INDENT/DEDENT to find the matching DEDENT and records the token range
// (spec.md §4.3); internal/codegen reparses the range directly.
func (p *Parser) parseDef() *ast.Func {
	isNoalloc := false
	if p.cur().Kind == lexer.NOALLOC {
		isNoalloc = true
		p.advance()
	}
	if _, ok := p.expect(lexer.DEF, diag.ParExpectKeyword, "expected 'def'"); !ok {
		return nil
	}
	nameTok, ok := p.expect(lexer.IDENT, diag.ParExpectKeyword, "expected function name")
	if !ok {
		return nil
	}
	name := nameTok.Text(p.src)
	module := nameTok.ModuleID

	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	retType := voidType()
	if p.cur().Kind == lexer.RETURNS {
		p.advance()
		rt, ok := p.parseType()
		if !ok {
			return nil
		}
		retType = rt
	}

	p.skipNewlines()
	bodyStartTok, ok := p.expect(lexer.INDENT, diag.ParUnbalanced, "expected indented function body")
	if !ok {
		return nil
	}
	bodyStart := bodyStartTok.Start

	depth := 1
	for depth > 0 && !p.atEOF() {
		switch p.cur().Kind {
		case lexer.INDENT:
			depth++
		case lexer.DEDENT:
			depth--
		}
		if depth == 0 {
			break
		}
		p.advance()
	}
	bodyEnd := p.cur().Start
	if _, ok := p.expect(lexer.DEDENT, diag.ParUnbalanced, "expected matching DEDENT closing function body"); !ok {
		return nil
	}

	isEntryMain := module == p.entryModule && name == "main"
	f := &ast.Func{
		ID:         p.allocFuncID(),
		Name:       name,
		Module:     module,
		ReturnType: retType,
		Params:     params,
		IsNoalloc:  isNoalloc,
		BodyStart:  bodyStart,
		BodyEnd:    bodyEnd,
	}
	f.IRName = ast.MangleIRName(name, p.moduleDotted[module], isEntryMain, false)
	if !p.checkDuplicate(module, name) {
		return nil
	}
	return f
}

// parseParams parses a comma-separated `<name> is <Type>` list between
// parentheses.
func (p *Parser) parseParams() ([]ast.Param, bool) {
	if _, ok := p.expect(lexer.LPAREN, diag.ParExpectKeyword, "expected '(' opening parameter list"); !ok {
		return nil, false
	}
	var params []ast.Param
	for p.cur().Kind != lexer.RPAREN {
		nameTok, ok := p.expect(lexer.IDENT, diag.ParExpectKeyword, "expected parameter name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(lexer.IS, diag.ParExpectKeyword, "expected 'is' after parameter name"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		params = append(params, ast.Param{Name: nameTok.Text(p.src), Type: ty})
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RPAREN, diag.ParExpectKeyword, "expected ')' closing parameter list"); !ok {
		return nil, false
	}
	return params, true
}

func (p *Parser) allocFuncID() int {
	id := p.nextFuncID
	p.nextFuncID++
	return id
}
