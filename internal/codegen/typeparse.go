package codegen

import (
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/types"
)

// parseTypeTokens implements the same `Type := '(' ')' | 'slice' 'of' Type
// | 'ptr' 'of' Type | 'ref' Type | 'mut' 'ref' Type | <prim> |
// <struct-name>` grammar as internal/parser/parser_type.go (spec.md
// §4.3). It is duplicated here, rather than shared, because codegen walks
// a raw token slice with its own cursor (the function body range,
// reparsed per spec.md §4.3) while internal/parser's parseType is a
// private method on its own cursor type. Each side keeps its own copy of
// the primitive-name table (codegenPrimNames here), with the same entries.
var codegenPrimNames = map[string]func() *types.Type{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
	"usize": types.Usize, "isize": types.Isize,
	"f32": types.F32, "f64": types.F64,
	"void": types.Void, "bool": types.Bool,
}

func parseTypeTokens(tokens []lexer.Token, pos int, src string, in *types.Interner) (*types.Type, int, bool) {
	if pos >= len(tokens) {
		return nil, pos, false
	}
	tok := tokens[pos]
	switch tok.Kind {
	case lexer.LPAREN:
		if pos+1 < len(tokens) && tokens[pos+1].Kind == lexer.RPAREN {
			return types.Void(), pos + 2, true
		}
		return nil, pos, false
	case lexer.SLICE, lexer.PTR:
		if pos+1 < len(tokens) && tokens[pos+1].Kind == lexer.OF {
			elem, next, ok := parseTypeTokens(tokens, pos+2, src, in)
			if !ok {
				return nil, pos, false
			}
			return in.Pointer(elem, true), next, true
		}
		return nil, pos, false
	case lexer.MUT:
		if pos+1 < len(tokens) && tokens[pos+1].Kind == lexer.REF {
			elem, next, ok := parseTypeTokens(tokens, pos+2, src, in)
			if !ok {
				return nil, pos, false
			}
			return in.Pointer(elem, true), next, true
		}
		return nil, pos, false
	case lexer.REF:
		elem, next, ok := parseTypeTokens(tokens, pos+1, src, in)
		if !ok {
			return nil, pos, false
		}
		return in.Pointer(elem, false), next, true
	case lexer.IDENT:
		name := tok.Text(src)
		switch name {
		case "String":
			return in.Pointer(types.U8(), false), pos + 1, true
		case "MutString":
			return in.Pointer(types.U8(), true), pos + 1, true
		case "File":
			return in.Pointer(types.Void(), false), pos + 1, true
		}
		if ctor, ok := codegenPrimNames[name]; ok {
			return ctor(), pos + 1, true
		}
		if st, ok := in.Struct(name); ok {
			return st, pos + 1, true
		}
		return nil, pos, false
	}
	return nil, pos, false
}

// parseType advances fg's cursor past one Type production, per the
// grammar above.
func (fg *FuncGen) parseType() (*types.Type, bool) {
	t, next, ok := parseTypeTokens(fg.tokens, fg.pos, fg.src, fg.gen.interner)
	if !ok {
		return nil, false
	}
	fg.pos = next
	return t, true
}
