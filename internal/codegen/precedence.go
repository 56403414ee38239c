package codegen

import "github.com/0xSMW/aster/internal/lexer"

// prec is the binary operator precedence table, lowest to highest
// (spec.md §4.6): or; and; ==/!=/is; comparisons; |; ^; &; shifts; +/-;
// */. Table-driven per spec.md §9's "never dynamically dispatched"
// guidance for tagged operations.
var prec = map[lexer.Kind]int{
	lexer.OR:  1,
	lexer.AND: 2,
	lexer.EQ:  3, lexer.NEQ: 3, lexer.IS: 3,
	lexer.LT: 4, lexer.LTE: 4, lexer.GT: 4, lexer.GTE: 4,
	lexer.BAR:   5,
	lexer.CARET: 6,
	lexer.AMP:   7,
	lexer.SHL:   8, lexer.SHR: 8,
	lexer.PLUS: 9, lexer.MINUS: 9,
	lexer.STAR: 10, lexer.SLASH: 10, lexer.PERCENT: 10,
}

// maxPrec is one above the table's highest level. Nothing in the package
// reads it; expression parsing starts at precedence 0.
const maxPrec = 11

// isBinaryOp reports whether k can start a binary operator.
func isBinaryOp(k lexer.Kind) bool {
	_, ok := prec[k]
	return ok
}
