package module

import "github.com/0xSMW/aster/internal/lexer"

// TagTokens assigns each token its owning module id by a single
// monotonically advancing sweep over the modules' start offsets
// (spec.md §4.2). modules must be sorted by StartOffset ascending, which
// holds for any Unit produced by Loader.assemble since modules are appended
// to the unit in the same order their Info records are built. Tokens
// before the first module's start offset belong to module 0, matching
// spec.md's "entry module" fallback. EOF tokens are left untouched.
func TagTokens(tokens []lexer.Token, modules []Info) {
	if len(modules) == 0 {
		return
	}
	m := 0
	for i := range tokens {
		if tokens[i].Kind == lexer.EOF {
			continue
		}
		for m+1 < len(modules) && modules[m+1].StartOffset <= tokens[i].Start {
			m++
		}
		tokens[i].ModuleID = modules[m].ID
	}
}
