package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/types"
)

// generateFunc lowers one function to a `define ... { ... }` block and
// appends it to body. Locals are hoisted to entry-block allocas (spec.md
// §6's textual dialect requires every alloca to precede the body), so the
// function is compiled twice: once in collecting mode to discover every
// `var`/`let` in encounter order (spec.md §4.6's prepass, also spec.md
// §9's discard-sink type-inference mechanism), then for real against the
// locals the first pass allocated.
func (g *Generator) generateFunc(body *strings.Builder, f *ast.Func) {
	if f.IsExtern {
		return
	}
	g.localCounter = 0

	collect := g.newFuncGen(f, io.Discard)
	collect.collecting = true
	collect.compileBody()

	real := g.newFuncGen(f, nil)
	real.locals = collect.locals
	for _, slot := range real.locals {
		real.scope.define(slot.name, Value{
			Type: slot.typ, Kind: KindLocal, Name: slot.ssaName,
			IsLvalue: true, IsAssignable: true,
		})
	}

	var realBody strings.Builder
	real.out = &realBody
	real.startBlock("entry")
	real.compileBody()
	if !real.terminated {
		if f.ReturnType.Kind == types.KVoid {
			real.emit("  ret void\n")
		} else {
			real.reportAlways(diag.SemMissingReturn, "function "+f.Name+" falls off the end without a return")
			real.emit("  unreachable\n")
		}
	}

	var params []string
	for i, p := range f.Params {
		params = append(params, fmt.Sprintf("%s %%p%d", llvmType(p.Type), i))
	}

	body.WriteString(fmt.Sprintf("define %s @%s(%s) {\n", llvmType(f.ReturnType), f.IRName, strings.Join(params, ", ")))
	body.WriteString("entry:\n")
	for _, slot := range real.locals {
		body.WriteString(fmt.Sprintf("  %s = alloca %s\n", slot.ssaName, llvmType(slot.typ)))
	}
	realStr := realBody.String()
	// drop the "entry:\n" startBlock already wrote into realBody; the
	// allocas above replace it as the block's true first lines.
	if idx := strings.Index(realStr, "entry:\n"); idx == 0 {
		realStr = realStr[len("entry:\n"):]
	}
	body.WriteString(realStr)
	body.WriteString("}\n\n")
}
