package sema

import (
	"fmt"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/builtins"
	"github.com/0xSMW/aster/internal/diag"
)

// AnalyzeNoalloc runs the `noalloc` transitive analysis (spec.md §4.5)
// over every function the code generator compiled. funcs must be keyed
// by Func.ID; the synthetic calloc/memcpy sentinel id
// (builtins.SentinelFuncID) must not appear as a key and is skipped
// wherever it appears as a callee, per the Open Question decision in
// DESIGN.md. Returns one diagnostic per violating `noalloc` function.
//
// The worklist mirrors internal/link/topo.go's visited-set/queue style,
// generalized from a single DFS pass to a monotone fixpoint: marking a
// function may-allocate never unmarks another (spec.md §8). The loop runs
// at most len(funcs)+1 rounds and stops at the first round that marks
// nothing new.
func AnalyzeNoalloc(funcs map[int]*ast.Func) []*diag.Report {
	mayAlloc := make(map[int]bool, len(funcs))
	for id, f := range funcs {
		if f.IsExtern {
			mayAlloc[id] = builtins.AllocatorSet[f.Name] || !builtins.Whitelist[f.Name]
			continue
		}
		mayAlloc[id] = f.DirectAlloc
	}

	for round := 0; round < len(funcs)+1; round++ {
		changed := false
		for id, f := range funcs {
			if mayAlloc[id] {
				continue
			}
			for _, callee := range f.CalleeIDs {
				if callee == builtins.SentinelFuncID {
					continue
				}
				if mayAlloc[callee] {
					mayAlloc[id] = true
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	var reports []*diag.Report
	for id, f := range funcs {
		if f.IsNoalloc && mayAlloc[id] {
			reports = append(reports, diag.New(diag.PhaseSema, diag.NoallocViolation,
				fmt.Sprintf("function %q is declared noalloc but may transitively allocate", f.Name)))
		}
	}
	return reports
}
