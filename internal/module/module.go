// Package module implements aster's multi-module resolver (spec.md §4.1):
// workspace-root discovery, lockfile parsing, use-preamble scanning, a
// DFS-postorder dependency walk, and assembly of the annotated compilation
// unit the rest of the pipeline consumes. It keeps the teacher's
// loader.go shape — a stateful Loader struct with a visited cache keyed by
// canonical path — generalized from AILANG's import resolution to aster's
// lockfile-plus-preamble scheme.
package module

// Kind is a module's lifecycle state (spec.md §3).
type Kind int

const (
	// KindFile is a module loaded from disk.
	KindFile Kind = iota
	// KindNamespace is a synthetic prefix module auto-created for
	// qualified lookups (e.g. "core" from "core.io").
	KindNamespace
	// KindRoot is the entry module.
	KindRoot
)

// Info describes one module in the assembled unit.
type Info struct {
	ID          int
	Dotted      string // dotted logical name, e.g. "core.io"
	Kind        Kind
	AbsPath     string // empty for namespace modules
	RelPath     string // path relative to the workspace root, used in markers
	StartOffset int    // byte offset into Unit.Bytes where this module's content begins
	Imports     []string
}

// Unit is the assembled compilation unit: all modules concatenated in DFS
// postorder, with marker comments, ready for lexing.
type Unit struct {
	Bytes    []byte // NUL-terminated
	Hash     [32]byte
	Modules  []Info
	Features FeatureSet
}
