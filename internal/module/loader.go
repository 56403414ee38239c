package module

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xSMW/aster/internal/diag"
)

// Loader walks the `use` dependency graph depth-first from an entry file
// and assembles the annotated compilation unit (spec.md §4.1). It keeps
// the teacher's loader shape: a visited-by-canonical-path map, filled before
// a module's dependencies are walked, so a module reached a second time is
// skipped rather than loaded again. There is no separate load stack, and an
// import cycle is not reported as an error.
type Loader struct {
	resolver *Resolver

	visited map[string]int // canonical abs path -> module id
	order   []*fileModule  // postorder
}

type fileModule struct {
	id       int
	absPath  string
	dotted   string
	relPath  string
	imports  []string
	stripped string
}

// NewLoader builds a Loader over the given Resolver.
func NewLoader(r *Resolver) *Loader {
	return &Loader{resolver: r, visited: map[string]int{}}
}

// Load runs the DFS-postorder walk starting at entryPath (the root
// module's absolute file path) and returns the assembled Unit.
func (l *Loader) Load(entryPath string) (*Unit, error) {
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, diag.Wrap(diag.New(diag.PhaseResolve, diag.ResIOFailure, err.Error()))
	}
	rootDotted := l.dottedForEntry(abs)
	if err := l.visit(abs, rootDotted, ""); err != nil {
		return nil, err
	}
	return l.assemble()
}

// visit loads one file module (if not already visited), scans its
// preamble, resolves its imports, recurses into each dependency in source
// order, then appends itself to the postorder list.
func (l *Loader) visit(absPath, dotted, importingFrom string) error {
	if _, ok := l.visited[absPath]; ok {
		return nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return diag.Wrap(diag.New(diag.PhaseResolve, diag.ResModuleNotFound,
			fmt.Sprintf("cannot read module %q (imported from %q): %v", absPath, importingFrom, err)))
	}

	pre := ScanPreamble(string(content))

	id := len(l.order)
	l.visited[absPath] = id
	fm := &fileModule{
		id:       id,
		absPath:  absPath,
		dotted:   dotted,
		relPath:  l.relPathFor(absPath),
		imports:  pre.Imports,
		stripped: pre.Stripped,
	}

	for _, imp := range fm.imports {
		depPath, err := l.resolver.ResolveImport(imp)
		if err != nil {
			return err
		}
		depAbs, err := filepath.Abs(depPath)
		if err != nil {
			return diag.Wrap(diag.New(diag.PhaseResolve, diag.ResIOFailure, err.Error()))
		}
		if err := l.visit(depAbs, imp, dotted); err != nil {
			return err
		}
	}

	l.order = append(l.order, fm)
	return nil
}

// assemble concatenates every postorder-visited module's content with
// marker comments, computing the running SHA-256 and per-module start
// offsets (spec.md §4.1's unit-assembly algorithm).
func (l *Loader) assemble() (*Unit, error) {
	var buf strings.Builder
	h := sha256.New()
	infos := make([]Info, 0, len(l.order))

	write := func(s string) {
		buf.WriteString(s)
		h.Write([]byte(s))
	}

	for _, fm := range l.order {
		startOffset := buf.Len()
		write(fmt.Sprintf("# --- module: %s ---\n", fm.relPath))
		for _, imp := range fm.imports {
			write(fmt.Sprintf("# --- use: %s ---\n", imp))
		}
		write(fm.stripped)
		write("\n\n")

		kind := KindFile
		if fm.id == 0 {
			kind = KindRoot
		}
		infos = append(infos, Info{
			ID:          fm.id,
			Dotted:      fm.dotted,
			Kind:        kind,
			AbsPath:     fm.absPath,
			RelPath:     fm.relPath,
			StartOffset: startOffset,
			Imports:     fm.imports,
		})
	}

	unitStr := buf.String()
	sum := h.Sum(nil)
	var hash [32]byte
	copy(hash[:], sum)

	bytes := append([]byte(unitStr), 0) // NUL terminator, not hashed

	return &Unit{
		Bytes:    bytes,
		Hash:     hash,
		Modules:  SynthesizeNamespaces(infos, len(unitStr)),
		Features: detectFeatures(infos),
	}, nil
}

func (l *Loader) relPathFor(absPath string) string {
	if rel, err := filepath.Rel(l.resolver.WorkspaceRoot, absPath); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	for name, depRoot := range l.resolver.Lock.Deps {
		if rel, err := filepath.Rel(depRoot, absPath); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(filepath.Join("libraries", name, rel))
		}
	}
	return filepath.ToSlash(absPath)
}

func (l *Loader) dottedForEntry(absPath string) string {
	rel, err := filepath.Rel(filepath.Join(l.resolver.WorkspaceRoot, "src"), absPath)
	if err != nil {
		return "main"
	}
	return DottedName(rel, "")
}
