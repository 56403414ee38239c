package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xSMW/aster/internal/diag"
)

// markerFile names the file whose presence identifies a workspace root
// (spec.md §4.1). Its contents are never read; only existence matters.
const markerFile = ".asterroot"

// FindWorkspaceRoot walks upward from entryDir until markerFile is found,
// falling back to the current working directory if no marker is found
// anywhere up to the filesystem root.
func FindWorkspaceRoot(entryDir string) (string, error) {
	dir, err := filepath.Abs(entryDir)
	if err != nil {
		return "", diag.Wrap(diag.New(diag.PhaseResolve, diag.ResIOFailure, err.Error()))
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, markerFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", diag.Wrap(diag.New(diag.PhaseResolve, diag.ResIOFailure, err.Error()))
	}
	return cwd, nil
}

// Resolver resolves `use` import statements to absolute file paths, using
// the workspace root's `src/` tree and the lockfile's dep roots.
type Resolver struct {
	WorkspaceRoot string
	Lock          *Lockfile
}

// NewResolver builds a Resolver rooted at root, loading its lockfile.
func NewResolver(root string) (*Resolver, error) {
	lf, err := LoadLockfile(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{WorkspaceRoot: root, Lock: lf}, nil
}

// ResolveImport maps a dotted `use` path to an absolute source file,
// following spec.md §4.1: `<root>/src/<d with dots→slashes>.as`, or, if the
// first segment names a lockfile dep, `<dep_root>/src/<remainder>.as`
// (`<dep_root>/src/lib.as` when there is no remainder).
func (r *Resolver) ResolveImport(dotted string) (string, error) {
	segments := strings.Split(dotted, ".")
	if len(segments) == 0 || segments[0] == "" {
		return "", unresolvedDepError(dotted)
	}
	if depRoot, ok := r.Lock.Deps[segments[0]]; ok {
		rest := segments[1:]
		if len(rest) == 0 {
			return filepath.Join(depRoot, "src", "lib.as"), nil
		}
		return filepath.Join(depRoot, "src", filepath.Join(rest...)+".as"), nil
	}
	return filepath.Join(r.WorkspaceRoot, "src", filepath.Join(segments...)+".as"), nil
}

// DottedName derives a module's dotted logical name from its path relative
// to the workspace root or a dep root (spec.md §3): `src/core/io.as` ->
// `core.io`; a dep root `libraries/<d>/src/<p>.as` -> `<d>.<p>`; a dep
// `lib.as` -> `<d>`.
func DottedName(relFromSrcRoot string, depName string) string {
	clean := strings.TrimSuffix(relFromSrcRoot, ".as")
	clean = strings.ReplaceAll(clean, string(filepath.Separator), "/")
	if clean == "lib" {
		return depName
	}
	dotted := strings.ReplaceAll(clean, "/", ".")
	if depName == "" {
		return dotted
	}
	return depName + "." + dotted
}

func unresolvedDepError(dotted string) error {
	return diag.Wrap(diag.New(diag.PhaseResolve, diag.ResUnresolvedDep, fmt.Sprintf("cannot resolve import %q", dotted)))
}
