package module

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/0xSMW/aster/internal/diag"
)

// Lockfile is the parsed `lockfile` directive sequence (spec.md §4.1/§6):
// `lock_version = N` (N in {0,1}) and, when N >= 1, `dep <name> <path>`
// lines resolved to absolute paths.
type Lockfile struct {
	Version int
	Deps    map[string]string // name -> absolute root path
}

// LoadLockfile reads and parses the workspace root's lockfile, if present.
// A missing lockfile is not an error: it is treated as an empty, version-0
// lockfile. A malformed lockfile is fatal (spec.md §4.1's error policy).
func LoadLockfile(workspaceRoot string) (*Lockfile, error) {
	path := filepath.Join(workspaceRoot, "lockfile")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Lockfile{Deps: map[string]string{}}, nil
	}
	if err != nil {
		return nil, diag.Wrap(diag.New(diag.PhaseResolve, diag.ResIOFailure, fmt.Sprintf("reading lockfile: %v", err)))
	}
	defer f.Close()

	lf := &Lockfile{Deps: map[string]string{}}
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := cutPrefix(line, "lock_version"); ok {
			rest = strings.TrimSpace(rest)
			rest = strings.TrimPrefix(rest, "=")
			rest = strings.TrimSpace(rest)
			n, err := strconv.Atoi(rest)
			if err != nil || (n != 0 && n != 1) {
				return nil, lockfileSyntaxError(lineNo, "lock_version must be 0 or 1")
			}
			lf.Version = n
			continue
		}
		if rest, ok := cutPrefix(line, "dep"); ok {
			fields := strings.Fields(rest)
			if len(fields) != 2 {
				return nil, lockfileSyntaxError(lineNo, "dep directive requires <name> <path>")
			}
			if lf.Version < 1 {
				return nil, lockfileSyntaxError(lineNo, "dep directive requires lock_version >= 1")
			}
			name, relPath := fields[0], fields[1]
			abs := relPath
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(workspaceRoot, relPath)
			}
			lf.Deps[name] = abs
			continue
		}
		return nil, lockfileSyntaxError(lineNo, "unrecognized directive: "+line)
	}
	if err := sc.Err(); err != nil {
		return nil, diag.Wrap(diag.New(diag.PhaseResolve, diag.ResIOFailure, fmt.Sprintf("reading lockfile: %v", err)))
	}
	return lf, nil
}

func cutPrefix(line, word string) (string, bool) {
	if line == word {
		return "", true
	}
	if strings.HasPrefix(line, word+" ") || strings.HasPrefix(line, word+"\t") {
		return line[len(word):], true
	}
	if strings.HasPrefix(line, word+"=") {
		return line[len(word):], true
	}
	return "", false
}

func lockfileSyntaxError(line int, msg string) error {
	return diag.Wrap(diag.New(diag.PhaseResolve, diag.ResLockfileSyntax, fmt.Sprintf("lockfile:%d: %s", line, msg)))
}
