package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xSMW/aster/internal/lexer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, markerFile), "")
	return root
}

func TestScanPreambleStripsUseKeepsComments(t *testing.T) {
	src := "# header comment\nuse core.io\n\ndef main() returns i32\n    return 0\n"
	pre := ScanPreamble(src)
	if len(pre.Imports) != 1 || pre.Imports[0] != "core.io" {
		t.Fatalf("Imports = %v, want [core.io]", pre.Imports)
	}
	want := "# header comment\n\ndef main() returns i32\n    return 0\n"
	if pre.Stripped != want {
		t.Fatalf("Stripped = %q, want %q", pre.Stripped, want)
	}
}

func TestLoadMinimalProgramSingleModuleNoUseMarkers(t *testing.T) {
	root := setupWorkspace(t)
	entry := filepath.Join(root, "src", "main.as")
	writeFile(t, entry, "def main() returns i32\n    return 0\n")

	r, err := NewResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(r)
	unit, err := l.Load(entry)
	if err != nil {
		t.Fatal(err)
	}
	if len(unit.Modules) != 1 {
		t.Fatalf("Modules = %d, want 1", len(unit.Modules))
	}
	s := string(unit.Bytes)
	if !contains(s, "# --- module: src/main.as ---") {
		t.Errorf("missing module marker in unit: %q", s)
	}
	if contains(s, "# --- use:") {
		t.Errorf("expected no use markers, got: %q", s)
	}
	if unit.Bytes[len(unit.Bytes)-1] != 0 {
		t.Error("unit must be NUL-terminated")
	}
}

func TestPostorderInvariant(t *testing.T) {
	root := setupWorkspace(t)
	writeFile(t, filepath.Join(root, "src", "core", "io.as"), "const X is i32 = 1\n")
	writeFile(t, filepath.Join(root, "src", "main.as"), "use core.io\n\ndef main() returns i32\n    return 0\n")

	r, err := NewResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(r)
	unit, err := l.Load(filepath.Join(root, "src", "main.as"))
	if err != nil {
		t.Fatal(err)
	}
	// core.io, main, and the "core" namespace synthesized from core.io's
	// dotted prefix.
	if len(unit.Modules) != 3 {
		t.Fatalf("Modules = %d, want 3", len(unit.Modules))
	}
	// dependency (core.io) must precede the importer (main) in the unit.
	if unit.Modules[0].Dotted != "core.io" {
		t.Fatalf("Modules[0] = %s, want core.io first (postorder)", unit.Modules[0].Dotted)
	}
	if unit.Modules[0].StartOffset >= unit.Modules[1].StartOffset {
		t.Fatal("dependency's start offset must precede the importer's")
	}
}

func TestUnitDeterminism(t *testing.T) {
	root := setupWorkspace(t)
	writeFile(t, filepath.Join(root, "src", "core", "io.as"), "const X is i32 = 1\n")
	writeFile(t, filepath.Join(root, "src", "main.as"), "use core.io\n\ndef main() returns i32\n    return 0\n")

	load := func() *Unit {
		r, err := NewResolver(root)
		if err != nil {
			t.Fatal(err)
		}
		l := NewLoader(r)
		u, err := l.Load(filepath.Join(root, "src", "main.as"))
		if err != nil {
			t.Fatal(err)
		}
		return u
	}
	a := load()
	b := load()
	if a.Hash != b.Hash {
		t.Fatal("hash must be deterministic across identical loads")
	}
	if string(a.Bytes) != string(b.Bytes) {
		t.Fatal("unit bytes must be byte-identical across identical loads")
	}
}

func TestTokenTaggingMonotonicity(t *testing.T) {
	root := setupWorkspace(t)
	writeFile(t, filepath.Join(root, "src", "core", "io.as"), "const X is i32 = 1\n")
	writeFile(t, filepath.Join(root, "src", "main.as"), "use core.io\n\ndef main() returns i32\n    return 0\n")

	r, err := NewResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(r)
	unit, err := l.Load(filepath.Join(root, "src", "main.as"))
	if err != nil {
		t.Fatal(err)
	}

	lx := lexer.New(string(unit.Bytes))
	var tokens []lexer.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	TagTokens(tokens, unit.Modules)
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Kind == lexer.EOF || tokens[i-1].Kind == lexer.EOF {
			continue
		}
		if tokens[i].ModuleID < tokens[i-1].ModuleID {
			t.Fatalf("token %d module id %d < preceding token's %d", i, tokens[i].ModuleID, tokens[i-1].ModuleID)
		}
	}
}

func TestLockfileDepResolution(t *testing.T) {
	root := setupWorkspace(t)
	writeFile(t, filepath.Join(root, "lockfile"), "lock_version = 1\ndep widgets ../widgets\n")
	depRoot := filepath.Join(root, "..", "widgets")
	writeFile(t, filepath.Join(depRoot, "src", "lib.as"), "const W is i32 = 1\n")
	writeFile(t, filepath.Join(root, "src", "main.as"), "use widgets\n\ndef main() returns i32\n    return 0\n")

	r, err := NewResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(r)
	unit, err := l.Load(filepath.Join(root, "src", "main.as"))
	if err != nil {
		t.Fatal(err)
	}
	if len(unit.Modules) != 2 {
		t.Fatalf("Modules = %d, want 2", len(unit.Modules))
	}
}

func TestLockfileRejectsDepBeforeVersion1(t *testing.T) {
	root := setupWorkspace(t)
	writeFile(t, filepath.Join(root, "lockfile"), "dep widgets ../widgets\n")
	if _, err := LoadLockfile(root); err == nil {
		t.Fatal("expected error for dep directive under lock_version 0")
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}
